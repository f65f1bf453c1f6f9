package classifier

import (
	"strings"
	"testing"
	"time"

	"github.com/fakhrymubarak/weatherwise/internal/model"
	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name     string
		question string
		want     model.Intent
	}{
		{
			name:     "general current weather",
			question: "What's the weather in London today?",
			want:     model.Intent{Location: "london", TimePeriod: model.PeriodCurrent, Attribute: model.AttributeGeneral},
		},
		{
			name:     "rain tomorrow in a two word city",
			question: "Will it rain in New York tomorrow?",
			want:     model.Intent{Location: "new york", TimePeriod: model.PeriodTomorrow, Attribute: model.AttributePrecipitation},
		},
		{
			name:     "temperature over the weekend",
			question: "How hot will it be in Tokyo this weekend?",
			want:     model.Intent{Location: "tokyo", TimePeriod: model.PeriodWeekend, Attribute: model.AttributeTemperature},
		},
		{
			name:     "forecast for place",
			question: "forecast for Paris",
			want:     model.Intent{Location: "paris", TimePeriod: model.PeriodCurrent, Attribute: model.AttributeGeneral},
		},
		{
			name:     "place before weather keyword",
			question: "berlin weather this week",
			want:     model.Intent{Location: "berlin", TimePeriod: model.PeriodWeek, Attribute: model.AttributeGeneral},
		},
		{
			name:     "possessive place before keyword",
			question: "What's Sydney's forecast for the next few days?",
			want:     model.Intent{Location: "sydney", TimePeriod: model.PeriodWeek, Attribute: model.AttributeGeneral},
		},
		{
			name:     "for followed by a time word falls through to later pattern",
			question: "Madrid forecast for tomorrow",
			want:     model.Intent{Location: "madrid", TimePeriod: model.PeriodTomorrow, Attribute: model.AttributeGeneral},
		},
		{
			name:     "named weekday",
			question: "How windy will it be in Chicago on Friday?",
			want:     model.Intent{Location: "chicago", TimePeriod: model.PeriodSpecificDay, Day: time.Friday, Attribute: model.AttributeWind},
		},
		{
			name:     "humidity now",
			question: "how humid is it in singapore right now",
			want:     model.Intent{Location: "singapore", TimePeriod: model.PeriodCurrent, Attribute: model.AttributeHumidity},
		},
		{
			name:     "second in anchor is tried when the first yields nothing",
			question: "will it rain in the morning in rome?",
			want:     model.Intent{Location: "rome", TimePeriod: model.PeriodCurrent, Attribute: model.AttributePrecipitation},
		},
		{
			name:     "non-ascii place after in",
			question: "What's the weather in Zürich today?",
			want:     model.Intent{Location: "zürich", TimePeriod: model.PeriodCurrent, Attribute: model.AttributeGeneral},
		},
		{
			name:     "non-ascii two word place",
			question: "Will it rain in São Paulo tomorrow?",
			want:     model.Intent{Location: "são paulo", TimePeriod: model.PeriodTomorrow, Attribute: model.AttributePrecipitation},
		},
		{
			name:     "non-ascii place before weather keyword keeps every word",
			question: "são paulo weather",
			want:     model.Intent{Location: "são paulo", TimePeriod: model.PeriodCurrent, Attribute: model.AttributeGeneral},
		},
		{
			name:     "non-ascii place at end of question",
			question: "How cold is it in Kraków?",
			want:     model.Intent{Location: "kraków", TimePeriod: model.PeriodCurrent, Attribute: model.AttributeTemperature},
		},
		{
			name:     "non-ascii words around the anchor",
			question: "ÜBER wetter in münchen",
			want:     model.Intent{Location: "münchen", TimePeriod: model.PeriodCurrent, Attribute: model.AttributeGeneral},
		},
		{
			name:     "anchor letters inside a non-ascii word are not an anchor",
			question: "weather çin paris",
			want:     model.Intent{NeedsLocation: true, TimePeriod: model.PeriodCurrent, Attribute: model.AttributeGeneral},
		},
		{
			name:     "missing location",
			question: "Is it going to rain tomorrow?",
			want:     model.Intent{NeedsLocation: true, TimePeriod: model.PeriodTomorrow, Attribute: model.AttributePrecipitation},
		},
		{
			name:     "empty input",
			question: "",
			want:     model.Intent{NeedsLocation: true, TimePeriod: model.PeriodCurrent, Attribute: model.AttributeGeneral},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.question))
		})
	}
}

func TestClassify_AttributePriority(t *testing.T) {
	// temperature is checked before precipitation regardless of word order
	for _, q := range []string{
		"Will it rain or will the temperature drop in Oslo?",
		"What temperature will it be and will it rain in Oslo?",
	} {
		assert.Equal(t, model.AttributeTemperature, Classify(q).Attribute, q)
	}

	assert.Equal(t, model.AttributePrecipitation, Classify("rainy and windy in oslo").Attribute)
	assert.Equal(t, model.AttributeHumidity, Classify("humid and breezy in oslo").Attribute)
}

func TestClassify_TimePeriodPriority(t *testing.T) {
	tests := []struct {
		question string
		want     model.TimePeriod
	}{
		{"tomorrow or the weekend in lima", model.PeriodTomorrow},
		{"this weekend or monday in lima", model.PeriodWeekend},
		{"this week, saturday in particular, in lima", model.PeriodWeek},
		{"currently in lima", model.PeriodCurrent},
		{"weather in lima now", model.PeriodCurrent},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Classify(tt.question).TimePeriod, tt.question)
	}
}

func TestClassify_AlwaysClosedEnumerations(t *testing.T) {
	inputs := []string{
		"", "   ", "???", "in", "for the", "weather", "1234", "in 3 days",
		"ÜBER wetter in münchen", "rain rain rain", "monday tuesday",
		"at at at at", "windy.", "what's up",
	}
	for _, in := range inputs {
		got := Classify(in)
		assert.NotContains(t, got.TimePeriod.String(), "TimePeriod(", in)
		assert.NotContains(t, got.Attribute.String(), "Attribute(", in)
		assert.Equal(t, got.Location == "", got.NeedsLocation, in)
		assert.Equal(t, got.Location, strings.TrimSpace(got.Location), in)
	}
}

func TestClassify_LocationNeverStopWord(t *testing.T) {
	for _, q := range []string{
		"weather in the",
		"rain for tomorrow",
		"what is the weather",
		"weather at noon",
	} {
		got := Classify(q)
		assert.Empty(t, got.Location, q)
		assert.True(t, got.NeedsLocation, q)
	}
}
