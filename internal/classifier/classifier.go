// Package classifier turns a free-text weather question into a model.Intent.
//
// Extraction is rule based and deterministic: every field is decided by the
// first matching rule of a fixed, ordered list. Word position in the question
// never matters, only rule order does.
package classifier

import (
	"regexp"
	"strings"
	"time"
	"unicode"

	"github.com/fakhrymubarak/weatherwise/internal/model"
)

// locationPattern locates a place relative to an anchor phrase. When
// trailing is set the place precedes the anchor ("paris weather"),
// otherwise it follows it ("weather in paris").
type locationPattern struct {
	anchor   *regexp.Regexp
	trailing bool
}

// Word edges are spelled out as non-letter runs; \b only knows ASCII.
var locationPatterns = []locationPattern{
	{anchor: regexp.MustCompile(`(?:^|[^\p{L}\p{M}\p{N}])(?:in|at)\s+`)},
	{anchor: regexp.MustCompile(`(?:^|[^\p{L}\p{M}\p{N}])for\s+`)},
	{anchor: regexp.MustCompile(`\s+(?:weather|forecast)(?:$|[^\p{L}\p{M}\p{N}])`), trailing: true},
}

var (
	placeWord   = regexp.MustCompile(`^\p{L}[\p{L}\p{M}.'\-]*$`)
	clauseBreak = "?!,;:"
)

type periodRule struct {
	phrases []string
	period  model.TimePeriod
}

// Checked in order; PeriodSpecificDay and the PeriodCurrent fallback are
// handled after these.
var periodRules = []periodRule{
	{phrases: []string{"tomorrow"}, period: model.PeriodTomorrow},
	{phrases: []string{"weekend"}, period: model.PeriodWeekend},
	{phrases: []string{"this week", "next few days", "coming days"}, period: model.PeriodWeek},
}

var weekdays = map[string]time.Weekday{
	"sunday":    time.Sunday,
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
}

type attributeRule struct {
	attribute model.Attribute
	keywords  []string
}

// attributeRules is the order keyword sets are tried in. A question that
// hits several sets takes the earliest one.
var attributeRules = []attributeRule{
	{model.AttributeTemperature, []string{"temperature", "temp", "hot", "cold", "warm", "cool", "degrees", "heat", "chilly", "freezing"}},
	{model.AttributePrecipitation, []string{"rain", "raining", "rainy", "precipitation", "umbrella", "snow", "snowing", "shower", "showers", "drizzle", "storm", "storms", "wet"}},
	{model.AttributeHumidity, []string{"humidity", "humid", "muggy", "damp"}},
	{model.AttributeWind, []string{"wind", "windy", "breeze", "breezy", "gust", "gusts", "gusty"}},
}

var stopWords = buildStopWords()

func buildStopWords() map[string]struct{} {
	words := []string{
		"a", "an", "the", "my", "our", "your", "it", "it's", "its", "me", "i", "we", "us", "you",
		"there", "here", "outside", "out",
		"what", "what's", "whats", "how", "how's", "hows", "is", "are", "was", "will", "be", "going",
		"to", "does", "do", "should", "can", "could", "would", "tell", "give", "show", "get", "need",
		"today", "tonight", "tomorrow", "now", "currently", "current", "right", "this", "next", "few",
		"coming", "days", "day", "week", "weekend", "morning", "afternoon", "evening", "night", "noon", "midday", "later", "soon",
		"weather", "forecast", "conditions", "like", "look", "looking",
		"in", "at", "for", "on", "over", "during", "of", "and", "or", "with", "about", "near", "around",
	}
	set := make(map[string]struct{}, len(words)+len(weekdays))
	for _, w := range words {
		set[w] = struct{}{}
	}
	for day := range weekdays {
		set[day] = struct{}{}
	}
	for _, rule := range attributeRules {
		for _, kw := range rule.keywords {
			set[kw] = struct{}{}
		}
	}
	return set
}

// Classify maps a question to an Intent. It never fails: fields that cannot
// be extracted fall back to their defaults.
func Classify(text string) model.Intent {
	normalized := strings.ToLower(strings.TrimSpace(text))
	words := tokenize(normalized)

	intent := model.Intent{
		Location:  extractLocation(normalized),
		Attribute: extractAttribute(words),
	}
	intent.NeedsLocation = intent.Location == ""
	intent.TimePeriod, intent.Day = extractTimePeriod(words)
	return intent
}

func extractLocation(text string) string {
	for _, p := range locationPatterns {
		for _, loc := range p.anchor.FindAllStringIndex(text, -1) {
			var place string
			if p.trailing {
				place = placeBefore(text[:loc[0]])
			} else {
				place = placeAfter(text[loc[1]:])
			}
			if place != "" {
				return place
			}
		}
	}
	return ""
}

// placeAfter takes the leading run of place words up to the first stop word.
func placeAfter(rest string) string {
	if i := strings.IndexAny(rest, clauseBreak); i >= 0 {
		rest = rest[:i]
	}
	var place []string
	for _, w := range strings.Fields(rest) {
		w = cleanPlaceWord(w)
		if !isPlaceWord(w) {
			break
		}
		place = append(place, w)
	}
	return strings.Join(place, " ")
}

// placeBefore takes the trailing run of place words preceding the anchor.
func placeBefore(head string) string {
	if i := strings.LastIndexAny(head, clauseBreak); i >= 0 {
		head = head[i+1:]
	}
	fields := strings.Fields(head)
	start := len(fields)
	for start > 0 {
		w := cleanPlaceWord(fields[start-1])
		if !isPlaceWord(w) {
			break
		}
		fields[start-1] = w
		start--
	}
	return strings.Join(fields[start:], " ")
}

func cleanPlaceWord(w string) string {
	w = strings.TrimSuffix(w, "'s")
	return strings.TrimRight(w, ".'")
}

func isPlaceWord(w string) bool {
	if w == "" || !placeWord.MatchString(w) {
		return false
	}
	_, stop := stopWords[w]
	return !stop
}

func extractTimePeriod(words []string) (model.TimePeriod, time.Weekday) {
	joined := " " + strings.Join(words, " ") + " "
	for _, rule := range periodRules {
		for _, phrase := range rule.phrases {
			if strings.Contains(joined, " "+phrase+" ") {
				return rule.period, 0
			}
		}
	}
	for _, w := range words {
		if day, ok := weekdays[w]; ok {
			return model.PeriodSpecificDay, day
		}
	}
	return model.PeriodCurrent, 0
}

func extractAttribute(words []string) model.Attribute {
	for _, rule := range attributeRules {
		if hasAny(words, rule.keywords...) {
			return rule.attribute
		}
	}
	return model.AttributeGeneral
}

// hasAny reports whether any of words equals one of the keywords.
func hasAny(words []string, keywords ...string) bool {
	for _, w := range words {
		for _, kw := range keywords {
			if w == kw {
				return true
			}
		}
	}
	return false
}

func tokenize(text string) []string {
	return strings.FieldsFunc(text, func(r rune) bool {
		return !unicode.IsLetter(r) && r != '\''
	})
}
