package model

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// TimePeriod is the forecast horizon a question is about.
type TimePeriod int

const (
	PeriodCurrent TimePeriod = iota
	PeriodTomorrow
	PeriodWeekend
	PeriodWeek
	PeriodSpecificDay
)

var timePeriodNames = [...]string{
	PeriodCurrent:     "current",
	PeriodTomorrow:    "tomorrow",
	PeriodWeekend:     "weekend",
	PeriodWeek:        "week",
	PeriodSpecificDay: "specific_day",
}

func (p TimePeriod) String() string {
	if p < 0 || int(p) >= len(timePeriodNames) {
		return fmt.Sprintf("TimePeriod(%d)", int(p))
	}
	return timePeriodNames[p]
}

func (p TimePeriod) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.String())
}

func (p *TimePeriod) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	for i, name := range timePeriodNames {
		if name == s {
			*p = TimePeriod(i)
			return nil
		}
	}
	return fmt.Errorf("unknown time period %q", s)
}

// Attribute is the weather dimension a question is about.
type Attribute int

const (
	AttributeGeneral Attribute = iota
	AttributeTemperature
	AttributePrecipitation
	AttributeHumidity
	AttributeWind
)

var attributeNames = [...]string{
	AttributeGeneral:       "general",
	AttributeTemperature:   "temperature",
	AttributePrecipitation: "precipitation",
	AttributeHumidity:      "humidity",
	AttributeWind:          "wind",
}

func (a Attribute) String() string {
	if a < 0 || int(a) >= len(attributeNames) {
		return fmt.Sprintf("Attribute(%d)", int(a))
	}
	return attributeNames[a]
}

func (a Attribute) MarshalJSON() ([]byte, error) {
	return json.Marshal(a.String())
}

func (a *Attribute) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	for i, name := range attributeNames {
		if name == s {
			*a = Attribute(i)
			return nil
		}
	}
	return fmt.Errorf("unknown attribute %q", s)
}

// Intent is the structured form of a weather question.
// Day is only meaningful when TimePeriod is PeriodSpecificDay.
type Intent struct {
	Location      string       `json:"location,omitempty"`
	NeedsLocation bool         `json:"needs_location"`
	TimePeriod    TimePeriod   `json:"time_period"`
	Attribute     Attribute    `json:"attribute"`
	Day           time.Weekday `json:"-"`
}

// intentJSON is the wire form of Intent. The day travels by name and only
// for specific-day intents, so Sunday is not lost to its zero value.
type intentJSON struct {
	Location      string     `json:"location,omitempty"`
	NeedsLocation bool       `json:"needs_location"`
	TimePeriod    TimePeriod `json:"time_period"`
	Attribute     Attribute  `json:"attribute"`
	Day           string     `json:"day,omitempty"`
}

func (i Intent) MarshalJSON() ([]byte, error) {
	out := intentJSON{
		Location:      i.Location,
		NeedsLocation: i.NeedsLocation,
		TimePeriod:    i.TimePeriod,
		Attribute:     i.Attribute,
	}
	if i.TimePeriod == PeriodSpecificDay {
		out.Day = i.Day.String()
	}
	return json.Marshal(out)
}

func (i *Intent) UnmarshalJSON(b []byte) error {
	var in intentJSON
	if err := json.Unmarshal(b, &in); err != nil {
		return err
	}
	day, err := parseWeekday(in.Day)
	if err != nil {
		return err
	}
	*i = Intent{
		Location:      in.Location,
		NeedsLocation: in.NeedsLocation,
		TimePeriod:    in.TimePeriod,
		Attribute:     in.Attribute,
		Day:           day,
	}
	return nil
}

// parseWeekday accepts an English day name in any case; "" is Sunday.
func parseWeekday(name string) (time.Weekday, error) {
	if name == "" {
		return time.Sunday, nil
	}
	for d := time.Sunday; d <= time.Saturday; d++ {
		if strings.EqualFold(d.String(), name) {
			return d, nil
		}
	}
	return 0, fmt.Errorf("unknown weekday %q", name)
}

// ForecastDays returns how many forecast days are needed to answer the intent.
func (i Intent) ForecastDays() int {
	switch i.TimePeriod {
	case PeriodCurrent:
		return 1
	case PeriodTomorrow:
		return 2
	default:
		return MaxForecastDays
	}
}
