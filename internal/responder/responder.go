// Package responder renders a classified question and its weather record
// into a display sentence.
package responder

import (
	"fmt"
	"strings"
	"time"

	"github.com/fakhrymubarak/weatherwise/internal/model"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// RainLikelyThreshold is the hourly rain chance above which a day counts as rainy.
const RainLikelyThreshold = 50

const unknownPlace = "that location"

// Respond returns the reply for intent given record. It never returns an
// empty string; a nil or error-marked record yields an apology.
func Respond(intent model.Intent, record *model.WeatherRecord) string {
	place := displayPlace(intent, record)
	if record == nil {
		return fmt.Sprintf("Sorry, I couldn't retrieve weather data for %s.", place)
	}
	if record.HasError() {
		return fmt.Sprintf("Sorry, I couldn't retrieve weather data for %s: %s", place, record.Error)
	}

	switch intent.TimePeriod {
	case model.PeriodTomorrow:
		return tomorrow(intent.Attribute, place, record.Forecast)
	case model.PeriodWeekend:
		return weekend(intent.Attribute, place, record.Forecast)
	case model.PeriodWeek:
		return week(intent.Attribute, place, record.Forecast)
	case model.PeriodSpecificDay:
		return specificDay(intent.Attribute, intent.Day, place, record.Forecast)
	default:
		return current(intent.Attribute, place, record.Current)
	}
}

func displayPlace(intent model.Intent, record *model.WeatherRecord) string {
	name := intent.Location
	if record != nil && record.Location != "" {
		name = record.Location
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return unknownPlace
	}
	// Casers carry state, so one per call.
	return cases.Title(language.English).String(name)
}

func current(attr model.Attribute, place string, c *model.CurrentConditions) string {
	if c == nil {
		return fmt.Sprintf("I don't have current conditions for %s.", place)
	}
	switch attr {
	case model.AttributeTemperature:
		return fmt.Sprintf("It's currently %.0f°C in %s (feels like %.0f°C).", c.TempC, place, c.FeelsLikeC)
	case model.AttributePrecipitation:
		if c.PrecipMM > 0 {
			return fmt.Sprintf("It's currently %s in %s, with %.1f mm of precipitation.", condition(c.Description), place, c.PrecipMM)
		}
		return fmt.Sprintf("There's no precipitation in %s right now (%s).", place, condition(c.Description))
	case model.AttributeHumidity:
		return fmt.Sprintf("The humidity in %s is currently %d%%.", place, c.Humidity)
	case model.AttributeWind:
		if c.WindDir != "" {
			return fmt.Sprintf("The wind in %s is currently %.0f km/h from the %s.", place, c.WindKph, c.WindDir)
		}
		return fmt.Sprintf("The wind in %s is currently %.0f km/h.", place, c.WindKph)
	default:
		return fmt.Sprintf("Currently in %s: %s, %.0f°C, humidity %d%%, wind %.0f km/h.",
			place, condition(c.Description), c.TempC, c.Humidity, c.WindKph)
	}
}

func tomorrow(attr model.Attribute, place string, forecast []model.DailyForecast) string {
	if len(forecast) < 2 {
		return fmt.Sprintf("Sorry, tomorrow's forecast is not available for %s.", place)
	}
	return singleDay(attr, place, "tomorrow", "tomorrow", forecast[1])
}

func specificDay(attr model.Attribute, day time.Weekday, place string, forecast []model.DailyForecast) string {
	if len(forecast) == 0 {
		return noForecast(place)
	}
	for _, d := range forecast {
		if d.Weekday() == day {
			return singleDay(attr, place, "on "+day.String(), day.String(), d)
		}
	}

	offset := (int(day) - int(forecast[0].Weekday()) + 7) % 7
	if offset < len(forecast) {
		return fmt.Sprintf("The forecast for %s on %s is not yet available.", place, day)
	}
	return fmt.Sprintf("%s is beyond the %d-day forecast horizon for %s.", day, len(forecast), place)
}

// singleDay renders one forecast day. when is the adverbial used in prose
// ("tomorrow", "on Saturday"); label names the day on its own.
func singleDay(attr model.Attribute, place, when, label string, d model.DailyForecast) string {
	switch attr {
	case model.AttributeTemperature:
		return fmt.Sprintf("%s in %s: a high of %.0f°C and a low of %.0f°C.", capitalize(when), place, d.MaxTempC, d.MinTempC)
	case model.AttributePrecipitation:
		chance, ok := d.MaxChanceOfRain()
		if !ok {
			return noInfo("rain", label, place)
		}
		if chance > RainLikelyThreshold {
			return fmt.Sprintf("The chance of rain %s in %s is %d%%, so take an umbrella.", when, place, chance)
		}
		return fmt.Sprintf("The chance of rain %s in %s is %d%%.", when, place, chance)
	case model.AttributeHumidity:
		noon, ok := d.Noon()
		if !ok {
			return noInfo("humidity", label, place)
		}
		return fmt.Sprintf("Humidity in %s %s is expected to be around %d%% at noon.", place, when, noon.Humidity)
	case model.AttributeWind:
		noon, ok := d.Noon()
		if !ok {
			return noInfo("wind", label, place)
		}
		return fmt.Sprintf("Wind in %s %s is expected to be around %.0f km/h at noon.", place, when, noon.WindKph)
	default:
		if noon, ok := d.Noon(); ok {
			return fmt.Sprintf("%s in %s: %s, with temperatures between %.0f°C and %.0f°C.",
				capitalize(when), place, condition(noon.Description), d.MinTempC, d.MaxTempC)
		}
		return fmt.Sprintf("%s in %s: temperatures between %.0f°C and %.0f°C.", capitalize(when), place, d.MinTempC, d.MaxTempC)
	}
}

func weekend(attr model.Attribute, place string, forecast []model.DailyForecast) string {
	var parts []string
	for _, d := range forecast {
		if wd := d.Weekday(); wd == time.Saturday || wd == time.Sunday {
			parts = append(parts, dayClause(attr, d))
		}
	}
	if len(parts) == 0 {
		return fmt.Sprintf("The forecast for %s doesn't reach the weekend yet.", place)
	}
	return fmt.Sprintf("This weekend in %s: %s.", place, strings.Join(parts, "; "))
}

func week(attr model.Attribute, place string, forecast []model.DailyForecast) string {
	n := len(forecast)
	if n == 0 {
		return noForecast(place)
	}
	span := fmt.Sprintf("the next %d days", n)
	if n == 1 {
		span = "the next day"
	}

	switch attr {
	case model.AttributeTemperature:
		low, high, sum := forecast[0].MinTempC, forecast[0].MaxTempC, 0.0
		for _, d := range forecast {
			low = min(low, d.MinTempC)
			high = max(high, d.MaxTempC)
			sum += d.AvgTempC
		}
		return fmt.Sprintf("Over %s in %s, temperatures range from %.0f°C to %.0f°C, averaging %.1f°C.",
			span, place, low, high, sum/float64(n))
	case model.AttributePrecipitation:
		rainy, known := 0, 0
		for _, d := range forecast {
			chance, ok := d.MaxChanceOfRain()
			if !ok {
				continue
			}
			known++
			if chance > RainLikelyThreshold {
				rainy++
			}
		}
		if known == 0 {
			return noInfo("rain", span, place)
		}
		if rainy == 0 {
			return fmt.Sprintf("Rain isn't likely on any of %s in %s.", span, place)
		}
		return fmt.Sprintf("Rain is likely (over %d%% chance) on %d of %s in %s.", RainLikelyThreshold, rainy, span, place)
	case model.AttributeHumidity:
		sum, count := 0.0, 0
		for _, d := range forecast {
			if noon, ok := d.Noon(); ok {
				sum += float64(noon.Humidity)
				count++
			}
		}
		if count == 0 {
			return noInfo("humidity", span, place)
		}
		return fmt.Sprintf("Humidity in %s over %s averages %.0f%% at noon.", place, span, sum/float64(count))
	case model.AttributeWind:
		sum, peak, count := 0.0, 0.0, 0
		for _, d := range forecast {
			if noon, ok := d.Noon(); ok {
				sum += noon.WindKph
				peak = max(peak, noon.WindKph)
				count++
			}
		}
		if count == 0 {
			return noInfo("wind", span, place)
		}
		return fmt.Sprintf("Wind in %s over %s averages %.1f km/h at noon, peaking at %.0f km/h.", place, span, sum/float64(count), peak)
	default:
		parts := make([]string, 0, n)
		for _, d := range forecast {
			parts = append(parts, dayClause(attr, d))
		}
		return fmt.Sprintf("The outlook for %s over %s: %s.", place, span, strings.Join(parts, "; "))
	}
}

// dayClause is the short per-day fragment used in multi-day replies.
func dayClause(attr model.Attribute, d model.DailyForecast) string {
	name := d.Weekday().String()
	switch attr {
	case model.AttributeTemperature:
		return fmt.Sprintf("%s high %.0f°C, low %.0f°C", name, d.MaxTempC, d.MinTempC)
	case model.AttributePrecipitation:
		if chance, ok := d.MaxChanceOfRain(); ok {
			return fmt.Sprintf("%s %d%% chance of rain", name, chance)
		}
		return name + " no rain data"
	case model.AttributeHumidity:
		if noon, ok := d.Noon(); ok {
			return fmt.Sprintf("%s %d%% humidity at noon", name, noon.Humidity)
		}
		return name + " no humidity data"
	case model.AttributeWind:
		if noon, ok := d.Noon(); ok {
			return fmt.Sprintf("%s %.0f km/h wind at noon", name, noon.WindKph)
		}
		return name + " no wind data"
	default:
		if noon, ok := d.Noon(); ok {
			return fmt.Sprintf("%s %s, %.0f to %.0f°C", name, condition(noon.Description), d.MinTempC, d.MaxTempC)
		}
		return fmt.Sprintf("%s %.0f to %.0f°C", name, d.MinTempC, d.MaxTempC)
	}
}

func noForecast(place string) string {
	return fmt.Sprintf("I don't have a forecast for %s right now.", place)
}

func noInfo(field, when, place string) string {
	return fmt.Sprintf("I don't have %s information for %s in %s.", field, when, place)
}

func condition(desc string) string {
	desc = strings.TrimSpace(desc)
	if desc == "" {
		return "unknown conditions"
	}
	return strings.ToLower(desc)
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
