package model

import "time"

// MaxForecastDays is the furthest horizon the weather collaborator serves.
const MaxForecastDays = 5

// NoonHour identifies the hourly sample used for single-day summaries.
const NoonHour = 12

// WeatherRecord is the weather data a reply is rendered from.
// A non-empty Error marks a failed retrieval; no other field is meaningful then.
type WeatherRecord struct {
	Location string             `json:"location"`
	Current  *CurrentConditions `json:"current,omitempty"`
	Forecast []DailyForecast    `json:"forecast,omitempty"`
	Error    string             `json:"error,omitempty"`
	Cached   bool               `json:"cached"`
}

// ErrorRecord builds a record carrying only an error marker.
func ErrorRecord(location, message string) *WeatherRecord {
	return &WeatherRecord{Location: location, Error: message}
}

func (r *WeatherRecord) HasError() bool {
	return r.Error != ""
}

// Truncate returns a shallow copy limited to the first days forecast entries.
func (r *WeatherRecord) Truncate(days int) *WeatherRecord {
	out := *r
	if days >= 0 && len(out.Forecast) > days {
		out.Forecast = out.Forecast[:days]
	}
	return &out
}

type CurrentConditions struct {
	TempC       float64 `json:"temp_c"`
	FeelsLikeC  float64 `json:"feels_like_c"`
	Humidity    int     `json:"humidity"`
	WindKph     float64 `json:"wind_kph"`
	WindDir     string  `json:"wind_dir,omitempty"`
	PrecipMM    float64 `json:"precip_mm"`
	Description string  `json:"description"`
}

// DailyForecast is one day of forecast with its hourly samples in time order.
type DailyForecast struct {
	Date     time.Time      `json:"date"`
	MaxTempC float64        `json:"max_temp_c"`
	MinTempC float64        `json:"min_temp_c"`
	AvgTempC float64        `json:"avg_temp_c"`
	Hourly   []HourlySample `json:"hourly,omitempty"`
}

func (d DailyForecast) Weekday() time.Weekday {
	return d.Date.Weekday()
}

// Noon returns the 12:00 sample, if the day has one.
func (d DailyForecast) Noon() (HourlySample, bool) {
	for _, h := range d.Hourly {
		if h.Hour == NoonHour {
			return h, true
		}
	}
	return HourlySample{}, false
}

// MaxChanceOfRain returns the highest hourly rain chance of the day.
// ok is false when the day has no hourly samples.
func (d DailyForecast) MaxChanceOfRain() (chance int, ok bool) {
	for i, h := range d.Hourly {
		if i == 0 || h.ChanceOfRain > chance {
			chance = h.ChanceOfRain
		}
	}
	return chance, len(d.Hourly) > 0
}

type HourlySample struct {
	Hour         int     `json:"hour"`
	TempC        float64 `json:"temp_c"`
	ChanceOfRain int     `json:"chance_of_rain"`
	Humidity     int     `json:"humidity"`
	WindKph      float64 `json:"wind_kph"`
	Description  string  `json:"description,omitempty"`
}
