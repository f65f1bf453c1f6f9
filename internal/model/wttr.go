package model

import (
	"strconv"
	"strings"
	"time"
)

// WttrResponse is the j1 JSON document served by wttr.in compatible endpoints.
// All numeric values arrive as strings.
type WttrResponse struct {
	CurrentCondition []struct {
		TempC         string      `json:"temp_C"`
		FeelsLikeC    string      `json:"FeelsLikeC"`
		Humidity      string      `json:"humidity"`
		WindspeedKmph string      `json:"windspeedKmph"`
		Winddir16     string      `json:"winddir16Point"`
		PrecipMM      string      `json:"precipMM"`
		WeatherDesc   []wttrValue `json:"weatherDesc"`
	} `json:"current_condition"`
	NearestArea []struct {
		AreaName []wttrValue `json:"areaName"`
		Country  []wttrValue `json:"country"`
	} `json:"nearest_area"`
	Weather []struct {
		Date     string `json:"date"`
		MaxtempC string `json:"maxtempC"`
		MintempC string `json:"mintempC"`
		AvgtempC string `json:"avgtempC"`
		Hourly   []struct {
			Time          string      `json:"time"`
			TempC         string      `json:"tempC"`
			ChanceOfRain  string      `json:"chanceofrain"`
			Humidity      string      `json:"humidity"`
			WindspeedKmph string      `json:"windspeedKmph"`
			WeatherDesc   []wttrValue `json:"weatherDesc"`
		} `json:"hourly"`
	} `json:"weather"`
}

type wttrValue struct {
	Value string `json:"value"`
}

// ToRecord normalises the upstream document. fallbackLocation names the
// record when the document carries no area name.
func (w *WttrResponse) ToRecord(fallbackLocation string) *WeatherRecord {
	record := &WeatherRecord{Location: fallbackLocation}
	if len(w.NearestArea) > 0 {
		if name := firstValue(w.NearestArea[0].AreaName); name != "" {
			record.Location = name
		}
	}

	if len(w.CurrentCondition) > 0 {
		c := w.CurrentCondition[0]
		record.Current = &CurrentConditions{
			TempC:       parseFloat(c.TempC),
			FeelsLikeC:  parseFloat(c.FeelsLikeC),
			Humidity:    parseInt(c.Humidity),
			WindKph:     parseFloat(c.WindspeedKmph),
			WindDir:     c.Winddir16,
			PrecipMM:    parseFloat(c.PrecipMM),
			Description: firstValue(c.WeatherDesc),
		}
	}

	for _, d := range w.Weather {
		date, err := time.Parse("2006-01-02", d.Date)
		if err != nil {
			continue
		}
		day := DailyForecast{
			Date:     date,
			MaxTempC: parseFloat(d.MaxtempC),
			MinTempC: parseFloat(d.MintempC),
			AvgTempC: parseFloat(d.AvgtempC),
		}
		for _, h := range d.Hourly {
			day.Hourly = append(day.Hourly, HourlySample{
				// wttr encodes the hour as hmm: "0", "300", "1200"
				Hour:         parseInt(h.Time) / 100,
				TempC:        parseFloat(h.TempC),
				ChanceOfRain: parseInt(h.ChanceOfRain),
				Humidity:     parseInt(h.Humidity),
				WindKph:      parseFloat(h.WindspeedKmph),
				Description:  firstValue(h.WeatherDesc),
			})
		}
		record.Forecast = append(record.Forecast, day)
	}
	return record
}

func firstValue(values []wttrValue) string {
	if len(values) == 0 {
		return ""
	}
	return strings.TrimSpace(values[0].Value)
}

func parseFloat(s string) float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0
	}
	return f
}

func parseInt(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0
	}
	return n
}
