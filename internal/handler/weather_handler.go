package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/fakhrymubarak/weatherwise/internal/config"
	"github.com/fakhrymubarak/weatherwise/internal/model"
	"github.com/fakhrymubarak/weatherwise/internal/repository"
	"github.com/fakhrymubarak/weatherwise/internal/service"
	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

type weatherQuery struct {
	Location string `validate:"required,max=100"`
	Days     int    `validate:"min=1,max=5"`
}

type WeatherHandler struct {
	WeatherService service.WeatherServiceInterface
}

func NewWeatherHandler(svc ...service.WeatherServiceInterface) *WeatherHandler {
	var weatherService service.WeatherServiceInterface
	if len(svc) > 0 && svc[0] != nil {
		weatherService = svc[0]
	} else {
		weatherService = service.NewWeatherService()
	}
	return &WeatherHandler{
		WeatherService: weatherService,
	}
}

// HandleWeather serves GET /weather?location=<place>&days=<1..5>.
func (h *WeatherHandler) HandleWeather(w http.ResponseWriter, r *http.Request) {
	if !allowGet(w, r) {
		return
	}

	query, errMsg := parseWeatherQuery(r)
	if errMsg != "" {
		writeError(w, http.StatusBadRequest, errMsg)
		return
	}

	weather, err := h.WeatherService.GetWeather(r.Context(), query.Location, query.Days)
	if err != nil {
		if errors.Is(err, repository.ErrLocationNotFound) {
			writeError(w, http.StatusNotFound, "Location not found")
			return
		}
		config.GetLogger().Errorw("Weather lookup failed", "location", query.Location, "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to fetch weather data")
		return
	}

	writeJSONResponse(w, http.StatusOK, model.Response{
		Data:    weather,
		Message: "Success",
	})
}

// parseWeatherQuery returns the validated query or a client facing error.
func parseWeatherQuery(r *http.Request) (weatherQuery, string) {
	values := r.URL.Query()
	query := weatherQuery{
		Location: strings.TrimSpace(values.Get("location")),
		Days:     1,
	}
	if raw := values.Get("days"); raw != "" {
		days, err := strconv.Atoi(raw)
		if err != nil {
			return query, "Invalid 'days' query parameter: must be an integer"
		}
		query.Days = days
	}

	if err := validate.Struct(query); err != nil {
		var fieldErrs validator.ValidationErrors
		if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
			return query, "Invalid query parameters"
		}
		switch fe := fieldErrs[0]; {
		case fe.Field() == "Location" && fe.Tag() == "required":
			return query, "Missing 'location' query parameter"
		case fe.Field() == "Location":
			return query, "Invalid 'location' query parameter: too long"
		default:
			return query, "Invalid 'days' query parameter: must be between 1 and 5"
		}
	}
	return query, ""
}
