package service

import (
	"context"
	"errors"
	"strings"

	"github.com/fakhrymubarak/weatherwise/internal/classifier"
	"github.com/fakhrymubarak/weatherwise/internal/config"
	"github.com/fakhrymubarak/weatherwise/internal/model"
	"github.com/fakhrymubarak/weatherwise/internal/repository"
	"github.com/fakhrymubarak/weatherwise/internal/responder"
	"go.uber.org/zap"
)

var ErrEmptyQuestion = errors.New("question is empty")

// AskLocationPrompt is the reply when a question names no place and no
// default location is configured.
const AskLocationPrompt = "Which location would you like the weather for?"

// AssistantServiceInterface answers free-text weather questions.
type AssistantServiceInterface interface {
	Ask(ctx context.Context, question string) (*model.Answer, error)
}

type AssistantService struct {
	WeatherRepo     repository.WeatherRepository
	DefaultLocation string
	log             *zap.SugaredLogger
}

func NewAssistantService(repo ...repository.WeatherRepository) *AssistantService {
	var weatherRepo repository.WeatherRepository
	if len(repo) > 0 && repo[0] != nil {
		weatherRepo = repo[0]
	} else {
		weatherRepo = repository.NewWeatherRepository()
	}
	return &AssistantService{
		WeatherRepo:     weatherRepo,
		DefaultLocation: config.GetDefaultLocation(),
		log:             config.GetLogger(),
	}
}

// Ask classifies question, fetches the forecast it needs and renders the
// reply. Retrieval failures are rendered into the reply, not returned.
func (s *AssistantService) Ask(ctx context.Context, question string) (*model.Answer, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return nil, ErrEmptyQuestion
	}
	if ctx == nil {
		ctx = context.Background()
	}

	intent := classifier.Classify(question)
	answer := &model.Answer{Question: question, Intent: intent}

	location := intent.Location
	if location == "" {
		location = s.DefaultLocation
	}
	if location == "" {
		answer.Reply = AskLocationPrompt
		return answer, nil
	}
	answer.Location = location
	intent.Location = location

	record, err := s.WeatherRepo.GetForecast(ctx, location, intent.ForecastDays())
	if err != nil {
		s.logger().Infow("Answering with retrieval error", "location", location, "error", err)
		record = model.ErrorRecord(location, retrievalMessage(err))
	}

	answer.Cached = record.Cached
	answer.Reply = responder.Respond(intent, record)
	return answer, nil
}

func (s *AssistantService) logger() *zap.SugaredLogger {
	if s.log == nil {
		return config.GetLogger()
	}
	return s.log
}

// retrievalMessage maps repository errors to a human readable reason.
func retrievalMessage(err error) string {
	switch {
	case errors.Is(err, repository.ErrLocationNotFound):
		return "location not found"
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return "the request timed out"
	default:
		return "weather service unavailable"
	}
}
