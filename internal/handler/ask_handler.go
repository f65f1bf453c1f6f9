package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/fakhrymubarak/weatherwise/internal/config"
	"github.com/fakhrymubarak/weatherwise/internal/model"
	"github.com/fakhrymubarak/weatherwise/internal/service"
)

type askQuery struct {
	Question string `validate:"required,max=500"`
}

type AskHandler struct {
	AssistantService service.AssistantServiceInterface
}

func NewAskHandler(svc ...service.AssistantServiceInterface) *AskHandler {
	var assistant service.AssistantServiceInterface
	if len(svc) > 0 && svc[0] != nil {
		assistant = svc[0]
	} else {
		assistant = service.NewAssistantService()
	}
	return &AskHandler{AssistantService: assistant}
}

// HandleAsk serves GET /ask?q=<question>.
func (h *AskHandler) HandleAsk(w http.ResponseWriter, r *http.Request) {
	if !allowGet(w, r) {
		return
	}

	query := askQuery{Question: strings.TrimSpace(r.URL.Query().Get("q"))}
	if err := validate.Struct(query); err != nil {
		if query.Question == "" {
			writeError(w, http.StatusBadRequest, "Missing 'q' query parameter")
		} else {
			writeError(w, http.StatusBadRequest, "Invalid 'q' query parameter: too long")
		}
		return
	}

	answer, err := h.AssistantService.Ask(r.Context(), query.Question)
	if err != nil {
		if errors.Is(err, service.ErrEmptyQuestion) {
			writeError(w, http.StatusBadRequest, "Missing 'q' query parameter")
			return
		}
		config.GetLogger().Errorw("Answering question failed", "question", query.Question, "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to answer question")
		return
	}

	writeJSONResponse(w, http.StatusOK, model.Response{
		Data:    answer,
		Message: "Success",
	})
}
