package http

import (
	"encoding/json"
	"net/http"

	"spearid-quiz-service/internal/app"
	"spearid-quiz-service/internal/domain"
	"spearid-quiz-service/internal/logger"

	"go.uber.org/zap"
)

// APIHandler serves read-only JSON endpoints over the catalog.
type APIHandler struct {
	questions    app.QuestionSource
	catalog      app.CatalogRepository
	defaultCount int
}

func NewAPIHandler(questions app.QuestionSource, catalog app.CatalogRepository, defaultCount int) *APIHandler {
	return &APIHandler{questions: questions, catalog: catalog, defaultCount: defaultCount}
}

type questionsResponse struct {
	Questions []domain.Question `json:"questions"`
}

type speciesResponse struct {
	Species []domain.Species `json:"species"`
}

// Questions builds a fresh question set, answers included.
func (h *APIHandler) Questions(w http.ResponseWriter, r *http.Request) {
	count, err := parseCount(r.URL.Query().Get("count"), h.defaultCount)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorPayload{Message: err.Error()})
		return
	}

	questions, err := h.questions.Build(r.Context(), count)
	if err != nil {
		logger.Get().Error("failed to build question set", zap.Error(err))
		writeJSON(w, http.StatusBadGateway, errorPayload{Message: "failed to load quiz"})
		return
	}
	if questions == nil {
		questions = []domain.Question{}
	}
	writeJSON(w, http.StatusOK, questionsResponse{Questions: questions})
}

// Species lists the catalog ordered by name.
func (h *APIHandler) Species(w http.ResponseWriter, r *http.Request) {
	species, err := h.catalog.ListSpecies(r.Context())
	if err != nil {
		logger.Get().Error("failed to list species", zap.Error(err))
		writeJSON(w, http.StatusBadGateway, errorPayload{Message: "failed to load species"})
		return
	}
	if species == nil {
		species = []domain.Species{}
	}
	writeJSON(w, http.StatusOK, speciesResponse{Species: species})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logger.Get().Debug("write response failed", zap.Error(err))
	}
}
