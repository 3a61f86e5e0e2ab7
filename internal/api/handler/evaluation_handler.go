package handler

import (
	"encoding/json"
	"net/http"

	"mt_annotate/internal/api/middleware"
	"mt_annotate/internal/app/service"
	"mt_annotate/internal/common"

	"github.com/go-chi/chi/v5"
)

type EvaluationHandler struct {
	service *service.EvaluationService
	stats   *service.StatsService
	auth    *middleware.Auth
}

func NewEvaluationHandler(service *service.EvaluationService, stats *service.StatsService, auth *middleware.Auth) *EvaluationHandler {
	return &EvaluationHandler{service: service, stats: stats, auth: auth}
}

func (h *EvaluationHandler) RegisterRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.auth.Authenticator)
		r.Use(h.auth.EvaluatorOnly)
		r.Post("/evaluations", h.create)
		r.Get("/evaluations", h.mine)
		r.Get("/evaluations/pending", h.pending)
		r.Put("/evaluations/{id}", h.update)
		r.Get("/evaluator/stats", h.evaluatorStats)
	})
}

func (h *EvaluationHandler) create(w http.ResponseWriter, r *http.Request) {
	var req service.CreateEvaluationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user := middleware.GetUserFromContext(r.Context())
	evaluation, err := h.service.Create(r.Context(), user.ID, req)
	if err != nil {
		respondError(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusCreated, evaluation)
}

func (h *EvaluationHandler) mine(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r.Context())
	skip, limit := parseSkipLimit(r)
	evaluations, err := h.service.Mine(r.Context(), user.ID, skip, limit)
	if err != nil {
		respondError(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, evaluations)
}

func (h *EvaluationHandler) pending(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r.Context())
	skip, limit := parseSkipLimit(r)
	annotations, err := h.service.Pending(r.Context(), user.ID, skip, limit)
	if err != nil {
		respondError(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, annotations)
}

func (h *EvaluationHandler) update(w http.ResponseWriter, r *http.Request) {
	var req service.UpdateEvaluationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user := middleware.GetUserFromContext(r.Context())
	evaluation, err := h.service.Update(r.Context(), user.ID, chi.URLParam(r, "id"), req)
	if err != nil {
		respondError(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, evaluation)
}

func (h *EvaluationHandler) evaluatorStats(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r.Context())
	stats, err := h.stats.EvaluatorStats(r.Context(), user.ID)
	if err != nil {
		respondError(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, stats)
}
