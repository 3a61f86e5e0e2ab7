package handler

import (
	"encoding/json"
	"net/http"

	"mt_annotate/internal/api/middleware"
	"mt_annotate/internal/app/service"
	"mt_annotate/internal/common"

	"github.com/go-chi/chi/v5"
)

type AnnotationHandler struct {
	service     *service.AnnotationService
	evaluations *service.EvaluationService
	auth        *middleware.Auth
}

func NewAnnotationHandler(service *service.AnnotationService, evaluations *service.EvaluationService, auth *middleware.Auth) *AnnotationHandler {
	return &AnnotationHandler{service: service, evaluations: evaluations, auth: auth}
}

func (h *AnnotationHandler) RegisterRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.auth.Authenticator)
		r.Post("/annotations", h.create)
		r.Get("/annotations", h.mine)
		r.Put("/annotations/{id}", h.update)

		r.Group(func(r chi.Router) {
			r.Use(h.auth.AdminOrEvaluatorOnly)
			r.Get("/annotations/{id}/evaluations", h.evaluationsFor)
		})
	})
}

func (h *AnnotationHandler) create(w http.ResponseWriter, r *http.Request) {
	var req service.CreateAnnotationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user := middleware.GetUserFromContext(r.Context())
	annotation, err := h.service.Create(r.Context(), user.ID, req)
	if err != nil {
		respondError(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusCreated, annotation)
}

func (h *AnnotationHandler) mine(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r.Context())
	skip, limit := parseSkipLimit(r)
	annotations, err := h.service.Mine(r.Context(), user.ID, skip, limit)
	if err != nil {
		respondError(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, annotations)
}

func (h *AnnotationHandler) update(w http.ResponseWriter, r *http.Request) {
	var req service.UpdateAnnotationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user := middleware.GetUserFromContext(r.Context())
	annotation, err := h.service.Update(r.Context(), user.ID, chi.URLParam(r, "id"), req)
	if err != nil {
		respondError(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, annotation)
}

func (h *AnnotationHandler) evaluationsFor(w http.ResponseWriter, r *http.Request) {
	evaluations, err := h.evaluations.ByAnnotation(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, evaluations)
}
