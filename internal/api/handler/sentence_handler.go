package handler

import (
	"net/http"

	"mt_annotate/internal/api/middleware"
	"mt_annotate/internal/app/service"
	"mt_annotate/internal/common"

	"github.com/go-chi/chi/v5"
)

type SentenceHandler struct {
	service *service.SentenceService
	auth    *middleware.Auth
}

func NewSentenceHandler(service *service.SentenceService, auth *middleware.Auth) *SentenceHandler {
	return &SentenceHandler{service: service, auth: auth}
}

func (h *SentenceHandler) RegisterRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.auth.Authenticator)
		r.Get("/sentences", h.list)
		r.Get("/sentences/next", h.next)
		r.Get("/sentences/unannotated", h.unannotated)
		r.Get("/sentences/{id}", h.get)
	})
}

func (h *SentenceHandler) list(w http.ResponseWriter, r *http.Request) {
	skip, limit := parseSkipLimit(r)
	sentences, err := h.service.List(r.Context(), skip, limit)
	if err != nil {
		respondError(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, sentences)
}

func (h *SentenceHandler) get(w http.ResponseWriter, r *http.Request) {
	sentence, err := h.service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, sentence)
}

// next responds with JSON null when the user has annotated everything
// available in their preferred language.
func (h *SentenceHandler) next(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r.Context())
	sentence, err := h.service.NextForUser(r.Context(), user)
	if err != nil {
		respondError(w, err)
		return
	}
	if sentence == nil {
		common.RespondWithJSON(w, http.StatusOK, nil)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, sentence)
}

func (h *SentenceHandler) unannotated(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r.Context())
	skip, limit := parseSkipLimit(r)
	sentences, err := h.service.UnannotatedForUser(r.Context(), user, skip, limit)
	if err != nil {
		respondError(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, sentences)
}
