package handler

import (
	"encoding/json"
	"net/http"

	"mt_annotate/internal/api/middleware"
	"mt_annotate/internal/app/service"
	"mt_annotate/internal/common"

	"github.com/go-chi/chi/v5"
)

// AdminHandler hosts the /admin surface: platform stats, user management and
// sentence administration.
type AdminHandler struct {
	admin       *service.AdminService
	sentences   *service.SentenceService
	annotations *service.AnnotationService
	stats       *service.StatsService
	auth        *middleware.Auth
}

func NewAdminHandler(admin *service.AdminService, sentences *service.SentenceService, annotations *service.AnnotationService, stats *service.StatsService, auth *middleware.Auth) *AdminHandler {
	return &AdminHandler{
		admin:       admin,
		sentences:   sentences,
		annotations: annotations,
		stats:       stats,
		auth:        auth,
	}
}

func (h *AdminHandler) RegisterRoutes(r chi.Router) {
	r.Route("/admin", func(r chi.Router) {
		r.Use(h.auth.Authenticator)
		r.Use(h.auth.AdminOnly)

		r.Get("/stats", h.adminStats)
		r.Get("/users", h.listUsers)
		r.Put("/users/{id}/toggle-evaluator", h.toggleEvaluator)

		r.Post("/sentences", h.createSentence)
		r.Get("/sentences", h.listSentences)
		r.Post("/sentences/bulk", h.bulkCreateSentences)
		r.Get("/sentences/counts", h.sentenceCounts)
		r.Get("/sentences/{id}/annotations", h.sentenceAnnotations)

		r.Get("/annotations", h.listAnnotations)
	})
}

func (h *AdminHandler) adminStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.stats.AdminStats(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, stats)
}

func (h *AdminHandler) listUsers(w http.ResponseWriter, r *http.Request) {
	skip, limit := parseSkipLimit(r)
	users, err := h.admin.ListUsers(r.Context(), skip, limit)
	if err != nil {
		respondError(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, users)
}

func (h *AdminHandler) toggleEvaluator(w http.ResponseWriter, r *http.Request) {
	user, err := h.admin.ToggleEvaluator(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, user)
}

func (h *AdminHandler) createSentence(w http.ResponseWriter, r *http.Request) {
	var req service.CreateSentenceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	sentence, err := h.sentences.Create(r.Context(), req)
	if err != nil {
		respondError(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusCreated, sentence)
}

func (h *AdminHandler) bulkCreateSentences(w http.ResponseWriter, r *http.Request) {
	var reqs []service.CreateSentenceRequest
	if err := json.NewDecoder(r.Body).Decode(&reqs); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	sentences, err := h.sentences.BulkCreate(r.Context(), reqs)
	if err != nil {
		respondError(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusCreated, sentences)
}

func (h *AdminHandler) listSentences(w http.ResponseWriter, r *http.Request) {
	skip, limit := parseSkipLimit(r)
	q := r.URL.Query()
	sentences, err := h.sentences.AdminList(r.Context(),
		q.Get("source_language"), q.Get("target_language"), skip, limit)
	if err != nil {
		respondError(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, sentences)
}

func (h *AdminHandler) sentenceCounts(w http.ResponseWriter, r *http.Request) {
	counts, err := h.sentences.CountsByLanguage(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, counts)
}

func (h *AdminHandler) sentenceAnnotations(w http.ResponseWriter, r *http.Request) {
	annotations, err := h.annotations.BySentence(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, annotations)
}

func (h *AdminHandler) listAnnotations(w http.ResponseWriter, r *http.Request) {
	skip, limit := parseSkipLimit(r)
	annotations, err := h.annotations.All(r.Context(), skip, limit)
	if err != nil {
		respondError(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, annotations)
}
