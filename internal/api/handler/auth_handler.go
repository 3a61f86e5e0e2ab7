package handler

import (
	"encoding/json"
	"net/http"

	"mt_annotate/internal/api/middleware"
	"mt_annotate/internal/app/service"
	"mt_annotate/internal/common"

	"github.com/go-chi/chi/v5"
)

type AuthHandler struct {
	service *service.AuthService
	auth    *middleware.Auth
}

func NewAuthHandler(service *service.AuthService, auth *middleware.Auth) *AuthHandler {
	return &AuthHandler{service: service, auth: auth}
}

func (h *AuthHandler) RegisterRoutes(r chi.Router) {
	r.Post("/auth/register", h.register)
	r.Post("/auth/login", h.login)

	r.Group(func(r chi.Router) {
		r.Use(h.auth.Authenticator)
		r.Get("/me", h.me)
		r.Put("/me/guidelines-seen", h.markGuidelinesSeen)
		r.Get("/me/languages", h.languages)
		r.Post("/me/languages", h.updateLanguages)
	})
}

func (h *AuthHandler) register(w http.ResponseWriter, r *http.Request) {
	var req service.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	resp, err := h.service.Register(r.Context(), req)
	if err != nil {
		respondError(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusCreated, resp)
}

func (h *AuthHandler) login(w http.ResponseWriter, r *http.Request) {
	var req service.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	resp, err := h.service.Login(r.Context(), req)
	if err != nil {
		respondError(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, resp)
}

func (h *AuthHandler) me(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r.Context())
	common.RespondWithJSON(w, http.StatusOK, user)
}

func (h *AuthHandler) markGuidelinesSeen(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r.Context())
	updated, err := h.service.MarkGuidelinesSeen(r.Context(), user.ID)
	if err != nil {
		respondError(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, updated)
}

func (h *AuthHandler) languages(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r.Context())
	languages, err := h.service.Languages(r.Context(), user.ID)
	if err != nil {
		respondError(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, map[string][]string{"languages": languages})
}

func (h *AuthHandler) updateLanguages(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Languages []string `json:"languages"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user := middleware.GetUserFromContext(r.Context())
	updated, err := h.service.UpdateLanguages(r.Context(), user.ID, req.Languages)
	if err != nil {
		respondError(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, updated)
}
