package service

import (
	"context"
	"fmt"
	"strings"

	"mt_annotate/internal/common"
	"mt_annotate/internal/common/security"
	"mt_annotate/internal/domain/model"
	"mt_annotate/internal/domain/repository"

	"github.com/google/uuid"
)

// DefaultLanguage is assigned when a registration names no language at all.
const DefaultLanguage = "tagalog"

type AuthService struct {
	userRepo repository.UserRepository
	jwt      *security.JWT
}

func NewAuthService(userRepo repository.UserRepository, jwt *security.JWT) *AuthService {
	return &AuthService{userRepo: userRepo, jwt: jwt}
}

type RegisterRequest struct {
	Email             string   `json:"email"`
	Username          string   `json:"username"`
	Password          string   `json:"password"`
	FirstName         string   `json:"first_name"`
	LastName          string   `json:"last_name"`
	PreferredLanguage string   `json:"preferred_language"`
	Languages         []string `json:"languages"`
	IsEvaluator       bool     `json:"is_evaluator"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type AuthResponse struct {
	AccessToken string      `json:"access_token"`
	TokenType   string      `json:"token_type"`
	User        *model.User `json:"user"`
}

// Register creates the account and signs the user in. Duplicate email or
// username is left to the database's unique indexes rather than a lookup
// first, so concurrent registrations cannot race past the check.
func (s *AuthService) Register(ctx context.Context, req RegisterRequest) (*AuthResponse, error) {
	req.Email = strings.TrimSpace(strings.ToLower(req.Email))
	req.Username = strings.TrimSpace(req.Username)
	if req.Email == "" || req.Username == "" {
		return nil, fmt.Errorf("email and username are required: %w", common.ErrValidation)
	}
	if len(req.Password) < 6 {
		return nil, fmt.Errorf("password must be at least 6 characters: %w", common.ErrValidation)
	}

	preferred := strings.TrimSpace(req.PreferredLanguage)
	if preferred == "" && len(req.Languages) > 0 {
		preferred = req.Languages[0]
	}
	if preferred == "" {
		preferred = DefaultLanguage
	}
	languages := dedupeStrings(req.Languages)
	if len(languages) == 0 {
		languages = []string{preferred}
	}

	hashed, err := security.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}

	user := &model.User{
		ID:                uuid.NewString(),
		Email:             req.Email,
		Username:          req.Username,
		FirstName:         req.FirstName,
		LastName:          req.LastName,
		HashedPassword:    hashed,
		PreferredLanguage: preferred,
		IsActive:          true,
		IsEvaluator:       req.IsEvaluator,
		Languages:         languages,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	return s.issueToken(user)
}

func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*AuthResponse, error) {
	req.Email = strings.TrimSpace(strings.ToLower(req.Email))
	user, err := s.userRepo.FindByEmail(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("invalid credentials: %w", common.ErrUnauthorized)
	}
	if !security.CheckPasswordHash(req.Password, user.HashedPassword) {
		return nil, fmt.Errorf("invalid credentials: %w", common.ErrUnauthorized)
	}
	if !user.IsActive {
		return nil, fmt.Errorf("account is deactivated: %w", common.ErrUnauthorized)
	}

	return s.issueToken(user)
}

func (s *AuthService) Me(ctx context.Context, userID string) (*model.User, error) {
	return s.userRepo.FindByID(ctx, userID)
}

// MarkGuidelinesSeen records that the user acknowledged the annotation
// guidelines and returns the refreshed profile.
func (s *AuthService) MarkGuidelinesSeen(ctx context.Context, userID string) (*model.User, error) {
	if err := s.userRepo.SetGuidelinesSeen(ctx, userID); err != nil {
		return nil, err
	}
	return s.userRepo.FindByID(ctx, userID)
}

func (s *AuthService) Languages(ctx context.Context, userID string) ([]string, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return user.Languages, nil
}

// UpdateLanguages replaces the user's language set. The first entry becomes
// the preferred language.
func (s *AuthService) UpdateLanguages(ctx context.Context, userID string, languages []string) (*model.User, error) {
	languages = dedupeStrings(languages)
	if len(languages) == 0 {
		return nil, fmt.Errorf("at least one language is required: %w", common.ErrValidation)
	}
	if err := s.userRepo.ReplaceLanguages(ctx, userID, languages); err != nil {
		return nil, err
	}
	return s.userRepo.FindByID(ctx, userID)
}

func (s *AuthService) issueToken(user *model.User) (*AuthResponse, error) {
	token, err := s.jwt.GenerateToken(user.ID)
	if err != nil {
		return nil, fmt.Errorf("generating token: %w", err)
	}
	return &AuthResponse{AccessToken: token, TokenType: "bearer", User: user}, nil
}

func dedupeStrings(values []string) []string {
	seen := map[string]bool{}
	out := []string{}
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	return out
}
