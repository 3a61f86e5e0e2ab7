package service

import (
	"context"

	"mt_annotate/internal/domain/model"
	"mt_annotate/internal/domain/repository"
)

// AdminService covers the user-management side of the admin surface.
type AdminService struct {
	userRepo repository.UserRepository
}

func NewAdminService(userRepo repository.UserRepository) *AdminService {
	return &AdminService{userRepo: userRepo}
}

func (s *AdminService) ListUsers(ctx context.Context, skip, limit int) ([]model.User, error) {
	skip, limit = clampPage(skip, limit, 100)
	return s.userRepo.List(ctx, skip, limit)
}

// ToggleEvaluator flips the evaluator flag and returns the updated user.
func (s *AdminService) ToggleEvaluator(ctx context.Context, userID string) (*model.User, error) {
	return s.userRepo.ToggleEvaluator(ctx, userID)
}
