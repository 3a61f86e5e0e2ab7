package service

import (
	"context"

	"mt_annotate/internal/domain/model"
	"mt_annotate/internal/domain/repository"
)

type StatsService struct {
	userRepo     repository.UserRepository
	sentenceRepo repository.SentenceRepository
	annRepo      repository.AnnotationRepository
	evalRepo     repository.EvaluationRepository
}

func NewStatsService(userRepo repository.UserRepository, sentenceRepo repository.SentenceRepository, annRepo repository.AnnotationRepository, evalRepo repository.EvaluationRepository) *StatsService {
	return &StatsService{
		userRepo:     userRepo,
		sentenceRepo: sentenceRepo,
		annRepo:      annRepo,
		evalRepo:     evalRepo,
	}
}

type AdminStats struct {
	TotalUsers           int `json:"total_users"`
	TotalSentences       int `json:"total_sentences"`
	TotalAnnotations     int `json:"total_annotations"`
	CompletedAnnotations int `json:"completed_annotations"`
	ActiveUsers          int `json:"active_users"`
}

type EvaluatorStats struct {
	TotalEvaluations         int     `json:"total_evaluations"`
	CompletedEvaluations     int     `json:"completed_evaluations"`
	PendingEvaluations       int     `json:"pending_evaluations"`
	AverageTimePerEvaluation float64 `json:"average_time_per_evaluation"`
}

func (s *StatsService) AdminStats(ctx context.Context) (*AdminStats, error) {
	stats := &AdminStats{}
	var err error

	if stats.TotalUsers, err = s.userRepo.CountUsers(ctx); err != nil {
		return nil, err
	}
	if stats.ActiveUsers, err = s.userRepo.CountActiveUsers(ctx); err != nil {
		return nil, err
	}
	if stats.TotalSentences, err = s.sentenceRepo.CountSentences(ctx); err != nil {
		return nil, err
	}
	if stats.TotalAnnotations, err = s.annRepo.CountAnnotations(ctx); err != nil {
		return nil, err
	}
	if stats.CompletedAnnotations, err = s.annRepo.CountAnnotationsByStatus(ctx, model.AnnotationStatusCompleted); err != nil {
		return nil, err
	}
	return stats, nil
}

func (s *StatsService) EvaluatorStats(ctx context.Context, evaluatorID string) (*EvaluatorStats, error) {
	stats := &EvaluatorStats{}
	var err error

	if stats.TotalEvaluations, err = s.evalRepo.CountEvaluationsByEvaluator(ctx, evaluatorID); err != nil {
		return nil, err
	}
	if stats.CompletedEvaluations, err = s.evalRepo.CountCompletedEvaluationsByEvaluator(ctx, evaluatorID); err != nil {
		return nil, err
	}
	if stats.PendingEvaluations, err = s.annRepo.CountPendingAnnotations(ctx, evaluatorID); err != nil {
		return nil, err
	}
	if stats.AverageTimePerEvaluation, err = s.evalRepo.AverageEvaluationTime(ctx, evaluatorID); err != nil {
		return nil, err
	}
	return stats, nil
}
