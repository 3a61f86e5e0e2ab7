package service

import (
	"context"
	"fmt"

	"mt_annotate/internal/common"
	"mt_annotate/internal/domain/model"
	"mt_annotate/internal/domain/repository"

	"github.com/google/uuid"
)

type EvaluationService struct {
	evalRepo repository.EvaluationRepository
	annRepo  repository.AnnotationRepository
	userRepo repository.UserRepository
}

func NewEvaluationService(evalRepo repository.EvaluationRepository, annRepo repository.AnnotationRepository, userRepo repository.UserRepository) *EvaluationService {
	return &EvaluationService{evalRepo: evalRepo, annRepo: annRepo, userRepo: userRepo}
}

type CreateEvaluationRequest struct {
	AnnotationID           string  `json:"annotation_id"`
	AnnotationQualityScore *int    `json:"annotation_quality_score"`
	AccuracyScore          *int    `json:"accuracy_score"`
	CompletenessScore      *int    `json:"completeness_score"`
	OverallEvaluationScore *int    `json:"overall_evaluation_score"`
	Feedback               *string `json:"feedback"`
	EvaluationNotes        *string `json:"evaluation_notes"`
	TimeSpentSeconds       *int    `json:"time_spent_seconds"`
}

type UpdateEvaluationRequest struct {
	AnnotationQualityScore *int    `json:"annotation_quality_score"`
	AccuracyScore          *int    `json:"accuracy_score"`
	CompletenessScore      *int    `json:"completeness_score"`
	OverallEvaluationScore *int    `json:"overall_evaluation_score"`
	Feedback               *string `json:"feedback"`
	EvaluationNotes        *string `json:"evaluation_notes"`
	TimeSpentSeconds       *int    `json:"time_spent_seconds"`
}

// Create records an evaluation of an annotation and flips that annotation to
// reviewed. A second evaluation of the same annotation by the same evaluator
// is rejected by the unique index before the status write happens.
func (s *EvaluationService) Create(ctx context.Context, evaluatorID string, req CreateEvaluationRequest) (*model.Evaluation, error) {
	if req.AnnotationID == "" {
		return nil, fmt.Errorf("annotation_id is required: %w", common.ErrValidation)
	}
	annotation, err := s.annRepo.FindAnnotationByID(ctx, req.AnnotationID)
	if err != nil {
		return nil, err
	}
	if err := validateScores(req.AnnotationQualityScore, req.AccuracyScore,
		req.CompletenessScore, req.OverallEvaluationScore); err != nil {
		return nil, err
	}

	evaluation := &model.Evaluation{
		ID:                     uuid.NewString(),
		AnnotationID:           req.AnnotationID,
		EvaluatorID:            evaluatorID,
		AnnotationQualityScore: req.AnnotationQualityScore,
		AccuracyScore:          req.AccuracyScore,
		CompletenessScore:      req.CompletenessScore,
		OverallEvaluationScore: req.OverallEvaluationScore,
		Feedback:               req.Feedback,
		EvaluationNotes:        req.EvaluationNotes,
		TimeSpentSeconds:       req.TimeSpentSeconds,
		EvaluationStatus:       model.EvaluationStatusCompleted,
	}
	if err := s.evalRepo.CreateEvaluation(ctx, evaluation); err != nil {
		return nil, err
	}

	if err := s.annRepo.SetAnnotationStatus(ctx, annotation.ID, model.AnnotationStatusReviewed); err != nil {
		return nil, err
	}
	annotation.AnnotationStatus = model.AnnotationStatusReviewed

	evaluation.Annotation = annotation
	if evaluator, err := s.userRepo.FindByID(ctx, evaluatorID); err == nil {
		evaluation.Evaluator = evaluator
	}
	return evaluation, nil
}

// Update patches the caller's own evaluation; anyone else's reads as not
// found.
func (s *EvaluationService) Update(ctx context.Context, evaluatorID, evaluationID string, req UpdateEvaluationRequest) (*model.Evaluation, error) {
	evaluation, err := s.evalRepo.FindEvaluationByID(ctx, evaluationID)
	if err != nil {
		return nil, err
	}
	if evaluation.EvaluatorID != evaluatorID {
		return nil, fmt.Errorf("evaluation not found: %w", common.ErrNotFound)
	}

	if req.AnnotationQualityScore != nil {
		evaluation.AnnotationQualityScore = req.AnnotationQualityScore
	}
	if req.AccuracyScore != nil {
		evaluation.AccuracyScore = req.AccuracyScore
	}
	if req.CompletenessScore != nil {
		evaluation.CompletenessScore = req.CompletenessScore
	}
	if req.OverallEvaluationScore != nil {
		evaluation.OverallEvaluationScore = req.OverallEvaluationScore
	}
	if req.Feedback != nil {
		evaluation.Feedback = req.Feedback
	}
	if req.EvaluationNotes != nil {
		evaluation.EvaluationNotes = req.EvaluationNotes
	}
	if req.TimeSpentSeconds != nil {
		evaluation.TimeSpentSeconds = req.TimeSpentSeconds
	}
	if err := validateScores(evaluation.AnnotationQualityScore, evaluation.AccuracyScore,
		evaluation.CompletenessScore, evaluation.OverallEvaluationScore); err != nil {
		return nil, err
	}

	if err := s.evalRepo.UpdateEvaluation(ctx, evaluation); err != nil {
		return nil, err
	}
	return s.hydrate(ctx, evaluation)
}

// Mine lists the evaluator's evaluations, newest first, with annotations
// attached.
func (s *EvaluationService) Mine(ctx context.Context, evaluatorID string, skip, limit int) ([]model.Evaluation, error) {
	skip, limit = clampPage(skip, limit, 100)
	evaluations, err := s.evalRepo.ListEvaluationsByEvaluator(ctx, evaluatorID, skip, limit)
	if err != nil {
		return nil, err
	}
	for i := range evaluations {
		if _, err := s.hydrate(ctx, &evaluations[i]); err != nil {
			return nil, err
		}
	}
	return evaluations, nil
}

// Pending lists completed annotations the evaluator has not reviewed yet.
func (s *EvaluationService) Pending(ctx context.Context, evaluatorID string, skip, limit int) ([]model.Annotation, error) {
	skip, limit = clampPage(skip, limit, 50)
	return s.annRepo.ListPendingAnnotations(ctx, evaluatorID, skip, limit)
}

func (s *EvaluationService) ByAnnotation(ctx context.Context, annotationID string) ([]model.Evaluation, error) {
	if _, err := s.annRepo.FindAnnotationByID(ctx, annotationID); err != nil {
		return nil, err
	}
	evaluations, err := s.evalRepo.ListEvaluationsByAnnotation(ctx, annotationID)
	if err != nil {
		return nil, err
	}
	for i := range evaluations {
		if evaluator, err := s.userRepo.FindByID(ctx, evaluations[i].EvaluatorID); err == nil {
			evaluations[i].Evaluator = evaluator
		}
	}
	return evaluations, nil
}

func (s *EvaluationService) hydrate(ctx context.Context, evaluation *model.Evaluation) (*model.Evaluation, error) {
	annotation, err := s.annRepo.FindAnnotationByID(ctx, evaluation.AnnotationID)
	if err != nil {
		return nil, err
	}
	evaluation.Annotation = annotation
	return evaluation, nil
}
