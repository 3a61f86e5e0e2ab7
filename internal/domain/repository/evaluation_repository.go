package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"mt_annotate/internal/common"
	"mt_annotate/internal/domain/model"
)

type EvaluationRepository interface {
	CreateEvaluation(ctx context.Context, evaluation *model.Evaluation) error
	UpdateEvaluation(ctx context.Context, evaluation *model.Evaluation) error
	FindEvaluationByID(ctx context.Context, id string) (*model.Evaluation, error)
	ListEvaluationsByEvaluator(ctx context.Context, evaluatorID string, skip, limit int) ([]model.Evaluation, error)
	ListEvaluationsByAnnotation(ctx context.Context, annotationID string) ([]model.Evaluation, error)
	CountEvaluationsByEvaluator(ctx context.Context, evaluatorID string) (int, error)
	CountCompletedEvaluationsByEvaluator(ctx context.Context, evaluatorID string) (int, error)
	AverageEvaluationTime(ctx context.Context, evaluatorID string) (float64, error)
}

type pgEvaluationRepository struct {
	db *sql.DB
}

func NewPgEvaluationRepository(db *sql.DB) EvaluationRepository {
	return &pgEvaluationRepository{db: db}
}

const evaluationColumns = `id, annotation_id, evaluator_id, annotation_quality_score,
	accuracy_score, completeness_score, overall_evaluation_score, feedback,
	evaluation_notes, time_spent_seconds, evaluation_status, created_at, updated_at`

func (r *pgEvaluationRepository) CreateEvaluation(ctx context.Context, evaluation *model.Evaluation) error {
	query := `INSERT INTO evaluations (id, annotation_id, evaluator_id,
		annotation_quality_score, accuracy_score, completeness_score,
		overall_evaluation_score, feedback, evaluation_notes, time_spent_seconds,
		evaluation_status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING created_at, updated_at`
	err := r.db.QueryRowContext(ctx, query,
		evaluation.ID, evaluation.AnnotationID, evaluation.EvaluatorID,
		evaluation.AnnotationQualityScore, evaluation.AccuracyScore,
		evaluation.CompletenessScore, evaluation.OverallEvaluationScore,
		evaluation.Feedback, evaluation.EvaluationNotes, evaluation.TimeSpentSeconds,
		evaluation.EvaluationStatus,
	).Scan(&evaluation.CreatedAt, &evaluation.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("annotation already evaluated by this user: %w", common.ErrConflict)
		}
		return fmt.Errorf("pgEvaluationRepository.CreateEvaluation: %w", err)
	}
	return nil
}

func (r *pgEvaluationRepository) UpdateEvaluation(ctx context.Context, evaluation *model.Evaluation) error {
	query := `UPDATE evaluations SET annotation_quality_score = $1, accuracy_score = $2,
		completeness_score = $3, overall_evaluation_score = $4, feedback = $5,
		evaluation_notes = $6, time_spent_seconds = $7, updated_at = now()
		WHERE id = $8
		RETURNING updated_at`
	err := r.db.QueryRowContext(ctx, query,
		evaluation.AnnotationQualityScore, evaluation.AccuracyScore,
		evaluation.CompletenessScore, evaluation.OverallEvaluationScore,
		evaluation.Feedback, evaluation.EvaluationNotes, evaluation.TimeSpentSeconds,
		evaluation.ID,
	).Scan(&evaluation.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("evaluation not found: %w", common.ErrNotFound)
		}
		return fmt.Errorf("pgEvaluationRepository.UpdateEvaluation: %w", err)
	}
	return nil
}

func (r *pgEvaluationRepository) FindEvaluationByID(ctx context.Context, id string) (*model.Evaluation, error) {
	query := fmt.Sprintf(`SELECT %s FROM evaluations WHERE id = $1`, evaluationColumns)
	evaluation, err := scanEvaluation(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("evaluation not found: %w", common.ErrNotFound)
		}
		return nil, fmt.Errorf("pgEvaluationRepository.FindEvaluationByID: %w", err)
	}
	return evaluation, nil
}

func (r *pgEvaluationRepository) ListEvaluationsByEvaluator(ctx context.Context, evaluatorID string, skip, limit int) ([]model.Evaluation, error) {
	query := fmt.Sprintf(`SELECT %s FROM evaluations WHERE evaluator_id = $1
		ORDER BY created_at DESC, id OFFSET $2 LIMIT $3`, evaluationColumns)
	return r.queryEvaluations(ctx, "ListEvaluationsByEvaluator", query, evaluatorID, skip, limit)
}

func (r *pgEvaluationRepository) ListEvaluationsByAnnotation(ctx context.Context, annotationID string) ([]model.Evaluation, error) {
	query := fmt.Sprintf(`SELECT %s FROM evaluations WHERE annotation_id = $1
		ORDER BY created_at, id`, evaluationColumns)
	return r.queryEvaluations(ctx, "ListEvaluationsByAnnotation", query, annotationID)
}

func (r *pgEvaluationRepository) CountEvaluationsByEvaluator(ctx context.Context, evaluatorID string) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM evaluations WHERE evaluator_id = $1`
	if err := r.db.QueryRowContext(ctx, query, evaluatorID).Scan(&count); err != nil {
		return 0, fmt.Errorf("pgEvaluationRepository.CountEvaluationsByEvaluator: %w", err)
	}
	return count, nil
}

func (r *pgEvaluationRepository) CountCompletedEvaluationsByEvaluator(ctx context.Context, evaluatorID string) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM evaluations WHERE evaluator_id = $1 AND evaluation_status = 'completed'`
	if err := r.db.QueryRowContext(ctx, query, evaluatorID).Scan(&count); err != nil {
		return 0, fmt.Errorf("pgEvaluationRepository.CountCompletedEvaluationsByEvaluator: %w", err)
	}
	return count, nil
}

// AverageEvaluationTime averages time_spent_seconds over the evaluator's
// evaluations that recorded a duration; 0 when none did.
func (r *pgEvaluationRepository) AverageEvaluationTime(ctx context.Context, evaluatorID string) (float64, error) {
	var avg float64
	query := `SELECT COALESCE(AVG(time_spent_seconds), 0) FROM evaluations
		WHERE evaluator_id = $1 AND time_spent_seconds IS NOT NULL`
	if err := r.db.QueryRowContext(ctx, query, evaluatorID).Scan(&avg); err != nil {
		return 0, fmt.Errorf("pgEvaluationRepository.AverageEvaluationTime: %w", err)
	}
	return avg, nil
}

func (r *pgEvaluationRepository) queryEvaluations(ctx context.Context, op, query string, args ...interface{}) ([]model.Evaluation, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("pgEvaluationRepository.%s: %w", op, err)
	}
	defer rows.Close()

	evaluations := []model.Evaluation{}
	for rows.Next() {
		evaluation, err := scanEvaluation(rows)
		if err != nil {
			return nil, fmt.Errorf("pgEvaluationRepository.%s: scan: %w", op, err)
		}
		evaluations = append(evaluations, *evaluation)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("pgEvaluationRepository.%s: rows: %w", op, err)
	}
	return evaluations, nil
}

func scanEvaluation(row rowScanner) (*model.Evaluation, error) {
	var evaluation model.Evaluation
	err := row.Scan(
		&evaluation.ID, &evaluation.AnnotationID, &evaluation.EvaluatorID,
		&evaluation.AnnotationQualityScore, &evaluation.AccuracyScore,
		&evaluation.CompletenessScore, &evaluation.OverallEvaluationScore,
		&evaluation.Feedback, &evaluation.EvaluationNotes, &evaluation.TimeSpentSeconds,
		&evaluation.EvaluationStatus, &evaluation.CreatedAt, &evaluation.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &evaluation, nil
}
