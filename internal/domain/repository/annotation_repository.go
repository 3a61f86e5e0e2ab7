package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"mt_annotate/internal/common"
	"mt_annotate/internal/domain/model"

	"github.com/google/uuid"
)

type AnnotationRepository interface {
	CreateAnnotation(ctx context.Context, annotation *model.Annotation) error
	UpdateAnnotation(ctx context.Context, annotation *model.Annotation, replaceHighlights bool) error
	FindAnnotationByID(ctx context.Context, id string) (*model.Annotation, error)
	ListAnnotationsByAnnotator(ctx context.Context, annotatorID string, skip, limit int) ([]model.Annotation, error)
	ListAnnotations(ctx context.Context, skip, limit int) ([]model.Annotation, error)
	ListAnnotationsBySentence(ctx context.Context, sentenceID string) ([]model.Annotation, error)
	ListPendingAnnotations(ctx context.Context, evaluatorID string, skip, limit int) ([]model.Annotation, error)
	CountPendingAnnotations(ctx context.Context, evaluatorID string) (int, error)
	SetAnnotationStatus(ctx context.Context, annotationID, status string) error
	CountAnnotations(ctx context.Context) (int, error)
	CountAnnotationsByStatus(ctx context.Context, status string) (int, error)
}

type pgAnnotationRepository struct {
	db *sql.DB
}

func NewPgAnnotationRepository(db *sql.DB) AnnotationRepository {
	return &pgAnnotationRepository{db: db}
}

const annotationColumns = `id, sentence_id, annotator_id, fluency_score, adequacy_score,
	overall_quality, errors_found, suggested_correction, comments, final_form,
	time_spent_seconds, annotation_status, created_at, updated_at`

// CreateAnnotation inserts the annotation and its highlights in one
// transaction. A second annotation for the same (sentence, annotator) pair
// hits the unique index and comes back as common.ErrConflict.
func (r *pgAnnotationRepository) CreateAnnotation(ctx context.Context, annotation *model.Annotation) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("pgAnnotationRepository.CreateAnnotation: begin: %w", err)
	}
	defer tx.Rollback()

	query := `INSERT INTO annotations (id, sentence_id, annotator_id, fluency_score,
		adequacy_score, overall_quality, errors_found, suggested_correction, comments,
		final_form, time_spent_seconds, annotation_status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING created_at, updated_at`
	err = tx.QueryRowContext(ctx, query,
		annotation.ID, annotation.SentenceID, annotation.AnnotatorID,
		annotation.FluencyScore, annotation.AdequacyScore, annotation.OverallQuality,
		annotation.ErrorsFound, annotation.SuggestedCorrection, annotation.Comments,
		annotation.FinalForm, annotation.TimeSpentSeconds, annotation.AnnotationStatus,
	).Scan(&annotation.CreatedAt, &annotation.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("sentence already annotated by this user: %w", common.ErrConflict)
		}
		return fmt.Errorf("pgAnnotationRepository.CreateAnnotation: %w", err)
	}

	if err := insertHighlights(ctx, tx, annotation); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("pgAnnotationRepository.CreateAnnotation: commit: %w", err)
	}
	return nil
}

// UpdateAnnotation writes the mutable fields back. When replaceHighlights is
// set, the existing highlight rows are dropped and the ones on the annotation
// inserted in their place, all within the same transaction.
func (r *pgAnnotationRepository) UpdateAnnotation(ctx context.Context, annotation *model.Annotation, replaceHighlights bool) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("pgAnnotationRepository.UpdateAnnotation: begin: %w", err)
	}
	defer tx.Rollback()

	query := `UPDATE annotations SET fluency_score = $1, adequacy_score = $2,
		overall_quality = $3, errors_found = $4, suggested_correction = $5,
		comments = $6, final_form = $7, time_spent_seconds = $8,
		annotation_status = $9, updated_at = now()
		WHERE id = $10
		RETURNING updated_at`
	err = tx.QueryRowContext(ctx, query,
		annotation.FluencyScore, annotation.AdequacyScore, annotation.OverallQuality,
		annotation.ErrorsFound, annotation.SuggestedCorrection, annotation.Comments,
		annotation.FinalForm, annotation.TimeSpentSeconds, annotation.AnnotationStatus,
		annotation.ID,
	).Scan(&annotation.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("annotation not found: %w", common.ErrNotFound)
		}
		return fmt.Errorf("pgAnnotationRepository.UpdateAnnotation: %w", err)
	}

	if replaceHighlights {
		if _, err := tx.ExecContext(ctx,
			`DELETE FROM text_highlights WHERE annotation_id = $1`, annotation.ID); err != nil {
			return fmt.Errorf("pgAnnotationRepository.UpdateAnnotation: delete highlights: %w", err)
		}
		if err := insertHighlights(ctx, tx, annotation); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("pgAnnotationRepository.UpdateAnnotation: commit: %w", err)
	}
	return nil
}

func insertHighlights(ctx context.Context, tx *sql.Tx, annotation *model.Annotation) error {
	query := `INSERT INTO text_highlights (id, annotation_id, highlighted_text,
		start_index, end_index, text_type, comment, error_type)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at`
	for i := range annotation.Highlights {
		h := &annotation.Highlights[i]
		if h.ID == "" {
			h.ID = uuid.NewString()
		}
		h.AnnotationID = annotation.ID
		err := tx.QueryRowContext(ctx, query,
			h.ID, h.AnnotationID, h.HighlightedText, h.StartIndex, h.EndIndex,
			h.TextType, h.Comment, h.ErrorType,
		).Scan(&h.CreatedAt)
		if err != nil {
			return fmt.Errorf("pgAnnotationRepository: insert highlight: %w", err)
		}
	}
	return nil
}

func (r *pgAnnotationRepository) FindAnnotationByID(ctx context.Context, id string) (*model.Annotation, error) {
	query := fmt.Sprintf(`SELECT %s FROM annotations WHERE id = $1`, annotationColumns)
	annotation, err := scanAnnotation(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("annotation not found: %w", common.ErrNotFound)
		}
		return nil, fmt.Errorf("pgAnnotationRepository.FindAnnotationByID: %w", err)
	}
	if err := r.loadHighlights(ctx, annotation); err != nil {
		return nil, err
	}
	return annotation, nil
}

func (r *pgAnnotationRepository) ListAnnotationsByAnnotator(ctx context.Context, annotatorID string, skip, limit int) ([]model.Annotation, error) {
	query := fmt.Sprintf(`SELECT %s FROM annotations WHERE annotator_id = $1
		ORDER BY created_at DESC, id OFFSET $2 LIMIT $3`, annotationColumns)
	return r.queryAnnotations(ctx, "ListAnnotationsByAnnotator", query, annotatorID, skip, limit)
}

func (r *pgAnnotationRepository) ListAnnotations(ctx context.Context, skip, limit int) ([]model.Annotation, error) {
	query := fmt.Sprintf(`SELECT %s FROM annotations
		ORDER BY created_at DESC, id OFFSET $1 LIMIT $2`, annotationColumns)
	return r.queryAnnotations(ctx, "ListAnnotations", query, skip, limit)
}

func (r *pgAnnotationRepository) ListAnnotationsBySentence(ctx context.Context, sentenceID string) ([]model.Annotation, error) {
	query := fmt.Sprintf(`SELECT %s FROM annotations WHERE sentence_id = $1
		ORDER BY created_at, id`, annotationColumns)
	return r.queryAnnotations(ctx, "ListAnnotationsBySentence", query, sentenceID)
}

// ListPendingAnnotations returns completed annotations that evaluatorID has
// not evaluated yet. Annotations already flipped to reviewed drop out.
func (r *pgAnnotationRepository) ListPendingAnnotations(ctx context.Context, evaluatorID string, skip, limit int) ([]model.Annotation, error) {
	query := fmt.Sprintf(`SELECT %s FROM annotations a
		WHERE a.annotation_status = 'completed'
		  AND NOT EXISTS (
			SELECT 1 FROM evaluations e
			WHERE e.annotation_id = a.id AND e.evaluator_id = $1
		  )
		ORDER BY a.created_at, a.id OFFSET $2 LIMIT $3`, annotationColumns)
	return r.queryAnnotations(ctx, "ListPendingAnnotations", query, evaluatorID, skip, limit)
}

func (r *pgAnnotationRepository) CountPendingAnnotations(ctx context.Context, evaluatorID string) (int, error) {
	query := `SELECT COUNT(*) FROM annotations a
		WHERE a.annotation_status = 'completed'
		  AND NOT EXISTS (
			SELECT 1 FROM evaluations e
			WHERE e.annotation_id = a.id AND e.evaluator_id = $1
		  )`
	var count int
	if err := r.db.QueryRowContext(ctx, query, evaluatorID).Scan(&count); err != nil {
		return 0, fmt.Errorf("pgAnnotationRepository.CountPendingAnnotations: %w", err)
	}
	return count, nil
}

func (r *pgAnnotationRepository) SetAnnotationStatus(ctx context.Context, annotationID, status string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE annotations SET annotation_status = $1, updated_at = now() WHERE id = $2`,
		status, annotationID)
	if err != nil {
		return fmt.Errorf("pgAnnotationRepository.SetAnnotationStatus: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("annotation not found: %w", common.ErrNotFound)
	}
	return nil
}

func (r *pgAnnotationRepository) CountAnnotations(ctx context.Context) (int, error) {
	var count int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM annotations`).Scan(&count); err != nil {
		return 0, fmt.Errorf("pgAnnotationRepository.CountAnnotations: %w", err)
	}
	return count, nil
}

func (r *pgAnnotationRepository) CountAnnotationsByStatus(ctx context.Context, status string) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM annotations WHERE annotation_status = $1`
	if err := r.db.QueryRowContext(ctx, query, status).Scan(&count); err != nil {
		return 0, fmt.Errorf("pgAnnotationRepository.CountAnnotationsByStatus: %w", err)
	}
	return count, nil
}

func (r *pgAnnotationRepository) queryAnnotations(ctx context.Context, op, query string, args ...interface{}) ([]model.Annotation, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("pgAnnotationRepository.%s: %w", op, err)
	}
	defer rows.Close()

	annotations := []model.Annotation{}
	for rows.Next() {
		annotation, err := scanAnnotation(rows)
		if err != nil {
			return nil, fmt.Errorf("pgAnnotationRepository.%s: scan: %w", op, err)
		}
		annotations = append(annotations, *annotation)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("pgAnnotationRepository.%s: rows: %w", op, err)
	}

	for i := range annotations {
		if err := r.loadHighlights(ctx, &annotations[i]); err != nil {
			return nil, err
		}
	}
	return annotations, nil
}

func (r *pgAnnotationRepository) loadHighlights(ctx context.Context, annotation *model.Annotation) error {
	query := `SELECT id, annotation_id, highlighted_text, start_index, end_index,
		text_type, comment, error_type, created_at
		FROM text_highlights WHERE annotation_id = $1
		ORDER BY start_index, id`
	rows, err := r.db.QueryContext(ctx, query, annotation.ID)
	if err != nil {
		return fmt.Errorf("pgAnnotationRepository.loadHighlights: %w", err)
	}
	defer rows.Close()

	annotation.Highlights = []model.TextHighlight{}
	for rows.Next() {
		var h model.TextHighlight
		err := rows.Scan(&h.ID, &h.AnnotationID, &h.HighlightedText, &h.StartIndex,
			&h.EndIndex, &h.TextType, &h.Comment, &h.ErrorType, &h.CreatedAt)
		if err != nil {
			return fmt.Errorf("pgAnnotationRepository.loadHighlights: scan: %w", err)
		}
		annotation.Highlights = append(annotation.Highlights, h)
	}
	return rows.Err()
}

func scanAnnotation(row rowScanner) (*model.Annotation, error) {
	var annotation model.Annotation
	err := row.Scan(
		&annotation.ID, &annotation.SentenceID, &annotation.AnnotatorID,
		&annotation.FluencyScore, &annotation.AdequacyScore, &annotation.OverallQuality,
		&annotation.ErrorsFound, &annotation.SuggestedCorrection, &annotation.Comments,
		&annotation.FinalForm, &annotation.TimeSpentSeconds, &annotation.AnnotationStatus,
		&annotation.CreatedAt, &annotation.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &annotation, nil
}
