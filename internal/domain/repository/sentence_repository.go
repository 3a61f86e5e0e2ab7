package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"mt_annotate/internal/common"
	"mt_annotate/internal/domain/model"
)

type SentenceRepository interface {
	CreateSentence(ctx context.Context, sentence *model.Sentence) error
	CreateSentences(ctx context.Context, sentences []*model.Sentence) error
	FindSentenceByID(ctx context.Context, id string) (*model.Sentence, error)
	ListActiveSentences(ctx context.Context, skip, limit int) ([]model.Sentence, error)
	ListSentencesAdmin(ctx context.Context, sourceLanguage, targetLanguage string, skip, limit int) ([]model.Sentence, error)
	NextUnannotatedSentence(ctx context.Context, userID, targetLanguage string) (*model.Sentence, error)
	ListUnannotatedSentences(ctx context.Context, userID, targetLanguage string, skip, limit int) ([]model.Sentence, error)
	CountSentences(ctx context.Context) (int, error)
	CountSentencesByTargetLanguage(ctx context.Context) (map[string]int, error)
}

type pgSentenceRepository struct {
	db *sql.DB
}

func NewPgSentenceRepository(db *sql.DB) SentenceRepository {
	return &pgSentenceRepository{db: db}
}

const sentenceColumns = `id, source_text, machine_translation, source_language,
	target_language, domain, is_active, created_at`

func (r *pgSentenceRepository) CreateSentence(ctx context.Context, sentence *model.Sentence) error {
	query := `INSERT INTO sentences (id, source_text, machine_translation, source_language,
		target_language, domain, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at`
	err := r.db.QueryRowContext(ctx, query,
		sentence.ID, sentence.SourceText, sentence.MachineTranslation,
		sentence.SourceLanguage, sentence.TargetLanguage, sentence.Domain, sentence.IsActive,
	).Scan(&sentence.CreatedAt)
	if err != nil {
		return fmt.Errorf("pgSentenceRepository.CreateSentence: %w", err)
	}
	return nil
}

// CreateSentences inserts a batch atomically: either all rows land or none.
func (r *pgSentenceRepository) CreateSentences(ctx context.Context, sentences []*model.Sentence) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("pgSentenceRepository.CreateSentences: begin: %w", err)
	}
	defer tx.Rollback()

	query := `INSERT INTO sentences (id, source_text, machine_translation, source_language,
		target_language, domain, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at`
	for _, sentence := range sentences {
		err := tx.QueryRowContext(ctx, query,
			sentence.ID, sentence.SourceText, sentence.MachineTranslation,
			sentence.SourceLanguage, sentence.TargetLanguage, sentence.Domain, sentence.IsActive,
		).Scan(&sentence.CreatedAt)
		if err != nil {
			return fmt.Errorf("pgSentenceRepository.CreateSentences: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("pgSentenceRepository.CreateSentences: commit: %w", err)
	}
	return nil
}

func (r *pgSentenceRepository) FindSentenceByID(ctx context.Context, id string) (*model.Sentence, error) {
	query := fmt.Sprintf(`SELECT %s FROM sentences WHERE id = $1`, sentenceColumns)
	sentence, err := scanSentence(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("sentence not found: %w", common.ErrNotFound)
		}
		return nil, fmt.Errorf("pgSentenceRepository.FindSentenceByID: %w", err)
	}
	return sentence, nil
}

func (r *pgSentenceRepository) ListActiveSentences(ctx context.Context, skip, limit int) ([]model.Sentence, error) {
	query := fmt.Sprintf(`SELECT %s FROM sentences WHERE is_active = TRUE
		ORDER BY created_at, id OFFSET $1 LIMIT $2`, sentenceColumns)
	return r.querySentences(ctx, "ListActiveSentences", query, skip, limit)
}

// ListSentencesAdmin lists all sentences regardless of active flag, optionally
// filtered by source and/or target language. Empty filter values match all.
func (r *pgSentenceRepository) ListSentencesAdmin(ctx context.Context, sourceLanguage, targetLanguage string, skip, limit int) ([]model.Sentence, error) {
	query := fmt.Sprintf(`SELECT %s FROM sentences
		WHERE ($1 = '' OR source_language = $1)
		  AND ($2 = '' OR target_language = $2)
		ORDER BY created_at, id OFFSET $3 LIMIT $4`, sentenceColumns)
	return r.querySentences(ctx, "ListSentencesAdmin", query, sourceLanguage, targetLanguage, skip, limit)
}

// NextUnannotatedSentence returns the oldest active sentence in the target
// language that userID has not annotated yet, or ErrNotFound when the pool is
// exhausted.
func (r *pgSentenceRepository) NextUnannotatedSentence(ctx context.Context, userID, targetLanguage string) (*model.Sentence, error) {
	query := fmt.Sprintf(`SELECT %s FROM sentences s
		WHERE s.is_active = TRUE
		  AND s.target_language = $1
		  AND NOT EXISTS (
			SELECT 1 FROM annotations a
			WHERE a.sentence_id = s.id AND a.annotator_id = $2
		  )
		ORDER BY s.created_at, s.id
		LIMIT 1`, sentenceColumns)
	sentence, err := scanSentence(r.db.QueryRowContext(ctx, query, targetLanguage, userID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("no unannotated sentence: %w", common.ErrNotFound)
		}
		return nil, fmt.Errorf("pgSentenceRepository.NextUnannotatedSentence: %w", err)
	}
	return sentence, nil
}

func (r *pgSentenceRepository) ListUnannotatedSentences(ctx context.Context, userID, targetLanguage string, skip, limit int) ([]model.Sentence, error) {
	query := fmt.Sprintf(`SELECT %s FROM sentences s
		WHERE s.is_active = TRUE
		  AND s.target_language = $1
		  AND NOT EXISTS (
			SELECT 1 FROM annotations a
			WHERE a.sentence_id = s.id AND a.annotator_id = $2
		  )
		ORDER BY s.created_at, s.id OFFSET $3 LIMIT $4`, sentenceColumns)
	return r.querySentences(ctx, "ListUnannotatedSentences", query, targetLanguage, userID, skip, limit)
}

func (r *pgSentenceRepository) CountSentences(ctx context.Context) (int, error) {
	var count int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM sentences`).Scan(&count); err != nil {
		return 0, fmt.Errorf("pgSentenceRepository.CountSentences: %w", err)
	}
	return count, nil
}

func (r *pgSentenceRepository) CountSentencesByTargetLanguage(ctx context.Context) (map[string]int, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT target_language, COUNT(*) FROM sentences WHERE is_active = TRUE GROUP BY target_language`)
	if err != nil {
		return nil, fmt.Errorf("pgSentenceRepository.CountSentencesByTargetLanguage: %w", err)
	}
	defer rows.Close()

	counts := map[string]int{}
	for rows.Next() {
		var lang string
		var count int
		if err := rows.Scan(&lang, &count); err != nil {
			return nil, fmt.Errorf("pgSentenceRepository.CountSentencesByTargetLanguage: scan: %w", err)
		}
		counts[lang] = count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("pgSentenceRepository.CountSentencesByTargetLanguage: rows: %w", err)
	}
	return counts, nil
}

func (r *pgSentenceRepository) querySentences(ctx context.Context, op, query string, args ...interface{}) ([]model.Sentence, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("pgSentenceRepository.%s: %w", op, err)
	}
	defer rows.Close()

	sentences := []model.Sentence{}
	for rows.Next() {
		sentence, err := scanSentence(rows)
		if err != nil {
			return nil, fmt.Errorf("pgSentenceRepository.%s: scan: %w", op, err)
		}
		sentences = append(sentences, *sentence)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("pgSentenceRepository.%s: rows: %w", op, err)
	}
	return sentences, nil
}

func scanSentence(row rowScanner) (*model.Sentence, error) {
	var sentence model.Sentence
	err := row.Scan(
		&sentence.ID, &sentence.SourceText, &sentence.MachineTranslation,
		&sentence.SourceLanguage, &sentence.TargetLanguage, &sentence.Domain,
		&sentence.IsActive, &sentence.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &sentence, nil
}
