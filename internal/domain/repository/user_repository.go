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

type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	FindByID(ctx context.Context, id string) (*model.User, error)
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	List(ctx context.Context, skip, limit int) ([]model.User, error)
	SetGuidelinesSeen(ctx context.Context, userID string) error
	ToggleEvaluator(ctx context.Context, userID string) (*model.User, error)
	ReplaceLanguages(ctx context.Context, userID string, languages []string) error
	CountUsers(ctx context.Context) (int, error)
	CountActiveUsers(ctx context.Context) (int, error)
}

type pgUserRepository struct {
	db *sql.DB
}

func NewPgUserRepository(db *sql.DB) UserRepository {
	return &pgUserRepository{db: db}
}

const userColumns = `id, email, username, first_name, last_name, hashed_password,
	preferred_language, is_active, is_admin, is_evaluator, guidelines_seen, created_at`

// Create inserts the user and their language assignments in one transaction.
// Duplicate email or username surfaces as common.ErrConflict via the unique
// indexes on users.
func (r *pgUserRepository) Create(ctx context.Context, user *model.User) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("pgUserRepository.Create: begin: %w", err)
	}
	defer tx.Rollback()

	query := `INSERT INTO users (id, email, username, first_name, last_name, hashed_password,
		preferred_language, is_active, is_admin, is_evaluator, guidelines_seen)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING created_at`
	err = tx.QueryRowContext(ctx, query,
		user.ID, user.Email, user.Username, user.FirstName, user.LastName,
		user.HashedPassword, user.PreferredLanguage, user.IsActive,
		user.IsAdmin, user.IsEvaluator, user.GuidelinesSeen,
	).Scan(&user.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("email or username already registered: %w", common.ErrConflict)
		}
		return fmt.Errorf("pgUserRepository.Create: %w", err)
	}

	for _, lang := range user.Languages {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO user_languages (id, user_id, language) VALUES ($1, $2, $3)`,
			uuid.NewString(), user.ID, lang)
		if err != nil {
			if isUniqueViolation(err) {
				return fmt.Errorf("duplicate language %q: %w", lang, common.ErrConflict)
			}
			return fmt.Errorf("pgUserRepository.Create: languages: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("pgUserRepository.Create: commit: %w", err)
	}
	return nil
}

func (r *pgUserRepository) FindByID(ctx context.Context, id string) (*model.User, error) {
	return r.findBy(ctx, "id", id)
}

func (r *pgUserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	return r.findBy(ctx, "email", email)
}

func (r *pgUserRepository) findBy(ctx context.Context, column, value string) (*model.User, error) {
	query := fmt.Sprintf(`SELECT %s FROM users WHERE %s = $1`, userColumns, column)
	user, err := scanUser(r.db.QueryRowContext(ctx, query, value))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("user not found: %w", common.ErrNotFound)
		}
		return nil, fmt.Errorf("pgUserRepository.findBy %s: %w", column, err)
	}
	if err := r.loadLanguages(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (r *pgUserRepository) List(ctx context.Context, skip, limit int) ([]model.User, error) {
	query := fmt.Sprintf(`SELECT %s FROM users ORDER BY created_at, id OFFSET $1 LIMIT $2`, userColumns)
	rows, err := r.db.QueryContext(ctx, query, skip, limit)
	if err != nil {
		return nil, fmt.Errorf("pgUserRepository.List: %w", err)
	}
	defer rows.Close()

	users := []model.User{}
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("pgUserRepository.List: scan: %w", err)
		}
		users = append(users, *user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("pgUserRepository.List: rows: %w", err)
	}

	for i := range users {
		if err := r.loadLanguages(ctx, &users[i]); err != nil {
			return nil, err
		}
	}
	return users, nil
}

func (r *pgUserRepository) SetGuidelinesSeen(ctx context.Context, userID string) error {
	res, err := r.db.ExecContext(ctx, `UPDATE users SET guidelines_seen = TRUE WHERE id = $1`, userID)
	if err != nil {
		return fmt.Errorf("pgUserRepository.SetGuidelinesSeen: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("user not found: %w", common.ErrNotFound)
	}
	return nil
}

func (r *pgUserRepository) ToggleEvaluator(ctx context.Context, userID string) (*model.User, error) {
	query := fmt.Sprintf(`UPDATE users SET is_evaluator = NOT is_evaluator WHERE id = $1
		RETURNING %s`, userColumns)
	user, err := scanUser(r.db.QueryRowContext(ctx, query, userID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("user not found: %w", common.ErrNotFound)
		}
		return nil, fmt.Errorf("pgUserRepository.ToggleEvaluator: %w", err)
	}
	if err := r.loadLanguages(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// ReplaceLanguages swaps the full language set for a user in one transaction
// and keeps preferred_language pointing at the first entry.
func (r *pgUserRepository) ReplaceLanguages(ctx context.Context, userID string, languages []string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("pgUserRepository.ReplaceLanguages: begin: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM user_languages WHERE user_id = $1`, userID); err != nil {
		return fmt.Errorf("pgUserRepository.ReplaceLanguages: delete: %w", err)
	}
	for _, lang := range languages {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO user_languages (id, user_id, language) VALUES ($1, $2, $3)`,
			uuid.NewString(), userID, lang)
		if err != nil {
			if isUniqueViolation(err) {
				return fmt.Errorf("duplicate language %q: %w", lang, common.ErrConflict)
			}
			return fmt.Errorf("pgUserRepository.ReplaceLanguages: insert: %w", err)
		}
	}
	if len(languages) > 0 {
		res, err := tx.ExecContext(ctx,
			`UPDATE users SET preferred_language = $1 WHERE id = $2`, languages[0], userID)
		if err != nil {
			return fmt.Errorf("pgUserRepository.ReplaceLanguages: update preferred: %w", err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return fmt.Errorf("user not found: %w", common.ErrNotFound)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("pgUserRepository.ReplaceLanguages: commit: %w", err)
	}
	return nil
}

func (r *pgUserRepository) CountUsers(ctx context.Context) (int, error) {
	var count int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&count); err != nil {
		return 0, fmt.Errorf("pgUserRepository.CountUsers: %w", err)
	}
	return count, nil
}

func (r *pgUserRepository) CountActiveUsers(ctx context.Context) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM users WHERE is_active = TRUE`
	if err := r.db.QueryRowContext(ctx, query).Scan(&count); err != nil {
		return 0, fmt.Errorf("pgUserRepository.CountActiveUsers: %w", err)
	}
	return count, nil
}

func (r *pgUserRepository) loadLanguages(ctx context.Context, user *model.User) error {
	rows, err := r.db.QueryContext(ctx,
		`SELECT language FROM user_languages WHERE user_id = $1 ORDER BY language`, user.ID)
	if err != nil {
		return fmt.Errorf("pgUserRepository.loadLanguages: %w", err)
	}
	defer rows.Close()

	user.Languages = []string{}
	for rows.Next() {
		var lang string
		if err := rows.Scan(&lang); err != nil {
			return fmt.Errorf("pgUserRepository.loadLanguages: scan: %w", err)
		}
		user.Languages = append(user.Languages, lang)
	}
	return rows.Err()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanUser(row rowScanner) (*model.User, error) {
	var user model.User
	err := row.Scan(
		&user.ID, &user.Email, &user.Username, &user.FirstName, &user.LastName,
		&user.HashedPassword, &user.PreferredLanguage, &user.IsActive,
		&user.IsAdmin, &user.IsEvaluator, &user.GuidelinesSeen, &user.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &user, nil
}
