package model

import (
	"time"
)

type User struct {
	ID                string    `json:"id"`
	Email             string    `json:"email"`
	Username          string    `json:"username"`
	FirstName         string    `json:"first_name"`
	LastName          string    `json:"last_name"`
	HashedPassword    string    `json:"-"` // Not exposed
	PreferredLanguage string    `json:"preferred_language"`
	IsActive          bool      `json:"is_active"`
	IsAdmin           bool      `json:"is_admin"`
	IsEvaluator       bool      `json:"is_evaluator"`
	GuidelinesSeen    bool      `json:"guidelines_seen"`
	CreatedAt         time.Time `json:"created_at"`

	// Languages the user annotates for, from user_languages.
	Languages []string `json:"languages"`
}

// UserLanguage is one (user, language) assignment row. The set of rows for a
// user is what Languages above is loaded from; preferred_language on the user
// is the legacy single-language field kept in sync with the first entry.
type UserLanguage struct {
	ID       string `json:"id"`
	UserID   string `json:"user_id"`
	Language string `json:"language"`
}
