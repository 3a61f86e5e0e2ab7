package model

import (
	"time"
)

const EvaluationStatusCompleted = "completed"

// Evaluation is an evaluator's review of one annotation. Creating one marks
// the annotation reviewed.
type Evaluation struct {
	ID           string `json:"id"`
	AnnotationID string `json:"annotation_id"`
	EvaluatorID  string `json:"evaluator_id"`

	// Scores (1-5 scale).
	AnnotationQualityScore *int `json:"annotation_quality_score"`
	AccuracyScore          *int `json:"accuracy_score"`
	CompletenessScore      *int `json:"completeness_score"`
	OverallEvaluationScore *int `json:"overall_evaluation_score"`

	Feedback        *string `json:"feedback"`
	EvaluationNotes *string `json:"evaluation_notes"`

	TimeSpentSeconds *int      `json:"time_spent_seconds"`
	EvaluationStatus string    `json:"evaluation_status"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`

	Annotation *Annotation `json:"annotation,omitempty"`
	Evaluator  *User       `json:"evaluator,omitempty"`
}
