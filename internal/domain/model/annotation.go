package model

import (
	"time"
)

const (
	AnnotationStatusCompleted = "completed"
	AnnotationStatusReviewed  = "reviewed"
)

// Highlight error types: minor/major x syntactic/semantic.
const (
	ErrorTypeMinorSyntactic = "MI_ST"
	ErrorTypeMinorSemantic  = "MI_SE"
	ErrorTypeMajorSyntactic = "MA_ST"
	ErrorTypeMajorSemantic  = "MA_SE"
)

type Annotation struct {
	ID          string `json:"id"`
	SentenceID  string `json:"sentence_id"`
	AnnotatorID string `json:"annotator_id"`

	// Quality ratings (1-5 scale).
	FluencyScore   *int `json:"fluency_score"`
	AdequacyScore  *int `json:"adequacy_score"`
	OverallQuality *int `json:"overall_quality"`

	ErrorsFound         *string `json:"errors_found"`
	SuggestedCorrection *string `json:"suggested_correction"`
	Comments            *string `json:"comments"`
	FinalForm           *string `json:"final_form"`

	TimeSpentSeconds *int      `json:"time_spent_seconds"`
	AnnotationStatus string    `json:"annotation_status"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`

	Sentence   *Sentence       `json:"sentence,omitempty"`
	Annotator  *User           `json:"annotator,omitempty"`
	Highlights []TextHighlight `json:"highlights"`
}

// TextHighlight marks a span of the machine translation with a comment and an
// error category.
type TextHighlight struct {
	ID              string    `json:"id"`
	AnnotationID    string    `json:"annotation_id"`
	HighlightedText string    `json:"highlighted_text"`
	StartIndex      int       `json:"start_index"`
	EndIndex        int       `json:"end_index"`
	TextType        string    `json:"text_type"` // 'machine' only in practice
	Comment         string    `json:"comment"`
	ErrorType       string    `json:"error_type"`
	CreatedAt       time.Time `json:"created_at"`
}
