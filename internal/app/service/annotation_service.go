package service

import (
	"context"
	"fmt"
	"strings"

	"mt_annotate/internal/common"
	"mt_annotate/internal/domain/model"
	"mt_annotate/internal/domain/repository"

	"github.com/google/uuid"
)

type AnnotationService struct {
	annRepo      repository.AnnotationRepository
	sentenceRepo repository.SentenceRepository
	userRepo     repository.UserRepository
}

func NewAnnotationService(annRepo repository.AnnotationRepository, sentenceRepo repository.SentenceRepository, userRepo repository.UserRepository) *AnnotationService {
	return &AnnotationService{annRepo: annRepo, sentenceRepo: sentenceRepo, userRepo: userRepo}
}

type HighlightRequest struct {
	HighlightedText string `json:"highlighted_text"`
	StartIndex      int    `json:"start_index"`
	EndIndex        int    `json:"end_index"`
	TextType        string `json:"text_type"`
	Comment         string `json:"comment"`
	ErrorType       string `json:"error_type"`
}

type CreateAnnotationRequest struct {
	SentenceID          string             `json:"sentence_id"`
	FluencyScore        *int               `json:"fluency_score"`
	AdequacyScore       *int               `json:"adequacy_score"`
	OverallQuality      *int               `json:"overall_quality"`
	ErrorsFound         *string            `json:"errors_found"`
	SuggestedCorrection *string            `json:"suggested_correction"`
	Comments            *string            `json:"comments"`
	FinalForm           *string            `json:"final_form"`
	TimeSpentSeconds    *int               `json:"time_spent_seconds"`
	Highlights          []HighlightRequest `json:"highlights"`
}

type UpdateAnnotationRequest struct {
	FluencyScore        *int    `json:"fluency_score"`
	AdequacyScore       *int    `json:"adequacy_score"`
	OverallQuality      *int    `json:"overall_quality"`
	ErrorsFound         *string `json:"errors_found"`
	SuggestedCorrection *string `json:"suggested_correction"`
	Comments            *string `json:"comments"`
	FinalForm           *string `json:"final_form"`
	TimeSpentSeconds    *int    `json:"time_spent_seconds"`

	// nil keeps the existing highlights; a non-nil slice (even empty)
	// replaces them.
	Highlights *[]HighlightRequest `json:"highlights"`
}

// Create records a new annotation for the current user. The sentence must
// exist; a prior annotation of it by the same user surfaces as a conflict
// from the unique index, never from a pre-check.
func (s *AnnotationService) Create(ctx context.Context, userID string, req CreateAnnotationRequest) (*model.Annotation, error) {
	if req.SentenceID == "" {
		return nil, fmt.Errorf("sentence_id is required: %w", common.ErrValidation)
	}
	sentence, err := s.sentenceRepo.FindSentenceByID(ctx, req.SentenceID)
	if err != nil {
		return nil, err
	}
	if err := validateScores(req.FluencyScore, req.AdequacyScore, req.OverallQuality); err != nil {
		return nil, err
	}
	highlights, err := buildHighlights(req.Highlights)
	if err != nil {
		return nil, err
	}

	annotation := &model.Annotation{
		ID:                  uuid.NewString(),
		SentenceID:          req.SentenceID,
		AnnotatorID:         userID,
		FluencyScore:        req.FluencyScore,
		AdequacyScore:       req.AdequacyScore,
		OverallQuality:      req.OverallQuality,
		ErrorsFound:         req.ErrorsFound,
		SuggestedCorrection: req.SuggestedCorrection,
		Comments:            req.Comments,
		FinalForm:           req.FinalForm,
		TimeSpentSeconds:    req.TimeSpentSeconds,
		AnnotationStatus:    model.AnnotationStatusCompleted,
		Highlights:          highlights,
	}
	if err := s.annRepo.CreateAnnotation(ctx, annotation); err != nil {
		return nil, err
	}

	annotation.Sentence = sentence
	if annotator, err := s.userRepo.FindByID(ctx, userID); err == nil {
		annotation.Annotator = annotator
	}
	return annotation, nil
}

// Update patches the caller's own annotation. An annotation owned by someone
// else reads as not found rather than forbidden.
func (s *AnnotationService) Update(ctx context.Context, userID, annotationID string, req UpdateAnnotationRequest) (*model.Annotation, error) {
	annotation, err := s.annRepo.FindAnnotationByID(ctx, annotationID)
	if err != nil {
		return nil, err
	}
	if annotation.AnnotatorID != userID {
		return nil, fmt.Errorf("annotation not found: %w", common.ErrNotFound)
	}

	if req.FluencyScore != nil {
		annotation.FluencyScore = req.FluencyScore
	}
	if req.AdequacyScore != nil {
		annotation.AdequacyScore = req.AdequacyScore
	}
	if req.OverallQuality != nil {
		annotation.OverallQuality = req.OverallQuality
	}
	if req.ErrorsFound != nil {
		annotation.ErrorsFound = req.ErrorsFound
	}
	if req.SuggestedCorrection != nil {
		annotation.SuggestedCorrection = req.SuggestedCorrection
	}
	if req.Comments != nil {
		annotation.Comments = req.Comments
	}
	if req.FinalForm != nil {
		annotation.FinalForm = req.FinalForm
	}
	if req.TimeSpentSeconds != nil {
		annotation.TimeSpentSeconds = req.TimeSpentSeconds
	}
	if err := validateScores(annotation.FluencyScore, annotation.AdequacyScore, annotation.OverallQuality); err != nil {
		return nil, err
	}

	replaceHighlights := req.Highlights != nil
	if replaceHighlights {
		highlights, err := buildHighlights(*req.Highlights)
		if err != nil {
			return nil, err
		}
		annotation.Highlights = highlights
	}

	if err := s.annRepo.UpdateAnnotation(ctx, annotation, replaceHighlights); err != nil {
		return nil, err
	}
	return s.hydrate(ctx, annotation, true)
}

func (s *AnnotationService) Get(ctx context.Context, id string) (*model.Annotation, error) {
	annotation, err := s.annRepo.FindAnnotationByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.hydrate(ctx, annotation, true)
}

// Mine lists the caller's annotations, newest first, with sentences attached.
func (s *AnnotationService) Mine(ctx context.Context, userID string, skip, limit int) ([]model.Annotation, error) {
	skip, limit = clampPage(skip, limit, 100)
	annotations, err := s.annRepo.ListAnnotationsByAnnotator(ctx, userID, skip, limit)
	if err != nil {
		return nil, err
	}
	return s.hydrateAll(ctx, annotations, false)
}

// All lists every annotation with sentence and annotator attached. Admin only
// at the route level.
func (s *AnnotationService) All(ctx context.Context, skip, limit int) ([]model.Annotation, error) {
	skip, limit = clampPage(skip, limit, 100)
	annotations, err := s.annRepo.ListAnnotations(ctx, skip, limit)
	if err != nil {
		return nil, err
	}
	return s.hydrateAll(ctx, annotations, true)
}

func (s *AnnotationService) BySentence(ctx context.Context, sentenceID string) ([]model.Annotation, error) {
	if _, err := s.sentenceRepo.FindSentenceByID(ctx, sentenceID); err != nil {
		return nil, err
	}
	annotations, err := s.annRepo.ListAnnotationsBySentence(ctx, sentenceID)
	if err != nil {
		return nil, err
	}
	return s.hydrateAll(ctx, annotations, true)
}

func (s *AnnotationService) hydrate(ctx context.Context, annotation *model.Annotation, withAnnotator bool) (*model.Annotation, error) {
	sentence, err := s.sentenceRepo.FindSentenceByID(ctx, annotation.SentenceID)
	if err != nil {
		return nil, err
	}
	annotation.Sentence = sentence
	if withAnnotator {
		annotator, err := s.userRepo.FindByID(ctx, annotation.AnnotatorID)
		if err != nil {
			return nil, err
		}
		annotation.Annotator = annotator
	}
	return annotation, nil
}

func (s *AnnotationService) hydrateAll(ctx context.Context, annotations []model.Annotation, withAnnotator bool) ([]model.Annotation, error) {
	for i := range annotations {
		if _, err := s.hydrate(ctx, &annotations[i], withAnnotator); err != nil {
			return nil, err
		}
	}
	return annotations, nil
}

func validateScores(scores ...*int) error {
	for _, score := range scores {
		if score != nil && (*score < 1 || *score > 5) {
			return fmt.Errorf("scores must be between 1 and 5: %w", common.ErrValidation)
		}
	}
	return nil
}

var validErrorTypes = map[string]bool{
	model.ErrorTypeMinorSyntactic: true,
	model.ErrorTypeMinorSemantic:  true,
	model.ErrorTypeMajorSyntactic: true,
	model.ErrorTypeMajorSemantic:  true,
}

// buildHighlights validates highlight spans and drops duplicates: two
// highlights with the same (start_index, end_index, text_type, comment) are
// one highlight.
func buildHighlights(reqs []HighlightRequest) ([]model.TextHighlight, error) {
	type key struct {
		start, end int
		textType   string
		comment    string
	}
	seen := map[key]bool{}

	highlights := []model.TextHighlight{}
	for _, req := range reqs {
		if req.StartIndex < 0 || req.EndIndex < req.StartIndex {
			return nil, fmt.Errorf("invalid highlight span [%d, %d]: %w",
				req.StartIndex, req.EndIndex, common.ErrValidation)
		}
		textType := strings.TrimSpace(req.TextType)
		if textType == "" {
			textType = "machine"
		}
		errorType := strings.TrimSpace(req.ErrorType)
		if errorType == "" {
			errorType = model.ErrorTypeMinorSemantic
		}
		if !validErrorTypes[errorType] {
			return nil, fmt.Errorf("unknown error_type %q: %w", errorType, common.ErrValidation)
		}

		k := key{req.StartIndex, req.EndIndex, textType, req.Comment}
		if seen[k] {
			continue
		}
		seen[k] = true

		highlights = append(highlights, model.TextHighlight{
			HighlightedText: req.HighlightedText,
			StartIndex:      req.StartIndex,
			EndIndex:        req.EndIndex,
			TextType:        textType,
			Comment:         req.Comment,
			ErrorType:       errorType,
		})
	}
	return highlights, nil
}
