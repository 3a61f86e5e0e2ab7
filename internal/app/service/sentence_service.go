package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"mt_annotate/internal/common"
	"mt_annotate/internal/domain/model"
	"mt_annotate/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
)

type SentenceService struct {
	sentenceRepo repository.SentenceRepository
}

func NewSentenceService(sentenceRepo repository.SentenceRepository) *SentenceService {
	return &SentenceService{sentenceRepo: sentenceRepo}
}

type CreateSentenceRequest struct {
	SourceText         string `json:"source_text"`
	MachineTranslation string `json:"machine_translation"`
	SourceLanguage     string `json:"source_language"`
	TargetLanguage     string `json:"target_language"`
	Domain             string `json:"domain"`
}

func (req *CreateSentenceRequest) toModel() (*model.Sentence, error) {
	if strings.TrimSpace(req.SourceText) == "" || strings.TrimSpace(req.MachineTranslation) == "" {
		return nil, fmt.Errorf("source_text and machine_translation are required: %w", common.ErrValidation)
	}
	if strings.TrimSpace(req.SourceLanguage) == "" || strings.TrimSpace(req.TargetLanguage) == "" {
		return nil, fmt.Errorf("source_language and target_language are required: %w", common.ErrValidation)
	}

	sentence := &model.Sentence{
		ID:                 uuid.NewString(),
		SourceText:         req.SourceText,
		MachineTranslation: req.MachineTranslation,
		SourceLanguage:     strings.ToLower(strings.TrimSpace(req.SourceLanguage)),
		TargetLanguage:     strings.ToLower(strings.TrimSpace(req.TargetLanguage)),
		IsActive:           true,
	}
	// Domain labels are normalized so "Medical Text" and "medical-text" land
	// in the same bucket.
	if d := strings.TrimSpace(req.Domain); d != "" {
		normalized := slug.Make(d)
		sentence.Domain = &normalized
	}
	return sentence, nil
}

func (s *SentenceService) Create(ctx context.Context, req CreateSentenceRequest) (*model.Sentence, error) {
	sentence, err := req.toModel()
	if err != nil {
		return nil, err
	}
	if err := s.sentenceRepo.CreateSentence(ctx, sentence); err != nil {
		return nil, err
	}
	return sentence, nil
}

// BulkCreate validates the whole batch up front, then inserts it atomically.
func (s *SentenceService) BulkCreate(ctx context.Context, reqs []CreateSentenceRequest) ([]model.Sentence, error) {
	if len(reqs) == 0 {
		return nil, fmt.Errorf("no sentences provided: %w", common.ErrValidation)
	}

	sentences := make([]*model.Sentence, 0, len(reqs))
	for i := range reqs {
		sentence, err := reqs[i].toModel()
		if err != nil {
			return nil, fmt.Errorf("sentence %d: %w", i, err)
		}
		sentences = append(sentences, sentence)
	}

	if err := s.sentenceRepo.CreateSentences(ctx, sentences); err != nil {
		return nil, err
	}

	out := make([]model.Sentence, len(sentences))
	for i, sentence := range sentences {
		out[i] = *sentence
	}
	return out, nil
}

func (s *SentenceService) Get(ctx context.Context, id string) (*model.Sentence, error) {
	return s.sentenceRepo.FindSentenceByID(ctx, id)
}

func (s *SentenceService) List(ctx context.Context, skip, limit int) ([]model.Sentence, error) {
	skip, limit = clampPage(skip, limit, 100)
	return s.sentenceRepo.ListActiveSentences(ctx, skip, limit)
}

func (s *SentenceService) AdminList(ctx context.Context, sourceLanguage, targetLanguage string, skip, limit int) ([]model.Sentence, error) {
	skip, limit = clampPage(skip, limit, 100)
	return s.sentenceRepo.ListSentencesAdmin(ctx,
		strings.ToLower(strings.TrimSpace(sourceLanguage)),
		strings.ToLower(strings.TrimSpace(targetLanguage)),
		skip, limit)
}

// NextForUser returns the next sentence the user should annotate in their
// preferred language. A nil sentence with nil error means the pool is
// exhausted.
func (s *SentenceService) NextForUser(ctx context.Context, user *model.User) (*model.Sentence, error) {
	sentence, err := s.sentenceRepo.NextUnannotatedSentence(ctx, user.ID, user.PreferredLanguage)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return sentence, nil
}

// UnannotatedForUser pages through the same queue NextForUser draws from:
// active sentences in the user's preferred language without an annotation by
// them.
func (s *SentenceService) UnannotatedForUser(ctx context.Context, user *model.User, skip, limit int) ([]model.Sentence, error) {
	skip, limit = clampPage(skip, limit, 50)
	return s.sentenceRepo.ListUnannotatedSentences(ctx, user.ID, user.PreferredLanguage, skip, limit)
}

// CountsByLanguage returns active sentence counts keyed by target language,
// plus an "all" entry with the total.
func (s *SentenceService) CountsByLanguage(ctx context.Context) (map[string]int, error) {
	counts, err := s.sentenceRepo.CountSentencesByTargetLanguage(ctx)
	if err != nil {
		return nil, err
	}
	total := 0
	for _, n := range counts {
		total += n
	}
	counts["all"] = total
	return counts, nil
}
