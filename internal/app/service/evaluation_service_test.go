package service

import (
	"context"
	"errors"
	"testing"

	"mt_annotate/internal/common"
	"mt_annotate/internal/domain/model"
)

type evalFixture struct {
	repo       *fakeRepo
	annotSvc   *AnnotationService
	evalSvc    *EvaluationService
	annotator  *model.User
	evaluator  *model.User
	annotation *model.Annotation
}

func newEvalFixture(t *testing.T) *evalFixture {
	t.Helper()
	repo := newFakeRepo()
	annotSvc := NewAnnotationService(repo, repo, repo)
	evalSvc := NewEvaluationService(repo, repo, repo)
	ctx := context.Background()

	annotator := seedUserInRepo(t, repo, "tagalog")
	evaluator := seedUserInRepo(t, repo, "tagalog")
	evaluator.IsEvaluator = true
	sentence := seedSentenceInRepo(t, repo, "tagalog")

	annotation, err := annotSvc.Create(ctx, annotator.ID, CreateAnnotationRequest{
		SentenceID: sentence.ID, OverallQuality: intPtr(3),
	})
	if err != nil {
		t.Fatalf("seeding annotation: %v", err)
	}

	return &evalFixture{
		repo: repo, annotSvc: annotSvc, evalSvc: evalSvc,
		annotator: annotator, evaluator: evaluator, annotation: annotation,
	}
}

func TestCreateEvaluationMarksAnnotationReviewed(t *testing.T) {
	f := newEvalFixture(t)
	ctx := context.Background()

	evaluation, err := f.evalSvc.Create(ctx, f.evaluator.ID, CreateEvaluationRequest{
		AnnotationID:           f.annotation.ID,
		AnnotationQualityScore: intPtr(4),
		OverallEvaluationScore: intPtr(4),
		Feedback:               strPtr("solid work"),
		TimeSpentSeconds:       intPtr(60),
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if evaluation.EvaluationStatus != model.EvaluationStatusCompleted {
		t.Errorf("status = %q, want completed", evaluation.EvaluationStatus)
	}
	if evaluation.Annotation == nil || evaluation.Annotation.AnnotationStatus != model.AnnotationStatusReviewed {
		t.Error("annotation not flipped to reviewed in response")
	}

	stored, err := f.repo.FindAnnotationByID(ctx, f.annotation.ID)
	if err != nil {
		t.Fatalf("FindAnnotationByID: %v", err)
	}
	if stored.AnnotationStatus != model.AnnotationStatusReviewed {
		t.Errorf("stored status = %q, want reviewed", stored.AnnotationStatus)
	}
}

func TestCreateEvaluationDuplicate(t *testing.T) {
	f := newEvalFixture(t)
	ctx := context.Background()

	req := CreateEvaluationRequest{AnnotationID: f.annotation.ID, OverallEvaluationScore: intPtr(3)}
	if _, err := f.evalSvc.Create(ctx, f.evaluator.ID, req); err != nil {
		t.Fatalf("first Create: %v", err)
	}
	_, err := f.evalSvc.Create(ctx, f.evaluator.ID, req)
	if !errors.Is(err, common.ErrConflict) {
		t.Errorf("duplicate: got %v, want ErrConflict", err)
	}
}

func TestCreateEvaluationMissingAnnotation(t *testing.T) {
	f := newEvalFixture(t)

	_, err := f.evalSvc.Create(context.Background(), f.evaluator.ID,
		CreateEvaluationRequest{AnnotationID: "missing"})
	if !errors.Is(err, common.ErrNotFound) {
		t.Errorf("got %v, want ErrNotFound", err)
	}
}

func TestPendingExcludesEvaluatedAndReviewed(t *testing.T) {
	f := newEvalFixture(t)
	ctx := context.Background()

	// A second annotation from another user, untouched by this evaluator.
	other := seedUserInRepo(t, f.repo, "tagalog")
	sentence := seedSentenceInRepo(t, f.repo, "tagalog")
	second, err := f.annotSvc.Create(ctx, other.ID, CreateAnnotationRequest{SentenceID: sentence.ID})
	if err != nil {
		t.Fatalf("second annotation: %v", err)
	}

	pending, err := f.evalSvc.Pending(ctx, f.evaluator.ID, 0, 0)
	if err != nil {
		t.Fatalf("Pending: %v", err)
	}
	if len(pending) != 2 {
		t.Fatalf("pending = %d, want 2", len(pending))
	}

	if _, err := f.evalSvc.Create(ctx, f.evaluator.ID,
		CreateEvaluationRequest{AnnotationID: f.annotation.ID}); err != nil {
		t.Fatalf("Create: %v", err)
	}

	pending, err = f.evalSvc.Pending(ctx, f.evaluator.ID, 0, 0)
	if err != nil {
		t.Fatalf("Pending: %v", err)
	}
	if len(pending) != 1 || pending[0].ID != second.ID {
		t.Errorf("pending after evaluation = %v, want only the second annotation", pending)
	}
}

func TestUpdateEvaluation(t *testing.T) {
	f := newEvalFixture(t)
	ctx := context.Background()

	created, err := f.evalSvc.Create(ctx, f.evaluator.ID, CreateEvaluationRequest{
		AnnotationID: f.annotation.ID, AccuracyScore: intPtr(2), Feedback: strPtr("rushed"),
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	updated, err := f.evalSvc.Update(ctx, f.evaluator.ID, created.ID, UpdateEvaluationRequest{
		AccuracyScore: intPtr(4),
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.AccuracyScore == nil || *updated.AccuracyScore != 4 {
		t.Errorf("accuracy = %v, want 4", updated.AccuracyScore)
	}
	if updated.Feedback == nil || *updated.Feedback != "rushed" {
		t.Errorf("feedback = %v, want preserved", updated.Feedback)
	}

	// Someone else's evaluation reads as not found.
	stranger := seedUserInRepo(t, f.repo, "tagalog")
	_, err = f.evalSvc.Update(ctx, stranger.ID, created.ID, UpdateEvaluationRequest{AccuracyScore: intPtr(1)})
	if !errors.Is(err, common.ErrNotFound) {
		t.Errorf("foreign update: got %v, want ErrNotFound", err)
	}
}

func TestEvaluatorStats(t *testing.T) {
	f := newEvalFixture(t)
	stats := NewStatsService(f.repo, f.repo, f.repo, f.repo)
	ctx := context.Background()

	// Two more annotations to evaluate.
	for i := 0; i < 2; i++ {
		user := seedUserInRepo(t, f.repo, "tagalog")
		sentence := seedSentenceInRepo(t, f.repo, "tagalog")
		if _, err := f.annotSvc.Create(ctx, user.ID, CreateAnnotationRequest{SentenceID: sentence.ID}); err != nil {
			t.Fatalf("annotation: %v", err)
		}
	}

	if _, err := f.evalSvc.Create(ctx, f.evaluator.ID, CreateEvaluationRequest{
		AnnotationID: f.annotation.ID, TimeSpentSeconds: intPtr(30),
	}); err != nil {
		t.Fatalf("Create: %v", err)
	}

	got, err := stats.EvaluatorStats(ctx, f.evaluator.ID)
	if err != nil {
		t.Fatalf("EvaluatorStats: %v", err)
	}
	if got.TotalEvaluations != 1 || got.CompletedEvaluations != 1 {
		t.Errorf("totals = %+v, want 1 total and 1 completed", got)
	}
	if got.PendingEvaluations != 2 {
		t.Errorf("pending = %d, want 2", got.PendingEvaluations)
	}
	if got.AverageTimePerEvaluation != 30 {
		t.Errorf("average time = %v, want 30", got.AverageTimePerEvaluation)
	}
}

func TestByAnnotation(t *testing.T) {
	f := newEvalFixture(t)
	ctx := context.Background()

	if _, err := f.evalSvc.Create(ctx, f.evaluator.ID,
		CreateEvaluationRequest{AnnotationID: f.annotation.ID}); err != nil {
		t.Fatalf("Create: %v", err)
	}

	evaluations, err := f.evalSvc.ByAnnotation(ctx, f.annotation.ID)
	if err != nil {
		t.Fatalf("ByAnnotation: %v", err)
	}
	if len(evaluations) != 1 {
		t.Fatalf("evaluations = %d, want 1", len(evaluations))
	}
	if evaluations[0].Evaluator == nil || evaluations[0].Evaluator.ID != f.evaluator.ID {
		t.Error("evaluator not attached")
	}

	if _, err := f.evalSvc.ByAnnotation(ctx, "missing"); !errors.Is(err, common.ErrNotFound) {
		t.Errorf("missing annotation: got %v, want ErrNotFound", err)
	}
}
