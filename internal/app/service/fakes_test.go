package service

import (
	"context"
	"fmt"
	"time"

	"mt_annotate/internal/common"
	"mt_annotate/internal/domain/model"
)

// fakeRepo is an in-memory stand-in for all four repositories. It mirrors
// the database behavior the services rely on: uniqueness checks surface as
// ErrConflict, missing rows as ErrNotFound.
type fakeRepo struct {
	users       []*model.User
	sentences   []*model.Sentence
	annotations []*model.Annotation
	evaluations []*model.Evaluation

	clock int64
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{}
}

func (f *fakeRepo) now() time.Time {
	f.clock++
	return time.Unix(1700000000+f.clock, 0)
}

func copyUser(u *model.User) *model.User {
	c := *u
	c.Languages = append([]string{}, u.Languages...)
	return &c
}

func copySentence(s *model.Sentence) *model.Sentence {
	c := *s
	return &c
}

func copyAnnotation(a *model.Annotation) *model.Annotation {
	c := *a
	c.Highlights = append([]model.TextHighlight{}, a.Highlights...)
	c.Sentence = nil
	c.Annotator = nil
	return &c
}

func copyEvaluation(e *model.Evaluation) *model.Evaluation {
	c := *e
	c.Annotation = nil
	c.Evaluator = nil
	return &c
}

// UserRepository

func (f *fakeRepo) Create(_ context.Context, user *model.User) error {
	for _, u := range f.users {
		if u.Email == user.Email || u.Username == user.Username {
			return fmt.Errorf("email or username already registered: %w", common.ErrConflict)
		}
	}
	user.CreatedAt = f.now()
	f.users = append(f.users, copyUser(user))
	return nil
}

func (f *fakeRepo) FindByID(_ context.Context, id string) (*model.User, error) {
	for _, u := range f.users {
		if u.ID == id {
			return copyUser(u), nil
		}
	}
	return nil, fmt.Errorf("user not found: %w", common.ErrNotFound)
}

func (f *fakeRepo) FindByEmail(_ context.Context, email string) (*model.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			return copyUser(u), nil
		}
	}
	return nil, fmt.Errorf("user not found: %w", common.ErrNotFound)
}

func (f *fakeRepo) List(_ context.Context, skip, limit int) ([]model.User, error) {
	out := []model.User{}
	for i := skip; i < len(f.users) && len(out) < limit; i++ {
		out = append(out, *copyUser(f.users[i]))
	}
	return out, nil
}

func (f *fakeRepo) SetGuidelinesSeen(_ context.Context, userID string) error {
	for _, u := range f.users {
		if u.ID == userID {
			u.GuidelinesSeen = true
			return nil
		}
	}
	return fmt.Errorf("user not found: %w", common.ErrNotFound)
}

func (f *fakeRepo) ToggleEvaluator(_ context.Context, userID string) (*model.User, error) {
	for _, u := range f.users {
		if u.ID == userID {
			u.IsEvaluator = !u.IsEvaluator
			return copyUser(u), nil
		}
	}
	return nil, fmt.Errorf("user not found: %w", common.ErrNotFound)
}

func (f *fakeRepo) ReplaceLanguages(_ context.Context, userID string, languages []string) error {
	for _, u := range f.users {
		if u.ID == userID {
			u.Languages = append([]string{}, languages...)
			if len(languages) > 0 {
				u.PreferredLanguage = languages[0]
			}
			return nil
		}
	}
	return fmt.Errorf("user not found: %w", common.ErrNotFound)
}

func (f *fakeRepo) CountUsers(_ context.Context) (int, error) {
	return len(f.users), nil
}

func (f *fakeRepo) CountActiveUsers(_ context.Context) (int, error) {
	n := 0
	for _, u := range f.users {
		if u.IsActive {
			n++
		}
	}
	return n, nil
}

// SentenceRepository

func (f *fakeRepo) CreateSentence(_ context.Context, sentence *model.Sentence) error {
	sentence.CreatedAt = f.now()
	f.sentences = append(f.sentences, copySentence(sentence))
	return nil
}

func (f *fakeRepo) CreateSentences(ctx context.Context, sentences []*model.Sentence) error {
	for _, s := range sentences {
		if err := f.CreateSentence(ctx, s); err != nil {
			return err
		}
	}
	return nil
}

func (f *fakeRepo) FindSentenceByID(_ context.Context, id string) (*model.Sentence, error) {
	for _, s := range f.sentences {
		if s.ID == id {
			return copySentence(s), nil
		}
	}
	return nil, fmt.Errorf("sentence not found: %w", common.ErrNotFound)
}

func (f *fakeRepo) ListActiveSentences(_ context.Context, skip, limit int) ([]model.Sentence, error) {
	out := []model.Sentence{}
	skipped := 0
	for _, s := range f.sentences {
		if !s.IsActive {
			continue
		}
		if skipped < skip {
			skipped++
			continue
		}
		if len(out) >= limit {
			break
		}
		out = append(out, *copySentence(s))
	}
	return out, nil
}

func (f *fakeRepo) ListSentencesAdmin(_ context.Context, sourceLanguage, targetLanguage string, skip, limit int) ([]model.Sentence, error) {
	out := []model.Sentence{}
	skipped := 0
	for _, s := range f.sentences {
		if sourceLanguage != "" && s.SourceLanguage != sourceLanguage {
			continue
		}
		if targetLanguage != "" && s.TargetLanguage != targetLanguage {
			continue
		}
		if skipped < skip {
			skipped++
			continue
		}
		if len(out) >= limit {
			break
		}
		out = append(out, *copySentence(s))
	}
	return out, nil
}

func (f *fakeRepo) annotatedBy(sentenceID, userID string) bool {
	for _, a := range f.annotations {
		if a.SentenceID == sentenceID && a.AnnotatorID == userID {
			return true
		}
	}
	return false
}

func (f *fakeRepo) NextUnannotatedSentence(_ context.Context, userID, targetLanguage string) (*model.Sentence, error) {
	for _, s := range f.sentences {
		if s.IsActive && s.TargetLanguage == targetLanguage && !f.annotatedBy(s.ID, userID) {
			return copySentence(s), nil
		}
	}
	return nil, fmt.Errorf("no unannotated sentence: %w", common.ErrNotFound)
}

func (f *fakeRepo) ListUnannotatedSentences(_ context.Context, userID, targetLanguage string, skip, limit int) ([]model.Sentence, error) {
	out := []model.Sentence{}
	skipped := 0
	for _, s := range f.sentences {
		if !s.IsActive || s.TargetLanguage != targetLanguage || f.annotatedBy(s.ID, userID) {
			continue
		}
		if skipped < skip {
			skipped++
			continue
		}
		if len(out) >= limit {
			break
		}
		out = append(out, *copySentence(s))
	}
	return out, nil
}

func (f *fakeRepo) CountSentences(_ context.Context) (int, error) {
	return len(f.sentences), nil
}

func (f *fakeRepo) CountSentencesByTargetLanguage(_ context.Context) (map[string]int, error) {
	counts := map[string]int{}
	for _, s := range f.sentences {
		if s.IsActive {
			counts[s.TargetLanguage]++
		}
	}
	return counts, nil
}

// AnnotationRepository

func (f *fakeRepo) CreateAnnotation(_ context.Context, annotation *model.Annotation) error {
	if f.annotatedBy(annotation.SentenceID, annotation.AnnotatorID) {
		return fmt.Errorf("sentence already annotated by this user: %w", common.ErrConflict)
	}
	annotation.CreatedAt = f.now()
	annotation.UpdatedAt = annotation.CreatedAt
	f.annotations = append(f.annotations, copyAnnotation(annotation))
	return nil
}

func (f *fakeRepo) UpdateAnnotation(_ context.Context, annotation *model.Annotation, replaceHighlights bool) error {
	for i, a := range f.annotations {
		if a.ID == annotation.ID {
			updated := copyAnnotation(annotation)
			if !replaceHighlights {
				updated.Highlights = a.Highlights
			}
			updated.UpdatedAt = f.now()
			f.annotations[i] = updated
			annotation.UpdatedAt = updated.UpdatedAt
			return nil
		}
	}
	return fmt.Errorf("annotation not found: %w", common.ErrNotFound)
}

func (f *fakeRepo) FindAnnotationByID(_ context.Context, id string) (*model.Annotation, error) {
	for _, a := range f.annotations {
		if a.ID == id {
			return copyAnnotation(a), nil
		}
	}
	return nil, fmt.Errorf("annotation not found: %w", common.ErrNotFound)
}

func (f *fakeRepo) ListAnnotationsByAnnotator(_ context.Context, annotatorID string, skip, limit int) ([]model.Annotation, error) {
	out := []model.Annotation{}
	skipped := 0
	for i := len(f.annotations) - 1; i >= 0; i-- {
		a := f.annotations[i]
		if a.AnnotatorID != annotatorID {
			continue
		}
		if skipped < skip {
			skipped++
			continue
		}
		if len(out) >= limit {
			break
		}
		out = append(out, *copyAnnotation(a))
	}
	return out, nil
}

func (f *fakeRepo) ListAnnotations(_ context.Context, skip, limit int) ([]model.Annotation, error) {
	out := []model.Annotation{}
	skipped := 0
	for i := len(f.annotations) - 1; i >= 0; i-- {
		if skipped < skip {
			skipped++
			continue
		}
		if len(out) >= limit {
			break
		}
		out = append(out, *copyAnnotation(f.annotations[i]))
	}
	return out, nil
}

func (f *fakeRepo) ListAnnotationsBySentence(_ context.Context, sentenceID string) ([]model.Annotation, error) {
	out := []model.Annotation{}
	for _, a := range f.annotations {
		if a.SentenceID == sentenceID {
			out = append(out, *copyAnnotation(a))
		}
	}
	return out, nil
}

func (f *fakeRepo) evaluatedBy(annotationID, evaluatorID string) bool {
	for _, e := range f.evaluations {
		if e.AnnotationID == annotationID && e.EvaluatorID == evaluatorID {
			return true
		}
	}
	return false
}

func (f *fakeRepo) ListPendingAnnotations(_ context.Context, evaluatorID string, skip, limit int) ([]model.Annotation, error) {
	out := []model.Annotation{}
	skipped := 0
	for _, a := range f.annotations {
		if a.AnnotationStatus != model.AnnotationStatusCompleted || f.evaluatedBy(a.ID, evaluatorID) {
			continue
		}
		if skipped < skip {
			skipped++
			continue
		}
		if len(out) >= limit {
			break
		}
		out = append(out, *copyAnnotation(a))
	}
	return out, nil
}

func (f *fakeRepo) CountPendingAnnotations(_ context.Context, evaluatorID string) (int, error) {
	n := 0
	for _, a := range f.annotations {
		if a.AnnotationStatus == model.AnnotationStatusCompleted && !f.evaluatedBy(a.ID, evaluatorID) {
			n++
		}
	}
	return n, nil
}

func (f *fakeRepo) SetAnnotationStatus(_ context.Context, annotationID, status string) error {
	for _, a := range f.annotations {
		if a.ID == annotationID {
			a.AnnotationStatus = status
			return nil
		}
	}
	return fmt.Errorf("annotation not found: %w", common.ErrNotFound)
}

func (f *fakeRepo) CountAnnotations(_ context.Context) (int, error) {
	return len(f.annotations), nil
}

func (f *fakeRepo) CountAnnotationsByStatus(_ context.Context, status string) (int, error) {
	n := 0
	for _, a := range f.annotations {
		if a.AnnotationStatus == status {
			n++
		}
	}
	return n, nil
}

// EvaluationRepository

func (f *fakeRepo) CreateEvaluation(_ context.Context, evaluation *model.Evaluation) error {
	if f.evaluatedBy(evaluation.AnnotationID, evaluation.EvaluatorID) {
		return fmt.Errorf("annotation already evaluated by this user: %w", common.ErrConflict)
	}
	evaluation.CreatedAt = f.now()
	evaluation.UpdatedAt = evaluation.CreatedAt
	f.evaluations = append(f.evaluations, copyEvaluation(evaluation))
	return nil
}

func (f *fakeRepo) UpdateEvaluation(_ context.Context, evaluation *model.Evaluation) error {
	for i, e := range f.evaluations {
		if e.ID == evaluation.ID {
			updated := copyEvaluation(evaluation)
			updated.UpdatedAt = f.now()
			f.evaluations[i] = updated
			evaluation.UpdatedAt = updated.UpdatedAt
			return nil
		}
	}
	return fmt.Errorf("evaluation not found: %w", common.ErrNotFound)
}

func (f *fakeRepo) FindEvaluationByID(_ context.Context, id string) (*model.Evaluation, error) {
	for _, e := range f.evaluations {
		if e.ID == id {
			return copyEvaluation(e), nil
		}
	}
	return nil, fmt.Errorf("evaluation not found: %w", common.ErrNotFound)
}

func (f *fakeRepo) ListEvaluationsByEvaluator(_ context.Context, evaluatorID string, skip, limit int) ([]model.Evaluation, error) {
	out := []model.Evaluation{}
	skipped := 0
	for i := len(f.evaluations) - 1; i >= 0; i-- {
		e := f.evaluations[i]
		if e.EvaluatorID != evaluatorID {
			continue
		}
		if skipped < skip {
			skipped++
			continue
		}
		if len(out) >= limit {
			break
		}
		out = append(out, *copyEvaluation(e))
	}
	return out, nil
}

func (f *fakeRepo) ListEvaluationsByAnnotation(_ context.Context, annotationID string) ([]model.Evaluation, error) {
	out := []model.Evaluation{}
	for _, e := range f.evaluations {
		if e.AnnotationID == annotationID {
			out = append(out, *copyEvaluation(e))
		}
	}
	return out, nil
}

func (f *fakeRepo) CountEvaluationsByEvaluator(_ context.Context, evaluatorID string) (int, error) {
	n := 0
	for _, e := range f.evaluations {
		if e.EvaluatorID == evaluatorID {
			n++
		}
	}
	return n, nil
}

func (f *fakeRepo) CountCompletedEvaluationsByEvaluator(_ context.Context, evaluatorID string) (int, error) {
	n := 0
	for _, e := range f.evaluations {
		if e.EvaluatorID == evaluatorID && e.EvaluationStatus == model.EvaluationStatusCompleted {
			n++
		}
	}
	return n, nil
}

func (f *fakeRepo) AverageEvaluationTime(_ context.Context, evaluatorID string) (float64, error) {
	sum, n := 0, 0
	for _, e := range f.evaluations {
		if e.EvaluatorID == evaluatorID && e.TimeSpentSeconds != nil {
			sum += *e.TimeSpentSeconds
			n++
		}
	}
	if n == 0 {
		return 0, nil
	}
	return float64(sum) / float64(n), nil
}
