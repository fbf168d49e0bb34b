package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/mamosta-app/api/model"
	"gorm.io/gorm"
)

// fakeStore implements ReviewStore and ModerationStore in memory, enforcing
// the same uniqueness rules the Postgres indexes do
type fakeStore struct {
	teachers map[uint]bool
	reviews  map[uuid.UUID]*model.Review
	reports  map[string]bool // review_id|device
	votes    map[string]bool

	failWith error // when set, every write returns this error
}

func newFakeStore(teacherIDs ...uint) *fakeStore {
	s := &fakeStore{
		teachers: make(map[uint]bool),
		reviews:  make(map[uuid.UUID]*model.Review),
		reports:  make(map[string]bool),
		votes:    make(map[string]bool),
	}
	for _, id := range teacherIDs {
		s.teachers[id] = true
	}
	return s
}

func (s *fakeStore) CreateReview(ctx context.Context, review *model.Review) error {
	if s.failWith != nil {
		return s.failWith
	}
	for _, existing := range s.reviews {
		if existing.TeacherID == review.TeacherID && existing.DeviceID == review.DeviceID {
			return gorm.ErrDuplicatedKey
		}
	}
	review.ID = uuid.New()
	s.reviews[review.ID] = review
	return nil
}

func (s *fakeStore) CreateReport(ctx context.Context, report *model.ReviewReport) error {
	if s.failWith != nil {
		return s.failWith
	}
	key := report.ReviewID.String() + "|" + report.ReporterDeviceID
	if s.reports[key] {
		return gorm.ErrDuplicatedKey
	}
	s.reports[key] = true
	s.reviews[report.ReviewID].ReportCount++
	return nil
}

func (s *fakeStore) CreateHelpfulVote(ctx context.Context, vote *model.ReviewHelpfulVote) error {
	if s.failWith != nil {
		return s.failWith
	}
	key := vote.ReviewID.String() + "|" + vote.VoterDeviceID
	if s.votes[key] {
		return gorm.ErrDuplicatedKey
	}
	s.votes[key] = true
	s.reviews[vote.ReviewID].HelpfulCount++
	return nil
}

func (s *fakeStore) TeacherExists(ctx context.Context, teacherID uint) (bool, error) {
	return s.teachers[teacherID], nil
}

func (s *fakeStore) GetReview(ctx context.Context, reviewID uuid.UUID) (*model.Review, error) {
	review, ok := s.reviews[reviewID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return review, nil
}

func (s *fakeStore) ListReviews(ctx context.Context, includeHidden bool) ([]model.Review, error) {
	var out []model.Review
	for _, r := range s.reviews {
		if !includeHidden && r.IsHidden {
			continue
		}
		out = append(out, *r)
	}
	return out, nil
}

func (s *fakeStore) ListReported(ctx context.Context) ([]model.Review, error) {
	var out []model.Review
	for _, r := range s.reviews {
		if r.ReportCount > 0 {
			out = append(out, *r)
		}
	}
	return out, nil
}

func (s *fakeStore) SetReviewHidden(ctx context.Context, reviewID uuid.UUID, hidden bool) error {
	if s.failWith != nil {
		return s.failWith
	}
	review, ok := s.reviews[reviewID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	review.IsHidden = hidden
	return nil
}

func (s *fakeStore) UpdateReviewContent(ctx context.Context, reviewID uuid.UUID, rating int, comment string) error {
	if s.failWith != nil {
		return s.failWith
	}
	review, ok := s.reviews[reviewID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	review.Rating = rating
	review.Comment = comment
	return nil
}

func (s *fakeStore) DeleteReview(ctx context.Context, reviewID uuid.UUID) error {
	if s.failWith != nil {
		return s.failWith
	}
	if _, ok := s.reviews[reviewID]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(s.reviews, reviewID)
	return nil
}

// fakeInvalidator records invalidation signals
type fakeInvalidator struct {
	teacherInvalidations   []uint
	dashboardInvalidations int
}

func (f *fakeInvalidator) InvalidateTeacher(ctx context.Context, teacherID uint) {
	f.teacherInvalidations = append(f.teacherInvalidations, teacherID)
}

func (f *fakeInvalidator) InvalidateDashboard(ctx context.Context) {
	f.dashboardInvalidations++
}

func validSubmission(teacherID uint, deviceID string) SubmitReviewInput {
	return SubmitReviewInput{
		TeacherID: teacherID,
		UserName:  "ئەحمەد",
		UserPhone: "07501234567",
		DeviceID:  deviceID,
		Rating:    4,
		Comment:   "مامۆستایەکی زۆر باش و دڵسۆزە",
	}
}

func TestSubmitStoresReviewAndInvalidates(t *testing.T) {
	store := newFakeStore(1)
	views := &fakeInvalidator{}
	svc := NewReviewService(store, views)

	review, err := svc.Submit(context.Background(), validSubmission(1, "device-aaaa"))
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if review.ID == uuid.Nil {
		t.Error("expected created review to have an id")
	}
	if len(store.reviews) != 1 {
		t.Errorf("stored reviews = %d, want 1", len(store.reviews))
	}
	if len(views.teacherInvalidations) != 1 || views.teacherInvalidations[0] != 1 {
		t.Errorf("teacher invalidations = %v, want [1]", views.teacherInvalidations)
	}
}

func TestSubmitValidationNeverReachesStore(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*SubmitReviewInput)
		wantErr error
	}{
		{"empty name", func(in *SubmitReviewInput) { in.UserName = "  " }, ErrInvalidName},
		{"bad phone", func(in *SubmitReviewInput) { in.UserPhone = "0850123456" }, ErrInvalidPhone},
		{"zero rating", func(in *SubmitReviewInput) { in.Rating = 0 }, ErrInvalidRating},
		{"six rating", func(in *SubmitReviewInput) { in.Rating = 6 }, ErrInvalidRating},
		{"short comment", func(in *SubmitReviewInput) { in.Comment = "کورتە" }, ErrInvalidComment},
		{"long comment", func(in *SubmitReviewInput) { in.Comment = strings.Repeat("a", 501) }, ErrInvalidComment},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newFakeStore(1)
			svc := NewReviewService(store, &fakeInvalidator{})

			in := validSubmission(1, "device-aaaa")
			tt.mutate(&in)

			_, err := svc.Submit(context.Background(), in)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Submit err = %v, want %v", err, tt.wantErr)
			}
			if len(store.reviews) != 0 {
				t.Errorf("stored reviews = %d, want 0 (validation must abort before storage)", len(store.reviews))
			}
		})
	}
}

func TestSubmitUnknownTeacher(t *testing.T) {
	svc := NewReviewService(newFakeStore(1), &fakeInvalidator{})

	_, err := svc.Submit(context.Background(), validSubmission(99, "device-aaaa"))
	if !errors.Is(err, ErrTeacherNotFound) {
		t.Errorf("Submit err = %v, want ErrTeacherNotFound", err)
	}
}

func TestSecondSubmissionFromSameDeviceIsDuplicate(t *testing.T) {
	store := newFakeStore(1)
	views := &fakeInvalidator{}
	svc := NewReviewService(store, views)

	if _, err := svc.Submit(context.Background(), validSubmission(1, "device-aaaa")); err != nil {
		t.Fatalf("first Submit: %v", err)
	}

	_, err := svc.Submit(context.Background(), validSubmission(1, "device-aaaa"))
	if !errors.Is(err, ErrDuplicateReview) {
		t.Fatalf("second Submit err = %v, want ErrDuplicateReview", err)
	}

	// Exactly one row exists afterward, and no extra invalidation fired
	if len(store.reviews) != 1 {
		t.Errorf("stored reviews = %d, want exactly 1", len(store.reviews))
	}
	if len(views.teacherInvalidations) != 1 {
		t.Errorf("invalidations = %d, want 1", len(views.teacherInvalidations))
	}
}

func TestSameDeviceMayReviewDifferentTeachers(t *testing.T) {
	store := newFakeStore(1, 2)
	svc := NewReviewService(store, &fakeInvalidator{})

	if _, err := svc.Submit(context.Background(), validSubmission(1, "device-aaaa")); err != nil {
		t.Fatalf("Submit teacher 1: %v", err)
	}
	if _, err := svc.Submit(context.Background(), validSubmission(2, "device-aaaa")); err != nil {
		t.Fatalf("Submit teacher 2: %v", err)
	}
	if len(store.reviews) != 2 {
		t.Errorf("stored reviews = %d, want 2", len(store.reviews))
	}
}

func TestReportIdempotentPerDevice(t *testing.T) {
	store := newFakeStore(1)
	svc := NewReviewService(store, &fakeInvalidator{})

	review, err := svc.Submit(context.Background(), validSubmission(1, "device-aaaa"))
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}

	reason := "ناوەڕۆکی نەگونجاو"
	if err := svc.Report(context.Background(), review.ID, "device-bbbb", &reason); err != nil {
		t.Fatalf("first Report: %v", err)
	}

	err = svc.Report(context.Background(), review.ID, "device-bbbb", nil)
	if !errors.Is(err, ErrDuplicateReport) {
		t.Errorf("second Report err = %v, want ErrDuplicateReport", err)
	}
	if got := store.reviews[review.ID].ReportCount; got != 1 {
		t.Errorf("ReportCount = %d, want 1", got)
	}

	// A different device may still report
	if err := svc.Report(context.Background(), review.ID, "device-cccc", nil); err != nil {
		t.Errorf("Report from other device: %v", err)
	}
	if got := store.reviews[review.ID].ReportCount; got != 2 {
		t.Errorf("ReportCount = %d, want 2", got)
	}
}

func TestMarkHelpfulIdempotentPerDevice(t *testing.T) {
	store := newFakeStore(1)
	svc := NewReviewService(store, &fakeInvalidator{})

	review, err := svc.Submit(context.Background(), validSubmission(1, "device-aaaa"))
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}

	if err := svc.MarkHelpful(context.Background(), review.ID, "device-bbbb"); err != nil {
		t.Fatalf("first MarkHelpful: %v", err)
	}

	err = svc.MarkHelpful(context.Background(), review.ID, "device-bbbb")
	if !errors.Is(err, ErrDuplicateHelpfulVote) {
		t.Errorf("second MarkHelpful err = %v, want ErrDuplicateHelpfulVote", err)
	}
	if got := store.reviews[review.ID].HelpfulCount; got != 1 {
		t.Errorf("HelpfulCount = %d, want 1", got)
	}
}

func TestReportUnknownReview(t *testing.T) {
	svc := NewReviewService(newFakeStore(1), &fakeInvalidator{})

	err := svc.Report(context.Background(), uuid.New(), "device-aaaa", nil)
	if !errors.Is(err, ErrReviewNotFound) {
		t.Errorf("Report err = %v, want ErrReviewNotFound", err)
	}
}

func TestStorageFailureBecomesOperationFailed(t *testing.T) {
	store := newFakeStore(1)
	store.failWith = fmt.Errorf("connection refused")
	svc := NewReviewService(store, &fakeInvalidator{})

	_, err := svc.Submit(context.Background(), validSubmission(1, "device-aaaa"))
	if !errors.Is(err, ErrOperationFailed) {
		t.Errorf("Submit err = %v, want ErrOperationFailed", err)
	}
}

// sqlStateErr mimics a raw Postgres error carrying SQLSTATE without the driver
type sqlStateErr struct {
	code string
}

func (e *sqlStateErr) Error() string    { return "pq error " + e.code }
func (e *sqlStateErr) SQLState() string { return e.code }

func TestIsUniqueViolation(t *testing.T) {
	if !isUniqueViolation(gorm.ErrDuplicatedKey) {
		t.Error("gorm.ErrDuplicatedKey should classify as unique violation")
	}
	if !isUniqueViolation(fmt.Errorf("insert: %w", gorm.ErrDuplicatedKey)) {
		t.Error("wrapped gorm.ErrDuplicatedKey should classify as unique violation")
	}
	if !isUniqueViolation(&sqlStateErr{code: "23505"}) {
		t.Error("SQLSTATE 23505 should classify as unique violation")
	}
	if isUniqueViolation(&sqlStateErr{code: "23503"}) {
		t.Error("SQLSTATE 23503 (foreign key) must not classify as unique violation")
	}
	if isUniqueViolation(errors.New("connection refused")) {
		t.Error("plain errors must not classify as unique violation")
	}
}
