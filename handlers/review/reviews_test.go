package review

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/mamosta-app/api/model"
	"github.com/mamosta-app/api/services"
	"github.com/mamosta-app/api/utils/device"
	"github.com/mamosta-app/api/utils/messages"
	"gorm.io/gorm"
)

// memStore is an in-memory ReviewStore for endpoint tests
type memStore struct {
	teachers map[uint]bool
	reviews  map[string]*model.Review
	reports  map[string]bool
	votes    map[string]bool
}

func newMemStore(teacherIDs ...uint) *memStore {
	s := &memStore{
		teachers: make(map[uint]bool),
		reviews:  make(map[string]*model.Review),
		reports:  make(map[string]bool),
		votes:    make(map[string]bool),
	}
	for _, id := range teacherIDs {
		s.teachers[id] = true
	}
	return s
}

func (s *memStore) CreateReview(_ context.Context, review *model.Review) error {
	key := fmt.Sprintf("%d/%s", review.TeacherID, review.DeviceID)
	for _, existing := range s.reviews {
		if fmt.Sprintf("%d/%s", existing.TeacherID, existing.DeviceID) == key {
			return gorm.ErrDuplicatedKey
		}
	}
	review.ID = uuid.New()
	s.reviews[review.ID.String()] = review
	return nil
}

func (s *memStore) CreateReport(_ context.Context, report *model.ReviewReport) error {
	key := report.ReviewID.String() + "/" + report.ReporterDeviceID
	if s.reports[key] {
		return gorm.ErrDuplicatedKey
	}
	s.reports[key] = true
	return nil
}

func (s *memStore) CreateHelpfulVote(_ context.Context, vote *model.ReviewHelpfulVote) error {
	key := vote.ReviewID.String() + "/" + vote.VoterDeviceID
	if s.votes[key] {
		return gorm.ErrDuplicatedKey
	}
	s.votes[key] = true
	return nil
}

func (s *memStore) TeacherExists(_ context.Context, teacherID uint) (bool, error) {
	return s.teachers[teacherID], nil
}

func (s *memStore) GetReview(_ context.Context, reviewID uuid.UUID) (*model.Review, error) {
	review, ok := s.reviews[reviewID.String()]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return review, nil
}

type noopInvalidator struct{}

func (noopInvalidator) InvalidateTeacher(context.Context, uint) {}
func (noopInvalidator) InvalidateDashboard(context.Context)     {}

func newTestApp(store *memStore) *fiber.App {
	service := services.NewReviewService(store, noopInvalidator{})
	handler := NewReviewHandler(service, device.NewProvider("fingerprint"))

	app := fiber.New()
	app.Post("/api/v1/teachers/:id/reviews", handler.SubmitReview)
	app.Post("/api/v1/reviews/:id/report", handler.ReportReview)
	app.Post("/api/v1/reviews/:id/helpful", handler.MarkHelpful)
	return app
}

func submitRequest(t *testing.T, app *fiber.App, teacherID uint, deviceID string, body map[string]interface{}) *http.Response {
	t.Helper()

	payload, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal body: %v", err)
	}

	req := httptest.NewRequest("POST", fmt.Sprintf("/api/v1/teachers/%d/reviews", teacherID), bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	if deviceID != "" {
		req.Header.Set(device.HeaderName, deviceID)
	}

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	return resp
}

func validBody() map[string]interface{} {
	return map[string]interface{}{
		"user_name":  "ئاری کەریم",
		"user_phone": "07501234567",
		"rating":     5,
		"comment":    "مامۆستایەکی زۆر باشە و بە دڵسۆزییەوە وانە دەڵێتەوە",
	}
}

func responseMessage(t *testing.T, resp *http.Response) string {
	t.Helper()

	var body struct {
		Error *struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if body.Error == nil {
		return ""
	}
	return body.Error.Message
}

func TestSubmitReview(t *testing.T) {
	app := newTestApp(newMemStore(1))

	resp := submitRequest(t, app, 1, "device-abc-123", validBody())
	if resp.StatusCode != fiber.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}
}

func TestSubmitReviewDuplicateDevice(t *testing.T) {
	app := newTestApp(newMemStore(1))

	resp := submitRequest(t, app, 1, "device-abc-123", validBody())
	if resp.StatusCode != fiber.StatusCreated {
		t.Fatalf("first submission: expected 201, got %d", resp.StatusCode)
	}

	resp = submitRequest(t, app, 1, "device-abc-123", validBody())
	if resp.StatusCode != fiber.StatusConflict {
		t.Fatalf("second submission: expected 409, got %d", resp.StatusCode)
	}
	if msg := responseMessage(t, resp); msg != messages.AlreadyReviewed {
		t.Errorf("expected %q, got %q", messages.AlreadyReviewed, msg)
	}
}

func TestSubmitReviewInvalidPhone(t *testing.T) {
	app := newTestApp(newMemStore(1))

	body := validBody()
	body["user_phone"] = "0850123456"

	resp := submitRequest(t, app, 1, "device-abc-123", body)
	if resp.StatusCode != fiber.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
	if msg := responseMessage(t, resp); msg != messages.InvalidPhone {
		t.Errorf("expected %q, got %q", messages.InvalidPhone, msg)
	}
}

func TestSubmitReviewMissingDevice(t *testing.T) {
	app := newTestApp(newMemStore(1))

	resp := submitRequest(t, app, 1, "", validBody())
	if resp.StatusCode != fiber.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}

func TestSubmitReviewUnknownTeacher(t *testing.T) {
	app := newTestApp(newMemStore(1))

	resp := submitRequest(t, app, 42, "device-abc-123", validBody())
	if resp.StatusCode != fiber.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
	if msg := responseMessage(t, resp); msg != messages.TeacherNotFound {
		t.Errorf("expected %q, got %q", messages.TeacherNotFound, msg)
	}
}

func TestReportReviewOncePerDevice(t *testing.T) {
	store := newMemStore(1)
	app := newTestApp(store)

	resp := submitRequest(t, app, 1, "author-device-1", validBody())
	if resp.StatusCode != fiber.StatusCreated {
		t.Fatalf("submit: expected 201, got %d", resp.StatusCode)
	}

	var reviewID string
	for id := range store.reviews {
		reviewID = id
	}

	report := func(deviceID string) *http.Response {
		req := httptest.NewRequest("POST", "/api/v1/reviews/"+reviewID+"/report", nil)
		req.Header.Set(device.HeaderName, deviceID)
		resp, err := app.Test(req)
		if err != nil {
			t.Fatalf("report request failed: %v", err)
		}
		return resp
	}

	if resp := report("reporter-device-1"); resp.StatusCode != fiber.StatusOK {
		t.Fatalf("first report: expected 200, got %d", resp.StatusCode)
	}

	resp = report("reporter-device-1")
	if resp.StatusCode != fiber.StatusConflict {
		t.Fatalf("second report: expected 409, got %d", resp.StatusCode)
	}
	if msg := responseMessage(t, resp); msg != messages.AlreadyReported {
		t.Errorf("expected %q, got %q", messages.AlreadyReported, msg)
	}

	// A different device may still report
	if resp := report("reporter-device-2"); resp.StatusCode != fiber.StatusOK {
		t.Fatalf("other device report: expected 200, got %d", resp.StatusCode)
	}
}

func TestMarkHelpfulUnknownReview(t *testing.T) {
	app := newTestApp(newMemStore(1))

	req := httptest.NewRequest("POST", "/api/v1/reviews/"+uuid.New().String()+"/helpful", nil)
	req.Header.Set(device.HeaderName, "voter-device-1")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
}
