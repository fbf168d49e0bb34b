package device

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
)

func TestNewProviderSelection(t *testing.T) {
	if _, ok := NewProvider("fingerprint").(*HeaderProvider); !ok {
		t.Error("fingerprint mode should select HeaderProvider")
	}
	if _, ok := NewProvider("ephemeral").(*EphemeralProvider); !ok {
		t.Error("ephemeral mode should select EphemeralProvider")
	}
	// unknown modes fall back to the strict provider
	if _, ok := NewProvider("").(*HeaderProvider); !ok {
		t.Error("empty mode should select HeaderProvider")
	}
}

func TestHeaderProvider(t *testing.T) {
	tests := []struct {
		name    string
		header  string
		wantID  string
		wantErr error
	}{
		{"valid fingerprint", "a1b2c3d4e5f60718", "a1b2c3d4e5f60718", nil},
		{"missing header", "", "", ErrMissingDeviceID},
		{"too short", "abc", "", ErrInvalidDeviceID},
		{"bad charset", "abcd efgh ijkl", "", ErrInvalidDeviceID},
		{"too long", strings.Repeat("a", 129), "", ErrInvalidDeviceID},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := fiber.New()
			p := &HeaderProvider{}

			var gotID string
			var gotErr error
			app.Get("/", func(c *fiber.Ctx) error {
				gotID, gotErr = p.DeviceID(c)
				return nil
			})

			req := httptest.NewRequest("GET", "/", nil)
			if tt.header != "" {
				req.Header.Set(HeaderName, tt.header)
			}
			if _, err := app.Test(req); err != nil {
				t.Fatalf("app.Test: %v", err)
			}

			if gotID != tt.wantID {
				t.Errorf("DeviceID = %q, want %q", gotID, tt.wantID)
			}
			if !errors.Is(gotErr, tt.wantErr) {
				t.Errorf("err = %v, want %v", gotErr, tt.wantErr)
			}
		})
	}
}

func TestEphemeralProviderGeneratesAndReusesID(t *testing.T) {
	app := fiber.New()
	p := &EphemeralProvider{}

	var ids []string
	app.Get("/", func(c *fiber.Ctx) error {
		id, err := p.DeviceID(c)
		if err != nil {
			t.Errorf("DeviceID: %v", err)
		}
		ids = append(ids, id)
		return nil
	})

	// First request: no cookie, a fresh id is generated
	if _, err := app.Test(httptest.NewRequest("GET", "/", nil)); err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if len(ids) != 1 || !strings.HasPrefix(ids[0], "dev-") {
		t.Fatalf("expected one dev- prefixed id, got %v", ids)
	}

	// Second request presents the cookie and gets the same identity back
	req := httptest.NewRequest("GET", "/", nil)
	req.AddCookie(&http.Cookie{Name: "mamosta_device_id", Value: ids[0]})
	if _, err := app.Test(req); err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if ids[1] != ids[0] {
		t.Errorf("expected cookie id to be reused, got %q then %q", ids[0], ids[1])
	}
}

func TestSyntheticID(t *testing.T) {
	a := SyntheticID()
	b := SyntheticID()
	if !strings.HasPrefix(a, "admin-") {
		t.Errorf("SyntheticID() = %q, want admin- prefix", a)
	}
	if a == b {
		t.Errorf("two synthetic ids should differ, both %q", a)
	}
	if !ValidID(a) {
		t.Errorf("synthetic id %q should satisfy ValidID", a)
	}
}
