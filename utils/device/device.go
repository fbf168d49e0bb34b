// Package device resolves the per-request device identifier that stands in for
// a user account. The identifier is best-effort and spoofable; it is a UX
// tradeoff, not a security boundary.
package device

import (
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const (
	// HeaderName carries the client-computed fingerprint
	HeaderName = "X-Device-ID"

	// cookieName persists the ephemeral id for the session
	cookieName = "mamosta_device_id"

	MinIDLength = 8
	MaxIDLength = 128
)

var (
	ErrMissingDeviceID = errors.New("missing device identifier")
	ErrInvalidDeviceID = errors.New("invalid device identifier")
)

// Provider resolves the acting device's identifier for a request
type Provider interface {
	DeviceID(c *fiber.Ctx) (string, error)
}

// NewProvider selects an implementation by configuration, never by runtime
// environment branching. Unknown modes fall back to fingerprint.
func NewProvider(mode string) Provider {
	if mode == "ephemeral" {
		return &EphemeralProvider{}
	}
	return &HeaderProvider{}
}

// HeaderProvider expects the client to send its fingerprint in X-Device-ID.
// Production mode: the browser computes a stable visitor id and sends it with
// every submission.
type HeaderProvider struct{}

func (p *HeaderProvider) DeviceID(c *fiber.Ctx) (string, error) {
	id := c.Get(HeaderName)
	if id == "" {
		return "", ErrMissingDeviceID
	}
	if !ValidID(id) {
		return "", ErrInvalidDeviceID
	}
	return id, nil
}

// EphemeralProvider hands out a random id persisted in a session cookie, so
// repeated submissions in the same session still collide on the uniqueness
// constraints. Development mode only.
type EphemeralProvider struct{}

func (p *EphemeralProvider) DeviceID(c *fiber.Ctx) (string, error) {
	if id := c.Cookies(cookieName); id != "" && ValidID(id) {
		return id, nil
	}

	id := fmt.Sprintf("dev-%s", uuid.New().String())
	c.Cookie(&fiber.Cookie{
		Name:     cookieName,
		Value:    id,
		HTTPOnly: true,
		SameSite: "Lax",
	})
	return id, nil
}

// ValidID checks length and charset of a device identifier. Fingerprint ids
// are hex-ish opaque strings; anything outside a conservative charset is
// rejected before it reaches storage.
func ValidID(id string) bool {
	if len(id) < MinIDLength || len(id) > MaxIDLength {
		return false
	}
	for _, r := range id {
		switch {
		case r >= 'a' && r <= 'z':
		case r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9':
		case r == '-' || r == '_':
		default:
			return false
		}
	}
	return true
}

// SyntheticID generates a device id for admin-submitted reviews, so they pass
// the same uniqueness constraint without colliding with real devices
func SyntheticID() string {
	return fmt.Sprintf("admin-%d-%06d", time.Now().UnixMilli(), rand.Intn(1000000))
}
