package collector

import (
	"fmt"

	"github.com/cabz1691/reddit-media-viewer/internal/domain"
)

// Config selects and parameterizes a listing client. It is passed in
// explicitly so the engine never reads ambient process state.
type Config struct {
	Mode      string // "api", "public", or "mock"
	UserAgent string

	// Credentials for api mode only.
	ClientID     string
	ClientSecret string
	Username     string
	Password     string
}

// New selects the listing implementation for the configured mode.
func New(cfg Config) (domain.Lister, error) {
	switch cfg.Mode {
	case "api":
		return NewAPIClient(cfg.ClientID, cfg.ClientSecret, cfg.Username, cfg.Password, cfg.UserAgent)
	case "public":
		return NewPublicClient(cfg.UserAgent)
	case "mock":
		return NewMockClient(), nil
	default:
		return nil, fmt.Errorf("unknown collector mode: %s (use 'api', 'public', or 'mock')", cfg.Mode)
	}
}

// NewValidator selects the subscription validator. Validation always goes
// through the public metadata endpoint, independent of the listing mode,
// except in mock mode where everything validates.
func NewValidator(cfg Config) (domain.Validator, error) {
	if cfg.Mode == "mock" {
		return NewMockClient(), nil
	}
	return NewPublicClient(cfg.UserAgent)
}
