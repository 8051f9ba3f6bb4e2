package collector

import (
	"fmt"
	"log/slog"

	"github.com/qepting91/reddit-viewer/internal/config"
	"github.com/qepting91/reddit-viewer/internal/domain"
)

// NewCollector selects the correct implementation based on the mode
func NewCollector(cfg config.Config, logger *slog.Logger) (domain.Collector, error) {
	switch cfg.Mode {
	case config.ModeAPI:
		r := cfg.Reddit
		return NewAPIClient(r.ClientID, r.ClientSecret, r.Username, r.Password, r.UserAgent)
	case config.ModePublic:
		return NewPublicClient(WithLogger(logger)), nil
	case config.ModeMock:
		return NewMockClient(), nil
	default:
		return nil, fmt.Errorf("unknown COLLECTOR_MODE: %s (use 'api', 'public', or 'mock')", cfg.Mode)
	}
}
