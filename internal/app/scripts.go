package app

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/five82/auragen/internal/aura"
	"github.com/five82/auragen/internal/meditation"
	"github.com/five82/auragen/internal/state"
)

const (
	noticeOffline     = "Script service offline. Using a built-in script."
	noticeUnavailable = "Script service unavailable. Using a built-in script."
)

// ScriptFetcher requests a script from the service.
type ScriptFetcher interface {
	GenerateScript(ctx context.Context, location string) (aura.ScriptResponse, error)
}

// ScriptSource decides where a session's script comes from: the service when
// it is reachable, the built-in scripts otherwise. Every call takes at least
// minDelay so the loading screen never flashes.
type ScriptSource struct {
	client   ScriptFetcher
	store    *state.Store
	minDelay time.Duration
	logger   *zap.Logger
	now      func() time.Time
	wait     func(ctx context.Context, d time.Duration) error
}

// NewScriptSource builds a ScriptSource. store may be nil, in which case the
// service is always tried.
func NewScriptSource(client ScriptFetcher, store *state.Store, minDelay time.Duration, logger *zap.Logger) *ScriptSource {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ScriptSource{
		client:   client,
		store:    store,
		minDelay: minDelay,
		logger:   logger,
		now:      time.Now,
		wait:     waitFor,
	}
}

// Generate returns a playable script for location. It never fails: any
// service problem degrades to the built-in scripts with a notice.
func (s *ScriptSource) Generate(ctx context.Context, location string) meditation.Delivery {
	start := s.now()
	delivery := s.fetch(ctx, location)
	if remaining := s.minDelay - s.now().Sub(start); remaining > 0 {
		_ = s.wait(ctx, remaining)
	}
	return delivery
}

func (s *ScriptSource) fetch(ctx context.Context, location string) meditation.Delivery {
	if s.client == nil {
		return meditation.OfflineDelivery(location, "")
	}
	if s.store != nil && !s.store.Snapshot().CanGenerate() {
		return meditation.OfflineDelivery(location, noticeOffline)
	}

	resp, err := s.client.GenerateScript(ctx, location)
	if err != nil {
		s.logger.Warn("script request failed, using built-in script",
			zap.String("location", location),
			zap.Error(err))
		return meditation.OfflineDelivery(location, failureNotice(err))
	}
	s.logger.Info("script received",
		zap.String("location", location),
		zap.Bool("cached", resp.Cached))
	return meditation.Delivery{Script: meditation.Script(resp.Script), Source: meditation.SourceAI}
}

func failureNotice(err error) string {
	var apiErr *aura.APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message + " Using a built-in script."
	}
	return noticeUnavailable
}

func waitFor(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
