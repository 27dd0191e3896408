package session

import (
	"context"
	"errors"

	"github.com/spigell/profile-analyzer/internal/analysis"
	"github.com/spigell/profile-analyzer/internal/profile"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Deps aggregates what one interactive session needs.
type Deps struct {
	Providers []profile.Provider
	Pipeline  *analysis.Pipeline
	Logger    *zap.Logger
}

// Session owns the result cache of the profile currently being viewed.
type Session struct {
	id        uuid.UUID
	providers []profile.Provider
	pipeline  *analysis.Pipeline
	logger    *zap.Logger

	profileID string
	cache     *analysis.Cache
}

func New(deps Deps) *Session {
	id := uuid.New()

	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Session{
		id:        id,
		providers: deps.Providers,
		pipeline:  deps.Pipeline,
		logger:    logger.With(zap.String("session_id", id.String())),
	}
}

func (s *Session) ID() string {
	return s.id.String()
}

// Load runs one interaction cycle for the profile URL: authenticate, fetch,
// populate the cache if it is empty. Entering a different profile starts a
// fresh cache; the same profile reuses the cached analysis.
func (s *Session) Load(ctx context.Context, profileURL string) (*analysis.Cache, error) {
	id, err := profile.IdentifierFromURL(profileURL)
	if err != nil {
		return nil, err
	}

	logger := s.logger.With(zap.String("profile_id", id))

	src, attempts, err := profile.FirstAvailable(ctx, s.providers...)
	for _, attempt := range attempts {
		if attempt.Err != nil {
			logger.Warn("authentication attempt failed",
				zap.String("provider", attempt.Provider),
				zap.Error(attempt.Err),
			)
		}
	}
	if err != nil {
		return nil, err
	}

	record, err := src.FetchProfile(ctx, id)
	if err != nil {
		if !errors.Is(err, profile.ErrProfileRetrieval) {
			err = errors.Join(profile.ErrProfileRetrieval, err)
		}
		return nil, err
	}

	if s.cache == nil || s.profileID != id {
		if s.cache != nil {
			logger.Info("profile changed, discarding cached analysis", zap.String("previous_profile_id", s.profileID))
		}
		s.cache = analysis.NewCache(s.pipeline)
		s.profileID = id
	}

	if s.cache.IsEmpty() {
		logger.Info("generating analysis", zap.Int("categories", len(analysis.Categories())))
	}

	if err := s.cache.Populate(ctx, analysis.FormatDocument(record)); err != nil {
		return nil, err
	}

	return s.cache, nil
}

// Cache returns the cache of the last loaded profile, or nil.
func (s *Session) Cache() *analysis.Cache {
	return s.cache
}
