package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"distance-api/internal/models"
	"distance-api/internal/repository"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

const (
	// MinutesPerKilometer is the linear travel time estimate applied to every route.
	MinutesPerKilometer = 3.0

	DefaultCacheTTL       = time.Hour
	DefaultCacheOpTimeout = 500 * time.Millisecond
	DefaultLookupTimeout  = 30 * time.Second
)

var errGeocodeUnresolved = errors.New("geocode unresolved")

// LocationStore interface for dependency injection
type LocationStore interface {
	FindMatch(ctx context.Context, query string) (*models.Location, error)
	GetOrCreate(ctx context.Context, name, address string, lat, lng float64) (*models.Location, error)
	RecordDistance(ctx context.Context, start, end *models.Location, km float64) (*models.DistanceRecord, error)
}

// GeocodingGateway turns free text into a formatted address and coordinates.
// Any error is treated as an unresolved address.
type GeocodingGateway interface {
	Geocode(ctx context.Context, address string) (*models.GeocodeResult, error)
}

// DistanceGateway returns the travel distance in kilometers between two coordinates.
// Any error is treated as an unresolved distance.
type DistanceGateway interface {
	DistanceBetween(ctx context.Context, lat1, lng1, lat2, lng2 float64) (float64, error)
}

// ResultCache is an advisory store of computed responses.
type ResultCache interface {
	Get(ctx context.Context, key string) (*models.DistanceResponse, bool, error)
	Set(ctx context.Context, key string, value *models.DistanceResponse, ttl time.Duration) error
}

// Option configures a DistanceService.
type Option func(*DistanceService)

// WithCacheTTL sets how long computed responses stay cached.
func WithCacheTTL(ttl time.Duration) Option {
	return func(s *DistanceService) { s.cacheTTL = ttl }
}

// WithCacheOpTimeout bounds each cache round trip.
func WithCacheOpTimeout(timeout time.Duration) Option {
	return func(s *DistanceService) { s.cacheOpTimeout = timeout }
}

// WithLookupTimeout bounds one shared location resolution (match, geocode and store).
func WithLookupTimeout(timeout time.Duration) Option {
	return func(s *DistanceService) { s.lookupTimeout = timeout }
}

// WithClock replaces time.Now for the calculated_at timestamp.
func WithClock(now func() time.Time) Option {
	return func(s *DistanceService) { s.now = now }
}

// DistanceService resolves two free-text places to stored locations and the distance between them
type DistanceService struct {
	store     LocationStore
	geocoder  GeocodingGateway
	distances DistanceGateway
	cache     ResultCache

	cacheTTL       time.Duration
	cacheOpTimeout time.Duration
	lookupTimeout  time.Duration
	now            func() time.Time

	inflight singleflight.Group
	logger   zerolog.Logger
}

// NewDistanceService creates a new distance service. cache may be nil, which disables result caching.
func NewDistanceService(store LocationStore, geocoder GeocodingGateway, distances DistanceGateway, cache ResultCache, opts ...Option) *DistanceService {
	s := &DistanceService{
		store:          store,
		geocoder:       geocoder,
		distances:      distances,
		cache:          cache,
		cacheTTL:       DefaultCacheTTL,
		cacheOpTimeout: DefaultCacheOpTimeout,
		lookupTimeout:  DefaultLookupTimeout,
		now:            time.Now,
		logger:         log.With().Str("component", "distance_service").Logger(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Resolve computes the route between start and end, serving repeated requests from the result cache.
func (s *DistanceService) Resolve(ctx context.Context, start, end string) (*models.DistanceResponse, error) {
	startKey, endKey := Normalize(start), Normalize(end)
	if startKey == "" || endKey == "" {
		return nil, invalidParameters()
	}

	cacheKey := CacheKey(startKey, endKey)
	if cached, ok := s.cacheGet(ctx, cacheKey); ok {
		return cached, nil
	}

	startLoc, endLoc, err := s.resolvePair(ctx, startKey, endKey)
	if err != nil {
		return nil, err
	}

	km, err := s.distances.DistanceBetween(ctx, startLoc.Latitude, startLoc.Longitude, endLoc.Latitude, endLoc.Longitude)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, distanceFailed(err)
	}
	if km < 0 || math.IsNaN(km) || math.IsInf(km, 0) {
		return nil, distanceFailed(fmt.Errorf("invalid distance %v", km))
	}

	if _, err := s.store.RecordDistance(ctx, startLoc, endLoc, km); err != nil {
		if errors.Is(err, repository.ErrReferentialIntegrity) {
			s.logger.Error().Err(err).Int64("start_id", startLoc.ID).Int64("end_id", endLoc.ID).Msg("distance record rejected")
			return nil, integrityFailed(err)
		}
		return nil, fmt.Errorf("service: failed to record distance: %w", err)
	}

	resp := s.assemble(startLoc, endLoc, km)
	s.cacheSet(ctx, cacheKey, resp)

	return resp, nil
}

// resolvePair resolves both sides concurrently. When both fail, the start side is reported.
func (s *DistanceService) resolvePair(ctx context.Context, startKey, endKey string) (*models.Location, *models.Location, error) {
	var (
		g                errgroup.Group
		startLoc, endLoc *models.Location
		startErr, endErr error
	)

	g.Go(func() error {
		startLoc, startErr = s.resolveLocation(ctx, SideStart, startKey)
		return startErr
	})
	g.Go(func() error {
		endLoc, endErr = s.resolveLocation(ctx, SideEnd, endKey)
		return endErr
	})
	_ = g.Wait()

	if startErr != nil {
		return nil, nil, startErr
	}
	if endErr != nil {
		return nil, nil, endErr
	}
	return startLoc, endLoc, nil
}

// resolveLocation reuses a stored match for key or geocodes and stores a new one.
// Concurrent resolutions of the same key share one lookup.
func (s *DistanceService) resolveLocation(ctx context.Context, side Side, key string) (*models.Location, error) {
	ch := s.inflight.DoChan(key, func() (any, error) {
		// detached from any single caller, bounded so a stalled lookup cannot pin the key
		lookupCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.lookupTimeout)
		defer cancel()
		return s.lookupOrGeocode(lookupCtx, key)
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			if errors.Is(res.Err, errGeocodeUnresolved) {
				return nil, geocodingFailed(side, res.Err)
			}
			return nil, res.Err
		}
		return res.Val.(*models.Location), nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (s *DistanceService) lookupOrGeocode(ctx context.Context, key string) (*models.Location, error) {
	loc, err := s.store.FindMatch(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("service: failed to match location: %w", err)
	}
	if loc != nil {
		s.logger.Debug().Str("query", key).Int64("location_id", loc.ID).Msg("reusing stored location")
		return loc, nil
	}

	result, err := s.geocoder.Geocode(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errGeocodeUnresolved, err)
	}
	if result == nil {
		return nil, fmt.Errorf("%w: empty result for %q", errGeocodeUnresolved, key)
	}

	loc, err = s.store.GetOrCreate(ctx, key, result.FormattedAddress, result.Latitude, result.Longitude)
	if err != nil {
		if errors.Is(err, repository.ErrInvalidCoordinates) {
			return nil, fmt.Errorf("%w: %w", errGeocodeUnresolved, err)
		}
		return nil, fmt.Errorf("service: failed to store location: %w", err)
	}

	s.logger.Debug().Str("query", key).Int64("location_id", loc.ID).Msg("stored geocoded location")
	return loc, nil
}

func (s *DistanceService) assemble(start, end *models.Location, km float64) *models.DistanceResponse {
	return &models.DistanceResponse{
		Status: models.StatusSuccess,
		Data: models.DistanceData{
			StartLocation: locationPayload(start),
			EndLocation:   locationPayload(end),
			Route: models.Route{
				Distance:      models.Measure{Value: km, Unit: models.UnitKilometers},
				EstimatedTime: models.Measure{Value: km * MinutesPerKilometer, Unit: models.UnitMinutes},
			},
		},
		Metadata: models.Metadata{
			CalculatedAt: s.now().UTC(),
			Service:      models.ServiceName,
		},
	}
}

func locationPayload(loc *models.Location) models.LocationPayload {
	return models.LocationPayload{
		FormattedAddress: loc.Address,
		Coordinates: models.Coordinates{
			Latitude:  loc.Latitude,
			Longitude: loc.Longitude,
		},
	}
}

func (s *DistanceService) cacheGet(ctx context.Context, key string) (*models.DistanceResponse, bool) {
	if s.cache == nil {
		return nil, false
	}

	ctx, cancel := context.WithTimeout(ctx, s.cacheOpTimeout)
	defer cancel()

	resp, found, err := s.cache.Get(ctx, key)
	if err != nil {
		s.logger.Warn().Err(err).Str("key", key).Msg("result cache read failed")
		return nil, false
	}
	if !found || resp == nil {
		return nil, false
	}
	s.logger.Debug().Str("key", key).Msg("result cache hit")
	return resp, true
}

func (s *DistanceService) cacheSet(ctx context.Context, key string, resp *models.DistanceResponse) {
	if s.cache == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.cacheOpTimeout)
	defer cancel()

	if err := s.cache.Set(ctx, key, resp, s.cacheTTL); err != nil {
		s.logger.Warn().Err(err).Str("key", key).Msg("result cache write failed")
	}
}
