package usecases

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/kanahhealth/kanah/internal/core/domain"
	"github.com/kanahhealth/kanah/internal/core/ports"
	"github.com/kanahhealth/kanah/internal/pkg/geospatial"
)

// DirectoryService produces distance-ranked health-worker listings for the
// booking screen.
type DirectoryService struct {
	workers ports.HealthWorkerRepository
	places  *PlaceResolver
	cache   ports.CacheService
}

// NewDirectoryService creates a new DirectoryService.
func NewDirectoryService(workers ports.HealthWorkerRepository, places *PlaceResolver, cache ports.CacheService) *DirectoryService {
	return &DirectoryService{workers: workers, places: places, cache: cache}
}

// RankWorkers orders workers by great-circle distance from the seeker,
// closest first. Workers without a location (or every worker, when the
// seeker's location is unknown) are treated as infinitely far away and keep
// their original relative order; ranks are assigned 1-based after the sort.
// The function is pure: the same seeker and worker slice always produce the
// same ranking regardless of when it is called.
func RankWorkers(seeker *domain.GeoPoint, workers []domain.HealthWorker) []domain.RankedWorker {
	ranked := make([]domain.RankedWorker, 0, len(workers))
	for _, w := range workers {
		rw := domain.RankedWorker{Worker: w}
		if seeker != nil && w.Location != nil {
			d := geospatial.Haversine(seeker.Lat, seeker.Lon, w.Location.Lat, w.Location.Lon)
			rw.DistanceKm = &d
		}
		ranked = append(ranked, rw)
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		di, dj := ranked[i].DistanceKm, ranked[j].DistanceKm
		if di == nil {
			return false // unknown distance never moves ahead
		}
		if dj == nil {
			return true
		}
		return *di < *dj
	})

	for i := range ranked {
		ranked[i].Rank = i + 1
	}
	return ranked
}

// eligibility maps an appointment type to the worker category serving it.
// Visitations are served by community health workers available for home
// visits; video calls by doctors available for calls. Any other value lists
// every worker.
func eligibility(t domain.AppointmentType) domain.WorkerType {
	switch t {
	case domain.AppointmentVisitation:
		return domain.WorkerCommunityHealthWorker
	case domain.AppointmentVideoCall:
		return domain.WorkerDoctor
	default:
		return ""
	}
}

// ListRanked fetches workers eligible for the requested appointment type and
// ranks them by proximity to the seeker. Place labels for workers with a
// known location are attached from the resolver cache without blocking:
// unresolved entries carry the loading placeholder and settle on a later
// call. A nil seeker degrades to the stable retrieval order. Calling again
// once a late seeker location arrives recomputes the full ranking.
func (s *DirectoryService) ListRanked(ctx context.Context, t domain.AppointmentType, seeker *domain.GeoPoint) ([]domain.RankedWorker, error) {
	workers, err := s.eligibleWorkers(ctx, t)
	if err != nil {
		return nil, err
	}

	ranked := RankWorkers(seeker, workers)
	for i := range ranked {
		if loc := ranked[i].Worker.Location; loc != nil {
			ranked[i].PlaceName = s.places.Lookup(*loc)
		} else {
			ranked[i].PlaceName = PlaceUnavailable
		}
	}
	return ranked, nil
}

func (s *DirectoryService) eligibleWorkers(ctx context.Context, t domain.AppointmentType) ([]domain.HealthWorker, error) {
	cacheKey := fmt.Sprintf("workers:eligible:%s", t)
	if s.cache != nil {
		if data, err := s.cache.Get(ctx, cacheKey); err == nil {
			var workers []domain.HealthWorker
			if err := json.Unmarshal(data, &workers); err == nil {
				return workers, nil
			}
		}
	}

	workers, err := s.workers.ListAvailable(ctx, eligibility(t), t)
	if err != nil {
		return nil, err
	}

	// Cache for 2 minutes; availability flags change rarely
	if s.cache != nil {
		if data, err := json.Marshal(workers); err == nil {
			_ = s.cache.Set(ctx, cacheKey, data, 120)
		}
	}

	return workers, nil
}

// FindNearby returns workers within radiusKm of the given point.
func (s *DirectoryService) FindNearby(ctx context.Context, lat, lon, radiusKm float64, limit int) ([]domain.HealthWorker, error) {
	if limit <= 0 || limit > 50 {
		limit = 50
	}
	if radiusKm <= 0 {
		radiusKm = 10
	}
	return s.workers.FindNearby(ctx, lat, lon, radiusKm, limit)
}

// GetWorker returns a single health worker.
func (s *DirectoryService) GetWorker(ctx context.Context, id string) (*domain.HealthWorker, error) {
	return s.workers.GetByID(ctx, id)
}
