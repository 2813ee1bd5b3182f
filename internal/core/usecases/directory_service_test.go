package usecases_test

import (
	"context"
	"testing"

	"github.com/kanahhealth/kanah/internal/core/domain"
	"github.com/kanahhealth/kanah/internal/core/usecases"
)

// --- Mock HealthWorkerRepository ---

type mockWorkerRepo struct {
	listAvailableFn func(ctx context.Context, wt domain.WorkerType, mode domain.AppointmentType) ([]domain.HealthWorker, error)
	getByIDFn       func(ctx context.Context, id string) (*domain.HealthWorker, error)
	findNearbyFn    func(ctx context.Context, lat, lon, radiusKm float64, limit int) ([]domain.HealthWorker, error)
}

func (m *mockWorkerRepo) Upsert(ctx context.Context, w *domain.HealthWorker) error { return nil }

func (m *mockWorkerRepo) GetByID(ctx context.Context, id string) (*domain.HealthWorker, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return &domain.HealthWorker{ID: id}, nil
}

func (m *mockWorkerRepo) ListAvailable(ctx context.Context, wt domain.WorkerType, mode domain.AppointmentType) ([]domain.HealthWorker, error) {
	if m.listAvailableFn != nil {
		return m.listAvailableFn(ctx, wt, mode)
	}
	return nil, nil
}

func (m *mockWorkerRepo) FindNearby(ctx context.Context, lat, lon, radiusKm float64, limit int) ([]domain.HealthWorker, error) {
	if m.findNearbyFn != nil {
		return m.findNearbyFn(ctx, lat, lon, radiusKm, limit)
	}
	return nil, nil
}

// --- Stub geocoder for the resolver ---

type stubGeocoder struct {
	fn func(ctx context.Context, lat, lon float64) (string, error)
}

func (g *stubGeocoder) ReverseGeocode(ctx context.Context, lat, lon float64) (string, error) {
	if g.fn != nil {
		return g.fn(ctx, lat, lon)
	}
	return "Nairobi, Nairobi County", nil
}

func loc(lat, lon float64) *domain.GeoPoint {
	return &domain.GeoPoint{Lat: lat, Lon: lon}
}

// --- RankWorkers (pure ranking core) ---

func TestRankWorkers_AbsentSeekerPreservesOrder(t *testing.T) {
	workers := []domain.HealthWorker{
		{ID: "w1", Location: loc(-1.30, 36.80)},
		{ID: "w2", Location: loc(-1.25, 36.85)},
		{ID: "w3"},
	}

	ranked := usecases.RankWorkers(nil, workers)
	if len(ranked) != 3 {
		t.Fatalf("expected 3 ranked workers, got %d", len(ranked))
	}
	for i, want := range []string{"w1", "w2", "w3"} {
		if ranked[i].Worker.ID != want {
			t.Errorf("position %d: expected %s, got %s", i, want, ranked[i].Worker.ID)
		}
		if ranked[i].Rank != i+1 {
			t.Errorf("position %d: expected rank %d, got %d", i, i+1, ranked[i].Rank)
		}
		if ranked[i].DistanceKm != nil {
			t.Errorf("position %d: expected unknown distance with absent seeker", i)
		}
	}
}

func TestRankWorkers_AscendingByDistance(t *testing.T) {
	seeker := loc(-1.2921, 36.8219) // Nairobi CBD

	// Input order: ~5 km, ~1 km, ~10 km away.
	workers := []domain.HealthWorker{
		{ID: "five", Location: loc(-1.2921, 36.8669)},
		{ID: "one", Location: loc(-1.2921, 36.8309)},
		{ID: "ten", Location: loc(-1.2921, 36.9119)},
	}

	ranked := usecases.RankWorkers(seeker, workers)
	for i, want := range []string{"one", "five", "ten"} {
		if ranked[i].Worker.ID != want {
			t.Errorf("position %d: expected %s, got %s", i, want, ranked[i].Worker.ID)
		}
	}
	if ranked[0].DistanceKm == nil || *ranked[0].DistanceKm > *ranked[1].DistanceKm {
		t.Error("distances not ascending")
	}
}

func TestRankWorkers_MissingLocationSortsLast(t *testing.T) {
	seeker := loc(-1.2921, 36.8219)
	workers := []domain.HealthWorker{
		{ID: "nowhere1"},
		{ID: "near", Location: loc(-1.2950, 36.8250)},
		{ID: "nowhere2"},
		{ID: "far", Location: loc(-4.0435, 39.6682)},
	}

	ranked := usecases.RankWorkers(seeker, workers)
	for i, want := range []string{"near", "far", "nowhere1", "nowhere2"} {
		if ranked[i].Worker.ID != want {
			t.Errorf("position %d: expected %s, got %s", i, want, ranked[i].Worker.ID)
		}
	}
	// Workers without a location keep their relative insertion order.
	if ranked[2].Worker.ID != "nowhere1" || ranked[3].Worker.ID != "nowhere2" {
		t.Error("unknown-distance workers did not retain insertion order")
	}
}

func TestRankWorkers_LateSeekerMatchesKnownFromStart(t *testing.T) {
	workers := []domain.HealthWorker{
		{ID: "a", Location: loc(-1.20, 36.90)},
		{ID: "b", Location: loc(-1.2921, 36.8219)},
		{ID: "c"},
		{ID: "d", Location: loc(-2.00, 37.00)},
	}
	seeker := loc(-1.2921, 36.8219)

	// First pass without a seeker location, then a recompute once it arrives.
	_ = usecases.RankWorkers(nil, workers)
	late := usecases.RankWorkers(seeker, workers)
	fresh := usecases.RankWorkers(seeker, workers)

	if len(late) != len(fresh) {
		t.Fatalf("length mismatch: %d vs %d", len(late), len(fresh))
	}
	for i := range late {
		if late[i].Worker.ID != fresh[i].Worker.ID || late[i].Rank != fresh[i].Rank {
			t.Errorf("position %d differs: %s/%d vs %s/%d",
				i, late[i].Worker.ID, late[i].Rank, fresh[i].Worker.ID, fresh[i].Rank)
		}
	}
}

func TestRankWorkers_Empty(t *testing.T) {
	if got := usecases.RankWorkers(loc(0, 0), nil); len(got) != 0 {
		t.Errorf("expected empty ranking, got %d entries", len(got))
	}
}

// --- ListRanked ---

func TestDirectoryService_ListRanked_Eligibility(t *testing.T) {
	var gotType domain.WorkerType
	repo := &mockWorkerRepo{
		listAvailableFn: func(ctx context.Context, wt domain.WorkerType, mode domain.AppointmentType) ([]domain.HealthWorker, error) {
			gotType = wt
			return []domain.HealthWorker{{ID: "w1", WorkerType: wt}}, nil
		},
	}
	svc := usecases.NewDirectoryService(repo, usecases.NewPlaceResolver(&stubGeocoder{}), nil)

	if _, err := svc.ListRanked(context.Background(), domain.AppointmentVisitation, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotType != domain.WorkerCommunityHealthWorker {
		t.Errorf("visitation should list community health workers, got %q", gotType)
	}

	if _, err := svc.ListRanked(context.Background(), domain.AppointmentVideoCall, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotType != domain.WorkerDoctor {
		t.Errorf("video_call should list doctors, got %q", gotType)
	}
}

func TestDirectoryService_ListRanked_PlaceLabels(t *testing.T) {
	repo := &mockWorkerRepo{
		listAvailableFn: func(ctx context.Context, wt domain.WorkerType, mode domain.AppointmentType) ([]domain.HealthWorker, error) {
			return []domain.HealthWorker{
				{ID: "located", Location: loc(-1.2921, 36.8219)},
				{ID: "unlocated"},
			}, nil
		},
	}
	svc := usecases.NewDirectoryService(repo, usecases.NewPlaceResolver(&stubGeocoder{}), nil)

	ranked, err := svc.ListRanked(context.Background(), domain.AppointmentVisitation, loc(-1.29, 36.82))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(ranked) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(ranked))
	}

	// First call never blocks on geocoding: the located worker shows the
	// loading placeholder (or the resolved name if the fetch won the race),
	// the unlocated worker always shows the unavailable label.
	if ranked[0].Worker.ID != "located" {
		t.Fatalf("expected located worker first, got %s", ranked[0].Worker.ID)
	}
	if ranked[0].PlaceName != usecases.PlaceLoading && ranked[0].PlaceName != "Nairobi, Nairobi County" {
		t.Errorf("unexpected place label %q", ranked[0].PlaceName)
	}
	if ranked[1].PlaceName != usecases.PlaceUnavailable {
		t.Errorf("expected %q for unlocated worker, got %q", usecases.PlaceUnavailable, ranked[1].PlaceName)
	}
}

func TestDirectoryService_ListRanked_EmptySet(t *testing.T) {
	repo := &mockWorkerRepo{}
	svc := usecases.NewDirectoryService(repo, usecases.NewPlaceResolver(&stubGeocoder{}), nil)

	ranked, err := svc.ListRanked(context.Background(), domain.AppointmentVideoCall, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(ranked) != 0 {
		t.Errorf("expected empty list, got %d", len(ranked))
	}
}
