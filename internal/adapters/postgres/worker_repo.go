package postgres

import (
	"context"

	"github.com/kanahhealth/kanah/internal/core/domain"
	"github.com/kanahhealth/kanah/internal/pkg/geospatial"
)

// WorkerRepo implements ports.HealthWorkerRepository with pgx.
type WorkerRepo struct {
	db *DB
}

// NewWorkerRepo creates a new WorkerRepo.
func NewWorkerRepo(db *DB) *WorkerRepo {
	return &WorkerRepo{db: db}
}

const workerColumns = `
	id, user_id, full_name, worker_type,
	available_for_visits, available_for_calls,
	latitude, longitude, rating, review_count, max_daily_visits, created_at`

// Upsert inserts or updates a health worker keyed by user_id.
func (r *WorkerRepo) Upsert(ctx context.Context, w *domain.HealthWorker) error {
	var lat, lon *float64
	if w.Location != nil {
		lat, lon = &w.Location.Lat, &w.Location.Lon
	}
	_, err := r.db.Pool.Exec(ctx, `
		INSERT INTO health_workers
			(user_id, full_name, worker_type, available_for_visits, available_for_calls,
			 latitude, longitude, rating, review_count, max_daily_visits)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (user_id) DO UPDATE
		SET full_name = EXCLUDED.full_name,
		    worker_type = EXCLUDED.worker_type,
		    available_for_visits = EXCLUDED.available_for_visits,
		    available_for_calls = EXCLUDED.available_for_calls,
		    latitude = EXCLUDED.latitude,
		    longitude = EXCLUDED.longitude,
		    rating = EXCLUDED.rating,
		    review_count = EXCLUDED.review_count,
		    max_daily_visits = EXCLUDED.max_daily_visits
	`, w.UserID, w.FullName, w.WorkerType, w.AvailableForVisits, w.AvailableForCalls,
		lat, lon, w.Rating, w.ReviewCount, w.MaxDailyVisits)
	return err
}

// GetByID returns a worker by UUID.
func (r *WorkerRepo) GetByID(ctx context.Context, id string) (*domain.HealthWorker, error) {
	row := r.db.Pool.QueryRow(ctx, `SELECT `+workerColumns+` FROM health_workers WHERE id = $1`, id)
	return scanWorker(row)
}

// ListAvailable returns workers matching the type and availability flag for
// the mode, ordered by creation time so repeated listings are stable. An
// empty workerType lists everyone.
func (r *WorkerRepo) ListAvailable(ctx context.Context, workerType domain.WorkerType, mode domain.AppointmentType) ([]domain.HealthWorker, error) {
	query := `SELECT ` + workerColumns + ` FROM health_workers`
	args := []any{}

	if workerType != "" {
		flag := "available_for_visits"
		if mode == domain.AppointmentVideoCall {
			flag = "available_for_calls"
		}
		query += ` WHERE worker_type = $1 AND ` + flag + ` = true`
		args = append(args, workerType)
	}
	query += ` ORDER BY created_at, id`

	rows, err := r.db.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var workers []domain.HealthWorker
	for rows.Next() {
		w, err := scanWorker(rows)
		if err != nil {
			return nil, err
		}
		workers = append(workers, *w)
	}
	return workers, rows.Err()
}

// FindNearby returns workers within radiusKm using PostGIS ST_DWithin.
// Workers without a stored location are excluded by definition. A bounding
// box narrows the candidate set before the geography comparison.
func (r *WorkerRepo) FindNearby(ctx context.Context, lat, lon, radiusKm float64, limit int) ([]domain.HealthWorker, error) {
	minLat, minLon, maxLat, maxLon := geospatial.BoundingBox(lat, lon, radiusKm)
	rows, err := r.db.Pool.Query(ctx, `
		SELECT `+workerColumns+`
		FROM health_workers
		WHERE latitude IS NOT NULL
		  AND latitude BETWEEN $5 AND $6
		  AND longitude BETWEEN $7 AND $8
		  AND ST_DWithin(
			ST_SetSRID(ST_MakePoint(longitude, latitude), 4326)::geography,
			ST_SetSRID(ST_MakePoint($1, $2), 4326)::geography,
			$3)
		ORDER BY ST_Distance(
			ST_SetSRID(ST_MakePoint(longitude, latitude), 4326)::geography,
			ST_SetSRID(ST_MakePoint($1, $2), 4326)::geography)
		LIMIT $4
	`, lon, lat, radiusKm*1000, limit, minLat, maxLat, minLon, maxLon)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var workers []domain.HealthWorker
	for rows.Next() {
		w, err := scanWorker(rows)
		if err != nil {
			return nil, err
		}
		workers = append(workers, *w)
	}
	return workers, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanWorker(row rowScanner) (*domain.HealthWorker, error) {
	var w domain.HealthWorker
	var lat, lon *float64
	if err := row.Scan(
		&w.ID, &w.UserID, &w.FullName, &w.WorkerType,
		&w.AvailableForVisits, &w.AvailableForCalls,
		&lat, &lon, &w.Rating, &w.ReviewCount, &w.MaxDailyVisits, &w.CreatedAt,
	); err != nil {
		return nil, err
	}
	if lat != nil && lon != nil {
		w.Location = &domain.GeoPoint{Lat: *lat, Lon: *lon}
	}
	return &w, nil
}
