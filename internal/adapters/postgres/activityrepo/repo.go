package activityrepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/wayfarer-travel/itinerary-api/internal/adapters/postgres"
	"github.com/wayfarer-travel/itinerary-api/internal/domain"
	"github.com/wayfarer-travel/itinerary-api/internal/ports/out/activityrepo"
)

const selectColumns = `
	external_id, trip_id, title, category, day,
	start_minutes, end_minutes,
	location_name, latitude, longitude,
	position, locked, open_from, open_until,
	created_at, updated_at
`

// Repo is a Postgres implementation of activityrepo.Repository.
type Repo struct {
	pool *pgxpool.Pool
}

func NewRepo(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

func (r *Repo) Create(ctx context.Context, rec activityrepo.Record) error {
	if r.pool == nil {
		return errors.New("nil postgres pool")
	}
	ids, err := parseIDs(rec.Activity)
	if err != nil {
		return err
	}
	_, err = r.pool.Exec(ctx, `
		INSERT INTO activities (`+selectColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16)
	`, insertArgs(ids, rec)...)
	if err != nil {
		if pe, ok := postgres.AsPgError(err); ok && pe.Code == postgres.UniqueViolationCode {
			return activityrepo.ErrAlreadyExists
		}
		return err
	}
	return nil
}

func (r *Repo) Save(ctx context.Context, rec activityrepo.Record) error {
	return r.saveAll(ctx, []activityrepo.Record{rec})
}

func (r *Repo) SaveAll(ctx context.Context, recs []activityrepo.Record) error {
	return r.saveAll(ctx, recs)
}

func (r *Repo) saveAll(ctx context.Context, recs []activityrepo.Record) error {
	if r.pool == nil {
		return errors.New("nil postgres pool")
	}
	return pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		for _, rec := range recs {
			ids, err := parseIDs(rec.Activity)
			if err != nil {
				return err
			}
			tag, err := tx.Exec(ctx, `
				UPDATE activities SET
					trip_id = $2,
					title = $3,
					category = $4,
					day = $5,
					start_minutes = $6,
					end_minutes = $7,
					location_name = $8,
					latitude = $9,
					longitude = $10,
					position = $11,
					locked = $12,
					open_from = $13,
					open_until = $14,
					updated_at = $15
				WHERE external_id = $1
			`,
				ids.activity,
				ids.trip,
				rec.Activity.Title,
				rec.Activity.Category,
				dayValue(rec.Activity.Day),
				int(rec.Activity.Start),
				minutesPtr(rec.Activity.End),
				rec.Activity.Location.Name,
				rec.Activity.Location.Latitude,
				rec.Activity.Location.Longitude,
				rec.Activity.Order,
				rec.Activity.Locked,
				minutesPtr(rec.Activity.OpenFrom),
				minutesPtr(rec.Activity.OpenUntil),
				rec.UpdatedAt.UTC(),
			)
			if err != nil {
				return err
			}
			if tag.RowsAffected() == 0 {
				return activityrepo.ErrNotFound
			}
		}
		return nil
	})
}

func (r *Repo) Delete(ctx context.Context, id domain.ActivityID) error {
	if r.pool == nil {
		return errors.New("nil postgres pool")
	}
	aUUID, err := uuid.Parse(string(id))
	if err != nil {
		return fmt.Errorf("invalid activity id: %w", err)
	}
	tag, err := r.pool.Exec(ctx, `DELETE FROM activities WHERE external_id = $1`, aUUID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return activityrepo.ErrNotFound
	}
	return nil
}

func (r *Repo) GetByID(ctx context.Context, id domain.ActivityID) (activityrepo.Record, error) {
	if r.pool == nil {
		return activityrepo.Record{}, errors.New("nil postgres pool")
	}
	aUUID, err := uuid.Parse(string(id))
	if err != nil {
		return activityrepo.Record{}, activityrepo.ErrNotFound
	}
	row := r.pool.QueryRow(ctx, `SELECT `+selectColumns+` FROM activities WHERE external_id = $1`, aUUID)
	rec, err := scanRecord(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return activityrepo.Record{}, activityrepo.ErrNotFound
		}
		return activityrepo.Record{}, err
	}
	return rec, nil
}

func (r *Repo) ListByTrip(ctx context.Context, tripID domain.TripID) ([]activityrepo.Record, error) {
	return r.list(ctx, `
		SELECT `+selectColumns+` FROM activities
		WHERE trip_id = $1
		ORDER BY day, start_minutes, position, external_id
	`, string(tripID))
}

func (r *Repo) ListByTripDay(ctx context.Context, tripID domain.TripID, day domain.Day) ([]activityrepo.Record, error) {
	return r.list(ctx, `
		SELECT `+selectColumns+` FROM activities
		WHERE trip_id = $1 AND day = $2
		ORDER BY day, start_minutes, position, external_id
	`, string(tripID), dayValue(day))
}

func (r *Repo) list(ctx context.Context, query string, args ...any) ([]activityrepo.Record, error) {
	if r.pool == nil {
		return nil, errors.New("nil postgres pool")
	}
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]activityrepo.Record, 0)
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

type rowIDs struct {
	activity uuid.UUID
	trip     uuid.UUID
}

func parseIDs(a domain.Activity) (rowIDs, error) {
	aUUID, err := uuid.Parse(string(a.ID))
	if err != nil {
		return rowIDs{}, fmt.Errorf("invalid activity id: %w", err)
	}
	tUUID, err := uuid.Parse(string(a.TripID))
	if err != nil {
		return rowIDs{}, fmt.Errorf("invalid trip id: %w", err)
	}
	return rowIDs{activity: aUUID, trip: tUUID}, nil
}

func insertArgs(ids rowIDs, rec activityrepo.Record) []any {
	return []any{
		ids.activity,
		ids.trip,
		rec.Activity.Title,
		rec.Activity.Category,
		dayValue(rec.Activity.Day),
		int(rec.Activity.Start),
		minutesPtr(rec.Activity.End),
		rec.Activity.Location.Name,
		rec.Activity.Location.Latitude,
		rec.Activity.Location.Longitude,
		rec.Activity.Order,
		rec.Activity.Locked,
		minutesPtr(rec.Activity.OpenFrom),
		minutesPtr(rec.Activity.OpenUntil),
		rec.CreatedAt.UTC(),
		rec.UpdatedAt.UTC(),
	}
}

func scanRecord(row pgx.Row) (activityrepo.Record, error) {
	var (
		rec       activityrepo.Record
		aUUID     uuid.UUID
		tUUID     uuid.UUID
		day       time.Time
		start     int
		end       *int
		openFrom  *int
		openUntil *int
	)
	err := row.Scan(
		&aUUID,
		&tUUID,
		&rec.Activity.Title,
		&rec.Activity.Category,
		&day,
		&start,
		&end,
		&rec.Activity.Location.Name,
		&rec.Activity.Location.Latitude,
		&rec.Activity.Location.Longitude,
		&rec.Activity.Order,
		&rec.Activity.Locked,
		&openFrom,
		&openUntil,
		&rec.CreatedAt,
		&rec.UpdatedAt,
	)
	if err != nil {
		return activityrepo.Record{}, err
	}
	rec.Activity.ID = domain.ActivityID(aUUID.String())
	rec.Activity.TripID = domain.TripID(tUUID.String())
	rec.Activity.Day = domain.DayOf(day)
	rec.Activity.Start = domain.TimeOfDay(start)
	rec.Activity.End = timeOfDayPtr(end)
	rec.Activity.OpenFrom = timeOfDayPtr(openFrom)
	rec.Activity.OpenUntil = timeOfDayPtr(openUntil)
	rec.CreatedAt = rec.CreatedAt.UTC()
	rec.UpdatedAt = rec.UpdatedAt.UTC()
	return rec, nil
}

func dayValue(d domain.Day) time.Time {
	return domain.DayOf(d)
}

func minutesPtr(t *domain.TimeOfDay) *int {
	if t == nil {
		return nil
	}
	v := int(*t)
	return &v
}

func timeOfDayPtr(m *int) *domain.TimeOfDay {
	if m == nil {
		return nil
	}
	v := domain.TimeOfDay(*m)
	return &v
}
