package reminderrepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wayfarer-travel/itinerary-api/internal/domain"
	"github.com/wayfarer-travel/itinerary-api/internal/ports/out/reminderrepo"
)

const selectColumns = `
	external_id, trip_id, reminder_type, activity_id, day,
	scheduled_at, minutes_before, enabled,
	created_at, updated_at
`

// Repo is a Postgres implementation of reminderrepo.Repository.
type Repo struct {
	pool *pgxpool.Pool
}

func NewRepo(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

func (r *Repo) GetByID(ctx context.Context, id domain.ReminderID) (reminderrepo.Record, error) {
	if r.pool == nil {
		return reminderrepo.Record{}, errors.New("nil postgres pool")
	}
	rUUID, err := uuid.Parse(string(id))
	if err != nil {
		return reminderrepo.Record{}, reminderrepo.ErrNotFound
	}
	row := r.pool.QueryRow(ctx, `SELECT `+selectColumns+` FROM reminders WHERE external_id = $1`, rUUID)
	rec, err := scanRecord(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return reminderrepo.Record{}, reminderrepo.ErrNotFound
		}
		return reminderrepo.Record{}, err
	}
	return rec, nil
}

func (r *Repo) ListByTrip(ctx context.Context, tripID domain.TripID) ([]reminderrepo.Record, error) {
	if r.pool == nil {
		return nil, errors.New("nil postgres pool")
	}
	rows, err := r.pool.Query(ctx, `
		SELECT `+selectColumns+` FROM reminders
		WHERE trip_id = $1
		ORDER BY day, scheduled_at, external_id
	`, string(tripID))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]reminderrepo.Record, 0)
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (r *Repo) Upsert(ctx context.Context, rec reminderrepo.Record) error {
	if r.pool == nil {
		return errors.New("nil postgres pool")
	}
	return pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		return upsertTx(ctx, tx, rec)
	})
}

func (r *Repo) ReplaceForTrip(ctx context.Context, tripID domain.TripID, recs []reminderrepo.Record) error {
	if r.pool == nil {
		return errors.New("nil postgres pool")
	}
	return pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM reminders WHERE trip_id = $1`, string(tripID)); err != nil {
			return err
		}
		for _, rec := range recs {
			if err := upsertTx(ctx, tx, rec); err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *Repo) DeleteByActivity(ctx context.Context, activityID domain.ActivityID) error {
	if r.pool == nil {
		return errors.New("nil postgres pool")
	}
	aUUID, err := uuid.Parse(string(activityID))
	if err != nil {
		return fmt.Errorf("invalid activity id: %w", err)
	}
	_, err = r.pool.Exec(ctx, `DELETE FROM reminders WHERE activity_id = $1`, aUUID)
	return err
}

func upsertTx(ctx context.Context, tx pgx.Tx, rec reminderrepo.Record) error {
	rUUID, err := uuid.Parse(string(rec.Reminder.ID))
	if err != nil {
		return fmt.Errorf("invalid reminder id: %w", err)
	}
	tUUID, err := uuid.Parse(string(rec.Reminder.TripID))
	if err != nil {
		return fmt.Errorf("invalid trip id: %w", err)
	}
	aUUID, err := uuid.Parse(string(rec.Reminder.RelatedActivityID))
	if err != nil {
		return fmt.Errorf("invalid activity id: %w", err)
	}
	_, err = tx.Exec(ctx, `
		INSERT INTO reminders (`+selectColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
		ON CONFLICT (external_id) DO UPDATE SET
			day = EXCLUDED.day,
			scheduled_at = EXCLUDED.scheduled_at,
			minutes_before = EXCLUDED.minutes_before,
			enabled = EXCLUDED.enabled,
			updated_at = EXCLUDED.updated_at
	`,
		rUUID,
		tUUID,
		string(rec.Reminder.Type),
		aUUID,
		domain.DayOf(rec.Reminder.Day),
		int(rec.Reminder.ScheduledAt),
		rec.Reminder.MinutesBefore,
		rec.Reminder.Enabled,
		rec.CreatedAt.UTC(),
		rec.UpdatedAt.UTC(),
	)
	return err
}

func scanRecord(row pgx.Row) (reminderrepo.Record, error) {
	var (
		rec         reminderrepo.Record
		rUUID       uuid.UUID
		tUUID       uuid.UUID
		aUUID       uuid.UUID
		typ         string
		day         time.Time
		scheduledAt int
	)
	err := row.Scan(
		&rUUID,
		&tUUID,
		&typ,
		&aUUID,
		&day,
		&scheduledAt,
		&rec.Reminder.MinutesBefore,
		&rec.Reminder.Enabled,
		&rec.CreatedAt,
		&rec.UpdatedAt,
	)
	if err != nil {
		return reminderrepo.Record{}, err
	}
	rec.Reminder.ID = domain.ReminderID(rUUID.String())
	rec.Reminder.TripID = domain.TripID(tUUID.String())
	rec.Reminder.Type = domain.ReminderType(typ)
	rec.Reminder.RelatedActivityID = domain.ActivityID(aUUID.String())
	rec.Reminder.Day = domain.DayOf(day)
	rec.Reminder.ScheduledAt = domain.TimeOfDay(scheduledAt)
	rec.CreatedAt = rec.CreatedAt.UTC()
	rec.UpdatedAt = rec.UpdatedAt.UTC()
	return rec, nil
}
