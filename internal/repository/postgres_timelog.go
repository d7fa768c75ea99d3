package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/alexanderramin/shiftlog/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

var postgresSchema = []string{
	`CREATE TABLE IF NOT EXISTS time_logs (
		id              TEXT PRIMARY KEY DEFAULT gen_random_uuid()::text,
		user_id         TEXT NOT NULL,
		clock_in_local  TEXT NOT NULL,
		clock_in_utc    TIMESTAMPTZ NOT NULL,
		clock_out_local TEXT,
		clock_out_utc   TIMESTAMPTZ,
		timezone        TEXT NOT NULL,
		note            TEXT NOT NULL DEFAULT '',
		auto_closed     BOOLEAN NOT NULL DEFAULT FALSE,
		created_at      TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_time_logs_user_in ON time_logs(user_id, clock_in_utc)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_time_logs_open ON time_logs(user_id) WHERE clock_out_local IS NULL`,
}

const pgTimeLogColumns = `id, user_id, clock_in_local, clock_in_utc, clock_out_local, clock_out_utc,
	timezone, note, auto_closed`

// PostgresTimeLogStore implements TimeLogStore on a shared Postgres database.
type PostgresTimeLogStore struct {
	pool *pgxpool.Pool
}

// OpenPostgres connects to dsn and verifies the connection.
func OpenPostgres(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parsing postgres dsn: %w", err)
	}
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connecting to postgres: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging postgres: %w", err)
	}
	return pool, nil
}

func NewPostgresTimeLogStore(pool *pgxpool.Pool) *PostgresTimeLogStore {
	return &PostgresTimeLogStore{pool: pool}
}

// EnsureSchema creates the time_logs table and its indexes when missing.
func (s *PostgresTimeLogStore) EnsureSchema(ctx context.Context) error {
	for i, stmt := range postgresSchema {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("postgres schema %d: %w", i, err)
		}
	}
	return nil
}

func (s *PostgresTimeLogStore) CreateOpenRecord(ctx context.Context, userID string, clockInLocal time.Time, timezone string) (string, error) {
	const op = "create open record"
	wall, err := wallIn(clockInLocal, timezone)
	if err != nil {
		return "", err
	}
	var id string
	err = s.pool.QueryRow(ctx, `INSERT INTO time_logs (user_id, clock_in_local, clock_in_utc, timezone)
		VALUES ($1, $2, $3, $4) RETURNING id`,
		userID, wall, clockInLocal.UTC(), timezone,
	).Scan(&id)
	if err != nil {
		if isPgUniqueViolation(err) {
			return "", storeErr(op, ErrOpenRecordExists)
		}
		return "", storeErr(op, err)
	}
	return id, nil
}

func (s *PostgresTimeLogStore) CloseRecord(ctx context.Context, recordID string, clockOutLocal time.Time) error {
	return pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		return closeOpenPg(ctx, tx, "close record", recordID, clockOutLocal)
	})
}

func (s *PostgresTimeLogStore) AutoClose(ctx context.Context, recordID string, closeAt time.Time, note string) error {
	const op = "auto close record"
	return pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		if err := closeOpenPg(ctx, tx, op, recordID, closeAt); err != nil {
			return err
		}
		tag, err := tx.Exec(ctx, `UPDATE time_logs SET note = $1, auto_closed = TRUE WHERE id = $2`,
			domain.TruncateNote(note), recordID)
		return checkTag(op, tag, err)
	})
}

func closeOpenPg(ctx context.Context, tx pgx.Tx, op, recordID string, clockOutLocal time.Time) error {
	rec, err := scanPgTimeLog(tx.QueryRow(ctx,
		`SELECT `+pgTimeLogColumns+` FROM time_logs WHERE id = $1 FOR UPDATE`, recordID))
	if err != nil {
		return storeErr(op, err)
	}
	if !rec.IsOpen() {
		return &domain.ValidationError{Field: "record", Reason: "already closed"}
	}
	if clockOutLocal.Before(rec.ClockIn) {
		return &domain.ValidationError{Field: "clock_out", Reason: "precedes clock-in"}
	}
	wall, err := wallIn(clockOutLocal, rec.Timezone)
	if err != nil {
		return err
	}
	if _, err := tx.Exec(ctx,
		`UPDATE time_logs SET clock_out_local = $1, clock_out_utc = $2 WHERE id = $3`,
		wall, clockOutLocal.UTC(), recordID,
	); err != nil {
		return storeErr(op, err)
	}
	return nil
}

func (s *PostgresTimeLogStore) SetNote(ctx context.Context, recordID, note string) error {
	tag, err := s.pool.Exec(ctx, `UPDATE time_logs SET note = $1 WHERE id = $2`,
		domain.TruncateNote(note), recordID)
	return checkTag("set note", tag, err)
}

func (s *PostgresTimeLogStore) QueryRecords(ctx context.Context, userID string, from time.Time, to *time.Time) ([]*domain.SessionRecord, error) {
	const op = "query records"
	query := `SELECT ` + pgTimeLogColumns + ` FROM time_logs WHERE user_id = $1 AND clock_in_utc >= $2`
	args := []any{userID, from.UTC()}
	if to != nil {
		query += ` AND clock_in_utc < $3`
		args = append(args, to.UTC())
	}
	query += ` ORDER BY clock_in_utc, id`

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, storeErr(op, err)
	}
	defer rows.Close()

	var out []*domain.SessionRecord
	for rows.Next() {
		rec, err := scanPgTimeLog(rows)
		if err != nil {
			return nil, storeErr(op, err)
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr(op, err)
	}
	return out, nil
}

func (s *PostgresTimeLogStore) FindLatestOpenRecord(ctx context.Context, userID string) (*domain.SessionRecord, error) {
	rec, err := scanPgTimeLog(s.pool.QueryRow(ctx, `SELECT `+pgTimeLogColumns+` FROM time_logs
		WHERE user_id = $1 AND clock_out_local IS NULL
		ORDER BY clock_in_utc DESC LIMIT 1`, userID))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, err
		}
		return nil, storeErr("find open record", err)
	}
	return rec, nil
}

func scanPgTimeLog(row pgx.Row) (*domain.SessionRecord, error) {
	var (
		rec     domain.SessionRecord
		inWall  string
		inUTC   time.Time
		outWall *string
		outUTC  *time.Time
	)
	err := row.Scan(&rec.ID, &rec.UserID, &inWall, &inUTC, &outWall, &outUTC,
		&rec.Timezone, &rec.Note, &rec.AutoClosed)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("time log: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("scanning time log: %w", err)
	}

	if rec.ClockIn, err = restoreTime(inWall, rec.Timezone, utcString(inUTC)); err != nil {
		return nil, fmt.Errorf("time log %s clock-in: %w", rec.ID, err)
	}
	if outWall != nil {
		var utc string
		if outUTC != nil {
			utc = utcString(*outUTC)
		}
		out, err := restoreTime(*outWall, rec.Timezone, utc)
		if err != nil {
			return nil, fmt.Errorf("time log %s clock-out: %w", rec.ID, err)
		}
		rec.ClockOut = &out
	}
	return &rec, nil
}

func checkTag(op string, tag pgconn.CommandTag, err error) error {
	if err != nil {
		return storeErr(op, err)
	}
	if tag.RowsAffected() == 0 {
		return storeErr(op, fmt.Errorf("time log: %w", ErrNotFound))
	}
	return nil
}

// isPgUniqueViolation reports SQLSTATE 23505 anywhere in the error chain.
func isPgUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.SQLState() == "23505"
	}
	return false
}

var _ TimeLogStore = (*PostgresTimeLogStore)(nil)
