package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/alexanderramin/shiftlog/internal/db"
	"github.com/alexanderramin/shiftlog/internal/domain"
	"github.com/google/uuid"
)

const timeLogColumns = `id, user_id, clock_in_local, clock_in_utc, clock_out_local, clock_out_utc,
	timezone, note, auto_closed`

// SQLiteTimeLogStore implements TimeLogStore on the local SQLite database.
type SQLiteTimeLogStore struct {
	db  db.DBTX
	uow db.UnitOfWork
	now func() time.Time
}

// NewSQLiteTimeLogStore creates a store. Closing a record runs inside uow.
func NewSQLiteTimeLogStore(conn db.DBTX, uow db.UnitOfWork) *SQLiteTimeLogStore {
	return &SQLiteTimeLogStore{db: conn, uow: uow, now: time.Now}
}

func (s *SQLiteTimeLogStore) CreateOpenRecord(ctx context.Context, userID string, clockInLocal time.Time, timezone string) (string, error) {
	wall, err := wallIn(clockInLocal, timezone)
	if err != nil {
		return "", err
	}
	id := uuid.NewString()
	_, err = s.db.ExecContext(ctx, `INSERT INTO time_logs
		(id, user_id, clock_in_local, clock_in_utc, timezone, note, auto_closed, created_at)
		VALUES (?, ?, ?, ?, ?, '', 0, ?)`,
		id, userID, wall, utcString(clockInLocal), timezone, utcString(s.now()),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return "", storeErr("create open record", ErrOpenRecordExists)
		}
		return "", storeErr("create open record", fmt.Errorf("inserting time log: %w", err))
	}
	return id, nil
}

func (s *SQLiteTimeLogStore) CloseRecord(ctx context.Context, recordID string, clockOutLocal time.Time) error {
	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		return closeOpen(ctx, tx, "close record", recordID, clockOutLocal)
	})
}

func (s *SQLiteTimeLogStore) AutoClose(ctx context.Context, recordID string, closeAt time.Time, note string) error {
	const op = "auto close record"
	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		if err := closeOpen(ctx, tx, op, recordID, closeAt); err != nil {
			return err
		}
		res, err := tx.ExecContext(ctx, `UPDATE time_logs SET note = ?, auto_closed = 1 WHERE id = ?`,
			domain.TruncateNote(note), recordID)
		return checkAffected(op, res, err)
	})
}

// closeOpen sets the clock-out of an open record inside tx.
func closeOpen(ctx context.Context, tx db.DBTX, op, recordID string, clockOutLocal time.Time) error {
	rec, err := scanTimeLog(tx.QueryRowContext(ctx,
		`SELECT `+timeLogColumns+` FROM time_logs WHERE id = ?`, recordID))
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
	if _, err := tx.ExecContext(ctx,
		`UPDATE time_logs SET clock_out_local = ?, clock_out_utc = ? WHERE id = ?`,
		wall, utcString(clockOutLocal), recordID,
	); err != nil {
		return storeErr(op, fmt.Errorf("updating time log: %w", err))
	}
	return nil
}

func (s *SQLiteTimeLogStore) SetNote(ctx context.Context, recordID, note string) error {
	res, err := s.db.ExecContext(ctx, `UPDATE time_logs SET note = ? WHERE id = ?`,
		domain.TruncateNote(note), recordID)
	return checkAffected("set note", res, err)
}

func (s *SQLiteTimeLogStore) QueryRecords(ctx context.Context, userID string, from time.Time, to *time.Time) ([]*domain.SessionRecord, error) {
	query := `SELECT ` + timeLogColumns + ` FROM time_logs
		WHERE user_id = ? AND clock_in_utc >= ?`
	args := []any{userID, utcString(from)}
	if to != nil {
		query += ` AND clock_in_utc < ?`
		args = append(args, utcString(*to))
	}
	query += ` ORDER BY clock_in_utc, id`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, storeErr("query records", fmt.Errorf("listing time logs: %w", err))
	}
	defer rows.Close()

	var out []*domain.SessionRecord
	for rows.Next() {
		rec, err := scanTimeLog(rows)
		if err != nil {
			return nil, storeErr("query records", err)
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr("query records", err)
	}
	return out, nil
}

func (s *SQLiteTimeLogStore) FindLatestOpenRecord(ctx context.Context, userID string) (*domain.SessionRecord, error) {
	rec, err := scanTimeLog(s.db.QueryRowContext(ctx, `SELECT `+timeLogColumns+` FROM time_logs
		WHERE user_id = ? AND clock_out_local IS NULL
		ORDER BY clock_in_utc DESC LIMIT 1`, userID))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, err
		}
		return nil, storeErr("find open record", err)
	}
	return rec, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTimeLog(row rowScanner) (*domain.SessionRecord, error) {
	var (
		rec             domain.SessionRecord
		inWall, inUTC   string
		outWall, outUTC sql.NullString
		autoClosed      int
	)
	err := row.Scan(&rec.ID, &rec.UserID, &inWall, &inUTC, &outWall, &outUTC,
		&rec.Timezone, &rec.Note, &autoClosed)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("time log: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("scanning time log: %w", err)
	}

	if rec.ClockIn, err = restoreTime(inWall, rec.Timezone, inUTC); err != nil {
		return nil, fmt.Errorf("time log %s clock-in: %w", rec.ID, err)
	}
	if rec.ClockOut, err = restoreNullableTime(outWall, rec.Timezone, outUTC); err != nil {
		return nil, fmt.Errorf("time log %s clock-out: %w", rec.ID, err)
	}
	rec.AutoClosed = autoClosed != 0
	return &rec, nil
}

func checkAffected(op string, res sql.Result, err error) error {
	if err != nil {
		return storeErr(op, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return storeErr(op, err)
	}
	if n == 0 {
		return storeErr(op, fmt.Errorf("time log: %w", ErrNotFound))
	}
	return nil
}

var _ TimeLogStore = (*SQLiteTimeLogStore)(nil)
