package repository

import (
	"database/sql"
	"strings"
	"time"

	"github.com/alexanderramin/shiftlog/internal/domain"
)

// utcLayout keeps instants lexically sortable.
const utcLayout = "2006-01-02T15:04:05Z"

// wallIn formats t as a wall clock in the named zone.
func wallIn(t time.Time, zone string) (string, error) {
	loc, err := domain.LoadZone(zone)
	if err != nil {
		return "", err
	}
	return t.In(loc).Format(domain.LocalWallLayout), nil
}

func utcString(t time.Time) string {
	return t.UTC().Format(utcLayout)
}

// restoreTime rebuilds a zoned time from the persisted UTC instant. The wall
// string is only parsed when no instant was stored, since a wall clock inside
// a DST fall-back hour names two instants. An unknown zone keeps UTC.
func restoreTime(wall, zone, utc string) (time.Time, error) {
	if utc != "" {
		t, err := time.Parse(utcLayout, utc)
		if err != nil {
			return time.Time{}, &domain.ValidationError{Field: "timestamp", Reason: err.Error()}
		}
		loc, err := domain.LoadZone(zone)
		if err != nil {
			return t, nil
		}
		return t.In(loc), nil
	}
	return domain.ParseWall(wall, zone)
}

func restoreNullableTime(wall sql.NullString, zone string, utc sql.NullString) (*time.Time, error) {
	if !wall.Valid || wall.String == "" {
		return nil, nil
	}
	t, err := restoreTime(wall.String, zone, utc.String)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
