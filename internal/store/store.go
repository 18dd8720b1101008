// Package store provides database access methods for all portfolio
// entities. Each store struct wraps a *sql.DB and exposes typed,
// context-aware query methods. There is no caching layer: every call is a
// fresh round trip, and nothing is retried.
package store

import (
	"errors"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

// ErrNotFound is returned by Update when the addressed row does not exist.
var ErrNotFound = errors.New("not found")

// psql builds statements with PostgreSQL $n placeholders.
var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// pgTypes is used to scan PostgreSQL arrays through database/sql.
var pgTypes = pgtype.NewMap()

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

// Clock returns the writer's current time. Stores stamp created_at and
// updated_at from it rather than from the database clock.
type Clock func() time.Time

// systemClock truncates to microseconds, the precision of TIMESTAMPTZ.
func systemClock() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}

// touchUpdatedAt keeps updated_at strictly increasing even when two writes
// land within the same clock tick.
func touchUpdatedAt(now time.Time) sq.Sqlizer {
	return sq.Expr("GREATEST(?::timestamptz, updated_at + INTERVAL '1 microsecond')", now)
}

// parseUUIDs converts scanned uuid[] text values back into ids.
func parseUUIDs(raw []string) ([]uuid.UUID, error) {
	out := make([]uuid.UUID, 0, len(raw))
	for _, s := range raw {
		id, err := uuid.Parse(s)
		if err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, nil
}
