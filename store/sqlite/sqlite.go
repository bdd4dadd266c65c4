/*
Package sqlite provides a SQLite-backed implementation of provider.DataProvider.

PURPOSE:
  Implements the read-only data boundary the scheduling pipeline depends
  on (provider.DataProvider) against a local SQLite file, so cmd/scheduler
  and the thin HTTP trigger can run against real operational data without
  either one knowing a single SQL statement.

KEY TABLES:
  vehicles:         Fleet vehicles, one row per VIN
  media_partners:   Media outlet contacts
  approved_makes:   Partner-to-make eligibility + rank
  rules:            Per (make, rank) annual cap / cooldown override
  loan_history:     Append-only audit trail of completed/in-progress loans
  current_activity: Open blocking windows per VIN (loan, service, hold)
  ops_capacity:     Per office/day admission slots

PAGINATION SAFETY:
  Every bulk read goes through provider.FetchAllPages with LIMIT/OFFSET,
  per the original system's pagination.py lesson: a query that silently
  caps itself at one page and returns exactly that many rows looks
  identical to a complete small table unless every read loops to a short
  page. See provider/paging.go.

WAL MODE:
  Opened the same way the teacher's store does: WAL journal mode so the
  scheduler's reads don't block a concurrent ingest write.

SEE ALSO:
  - provider/provider.go: the interface this type implements
  - provider/paging.go: FetchAllPages
  - store/memory: in-memory implementation for tests
*/
package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"github.com/aininja-pro/media-scheduler/domain"
	"github.com/aininja-pro/media-scheduler/provider"
)

// Store implements provider.DataProvider against a SQLite database.
type Store struct {
	db *sql.DB
}

// New opens (creating and migrating if necessary) the database at dbPath.
// Use ":memory:" for an ephemeral database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return store, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error { return s.db.Close() }

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS vehicles (
		vin TEXT PRIMARY KEY,
		make TEXT NOT NULL,
		model TEXT NOT NULL,
		office TEXT NOT NULL,
		in_service_date TEXT,
		expected_turn_in_date TEXT
	);
	CREATE INDEX IF NOT EXISTS idx_vehicles_office ON vehicles(office);

	CREATE TABLE IF NOT EXISTS media_partners (
		person_id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		office TEXT NOT NULL,
		latitude REAL,
		longitude REAL
	);
	CREATE INDEX IF NOT EXISTS idx_partners_office ON media_partners(office);

	CREATE TABLE IF NOT EXISTS approved_makes (
		person_id TEXT NOT NULL,
		make TEXT NOT NULL,
		rank TEXT NOT NULL,
		PRIMARY KEY (person_id, make)
	);

	CREATE TABLE IF NOT EXISTS rules (
		make TEXT NOT NULL,
		rank TEXT NOT NULL,
		loan_cap_per_year INTEGER NOT NULL,
		cooldown_period_days INTEGER,
		PRIMARY KEY (make, rank)
	);

	CREATE TABLE IF NOT EXISTS loan_history (
		activity_id TEXT PRIMARY KEY,
		person_id TEXT NOT NULL,
		make TEXT NOT NULL,
		model TEXT,
		start_date TEXT NOT NULL,
		end_date TEXT NOT NULL,
		clips_received TEXT
	);
	CREATE INDEX IF NOT EXISTS idx_loan_history_person ON loan_history(person_id, end_date);

	CREATE TABLE IF NOT EXISTS current_activity (
		activity_id TEXT PRIMARY KEY,
		vin TEXT NOT NULL,
		start_date TEXT NOT NULL,
		end_date TEXT NOT NULL,
		activity_type TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_current_activity_vin ON current_activity(vin, end_date);

	CREATE TABLE IF NOT EXISTS ops_capacity (
		office TEXT NOT NULL,
		date TEXT NOT NULL,
		slots INTEGER NOT NULL,
		PRIMARY KEY (office, date)
	);
	`
	_, err := s.db.Exec(schema)
	return err
}

func (s *Store) Vehicles(ctx context.Context, office string) ([]domain.Vehicle, error) {
	fetch := func(offset, limit int) ([]domain.Vehicle, error) {
		rows, err := s.db.QueryContext(ctx, `
			SELECT vin, make, model, office, in_service_date, expected_turn_in_date
			FROM vehicles WHERE office = ?
			ORDER BY vin LIMIT ? OFFSET ?`, office, limit, offset)
		if err != nil {
			return nil, err
		}
		defer rows.Close()

		var out []domain.Vehicle
		for rows.Next() {
			var v domain.Vehicle
			var inService, turnIn sql.NullString
			if err := rows.Scan(&v.VIN, &v.Make, &v.Model, &v.Office, &inService, &turnIn); err != nil {
				return nil, err
			}
			v.InServiceDate = nullDate(inService)
			v.ExpectedTurnInDate = nullDate(turnIn)
			out = append(out, v)
		}
		return out, rows.Err()
	}
	return provider.FetchAllPages(fetch, provider.DefaultPageSize)
}

func (s *Store) CurrentActivity(ctx context.Context, vins []domain.VIN, from, to domain.Date) ([]domain.CurrentActivity, error) {
	if len(vins) == 0 {
		return nil, nil
	}
	placeholders, args := inClause(vins)
	args = append(args, to.String(), from.String())

	fetch := func(offset, limit int) ([]domain.CurrentActivity, error) {
		query := fmt.Sprintf(`
			SELECT activity_id, vin, start_date, end_date, activity_type
			FROM current_activity
			WHERE vin IN (%s) AND start_date <= ? AND end_date >= ?
			ORDER BY activity_id LIMIT ? OFFSET ?`, placeholders)
		pageArgs := append(append([]any{}, args...), limit, offset)

		rows, err := s.db.QueryContext(ctx, query, pageArgs...)
		if err != nil {
			return nil, err
		}
		defer rows.Close()

		var out []domain.CurrentActivity
		for rows.Next() {
			var a domain.CurrentActivity
			var start, end string
			if err := rows.Scan(&a.ActivityID, &a.VIN, &start, &end, &a.ActivityType); err != nil {
				return nil, err
			}
			a.StartDate, _ = domain.ParseDate(start)
			a.EndDate, _ = domain.ParseDate(end)
			out = append(out, a)
		}
		return out, rows.Err()
	}
	return provider.FetchAllPages(fetch, provider.DefaultPageSize)
}

func (s *Store) Partners(ctx context.Context, office string) ([]domain.Partner, error) {
	fetch := func(offset, limit int) ([]domain.Partner, error) {
		rows, err := s.db.QueryContext(ctx, `
			SELECT person_id, name, office, latitude, longitude
			FROM media_partners WHERE office = ?
			ORDER BY person_id LIMIT ? OFFSET ?`, office, limit, offset)
		if err != nil {
			return nil, err
		}
		defer rows.Close()

		var out []domain.Partner
		for rows.Next() {
			var p domain.Partner
			var lat, lon sql.NullFloat64
			if err := rows.Scan(&p.PersonID, &p.Name, &p.Office, &lat, &lon); err != nil {
				return nil, err
			}
			if lat.Valid {
				p.Latitude = &lat.Float64
			}
			if lon.Valid {
				p.Longitude = &lon.Float64
			}
			out = append(out, p)
		}
		return out, rows.Err()
	}
	return provider.FetchAllPages(fetch, provider.DefaultPageSize)
}

func (s *Store) Eligibility(ctx context.Context, personIDs []domain.PersonID) ([]domain.Eligibility, error) {
	if len(personIDs) == 0 {
		return nil, nil
	}
	placeholders, args := inClause(personIDs)

	fetch := func(offset, limit int) ([]domain.Eligibility, error) {
		query := fmt.Sprintf(`
			SELECT person_id, make, rank FROM approved_makes
			WHERE person_id IN (%s)
			ORDER BY person_id, make LIMIT ? OFFSET ?`, placeholders)
		pageArgs := append(append([]any{}, args...), limit, offset)

		rows, err := s.db.QueryContext(ctx, query, pageArgs...)
		if err != nil {
			return nil, err
		}
		defer rows.Close()

		var out []domain.Eligibility
		for rows.Next() {
			var e domain.Eligibility
			var rawRank string
			if err := rows.Scan(&e.PersonID, &e.Make, &rawRank); err != nil {
				return nil, err
			}
			e.Rank = domain.NormalizeRank(rawRank)
			out = append(out, e)
		}
		return out, rows.Err()
	}
	return provider.FetchAllPages(fetch, provider.DefaultPageSize)
}

func (s *Store) Rules(ctx context.Context) ([]domain.Rule, error) {
	fetch := func(offset, limit int) ([]domain.Rule, error) {
		rows, err := s.db.QueryContext(ctx, `
			SELECT make, rank, loan_cap_per_year, cooldown_period_days
			FROM rules ORDER BY make, rank LIMIT ? OFFSET ?`, limit, offset)
		if err != nil {
			return nil, err
		}
		defer rows.Close()

		var out []domain.Rule
		for rows.Next() {
			var r domain.Rule
			var rawRank string
			var cooldown sql.NullInt64
			if err := rows.Scan(&r.Make, &rawRank, &r.LoanCapPerYear, &cooldown); err != nil {
				return nil, err
			}
			r.Rank = domain.NormalizeRank(rawRank)
			if cooldown.Valid {
				v := int(cooldown.Int64)
				r.CooldownPeriodDays = &v
			}
			out = append(out, r)
		}
		return out, rows.Err()
	}
	return provider.FetchAllPages(fetch, provider.DefaultPageSize)
}

func (s *Store) LoanHistory(ctx context.Context, personIDs []domain.PersonID, from, to domain.Date) ([]domain.LoanHistory, error) {
	if len(personIDs) == 0 {
		return nil, nil
	}
	placeholders, args := inClause(personIDs)
	args = append(args, to.String(), from.String())

	fetch := func(offset, limit int) ([]domain.LoanHistory, error) {
		query := fmt.Sprintf(`
			SELECT activity_id, person_id, make, model, start_date, end_date, clips_received
			FROM loan_history
			WHERE person_id IN (%s) AND start_date <= ? AND end_date >= ?
			ORDER BY activity_id LIMIT ? OFFSET ?`, placeholders)
		pageArgs := append(append([]any{}, args...), limit, offset)

		rows, err := s.db.QueryContext(ctx, query, pageArgs...)
		if err != nil {
			return nil, err
		}
		defer rows.Close()

		var out []domain.LoanHistory
		for rows.Next() {
			var h domain.LoanHistory
			var model, clips sql.NullString
			var start, end string
			if err := rows.Scan(&h.ActivityID, &h.PersonID, &h.Make, &model, &start, &end, &clips); err != nil {
				return nil, err
			}
			h.StartDate, _ = domain.ParseDate(start)
			h.EndDate, _ = domain.ParseDate(end)
			if model.Valid {
				h.Model = &model.String
			}
			if clips.Valid {
				h.ClipsReceived = &clips.String
			}
			out = append(out, h)
		}
		return out, rows.Err()
	}
	return provider.FetchAllPages(fetch, provider.DefaultPageSize)
}

func (s *Store) OpsCapacity(ctx context.Context, office string, from, to domain.Date) ([]domain.OpsCapacity, error) {
	fetch := func(offset, limit int) ([]domain.OpsCapacity, error) {
		rows, err := s.db.QueryContext(ctx, `
			SELECT office, date, slots FROM ops_capacity
			WHERE office = ? AND date >= ? AND date <= ?
			ORDER BY date LIMIT ? OFFSET ?`, office, from.String(), to.String(), limit, offset)
		if err != nil {
			return nil, err
		}
		defer rows.Close()

		var out []domain.OpsCapacity
		for rows.Next() {
			var c domain.OpsCapacity
			var date string
			if err := rows.Scan(&c.Office, &date, &c.Slots); err != nil {
				return nil, err
			}
			c.Date, _ = domain.ParseDate(date)
			out = append(out, c)
		}
		return out, rows.Err()
	}
	return provider.FetchAllPages(fetch, provider.DefaultPageSize)
}

func nullDate(s sql.NullString) *domain.Date {
	if !s.Valid {
		return nil
	}
	d, ok := domain.ParseDate(s.String)
	if !ok {
		return nil
	}
	return &d
}

// inClause builds a "?,?,?" placeholder string and its matching args slice
// for a dynamic IN (...) predicate.
func inClause[T ~string](values []T) (string, []any) {
	placeholders := make([]byte, 0, len(values)*2)
	args := make([]any, len(values))
	for i, v := range values {
		if i > 0 {
			placeholders = append(placeholders, ',')
		}
		placeholders = append(placeholders, '?')
		args[i] = string(v)
	}
	return string(placeholders), args
}
