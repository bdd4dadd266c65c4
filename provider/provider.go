/*
Package provider defines the read-only data boundary between the
scheduling pipeline and whatever external store holds operational data.

PURPOSE:
  The pipeline packages (availability, cooldown, publication, candidates,
  tiercap, capacity, assign) must never see a concrete *sql.DB. They
  receive a DataProvider instead, so the pipeline stays pure and testable
  (§9's "module-scope database handle" redesign flag). Two implementations
  exist: store/sqlite (production) and store/memory (tests/fixtures).

READ-ONLY CONTRACT:
  Every method here is read-only. The pipeline never writes back to these
  tables; the caller is responsible for persisting the returned
  []domain.Assignment wherever it likes.

SEE ALSO:
  - paging.go: the page-safe read helper all bulk reads should use
  - store/sqlite: production implementation
  - store/memory: in-memory implementation
*/
package provider

import (
	"context"

	"github.com/aininja-pro/media-scheduler/domain"
)

// DataProvider is the read boundary the pipeline depends on. Every method
// is scoped to the inputs a single run actually needs, so an implementation
// can push filtering down to its storage layer instead of reading whole
// tables into memory.
type DataProvider interface {
	// Vehicles returns every vehicle assigned to office.
	Vehicles(ctx context.Context, office string) ([]domain.Vehicle, error)

	// CurrentActivity returns activity rows for the given VINs whose
	// window could possibly intersect the target week.
	CurrentActivity(ctx context.Context, vins []domain.VIN, from, to domain.Date) ([]domain.CurrentActivity, error)

	// Partners returns every partner assigned to office.
	Partners(ctx context.Context, office string) ([]domain.Partner, error)

	// Eligibility returns every (person, make) eligibility row for the
	// given partners. A nil/empty result is valid — Candidate Join falls
	// back to a default rank per §4.4.
	Eligibility(ctx context.Context, personIDs []domain.PersonID) ([]domain.Eligibility, error)

	// Rules returns every tier-cap / cooldown rule. Rules are a small,
	// global table; implementations may ignore the filter hints.
	Rules(ctx context.Context) ([]domain.Rule, error)

	// LoanHistory returns history rows for the given partners whose
	// [StartDate, EndDate] could intersect [from, to].
	LoanHistory(ctx context.Context, personIDs []domain.PersonID, from, to domain.Date) ([]domain.LoanHistory, error)

	// OpsCapacity returns the office/day capacity rows for [from, to].
	OpsCapacity(ctx context.Context, office string, from, to domain.Date) ([]domain.OpsCapacity, error)
}
