/*
Package memory provides an in-memory provider.DataProvider, for tests and
demo fixtures. It holds a flat snapshot of every input table behind a
mutex and filters on every read the way a real store would filter in its
WHERE clause.

SEE ALSO:
  - generic/store/memory.go (teacher): the mutex-guarded in-memory Store
    this package's shape is grounded on.
  - provider/provider.go: the interface this type implements.
*/
package memory

import (
	"context"
	"sync"

	"github.com/aininja-pro/media-scheduler/domain"
)

// Store is a mutex-guarded in-memory snapshot of every input table.
// Fixtures are loaded with the Seed* setters before a run starts; reads
// are safe to call concurrently with each other but not with a Seed* call.
type Store struct {
	mu sync.RWMutex

	vehicles        []domain.Vehicle
	partners        []domain.Partner
	eligibility     []domain.Eligibility
	rules           []domain.Rule
	loanHistory     []domain.LoanHistory
	currentActivity []domain.CurrentActivity
	opsCapacity     []domain.OpsCapacity
}

// New returns an empty Store ready to be populated by its Seed* setters.
func New() *Store { return &Store{} }

func (s *Store) SeedVehicles(rows []domain.Vehicle) *Store {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.vehicles = rows
	return s
}

func (s *Store) SeedPartners(rows []domain.Partner) *Store {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.partners = rows
	return s
}

func (s *Store) SeedEligibility(rows []domain.Eligibility) *Store {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.eligibility = rows
	return s
}

func (s *Store) SeedRules(rows []domain.Rule) *Store {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rules = rows
	return s
}

func (s *Store) SeedLoanHistory(rows []domain.LoanHistory) *Store {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loanHistory = rows
	return s
}

func (s *Store) SeedCurrentActivity(rows []domain.CurrentActivity) *Store {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.currentActivity = rows
	return s
}

func (s *Store) SeedOpsCapacity(rows []domain.OpsCapacity) *Store {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.opsCapacity = rows
	return s
}

// The methods below implement provider.DataProvider.

func (s *Store) Vehicles(ctx context.Context, office string) ([]domain.Vehicle, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []domain.Vehicle
	for _, v := range s.vehicles {
		if v.Office == office {
			out = append(out, v)
		}
	}
	return out, nil
}

func (s *Store) CurrentActivity(ctx context.Context, vins []domain.VIN, from, to domain.Date) ([]domain.CurrentActivity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	want := make(map[domain.VIN]bool, len(vins))
	for _, v := range vins {
		want[v] = true
	}
	var out []domain.CurrentActivity
	for _, a := range s.currentActivity {
		if !want[a.VIN] {
			continue
		}
		if a.EndDate.Before(from) || a.StartDate.After(to) {
			continue
		}
		out = append(out, a)
	}
	return out, nil
}

func (s *Store) Partners(ctx context.Context, office string) ([]domain.Partner, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []domain.Partner
	for _, p := range s.partners {
		if p.Office == office {
			out = append(out, p)
		}
	}
	return out, nil
}

func (s *Store) Eligibility(ctx context.Context, personIDs []domain.PersonID) ([]domain.Eligibility, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	want := make(map[domain.PersonID]bool, len(personIDs))
	for _, id := range personIDs {
		want[id] = true
	}
	var out []domain.Eligibility
	for _, e := range s.eligibility {
		if want[e.PersonID] {
			out = append(out, e)
		}
	}
	return out, nil
}

func (s *Store) Rules(ctx context.Context) ([]domain.Rule, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Rule, len(s.rules))
	copy(out, s.rules)
	return out, nil
}

func (s *Store) LoanHistory(ctx context.Context, personIDs []domain.PersonID, from, to domain.Date) ([]domain.LoanHistory, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	want := make(map[domain.PersonID]bool, len(personIDs))
	for _, id := range personIDs {
		want[id] = true
	}
	var out []domain.LoanHistory
	for _, h := range s.loanHistory {
		if !want[h.PersonID] {
			continue
		}
		if h.EndDate.Before(from) || h.StartDate.After(to) {
			continue
		}
		out = append(out, h)
	}
	return out, nil
}

func (s *Store) OpsCapacity(ctx context.Context, office string, from, to domain.Date) ([]domain.OpsCapacity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []domain.OpsCapacity
	for _, c := range s.opsCapacity {
		if c.Office != office {
			continue
		}
		if c.Date.Before(from) || c.Date.After(to) {
			continue
		}
		out = append(out, c)
	}
	return out, nil
}
