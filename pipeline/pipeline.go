/*
Package pipeline composes the leaf components (availability, cooldown,
publication, candidates, scoring, tiercap, capacity, assign) into the
single entry point described in the spec's §2 system overview.

CONCURRENCY:
  The four ingest reads run as parallel I/O-bound subtasks via
  golang.org/x/sync/errgroup, matching §5: "parallel I/O-bound subtasks
  that must all complete before Candidate Join begins." Scoring and
  Greedy stay single-goroutine and synchronous.

SEE ALSO:
  - spec.md §2, §5, §6, §7
  - generic/ledger.go's DefaultLedger (teacher): the composition style
    this package's Run function is grounded on.
*/
package pipeline

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/aininja-pro/media-scheduler/assign"
	"github.com/aininja-pro/media-scheduler/availability"
	"github.com/aininja-pro/media-scheduler/candidates"
	"github.com/aininja-pro/media-scheduler/capacity"
	"github.com/aininja-pro/media-scheduler/cooldown"
	"github.com/aininja-pro/media-scheduler/domain"
	"github.com/aininja-pro/media-scheduler/provider"
	"github.com/aininja-pro/media-scheduler/publication"
	"github.com/aininja-pro/media-scheduler/scoring"
	"github.com/aininja-pro/media-scheduler/tiercap"
)

// Result is the outcome of one Run: the final assignment list plus
// ambient run metadata, per SPEC_FULL.md §6.
type Result struct {
	RunID       string
	Office      string
	WeekStart   domain.Date
	Assignments []domain.Assignment
	Stats       Stats
}

// Stats carries observational counts; it never influences admission.
type Stats struct {
	CandidatesConsidered int
	CandidatesAdmitted   int
	SkippedBy            map[assign.SkipReason]int
}

type ingestResult struct {
	vehicles    []domain.Vehicle
	activity    []domain.CurrentActivity
	partners    []domain.Partner
	eligibility []domain.Eligibility
	rules       []domain.Rule
	history     []domain.LoanHistory
	opsCapacity []domain.OpsCapacity
}

// Run executes one full pipeline pass for cfg.Office / cfg.WeekStart
// against dp. No exceptions escape the greedy stage (§7); the only errors
// this function returns are data-shape errors from ingest, and ctx.Err()
// when ctx is cancelled between stages.
func Run(ctx context.Context, dp provider.DataProvider, cfg Config) (Result, error) {
	days := domain.WeekDays(cfg.WeekStart)
	weekEnd := days[6]

	// LoanHistory must cover the widest consumer: the tier-cap lookback
	// is 365 days, publication's is effectivePublicationWindowMonths
	// (24 by default, ~730 days); fetch from the earlier of the two so
	// every downstream consumer sees its full window in one read.
	tierCapWindowStart := cfg.WeekStart.AddDays(-365)
	publicationWindowStart := cfg.WeekStart.AddMonths(-cfg.effectivePublicationWindowMonths())
	historyWindowStart := tierCapWindowStart
	if publicationWindowStart.Before(historyWindowStart) {
		historyWindowStart = publicationWindowStart
	}

	ingest, err := fanOutIngest(ctx, dp, cfg, days, weekEnd, historyWindowStart)
	if err != nil {
		return Result{}, err
	}
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	grid := availability.Build(ingest.vehicles, ingest.activity, cfg.WeekStart, cfg.Office)

	var cd cooldown.Result
	if cfg.EnableCooldown {
		cd = cooldown.Compute(ingest.history, ingest.rules, ingest.eligibility, cfg.DefaultCooldownDays)
	} else {
		cd = cooldown.Compute(nil, nil, nil, cfg.DefaultCooldownDays)
	}

	pubStats := publication.Compute24mRate(ingest.history, cfg.WeekStart, cfg.effectivePublicationWindowMonths(), cfg.effectivePublicationMinObserved())
	pubLookup := func(p domain.PersonID, make_ string) publication.Stat {
		return publication.Lookup(pubStats, p, make_)
	}

	cands := candidates.Build(candidates.BuildInput{
		Vehicles:               ingest.vehicles,
		Grid:                   grid,
		Partners:               ingest.partners,
		Eligibility:            ingest.eligibility,
		Cooldown:               cd,
		PublicationLookup:      pubLookup,
		WeekStart:              cfg.WeekStart,
		MinAvailableDays:       cfg.MinAvailableDays,
		DefaultRankForUnlisted: cfg.DefaultRankForUnlisted,
	})

	officeByPartner := make(map[domain.PersonID]string, len(ingest.partners))
	for _, p := range ingest.partners {
		officeByPartner[p.PersonID] = p.Office
	}
	scoring.ScoreAll(cands, officeByPartner)

	capRemaining := make(map[string]int)
	if cfg.EnableTierCaps {
		used := tiercap.Usage(ingest.history, cfg.WeekStart, cfg.CountInProgressLoansForCap)
		seen := make(map[string]bool)
		for _, c := range cands {
			k := string(c.PersonID) + "|" + c.Make
			if seen[k] {
				continue
			}
			seen[k] = true
			cap_ := tiercap.ResolveCap(ingest.rules, c.Make, c.Rank, cfg.TierCapFallback)
			capRemaining[k] = tiercap.Remaining(cap_, used[k])
		}
	} else {
		for _, c := range cands {
			capRemaining[string(c.PersonID)+"|"+c.Make] = 1 << 30
		}
	}

	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	ledger := capacity.New(ingest.opsCapacity, days)

	assignResult := assign.Run(cands, grid, ledger, capRemaining, assign.Options{
		MaxPerPartnerPerWeek: cfg.MaxPerPartnerPerWeek,
		LoanLengthDays:       cfg.LoanLengthDays,
		EnableTierCaps:       cfg.EnableTierCaps,
		EnableCapacity:       cfg.EnableCapacity,
	})

	return Result{
		RunID:       uuid.NewString(),
		Office:      cfg.Office,
		WeekStart:   cfg.WeekStart,
		Assignments: assignResult.Assignments,
		Stats: Stats{
			CandidatesConsidered: len(cands),
			CandidatesAdmitted:   len(assignResult.Assignments),
			SkippedBy:            assignResult.SkippedBy,
		},
	}, nil
}

func fanOutIngest(ctx context.Context, dp provider.DataProvider, cfg Config, days [7]domain.Date, weekEnd, historyFrom domain.Date) (ingestResult, error) {
	g, ctx := errgroup.WithContext(ctx)
	var res ingestResult

	g.Go(func() error {
		vs, err := dp.Vehicles(ctx, cfg.Office)
		if err != nil {
			return fmt.Errorf("vehicles: %w: %v", ErrDataShape, err)
		}
		res.vehicles = vs

		vins := make([]domain.VIN, len(vs))
		for i, v := range vs {
			vins[i] = v.VIN
		}
		acts, err := dp.CurrentActivity(ctx, vins, cfg.WeekStart, weekEnd)
		if err != nil {
			return fmt.Errorf("current_activity: %w: %v", ErrDataShape, err)
		}
		res.activity = acts
		return nil
	})

	g.Go(func() error {
		ps, err := dp.Partners(ctx, cfg.Office)
		if err != nil {
			return fmt.Errorf("media_partners: %w: %v", ErrDataShape, err)
		}
		res.partners = ps

		ids := make([]domain.PersonID, len(ps))
		for i, p := range ps {
			ids[i] = p.PersonID
		}
		elig, err := dp.Eligibility(ctx, ids)
		if err != nil {
			return fmt.Errorf("approved_makes: %w: %v", ErrDataShape, err)
		}
		res.eligibility = elig

		hist, err := dp.LoanHistory(ctx, ids, historyFrom, weekEnd)
		if err != nil {
			return fmt.Errorf("loan_history: %w: %v", ErrDataShape, err)
		}
		res.history = hist
		return nil
	})

	g.Go(func() error {
		rules, err := dp.Rules(ctx)
		if err != nil {
			return fmt.Errorf("rules: %w: %v", ErrDataShape, err)
		}
		res.rules = rules
		return nil
	})

	g.Go(func() error {
		caps, err := dp.OpsCapacity(ctx, cfg.Office, days[0], days[6])
		if err != nil {
			return fmt.Errorf("ops_capacity: %w: %v", ErrDataShape, err)
		}
		res.opsCapacity = caps
		return nil
	})

	if err := g.Wait(); err != nil {
		return ingestResult{}, err
	}
	return res, nil
}

func (c Config) effectivePublicationWindowMonths() int {
	if c.PublicationWindowMonths > 0 {
		return c.PublicationWindowMonths
	}
	return publication.DefaultWindowMonths
}

func (c Config) effectivePublicationMinObserved() int {
	if c.PublicationMinObserved > 0 {
		return c.PublicationMinObserved
	}
	return publication.DefaultMinObserved
}
