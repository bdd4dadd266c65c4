package pipeline_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aininja-pro/media-scheduler/assign"
	"github.com/aininja-pro/media-scheduler/domain"
	"github.com/aininja-pro/media-scheduler/pipeline"
	"github.com/aininja-pro/media-scheduler/provider"
	"github.com/aininja-pro/media-scheduler/store/memory"
)

func date(y int, m time.Month, d int) domain.Date { return domain.NewDate(y, m, d) }

func strp(s string) *string { return &s }

func TestRun_EndToEnd_AdmitsEligibleCandidate(t *testing.T) {
	weekStart := date(2026, time.January, 5)
	store := memory.New().
		SeedVehicles([]domain.Vehicle{{VIN: "VIN1", Make: "Toyota", Model: "Camry", Office: "STL"}}).
		SeedPartners([]domain.Partner{{PersonID: "p1", Office: "STL"}}).
		SeedEligibility([]domain.Eligibility{{PersonID: "p1", Make: "Toyota", Rank: domain.RankA}}).
		SeedRules(nil).
		SeedLoanHistory(nil).
		SeedCurrentActivity(nil).
		SeedOpsCapacity([]domain.OpsCapacity{{Office: "STL", Date: weekStart, Slots: 5}})

	cfg := pipeline.DefaultConfig("STL", weekStart)
	result, err := pipeline.Run(context.Background(), store, cfg)

	require.NoError(t, err)
	require.Len(t, result.Assignments, 1)
	assert.Equal(t, domain.VIN("VIN1"), result.Assignments[0].VIN)
	assert.Equal(t, domain.PersonID("p1"), result.Assignments[0].PersonID)
	assert.Equal(t, weekStart, result.Assignments[0].StartDay)
	assert.Equal(t, 1, result.Stats.CandidatesConsidered)
	assert.Equal(t, 1, result.Stats.CandidatesAdmitted)
	assert.NotEmpty(t, result.RunID)
	assert.Equal(t, "STL", result.Office)
}

func TestRun_RespectsCapacityAcrossVehicles(t *testing.T) {
	weekStart := date(2026, time.January, 5)
	store := memory.New().
		SeedVehicles([]domain.Vehicle{
			{VIN: "VIN1", Make: "Toyota", Office: "STL"},
			{VIN: "VIN2", Make: "Toyota", Office: "STL"},
		}).
		SeedPartners([]domain.Partner{
			{PersonID: "p1", Office: "STL"},
			{PersonID: "p2", Office: "STL"},
		}).
		SeedEligibility([]domain.Eligibility{
			{PersonID: "p1", Make: "Toyota", Rank: domain.RankAPlus},
			{PersonID: "p2", Make: "Toyota", Rank: domain.RankAPlus},
		}).
		SeedRules(nil).
		SeedLoanHistory(nil).
		SeedCurrentActivity(nil).
		SeedOpsCapacity([]domain.OpsCapacity{{Office: "STL", Date: weekStart, Slots: 1}})

	cfg := pipeline.DefaultConfig("STL", weekStart)
	result, err := pipeline.Run(context.Background(), store, cfg)

	require.NoError(t, err)
	assert.Len(t, result.Assignments, 1, "only one loan-start slot exists on the week's first day")
	assert.Equal(t, 1, result.Stats.SkippedBy[assign.SkipNoFeasibleStartDay])
}

func TestRun_TierCapExhaustionBlocksAssignment(t *testing.T) {
	weekStart := date(2026, time.January, 5)
	cd := 0
	store := memory.New().
		SeedVehicles([]domain.Vehicle{{VIN: "VIN1", Make: "Toyota", Office: "STL"}}).
		SeedPartners([]domain.Partner{{PersonID: "p1", Office: "STL"}}).
		SeedEligibility([]domain.Eligibility{{PersonID: "p1", Make: "Toyota", Rank: domain.RankA}}).
		SeedRules([]domain.Rule{{Make: "Toyota", Rank: domain.RankA, LoanCapPerYear: 1, CooldownPeriodDays: &cd}}).
		SeedLoanHistory([]domain.LoanHistory{
			{ActivityID: "a1", PersonID: "p1", Make: "Toyota", StartDate: date(2025, time.June, 1), EndDate: date(2025, time.June, 8)},
		}).
		SeedCurrentActivity(nil).
		SeedOpsCapacity([]domain.OpsCapacity{{Office: "STL", Date: weekStart, Slots: 5}})

	cfg := pipeline.DefaultConfig("STL", weekStart)
	result, err := pipeline.Run(context.Background(), store, cfg)

	require.NoError(t, err)
	assert.Empty(t, result.Assignments, "the partner already used their one Toyota loan this year")
	assert.Equal(t, 1, result.Stats.SkippedBy[assign.SkipTierCap])
}

func TestRun_ZeroCandidatesIsNotAnError(t *testing.T) {
	weekStart := date(2026, time.January, 5)
	store := memory.New()

	cfg := pipeline.DefaultConfig("STL", weekStart)
	result, err := pipeline.Run(context.Background(), store, cfg)

	require.NoError(t, err)
	assert.Empty(t, result.Assignments)
	assert.Equal(t, 0, result.Stats.CandidatesConsidered)
}

func TestRun_CooldownBlocksRecentLoan(t *testing.T) {
	weekStart := date(2026, time.January, 5)
	store := memory.New().
		SeedVehicles([]domain.Vehicle{{VIN: "VIN1", Make: "Toyota", Model: "Camry", Office: "STL"}}).
		SeedPartners([]domain.Partner{{PersonID: "p1", Office: "STL"}}).
		SeedEligibility([]domain.Eligibility{{PersonID: "p1", Make: "Toyota", Rank: domain.RankA}}).
		SeedRules(nil).
		SeedLoanHistory([]domain.LoanHistory{
			{ActivityID: "a1", PersonID: "p1", Make: "Toyota", Model: strp("Camry"),
				StartDate: date(2025, time.December, 20), EndDate: date(2025, time.December, 25)},
		}).
		SeedCurrentActivity(nil).
		SeedOpsCapacity([]domain.OpsCapacity{{Office: "STL", Date: weekStart, Slots: 5}})

	cfg := pipeline.DefaultConfig("STL", weekStart)
	result, err := pipeline.Run(context.Background(), store, cfg)

	require.NoError(t, err)
	assert.Empty(t, result.Assignments, "the 60-day default cooldown on this Camry loan hasn't elapsed by Jan 5")
}

// failingProvider returns an error from Vehicles to exercise the
// fan-out errgroup's abort-with-no-partial-output path.
type failingProvider struct{ provider.DataProvider }

func (failingProvider) Vehicles(ctx context.Context, office string) ([]domain.Vehicle, error) {
	return nil, errors.New("upstream exploded")
}

func TestRun_AbortsWithNoPartialOutputOnIngestError(t *testing.T) {
	weekStart := date(2026, time.January, 5)
	store := memory.New().
		SeedPartners([]domain.Partner{{PersonID: "p1", Office: "STL"}}).
		SeedEligibility([]domain.Eligibility{{PersonID: "p1", Make: "Toyota", Rank: domain.RankA}})

	cfg := pipeline.DefaultConfig("STL", weekStart)
	result, err := pipeline.Run(context.Background(), failingProvider{store}, cfg)

	require.Error(t, err)
	assert.ErrorIs(t, err, pipeline.ErrDataShape)
	assert.Empty(t, result.Assignments)
	assert.Empty(t, result.RunID, "a failed run must never produce a partially populated Result")
}

// TestRun_RerunOnOwnOutputAddsNothing exercises spec.md §8's idempotency
// law: feeding a run's own assignments back in as CurrentActivity (the
// way a real committed loan would show up on the next run) must leave
// the vehicle with too few available days to produce a new assignment.
func TestRun_RerunOnOwnOutputAddsNothing(t *testing.T) {
	weekStart := date(2026, time.January, 5)
	store := memory.New().
		SeedVehicles([]domain.Vehicle{{VIN: "VIN1", Make: "Toyota", Model: "Camry", Office: "STL"}}).
		SeedPartners([]domain.Partner{{PersonID: "p1", Office: "STL"}}).
		SeedEligibility([]domain.Eligibility{{PersonID: "p1", Make: "Toyota", Rank: domain.RankA}}).
		SeedRules(nil).
		SeedLoanHistory(nil).
		SeedCurrentActivity(nil).
		SeedOpsCapacity([]domain.OpsCapacity{{Office: "STL", Date: weekStart, Slots: 5}})

	cfg := pipeline.DefaultConfig("STL", weekStart)
	first, err := pipeline.Run(context.Background(), store, cfg)
	require.NoError(t, err)
	require.Len(t, first.Assignments, 1, "precondition: the first run must actually admit something")

	activity := make([]domain.CurrentActivity, 0, len(first.Assignments))
	for i, a := range first.Assignments {
		activity = append(activity, domain.CurrentActivity{
			ActivityID:   fmt.Sprintf("loan-%d", i),
			VIN:          a.VIN,
			StartDate:    a.StartDay,
			EndDate:      a.EndDay,
			ActivityType: "Loan",
		})
	}
	store.SeedCurrentActivity(activity)

	second, err := pipeline.Run(context.Background(), store, cfg)
	require.NoError(t, err)
	assert.Empty(t, second.Assignments, "re-running on the prior run's own output must add no new assignments")
}

// TestRun_DisablingAConstraintWeaklyIncreasesAssignments covers the other
// half of spec.md §8's laws: turning off cooldown, tier caps, or capacity
// must never cause fewer assignments than the all-enabled baseline, and
// in a scenario where that constraint is the binding one, it must admit
// strictly more.
func TestRun_DisablingAConstraintWeaklyIncreasesAssignments(t *testing.T) {
	weekStart := date(2026, time.January, 5)

	cooldownBoundStore := func() *memory.Store {
		return memory.New().
			SeedVehicles([]domain.Vehicle{{VIN: "VIN1", Make: "Toyota", Model: "Camry", Office: "STL"}}).
			SeedPartners([]domain.Partner{{PersonID: "p1", Office: "STL"}}).
			SeedEligibility([]domain.Eligibility{{PersonID: "p1", Make: "Toyota", Rank: domain.RankA}}).
			SeedRules(nil).
			SeedLoanHistory([]domain.LoanHistory{
				{ActivityID: "a1", PersonID: "p1", Make: "Toyota", Model: strp("Camry"),
					StartDate: date(2025, time.December, 20), EndDate: date(2025, time.December, 25)},
			}).
			SeedCurrentActivity(nil).
			SeedOpsCapacity([]domain.OpsCapacity{{Office: "STL", Date: weekStart, Slots: 5}})
	}

	tierCapBoundStore := func() *memory.Store {
		cd := 0
		return memory.New().
			SeedVehicles([]domain.Vehicle{{VIN: "VIN1", Make: "Toyota", Office: "STL"}}).
			SeedPartners([]domain.Partner{{PersonID: "p1", Office: "STL"}}).
			SeedEligibility([]domain.Eligibility{{PersonID: "p1", Make: "Toyota", Rank: domain.RankA}}).
			SeedRules([]domain.Rule{{Make: "Toyota", Rank: domain.RankA, LoanCapPerYear: 1, CooldownPeriodDays: &cd}}).
			SeedLoanHistory([]domain.LoanHistory{
				{ActivityID: "a1", PersonID: "p1", Make: "Toyota", StartDate: date(2025, time.June, 1), EndDate: date(2025, time.June, 8)},
			}).
			SeedCurrentActivity(nil).
			SeedOpsCapacity([]domain.OpsCapacity{{Office: "STL", Date: weekStart, Slots: 5}})
	}

	capacityBoundStore := func() *memory.Store {
		return memory.New().
			SeedVehicles([]domain.Vehicle{
				{VIN: "VIN1", Make: "Toyota", Office: "STL"},
				{VIN: "VIN2", Make: "Toyota", Office: "STL"},
			}).
			SeedPartners([]domain.Partner{
				{PersonID: "p1", Office: "STL"},
				{PersonID: "p2", Office: "STL"},
			}).
			SeedEligibility([]domain.Eligibility{
				{PersonID: "p1", Make: "Toyota", Rank: domain.RankAPlus},
				{PersonID: "p2", Make: "Toyota", Rank: domain.RankAPlus},
			}).
			SeedRules(nil).
			SeedLoanHistory(nil).
			SeedCurrentActivity(nil).
			SeedOpsCapacity([]domain.OpsCapacity{{Office: "STL", Date: weekStart, Slots: 1}})
	}

	cases := []struct {
		name       string
		buildStore func() *memory.Store
		disable    func(*pipeline.Config)
	}{
		{"cooldown", cooldownBoundStore, func(c *pipeline.Config) { c.EnableCooldown = false }},
		{"tier_caps", tierCapBoundStore, func(c *pipeline.Config) { c.EnableTierCaps = false }},
		{"capacity", capacityBoundStore, func(c *pipeline.Config) { c.EnableCapacity = false }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			baselineCfg := pipeline.DefaultConfig("STL", weekStart)
			baseline, err := pipeline.Run(context.Background(), tc.buildStore(), baselineCfg)
			require.NoError(t, err)

			relaxedCfg := pipeline.DefaultConfig("STL", weekStart)
			tc.disable(&relaxedCfg)
			relaxed, err := pipeline.Run(context.Background(), tc.buildStore(), relaxedCfg)
			require.NoError(t, err)

			assert.GreaterOrEqual(t, len(relaxed.Assignments), len(baseline.Assignments),
				"disabling %s must never reduce admitted assignments below the baseline", tc.name)
			assert.Greater(t, len(relaxed.Assignments), len(baseline.Assignments),
				"this scenario was built so %s is the binding constraint", tc.name)
		})
	}
}
