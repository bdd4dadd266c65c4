package cooldown_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/aininja-pro/media-scheduler/cooldown"
	"github.com/aininja-pro/media-scheduler/domain"
)

func date(y int, m time.Month, d int) domain.Date { return domain.NewDate(y, m, d) }

func model(s string) *string { return &s }

func TestOK_MissingGrain_DefaultsTrue(t *testing.T) {
	res := cooldown.Compute(nil, nil, nil, 60)
	ok, until := res.OK("p1", "Toyota", "Camry", date(2026, time.January, 1))
	assert.True(t, ok)
	assert.True(t, until.IsZero())
}

func TestOK_ModelGrain_BlocksUntilWindowElapses(t *testing.T) {
	history := []domain.LoanHistory{
		{ActivityID: "a1", PersonID: "p1", Make: "Toyota", Model: model("Camry"),
			StartDate: date(2025, time.December, 1), EndDate: date(2025, time.December, 10)},
	}
	res := cooldown.Compute(history, nil, nil, 60)

	okBefore, until := res.OK("p1", "Toyota", "Camry", date(2026, time.January, 1))
	assert.False(t, okBefore)
	assert.Equal(t, date(2025, time.December, 10).AddDays(60), until)

	okAfter, _ := res.OK("p1", "Toyota", "Camry", date(2026, time.February, 10))
	assert.True(t, okAfter)
}

func TestOK_FallsBackToMakeGrainWhenModelUnknown(t *testing.T) {
	history := []domain.LoanHistory{
		{ActivityID: "a1", PersonID: "p1", Make: "Toyota", Model: nil,
			StartDate: date(2025, time.December, 1), EndDate: date(2025, time.December, 10)},
	}
	res := cooldown.Compute(history, nil, nil, 60)

	ok, _ := res.OK("p1", "Toyota", "Corolla", date(2026, time.January, 1))
	assert.False(t, ok, "a make-grain block (model unknown on the loan row) should still block any model")
}

func TestOK_ModelGrainTakesPrecedenceOverMakeGrain(t *testing.T) {
	history := []domain.LoanHistory{
		// make-grain block, would still be active at the check date
		{ActivityID: "a1", PersonID: "p1", Make: "Toyota", Model: nil,
			StartDate: date(2025, time.December, 20), EndDate: date(2025, time.December, 25)},
		// model-grain record for the SAME model, already elapsed
		{ActivityID: "a2", PersonID: "p1", Make: "Toyota", Model: model("Camry"),
			StartDate: date(2025, time.January, 1), EndDate: date(2025, time.January, 2)},
	}
	res := cooldown.Compute(history, nil, nil, 60)

	ok, _ := res.OK("p1", "Toyota", "Camry", date(2026, time.January, 1))
	assert.True(t, ok, "an elapsed model-grain record should win over a still-active make-grain fallback")
}

func TestCompute_UsesRuleCooldownOverDefault(t *testing.T) {
	history := []domain.LoanHistory{
		{ActivityID: "a1", PersonID: "p1", Make: "Toyota", Model: model("Camry"),
			StartDate: date(2025, time.December, 1), EndDate: date(2025, time.December, 10)},
	}
	eligibility := []domain.Eligibility{{PersonID: "p1", Make: "Toyota", Rank: domain.RankAPlus}}
	cd := 10
	rules := []domain.Rule{{Make: "Toyota", Rank: domain.RankAPlus, CooldownPeriodDays: &cd}}

	res := cooldown.Compute(history, rules, eligibility, 60)

	ok, until := res.OK("p1", "Toyota", "Camry", date(2025, time.December, 21))
	assert.True(t, ok, "rule's 10-day cooldown should have elapsed by Dec 21, unlike the 60-day default")
	assert.Equal(t, date(2025, time.December, 10).AddDays(10), until)
}

func TestCompute_TakesLatestOfMultipleLoansPerGrain(t *testing.T) {
	history := []domain.LoanHistory{
		{ActivityID: "a1", PersonID: "p1", Make: "Toyota", Model: model("Camry"),
			StartDate: date(2025, time.October, 1), EndDate: date(2025, time.October, 5)},
		{ActivityID: "a2", PersonID: "p1", Make: "Toyota", Model: model("Camry"),
			StartDate: date(2025, time.December, 1), EndDate: date(2025, time.December, 10)},
	}
	res := cooldown.Compute(history, nil, nil, 60)

	_, until := res.OK("p1", "Toyota", "Camry", date(2026, time.January, 1))
	assert.Equal(t, date(2025, time.December, 10).AddDays(60), until, "latest loan's window should win")
}
