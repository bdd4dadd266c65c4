package availability_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aininja-pro/media-scheduler/availability"
	"github.com/aininja-pro/media-scheduler/domain"
)

func date(y int, m time.Month, d int) domain.Date { return domain.NewDate(y, m, d) }

func TestBuild_AllDaysAvailable_WhenNoConstraints(t *testing.T) {
	// GIVEN: a vehicle with no in-service/turn-in dates and no activity
	// WHEN: the grid is built for its office
	// THEN: all 7 days are available
	weekStart := date(2026, time.January, 5)
	vehicles := []domain.Vehicle{
		{VIN: "VIN1", Office: "STL"},
	}

	g := availability.Build(vehicles, nil, weekStart, "STL")

	n, ok := g.AvailableDays("VIN1")
	require.True(t, ok)
	assert.Equal(t, 7, n)
}

func TestBuild_ExcludesVehiclesFromOtherOffices(t *testing.T) {
	weekStart := date(2026, time.January, 5)
	vehicles := []domain.Vehicle{
		{VIN: "VIN1", Office: "STL"},
		{VIN: "VIN2", Office: "CHI"},
	}

	g := availability.Build(vehicles, nil, weekStart, "STL")

	_, ok := g.AvailableDays("VIN2")
	assert.False(t, ok, "vehicle from a different office should not appear in the grid")
}

func TestBuild_BlocksDaysBeforeInServiceDate(t *testing.T) {
	weekStart := date(2026, time.January, 5) // Mon Jan 5 .. Sun Jan 11
	inService := date(2026, time.January, 8)
	vehicles := []domain.Vehicle{
		{VIN: "VIN1", Office: "STL", InServiceDate: &inService},
	}

	g := availability.Build(vehicles, nil, weekStart, "STL")

	n, ok := g.AvailableDays("VIN1")
	require.True(t, ok)
	assert.Equal(t, 4, n, "Jan 8..11 inclusive should be available, Jan 5..7 blocked")
}

func TestBuild_BlocksDaysOnOrAfterTurnInDate(t *testing.T) {
	weekStart := date(2026, time.January, 5)
	turnIn := date(2026, time.January, 9)
	vehicles := []domain.Vehicle{
		{VIN: "VIN1", Office: "STL", ExpectedTurnInDate: &turnIn},
	}

	g := availability.Build(vehicles, nil, weekStart, "STL")

	n, ok := g.AvailableDays("VIN1")
	require.True(t, ok)
	assert.Equal(t, 4, n, "Jan 5..8 available, Jan 9 onward blocked (turn-in is exclusive)")
}

func TestBuild_BlocksDaysCoveredByCurrentActivity(t *testing.T) {
	weekStart := date(2026, time.January, 5)
	vehicles := []domain.Vehicle{{VIN: "VIN1", Office: "STL"}}
	activity := []domain.CurrentActivity{
		{ActivityID: "a1", VIN: "VIN1", StartDate: date(2026, time.January, 6), EndDate: date(2026, time.January, 7), ActivityType: "loan"},
	}

	g := availability.Build(vehicles, activity, weekStart, "STL")

	n, ok := g.AvailableDays("VIN1")
	require.True(t, ok)
	assert.Equal(t, 5, n)
}

func TestConsecutiveAvailableFrom_RejectsWindowPastGridEdge(t *testing.T) {
	weekStart := date(2026, time.January, 5)
	vehicles := []domain.Vehicle{{VIN: "VIN1", Office: "STL"}}
	g := availability.Build(vehicles, nil, weekStart, "STL")

	assert.False(t, g.ConsecutiveAvailableFrom("VIN1", 5, 7), "a 7-day loan starting on day 5 would run past the 7-day grid")
	assert.True(t, g.ConsecutiveAvailableFrom("VIN1", 0, 7))
}

func TestConsecutiveAvailableFrom_UnknownVIN(t *testing.T) {
	g := availability.Build(nil, nil, date(2026, time.January, 5), "STL")
	assert.False(t, g.ConsecutiveAvailableFrom("MISSING", 0, 1))
}
