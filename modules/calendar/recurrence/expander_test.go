package recurrence_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/wingtrack/wingtrack/modules/calendar/domain/event"
	"github.com/wingtrack/wingtrack/modules/calendar/recurrence"
)

var testLimits = recurrence.Limits{MaxInstances: 730, Horizon: 730 * 24 * time.Hour}

func window(y int, m time.Month, d, h int) (time.Time, time.Time) {
	start := time.Date(y, m, d, h, 0, 0, 0, time.UTC)
	return start, start.Add(time.Hour)
}

func TestValidate(t *testing.T) {
	end := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	cases := []struct {
		name  string
		rule  *event.Rule
		field string
	}{
		{"nil rule", nil, "rule"},
		{"unknown frequency", &event.Rule{Frequency: "yearly", Interval: 1, EndType: event.EndNever}, "frequency"},
		{"zero interval", &event.Rule{Frequency: event.FrequencyDaily, Interval: 0, EndType: event.EndNever}, "interval"},
		{"days on daily", &event.Rule{Frequency: event.FrequencyDaily, Interval: 1, DaysOfWeek: []int{1}, EndType: event.EndNever}, "days_of_week"},
		{"weekday out of range", &event.Rule{Frequency: event.FrequencyWeekly, Interval: 1, DaysOfWeek: []int{0}, EndType: event.EndNever}, "days_of_week"},
		{"duplicate weekday", &event.Rule{Frequency: event.FrequencyWeekly, Interval: 1, DaysOfWeek: []int{2, 2}, EndType: event.EndNever}, "days_of_week"},
		{"date without end date", &event.Rule{Frequency: event.FrequencyDaily, Interval: 1, EndType: event.EndDate}, "end_date"},
		{"count without occurrences", &event.Rule{Frequency: event.FrequencyDaily, Interval: 1, EndType: event.EndCount}, "occurrence_count"},
		{"unknown end type", &event.Rule{Frequency: event.FrequencyDaily, Interval: 1, EndType: "until"}, "end_type"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := recurrence.Validate(tc.rule)
			require.Error(t, err)
			var ruleErr *recurrence.InvalidRuleError
			require.ErrorAs(t, err, &ruleErr)
			require.Equal(t, tc.field, ruleErr.Field)
		})
	}

	require.NoError(t, recurrence.Validate(&event.Rule{
		Frequency:  event.FrequencyWeekly,
		Interval:   2,
		DaysOfWeek: []int{1, 3, 5},
		EndType:    event.EndDate,
		EndDate:    &end,
	}))
}

func TestExpandCountIncludesParent(t *testing.T) {
	// Weekly Mondays starting Mon 2024-01-01, count 3: the parent is the
	// first occurrence, so exactly two instances come back.
	start, end := window(2024, time.January, 1, 15)
	rule := &event.Rule{
		Frequency:       event.FrequencyWeekly,
		Interval:        1,
		EndType:         event.EndCount,
		OccurrenceCount: 3,
	}
	instances, err := recurrence.Expand(start, end, rule, time.UTC, testLimits)
	require.NoError(t, err)
	require.Len(t, instances, 2)
	require.Equal(t, time.Date(2024, 1, 8, 15, 0, 0, 0, time.UTC), instances[0].StartsAt)
	require.Equal(t, time.Date(2024, 1, 15, 15, 0, 0, 0, time.UTC), instances[1].StartsAt)
	for _, inst := range instances {
		require.Equal(t, time.Hour, inst.EndsAt.Sub(inst.StartsAt))
	}
}

func TestExpandCountOfOne(t *testing.T) {
	start, end := window(2024, time.January, 1, 9)
	rule := &event.Rule{Frequency: event.FrequencyDaily, Interval: 1, EndType: event.EndCount, OccurrenceCount: 1}
	instances, err := recurrence.Expand(start, end, rule, time.UTC, testLimits)
	require.NoError(t, err)
	require.Empty(t, instances)
}

func TestExpandWeeklyDaysOfWeek(t *testing.T) {
	// Parent on Monday with Mon/Wed/Fri: the parent covers Monday, so the
	// first instance is Wednesday of the same week.
	start, end := window(2024, time.January, 1, 8)
	rule := &event.Rule{
		Frequency:       event.FrequencyWeekly,
		Interval:        1,
		DaysOfWeek:      []int{1, 3, 5},
		EndType:         event.EndCount,
		OccurrenceCount: 5,
	}
	instances, err := recurrence.Expand(start, end, rule, time.UTC, testLimits)
	require.NoError(t, err)
	require.Len(t, instances, 4)
	require.Equal(t, time.Date(2024, 1, 3, 8, 0, 0, 0, time.UTC), instances[0].StartsAt)
	require.Equal(t, time.Date(2024, 1, 5, 8, 0, 0, 0, time.UTC), instances[1].StartsAt)
	require.Equal(t, time.Date(2024, 1, 8, 8, 0, 0, 0, time.UTC), instances[2].StartsAt)
	require.Equal(t, time.Date(2024, 1, 10, 8, 0, 0, 0, time.UTC), instances[3].StartsAt)
}

func TestExpandEndDateInclusive(t *testing.T) {
	start, end := window(2024, time.January, 1, 10)
	until := time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)
	rule := &event.Rule{Frequency: event.FrequencyDaily, Interval: 1, EndType: event.EndDate, EndDate: &until}
	instances, err := recurrence.Expand(start, end, rule, time.UTC, testLimits)
	require.NoError(t, err)
	require.Len(t, instances, 4)
	require.Equal(t, time.Date(2024, 1, 5, 10, 0, 0, 0, time.UTC), instances[3].StartsAt)
}

func TestExpandMonthlyClampsToLastDay(t *testing.T) {
	start, end := window(2024, time.January, 31, 12)
	rule := &event.Rule{
		Frequency:       event.FrequencyMonthly,
		Interval:        1,
		EndType:         event.EndCount,
		OccurrenceCount: 5,
	}
	instances, err := recurrence.Expand(start, end, rule, time.UTC, testLimits)
	require.NoError(t, err)
	require.Len(t, instances, 4)
	// 2024 is a leap year.
	require.Equal(t, time.Date(2024, 2, 29, 12, 0, 0, 0, time.UTC), instances[0].StartsAt)
	require.Equal(t, time.Date(2024, 3, 31, 12, 0, 0, 0, time.UTC), instances[1].StartsAt)
	require.Equal(t, time.Date(2024, 4, 30, 12, 0, 0, 0, time.UTC), instances[2].StartsAt)
	require.Equal(t, time.Date(2024, 5, 31, 12, 0, 0, 0, time.UTC), instances[3].StartsAt)
}

func TestExpandNeverEndingIsCapped(t *testing.T) {
	start, end := window(2024, time.January, 1, 7)
	rule := &event.Rule{Frequency: event.FrequencyDaily, Interval: 1, EndType: event.EndNever}

	instances, err := recurrence.Expand(start, end, rule, time.UTC, recurrence.Limits{MaxInstances: 10, Horizon: 365 * 24 * time.Hour})
	require.NoError(t, err)
	require.Len(t, instances, 10)

	instances, err = recurrence.Expand(start, end, rule, time.UTC, recurrence.Limits{MaxInstances: 1000, Horizon: 5 * 24 * time.Hour})
	require.NoError(t, err)
	require.Len(t, instances, 5)
}

func TestExpandInterval(t *testing.T) {
	start, end := window(2024, time.January, 1, 6)
	rule := &event.Rule{
		Frequency:       event.FrequencyWeekly,
		Interval:        2,
		EndType:         event.EndCount,
		OccurrenceCount: 3,
	}
	instances, err := recurrence.Expand(start, end, rule, time.UTC, testLimits)
	require.NoError(t, err)
	require.Len(t, instances, 2)
	require.Equal(t, time.Date(2024, 1, 15, 6, 0, 0, 0, time.UTC), instances[0].StartsAt)
	require.Equal(t, time.Date(2024, 1, 29, 6, 0, 0, 0, time.UTC), instances[1].StartsAt)
}

func TestExpandDeterministic(t *testing.T) {
	start, end := window(2024, time.March, 4, 18)
	rule := &event.Rule{
		Frequency:       event.FrequencyWeekly,
		Interval:        1,
		DaysOfWeek:      []int{2, 4},
		EndType:         event.EndCount,
		OccurrenceCount: 10,
	}
	first, err := recurrence.Expand(start, end, rule, time.UTC, testLimits)
	require.NoError(t, err)
	second, err := recurrence.Expand(start, end, rule, time.UTC, testLimits)
	require.NoError(t, err)
	require.Equal(t, first, second)
}

func TestExpandKeepsWallClockAcrossDST(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)
	// Weekly event at 15:00 local spanning the March 2024 spring-forward.
	start := time.Date(2024, 3, 4, 15, 0, 0, 0, loc)
	rule := &event.Rule{
		Frequency:       event.FrequencyWeekly,
		Interval:        1,
		EndType:         event.EndCount,
		OccurrenceCount: 3,
	}
	instances, err := recurrence.Expand(start.UTC(), start.Add(time.Hour).UTC(), rule, loc, testLimits)
	require.NoError(t, err)
	require.Len(t, instances, 2)
	for _, inst := range instances {
		local := inst.StartsAt.In(loc)
		require.Equal(t, 15, local.Hour())
		require.Equal(t, time.Monday, local.Weekday())
	}
}
