// Package recurrence expands recurring event rules into concrete occurrence
// windows. Expansion is pure and deterministic: the same parent window, rule
// and limits always produce the same instances.
package recurrence

import (
	"fmt"
	"sort"
	"time"

	"github.com/wingtrack/wingtrack/modules/calendar/domain/event"
)

// InvalidRuleError reports a rule field that fails validation.
type InvalidRuleError struct {
	Field  string
	Reason string
}

func (e *InvalidRuleError) Error() string {
	return fmt.Sprintf("invalid recurrence rule: %s: %s", e.Field, e.Reason)
}

// Instance is one expanded occurrence window, expressed in UTC.
type Instance struct {
	StartsAt time.Time
	EndsAt   time.Time
}

// Limits caps expansion of open-ended rules. MaxInstances bounds the number of
// generated occurrences and Horizon bounds how far past the parent start any
// occurrence may land. Both caps also apply as a safety net to bounded rules.
type Limits struct {
	MaxInstances int
	Horizon      time.Duration
}

// Validate checks a rule for structural errors. It does not consult limits.
func Validate(r *event.Rule) error {
	if r == nil {
		return &InvalidRuleError{Field: "rule", Reason: "missing"}
	}
	switch r.Frequency {
	case event.FrequencyDaily, event.FrequencyWeekly, event.FrequencyMonthly:
	default:
		return &InvalidRuleError{Field: "frequency", Reason: fmt.Sprintf("unknown frequency %q", r.Frequency)}
	}
	if r.Interval < 1 {
		return &InvalidRuleError{Field: "interval", Reason: "must be at least 1"}
	}
	if r.Frequency != event.FrequencyWeekly && len(r.DaysOfWeek) > 0 {
		return &InvalidRuleError{Field: "days_of_week", Reason: "only valid for weekly rules"}
	}
	seen := map[int]bool{}
	for _, d := range r.DaysOfWeek {
		if d < 1 || d > 7 {
			return &InvalidRuleError{Field: "days_of_week", Reason: "weekdays must be 1 (Monday) through 7 (Sunday)"}
		}
		if seen[d] {
			return &InvalidRuleError{Field: "days_of_week", Reason: "weekdays must be unique"}
		}
		seen[d] = true
	}
	switch r.EndType {
	case event.EndNever:
	case event.EndDate:
		if r.EndDate == nil {
			return &InvalidRuleError{Field: "end_date", Reason: "required when end_type is date"}
		}
	case event.EndCount:
		if r.OccurrenceCount < 1 {
			return &InvalidRuleError{Field: "occurrence_count", Reason: "must be at least 1"}
		}
	default:
		return &InvalidRuleError{Field: "end_type", Reason: fmt.Sprintf("unknown end type %q", r.EndType)}
	}
	return nil
}

// Expand generates the occurrence windows of a recurring event after the
// parent occurrence. The parent itself counts towards OccurrenceCount, so a
// count of 3 yields two generated instances. Calendar arithmetic happens in
// loc and results are returned in UTC.
func Expand(startsAt, endsAt time.Time, rule *event.Rule, loc *time.Location, limits Limits) ([]Instance, error) {
	if err := Validate(rule); err != nil {
		return nil, err
	}
	if loc == nil {
		loc = time.UTC
	}
	if limits.MaxInstances <= 0 {
		limits.MaxInstances = 730
	}
	if limits.Horizon <= 0 {
		limits.Horizon = 730 * 24 * time.Hour
	}

	start := startsAt.In(loc)
	duration := endsAt.Sub(startsAt)
	horizonEnd := start.Add(limits.Horizon)

	remaining := limits.MaxInstances
	if rule.EndType == event.EndCount {
		if n := rule.OccurrenceCount - 1; n < remaining {
			remaining = n
		}
	}

	var out []Instance
	emit := func(candidate time.Time) bool {
		if len(out) >= remaining {
			return false
		}
		if rule.EndType == event.EndDate && afterEndDate(candidate, *rule.EndDate, loc) {
			return false
		}
		if candidate.After(horizonEnd) {
			return false
		}
		out = append(out, Instance{
			StartsAt: candidate.UTC(),
			EndsAt:   candidate.Add(duration).UTC(),
		})
		return true
	}

	switch rule.Frequency {
	case event.FrequencyDaily:
		for i := 1; remaining > 0; i++ {
			if !emit(addDays(start, i*rule.Interval)) {
				break
			}
		}
	case event.FrequencyWeekly:
		if len(rule.DaysOfWeek) == 0 {
			for i := 1; remaining > 0; i++ {
				if !emit(addDays(start, 7*i*rule.Interval)) {
					break
				}
			}
			break
		}
		days := append([]int(nil), rule.DaysOfWeek...)
		sort.Ints(days)
		weekStart := addDays(start, 1-isoWeekday(start))
	weekly:
		for week := 0; ; week += rule.Interval {
			base := addDays(weekStart, 7*week)
			advanced := false
			for _, d := range days {
				candidate := addDays(base, d-1)
				if !candidate.After(start) {
					continue
				}
				advanced = true
				if !emit(candidate) {
					break weekly
				}
			}
			if week > 0 && !advanced {
				break
			}
		}
	case event.FrequencyMonthly:
		for i := 1; remaining > 0; i++ {
			if !emit(addMonths(start, i*rule.Interval)) {
				break
			}
		}
	}
	return out, nil
}

// afterEndDate reports whether the candidate's calendar date in loc is past
// the end date. An occurrence landing exactly on the end date is kept.
func afterEndDate(candidate, endDate time.Time, loc *time.Location) bool {
	cy, cm, cd := candidate.In(loc).Date()
	ey, em, ed := endDate.In(loc).Date()
	c := time.Date(cy, cm, cd, 0, 0, 0, 0, time.UTC)
	e := time.Date(ey, em, ed, 0, 0, 0, 0, time.UTC)
	return c.After(e)
}

// addDays shifts by whole calendar days, preserving the wall-clock time even
// across DST transitions.
func addDays(t time.Time, n int) time.Time {
	y, m, d := t.Date()
	h, min, s := t.Clock()
	return time.Date(y, m, d+n, h, min, s, t.Nanosecond(), t.Location())
}

// addMonths shifts by whole months, clamping the day of month to the target
// month's last day so Jan 31 plus one month lands on Feb 28 or 29.
func addMonths(t time.Time, n int) time.Time {
	y, m, d := t.Date()
	h, min, s := t.Clock()
	months := int(m) - 1 + n
	ty := y + months/12
	tm := time.Month(months%12 + 1)
	if months < 0 {
		// Go's integer division truncates towards zero.
		ty = y + (months-11)/12
		tm = time.Month((months%12+12)%12 + 1)
	}
	if last := daysInMonth(ty, tm); d > last {
		d = last
	}
	return time.Date(ty, tm, d, h, min, s, t.Nanosecond(), t.Location())
}

func daysInMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// isoWeekday maps time.Weekday to ISO numbering, Monday=1 .. Sunday=7.
func isoWeekday(t time.Time) int {
	wd := int(t.Weekday())
	if wd == 0 {
		return 7
	}
	return wd
}
