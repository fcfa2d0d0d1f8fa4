package event

import "time"

type Frequency string

const (
	FrequencyDaily   Frequency = "daily"
	FrequencyWeekly  Frequency = "weekly"
	FrequencyMonthly Frequency = "monthly"
)

type EndType string

const (
	EndNever EndType = "never"
	EndDate  EndType = "date"
	EndCount EndType = "count"
)

// Rule describes how a recurring event repeats. DaysOfWeek uses ISO weekday
// numbers (1=Monday .. 7=Sunday) and is meaningful only for weekly rules.
type Rule struct {
	Frequency       Frequency  `json:"frequency"`
	Interval        int        `json:"interval"`
	DaysOfWeek      []int      `json:"days_of_week,omitempty"`
	EndType         EndType    `json:"end_type"`
	EndDate         *time.Time `json:"end_date,omitempty"`
	OccurrenceCount int        `json:"occurrence_count,omitempty"`
}
