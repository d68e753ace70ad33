package domain

import "time"

// LedgerEntry is one duty-status interval within a single calendar day,
// clipped to that day's [00:00, 24:00) boundary.
type LedgerEntry struct {
	Status   DutyStatus
	Start    time.Time
	End      time.Time
	Location string
	Activity string
}

// Remark is one line of the daily log's remarks column: a status-change
// event whose description is non-empty.
type Remark struct {
	Time     time.Time
	Location string
	Activity string
}

// DailyHours holds the four duty-status totals for one calendar day. They
// must sum to exactly 24.00 (within the pinned rounding rule) — §4.3's
// central testable assertion.
type DailyHours struct {
	OffDutyHours float64
	SleeperHours float64
	DrivingHours float64
	OnDutyHours  float64
}

// Sum returns the four totals added together, for the §4.3 step-4 assertion.
func (h DailyHours) Sum() float64 {
	return h.OffDutyHours + h.SleeperHours + h.DrivingHours + h.OnDutyHours
}

// DailyLedger is one calendar day's duty-status accounting, suitable for
// rendering an official FMCSA daily log sheet.
type DailyLedger struct {
	Date          time.Time
	DayNumber     int
	Timezone      string
	Hours         DailyHours
	Entries       []LedgerEntry
	Remarks       []Remark
	StartLocation string
	EndLocation   string
	TotalMiles    float64
}
