package domain

import "time"

// SLABusinessDays is the fixed resolution target for TE cases.
const SLABusinessDays = 3

// HolidaySet holds non-business dates keyed by "2006-01-02" in the
// business timezone.
type HolidaySet map[string]struct{}

// NewHolidaySet builds a HolidaySet from calendar dates.
func NewHolidaySet(dates []time.Time) HolidaySet {
	set := make(HolidaySet, len(dates))
	for _, d := range dates {
		set[d.Format("2006-01-02")] = struct{}{}
	}
	return set
}

// EstimateCompletion computes the SLA estimated-completion date for a case
// created at createdAt. The instant is converted into the business
// timezone; submissions at or after local noon lose one day of runway.
// Counting starts on the next business day (that day is business day #1)
// and runs until SLABusinessDays have been counted. The result is a bare
// date at midnight in loc and is never a Saturday, Sunday, or holiday.
func EstimateCompletion(createdAt time.Time, loc *time.Location, holidays HolidaySet) time.Time {
	local := createdAt.In(loc)

	offset := 1
	if local.Hour() >= 12 {
		offset = 2
	}
	day := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc).
		AddDate(0, 0, offset)

	for !isBusinessDay(day, holidays) {
		day = day.AddDate(0, 0, 1)
	}

	// day is business day #1
	counted := 1
	for counted < SLABusinessDays {
		day = day.AddDate(0, 0, 1)
		if isBusinessDay(day, holidays) {
			counted++
		}
	}
	return day
}

func isBusinessDay(day time.Time, holidays HolidaySet) bool {
	switch day.Weekday() {
	case time.Saturday, time.Sunday:
		return false
	}
	_, holiday := holidays[day.Format("2006-01-02")]
	return !holiday
}
