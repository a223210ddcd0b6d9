// internal/calendar/calendar.go

// Package calendar converts epoch timestamps to civil dates with a forward
// day accumulator starting at 1970-01-01. A closed-form conversion would be
// faster, but the month-by-month walk is auditable line by line and the
// reporting paths that use it are low-frequency.
package calendar

// Date is a Gregorian calendar date.
type Date struct {
	Day   int `json:"day"`
	Month int `json:"month"`
	Year  int `json:"year"`
}

// FromUnixMillis converts milliseconds since the epoch to a civil date.
// Milliseconds truncate to seconds and seconds to whole days before the walk
// begins. Values before the epoch are treated as the epoch itself.
func FromUnixMillis(ms int64) Date {
	d := Date{Day: 1, Month: 1, Year: 1970}
	if ms < 0 {
		return d
	}
	days := ms / 1000 / 86400
	d.addDays(days)
	return d
}

// addDays advances the date by count days, one month at a time.
func (d *Date) addDays(count int64) {
	for count > 0 {
		inMonth := int64(DaysInMonth(d.Month, d.Year))
		if int64(d.Day)+count <= inMonth {
			d.Day += int(count)
			count = 0
		} else {
			count -= inMonth - int64(d.Day)
			d.Day = 0
			d.Month++
			if d.Month == 13 {
				d.Year++
				d.Month = 1
			}
		}
	}
}

// DaysInMonth returns the number of days in the month, or 0 for a month
// outside 1..12.
func DaysInMonth(month, year int) int {
	switch month {
	case 1, 3, 5, 7, 8, 10, 12:
		return 31
	case 4, 6, 9, 11:
		return 30
	case 2:
		if IsLeapYear(year) {
			return 29
		}
		return 28
	default:
		return 0
	}
}

// IsLeapYear implements the Gregorian rule: divisible by 4, except century
// years, which are leap only when divisible by 400.
func IsLeapYear(year int) bool {
	if year%4 != 0 {
		return false
	}
	if year%100 == 0 && year%400 != 0 {
		return false
	}
	return true
}
