// Package format turns raw provider values into display strings.
package format

import "time"

const (
	longDateLayout  = "Monday, January 02, 2006"
	inputDateLayout = "2006-01-02"
	clockLayout     = "15:04"
)

// HistoryWindow is how far back the landing page date picker reaches.
const HistoryWindow = 5 * 24 * time.Hour

// UnitLetter returns the temperature letter for a units token. Anything other
// than "imperial" or "metric" is treated as the provider's standard (Kelvin)
// scale.
func UnitLetter(units string) string {
	switch units {
	case "imperial":
		return "F"
	case "metric":
		return "C"
	default:
		return "K"
	}
}

// Clock formats epoch seconds as HH:MM in loc. A nil loc means time.Local.
func Clock(epoch int64, loc *time.Location) string {
	return inZone(epoch, loc).Format(clockLayout)
}

// Hour returns the hour of day (0-23) of epoch seconds in loc.
func Hour(epoch int64, loc *time.Location) int {
	return inZone(epoch, loc).Hour()
}

// LongDate renders t like "Tuesday, November 14, 2023".
func LongDate(t time.Time) string {
	return t.Format(longDateLayout)
}

// InputDate renders t in the layout HTML date inputs expect.
func InputDate(t time.Time) string {
	return t.Format(inputDateLayout)
}

// DateRange returns the earliest and latest selectable dates relative to now.
func DateRange(now time.Time) (earliest, latest time.Time) {
	return now.Add(-HistoryWindow), now
}

func inZone(epoch int64, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.Local
	}
	return time.Unix(epoch, 0).In(loc)
}
