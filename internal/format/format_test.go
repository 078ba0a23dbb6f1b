package format

import (
	"testing"
	"time"
)

func TestUnitLetter(t *testing.T) {
	tests := []struct {
		units string
		want  string
	}{
		{"imperial", "F"},
		{"metric", "C"},
		{"standard", "K"},
		{"", "K"},
		{"Metric", "K"},
		{"kelvin", "K"},
	}
	for _, tt := range tests {
		if got := UnitLetter(tt.units); got != tt.want {
			t.Errorf("UnitLetter(%q) = %q, want %q", tt.units, got, tt.want)
		}
	}
}

func TestClock_FixedZone(t *testing.T) {
	tests := []struct {
		name  string
		epoch int64
		loc   *time.Location
		want  string
	}{
		{"utc", 1700000000, time.UTC, "22:13"},
		{"utc sunset", 1700030000, time.UTC, "06:33"},
		{"plus two", 1700000000, time.FixedZone("EET", 2*3600), "00:13"},
		{"epoch zero", 0, time.UTC, "00:00"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Clock(tt.epoch, tt.loc); got != tt.want {
				t.Errorf("Clock(%d) = %q, want %q", tt.epoch, got, tt.want)
			}
		})
	}
}

func TestClock_NilLocationUsesLocal(t *testing.T) {
	want := time.Unix(1700000000, 0).In(time.Local).Format("15:04")
	if got := Clock(1700000000, nil); got != want {
		t.Errorf("Clock(nil loc) = %q, want %q", got, want)
	}
}

func TestHour_NoLeadingZeroOrMinutes(t *testing.T) {
	if got := Hour(1700030000, time.UTC); got != 6 {
		t.Errorf("Hour(1700030000) = %d, want 6", got)
	}
	if got := Hour(1700000000, time.UTC); got != 22 {
		t.Errorf("Hour(1700000000) = %d, want 22", got)
	}
}

func TestLongDate(t *testing.T) {
	d := time.Date(2023, 11, 4, 10, 0, 0, 0, time.UTC)
	if got := LongDate(d); got != "Saturday, November 04, 2023" {
		t.Errorf("LongDate() = %q", got)
	}
}

func TestDateRange_FiveDays(t *testing.T) {
	now := time.Date(2024, 3, 3, 12, 0, 0, 0, time.UTC)
	earliest, latest := DateRange(now)
	if !latest.Equal(now) {
		t.Errorf("latest = %v, want %v", latest, now)
	}
	if got := latest.Sub(earliest); got != 5*24*time.Hour {
		t.Errorf("latest - earliest = %v, want 120h", got)
	}
	if got := InputDate(earliest); got != "2024-02-27" {
		t.Errorf("InputDate(earliest) = %q, want 2024-02-27", got)
	}
}
