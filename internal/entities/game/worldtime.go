package game

import "fmt"

// Months of the game calendar, in order. A year is 25 months of 30 days.
var Months = []string{
	"Zephyr", "Blossom", "Cinder", "Dusk", "Ember",
	"Frost", "Gale", "Hearth", "Ivory", "Jade",
	"Kismet", "Lumen", "Morrow", "Nexus", "Omen",
	"Pyre", "Quell", "Riven", "Solace", "Thorn",
	"Umbra", "Vale", "Whisper", "Xenith", "Yield",
}

// DaysPerMonth is the fixed length of every month
const DaysPerMonth = 30

// WorldTime is the in-game clock. SurvivalHours counts every hour ever
// advanced and never decreases, regardless of calendar rollover.
type WorldTime struct {
	Year          int `json:"year"`
	Month         int `json:"month"` // 0-based index into Months
	Day           int `json:"day"`   // 1..DaysPerMonth
	Hour          int `json:"hour"`  // 0..23
	SurvivalHours int `json:"survivalHours"`
}

// NewWorldTime returns the clock at the start of year 1
func NewWorldTime() WorldTime {
	return WorldTime{Year: 1, Month: 0, Day: 1, Hour: 0}
}

// Advance moves the clock forward by the given number of hours,
// rolling hours into days, days into months, and months into years.
// Negative values are ignored.
func (t WorldTime) Advance(hours int) WorldTime {
	if hours <= 0 {
		return t
	}
	t.SurvivalHours += hours
	t.Hour += hours
	for t.Hour >= 24 {
		t.Hour -= 24
		t.Day++
	}
	for t.Day > DaysPerMonth {
		t.Day -= DaysPerMonth
		t.Month++
	}
	for t.Month >= len(Months) {
		t.Month -= len(Months)
		t.Year++
	}
	return t
}

// MonthName returns the calendar name for the current month
func (t WorldTime) MonthName() string {
	if t.Month < 0 || t.Month >= len(Months) {
		return fmt.Sprintf("Month %d", t.Month)
	}
	return Months[t.Month]
}

// FormatHour renders the hour as a 24-hour clock string
func FormatHour(hour int) string {
	return fmt.Sprintf("%02d:00", hour)
}

func (t WorldTime) String() string {
	return fmt.Sprintf("%s %d, Year %d, %s", t.MonthName(), t.Day, t.Year, FormatHour(t.Hour))
}
