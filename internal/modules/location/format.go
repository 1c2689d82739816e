package location

import (
	"fmt"
	"math"
	"strconv"
)

// FormatDistance renders miles to one decimal place, dropping a trailing
// ".0": "1 mile", "2.5 miles", "3 miles". Negative, NaN and infinite
// inputs render as "0 miles".
func FormatDistance(miles float64) string {
	if math.IsNaN(miles) || math.IsInf(miles, 0) || miles < 0 {
		miles = 0
	}
	rounded := math.Round(miles*10) / 10
	text := strconv.FormatFloat(rounded, 'f', -1, 64)
	if rounded == 1 {
		return text + " mile"
	}
	return text + " miles"
}

// FormatTravelTime renders whole minutes as "45 mins" below an hour and
// "1 hour 30 mins" above it. A zero remainder drops the minutes clause.
func FormatTravelTime(minutes int) string {
	if minutes < 0 {
		minutes = 0
	}
	if minutes < 60 {
		return plural(minutes, "min")
	}
	hours, rest := minutes/60, minutes%60
	if rest == 0 {
		return plural(hours, "hour")
	}
	return plural(hours, "hour") + " " + plural(rest, "min")
}

func plural(n int, unit string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, unit)
	}
	return fmt.Sprintf("%d %ss", n, unit)
}
