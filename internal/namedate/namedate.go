// Package namedate extracts capture dates embedded in media file names,
// as produced by cameras and phones, e.g. "IMG_20190128_112233.jpg" or
// "photo-2019-01-28.png".
package namedate

import (
	"fmt"
	"regexp"
)

// candidate date layouts found in file names, most specific first
var (
	compactPattern = regexp.MustCompile(`(?:^|[^0-9])(\d{4})(\d{2})(\d{2})(?:[^0-9]|$)`)
	dashedPattern  = regexp.MustCompile(`(?:^|[^0-9])(\d{4})-(\d{2})-(\d{2})(?:[^0-9]|$)`)
)

// FromFileName scans a file name for an embedded date and returns it in
// "YYYY.MM.DD" form. Candidates are validated for month and day range,
// including leap years, so eight-digit serial numbers that happen to match
// the shape are rejected. The second return value reports a hit.
func FromFileName(name string) (string, bool) {
	for _, pattern := range []*regexp.Regexp{compactPattern, dashedPattern} {
		for _, m := range pattern.FindAllStringSubmatch(name, -1) {
			year := atoi(m[1])
			month := atoi(m[2])
			day := atoi(m[3])
			if validDate(year, month, day) {
				return fmt.Sprintf("%04d.%02d.%02d", year, month, day), true
			}
		}
	}
	return "", false
}

// validDate checks year plausibility for camera output plus strict month
// and day ranges.
func validDate(year, month, day int) bool {
	if year < 1990 || year > 2099 {
		return false
	}
	if month < 1 || month > 12 {
		return false
	}
	return day >= 1 && day <= daysInMonth(year, month)
}

func daysInMonth(year, month int) int {
	switch month {
	case 1, 3, 5, 7, 8, 10, 12:
		return 31
	case 4, 6, 9, 11:
		return 30
	default:
		if isLeapYear(year) {
			return 29
		}
		return 28
	}
}

func isLeapYear(year int) bool {
	return (year%4 == 0 && year%100 != 0) || year%400 == 0
}

func atoi(s string) int {
	n := 0
	for _, c := range s {
		n = n*10 + int(c-'0')
	}
	return n
}
