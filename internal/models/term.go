package models

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Season is the season component of an academic term.
type Season string

const (
	SeasonSpring Season = "Spring"
	SeasonSummer Season = "Summer"
	SeasonFall   Season = "Fall"
)

// seasonOrder fixes chronological ordering within a year.
var seasonOrder = map[Season]int{
	SeasonSpring: 0,
	SeasonSummer: 1,
	SeasonFall:   2,
}

// Term identifies an academic period by season and year, e.g. "Fall 2025".
type Term struct {
	Season Season `json:"season"`
	Year   int    `json:"year"`
}

// ParseTerm parses a "Season Year" string into a Term.
func ParseTerm(raw string) (Term, error) {
	parts := strings.Fields(strings.TrimSpace(raw))
	if len(parts) != 2 {
		return Term{}, fmt.Errorf("invalid term format %q: expected \"Season Year\" (e.g. \"Fall 2025\")", raw)
	}

	season := Season(strings.ToUpper(parts[0][:1]) + strings.ToLower(parts[0][1:]))
	if _, ok := seasonOrder[season]; !ok {
		return Term{}, fmt.Errorf("invalid season %q: must be Fall, Spring, or Summer", parts[0])
	}

	year, err := strconv.Atoi(parts[1])
	if err != nil {
		return Term{}, fmt.Errorf("invalid year in term %q", raw)
	}

	return Term{Season: season, Year: year}, nil
}

// String renders the canonical "Season Year" form.
func (t Term) String() string {
	return fmt.Sprintf("%s %d", t.Season, t.Year)
}

// Compare orders two terms chronologically: -1, 0, or 1.
func (t Term) Compare(other Term) int {
	if t.Year != other.Year {
		if t.Year < other.Year {
			return -1
		}
		return 1
	}
	a, b := seasonOrder[t.Season], seasonOrder[other.Season]
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// CurrentTerm derives the academic term for a calendar date.
// Spring runs January-May, Summer June-July, Fall August-December.
func CurrentTerm(now time.Time) Term {
	year := now.Year()
	switch {
	case now.Month() <= time.May:
		return Term{Season: SeasonSpring, Year: year}
	case now.Month() <= time.July:
		return Term{Season: SeasonSummer, Year: year}
	default:
		return Term{Season: SeasonFall, Year: year}
	}
}
