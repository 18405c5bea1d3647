package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTerm(t *testing.T) {
	term, err := ParseTerm("Fall 2025")
	require.NoError(t, err)
	assert.Equal(t, SeasonFall, term.Season)
	assert.Equal(t, 2025, term.Year)
	assert.Equal(t, "Fall 2025", term.String())

	// Case and surrounding whitespace are normalised.
	term, err = ParseTerm("  sprING 2026 ")
	require.NoError(t, err)
	assert.Equal(t, SeasonSpring, term.Season)
	assert.Equal(t, "Spring 2026", term.String())
}

func TestParseTermRejectsMalformed(t *testing.T) {
	for _, raw := range []string{"", "Fall", "Fall2025", "Autumn 2025", "Fall twenty", "Fall 2025 extra"} {
		_, err := ParseTerm(raw)
		assert.Error(t, err, raw)
	}
}

func TestTermCompare(t *testing.T) {
	fall25 := Term{Season: SeasonFall, Year: 2025}
	spring26 := Term{Season: SeasonSpring, Year: 2026}
	summer25 := Term{Season: SeasonSummer, Year: 2025}

	assert.Equal(t, -1, summer25.Compare(fall25))
	assert.Equal(t, 1, fall25.Compare(summer25))
	assert.Equal(t, -1, fall25.Compare(spring26))
	assert.Equal(t, 0, fall25.Compare(Term{Season: SeasonFall, Year: 2025}))
}

func TestCurrentTermBoundaries(t *testing.T) {
	tests := []struct {
		date time.Time
		want Term
	}{
		{time.Date(2025, time.January, 15, 0, 0, 0, 0, time.UTC), Term{Season: SeasonSpring, Year: 2025}},
		{time.Date(2025, time.May, 31, 0, 0, 0, 0, time.UTC), Term{Season: SeasonSpring, Year: 2025}},
		{time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC), Term{Season: SeasonSummer, Year: 2025}},
		{time.Date(2025, time.July, 31, 0, 0, 0, 0, time.UTC), Term{Season: SeasonSummer, Year: 2025}},
		{time.Date(2025, time.August, 1, 0, 0, 0, 0, time.UTC), Term{Season: SeasonFall, Year: 2025}},
		{time.Date(2025, time.December, 31, 0, 0, 0, 0, time.UTC), Term{Season: SeasonFall, Year: 2025}},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, CurrentTerm(tt.date), tt.date.Format("2006-01-02"))
	}
}
