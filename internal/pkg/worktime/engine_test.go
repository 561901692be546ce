package worktime

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func jakarta(t *testing.T) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation("Asia/Jakarta")
	require.NoError(t, err)
	return loc
}

func TestNewEngine_RejectsLocalAndUnknownZones(t *testing.T) {
	for _, tz := range []string{"", "Local", "Mars/Olympus_Mons"} {
		_, err := NewEngine(tz, nil)
		assert.ErrorIs(t, err, ErrInvalidTimezone, "timezone %q", tz)
	}
}

func TestCompareToShiftBoundary_ToleranceEdges(t *testing.T) {
	loc := jakarta(t)
	e := MustEngine("Asia/Jakarta", nil)

	for hour := 0; hour < 24; hour++ {
		at := time.Date(2026, 3, 2, hour, 0, 0, 0, loc)
		assert.Equal(t, WithinTolerance, e.CompareToShiftBoundary(at, hour, time.Minute), "hour %d exact", hour)

		oneMinute := time.Date(2026, 3, 2, hour, 1, 0, 0, loc)
		assert.Equal(t, After, e.CompareToShiftBoundary(oneMinute, hour, time.Minute), "hour %d +60s", hour)

		last := time.Date(2026, 3, 2, hour, 0, 59, 0, loc)
		assert.Equal(t, WithinTolerance, e.CompareToShiftBoundary(last, hour, time.Minute), "hour %d +59s", hour)
	}
}

func TestCompareToShiftBoundary_Before(t *testing.T) {
	loc := jakarta(t)
	e := MustEngine("Asia/Jakarta", nil)

	at := time.Date(2026, 3, 2, 17, 59, 59, 0, loc)
	assert.Equal(t, Before, e.CompareToShiftBoundary(at, 18, time.Minute))
}

func TestCompareToShiftBoundary_UsesApplicationZoneNotInstantZone(t *testing.T) {
	e := MustEngine("Asia/Jakarta", nil)

	// 02:00 UTC is 09:00 in Jakarta (UTC+7).
	utc := time.Date(2026, 3, 2, 2, 0, 0, 0, time.UTC)
	assert.Equal(t, WithinTolerance, e.CompareToShiftBoundary(utc, 9, time.Minute))

	ny, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)
	assert.Equal(t, WithinTolerance, e.CompareToShiftBoundary(utc.In(ny), 9, time.Minute))
}

func TestLocalDate_CrossesMidnight(t *testing.T) {
	e := MustEngine("Asia/Jakarta", nil)

	// 18:30 UTC on the 1st is 01:30 on the 2nd in Jakarta.
	instant := time.Date(2026, 3, 1, 18, 30, 0, 0, time.UTC)
	assert.Equal(t, "2026-03-02", FormatDate(e.LocalDate(instant)))
	assert.Equal(t, 90, e.MinutesSinceMidnight(instant))
}

func TestMinutesSinceMidnight_Range(t *testing.T) {
	loc := jakarta(t)
	e := MustEngine("Asia/Jakarta", nil)

	assert.Equal(t, 0, e.MinutesSinceMidnight(time.Date(2026, 1, 1, 0, 0, 0, 0, loc)))
	assert.Equal(t, 1439, e.MinutesSinceMidnight(time.Date(2026, 1, 1, 23, 59, 59, 0, loc)))
}

func TestParseDate_KeepsCivilDate(t *testing.T) {
	e := MustEngine("Pacific/Kiritimati", nil) // UTC+14

	d, err := e.ParseDate("2026-07-01")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC), d)

	_, err = e.ParseDate("07/01/2026")
	assert.Error(t, err)
}

func TestToday_And_CurrentYear_FollowClock(t *testing.T) {
	clock := NewStaticClock(time.Date(2025, 12, 31, 17, 30, 0, 0, time.UTC))
	e := MustEngine("Asia/Jakarta", clock)

	// Already 00:30 on New Year's Day in Jakarta.
	assert.Equal(t, "2026-01-01", FormatDate(e.Today()))
	assert.Equal(t, 2026, e.CurrentYear())

	clock.Advance(-time.Hour)
	assert.Equal(t, 2025, e.CurrentYear())
}

func TestYearOf_UsesApplicationZone(t *testing.T) {
	e := MustEngine("Asia/Jakarta", NewStaticClock(time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)))

	assert.Equal(t, 2026, e.YearOf(time.Date(2025, 12, 31, 17, 0, 0, 0, time.UTC)))
	assert.Equal(t, 2025, e.YearOf(time.Date(2025, 12, 31, 16, 59, 59, 0, time.UTC)))
	// The clock is not consulted.
	assert.Equal(t, 2020, e.CurrentYear())
}

func TestBoundary_String(t *testing.T) {
	assert.Equal(t, "BEFORE", Before.String())
	assert.Equal(t, "WITHIN_TOLERANCE", WithinTolerance.String())
	assert.Equal(t, "AFTER", After.String())
}
