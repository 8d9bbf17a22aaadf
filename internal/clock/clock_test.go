package clock

import (
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDay(t *testing.T) {
	seoul, err := time.LoadLocation("Asia/Seoul")
	require.NoError(t, err)

	// 2025-03-01 20:30 UTC is already 2025-03-02 in Seoul.
	ts := time.Date(2025, 3, 1, 20, 30, 0, 0, time.UTC)
	assert.Equal(t, "2025-03-01", Day(ts, time.UTC))
	assert.Equal(t, "2025-03-02", Day(ts, seoul))
	assert.Equal(t, "2025-03-01", Day(ts, nil))
}

func TestFake(t *testing.T) {
	c := NewFake(time.Date(2025, 3, 1, 23, 0, 0, 0, time.UTC))
	assert.Equal(t, "2025-03-01", Today(c, time.UTC))

	c.Advance(2 * time.Hour)
	assert.Equal(t, "2025-03-02", Today(c, time.UTC))
	assert.Equal(t, "2025-02-28", DaysAgo(c, time.UTC, 2))

	c.Set(time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC))
	assert.Equal(t, "2024-12-31", Today(c, nil))
}

func TestParseDay(t *testing.T) {
	got, err := ParseDay("2025-03-02", time.UTC)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 3, 2, 0, 0, 0, 0, time.UTC), got)

	_, err = ParseDay("03/02/2025", time.UTC)
	assert.Error(t, err)
}

func TestSystem(t *testing.T) {
	before := time.Now()
	assert.False(t, System{}.Now().Before(before))
}
