package processor

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeFeaturesDerivesAllFields(t *testing.T) {
	// 2019-01-01是周二
	records := []TripRecord{{
		RideID:    "42",
		StartedAt: time.Date(2019, 1, 1, 8, 0, 0, 0, time.UTC),
		EndedAt:   time.Date(2019, 1, 1, 8, 15, 0, 0, time.UTC),
	}}

	out := ComputeFeatures(records)
	require.Len(t, out, 1)
	assert.Equal(t, 15.0, out[0].RideLength)
	assert.Equal(t, "Tue", out[0].DayOfWeek)
	assert.Equal(t, 8, out[0].HourOfDay)
}

func TestComputeFeaturesKeepsNegativeDurations(t *testing.T) {
	// 时间戳颠倒产生负时长，派生阶段不过滤(过滤是下一阶段的事)
	records := []TripRecord{{
		StartedAt: time.Date(2019, 6, 1, 12, 0, 0, 0, time.UTC),
		EndedAt:   time.Date(2019, 6, 1, 11, 55, 0, 0, time.UTC),
	}}

	out := ComputeFeatures(records)
	assert.Equal(t, -5.0, out[0].RideLength)
}

func TestComputeFeaturesIsIdempotent(t *testing.T) {
	// 派生值是started_at的纯函数，重算结果不变
	records := []TripRecord{{
		StartedAt: time.Date(2020, 2, 29, 23, 45, 0, 0, time.UTC),
		EndedAt:   time.Date(2020, 3, 1, 0, 30, 0, 0, time.UTC),
	}}

	once := ComputeFeatures(records)
	twice := ComputeFeatures(once)
	assert.Equal(t, once, twice)
	assert.Equal(t, "Sat", once[0].DayOfWeek)
	assert.Equal(t, 23, once[0].HourOfDay)
	assert.Equal(t, 45.0, once[0].RideLength)
}

func TestComputeFeaturesDoesNotMutateInput(t *testing.T) {
	records := []TripRecord{{
		StartedAt: time.Date(2019, 1, 1, 8, 0, 0, 0, time.UTC),
		EndedAt:   time.Date(2019, 1, 1, 9, 0, 0, 0, time.UTC),
	}}

	_ = ComputeFeatures(records)
	assert.Zero(t, records[0].RideLength)
	assert.Empty(t, records[0].DayOfWeek)
}

func TestWeekdayLabelsAreAClosedOrderedSet(t *testing.T) {
	// 连续7天恰好覆盖7个不同标签，周日起始
	seen := make(map[string]bool)
	start := time.Date(2019, 9, 1, 10, 0, 0, 0, time.UTC) // 周日
	for i := 0; i < 7; i++ {
		out := ComputeFeatures([]TripRecord{{
			StartedAt: start.AddDate(0, 0, i),
			EndedAt:   start.AddDate(0, 0, i).Add(time.Minute),
		}})
		seen[out[0].DayOfWeek] = true
	}
	assert.Len(t, seen, 7)
	assert.True(t, seen["Sun"] && seen["Sat"])
}
