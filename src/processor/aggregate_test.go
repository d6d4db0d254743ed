package processor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func statRecord(rider, day string, hour int, length float64) TripRecord {
	return TripRecord{
		MemberCasual: rider,
		DayOfWeek:    day,
		HourOfDay:    hour,
		RideLength:   length,
	}
}

func TestAggregateByRiderType(t *testing.T) {
	records := []TripRecord{
		statRecord("casual", "Mon", 8, 10),
		statRecord("casual", "Tue", 9, 20),
		statRecord("casual", "Wed", 10, 40),
		statRecord("member", "Mon", 8, 5),
		statRecord("member", "Tue", 9, 15),
	}

	stats := AggregateByRiderType(records)
	require.Len(t, stats, 2)

	// 固定输出顺序: casual在前
	assert.Equal(t, "casual", stats[0].MemberCasual)
	assert.Equal(t, 3, stats[0].Count)
	assert.InDelta(t, 23.3333, stats[0].MeanMinutes, 0.001)
	assert.Equal(t, 20.0, stats[0].MedianMinutes)

	assert.Equal(t, "member", stats[1].MemberCasual)
	assert.Equal(t, 2, stats[1].Count)
	assert.Equal(t, 10.0, stats[1].MeanMinutes)
	assert.Equal(t, 10.0, stats[1].MedianMinutes) // 偶数个取中间两数均值
}

func TestAggregateGroupCountsSumToTotal(t *testing.T) {
	var records []TripRecord
	days := []string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}
	for i := 0; i < 140; i++ {
		rider := "member"
		if i%3 == 0 {
			rider = "casual"
		}
		records = append(records, statRecord(rider, days[i%7], i%24, float64(i%60+1)))
	}

	// 分组不丢行也不重复计数
	total := 0
	for _, s := range AggregateByRiderType(records) {
		total += s.Count
	}
	assert.Equal(t, len(records), total)

	total = 0
	for _, s := range AggregateByRiderTypeAndDay(records) {
		total += s.Count
	}
	assert.Equal(t, len(records), total)

	total = 0
	for _, s := range AggregateByRiderTypeAndHour(records) {
		total += s.Count
	}
	assert.Equal(t, len(records), total)
}

func TestAggregateByDayDeterministicOrder(t *testing.T) {
	records := []TripRecord{
		statRecord("member", "Sat", 8, 10),
		statRecord("member", "Sun", 8, 10),
		statRecord("casual", "Wed", 8, 10),
		statRecord("member", "Mon", 8, 10),
	}

	stats := AggregateByRiderTypeAndDay(records)
	require.Len(t, stats, 4)
	assert.Equal(t, "casual", stats[0].MemberCasual)
	// member组内按周日起始的固定星期顺序
	assert.Equal(t, "Sun", stats[1].DayOfWeek)
	assert.Equal(t, "Mon", stats[2].DayOfWeek)
	assert.Equal(t, "Sat", stats[3].DayOfWeek)
}

func TestAggregateByHourDeterministicOrder(t *testing.T) {
	records := []TripRecord{
		statRecord("member", "Mon", 17, 10),
		statRecord("member", "Mon", 0, 10),
		statRecord("member", "Mon", 8, 30),
		statRecord("member", "Mon", 8, 10),
	}

	stats := AggregateByRiderTypeAndHour(records)
	require.Len(t, stats, 3)
	assert.Equal(t, 0, stats[0].HourOfDay)
	assert.Equal(t, 8, stats[1].HourOfDay)
	assert.Equal(t, 17, stats[2].HourOfDay)
	assert.Equal(t, 2, stats[1].Count)
	assert.Equal(t, 20.0, stats[1].MeanMinutes)
}

func TestAggregateEmptyInput(t *testing.T) {
	// 空输入得到空表，不是错误
	assert.Empty(t, AggregateByRiderType(nil))
	assert.Empty(t, AggregateByRiderTypeAndDay(nil))
	assert.Empty(t, AggregateByRiderTypeAndHour(nil))
}
