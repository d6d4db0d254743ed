package processor

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSnapshotRoundTrip(t *testing.T) {
	records := []TripRecord{
		{
			RideID:           "42",
			StartedAt:        time.Date(2019, 1, 1, 8, 0, 0, 0, time.UTC),
			EndedAt:          time.Date(2019, 1, 1, 8, 15, 0, 0, time.UTC),
			StartStationID:   "77",
			StartStationName: "Clark St",
			EndStationID:     "88",
			EndStationName:   "Wells St",
			MemberCasual:     "member",
			RideLength:       15,
			DayOfWeek:        "Tue",
			HourOfDay:        8,
		},
		{
			RideID:           "A1",
			StartedAt:        time.Date(2020, 4, 5, 23, 30, 0, 0, time.UTC),
			EndedAt:          time.Date(2020, 4, 6, 0, 10, 0, 0, time.UTC),
			StartStationID:   "1",
			StartStationName: "State St",
			EndStationID:     "2",
			EndStationName:   "Lake St",
			MemberCasual:     "casual",
			RideLength:       40,
			DayOfWeek:        "Sun",
			HourOfDay:        23,
		},
	}

	df := ToDataFrame(records)
	assert.Equal(t, 2, df.Nrow())
	assert.Equal(t, len(CanonicalColumns())+3, len(df.Names()))

	// 快照列类型不丢失，读回后与原记录一致
	restored, err := FromSnapshot(df)
	require.NoError(t, err)
	assert.Equal(t, records, restored)
}

func TestFromSnapshotMissingColumn(t *testing.T) {
	records := []TripRecord{{
		RideID:    "1",
		StartedAt: time.Date(2019, 1, 1, 8, 0, 0, 0, time.UTC),
		EndedAt:   time.Date(2019, 1, 1, 8, 5, 0, 0, time.UTC),
	}}
	df := ToDataFrame(records).Select([]string{"ride_id", "started_at", "ended_at"})

	_, err := FromSnapshot(df)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "缺少列")
}
