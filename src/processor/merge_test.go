package processor

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makeDataset(source string, n int) *Dataset {
	records := make([]TripRecord, n)
	base := time.Date(2019, 1, 1, 8, 0, 0, 0, time.UTC)
	for i := range records {
		records[i] = TripRecord{
			RideID:    source + "-" + string(rune('a'+i)),
			StartedAt: base,
			EndedAt:   base.Add(10 * time.Minute),
		}
	}
	return &Dataset{Source: source, Columns: CanonicalColumns(), Records: records}
}

func TestMergeLengthEqualsSumOfInputs(t *testing.T) {
	a := makeDataset("a", 3)
	b := makeDataset("b", 2)
	c := makeDataset("c", 4)

	merged, err := Merge(a, b, c)
	require.NoError(t, err)
	assert.Len(t, merged.Records, 9)

	// 行序即输入拼接顺序
	assert.Equal(t, a.Records[0].RideID, merged.Records[0].RideID)
	assert.Equal(t, b.Records[0].RideID, merged.Records[3].RideID)
	assert.Equal(t, c.Records[3].RideID, merged.Records[8].RideID)
}

func TestMergeSchemaMismatchNamesOffendingFields(t *testing.T) {
	good := makeDataset("good", 1)
	bad := makeDataset("bad", 1)

	// 缺一列、多一列
	cols := CanonicalColumns()
	bad.Columns = append(cols[:len(cols)-1], "extra_field")

	_, err := Merge(good, bad)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "member_casual")
	assert.Contains(t, err.Error(), "extra_field")
	assert.Contains(t, err.Error(), "bad")
}

func TestMergeNoInputs(t *testing.T) {
	merged, err := Merge()
	require.NoError(t, err)
	assert.Empty(t, merged.Records)
}

func TestMergeKeepsDuplicateRideIDs(t *testing.T) {
	// 跨源的ride_id碰撞不去重
	a := makeDataset("x", 1)
	b := makeDataset("x", 1)

	merged, err := Merge(a, b)
	require.NoError(t, err)
	assert.Len(t, merged.Records, 2)
	assert.Equal(t, merged.Records[0].RideID, merged.Records[1].RideID)
}
