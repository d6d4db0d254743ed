// export.go
package processor

import (
	"fmt"
	"strconv"
	"time"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
)

const snapshotTimeLayout = "2006-01-02 15:04:05"

// snapshotColumns 快照列 = 规范列 + 三个派生列
var snapshotColumns = append(CanonicalColumns(),
	"ride_length", "day_of_week", "hour_of_day")

// ToDataFrame 把清洗后的记录集转成带类型的DataFrame
// 时长为Float列、小时为Int列、其余为String列，保证快照类型不丢失
func ToDataFrame(records []TripRecord) dataframe.DataFrame {
	n := len(records)
	rideID := make([]string, n)
	startedAt := make([]string, n)
	endedAt := make([]string, n)
	startID := make([]string, n)
	startName := make([]string, n)
	endID := make([]string, n)
	endName := make([]string, n)
	rider := make([]string, n)
	length := make([]float64, n)
	day := make([]string, n)
	hour := make([]int, n)

	for i, r := range records {
		rideID[i] = r.RideID
		startedAt[i] = r.StartedAt.Format(snapshotTimeLayout)
		endedAt[i] = r.EndedAt.Format(snapshotTimeLayout)
		startID[i] = r.StartStationID
		startName[i] = r.StartStationName
		endID[i] = r.EndStationID
		endName[i] = r.EndStationName
		rider[i] = r.MemberCasual
		length[i] = r.RideLength
		day[i] = r.DayOfWeek
		hour[i] = r.HourOfDay
	}

	return dataframe.New(
		series.New(rideID, series.String, "ride_id"),
		series.New(startedAt, series.String, "started_at"),
		series.New(endedAt, series.String, "ended_at"),
		series.New(startID, series.String, "start_station_id"),
		series.New(startName, series.String, "start_station_name"),
		series.New(endID, series.String, "end_station_id"),
		series.New(endName, series.String, "end_station_name"),
		series.New(rider, series.String, "member_casual"),
		series.New(length, series.Float, "ride_length"),
		series.New(day, series.String, "day_of_week"),
		series.New(hour, series.Int, "hour_of_day"),
	)
}

// FromSnapshot 把快照DataFrame还原为记录集(展示层重算统计时使用)
func FromSnapshot(df dataframe.DataFrame) ([]TripRecord, error) {
	for _, col := range snapshotColumns {
		found := false
		for _, n := range df.Names() {
			if n == col {
				found = true
				break
			}
		}
		if !found {
			return nil, fmt.Errorf("快照缺少列 %s", col)
		}
	}

	values := make(map[string][]string, len(snapshotColumns))
	for _, col := range snapshotColumns {
		values[col] = df.Col(col).Records()
	}

	records := make([]TripRecord, 0, df.Nrow())
	for i := 0; i < df.Nrow(); i++ {
		startedAt, err := time.Parse(snapshotTimeLayout, values["started_at"][i])
		if err != nil {
			return nil, fmt.Errorf("快照第%d行 started_at 解析失败: %w", i+1, err)
		}
		endedAt, err := time.Parse(snapshotTimeLayout, values["ended_at"][i])
		if err != nil {
			return nil, fmt.Errorf("快照第%d行 ended_at 解析失败: %w", i+1, err)
		}
		length, err := strconv.ParseFloat(values["ride_length"][i], 64)
		if err != nil {
			return nil, fmt.Errorf("快照第%d行 ride_length 解析失败: %w", i+1, err)
		}
		hour, err := strconv.Atoi(values["hour_of_day"][i])
		if err != nil {
			return nil, fmt.Errorf("快照第%d行 hour_of_day 解析失败: %w", i+1, err)
		}

		records = append(records, TripRecord{
			RideID:           values["ride_id"][i],
			StartedAt:        startedAt,
			EndedAt:          endedAt,
			StartStationID:   values["start_station_id"][i],
			StartStationName: values["start_station_name"][i],
			EndStationID:     values["end_station_id"][i],
			EndStationName:   values["end_station_name"][i],
			MemberCasual:     values["member_casual"][i],
			RideLength:       length,
			DayOfWeek:        values["day_of_week"][i],
			HourOfDay:        hour,
		})
	}
	return records, nil
}
