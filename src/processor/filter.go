// filter.go
package processor

import "strings"

/******************** 有效性过滤 ********************/

// MaxRideMinutes 单次骑行时长上限(24小时)，超出按录入错误处理
const MaxRideMinutes = 1440.0

// FilterStats 各过滤阶段的行数审计
type FilterStats struct {
	Input                 int // 过滤前行数
	DroppedMissingStation int // 因站点字段缺失被剔除
	AfterStationCheck     int // 站点检查后剩余
	DroppedBadDuration    int // 因时长越界被剔除
	Output                int // 最终清洗后行数
}

// CleanRecords 剔除无效记录，返回清洗后的集合及各阶段计数
// 记录要么完整保留要么整条剔除，没有修复/填补步骤；剔除不视为错误
//
// 阶段顺序固定:
//  1. 必填检查: 四个站点字段任一缺失即剔除(先于时长检查上报，
//     缺站点的行时长可能仍然有效，必须先显式排除)
//  2. 区间检查: 仅保留 0 < ride_length <= 1440 分钟
func CleanRecords(records []TripRecord) ([]TripRecord, FilterStats) {
	stats := FilterStats{Input: len(records)}

	withStations := make([]TripRecord, 0, len(records))
	for _, r := range records {
		if missingValue(r.StartStationID) || missingValue(r.StartStationName) ||
			missingValue(r.EndStationID) || missingValue(r.EndStationName) {
			stats.DroppedMissingStation++
			continue
		}
		withStations = append(withStations, r)
	}
	stats.AfterStationCheck = len(withStations)

	cleaned := make([]TripRecord, 0, len(withStations))
	for _, r := range withStations {
		if r.RideLength <= 0 || r.RideLength > MaxRideMinutes {
			stats.DroppedBadDuration++
			continue
		}
		cleaned = append(cleaned, r)
	}
	stats.Output = len(cleaned)

	return cleaned, stats
}

// missingValue 字符串型字段的缺失判定
// 原始表格的空单元和NA/NaN/null占位都算缺失
func missingValue(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "na", "nan", "null":
		return true
	}
	return false
}
