// record.go
package processor

import "time"

/******************** 规范数据模型 ********************/

// SourceVariant 数据源变体标识
// legacy: 旧版导出(trip_id/usertype列名体系)
// canonical: 新版导出(已使用规范列名)
type SourceVariant string

const (
	VariantLegacy    SourceVariant = "legacy"
	VariantCanonical SourceVariant = "canonical"
)

// TripRecord 规范化后的单条骑行记录
// 规范化边界完成一次类型校验，下游各阶段不再按列名取值
type TripRecord struct {
	RideID           string    // 骑行编号(统一为字符串，跨源拼接安全)
	StartedAt        time.Time // 开始时间(无时区)
	EndedAt          time.Time // 结束时间(无时区)
	StartStationID   string    // 起点站编号
	StartStationName string    // 起点站名称
	EndStationID     string    // 终点站编号
	EndStationName   string    // 终点站名称
	MemberCasual     string    // 用户类型: casual / member
	RideLength       float64   // 派生: 骑行时长(分钟)
	DayOfWeek        string    // 派生: 星期标签(Sun..Sat)
	HourOfDay        int       // 派生: 开始小时(0-23)
}

// Dataset 一个数据源规范化后的记录集合
type Dataset struct {
	Source  string       // 来源标识(文件名等)
	Columns []string     // 规范列集合(合并前做一致性检查)
	Records []TripRecord // 记录按源内原始顺序
}

// canonicalColumns 规范列名全集，顺序即快照输出顺序
var canonicalColumns = []string{
	"ride_id",
	"started_at",
	"ended_at",
	"start_station_id",
	"start_station_name",
	"end_station_id",
	"end_station_name",
	"member_casual",
}

// legacyColumns 旧版列名到规范列名的静态映射表(必须显式穷举)
var legacyColumns = map[string]string{
	"ride_id":            "trip_id",
	"started_at":         "start_time",
	"ended_at":           "end_time",
	"start_station_id":   "from_station_id",
	"start_station_name": "from_station_name",
	"end_station_id":     "to_station_id",
	"end_station_name":   "to_station_name",
	"member_casual":      "usertype",
}

// riderTypes 旧版用户类型取值映射
// 未命中的取值原样保留，由NormalizeStats计数上报
var riderTypes = map[string]string{
	"Customer":   "casual",
	"Subscriber": "member",
}

// weekdayLabels 星期标签闭集，周日起始，顺序固定以保证分组输出可复现
var weekdayLabels = [7]string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}

// CanonicalColumns 返回规范列名(副本)
func CanonicalColumns() []string {
	cols := make([]string, len(canonicalColumns))
	copy(cols, canonicalColumns)
	return cols
}

// weekdayIndex 星期标签在固定顺序中的下标，未知标签排在最后
func weekdayIndex(label string) int {
	for i, l := range weekdayLabels {
		if l == label {
			return i
		}
	}
	return len(weekdayLabels)
}
