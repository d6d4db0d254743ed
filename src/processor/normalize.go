// normalize.go
package processor

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/go-gota/gota/dataframe"

	"RideInsight/src/utils"
)

/******************** 模式规范化 ********************/

// NormalizeStats 规范化过程的可上报计数
type NormalizeStats struct {
	Rows              int            // 输入行数
	UnmappedRiderType map[string]int // 未命中映射表的用户类型取值及出现次数
}

// timeLayouts 时间戳候选格式，全部解析失败视为整批模式错误
var timeLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006/01/02 15:04:05",
	"2006/01/02 15:04",
	"2006-01-02T15:04:05",
}

// DetectVariant 通过表头嗅探数据源变体
// 含trip_id判定为旧版，含ride_id判定为规范版，两者皆无为模式错误
func DetectVariant(df dataframe.DataFrame) (SourceVariant, error) {
	if utils.HasColumn(df, "trip_id") {
		return VariantLegacy, nil
	}
	if utils.HasColumn(df, "ride_id") {
		return VariantCanonical, nil
	}
	return "", fmt.Errorf("无法识别数据源变体: 表头缺少 trip_id 与 ride_id，实际列 %v", df.Names())
}

// Normalize 将原始行集合映射为规范记录集合
// 纯转换，不读写任何持久状态；输入dataframe的所有列按字符串读取
//
// 规则:
//  1. 按静态映射表把旧版列名换成规范列名(规范版为恒等映射)
//  2. 用户类型 Customer->casual、Subscriber->member，未知取值原样保留并计数
//  3. ride_id 统一为字符串表示(表格源的整型id去掉尾部.0)
//  4. 时间戳解析失败 -> 整批中止(说明变体被误判，而不是个别脏行)
//  5. 规范版输入若携带已算好的派生列(ride_length等)一律忽略，
//     派生值以特征阶段为唯一事实来源
func Normalize(df dataframe.DataFrame, variant SourceVariant, source string) (*Dataset, *NormalizeStats, error) {
	cols, err := resolveColumns(df, variant)
	if err != nil {
		return nil, nil, err
	}

	stats := &NormalizeStats{
		Rows:              df.Nrow(),
		UnmappedRiderType: make(map[string]int),
	}

	// 每个规范列的原始字符串值
	values := make(map[string][]string, len(cols))
	for canonical, raw := range cols {
		values[canonical] = df.Col(raw).Records()
	}

	records := make([]TripRecord, 0, df.Nrow())
	for i := 0; i < df.Nrow(); i++ {
		startedAt, err := parseTimestamp(values["started_at"][i])
		if err != nil {
			return nil, nil, fmt.Errorf("%s 第%d行 started_at 解析失败: %w", source, i+1, err)
		}
		endedAt, err := parseTimestamp(values["ended_at"][i])
		if err != nil {
			return nil, nil, fmt.Errorf("%s 第%d行 ended_at 解析失败: %w", source, i+1, err)
		}

		records = append(records, TripRecord{
			RideID:           coerceRideID(values["ride_id"][i]),
			StartedAt:        startedAt,
			EndedAt:          endedAt,
			StartStationID:   strings.TrimSpace(values["start_station_id"][i]),
			StartStationName: strings.TrimSpace(values["start_station_name"][i]),
			EndStationID:     strings.TrimSpace(values["end_station_id"][i]),
			EndStationName:   strings.TrimSpace(values["end_station_name"][i]),
			MemberCasual:     mapRiderType(values["member_casual"][i], stats),
		})
	}

	return &Dataset{
		Source:  source,
		Columns: CanonicalColumns(),
		Records: records,
	}, stats, nil
}

// resolveColumns 解析每个规范列对应的原始列名
// 缺列一次性收齐后整批报错，不做隐式的按位置映射
func resolveColumns(df dataframe.DataFrame, variant SourceVariant) (map[string]string, error) {
	cols := make(map[string]string, len(canonicalColumns))
	var missing []string

	for _, canonical := range canonicalColumns {
		raw := canonical
		if variant == VariantLegacy {
			raw = legacyColumns[canonical]
		}
		if !utils.HasColumn(df, raw) {
			missing = append(missing, raw)
			continue
		}
		cols[canonical] = raw
	}

	if len(missing) > 0 {
		return nil, fmt.Errorf("模式错误(%s变体): 缺少列 %s", variant, strings.Join(missing, ", "))
	}
	return cols, nil
}

// parseTimestamp 依次尝试候选格式解析时间戳(无时区)
func parseTimestamp(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("不支持的时间格式 %q", s)
}

// coerceRideID 把骑行编号统一为字符串
// 表格工具会把整型id导成42.0这样的浮点字面量，这里还原成42
func coerceRideID(s string) string {
	s = strings.TrimSpace(s)
	if !strings.Contains(s, ".") {
		return s
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil && f == math.Trunc(f) {
		return strconv.FormatInt(int64(f), 10)
	}
	return s
}

// mapRiderType 翻译用户类型取值，未知取值原样放行并计数
func mapRiderType(s string, stats *NormalizeStats) string {
	s = strings.TrimSpace(s)
	if mapped, ok := riderTypes[s]; ok {
		return mapped
	}
	if s != "casual" && s != "member" {
		stats.UnmappedRiderType[s]++
	}
	return s
}
