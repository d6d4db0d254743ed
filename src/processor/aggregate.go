// aggregate.go
package processor

import "sort"

/******************** 分组统计 ********************/

// CategoryStat 按用户类型的统计行
type CategoryStat struct {
	MemberCasual  string
	Count         int
	MeanMinutes   float64
	MedianMinutes float64
}

// CategoryDayStat 按(用户类型,星期)的统计行
type CategoryDayStat struct {
	MemberCasual string
	DayOfWeek    string
	Count        int
	MeanMinutes  float64
}

// CategoryHourStat 按(用户类型,小时)的统计行
type CategoryHourStat struct {
	MemberCasual string
	HourOfDay    int
	Count        int
	MeanMinutes  float64
}

// accumulator 分组归约的运行中累加器，收尾时折算为均值/中位数
type accumulator struct {
	count  int
	sum    float64
	values []float64
}

func (a *accumulator) add(v float64) {
	a.count++
	a.sum += v
	a.values = append(a.values, v)
}

func (a *accumulator) mean() float64 {
	if a.count == 0 {
		return 0
	}
	return a.sum / float64(a.count)
}

// median 中位数，偶数个取中间两数均值
func (a *accumulator) median() float64 {
	n := len(a.values)
	if n == 0 {
		return 0
	}
	sorted := make([]float64, n)
	copy(sorted, a.values)
	sort.Float64s(sorted)
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}

// AggregateByRiderType 按用户类型分组: 行数、均值、中位数
// 仅对清洗后的数据调用；空输入得到空表，不是错误
// 无状态，可随时从清洗集合重新推出
func AggregateByRiderType(records []TripRecord) []CategoryStat {
	groups := make(map[string]*accumulator)
	for _, r := range records {
		acc, ok := groups[r.MemberCasual]
		if !ok {
			acc = &accumulator{}
			groups[r.MemberCasual] = acc
		}
		acc.add(r.RideLength)
	}

	out := make([]CategoryStat, 0, len(groups))
	for key, acc := range groups {
		out = append(out, CategoryStat{
			MemberCasual:  key,
			Count:         acc.count,
			MeanMinutes:   acc.mean(),
			MedianMinutes: acc.median(),
		})
	}
	// 固定输出顺序，保证下游渲染可复现
	sort.Slice(out, func(i, j int) bool { return out[i].MemberCasual < out[j].MemberCasual })
	return out
}

// AggregateByRiderTypeAndDay 按(用户类型,星期)分组: 行数、均值
// 输出按用户类型字典序、星期按周日起始的固定顺序
func AggregateByRiderTypeAndDay(records []TripRecord) []CategoryDayStat {
	type key struct {
		rider string
		day   string
	}
	groups := make(map[key]*accumulator)
	for _, r := range records {
		k := key{rider: r.MemberCasual, day: r.DayOfWeek}
		acc, ok := groups[k]
		if !ok {
			acc = &accumulator{}
			groups[k] = acc
		}
		acc.add(r.RideLength)
	}

	out := make([]CategoryDayStat, 0, len(groups))
	for k, acc := range groups {
		out = append(out, CategoryDayStat{
			MemberCasual: k.rider,
			DayOfWeek:    k.day,
			Count:        acc.count,
			MeanMinutes:  acc.mean(),
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].MemberCasual != out[j].MemberCasual {
			return out[i].MemberCasual < out[j].MemberCasual
		}
		return weekdayIndex(out[i].DayOfWeek) < weekdayIndex(out[j].DayOfWeek)
	})
	return out
}

// AggregateByRiderTypeAndHour 按(用户类型,小时)分组: 行数、均值
// 输出按用户类型字典序、小时升序
func AggregateByRiderTypeAndHour(records []TripRecord) []CategoryHourStat {
	type key struct {
		rider string
		hour  int
	}
	groups := make(map[key]*accumulator)
	for _, r := range records {
		k := key{rider: r.MemberCasual, hour: r.HourOfDay}
		acc, ok := groups[k]
		if !ok {
			acc = &accumulator{}
			groups[k] = acc
		}
		acc.add(r.RideLength)
	}

	out := make([]CategoryHourStat, 0, len(groups))
	for k, acc := range groups {
		out = append(out, CategoryHourStat{
			MemberCasual: k.rider,
			HourOfDay:    k.hour,
			Count:        acc.count,
			MeanMinutes:  acc.mean(),
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].MemberCasual != out[j].MemberCasual {
			return out[i].MemberCasual < out[j].MemberCasual
		}
		return out[i].HourOfDay < out[j].HourOfDay
	})
	return out
}
