// features.go
package processor

/******************** 特征派生 ********************/

// ComputeFeatures 为每条记录计算派生特征
// 逐条独立计算，与行序无关；返回新切片，不改动输入
//
//   - ride_length: 结束减开始，分钟，浮点
//     时间戳前后颠倒时结果为负，这里不过滤(派生与校验分离，过滤是下一阶段的事)
//   - day_of_week: 由started_at的日历日期得到的星期标签(Sun..Sat)
//   - hour_of_day: started_at的小时部分(0-23)，按解析出的本地时间，不做时区换算
func ComputeFeatures(records []TripRecord) []TripRecord {
	out := make([]TripRecord, len(records))
	for i, r := range records {
		r.RideLength = r.EndedAt.Sub(r.StartedAt).Minutes()
		r.DayOfWeek = weekdayLabels[int(r.StartedAt.Weekday())]
		r.HourOfDay = r.StartedAt.Hour()
		out[i] = r
	}
	return out
}
