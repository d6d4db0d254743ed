// merge.go
package processor

import (
	"fmt"
	"strings"

	"RideInsight/src/utils"
)

/******************** 数据集合并 ********************/

// Merge 将N个已规范化的数据集按输入顺序拼接为一个
// 不去重、不调和跨源重复的ride_id；输出行数恒等于各输入行数之和
//
// 前置条件: 各输入必须暴露完全一致的规范列集合，
// 多列或缺列时合并失败并指明出问题的列
func Merge(datasets ...*Dataset) (*Dataset, error) {
	if len(datasets) == 0 {
		return &Dataset{Source: "merged", Columns: CanonicalColumns()}, nil
	}

	total := 0
	base := datasets[0].Columns
	for _, ds := range datasets {
		if err := checkColumns(base, ds); err != nil {
			return nil, err
		}
		total += len(ds.Records)
	}

	merged := make([]TripRecord, 0, total)
	var sources []string
	for _, ds := range datasets {
		merged = append(merged, ds.Records...)
		sources = append(sources, ds.Source)
	}

	return &Dataset{
		Source:  strings.Join(sources, "+"),
		Columns: CanonicalColumns(),
		Records: merged,
	}, nil
}

// checkColumns 校验数据集列集合与基准一致
func checkColumns(base []string, ds *Dataset) error {
	var missing, extra []string
	for _, c := range base {
		if !utils.Contains(ds.Columns, c) {
			missing = append(missing, c)
		}
	}
	for _, c := range ds.Columns {
		if !utils.Contains(base, c) {
			extra = append(extra, c)
		}
	}

	if len(missing) == 0 && len(extra) == 0 {
		return nil
	}

	msg := fmt.Sprintf("模式不匹配: 数据集 %s", ds.Source)
	if len(missing) > 0 {
		msg += fmt.Sprintf(" 缺少列 [%s]", strings.Join(missing, ", "))
	}
	if len(extra) > 0 {
		msg += fmt.Sprintf(" 多出列 [%s]", strings.Join(extra, ", "))
	}
	return fmt.Errorf("%s", msg)
}
