// summary.go
package report

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"RideInsight/src/processor"
)

/******************** 汇总报表输出 ********************/

// 三张汇总表各占一个工作表
const (
	SheetByRiderType = "按用户类型"
	SheetByDay       = "按星期"
	SheetByHour      = "按小时"
)

// WriteSummaryWorkbook 把聚合器的三张汇总表写成一个工作簿
// 这是展示边界的唯一数据交接物，图表/报告生成方只消费这份工作簿和清洗快照
func WriteSummaryWorkbook(result *processor.Result, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("创建输出目录失败: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := writeRiderTypeSheet(f, result.ByRiderType); err != nil {
		return err
	}
	if err := writeDaySheet(f, result.ByDay); err != nil {
		return err
	}
	if err := writeHourSheet(f, result.ByHour); err != nil {
		return err
	}

	// 去掉excelize默认创建的Sheet1
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return fmt.Errorf("删除默认工作表失败: %w", err)
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("保存汇总工作簿失败: %w", err)
	}
	return nil
}

func writeRiderTypeSheet(f *excelize.File, stats []processor.CategoryStat) error {
	if _, err := f.NewSheet(SheetByRiderType); err != nil {
		return fmt.Errorf("创建工作表失败: %w", err)
	}

	headers := []string{"member_casual", "count", "mean_minutes", "median_minutes"}
	if err := writeHeader(f, SheetByRiderType, headers); err != nil {
		return err
	}

	for i, s := range stats {
		row := i + 2
		setRow(f, SheetByRiderType, row, s.MemberCasual, s.Count, s.MeanMinutes, s.MedianMinutes)
	}
	return nil
}

func writeDaySheet(f *excelize.File, stats []processor.CategoryDayStat) error {
	if _, err := f.NewSheet(SheetByDay); err != nil {
		return fmt.Errorf("创建工作表失败: %w", err)
	}

	headers := []string{"member_casual", "day_of_week", "count", "mean_minutes"}
	if err := writeHeader(f, SheetByDay, headers); err != nil {
		return err
	}

	for i, s := range stats {
		row := i + 2
		setRow(f, SheetByDay, row, s.MemberCasual, s.DayOfWeek, s.Count, s.MeanMinutes)
	}
	return nil
}

func writeHourSheet(f *excelize.File, stats []processor.CategoryHourStat) error {
	if _, err := f.NewSheet(SheetByHour); err != nil {
		return fmt.Errorf("创建工作表失败: %w", err)
	}

	headers := []string{"member_casual", "hour_of_day", "count", "mean_minutes"}
	if err := writeHeader(f, SheetByHour, headers); err != nil {
		return err
	}

	for i, s := range stats {
		row := i + 2
		setRow(f, SheetByHour, row, s.MemberCasual, s.HourOfDay, s.Count, s.MeanMinutes)
	}
	return nil
}

func writeHeader(f *excelize.File, sheet string, headers []string) error {
	for i, h := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return err
		}
	}
	return nil
}

func setRow(f *excelize.File, sheet string, row int, values ...interface{}) {
	for i, v := range values {
		cell, _ := excelize.CoordinatesToCellName(i+1, row)
		f.SetCellValue(sheet, cell, v)
	}
}
