// reader.go
package file

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/tealeg/xlsx"
	"golang.org/x/text/encoding/simplifiedchinese"
	"golang.org/x/text/transform"
)

/******************** 原始数据读取 ********************/

// ReadCSVToDataFrame 读取CSV为DataFrame
// 所有列一律按字符串读入，类型校验统一放在规范化边界做，
// 下游不再按列逐次推断类型
//
// encoding为"gbk"/"gb2312"时先转UTF-8(本地化工具导出的CSV)
func ReadCSVToDataFrame(filePath, encoding string) (dataframe.DataFrame, error) {
	f, err := os.Open(filePath)
	if err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("打开CSV失败: %w", err)
	}
	defer f.Close()

	var r io.Reader = f
	switch strings.ToLower(encoding) {
	case "gbk", "gb2312":
		r = transform.NewReader(f, simplifiedchinese.GBK.NewDecoder())
	}

	df := dataframe.ReadCSV(r,
		dataframe.DetectTypes(false),
		dataframe.DefaultType(series.String),
	)
	if df.Error() != nil {
		return dataframe.DataFrame{}, fmt.Errorf("解析CSV失败: %w", df.Error())
	}
	return df, nil
}

// ReadXLSXToDataFrame 读取Excel工作表为DataFrame
// sheetName为空时取第一个工作表
func ReadXLSXToDataFrame(filePath, sheetName string) (dataframe.DataFrame, error) {
	xlFile, err := xlsx.OpenFile(filePath)
	if err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("打开xlsx失败: %w", err)
	}
	return sheetToDataFrame(xlFile, sheetName)
}

// ReadXLSXBytes 从内存中的xlsx内容读取(邮件附件场景)
func ReadXLSXBytes(data []byte, sheetName string) (dataframe.DataFrame, error) {
	xlFile, err := xlsx.OpenBinary(data)
	if err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("解析xlsx内容失败: %w", err)
	}
	return sheetToDataFrame(xlFile, sheetName)
}

// sheetToDataFrame 将xlsx.Sheet转换为dataframe.DataFrame
// 行程导出的第一行即标题行，数据从第二行开始
func sheetToDataFrame(xlFile *xlsx.File, sheetName string) (dataframe.DataFrame, error) {
	if len(xlFile.Sheets) == 0 {
		return dataframe.DataFrame{}, fmt.Errorf("excel文件中没有工作表")
	}

	sheet := xlFile.Sheets[0]
	if sheetName != "" {
		s, ok := xlFile.Sheet[sheetName]
		if !ok {
			return dataframe.DataFrame{}, fmt.Errorf("找不到工作表 %s", sheetName)
		}
		sheet = s
	}

	if len(sheet.Rows) < 1 {
		return dataframe.DataFrame{}, fmt.Errorf("工作表 %s 为空", sheet.Name)
	}

	// 获取列名(第一行是标题行)
	var headers []string
	for _, cell := range sheet.Rows[0].Cells {
		headers = append(headers, cell.Value)
	}

	// 准备数据列
	columns := make([][]string, len(headers))
	for i := range columns {
		columns[i] = make([]string, 0, len(sheet.Rows)-1)
	}

	// 填充数据(从第二行开始)，短行用空串补齐保持列等长
	for _, row := range sheet.Rows[1:] {
		for i := range headers {
			if i < len(row.Cells) {
				columns[i] = append(columns[i], row.Cells[i].Value)
			} else {
				columns[i] = append(columns[i], "")
			}
		}
	}

	// 创建Series切片
	seriesList := make([]series.Series, len(headers))
	for i, colName := range headers {
		seriesList[i] = series.New(columns[i], series.String, colName)
	}

	return dataframe.New(seriesList...), nil
}

// DiscoverSources 列出数据目录下的全部行程导出文件(csv/xlsx)
// 返回按文件名排序的完整路径，保证多次运行处理顺序一致
func DiscoverSources(dataDir string) ([]string, error) {
	entries, err := os.ReadDir(dataDir)
	if err != nil {
		return nil, fmt.Errorf("读取数据目录失败: %w", err)
	}

	var paths []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(entry.Name())) {
		case ".csv", ".xlsx":
			paths = append(paths, filepath.Join(dataDir, entry.Name()))
		}
	}
	sort.Strings(paths)
	return paths, nil
}
