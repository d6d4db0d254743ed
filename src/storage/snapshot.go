// snapshot.go
package storage

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"RideInsight/src/utils"
)

/******************** 清洗快照持久化 ********************/

// WriteSnapshotCSV 将清洗后的数据集写出为CSV快照
// 这是管道唯一的持久化产物；列类型(浮点时长/字符串类别/时间戳)原样保留，
// 展示层直接基于快照重算统计，不再重新派生特征
func WriteSnapshotCSV(df dataframe.DataFrame, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("创建输出目录失败: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("创建快照文件失败: %w", err)
	}
	defer f.Close()

	if err := df.WriteCSV(f); err != nil {
		return fmt.Errorf("写入快照失败: %w", err)
	}
	return nil
}

// LoadSnapshotCSV 读回CSV快照(全部按字符串读取，类型还原交给调用方)
func LoadSnapshotCSV(path string) (dataframe.DataFrame, error) {
	f, err := os.Open(path)
	if err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("打开快照失败: %w", err)
	}
	defer f.Close()

	df := dataframe.ReadCSV(f,
		dataframe.DetectTypes(false),
		dataframe.DefaultType(series.String),
	)
	if df.Error() != nil {
		return dataframe.DataFrame{}, fmt.Errorf("解析快照失败: %w", df.Error())
	}
	return df, nil
}

// WriteSnapshotXLSX 同一份快照的Excel镜像，便于人工抽查
func WriteSnapshotXLSX(df dataframe.DataFrame, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("创建输出目录失败: %w", err)
	}
	return utils.SaveToExcel(df, path)
}
