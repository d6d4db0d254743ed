package file

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx"
)

const sampleCSV = `trip_id,start_time,end_time,from_station_id,from_station_name,to_station_id,to_station_name,usertype
42,2019-01-01 08:00:00,2019-01-01 08:15:00,77,Clark St,88,Wells St,Subscriber
43,2019-01-02 17:30:00,2019-01-02 17:50:00,77,Clark St,90,State St,Customer
`

func TestReadCSVToDataFrame(t *testing.T) {
	path := filepath.Join(t.TempDir(), "2019_q1.csv")
	require.NoError(t, os.WriteFile(path, []byte(sampleCSV), 0644))

	df, err := ReadCSVToDataFrame(path, "")
	require.NoError(t, err)

	assert.Equal(t, 2, df.Nrow())
	assert.Contains(t, df.Names(), "trip_id")
	// 一律按字符串读入，类型校验留给规范化边界
	assert.Equal(t, "42", df.Col("trip_id").Records()[0])
	assert.Equal(t, "Subscriber", df.Col("usertype").Records()[0])
}

func TestReadCSVMissingFile(t *testing.T) {
	_, err := ReadCSVToDataFrame(filepath.Join(t.TempDir(), "nope.csv"), "")
	assert.Error(t, err)
}

func TestReadXLSXToDataFrame(t *testing.T) {
	path := filepath.Join(t.TempDir(), "2020_q2.xlsx")
	writeSampleXLSX(t, path)

	df, err := ReadXLSXToDataFrame(path, "")
	require.NoError(t, err)
	assert.Equal(t, 1, df.Nrow())
	assert.Equal(t, "A1", df.Col("ride_id").Records()[0])
	// 短行用空串补齐
	assert.Equal(t, "", df.Col("member_casual").Records()[0])
}

func TestReadXLSXNamedSheet(t *testing.T) {
	path := filepath.Join(t.TempDir(), "2020_q2.xlsx")
	writeSampleXLSX(t, path)

	_, err := ReadXLSXToDataFrame(path, "不存在的表")
	assert.Error(t, err)

	df, err := ReadXLSXToDataFrame(path, "行程")
	require.NoError(t, err)
	assert.Equal(t, 1, df.Nrow())
}

func writeSampleXLSX(t *testing.T, path string) {
	t.Helper()

	f := xlsx.NewFile()
	sheet, err := f.AddSheet("行程")
	require.NoError(t, err)

	header := sheet.AddRow()
	for _, h := range []string{"ride_id", "started_at", "ended_at", "member_casual"} {
		header.AddCell().Value = h
	}
	row := sheet.AddRow()
	// 故意少最后一格，验证补齐逻辑
	for _, v := range []string{"A1", "2020-04-01 09:00:00", "2020-04-01 09:30:00"} {
		row.AddCell().Value = v
	}

	require.NoError(t, f.Save(path))
}

func TestDiscoverSources(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b_q2.csv"), []byte("x\n1\n"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a_q1.CSV"), []byte("x\n1\n"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("skip"), 0644))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "archive"), 0755))

	paths, err := DiscoverSources(dir)
	require.NoError(t, err)
	require.Len(t, paths, 2)
	// 按文件名排序，保证多次运行处理顺序一致
	assert.Equal(t, filepath.Join(dir, "a_q1.CSV"), paths[0])
	assert.Equal(t, filepath.Join(dir, "b_q2.csv"), paths[1])
}
