package ingest

import (
	"path/filepath"
	"testing"

	"psgc-api/internal/psgc"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

// 构造一个最小发布表：表头 + 数据行（含 K 列状态）
func writeFixture(t *testing.T) string {
	t.Helper()
	f := excelize.NewFile()
	sheet := "PSGC"
	_, err := f.NewSheet(sheet)
	require.NoError(t, err)
	rows := [][]any{
		{"10-digit PSGC", "Name", "Correspondence Code", "Geographic Level", "Old names",
			"City Class", "Income Classification", "Urban / Rural", "2020 Population", "", "Status"},
		{"0100000000", "Region I (Ilocos Region)", "10000000", "Reg", "", "", "", "", "5301139"},
		{"0102800000", "Ilocos Norte", "12800000.0", "Prov", "", "", "1st", "", "609588", "", ""},
		{"0102801001", "Adams (Pob.)", "12801001.0", "Bgy", "", "", "", "R", "2189", "", ""},
		{"", "footnote row"},
	}
	for i, row := range rows {
		cellName, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cellName, &row))
	}
	path := filepath.Join(t.TempDir(), "psgc.xlsx")
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())
	return path
}

func TestReadWorkbook(t *testing.T) {
	path := writeFixture(t)
	rows, err := ReadWorkbook(path, "PSGC")
	require.NoError(t, err)
	// 表头已跳过，空行保留（由归一化层过滤）
	require.Len(t, rows, 4)
	assert.Equal(t, "0100000000", rows[0].Code)
	assert.Equal(t, "Region I (Ilocos Region)", rows[0].Name)
	assert.Equal(t, "Prov", rows[1].GeoLevel)
	assert.Equal(t, "R", rows[2].UrbanRural)
	// 短行缺列给空串
	assert.Equal(t, "", rows[3].GeoLevel)
}

func TestParseWorkbook(t *testing.T) {
	path := writeFixture(t)
	records, warns, err := ParseWorkbook(path, "PSGC")
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, psgc.LevelRegion, records[0].Level)
	assert.Equal(t, psgc.LevelProvince, records[1].Level)
	assert.Equal(t, psgc.LevelBarangay, records[2].Level)
	// ".0" 噪声被去除且不告警
	assert.Equal(t, "12800000", records[1].CorrespondenceCode)
	assert.Equal(t, 0, warns.Len())
	require.NotNil(t, records[2].Population)
	assert.Equal(t, int64(2189), *records[2].Population)
}

func TestReadWorkbookMissingSheet(t *testing.T) {
	path := writeFixture(t)
	_, err := ReadWorkbook(path, "NOPE")
	assert.Error(t, err)
}
