package export

import (
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"psgc-api/internal/psgc"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleRecords() []psgc.Record {
	rows := []psgc.RawRow{
		{Code: "0100000000", Name: "Region I", GeoLevel: "Reg", Correspondence: "10000000.0"},
		{Code: "0102800000", Name: "Ilocos Norte", GeoLevel: "Prov", IncomeClass: "1st"},
		{Code: "0102801000", Name: "Adams", GeoLevel: "Mun"},
		{Code: "0102801001", Name: "Adams (Pob.)", GeoLevel: "Bgy", UrbanRural: "R", Population: "2189"},
		// 孤儿：市镇段 99 无匹配市/镇
		{Code: "0102899001", Name: "Orphan Bgy", GeoLevel: "Bgy"},
	}
	recs, _ := psgc.NormalizeAll(rows)
	return recs
}

// 标志一致性：与层级标签恰好一一对应
func TestFlattenFlags(t *testing.T) {
	for _, fr := range FlattenAll(sampleRecords()) {
		n := 0
		for _, on := range []bool{fr.IsRegion, fr.IsProvince, fr.IsCityMunicipality,
			fr.IsSubMunicipality, fr.IsBarangay, fr.IsSpecialArea} {
			if on {
				n++
			}
		}
		assert.Equal(t, 1, n, "code=%s", fr.PSGCCode)
	}
}

// 缺失字段序列化为 null，段值保留前导零
func TestWriteJSONRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "psgc_data.json")
	require.NoError(t, WriteJSON(path, sampleRecords()))

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	var out []map[string]any
	require.NoError(t, json.Unmarshal(b, &out))
	require.Len(t, out, 5)
	assert.Equal(t, "0100000000", out[0]["psgc_code"])
	assert.Equal(t, "10000000", out[0]["correspondence_code"])
	assert.Nil(t, out[0]["city_class"])
	assert.Equal(t, "01", out[0]["region_code"])
	assert.Equal(t, true, out[0]["is_region"])
	assert.Equal(t, "barangay", out[3]["admin_level"])
	assert.Equal(t, float64(2189), out[3]["population_2020"])
}

func TestWriteCSVRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "psgc_data.csv")
	require.NoError(t, WriteCSV(path, sampleRecords()))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 6) // 表头 + 5 行
	assert.Equal(t, csvHeader, rows[0])
	assert.Equal(t, "0102801001", rows[4][0])
	assert.Equal(t, "2189", rows[4][8])
	assert.Equal(t, "true", rows[4][19]) // is_barangay
}

func TestWriteNDJSONLineCount(t *testing.T) {
	path := filepath.Join(t.TempDir(), "psgc_data.ndjson")
	recs := sampleRecords()
	require.NoError(t, WriteNDJSON(path, recs))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	dec := json.NewDecoder(f)
	n := 0
	for dec.More() {
		var fr FlatRecord
		require.NoError(t, dec.Decode(&fr))
		n++
	}
	assert.Equal(t, len(recs), n)
}

// 层级文件：孤儿不出现在树里，但扁平导出保持完整（见 WriteJSON 的 5 条）
func TestWriteHierarchyJSONOrphanExcluded(t *testing.T) {
	recs := sampleRecords()
	path := filepath.Join(t.TempDir(), "psgc_hierarchy.json")
	require.NoError(t, WriteHierarchyJSON(path, psgc.Build(recs)))

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	s := string(b)
	assert.Contains(t, s, `"Adams (Pob.)"`)
	assert.NotContains(t, s, `"Orphan Bgy"`)
	assert.Contains(t, s, `"cities_municipalities"`)
}
