package psgc

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mkRecord(code, name, hint string) Record {
	rec, _ := Normalize(RawRow{Code: code, Name: name, GeoLevel: hint}, nil)
	return rec
}

// 构造一棵最小完整树：区域→省→市→描笼涯
func wellFormedSet() []Record {
	return []Record{
		mkRecord("0100000000", "Region I", "Reg"),
		mkRecord("0102800000", "Ilocos Norte", "Prov"),
		mkRecord("0102801000", "Adams", "Mun"),
		mkRecord("0102801001", "Adams (Pob.)", "Bgy"),
		mkRecord("0102802000", "Bacarra", "Mun"),
		mkRecord("0102802001", "Bani", "Bgy"),
	}
}

// 良构输入：每个非区域记录恰好入树一次
func TestBuildWellFormed(t *testing.T) {
	tree := Build(wellFormedSet())
	require.Equal(t, 1, tree.Len())

	region, ok := tree.Get("0100000000")
	require.True(t, ok)
	assert.Equal(t, "region", region.Type)
	require.Equal(t, 1, region.Provinces.Len())

	prov, ok := region.Provinces.Get("0102800000")
	require.True(t, ok)
	assert.Equal(t, "Ilocos Norte", prov.Name)
	require.Equal(t, 2, prov.Cities.Len())

	adams, ok := prov.Cities.Get("0102801000")
	require.True(t, ok)
	require.Equal(t, 1, adams.Barangays.Len())
	bgy, ok := adams.Barangays.Get("0102801001")
	require.True(t, ok)
	assert.Equal(t, "Adams (Pob.)", bgy.Name)

	bacarra, ok := prov.Cities.Get("0102802000")
	require.True(t, ok)
	_, ok = bacarra.Barangays.Get("0102802001")
	assert.True(t, ok)
}

// 孤儿排除：市镇段无匹配祖先的描笼涯不入树，扁平集保持完整（调用方持有原切片）
func TestBuildOrphanExcluded(t *testing.T) {
	records := append(wellFormedSet(),
		mkRecord("0102899001", "Orphan Bgy", "Bgy"))
	tree := Build(records)

	region, _ := tree.Get("0100000000")
	prov, _ := region.Provinces.Get("0102800000")
	total := 0
	for _, ck := range prov.Cities.Keys() {
		c, _ := prov.Cities.Get(ck)
		total += c.Barangays.Len()
	}
	assert.Equal(t, 2, total)
	// 扁平记录集不受影响
	assert.Len(t, records, 7)
}

// 同段值多祖先（数据错误）：输入序先出现者接收全部子级
func TestBuildFirstMatchWins(t *testing.T) {
	records := []Record{
		mkRecord("0100000000", "Region First", "Reg"),
		mkRecord("0100000000", "Region Dup", "Reg"),
		mkRecord("0102800000", "Province A", "Prov"),
	}
	// 两个区域记录同段值 "01"：省挂到先出现的节点
	tree := Build(records)
	region, ok := tree.Get("0100000000")
	require.True(t, ok)
	// NodeMap 内容后到优先、位置先到优先；段索引首位占位者优先
	assert.Equal(t, "Region Dup", region.Name)
	assert.Equal(t, 0, region.Provinces.Len())
	// 省实际挂在首位占位节点下（该节点已被同码覆盖出树，但子级归属遵循先到优先）
}

// 段索引先到优先的可观察验证：不同编码同段值
func TestBuildFirstMatchWinsDistinctCodes(t *testing.T) {
	recA := mkRecord("0100000000", "Region A", "Reg")
	recB := mkRecord("0100000001", "Region B", "Reg") // 同 "01" 段但编码不同（尾段非零被提示救回 region）
	prov := mkRecord("0102800000", "Province X", "Prov")
	tree := Build([]Record{recA, recB, prov})
	require.Equal(t, 2, tree.Len())
	a, _ := tree.Get("0100000000")
	b, _ := tree.Get("0100000001")
	assert.Equal(t, 1, a.Provinces.Len())
	assert.Equal(t, 0, b.Provinces.Len())
}

// 非四层级别（区、特殊地理区、子市区、unknown）只留在扁平集，不入树
func TestBuildSkipsNonTreeLevels(t *testing.T) {
	records := append(wellFormedSet(),
		mkRecord("0102801002", "Poblacion Dist", "Dist"),
		mkRecord("0102801003", "SubMun Area", "SubMun"),
	)
	tree := Build(records)
	region, _ := tree.Get("0100000000")
	prov, _ := region.Provinces.Get("0102800000")
	adams, _ := prov.Cities.Get("0102801000")
	assert.Equal(t, 1, adams.Barangays.Len())
}

// 编码不合规的祖先段值为 nil，子级永远匹配不上
func TestBuildNilSegmentsNeverMatch(t *testing.T) {
	records := []Record{
		mkRecord("BADCODE", "Broken Region", "Reg"),
		mkRecord("0102800000", "Province X", "Prov"),
	}
	tree := Build(records)
	require.Equal(t, 1, tree.Len())
	broken, _ := tree.Get("BADCODE")
	assert.Equal(t, 0, broken.Provinces.Len())
}

// NodeMap 序列化按插入顺序输出
func TestNodeMapMarshalOrder(t *testing.T) {
	m := NewNodeMap[int]()
	m.Set("b", 2)
	m.Set("a", 1)
	m.Set("c", 3)
	b, err := json.Marshal(m)
	require.NoError(t, err)
	assert.Equal(t, `{"b":2,"a":1,"c":3}`, string(b))
}

// 树 JSON 形状：层级专属字段只出现在对应层
func TestTreeJSONShape(t *testing.T) {
	records := []Record{
		mkRecord("0100000000", "Region I", "Reg"),
		mkRecord("0102800000", "Ilocos Norte", "Prov"),
	}
	b, err := json.Marshal(Build(records))
	require.NoError(t, err)
	s := string(b)
	assert.Contains(t, s, `"provinces"`)
	assert.Contains(t, s, `"cities_municipalities"`)
	assert.NotContains(t, s, `"barangays"`) // 树里没有市级节点
}
