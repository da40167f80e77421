package psgc

import (
	"bytes"
	"encoding/json"
)

// NodeMap：按插入顺序保序的 编码→节点 映射
// 背景：树按 code 索引子节点，但序列化输出需跟随源表行序；Go map 无序，需显式保序
// 约束：重复键覆盖值但保留首次插入的位置（内容后到优先，顺序先到优先）
type NodeMap[T any] struct {
	keys []string
	m    map[string]T
}

func NewNodeMap[T any]() *NodeMap[T] {
	return &NodeMap[T]{m: make(map[string]T)}
}

func (n *NodeMap[T]) Set(k string, v T) {
	if _, ok := n.m[k]; !ok {
		n.keys = append(n.keys, k)
	}
	n.m[k] = v
}

func (n *NodeMap[T]) Get(k string) (T, bool) {
	v, ok := n.m[k]
	return v, ok
}

func (n *NodeMap[T]) Len() int { return len(n.keys) }

// Keys：插入顺序的键副本
func (n *NodeMap[T]) Keys() []string {
	out := make([]string, len(n.keys))
	copy(out, n.keys)
	return out
}

// MarshalJSON：按插入顺序输出 JSON 对象
func (n *NodeMap[T]) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range n.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		kb, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		buf.Write(kb)
		buf.WriteByte(':')
		vb, err := json.Marshal(n.m[k])
		if err != nil {
			return nil, err
		}
		buf.Write(vb)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// 四层节点各自独立建模，叶子（描笼涯）结构上没有子表
// 背景：层级专属字段（市级的 city_class、描笼涯的人口）只出现在对应层，避免共享可变字典

type RegionNode struct {
	Code      string                   `json:"code"`
	Name      string                   `json:"name"`
	Type      string                   `json:"type"`
	Provinces *NodeMap[*ProvinceNode] `json:"provinces"`
}

type ProvinceNode struct {
	Code   string                            `json:"code"`
	Name   string                            `json:"name"`
	Type   string                            `json:"type"`
	Cities *NodeMap[*CityMunicipalityNode] `json:"cities_municipalities"`
}

type CityMunicipalityNode struct {
	Code        string                    `json:"code"`
	Name        string                    `json:"name"`
	Type        string                    `json:"type"`
	CityClass   string                    `json:"city_class"`
	IncomeClass string                    `json:"income_classification"`
	Barangays   *NodeMap[*BarangayNode] `json:"barangays"`
}

type BarangayNode struct {
	Code       string `json:"code"`
	Name       string `json:"name"`
	Type       string `json:"type"`
	UrbanRural string `json:"urban_rural"`
	Population *int64 `json:"population_2020"`
}

// Build：将完整归一化记录集组装为 区域→省→市/镇→描笼涯 四层树
// 背景：四趟逐层扫描；子级凭段值等值匹配挂到祖先下，同段值多祖先时输入序先出现者胜；
// 找不到祖先的记录（孤儿）静默不入树，扁平记录集中仍保留
// 约束：需要完整记录集（禁止流式），任何子级都可能引用更早输出的祖先；
// 构建后树只读。段值索引仅为免去逐父全量重扫，可见行为与朴素扫描一致
func Build(records []Record) *NodeMap[*RegionNode] {
	regions := NewNodeMap[*RegionNode]()

	// 段值→节点索引，首位占位者优先；nil 段不入索引，永不被子级匹配到
	regionBySeg := make(map[string]*RegionNode)
	provinceBySeg := make(map[[2]string]*ProvinceNode)
	cityBySeg := make(map[[3]string]*CityMunicipalityNode)

	for _, r := range records {
		if !r.Level.IsRegion() {
			continue
		}
		n := &RegionNode{
			Code:      r.Code,
			Name:      r.Name,
			Type:      string(LevelRegion),
			Provinces: NewNodeMap[*ProvinceNode](),
		}
		regions.Set(r.Code, n)
		if r.Segments.Region != nil {
			if _, ok := regionBySeg[*r.Segments.Region]; !ok {
				regionBySeg[*r.Segments.Region] = n
			}
		}
	}

	for _, r := range records {
		if !r.Level.IsProvince() || r.Segments.Region == nil {
			continue
		}
		parent, ok := regionBySeg[*r.Segments.Region]
		if !ok {
			continue
		}
		n := &ProvinceNode{
			Code:   r.Code,
			Name:   r.Name,
			Type:   string(LevelProvince),
			Cities: NewNodeMap[*CityMunicipalityNode](),
		}
		parent.Provinces.Set(r.Code, n)
		if r.Segments.Province != nil {
			key := [2]string{*r.Segments.Region, *r.Segments.Province}
			if _, ok := provinceBySeg[key]; !ok {
				provinceBySeg[key] = n
			}
		}
	}

	for _, r := range records {
		if !r.Level.IsCityMunicipality() || r.Segments.Region == nil || r.Segments.Province == nil {
			continue
		}
		parent, ok := provinceBySeg[[2]string{*r.Segments.Region, *r.Segments.Province}]
		if !ok {
			continue
		}
		n := &CityMunicipalityNode{
			Code:        r.Code,
			Name:        r.Name,
			Type:        string(LevelCityMunicipality),
			CityClass:   r.CityClass,
			IncomeClass: r.IncomeClass,
			Barangays:   NewNodeMap[*BarangayNode](),
		}
		parent.Cities.Set(r.Code, n)
		if r.Segments.Locality != nil {
			key := [3]string{*r.Segments.Region, *r.Segments.Province, *r.Segments.Locality}
			if _, ok := cityBySeg[key]; !ok {
				cityBySeg[key] = n
			}
		}
	}

	for _, r := range records {
		if !r.Level.IsBarangay() || r.Segments.Region == nil || r.Segments.Province == nil || r.Segments.Locality == nil {
			continue
		}
		parent, ok := cityBySeg[[3]string{*r.Segments.Region, *r.Segments.Province, *r.Segments.Locality}]
		if !ok {
			continue
		}
		parent.Barangays.Set(r.Code, &BarangayNode{
			Code:       r.Code,
			Name:       r.Name,
			Type:       string(LevelBarangay),
			UrbanRural: r.UrbanRural,
			Population: r.Population,
		})
	}

	return regions
}
