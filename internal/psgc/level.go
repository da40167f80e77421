package psgc

import "strings"

// AdminLevel：行政层级标签，闭集
type AdminLevel string

const (
	LevelRegion           AdminLevel = "region"
	LevelProvince         AdminLevel = "province"
	LevelCityMunicipality AdminLevel = "city_municipality"
	LevelSubMunicipality  AdminLevel = "sub_municipality"
	LevelBarangay         AdminLevel = "barangay"
	LevelDistrict         AdminLevel = "district"
	LevelSpecialArea      AdminLevel = "special_area"
	LevelUnknown          AdminLevel = "unknown"
)

// hintRules：层级提示词的有序匹配表，自上而下首个命中生效
// 约束：顺序不可调整。"submun" 必须先于 "mun"，否则子市区会被误判为市/镇；
// "prov" 先于 "city"/"mun" 以免 "Province" 文案被误触发
var hintRules = []struct {
	substrs []string
	level   AdminLevel
}{
	{[]string{"submun"}, LevelSubMunicipality},
	{[]string{"reg"}, LevelRegion},
	{[]string{"prov"}, LevelProvince},
	{[]string{"city", "mun"}, LevelCityMunicipality},
	{[]string{"bgy", "brgy", "barangay"}, LevelBarangay},
	{[]string{"dist"}, LevelDistrict},
}

// Classify：确定记录的行政层级
// 背景：提示字段（Geographic Level 列）可信时优先，它承载编码结构看不出的类别
//（如 sub_municipality）；提示缺失或不可识别时退回编码结构推断，保证任何记录都有层级
// 约束：提示缺失时先检查名称特例（"not a province"/"special geographic area"）；
// 纯函数，同输入必同输出
func Classify(levelHint string, name string, segs Segments) AdminLevel {
	hint := strings.ToLower(strings.TrimSpace(levelHint))
	if hint == "" {
		n := strings.ToLower(name)
		if strings.Contains(n, "not a province") {
			return LevelCityMunicipality
		}
		if strings.Contains(n, "special geographic area") {
			return LevelSpecialArea
		}
		return classifyBySegments(segs)
	}
	for _, r := range hintRules {
		for _, s := range r.substrs {
			if strings.Contains(hint, s) {
				return r.level
			}
		}
	}
	return classifyBySegments(segs)
}

// classifyBySegments：按编码结构推断层级
// 背景：尾段非零即归属该层；四段全零或全 nil 时为 unknown
func classifyBySegments(s Segments) AdminLevel {
	switch {
	case s.Barangay != nil && *s.Barangay != "000":
		return LevelBarangay
	case s.Locality != nil && *s.Locality != "00":
		return LevelCityMunicipality
	case s.Province != nil && *s.Province != "000":
		return LevelProvince
	case s.Region != nil && *s.Region != "00":
		return LevelRegion
	}
	return LevelUnknown
}

// 布尔便捷标志：只读投影，永远由层级标签推导，禁止独立赋值

func (l AdminLevel) IsRegion() bool           { return l == LevelRegion }
func (l AdminLevel) IsProvince() bool         { return l == LevelProvince }
func (l AdminLevel) IsCityMunicipality() bool { return l == LevelCityMunicipality }
func (l AdminLevel) IsSubMunicipality() bool  { return l == LevelSubMunicipality }
func (l AdminLevel) IsBarangay() bool         { return l == LevelBarangay }
func (l AdminLevel) IsSpecialArea() bool      { return l == LevelSpecialArea }
