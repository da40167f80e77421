// 包 export：归一化记录集与层级树的序列化出口（JSON/CSV/NDJSON/层级 JSON）
package export

import (
	"psgc-api/internal/psgc"
)

// FlatRecord：扁平记录的对外序列化模型
// 背景：字段名沿用官方数据消费侧的既有约定（psgc_code/municipality_code/...），
// 布尔标志在此处由层级标签投影生成，保证与标签永远一致
// 约束：字段稳定，新增需评估下游兼容性
type FlatRecord struct {
	PSGCCode           string  `json:"psgc_code"`
	Name               string  `json:"name"`
	CorrespondenceCode *string `json:"correspondence_code"`
	GeographicLevel    *string `json:"geographic_level"`
	OldNames           *string `json:"old_names"`
	CityClass          *string `json:"city_class"`
	IncomeClass        *string `json:"income_classification"`
	UrbanRural         *string `json:"urban_rural"`
	Population2020     *int64  `json:"population_2020"`
	Status             *string `json:"status"`
	RegionCode         *string `json:"region_code"`
	ProvinceCode       *string `json:"province_code"`
	MunicipalityCode   *string `json:"municipality_code"`
	BarangayCode       *string `json:"barangay_code"`
	AdminLevel         string  `json:"admin_level"`
	IsRegion           bool    `json:"is_region"`
	IsProvince         bool    `json:"is_province"`
	IsCityMunicipality bool    `json:"is_city_municipality"`
	IsSubMunicipality  bool    `json:"is_submunicipality"`
	IsBarangay         bool    `json:"is_barangay"`
	IsSpecialArea      bool    `json:"is_special_area"`
}

// optional：空串序列化为 null，保持"缺失"语义
func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// Flatten：归一化记录 → 扁平序列化模型
func Flatten(r psgc.Record) FlatRecord {
	return FlatRecord{
		PSGCCode:           r.Code,
		Name:               r.Name,
		CorrespondenceCode: optional(r.CorrespondenceCode),
		GeographicLevel:    optional(r.GeoLevel),
		OldNames:           optional(r.OldNames),
		CityClass:          optional(r.CityClass),
		IncomeClass:        optional(r.IncomeClass),
		UrbanRural:         optional(r.UrbanRural),
		Population2020:     r.Population,
		Status:             optional(r.Status),
		RegionCode:         r.Segments.Region,
		ProvinceCode:       r.Segments.Province,
		MunicipalityCode:   r.Segments.Locality,
		BarangayCode:       r.Segments.Barangay,
		AdminLevel:         string(r.Level),
		IsRegion:           r.Level.IsRegion(),
		IsProvince:         r.Level.IsProvince(),
		IsCityMunicipality: r.Level.IsCityMunicipality(),
		IsSubMunicipality:  r.Level.IsSubMunicipality(),
		IsBarangay:         r.Level.IsBarangay(),
		IsSpecialArea:      r.Level.IsSpecialArea(),
	}
}

// FlattenAll：整批投影，保持输入顺序
func FlattenAll(records []psgc.Record) []FlatRecord {
	out := make([]FlatRecord, len(records))
	for i, r := range records {
		out[i] = Flatten(r)
	}
	return out
}
