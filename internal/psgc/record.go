package psgc

import (
	"strconv"
	"strings"
)

// RawRow：外部行来源提供的一行原始数据，字段已按列位映射命名
// 背景：行来源（表格读取器）只负责按列位取值；空单元格给空串
type RawRow struct {
	Code           string
	Name           string
	Correspondence string
	GeoLevel       string
	OldNames       string
	CityClass      string
	IncomeClass    string
	UrbanRural     string
	Population     string
	Status         string
}

// Record：归一化记录，编码唯一键 + 派生分类字段
// 约束：空串表示对应字段缺失；Level 为唯一权威层级，布尔标志一律经 Level 方法派生
type Record struct {
	Code               string
	Name               string
	CorrespondenceCode string
	GeoLevel           string
	OldNames           string
	CityClass          string
	IncomeClass        string
	UrbanRural         string
	Population         *int64
	Status             string
	Segments           Segments
	Level              AdminLevel
}

// Normalize：单行原始数据 → 归一化记录
// 背景：依次完成编码拆段、对应码校验（告警进收集器）、人口归一与层级判定
// 返回 ok=false 表示该行无编码（表头残留、备注行），应跳过
func Normalize(row RawRow, warns *WarningList) (Record, bool) {
	code := strings.TrimSpace(row.Code)
	if code == "" {
		return Record{}, false
	}
	name := strings.TrimSpace(row.Name)
	segs := Decompose(code)
	corr, warn := ValidateCorrespondence(row.Correspondence)
	if warn && warns != nil {
		warns.Add(code, name, strings.TrimSpace(row.Correspondence))
	}
	rec := Record{
		Code:               code,
		Name:               name,
		CorrespondenceCode: corr,
		GeoLevel:           strings.TrimSpace(row.GeoLevel),
		OldNames:           strings.TrimSpace(row.OldNames),
		CityClass:          strings.TrimSpace(row.CityClass),
		IncomeClass:        strings.TrimSpace(row.IncomeClass),
		UrbanRural:         strings.TrimSpace(row.UrbanRural),
		Population:         normalizePopulation(row.Population),
		Status:             strings.TrimSpace(row.Status),
		Segments:           segs,
	}
	rec.Level = Classify(rec.GeoLevel, rec.Name, segs)
	return rec, true
}

// NormalizeAll：整批行 → 记录集 + 告警列表，保持输入行序
// 约束：层级树的"先到优先"决胜依赖此处的稳定顺序，不得并行乱序
func NormalizeAll(rows []RawRow) ([]Record, *WarningList) {
	warns := &WarningList{}
	out := make([]Record, 0, len(rows))
	for _, row := range rows {
		rec, ok := Normalize(row, warns)
		if !ok {
			continue
		}
		out = append(out, rec)
	}
	return out, warns
}

// normalizePopulation：空值与 "-" 占位符归一为缺失；其余按浮点解析后截断取整
// 约束：表格单元格可能带千分位格式，先剥离；无法解析的值按缺失处理，不中断整行
func normalizePopulation(v string) *int64 {
	v = strings.TrimSpace(v)
	if v == "" || v == "-" {
		return nil
	}
	v = strings.ReplaceAll(v, ",", "")
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return nil
	}
	n := int64(f)
	return &n
}
