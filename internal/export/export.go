package export

import (
	"encoding/csv"
	"encoding/json"
	"os"
	"strconv"

	"psgc-api/internal/logger"
	"psgc-api/internal/psgc"
)

// WriteJSON：扁平记录集写为 JSON 数组文件（带缩进，便于直接查阅）
func WriteJSON(path string, records []psgc.Record) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(FlattenAll(records)); err != nil {
		return err
	}
	logger.L().Info("export_json_ok", "path", path, "records", len(records))
	return nil
}

// WriteNDJSON：每行一条记录的行式 JSON，便于流式消费与增量加载
func WriteNDJSON(path string, records []psgc.Record) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	enc := json.NewEncoder(f)
	enc.SetEscapeHTML(false)
	for _, r := range records {
		if err := enc.Encode(Flatten(r)); err != nil {
			return err
		}
	}
	logger.L().Info("export_ndjson_ok", "path", path, "records", len(records))
	return nil
}

// csvHeader：列序与 FlatRecord 字段序一致
var csvHeader = []string{
	"psgc_code", "name", "correspondence_code", "geographic_level", "old_names",
	"city_class", "income_classification", "urban_rural", "population_2020", "status",
	"region_code", "province_code", "municipality_code", "barangay_code", "admin_level",
	"is_region", "is_province", "is_city_municipality", "is_submunicipality",
	"is_barangay", "is_special_area",
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// WriteCSV：扁平记录集写为 CSV；缺失值落为空单元格
func WriteCSV(path string, records []psgc.Record) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	w := csv.NewWriter(f)
	if err := w.Write(csvHeader); err != nil {
		return err
	}
	for _, r := range records {
		fr := Flatten(r)
		pop := ""
		if fr.Population2020 != nil {
			pop = strconv.FormatInt(*fr.Population2020, 10)
		}
		row := []string{
			fr.PSGCCode, fr.Name, deref(fr.CorrespondenceCode), deref(fr.GeographicLevel),
			deref(fr.OldNames), deref(fr.CityClass), deref(fr.IncomeClass),
			deref(fr.UrbanRural), pop, deref(fr.Status),
			deref(fr.RegionCode), deref(fr.ProvinceCode), deref(fr.MunicipalityCode),
			deref(fr.BarangayCode), fr.AdminLevel,
			strconv.FormatBool(fr.IsRegion), strconv.FormatBool(fr.IsProvince),
			strconv.FormatBool(fr.IsCityMunicipality), strconv.FormatBool(fr.IsSubMunicipality),
			strconv.FormatBool(fr.IsBarangay), strconv.FormatBool(fr.IsSpecialArea),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return err
	}
	logger.L().Info("export_csv_ok", "path", path, "records", len(records))
	return nil
}

// WriteHierarchyJSON：层级树写为嵌套 JSON，子表按源表行序保序
func WriteHierarchyJSON(path string, tree *psgc.NodeMap[*psgc.RegionNode]) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(tree); err != nil {
		return err
	}
	logger.L().Info("export_hierarchy_ok", "path", path, "regions", tree.Len())
	return nil
}
