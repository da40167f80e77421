// 包 ingest：PSGC 发布表读取与批量入库逻辑，作为离线数据通道
package ingest

import (
	"psgc-api/internal/logger"
	"psgc-api/internal/psgc"

	"github.com/xuri/excelize/v2"
)

// 官方发布文件的列位映射（A 起始下标 0）
// 背景：表头文案随季度发布微调，按列位取值比按表头名匹配稳定
const (
	colCode           = 0  // A: 10-digit PSGC
	colName           = 1  // B: Name
	colCorrespondence = 2  // C: Correspondence Code
	colGeoLevel       = 3  // D: Geographic Level
	colOldNames       = 4  // E: Old names
	colCityClass      = 5  // F: City Class
	colIncomeClass    = 6  // G: Income Classification
	colUrbanRural     = 7  // H: Urban / Rural
	colPopulation     = 8  // I: 2020 Population
	colStatus         = 10 // K: Status
)

// cell：越界安全取列值，短行缺列给空串
func cell(cols []string, i int) string {
	if i < 0 || i >= len(cols) {
		return ""
	}
	return cols[i]
}

// ReadWorkbook：流式读取发布表并按列位映射为原始行
// 背景：发布文件约 4.3 万行，用行迭代器避免整表载入；首行表头跳过
// 异常：文件或工作表不存在直接返回错误，交由调用方决定重试或退出
func ReadWorkbook(path, sheet string) ([]psgc.RawRow, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	rows, err := f.Rows(sheet)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []psgc.RawRow
	first := true
	for rows.Next() {
		cols, err := rows.Columns()
		if err != nil {
			return nil, err
		}
		if first {
			first = false
			continue
		}
		out = append(out, psgc.RawRow{
			Code:           cell(cols, colCode),
			Name:           cell(cols, colName),
			Correspondence: cell(cols, colCorrespondence),
			GeoLevel:       cell(cols, colGeoLevel),
			OldNames:       cell(cols, colOldNames),
			CityClass:      cell(cols, colCityClass),
			IncomeClass:    cell(cols, colIncomeClass),
			UrbanRural:     cell(cols, colUrbanRural),
			Population:     cell(cols, colPopulation),
			Status:         cell(cols, colStatus),
		})
	}
	if err := rows.Error(); err != nil {
		return nil, err
	}
	logger.L().Info("workbook_read_ok", "path", path, "sheet", sheet, "rows", len(out))
	return out, nil
}

// ParseWorkbook：读取 + 整批归一化，保持行序
func ParseWorkbook(path, sheet string) ([]psgc.Record, *psgc.WarningList, error) {
	rows, err := ReadWorkbook(path, sheet)
	if err != nil {
		return nil, nil, err
	}
	records, warns := psgc.NormalizeAll(rows)
	logger.L().Info("workbook_parse_ok", "records", len(records), "warnings", warns.Len())
	return records, warns, nil
}
