package ingest

import (
	"database/sql"
	"psgc-api/internal/logger"
	"psgc-api/internal/metrics"
	"psgc-api/internal/psgc"
)

const upsertRecordSQL = `INSERT INTO _psgc_records(
        code, name, correspondence_code, geographic_level, old_names,
        city_class, income_classification, urban_rural, population_2020, status,
        region_code, province_code, municipality_code, barangay_code, admin_level)
    VALUES($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15)
    ON CONFLICT (code) DO UPDATE SET
        name=EXCLUDED.name,
        correspondence_code=EXCLUDED.correspondence_code,
        geographic_level=EXCLUDED.geographic_level,
        old_names=EXCLUDED.old_names,
        city_class=EXCLUDED.city_class,
        income_classification=EXCLUDED.income_classification,
        urban_rural=EXCLUDED.urban_rural,
        population_2020=EXCLUDED.population_2020,
        barangay_code=EXCLUDED.barangay_code,
        municipality_code=EXCLUDED.municipality_code,
        province_code=EXCLUDED.province_code,
        region_code=EXCLUDED.region_code,
        status=EXCLUDED.status,
        admin_level=EXCLUDED.admin_level,
        updated_at=now()`

// nullable：空串落库为 NULL，保持"缺失"语义
func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func nullableSeg(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}

func nullableInt(n *int64) any {
	if n == nil {
		return nil
	}
	return *n
}

// ImportRecords：整批 UPSERT 归一化记录，5000 行一批提交
// 背景：分批提交降低锁持有与 WAL 压力；同码冲突后写覆盖（最新发布为准）
// 异常：数据库错误直接返回，不做重试（交由调度层处理）
func ImportRecords(db *sql.DB, records []psgc.Record) error {
	logger.L().Info("import_begin", "records", len(records))
	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(upsertRecordSQL)
	if err != nil {
		return err
	}
	defer stmt.Close()

	count := 0
	for _, r := range records {
		_, err = stmt.Exec(
			r.Code, r.Name, nullable(r.CorrespondenceCode), nullable(r.GeoLevel),
			nullable(r.OldNames), nullable(r.CityClass), nullable(r.IncomeClass),
			nullable(r.UrbanRural), nullableInt(r.Population), nullable(r.Status),
			nullableSeg(r.Segments.Region), nullableSeg(r.Segments.Province),
			nullableSeg(r.Segments.Locality), nullableSeg(r.Segments.Barangay),
			string(r.Level),
		)
		if err != nil {
			return err
		}
		count++
		metrics.IngestRowsTotal.Inc()
		if count%5000 == 0 {
			logger.L().Info("import_progress", "count", count)
			if err = tx.Commit(); err != nil {
				return err
			}
			tx, err = db.Begin()
			if err != nil {
				return err
			}
			stmt, err = tx.Prepare(upsertRecordSQL)
			if err != nil {
				return err
			}
		}
	}
	if err = tx.Commit(); err != nil {
		return err
	}
	logger.L().Info("import_done", "count", count)
	return nil
}

// ImportWarnings：对应码告警整体替换入库
// 背景：告警面向"当前这次发布"的数据质量报告，保留旧批次没有意义
func ImportWarnings(db *sql.DB, warns *psgc.WarningList) error {
	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()
	if _, err := tx.Exec("DELETE FROM _psgc_warnings"); err != nil {
		return err
	}
	stmt, err := tx.Prepare("INSERT INTO _psgc_warnings(code, name, raw_value) VALUES($1,$2,$3)")
	if err != nil {
		return err
	}
	defer stmt.Close()
	for _, w := range warns.Items() {
		if _, err := stmt.Exec(w.Code, w.Name, w.Raw); err != nil {
			return err
		}
		metrics.IngestWarningsTotal.Inc()
	}
	return tx.Commit()
}

// ImportWorkbook：读表 → 归一化 → 记录与告警双入库
func ImportWorkbook(db *sql.DB, path, sheet string) error {
	records, warns, err := ParseWorkbook(path, sheet)
	if err != nil {
		return err
	}
	if err := ImportRecords(db, records); err != nil {
		return err
	}
	if err := ImportWarnings(db, warns); err != nil {
		return err
	}
	logger.L().Info("workbook_import_done", "records", len(records), "warnings", warns.Len())
	return nil
}
