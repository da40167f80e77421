package migrate

import (
	"database/sql"
	"psgc-api/internal/logger"
)

// 背景：首次运行自动创建所需表与索引，保障后续导入与查询
// 约束：使用 IF NOT EXISTS 避免与既有结构冲突；仅创建最小必需结构
func EnsureSchema(db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS _psgc_records (
            code TEXT PRIMARY KEY,
            name TEXT NOT NULL,
            correspondence_code TEXT,
            geographic_level TEXT,
            old_names TEXT,
            city_class TEXT,
            income_classification TEXT,
            urban_rural TEXT,
            population_2020 BIGINT,
            status TEXT,
            region_code TEXT,
            province_code TEXT,
            municipality_code TEXT,
            barangay_code TEXT,
            admin_level TEXT NOT NULL,
            updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
        )`,
		`CREATE INDEX IF NOT EXISTS idx_psgc_admin_level ON _psgc_records(admin_level)`,
		`CREATE INDEX IF NOT EXISTS idx_psgc_region_seg ON _psgc_records(region_code)`,
		`CREATE INDEX IF NOT EXISTS idx_psgc_province_seg ON _psgc_records(region_code, province_code)`,
		`CREATE INDEX IF NOT EXISTS idx_psgc_locality_seg ON _psgc_records(region_code, province_code, municipality_code)`,
		`CREATE INDEX IF NOT EXISTS idx_psgc_name_lower ON _psgc_records(lower(name))`,
		`CREATE TABLE IF NOT EXISTS _psgc_warnings (
            id SERIAL PRIMARY KEY,
            code TEXT NOT NULL,
            name TEXT,
            raw_value TEXT NOT NULL,
            created_at TIMESTAMPTZ NOT NULL DEFAULT now()
        )`,
		`CREATE TABLE IF NOT EXISTS _psgc_stats_total (
            id INT PRIMARY KEY,
            total_queries BIGINT NOT NULL DEFAULT 0,
            total_visitors BIGINT NOT NULL DEFAULT 0
        )`,
		`CREATE TABLE IF NOT EXISTS _psgc_stats_daily (
            day DATE PRIMARY KEY,
            queries BIGINT NOT NULL DEFAULT 0,
            visitors BIGINT NOT NULL DEFAULT 0
        )`,
		`INSERT INTO _psgc_stats_total(id, total_queries, total_visitors)
         VALUES(1, 0, 0)
         ON CONFLICT (id) DO NOTHING`,
	}
	for i, s := range stmts {
		logger.L().Debug("schema_exec", "idx", i)
		if _, err := db.Exec(s); err != nil {
			return err
		}
	}
	logger.L().Debug("schema_done")
	return nil
}
