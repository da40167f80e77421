// 包 store：PostgreSQL 数据访问层，提供记录查询、层级子集与统计读写
package store

import (
	"context"
	"database/sql"
	"psgc-api/internal/logger"
	"psgc-api/internal/psgc"

	_ "github.com/lib/pq"
)

// Store：数据库访问入口，持有连接池并提供查询/统计接口
type Store struct {
	db *sql.DB
}

func AttachDB(db *sql.DB) *Store { return &Store{db: db} }

// Open：使用 DSN 打开数据库连接并配置连接池参数
func Open(dsn string) (*Store, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(50)
	db.SetMaxIdleConns(25)
	return &Store{db: db}, nil
}

func (s *Store) Close() error { return s.db.Close() }

func (s *Store) DB() *sql.DB { return s.db }

const recordColumns = `code, name, correspondence_code, geographic_level, old_names,
    city_class, income_classification, urban_rural, population_2020, status,
    region_code, province_code, municipality_code, barangay_code, admin_level`

// scanRecord：行 → 归一化记录；NULL 列还原为空串/nil，保持"缺失"语义
func scanRecord(sc interface{ Scan(...any) error }) (psgc.Record, error) {
	var r psgc.Record
	var corr, geo, old, cc, inc, ur, status sql.NullString
	var pop sql.NullInt64
	var segR, segP, segM, segB sql.NullString
	var level string
	err := sc.Scan(&r.Code, &r.Name, &corr, &geo, &old, &cc, &inc, &ur, &pop, &status,
		&segR, &segP, &segM, &segB, &level)
	if err != nil {
		return psgc.Record{}, err
	}
	r.CorrespondenceCode = corr.String
	r.GeoLevel = geo.String
	r.OldNames = old.String
	r.CityClass = cc.String
	r.IncomeClass = inc.String
	r.UrbanRural = ur.String
	r.Status = status.String
	if pop.Valid {
		v := pop.Int64
		r.Population = &v
	}
	if segR.Valid {
		v := segR.String
		r.Segments.Region = &v
	}
	if segP.Valid {
		v := segP.String
		r.Segments.Province = &v
	}
	if segM.Valid {
		v := segM.String
		r.Segments.Locality = &v
	}
	if segB.Valid {
		v := segB.String
		r.Segments.Barangay = &v
	}
	r.Level = psgc.AdminLevel(level)
	return r, nil
}

// LookupCode：按编码查询单条记录；未命中返回 (nil, nil)
func (s *Store) LookupCode(ctx context.Context, code string) (*psgc.Record, error) {
	logger.L().Debug("db_lookup_begin", "code", code)
	row := s.db.QueryRowContext(ctx,
		"SELECT "+recordColumns+" FROM _psgc_records WHERE code=$1", code)
	r, err := scanRecord(row)
	if err == sql.ErrNoRows {
		logger.L().Debug("db_lookup_miss", "code", code)
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	logger.L().Debug("db_lookup_done", "code", code, "level", string(r.Level))
	return &r, nil
}

func (s *Store) queryRecords(ctx context.Context, q string, args ...any) ([]psgc.Record, error) {
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []psgc.Record
	for rows.Next() {
		r, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// Children：按段值等值匹配返回直接子级
// 背景：与层级树同一匹配规则——省凭区域段、市凭区域+省段、描笼涯凭三段；
// 描笼涯与其余层级（district/sub_municipality 等）没有子级
func (s *Store) Children(ctx context.Context, parent *psgc.Record) ([]psgc.Record, error) {
	segs := parent.Segments
	switch {
	case parent.Level.IsRegion() && segs.Region != nil:
		return s.queryRecords(ctx,
			"SELECT "+recordColumns+" FROM _psgc_records WHERE admin_level=$1 AND region_code=$2 ORDER BY code",
			string(psgc.LevelProvince), *segs.Region)
	case parent.Level.IsProvince() && segs.Region != nil && segs.Province != nil:
		return s.queryRecords(ctx,
			"SELECT "+recordColumns+" FROM _psgc_records WHERE admin_level=$1 AND region_code=$2 AND province_code=$3 ORDER BY code",
			string(psgc.LevelCityMunicipality), *segs.Region, *segs.Province)
	case parent.Level.IsCityMunicipality() && segs.Region != nil && segs.Province != nil && segs.Locality != nil:
		return s.queryRecords(ctx,
			"SELECT "+recordColumns+" FROM _psgc_records WHERE admin_level=$1 AND region_code=$2 AND province_code=$3 AND municipality_code=$4 ORDER BY code",
			string(psgc.LevelBarangay), *segs.Region, *segs.Province, *segs.Locality)
	}
	return nil, nil
}

// Search：名称不区分大小写的包含匹配，按编码排序截断
func (s *Store) Search(ctx context.Context, q string, limit int) ([]psgc.Record, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	return s.queryRecords(ctx,
		"SELECT "+recordColumns+" FROM _psgc_records WHERE lower(name) LIKE '%'||lower($1)||'%' ORDER BY code LIMIT $2",
		q, limit)
}

// LoadAll：全量载入记录集，供内存快照构建
func (s *Store) LoadAll(ctx context.Context) ([]psgc.Record, error) {
	return s.queryRecords(ctx, "SELECT "+recordColumns+" FROM _psgc_records ORDER BY code")
}

// LevelCounts：各行政层级的记录数
func (s *Store) LevelCounts(ctx context.Context) (map[string]int64, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT admin_level, COUNT(1) FROM _psgc_records GROUP BY admin_level")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make(map[string]int64)
	for rows.Next() {
		var level string
		var n int64
		if err := rows.Scan(&level, &n); err != nil {
			return nil, err
		}
		out[level] = n
	}
	return out, rows.Err()
}

// Warnings：当前批次的对应码告警
func (s *Store) Warnings(ctx context.Context) ([]psgc.Warning, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT code, COALESCE(name,''), raw_value FROM _psgc_warnings ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []psgc.Warning
	for rows.Next() {
		var w psgc.Warning
		if err := rows.Scan(&w.Code, &w.Name, &w.Raw); err != nil {
			return nil, err
		}
		out = append(out, w)
	}
	return out, rows.Err()
}

// IncrStats：成功查询后递增总计与当日计数；首见访客时递增访客计数
func (s *Store) IncrStats(ctx context.Context, newVisitor bool) error {
	_, _ = s.db.ExecContext(ctx, "UPDATE _psgc_stats_total SET total_queries=total_queries+1 WHERE id=1")
	_, _ = s.db.ExecContext(ctx, "INSERT INTO _psgc_stats_daily(day, queries) VALUES(current_date, 1) ON CONFLICT (day) DO UPDATE SET queries=_psgc_stats_daily.queries+1")
	if newVisitor {
		_, _ = s.db.ExecContext(ctx, "UPDATE _psgc_stats_total SET total_visitors=total_visitors+1 WHERE id=1")
		_, _ = s.db.ExecContext(ctx, "INSERT INTO _psgc_stats_daily(day, visitors) VALUES(current_date, 1) ON CONFLICT (day) DO UPDATE SET visitors=_psgc_stats_daily.visitors+1")
	}
	logger.L().Debug("stats_incr", "new_visitor", newVisitor)
	return nil
}

// Totals：统计返回结构，包含累计与当日查询次数
type Totals struct {
	Total int64
	Today int64
}

// GetTotals：读取累计与当日查询次数，用于接口返回
func (s *Store) GetTotals(ctx context.Context) (*Totals, error) {
	var t Totals
	row := s.db.QueryRowContext(ctx, "SELECT total_queries FROM _psgc_stats_total WHERE id=1")
	_ = row.Scan(&t.Total)
	row2 := s.db.QueryRowContext(ctx, "SELECT queries FROM _psgc_stats_daily WHERE day=current_date")
	_ = row2.Scan(&t.Today)
	logger.L().Debug("stats_totals", "total", t.Total, "today", t.Today)
	return &t, nil
}
