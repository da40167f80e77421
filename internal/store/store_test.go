package store

import (
	"context"
	"testing"

	"psgc-api/internal/psgc"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var recordCols = []string{
	"code", "name", "correspondence_code", "geographic_level", "old_names",
	"city_class", "income_classification", "urban_rural", "population_2020", "status",
	"region_code", "province_code", "municipality_code", "barangay_code", "admin_level",
}

func TestLookupCodeHit(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	rows := sqlmock.NewRows(recordCols).AddRow(
		"0102800000", "Ilocos Norte", "12800000", "Prov", nil,
		nil, "1st", nil, int64(609588), nil,
		"01", "028", "00", "000", "province")
	mock.ExpectQuery("FROM _psgc_records WHERE code=\\$1").
		WithArgs("0102800000").WillReturnRows(rows)

	st := AttachDB(db)
	rec, err := st.LookupCode(context.Background(), "0102800000")
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, "Ilocos Norte", rec.Name)
	assert.Equal(t, psgc.LevelProvince, rec.Level)
	require.NotNil(t, rec.Segments.Province)
	assert.Equal(t, "028", *rec.Segments.Province)
	require.NotNil(t, rec.Population)
	assert.Equal(t, int64(609588), *rec.Population)
	// NULL 列还原为空串
	assert.Equal(t, "", rec.OldNames)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// 未命中返回 (nil, nil)，不报错
func TestLookupCodeMiss(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("FROM _psgc_records WHERE code=\\$1").
		WithArgs("9999999999").WillReturnRows(sqlmock.NewRows(recordCols))

	st := AttachDB(db)
	rec, err := st.LookupCode(context.Background(), "9999999999")
	require.NoError(t, err)
	assert.Nil(t, rec)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// 子级查询与层级树同规则：区域→省 凭区域段等值
func TestChildrenOfRegion(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	rows := sqlmock.NewRows(recordCols).AddRow(
		"0102800000", "Ilocos Norte", nil, "Prov", nil, nil, nil, nil, nil, nil,
		"01", "028", "00", "000", "province")
	mock.ExpectQuery("WHERE admin_level=\\$1 AND region_code=\\$2").
		WithArgs("province", "01").WillReturnRows(rows)

	parent, _ := psgc.Normalize(psgc.RawRow{Code: "0100000000", Name: "Region I", GeoLevel: "Reg"}, nil)
	st := AttachDB(db)
	kids, err := st.Children(context.Background(), &parent)
	require.NoError(t, err)
	require.Len(t, kids, 1)
	assert.Equal(t, "0102800000", kids[0].Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// 描笼涯与非四层级别没有子级，不触发查询
func TestChildrenOfLeafIsEmpty(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	leaf, _ := psgc.Normalize(psgc.RawRow{Code: "0102801001", Name: "Adams (Pob.)", GeoLevel: "Bgy"}, nil)
	st := AttachDB(db)
	kids, err := st.Children(context.Background(), &leaf)
	require.NoError(t, err)
	assert.Empty(t, kids)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLevelCounts(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	rows := sqlmock.NewRows([]string{"admin_level", "count"}).
		AddRow("region", int64(18)).
		AddRow("barangay", int64(42046))
	mock.ExpectQuery("GROUP BY admin_level").WillReturnRows(rows)

	st := AttachDB(db)
	counts, err := st.LevelCounts(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(18), counts["region"])
	assert.Equal(t, int64(42046), counts["barangay"])
	assert.NoError(t, mock.ExpectationsWereMet())
}
