// 数据导入工具：读取本地 PSGC 发布表并批量写入 PostgreSQL（记录与告警）
package main

import (
	"log"
	"os"
	"path/filepath"

	"psgc-api/internal/ingest"
	"psgc-api/internal/migrate"
	"psgc-api/internal/psgc"
	"psgc-api/internal/utils"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
)

// 解析发布表、入库并打印层级统计；一次性运行，适合初始化与手工刷新
func main() {
	_ = godotenv.Load(".env")
	path := os.Getenv("XLSX_PATH")
	if path == "" {
		path = filepath.Join("data", "psgc", "publication.xlsx")
	}
	sheet := os.Getenv("XLSX_SHEET")
	if sheet == "" {
		sheet = "PSGC"
	}

	records, warns, err := ingest.ParseWorkbook(path, sheet)
	if err != nil {
		log.Fatal(err)
	}

	db, err := utils.OpenPostgresFromEnv()
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()
	if err := migrate.EnsureSchema(db); err != nil {
		log.Fatal(err)
	}
	if err := ingest.ImportRecords(db, records); err != nil {
		log.Fatal(err)
	}
	if err := ingest.ImportWarnings(db, warns); err != nil {
		log.Fatal(err)
	}

	// 层级统计：对照发布说明核对导入是否完整
	counts := map[psgc.AdminLevel]int{}
	for _, r := range records {
		counts[r.Level]++
	}
	log.Printf("imported %d records", len(records))
	log.Printf("regions=%d provinces=%d cities_municipalities=%d barangays=%d",
		counts[psgc.LevelRegion], counts[psgc.LevelProvince],
		counts[psgc.LevelCityMunicipality], counts[psgc.LevelBarangay])
	log.Printf("sub_municipalities=%d districts=%d special_areas=%d unknown=%d",
		counts[psgc.LevelSubMunicipality], counts[psgc.LevelDistrict],
		counts[psgc.LevelSpecialArea], counts[psgc.LevelUnknown])
	if warns.Len() > 0 {
		log.Printf("correspondence warnings: %d (see _psgc_warnings)", warns.Len())
	}
}
