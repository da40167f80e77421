// 数据导出工具：读取本地 PSGC 发布表并生成扁平与层级文件（JSON/CSV/NDJSON/层级 JSON）
package main

import (
	"log"
	"os"
	"path/filepath"

	"psgc-api/internal/export"
	"psgc-api/internal/ingest"
	"psgc-api/internal/psgc"

	"github.com/joho/godotenv"
)

// 一次性运行：解析 → 扁平三格式 + 可选层级树；SKIP_HIERARCHY=true 跳过建树
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
	outDir := os.Getenv("EXPORT_DIR")
	if outDir == "" {
		outDir = "."
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		log.Fatal(err)
	}

	records, warns, err := ingest.ParseWorkbook(path, sheet)
	if err != nil {
		log.Fatal(err)
	}
	log.Printf("parsed %d records, %d warnings", len(records), warns.Len())

	if err := export.WriteJSON(filepath.Join(outDir, "psgc_data.json"), records); err != nil {
		log.Fatal(err)
	}
	if err := export.WriteCSV(filepath.Join(outDir, "psgc_data.csv"), records); err != nil {
		log.Fatal(err)
	}
	if err := export.WriteNDJSON(filepath.Join(outDir, "psgc_data.ndjson"), records); err != nil {
		log.Fatal(err)
	}

	if os.Getenv("SKIP_HIERARCHY") == "true" {
		log.Printf("hierarchy skipped")
		return
	}
	tree := psgc.Build(records)
	if err := export.WriteHierarchyJSON(filepath.Join(outDir, "psgc_hierarchy.json"), tree); err != nil {
		log.Fatal(err)
	}
	log.Printf("hierarchy written: %d regions", tree.Len())
}
