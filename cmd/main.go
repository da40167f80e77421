// 程序入口：仅负责读取配置、初始化依赖并启动服务；API 注册在 internal/api 以便扩展
package main

import (
	"context"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"psgc-api/internal/api"
	"psgc-api/internal/cache"
	"psgc-api/internal/ingest"
	"psgc-api/internal/logger"
	"psgc-api/internal/metrics"
	"psgc-api/internal/middleware"
	"psgc-api/internal/migrate"
	"psgc-api/internal/store"
	"psgc-api/internal/utils"
	"psgc-api/internal/version"

	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load(".env")
	_ = godotenv.Load(filepath.Join("data", "env", ".env"))
	// 日志初始化
	l := logger.Setup()
	l.Debug("log_init_ok")
	apiBase := os.Getenv("API_BASE")
	if apiBase == "" {
		apiBase = "/api"
	}
	l.Debug("config_api_base", "base", apiBase)

	db, err := utils.OpenPostgresFromEnv()
	if err != nil {
		l.Error("db_open_error", "err", err)
		os.Exit(1)
	}
	defer db.Close()
	l.Info("db_open_ok")
	if err := db.Ping(); err != nil {
		l.Error("db_ping_error", "err", err)
	} else {
		l.Info("db_ping_ok")
	}
	st := store.AttachDB(db)
	if err := migrate.EnsureSchema(db); err != nil {
		l.Error("schema_error", "err", err)
		os.Exit(1)
	}

	rc := utils.OpenRedisFromEnv()
	if rc == nil {
		l.Info("redis_disabled")
	} else {
		if err := rc.Ping(context.Background()).Err(); err != nil {
			l.Error("redis_ping_error", "err", err)
		} else {
			l.Info("redis_ping_ok")
		}
	}

	// 背景：启动时可选从本地发布表导入数据库；文件由运维按季度替换
	xlsxPath := os.Getenv("XLSX_PATH")
	if xlsxPath == "" {
		xlsxPath = filepath.Join("data", "psgc", "publication.xlsx")
	}
	xlsxSheet := os.Getenv("XLSX_SHEET")
	if xlsxSheet == "" {
		xlsxSheet = "PSGC"
	}
	l.Debug("config_xlsx", "path", xlsxPath, "sheet", xlsxSheet)
	if os.Getenv("IMPORT_PSGC_TO_DB") == "true" {
		if _, err := os.Stat(xlsxPath); err == nil {
			l.Info("workbook_found", "path", xlsxPath)
			go func() {
				if err := ingest.ImportWorkbook(db, xlsxPath, xlsxSheet); err != nil {
					l.Error("workbook_import_error", "err", err)
				} else {
					l.Info("workbook_import_success")
				}
			}()
		} else {
			l.Error("workbook_not_found", "path", xlsxPath)
		}
	} else {
		l.Info("workbook_import_skipped", "reason", "env_not_set")
	}

	// 定期刷新：发布文件被替换后周检自动重导
	if os.Getenv("REFRESH_ENABLED") == "true" {
		ingest.StartWeeklyManila(db, xlsxPath, xlsxSheet)
		l.Info("refresh_scheduled")
	}

	// 内存快照：导入就绪后整体载入并原子切换；空库时轮询等待
	var dcache cache.DynamicCache
	go func() {
		for {
			var count int64
			_ = db.QueryRow("SELECT COUNT(1) FROM _psgc_records").Scan(&count)
			if count > 0 {
				records, err := st.LoadAll(context.Background())
				if err != nil {
					l.Error("snapshot_load_error", "err", err)
				} else {
					dcache.Set(cache.NewSnapshot(records))
					l.Info("snapshot_ready", "records", len(records))
					break
				}
			}
			time.Sleep(2 * time.Second)
		}
	}()

	mux := http.NewServeMux()
	apiMux := api.BuildRoutes(st, rc, &dcache)
	mux.Handle(apiBase+"/", http.StripPrefix(apiBase, apiMux))
	mux.Handle(apiBase+"/metrics", metrics.Handler())
	mux.HandleFunc(apiBase+"/reload-snapshot", func(w http.ResponseWriter, r *http.Request) {
		t := r.Header.Get("x-admin-token")
		if t == "" || t != os.Getenv("ADMIN_TOKEN") {
			w.WriteHeader(http.StatusForbidden)
			return
		}
		records, err := st.LoadAll(r.Context())
		if err != nil {
			l.Error("snapshot_load_error", "err", err)
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		dcache.Set(cache.NewSnapshot(records))
		l.Info("snapshot_reloaded", "records", len(records))
		w.WriteHeader(http.StatusNoContent)
	})

	ui := os.Getenv("UI_DIST")
	if ui == "" {
		ui = filepath.Join("ui", "dist")
	}
	l.Debug("config_ui_dir", "dir", ui)
	fs := http.FileServer(http.Dir(ui))
	mux.Handle("/", fs)

	// NOTE: 向前端暴露 API 基础路径，避免硬编码；生产环境由后端统一提供
	mux.HandleFunc("/config.js", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("content-type", "application/javascript; charset=utf-8")
		w.Header().Set("cache-control", "no-store")
		_, _ = w.Write([]byte("window.__API_BASE__='" + apiBase + "'"))
		_, _ = w.Write([]byte("\n"))
		_, _ = w.Write([]byte("window.__DATA_SOURCE__='PSA PSGC Publication'"))
		_, _ = w.Write([]byte("\n"))
		_, _ = w.Write([]byte("window.__DATA_SOURCE_URL__='https://psa.gov.ph/classification/psgc'"))
		_, _ = w.Write([]byte("\n"))
		_, _ = w.Write([]byte("window.__COMMIT_SHA__='" + version.Commit + "'"))
	})

	addr := os.Getenv("ADDR")
	if addr == "" {
		addr = ":8080"
	}
	handler := logger.AccessMiddleware(l)(mux)
	handler = middleware.Wrap(handler)
	s := &http.Server{Addr: addr, Handler: handler}
	if os.Getenv("TLS_ENABLE") == "true" {
		certPath := os.Getenv("TLS_CERT_PATH")
		keyPath := os.Getenv("TLS_KEY_PATH")
		if certPath == "" {
			certPath = filepath.Join("data", "certs", "server.crt")
		}
		if keyPath == "" {
			keyPath = filepath.Join("data", "certs", "server.key")
		}
		_ = utils.EnsureSelfSignedCert(certPath, keyPath, "psgc-api.local")
		l.Info("listening_tls", "addr", addr, "cert", certPath)
		_ = s.ListenAndServeTLS(certPath, keyPath)
		return
	}
	l.Info("listening", "addr", addr)
	_ = s.ListenAndServe()
}
