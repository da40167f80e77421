// 包 api：集中注册 HTTP API 路由以解耦主入口，便于后续扩展与替换
package api

import (
	"encoding/json"
	"net/http"
	"os"
	"strconv"
	"time"

	"psgc-api/internal/cache"
	"psgc-api/internal/export"
	"psgc-api/internal/metrics"
	"psgc-api/internal/psgc"
	"psgc-api/internal/store"

	"github.com/redis/go-redis/v9"
)

// adminAuthorized：管理接口的令牌校验；未配置 ADMIN_TOKEN 时一律拒绝
func adminAuthorized(r *http.Request) bool {
	t := r.Header.Get("x-admin-token")
	want := os.Getenv("ADMIN_TOKEN")
	return want != "" && t == want
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("content-type", "application/json; charset=utf-8")
	w.Header().Set("cache-control", "no-store")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// 构建并返回 API 路由：独立 ServeMux 便于在主入口挂载到 /api 前缀
// 查询优先级：内存快照 → Redis → 数据库；命中后回填上层
func BuildRoutes(st *store.Store, rc *redis.Client, dcache *cache.DynamicCache) *http.ServeMux {
	apiMux := http.NewServeMux()

	apiMux.HandleFunc("/psgc", func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		start := time.Now()
		defer func() {
			metrics.RequestDurationMs.Observe(float64(time.Since(start).Milliseconds()))
		}()
		metrics.RequestsTotal.Inc()

		code := r.URL.Query().Get("code")
		if code == "" {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "missing code"})
			return
		}

		if dcache != nil {
			if rec, ok := dcache.Lookup(code); ok {
				metrics.SnapshotHitsTotal.Inc()
				_ = st.IncrStats(ctx, isNewVisitor(ctx, rc, getClientIP(r)))
				writeJSON(w, http.StatusOK, export.Flatten(rec))
				return
			}
		}
		if rc != nil {
			if s, _ := rc.Get(ctx, "psgc:code:"+code).Result(); s != "" {
				metrics.RedisHitsTotal.Inc()
				var fr export.FlatRecord
				if err := json.Unmarshal([]byte(s), &fr); err == nil {
					_ = st.IncrStats(ctx, isNewVisitor(ctx, rc, getClientIP(r)))
					writeJSON(w, http.StatusOK, fr)
					return
				}
			}
			metrics.RedisMissesTotal.Inc()
		}
		rec, err := st.LookupCode(ctx, code)
		if err != nil {
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "lookup failed"})
			return
		}
		if rec == nil {
			metrics.NotFoundTotal.Inc()
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "not found", "code": code})
			return
		}
		fr := export.Flatten(*rec)
		if rc != nil {
			if b, err := json.Marshal(fr); err == nil {
				rc.Set(ctx, "psgc:code:"+code, string(b), time.Hour*24)
			}
		}
		_ = st.IncrStats(ctx, isNewVisitor(ctx, rc, getClientIP(r)))
		writeJSON(w, http.StatusOK, fr)
	})

	apiMux.HandleFunc("/children", func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		metrics.ChildrenRequestsTotal.Inc()
		code := r.URL.Query().Get("code")
		if code == "" {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "missing code"})
			return
		}
		parent, err := st.LookupCode(ctx, code)
		if err != nil {
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "lookup failed"})
			return
		}
		if parent == nil {
			metrics.NotFoundTotal.Inc()
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "not found", "code": code})
			return
		}
		kids, err := st.Children(ctx, parent)
		if err != nil {
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "children failed"})
			return
		}
		writeJSON(w, http.StatusOK, listResult{Count: len(kids), Results: export.FlattenAll(kids)})
	})

	apiMux.HandleFunc("/search", func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		metrics.SearchRequestsTotal.Inc()
		q := r.URL.Query().Get("q")
		if q == "" {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "missing q"})
			return
		}
		limit := 0
		if s := r.URL.Query().Get("limit"); s != "" {
			// 非法 limit 静默回退到默认值
			if n, err := strconv.Atoi(s); err == nil {
				limit = n
			}
		}
		recs, err := st.Search(ctx, q, limit)
		if err != nil {
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "search failed"})
			return
		}
		writeJSON(w, http.StatusOK, listResult{Count: len(recs), Results: export.FlattenAll(recs)})
	})

	apiMux.HandleFunc("/levels", func(w http.ResponseWriter, r *http.Request) {
		counts, err := st.LevelCounts(r.Context())
		if err != nil {
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "levels failed"})
			return
		}
		writeJSON(w, http.StatusOK, levelsResult{Levels: counts})
	})

	apiMux.HandleFunc("/stats", func(w http.ResponseWriter, r *http.Request) {
		t, _ := st.GetTotals(r.Context())
		writeJSON(w, http.StatusOK, map[string]any{"total": t.Total, "today": t.Today})
	})

	apiMux.HandleFunc("/warnings", func(w http.ResponseWriter, r *http.Request) {
		if !adminAuthorized(r) {
			w.WriteHeader(http.StatusForbidden)
			return
		}
		warns, err := st.Warnings(r.Context())
		if err != nil {
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "warnings failed"})
			return
		}
		if warns == nil {
			warns = []psgc.Warning{}
		}
		writeJSON(w, http.StatusOK, map[string]any{"count": len(warns), "warnings": warns})
	})

	return apiMux
}
