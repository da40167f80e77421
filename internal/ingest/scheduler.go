package ingest

import (
	"database/sql"
	"os"
	"psgc-api/internal/logger"
	"strconv"
	"time"
)

// nextMondayAt：计算下一次周一指定小时的时间点
// 约束：基于传入时区 loc 与整点 hour；仅前推至未来时间
func nextMondayAt(loc *time.Location, hour int) time.Time {
	now := time.Now().In(loc)
	d := now
	for i := 0; i <= 7; i++ {
		d = now.AddDate(0, 0, i)
		if d.Weekday() == time.Monday {
			t := time.Date(d.Year(), d.Month(), d.Day(), hour, 0, 0, 0, loc)
			if t.After(now) {
				return t
			}
		}
	}
	d = now.AddDate(0, 0, 7)
	return time.Date(d.Year(), d.Month(), d.Day(), hour, 0, 0, 0, loc)
}

// StartWeeklyManila：在马尼拉时间每周一 3:00 重读发布文件并刷新数据库
// 背景：PSA 按季度更新发布文件，运维替换磁盘上的工作簿即可；周检避免错过替换
// 约束：可用 REFRESH_HOUR 覆盖小时（整数）；错误仅记录日志，任务继续调度
func StartWeeklyManila(db *sql.DB, path, sheet string) {
	l := logger.L()
	loc, _ := time.LoadLocation("Asia/Manila")
	hour := 3
	if h := os.Getenv("REFRESH_HOUR"); h != "" {
		if n, err := strconv.Atoi(h); err == nil {
			hour = n
		}
	}
	next := nextMondayAt(loc, hour)
	go func() {
		for {
			time.Sleep(time.Until(next))
			l.Info("refresh_start", "path", path, "next", next)
			if err := ImportWorkbook(db, path, sheet); err != nil {
				l.Error("refresh_error", "err", err)
			} else {
				l.Info("refresh_done")
			}
			next = next.AddDate(0, 0, 7)
		}
	}()
}
