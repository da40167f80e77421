// 包 cache：归一化记录集的进程内快照，承担读路径的第一层命中
package cache

import (
	"psgc-api/internal/psgc"
)

// Snapshot：编码→记录 的只读快照
// 背景：PSGC 全集约 4.3 万条，整体常驻内存成本可忽略；构建后不再修改
type Snapshot struct {
	byCode map[string]psgc.Record
}

func NewSnapshot(records []psgc.Record) *Snapshot {
	m := make(map[string]psgc.Record, len(records))
	for _, r := range records {
		m[r.Code] = r
	}
	return &Snapshot{byCode: m}
}

func (s *Snapshot) Lookup(code string) (psgc.Record, bool) {
	r, ok := s.byCode[code]
	return r, ok
}

func (s *Snapshot) Len() int { return len(s.byCode) }
