package cache

import (
	"sync/atomic"

	"psgc-api/internal/psgc"
)

// DynamicCache：可热替换的快照包装器
// 背景：通过 atomic.Value 提供无锁读写切换（导入完成后整体换新），高并发读路径不阻塞
// 约束：Set 传 nil 快照会导致后续查找全部未命中，上层需保证可用性
type DynamicCache struct {
	v atomic.Value
}

// Lookup：原子读取当前快照；未设置时返回未命中，适合导入尚未完成的启动窗口
func (d *DynamicCache) Lookup(code string) (psgc.Record, bool) {
	x := d.v.Load()
	if x == nil {
		return psgc.Record{}, false
	}
	return x.(*Snapshot).Lookup(code)
}

// Set：替换当前快照，写入后立即对后续查找生效
func (d *DynamicCache) Set(s *Snapshot) { d.v.Store(s) }

// Ready：是否已有可用快照
func (d *DynamicCache) Ready() bool { return d.v.Load() != nil }
