// Package history 会话内的扫描历史
// 只保存在内存中，进程退出即丢弃
package history

import (
	"sync"

	"pdfSentinel/internal/model"
)

// DefaultCapacity 默认容量
const DefaultCapacity = 10

// Ring 最近优先的定长列表
type Ring struct {
	mu       sync.RWMutex
	capacity int
	entries  []model.ScanHistoryEntry
}

// NewRing 创建实例，capacity <= 0 时使用默认容量
func NewRing(capacity int) *Ring {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Ring{
		capacity: capacity,
		entries:  make([]model.ScanHistoryEntry, 0, capacity),
	}
}

// Add 插入到最前，超出容量时淘汰最旧的一条
func (r *Ring) Add(entry model.ScanHistoryEntry) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.entries) < r.capacity {
		r.entries = append(r.entries, model.ScanHistoryEntry{})
	}
	copy(r.entries[1:], r.entries)
	r.entries[0] = entry
}

// List 返回副本，最新的在前
func (r *Ring) List() []model.ScanHistoryEntry {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]model.ScanHistoryEntry, len(r.entries))
	copy(out, r.entries)
	return out
}

// Clear 清空
func (r *Ring) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = r.entries[:0]
}

func (r *Ring) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}

func (r *Ring) Capacity() int { return r.capacity }
