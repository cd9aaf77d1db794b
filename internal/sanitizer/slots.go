package sanitizer

import (
	"context"
	"sync"
)

// slotTable 按文档键互斥
// 同一文档同一时间只有一个净化任务，不同文档互不影响
type slotTable struct {
	mu    sync.Mutex
	slots map[string]*slot
}

type slot struct {
	ch   chan struct{}
	refs int
}

func newSlotTable() *slotTable {
	return &slotTable{slots: make(map[string]*slot)}
}

// acquire 等待 key 对应的槽位，ctx 取消时放弃
func (t *slotTable) acquire(ctx context.Context, key string) (func(), error) {
	t.mu.Lock()
	sl, ok := t.slots[key]
	if !ok {
		sl = &slot{ch: make(chan struct{}, 1)}
		t.slots[key] = sl
	}
	sl.refs++
	t.mu.Unlock()

	select {
	case sl.ch <- struct{}{}:
		return func() {
			<-sl.ch
			t.unref(key, sl)
		}, nil
	case <-ctx.Done():
		t.unref(key, sl)
		return nil, ctx.Err()
	}
}

func (t *slotTable) unref(key string, sl *slot) {
	t.mu.Lock()
	defer t.mu.Unlock()
	sl.refs--
	if sl.refs == 0 {
		delete(t.slots, key)
	}
}

func (t *slotTable) active() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.slots)
}
