package store

import (
	"context"
	"sync"
)

// 集合的存储名（每种实体一个独立的 store）。
const (
	NameVehicles     = "vehicles"
	NameExpenses     = "expenses"
	NameMaintenances = "maintenances"
	NameContracts    = "rental_contracts"
)

// Backend 是命名持久化存储的最小抽象：
// - Load 返回 (payload, found, err)，found=false 表示该名字下从未保存过数据
//   （与“保存过一个空列表”是两种不同的状态，由调用方自行区分）
// - Save 整体覆盖写入，不支持增量
type Backend interface {
	Load(ctx context.Context, name string) ([]byte, bool, error)
	Save(ctx context.Context, name string, payload []byte) error
}

// MemoryBackend 内存实现（测试 / 单机演示用）。
type MemoryBackend struct {
	mu   sync.RWMutex
	data map[string][]byte
}

func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{data: make(map[string][]byte)}
}

func (m *MemoryBackend) Load(ctx context.Context, name string) ([]byte, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	b, ok := m.data[name]
	if !ok {
		return nil, false, nil
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out, true, nil
}

func (m *MemoryBackend) Save(ctx context.Context, name string, payload []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	b := make([]byte, len(payload))
	copy(b, payload)
	m.data[name] = b
	return nil
}
