package store

import (
	"context"
	"encoding/json"

	"github.com/WheelTrack/WheelTrack/internal/common/logger"
)

// Collection 把 Backend 包装成带类型的命名集合。
//
// 约定：
// - Load 返回 (records, found)：found=false 表示从未保存过，调用方默认空列表
// - Save 永不向调用方返回错误：持久化是“尽力而为”，失败只记日志，
//   会话内以内存态为准
type Collection[T any] struct {
	name    string
	backend Backend
	log     logger.Logger
}

func NewCollection[T any](name string, backend Backend, log logger.Logger) *Collection[T] {
	return &Collection[T]{name: name, backend: backend, log: log}
}

func (c *Collection[T]) Name() string {
	return c.name
}

func (c *Collection[T]) Load(ctx context.Context) ([]T, bool) {
	if c == nil || c.backend == nil {
		return nil, false
	}
	payload, found, err := c.backend.Load(ctx, c.name)
	if err != nil {
		if c.log != nil {
			c.log.Warnf("store load failed name=%s err=%v", c.name, err)
		}
		return nil, false
	}
	if !found {
		return nil, false
	}
	var records []T
	if err := json.Unmarshal(payload, &records); err != nil {
		if c.log != nil {
			c.log.Errorf("store payload corrupted name=%s err=%v", c.name, err)
		}
		return nil, false
	}
	return records, true
}

func (c *Collection[T]) Save(ctx context.Context, records []T) {
	if c == nil || c.backend == nil {
		return
	}
	if records == nil {
		records = []T{}
	}
	payload, err := json.Marshal(records)
	if err != nil {
		if c.log != nil {
			c.log.Errorf("store marshal failed name=%s err=%v", c.name, err)
		}
		return
	}
	if err := c.backend.Save(ctx, c.name, payload); err != nil {
		if c.log != nil {
			c.log.Warnf("store save failed name=%s err=%v", c.name, err)
		}
	}
}
