package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/WheelTrack/WheelTrack/internal/common/middleware"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Document 是 record_stores 表的 GORM 模型：
// 每个命名集合一行，整列表序列化为 JSON 后整体覆盖写入。
type Document struct {
	Name      string    `gorm:"primaryKey;size:64"`
	Payload   []byte    `gorm:"type:longblob"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

func (Document) TableName() string {
	return "record_stores"
}

// GormBackend 基于 MySQL 的命名存储实现。
// 写入路径套了一层熔断器：数据库持续不可用时快速失败，
// 由上层 Collection 记日志降级（内存态仍是会话内的事实来源）。
type GormBackend struct {
	db      *gorm.DB
	breaker *middleware.CircuitBreaker
}

func NewGormBackend(db *gorm.DB) *GormBackend {
	return &GormBackend{
		db:      db,
		breaker: middleware.NewCircuitBreaker("record-store", 5, 30*time.Second),
	}
}

func (g *GormBackend) Load(ctx context.Context, name string) ([]byte, bool, error) {
	if g == nil || g.db == nil {
		return nil, false, fmt.Errorf("store db is nil")
	}
	var doc Document
	err := g.db.WithContext(ctx).Where("name = ?", name).First(&doc).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return doc.Payload, true, nil
}

func (g *GormBackend) Save(ctx context.Context, name string, payload []byte) error {
	if g == nil || g.db == nil {
		return fmt.Errorf("store db is nil")
	}
	return g.breaker.Call(ctx, func() error {
		doc := Document{Name: name, Payload: payload}
		return g.db.WithContext(ctx).
			Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "name"}},
				DoUpdates: clause.AssignmentColumns([]string{"payload", "updated_at"}),
			}).
			Create(&doc).Error
	})
}
