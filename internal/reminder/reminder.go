// Package reminder 持久化提醒排期。
// 核心只负责“登记一条提醒”，真正的推送投递由外部系统消费本表完成。
package reminder

import (
	"context"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Reminder 是 reminders 表的 GORM 模型。
// Key 是决定性主键（如 maintenance_<id>）：同一条业务记录重复登记
// 只会覆盖既有行，不会产生重复提醒。
type Reminder struct {
	Key       string    `gorm:"primaryKey;size:80"`
	FireAt    time.Time `gorm:"index;not null"`
	Message   string    `gorm:"size:255"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

func (Reminder) TableName() string {
	return "reminders"
}

// Scheduler 基于 MySQL 的提醒登记器，实现 maintenance.ReminderScheduler。
type Scheduler struct {
	db *gorm.DB
}

func NewScheduler(db *gorm.DB) *Scheduler {
	return &Scheduler{db: db}
}

func (s *Scheduler) Schedule(ctx context.Context, key string, fireAt time.Time, message string) error {
	if s == nil || s.db == nil {
		return fmt.Errorf("scheduler db is nil")
	}
	key = strings.TrimSpace(key)
	if key == "" {
		return fmt.Errorf("reminder key required")
	}
	r := Reminder{Key: key, FireAt: fireAt, Message: message}
	return s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "key"}},
			DoUpdates: clause.AssignmentColumns([]string{"fire_at", "message", "updated_at"}),
		}).
		Create(&r).Error
}

// Cancel 按 key 撤销一条提醒（幂等，不存在时不报错）。
func (s *Scheduler) Cancel(ctx context.Context, key string) error {
	if s == nil || s.db == nil {
		return fmt.Errorf("scheduler db is nil")
	}
	return s.db.WithContext(ctx).Where("`key` = ?", key).Delete(&Reminder{}).Error
}

// Due 列出在 before 之前应触发的提醒（投递侧轮询用）。
func (s *Scheduler) Due(ctx context.Context, before time.Time, limit int) ([]Reminder, error) {
	if s == nil || s.db == nil {
		return nil, fmt.Errorf("scheduler db is nil")
	}
	if limit <= 0 {
		limit = 50
	}
	var out []Reminder
	err := s.db.WithContext(ctx).
		Where("fire_at <= ?", before).
		Order("fire_at asc").
		Limit(limit).
		Find(&out).Error
	return out, err
}
