package maintenance

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/WheelTrack/WheelTrack/internal/common/logger"
	"github.com/WheelTrack/WheelTrack/internal/expense"
	"github.com/WheelTrack/WheelTrack/internal/store"
)

// ExpenseMirror 是同步协调器暴露给维修日志的接口。
// 正向传播（维修 → 支出）只经由这里；反向仅有 SyncFromExpense 一条窄路径。
type ExpenseMirror interface {
	// ProjectMaintenance 把维修变更投影为镜像支出。
	// prev 为 nil 表示新增；更新时带上旧记录，便于发现车辆归属变化。
	ProjectMaintenance(ctx context.Context, prev *Maintenance, cur Maintenance)
	// RetractMaintenance 删除维修记录时撤掉镜像支出。
	RetractMaintenance(ctx context.Context, id string)
}

// ReminderScheduler 外部提醒调度器（协作方）。
// 约定：key 取决定性取值 maintenance_<id>，同一条记录重复新增不会重复排期。
type ReminderScheduler interface {
	Schedule(ctx context.Context, key string, fireAt time.Time, message string) error
	Cancel(ctx context.Context, key string) error
}

// 下次保养提醒的默认间隔。
const reminderOffsetMonths = 6

// Log 维修集合的唯一写入方。
// 每次变更都会经 mirror 投影到支出账本（镜像支出与维修记录共用 ID）。
type Log struct {
	mu      sync.RWMutex
	col     *store.Collection[Maintenance]
	records []Maintenance
	loaded  bool

	mirror    ExpenseMirror
	reminders ReminderScheduler
	log       logger.Logger
}

func NewLog(col *store.Collection[Maintenance], log logger.Logger) *Log {
	return &Log{col: col, log: log}
}

// Configure 注入协调器与提醒调度器。任一为 nil 时对应联动静默降级，
// 维修记录本身照常保存（degrade, not fail）。
func (l *Log) Configure(mirror ExpenseMirror, reminders ReminderScheduler) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.mirror = mirror
	l.reminders = reminders
}

// Filter 列表查询条件。
type Filter struct {
	SearchText    string
	VehicleFilter string // 按 VehicleName 子串过滤
}

func (l *Log) ensureLoaded(ctx context.Context) {
	if l.loaded {
		return
	}
	if records, found := l.col.Load(ctx); found {
		l.records = records
	}
	l.loaded = true
}

func (l *Log) Add(ctx context.Context, m Maintenance) (Maintenance, error) {
	if strings.TrimSpace(m.Title) == "" {
		return Maintenance{}, fmt.Errorf("title required")
	}
	if strings.TrimSpace(m.ID) == "" {
		m.ID = NewRecordID()
	}
	now := time.Now()
	m.CreatedAt = now
	m.UpdatedAt = now

	l.mu.Lock()
	l.ensureLoaded(ctx)
	for _, cur := range l.records {
		if cur.ID == m.ID {
			l.mu.Unlock()
			return Maintenance{}, fmt.Errorf("maintenance already exists: %s", m.ID)
		}
	}
	l.records = append(l.records, m)
	l.col.Save(ctx, l.records)
	mirror, reminders := l.mirror, l.reminders
	l.mu.Unlock()

	// 先落库再传播；锁外调用，避免跨集合锁序倒置。
	l.project(ctx, mirror, nil, m)
	l.scheduleReminder(ctx, reminders, m)
	return m, nil
}

func (l *Log) Update(ctx context.Context, m Maintenance) (Maintenance, error) {
	if strings.TrimSpace(m.ID) == "" {
		return Maintenance{}, fmt.Errorf("id required")
	}

	l.mu.Lock()
	l.ensureLoaded(ctx)
	idx := -1
	var prev Maintenance
	for i, cur := range l.records {
		if cur.ID == m.ID {
			idx = i
			prev = cur
			break
		}
	}
	if idx < 0 {
		l.mu.Unlock()
		return Maintenance{}, fmt.Errorf("maintenance not found: %s", m.ID)
	}
	m.CreatedAt = prev.CreatedAt
	m.UpdatedAt = time.Now()
	l.records[idx] = m
	l.col.Save(ctx, l.records)
	mirror := l.mirror
	l.mu.Unlock()

	// 带上旧记录，协调器据此发现车辆归属变化。
	l.project(ctx, mirror, &prev, m)
	return m, nil
}

func (l *Log) Delete(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return fmt.Errorf("id required")
	}

	l.mu.Lock()
	l.ensureLoaded(ctx)
	idx := -1
	for i, cur := range l.records {
		if cur.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		l.mu.Unlock()
		return fmt.Errorf("maintenance not found: %s", id)
	}
	l.records = append(l.records[:idx], l.records[idx+1:]...)
	l.col.Save(ctx, l.records)
	mirror, reminders := l.mirror, l.reminders
	l.mu.Unlock()

	if mirror != nil {
		mirror.RetractMaintenance(ctx, id)
	}
	if reminders != nil {
		if err := reminders.Cancel(ctx, "maintenance_"+id); err != nil && l.log != nil {
			l.log.Warnf("cancel reminder failed maintenance=%s err=%v", id, err)
		}
	}
	return nil
}

func (l *Log) Get(ctx context.Context, id string) (Maintenance, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.ensureLoaded(ctx)
	for _, cur := range l.records {
		if cur.ID == id {
			return cur, true
		}
	}
	return Maintenance{}, false
}

func (l *Log) List(ctx context.Context) []Maintenance {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.ensureLoaded(ctx)
	out := make([]Maintenance, len(l.records))
	copy(out, l.records)
	return out
}

// Filtered 按搜索词 / 车辆展示名过滤。
func (l *Log) Filtered(ctx context.Context, f Filter) []Maintenance {
	all := l.List(ctx)
	search := strings.ToLower(strings.TrimSpace(f.SearchText))
	vf := strings.ToLower(strings.TrimSpace(f.VehicleFilter))
	out := make([]Maintenance, 0, len(all))
	for _, m := range all {
		if vf != "" && !strings.Contains(strings.ToLower(m.VehicleName), vf) {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(m.Title), search) &&
			!strings.Contains(strings.ToLower(m.Description), search) &&
			!strings.Contains(strings.ToLower(m.GarageName), search) {
			continue
		}
		out = append(out, m)
	}
	return out
}

// SyncFromExpense 反向路径：外部直接建出的 maintenance 类支出同步进维修日志。
// 同 ID 已存在则用支出字段覆盖，否则据支出新建一条维修记录。
// 这是支出对维修唯一具有权威性的路径；此处绝不再投影回支出侧。
func (l *Log) SyncFromExpense(ctx context.Context, e expense.Expense, vehicleDisplayName string) (Maintenance, error) {
	if strings.TrimSpace(e.ID) == "" {
		return Maintenance{}, fmt.Errorf("expense id required")
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	l.ensureLoaded(ctx)

	for i, cur := range l.records {
		if cur.ID == e.ID {
			cur.Cost = e.Amount
			cur.Date = e.Date
			if strings.TrimSpace(e.Description) != "" {
				cur.Title = e.Description
			}
			if e.Mileage != nil {
				cur.Mileage = *e.Mileage
			}
			if strings.TrimSpace(vehicleDisplayName) != "" {
				cur.VehicleName = vehicleDisplayName
			}
			cur.UpdatedAt = time.Now()
			l.records[i] = cur
			l.col.Save(ctx, l.records)
			return cur, nil
		}
	}

	title := strings.TrimSpace(e.Description)
	if title == "" {
		title = "Entretien"
	}
	now := time.Now()
	m := Maintenance{
		ID:          e.ID, // 共同身份：沿用支出的 ID
		Title:       title,
		Date:        e.Date,
		Cost:        e.Amount,
		Description: e.Notes,
		VehicleName: strings.TrimSpace(vehicleDisplayName),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if e.Mileage != nil {
		m.Mileage = *e.Mileage
	}
	l.records = append(l.records, m)
	l.col.Save(ctx, l.records)
	return m, nil
}

func (l *Log) project(ctx context.Context, mirror ExpenseMirror, prev *Maintenance, cur Maintenance) {
	if mirror == nil {
		if l.log != nil {
			l.log.Warnf("expense mirror not configured, skip projection maintenance=%s", cur.ID)
		}
		return
	}
	mirror.ProjectMaintenance(ctx, prev, cur)
}

func (l *Log) scheduleReminder(ctx context.Context, reminders ReminderScheduler, m Maintenance) {
	if reminders == nil {
		return
	}
	key := "maintenance_" + m.ID
	fireAt := m.Date.AddDate(0, reminderOffsetMonths, 0)
	message := fmt.Sprintf("Prochain entretien: %s", m.Title)
	if err := reminders.Schedule(ctx, key, fireAt, message); err != nil && l.log != nil {
		l.log.Warnf("schedule reminder failed key=%s err=%v", key, err)
	}
}
