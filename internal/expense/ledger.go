package expense

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/WheelTrack/WheelTrack/internal/common/logger"
	"github.com/WheelTrack/WheelTrack/internal/store"
	"github.com/google/uuid"
)

// Ledger 支出集合的唯一写入方。
type Ledger struct {
	mu       sync.RWMutex
	col      *store.Collection[Expense]
	expenses []Expense
	loaded   bool
	log      logger.Logger
}

func NewLedger(col *store.Collection[Expense], log logger.Logger) *Ledger {
	return &Ledger{col: col, log: log}
}

// Filter 列表查询条件。
type Filter struct {
	SearchText string
	VehicleID  string
	Category   Category
}

func (l *Ledger) ensureLoaded(ctx context.Context) {
	if l.loaded {
		return
	}
	if records, found := l.col.Load(ctx); found {
		l.expenses = records
	}
	l.loaded = true
}

func (l *Ledger) Add(ctx context.Context, e Expense) (Expense, error) {
	if strings.TrimSpace(e.ID) == "" {
		e.ID = uuid.NewString()
	}
	now := time.Now()
	e.CreatedAt = now
	e.UpdatedAt = now

	l.mu.Lock()
	defer l.mu.Unlock()
	l.ensureLoaded(ctx)
	for _, cur := range l.expenses {
		if cur.ID == e.ID {
			return Expense{}, fmt.Errorf("expense already exists: %s", e.ID)
		}
	}
	l.expenses = append(l.expenses, e)
	l.col.Save(ctx, l.expenses)
	return e, nil
}

func (l *Ledger) Update(ctx context.Context, e Expense) (Expense, error) {
	if strings.TrimSpace(e.ID) == "" {
		return Expense{}, fmt.Errorf("id required")
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.ensureLoaded(ctx)
	for i, cur := range l.expenses {
		if cur.ID == e.ID {
			e.CreatedAt = cur.CreatedAt
			e.UpdatedAt = time.Now()
			l.expenses[i] = e
			l.col.Save(ctx, l.expenses)
			return e, nil
		}
	}
	return Expense{}, fmt.Errorf("expense not found: %s", e.ID)
}

func (l *Ledger) Delete(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return fmt.Errorf("id required")
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.ensureLoaded(ctx)
	for i, cur := range l.expenses {
		if cur.ID == id {
			l.expenses = append(l.expenses[:i], l.expenses[i+1:]...)
			l.col.Save(ctx, l.expenses)
			return nil
		}
	}
	return fmt.Errorf("expense not found: %s", id)
}

func (l *Ledger) Get(ctx context.Context, id string) (Expense, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.ensureLoaded(ctx)
	for _, cur := range l.expenses {
		if cur.ID == id {
			return cur, true
		}
	}
	return Expense{}, false
}

func (l *Ledger) List(ctx context.Context) []Expense {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.ensureLoaded(ctx)
	out := make([]Expense, len(l.expenses))
	copy(out, l.expenses)
	return out
}

// Filtered 按搜索词 / 车辆 / 类别过滤。
func (l *Ledger) Filtered(ctx context.Context, f Filter) []Expense {
	all := l.List(ctx)
	search := strings.ToLower(strings.TrimSpace(f.SearchText))
	out := make([]Expense, 0, len(all))
	for _, e := range all {
		if f.VehicleID != "" && e.VehicleID != f.VehicleID {
			continue
		}
		if f.Category != "" && e.Category != f.Category {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(e.Description), search) &&
			!strings.Contains(strings.ToLower(e.Notes), search) {
			continue
		}
		out = append(out, e)
	}
	return out
}

// 以下三个入口仅供同步协调器使用：只改支出集合并持久化，
// 绝不回调维修日志，否则会重新进入 Maintenance→Expense 的传播链。

func (l *Ledger) AddFromMaintenance(ctx context.Context, e Expense) error {
	if strings.TrimSpace(e.ID) == "" {
		return fmt.Errorf("synthetic expense id required")
	}
	e.Category = CategoryMaintenance
	now := time.Now()
	e.CreatedAt = now
	e.UpdatedAt = now

	l.mu.Lock()
	defer l.mu.Unlock()
	l.ensureLoaded(ctx)
	for i, cur := range l.expenses {
		if cur.ID == e.ID {
			// ID 冲突时就地覆盖，保持“每条维修恰好一条镜像支出”。
			e.CreatedAt = cur.CreatedAt
			l.expenses[i] = e
			l.col.Save(ctx, l.expenses)
			return nil
		}
	}
	l.expenses = append(l.expenses, e)
	l.col.Save(ctx, l.expenses)
	return nil
}

func (l *Ledger) UpdateFromMaintenance(ctx context.Context, e Expense) error {
	if strings.TrimSpace(e.ID) == "" {
		return fmt.Errorf("synthetic expense id required")
	}
	e.Category = CategoryMaintenance

	l.mu.Lock()
	defer l.mu.Unlock()
	l.ensureLoaded(ctx)
	for i, cur := range l.expenses {
		if cur.ID == e.ID {
			e.CreatedAt = cur.CreatedAt
			e.UpdatedAt = time.Now()
			l.expenses[i] = e
			l.col.Save(ctx, l.expenses)
			return nil
		}
	}
	// 镜像缺失则补建（维修侧是权威）。
	now := time.Now()
	e.CreatedAt = now
	e.UpdatedAt = now
	l.expenses = append(l.expenses, e)
	l.col.Save(ctx, l.expenses)
	return nil
}

func (l *Ledger) DeleteFromMaintenance(ctx context.Context, maintenanceID string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.ensureLoaded(ctx)
	for i, cur := range l.expenses {
		if cur.ID == maintenanceID {
			l.expenses = append(l.expenses[:i], l.expenses[i+1:]...)
			l.col.Save(ctx, l.expenses)
			return nil
		}
	}
	return nil
}
