// Package syncer 维护维修日志与支出账本之间的镜像一致性。
//
// 规则：
//   - 用户对支出的常规增删改从不触碰维修侧
//   - 维修侧每次变更恰好产生一次支出侧变更（镜像支出沿用维修 ID）
//   - 反向（支出 → 维修）只有“外部导入且已标记 maintenance 类别”这一条窄路径，
//     一次性 upsert，绝不再链回支出侧
package syncer

import (
	"context"
	"strings"
	"sync"

	"github.com/WheelTrack/WheelTrack/internal/common/logger"
	"github.com/WheelTrack/WheelTrack/internal/expense"
	"github.com/WheelTrack/WheelTrack/internal/maintenance"
	"github.com/WheelTrack/WheelTrack/internal/vehicle"
)

// Coordinator 同步协调器。
//
// 维修日志与支出账本互相需要对方，构造期无法互相注入；
// 这里采用两段式装配：各组件先独立构造，随后显式 Configure 一次。
// 未 Configure 时传播静默跳过（主记录照常保存），降级而不报错。
type Coordinator struct {
	mu       sync.RWMutex
	ledger   *expense.Ledger
	registry *vehicle.Registry
	mlog     *maintenance.Log
	log      logger.Logger
}

func NewCoordinator(log logger.Logger) *Coordinator {
	return &Coordinator{log: log}
}

// Configure 注入对端引用。composition root 在启动时调用一次，
// 随后调用 maintenance.Log.Configure(c, ...) 完成双向接线。
func (c *Coordinator) Configure(ledger *expense.Ledger, registry *vehicle.Registry, mlog *maintenance.Log) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ledger = ledger
	c.registry = registry
	c.mlog = mlog
}

func (c *Coordinator) deps() (*expense.Ledger, *vehicle.Registry, *maintenance.Log) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.ledger, c.registry, c.mlog
}

// ProjectMaintenance 实现 maintenance.ExpenseMirror：
// 把维修记录投影为镜像支出（同 ID），新增走 AddFromMaintenance，
// 更新走 UpdateFromMaintenance。prev 仅用于日志观察车辆归属变化。
func (c *Coordinator) ProjectMaintenance(ctx context.Context, prev *maintenance.Maintenance, cur maintenance.Maintenance) {
	ledger, registry, _ := c.deps()
	if ledger == nil {
		if c.log != nil {
			c.log.Warnf("coordinator not configured, skip projection maintenance=%s", cur.ID)
		}
		return
	}

	vehicleID := maintenance.UnresolvedVehicleID
	if registry != nil {
		vehicleID, _ = maintenance.ResolveVehicle(cur.VehicleName, registry.List(ctx))
	}
	if prev != nil && c.log != nil && prev.VehicleName != cur.VehicleName {
		c.log.Infof("maintenance vehicle mapping changed id=%s old=%q new=%q", cur.ID, prev.VehicleName, cur.VehicleName)
	}

	e := expense.Expense{
		ID:          cur.ID, // 共同身份：镜像支出沿用维修 ID
		VehicleID:   vehicleID,
		Date:        cur.Date,
		Amount:      cur.Cost,
		Category:    expense.CategoryMaintenance,
		Description: cur.Title,
		Notes:       cur.Description,
	}
	if cur.Mileage > 0 {
		mileage := cur.Mileage
		e.Mileage = &mileage
	}

	var err error
	if prev == nil {
		err = ledger.AddFromMaintenance(ctx, e)
	} else {
		err = ledger.UpdateFromMaintenance(ctx, e)
	}
	if err != nil && c.log != nil {
		c.log.Warnf("expense projection failed maintenance=%s err=%v", cur.ID, err)
	}
}

// RetractMaintenance 实现 maintenance.ExpenseMirror：撤掉镜像支出。
func (c *Coordinator) RetractMaintenance(ctx context.Context, id string) {
	ledger, _, _ := c.deps()
	if ledger == nil {
		if c.log != nil {
			c.log.Warnf("coordinator not configured, skip retraction maintenance=%s", id)
		}
		return
	}
	if err := ledger.DeleteFromMaintenance(ctx, id); err != nil && c.log != nil {
		c.log.Warnf("expense retraction failed maintenance=%s err=%v", id, err)
	}
}

// ImportExpense 外部数据导入入口（反向路径的唯一起点）：
// 支出先入账本；若已标记 maintenance 类别，再 upsert 进维修日志。
// SyncFromExpense 不会再投影回支出侧，链条到此为止。
func (c *Coordinator) ImportExpense(ctx context.Context, e expense.Expense) (expense.Expense, error) {
	ledger, registry, mlog := c.deps()
	if ledger == nil {
		return expense.Expense{}, ErrNotConfigured
	}

	if strings.TrimSpace(e.ID) == "" && e.Category == expense.CategoryMaintenance {
		// 配对记录的 ID 必须出自同一个工厂
		e.ID = maintenance.NewRecordID()
	}

	saved, err := ledger.Add(ctx, e)
	if err != nil {
		return expense.Expense{}, err
	}

	if saved.Category == expense.CategoryMaintenance && mlog != nil {
		displayName := ""
		if registry != nil {
			if v, ok := registry.Get(ctx, saved.VehicleID); ok {
				displayName = v.DisplayName()
			}
		}
		if _, err := mlog.SyncFromExpense(ctx, saved, displayName); err != nil && c.log != nil {
			c.log.Warnf("maintenance upsert from expense failed expense=%s err=%v", saved.ID, err)
		}
	}
	return saved, nil
}
