package syncer_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/WheelTrack/WheelTrack/internal/common/logger"
	"github.com/WheelTrack/WheelTrack/internal/expense"
	"github.com/WheelTrack/WheelTrack/internal/maintenance"
	"github.com/WheelTrack/WheelTrack/internal/store"
	"github.com/WheelTrack/WheelTrack/internal/syncer"
	"github.com/WheelTrack/WheelTrack/internal/vehicle"
)

type env struct {
	registry    *vehicle.Registry
	ledger      *expense.Ledger
	mlog        *maintenance.Log
	coordinator *syncer.Coordinator
}

func newEnv() *env {
	backend := store.NewMemoryBackend()
	nop := logger.Nop{}
	e := &env{
		registry:    vehicle.NewRegistry(store.NewCollection[vehicle.Vehicle](store.NameVehicles, backend, nop), nop),
		ledger:      expense.NewLedger(store.NewCollection[expense.Expense](store.NameExpenses, backend, nop), nop),
		mlog:        maintenance.NewLog(store.NewCollection[maintenance.Maintenance](store.NameMaintenances, backend, nop), nop),
		coordinator: syncer.NewCoordinator(nop),
	}
	e.coordinator.Configure(e.ledger, e.registry, e.mlog)
	e.mlog.Configure(e.coordinator, nil)
	return e
}

func TestImportMaintenanceExpenseCreatesRecord(t *testing.T) {
	ctx := context.Background()
	env := newEnv()

	v, err := env.registry.Add(ctx, vehicle.Vehicle{Brand: "Peugeot", Model: "208"})
	if err != nil {
		t.Fatalf("registry.Add: %v", err)
	}

	saved, err := env.coordinator.ImportExpense(ctx, expense.Expense{
		Description: "Revision 60000km",
		Amount:    260,
		Date:      time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		Category:  expense.CategoryMaintenance,
		VehicleID: v.ID,
	})
	if err != nil {
		t.Fatalf("ImportExpense: %v", err)
	}
	if saved.ID == "" {
		t.Fatalf("expected imported expense to get an id")
	}

	m, ok := env.mlog.Get(ctx, saved.ID)
	if !ok {
		t.Fatalf("expected maintenance record with id %s", saved.ID)
	}
	if m.Cost != 260 || m.Title != "Revision 60000km" {
		t.Fatalf("maintenance mismatch: cost=%v title=%q", m.Cost, m.Title)
	}
	if m.VehicleName != v.DisplayName() {
		t.Fatalf("expected vehicle name %q, got %q", v.DisplayName(), m.VehicleName)
	}
	// 反向同步到此为止：支出侧不被再次改写
	if got := len(env.ledger.List(ctx)); got != 1 {
		t.Fatalf("expected exactly 1 expense after import, got %d", got)
	}
}

func TestImportNonMaintenanceLeavesLogAlone(t *testing.T) {
	ctx := context.Background()
	env := newEnv()

	if _, err := env.coordinator.ImportExpense(ctx, expense.Expense{
		Description: "Plein essence", Amount: 70, Date: time.Now(), Category: expense.CategoryFuel,
	}); err != nil {
		t.Fatalf("ImportExpense: %v", err)
	}
	if got := len(env.mlog.List(ctx)); got != 0 {
		t.Fatalf("expected no maintenance records, got %d", got)
	}
	if got := len(env.ledger.List(ctx)); got != 1 {
		t.Fatalf("expected 1 expense, got %d", got)
	}
}

// 镜像支出已占用该 ID：重复导入被账本拒绝，两侧都不被改动。
func TestImportDuplicateIDRejected(t *testing.T) {
	ctx := context.Background()
	env := newEnv()

	m, err := env.mlog.Add(ctx, maintenance.Maintenance{Title: "Courroie", Cost: 500, Date: time.Now()})
	if err != nil {
		t.Fatalf("mlog.Add: %v", err)
	}

	if _, err := env.coordinator.ImportExpense(ctx, expense.Expense{
		ID: m.ID, Description: "Courroie", Amount: 520, Date: time.Now(), Category: expense.CategoryMaintenance,
	}); err == nil {
		t.Fatalf("expected duplicate import to fail")
	}
	if got := len(env.ledger.List(ctx)); got != 1 {
		t.Fatalf("expected 1 expense, got %d", got)
	}
	kept, _ := env.mlog.Get(ctx, m.ID)
	if kept.Cost != 500 {
		t.Fatalf("expected maintenance untouched, cost=%v", kept.Cost)
	}
}

func TestImportUnconfigured(t *testing.T) {
	c := syncer.NewCoordinator(logger.Nop{})
	_, err := c.ImportExpense(context.Background(), expense.Expense{Description: "x", Amount: 1})
	if !errors.Is(err, syncer.ErrNotConfigured) {
		t.Fatalf("expected ErrNotConfigured, got %v", err)
	}
}

func TestProjectUnconfiguredIsNoop(t *testing.T) {
	c := syncer.NewCoordinator(logger.Nop{})
	// 不接线时投影与撤回都必须静默返回
	c.ProjectMaintenance(context.Background(), nil, maintenance.Maintenance{ID: "m1", Title: "x", Cost: 10})
	c.RetractMaintenance(context.Background(), "m1")
}
