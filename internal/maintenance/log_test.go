package maintenance_test

import (
	"context"
	"testing"
	"time"

	"github.com/WheelTrack/WheelTrack/internal/common/logger"
	"github.com/WheelTrack/WheelTrack/internal/expense"
	"github.com/WheelTrack/WheelTrack/internal/maintenance"
	"github.com/WheelTrack/WheelTrack/internal/rental"
	"github.com/WheelTrack/WheelTrack/internal/store"
	"github.com/WheelTrack/WheelTrack/internal/syncer"
	"github.com/WheelTrack/WheelTrack/internal/vehicle"
)

type fixtures struct {
	registry     *vehicle.Registry
	ledger       *expense.Ledger
	mlog         *maintenance.Log
	rentals      *rental.Manager
	coordinator  *syncer.Coordinator
	remindersLog *fakeScheduler
}

type fakeScheduler struct {
	keys      []string
	dates     []time.Time
	cancelled []string
}

func (f *fakeScheduler) Schedule(ctx context.Context, key string, fireAt time.Time, message string) error {
	f.keys = append(f.keys, key)
	f.dates = append(f.dates, fireAt)
	return nil
}

func (f *fakeScheduler) Cancel(ctx context.Context, key string) error {
	f.cancelled = append(f.cancelled, key)
	return nil
}

func newFixtures() *fixtures {
	backend := store.NewMemoryBackend()
	nop := logger.Nop{}
	f := &fixtures{
		registry:     vehicle.NewRegistry(store.NewCollection[vehicle.Vehicle](store.NameVehicles, backend, nop), nop),
		ledger:       expense.NewLedger(store.NewCollection[expense.Expense](store.NameExpenses, backend, nop), nop),
		mlog:         maintenance.NewLog(store.NewCollection[maintenance.Maintenance](store.NameMaintenances, backend, nop), nop),
		rentals:      rental.NewManager(store.NewCollection[rental.Contract](store.NameContracts, backend, nop), 0, nop),
		coordinator:  syncer.NewCoordinator(nop),
		remindersLog: &fakeScheduler{},
	}
	// 启动期接线（composition root 的等价物）
	f.coordinator.Configure(f.ledger, f.registry, f.mlog)
	f.mlog.Configure(f.coordinator, f.remindersLog)
	f.registry.Configure(f.rentals)
	return f
}

func TestAddProjectsExactlyOneExpense(t *testing.T) {
	ctx := context.Background()
	f := newFixtures()

	date := time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC)
	m, err := f.mlog.Add(ctx, maintenance.Maintenance{
		Title:       "Vidange",
		Date:        date,
		Cost:        120.0,
		VehicleName: "Renault Clio",
		GarageName:  "Garage Dupont",
	})
	if err != nil {
		t.Fatalf("Add: %v", err)
	}

	all := f.ledger.List(ctx)
	if len(all) != 1 {
		t.Fatalf("expected exactly 1 expense, got %d", len(all))
	}
	e := all[0]
	if e.ID != m.ID {
		t.Fatalf("co-identity broken: expense=%s maintenance=%s", e.ID, m.ID)
	}
	if e.Category != expense.CategoryMaintenance {
		t.Fatalf("expected maintenance category, got %s", e.Category)
	}
	if e.Amount != 120.0 || !e.Date.Equal(date) {
		t.Fatalf("mirror mismatch: amount=%v date=%v", e.Amount, e.Date)
	}
}

func TestUpdateCostUpdatesMirrorWithoutDuplicate(t *testing.T) {
	ctx := context.Background()
	f := newFixtures()

	m, err := f.mlog.Add(ctx, maintenance.Maintenance{Title: "Vidange", Cost: 120.0, Date: time.Now()})
	if err != nil {
		t.Fatalf("Add: %v", err)
	}

	m.Cost = 150.0
	if _, err := f.mlog.Update(ctx, m); err != nil {
		t.Fatalf("Update: %v", err)
	}

	all := f.ledger.List(ctx)
	if len(all) != 1 {
		t.Fatalf("expected still 1 expense, got %d", len(all))
	}
	if all[0].Amount != 150.0 {
		t.Fatalf("expected amount 150, got %v", all[0].Amount)
	}
}

func TestDeleteRetractsMirror(t *testing.T) {
	ctx := context.Background()
	f := newFixtures()

	m, err := f.mlog.Add(ctx, maintenance.Maintenance{Title: "Freins", Cost: 300, Date: time.Now()})
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	if err := f.mlog.Delete(ctx, m.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if got := len(f.ledger.List(ctx)); got != 0 {
		t.Fatalf("expected mirror expense removed, got %d", got)
	}
	if len(f.remindersLog.cancelled) != 1 || f.remindersLog.cancelled[0] != "maintenance_"+m.ID {
		t.Fatalf("expected reminder cancelled, got %v", f.remindersLog.cancelled)
	}
}

// 协调器未接线：传播静默跳过，维修记录本身照常保存。
func TestUnconfiguredMirrorDegradesSilently(t *testing.T) {
	ctx := context.Background()
	backend := store.NewMemoryBackend()
	nop := logger.Nop{}
	mlog := maintenance.NewLog(store.NewCollection[maintenance.Maintenance](store.NameMaintenances, backend, nop), nop)

	m, err := mlog.Add(ctx, maintenance.Maintenance{Title: "Pneus", Cost: 400, Date: time.Now()})
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	if _, ok := mlog.Get(ctx, m.ID); !ok {
		t.Fatalf("expected maintenance saved despite missing mirror")
	}
}

func TestAddSchedulesDeterministicReminder(t *testing.T) {
	ctx := context.Background()
	f := newFixtures()

	date := time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC)
	m, err := f.mlog.Add(ctx, maintenance.Maintenance{Title: "Vidange", Date: date, Cost: 100})
	if err != nil {
		t.Fatalf("Add: %v", err)
	}

	if len(f.remindersLog.keys) != 1 {
		t.Fatalf("expected 1 reminder request, got %d", len(f.remindersLog.keys))
	}
	if want := "maintenance_" + m.ID; f.remindersLog.keys[0] != want {
		t.Fatalf("reminder key mismatch: %s != %s", f.remindersLog.keys[0], want)
	}
	if want := date.AddDate(0, 6, 0); !f.remindersLog.dates[0].Equal(want) {
		t.Fatalf("reminder date mismatch: %v != %v", f.remindersLog.dates[0], want)
	}
}

// 删除车辆只级联合同；维修记录按展示名关联，必须保留。
func TestVehicleDeleteDoesNotCascadeMaintenance(t *testing.T) {
	ctx := context.Background()
	f := newFixtures()

	v, err := f.registry.Add(ctx, vehicle.Vehicle{Brand: "Renault", Model: "Clio", IsAvailableForRent: true, RentalPrice: 50})
	if err != nil {
		t.Fatalf("registry.Add: %v", err)
	}
	now := time.Now()
	if _, err := f.rentals.Add(ctx, rental.Contract{
		VehicleID: v.ID, RenterName: "Jean",
		StartDate: now.AddDate(0, 0, -10), EndDate: now.AddDate(0, 0, -5), PricePerDay: 50,
	}); err != nil {
		t.Fatalf("rentals.Add: %v", err)
	}
	if _, err := f.mlog.Add(ctx, maintenance.Maintenance{Title: "Revision", Cost: 200, Date: now, VehicleName: v.DisplayName()}); err != nil {
		t.Fatalf("mlog.Add: %v", err)
	}
	if got := len(f.rentals.ContractsForVehicle(ctx, v.ID)); got != 2 {
		t.Fatalf("expected 2 contracts before delete, got %d", got)
	}

	if err := f.registry.Delete(ctx, v.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if got := len(f.rentals.ContractsForVehicle(ctx, v.ID)); got != 0 {
		t.Fatalf("expected contracts cascade deleted, got %d", got)
	}
	if got := len(f.mlog.List(ctx)); got != 1 {
		t.Fatalf("expected maintenance kept after vehicle delete, got %d", got)
	}
}

func TestSyncFromExpenseUpserts(t *testing.T) {
	ctx := context.Background()
	f := newFixtures()

	// 新建分支：未知 ID 的 maintenance 类支出落成一条维修记录
	mileage := 61000.0
	date := time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC)
	created, err := f.mlog.SyncFromExpense(ctx, expense.Expense{
		ID: "exp-1", Description: "Revision", Amount: 260, Date: date, Mileage: &mileage,
	}, "Renault Clio")
	if err != nil {
		t.Fatalf("SyncFromExpense create: %v", err)
	}
	if created.ID != "exp-1" || created.Title != "Revision" || created.Cost != 260 {
		t.Fatalf("unexpected record: %+v", created)
	}
	if created.Mileage != 61000 || created.VehicleName != "Renault Clio" {
		t.Fatalf("mileage/vehicle mismatch: %+v", created)
	}

	// 更新分支：同 ID 再次同步覆盖既有字段，不新建
	updated, err := f.mlog.SyncFromExpense(ctx, expense.Expense{
		ID: "exp-1", Description: "Revision complete", Amount: 300, Date: date,
	}, "")
	if err != nil {
		t.Fatalf("SyncFromExpense update: %v", err)
	}
	if updated.Cost != 300 || updated.Title != "Revision complete" {
		t.Fatalf("expected updated fields, got %+v", updated)
	}
	if updated.VehicleName != "Renault Clio" {
		t.Fatalf("expected vehicle name kept when absent, got %q", updated.VehicleName)
	}
	if got := len(f.mlog.List(ctx)); got != 1 {
		t.Fatalf("expected 1 record after upsert, got %d", got)
	}

	// 空白描述新建时回退默认标题
	fallback, err := f.mlog.SyncFromExpense(ctx, expense.Expense{ID: "exp-2", Amount: 50, Date: date}, "")
	if err != nil {
		t.Fatalf("SyncFromExpense fallback: %v", err)
	}
	if fallback.Title != "Entretien" {
		t.Fatalf("expected fallback title, got %q", fallback.Title)
	}
}

func TestFiltered(t *testing.T) {
	ctx := context.Background()
	f := newFixtures()

	now := time.Now()
	if _, err := f.mlog.Add(ctx, maintenance.Maintenance{Title: "Vidange moteur", VehicleName: "Renault Clio", Cost: 80, Date: now}); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if _, err := f.mlog.Add(ctx, maintenance.Maintenance{Title: "Plaquettes de frein", VehicleName: "Peugeot 208", Cost: 150, Date: now}); err != nil {
		t.Fatalf("Add: %v", err)
	}

	if got := len(f.mlog.Filtered(ctx, maintenance.Filter{SearchText: "vidange"})); got != 1 {
		t.Fatalf("search filter: expected 1, got %d", got)
	}
	if got := len(f.mlog.Filtered(ctx, maintenance.Filter{VehicleFilter: "peugeot"})); got != 1 {
		t.Fatalf("vehicle filter: expected 1, got %d", got)
	}
	if got := len(f.mlog.Filtered(ctx, maintenance.Filter{})); got != 2 {
		t.Fatalf("no filter: expected 2, got %d", got)
	}
}
