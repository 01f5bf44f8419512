package expense

import (
	"context"
	"testing"
	"time"

	"github.com/WheelTrack/WheelTrack/internal/common/logger"
	"github.com/WheelTrack/WheelTrack/internal/store"
)

func newLedger() *Ledger {
	backend := store.NewMemoryBackend()
	return NewLedger(store.NewCollection[Expense](store.NameExpenses, backend, logger.Nop{}), logger.Nop{})
}

func TestAddAssignsID(t *testing.T) {
	ctx := context.Background()
	l := newLedger()

	e, err := l.Add(ctx, Expense{Description: "Plein", Amount: 70, Category: CategoryFuel, Date: time.Now()})
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	if e.ID == "" {
		t.Fatalf("expected generated id")
	}
	if _, ok := l.Get(ctx, e.ID); !ok {
		t.Fatalf("expected expense retrievable")
	}
}

func TestAddDuplicateIDFails(t *testing.T) {
	ctx := context.Background()
	l := newLedger()

	if _, err := l.Add(ctx, Expense{ID: "e1", Description: "a", Amount: 1}); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if _, err := l.Add(ctx, Expense{ID: "e1", Description: "b", Amount: 2}); err == nil {
		t.Fatalf("expected duplicate id rejection")
	}
}

func TestFilteredByVehicleCategoryAndText(t *testing.T) {
	ctx := context.Background()
	l := newLedger()

	now := time.Now()
	mustAdd := func(e Expense) {
		t.Helper()
		if _, err := l.Add(ctx, e); err != nil {
			t.Fatalf("Add: %v", err)
		}
	}
	mustAdd(Expense{VehicleID: "v1", Description: "Plein essence", Amount: 70, Category: CategoryFuel, Date: now})
	mustAdd(Expense{VehicleID: "v1", Description: "Assurance annuelle", Amount: 600, Category: CategoryInsurance, Date: now})
	mustAdd(Expense{VehicleID: "v2", Description: "Parking aeroport", Amount: 40, Category: CategoryParking, Date: now, Notes: "weekend"})

	if got := len(l.Filtered(ctx, Filter{VehicleID: "v1"})); got != 2 {
		t.Fatalf("vehicle filter: expected 2, got %d", got)
	}
	if got := len(l.Filtered(ctx, Filter{Category: CategoryFuel})); got != 1 {
		t.Fatalf("category filter: expected 1, got %d", got)
	}
	// 搜索覆盖 Description 与 Notes
	if got := len(l.Filtered(ctx, Filter{SearchText: "weekend"})); got != 1 {
		t.Fatalf("notes search: expected 1, got %d", got)
	}
	if got := len(l.Filtered(ctx, Filter{VehicleID: "v1", Category: CategoryInsurance})); got != 1 {
		t.Fatalf("combined filter: expected 1, got %d", got)
	}
	if got := len(l.Filtered(ctx, Filter{})); got != 3 {
		t.Fatalf("no filter: expected 3, got %d", got)
	}
}

func TestAddFromMaintenanceOverwritesOnCollision(t *testing.T) {
	ctx := context.Background()
	l := newLedger()

	if err := l.AddFromMaintenance(ctx, Expense{ID: "m1", Description: "Vidange", Amount: 120}); err != nil {
		t.Fatalf("AddFromMaintenance: %v", err)
	}
	// 冲突时就地覆盖而不是报错，保持单镜像不变式
	if err := l.AddFromMaintenance(ctx, Expense{ID: "m1", Description: "Vidange", Amount: 130}); err != nil {
		t.Fatalf("AddFromMaintenance collision: %v", err)
	}
	all := l.List(ctx)
	if len(all) != 1 {
		t.Fatalf("expected 1 expense, got %d", len(all))
	}
	if all[0].Amount != 130 || all[0].Category != CategoryMaintenance {
		t.Fatalf("unexpected expense: %+v", all[0])
	}
	if !all[0].IsSynthetic() {
		t.Fatalf("expected synthetic expense")
	}
}

func TestUpdateFromMaintenanceCreatesWhenMissing(t *testing.T) {
	ctx := context.Background()
	l := newLedger()

	if err := l.UpdateFromMaintenance(ctx, Expense{ID: "m2", Description: "Freins", Amount: 300}); err != nil {
		t.Fatalf("UpdateFromMaintenance: %v", err)
	}
	e, ok := l.Get(ctx, "m2")
	if !ok || e.Amount != 300 {
		t.Fatalf("expected recreated mirror, got ok=%v e=%+v", ok, e)
	}
}

func TestDeleteFromMaintenanceIdempotent(t *testing.T) {
	ctx := context.Background()
	l := newLedger()

	if err := l.DeleteFromMaintenance(ctx, "absent"); err != nil {
		t.Fatalf("expected no error for missing mirror, got %v", err)
	}
}
