package rental

import (
	"context"
	"testing"
	"time"

	"github.com/WheelTrack/WheelTrack/internal/common/logger"
	"github.com/WheelTrack/WheelTrack/internal/store"
	"github.com/WheelTrack/WheelTrack/internal/vehicle"
)

func newTestManager() *Manager {
	col := store.NewCollection[Contract](store.NameContracts, store.NewMemoryBackend(), logger.Nop{})
	return NewManager(col, 0, logger.Nop{})
}

func rentableVehicle() vehicle.Vehicle {
	return vehicle.Vehicle{
		ID:                 "v-1",
		Brand:              "Renault",
		Model:              "Clio",
		RentalPrice:        50,
		DepositAmount:      300,
		MinimumRentalDays:  5,
		IsAvailableForRent: true,
	}
}

func TestAutoCreatePrefilledContract(t *testing.T) {
	ctx := context.Background()
	m := newTestManager()

	c, created, err := m.AutoCreatePrefilledContract(ctx, rentableVehicle())
	if err != nil {
		t.Fatalf("AutoCreatePrefilledContract: %v", err)
	}
	if !created {
		t.Fatalf("expected contract created")
	}
	if c.RenterName != "" {
		t.Fatalf("expected empty renter name, got %q", c.RenterName)
	}
	if c.PricePerDay != 50 || c.DepositAmount != 300 {
		t.Fatalf("price/deposit mismatch: %v / %v", c.PricePerDay, c.DepositAmount)
	}
	if got := RentalDays(c.StartDate, c.EndDate); got != 5 {
		t.Fatalf("expected 5-day window from vehicle minimum, got %d", got)
	}
	if c.TotalPrice != 250 {
		t.Fatalf("expected total 250, got %v", c.TotalPrice)
	}
	if got := c.StatusAt(time.Now()); got != StatusPrefilled {
		t.Fatalf("expected prefilled status, got %s", got)
	}
}

func TestAutoCreateIsIdempotent(t *testing.T) {
	ctx := context.Background()
	m := newTestManager()
	v := rentableVehicle()

	if _, created, err := m.AutoCreatePrefilledContract(ctx, v); err != nil || !created {
		t.Fatalf("first create: created=%v err=%v", created, err)
	}
	// 同一辆车再次触发：不新建
	if _, created, err := m.AutoCreatePrefilledContract(ctx, v); err != nil || created {
		t.Fatalf("second create: created=%v err=%v", created, err)
	}
	if got := len(m.ContractsForVehicle(ctx, v.ID)); got != 1 {
		t.Fatalf("expected exactly 1 contract, got %d", got)
	}

	// 删除之后可以重新预填
	if err := m.DeleteAllForVehicle(ctx, v.ID); err != nil {
		t.Fatalf("DeleteAllForVehicle: %v", err)
	}
	if _, created, err := m.AutoCreatePrefilledContract(ctx, v); err != nil || !created {
		t.Fatalf("create after delete: created=%v err=%v", created, err)
	}
}

func TestAutoCreateDefaultWindow(t *testing.T) {
	ctx := context.Background()
	m := newTestManager()
	v := rentableVehicle()
	v.MinimumRentalDays = 0 // 车辆未配置最短租期

	c, _, err := m.AutoCreatePrefilledContract(ctx, v)
	if err != nil {
		t.Fatalf("AutoCreatePrefilledContract: %v", err)
	}
	if got := RentalDays(c.StartDate, c.EndDate); got != DefaultContractDays {
		t.Fatalf("expected default %d-day window, got %d", DefaultContractDays, got)
	}
}

func TestValidateContract(t *testing.T) {
	m := newTestManager()
	now := time.Now()

	ok := Contract{RenterName: "Jean", StartDate: now, EndDate: now.AddDate(0, 0, 3), PricePerDay: 40}
	if res := m.ValidateContract(ok); !res.IsValid {
		t.Fatalf("expected valid, got %q", res.Message)
	}

	badDates := Contract{RenterName: "Jean", StartDate: now.AddDate(0, 0, 3), EndDate: now, PricePerDay: 40}
	if res := m.ValidateContract(badDates); res.IsValid {
		t.Fatalf("expected invalid dates")
	}

	// 承租人已填写但价格为 0：拒绝
	noPrice := Contract{RenterName: "Jean", StartDate: now, EndDate: now.AddDate(0, 0, 3)}
	if res := m.ValidateContract(noPrice); res.IsValid {
		t.Fatalf("expected invalid price")
	}

	// 预填草稿容忍 0 价
	draft := Contract{RenterName: "", StartDate: now, EndDate: now.AddDate(0, 0, 3)}
	if res := m.ValidateContract(draft); !res.IsValid {
		t.Fatalf("expected prefilled draft tolerated, got %q", res.Message)
	}
}

func TestUpdateRecomputesTotal(t *testing.T) {
	ctx := context.Background()
	m := newTestManager()

	c, _, err := m.AutoCreatePrefilledContract(ctx, rentableVehicle())
	if err != nil {
		t.Fatalf("AutoCreatePrefilledContract: %v", err)
	}

	c.RenterName = "Jean"
	c.PricePerDay = 80
	c.TotalPrice = 1 // 编辑后的存量值不可信
	updated, err := m.Update(ctx, c)
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	want := float64(RentalDays(updated.StartDate, updated.EndDate)) * 80
	if updated.TotalPrice != want {
		t.Fatalf("expected total %v, got %v", want, updated.TotalPrice)
	}
}

func TestDeleteAllForVehicleOnlyTouchesThatVehicle(t *testing.T) {
	ctx := context.Background()
	m := newTestManager()

	v1 := rentableVehicle()
	v2 := rentableVehicle()
	v2.ID = "v-2"
	if _, _, err := m.AutoCreatePrefilledContract(ctx, v1); err != nil {
		t.Fatalf("create v1: %v", err)
	}
	if _, _, err := m.AutoCreatePrefilledContract(ctx, v2); err != nil {
		t.Fatalf("create v2: %v", err)
	}

	if err := m.DeleteAllForVehicle(ctx, v1.ID); err != nil {
		t.Fatalf("DeleteAllForVehicle: %v", err)
	}
	if got := len(m.ContractsForVehicle(ctx, v1.ID)); got != 0 {
		t.Fatalf("expected v1 contracts gone, got %d", got)
	}
	if got := len(m.ContractsForVehicle(ctx, v2.ID)); got != 1 {
		t.Fatalf("expected v2 contract untouched, got %d", got)
	}
}
