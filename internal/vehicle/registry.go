package vehicle

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

// RentalHooks 是租赁生命周期侧的回调接口：
// 由 rental.Manager 实现，注册表只依赖接口，避免包级循环依赖。
type RentalHooks interface {
	// ProvisionForVehicle 车辆从“不可租”翻转为“可租”后调用（每次翻转恰好一次）。
	ProvisionForVehicle(ctx context.Context, v Vehicle) error
	// RemoveContractsForVehicle 删除车辆时级联清理其全部合同。
	RemoveContractsForVehicle(ctx context.Context, vehicleID string) error
}

// Registry 车辆集合的唯一写入方。
// 内存态为会话内的事实来源，record store 为尽力而为的持久化。
type Registry struct {
	mu       sync.RWMutex
	col      *store.Collection[Vehicle]
	vehicles []Vehicle
	loaded   bool

	hooks RentalHooks
	log   logger.Logger
}

func NewRegistry(col *store.Collection[Vehicle], log logger.Logger) *Registry {
	return &Registry{col: col, log: log}
}

// Configure 注入租赁回调。构造之后、对外提供服务之前调用一次。
// 未注入时相关联动静默跳过（记录本身照常保存）。
func (r *Registry) Configure(hooks RentalHooks) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.hooks = hooks
}

func (r *Registry) ensureLoaded(ctx context.Context) {
	if r.loaded {
		return
	}
	if records, found := r.col.Load(ctx); found {
		r.vehicles = records
	}
	r.loaded = true
}

func (r *Registry) Add(ctx context.Context, v Vehicle) (Vehicle, error) {
	if strings.TrimSpace(v.Brand) == "" && strings.TrimSpace(v.Model) == "" {
		return Vehicle{}, fmt.Errorf("brand or model required")
	}
	if strings.TrimSpace(v.ID) == "" {
		v.ID = uuid.NewString()
	}
	now := time.Now()
	v.CreatedAt = now
	v.UpdatedAt = now

	r.mu.Lock()
	r.ensureLoaded(ctx)
	for _, cur := range r.vehicles {
		if cur.ID == v.ID {
			r.mu.Unlock()
			return Vehicle{}, fmt.Errorf("vehicle already exists: %s", v.ID)
		}
	}
	r.vehicles = append(r.vehicles, v)
	r.col.Save(ctx, r.vehicles)
	hooks := r.hooks
	r.mu.Unlock()

	// 先落库再联动；锁外调用，避免与合同集合形成锁序倒置。
	if IsRentable(v) {
		r.provision(ctx, hooks, v)
	}
	return v, nil
}

func (r *Registry) Update(ctx context.Context, v Vehicle) (Vehicle, error) {
	if strings.TrimSpace(v.ID) == "" {
		return Vehicle{}, fmt.Errorf("id required")
	}

	r.mu.Lock()
	r.ensureLoaded(ctx)
	idx := -1
	var prev Vehicle
	for i, cur := range r.vehicles {
		if cur.ID == v.ID {
			idx = i
			prev = cur
			break
		}
	}
	if idx < 0 {
		r.mu.Unlock()
		return Vehicle{}, fmt.Errorf("vehicle not found: %s", v.ID)
	}

	// 翻转判定必须对比“覆盖前的旧记录”和新记录，
	// 而不是拿新记录自己和自己比。
	becameRentable := !IsRentable(prev) && IsRentable(v)

	v.CreatedAt = prev.CreatedAt
	v.UpdatedAt = time.Now()
	r.vehicles[idx] = v
	r.col.Save(ctx, r.vehicles)
	hooks := r.hooks
	r.mu.Unlock()

	if becameRentable {
		r.provision(ctx, hooks, v)
	}
	return v, nil
}

func (r *Registry) Delete(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return fmt.Errorf("id required")
	}

	r.mu.Lock()
	r.ensureLoaded(ctx)
	idx := -1
	for i, cur := range r.vehicles {
		if cur.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		r.mu.Unlock()
		return fmt.Errorf("vehicle not found: %s", id)
	}
	r.vehicles = append(r.vehicles[:idx], r.vehicles[idx+1:]...)
	r.col.Save(ctx, r.vehicles)
	hooks := r.hooks
	r.mu.Unlock()

	// 级联删除该车的全部租赁合同。
	// 维修记录按展示名关联车辆，不参与级联。
	if hooks != nil {
		if err := hooks.RemoveContractsForVehicle(ctx, id); err != nil && r.log != nil {
			r.log.Warnf("cascade delete contracts failed vehicle=%s err=%v", id, err)
		}
	}
	return nil
}

func (r *Registry) Get(ctx context.Context, id string) (Vehicle, bool) {
	r.mu.Lock()
	r.ensureLoaded(ctx)
	defer r.mu.Unlock()
	for _, cur := range r.vehicles {
		if cur.ID == id {
			return cur, true
		}
	}
	return Vehicle{}, false
}

func (r *Registry) List(ctx context.Context) []Vehicle {
	r.mu.Lock()
	r.ensureLoaded(ctx)
	out := make([]Vehicle, len(r.vehicles))
	copy(out, r.vehicles)
	r.mu.Unlock()
	return out
}

func (r *Registry) provision(ctx context.Context, hooks RentalHooks, v Vehicle) {
	if hooks == nil {
		if r.log != nil {
			r.log.Warnf("rental hooks not configured, skip provisioning vehicle=%s", v.ID)
		}
		return
	}
	if err := hooks.ProvisionForVehicle(ctx, v); err != nil && r.log != nil {
		r.log.Warnf("auto provisioning failed vehicle=%s err=%v", v.ID, err)
	}
}
