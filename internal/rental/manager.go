package rental

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/WheelTrack/WheelTrack/internal/common/logger"
	"github.com/WheelTrack/WheelTrack/internal/store"
	"github.com/WheelTrack/WheelTrack/internal/vehicle"
	"github.com/google/uuid"
)

// DefaultContractDays 车辆未配置最短租期时，预填合同的默认时长（天）。
const DefaultContractDays = 7

// Manager 合同集合的唯一写入方，同时实现 vehicle.RentalHooks：
// 车辆注册表在可租状态翻转和删除时经接口回调进来。
type Manager struct {
	mu        sync.RWMutex
	col       *store.Collection[Contract]
	contracts []Contract
	loaded    bool

	defaultDays int
	log         logger.Logger
}

func NewManager(col *store.Collection[Contract], defaultDays int, log logger.Logger) *Manager {
	if defaultDays <= 0 {
		defaultDays = DefaultContractDays
	}
	return &Manager{col: col, defaultDays: defaultDays, log: log}
}

func (m *Manager) ensureLoaded(ctx context.Context) {
	if m.loaded {
		return
	}
	if records, found := m.col.Load(ctx); found {
		m.contracts = records
	}
	m.loaded = true
}

// AutoCreatePrefilledContract 车辆变为可租时自动生成预填合同。
// 对同一车辆幂等：该车已有合同时不再新建（先查后建）。
// 返回的 bool 表示本次是否真的创建了新合同。
func (m *Manager) AutoCreatePrefilledContract(ctx context.Context, v vehicle.Vehicle) (Contract, bool, error) {
	if strings.TrimSpace(v.ID) == "" {
		return Contract{}, false, fmt.Errorf("vehicle id required")
	}
	if !vehicle.IsRentable(v) {
		return Contract{}, false, fmt.Errorf("vehicle not rentable: %s", v.ID)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.ensureLoaded(ctx)

	for _, cur := range m.contracts {
		if cur.VehicleID == v.ID {
			return cur, false, nil
		}
	}

	days := v.MinimumRentalDays
	if days <= 0 {
		days = m.defaultDays
	}
	now := time.Now()
	c := Contract{
		ID:            uuid.NewString(),
		VehicleID:     v.ID,
		RenterName:    "", // 预填哨兵：等待用户补全
		StartDate:     now,
		EndDate:       now.AddDate(0, 0, days),
		PricePerDay:   v.RentalPrice,
		DepositAmount: v.DepositAmount,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	Recompute(&c)

	m.contracts = append(m.contracts, c)
	m.col.Save(ctx, m.contracts)
	if m.log != nil {
		m.log.Infof("prefilled contract created vehicle=%s contract=%s days=%d", v.ID, c.ID, days)
	}
	return c, true, nil
}

// ValidateContract 校验合同，返回结构化结果，从不抛错：
// - 起始必须早于结束
// - 承租人已填写时日租金必须为正（预填草稿容忍 0 价）
func (m *Manager) ValidateContract(c Contract) ValidationResult {
	if !c.StartDate.Before(c.EndDate) {
		return invalid("start date must be before end date")
	}
	if strings.TrimSpace(c.RenterName) != "" && c.PricePerDay <= 0 {
		return invalid("price per day must be positive")
	}
	return valid()
}

// Add 用户手工创建合同。
func (m *Manager) Add(ctx context.Context, c Contract) (Contract, error) {
	if strings.TrimSpace(c.VehicleID) == "" {
		return Contract{}, fmt.Errorf("vehicle id required")
	}
	if res := m.ValidateContract(c); !res.IsValid {
		return Contract{}, fmt.Errorf("invalid contract: %s", res.Message)
	}
	if strings.TrimSpace(c.ID) == "" {
		c.ID = uuid.NewString()
	}
	now := time.Now()
	c.CreatedAt = now
	c.UpdatedAt = now
	Recompute(&c)

	m.mu.Lock()
	defer m.mu.Unlock()
	m.ensureLoaded(ctx)
	for _, cur := range m.contracts {
		if cur.ID == c.ID {
			return Contract{}, fmt.Errorf("contract already exists: %s", c.ID)
		}
	}
	m.contracts = append(m.contracts, c)
	m.col.Save(ctx, m.contracts)
	return c, nil
}

// Update 整条覆盖，先重算总价再持久化。
func (m *Manager) Update(ctx context.Context, c Contract) (Contract, error) {
	if strings.TrimSpace(c.ID) == "" {
		return Contract{}, fmt.Errorf("id required")
	}
	if res := m.ValidateContract(c); !res.IsValid {
		return Contract{}, fmt.Errorf("invalid contract: %s", res.Message)
	}
	Recompute(&c)

	m.mu.Lock()
	defer m.mu.Unlock()
	m.ensureLoaded(ctx)
	for i, cur := range m.contracts {
		if cur.ID == c.ID {
			c.CreatedAt = cur.CreatedAt
			c.UpdatedAt = time.Now()
			m.contracts[i] = c
			m.col.Save(ctx, m.contracts)
			return c, nil
		}
	}
	return Contract{}, fmt.Errorf("contract not found: %s", c.ID)
}

func (m *Manager) Delete(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return fmt.Errorf("id required")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ensureLoaded(ctx)
	for i, cur := range m.contracts {
		if cur.ID == id {
			m.contracts = append(m.contracts[:i], m.contracts[i+1:]...)
			m.col.Save(ctx, m.contracts)
			return nil
		}
	}
	return fmt.Errorf("contract not found: %s", id)
}

// DeleteAllForVehicle 车辆删除级联：清掉该车全部合同。
func (m *Manager) DeleteAllForVehicle(ctx context.Context, vehicleID string) error {
	vehicleID = strings.TrimSpace(vehicleID)
	if vehicleID == "" {
		return fmt.Errorf("vehicle id required")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ensureLoaded(ctx)
	kept := m.contracts[:0]
	removed := 0
	for _, cur := range m.contracts {
		if cur.VehicleID == vehicleID {
			removed++
			continue
		}
		kept = append(kept, cur)
	}
	if removed == 0 {
		return nil
	}
	m.contracts = kept
	m.col.Save(ctx, m.contracts)
	if m.log != nil {
		m.log.Infof("contracts cascade deleted vehicle=%s count=%d", vehicleID, removed)
	}
	return nil
}

func (m *Manager) Get(ctx context.Context, id string) (Contract, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ensureLoaded(ctx)
	for _, cur := range m.contracts {
		if cur.ID == id {
			return cur, true
		}
	}
	return Contract{}, false
}

func (m *Manager) List(ctx context.Context) []Contract {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ensureLoaded(ctx)
	out := make([]Contract, len(m.contracts))
	copy(out, m.contracts)
	return out
}

func (m *Manager) ContractsForVehicle(ctx context.Context, vehicleID string) []Contract {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ensureLoaded(ctx)
	out := make([]Contract, 0, 2)
	for _, cur := range m.contracts {
		if cur.VehicleID == vehicleID {
			out = append(out, cur)
		}
	}
	return out
}

// StatusForVehicle 车辆层面的状态汇总（没有合同时为 available）。
func (m *Manager) StatusForVehicle(ctx context.Context, vehicleID string, now time.Time) Status {
	return SummaryStatus(m.ContractsForVehicle(ctx, vehicleID), now)
}

// vehicle.RentalHooks 实现。

func (m *Manager) ProvisionForVehicle(ctx context.Context, v vehicle.Vehicle) error {
	_, _, err := m.AutoCreatePrefilledContract(ctx, v)
	return err
}

func (m *Manager) RemoveContractsForVehicle(ctx context.Context, vehicleID string) error {
	return m.DeleteAllForVehicle(ctx, vehicleID)
}
