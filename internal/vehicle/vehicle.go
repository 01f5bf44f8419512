package vehicle

import (
	"strings"
	"time"
)

// FuelType 燃料类型枚举（持久化为字符串）。
type FuelType string

const (
	FuelGasoline FuelType = "gasoline"
	FuelDiesel   FuelType = "diesel"
	FuelElectric FuelType = "electric"
	FuelHybrid   FuelType = "hybrid"
)

// Transmission 变速箱类型枚举。
type Transmission string

const (
	TransmissionManual    Transmission = "manual"
	TransmissionAutomatic Transmission = "automatic"
)

// Vehicle 车辆记录（JSON 序列化后整列表存入 record store）。
type Vehicle struct {
	ID           string       `json:"id"`
	Brand        string       `json:"brand"`
	Model        string       `json:"model"`
	Year         int          `json:"year"`
	LicensePlate string       `json:"license_plate"`
	Mileage      float64      `json:"mileage"`
	FuelType     FuelType     `json:"fuel_type"`
	Transmission Transmission `json:"transmission"`
	Color        string       `json:"color"`

	PurchaseDate    time.Time `json:"purchase_date"`
	PurchasePrice   float64   `json:"purchase_price"`
	PurchaseMileage float64   `json:"purchase_mileage"`

	IsActive bool `json:"is_active"`

	// 租赁相关（可选字段）
	RentalPrice        float64 `json:"rental_price,omitempty"` // 日租金
	DepositAmount      float64 `json:"deposit_amount,omitempty"`
	MinimumRentalDays  int     `json:"minimum_rental_days,omitempty"`
	MaximumRentalDays  int     `json:"maximum_rental_days,omitempty"`
	IsAvailableForRent bool    `json:"is_available_for_rent"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// DisplayName 列表页展示名（维修记录按这个文本关联车辆）。
func (v Vehicle) DisplayName() string {
	return strings.TrimSpace(strings.TrimSpace(v.Brand) + " " + strings.TrimSpace(v.Model))
}

// IsRentable 判断车辆是否可出租：
// 开关打开且日租金为正，二者同时成立才会触发预填合同的自动创建。
func IsRentable(v Vehicle) bool {
	return v.IsAvailableForRent && v.RentalPrice > 0
}
