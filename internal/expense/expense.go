package expense

import "time"

// Category 支出类别枚举（持久化为字符串）。
// CategoryMaintenance 保留给维修镜像支出：这一类记录与维修记录共用同一个 ID。
type Category string

const (
	CategoryFuel        Category = "fuel"
	CategoryMaintenance Category = "maintenance"
	CategoryInsurance   Category = "insurance"
	CategoryParking     Category = "parking"
	CategoryToll        Category = "toll"
	CategoryFine        Category = "fine"
	CategoryCleaning    Category = "cleaning"
	CategoryOther       Category = "other"
)

// Expense 支出记录。
// VehicleID 是弱引用：不做引用完整性校验，悬挂引用在读取侧过滤。
type Expense struct {
	ID          string    `json:"id"`
	VehicleID   string    `json:"vehicle_id"`
	Date        time.Time `json:"date"`
	Amount      float64   `json:"amount"`
	Category    Category  `json:"category"`
	Description string    `json:"description"`
	Mileage     *float64  `json:"mileage,omitempty"`
	Notes       string    `json:"notes,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// IsSynthetic 是否为维修记录镜像出来的合成支出。
func (e Expense) IsSynthetic() bool {
	return e.Category == CategoryMaintenance
}
