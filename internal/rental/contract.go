package rental

import "time"

// Contract 租赁合同。
//
// RenterName 为空串表示“预填合同”——车辆刚变为可租时自动生成、
// 等待用户补全的草稿。这是哨兵约定，不另设布尔字段。
type Contract struct {
	ID         string `json:"id"`
	VehicleID  string `json:"vehicle_id"`
	RenterName string `json:"renter_name"`

	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`

	PricePerDay     float64 `json:"price_per_day"`
	TotalPrice      float64 `json:"total_price"`
	DepositAmount   float64 `json:"deposit_amount"`
	ConditionReport string  `json:"condition_report"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// RentalDays 起止日期之间的整天数，向下取整，至少 1 天。
func RentalDays(start, end time.Time) int {
	days := int(end.Sub(start).Hours() / 24)
	if days < 1 {
		days = 1
	}
	return days
}

// Recompute 重算总价。
// PricePerDay / StartDate / EndDate 是唯一事实来源，
// 存储的 TotalPrice 在任何编辑之后都不可信，一律重算。
func Recompute(c *Contract) {
	if c == nil {
		return
	}
	c.TotalPrice = float64(RentalDays(c.StartDate, c.EndDate)) * c.PricePerDay
}

// ValidationResult 校验结果，以结构返回而不是 error。
type ValidationResult struct {
	IsValid bool   `json:"is_valid"`
	Message string `json:"message,omitempty"`
}

func valid() ValidationResult {
	return ValidationResult{IsValid: true}
}

func invalid(msg string) ValidationResult {
	return ValidationResult{IsValid: false, Message: msg}
}
