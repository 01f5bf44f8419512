package maintenance

import (
	"time"

	"github.com/google/uuid"
)

// Maintenance 维修/保养记录。
//
// 注意 VehicleName 存的是展示文本（品牌 + 型号），不是车辆 ID：
// 维修记录可能由外部导入的支出数据生成，那时只有展示名可用，
// 关联车辆靠 ResolveVehicle 的模糊匹配。
type Maintenance struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Date        time.Time `json:"date"`
	Cost        float64   `json:"cost"`
	Mileage     float64   `json:"mileage"` // 保养时里程
	Description string    `json:"description"`
	GarageName  string    `json:"garage_name"`
	VehicleName string    `json:"vehicle_name"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewRecordID 生成配对记录的 ID。
// 维修记录与其镜像支出共用同一个 ID（共同身份），两条创建路径
// （维修新增、支出导入）都必须经由这一个工厂，避免任何一侧另造 ID。
func NewRecordID() string {
	return uuid.NewString()
}
