package maintenance

import (
	"strings"

	"github.com/WheelTrack/WheelTrack/internal/vehicle"
)

// UnresolvedVehicleID 表示按展示名没有匹配到任何车辆。
// 存哨兵值而不是临时编一个随机 ID：悬挂引用在读取侧本来就会被过滤，
// 上层可以据此提示用户手动归属，而不是被悄悄挂错车。
const UnresolvedVehicleID = ""

// ResolveVehicle 按展示名模糊解析车辆，纯函数：
// - 双向子串包含（存储的展示名 vs 各车辆的品牌/型号文本）
// - 匹配不到时退回第一辆已知车辆
// - 一辆车都没有时返回未解析哨兵
// 这是有损启发式，误归属是已知代价（丢记录比挂错车更糟）。
func ResolveVehicle(displayName string, vehicles []vehicle.Vehicle) (string, bool) {
	if len(vehicles) == 0 {
		return UnresolvedVehicleID, false
	}

	name := strings.ToLower(strings.TrimSpace(displayName))
	if name != "" {
		for _, v := range vehicles {
			candidate := strings.ToLower(v.DisplayName())
			if candidate == "" {
				continue
			}
			if strings.Contains(candidate, name) || strings.Contains(name, candidate) {
				return v.ID, true
			}
		}
	}
	return vehicles[0].ID, true
}
