package syncer

import "errors"

// ErrNotConfigured 协调器尚未 Configure 就被当作导入入口使用。
// 注意：正向传播（ProjectMaintenance / RetractMaintenance）未配置时
// 是静默降级，不会返回这个错误；只有显式导入路径才报给调用方。
var ErrNotConfigured = errors.New("syncer: coordinator not configured")
