package rental

import (
	"strings"
	"time"
)

// Status 合同状态。派生值：每次读取时现场计算，从不落盘、从不缓存。
type Status string

const (
	StatusPrefilled Status = "prefilled" // 预填草稿，等待补全承租人
	StatusActive    Status = "active"    // 当前时刻在租期内
	StatusUpcoming  Status = "upcoming"  // 租期未开始
	StatusExpired   Status = "expired"   // 租期已结束
	// StatusAvailable 不是合同状态，而是车辆层面的汇总：
	// 没有任何合同处于上述状态时，车辆视为可租。
	StatusAvailable Status = "available"
)

// DeriveStatus 状态派生，(renterName, start, end, now) 的纯函数。
// 严格优先级，先命中先返回：
//
//	承租人为空       -> prefilled
//	start<=now<=end  -> active
//	start>now        -> upcoming
//	其余             -> expired
func DeriveStatus(renterName string, start, end, now time.Time) Status {
	if strings.TrimSpace(renterName) == "" {
		return StatusPrefilled
	}
	if !now.Before(start) && !now.After(end) {
		return StatusActive
	}
	if start.After(now) {
		return StatusUpcoming
	}
	return StatusExpired
}

// StatusAt 合同在指定时刻的状态。
func (c Contract) StatusAt(now time.Time) Status {
	return DeriveStatus(c.RenterName, c.StartDate, c.EndDate, now)
}

// SummaryStatus 车辆层面的状态汇总：
// 按 prefilled > active > upcoming 的优先级取第一个命中；
// 全部过期或没有合同时返回 available。
func SummaryStatus(contracts []Contract, now time.Time) Status {
	var hasActive, hasUpcoming bool
	for _, c := range contracts {
		switch c.StatusAt(now) {
		case StatusPrefilled:
			return StatusPrefilled
		case StatusActive:
			hasActive = true
		case StatusUpcoming:
			hasUpcoming = true
		}
	}
	if hasActive {
		return StatusActive
	}
	if hasUpcoming {
		return StatusUpcoming
	}
	return StatusAvailable
}
