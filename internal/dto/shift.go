package dto

// ── 班次模块 DTO ──

// CreateShiftRequest 创建班次请求
type CreateShiftRequest struct {
	Weekday   int    `json:"weekday"    binding:"min=0,max=6"` // 0=周日
	StartTime string `json:"start_time" binding:"required"`    // "09:00"
	EndTime   string `json:"end_time"   binding:"required"`    // "18:00"
	Enabled   *bool  `json:"enabled"`                          // 缺省启用
}

// UpdateShiftRequest 更新班次请求
type UpdateShiftRequest struct {
	StartTime *string `json:"start_time"`
	EndTime   *string `json:"end_time"`
	Enabled   *bool   `json:"enabled"`
}

// ShiftResponse 班次信息响应
type ShiftResponse struct {
	ShiftID   string `json:"shift_id"`
	UserID    string `json:"user_id"`
	Weekday   int    `json:"weekday"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
	Enabled   bool   `json:"enabled"`
}

// ImportShiftsICSRequest 从 ICS 日历导入班次
// url 与 content 二选一
type ImportShiftsICSRequest struct {
	URL     string `json:"url"     binding:"omitempty,url"`
	Content string `json:"content"`
}

// ImportShiftsICSResponse ICS 导入结果
type ImportShiftsICSResponse struct {
	ImportedCount int             `json:"imported_count"`
	SkippedCount  int             `json:"skipped_count"`
	Shifts        []ShiftResponse `json:"shifts"`
}
