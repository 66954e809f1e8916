package dto

// ── 考勤报表模块 DTO ──

// DailyAttendanceRecord 某员工某日的考勤视图
// 派生数据，不落库，每次查询重新计算
type DailyAttendanceRecord struct {
	UserID            string   `json:"user_id"`
	EmployeeNo        string   `json:"employee_no"`
	Name              string   `json:"name"`
	Date              string   `json:"date"` // YYYY-MM-DD
	EntryTime         *string  `json:"entry_time,omitempty"`
	ExitTime          *string  `json:"exit_time,omitempty"`
	HoursInShift      float64  `json:"hours_in_shift"`
	HoursOutsideShift float64  `json:"hours_outside_shift"`
	HoursWorkedTotal  float64  `json:"hours_worked_total"`
	DelayMinutes      *int     `json:"delay_minutes,omitempty"` // 无班次时为空
	Status            string   `json:"status"`                  // Present | Absent | Present (no exit)
}

// 考勤状态取值
const (
	StatusPresent       = "Present"
	StatusAbsent        = "Absent"
	StatusPresentNoExit = "Present (no exit)"
)

// DailyReportRequest 日报查询参数
type DailyReportRequest struct {
	Date string `form:"date" binding:"required"` // YYYY-MM-DD
}

// UserReportRequest 员工区间报表查询参数
type UserReportRequest struct {
	From string `form:"from" binding:"required"` // YYYY-MM-DD
	To   string `form:"to"   binding:"required"`
}
