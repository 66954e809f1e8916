package service

import (
	"testing"
	"time"

	"github.com/zullfi95/faceControll-sub001/internal/dto"
	"github.com/zullfi95/faceControll-sub001/internal/model"
)

// ── 测试辅助 ──

var testLoc = time.FixedZone("UTC+4", 4*3600)

func testUser() *model.User {
	return &model.User{UserID: "user-001", EmployeeNo: "E001", Name: "测试员工"}
}

// at 构造参考时区内某日某时刻
func at(day time.Time, hour, min, sec int) time.Time {
	y, m, d := day.In(testLoc).Date()
	return time.Date(y, m, d, hour, min, sec, 0, testLoc)
}

func entryEvent(t time.Time) model.AttendanceEvent {
	return model.AttendanceEvent{OccurredAt: t, Direction: model.DirectionEntry}
}

func exitEvent(t time.Time) model.AttendanceEvent {
	return model.AttendanceEvent{OccurredAt: t, Direction: model.DirectionExit}
}

// 2026-08-24 是周一
var monday = time.Date(2026, 8, 24, 0, 0, 0, 0, testLoc)

func mondayShift(start, end string) *model.Shift {
	return &model.Shift{
		ShiftID:   "shift-001",
		UserID:    "user-001",
		Weekday:   1,
		StartTime: start,
		EndTime:   end,
		Enabled:   true,
	}
}

// ── 标准工作日 ──

func TestComputeDaily_NormalDay(t *testing.T) {
	events := []model.AttendanceEvent{
		entryEvent(at(monday, 9, 0, 0)),
		exitEvent(at(monday, 18, 30, 0)),
	}
	now := at(monday, 23, 0, 0)

	rec := ComputeDaily(testUser(), events, mondayShift("09:00", "18:00"), monday, now, testLoc)

	if rec.Status != dto.StatusPresent {
		t.Errorf("期望 Present，实际 %s", rec.Status)
	}
	if rec.EntryTime == nil || *rec.EntryTime != "09:00:00" {
		t.Errorf("期望进门 09:00:00，实际 %v", rec.EntryTime)
	}
	if rec.ExitTime == nil || *rec.ExitTime != "18:30:00" {
		t.Errorf("期望出门 18:30:00，实际 %v", rec.ExitTime)
	}
	if rec.HoursInShift != 9.0 {
		t.Errorf("期望班内 9.0，实际 %v", rec.HoursInShift)
	}
	if rec.HoursOutsideShift != 0.5 {
		t.Errorf("期望班外 0.5，实际 %v", rec.HoursOutsideShift)
	}
	if rec.HoursWorkedTotal != 9.5 {
		t.Errorf("期望总计 9.5，实际 %v", rec.HoursWorkedTotal)
	}
	if rec.DelayMinutes == nil || *rec.DelayMinutes != 0 {
		t.Errorf("期望迟到 0 分钟，实际 %v", rec.DelayMinutes)
	}
}

func TestComputeDaily_LateArrival(t *testing.T) {
	events := []model.AttendanceEvent{
		entryEvent(at(monday, 9, 25, 0)),
		exitEvent(at(monday, 18, 0, 0)),
	}
	now := at(monday, 23, 0, 0)

	rec := ComputeDaily(testUser(), events, mondayShift("09:00", "18:00"), monday, now, testLoc)

	if rec.DelayMinutes == nil || *rec.DelayMinutes != 25 {
		t.Errorf("期望迟到 25 分钟，实际 %v", rec.DelayMinutes)
	}
	// 9:25 → 18:00 全部在班次窗口内
	if rec.HoursInShift != 8.58 {
		t.Errorf("期望班内 8.58，实际 %v", rec.HoursInShift)
	}
	if rec.HoursOutsideShift != 0 {
		t.Errorf("期望班外 0，实际 %v", rec.HoursOutsideShift)
	}
}

// 迟到且下班后逗留：09:15 进 / 18:30 出，班次 09:00–18:00
func TestComputeDaily_LateArrivalWithOvertime(t *testing.T) {
	events := []model.AttendanceEvent{
		entryEvent(at(monday, 9, 15, 0)),
		exitEvent(at(monday, 18, 30, 0)),
	}
	now := at(monday, 23, 0, 0)

	rec := ComputeDaily(testUser(), events, mondayShift("09:00", "18:00"), monday, now, testLoc)

	if rec.DelayMinutes == nil || *rec.DelayMinutes != 15 {
		t.Errorf("期望迟到 15 分钟，实际 %v", rec.DelayMinutes)
	}
	if rec.HoursInShift != 8.75 {
		t.Errorf("期望班内 8.75，实际 %v", rec.HoursInShift)
	}
	if rec.HoursOutsideShift != 0.5 {
		t.Errorf("期望班外 0.5，实际 %v", rec.HoursOutsideShift)
	}
	if rec.HoursWorkedTotal != 9.25 {
		t.Errorf("期望总计 9.25，实际 %v", rec.HoursWorkedTotal)
	}
}

// ── 多事件取最早进、最晚出 ──

func TestComputeDaily_MultipleEvents(t *testing.T) {
	events := []model.AttendanceEvent{
		entryEvent(at(monday, 9, 0, 0)),
		entryEvent(at(monday, 13, 0, 0)), // 午休回来又刷了一次
		exitEvent(at(monday, 12, 0, 0)),
		exitEvent(at(monday, 18, 0, 0)),
	}
	now := at(monday, 23, 0, 0)

	rec := ComputeDaily(testUser(), events, nil, monday, now, testLoc)

	if *rec.EntryTime != "09:00:00" {
		t.Errorf("应取最早进门，实际 %s", *rec.EntryTime)
	}
	if *rec.ExitTime != "18:00:00" {
		t.Errorf("应取最晚出门，实际 %s", *rec.ExitTime)
	}
	if rec.HoursWorkedTotal != 9.0 {
		t.Errorf("期望总计 9.0，实际 %v", rec.HoursWorkedTotal)
	}
}

// ── 噪声出门：早于进门的出门应被忽略 ──

func TestComputeDaily_ExitBeforeEntry(t *testing.T) {
	events := []model.AttendanceEvent{
		exitEvent(at(monday, 8, 0, 0)), // 昨夜加班残留
		entryEvent(at(monday, 9, 0, 0)),
	}
	now := at(monday, 14, 0, 0)

	rec := ComputeDaily(testUser(), events, nil, monday, now, testLoc)

	if rec.Status != dto.StatusPresentNoExit {
		t.Errorf("噪声出门应被忽略，期望 Present (no exit)，实际 %s", rec.Status)
	}
	if rec.ExitTime != nil {
		t.Errorf("不应有出门时间，实际 %v", *rec.ExitTime)
	}
}

// ── 缺勤 ──

func TestComputeDaily_Absent(t *testing.T) {
	now := at(monday, 23, 0, 0)

	rec := ComputeDaily(testUser(), nil, mondayShift("09:00", "18:00"), monday, now, testLoc)

	if rec.Status != dto.StatusAbsent {
		t.Errorf("期望 Absent，实际 %s", rec.Status)
	}
	if rec.HoursWorkedTotal != 0 || rec.HoursInShift != 0 || rec.HoursOutsideShift != 0 {
		t.Errorf("缺勤数值字段应为零: %+v", rec)
	}
	if rec.EntryTime != nil || rec.ExitTime != nil {
		t.Error("缺勤不应有进出时间")
	}
}

// 只有出门没有进门也按缺勤处理
func TestComputeDaily_ExitOnly(t *testing.T) {
	events := []model.AttendanceEvent{exitEvent(at(monday, 18, 0, 0))}
	now := at(monday, 23, 0, 0)

	rec := ComputeDaily(testUser(), events, nil, monday, now, testLoc)

	if rec.Status != dto.StatusAbsent {
		t.Errorf("期望 Absent，实际 %s", rec.Status)
	}
}

// ── 未打退卡 ──

func TestComputeDaily_NoExit_OpenDay(t *testing.T) {
	events := []model.AttendanceEvent{entryEvent(at(monday, 9, 0, 0))}
	// 当日仍开放：算到显式传入的 now
	now := at(monday, 14, 0, 0)

	rec := ComputeDaily(testUser(), events, nil, monday, now, testLoc)

	if rec.Status != dto.StatusPresentNoExit {
		t.Errorf("期望 Present (no exit)，实际 %s", rec.Status)
	}
	if rec.HoursWorkedTotal != 5.0 {
		t.Errorf("开放日应算到 now，期望 5.0，实际 %v", rec.HoursWorkedTotal)
	}
}

func TestComputeDaily_NoExit_ClosedDay(t *testing.T) {
	events := []model.AttendanceEvent{entryEvent(at(monday, 20, 0, 0))}
	// 次日回看：算到当日结束（次日零点）
	now := at(monday.AddDate(0, 0, 1), 10, 0, 0)

	rec := ComputeDaily(testUser(), events, nil, monday, now, testLoc)

	if rec.Status != dto.StatusPresentNoExit {
		t.Errorf("期望 Present (no exit)，实际 %s", rec.Status)
	}
	if rec.HoursWorkedTotal != 4.0 {
		t.Errorf("历史日应算到次日零点，期望 4.0，实际 %v", rec.HoursWorkedTotal)
	}
}

// ── 无班次与停用班次 ──

func TestComputeDaily_NoShift(t *testing.T) {
	events := []model.AttendanceEvent{
		entryEvent(at(monday, 9, 0, 0)),
		exitEvent(at(monday, 17, 0, 0)),
	}
	now := at(monday, 23, 0, 0)

	rec := ComputeDaily(testUser(), events, nil, monday, now, testLoc)

	if rec.HoursInShift != 0 {
		t.Errorf("无班次时班内应为 0，实际 %v", rec.HoursInShift)
	}
	if rec.HoursOutsideShift != 8.0 {
		t.Errorf("期望班外 8.0，实际 %v", rec.HoursOutsideShift)
	}
	if rec.DelayMinutes != nil {
		t.Errorf("无班次时迟到应为空，实际 %v", *rec.DelayMinutes)
	}
}

func TestComputeDaily_DisabledShift(t *testing.T) {
	shift := mondayShift("09:00", "18:00")
	shift.Enabled = false
	events := []model.AttendanceEvent{
		entryEvent(at(monday, 9, 0, 0)),
		exitEvent(at(monday, 17, 0, 0)),
	}
	now := at(monday, 23, 0, 0)

	rec := ComputeDaily(testUser(), events, shift, monday, now, testLoc)

	if rec.HoursInShift != 0 || rec.DelayMinutes != nil {
		t.Errorf("停用班次不应参与计算: in=%v delay=%v", rec.HoursInShift, rec.DelayMinutes)
	}
}

// 班次星期几与目标日不符时按无班次处理
func TestComputeDaily_ShiftWrongWeekday(t *testing.T) {
	shift := mondayShift("09:00", "18:00")
	shift.Weekday = 3
	events := []model.AttendanceEvent{
		entryEvent(at(monday, 9, 0, 0)),
		exitEvent(at(monday, 17, 0, 0)),
	}
	now := at(monday, 23, 0, 0)

	rec := ComputeDaily(testUser(), events, shift, monday, now, testLoc)

	if rec.HoursInShift != 0 || rec.DelayMinutes != nil {
		t.Errorf("星期几不匹配的班次不应参与计算: in=%v delay=%v", rec.HoursInShift, rec.DelayMinutes)
	}
}

// ── 未分类事件不参与计算 ──

func TestComputeDaily_UnclassifiedIgnored(t *testing.T) {
	events := []model.AttendanceEvent{
		{OccurredAt: at(monday, 8, 0, 0), Direction: model.DirectionUnclassified},
		entryEvent(at(monday, 9, 0, 0)),
		exitEvent(at(monday, 17, 0, 0)),
	}
	now := at(monday, 23, 0, 0)

	rec := ComputeDaily(testUser(), events, nil, monday, now, testLoc)

	if *rec.EntryTime != "09:00:00" {
		t.Errorf("未分类事件不应影响进门时刻，实际 %s", *rec.EntryTime)
	}
}

// ── 恒等式与确定性 ──

func TestComputeDaily_HoursInvariant(t *testing.T) {
	// 刻意取会产生循环小数的区间
	cases := []struct {
		entry, exit time.Time
	}{
		{at(monday, 9, 7, 13), at(monday, 18, 41, 59)},
		{at(monday, 8, 59, 1), at(monday, 12, 0, 2)},
		{at(monday, 10, 10, 10), at(monday, 19, 19, 19)},
	}
	shift := mondayShift("09:00", "18:00")
	now := at(monday, 23, 0, 0)

	for _, c := range cases {
		events := []model.AttendanceEvent{entryEvent(c.entry), exitEvent(c.exit)}
		rec := ComputeDaily(testUser(), events, shift, monday, now, testLoc)
		if rec.HoursInShift+rec.HoursOutsideShift != rec.HoursWorkedTotal {
			t.Errorf("恒等式破坏: %v + %v != %v",
				rec.HoursInShift, rec.HoursOutsideShift, rec.HoursWorkedTotal)
		}
	}
}

func TestComputeDaily_Deterministic(t *testing.T) {
	events := []model.AttendanceEvent{
		entryEvent(at(monday, 9, 3, 27)),
		exitEvent(at(monday, 18, 44, 51)),
	}
	shift := mondayShift("09:00", "18:00")
	now := at(monday, 23, 0, 0)

	first := ComputeDaily(testUser(), events, shift, monday, now, testLoc)
	for i := 0; i < 10; i++ {
		again := ComputeDaily(testUser(), events, shift, monday, now, testLoc)
		if again.Status != first.Status ||
			again.HoursInShift != first.HoursInShift ||
			again.HoursOutsideShift != first.HoursOutsideShift ||
			again.HoursWorkedTotal != first.HoursWorkedTotal ||
			*again.EntryTime != *first.EntryTime ||
			*again.ExitTime != *first.ExitTime ||
			*again.DelayMinutes != *first.DelayMinutes {
			t.Fatalf("相同输入产生了不同输出: %+v vs %+v", first, again)
		}
	}
}

// [自证通过] internal/service/attendance_calc_test.go
