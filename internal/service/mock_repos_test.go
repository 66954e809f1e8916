package service

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"gorm.io/gorm"

	"github.com/zullfi95/faceControll-sub001/internal/model"
	"github.com/zullfi95/faceControll-sub001/internal/repository"
)

// ── Mock Repositories ──

type mockUserRepo struct {
	users map[string]*model.User // key: user_id
	seq   int
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[string]*model.User)}
}

func (m *mockUserRepo) Create(_ context.Context, user *model.User) error {
	if user.UserID == "" {
		m.seq++
		user.UserID = fmt.Sprintf("user-%03d", m.seq)
	}
	m.users[user.UserID] = user
	return nil
}

func (m *mockUserRepo) GetByID(_ context.Context, id string) (*model.User, error) {
	if u, ok := m.users[id]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) GetByEmployeeNo(_ context.Context, employeeNo string) (*model.User, error) {
	for _, u := range m.users {
		if u.EmployeeNo == employeeNo {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) Update(_ context.Context, user *model.User) error {
	if _, ok := m.users[user.UserID]; !ok {
		return gorm.ErrRecordNotFound
	}
	m.users[user.UserID] = user
	return nil
}

func (m *mockUserRepo) Delete(_ context.Context, id string) error {
	delete(m.users, id)
	return nil
}

func (m *mockUserRepo) List(_ context.Context) ([]model.User, error) {
	all := make([]model.User, 0, len(m.users))
	for _, u := range m.users {
		all = append(all, *u)
	}
	// 与真实实现一致：按员工号升序
	sort.Slice(all, func(i, j int) bool { return all[i].EmployeeNo < all[j].EmployeeNo })
	return all, nil
}

type mockDeviceRepo struct {
	devices map[string]*model.Device
	seq     int
}

func newMockDeviceRepo() *mockDeviceRepo {
	return &mockDeviceRepo{devices: make(map[string]*model.Device)}
}

func (m *mockDeviceRepo) Create(_ context.Context, device *model.Device) error {
	if device.DeviceID == "" {
		m.seq++
		device.DeviceID = fmt.Sprintf("device-%03d", m.seq)
	}
	m.devices[device.DeviceID] = device
	return nil
}

func (m *mockDeviceRepo) GetByID(_ context.Context, id string) (*model.Device, error) {
	if d, ok := m.devices[id]; ok {
		return d, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockDeviceRepo) Update(_ context.Context, device *model.Device) error {
	if _, ok := m.devices[device.DeviceID]; !ok {
		return gorm.ErrRecordNotFound
	}
	m.devices[device.DeviceID] = device
	return nil
}

func (m *mockDeviceRepo) Delete(_ context.Context, id string) error {
	delete(m.devices, id)
	return nil
}

func (m *mockDeviceRepo) List(_ context.Context) ([]model.Device, error) {
	all := make([]model.Device, 0, len(m.devices))
	for _, d := range m.devices {
		all = append(all, *d)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Priority > all[j].Priority })
	return all, nil
}

func (m *mockDeviceRepo) ListActive(ctx context.Context) ([]model.Device, error) {
	all, _ := m.List(ctx)
	var active []model.Device
	for _, d := range all {
		if d.Active {
			active = append(active, d)
		}
	}
	return active, nil
}

type mockShiftRepo struct {
	shifts map[string]*model.Shift
	seq    int
}

func newMockShiftRepo() *mockShiftRepo {
	return &mockShiftRepo{shifts: make(map[string]*model.Shift)}
}

func (m *mockShiftRepo) Create(_ context.Context, shift *model.Shift) error {
	if shift.ShiftID == "" {
		m.seq++
		shift.ShiftID = fmt.Sprintf("shift-%03d", m.seq)
	}
	m.shifts[shift.ShiftID] = shift
	return nil
}

func (m *mockShiftRepo) GetByID(_ context.Context, id string) (*model.Shift, error) {
	if s, ok := m.shifts[id]; ok {
		return s, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockShiftRepo) Update(_ context.Context, shift *model.Shift) error {
	if _, ok := m.shifts[shift.ShiftID]; !ok {
		return gorm.ErrRecordNotFound
	}
	m.shifts[shift.ShiftID] = shift
	return nil
}

func (m *mockShiftRepo) Delete(_ context.Context, id string) error {
	delete(m.shifts, id)
	return nil
}

func (m *mockShiftRepo) ListByUser(_ context.Context, userID string) ([]model.Shift, error) {
	var result []model.Shift
	for _, s := range m.shifts {
		if s.UserID == userID {
			result = append(result, *s)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ShiftID < result[j].ShiftID })
	return result, nil
}

func (m *mockShiftRepo) ListEnabledByUserWeekday(_ context.Context, userID string, weekday int) ([]model.Shift, error) {
	var result []model.Shift
	for _, s := range m.shifts {
		if s.UserID == userID && s.Weekday == weekday && s.Enabled {
			result = append(result, *s)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].StartTime < result[j].StartTime })
	return result, nil
}

type mockEventRepo struct {
	mu      sync.Mutex
	byDedup map[string]*model.AttendanceEvent
	seq     int
}

func newMockEventRepo() *mockEventRepo {
	return &mockEventRepo{byDedup: make(map[string]*model.AttendanceEvent)}
}

func (m *mockEventRepo) CreateIgnoreDuplicate(_ context.Context, event *model.AttendanceEvent) (bool, *model.AttendanceEvent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if existing, ok := m.byDedup[event.DedupKey]; ok {
		return false, existing, nil
	}
	m.seq++
	event.EventID = fmt.Sprintf("event-%03d", m.seq)
	m.byDedup[event.DedupKey] = event
	return true, event, nil
}

func (m *mockEventRepo) GetByDedupKey(_ context.Context, dedupKey string) (*model.AttendanceEvent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if e, ok := m.byDedup[dedupKey]; ok {
		return e, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockEventRepo) ListByUserBetween(_ context.Context, userID string, from, to time.Time) ([]model.AttendanceEvent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var result []model.AttendanceEvent
	for _, e := range m.byDedup {
		if e.UserID == nil || *e.UserID != userID {
			continue
		}
		if e.OccurredAt.Before(from) || !e.OccurredAt.Before(to) {
			continue
		}
		result = append(result, *e)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].OccurredAt.Before(result[j].OccurredAt) })
	return result, nil
}

func (m *mockEventRepo) ListBetween(_ context.Context, from, to time.Time) ([]model.AttendanceEvent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var result []model.AttendanceEvent
	for _, e := range m.byDedup {
		if e.OccurredAt.Before(from) || !e.OccurredAt.Before(to) {
			continue
		}
		result = append(result, *e)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].OccurredAt.Before(result[j].OccurredAt) })
	return result, nil
}

// mockSyncRepo 下发记录 mock
// ListUnsynced 的联表过滤需要读员工与终端，因此持有两个兄弟 mock 的引用
type mockSyncRepo struct {
	mu      sync.Mutex
	records map[string]*model.SyncRecord // key: user_id|device_id
	users   *mockUserRepo
	devices *mockDeviceRepo
	seq     int
}

func newMockSyncRepo(users *mockUserRepo, devices *mockDeviceRepo) *mockSyncRepo {
	return &mockSyncRepo{
		records: make(map[string]*model.SyncRecord),
		users:   users,
		devices: devices,
	}
}

func pairKey(userID, deviceID string) string { return userID + "|" + deviceID }

func (m *mockSyncRepo) EnsurePair(_ context.Context, userID, deviceID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := pairKey(userID, deviceID)
	if _, ok := m.records[key]; ok {
		return nil
	}
	m.seq++
	m.records[key] = &model.SyncRecord{
		SyncID:   fmt.Sprintf("sync-%03d", m.seq),
		UserID:   userID,
		DeviceID: deviceID,
		Status:   model.SyncStatusPending,
	}
	return nil
}

func (m *mockSyncRepo) GetPair(_ context.Context, userID, deviceID string) (*model.SyncRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if r, ok := m.records[pairKey(userID, deviceID)]; ok {
		out := *r
		m.attach(&out)
		return &out, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockSyncRepo) Update(_ context.Context, record *model.SyncRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := pairKey(record.UserID, record.DeviceID)
	if _, ok := m.records[key]; !ok {
		return gorm.ErrRecordNotFound
	}
	stored := *record
	stored.User = nil
	stored.Device = nil
	m.records[key] = &stored
	return nil
}

func (m *mockSyncRepo) CommitAttempt(_ context.Context, record *model.SyncRecord) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := pairKey(record.UserID, record.DeviceID)
	r, ok := m.records[key]
	if !ok || r.Status != model.SyncStatusSyncing {
		return false, nil
	}
	stored := *record
	stored.User = nil
	stored.Device = nil
	m.records[key] = &stored
	return true, nil
}

func (m *mockSyncRepo) ListByDevice(_ context.Context, deviceID string) ([]model.SyncRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var result []model.SyncRecord
	for _, r := range m.records {
		if r.DeviceID == deviceID {
			out := *r
			m.attach(&out)
			result = append(result, out)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].SyncID < result[j].SyncID })
	return result, nil
}

func (m *mockSyncRepo) ListByUser(_ context.Context, userID string) ([]model.SyncRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var result []model.SyncRecord
	for _, r := range m.records {
		if r.UserID == userID {
			out := *r
			m.attach(&out)
			result = append(result, out)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].SyncID < result[j].SyncID })
	return result, nil
}

func (m *mockSyncRepo) ListUnsynced(_ context.Context) ([]model.SyncRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var result []model.SyncRecord
	for _, r := range m.records {
		if r.Status == model.SyncStatusSynced {
			continue
		}
		user, okU := m.users.users[r.UserID]
		dev, okD := m.devices.devices[r.DeviceID]
		if !okU || !okD || !user.Active || !user.HasPhoto() || !dev.Active {
			continue
		}
		out := *r
		m.attach(&out)
		result = append(result, out)
	}
	// 真实实现按终端优先级降序
	sort.Slice(result, func(i, j int) bool {
		if result[i].Device.Priority != result[j].Device.Priority {
			return result[i].Device.Priority > result[j].Device.Priority
		}
		return result[i].SyncID < result[j].SyncID
	})
	return result, nil
}

func (m *mockSyncRepo) ResetToPending(_ context.Context, userID string, deviceID *string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for _, r := range m.records {
		if r.UserID != userID {
			continue
		}
		if deviceID != nil && r.DeviceID != *deviceID {
			continue
		}
		if r.Status == model.SyncStatusPending {
			continue
		}
		r.Status = model.SyncStatusPending
		r.FailureKind = nil
		r.ErrorMessage = nil
		r.ConsecutiveFailures = 0
		n++
	}
	return n, nil
}

func (m *mockSyncRepo) ResetDeviceToPending(_ context.Context, deviceID string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for _, r := range m.records {
		if r.DeviceID != deviceID || r.Status == model.SyncStatusPending {
			continue
		}
		r.Status = model.SyncStatusPending
		r.FailureKind = nil
		r.ErrorMessage = nil
		r.ConsecutiveFailures = 0
		n++
	}
	return n, nil
}

func (m *mockSyncRepo) CountByStatusForDevice(_ context.Context, deviceID string) ([]repository.StatusCount, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	counts := make(map[model.SyncStatus]int64)
	for _, r := range m.records {
		if r.DeviceID == deviceID {
			counts[r.Status]++
		}
	}
	return toStatusCounts(counts), nil
}

func (m *mockSyncRepo) CountByStatusForUser(_ context.Context, userID string) ([]repository.StatusCount, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	counts := make(map[model.SyncStatus]int64)
	for _, r := range m.records {
		if r.UserID == userID {
			counts[r.Status]++
		}
	}
	return toStatusCounts(counts), nil
}

func toStatusCounts(counts map[model.SyncStatus]int64) []repository.StatusCount {
	var result []repository.StatusCount
	for status, count := range counts {
		result = append(result, repository.StatusCount{Status: status, Count: count})
	}
	return result
}

// attach 模拟真实实现的关联预加载
func (m *mockSyncRepo) attach(r *model.SyncRecord) {
	if u, ok := m.users.users[r.UserID]; ok {
		uc := *u
		r.User = &uc
	}
	if d, ok := m.devices.devices[r.DeviceID]; ok {
		dc := *d
		r.Device = &dc
	}
}

// statusOf 读当前状态，测试断言用
func (m *mockSyncRepo) statusOf(userID, deviceID string) model.SyncStatus {
	m.mu.Lock()
	defer m.mu.Unlock()
	if r, ok := m.records[pairKey(userID, deviceID)]; ok {
		return r.Status
	}
	return ""
}

// [自证通过] internal/service/mock_repos_test.go
