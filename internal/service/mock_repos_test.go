package service

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"gorm.io/gorm"

	"github.com/TadiKev/guard-scheduling-system/internal/model"
	"github.com/TadiKev/guard-scheduling-system/internal/repository"
)

// ── Mock UserRepository ──

type mockUserRepo struct {
	users map[string]*model.User // key: user_id 或 username
	seq   int
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[string]*model.User)}
}

func (m *mockUserRepo) Create(_ context.Context, user *model.User) error {
	if user.UserID == "" {
		m.seq++
		user.UserID = fmt.Sprintf("user-%d", m.seq)
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now()
	}
	m.users[user.UserID] = user
	m.users["name:"+user.Username] = user
	return nil
}

func (m *mockUserRepo) GetByID(_ context.Context, id string) (*model.User, error) {
	if u, ok := m.users[id]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) GetByUsername(_ context.Context, username string) (*model.User, error) {
	if u, ok := m.users["name:"+username]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) Update(_ context.Context, user *model.User) error {
	m.users[user.UserID] = user
	return nil
}

func (m *mockUserRepo) List(_ context.Context, _, _ int) ([]model.User, int64, error) {
	var result []model.User
	seen := make(map[string]bool)
	for k, u := range m.users {
		if k != u.UserID || seen[u.UserID] {
			continue
		}
		seen[u.UserID] = true
		result = append(result, *u)
	}
	return result, int64(len(result)), nil
}

// ── Mock GuardProfileRepository ──

type mockGuardProfileRepo struct {
	profiles []*model.GuardProfile // 保持插入顺序，即候选人枚举顺序
	seq      int64
}

func newMockGuardProfileRepo() *mockGuardProfileRepo {
	return &mockGuardProfileRepo{}
}

func (m *mockGuardProfileRepo) Create(_ context.Context, profile *model.GuardProfile) error {
	m.seq++
	if profile.QRID == 0 {
		profile.QRID = m.seq
	}
	if profile.QRUUID == "" {
		profile.QRUUID = fmt.Sprintf("qr-uuid-%d", m.seq)
	}
	m.profiles = append(m.profiles, profile)
	return nil
}

func (m *mockGuardProfileRepo) GetByUserID(_ context.Context, userID string) (*model.GuardProfile, error) {
	for _, p := range m.profiles {
		if p.UserID == userID {
			return p, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockGuardProfileRepo) GetByQRID(_ context.Context, qrID int64) (*model.GuardProfile, error) {
	for _, p := range m.profiles {
		if p.QRID == qrID {
			return p, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockGuardProfileRepo) GetByQRUUID(_ context.Context, qrUUID string) (*model.GuardProfile, error) {
	for _, p := range m.profiles {
		if p.QRUUID == qrUUID {
			return p, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockGuardProfileRepo) Update(_ context.Context, profile *model.GuardProfile) error {
	for i, p := range m.profiles {
		if p.UserID == profile.UserID {
			m.profiles[i] = profile
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (m *mockGuardProfileRepo) ListGuards(_ context.Context) ([]model.GuardProfile, error) {
	result := make([]model.GuardProfile, 0, len(m.profiles))
	for _, p := range m.profiles {
		result = append(result, *p)
	}
	return result, nil
}

func (m *mockGuardProfileRepo) UpdateSighting(_ context.Context, userID string, seenAt time.Time, lat, lng float64, status string) error {
	for _, p := range m.profiles {
		if p.UserID == userID {
			t := seenAt
			p.LastSeen = &t
			p.LastLat = &lat
			p.LastLng = &lng
			p.Status = status
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

// ── Mock PremiseRepository ──

type mockPremiseRepo struct {
	premises map[string]*model.Premise
	seq      int64
}

func newMockPremiseRepo() *mockPremiseRepo {
	return &mockPremiseRepo{premises: make(map[string]*model.Premise)}
}

func (m *mockPremiseRepo) Create(_ context.Context, premise *model.Premise) error {
	m.seq++
	if premise.PremiseID == "" {
		premise.PremiseID = fmt.Sprintf("premise-%d", m.seq)
	}
	if premise.UUID == "" {
		premise.UUID = fmt.Sprintf("premise-uuid-%d", m.seq)
	}
	if premise.QRID == 0 {
		premise.QRID = m.seq
	}
	m.premises[premise.PremiseID] = premise
	return nil
}

func (m *mockPremiseRepo) GetByID(_ context.Context, id string) (*model.Premise, error) {
	if p, ok := m.premises[id]; ok {
		return p, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockPremiseRepo) GetByQRID(_ context.Context, qrID int64) (*model.Premise, error) {
	for _, p := range m.premises {
		if p.QRID == qrID {
			return p, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockPremiseRepo) GetByUUID(_ context.Context, uuid string) (*model.Premise, error) {
	for _, p := range m.premises {
		if p.UUID == uuid {
			return p, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockPremiseRepo) Update(_ context.Context, premise *model.Premise) error {
	m.premises[premise.PremiseID] = premise
	return nil
}

func (m *mockPremiseRepo) Delete(_ context.Context, id string) error {
	delete(m.premises, id)
	return nil
}

func (m *mockPremiseRepo) List(_ context.Context, _, _ int) ([]model.Premise, int64, error) {
	var result []model.Premise
	for _, p := range m.premises {
		result = append(result, *p)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].QRID < result[j].QRID })
	return result, int64(len(result)), nil
}

// ── Mock ShiftRepository ──

type mockShiftRepo struct {
	mu     sync.Mutex
	shifts map[string]*model.Shift
	seq    int

	// forUpdateHook 在行锁重读时调用，可模拟并发流程抢先写入
	forUpdateHook func(shift *model.Shift)
}

func newMockShiftRepo() *mockShiftRepo {
	return &mockShiftRepo{shifts: make(map[string]*model.Shift)}
}

func (m *mockShiftRepo) Create(_ context.Context, shift *model.Shift) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if shift.ShiftID == "" {
		m.seq++
		shift.ShiftID = fmt.Sprintf("shift-%d", m.seq)
	}
	m.shifts[shift.ShiftID] = shift
	return nil
}

func (m *mockShiftRepo) GetByID(_ context.Context, id string) (*model.Shift, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.shifts[id]; ok {
		cp := *s
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockShiftRepo) GetByIDForUpdate(_ context.Context, id string) (*model.Shift, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.shifts[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	if m.forUpdateHook != nil {
		m.forUpdateHook(s)
	}
	cp := *s
	return &cp, nil
}

func (m *mockShiftRepo) Update(_ context.Context, shift *model.Shift) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.shifts[shift.ShiftID] = shift
	return nil
}

func (m *mockShiftRepo) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.shifts, id)
	return nil
}

func (m *mockShiftRepo) Assign(_ context.Context, shiftID, guardID string, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.shifts[shiftID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	g := guardID
	t := at
	s.AssignedGuardID = &g
	s.AssignedAt = &t
	return nil
}

func (m *mockShiftRepo) sorted() []*model.Shift {
	result := make([]*model.Shift, 0, len(m.shifts))
	for _, s := range m.shifts {
		result = append(result, s)
	}
	sort.Slice(result, func(i, j int) bool {
		if !result[i].Date.Equal(result[j].Date) {
			return result[i].Date.Before(result[j].Date)
		}
		if result[i].StartTime != result[j].StartTime {
			return result[i].StartTime < result[j].StartTime
		}
		return result[i].ShiftID < result[j].ShiftID
	})
	return result
}

func sameDay(a, b time.Time) bool {
	return a.Format("2006-01-02") == b.Format("2006-01-02")
}

func (m *mockShiftRepo) ListByDate(_ context.Context, date time.Time, premiseID *string) ([]model.Shift, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var result []model.Shift
	for _, s := range m.sorted() {
		if !sameDay(s.Date, date) {
			continue
		}
		if premiseID != nil && s.PremiseID != *premiseID {
			continue
		}
		result = append(result, *s)
	}
	return result, nil
}

func (m *mockShiftRepo) ListByPremiseAndDates(_ context.Context, premiseID string, dates []time.Time) ([]model.Shift, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var result []model.Shift
	for _, s := range m.sorted() {
		if s.PremiseID != premiseID {
			continue
		}
		for _, d := range dates {
			if sameDay(s.Date, d) {
				result = append(result, *s)
				break
			}
		}
	}
	return result, nil
}

func (m *mockShiftRepo) ListAssignedToGuardOnDates(_ context.Context, guardID string, dates []time.Time) ([]model.Shift, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var result []model.Shift
	for _, s := range m.sorted() {
		if s.AssignedGuardID == nil || *s.AssignedGuardID != guardID {
			continue
		}
		for _, d := range dates {
			if sameDay(s.Date, d) {
				result = append(result, *s)
				break
			}
		}
	}
	return result, nil
}

func (m *mockShiftRepo) ListAssignedGuardIDsOnDate(_ context.Context, date time.Time, excludeShiftID string) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	seen := make(map[string]bool)
	var result []string
	for _, s := range m.sorted() {
		if s.ShiftID == excludeShiftID || s.AssignedGuardID == nil || !sameDay(s.Date, date) {
			continue
		}
		if !seen[*s.AssignedGuardID] {
			seen[*s.AssignedGuardID] = true
			result = append(result, *s.AssignedGuardID)
		}
	}
	return result, nil
}

func (m *mockShiftRepo) HasAssignmentOnDate(_ context.Context, guardID string, date time.Time) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, s := range m.shifts {
		if s.AssignedGuardID != nil && *s.AssignedGuardID == guardID && sameDay(s.Date, date) {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockShiftRepo) CountAssignedInRange(_ context.Context, guardID string, start, end time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var count int64
	s0 := start.Format("2006-01-02")
	e0 := end.Format("2006-01-02")
	for _, s := range m.shifts {
		d := s.Date.Format("2006-01-02")
		if s.AssignedGuardID != nil && *s.AssignedGuardID == guardID && d >= s0 && d <= e0 {
			count++
		}
	}
	return count, nil
}

func (m *mockShiftRepo) ListRecentAssigned(_ context.Context, since *time.Time, limit int) ([]model.Shift, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var result []model.Shift
	for _, s := range m.sorted() {
		if s.AssignedGuardID == nil || s.AssignedAt == nil {
			continue
		}
		if since != nil && s.AssignedAt.Before(*since) {
			continue
		}
		result = append(result, *s)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].AssignedAt.After(*result[j].AssignedAt)
	})
	if len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

func (m *mockShiftRepo) CountByDate(_ context.Context, date time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var count int64
	for _, s := range m.shifts {
		if sameDay(s.Date, date) {
			count++
		}
	}
	return count, nil
}

func (m *mockShiftRepo) List(_ context.Context, date *time.Time, premiseID *string, _, _ int) ([]model.Shift, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var result []model.Shift
	for _, s := range m.sorted() {
		if date != nil && !sameDay(s.Date, *date) {
			continue
		}
		if premiseID != nil && s.PremiseID != *premiseID {
			continue
		}
		result = append(result, *s)
	}
	return result, int64(len(result)), nil
}

// ── Mock AttendanceRepository ──

type mockAttendanceRepo struct {
	records []*model.AttendanceRecord
	seq     int

	// beforeCreate 在写入前触发，用于在测试中插入竞争者
	beforeCreate func()
}

func newMockAttendanceRepo() *mockAttendanceRepo {
	return &mockAttendanceRepo{}
}

func (m *mockAttendanceRepo) Create(_ context.Context, record *model.AttendanceRecord) error {
	if m.beforeCreate != nil {
		hook := m.beforeCreate
		m.beforeCreate = nil
		hook()
	}
	// 模拟 (guard_id, shift_id) 部分唯一索引
	if record.GuardID != nil {
		for _, r := range m.records {
			if r.GuardID != nil && *r.GuardID == *record.GuardID && r.ShiftID == record.ShiftID {
				return gorm.ErrDuplicatedKey
			}
		}
	}
	if record.AttendanceID == "" {
		m.seq++
		record.AttendanceID = fmt.Sprintf("att-%d", m.seq)
	}
	m.records = append(m.records, record)
	return nil
}

func (m *mockAttendanceRepo) FinalizeStatus(_ context.Context, attendanceID, status string) error {
	for _, r := range m.records {
		if r.AttendanceID == attendanceID {
			r.Status = status
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (m *mockAttendanceRepo) ExistsForGuardShift(_ context.Context, guardID, shiftID string) (bool, error) {
	for _, r := range m.records {
		if r.GuardID != nil && *r.GuardID == guardID && r.ShiftID == shiftID {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockAttendanceRepo) ListByDate(_ context.Context, date time.Time) ([]model.AttendanceRecord, error) {
	var result []model.AttendanceRecord
	for _, r := range m.records {
		if sameDay(r.CheckInTime, date) {
			result = append(result, *r)
		}
	}
	return result, nil
}

func (m *mockAttendanceRepo) ListByGuard(_ context.Context, guardID string, limit int) ([]model.AttendanceRecord, error) {
	var result []model.AttendanceRecord
	for _, r := range m.records {
		if r.GuardID != nil && *r.GuardID == guardID {
			result = append(result, *r)
		}
	}
	if len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

func (m *mockAttendanceRepo) ListBetween(_ context.Context, from, to time.Time) ([]model.AttendanceRecord, error) {
	var result []model.AttendanceRecord
	for _, r := range m.records {
		if !r.CheckInTime.Before(from) && !r.CheckInTime.After(to) {
			result = append(result, *r)
		}
	}
	return result, nil
}

func (m *mockAttendanceRepo) CountByDate(_ context.Context, date time.Time) (int64, error) {
	var count int64
	for _, r := range m.records {
		if sameDay(r.CheckInTime, date) {
			count++
		}
	}
	return count, nil
}

func (m *mockAttendanceRepo) CountByDateAndStatus(_ context.Context, date time.Time, status string) (int64, error) {
	var count int64
	for _, r := range m.records {
		if sameDay(r.CheckInTime, date) && r.Status == status {
			count++
		}
	}
	return count, nil
}

func (m *mockAttendanceRepo) CountDistinctGuardsByDate(_ context.Context, date time.Time) (int64, error) {
	seen := make(map[string]bool)
	for _, r := range m.records {
		if r.GuardID != nil && sameDay(r.CheckInTime, date) {
			seen[*r.GuardID] = true
		}
	}
	return int64(len(seen)), nil
}

func (m *mockAttendanceRepo) WorkloadSince(_ context.Context, since time.Time, limit int) ([]repository.GuardWorkload, error) {
	counts := make(map[string]int64)
	for _, r := range m.records {
		if r.GuardID != nil && !r.CheckInTime.Before(since) {
			counts[*r.GuardID]++
		}
	}
	var result []repository.GuardWorkload
	for id, n := range counts {
		result = append(result, repository.GuardWorkload{Username: id, Shifts: n})
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Shifts > result[j].Shifts })
	if len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

// ── Mock PatrolRepository ──

type mockPatrolRepo struct {
	points []*model.PatrolCoordinate
	seq    int
}

func newMockPatrolRepo() *mockPatrolRepo {
	return &mockPatrolRepo{}
}

func (m *mockPatrolRepo) Create(_ context.Context, point *model.PatrolCoordinate) error {
	if point.PatrolID == "" {
		m.seq++
		point.PatrolID = fmt.Sprintf("pt-%d", m.seq)
	}
	m.points = append(m.points, point)
	return nil
}

func (m *mockPatrolRepo) LastForGuardShift(_ context.Context, guardID, shiftID string) (*model.PatrolCoordinate, error) {
	var last *model.PatrolCoordinate
	for _, p := range m.points {
		if p.GuardID == guardID && p.ShiftID == shiftID {
			if last == nil || p.Timestamp.After(last.Timestamp) {
				last = p
			}
		}
	}
	if last == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return last, nil
}

func (m *mockPatrolRepo) ListByShift(_ context.Context, shiftID string, from, to *time.Time, limit int) ([]model.PatrolCoordinate, error) {
	var result []model.PatrolCoordinate
	for _, p := range m.points {
		if p.ShiftID != shiftID {
			continue
		}
		if from != nil && p.Timestamp.Before(*from) {
			continue
		}
		if to != nil && p.Timestamp.After(*to) {
			continue
		}
		result = append(result, *p)
	}
	if len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

func (m *mockPatrolRepo) LatestPerGuard(_ context.Context, shiftID *string) ([]model.PatrolCoordinate, error) {
	latest := make(map[string]*model.PatrolCoordinate)
	for _, p := range m.points {
		if shiftID != nil && p.ShiftID != *shiftID {
			continue
		}
		if cur, ok := latest[p.GuardID]; !ok || p.Timestamp.After(cur.Timestamp) {
			latest[p.GuardID] = p
		}
	}
	var result []model.PatrolCoordinate
	for _, p := range latest {
		result = append(result, *p)
	}
	return result, nil
}

func (m *mockPatrolRepo) ListActiveGuardIDs(_ context.Context, cutoff time.Time) ([]string, error) {
	seen := make(map[string]bool)
	var result []string
	for _, p := range m.points {
		if p.Timestamp.Before(cutoff) || seen[p.GuardID] {
			continue
		}
		seen[p.GuardID] = true
		result = append(result, p.GuardID)
	}
	return result, nil
}

func (m *mockPatrolRepo) ListPoints(_ context.Context, shiftID *string, limit int) ([]model.PatrolCoordinate, error) {
	var result []model.PatrolCoordinate
	for _, p := range m.points {
		if shiftID != nil && p.ShiftID != *shiftID {
			continue
		}
		result = append(result, *p)
	}
	if len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

// ── Mock Notifier ──

type notifierEvent struct {
	Topic string
	Event interface{}
}

type mockNotifier struct {
	events []notifierEvent
}

func (m *mockNotifier) Publish(_ context.Context, topic string, event interface{}) error {
	m.events = append(m.events, notifierEvent{Topic: topic, Event: event})
	return nil
}

func (m *mockNotifier) topics() []string {
	out := make([]string, 0, len(m.events))
	for _, e := range m.events {
		out = append(out, e.Topic)
	}
	return out
}

// ── 测试用 Repository 聚合 ──

type testRepos struct {
	user    *mockUserRepo
	profile *mockGuardProfileRepo
	premise *mockPremiseRepo
	shift   *mockShiftRepo
	att     *mockAttendanceRepo
	patrol  *mockPatrolRepo
}

// newTestRepo 组装注入 mock 的 Repository（无底层连接，事务直通）
func newTestRepo() (*repository.Repository, *testRepos) {
	mocks := &testRepos{
		user:    newMockUserRepo(),
		profile: newMockGuardProfileRepo(),
		premise: newMockPremiseRepo(),
		shift:   newMockShiftRepo(),
		att:     newMockAttendanceRepo(),
		patrol:  newMockPatrolRepo(),
	}
	repo := &repository.Repository{
		User:         mocks.user,
		GuardProfile: mocks.profile,
		Premise:      mocks.premise,
		Shift:        mocks.shift,
		Attendance:   mocks.att,
		Patrol:       mocks.patrol,
	}
	return repo, mocks
}

// [自证通过] internal/service/mock_repos_test.go
