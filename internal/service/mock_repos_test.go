package service

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"github.com/jceballos29/control-asistencia/internal/model"
	"github.com/jceballos29/control-asistencia/internal/repository"
	"github.com/jceballos29/control-asistencia/internal/schedule"
)

// ── 内存存储（三个 Mock Repository 共享，模拟外键级联）──

type mockStore struct {
	offices map[string]*model.Office
	slots   map[string]*model.TimeSlot
	jobs    map[string]*model.JobPosition
}

func newMockStore() *mockStore {
	return &mockStore{
		offices: make(map[string]*model.Office),
		slots:   make(map[string]*model.TimeSlot),
		jobs:    make(map[string]*model.JobPosition),
	}
}

// newMockRepository 组装未绑定数据库的 Repository，Transaction 直接执行回调
func newMockRepository() (*repository.Repository, *mockStore, *mockTimeSlotRepo) {
	store := newMockStore()
	slotRepo := &mockTimeSlotRepo{store: store}
	return &repository.Repository{
		Office:      &mockOfficeRepo{store: store},
		TimeSlot:    slotRepo,
		JobPosition: &mockJobPositionRepo{store: store},
	}, store, slotRepo
}

// exclusionViolation 模拟 PostgreSQL 排他约束冲突
var exclusionViolation = &pgconn.PgError{Code: "23P01", ConstraintName: "time_slots_no_overlap"}

// ── Mock OfficeRepository ──

type mockOfficeRepo struct {
	store *mockStore
}

func (m *mockOfficeRepo) Create(_ context.Context, office *model.Office) error {
	if office.OfficeID == "" {
		office.OfficeID = uuid.NewString()
	}
	office.CreatedAt = time.Now()
	m.store.offices[office.OfficeID] = office
	return nil
}

func (m *mockOfficeRepo) GetByID(_ context.Context, id string) (*model.Office, error) {
	if o, ok := m.store.offices[id]; ok {
		cp := *o
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockOfficeRepo) GetDetail(ctx context.Context, id string) (*model.Office, error) {
	o, err := m.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	o.TimeSlots = m.store.slotsOf(id)
	o.JobPositions = m.store.jobsOf(id)
	return o, nil
}

func (m *mockOfficeRepo) GetForUpdate(ctx context.Context, id string) (*model.Office, error) {
	return m.GetByID(ctx, id)
}

func (m *mockOfficeRepo) ExistsByName(_ context.Context, name string, excludeID string) (bool, error) {
	for _, o := range m.store.offices {
		if o.Name == name && o.OfficeID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockOfficeRepo) List(_ context.Context, f repository.OfficeListFilter) ([]model.OfficeWithCounts, int64, error) {
	var all []model.OfficeWithCounts
	for _, o := range m.store.offices {
		if f.Search != "" && !strings.Contains(strings.ToLower(o.Name), strings.ToLower(f.Search)) {
			continue
		}
		all = append(all, model.OfficeWithCounts{
			Office:            *o,
			TimeSlotsCount:    int64(len(m.store.slotsOf(o.OfficeID))),
			JobPositionsCount: int64(len(m.store.jobsOf(o.OfficeID))),
		})
	}
	sort.Slice(all, func(i, j int) bool {
		if f.SortDesc {
			return all[i].Name > all[j].Name
		}
		return all[i].Name < all[j].Name
	})
	total := int64(len(all))
	if f.Offset >= len(all) {
		return []model.OfficeWithCounts{}, total, nil
	}
	end := f.Offset + f.Limit
	if end > len(all) {
		end = len(all)
	}
	return all[f.Offset:end], total, nil
}

func (m *mockOfficeRepo) CountRelations(_ context.Context, id string) (int64, int64, error) {
	return int64(len(m.store.slotsOf(id))), int64(len(m.store.jobsOf(id))), nil
}

func (m *mockOfficeRepo) Update(_ context.Context, office *model.Office) error {
	if _, ok := m.store.offices[office.OfficeID]; !ok {
		return gorm.ErrRecordNotFound
	}
	cp := *office
	cp.TimeSlots, cp.JobPositions = nil, nil
	m.store.offices[office.OfficeID] = &cp
	return nil
}

func (m *mockOfficeRepo) Delete(_ context.Context, id string) (int64, error) {
	if _, ok := m.store.offices[id]; !ok {
		return 0, nil
	}
	delete(m.store.offices, id)
	// ON DELETE CASCADE
	for sid, s := range m.store.slots {
		if s.OfficeID == id {
			delete(m.store.slots, sid)
		}
	}
	for jid, j := range m.store.jobs {
		if j.OfficeID == id {
			delete(m.store.jobs, jid)
		}
	}
	return 1, nil
}

// ── Mock TimeSlotRepository ──

type mockTimeSlotRepo struct {
	store *mockStore
	// writeErr 非空时 Create/UpdateTimes 直接返回该错误（模拟数据库约束）
	writeErr error
}

func (m *mockTimeSlotRepo) Create(_ context.Context, slot *model.TimeSlot) error {
	if m.writeErr != nil {
		return m.writeErr
	}
	if _, ok := m.store.offices[slot.OfficeID]; !ok {
		return &pgconn.PgError{Code: "23503"}
	}
	if slot.TimeSlotID == "" {
		slot.TimeSlotID = uuid.NewString()
	}
	slot.CreatedAt = time.Now()
	cp := *slot
	m.store.slots[slot.TimeSlotID] = &cp
	return nil
}

func (m *mockTimeSlotRepo) GetByID(_ context.Context, id string) (*model.TimeSlot, error) {
	if s, ok := m.store.slots[id]; ok {
		cp := *s
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockTimeSlotRepo) ListByOffice(_ context.Context, officeID string) ([]model.TimeSlot, error) {
	return m.store.slotsOf(officeID), nil
}

func (m *mockTimeSlotRepo) FindOverlapping(_ context.Context, officeID string, start, end schedule.TimeOfDay, excludeID string) (*model.TimeSlot, error) {
	candidate := schedule.Window{Start: start, End: end}
	for _, s := range m.store.slotsOf(officeID) {
		if s.TimeSlotID == excludeID {
			continue
		}
		if candidate.Overlaps(s.Window()) {
			cp := s
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *mockTimeSlotRepo) UpdateTimes(_ context.Context, slot *model.TimeSlot) error {
	if m.writeErr != nil {
		return m.writeErr
	}
	s, ok := m.store.slots[slot.TimeSlotID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	now := time.Now()
	s.StartTime, s.EndTime, s.UpdatedAt = slot.StartTime, slot.EndTime, &now
	return nil
}

func (m *mockTimeSlotRepo) Delete(_ context.Context, id string) (int64, error) {
	if _, ok := m.store.slots[id]; !ok {
		return 0, nil
	}
	delete(m.store.slots, id)
	return 1, nil
}

func (m *mockTimeSlotRepo) DeleteAllByOffice(_ context.Context, officeID string) (int64, error) {
	var n int64
	for id, s := range m.store.slots {
		if s.OfficeID == officeID {
			delete(m.store.slots, id)
			n++
		}
	}
	return n, nil
}

// ── Mock JobPositionRepository ──

type mockJobPositionRepo struct {
	store *mockStore
}

func (m *mockJobPositionRepo) Create(_ context.Context, jp *model.JobPosition) error {
	if jp.JobPositionID == "" {
		jp.JobPositionID = uuid.NewString()
	}
	jp.CreatedAt = time.Now()
	cp := *jp
	m.store.jobs[jp.JobPositionID] = &cp
	return nil
}

func (m *mockJobPositionRepo) GetByID(_ context.Context, id string) (*model.JobPosition, error) {
	if j, ok := m.store.jobs[id]; ok {
		cp := *j
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockJobPositionRepo) ListByOffice(_ context.Context, officeID string) ([]model.JobPosition, error) {
	return m.store.jobsOf(officeID), nil
}

func (m *mockJobPositionRepo) ExistsByName(_ context.Context, officeID, name, excludeID string) (bool, error) {
	for _, j := range m.store.jobs {
		if j.OfficeID == officeID && j.Name == name && j.JobPositionID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockJobPositionRepo) Update(_ context.Context, jp *model.JobPosition) error {
	if _, ok := m.store.jobs[jp.JobPositionID]; !ok {
		return gorm.ErrRecordNotFound
	}
	cp := *jp
	m.store.jobs[jp.JobPositionID] = &cp
	return nil
}

func (m *mockJobPositionRepo) Delete(_ context.Context, id string) (int64, error) {
	if _, ok := m.store.jobs[id]; !ok {
		return 0, nil
	}
	delete(m.store.jobs, id)
	return 1, nil
}

// ── 查询辅助 ──

func (s *mockStore) slotsOf(officeID string) []model.TimeSlot {
	out := []model.TimeSlot{}
	for _, ts := range s.slots {
		if ts.OfficeID == officeID {
			out = append(out, *ts)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartTime < out[j].StartTime })
	return out
}

func (s *mockStore) jobsOf(officeID string) []model.JobPosition {
	out := []model.JobPosition{}
	for _, j := range s.jobs {
		if j.OfficeID == officeID {
			out = append(out, *j)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// seedOffice 直接写入一个办公室（start/end 为空字符串表示未配置办公时间）
func (s *mockStore) seedOffice(name, start, end string, days ...schedule.Weekday) *model.Office {
	o := &model.Office{OfficeID: uuid.NewString(), Name: name}
	o.CreatedAt = time.Now()
	if start != "" {
		st := schedule.MustParse(start)
		o.WorkStartTime = &st
	}
	if end != "" {
		et := schedule.MustParse(end)
		o.WorkEndTime = &et
	}
	if days != nil {
		o.WorkingDays = model.WeekdayArray(days)
	}
	s.offices[o.OfficeID] = o
	return o
}

// seedSlot 直接写入一个时间段（绕过业务校验）
func (s *mockStore) seedSlot(officeID, start, end string) *model.TimeSlot {
	ts := &model.TimeSlot{
		TimeSlotID: uuid.NewString(),
		OfficeID:   officeID,
		StartTime:  schedule.MustParse(start),
		EndTime:    schedule.MustParse(end),
	}
	s.slots[ts.TimeSlotID] = ts
	return ts
}

// seedJob 直接写入一个岗位
func (s *mockStore) seedJob(officeID, name, color string) *model.JobPosition {
	jp := &model.JobPosition{
		JobPositionID: uuid.NewString(),
		OfficeID:      officeID,
		Name:          name,
		Color:         color,
	}
	s.jobs[jp.JobPositionID] = jp
	return jp
}
