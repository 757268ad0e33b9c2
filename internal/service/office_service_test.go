package service

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"github.com/jceballos29/control-asistencia/internal/dto"
	"github.com/jceballos29/control-asistencia/internal/schedule"
)

// ── 测试辅助 ──

func setupTestOfficeService() (OfficeService, *mockStore) {
	repo, store, _ := newMockRepository()
	return NewOfficeService(repo, zap.NewNop()), store
}

// ── Create 测试 ──

func TestOfficeService_Create_Success(t *testing.T) {
	svc, store := setupTestOfficeService()

	resp, err := svc.Create(context.Background(), &dto.CreateOfficeRequest{
		Name:          "  Consultorio 1 ",
		WorkStartTime: strPtr("08:00"),
		WorkEndTime:   strPtr("17:00"),
		WorkingDays:   []string{"MONDAY", "FRIDAY"},
	})
	if err != nil {
		t.Fatalf("创建办公室失败: %v", err)
	}
	if resp.Name != "Consultorio 1" {
		t.Errorf("名称应去除首尾空白，实际: %q", resp.Name)
	}
	if resp.WorkStartTime == nil || *resp.WorkStartTime != "08:00:00" {
		t.Errorf("办公开始时间不正确: %v", resp.WorkStartTime)
	}
	if len(resp.WorkingDays) != 2 {
		t.Errorf("期望 2 个工作日，实际: %v", resp.WorkingDays)
	}
	if len(store.offices) != 1 {
		t.Errorf("期望存储 1 个办公室，实际: %d", len(store.offices))
	}
}

func TestOfficeService_Create_WorkingDaysTriState(t *testing.T) {
	svc, store := setupTestOfficeService()

	unset, err := svc.Create(context.Background(), &dto.CreateOfficeRequest{Name: "A"})
	if err != nil {
		t.Fatalf("创建失败: %v", err)
	}
	none, err := svc.Create(context.Background(), &dto.CreateOfficeRequest{Name: "B", WorkingDays: []string{}})
	if err != nil {
		t.Fatalf("创建失败: %v", err)
	}

	if store.offices[unset.ID].WorkingDays != nil {
		t.Errorf("未提供 workingDays 应保持未配置(nil)")
	}
	if d := store.offices[none.ID].WorkingDays; d == nil || len(d) != 0 {
		t.Errorf("显式空数组应保持为空而非 nil，实际: %#v", d)
	}
}

func TestOfficeService_Create_InvalidWorkHours(t *testing.T) {
	svc, _ := setupTestOfficeService()

	tests := []struct {
		name  string
		start *string
		end   *string
	}{
		{"只有开始", strPtr("08:00"), nil},
		{"只有结束", nil, strPtr("17:00")},
		{"结束早于开始", strPtr("17:00"), strPtr("08:00")},
		{"开始等于结束", strPtr("08:00"), strPtr("08:00")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(context.Background(), &dto.CreateOfficeRequest{Name: tt.name, WorkStartTime: tt.start, WorkEndTime: tt.end})
			if !errors.Is(err, ErrInvalidWorkHours) {
				t.Errorf("期望 ErrInvalidWorkHours，实际: %v", err)
			}
		})
	}
}

func TestOfficeService_Create_InvalidWeekday(t *testing.T) {
	svc, _ := setupTestOfficeService()

	_, err := svc.Create(context.Background(), &dto.CreateOfficeRequest{Name: "A", WorkingDays: []string{"FUNDAY"}})
	if !errors.Is(err, schedule.ErrInvalidWeekday) {
		t.Errorf("期望 ErrInvalidWeekday，实际: %v", err)
	}
}

func TestOfficeService_Create_DuplicateName(t *testing.T) {
	svc, store := setupTestOfficeService()
	store.seedOffice("Consultorio 1", "", "")

	_, err := svc.Create(context.Background(), &dto.CreateOfficeRequest{Name: "Consultorio 1"})
	if !errors.Is(err, ErrOfficeNameTaken) {
		t.Errorf("期望 ErrOfficeNameTaken，实际: %v", err)
	}
}

// ── List 测试 ──

func TestOfficeService_List_PaginationAndCounts(t *testing.T) {
	svc, store := setupTestOfficeService()
	a := store.seedOffice("A", "", "")
	store.seedOffice("B", "", "")
	store.seedOffice("C", "", "")
	store.seedSlot(a.OfficeID, "09:00", "10:00")
	store.seedSlot(a.OfficeID, "10:00", "11:00")

	req := &dto.OfficeListRequest{PaginationRequest: dto.PaginationRequest{Page: 1, PageSize: 2}}
	list, total, err := svc.List(context.Background(), req)
	if err != nil {
		t.Fatalf("查询列表失败: %v", err)
	}
	if total != 3 {
		t.Errorf("期望 total=3，实际: %d", total)
	}
	if len(list) != 2 {
		t.Fatalf("期望本页 2 条，实际: %d", len(list))
	}
	if list[0].Name != "A" || list[0].TimeSlotsCount != 2 {
		t.Errorf("期望 A 含 2 个时间段，实际: %s / %d", list[0].Name, list[0].TimeSlotsCount)
	}
	if list[0].TimeSlots != nil {
		t.Errorf("列表不应展开时间段")
	}

	req.Page = 2
	list, _, _ = svc.List(context.Background(), req)
	if len(list) != 1 || list[0].Name != "C" {
		t.Errorf("第 2 页期望仅 C，实际: %+v", list)
	}
}

func TestOfficeService_List_InvalidFilter(t *testing.T) {
	svc, _ := setupTestOfficeService()

	_, _, err := svc.List(context.Background(), &dto.OfficeListRequest{WorkingDays: "MONDAY,NOPE"})
	if !errors.Is(err, schedule.ErrInvalidWeekday) {
		t.Errorf("期望 ErrInvalidWeekday，实际: %v", err)
	}
}

// ── GetByID / Calendar 测试 ──

func TestOfficeService_GetByID_Detail(t *testing.T) {
	svc, store := setupTestOfficeService()
	office := store.seedOffice("A", "08:00", "10:00", schedule.Monday, schedule.Wednesday)
	store.seedSlot(office.OfficeID, "09:00", "10:00")
	store.seedSlot(office.OfficeID, "08:00", "09:00")

	resp, err := svc.GetByID(context.Background(), office.OfficeID)
	if err != nil {
		t.Fatalf("查询详情失败: %v", err)
	}
	if len(resp.TimeSlots) != 2 || resp.TimeSlots[0].StartTime != "08:00:00" {
		t.Errorf("时间段应按开始时间升序: %+v", resp.TimeSlots)
	}
	if resp.JobPositions == nil {
		t.Errorf("详情中岗位应为空数组而非 null")
	}
	if resp.Calendar == nil || !resp.Calendar.ScheduleFull {
		t.Errorf("两段共 120 分钟覆盖办公时间，应为排满: %+v", resp.Calendar)
	}
	want := []int{0, 2, 4, 5, 6}
	if len(resp.Calendar.NonWorkingDays) != len(want) {
		t.Fatalf("期望非工作日 %v，实际: %v", want, resp.Calendar.NonWorkingDays)
	}
	for i := range want {
		if resp.Calendar.NonWorkingDays[i] != want[i] {
			t.Errorf("期望非工作日 %v，实际: %v", want, resp.Calendar.NonWorkingDays)
			break
		}
	}
}

func TestOfficeService_GetByID_NotFound(t *testing.T) {
	svc, _ := setupTestOfficeService()

	if _, err := svc.GetByID(context.Background(), "missing"); !errors.Is(err, ErrOfficeNotFound) {
		t.Errorf("期望 ErrOfficeNotFound，实际: %v", err)
	}
}

func TestOfficeService_Calendar(t *testing.T) {
	svc, store := setupTestOfficeService()
	unset := store.seedOffice("A", "", "")
	none := store.seedOffice("B", "08:00", "12:00", []schedule.Weekday{}...)
	store.seedSlot(none.OfficeID, "08:00", "09:00")

	cal, err := svc.Calendar(context.Background(), unset.OfficeID)
	if err != nil {
		t.Fatalf("查询日历失败: %v", err)
	}
	if cal.WorkingDaysConfigured || len(cal.NonWorkingDays) != 0 || cal.ScheduleFull {
		t.Errorf("未配置工作日时不应屏蔽任何日期: %+v", cal)
	}

	cal, err = svc.Calendar(context.Background(), none.OfficeID)
	if err != nil {
		t.Fatalf("查询日历失败: %v", err)
	}
	// 空集合同样视为不限制，由 workingDaysConfigured 区分两种情况
	if !cal.WorkingDaysConfigured || len(cal.NonWorkingDays) != 0 {
		t.Errorf("显式空工作日应返回空集合且标记已配置: %+v", cal)
	}
	if cal.ScheduleFull {
		t.Errorf("60/240 分钟不应排满")
	}
}

// ── Update 测试 ──

func TestOfficeService_Update_Name(t *testing.T) {
	svc, store := setupTestOfficeService()
	a := store.seedOffice("A", "", "")
	store.seedOffice("B", "", "")

	if _, err := svc.Update(context.Background(), a.OfficeID, &dto.UpdateOfficeRequest{Name: strPtr("B")}); !errors.Is(err, ErrOfficeNameTaken) {
		t.Errorf("期望 ErrOfficeNameTaken，实际: %v", err)
	}
	// 改为自身原名不算重复
	if _, err := svc.Update(context.Background(), a.OfficeID, &dto.UpdateOfficeRequest{Name: strPtr("A")}); err != nil {
		t.Errorf("保持原名应允许，实际: %v", err)
	}
	resp, err := svc.Update(context.Background(), a.OfficeID, &dto.UpdateOfficeRequest{Name: strPtr("C")})
	if err != nil || resp.Name != "C" {
		t.Errorf("改名失败: %v", err)
	}
}

func TestOfficeService_Update_PartialWorkHours(t *testing.T) {
	svc, store := setupTestOfficeService()
	office := store.seedOffice("A", "08:00", "17:00")
	unset := store.seedOffice("B", "", "")

	resp, err := svc.Update(context.Background(), office.OfficeID, &dto.UpdateOfficeRequest{WorkEndTime: strPtr("18:00")})
	if err != nil {
		t.Fatalf("更新失败: %v", err)
	}
	if *resp.WorkStartTime != "08:00:00" || *resp.WorkEndTime != "18:00:00" {
		t.Errorf("应与已存储开始时间合并，实际: %s - %s", *resp.WorkStartTime, *resp.WorkEndTime)
	}

	if _, err := svc.Update(context.Background(), office.OfficeID, &dto.UpdateOfficeRequest{WorkStartTime: strPtr("19:00")}); !errors.Is(err, ErrInvalidWorkHours) {
		t.Errorf("合并后开始晚于结束，期望 ErrInvalidWorkHours，实际: %v", err)
	}
	if _, err := svc.Update(context.Background(), unset.OfficeID, &dto.UpdateOfficeRequest{WorkStartTime: strPtr("08:00")}); !errors.Is(err, ErrInvalidWorkHours) {
		t.Errorf("只设置一端，期望 ErrInvalidWorkHours，实际: %v", err)
	}
}

func TestOfficeService_Update_WorkHoursMustCoverSlots(t *testing.T) {
	svc, store := setupTestOfficeService()
	office := store.seedOffice("A", "08:00", "17:00")
	store.seedSlot(office.OfficeID, "15:00", "16:30")

	_, err := svc.Update(context.Background(), office.OfficeID, &dto.UpdateOfficeRequest{WorkEndTime: strPtr("16:00")})
	if !errors.Is(err, ErrWorkHoursExcludeSlots) {
		t.Errorf("期望 ErrWorkHoursExcludeSlots，实际: %v", err)
	}
	if got := store.offices[office.OfficeID].WorkEndTime.String(); got != "17:00:00" {
		t.Errorf("失败的更新不应修改办公时间，实际: %s", got)
	}
}

func TestOfficeService_Update_WorkingDays(t *testing.T) {
	svc, store := setupTestOfficeService()
	office := store.seedOffice("A", "", "", schedule.Monday)

	// 未提供 workingDays 时保持不变
	if _, err := svc.Update(context.Background(), office.OfficeID, &dto.UpdateOfficeRequest{Name: strPtr("A2")}); err != nil {
		t.Fatalf("更新失败: %v", err)
	}
	if len(store.offices[office.OfficeID].WorkingDays) != 1 {
		t.Errorf("workingDays 不应被清空")
	}

	if _, err := svc.Update(context.Background(), office.OfficeID, &dto.UpdateOfficeRequest{WorkingDays: []string{}}); err != nil {
		t.Fatalf("更新失败: %v", err)
	}
	if d := store.offices[office.OfficeID].WorkingDays; d == nil || len(d) != 0 {
		t.Errorf("显式空数组应清空为 {}，实际: %#v", d)
	}
}

func TestOfficeService_Update_NotFound(t *testing.T) {
	svc, _ := setupTestOfficeService()

	if _, err := svc.Update(context.Background(), "missing", &dto.UpdateOfficeRequest{Name: strPtr("X")}); !errors.Is(err, ErrOfficeNotFound) {
		t.Errorf("期望 ErrOfficeNotFound，实际: %v", err)
	}
}

// ── Delete 测试 ──

func TestOfficeService_Delete_Cascade(t *testing.T) {
	svc, store := setupTestOfficeService()
	office := store.seedOffice("A", "", "")
	store.seedSlot(office.OfficeID, "09:00", "10:00")
	store.seedJob(office.OfficeID, "Médico", "#fff")

	if err := svc.Delete(context.Background(), office.OfficeID); err != nil {
		t.Fatalf("删除失败: %v", err)
	}
	if len(store.slots) != 0 || len(store.jobs) != 0 {
		t.Errorf("时间段与岗位应级联删除")
	}
	if err := svc.Delete(context.Background(), office.OfficeID); !errors.Is(err, ErrOfficeNotFound) {
		t.Errorf("重复删除期望 ErrOfficeNotFound，实际: %v", err)
	}
}
