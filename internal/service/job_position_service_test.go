package service

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"github.com/jceballos29/control-asistencia/internal/dto"
)

func setupTestJobPositionService() (JobPositionService, *mockStore) {
	repo, store, _ := newMockRepository()
	return NewJobPositionService(repo, zap.NewNop()), store
}

func TestJobPositionService_Create(t *testing.T) {
	svc, store := setupTestJobPositionService()
	office := store.seedOffice("A", "", "")

	resp, err := svc.Create(context.Background(), office.OfficeID, &dto.CreateJobPositionRequest{Name: " Enfermería ", Color: "#3498DB"})
	if err != nil {
		t.Fatalf("创建岗位失败: %v", err)
	}
	if resp.Name != "Enfermería" || resp.OfficeID != office.OfficeID {
		t.Errorf("岗位信息不正确: %+v", resp)
	}

	_, err = svc.Create(context.Background(), office.OfficeID, &dto.CreateJobPositionRequest{Name: "Enfermería", Color: "#000"})
	if !errors.Is(err, ErrJobPositionNameTaken) {
		t.Errorf("期望 ErrJobPositionNameTaken，实际: %v", err)
	}
}

func TestJobPositionService_BlankName(t *testing.T) {
	svc, store := setupTestJobPositionService()
	office := store.seedOffice("A", "", "")
	jp := store.seedJob(office.OfficeID, "Médico", "#fff")

	_, err := svc.Create(context.Background(), office.OfficeID, &dto.CreateJobPositionRequest{Name: "   ", Color: "#000"})
	if !errors.Is(err, ErrJobPositionNameBlank) {
		t.Errorf("期望 ErrJobPositionNameBlank，实际: %v", err)
	}
	if n := len(store.jobsOf(office.OfficeID)); n != 1 {
		t.Errorf("空白名称不应写入，岗位数量: %d", n)
	}

	blank := " \t"
	_, err = svc.Update(context.Background(), office.OfficeID, jp.JobPositionID, &dto.UpdateJobPositionRequest{Name: &blank})
	if !errors.Is(err, ErrJobPositionNameBlank) {
		t.Errorf("期望 ErrJobPositionNameBlank，实际: %v", err)
	}
	if got := store.jobs[jp.JobPositionID].Name; got != "Médico" {
		t.Errorf("名称不应被修改，实际: %q", got)
	}
}

func TestJobPositionService_Create_SameNameOtherOffice(t *testing.T) {
	svc, store := setupTestJobPositionService()
	a := store.seedOffice("A", "", "")
	b := store.seedOffice("B", "", "")
	store.seedJob(a.OfficeID, "Médico", "#fff")

	if _, err := svc.Create(context.Background(), b.OfficeID, &dto.CreateJobPositionRequest{Name: "Médico", Color: "#fff"}); err != nil {
		t.Errorf("不同办公室允许同名岗位，实际: %v", err)
	}
}

func TestJobPositionService_Create_OfficeNotFound(t *testing.T) {
	svc, _ := setupTestJobPositionService()

	_, err := svc.Create(context.Background(), "missing", &dto.CreateJobPositionRequest{Name: "X", Color: "#fff"})
	if !errors.Is(err, ErrOfficeNotFound) {
		t.Errorf("期望 ErrOfficeNotFound，实际: %v", err)
	}
}

func TestJobPositionService_List_SortedByName(t *testing.T) {
	svc, store := setupTestJobPositionService()
	office := store.seedOffice("A", "", "")
	store.seedJob(office.OfficeID, "Recepción", "#111")
	store.seedJob(office.OfficeID, "Auxiliar", "#222")

	list, err := svc.List(context.Background(), office.OfficeID)
	if err != nil {
		t.Fatalf("查询失败: %v", err)
	}
	if len(list) != 2 || list[0].Name != "Auxiliar" {
		t.Errorf("期望按名称升序，实际: %+v", list)
	}
}

func TestJobPositionService_Update(t *testing.T) {
	svc, store := setupTestJobPositionService()
	office := store.seedOffice("A", "", "")
	jp := store.seedJob(office.OfficeID, "Médico", "#fff")
	store.seedJob(office.OfficeID, "Auxiliar", "#000")

	resp, err := svc.Update(context.Background(), office.OfficeID, jp.JobPositionID, &dto.UpdateJobPositionRequest{Color: strPtr("#ABCDEF")})
	if err != nil {
		t.Fatalf("更新失败: %v", err)
	}
	if resp.Color != "#ABCDEF" || resp.Name != "Médico" {
		t.Errorf("仅颜色应被修改: %+v", resp)
	}

	_, err = svc.Update(context.Background(), office.OfficeID, jp.JobPositionID, &dto.UpdateJobPositionRequest{Name: strPtr("Auxiliar")})
	if !errors.Is(err, ErrJobPositionNameTaken) {
		t.Errorf("期望 ErrJobPositionNameTaken，实际: %v", err)
	}
}

func TestJobPositionService_WrongOffice(t *testing.T) {
	svc, store := setupTestJobPositionService()
	a := store.seedOffice("A", "", "")
	b := store.seedOffice("B", "", "")
	jp := store.seedJob(a.OfficeID, "Médico", "#fff")

	if _, err := svc.GetByID(context.Background(), b.OfficeID, jp.JobPositionID); !errors.Is(err, ErrJobPositionNotFound) {
		t.Errorf("期望 ErrJobPositionNotFound，实际: %v", err)
	}
	if err := svc.Delete(context.Background(), b.OfficeID, jp.JobPositionID); !errors.Is(err, ErrJobPositionNotFound) {
		t.Errorf("期望 ErrJobPositionNotFound，实际: %v", err)
	}
	if _, ok := store.jobs[jp.JobPositionID]; !ok {
		t.Errorf("其他办公室的删除请求不应生效")
	}
}

func TestJobPositionService_Delete(t *testing.T) {
	svc, store := setupTestJobPositionService()
	office := store.seedOffice("A", "", "")
	jp := store.seedJob(office.OfficeID, "Médico", "#fff")

	if err := svc.Delete(context.Background(), office.OfficeID, jp.JobPositionID); err != nil {
		t.Fatalf("删除失败: %v", err)
	}
	if _, err := svc.GetByID(context.Background(), office.OfficeID, jp.JobPositionID); !errors.Is(err, ErrJobPositionNotFound) {
		t.Errorf("期望 ErrJobPositionNotFound，实际: %v", err)
	}
}
