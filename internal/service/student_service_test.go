package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/justkurama/django2024-tsis2/internal/dto"
	"github.com/justkurama/django2024-tsis2/internal/model"
	"github.com/justkurama/django2024-tsis2/internal/repository"
)

func setupTestStudentService() (StudentService, *repository.Repository, *mockCache) {
	repo := newMockRepository()
	cache := newMockCache()
	svc := NewStudentService(testConfig(), repo, cache, zap.NewNop())
	return svc, repo, cache
}

func seedStudent(repo *repository.Repository, id, name, email string) *model.Student {
	student := &model.Student{
		StudentID:        id,
		AccountID:        "acc-" + id,
		Name:             name,
		Email:            email,
		RegistrationDate: time.Now(),
	}
	repo.Student.(*mockStudentRepo).students[id] = student
	return student
}

// ── 列表与缓存 ──

func TestStudentList_CacheHitSkipsRepo(t *testing.T) {
	svc, repo, _ := setupTestStudentService()
	seedStudent(repo, "s1", "Alice", "alice@test.com")
	seedStudent(repo, "s2", "Bob", "bob@test.com")
	mock := repo.Student.(*mockStudentRepo)

	req := &dto.StudentListRequest{}
	if _, total, err := svc.List(context.Background(), req, "page=1"); err != nil || total != 2 {
		t.Fatalf("首次 List 应回源成功，total=%d err=%v", total, err)
	}
	if mock.listCalls != 1 {
		t.Fatalf("首次 List 应触库一次，实际=%d", mock.listCalls)
	}

	// 同一查询串第二次走缓存，数据库不再触达
	list, total, err := svc.List(context.Background(), req, "page=1")
	if err != nil {
		t.Fatalf("二次 List 应成功: %v", err)
	}
	if mock.listCalls != 1 {
		t.Errorf("缓存命中后不应再触库，实际触库=%d", mock.listCalls)
	}
	if total != 2 || len(list) != 2 {
		t.Errorf("缓存结果应与回源一致，total=%d len=%d", total, len(list))
	}
}

func TestStudentList_DistinctQueriesCachedSeparately(t *testing.T) {
	svc, repo, _ := setupTestStudentService()
	seedStudent(repo, "s1", "Alice", "alice@test.com")
	mock := repo.Student.(*mockStudentRepo)

	svc.List(context.Background(), &dto.StudentListRequest{}, "page=1")
	svc.List(context.Background(), &dto.StudentListRequest{Name: "ali"}, "page=1&name=ali")

	if mock.listCalls != 2 {
		t.Errorf("不同查询串应各自回源，实际触库=%d", mock.listCalls)
	}
}

func TestStudentUpdate_InvalidatesCache(t *testing.T) {
	svc, repo, cache := setupTestStudentService()
	seedStudent(repo, "s1", "Alice", "alice@test.com")
	mock := repo.Student.(*mockStudentRepo)

	svc.List(context.Background(), &dto.StudentListRequest{}, "page=1")

	newName := "Alice Updated"
	if _, err := svc.Update(context.Background(), "s1", &dto.UpdateStudentRequest{Name: &newName}); err != nil {
		t.Fatalf("Update 应成功: %v", err)
	}
	if len(cache.invalidated) != 1 {
		t.Fatalf("Update 应失效缓存一次，实际=%v", cache.invalidated)
	}

	// 失效后列表重新回源
	svc.List(context.Background(), &dto.StudentListRequest{}, "page=1")
	if mock.listCalls != 2 {
		t.Errorf("缓存失效后应重新触库，实际触库=%d", mock.listCalls)
	}
}

// ── 更新与删除 ──

func TestStudentUpdate_Fields(t *testing.T) {
	svc, repo, _ := setupTestStudentService()
	seedStudent(repo, "s1", "Alice", "alice@test.com")

	name, email, dob := "Alicia", "alicia@test.com", "2002-05-20"
	result, err := svc.Update(context.Background(), "s1", &dto.UpdateStudentRequest{
		Name: &name, Email: &email, DOB: &dob,
	})
	if err != nil {
		t.Fatalf("Update 应成功: %v", err)
	}
	if result.Name != "Alicia" || result.Email != "alicia@test.com" {
		t.Errorf("字段未更新: %+v", result)
	}
	if result.DOB == nil || *result.DOB != "2002-05-20" {
		t.Errorf("DOB 未更新: %v", result.DOB)
	}
}

func TestStudentUpdate_BadDOB(t *testing.T) {
	svc, repo, _ := setupTestStudentService()
	seedStudent(repo, "s1", "Alice", "alice@test.com")

	dob := "20/05/2002"
	_, err := svc.Update(context.Background(), "s1", &dto.UpdateStudentRequest{DOB: &dob})
	if !errors.Is(err, ErrStudentDOBFormat) {
		t.Errorf("期望 ErrStudentDOBFormat，实际: %v", err)
	}

	// 非法日期不应落库
	got, _ := svc.GetByID(context.Background(), "s1")
	if got.DOB != nil {
		t.Errorf("非法日期不应写入档案，实际=%v", *got.DOB)
	}
}

func TestStudentUpdate_EmailConflict(t *testing.T) {
	svc, repo, _ := setupTestStudentService()
	seedStudent(repo, "s1", "Alice", "alice@test.com")
	seedStudent(repo, "s2", "Bob", "bob@test.com")

	email := "bob@test.com"
	_, err := svc.Update(context.Background(), "s1", &dto.UpdateStudentRequest{Email: &email})
	if !errors.Is(err, ErrStudentEmailTaken) {
		t.Errorf("期望 ErrStudentEmailTaken，实际: %v", err)
	}
}

func TestStudentGetByID_NotFound(t *testing.T) {
	svc, _, _ := setupTestStudentService()

	if _, err := svc.GetByID(context.Background(), "missing"); !errors.Is(err, ErrStudentNotFound) {
		t.Errorf("期望 ErrStudentNotFound，实际: %v", err)
	}
}

func TestStudentDelete_InvalidatesCache(t *testing.T) {
	svc, repo, cache := setupTestStudentService()
	seedStudent(repo, "s1", "Alice", "alice@test.com")

	if err := svc.Delete(context.Background(), "s1"); err != nil {
		t.Fatalf("Delete 应成功: %v", err)
	}
	if len(cache.invalidated) != 1 {
		t.Errorf("Delete 应失效缓存一次，实际=%v", cache.invalidated)
	}
	if err := svc.Delete(context.Background(), "s1"); !errors.Is(err, ErrStudentNotFound) {
		t.Errorf("重复删除应返回 ErrStudentNotFound，实际: %v", err)
	}
}
