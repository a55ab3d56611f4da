package service

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"github.com/justkurama/django2024-tsis2/internal/dto"
	"github.com/justkurama/django2024-tsis2/internal/model"
)

func TestAssignRole_PromoteToTeacher(t *testing.T) {
	repo := newMockRepository()
	cache := newMockCache()
	svc := NewAccountService(repo, cache, zap.NewNop())
	createTestAccount(repo, "alice", "password123", model.RoleStudent)

	result, err := svc.AssignRole(context.Background(), &dto.AssignRoleRequest{
		Email: "alice@test.com",
		Role:  model.RoleTeacher,
	})

	if err != nil {
		t.Fatalf("AssignRole 应成功: %v", err)
	}
	if result.Role != model.RoleTeacher {
		t.Errorf("期望角色 teacher，实际=%s", result.Role)
	}
	// 指派为非学生角色不建档案
	if _, err := repo.Student.GetByAccountID(context.Background(), result.ID); err == nil {
		t.Error("指派 teacher 不应创建学生档案")
	}
}

func TestAssignRole_StudentCreatesProfile(t *testing.T) {
	repo := newMockRepository()
	cache := newMockCache()
	svc := NewAccountService(repo, cache, zap.NewNop())
	account := createTestAccount(repo, "bob", "password123", model.RoleTeacher)

	result, err := svc.AssignRole(context.Background(), &dto.AssignRoleRequest{
		Email: "bob@test.com",
		Role:  model.RoleStudent,
	})
	if err != nil {
		t.Fatalf("AssignRole 应成功: %v", err)
	}
	if result.Role != model.RoleStudent {
		t.Errorf("期望角色 student，实际=%s", result.Role)
	}

	student, err := repo.Student.GetByAccountID(context.Background(), account.AccountID)
	if err != nil {
		t.Fatalf("指派 student 应补建学生档案: %v", err)
	}
	if student.Name != "bob" || student.Email != "bob@test.com" {
		t.Errorf("档案应取自账号信息，实际 Name=%s Email=%s", student.Name, student.Email)
	}

	// 学生表有写入，学生列表缓存应被整体失效
	if len(cache.invalidated) != 1 || cache.invalidated[0] != "students" {
		t.Errorf("期望失效 students 缓存一次，实际=%v", cache.invalidated)
	}
}

func TestAssignRole_ProfileAlreadyExists(t *testing.T) {
	repo := newMockRepository()
	cache := newMockCache()
	svc := NewAccountService(repo, cache, zap.NewNop())
	account := createTestAccount(repo, "carol", "password123", model.RoleTeacher)
	repo.Student.Create(context.Background(), &model.Student{
		StudentID: "stu-carol",
		AccountID: account.AccountID,
		Name:      "Carol",
		Email:     "carol@test.com",
	})

	if _, err := svc.AssignRole(context.Background(), &dto.AssignRoleRequest{
		Email: "carol@test.com",
		Role:  model.RoleStudent,
	}); err != nil {
		t.Fatalf("AssignRole 应成功: %v", err)
	}

	// 已有档案时不再补建、不失效缓存
	if len(cache.invalidated) != 0 {
		t.Errorf("已有档案不应失效缓存，实际=%v", cache.invalidated)
	}
}

func TestAssignRole_AccountNotFound(t *testing.T) {
	repo := newMockRepository()
	svc := NewAccountService(repo, newMockCache(), zap.NewNop())

	_, err := svc.AssignRole(context.Background(), &dto.AssignRoleRequest{
		Email: "nobody@test.com",
		Role:  model.RoleAdmin,
	})

	if !errors.Is(err, ErrAccountNotFound) {
		t.Errorf("期望 ErrAccountNotFound，实际: %v", err)
	}
}
