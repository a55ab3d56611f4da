package service

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/justkurama/django2024-tsis2/internal/authz"
	"github.com/justkurama/django2024-tsis2/internal/dto"
	"github.com/justkurama/django2024-tsis2/internal/model"
	"github.com/justkurama/django2024-tsis2/internal/repository"
)

var ErrAccountNotFound = errors.New("账号不存在")

// AccountService 账号管理业务接口（角色指派为 admin 独占）
type AccountService interface {
	AssignRole(ctx context.Context, req *dto.AssignRoleRequest) (*dto.AccountResponse, error)
}

type accountService struct {
	repo   *repository.Repository
	cache  ListCache
	logger *zap.Logger
}

// NewAccountService 创建 AccountService 实例
func NewAccountService(repo *repository.Repository, cache ListCache, logger *zap.Logger) AccountService {
	return &accountService{repo: repo, cache: cache, logger: logger}
}

// AssignRole 按邮箱定位账号并指派角色
// 指派为 student 且账号尚无学生档案时，用账号信息补建档案
func (s *accountService) AssignRole(ctx context.Context, req *dto.AssignRoleRequest) (*dto.AccountResponse, error) {
	account, err := s.repo.Account.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAccountNotFound
		}
		s.logger.Error("查询账号失败", zap.Error(err))
		return nil, err
	}

	account.Role = req.Role
	if err := s.repo.Account.Update(ctx, account); err != nil {
		s.logger.Error("更新账号角色失败", zap.Error(err))
		return nil, err
	}

	if req.Role == model.RoleStudent {
		if err := s.ensureStudentProfile(ctx, account); err != nil {
			return nil, err
		}
	}

	s.logger.Info("角色指派成功",
		zap.String("email", account.Email), zap.String("role", account.Role))
	return toAccountResponse(account), nil
}

// ensureStudentProfile 账号无学生档案时补建一条
func (s *accountService) ensureStudentProfile(ctx context.Context, account *model.Account) error {
	_, err := s.repo.Student.GetByAccountID(ctx, account.AccountID)
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	student := &model.Student{
		AccountID: account.AccountID,
		Name:      account.Username,
		Email:     account.Email,
	}
	if err := s.repo.Student.Create(ctx, student); err != nil {
		s.logger.Error("补建学生档案失败", zap.Error(err))
		return err
	}

	// 学生表有写入，整体失效学生列表缓存
	s.cache.InvalidateResource(ctx, string(authz.ResourceStudent))
	return nil
}
