package service

import (
	"context"
	"fmt"

	"github.com/fieldray/patrol/internal/patrol/entity"
	"github.com/fieldray/patrol/internal/patrol/repository"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// ProfileService 用户档案服务
type ProfileService struct {
	repo *repository.UserRepository
}

// NewProfileService 创建用户档案服务
func NewProfileService(repo *repository.UserRepository) *ProfileService {
	return &ProfileService{repo: repo}
}

// CreateUserRequest 创建用户请求
type CreateUserRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
	FullName string `json:"full_name"`
	Role     string `json:"role"`
}

// List 获取用户列表（任务/计划指派下拉用）
func (s *ProfileService) List(ctx context.Context) ([]entity.User, error) {
	return s.repo.ListActive(ctx)
}

// Get 获取用户档案
func (s *ProfileService) Get(ctx context.Context, id string) (*entity.User, error) {
	return s.repo.FindByID(ctx, id)
}

// Create 创建用户
func (s *ProfileService) Create(ctx context.Context, req *CreateUserRequest) (*entity.User, error) {
	role := req.Role
	if role == "" {
		role = entity.RoleUser
	}
	if role != entity.RoleAdmin && role != entity.RoleUser {
		return nil, fmt.Errorf("不支持的角色: %s", role)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("生成密码哈希失败: %w", err)
	}

	user := &entity.User{
		ID:           uuid.New().String()[:32],
		Email:        req.Email,
		PasswordHash: string(hash),
		FullName:     req.FullName,
		Role:         role,
		Theme:        entity.ThemeLight,
		Status:       "active",
	}

	if err := s.repo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("创建用户失败: %w", err)
	}

	return user, nil
}

// UpdateTheme 更新当前用户的界面主题偏好
func (s *ProfileService) UpdateTheme(ctx context.Context, userID, theme string) (*entity.User, error) {
	if theme != entity.ThemeLight && theme != entity.ThemeDark {
		return nil, fmt.Errorf("不支持的主题: %s", theme)
	}

	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	user.Theme = theme
	if err := s.repo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("更新主题失败: %w", err)
	}

	return user, nil
}
