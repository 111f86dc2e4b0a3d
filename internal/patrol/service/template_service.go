package service

import (
	"context"
	"fmt"

	"github.com/fieldray/patrol/internal/patrol/entity"
	"github.com/fieldray/patrol/internal/patrol/repository"
	"github.com/google/uuid"
)

// TemplateService 模板服务
type TemplateService struct {
	repo *repository.TemplateRepository
}

// NewTemplateService 创建模板服务
func NewTemplateService(repo *repository.TemplateRepository) *TemplateService {
	return &TemplateService{repo: repo}
}

// CheckItemInput 检查项输入（模板/计划/任务共用）
type CheckItemInput struct {
	Name     string            `json:"name" binding:"required"`
	ItemType string            `json:"item_type"`
	Options  entity.StringList `json:"options"`
	X        *float64          `json:"x"`
	Y        *float64          `json:"y"`
}

// validateItemInputs 校验检查项输入：类型合法、标注点坐标成对且在百分比范围内
func validateItemInputs(items []CheckItemInput) error {
	for i := range items {
		if items[i].ItemType == "" {
			items[i].ItemType = entity.ItemTypePassFail
		}
		if !entity.IsValidItemType(items[i].ItemType) {
			return fmt.Errorf("第 %d 项检查项类型不合法: %s", i+1, items[i].ItemType)
		}
		if err := entity.ValidatePin(items[i].X, items[i].Y); err != nil {
			return fmt.Errorf("第 %d 项: %w", i+1, err)
		}
	}
	return nil
}

// CreateTemplateRequest 创建模板请求
type CreateTemplateRequest struct {
	Name     string           `json:"name" binding:"required"`
	ImageURL string           `json:"image_url"`
	Items    []CheckItemInput `json:"items"`
}

// UpdateTemplateRequest 更新模板请求
type UpdateTemplateRequest struct {
	Name     *string          `json:"name"`
	ImageURL *string          `json:"image_url"`
	Items    []CheckItemInput `json:"items"`
}

// List 获取模板列表
func (s *TemplateService) List(ctx context.Context) ([]entity.Template, error) {
	return s.repo.List(ctx)
}

// Get 获取模板详情（含检查项）
func (s *TemplateService) Get(ctx context.Context, id string) (*entity.Template, error) {
	return s.repo.FindByID(ctx, id)
}

// ListItems 获取模板检查项
func (s *TemplateService) ListItems(ctx context.Context, id string) ([]entity.TemplateItem, error) {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return nil, err
	}
	return s.repo.ListItems(ctx, id)
}

// Create 创建模板及其检查项
func (s *TemplateService) Create(ctx context.Context, req *CreateTemplateRequest) (*entity.Template, error) {
	if err := validateItemInputs(req.Items); err != nil {
		return nil, err
	}

	template := &entity.Template{
		ID:       uuid.New().String()[:32],
		Name:     req.Name,
		ImageURL: req.ImageURL,
	}

	if err := s.repo.Create(ctx, template); err != nil {
		return nil, fmt.Errorf("创建模板失败: %w", err)
	}

	if len(req.Items) > 0 {
		if err := s.SaveItems(ctx, template.ID, req.Items); err != nil {
			return nil, err
		}
	}

	return s.repo.FindByID(ctx, template.ID)
}

// Update 更新模板。请求携带 items 时整体替换检查项。
func (s *TemplateService) Update(ctx context.Context, id string, req *UpdateTemplateRequest) (*entity.Template, error) {
	template, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		template.Name = *req.Name
	}
	if req.ImageURL != nil {
		template.ImageURL = *req.ImageURL
	}
	template.Items = nil

	if err := s.repo.Update(ctx, template); err != nil {
		return nil, fmt.Errorf("更新模板失败: %w", err)
	}

	if req.Items != nil {
		if err := s.SaveItems(ctx, id, req.Items); err != nil {
			return nil, err
		}
	}

	return s.repo.FindByID(ctx, id)
}

// SaveItems 整体替换模板检查项：保存后持久化集合等于提交集合
func (s *TemplateService) SaveItems(ctx context.Context, templateID string, inputs []CheckItemInput) error {
	if err := validateItemInputs(inputs); err != nil {
		return err
	}

	items := make([]entity.TemplateItem, len(inputs))
	for i, in := range inputs {
		items[i] = entity.TemplateItem{
			ID:         uuid.New().String()[:32],
			TemplateID: templateID,
			Name:       in.Name,
			ItemType:   in.ItemType,
			Options:    in.Options,
			X:          in.X,
			Y:          in.Y,
			SortOrder:  i,
		}
	}

	if err := s.repo.ReplaceItems(ctx, templateID, items); err != nil {
		return fmt.Errorf("保存模板检查项失败: %w", err)
	}
	return nil
}

// Delete 删除模板及其检查项。已从该模板生成的计划和任务不受影响。
func (s *TemplateService) Delete(ctx context.Context, id string) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}
