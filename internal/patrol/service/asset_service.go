package service

import (
	"context"
	"fmt"

	"github.com/fieldray/patrol/internal/patrol/entity"
	"github.com/fieldray/patrol/internal/patrol/repository"
	"github.com/google/uuid"
)

// AssetService 资产服务
type AssetService struct {
	repo *repository.AssetRepository
}

// NewAssetService 创建资产服务
func NewAssetService(repo *repository.AssetRepository) *AssetService {
	return &AssetService{repo: repo}
}

// CreateAssetRequest 创建资产请求
type CreateAssetRequest struct {
	Name     string `json:"name" binding:"required"`
	Type     string `json:"type"`
	Location string `json:"location"`
	ImageURL string `json:"image_url"`
}

// UpdateAssetRequest 更新资产请求
type UpdateAssetRequest struct {
	Name     *string `json:"name"`
	Location *string `json:"location"`
	ImageURL *string `json:"image_url"`
}

// List 获取资产列表
func (s *AssetService) List(ctx context.Context) ([]entity.Asset, error) {
	return s.repo.List(ctx)
}

// Get 获取资产详情
func (s *AssetService) Get(ctx context.Context, id string) (*entity.Asset, error) {
	return s.repo.FindByID(ctx, id)
}

// Create 创建资产
func (s *AssetService) Create(ctx context.Context, req *CreateAssetRequest) (*entity.Asset, error) {
	assetType := req.Type
	if assetType == "" {
		assetType = entity.AssetTypeField
	}
	if !entity.IsValidAssetType(assetType) {
		return nil, fmt.Errorf("不支持的资产类型: %s", assetType)
	}

	asset := &entity.Asset{
		ID:       uuid.New().String()[:32],
		Name:     req.Name,
		Type:     assetType,
		Location: req.Location,
		ImageURL: req.ImageURL,
	}

	if err := s.repo.Create(ctx, asset); err != nil {
		return nil, fmt.Errorf("创建资产失败: %w", err)
	}

	return asset, nil
}

// Update 更新资产。资产类型创建后不可变更。
func (s *AssetService) Update(ctx context.Context, id string, req *UpdateAssetRequest) (*entity.Asset, error) {
	asset, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		asset.Name = *req.Name
	}
	if req.Location != nil {
		asset.Location = *req.Location
	}
	if req.ImageURL != nil {
		asset.ImageURL = *req.ImageURL
	}

	if err := s.repo.Update(ctx, asset); err != nil {
		return nil, fmt.Errorf("更新资产失败: %w", err)
	}

	return asset, nil
}

// Delete 删除资产
func (s *AssetService) Delete(ctx context.Context, id string) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}
