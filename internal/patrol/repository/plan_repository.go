package repository

import (
	"context"

	"github.com/fieldray/patrol/internal/patrol/entity"
	"gorm.io/gorm"
)

// PlanRepository 巡检计划仓库
type PlanRepository struct {
	db *gorm.DB
}

// NewPlanRepository 创建巡检计划仓库
func NewPlanRepository(db *gorm.DB) *PlanRepository {
	return &PlanRepository{db: db}
}

// List 获取计划列表（含资产），按创建时间倒序
func (r *PlanRepository) List(ctx context.Context) ([]entity.Plan, error) {
	var plans []entity.Plan
	err := r.db.WithContext(ctx).
		Preload("Asset").
		Order("created_at desc").
		Find(&plans).Error
	return plans, err
}

// ListActive 获取启用中的计划（排程器扫描用）
func (r *PlanRepository) ListActive(ctx context.Context) ([]entity.Plan, error) {
	var plans []entity.Plan
	err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Find(&plans).Error
	return plans, err
}

// FindByID 按ID查找计划（含检查项，按顺序）
func (r *PlanRepository) FindByID(ctx context.Context, id string) (*entity.Plan, error) {
	var plan entity.Plan
	err := r.db.WithContext(ctx).
		Preload("Asset").
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("sort_order asc, id asc")
		}).
		First(&plan, "id = ?", id).Error
	if err != nil {
		return nil, wrapNotFound(err)
	}
	return &plan, nil
}

// ListItems 获取计划检查项，按顺序
func (r *PlanRepository) ListItems(ctx context.Context, planID string) ([]entity.PlanItem, error) {
	var items []entity.PlanItem
	err := r.db.WithContext(ctx).
		Where("plan_id = ?", planID).
		Order("sort_order asc, id asc").
		Find(&items).Error
	return items, err
}

// Create 创建计划
func (r *PlanRepository) Create(ctx context.Context, plan *entity.Plan) error {
	return r.db.WithContext(ctx).Create(plan).Error
}

// Update 更新计划
func (r *PlanRepository) Update(ctx context.Context, plan *entity.Plan) error {
	return r.db.WithContext(ctx).Save(plan).Error
}

// ReplaceItems 整体替换计划检查项：同一事务内先删后插
func (r *PlanRepository) ReplaceItems(ctx context.Context, planID string, items []entity.PlanItem) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("plan_id = ?", planID).Delete(&entity.PlanItem{}).Error; err != nil {
			return err
		}
		if len(items) == 0 {
			return nil
		}
		return tx.Create(&items).Error
	})
}

// Delete 删除计划及其检查项（同一事务）。已生成的任务不受影响。
func (r *PlanRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("plan_id = ?", id).Delete(&entity.PlanItem{}).Error; err != nil {
			return err
		}
		return tx.Delete(&entity.Plan{}, "id = ?", id).Error
	})
}
