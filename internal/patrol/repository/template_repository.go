package repository

import (
	"context"

	"github.com/fieldray/patrol/internal/patrol/entity"
	"gorm.io/gorm"
)

// TemplateRepository 模板仓库
type TemplateRepository struct {
	db *gorm.DB
}

// NewTemplateRepository 创建模板仓库
func NewTemplateRepository(db *gorm.DB) *TemplateRepository {
	return &TemplateRepository{db: db}
}

// List 获取模板列表，按名称排序
func (r *TemplateRepository) List(ctx context.Context) ([]entity.Template, error) {
	var templates []entity.Template
	err := r.db.WithContext(ctx).Order("name asc").Find(&templates).Error
	return templates, err
}

// FindByID 按ID查找模板（含检查项，按顺序）
func (r *TemplateRepository) FindByID(ctx context.Context, id string) (*entity.Template, error) {
	var template entity.Template
	err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("sort_order asc, id asc")
		}).
		First(&template, "id = ?", id).Error
	if err != nil {
		return nil, wrapNotFound(err)
	}
	return &template, nil
}

// ListItems 获取模板检查项，按顺序
func (r *TemplateRepository) ListItems(ctx context.Context, templateID string) ([]entity.TemplateItem, error) {
	var items []entity.TemplateItem
	err := r.db.WithContext(ctx).
		Where("template_id = ?", templateID).
		Order("sort_order asc, id asc").
		Find(&items).Error
	return items, err
}

// Create 创建模板
func (r *TemplateRepository) Create(ctx context.Context, template *entity.Template) error {
	return r.db.WithContext(ctx).Create(template).Error
}

// Update 更新模板
func (r *TemplateRepository) Update(ctx context.Context, template *entity.Template) error {
	return r.db.WithContext(ctx).Save(template).Error
}

// ReplaceItems 整体替换模板检查项：同一事务内先删后插
func (r *TemplateRepository) ReplaceItems(ctx context.Context, templateID string, items []entity.TemplateItem) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("template_id = ?", templateID).Delete(&entity.TemplateItem{}).Error; err != nil {
			return err
		}
		if len(items) == 0 {
			return nil
		}
		return tx.Create(&items).Error
	})
}

// Delete 删除模板及其检查项（同一事务）
func (r *TemplateRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("template_id = ?", id).Delete(&entity.TemplateItem{}).Error; err != nil {
			return err
		}
		return tx.Delete(&entity.Template{}, "id = ?", id).Error
	})
}
