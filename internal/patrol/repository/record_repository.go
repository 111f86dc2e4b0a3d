package repository

import (
	"context"

	"github.com/fieldray/patrol/internal/patrol/entity"
	"gorm.io/gorm"
)

// RecordRepository 巡检记录仓库。记录只增不改不删。
type RecordRepository struct {
	db *gorm.DB
}

// NewRecordRepository 创建巡检记录仓库
func NewRecordRepository(db *gorm.DB) *RecordRepository {
	return &RecordRepository{db: db}
}

// List 获取巡检记录（含任务和资产），按提交时间倒序
func (r *RecordRepository) List(ctx context.Context) ([]entity.Record, error) {
	var records []entity.Record
	err := r.db.WithContext(ctx).
		Preload("Task").
		Preload("Task.Asset").
		Order("submitted_at desc").
		Find(&records).Error
	return records, err
}

// FindByID 按ID查找记录（含任务和资产）
func (r *RecordRepository) FindByID(ctx context.Context, id string) (*entity.Record, error) {
	var record entity.Record
	err := r.db.WithContext(ctx).
		Preload("Task").
		Preload("Task.Asset").
		First(&record, "id = ?", id).Error
	if err != nil {
		return nil, wrapNotFound(err)
	}
	return &record, nil
}

// FindByTaskID 按任务ID查找记录
func (r *RecordRepository) FindByTaskID(ctx context.Context, taskID string) (*entity.Record, error) {
	var record entity.Record
	if err := r.db.WithContext(ctx).First(&record, "task_id = ?", taskID).Error; err != nil {
		return nil, wrapNotFound(err)
	}
	return &record, nil
}

// Create 创建巡检记录
func (r *RecordRepository) Create(ctx context.Context, record *entity.Record) error {
	return r.db.WithContext(ctx).Create(record).Error
}
