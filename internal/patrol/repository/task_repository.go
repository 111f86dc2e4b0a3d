package repository

import (
	"context"
	"time"

	"github.com/fieldray/patrol/internal/patrol/entity"
	"gorm.io/gorm"
)

// TaskRepository 巡检任务仓库
type TaskRepository struct {
	db *gorm.DB
}

// NewTaskRepository 创建巡检任务仓库
func NewTaskRepository(db *gorm.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

// TaskFilter 任务列表过滤条件
type TaskFilter struct {
	Status       string
	AssetID      string
	AssignedUser string
}

// List 获取任务列表（含资产），按指派日期倒序
func (r *TaskRepository) List(ctx context.Context, filter TaskFilter) ([]entity.Task, error) {
	query := r.db.WithContext(ctx).Preload("Asset")
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.AssetID != "" {
		query = query.Where("asset_id = ?", filter.AssetID)
	}
	if filter.AssignedUser != "" {
		query = query.Where("assigned_user = ?", filter.AssignedUser)
	}

	var tasks []entity.Task
	err := query.Order("assigned_date desc, created_at desc").Find(&tasks).Error
	return tasks, err
}

// ListPending 获取待执行任务（含资产），按指派日期正序
func (r *TaskRepository) ListPending(ctx context.Context) ([]entity.Task, error) {
	var tasks []entity.Task
	err := r.db.WithContext(ctx).
		Preload("Asset").
		Where("status = ?", entity.TaskStatusPending).
		Order("assigned_date asc, created_at asc").
		Find(&tasks).Error
	return tasks, err
}

// FindByID 按ID查找任务（含资产和检查项，检查项按顺序）
func (r *TaskRepository) FindByID(ctx context.Context, id string) (*entity.Task, error) {
	var task entity.Task
	err := r.db.WithContext(ctx).
		Preload("Asset").
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("sort_order asc, id asc")
		}).
		First(&task, "id = ?", id).Error
	if err != nil {
		return nil, wrapNotFound(err)
	}
	return &task, nil
}

// ExistsForPlanOnDate 判断计划在指定日期是否已有任务（排程幂等用）
func (r *TaskRepository) ExistsForPlanOnDate(ctx context.Context, planID string, date time.Time) (bool, error) {
	dayStart := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	dayEnd := dayStart.AddDate(0, 0, 1)

	var count int64
	err := r.db.WithContext(ctx).
		Model(&entity.Task{}).
		Where("plan_id = ? AND assigned_date >= ? AND assigned_date < ?", planID, dayStart, dayEnd).
		Count(&count).Error
	return count > 0, err
}

// CreateWithItems 创建任务及其检查项（同一事务）
func (r *TaskRepository) CreateWithItems(ctx context.Context, task *entity.Task, items []entity.TaskItem) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(task).Error; err != nil {
			return err
		}
		if len(items) == 0 {
			return nil
		}
		return tx.Create(&items).Error
	})
}

// Update 更新任务
func (r *TaskRepository) Update(ctx context.Context, task *entity.Task) error {
	return r.db.WithContext(ctx).Save(task).Error
}

// ReplaceItems 整体替换任务检查项：同一事务内先删后插
func (r *TaskRepository) ReplaceItems(ctx context.Context, taskID string, items []entity.TaskItem) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("task_id = ?", taskID).Delete(&entity.TaskItem{}).Error; err != nil {
			return err
		}
		if len(items) == 0 {
			return nil
		}
		return tx.Create(&items).Error
	})
}

// Delete 删除任务及其检查项（同一事务）
func (r *TaskRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("task_id = ?", id).Delete(&entity.TaskItem{}).Error; err != nil {
			return err
		}
		return tx.Delete(&entity.Task{}, "id = ?", id).Error
	})
}

// Complete 提交任务：同一事务内写入各项结果、生成巡检记录、翻转任务状态
func (r *TaskRepository) Complete(ctx context.Context, task *entity.Task, items []entity.TaskItem, record *entity.Record) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i := range items {
			err := tx.Model(&entity.TaskItem{}).
				Where("id = ?", items[i].ID).
				Updates(map[string]interface{}{
					"result": items[i].Result,
					"notes":  items[i].Notes,
				}).Error
			if err != nil {
				return err
			}
		}
		if err := tx.Create(record).Error; err != nil {
			return err
		}
		return tx.Model(&entity.Task{}).
			Where("id = ?", task.ID).
			Update("status", entity.TaskStatusCompleted).Error
	})
}
