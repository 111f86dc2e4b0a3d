package repository

import (
	"errors"

	"gorm.io/gorm"
)

// 错误定义
var (
	ErrNotFound = errors.New("record not found")
)

// Repositories 仓库集合
type Repositories struct {
	User     *UserRepository
	Asset    *AssetRepository
	Template *TemplateRepository
	Plan     *PlanRepository
	Task     *TaskRepository
	Record   *RecordRepository
}

// NewRepositories 创建仓库集合
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		User:     NewUserRepository(db),
		Asset:    NewAssetRepository(db),
		Template: NewTemplateRepository(db),
		Plan:     NewPlanRepository(db),
		Task:     NewTaskRepository(db),
		Record:   NewRecordRepository(db),
	}
}

// wrapNotFound 将 gorm 的未找到错误转换为仓库层错误
func wrapNotFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}
