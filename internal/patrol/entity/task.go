package entity

import "time"

// 任务状态
const (
	TaskStatusPending   = "pending"
	TaskStatusCompleted = "completed"
)

// Task 巡检任务实例：由计划激活、排程器或管理员直接创建
type Task struct {
	ID           string    `json:"id" gorm:"primaryKey;size:36"`
	PlanID       *string   `json:"plan_id" gorm:"size:36;index"`
	AssetID      string    `json:"asset_id" gorm:"size:36;not null;index"`
	AssignedUser string    `json:"assigned_user" gorm:"size:100"`
	AssignedDate time.Time `json:"assigned_date" gorm:"type:date;not null;index"`
	Frequency    string    `json:"frequency" gorm:"size:20"`
	Description  string    `json:"description" gorm:"type:text"`
	Status       string    `json:"status" gorm:"size:20;not null;default:'pending';index"` // pending/completed
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`

	// 关联
	Asset *Asset     `json:"asset,omitempty" gorm:"foreignKey:AssetID"`
	Items []TaskItem `json:"items,omitempty" gorm:"foreignKey:TaskID"`
}

func (Task) TableName() string {
	return "tasks"
}

// TaskItem 任务检查项：创建时从计划/模板拷贝，执行时只写 result 和 notes
type TaskItem struct {
	ID        string     `json:"id" gorm:"primaryKey;size:36"`
	TaskID    string     `json:"task_id" gorm:"size:36;not null;index"`
	Name      string     `json:"name" gorm:"size:200;not null"`
	ItemType  string     `json:"item_type" gorm:"size:20;not null;default:'pass_fail'"`
	Options   StringList `json:"options" gorm:"type:jsonb"`
	X         *float64   `json:"x"`
	Y         *float64   `json:"y"`
	SortOrder int        `json:"sort_order" gorm:"default:0"`
	Result    *string    `json:"result" gorm:"size:200"` // 未执行时为 null
	Notes     string     `json:"notes" gorm:"type:text"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

func (TaskItem) TableName() string {
	return "task_items"
}
