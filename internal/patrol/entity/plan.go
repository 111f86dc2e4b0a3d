package entity

import "time"

// 巡检频率
const (
	FrequencyDaily   = "daily"
	FrequencyWeekly  = "weekly"
	FrequencyMonthly = "monthly"
)

// IsValidFrequency 判断频率是否合法
func IsValidFrequency(f string) bool {
	switch f {
	case FrequencyDaily, FrequencyWeekly, FrequencyMonthly:
		return true
	}
	return false
}

// Plan 巡检计划：针对某资产、按频率产生巡检任务的定义
type Plan struct {
	ID           string     `json:"id" gorm:"primaryKey;size:36"`
	AssetID      string     `json:"asset_id" gorm:"size:36;not null;index"`
	TemplateID   *string    `json:"template_id" gorm:"size:36"`
	Frequency    string     `json:"frequency" gorm:"size:20;not null;default:'daily'"` // daily/weekly/monthly
	AssignedUser string     `json:"assigned_user" gorm:"size:100"`
	StartDate    time.Time  `json:"start_date" gorm:"type:date;not null"`
	EndDate      *time.Time `json:"end_date" gorm:"type:date"`
	Description  string     `json:"description" gorm:"type:text"`
	IsActive     bool       `json:"is_active" gorm:"index"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`

	// 关联
	Asset *Asset     `json:"asset,omitempty" gorm:"foreignKey:AssetID"`
	Items []PlanItem `json:"items,omitempty" gorm:"foreignKey:PlanID"`
}

func (Plan) TableName() string {
	return "plans"
}

// PlanItem 计划检查项
type PlanItem struct {
	ID        string     `json:"id" gorm:"primaryKey;size:36"`
	PlanID    string     `json:"plan_id" gorm:"size:36;not null;index"`
	Name      string     `json:"name" gorm:"size:200;not null"`
	ItemType  string     `json:"item_type" gorm:"size:20;not null;default:'pass_fail'"`
	Options   StringList `json:"options" gorm:"type:jsonb"`
	X         *float64   `json:"x"`
	Y         *float64   `json:"y"`
	SortOrder int        `json:"sort_order" gorm:"default:0"`
	CreatedAt time.Time  `json:"created_at"`
}

func (PlanItem) TableName() string {
	return "plan_items"
}
