package entity

import "time"

// Template 巡检模板（可复用的检查项集合，附可选参考图）
type Template struct {
	ID        string    `json:"id" gorm:"primaryKey;size:36"`
	Name      string    `json:"name" gorm:"size:200;not null"`
	ImageURL  string    `json:"image_url" gorm:"size:500"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// 关联
	Items []TemplateItem `json:"items,omitempty" gorm:"foreignKey:TemplateID"`
}

func (Template) TableName() string {
	return "templates"
}

// TemplateItem 模板检查项
type TemplateItem struct {
	ID         string     `json:"id" gorm:"primaryKey;size:36"`
	TemplateID string     `json:"template_id" gorm:"size:36;not null;index"`
	Name       string     `json:"name" gorm:"size:200;not null"`
	ItemType   string     `json:"item_type" gorm:"size:20;not null;default:'pass_fail'"` // pass_fail/number/select/text
	Options    StringList `json:"options" gorm:"type:jsonb"`
	X          *float64   `json:"x"` // 标注点横坐标百分比 [0,100]
	Y          *float64   `json:"y"`
	SortOrder  int        `json:"sort_order" gorm:"default:0"`
	CreatedAt  time.Time  `json:"created_at"`
}

func (TemplateItem) TableName() string {
	return "template_items"
}
