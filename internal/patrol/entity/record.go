package entity

import "time"

// Record 巡检记录：任务完成时写入一次，之后不可修改或删除
type Record struct {
	ID          string    `json:"id" gorm:"primaryKey;size:36"`
	TaskID      string    `json:"task_id" gorm:"size:36;not null;index"`
	Result      string    `json:"result" gorm:"size:20;not null"` // pass/fail
	Notes       string    `json:"notes" gorm:"type:text"`
	SubmittedAt time.Time `json:"submitted_at" gorm:"not null;index"`
	CreatedAt   time.Time `json:"created_at"`

	// 关联
	Task *Task `json:"task,omitempty" gorm:"foreignKey:TaskID"`
}

func (Record) TableName() string {
	return "records"
}
