package entity

import "time"

// 用户角色
const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// 界面主题
const (
	ThemeLight = "light"
	ThemeDark  = "dark"
)

// User 系统用户（管理员或巡检员）
type User struct {
	ID           string    `json:"id" gorm:"primaryKey;size:36"`
	Email        string    `json:"email" gorm:"uniqueIndex;size:200;not null"`
	PasswordHash string    `json:"-" gorm:"size:100;not null"`
	FullName     string    `json:"full_name" gorm:"size:100"`
	Role         string    `json:"role" gorm:"size:20;not null;default:'user'"` // admin/user
	Theme        string    `json:"theme" gorm:"size:10;default:'light'"`        // light/dark
	Status       string    `json:"status" gorm:"size:20;default:'active'"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}

// IsAdmin 判断是否管理员
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
