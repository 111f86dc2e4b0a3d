package entity

import "time"

// 资产类型
const (
	AssetTypeField  = "field"  // 场域
	AssetTypeDevice = "device" // 设备
)

// Asset 巡检资产（场域或设备）
type Asset struct {
	ID        string    `json:"id" gorm:"primaryKey;size:36"`
	Name      string    `json:"name" gorm:"size:200;not null"`
	Type      string    `json:"type" gorm:"size:20;not null;default:'field'"` // field/device
	Location  string    `json:"location" gorm:"size:200"`
	ImageURL  string    `json:"image_url" gorm:"size:500"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Asset) TableName() string {
	return "assets"
}

// IsValidAssetType 判断资产类型是否合法
func IsValidAssetType(t string) bool {
	return t == AssetTypeField || t == AssetTypeDevice
}
