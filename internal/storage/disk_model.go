package storage

// DiskRecord 溢出落盘的物理行
// 无论业务数据长什么样，在磁盘上都只是加密后的二进制块
type DiskRecord struct {
	ID        uint   `gorm:"primaryKey;autoIncrement"`
	Data      []byte `gorm:"type:blob"`      // SM4(JSON(item))
	CreatedAt int64  `gorm:"autoCreateTime"`
}

// SettingRecord 用户可调参数，键值对形式持久化
type SettingRecord struct {
	Key       string `gorm:"column:name;primaryKey;size:128"`
	Value     string `gorm:"type:text"`
	UpdatedAt int64  `gorm:"autoUpdateTime"`
}

func (SettingRecord) TableName() string { return "settings" }
