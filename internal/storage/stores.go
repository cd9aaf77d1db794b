package storage

import (
	"gorm.io/gorm"

	"pdfSentinel/internal/model"
	"pdfSentinel/internal/vault"
)

// ArchiveTable 评估归档表名
const ArchiveTable = "archive_assessments"

// Stores 存储实例集合
// HybridStore 与 SettingsStore 内部均已并发安全
type Stores struct {
	// 评估归档 (不含脚本片段)
	Archive *HybridStore[model.ArchivedAssessment]
	// 用户可调的扫描参数
	Settings *SettingsStore
}

// StoresOptions 存储实例配置选项
type StoresOptions struct {
	ArchiveMemoryLimit int // 归档内存存储上限
}

// NewStores 初始化所有存储实例
// db 必须提前初始化
func NewStores(db *gorm.DB, cipher vault.Cipher, opts StoresOptions) (*Stores, error) {
	archive, err := NewHybridStore[model.ArchivedAssessment](db, cipher, opts.ArchiveMemoryLimit, ArchiveTable)
	if err != nil {
		return nil, err
	}

	settings, err := NewSettingsStore(db)
	if err != nil {
		return nil, err
	}

	return &Stores{Archive: archive, Settings: settings}, nil
}

// FlushAll 退出前将内存数据刷到磁盘
func (s *Stores) FlushAll() error {
	if s == nil {
		return nil
	}
	return s.Archive.FlushMemoryToDisk()
}
