package storage

import (
	"encoding/json"
	"fmt"
	"sync"

	"gorm.io/gorm"

	"pdfSentinel/internal/logger"
	"pdfSentinel/internal/vault"
)

// HybridStore 混合存储引擎
// 内存未满时只存内存，满了以后加密写入 SQLite
type HybridStore[T any] struct {
	db        *gorm.DB
	cipher    vault.Cipher
	tableName string

	memStore []T
	memLimit int
	mu       sync.RWMutex
}

// NewHybridStore 初始化
// tableName 必须指定，不同业务类型各占一张表
func NewHybridStore[T any](db *gorm.DB, cipher vault.Cipher, limit int, tableName string) (*HybridStore[T], error) {
	if limit < 0 {
		limit = 0
	}
	if err := ensureTable(db, tableName); err != nil {
		return nil, err
	}

	return &HybridStore[T]{
		db:        db,
		cipher:    cipher,
		tableName: tableName,
		memStore:  make([]T, 0, limit),
		memLimit:  limit,
	}, nil
}

// Push 写入数据
func (s *HybridStore[T]) Push(item T) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	// 1. 内存未满，直接存
	if len(s.memStore) < s.memLimit {
		s.memStore = append(s.memStore, item)
		return nil
	}

	// 2. 内存已满，溢出落盘
	return s.persistToDisk([]T{item})
}

// PopAll 取出并清空
// 顺序: 先磁盘 (更早溢出的) 再内存
func (s *HybridStore[T]) PopAll() ([]T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var result []T

	// 1. 磁盘数据
	var records []DiskRecord
	if err := s.db.Table(s.tableName).Order("id").Find(&records).Error; err != nil {
		return nil, fmt.Errorf("read disk failed: %w", err)
	}

	for _, rec := range records {
		item, err := s.decode(rec.Data)
		if err != nil {
			// 解密失败的数据 (换机或篡改) 记录后跳过
			logger.Error("Storage decrypt error", "table", s.tableName, "id", rec.ID, "error", err)
			continue
		}
		result = append(result, *item)
	}

	if len(records) > 0 {
		if err := s.db.Table(s.tableName).Where("1 = 1").Delete(&DiskRecord{}).Error; err != nil {
			return nil, fmt.Errorf("clean disk failed: %w", err)
		}
	}

	// 2. 内存数据
	if len(s.memStore) > 0 {
		result = append(result, s.memStore...)
		s.memStore = make([]T, 0, s.memLimit)
	}

	return result, nil
}

// FlushMemoryToDisk 强制刷盘 (程序退出时用)
func (s *HybridStore[T]) FlushMemoryToDisk() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.memStore) == 0 {
		return nil
	}

	if err := s.persistToDisk(s.memStore); err != nil {
		return err
	}

	flushed := len(s.memStore)
	s.memStore = make([]T, 0, s.memLimit)
	logger.Info("Storage flushed items to disk", "count", flushed, "table", s.tableName)
	return nil
}

// Len 内存与磁盘中的条目总数
func (s *HybridStore[T]) Len() (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var n int64
	if err := s.db.Table(s.tableName).Count(&n).Error; err != nil {
		return 0, err
	}
	return len(s.memStore) + int(n), nil
}

// ==========================================
// 内部私有辅助函数
// ==========================================

func ensureTable(db *gorm.DB, tableName string) error {
	if db.Migrator().HasTable(tableName) {
		return nil
	}
	if err := db.Table(tableName).AutoMigrate(&DiskRecord{}); err != nil {
		logger.Error("Failed to create table", "table", tableName, "error", err)
		return err
	}
	logger.Debug("Created table", "table", tableName)
	return nil
}

// persistToDisk 序列化、加密后批量写入
func (s *HybridStore[T]) persistToDisk(items []T) error {
	records := make([]DiskRecord, 0, len(items))

	for _, item := range items {
		raw, err := json.Marshal(item)
		if err != nil {
			return fmt.Errorf("json marshal failed: %w", err)
		}
		sealed, err := s.cipher.Seal(raw)
		if err != nil {
			return fmt.Errorf("encrypt failed: %w", err)
		}
		records = append(records, DiskRecord{Data: sealed})
	}

	if err := ensureTable(s.db, s.tableName); err != nil {
		return fmt.Errorf("create table failed: %w", err)
	}

	return s.db.Table(s.tableName).CreateInBatches(records, 100).Error
}

func (s *HybridStore[T]) decode(blob []byte) (*T, error) {
	raw, err := s.cipher.Open(blob)
	if err != nil {
		return nil, err
	}
	var item T
	if err := json.Unmarshal(raw, &item); err != nil {
		return nil, err
	}
	return &item, nil
}
