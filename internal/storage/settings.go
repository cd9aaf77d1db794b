package storage

import (
	"fmt"
	"strconv"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"pdfSentinel/internal/model"
)

const (
	keyQuarantineThreshold = "scan.quarantine_threshold"
	keySimulateReputation  = "scan.simulate_reputation"
)

// SettingsStore ScanConfiguration 的键值持久化
type SettingsStore struct {
	db *gorm.DB
}

// NewSettingsStore 初始化
func NewSettingsStore(db *gorm.DB) (*SettingsStore, error) {
	if err := db.AutoMigrate(&SettingRecord{}); err != nil {
		return nil, fmt.Errorf("migrate settings failed: %w", err)
	}
	return &SettingsStore{db: db}, nil
}

// Load 读取持久化的配置
// 未保存过的字段保留 fallback 中的值；found 表示至少存在一个字段
func (s *SettingsStore) Load(fallback model.ScanConfiguration) (cfg model.ScanConfiguration, found bool, err error) {
	cfg = fallback

	var records []SettingRecord
	if err := s.db.Where("name IN ?", []string{keyQuarantineThreshold, keySimulateReputation}).
		Find(&records).Error; err != nil {
		return fallback, false, fmt.Errorf("read settings failed: %w", err)
	}

	for _, rec := range records {
		switch rec.Key {
		case keyQuarantineThreshold:
			v, err := strconv.Atoi(rec.Value)
			if err != nil {
				return fallback, false, fmt.Errorf("corrupt setting %s=%q: %w", rec.Key, rec.Value, err)
			}
			cfg.QuarantineThreshold = v
		case keySimulateReputation:
			v, err := strconv.ParseBool(rec.Value)
			if err != nil {
				return fallback, false, fmt.Errorf("corrupt setting %s=%q: %w", rec.Key, rec.Value, err)
			}
			cfg.SimulateReputationLookup = v
		}
		found = true
	}

	return cfg, found, nil
}

// Save 覆盖写入两个字段
func (s *SettingsStore) Save(cfg model.ScanConfiguration) error {
	records := []SettingRecord{
		{Key: keyQuarantineThreshold, Value: strconv.Itoa(cfg.QuarantineThreshold)},
		{Key: keySimulateReputation, Value: strconv.FormatBool(cfg.SimulateReputationLookup)},
	}
	return s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&records).Error
}
