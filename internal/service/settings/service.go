// Package settings 持有当前生效的 ScanConfiguration
// 启动时从存储加载一次，修改时先校验再持久化，最后替换内存快照
package settings

import (
	"sync"

	"pdfSentinel/internal/config"
	serrors "pdfSentinel/internal/errors"
	"pdfSentinel/internal/logger"
	"pdfSentinel/internal/model"
)

// Persister 键值持久化能力
type Persister interface {
	Load(fallback model.ScanConfiguration) (model.ScanConfiguration, bool, error)
	Save(cfg model.ScanConfiguration) error
}

// Service 配置持有者，并发安全
type Service struct {
	mu      sync.RWMutex
	current model.ScanConfiguration
	store   Persister
}

// NewService 以 fallback 为底，叠加已持久化的值
// store 为 nil 时只在内存中生效
func NewService(store Persister, fallback model.ScanConfiguration) (*Service, error) {
	s := &Service{current: fallback, store: store}
	if store == nil {
		return s, nil
	}

	loaded, found, err := store.Load(fallback)
	if err != nil {
		return nil, serrors.ConfigError("failed to load persisted settings", err)
	}
	if found {
		// 被手工改坏的值不生效
		if err := config.ValidateThreshold(loaded.QuarantineThreshold); err != nil {
			logger.Warn("persisted threshold ignored", "value", loaded.QuarantineThreshold)
			loaded.QuarantineThreshold = fallback.QuarantineThreshold
		}
		s.current = loaded
	}
	return s, nil
}

// FromAppConfig 文件配置中的默认值
func FromAppConfig(cfg *config.AppConfig) model.ScanConfiguration {
	return model.ScanConfiguration{
		QuarantineThreshold:      cfg.Scan.QuarantineThreshold,
		SimulateReputationLookup: cfg.Scan.SimulateReputation,
	}
}

// Get 当前快照 (值拷贝)
func (s *Service) Get() model.ScanConfiguration {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Update 校验、持久化、替换
// 持久化失败时内存中的值保持不变
func (s *Service) Update(cfg model.ScanConfiguration) error {
	if err := config.ValidateThreshold(cfg.QuarantineThreshold); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.store != nil {
		if err := s.store.Save(cfg); err != nil {
			return serrors.New(serrors.ErrConfigPersist, "failed to persist settings").WithCause(err)
		}
	}

	logger.Info("scan configuration updated",
		"threshold", cfg.QuarantineThreshold,
		"simulate_reputation", cfg.SimulateReputationLookup,
	)
	s.current = cfg
	return nil
}
