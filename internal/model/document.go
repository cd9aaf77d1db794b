package model

// RawDocument 一次扫描的原始输入
// Data 在扫描期间只读，任何组件都不得修改
type RawDocument struct {
	Name         string // 文件名 (仅用于展示)
	Data         []byte // 原始字节
	DeclaredSize int64  // 声明大小
	DeclaredType string // 声明的媒体类型 (e.g., application/pdf)
}

// Size 实际字节数
func (d RawDocument) Size() int64 {
	return int64(len(d.Data))
}

// Fingerprint 内容摘要 (小写十六进制)
type Fingerprint string

func (f Fingerprint) String() string { return string(f) }

// Short 前 12 位，用于日志
func (f Fingerprint) Short() string {
	if len(f) > 12 {
		return string(f[:12])
	}
	return string(f)
}

// ScanConfiguration 扫描时读取的用户配置快照
// 扫描过程中不会被修改，可在并发扫描间共享
type ScanConfiguration struct {
	QuarantineThreshold      int  `json:"quarantine_threshold"`
	SimulateReputationLookup bool `json:"simulate_reputation_lookup"`
}
