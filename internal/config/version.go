package config

import (
	"fmt"
	"runtime"
)

// 编译时通过 -ldflags "-X pdfSentinel/internal/config.Version=..." 注入
var (
	Version   = "0.0.0-dev"
	CommitID  = "HEAD"
	BuildTime = "Unknown"
)

// UserAgent 访问外部服务时使用
func UserAgent() string {
	v := Version
	if len(v) > 32 {
		v = v[:32]
	}
	return "pdfSentinel/" + v
}

// FullVersionInfo version 命令输出
func FullVersionInfo() string {
	return fmt.Sprintf("pdfSentinel %s\n  commit: %s\n  built:  %s\n  go:     %s %s/%s",
		Version, CommitID, BuildTime, runtime.Version(), runtime.GOOS, runtime.GOARCH)
}
