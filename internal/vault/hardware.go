package vault

import (
	"fmt"
	"net"
	"strings"

	"github.com/shirou/gopsutil/v3/host"
)

// hostFingerprint 组合 "HostID + MAC" 作为密钥派生的原料
func hostFingerprint() (string, error) {
	// 1. HostID
	// gopsutil 屏蔽了平台差异 (/etc/machine-id、IOPlatformUUID 等)
	info, err := host.Info()
	if err != nil {
		return "", fmt.Errorf("failed to get host info: %w", err)
	}
	hostID := strings.TrimSpace(info.HostID)
	if hostID == "" {
		return "", fmt.Errorf("host id is empty")
	}

	// 2. 主网卡 MAC，取不到时降级为全零
	mac, err := primaryMAC()
	if err != nil {
		mac = "00:00:00:00:00:00"
	}

	return hostID + "|" + mac, nil
}

// primaryMAC 第一个非回环、已启用网卡的 MAC
func primaryMAC() (string, error) {
	interfaces, err := net.Interfaces()
	if err != nil {
		return "", err
	}
	for _, iface := range interfaces {
		if iface.Flags&net.FlagLoopback != 0 || iface.Flags&net.FlagUp == 0 {
			continue
		}
		if mac := iface.HardwareAddr.String(); mac != "" {
			return mac, nil
		}
	}
	return "", fmt.Errorf("no valid mac address found")
}
