package vault

import (
	"fmt"
	"sync"

	"github.com/tjfoc/gmsm/sm3"
	"golang.org/x/crypto/pbkdf2"
)

const (
	// KeyLen SM4 密钥长度 (16 字节)
	KeyLen = 16
	// Iterations PBKDF2 迭代次数
	Iterations = 4096

	applicationSalt = "pdfSentinel|archive|sm4"
)

// KeyProvider 密钥来源
type KeyProvider interface {
	Key() ([]byte, error)
}

// DeriveKey PBKDF2-HMAC-SM3
func DeriveKey(secret string) []byte {
	return pbkdf2.Key([]byte(secret), []byte(applicationSalt), Iterations, KeyLen, sm3.New)
}

// HostKey 与本机绑定的密钥，首次使用时派生并常驻内存
// 换机器后旧的归档数据无法解密
type HostKey struct {
	once sync.Once
	key  []byte
	err  error
}

// Key 返回密钥副本
func (h *HostKey) Key() ([]byte, error) {
	h.once.Do(func() {
		fp, err := hostFingerprint()
		if err != nil {
			h.err = fmt.Errorf("vault key init error: %w", err)
			return
		}
		h.key = DeriveKey(fp)
	})
	if h.err != nil {
		return nil, h.err
	}
	out := make([]byte, len(h.key))
	copy(out, h.key)
	return out, nil
}

// StaticKey 由固定口令派生，用于测试或显式配置
type StaticKey []byte

// NewStaticKey 从口令派生
func NewStaticKey(passphrase string) StaticKey {
	return StaticKey(DeriveKey(passphrase))
}

func (k StaticKey) Key() ([]byte, error) {
	if len(k) != KeyLen {
		return nil, fmt.Errorf("invalid key length %d", len(k))
	}
	out := make([]byte, len(k))
	copy(out, k)
	return out, nil
}
