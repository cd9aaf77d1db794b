// Package vault 本地落盘数据的加解密 (SM4-CBC)
package vault

import (
	"bytes"
	"crypto/cipher"
	"crypto/rand"
	"errors"
	"fmt"
	"io"

	"github.com/tjfoc/gmsm/sm4"
)

// Cipher 对称加解密能力
type Cipher interface {
	Seal(plaintext []byte) ([]byte, error)
	Open(blob []byte) ([]byte, error)
}

// Vault SM4-CBC 实现
// 输出格式: [16字节随机IV] + [密文]
type Vault struct {
	keys KeyProvider
}

// New 创建实例
func New(keys KeyProvider) *Vault {
	return &Vault{keys: keys}
}

// Seal 加密
func (v *Vault) Seal(plaintext []byte) ([]byte, error) {
	block, err := v.block()
	if err != nil {
		return nil, err
	}

	padded := pkcs7Padding(plaintext, sm4.BlockSize)

	out := make([]byte, sm4.BlockSize+len(padded))
	iv := out[:sm4.BlockSize]
	if _, err := io.ReadFull(rand.Reader, iv); err != nil {
		return nil, fmt.Errorf("failed to generate iv: %w", err)
	}

	cipher.NewCBCEncrypter(block, iv).CryptBlocks(out[sm4.BlockSize:], padded)
	return out, nil
}

// Open 解密
func (v *Vault) Open(blob []byte) ([]byte, error) {
	if len(blob) < 2*sm4.BlockSize {
		return nil, errors.New("ciphertext too short")
	}
	body := blob[sm4.BlockSize:]
	if len(body)%sm4.BlockSize != 0 {
		return nil, errors.New("ciphertext is not a multiple of the block size")
	}

	block, err := v.block()
	if err != nil {
		return nil, err
	}

	plain := make([]byte, len(body))
	cipher.NewCBCDecrypter(block, blob[:sm4.BlockSize]).CryptBlocks(plain, body)

	out, err := pkcs7Unpadding(plain, sm4.BlockSize)
	if err != nil {
		return nil, fmt.Errorf("unpadding failed: %w", err)
	}
	return out, nil
}

func (v *Vault) block() (cipher.Block, error) {
	key, err := v.keys.Key()
	if err != nil {
		return nil, fmt.Errorf("failed to get key: %w", err)
	}
	block, err := sm4.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("invalid sm4 key: %w", err)
	}
	return block, nil
}

// ==========================================
// PKCS#7
// ==========================================

func pkcs7Padding(data []byte, blockSize int) []byte {
	padding := blockSize - len(data)%blockSize
	out := make([]byte, len(data), len(data)+padding)
	copy(out, data)
	return append(out, bytes.Repeat([]byte{byte(padding)}, padding)...)
}

func pkcs7Unpadding(data []byte, blockSize int) ([]byte, error) {
	n := len(data)
	if n == 0 {
		return nil, errors.New("input data empty")
	}
	padding := int(data[n-1])
	if padding == 0 || padding > blockSize || padding > n {
		return nil, errors.New("invalid padding")
	}
	for i := n - padding; i < n; i++ {
		if data[i] != byte(padding) {
			return nil, errors.New("invalid padding bytes")
		}
	}
	return data[:n-padding], nil
}
