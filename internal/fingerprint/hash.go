// Package fingerprint 计算输入内容的摘要
// SHA-256 作为信誉查询键，SM3 作为国密辅助摘要一并记录
package fingerprint

import (
	"crypto/sha256"
	"encoding/hex"
	"io"
	"os"

	"github.com/tjfoc/gmsm/sm3"

	"pdfSentinel/internal/model"
)

// Digests 一次计算得到的两种摘要
type Digests struct {
	SHA256 model.Fingerprint
	SM3    string
}

// Compute 对完整字节序列计算摘要
// 空输入也有确定的摘要 (零字节的哈希)
func Compute(data []byte) model.Fingerprint {
	sum := sha256.Sum256(data)
	return model.Fingerprint(hex.EncodeToString(sum[:]))
}

// ComputeAll 同时计算 SHA-256 与 SM3
func ComputeAll(data []byte) Digests {
	h := sm3.New()
	h.Write(data)
	return Digests{
		SHA256: Compute(data),
		SM3:    hex.EncodeToString(h.Sum(nil)),
	}
}

// ComputeFile 流式计算文件摘要，避免大文件占用过多内存
func ComputeFile(filePath string) (Digests, error) {
	f, err := os.Open(filePath)
	if err != nil {
		return Digests{}, err
	}
	defer f.Close()

	sh := sha256.New()
	sm := sm3.New()

	if _, err := io.Copy(io.MultiWriter(sh, sm), f); err != nil {
		return Digests{}, err
	}

	return Digests{
		SHA256: model.Fingerprint(hex.EncodeToString(sh.Sum(nil))),
		SM3:    hex.EncodeToString(sm.Sum(nil)),
	}, nil
}
