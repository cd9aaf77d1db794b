// Package sanitizer 文档净化：逐页栅格化后重建为只含图像的新文档
package sanitizer

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"math"
	"time"

	"github.com/go-pdf/fpdf"
	"golang.org/x/image/draw"

	serrors "pdfSentinel/internal/errors"
	"pdfSentinel/internal/logger"
)

const (
	// DefaultScale 默认渲染倍率
	DefaultScale = 2.0
	// DefaultJPEGQuality 默认 JPEG 质量
	DefaultJPEGQuality = 85
)

// Config 组件配置
type Config struct {
	Scale       float64
	JPEGQuality int
}

// Sanitizer 净化器
type Sanitizer struct {
	config Config
	slots  *slotTable
}

// New 创建实例
func New(cfg Config) *Sanitizer {
	if cfg.Scale <= 0 {
		cfg.Scale = DefaultScale
	}
	if cfg.JPEGQuality < 1 || cfg.JPEGQuality > 100 {
		cfg.JPEGQuality = DefaultJPEGQuality
	}
	return &Sanitizer{config: cfg, slots: newSlotTable()}
}

// Sanitize 将 doc 重建为只含栅格图像的 PDF
// key 标识源文档 (通常为内容指纹)，相同 key 的任务串行执行
// 任何一页失败都会中止整个过程，不返回部分结果
func (s *Sanitizer) Sanitize(ctx context.Context, key string, doc Document, onProgress ProgressFunc) ([]byte, error) {
	start := time.Now()

	// 1. 独占源文档
	release, err := s.slots.acquire(ctx, key)
	if err != nil {
		return nil, serrors.RenderError(serrors.ErrRenderBusy, 0, err).WithOperation("acquire")
	}
	defer release()

	// 2. 页数
	total, err := doc.PageCount(ctx)
	if err != nil {
		return nil, serrors.RenderError(serrors.ErrRenderPageCount, 0, err).WithOperation("page_count")
	}
	if total <= 0 {
		return nil, serrors.RenderError(serrors.ErrRenderNoPages, 0, nil).WithOperation("page_count")
	}

	out := fpdf.New("P", "pt", "A4", "")
	out.SetMargins(0, 0, 0)
	out.SetAutoPageBreak(false, 0)
	out.SetCreator("pdfSentinel", true)

	// 3. 逐页渲染，严格顺序
	for page := 1; page <= total; page++ {
		if err := ctx.Err(); err != nil {
			return nil, serrors.RenderError(serrors.ErrRenderPage, page, err).WithOperation("render_page")
		}

		raster, err := doc.RenderPage(ctx, page, s.config.Scale)
		if err != nil {
			return nil, serrors.RenderError(serrors.ErrRenderPage, page, err).WithOperation("render_page")
		}
		if raster == nil || raster.Bounds().Empty() {
			return nil, serrors.RenderError(serrors.ErrRenderPage, page, fmt.Errorf("empty raster")).WithOperation("render_page")
		}

		if err := s.appendPage(out, page, raster); err != nil {
			return nil, err
		}

		if onProgress != nil {
			onProgress(Progress(page, total))
		}
	}

	// 4. 输出
	var buf bytes.Buffer
	if err := out.Output(&buf); err != nil {
		return nil, serrors.RenderError(serrors.ErrRenderAssemble, 0, err).WithOperation("assemble")
	}

	logger.Info("sanitize finished",
		"key", shortKey(key),
		"pages", total,
		"bytes", buf.Len(),
		"elapsed", time.Since(start).String(),
	)

	return buf.Bytes(), nil
}

// appendPage 白底合成、JPEG 编码，并以满幅图像追加一页
// 页面尺寸 = 像素 / 倍率 (pt)
func (s *Sanitizer) appendPage(out *fpdf.Fpdf, page int, raster image.Image) error {
	b := raster.Bounds()
	flat := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(flat, flat.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)
	draw.Draw(flat, flat.Bounds(), raster, b.Min, draw.Over)

	var jpg bytes.Buffer
	if err := jpeg.Encode(&jpg, flat, &jpeg.Options{Quality: s.config.JPEGQuality}); err != nil {
		return serrors.RenderError(serrors.ErrRenderEncode, page, err).WithOperation("encode")
	}

	w := float64(b.Dx()) / s.config.Scale
	h := float64(b.Dy()) / s.config.Scale
	name := fmt.Sprintf("page-%d", page)
	opts := fpdf.ImageOptions{ImageType: "JPG"}

	out.AddPageFormat("P", fpdf.SizeType{Wd: w, Ht: h})
	out.RegisterImageOptionsReader(name, opts, &jpg)
	out.ImageOptions(name, 0, 0, w, h, false, opts, 0, "")

	if err := out.Error(); err != nil {
		return serrors.RenderError(serrors.ErrRenderAssemble, page, err).WithOperation("assemble")
	}
	return nil
}

// Progress round(done / total × 100)
func Progress(done, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(float64(done) / float64(total) * 100))
}

func shortKey(key string) string {
	if len(key) > 12 {
		return key[:12]
	}
	return key
}
