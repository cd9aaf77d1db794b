// Package renderer 基于 poppler pdftoppm 的页面渲染实现
package renderer

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/h2non/filetype"
	"github.com/ledongthuc/pdf"

	// 注册 image 解码器
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	serrors "pdfSentinel/internal/errors"
	"pdfSentinel/internal/logger"
)

// DefaultRenderTimeout 单页渲染超时
const DefaultRenderTimeout = 60 * time.Second

// Options 渲染选项
type Options struct {
	// pdftoppm 路径，为空时自动查找
	PdftoppmPath string
	// 单页渲染超时
	RenderTimeout time.Duration
}

// PopplerDocument 磁盘上的一份 PDF
// 每个文档 拥有独立的临时目录，用完必须 Close
type PopplerDocument struct {
	path    string
	workDir string
	opts    Options

	execPath string
	pages    int
	counted  bool
}

// Open 打开已有文件
func Open(path string, opts Options) (*PopplerDocument, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, serrors.InputError(path, err)
	}

	workDir, err := os.MkdirTemp("", "sentinel-render-*")
	if err != nil {
		return nil, serrors.RenderError(serrors.ErrRenderTool, 0, err)
	}

	return newDocument(path, workDir, opts), nil
}

// FromBytes 将内存中的文档写入临时目录后打开
func FromBytes(data []byte, opts Options) (*PopplerDocument, error) {
	workDir, err := os.MkdirTemp("", "sentinel-render-*")
	if err != nil {
		return nil, serrors.RenderError(serrors.ErrRenderTool, 0, err)
	}

	path := filepath.Join(workDir, "source.pdf")
	if err := os.WriteFile(path, data, 0600); err != nil {
		os.RemoveAll(workDir)
		return nil, serrors.InputError(path, err)
	}

	return newDocument(path, workDir, opts), nil
}

func newDocument(path, workDir string, opts Options) *PopplerDocument {
	if opts.RenderTimeout <= 0 {
		opts.RenderTimeout = DefaultRenderTimeout
	}
	return &PopplerDocument{path: path, workDir: workDir, opts: opts}
}

// Close 删除临时目录
func (d *PopplerDocument) Close() error {
	return os.RemoveAll(d.workDir)
}

// countPages 解析交叉引用表获取页数
var countPages = func(path string) (int, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()
	return r.NumPage(), nil
}

// PageCount 获取页数，解析时长受 RenderTimeout 限制
func (d *PopplerDocument) PageCount(ctx context.Context) (int, error) {
	if d.counted {
		return d.pages, nil
	}
	if err := ctx.Err(); err != nil {
		return 0, d.pageCountError(err)
	}

	ctx, cancel := context.WithTimeout(ctx, d.opts.RenderTimeout)
	defer cancel()

	type result struct {
		n   int
		err error
	}
	count := countPages
	done := make(chan result, 1)
	go func() {
		// 畸形文件可能导致解析库 panic
		n, err := serrors.SafeExecuteWithResult(func() (int, error) {
			return count(d.path)
		})
		done <- result{n: n, err: err}
	}()

	select {
	case <-ctx.Done():
		logger.Warn("page count timed out", "file", d.path, "timeout", d.opts.RenderTimeout.String())
		return 0, d.pageCountError(ctx.Err())
	case r := <-done:
		if r.err != nil {
			return 0, d.pageCountError(r.err)
		}
		d.pages = r.n
		d.counted = true
		return r.n, nil
	}
}

func (d *PopplerDocument) pageCountError(cause error) error {
	return serrors.RenderError(serrors.ErrRenderPageCount, 0, cause).
		WithFile(d.path).
		WithOperation("page_count")
}

// RenderPage 调用 pdftoppm 渲染单页为 PNG 并解码
// 分辨率 = 72 × scale DPI，即 1pt 对应 scale 个像素
func (d *PopplerDocument) RenderPage(ctx context.Context, page int, scale float64) (image.Image, error) {
	if page < 1 {
		return nil, serrors.RenderError(serrors.ErrRenderPage, page, fmt.Errorf("page out of range"))
	}
	if scale <= 0 {
		return nil, serrors.RenderError(serrors.ErrRenderPage, page, fmt.Errorf("invalid scale %v", scale))
	}

	if d.execPath == "" {
		execPath, err := LocateTool(d.opts.PdftoppmPath)
		if err != nil {
			return nil, err
		}
		d.execPath = execPath
	}

	ctx, cancel := context.WithTimeout(ctx, d.opts.RenderTimeout)
	defer cancel()

	prefix := filepath.Join(d.workDir, "page-"+strconv.Itoa(page))
	args := []string{
		"-f", strconv.Itoa(page),
		"-l", strconv.Itoa(page),
		"-r", strconv.FormatFloat(72*scale, 'f', -1, 64),
		"-png",
		"-singlefile",
		d.path,
		prefix,
	}

	cmd := exec.CommandContext(ctx, d.execPath, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	start := time.Now()
	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			err = ctx.Err()
		} else if msg := strings.TrimSpace(stderr.String()); msg != "" {
			err = fmt.Errorf("%w: %s", err, msg)
		}
		return nil, serrors.RenderError(serrors.ErrRenderPage, page, err).
			WithFile(d.path).
			WithOperation("pdftoppm")
	}

	output := prefix + ".png"
	defer os.Remove(output)

	img, err := decodeImage(output)
	if err != nil {
		return nil, serrors.RenderError(serrors.ErrRenderPage, page, err).
			WithFile(d.path).
			WithOperation("decode_image")
	}

	logger.Debug("page rendered",
		"page", page,
		"width", img.Bounds().Dx(),
		"height", img.Bounds().Dy(),
		"elapsed", time.Since(start).String(),
	)
	return img, nil
}

// decodeImage 校验文件确为图像后解码
func decodeImage(path string) (image.Image, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if !filetype.IsImage(data) {
		return nil, fmt.Errorf("renderer output is not an image")
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	return img, nil
}
