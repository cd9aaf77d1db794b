package renderer

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/go-pdf/fpdf"

	serrors "pdfSentinel/internal/errors"
	"pdfSentinel/internal/sanitizer"
)

var _ sanitizer.Document = (*PopplerDocument)(nil)

// writePDF 生成 n 页的测试文档
func writePDF(t *testing.T, n int) string {
	t.Helper()
	doc := fpdf.New("P", "pt", "A4", "")
	doc.SetFont("Helvetica", "", 12)
	for i := 0; i < n; i++ {
		doc.AddPage()
		doc.Text(40, 40, "page")
	}
	path := filepath.Join(t.TempDir(), "doc.pdf")
	if err := doc.OutputFileAndClose(path); err != nil {
		t.Fatalf("write pdf: %v", err)
	}
	return path
}

// fakeTool 生成一个模拟 pdftoppm 的脚本：记录参数并输出固定 PNG
func fakeTool(t *testing.T, exitCode int) (tool, argsFile string) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell script tool not supported on windows")
	}
	dir := t.TempDir()

	img := image.NewRGBA(image.Rect(0, 0, 6, 4))
	img.Set(0, 0, color.Black)
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	pngPath := filepath.Join(dir, "fixture.png")
	if err := os.WriteFile(pngPath, buf.Bytes(), 0644); err != nil {
		t.Fatal(err)
	}

	argsFile = filepath.Join(dir, "args.txt")
	script := "#!/bin/sh\n" +
		"echo \"$@\" > '" + argsFile + "'\n"
	if exitCode != 0 {
		script += "echo 'Syntax Error: broken page' >&2\nexit 3\n"
	} else {
		script += "for last; do :; done\n" +
			"cp '" + pngPath + "' \"$last.png\"\n"
	}

	tool = filepath.Join(dir, "pdftoppm")
	if err := os.WriteFile(tool, []byte(script), 0755); err != nil {
		t.Fatal(err)
	}
	return tool, argsFile
}

func TestPageCount(t *testing.T) {
	doc, err := Open(writePDF(t, 3), Options{})
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer doc.Close()

	n, err := doc.PageCount(context.Background())
	if err != nil {
		t.Fatalf("PageCount() error = %v", err)
	}
	if n != 3 {
		t.Errorf("PageCount() = %d, want 3", n)
	}
}

func TestPageCount_Garbage(t *testing.T) {
	doc, err := FromBytes([]byte("%PDF-1.4\nnot really a pdf"), Options{})
	if err != nil {
		t.Fatalf("FromBytes() error = %v", err)
	}
	defer doc.Close()

	_, err = doc.PageCount(context.Background())
	if serrors.GetErrorCode(err) != serrors.ErrRenderPageCount {
		t.Errorf("code = %v, want ErrRenderPageCount", serrors.GetErrorCode(err))
	}
}

func TestPageCount_Timeout(t *testing.T) {
	block := make(chan struct{})
	defer close(block)

	orig := countPages
	countPages = func(string) (int, error) {
		<-block
		return 1, nil
	}
	defer func() { countPages = orig }()

	doc, err := FromBytes([]byte("%PDF-1.4"), Options{RenderTimeout: 50 * time.Millisecond})
	if err != nil {
		t.Fatal(err)
	}
	defer doc.Close()

	start := time.Now()
	_, err = doc.PageCount(context.Background())
	if serrors.GetErrorCode(err) != serrors.ErrRenderPageCount {
		t.Fatalf("code = %v, want ErrRenderPageCount", serrors.GetErrorCode(err))
	}
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("expected deadline exceeded, got %v", err)
	}
	if elapsed := time.Since(start); elapsed > 2*time.Second {
		t.Errorf("PageCount blocked for %v", elapsed)
	}
	if se, ok := serrors.As(err); !ok || se.Operation != "page_count" {
		t.Errorf("operation not recorded: %+v", se)
	}
}

func TestPageCount_Cancelled(t *testing.T) {
	doc, err := Open(writePDF(t, 1), Options{})
	if err != nil {
		t.Fatal(err)
	}
	defer doc.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = doc.PageCount(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestOpen_MissingFile(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "absent.pdf"), Options{})
	if !serrors.IsInputError(err) {
		t.Errorf("expected input error, got %v", err)
	}
}

func TestRenderPage_FakeTool(t *testing.T) {
	tool, argsFile := fakeTool(t, 0)
	doc, err := Open(writePDF(t, 2), Options{PdftoppmPath: tool})
	if err != nil {
		t.Fatal(err)
	}
	defer doc.Close()

	img, err := doc.RenderPage(context.Background(), 2, 2)
	if err != nil {
		t.Fatalf("RenderPage() error = %v", err)
	}
	if img.Bounds().Dx() != 6 || img.Bounds().Dy() != 4 {
		t.Errorf("bounds = %v, want 6x4", img.Bounds())
	}

	args, err := os.ReadFile(argsFile)
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"-f 2", "-l 2", "-r 144", "-png", "-singlefile"} {
		if !strings.Contains(string(args), want) {
			t.Errorf("args %q missing %q", args, want)
		}
	}

	// 输出的中间文件应被清理
	leftovers, _ := filepath.Glob(filepath.Join(doc.workDir, "page-*.png"))
	if len(leftovers) != 0 {
		t.Errorf("intermediate files not removed: %v", leftovers)
	}
}

func TestRenderPage_ToolFailure(t *testing.T) {
	tool, _ := fakeTool(t, 3)
	doc, err := Open(writePDF(t, 1), Options{PdftoppmPath: tool})
	if err != nil {
		t.Fatal(err)
	}
	defer doc.Close()

	_, err = doc.RenderPage(context.Background(), 1, 2)
	if serrors.GetErrorCode(err) != serrors.ErrRenderPage {
		t.Fatalf("code = %v, want ErrRenderPage", serrors.GetErrorCode(err))
	}
	if !strings.Contains(err.Error(), "broken page") {
		t.Errorf("stderr should be surfaced, got %v", err)
	}
	if se, _ := serrors.As(err); se.Operation != "pdftoppm" {
		t.Errorf("operation = %q, want pdftoppm", se.Operation)
	}
}

func TestRenderPage_MissingTool(t *testing.T) {
	doc, err := Open(writePDF(t, 1), Options{PdftoppmPath: filepath.Join(t.TempDir(), "nope")})
	if err != nil {
		t.Fatal(err)
	}
	defer doc.Close()

	_, err = doc.RenderPage(context.Background(), 1, 2)
	if serrors.GetErrorCode(err) != serrors.ErrRenderTool {
		t.Errorf("code = %v, want ErrRenderTool", serrors.GetErrorCode(err))
	}
}

func TestClose_RemovesWorkDir(t *testing.T) {
	doc, err := FromBytes([]byte("%PDF-1.4"), Options{})
	if err != nil {
		t.Fatal(err)
	}
	dir := doc.workDir
	if err := doc.Close(); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(dir); !os.IsNotExist(err) {
		t.Errorf("work dir %s still exists", dir)
	}
}

// 安装了 poppler 时走完整的净化流程
func TestSanitize_RealPoppler(t *testing.T) {
	if _, err := exec.LookPath("pdftoppm"); err != nil {
		t.Skip("pdftoppm not installed")
	}

	doc, err := Open(writePDF(t, 2), Options{})
	if err != nil {
		t.Fatal(err)
	}
	defer doc.Close()

	out, err := sanitizer.New(sanitizer.Config{Scale: 1, JPEGQuality: 80}).
		Sanitize(context.Background(), "real", doc, nil)
	if err != nil {
		t.Fatalf("Sanitize() error = %v", err)
	}

	clean, err := FromBytes(out, Options{})
	if err != nil {
		t.Fatal(err)
	}
	defer clean.Close()
	n, err := clean.PageCount(context.Background())
	if err != nil {
		t.Fatalf("PageCount(sanitized) error = %v", err)
	}
	if n != 2 {
		t.Errorf("sanitized pages = %d, want 2", n)
	}
}
