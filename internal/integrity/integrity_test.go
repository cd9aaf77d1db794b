package integrity

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"
)

// mockReporter 捕获上报的异常
type mockReporter struct {
	mu  sync.Mutex
	got []Violation
}

func (m *mockReporter) Report(v Violation) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.got = append(m.got, v)
}

func (m *mockReporter) types() []ViolationType {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]ViolationType, len(m.got))
	for i, v := range m.got {
		out[i] = v.Type
	}
	return out
}

func writeFakeBin(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "fake_pdftoppm")
	if err := os.WriteFile(path, []byte(content), 0755); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestComputeFileSM3(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sm3.txt")
	if err := os.WriteFile(path, []byte("hello world"), 0644); err != nil {
		t.Fatal(err)
	}

	hash, err := ComputeFileSM3(path)
	if err != nil {
		t.Fatalf("ComputeFileSM3 failed: %v", err)
	}

	expected := "44f0061e69fa6fdfc290c494654a05dc0c053da7e5c52b84ef93a9d67d3fff88"
	if hash != expected {
		t.Errorf("SM3 hash mismatch.\nGot:  %s\nWant: %s", hash, expected)
	}
}

func TestSelfExecutablePath(t *testing.T) {
	path, err := SelfExecutablePath()
	if err != nil {
		t.Fatalf("Failed to get self path: %v", err)
	}
	if !filepath.IsAbs(path) {
		t.Errorf("path %q should be absolute", path)
	}
}

func TestNewMonitor_DedupAndMissing(t *testing.T) {
	bin := writeFakeBin(t, "v1")
	link := filepath.Join(t.TempDir(), "link")
	if err := os.Symlink(bin, link); err != nil {
		t.Skipf("symlink unsupported: %v", err)
	}

	m, err := NewMonitor([]string{bin, link, ""}, &mockReporter{})
	if err != nil {
		t.Fatalf("NewMonitor failed: %v", err)
	}
	if got := m.Targets(); len(got) != 1 {
		t.Errorf("Targets() = %v, want a single resolved target", got)
	}

	if _, err := NewMonitor([]string{filepath.Join(t.TempDir(), "absent")}, nil); err == nil {
		t.Error("expected error for missing target")
	}
}

func TestMonitor_TamperAndDelete(t *testing.T) {
	bin := writeFakeBin(t, "version 1.0 (secure)")
	rep := &mockReporter{}

	m, err := NewMonitor([]string{bin}, rep)
	if err != nil {
		t.Fatal(err)
	}

	// 正常状态
	if v := m.Check(); len(v) != 0 {
		t.Fatalf("unexpected violations in normal state: %v", v)
	}
	if !m.Healthy() {
		t.Error("monitor should be healthy")
	}

	// 篡改
	if err := os.WriteFile(bin, []byte("version 6.6.6 (hacked)"), 0755); err != nil {
		t.Fatal(err)
	}
	v := m.Check()
	if len(v) != 1 || v[0].Type != TypeFileModified {
		t.Fatalf("violations = %v, want FILE_MODIFIED", v)
	}
	if m.Healthy() {
		t.Error("monitor should report unhealthy after tampering")
	}

	// 删除
	if err := os.Remove(bin); err != nil {
		t.Fatal(err)
	}
	v = m.Check()
	if len(v) != 1 || v[0].Type != TypeFileDeleted {
		t.Fatalf("violations = %v, want FILE_DELETED", v)
	}

	want := []ViolationType{TypeFileModified, TypeFileDeleted}
	got := rep.types()
	if len(got) != len(want) || got[0] != want[0] || got[1] != want[1] {
		t.Errorf("reported %v, want %v", got, want)
	}
}

func TestMonitor_WorldWritable(t *testing.T) {
	bin := writeFakeBin(t, "v1")
	m, err := NewMonitor([]string{bin}, &mockReporter{})
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chmod(bin, 0777); err != nil {
		t.Fatal(err)
	}

	v := m.Check()
	if len(v) != 1 || v[0].Type != TypePermChanged {
		t.Errorf("violations = %v, want PERM_CHANGED", v)
	}
}

func TestMonitor_Lifecycle(t *testing.T) {
	bin := writeFakeBin(t, "v1")
	rep := &mockReporter{}
	m, err := NewMonitor([]string{bin}, rep)
	if err != nil {
		t.Fatal(err)
	}

	m.Start(10 * time.Millisecond) // 低于下限，按 MinInterval 运行
	m.Start(time.Second)           // 重复启动无效果
	m.Stop()
	m.Stop()

	// 可再次启动
	m.Start(time.Second)
	m.Stop()

	if len(rep.types()) != 0 {
		t.Errorf("unexpected reports: %v", rep.types())
	}
}
