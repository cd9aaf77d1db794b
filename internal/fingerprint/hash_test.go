package fingerprint

import (
	"os"
	"path/filepath"
	"testing"
)

func TestCompute_KnownVectors(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want string
	}{
		{"empty", nil, "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855"},
		{"abc", []byte("abc"), "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Compute(tt.data); string(got) != tt.want {
				t.Errorf("Compute() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestComputeAll_SM3(t *testing.T) {
	d := ComputeAll([]byte("abc"))
	want := "66c7f0f462eeedd9d1f2d46bdc10e4e24167c4875cf2f7a2297da02b8f4ba8e0"
	if d.SM3 != want {
		t.Errorf("SM3 = %s, want %s", d.SM3, want)
	}
}

func TestComputeFile_MatchesInMemory(t *testing.T) {
	data := []byte("%PDF-1.7\n1 0 obj << /Type /Catalog >> endobj\n%%EOF\n")
	path := filepath.Join(t.TempDir(), "doc.pdf")
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatalf("write: %v", err)
	}

	got, err := ComputeFile(path)
	if err != nil {
		t.Fatalf("ComputeFile: %v", err)
	}
	if got != ComputeAll(data) {
		t.Errorf("file digests %+v differ from in-memory %+v", got, ComputeAll(data))
	}

	// 幂等
	if Compute(data) != Compute(data) {
		t.Error("Compute must be deterministic")
	}
}
