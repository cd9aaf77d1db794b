package vault

import (
	"bytes"
	"testing"
)

func TestSealOpen_RoundTrip(t *testing.T) {
	v := New(NewStaticKey("test-passphrase"))

	tests := []struct {
		name  string
		plain []byte
	}{
		{"empty", []byte{}},
		{"short", []byte("abc")},
		{"block aligned", bytes.Repeat([]byte{'x'}, 32)},
		{"json", []byte(`{"id":"1","score":72}`)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sealed, err := v.Seal(tt.plain)
			if err != nil {
				t.Fatalf("Seal() error = %v", err)
			}
			if len(sealed)%16 != 0 || len(sealed) < 32 {
				t.Errorf("sealed length %d not IV + whole blocks", len(sealed))
			}
			got, err := v.Open(sealed)
			if err != nil {
				t.Fatalf("Open() error = %v", err)
			}
			if !bytes.Equal(got, tt.plain) {
				t.Errorf("Open() = %q, want %q", got, tt.plain)
			}
		})
	}
}

func TestSeal_RandomIV(t *testing.T) {
	v := New(NewStaticKey("k"))
	a, _ := v.Seal([]byte("same"))
	b, _ := v.Seal([]byte("same"))
	if bytes.Equal(a, b) {
		t.Error("two seals of the same plaintext must differ")
	}
}

func TestOpen_Rejects(t *testing.T) {
	v := New(NewStaticKey("k"))
	sealed, _ := v.Seal([]byte("payload"))

	other := New(NewStaticKey("other"))
	if got, err := other.Open(sealed); err == nil && string(got) == "payload" {
		t.Error("wrong key must not recover plaintext")
	}

	if _, err := v.Open(sealed[:10]); err == nil {
		t.Error("short blob should fail")
	}
	if _, err := v.Open(sealed[:len(sealed)-1]); err == nil {
		t.Error("misaligned blob should fail")
	}
}

func TestStaticKey_Length(t *testing.T) {
	if _, err := StaticKey([]byte("short")).Key(); err == nil {
		t.Error("expected error for invalid key length")
	}
	key, err := NewStaticKey("x").Key()
	if err != nil || len(key) != KeyLen {
		t.Errorf("Key() = %d bytes, %v", len(key), err)
	}
}

func TestHostKey(t *testing.T) {
	var hk HostKey
	a, err := hk.Key()
	if err != nil {
		t.Skipf("host fingerprint unavailable: %v", err)
	}
	b, _ := hk.Key()
	if !bytes.Equal(a, b) || len(a) != KeyLen {
		t.Error("host key must be stable and 16 bytes")
	}
}
