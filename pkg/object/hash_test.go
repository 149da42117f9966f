package object

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"
)

// helloHash is the object hash of the blob "hello\n". It is part of the
// on-disk format and must never change.
const helloHash = "ce013625030ba8dba906f756967f9e9ca394464a"

func TestHashObjectHello(t *testing.T) {
	for i := 0; i < 3; i++ {
		if got := HashObject(TypeBlob, []byte("hello\n")).String(); got != helloHash {
			t.Fatalf("HashObject(hello) = %s, want %s", got, helloHash)
		}
	}
}

func TestHashObjectEnvelope(t *testing.T) {
	data := []byte("hello")
	h1 := HashObject(TypeBlob, data)
	if h1 == HashBytes(data) {
		t.Error("HashObject should differ from HashBytes due to envelope")
	}
	if h1 == HashObject(TypeCommit, data) {
		t.Error("different types should produce different hashes")
	}

	raw, err := Encode(&Blob{Data: data})
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if HashBytes(raw) != h1 {
		t.Error("HashObject must equal HashBytes of the full encoding")
	}
}

func TestParseHash(t *testing.T) {
	h, err := ParseHash(helloHash)
	if err != nil {
		t.Fatalf("ParseHash: %v", err)
	}
	if h.String() != helloHash {
		t.Errorf("String: got %s, want %s", h, helloHash)
	}

	upper, err := ParseHash(strings.ToUpper(helloHash))
	if err != nil {
		t.Fatalf("ParseHash upper: %v", err)
	}
	if upper != h {
		t.Error("uppercase hex should decode to the same hash")
	}
}

func TestParseHashErrors(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want error
	}{
		{"non-hex", "zz013625030ba8dba906f756967f9e9ca394464a", ErrInvalidHash},
		{"odd length", "abc", ErrInvalidHash},
		{"short", "ce0136", ErrHashSize},
		{"long", helloHash + "00", ErrHashSize},
		{"empty", "", ErrHashSize},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseHash(tt.in)
			if !errors.Is(err, tt.want) {
				t.Fatalf("ParseHash(%q) = %v, want %v", tt.in, err, tt.want)
			}
			var he *HashError
			if !errors.As(err, &he) || he.Kind != tt.want {
				t.Errorf("ParseHash(%q): missing HashError detail: %v", tt.in, err)
			}
		})
	}
}

func TestHashPathShape(t *testing.T) {
	for _, data := range []string{"", "a", "hello\n", strings.Repeat("x", 4096)} {
		h := HashObject(TypeBlob, []byte(data))
		dir, file := filepath.Split(h.Path())
		dir = strings.TrimSuffix(dir, string(filepath.Separator))
		if len(dir) != 2 {
			t.Errorf("fan-out dir %q: want 2 hex chars", dir)
		}
		if len(dir)+len(file) != 40 {
			t.Errorf("path %q: combined hex length %d, want 40", h.Path(), len(dir)+len(file))
		}
		if dir+file != h.String() {
			t.Errorf("path %q does not spell hash %s", h.Path(), h)
		}
	}
}

func TestHashTextRoundTrip(t *testing.T) {
	want := HashBytes([]byte("text"))
	text, err := want.MarshalText()
	if err != nil {
		t.Fatalf("MarshalText: %v", err)
	}
	var got Hash
	if err := got.UnmarshalText(text); err != nil {
		t.Fatalf("UnmarshalText: %v", err)
	}
	if got != want {
		t.Errorf("got %s, want %s", got, want)
	}
	if !ZeroHash.IsZero() || want.IsZero() {
		t.Error("IsZero")
	}
}
