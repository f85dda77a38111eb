package textenc

import (
	"bytes"
	"errors"
	"testing"
)

func TestDecodeStripsBOM(t *testing.T) {
	got, err := Decode([]byte("\xef\xbb\xbftiles = \"a\""), "utf-8")
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if got != `tiles = "a"` {
		t.Fatalf("unexpected text %q", got)
	}
}

func TestSingleByteCharsets(t *testing.T) {
	tests := []struct {
		charset string
		raw     []byte
		text    string
	}{
		{"windows-1252", []byte{'-', '-', ' ', 0x80}, "-- €"},
		{"iso-8859-1", []byte{0xe9}, "é"},
		{"cp437", []byte{0x81}, "ü"},
	}
	for _, tt := range tests {
		got, err := Decode(tt.raw, tt.charset)
		if err != nil || got != tt.text {
			t.Errorf("Decode(%s) = %q, %v", tt.charset, got, err)
		}
		back, err := Encode(tt.text, tt.charset)
		if err != nil || !bytes.Equal(back, tt.raw) {
			t.Errorf("Encode(%s) = %v, %v", tt.charset, back, err)
		}
	}
}

func TestEncodeUTF8(t *testing.T) {
	got, err := Encode("é", "")
	if err != nil || string(got) != "é" {
		t.Fatalf("unexpected utf-8 output %q, %v", got, err)
	}
}

func TestUnknownCharset(t *testing.T) {
	if _, err := Decode(nil, "ebcdic"); !errors.Is(err, ErrUnknownCharset) {
		t.Fatalf("expected unknown charset, got %v", err)
	}
	if Supported("ebcdic") || !Supported("CP437") {
		t.Fatalf("unexpected Supported results")
	}
}
