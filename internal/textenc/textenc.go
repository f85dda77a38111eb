package textenc

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
)

var ErrUnknownCharset = errors.New("unknown charset")

const DefaultCharset = "utf-8"

func lookup(charset string) (encoding.Encoding, error) {
	switch strings.ToLower(strings.TrimSpace(charset)) {
	case "", "utf-8", "utf8":
		return unicode.UTF8BOM, nil
	case "windows-1252", "cp1252":
		return charmap.Windows1252, nil
	case "iso-8859-1", "latin1":
		return charmap.ISO8859_1, nil
	case "cp437", "ibm437":
		return charmap.CodePage437, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownCharset, charset)
}

// Supported reports whether charset names a known encoding.
func Supported(charset string) bool {
	_, err := lookup(charset)
	return err == nil
}

// Decode converts file content in charset to a string. A UTF-8 byte order
// mark is dropped.
func Decode(data []byte, charset string) (string, error) {
	enc, err := lookup(charset)
	if err != nil {
		return "", err
	}
	decoded, err := enc.NewDecoder().Bytes(data)
	if err != nil {
		return "", fmt.Errorf("failed to decode %s text: %w", charset, err)
	}
	return string(decoded), nil
}

// Encode converts text to charset. UTF-8 output carries no byte order mark.
func Encode(text string, charset string) ([]byte, error) {
	enc, err := lookup(charset)
	if err != nil {
		return nil, err
	}
	if enc == unicode.UTF8BOM {
		return []byte(text), nil
	}
	encoded, err := enc.NewEncoder().Bytes([]byte(text))
	if err != nil {
		return nil, fmt.Errorf("failed to encode %s text: %w", charset, err)
	}
	return encoded, nil
}
