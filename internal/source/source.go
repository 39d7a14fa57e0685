// Package source turns raw file bytes into the text the lexer consumes.
package source

import (
	"bytes"
	"fmt"
	"os"
	"sort"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/encoding/unicode/utf32"
	"golang.org/x/text/transform"

	"github.com/io-lang/io-lang/internal/diag"
)

// Auto sniffs a byte order mark and otherwise assumes UTF-8.
const Auto = "auto"

var (
	utf32LEBOM = []byte{0xFF, 0xFE, 0x00, 0x00}
	utf32BEBOM = []byte{0x00, 0x00, 0xFE, 0xFF}
	utf8BOM    = []byte{0xEF, 0xBB, 0xBF}
)

// encodings maps accepted encoding names to their decoders.
var encodings = map[string]encoding.Encoding{
	"utf-8":        unicode.UTF8,
	"utf-16le":     unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM),
	"utf-16be":     unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM),
	"utf-32le":     utf32.UTF32(utf32.LittleEndian, utf32.IgnoreBOM),
	"utf-32be":     utf32.UTF32(utf32.BigEndian, utf32.IgnoreBOM),
	"latin1":       charmap.ISO8859_1,
	"iso-8859-1":   charmap.ISO8859_1,
	"windows-1252": charmap.Windows1252,
}

// Encodings lists the names Decode accepts, Auto included.
func Encodings() []string {
	names := []string{Auto}
	for name := range encodings {
		names = append(names, name)
	}
	sort.Strings(names[1:])
	return names
}

// Known reports whether name is an accepted encoding.
func Known(name string) bool {
	name = strings.ToLower(name)
	if name == Auto || name == "" {
		return true
	}
	_, ok := encodings[name]
	return ok
}

// DecodeError reports bytes that are not valid in the chosen encoding.
type DecodeError struct {
	Encoding string
	Offset   int // byte offset of the first invalid sequence, or -1
	Err      error
}

func (e *DecodeError) Error() string {
	if e.Offset >= 0 {
		return fmt.Sprintf("invalid %s input at byte %d", e.Encoding, e.Offset)
	}
	return fmt.Sprintf("cannot decode %s input: %v", e.Encoding, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// ToDiagnostic converts the error into a shared diagnostic structure. The
// span is left empty: offsets into undecodable input have no line or column.
func (e *DecodeError) ToDiagnostic(filename string) diag.Diagnostic {
	d := diag.Diagnostic{
		Stage:    diag.StageSource,
		Severity: diag.SeverityError,
		Code:     diag.CodeSourceDecode,
		Message:  e.Error(),
	}
	if filename != "" {
		d.Message = filename + ": " + d.Message
	}
	return d.WithHelp("pass -encoding to name the file's encoding")
}

// Decode converts data in the named encoding to a UTF-8 string. A leading byte
// order mark is dropped. Invalid UTF-8 is rejected rather than replaced so the
// lexer never sees text that differs from the file.
func Decode(data []byte, name string) (string, error) {
	name = strings.ToLower(name)
	if name == "" {
		name = Auto
	}

	if name == Auto {
		switch {
		case bytes.HasPrefix(data, utf32LEBOM):
			return decodeWith(data[len(utf32LEBOM):], "utf-32le")
		case bytes.HasPrefix(data, utf32BEBOM):
			return decodeWith(data[len(utf32BEBOM):], "utf-32be")
		}
		dec := unicode.BOMOverride(unicode.UTF8.NewDecoder())
		out, _, err := transform.Bytes(dec, data)
		if err != nil {
			return "", &DecodeError{Encoding: "utf-8", Offset: -1, Err: err}
		}
		if !bytes.HasPrefix(data, []byte{0xFF, 0xFE}) && !bytes.HasPrefix(data, []byte{0xFE, 0xFF}) {
			if off := invalidUTF8(data); off >= 0 {
				return "", &DecodeError{Encoding: "utf-8", Offset: off}
			}
		}
		return string(out), nil
	}

	if _, ok := encodings[name]; !ok {
		return "", fmt.Errorf("unknown encoding %q (want one of %s)", name, strings.Join(Encodings(), ", "))
	}
	return decodeWith(data, name)
}

func decodeWith(data []byte, name string) (string, error) {
	if name == "utf-8" {
		data = bytes.TrimPrefix(data, utf8BOM)
		if off := invalidUTF8(data); off >= 0 {
			return "", &DecodeError{Encoding: name, Offset: off}
		}
		return string(data), nil
	}

	out, _, err := transform.Bytes(encodings[name].NewDecoder(), data)
	if err != nil {
		return "", &DecodeError{Encoding: name, Offset: -1, Err: err}
	}
	return string(out), nil
}

// invalidUTF8 returns the offset of the first invalid UTF-8 sequence in data,
// or -1 if there is none.
func invalidUTF8(data []byte) int {
	if utf8.Valid(data) {
		return -1
	}
	for off := 0; off < len(data); {
		r, size := utf8.DecodeRune(data[off:])
		if r == utf8.RuneError && size == 1 {
			return off
		}
		off += size
	}
	return -1
}

// ReadFile reads path and decodes it with the named encoding.
func ReadFile(path, enc string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	src, err := Decode(data, enc)
	if err != nil {
		return "", fmt.Errorf("%s: %w", path, err)
	}
	return src, nil
}
