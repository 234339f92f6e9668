// Package encodings detects the character encoding of raw file bytes and
// converts between bytes and Go strings for the encodings a text editor
// actually meets: the Unicode family plus the legacy charsets registered
// with IANA.
//
// Detection is best effort and never fails: a BOM wins outright, valid
// UTF-8 is taken at face value, and anything else is handed to a
// statistical detector whose answer is trusted only above a confidence
// floor. Decoding likewise never fails; undecodable bytes become U+FFFD.
// Encoding is strict so that a lossy save is reported instead of written.
package encodings

import (
	"bytes"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/saintfish/chardet"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/ianaindex"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/encoding/unicode/utf32"
)

// Fallback is the encoding assumed when detection has nothing better.
const Fallback = "utf-8"

// minConfidence is the chardet score (0-100) below which a guess is
// discarded in favor of Fallback.
const minConfidence = 70

var (
	bomUTF8    = []byte{0xEF, 0xBB, 0xBF}
	bomUTF16LE = []byte{0xFF, 0xFE}
	bomUTF16BE = []byte{0xFE, 0xFF}
	bomUTF32LE = []byte{0xFF, 0xFE, 0x00, 0x00}
	bomUTF32BE = []byte{0x00, 0x00, 0xFE, 0xFF}
)

// Detect names the most plausible encoding of data, always lower case,
// never empty. Empty input is called utf-8.
func Detect(data []byte) string {
	if len(data) == 0 {
		return Fallback
	}
	// UTF-32 first: its LE BOM starts with the UTF-16 LE BOM bytes.
	switch {
	case bytes.HasPrefix(data, bomUTF32LE):
		return "utf-32le"
	case bytes.HasPrefix(data, bomUTF32BE):
		return "utf-32be"
	case bytes.HasPrefix(data, bomUTF8):
		return "utf-8-sig"
	case bytes.HasPrefix(data, bomUTF16LE):
		return "utf-16le"
	case bytes.HasPrefix(data, bomUTF16BE):
		return "utf-16be"
	}
	if utf8.Valid(data) {
		return Fallback
	}
	best, err := chardet.NewTextDetector().DetectBest(data)
	if err != nil || best == nil || best.Confidence < minConfidence {
		return Fallback
	}
	return Normalize(best.Charset)
}

// Normalize folds an encoding name to the lower-case spelling the rest of
// the program uses. ASCII collapses to utf-8 since every ASCII file is
// valid UTF-8.
func Normalize(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	switch name {
	case "", "ascii", "us-ascii":
		return Fallback
	case "gb-18030":
		return "gb18030"
	}
	return name
}

// lookup resolves a normalized encoding name to its codec, or nil when the
// name is unknown. The Unicode family is matched explicitly because the
// IANA index has no spelling for BOM and endianness variants like
// utf-8-sig.
func lookup(name string) encoding.Encoding {
	switch Normalize(name) {
	case "utf-8":
		return unicode.UTF8
	case "utf-8-sig":
		return unicode.UTF8BOM
	case "utf-16le":
		return unicode.UTF16(unicode.LittleEndian, unicode.UseBOM)
	case "utf-16be":
		return unicode.UTF16(unicode.BigEndian, unicode.UseBOM)
	case "utf-32le":
		return utf32.UTF32(utf32.LittleEndian, utf32.UseBOM)
	case "utf-32be":
		return utf32.UTF32(utf32.BigEndian, utf32.UseBOM)
	}
	enc, err := ianaindex.IANA.Encoding(Normalize(name))
	if err != nil {
		return nil
	}
	return enc
}

// DecodeText converts raw bytes to a string using the named encoding.
// It never fails: an unknown name falls back to UTF-8 and undecodable
// byte sequences are replaced with U+FFFD.
func DecodeText(data []byte, name string) string {
	enc := lookup(name)
	if enc == nil {
		enc = unicode.UTF8
	}
	out, err := enc.NewDecoder().Bytes(data)
	if err != nil {
		return strings.ToValidUTF8(string(data), "�")
	}
	return strings.ToValidUTF8(string(out), "�")
}

// EncodeText converts text to bytes in the named encoding. Unlike
// DecodeText it is strict: an unknown name or a rune the target cannot
// represent is an error, so callers do not silently write mangled files.
func EncodeText(text, name string) ([]byte, error) {
	enc := lookup(name)
	if enc == nil {
		return nil, fmt.Errorf("unsupported encoding %q", name)
	}
	out, err := enc.NewEncoder().Bytes([]byte(text))
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", Normalize(name), err)
	}
	return out, nil
}
