package globread

import (
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/unicode"
)

// ErrUnknownEncoding is returned for encoding names that cannot be resolved.
var ErrUnknownEncoding = errors.New("globread: unknown encoding")

// decoder turns raw file bytes into the stored value.
type decoder struct {
	// name is recorded on the file; empty for raw bytes.
	name   string
	decode func([]byte) ([]byte, error)
}

func (d decoder) apply(b []byte) ([]byte, error) {
	if d.decode == nil {
		return b, nil
	}
	return d.decode(b)
}

func lookupDecoder(name string) (decoder, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "buffer":
		return decoder{}, nil
	case "utf8", "utf-8":
		return decoder{name: "utf8"}, nil
	case "latin1", "binary":
		return textDecoder("latin1", charmap.ISO8859_1), nil
	case "ascii":
		return decoder{name: "ascii", decode: decodeASCII}, nil
	case "utf16le", "utf-16le", "ucs2", "ucs-2":
		return textDecoder("utf16le", unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM)), nil
	case "hex":
		return decoder{name: "hex", decode: func(b []byte) ([]byte, error) {
			return []byte(hex.EncodeToString(b)), nil
		}}, nil
	case "base64":
		return decoder{name: "base64", decode: func(b []byte) ([]byte, error) {
			return []byte(base64.StdEncoding.EncodeToString(b)), nil
		}}, nil
	}

	enc, err := htmlindex.Get(name)
	if err != nil {
		return decoder{}, fmt.Errorf("%w %q", ErrUnknownEncoding, name)
	}
	canonical, err := htmlindex.Name(enc)
	if err != nil {
		canonical = strings.ToLower(name)
	}
	return textDecoder(canonical, enc), nil
}

func textDecoder(name string, enc encoding.Encoding) decoder {
	return decoder{name: name, decode: func(b []byte) ([]byte, error) {
		return enc.NewDecoder().Bytes(b)
	}}
}

// decodeASCII drops the high bit of every byte.
func decodeASCII(b []byte) ([]byte, error) {
	out := make([]byte, len(b))
	for i, c := range b {
		out[i] = c & 0x7f
	}
	return out, nil
}
