package qlang

import (
	"bytes"
	"compress/flate"
	"compress/gzip"
	"encoding/base64"
	"encoding/hex"
	"io"
)

// Base64 returns the standard-encoding base64 text of b, backing the
// base64-encode builtin the domain library exposes.
func (b *Binary) Base64() string { return base64.StdEncoding.EncodeToString(b.buf) }

// BinaryFromBase64 decodes s, raising BASE64-PARSE-ERROR on malformed
// input.
func BinaryFromBase64(s string, sink *Sink) *Binary {
	decoded, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		if sink != nil {
			sink.Raise("BASE64-PARSE-ERROR", err.Error(), nil, nil)
		}
		return nil
	}
	return NewBinary(decoded)
}

// Hex returns the lower-case hex text of b.
func (b *Binary) Hex() string { return hex.EncodeToString(b.buf) }

// BinaryFromHex decodes s, raising PARSE-HEX-ERROR on malformed input.
func BinaryFromHex(s string, sink *Sink) *Binary {
	decoded, err := hex.DecodeString(s)
	if err != nil {
		if sink != nil {
			sink.Raise("PARSE-HEX-ERROR", err.Error(), nil, nil)
		}
		return nil
	}
	return NewBinary(decoded)
}

// Deflate returns b compressed with DEFLATE. Grounded on
// original_source/lib/ql_misc.cc's compress/uncompress pair; uses the
// standard library's compress/flate rather than an ecosystem
// compression library because no retrieved pack file exercises one
// (see DESIGN.md).
func (b *Binary) Deflate(level int) (*Binary, error) {
	var buf bytes.Buffer
	w, err := flate.NewWriter(&buf, level)
	if err != nil {
		return nil, err
	}
	if _, err := w.Write(b.buf); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return NewBinary(buf.Bytes()), nil
}

// Inflate reverses Deflate.
func (b *Binary) Inflate() (*Binary, error) {
	r := flate.NewReader(bytes.NewReader(b.buf))
	defer r.Close()
	out, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return NewBinary(out), nil
}

// Gzip returns b compressed as a gzip stream.
func (b *Binary) Gzip() (*Binary, error) {
	var buf bytes.Buffer
	w := gzip.NewWriter(&buf)
	if _, err := w.Write(b.buf); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return NewBinary(buf.Bytes()), nil
}

// Gunzip reverses Gzip.
func (b *Binary) Gunzip() (*Binary, error) {
	r, err := gzip.NewReader(bytes.NewReader(b.buf))
	if err != nil {
		return nil, err
	}
	defer r.Close()
	out, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return NewBinary(out), nil
}
