// Package encoding implements a process-wide character-encoding
// registry: a mapping from canonical encoding names and their aliases
// to encoding descriptors, used by the value model to give strings an
// explicit, identity-bearing character encoding.
package encoding

import (
	"strings"
	"sync"
	"unicode/utf8"

	xencoding "golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
)

// LengthFunc reports the character length of a byte buffer in this
// encoding; nil for single-byte encodings, where length is just the
// byte count.
type LengthFunc func(b []byte) int

// EndOfNthFunc returns the byte offset just past the Nth character
// (0-based); nil for single-byte encodings.
type EndOfNthFunc func(b []byte, n int) int

// OffsetToPosFunc converts a byte offset to a character position;
// nil for single-byte encodings.
type OffsetToPosFunc func(b []byte, offset int) int

// Descriptor describes one registered character encoding. Two
// descriptors are the same encoding iff they are the same pointer —
// string equality of encodings is by descriptor identity.
type Descriptor struct {
	Name       string
	aliases    []string
	multiByte  bool
	lengthFn   LengthFunc
	endOfNthFn EndOfNthFunc
	offsetToPosFn OffsetToPosFunc
	xenc       xencoding.Encoding // nil for opaque/unknown encodings
}

// MultiByte reports whether this descriptor carries a character-length
// function distinct from byte length.
func (d *Descriptor) MultiByte() bool { return d.multiByte }

// CharLength returns the number of characters in b under this
// encoding. For single-byte encodings this is len(b).
func (d *Descriptor) CharLength(b []byte) int {
	if d.lengthFn != nil {
		return d.lengthFn(b)
	}
	return len(b)
}

// EndOfNth returns the byte offset one past the Nth character.
func (d *Descriptor) EndOfNth(b []byte, n int) int {
	if d.endOfNthFn != nil {
		return d.endOfNthFn(b, n)
	}
	if n+1 > len(b) {
		return len(b)
	}
	return n + 1
}

// OffsetToPos converts a byte offset into a character position.
func (d *Descriptor) OffsetToPos(b []byte, offset int) int {
	if d.offsetToPosFn != nil {
		return d.offsetToPosFn(b, offset)
	}
	return offset
}

func utf8Length(b []byte) int { return utf8.RuneCount(b) }

func utf8EndOfNth(b []byte, n int) int {
	cur := 0
	for i := range string(b) {
		if cur == n+1 {
			return i
		}
		cur++
	}
	return len(b)
}

func utf8OffsetToPos(b []byte, offset int) int {
	return utf8.RuneCount(b[:offset])
}

// Registry is a process-wide, concurrency-safe table of encoding
// descriptors keyed by canonical name and alias, case-insensitively.
type Registry struct {
	mu      sync.RWMutex
	byName  map[string]*Descriptor
	all     []*Descriptor
}

// NewRegistry builds a registry pre-populated with the encodings the
// runtime always knows about.
func NewRegistry() *Registry {
	r := &Registry{byName: make(map[string]*Descriptor)}
	r.register(&Descriptor{Name: "UTF-8", aliases: []string{"UTF8", "UNICODE"}, multiByte: true,
		lengthFn: utf8Length, endOfNthFn: utf8EndOfNth, offsetToPosFn: utf8OffsetToPos,
		xenc: unicode.UTF8})
	r.register(&Descriptor{Name: "ISO-8859-1", aliases: []string{"ISO88591", "LATIN1", "LATIN-1"}, xenc: charmap.ISO8859_1})
	r.register(&Descriptor{Name: "ASCII", aliases: []string{"US-ASCII"}, xenc: xencoding.Nop})
	r.register(&Descriptor{Name: "UTF-16", aliases: []string{"UTF16"}, multiByte: true,
		lengthFn: func(b []byte) int { return len(b) / 2 },
		endOfNthFn: func(b []byte, n int) int { return (n + 1) * 2 },
		offsetToPosFn: func(b []byte, offset int) int { return offset / 2 },
		xenc: unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM)})
	return r
}

func canon(name string) string { return strings.ToUpper(strings.TrimSpace(name)) }

func (r *Registry) register(d *Descriptor) {
	r.byName[canon(d.Name)] = d
	for _, a := range d.aliases {
		r.byName[canon(a)] = d
	}
	r.all = append(r.all, d)
}

// Find looks up an encoding by canonical name or alias, case
// insensitively. If the name is unknown, it is registered on demand
// as an opaque single-byte encoding, so that round-tripping a
// user-supplied name never fails.
func (r *Registry) Find(name string) *Descriptor {
	key := canon(name)

	r.mu.RLock()
	d, ok := r.byName[key]
	r.mu.RUnlock()
	if ok {
		return d
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if d, ok := r.byName[key]; ok {
		return d
	}
	d = &Descriptor{Name: name}
	r.register(d)
	return d
}

// Transcode converts b from src's encoding to dst's via
// golang.org/x/text, returning an error if b cannot be decoded from
// src or the result cannot be encoded into dst. When either side is
// an opaque (unknown-name) encoding, b is returned unchanged with no
// error — there is no information to convert.
func Transcode(b []byte, src, dst *Descriptor) ([]byte, error) {
	if src == dst || src.Name == dst.Name {
		return b, nil
	}
	if src.xenc == nil || dst.xenc == nil {
		return b, nil
	}
	asUTF8, err := src.xenc.NewDecoder().Bytes(b)
	if err != nil {
		return nil, err
	}
	return dst.xenc.NewEncoder().Bytes(asUTF8)
}

var (
	defaultRegistry     *Registry
	defaultRegistryOnce sync.Once
)

// Default returns the process-wide default registry.
func Default() *Registry {
	defaultRegistryOnce.Do(func() { defaultRegistry = NewRegistry() })
	return defaultRegistry
}
