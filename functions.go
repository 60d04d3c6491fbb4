package qlang

// BuiltinFunc is a Go-implemented function exposed to evaluated code
// under a fixed name.
type BuiltinFunc func(args []Value, sink *Sink) Value

var builtins = make(map[string]BuiltinFunc)

// RegisterBuiltin adds fn under name, replacing any previous
// registration — used both by this package's init() and by embedders
// extending the builtin set.
func RegisterBuiltin(name string, fn BuiltinFunc) { builtins[name] = fn }

func LookupBuiltin(name string) (BuiltinFunc, bool) {
	fn, ok := builtins[name]
	return fn, ok
}

func init() {
	RegisterBuiltin("base64_encode", func(args []Value, sink *Sink) Value {
		b := argAsBinary(args, 0, sink)
		if b == nil {
			return Nothing()
		}
		return NewString(b.Base64(), DefaultEncoding())
	})
	RegisterBuiltin("base64_decode", func(args []Value, sink *Sink) Value {
		if len(args) == 0 {
			return Nothing()
		}
		s, ok := args[0].(*String)
		if !ok {
			return Nothing()
		}
		return BinaryFromBase64(s.Go(), sink)
	})
	RegisterBuiltin("compress", func(args []Value, sink *Sink) Value {
		b := argAsBinary(args, 0, sink)
		if b == nil {
			return Nothing()
		}
		out, err := b.Deflate(6)
		if err != nil {
			if sink != nil {
				sink.Raise("COMPRESS-ERROR", err.Error(), nil, nil)
			}
			return Nothing()
		}
		return out
	})
	RegisterBuiltin("uncompress", func(args []Value, sink *Sink) Value {
		b := argAsBinary(args, 0, sink)
		if b == nil {
			return Nothing()
		}
		out, err := b.Inflate()
		if err != nil {
			if sink != nil {
				sink.Raise("COMPRESS-ERROR", err.Error(), nil, nil)
			}
			return Nothing()
		}
		return out
	})
}

func argAsBinary(args []Value, i int, sink *Sink) *Binary {
	if i >= len(args) {
		return nil
	}
	if b, ok := args[i].(*Binary); ok {
		return b
	}
	if s, ok := args[i].(*String); ok {
		return NewBinary(s.Bytes())
	}
	return nil
}
