package iec104

import "sync"

/*
ValueCodec is the pair of pure functions that know how to turn one
information element's worth of bytes into a typed Go value and back. Len
is the fixed wire size of a single value (the IOA is handled separately
by decodeInformationObjects/encodeInformationObjects); every registered
type has a constant element width, so Len needs no data to compute.

Encode/Decode must be pure and allocation-light: they run once per
information object, potentially many times per ASDU, and must not retain
slices passed to Decode past the call (the caller may reuse the backing
array).
*/
type ValueCodec struct {
	Len    int
	Encode func(v interface{}) ([]byte, error)
	Decode func(b []byte) (interface{}, error)
}

// Registry maps a TypeID to the ValueCodec that knows its information
// element layout. A Registry is safe for concurrent reads once built; per
// the population model, RegisterType is meant to be called during
// start-up before the registry is handed to any session, but the guard
// mutex is kept so a misuse doesn't race silently.
type Registry struct {
	mu     sync.RWMutex
	codecs map[TypeID]ValueCodec
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{codecs: make(map[TypeID]ValueCodec)}
}

// RegisterType installs the codec for typeID, replacing any prior
// registration. It panics if codec.Len <= 0 or either function is nil,
// since an incomplete codec is a programming error, not a runtime one.
func (r *Registry) RegisterType(typeID TypeID, codec ValueCodec) {
	if codec.Len <= 0 {
		panic("iec104: ValueCodec.Len must be positive")
	}
	if codec.Encode == nil || codec.Decode == nil {
		panic("iec104: ValueCodec must have both Encode and Decode")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.codecs[typeID] = codec
}

func (r *Registry) lookup(typeID TypeID) (ValueCodec, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.codecs[typeID]
	return c, ok
}

// Registered reports whether typeID has a codec installed.
func (r *Registry) Registered(typeID TypeID) bool {
	_, ok := r.lookup(typeID)
	return ok
}

// DefaultRegistry holds the codecs for the mandatory type set registered
// by init() in types_monitor.go and types_control.go. Callers that need a
// private vocabulary (e.g. a test double, or a station that adds vendor
// types) should build their own Registry with NewRegistry instead of
// mutating this one.
var DefaultRegistry = NewRegistry()
