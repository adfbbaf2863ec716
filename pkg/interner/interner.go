// Package interner maps decoded UTF-16 text to stable integer symbols.
//
// One Interner belongs to one parse session. It is not safe for concurrent
// use; callers that share an Interner between goroutines must serialise
// access themselves.
package interner

import (
	"unicode/utf16"
)

// Sym is an opaque handle to interned text. Two symbols are equal exactly
// when their contents are equal and they come from the same Interner.
type Sym uint32

// Well-known symbols, pre-interned by New in this order.
const (
	SymEmptyString Sym = iota
	SymArguments
	SymAs
	SymAsync
	SymAwait
	SymEval
	SymFrom
	SymGet
	SymImplements
	SymInterface
	SymLet
	SymMeta
	SymOf
	SymPackage
	SymPrivate
	SymProtected
	SymPublic
	SymSet
	SymStatic
	SymTarget
	SymUseStrict
	SymYield
	SymDefault
	numStaticSyms
)

var staticStrings = [...]string{
	SymEmptyString: "",
	SymArguments:   "arguments",
	SymAs:          "as",
	SymAsync:       "async",
	SymAwait:       "await",
	SymEval:        "eval",
	SymFrom:        "from",
	SymGet:         "get",
	SymImplements:  "implements",
	SymInterface:   "interface",
	SymLet:         "let",
	SymMeta:        "meta",
	SymOf:          "of",
	SymPackage:     "package",
	SymPrivate:     "private",
	SymProtected:   "protected",
	SymPublic:      "public",
	SymSet:         "set",
	SymStatic:      "static",
	SymTarget:      "target",
	SymUseStrict:   "use strict",
	SymYield:       "yield",
	SymDefault:     "default",
}

// Interner is the per-session symbol table.
type Interner struct {
	arena   *unitArena
	index   map[string]Sym
	entries [][]uint16
}

// New creates an Interner with the well-known symbols already present.
func New() *Interner {
	in := &Interner{
		arena: newUnitArena(defaultChunkSize),
		index: make(map[string]Sym, 256),
	}
	for i := Sym(0); i < numStaticSyms; i++ {
		if got := in.InternString(staticStrings[i]); got != i {
			panic("interner: static symbol order mismatch")
		}
	}
	return in
}

// Intern returns the symbol for units, adding it when it is new. The slice
// is copied; the caller may reuse it.
func (in *Interner) Intern(units []uint16) Sym {
	key := keyOf(units)
	if sym, ok := in.index[key]; ok {
		return sym
	}
	sym := Sym(len(in.entries))
	in.entries = append(in.entries, in.arena.alloc(units))
	in.index[key] = sym
	return sym
}

// InternString interns the UTF-16 encoding of s.
func (in *Interner) InternString(s string) Sym {
	return in.Intern(utf16.Encode([]rune(s)))
}

// Lookup reports the symbol for units without interning.
func (in *Interner) Lookup(units []uint16) (Sym, bool) {
	sym, ok := in.index[keyOf(units)]
	return sym, ok
}

// Resolve returns the UTF-16 contents of sym. The returned slice is owned by
// the Interner and must not be modified. Resolve panics on a symbol that was
// not produced by this Interner.
func (in *Interner) Resolve(sym Sym) []uint16 {
	return in.entries[sym]
}

// ResolveString decodes the contents of sym. Lone surrogates become U+FFFD.
func (in *Interner) ResolveString(sym Sym) string {
	return string(utf16.Decode(in.entries[sym]))
}

// Len reports how many distinct symbols exist.
func (in *Interner) Len() int {
	return len(in.entries)
}

// keyOf packs code units little-endian into a string usable as a map key.
func keyOf(units []uint16) string {
	buf := make([]byte, len(units)*2)
	for i, u := range units {
		buf[2*i] = byte(u)
		buf[2*i+1] = byte(u >> 8)
	}
	return string(buf)
}
