package interner

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStaticSymbols(t *testing.T) {
	in := New()
	assert.Equal(t, SymEval, in.InternString("eval"))
	assert.Equal(t, SymArguments, in.InternString("arguments"))
	assert.Equal(t, SymUseStrict, in.InternString("use strict"))
	assert.Equal(t, SymEmptyString, in.Intern(nil))
	assert.Equal(t, int(numStaticSyms), in.Len())
}

func TestInternIsIdempotent(t *testing.T) {
	in := New()
	a := in.InternString("hello")
	b := in.Intern([]uint16{'h', 'e', 'l', 'l', 'o'})
	c := in.InternString("world")

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
	assert.Equal(t, "hello", in.ResolveString(a))
	assert.Equal(t, []uint16{'w', 'o', 'r', 'l', 'd'}, in.Resolve(c))
}

func TestInternCopiesInput(t *testing.T) {
	in := New()
	buf := []uint16{'a', 'b'}
	sym := in.Intern(buf)
	buf[0] = 'z'
	assert.Equal(t, "ab", in.ResolveString(sym))

	_, ok := in.Lookup([]uint16{'z', 'b'})
	assert.False(t, ok)
}

func TestLoneSurrogatesAreDistinct(t *testing.T) {
	in := New()
	hi := in.Intern([]uint16{0xD801})
	pair := in.Intern([]uint16{0xD801, 0xDC37})
	require.NotEqual(t, hi, pair)
	assert.Equal(t, "\U00010437", in.ResolveString(pair))
	assert.Equal(t, "\uFFFD", in.ResolveString(hi))
}

func TestArenaSpansChunks(t *testing.T) {
	in := New()
	syms := make([]Sym, 0, 2000)
	for i := 0; i < 2000; i++ {
		syms = append(syms, in.InternString(fmt.Sprintf("identifier_%d", i)))
	}
	for i, sym := range syms {
		assert.Equal(t, fmt.Sprintf("identifier_%d", i), in.ResolveString(sym))
	}
	assert.Greater(t, len(in.arena.chunks), 1)

	long := make([]uint16, defaultChunkSize)
	for i := range long {
		long[i] = 'x'
	}
	sym := in.Intern(long)
	assert.Len(t, in.Resolve(sym), defaultChunkSize)
	assert.Equal(t, syms[0], in.InternString("identifier_0"))
}
