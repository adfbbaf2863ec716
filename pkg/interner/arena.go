package interner

const defaultChunkSize = 4096

// unitArena provides arena-style allocation for interned UTF-16 contents.
// Contents are copied into pre-grown chunks, so every symbol's backing slice
// stays valid for the arena's lifetime and the GC sees a handful of large
// allocations instead of one per symbol.
type unitArena struct {
	chunks    [][]uint16
	chunkSize int
}

func newUnitArena(chunkSize int) *unitArena {
	if chunkSize <= 0 {
		chunkSize = defaultChunkSize
	}
	return &unitArena{chunkSize: chunkSize}
}

// alloc copies units into the arena and returns the arena-owned copy.
// The returned slice has its capacity clipped so appends never bleed into
// the next allocation.
func (a *unitArena) alloc(units []uint16) []uint16 {
	n := len(units)
	if n == 0 {
		return []uint16{}
	}
	// Oversized contents get a dedicated chunk.
	if n > a.chunkSize/4 {
		buf := make([]uint16, n)
		copy(buf, units)
		a.chunks = append(a.chunks, buf)
		return buf[:n:n]
	}
	if len(a.chunks) == 0 || cap(a.current())-len(a.current()) < n {
		a.chunks = append(a.chunks, make([]uint16, 0, a.chunkSize))
	}
	cur := a.current()
	start := len(cur)
	cur = append(cur, units...)
	a.chunks[len(a.chunks)-1] = cur
	return cur[start : start+n : start+n]
}

func (a *unitArena) current() []uint16 {
	return a.chunks[len(a.chunks)-1]
}

// size reports the number of code units stored.
func (a *unitArena) size() int {
	total := 0
	for _, c := range a.chunks {
		total += len(c)
	}
	return total
}
