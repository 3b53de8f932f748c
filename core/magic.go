package core

import (
	"math/rand"

	"github.com/op/go-logging"
)

var magicLog = logging.MustGetLogger("core.magic")

// magicEntry is the per-square data needed to index into a sliding
// piece's flat attack table: (occupied & mask) * magic >> shift gives
// the slot for the current occupancy.
type magicEntry struct {
	mask  uint64
	magic uint64
	shift uint
	table []uint64
}

var (
	rookMagics   [64]magicEntry
	bishopMagics [64]magicEntry
)

// magicSearchSeed is fixed so magic-number search is reproducible; a
// fallback to ray-walking kicks in if the search runs out of attempts
// for a square (see findMagic).
const magicSearchSeed = 0xC0FFEE1234567

const magicSearchAttempts = 1_000_000

func init() {
	rng := rand.New(rand.NewSource(magicSearchSeed))
	for sq := 0; sq < 64; sq++ {
		initMagic(&rookMagics[sq], sq, rookMask(sq), rookAttacksSlow, rng)
		initMagic(&bishopMagics[sq], sq, bishopMask(sq), bishopAttacksSlow, rng)
	}
}

func initMagic(e *magicEntry, sq int, mask uint64, slow func(int, uint64) uint64, rng *rand.Rand) {
	bits := popCount(mask)
	e.mask = mask
	e.shift = uint(64 - bits)

	occupancies := make([]uint64, 1<<bits)
	references := make([]uint64, 1<<bits)
	for i := range occupancies {
		occupancies[i] = indexToOccupancy(i, mask)
		references[i] = slow(sq, occupancies[i])
	}

	table := make([]uint64, 1<<bits)
	magic, ok := findMagic(mask, bits, occupancies, references, table, rng)
	if !ok {
		magicLog.Warningf("square %d: magic search exhausted %d attempts, falling back to ray-walking", sq, magicSearchAttempts)
		e.magic = 0
		e.table = nil
		return
	}
	e.magic = magic
	e.table = table
}

func findMagic(mask uint64, bits int, occupancies, references, scratch []uint64, rng *rand.Rand) (uint64, bool) {
	shift := uint(64 - bits)
	for attempt := 0; attempt < magicSearchAttempts; attempt++ {
		candidate := sparseRandom64(rng)
		if popCount((mask*candidate)&0xFF00000000000000) < 6 {
			continue
		}

		for i := range scratch {
			scratch[i] = 0
		}

		used := make([]bool, len(scratch))
		ok := true
		for i, occ := range occupancies {
			idx := (occ * candidate) >> shift
			if !used[idx] {
				used[idx] = true
				scratch[idx] = references[i]
			} else if scratch[idx] != references[i] {
				ok = false
				break
			}
		}
		if ok {
			return candidate, true
		}
	}
	return 0, false
}

func sparseRandom64(rng *rand.Rand) uint64 {
	return rng.Uint64() & rng.Uint64() & rng.Uint64()
}

// indexToOccupancy maps an integer 0..2^bits-1 to one of the 2^bits
// occupancy subsets of mask.
func indexToOccupancy(index int, mask uint64) uint64 {
	var occ uint64
	bitsLeft := mask
	for i := 0; bitsLeft != 0; i++ {
		sq := popLSB(&bitsLeft)
		if index&(1<<i) != 0 {
			occ |= squareBB(sq)
		}
	}
	return occ
}

func rookMask(sq int) uint64 {
	f, r := fileOf(sq), rankOf(sq)
	var mask uint64
	for nf := f + 1; nf < 7; nf++ {
		mask |= squareBB(r*8 + nf)
	}
	for nf := f - 1; nf > 0; nf-- {
		mask |= squareBB(r*8 + nf)
	}
	for nr := r + 1; nr < 7; nr++ {
		mask |= squareBB(nr*8 + f)
	}
	for nr := r - 1; nr > 0; nr-- {
		mask |= squareBB(nr*8 + f)
	}
	return mask
}

func bishopMask(sq int) uint64 {
	f, r := fileOf(sq), rankOf(sq)
	var mask uint64
	for nf, nr := f+1, r+1; nf < 7 && nr < 7; nf, nr = nf+1, nr+1 {
		mask |= squareBB(nr*8 + nf)
	}
	for nf, nr := f+1, r-1; nf < 7 && nr > 0; nf, nr = nf+1, nr-1 {
		mask |= squareBB(nr*8 + nf)
	}
	for nf, nr := f-1, r+1; nf > 0 && nr < 7; nf, nr = nf-1, nr+1 {
		mask |= squareBB(nr*8 + nf)
	}
	for nf, nr := f-1, r-1; nf > 0 && nr > 0; nf, nr = nf-1, nr-1 {
		mask |= squareBB(nr*8 + nf)
	}
	return mask
}

func rookAttacksSlow(sq int, occ uint64) uint64 {
	f, r := fileOf(sq), rankOf(sq)
	var attacks uint64
	for nf := f + 1; nf < 8; nf++ {
		s := r*8 + nf
		attacks |= squareBB(s)
		if occ&squareBB(s) != 0 {
			break
		}
	}
	for nf := f - 1; nf >= 0; nf-- {
		s := r*8 + nf
		attacks |= squareBB(s)
		if occ&squareBB(s) != 0 {
			break
		}
	}
	for nr := r + 1; nr < 8; nr++ {
		s := nr*8 + f
		attacks |= squareBB(s)
		if occ&squareBB(s) != 0 {
			break
		}
	}
	for nr := r - 1; nr >= 0; nr-- {
		s := nr*8 + f
		attacks |= squareBB(s)
		if occ&squareBB(s) != 0 {
			break
		}
	}
	return attacks
}

func bishopAttacksSlow(sq int, occ uint64) uint64 {
	f, r := fileOf(sq), rankOf(sq)
	var attacks uint64
	for nf, nr := f+1, r+1; nf < 8 && nr < 8; nf, nr = nf+1, nr+1 {
		s := nr*8 + nf
		attacks |= squareBB(s)
		if occ&squareBB(s) != 0 {
			break
		}
	}
	for nf, nr := f+1, r-1; nf < 8 && nr >= 0; nf, nr = nf+1, nr-1 {
		s := nr*8 + nf
		attacks |= squareBB(s)
		if occ&squareBB(s) != 0 {
			break
		}
	}
	for nf, nr := f-1, r+1; nf >= 0 && nr < 8; nf, nr = nf-1, nr+1 {
		s := nr*8 + nf
		attacks |= squareBB(s)
		if occ&squareBB(s) != 0 {
			break
		}
	}
	for nf, nr := f-1, r-1; nf >= 0 && nr >= 0; nf, nr = nf-1, nr-1 {
		s := nr*8 + nf
		attacks |= squareBB(s)
		if occ&squareBB(s) != 0 {
			break
		}
	}
	return attacks
}

func rookAttacks(sq int, occ uint64) uint64 {
	e := &rookMagics[sq]
	if e.table == nil {
		return rookAttacksSlow(sq, occ)
	}
	idx := ((occ & e.mask) * e.magic) >> e.shift
	return e.table[idx]
}

func bishopAttacks(sq int, occ uint64) uint64 {
	e := &bishopMagics[sq]
	if e.table == nil {
		return bishopAttacksSlow(sq, occ)
	}
	idx := ((occ & e.mask) * e.magic) >> e.shift
	return e.table[idx]
}

func queenAttacks(sq int, occ uint64) uint64 {
	return rookAttacks(sq, occ) | bishopAttacks(sq, occ)
}
