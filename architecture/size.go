package architecture

const (
	// Assumption: we only support 64 bit architecture.
	AddressByteSize = 8
)

// AlignUp rounds offset up to the next multiple of alignment.  alignment must
// be a power of two.
func AlignUp(offset int, alignment int) int {
	if alignment <= 0 || alignment&(alignment-1) != 0 {
		panic("alignment must be a positive power of two")
	}

	return (offset + alignment - 1) &^ (alignment - 1)
}

func IsPowerOfTwo(value int64) bool {
	return value > 0 && value&(value-1) == 0
}
