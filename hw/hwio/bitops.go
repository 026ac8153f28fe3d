package hwio

// Field32 extracts the width-bit field of v starting at bit shift.
func Field32(v uint32, shift, width uint) uint32 {
	return v >> shift & (1<<width - 1)
}

// SetField32 replaces the width-bit field of v starting at bit shift.
func SetField32(v *uint32, shift, width uint, field uint32) {
	mask := uint32(1<<width-1) << shift
	*v = *v&^mask | field<<shift&mask
}
