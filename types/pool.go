package types

// Vec3Pool is a free-list of scratch vectors for hot recursive code paths.
// Every vector obtained via Acquire must be handed back with Release on all
// exit paths; a leaked vector is never reused and the pool simply grows.
//
// Vec3Pool is not safe for concurrent use.
type Vec3Pool struct {
	free []*Vec3

	// Number of vectors constructed by the pool over its lifetime.
	allocated int
}

// Create a new vector pool.
func NewVec3Pool() *Vec3Pool {
	return &Vec3Pool{
		free: make([]*Vec3, 0, 16),
	}
}

// Acquire pops a vector from the free-list or constructs a new one. The
// returned vector contents are unspecified.
func (p *Vec3Pool) Acquire() *Vec3 {
	if n := len(p.free); n > 0 {
		v := p.free[n-1]
		p.free = p.free[:n-1]
		return v
	}

	p.allocated++
	return new(Vec3)
}

// Release returns a vector to the free-list.
func (p *Vec3Pool) Release(v *Vec3) {
	if v == nil {
		return
	}
	p.free = append(p.free, v)
}

// Allocated returns the number of vectors the pool had to construct.
func (p *Vec3Pool) Allocated() int {
	return p.allocated
}

// Free returns the number of vectors waiting in the free-list.
func (p *Vec3Pool) Free() int {
	return len(p.free)
}
