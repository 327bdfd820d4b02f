package vm

import (
	"fmt"

	"njscore/pkg/errors"
)

// Approximate footprints charged against a Pool. They only need to be
// stable, not exact.
const (
	objectSize   = 96
	propertySize = 48
	valueSize    = 40
)

// Pool is the memory arena scoped to an engine or a VM instance. Nothing
// is released individually: the whole pool goes away with its owner.
type Pool struct {
	limit uint64 // 0 means unbounded
	used  uint64
}

// NewPool creates a pool that refuses allocations past limit bytes.
func NewPool(limit uint64) *Pool {
	return &Pool{limit: limit}
}

// Charge accounts for size bytes without materialising them.
func (p *Pool) Charge(size int) error {
	if p == nil || size <= 0 {
		return nil
	}
	if p.limit != 0 && p.used+uint64(size) > p.limit {
		return errors.ErrOutOfMemory
	}
	p.used += uint64(size)
	return nil
}

// Zalloc returns a zeroed block of size bytes.
func (p *Pool) Zalloc(size int) ([]byte, error) {
	if err := p.Charge(size); err != nil {
		return nil, err
	}
	return make([]byte, size), nil
}

// Sprintf formats into pool-accounted memory.
func (p *Pool) Sprintf(format string, args ...any) (string, error) {
	s := fmt.Sprintf(format, args...)
	if err := p.Charge(len(s) + 1); err != nil {
		return "", err
	}
	return s, nil
}

// Used returns the number of bytes handed out so far.
func (p *Pool) Used() uint64 {
	if p == nil {
		return 0
	}
	return p.used
}

// Limit returns the configured ceiling, 0 when unbounded.
func (p *Pool) Limit() uint64 {
	if p == nil {
		return 0
	}
	return p.limit
}
