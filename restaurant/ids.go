package restaurant

import "emperror.dev/errors"

// IDGenerator assigns the id of a newly created restaurant. Next is called
// with the directory write lock held.
type IDGenerator interface {
	// Next returns the id for a new record given the current number of
	// records.
	Next(count int) int
	// Observe is told about every id already present in the directory, so
	// generators can skip past seeded records.
	Observe(id int)
}

// Sequence hands out monotonically increasing ids that are never reused,
// even after deletions.
type Sequence struct {
	last int
}

func NewSequence() *Sequence {
	return &Sequence{}
}

func (s *Sequence) Next(int) int {
	s.last++
	return s.last
}

func (s *Sequence) Observe(id int) {
	if id > s.last {
		s.last = id
	}
}

// LengthBased assigns count+1. After a deletion it can hand out an id that
// is still in use by another record.
type LengthBased struct{}

func (LengthBased) Next(count int) int { return count + 1 }

func (LengthBased) Observe(int) {}

const (
	IDsSequence = "sequence"
	IDsLength   = "length"
)

// NewIDGenerator resolves a generator by its configured name.
func NewIDGenerator(name string) (IDGenerator, error) {
	switch name {
	case "", IDsSequence:
		return NewSequence(), nil
	case IDsLength:
		return LengthBased{}, nil
	}
	return nil, errors.NewWithDetails("unknown id generator", "name", name)
}
