package token

import (
	"math/big"
)

// SubRange is one piece of a partitioned token range. Start and End are
// formatted boundary strings, Step is the 1-based index within the range.
type SubRange struct {
	Start string
	End   string
	Step  int
}

// Partitioner emits the sub-ranges of one owned range. It is a single-pass
// iterator: Next advances, SubRange returns the current piece. It cannot be
// restarted.
type Partitioner struct {
	boundaries []string
	step       int
	current    SubRange
}

// Partition splits the (start, end) interval into at most steps pieces.
// When the interval holds fewer keys than steps, a single sub-range
// covering the whole interval is emitted. An end at or below start means
// the owned range crosses the ring maximum back to the minimum; the
// boundaries then step from start toward the space maximum and continue
// from the space minimum toward end.
func (r *Ring) Partition(start, end *big.Int, steps int) *Partitioner {
	stepsBig := big.NewInt(int64(steps))

	var boundaries []string
	if end.Cmp(start) > 0 {
		if new(big.Int).Sub(end, start).Cmp(stepsBig) < 0 {
			return &Partitioner{boundaries: []string{r.Format(start), r.Format(end)}}
		}
		increment := new(big.Int).Div(new(big.Int).Sub(end, start), stepsBig)
		// The interval may not divide evenly, the last sub-range absorbs
		// the remainder.
		boundaries = r.boundariesBetween(start, end, increment, steps)
	} else {
		distance := new(big.Int).Add(
			new(big.Int).Sub(r.space.Max, start),
			new(big.Int).Sub(end, r.space.Min),
		)
		if distance.Cmp(big.NewInt(int64(steps-1))) <= 0 {
			return &Partitioner{boundaries: []string{r.Format(start), r.Format(end)}}
		}
		increment := new(big.Int).Div(distance, stepsBig)
		boundaries = r.boundariesBetween(start, r.space.Max, increment, -1)
		boundaries = append(boundaries, r.boundariesBetween(r.space.Min, end, increment, -1)...)
		if len(boundaries) > steps-1 {
			boundaries = boundaries[:len(boundaries)-1]
		}
	}

	// The final boundary is always the literal end value, so the union of
	// the emitted sub-ranges reaches end exactly.
	boundaries = append(boundaries, r.Format(end))
	return &Partitioner{boundaries: boundaries}
}

// boundariesBetween formats from, from+increment, ... up to but excluding
// to. A non-negative limit caps the number of boundaries.
func (r *Ring) boundariesBetween(from, to, increment *big.Int, limit int) []string {
	var out []string
	for x := new(big.Int).Set(from); x.Cmp(to) < 0; x.Add(x, increment) {
		if limit >= 0 && len(out) == limit {
			break
		}
		out = append(out, r.Format(x))
	}
	return out
}

// Next advances to the following sub-range and reports whether one exists.
func (p *Partitioner) Next() bool {
	if len(p.boundaries) < 2 {
		return false
	}
	p.step++
	p.current = SubRange{Start: p.boundaries[0], End: p.boundaries[1], Step: p.step}
	p.boundaries = p.boundaries[1:]
	return true
}

// SubRange returns the sub-range the iterator currently points at.
func (p *Partitioner) SubRange() SubRange {
	return p.current
}
