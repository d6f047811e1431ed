package token

import (
	"fmt"
	"math/big"
	"sort"
)

// Ring holds the sorted positions of every ring member plus the sorted
// tokens owned by the target node. It is built once per run from nodetool
// output and never mutated afterwards.
type Ring struct {
	space  Space
	tokens []*big.Int // every ring member position, ascending
	owned  []*big.Int // target node tokens, ascending
}

// NewRing builds the ring model. The token space is selected by inspecting
// the smallest ring token: a Murmur3 ring always starts below zero once the
// cluster has a few (v)nodes, otherwise the random partitioner and its
// 39-digit format are assumed.
func NewRing(ringTokens, ownedTokens []*big.Int) (*Ring, error) {
	if len(ringTokens) == 0 {
		return nil, fmt.Errorf("no ring tokens found, cannot compute ranges")
	}
	r := &Ring{
		space:  Murmur3Space,
		tokens: sortTokens(ringTokens),
		owned:  sortTokens(ownedTokens),
	}
	if r.tokens[0].Sign() >= 0 {
		r.space = RandomSpace
	}
	return r, nil
}

func sortTokens(tokens []*big.Int) []*big.Int {
	out := make([]*big.Int, len(tokens))
	copy(out, tokens)
	sort.Slice(out, func(i, j int) bool { return out[i].Cmp(out[j]) < 0 })
	return out
}

// Space returns the selected token space.
func (r *Ring) Space() Space {
	return r.space
}

// Owned returns the tokens owned by the target node, ascending. Each owned
// token marks the end of a range the node is responsible for.
func (r *Ring) Owned() []*big.Int {
	return r.owned
}

// Format returns the token formatted per the selected space.
func (r *Ring) Format(t *big.Int) string {
	return r.space.Format(t)
}

// PrecedingToken returns the ring token immediately before t. When t is the
// ring minimum, the ring wraps around and the last token is returned.
func (r *Ring) PrecedingToken(t *big.Int) *big.Int {
	for i := len(r.tokens) - 1; i >= 0; i-- {
		if t.Cmp(r.tokens[i]) > 0 {
			return r.tokens[i]
		}
	}
	return r.tokens[len(r.tokens)-1]
}
