package token

import (
	"fmt"
	"math/big"
)

// Space is the numeric space tokens live in. The cluster's partitioner
// determines the space: Murmur3 produces signed 64-bit tokens, the random
// partitioner produces 127-bit unsigned ones, so tokens are kept as big
// integers.
type Space struct {
	Min    *big.Int
	Max    *big.Int
	format string
}

var (
	// Murmur3Space covers [-2^63, 2^63-1].
	Murmur3Space = Space{
		Min:    new(big.Int).Neg(new(big.Int).Lsh(big.NewInt(1), 63)),
		Max:    new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 63), big.NewInt(1)),
		format: "%+021d",
	}
	// RandomSpace covers [0, 2^127-1].
	RandomSpace = Space{
		Min:    big.NewInt(0),
		Max:    new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 127), big.NewInt(1)),
		format: "%039d",
	}
)

// Format returns the fixed-width, zero-padded representation of the token,
// the form nodetool expects for the -st and -et arguments.
func (s Space) Format(t *big.Int) string {
	return fmt.Sprintf(s.format, t)
}

// Parse converts a decimal token string, as printed by nodetool or by
// Format, back to its numeric value.
func Parse(value string) (*big.Int, error) {
	t, ok := new(big.Int).SetString(value, 10)
	if !ok {
		return nil, fmt.Errorf("invalid token value \"%s\"", value)
	}
	return t, nil
}
