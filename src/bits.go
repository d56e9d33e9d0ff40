package bersim

import (
	"fmt"
	"math/rand/v2"
	"strings"

	"gonum.org/v1/gonum/stat/distuv"
)

// BitSequence holds one bit per element, each 0 or 1.
type BitSequence []uint8

// NewSource returns an independent, reproducible random stream.
// Tasks running at the same time should use the same seed with different stream numbers.
func NewSource(seed uint64, stream uint64) rand.Source {
	return rand.NewPCG(seed, stream)
}

// BitSource produces uniformly random bits.
type BitSource struct {
	coin distuv.Bernoulli
}

// NewBitSource draws from src.  A nil src falls back to the unseeded global generator,
// which is only useful when reproducibility does not matter.
func NewBitSource(src rand.Source) *BitSource {
	return &BitSource{
		coin: distuv.Bernoulli{P: 0.5, Src: src},
	}
}

// Generate returns n independent uniform bits.
func (b *BitSource) Generate(n int) (BitSequence, error) {
	if n <= 0 {
		return nil, fmt.Errorf("%w: cannot generate %d bits", ErrConfiguration, n)
	}

	var bits = make(BitSequence, n)
	for i := range bits {
		bits[i] = uint8(b.coin.Rand())
	}

	return bits, nil
}

// ParseBits accepts a string of '0' and '1' characters.  Spaces are ignored.
func ParseBits(s string) (BitSequence, error) {
	var bits BitSequence

	for i, c := range s {
		switch c {
		case '0':
			bits = append(bits, 0)
		case '1':
			bits = append(bits, 1)
		case ' ':
		default:
			return nil, fmt.Errorf("%w: unexpected character %q at position %d in bit string", ErrConfiguration, c, i)
		}
	}

	return bits, nil
}

func (b BitSequence) String() string {
	var sb strings.Builder
	for _, bit := range b {
		sb.WriteByte('0' + bit)
	}

	return sb.String()
}

// Complement returns a new sequence with every bit flipped.
func (b BitSequence) Complement() BitSequence {
	var c = make(BitSequence, len(b))
	for i, bit := range b {
		c[i] = bit ^ 1
	}

	return c
}

// validate rejects empty sequences and anything that isn't 0 or 1.
func (b BitSequence) validate() error {
	if len(b) == 0 {
		return fmt.Errorf("%w: empty bit sequence", ErrConfiguration)
	}

	for i, bit := range b {
		if bit > 1 {
			return fmt.Errorf("%w: element %d is %d, not a bit", ErrConfiguration, i, bit)
		}
	}

	return nil
}
