package bersim

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func Test_BitSourceReproducible(t *testing.T) {
	var a, errA = NewBitSource(NewSource(42, 7)).Generate(500)
	var b, errB = NewBitSource(NewSource(42, 7)).Generate(500)
	var c, errC = NewBitSource(NewSource(42, 8)).Generate(500)

	require.NoError(t, errA)
	require.NoError(t, errB)
	require.NoError(t, errC)

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c, "different streams should give different bits")
}

func Test_BitSourceValues(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		var n = rapid.IntRange(1, 2000).Draw(t, "n")
		var seed = rapid.Uint64().Draw(t, "seed")

		var bits, err = NewBitSource(NewSource(seed, 0)).Generate(n)
		require.NoError(t, err)

		assert.Len(t, bits, n)
		assert.NoError(t, bits.validate())
	})
}

func Test_BitSourceIsFair(t *testing.T) {
	const n = 100000

	var bits, err = NewBitSource(NewSource(1, 1)).Generate(n)
	require.NoError(t, err)

	var ones = 0
	for _, b := range bits {
		ones += int(b)
	}

	assert.InDelta(t, 0.5, float64(ones)/n, 0.01)
}

func Test_BitSourceRejectsNonPositive(t *testing.T) {
	var src = NewBitSource(NewSource(0, 0))

	var _, err = src.Generate(0)
	assert.ErrorIs(t, err, ErrConfiguration)

	_, err = src.Generate(-3)
	assert.ErrorIs(t, err, ErrConfiguration)
}

func Test_ParseBits(t *testing.T) {
	var bits, err = ParseBits("1100 01")
	require.NoError(t, err)

	assert.Equal(t, BitSequence{1, 1, 0, 0, 0, 1}, bits)
	assert.Equal(t, "110001", bits.String())
	assert.Equal(t, "001110", bits.Complement().String())

	_, err = ParseBits("10x1")
	assert.ErrorIs(t, err, ErrConfiguration)
}

func Test_BitSequenceValidate(t *testing.T) {
	assert.ErrorIs(t, BitSequence{}.validate(), ErrConfiguration)
	assert.ErrorIs(t, BitSequence{0, 2}.validate(), ErrConfiguration)
	assert.NoError(t, BitSequence{0, 1}.validate())
}
