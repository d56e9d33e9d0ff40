package bersim

import (
	"fmt"
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/stat/distuv"
)

// NoiseChannel adds white Gaussian noise.
type NoiseChannel struct {
	src rand.Source
}

// NewNoiseChannel draws noise from src.  See NewBitSource about a nil src.
func NewNoiseChannel(src rand.Source) *NoiseChannel {
	return &NoiseChannel{src: src}
}

/*------------------------------------------------------------------
 *
 * Name:	Apply
 *
 * Purpose:	Pass a waveform through the channel.
 *
 * Inputs:	w	- Transmitted waveform.  Not modified.
 *
 *		std	- Standard deviation of the noise added to each
 *			  sample.  Zero gives an exact copy, which is what
 *			  the round trip tests rely on.
 *
 * Returns:	New waveform of the same length.
 *
 *------------------------------------------------------------------*/

func (c *NoiseChannel) Apply(w Waveform, std float64) (Waveform, error) {
	if math.IsNaN(std) || std < 0 {
		return nil, fmt.Errorf("%w: noise standard deviation must be non-negative, not %g", ErrNumericDomain, std)
	}

	var noisy = make(Waveform, len(w))

	if std == 0 {
		copy(noisy, w)
		return noisy, nil
	}

	var gauss = distuv.Normal{Mu: 0, Sigma: std, Src: c.src}
	for i, s := range w {
		noisy[i] = s + gauss.Rand()
	}

	return noisy, nil
}
