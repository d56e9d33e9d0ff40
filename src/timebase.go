package bersim

/*------------------------------------------------------------------
 *
 * Purpose:	Sampling time grid shared by carrier synthesis and the
 *		segment boundaries used when demodulating.
 *
 * Description:	The simulation always spans one unit of time.  With a
 *		sampling frequency of fs there are exactly fs samples,
 *		t[i] = i / fs, covering [0, 1).
 *
 *------------------------------------------------------------------*/

import "fmt"

// TimeGrid holds the sample instants.  Treat as read-only.
type TimeGrid []float64

// NewTimeGrid returns samplingFrequency evenly spaced points over [0, 1).
func NewTimeGrid(samplingFrequency int) (TimeGrid, error) {
	if samplingFrequency <= 0 {
		return nil, fmt.Errorf("%w: sampling frequency must be positive, not %d", ErrConfiguration, samplingFrequency)
	}

	var grid = make(TimeGrid, samplingFrequency)
	for i := range grid {
		grid[i] = float64(i) / float64(samplingFrequency)
	}

	return grid, nil
}

// SamplesPerUnit is the number of samples in each of units equal segments.
// The division must be exact and non-zero, otherwise segments would not line up.
func SamplesPerUnit(samplingFrequency int, units int) (int, error) {
	if units <= 0 {
		return 0, fmt.Errorf("%w: cannot split %d samples into %d segments", ErrConfiguration, samplingFrequency, units)
	}

	if samplingFrequency%units != 0 {
		return 0, fmt.Errorf("%w: %d samples do not divide evenly into %d segments", ErrConfiguration, samplingFrequency, units)
	}

	var n = samplingFrequency / units
	if n == 0 {
		return 0, fmt.Errorf("%w: %d samples give zero samples per segment for %d segments", ErrConfiguration, samplingFrequency, units)
	}

	return n, nil
}
