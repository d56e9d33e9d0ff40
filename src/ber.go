package bersim

import "fmt"

// BitErrorRate is the fraction of positions where sent and received differ.
func BitErrorRate(sent, received BitSequence) (float64, error) {
	var errs, err = BitErrors(sent, received)
	if err != nil {
		return 0, err
	}

	return float64(errs) / float64(len(sent)), nil
}

// BitErrors counts differing positions.
func BitErrors(sent, received BitSequence) (int, error) {
	if len(sent) != len(received) {
		return 0, fmt.Errorf("%w: comparing %d sent bits with %d received bits", ErrConfiguration, len(sent), len(received))
	}

	if len(sent) == 0 {
		return 0, fmt.Errorf("%w: no bits to compare", ErrConfiguration)
	}

	var n = 0
	for i := range sent {
		if sent[i] != received[i] {
			n++
		}
	}

	return n, nil
}
