package bersim

/*------------------------------------------------------------------
 *
 * Purpose:	On-off amplitude shift keying.
 *
 * Description:	A 1 is sent as a full carrier for the bit interval,
 *		a 0 as silence.  The receiver rectifies, thresholds each
 *		sample and takes a majority vote over the bit interval.
 *
 *------------------------------------------------------------------*/

import (
	"fmt"
	"math"
)

// ASKDecisionThreshold is the rectified level above which a sample counts as "carrier present".
// Chosen empirically for a unit amplitude carrier and the sweep's noise range.
// Changing it reshapes the ASK BER curve.
const ASKDecisionThreshold = 0.4

// ASK is on-off keying of a sine carrier.
type ASK struct {
	// Threshold overrides ASKDecisionThreshold when non-zero.
	Threshold float64
}

func NewASK() ASK {
	return ASK{Threshold: ASKDecisionThreshold}
}

func (ASK) Name() string { return "ASK" }

func (ASK) BitsPerSymbol() int { return 1 }

// Carriers refuses configurations where a full carrier segment wouldn't win the vote,
// e.g. 4 samples per cycle puts exactly half of them on the zero crossings.
func (a ASK) Carriers(cfg SimulationConfig) (CarrierSet, error) {
	var cs, err = synthesize(cfg, a, SineCarrier)
	if err != nil {
		return CarrierSet{}, err
	}

	var threshold = a.threshold()
	var spb = cs.SamplesPerSymbol

	for k := range cs.Symbols {
		var high = countAbove(cs.Segment(CARRIER_REFERENCE, k), threshold)
		if 2*high <= spb {
			return CarrierSet{}, fmt.Errorf("%w: ASK bit %d has only %d of %d carrier samples above %g, a 1 would decode as 0",
				ErrConfiguration, k, high, spb, threshold)
		}
	}

	return cs, nil
}

func (a ASK) Modulate(bits BitSequence, carriers CarrierSet) (Waveform, error) {
	if err := checkModulate(a, 1, bits, carriers); err != nil {
		return nil, err
	}

	var spb = carriers.SamplesPerSymbol
	var ref = carriers.References[CARRIER_REFERENCE]
	var out = make(Waveform, len(ref))

	for k, bit := range bits {
		// Repeating the bit across the interval and multiplying is the same as a gate.
		if bit == 0 {
			continue
		}

		copy(out[k*spb:(k+1)*spb], ref[k*spb:(k+1)*spb])
	}

	return out, nil
}

func (a ASK) Demodulate(received Waveform, carriers CarrierSet) (BitSequence, error) {
	if err := checkDemodulate(a, 1, received, carriers); err != nil {
		return nil, err
	}

	var threshold = a.threshold()
	var spb = carriers.SamplesPerSymbol
	var bits = make(BitSequence, carriers.Symbols)

	for k := range bits {
		var high = countAbove(segment(received, k, spb), threshold)

		// Strictly more than half.  A tie is a 0.
		if 2*high > spb {
			bits[k] = 1
		}
	}

	return bits, nil
}

func (a ASK) threshold() float64 {
	if a.Threshold == 0 {
		return ASKDecisionThreshold
	}

	return a.Threshold
}

// countAbove counts rectified samples over the threshold.
func countAbove(w Waveform, threshold float64) int {
	var n = 0
	for _, s := range w {
		if math.Abs(s) > threshold {
			n++
		}
	}

	return n
}
