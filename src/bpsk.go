package bersim

import "gonum.org/v1/gonum/floats"

// BPSK flips the carrier phase by 180 degrees for a 1.
type BPSK struct{}

func NewBPSK() BPSK {
	return BPSK{}
}

func (BPSK) Name() string { return "BPSK" }

func (BPSK) BitsPerSymbol() int { return 1 }

func (b BPSK) Carriers(cfg SimulationConfig) (CarrierSet, error) {
	var cs, err = synthesize(cfg, b, SineCarrier)
	if err != nil {
		return CarrierSet{}, err
	}

	if err := cs.checkSeparable(b.Name()); err != nil {
		return CarrierSet{}, err
	}

	return cs, nil
}

func (b BPSK) Modulate(bits BitSequence, carriers CarrierSet) (Waveform, error) {
	if err := checkModulate(b, 1, bits, carriers); err != nil {
		return nil, err
	}

	var spb = carriers.SamplesPerSymbol
	var out = make(Waveform, carriers.Len())

	for k, bit := range bits {
		floats.ScaleTo(out[k*spb:(k+1)*spb], antipodal(bit), carriers.Segment(CARRIER_REFERENCE, k))
	}

	return out, nil
}

/*------------------------------------------------------------------
 *
 * Name:	Demodulate
 *
 * Purpose:	Coherent BPSK receiver.
 *
 * Description:	Each bit interval is correlated with the matching
 *		segment of the unmodified carrier.  The sign of the
 *		correlation is the decision: positive means the segment
 *		was sent as is (0), otherwise it was inverted (1).
 *
 *------------------------------------------------------------------*/

func (b BPSK) Demodulate(received Waveform, carriers CarrierSet) (BitSequence, error) {
	if err := checkDemodulate(b, 1, received, carriers); err != nil {
		return nil, err
	}

	var spb = carriers.SamplesPerSymbol
	var bits = make(BitSequence, carriers.Symbols)

	for k := range bits {
		bits[k] = correlationBit(floats.Dot(segment(received, k, spb), carriers.Segment(CARRIER_REFERENCE, k)))
	}

	return bits, nil
}

// antipodal maps 0 to +1 and 1 to -1.
func antipodal(bit uint8) float64 {
	if bit == 1 {
		return -1
	}

	return 1
}
