package bersim

/*------------------------------------------------------------------
 *
 * Purpose:	Quadrature phase shift keying.
 *
 * Description:	Bits are taken in pairs.  For symbol k:
 *
 *			bit 2k   selects the sign of the quadrature (sine) carrier,
 *			bit 2k+1 selects the sign of the in-phase (cosine) carrier.
 *
 *		The symbol is the sum of the two, one of four phases 90
 *		degrees apart.  The receiver correlates against each
 *		carrier separately and puts the bits back in the same
 *		order.  Getting that order wrong doesn't fail loudly, it
 *		just doubles the bit error rate, so both directions live
 *		here side by side.
 *
 *------------------------------------------------------------------*/

import "gonum.org/v1/gonum/floats"

// QPSK carries two bits per symbol on orthogonal carriers.
type QPSK struct{}

func NewQPSK() QPSK {
	return QPSK{}
}

func (QPSK) Name() string { return "QPSK" }

func (QPSK) BitsPerSymbol() int { return 2 }

// Carriers returns the in-phase cosine at CARRIER_IN_PHASE and the quadrature sine at CARRIER_QUADRATURE.
// Segments that aren't whole carrier cycles are only accepted while the two carriers stay separable.
func (q QPSK) Carriers(cfg SimulationConfig) (CarrierSet, error) {
	var cs, err = synthesize(cfg, q, CosineCarrier, SineCarrier)
	if err != nil {
		return CarrierSet{}, err
	}

	if err := cs.checkSeparable(q.Name()); err != nil {
		return CarrierSet{}, err
	}

	return cs, nil
}

func (q QPSK) Modulate(bits BitSequence, carriers CarrierSet) (Waveform, error) {
	if err := checkModulate(q, 2, bits, carriers); err != nil {
		return nil, err
	}

	var sps = carriers.SamplesPerSymbol
	var out = make(Waveform, carriers.Len())

	for k := range carriers.Symbols {
		var qBit, iBit = bits[2*k], bits[2*k+1]
		var dst = out[k*sps : (k+1)*sps]

		floats.ScaleTo(dst, antipodal(iBit), carriers.Segment(CARRIER_IN_PHASE, k))
		floats.AddScaled(dst, antipodal(qBit), carriers.Segment(CARRIER_QUADRATURE, k))
	}

	return out, nil
}

func (q QPSK) Demodulate(received Waveform, carriers CarrierSet) (BitSequence, error) {
	if err := checkDemodulate(q, 2, received, carriers); err != nil {
		return nil, err
	}

	var sps = carriers.SamplesPerSymbol
	var bits = make(BitSequence, 2*carriers.Symbols)

	for k := range carriers.Symbols {
		var symbol = segment(received, k, sps)

		var inPhase = floats.Dot(symbol, carriers.Segment(CARRIER_IN_PHASE, k))
		var quadrature = floats.Dot(symbol, carriers.Segment(CARRIER_QUADRATURE, k))

		bits[2*k] = correlationBit(quadrature)
		bits[2*k+1] = correlationBit(inPhase)
	}

	return bits, nil
}
