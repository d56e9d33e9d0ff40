package bersim

/*------------------------------------------------------------------
 *
 * Purpose:	Reference carriers for modulation and for the
 *		correlation receivers.
 *
 * Description:	The carriers are computed once per scheme and
 *		configuration, then only read.  Segments are slices of
 *		the full waveform, not copies, so callers must not write
 *		through them.
 *
 *------------------------------------------------------------------*/

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
)

// Waveform is a sequence of real samples.
type Waveform []float64

// separationFloor is the per-sample margin a noiseless correlation must clear.
// Anything closer to zero could be flipped by rounding.
const separationFloor = 1e-9

// Carrier indexes into CarrierSet.References.
const (
	CARRIER_REFERENCE  = 0 // Sine, for ASK and BPSK.
	CARRIER_IN_PHASE   = 0 // Cosine, QPSK.
	CARRIER_QUADRATURE = 1 // Sine, QPSK.
)

// CarrierSet is one or two reference carriers split into Symbols equal segments.
type CarrierSet struct {
	References       []Waveform
	Symbols          int
	SamplesPerSymbol int
}

// SineCarrier returns sin(2π·f·t) sampled on the grid.
func SineCarrier(frequency int, grid TimeGrid) Waveform {
	var w = make(Waveform, len(grid))
	for i, t := range grid {
		w[i] = math.Sin(2 * math.Pi * float64(frequency) * t)
	}

	return w
}

// CosineCarrier returns cos(2π·f·t) sampled on the grid.
func CosineCarrier(frequency int, grid TimeGrid) Waveform {
	var w = make(Waveform, len(grid))
	for i, t := range grid {
		w[i] = math.Cos(2 * math.Pi * float64(frequency) * t)
	}

	return w
}

// NewCarrierSet partitions each reference into symbols equal contiguous segments.
// All references must have the same length and that length must divide evenly.
func NewCarrierSet(symbols int, references ...Waveform) (CarrierSet, error) {
	if len(references) == 0 {
		return CarrierSet{}, fmt.Errorf("%w: a carrier set needs at least one reference", ErrConfiguration)
	}

	var n = len(references[0])
	for i, r := range references[1:] {
		if len(r) != n {
			return CarrierSet{}, fmt.Errorf("%w: reference %d has %d samples, expected %d", ErrConfiguration, i+1, len(r), n)
		}
	}

	var perSymbol, err = SamplesPerUnit(n, symbols)
	if err != nil {
		return CarrierSet{}, fmt.Errorf("carrier segments: %w", err)
	}

	return CarrierSet{
		References:       references,
		Symbols:          symbols,
		SamplesPerSymbol: perSymbol,
	}, nil
}

// Segment returns segment k of reference ref.  Read-only view.
func (cs CarrierSet) Segment(ref int, k int) Waveform {
	var start = k * cs.SamplesPerSymbol
	return cs.References[ref][start : start+cs.SamplesPerSymbol : start+cs.SamplesPerSymbol]
}

// Len is the number of samples in each reference.
func (cs CarrierSet) Len() int {
	if len(cs.References) == 0 {
		return 0
	}

	return len(cs.References[0])
}

// check makes sure the set was built for this many references and symbols.
func (cs CarrierSet) check(scheme string, references int, symbols int) error {
	if len(cs.References) != references {
		return fmt.Errorf("%w: %s needs %d carrier references, got %d", ErrConfiguration, scheme, references, len(cs.References))
	}

	if cs.Symbols != symbols {
		return fmt.Errorf("%w: %s carrier set has %d segments, expected %d", ErrConfiguration, scheme, cs.Symbols, symbols)
	}

	return nil
}

/*------------------------------------------------------------------
 *
 * Name:	checkSeparable
 *
 * Purpose:	Make sure a correlation receiver can tell the symbols
 *		apart in every segment, with no noise at all.
 *
 * Description:	A segment landing on the carrier's zero crossings
 *		has no energy and always decodes the same way.  With two
 *		references, each one's energy must also beat the cross
 *		term, otherwise the other carrier decides the sign.
 *		Both happen when a segment isn't a whole number of
 *		carrier cycles.
 *
 *------------------------------------------------------------------*/

func (cs CarrierSet) checkSeparable(scheme string) error {
	var floor = separationFloor * float64(cs.SamplesPerSymbol)

	for k := range cs.Symbols {
		var cross = 0.0
		if len(cs.References) == 2 {
			cross = math.Abs(floats.Dot(cs.Segment(0, k), cs.Segment(1, k)))
		}

		for r := range cs.References {
			var seg = cs.Segment(r, k)
			var energy = floats.Dot(seg, seg)

			if energy-cross <= floor {
				return fmt.Errorf("%w: %s carrier %d segment %d can't carry a bit (energy %.3g, cross term %.3g); use whole carrier cycles per symbol",
					ErrConfiguration, scheme, r, k, energy, cross)
			}
		}
	}

	return nil
}

// segment splits a received waveform the same way the carriers were split.
func segment(w Waveform, k int, perSymbol int) Waveform {
	var start = k * perSymbol
	return w[start : start+perSymbol]
}
