package bersim

import (
	"fmt"
	"strings"
)

// Scheme is a modulation scheme: it turns bits into a passband waveform
// and a received waveform back into bits.
//
// Implementations are stateless, so one value may be shared by any number of
// concurrent trials.  Everything a trial needs comes in through the arguments.
type Scheme interface {
	// Name is "ASK", "BPSK" or "QPSK".
	Name() string

	// BitsPerSymbol is 1 for ASK and BPSK, 2 for QPSK.
	BitsPerSymbol() int

	// Carriers synthesizes the reference carriers for cfg, one segment per symbol.
	Carriers(cfg SimulationConfig) (CarrierSet, error)

	// Modulate maps bits onto the carriers.
	Modulate(bits BitSequence, carriers CarrierSet) (Waveform, error)

	// Demodulate recovers bits from a (noisy) waveform using the same carriers.
	Demodulate(received Waveform, carriers CarrierSet) (BitSequence, error)
}

// Schemes lists every available scheme in the order the sweeps run them by default.
func Schemes() []Scheme {
	return []Scheme{NewBPSK(), NewQPSK(), NewASK()}
}

// SchemeByName finds a scheme, ignoring case.
func SchemeByName(name string) (Scheme, error) {
	for _, s := range Schemes() {
		if strings.EqualFold(s.Name(), name) {
			return s, nil
		}
	}

	return nil, fmt.Errorf("%w: unknown modulation scheme %q", ErrConfiguration, name)
}

// synthesize builds the carrier set for a scheme from one or more carrier shapes.
func synthesize(cfg SimulationConfig, scheme Scheme, shapes ...func(int, TimeGrid) Waveform) (CarrierSet, error) {
	if err := cfg.Validate(); err != nil {
		return CarrierSet{}, err
	}

	var symbols, err = cfg.Symbols(scheme)
	if err != nil {
		return CarrierSet{}, err
	}

	grid, err := NewTimeGrid(cfg.SamplingFrequency)
	if err != nil {
		return CarrierSet{}, err
	}

	var refs = make([]Waveform, len(shapes))
	for i, shape := range shapes {
		refs[i] = shape(cfg.CarrierFrequency, grid)
	}

	return NewCarrierSet(symbols, refs...)
}

// checkModulate makes sure bits and carriers agree before anything is written.
func checkModulate(scheme Scheme, references int, bits BitSequence, carriers CarrierSet) error {
	if err := bits.validate(); err != nil {
		return err
	}

	if len(bits)%scheme.BitsPerSymbol() != 0 {
		return fmt.Errorf("%w: %s needs a multiple of %d bits, got %d", ErrConfiguration, scheme.Name(), scheme.BitsPerSymbol(), len(bits))
	}

	return carriers.check(scheme.Name(), references, len(bits)/scheme.BitsPerSymbol())
}

// checkDemodulate makes sure the received waveform lines up with the carriers.
func checkDemodulate(scheme Scheme, references int, received Waveform, carriers CarrierSet) error {
	if len(carriers.References) != references {
		return fmt.Errorf("%w: %s needs %d carrier references, got %d", ErrConfiguration, scheme.Name(), references, len(carriers.References))
	}

	if carriers.Symbols <= 0 {
		return fmt.Errorf("%w: %s carrier set has no segments", ErrConfiguration, scheme.Name())
	}

	if len(received) != carriers.Len() {
		return fmt.Errorf("%w: received %d samples, carriers have %d", ErrConfiguration, len(received), carriers.Len())
	}

	return nil
}

// correlationBit is the matched filter decision shared by BPSK and QPSK.
// In phase with the reference is a 0, anything else (including exactly zero) a 1.
func correlationBit(correlation float64) uint8 {
	if correlation > 0 {
		return 0
	}

	return 1
}
