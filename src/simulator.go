package bersim

import (
	"fmt"
	"math/rand/v2"
)

// Simulator runs single trials: random bits, modulate, channel, demodulate, score.
// A Simulator is not safe for concurrent use; give each goroutine its own,
// each with its own random stream.
type Simulator struct {
	Bits  *BitSource
	Noise *NoiseChannel
}

// NewSimulator takes bits and noise from the same stream, bits first.
func NewSimulator(src rand.Source) *Simulator {
	return &Simulator{
		Bits:  NewBitSource(src),
		Noise: NewNoiseChannel(src),
	}
}

// TrialSignals is everything produced along the way, for callers that want to plot it.
type TrialSignals struct {
	Message     BitSequence
	Transmitted Waveform
	Noisy       Waveform
	Received    BitSequence
	BER         float64
}

// Run synthesizes carriers for cfg and runs one trial.
func (s *Simulator) Run(scheme Scheme, cfg SimulationConfig) (TrialSignals, error) {
	var carriers, err = scheme.Carriers(cfg)
	if err != nil {
		return TrialSignals{}, err
	}

	return s.RunTrial(scheme, cfg, carriers)
}

// RunTrial runs one trial with precomputed carriers, which must match cfg.
func (s *Simulator) RunTrial(scheme Scheme, cfg SimulationConfig, carriers CarrierSet) (TrialSignals, error) {
	var t TrialSignals
	var err error

	t.Message, err = s.Bits.Generate(cfg.BitsNum)
	if err != nil {
		return TrialSignals{}, fmt.Errorf("%s bits: %w", scheme.Name(), err)
	}

	t.Transmitted, err = scheme.Modulate(t.Message, carriers)
	if err != nil {
		return TrialSignals{}, fmt.Errorf("%s modulate: %w", scheme.Name(), err)
	}

	t.Noisy, err = s.Noise.Apply(t.Transmitted, cfg.NoiseStd)
	if err != nil {
		return TrialSignals{}, fmt.Errorf("%s channel: %w", scheme.Name(), err)
	}

	t.Received, err = scheme.Demodulate(t.Noisy, carriers)
	if err != nil {
		return TrialSignals{}, fmt.Errorf("%s demodulate: %w", scheme.Name(), err)
	}

	t.BER, err = BitErrorRate(t.Message, t.Received)
	if err != nil {
		return TrialSignals{}, fmt.Errorf("%s score: %w", scheme.Name(), err)
	}

	return t, nil
}
