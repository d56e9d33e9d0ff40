package bersim

import (
	"fmt"
	"math"
)

// Defaults for a sweep when nothing else is specified.
// 8 samples per carrier cycle and one carrier cycle per bit.
const (
	DEFAULT_SAMPLING_FREQUENCY = 16384
	DEFAULT_CARRIER_FREQUENCY  = 2048
	DEFAULT_BITS_NUM           = 2048
)

// SimulationConfig is the immutable set of parameters for one trial.
// Build it with NewSimulationConfig, derive variants with WithNoise.
type SimulationConfig struct {
	SamplingFrequency int     `yaml:"sampling_frequency" json:"sampling_frequency"` // Samples per second.
	CarrierFrequency  int     `yaml:"carrier_frequency" json:"carrier_frequency"`   // Hz.
	BitsNum           int     `yaml:"bits_num" json:"bits_num"`
	NoiseStd          float64 `yaml:"noise_std" json:"noise_std"` // Standard deviation of the channel noise.
}

// NewSimulationConfig validates and returns a configuration.
func NewSimulationConfig(samplingFrequency, carrierFrequency, bitsNum int, noiseStd float64) (SimulationConfig, error) {
	var c = SimulationConfig{
		SamplingFrequency: samplingFrequency,
		CarrierFrequency:  carrierFrequency,
		BitsNum:           bitsNum,
		NoiseStd:          noiseStd,
	}

	if err := c.Validate(); err != nil {
		return SimulationConfig{}, err
	}

	return c, nil
}

// DefaultSimulationConfig is a noiseless configuration that every scheme round-trips exactly.
func DefaultSimulationConfig() SimulationConfig {
	return SimulationConfig{
		SamplingFrequency: DEFAULT_SAMPLING_FREQUENCY,
		CarrierFrequency:  DEFAULT_CARRIER_FREQUENCY,
		BitsNum:           DEFAULT_BITS_NUM,
	}
}

// Validate checks the scheme independent constraints.
// Schemes carrying more than one bit per symbol check the rest in ValidateFor.
func (c SimulationConfig) Validate() error {
	if c.SamplingFrequency <= 0 {
		return fmt.Errorf("%w: sampling frequency must be positive, not %d", ErrConfiguration, c.SamplingFrequency)
	}

	if c.CarrierFrequency <= 0 {
		return fmt.Errorf("%w: carrier frequency must be positive, not %d", ErrConfiguration, c.CarrierFrequency)
	}

	// A carrier at fs/2 or above is sampled at (or aliased past) its zero crossings.
	if 2*c.CarrierFrequency >= c.SamplingFrequency {
		return fmt.Errorf("%w: carrier frequency %d Hz is not below the Nyquist frequency of %d samples/sec",
			ErrConfiguration, c.CarrierFrequency, c.SamplingFrequency)
	}

	if c.BitsNum <= 0 {
		return fmt.Errorf("%w: number of bits must be positive, not %d", ErrConfiguration, c.BitsNum)
	}

	if _, err := SamplesPerUnit(c.SamplingFrequency, c.BitsNum); err != nil {
		return fmt.Errorf("samples per bit: %w", err)
	}

	if math.IsNaN(c.NoiseStd) || c.NoiseStd < 0 {
		return fmt.Errorf("%w: noise standard deviation must be non-negative, not %g", ErrNumericDomain, c.NoiseStd)
	}

	return nil
}

// ValidateFor adds the constraints of a particular scheme, e.g. QPSK needs
// an even number of bits and a whole number of samples per symbol.
// It builds the carriers, so anything accepted here round trips exactly without noise.
func (c SimulationConfig) ValidateFor(scheme Scheme) error {
	if err := c.Validate(); err != nil {
		return err
	}

	var _, err = scheme.Carriers(c)

	return err
}

// Symbols returns the number of symbol intervals the scheme needs for this configuration.
func (c SimulationConfig) Symbols(scheme Scheme) (int, error) {
	var bps = scheme.BitsPerSymbol()

	if c.BitsNum%bps != 0 {
		return 0, fmt.Errorf("%w: %s carries %d bits per symbol, %d bits cannot be paired up",
			ErrConfiguration, scheme.Name(), bps, c.BitsNum)
	}

	var symbols = c.BitsNum / bps

	if _, err := SamplesPerUnit(c.SamplingFrequency, symbols); err != nil {
		return 0, fmt.Errorf("%s samples per symbol: %w", scheme.Name(), err)
	}

	return symbols, nil
}

// SamplesPerBit is the number of samples in each bit interval.  Only meaningful after Validate.
func (c SimulationConfig) SamplesPerBit() int {
	return c.SamplingFrequency / c.BitsNum
}

// WithNoise returns a copy with a different noise level.  The receiver is not changed.
func (c SimulationConfig) WithNoise(noiseStd float64) (SimulationConfig, error) {
	if math.IsNaN(noiseStd) || noiseStd < 0 {
		return SimulationConfig{}, fmt.Errorf("%w: noise standard deviation must be non-negative, not %g", ErrNumericDomain, noiseStd)
	}

	c.NoiseStd = noiseStd

	return c, nil
}

func (c SimulationConfig) String() string {
	return fmt.Sprintf("fs=%d fc=%d bits=%d noise=%.3f", c.SamplingFrequency, c.CarrierFrequency, c.BitsNum, c.NoiseStd)
}
