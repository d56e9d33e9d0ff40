package bersim

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/floats"
	"pgregory.net/rapid"
)

// noiselessConfig draws a configuration every scheme must accept:
// whole carrier cycles per bit and at least 3 samples per cycle.
// 4 samples per cycle is left out, ASK rejects it.
func noiselessConfig(t *rapid.T) SimulationConfig {
	var symbols = rapid.IntRange(1, 32).Draw(t, "symbols")
	var cyclesPerBit = rapid.IntRange(1, 4).Draw(t, "cyclesPerBit")
	var samplesPerCycle = rapid.SampledFrom([]int{3, 5, 6, 8, 10, 12, 16}).Draw(t, "samplesPerCycle")

	var bits = 2 * symbols
	var fc = bits * cyclesPerBit

	return SimulationConfig{
		SamplingFrequency: fc * samplesPerCycle,
		CarrierFrequency:  fc,
		BitsNum:           bits,
	}
}

func Test_NoiselessRoundTrip(t *testing.T) {
	for _, scheme := range Schemes() {
		t.Run(scheme.Name(), func(t *testing.T) {
			rapid.Check(t, func(t *rapid.T) {
				var cfg = noiselessConfig(t)
				require.NoError(t, cfg.ValidateFor(scheme))

				var bits = BitSequence(rapid.SliceOfN(rapid.Uint8Range(0, 1), cfg.BitsNum, cfg.BitsNum).Draw(t, "bits"))

				var carriers, err = scheme.Carriers(cfg)
				require.NoError(t, err)

				tx, err := scheme.Modulate(bits, carriers)
				require.NoError(t, err)
				assert.Len(t, tx, cfg.SamplingFrequency)

				rx, err := scheme.Demodulate(tx, carriers)
				require.NoError(t, err)

				assert.Equal(t, bits, rx)
			})
		})
	}
}

// anyConfig draws sampling, carrier and bit counts with no regard for whether they make sense.
func anyConfig(t *rapid.T) SimulationConfig {
	var bits = rapid.IntRange(1, 64).Draw(t, "bits")
	var samplesPerBit = rapid.IntRange(1, 16).Draw(t, "samplesPerBit")
	var fs = bits * samplesPerBit

	return SimulationConfig{
		SamplingFrequency: fs,
		CarrierFrequency:  rapid.IntRange(1, fs).Draw(t, "fc"),
		BitsNum:           bits,
	}
}

// Whatever ValidateFor lets through must come back exactly with no noise.
func Test_AcceptedConfigsRoundTrip(t *testing.T) {
	for _, scheme := range Schemes() {
		t.Run(scheme.Name(), func(t *testing.T) {
			rapid.Check(t, func(t *rapid.T) {
				var cfg = anyConfig(t)

				if err := cfg.ValidateFor(scheme); err != nil {
					assert.ErrorIs(t, err, ErrConfiguration)
					return
				}

				var bits = BitSequence(rapid.SliceOfN(rapid.Uint8Range(0, 1), cfg.BitsNum, cfg.BitsNum).Draw(t, "bits"))

				var carriers, err = scheme.Carriers(cfg)
				require.NoError(t, err)

				tx, err := scheme.Modulate(bits, carriers)
				require.NoError(t, err)

				rx, err := scheme.Demodulate(tx, carriers)
				require.NoError(t, err)

				assert.Equal(t, bits, rx, "%s", cfg)
			})
		})
	}
}

func Test_UndecidableConfigsRejected(t *testing.T) {
	// One sample per bit, and the first one is sin(0).
	var zeroSegment = SimulationConfig{SamplingFrequency: 4, CarrierFrequency: 1, BitsNum: 4}

	require.NoError(t, zeroSegment.Validate())
	assert.ErrorIs(t, zeroSegment.ValidateFor(NewBPSK()), ErrConfiguration)

	var _, err = NewBPSK().Carriers(zeroSegment)
	assert.ErrorIs(t, err, ErrConfiguration)

	// 4 samples per cycle: half of every ASK bit sits on a zero crossing, a tie.
	var quarterRate = SimulationConfig{SamplingFrequency: 16384, CarrierFrequency: 4096, BitsNum: 2048}

	require.NoError(t, quarterRate.Validate())
	assert.ErrorIs(t, quarterRate.ValidateFor(NewASK()), ErrConfiguration)
	assert.NoError(t, quarterRate.ValidateFor(NewBPSK()))
	assert.NoError(t, quarterRate.ValidateFor(NewQPSK()))

	_, err = (&SweepDriver{Steps: 1}).Run(context.Background(), NewASK(), quarterRate)
	assert.ErrorIs(t, err, ErrConfiguration)
}

func Test_SimulatorNoiselessRun(t *testing.T) {
	for _, scheme := range Schemes() {
		var signals, err = NewSimulator(NewSource(9, 9)).Run(scheme, DefaultSimulationConfig())
		require.NoError(t, err, scheme.Name())

		assert.Zero(t, signals.BER, scheme.Name()) //nolint:testifylint
		assert.Equal(t, signals.Message, signals.Received, scheme.Name())
		assert.Equal(t, signals.Transmitted, signals.Noisy, scheme.Name())
	}
}

func Test_SimulatorNoisyRun(t *testing.T) {
	var cfg, err = DefaultSimulationConfig().WithNoise(NoiseStdForEbNo(1))
	require.NoError(t, err)

	var signals, runErr = NewSimulator(NewSource(1, 2)).Run(NewBPSK(), cfg)
	require.NoError(t, runErr)

	assert.Greater(t, signals.BER, 0.0)
	assert.Less(t, signals.BER, 0.5)
	assert.NotEqual(t, signals.Transmitted, signals.Noisy)
}

func Test_BPSKSegments(t *testing.T) {
	var cfg, _ = NewSimulationConfig(80, 10, 2, 0)
	var bpsk = NewBPSK()

	var carriers, err = bpsk.Carriers(cfg)
	require.NoError(t, err)

	tx, err := bpsk.Modulate(BitSequence{0, 1}, carriers)
	require.NoError(t, err)

	var ref0 = carriers.Segment(CARRIER_REFERENCE, 0)
	var ref1 = carriers.Segment(CARRIER_REFERENCE, 1)

	assert.InDeltaSlice(t, ref0, tx[:40], 1e-12)

	var inverted = make([]float64, 40)
	floats.ScaleTo(inverted, -1, ref1)
	assert.InDeltaSlice(t, inverted, tx[40:], 1e-12)

	assert.Greater(t, floats.Dot(tx[:40], ref0), 0.0, "a 0 correlates positively")
	assert.LessOrEqual(t, floats.Dot(tx[40:], ref1), 0.0, "a 1 correlates negatively")
}

func Test_QPSKBitPairing(t *testing.T) {
	var cfg, err = NewSimulationConfig(400, 20, 4, 0)
	require.NoError(t, err)

	var qpsk = NewQPSK()

	carriers, err := qpsk.Carriers(cfg)
	require.NoError(t, err)

	var bits, _ = ParseBits("1100")

	tx, err := qpsk.Modulate(bits, carriers)
	require.NoError(t, err)

	// Symbol 0 is -cos - sin, symbol 1 is cos + sin.
	assert.InDelta(t, -1, tx[0], 1e-12)
	assert.InDelta(t, 1, tx[200], 1e-12)

	rx, err := qpsk.Demodulate(tx, carriers)
	require.NoError(t, err)
	assert.Equal(t, "1100", rx.String())
}

func Test_QPSKBitOrder(t *testing.T) {
	var cfg, _ = NewSimulationConfig(400, 20, 2, 0)
	var qpsk = NewQPSK()

	var carriers, err = qpsk.Carriers(cfg)
	require.NoError(t, err)

	// First bit on the sine, second on the cosine: "10" is cos - sin.
	tx, err := qpsk.Modulate(BitSequence{1, 0}, carriers)
	require.NoError(t, err)

	assert.InDelta(t, 1, tx[0], 1e-12, "cos(0) - sin(0)")
	assert.InDelta(t, -1, tx[5], 1e-12, "a quarter cycle in, cos is 0 and sin is 1")

	rx, err := qpsk.Demodulate(tx, carriers)
	require.NoError(t, err)
	assert.Equal(t, BitSequence{1, 0}, rx)
}

func Test_ASKGating(t *testing.T) {
	var cfg, _ = NewSimulationConfig(64, 8, 4, 0)
	var ask = NewASK()

	var carriers, err = ask.Carriers(cfg)
	require.NoError(t, err)

	tx, err := ask.Modulate(BitSequence{1, 0, 0, 1}, carriers)
	require.NoError(t, err)

	assert.InDeltaSlice(t, carriers.Segment(CARRIER_REFERENCE, 0), tx[0:16], 0)
	assert.Equal(t, make(Waveform, 32), tx[16:48])
	assert.InDeltaSlice(t, carriers.Segment(CARRIER_REFERENCE, 3), tx[48:64], 0)
}

func Test_ASKMajorityVote(t *testing.T) {
	var cfg, _ = NewSimulationConfig(40, 4, 4, 0)
	var ask = NewASK()

	var carriers, err = ask.Carriers(cfg)
	require.NoError(t, err)

	var rx = make(Waveform, 40)

	// Bit 0: 6 of 10 above threshold.  Bit 1: exactly half, a tie.  Bit 2: above only when negated.
	for i := range 6 {
		rx[i] = 0.5
	}

	for i := 10; i < 15; i++ {
		rx[i] = 0.9
	}

	for i := 20; i < 30; i++ {
		rx[i] = -0.8
	}

	bits, err := ask.Demodulate(rx, carriers)
	require.NoError(t, err)
	assert.Equal(t, BitSequence{1, 0, 1, 0}, bits)
}

func Test_SchemeRejectsMismatches(t *testing.T) {
	var cfg = DefaultSimulationConfig()

	for _, scheme := range Schemes() {
		var carriers, err = scheme.Carriers(cfg)
		require.NoError(t, err)

		_, err = scheme.Modulate(BitSequence{0, 1}, carriers)
		assert.ErrorIs(t, err, ErrConfiguration, "%s: too few bits", scheme.Name())

		_, err = scheme.Modulate(BitSequence{}, carriers)
		assert.ErrorIs(t, err, ErrConfiguration, "%s: no bits", scheme.Name())

		_, err = scheme.Demodulate(make(Waveform, 10), carriers)
		assert.ErrorIs(t, err, ErrConfiguration, "%s: short waveform", scheme.Name())
	}

	_, err := NewQPSK().Modulate(BitSequence{0, 1, 1}, CarrierSet{})
	assert.ErrorIs(t, err, ErrConfiguration, "odd number of bits")

	var bpskCarriers, _ = NewBPSK().Carriers(cfg)
	_, err = NewQPSK().Demodulate(make(Waveform, cfg.SamplingFrequency), bpskCarriers)
	assert.ErrorIs(t, err, ErrConfiguration, "one reference where two are needed")
}

func Test_SchemeByName(t *testing.T) {
	for _, name := range []string{"ask", "BPSK", "Qpsk"} {
		var s, err = SchemeByName(name)
		require.NoError(t, err)
		assert.True(t, strings.EqualFold(name, s.Name()), name)
	}

	var s, _ = SchemeByName("qpsk")
	assert.Equal(t, 2, s.BitsPerSymbol())

	var _, err = SchemeByName("FSK")
	assert.ErrorIs(t, err, ErrConfiguration)
}
