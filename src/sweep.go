package bersim

/*------------------------------------------------------------------
 *
 * Purpose:	Run a scheme over a range of Eb/No values and collect
 *		the bit error rate at each one.
 *
 * Description:	Step n uses Eb/No = n dB, i.e. 10^(n/10) linear, and
 *		a channel noise standard deviation of
 *
 *			NoiseScale / sqrt(2 * Eb/No)
 *
 *		Steps are independent so they run in parallel.  Every
 *		(step, trial) pair gets its own random stream derived
 *		from the seed, so the results don't depend on how many
 *		workers there are or in which order they finish.
 *
 *------------------------------------------------------------------*/

import (
	"context"
	"fmt"
	"hash/fnv"
	"io"
	"math"
	"math/rand/v2"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/stat"
)

// NoiseScale is the fixed energy normalization between Eb/No and the channel noise for a
// unit amplitude carrier.  Empirical; kept as is so curves stay comparable between runs.
const NoiseScale = 4.0

const DEFAULT_STEP_COUNT = 12

// EbNoLinear converts Eb/No from dB.
func EbNoLinear(ebNoDB float64) float64 {
	return math.Pow(10, ebNoDB/10)
}

// NoiseStdForEbNo is the channel noise standard deviation for a linear Eb/No.
func NoiseStdForEbNo(ebNo float64) float64 {
	return NoiseScale / math.Sqrt(2*ebNo)
}

// SweepRecord is the result of one Eb/No step.
type SweepRecord struct {
	RunID     uuid.UUID        `json:"run_id"`
	Scheme    string           `json:"scheme"`
	Config    SimulationConfig `json:"config"` // NoiseStd is the step's noise level.
	Step      int              `json:"step"`
	EbNoDB    float64          `json:"ebno_db"`
	BER       float64          `json:"ber"`        // Mean over Trials.
	BERStdDev float64          `json:"ber_stddev"` // Zero for a single trial.
	Trials    int              `json:"trials"`
}

// EbNo is the linear Eb/No of the record.
func (r SweepRecord) EbNo() float64 {
	return EbNoLinear(r.EbNoDB)
}

type SweepState int32

const (
	SweepInit SweepState = iota
	SweepRunning
	SweepDone
	SweepFailed
)

func (s SweepState) String() string {
	switch s {
	case SweepInit:
		return "INIT"
	case SweepRunning:
		return "RUNNING"
	case SweepDone:
		return "DONE"
	case SweepFailed:
		return "FAILED"
	default:
		return fmt.Sprintf("SweepState(%d)", int32(s))
	}
}

// SweepDriver runs sweeps.  The zero value is usable: 12 steps, one trial per step,
// seed 0, one worker per CPU, no logging or metrics.
type SweepDriver struct {
	Steps   int
	Trials  int
	Seed    uint64
	Workers int

	Logger  *log.Logger
	Metrics *SweepMetrics

	state atomic.Int32
}

// State reports where the most recent Run got to.
func (d *SweepDriver) State() SweepState {
	return SweepState(d.state.Load())
}

/*------------------------------------------------------------------
 *
 * Name:	Run
 *
 * Purpose:	Sweep one scheme.
 *
 * Inputs:	scheme	- Modulation scheme.
 *
 *		cfg	- Base configuration.  Its NoiseStd is ignored,
 *			  each step substitutes its own.
 *
 * Returns:	One record per step, in step order, with strictly
 *		increasing Eb/No.
 *
 *		Any error in any step aborts the whole sweep and no
 *		records are returned.  A curve with holes in it is
 *		worse than no curve.
 *
 *------------------------------------------------------------------*/

func (d *SweepDriver) Run(ctx context.Context, scheme Scheme, cfg SimulationConfig) ([]SweepRecord, error) {
	d.state.Store(int32(SweepInit))

	var records, err = d.run(ctx, scheme, cfg)
	if err != nil {
		d.state.Store(int32(SweepFailed))
		d.Metrics.sweepFinished(scheme.Name(), false)

		return nil, err
	}

	d.state.Store(int32(SweepDone))
	d.Metrics.sweepFinished(scheme.Name(), true)

	return records, nil
}

func (d *SweepDriver) run(ctx context.Context, scheme Scheme, cfg SimulationConfig) ([]SweepRecord, error) {
	var steps = d.Steps
	if steps == 0 {
		steps = DEFAULT_STEP_COUNT
	}

	if steps < 0 {
		return nil, fmt.Errorf("%w: step count must be positive, not %d", ErrConfiguration, steps)
	}

	var trials = d.Trials
	if trials == 0 {
		trials = 1
	}

	if trials < 0 {
		return nil, fmt.Errorf("%w: trial count must be positive, not %d", ErrConfiguration, trials)
	}

	// Same carriers for every step; only read from here on.  Building them validates cfg.
	var carriers, err = scheme.Carriers(cfg)
	if err != nil {
		return nil, err
	}

	var runID = uuid.New()
	var logger = d.logger().With("run", runID.String(), "scheme", scheme.Name())
	var seed = d.Seed ^ schemeHash(scheme.Name())

	d.state.Store(int32(SweepRunning))
	logger.Info("Sweep starting", "steps", steps, "trials", trials, "config", cfg.String())

	var start = time.Now()
	var records = make([]SweepRecord, steps)

	var g, gctx = errgroup.WithContext(ctx)
	g.SetLimit(d.workers())

	for step := range steps {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			var r, err = d.runStep(scheme, cfg, carriers, seed, step, trials)
			if err != nil {
				return fmt.Errorf("step %d: %w", step, err)
			}

			r.RunID = runID
			records[step] = r

			logger.Debug("Step complete", "step", step, "ebno_db", r.EbNoDB, "noise_std", r.Config.NoiseStd, "ber", r.BER)

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		logger.Error("Sweep aborted", "err", err)
		return nil, err
	}

	logger.Info("Sweep finished", "elapsed", time.Since(start).Round(time.Millisecond))

	return records, nil
}

// runStep runs all the trials of one step.  Called concurrently; touches nothing shared except metrics.
func (d *SweepDriver) runStep(scheme Scheme, cfg SimulationConfig, carriers CarrierSet, seed uint64, step int, trials int) (SweepRecord, error) {
	var ebNoDB = float64(step)
	var stepCfg, err = cfg.WithNoise(NoiseStdForEbNo(EbNoLinear(ebNoDB)))
	if err != nil {
		return SweepRecord{}, err
	}

	var bers = make([]float64, trials)

	for t := range trials {
		var started = time.Now()
		var sim = NewSimulator(NewSource(seed, streamID(step, t)))

		var signals, err = sim.RunTrial(scheme, stepCfg, carriers)
		if err != nil {
			return SweepRecord{}, err
		}

		bers[t] = signals.BER
		d.Metrics.trialFinished(scheme.Name(), time.Since(started))
	}

	var r = SweepRecord{
		Scheme: scheme.Name(),
		Config: stepCfg,
		Step:   step,
		EbNoDB: ebNoDB,
		Trials: trials,
	}

	if trials == 1 {
		r.BER = bers[0]
	} else {
		r.BER, r.BERStdDev = stat.MeanStdDev(bers, nil)
	}

	d.Metrics.stepFinished(scheme.Name(), step, r.BER)

	return r, nil
}

func (d *SweepDriver) workers() int {
	if d.Workers > 0 {
		return d.Workers
	}

	return runtime.GOMAXPROCS(0)
}

func (d *SweepDriver) logger() *log.Logger {
	if d.Logger != nil {
		return d.Logger
	}

	return log.New(io.Discard)
}

// RunSweep sweeps with a fresh random seed.  Use a SweepDriver for reproducible results.
func RunSweep(scheme Scheme, cfg SimulationConfig, steps int) ([]SweepRecord, error) {
	var d = SweepDriver{Steps: steps, Seed: rand.Uint64()}

	if steps <= 0 {
		return nil, fmt.Errorf("%w: step count must be positive, not %d", ErrConfiguration, steps)
	}

	return d.Run(context.Background(), scheme, cfg)
}

// streamID gives every (step, trial) pair its own PCG stream.
func streamID(step int, trial int) uint64 {
	return uint64(step)<<32 | uint64(uint32(trial))
}

// schemeHash keeps different schemes in one sweep file from seeing identical bits and noise.
func schemeHash(name string) uint64 {
	var h = fnv.New64a()
	h.Write([]byte(name)) //nolint:errcheck

	return h.Sum64()
}
