package bersim

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// SweepFile describes a batch of sweeps, e.g.
//
//	seed: 42
//	steps: 12
//	trials: 4
//	output: bers-%Y%m%d.csv
//	runs:
//	  - scheme: BPSK
//	    sampling_frequency: 16384
//	    carrier_frequency: 2048
//	    bits_num: 2048
//	  - scheme: QPSK
//
// Omitted run parameters take the defaults.  No runs at all means BPSK, QPSK and ASK.
type SweepFile struct {
	Seed    uint64 `yaml:"seed"`
	Steps   int    `yaml:"steps"`
	Trials  int    `yaml:"trials"`
	Workers int    `yaml:"workers"`

	Output      string     `yaml:"output"`
	LogDir      string     `yaml:"log_dir"`
	MQTT        MQTTConfig `yaml:"mqtt"`
	Pushgateway string     `yaml:"pushgateway"`

	Runs []SweepRun `yaml:"runs"`
}

type MQTTConfig struct {
	Broker string `yaml:"broker"`
	Topic  string `yaml:"topic"`
}

// SweepRun is one scheme with its configuration.
type SweepRun struct {
	Scheme           string `yaml:"scheme"`
	SimulationConfig `yaml:",inline"`
}

// LoadSweepFile reads and checks a YAML sweep file.
func LoadSweepFile(path string) (*SweepFile, error) {
	var fp, err = os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening sweep file: %w", err)
	}
	defer fp.Close()

	var f *SweepFile
	f, err = ParseSweepFile(fp)
	if err != nil {
		return nil, fmt.Errorf("sweep file %s: %w", path, err)
	}

	return f, nil
}

// ParseSweepFile decodes a sweep file, fills in defaults and validates every run.
// Unknown keys are errors, a typo shouldn't silently fall back to a default.
func ParseSweepFile(r io.Reader) (*SweepFile, error) {
	var f SweepFile

	var dec = yaml.NewDecoder(r)
	dec.KnownFields(true)

	if err := dec.Decode(&f); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: %w", ErrConfiguration, err)
	}

	if err := f.applyDefaults(); err != nil {
		return nil, err
	}

	return &f, nil
}

// selectRuns narrows the file to the named schemes, in the order named.
// Runs the file already has for a scheme are kept with their configuration,
// a scheme the file doesn't mention gets the default configuration.
func (f *SweepFile) selectRuns(names []string) []SweepRun {
	var runs []SweepRun

	for _, name := range names {
		var found = false

		for _, run := range f.Runs {
			if strings.EqualFold(run.Scheme, name) {
				runs = append(runs, run)
				found = true
			}
		}

		if !found {
			runs = append(runs, SweepRun{Scheme: name, SimulationConfig: DefaultSimulationConfig()})
		}
	}

	return runs
}

func (f *SweepFile) applyDefaults() error {
	if f.Steps == 0 {
		f.Steps = DEFAULT_STEP_COUNT
	}

	if f.Trials == 0 {
		f.Trials = 1
	}

	if f.Steps < 0 || f.Trials < 0 || f.Workers < 0 {
		return fmt.Errorf("%w: steps, trials and workers can't be negative", ErrConfiguration)
	}

	if f.Output != "" && f.LogDir != "" {
		return fmt.Errorf("%w: choose an output file or a log directory, not both", ErrConfiguration)
	}

	if len(f.Runs) == 0 {
		for _, s := range Schemes() {
			f.Runs = append(f.Runs, SweepRun{Scheme: s.Name()})
		}
	}

	for i := range f.Runs {
		var run = &f.Runs[i]
		var def = DefaultSimulationConfig()

		if run.SamplingFrequency == 0 {
			run.SamplingFrequency = def.SamplingFrequency
		}

		if run.CarrierFrequency == 0 {
			run.CarrierFrequency = def.CarrierFrequency
		}

		if run.BitsNum == 0 {
			run.BitsNum = def.BitsNum
		}

		var scheme, err = SchemeByName(run.Scheme)
		if err != nil {
			return fmt.Errorf("run %d: %w", i+1, err)
		}

		run.Scheme = scheme.Name()

		if err := run.ValidateFor(scheme); err != nil {
			return fmt.Errorf("run %d (%s): %w", i+1, run.Scheme, err)
		}
	}

	return nil
}
