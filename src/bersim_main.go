package bersim

/*------------------------------------------------------------------
 *
 * Purpose:	Main program for "bersim", which sweeps modulation
 *		schemes over a range of Eb/No and reports the bit
 *		error rate at each step.
 *
 *---------------------------------------------------------------*/

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"
	"github.com/spf13/pflag"
)

// Main runs the command line program and returns the exit status.
func Main(args []string) int {
	var flags = pflag.NewFlagSet(args[0], pflag.ContinueOnError)

	var configFileName = flags.StringP("config-file", "c", "", "YAML sweep file.  Command line options override it.")
	var schemeNames = flags.StringSliceP("scheme", "m", nil, "Modulation scheme: ASK, BPSK or QPSK.  Repeat or comma separate for several.  Default is all.")
	var samplingFrequency = flags.IntP("sampling-frequency", "r", DEFAULT_SAMPLING_FREQUENCY, "Samples per second.")
	var carrierFrequency = flags.IntP("carrier-frequency", "f", DEFAULT_CARRIER_FREQUENCY, "Carrier frequency in Hz.")
	var bitsNum = flags.IntP("bits", "b", DEFAULT_BITS_NUM, "Number of bits per trial.  Must divide the sampling frequency.")
	var steps = flags.IntP("steps", "n", DEFAULT_STEP_COUNT, "Number of Eb/No steps, 1 dB apart starting at 0 dB.")
	var trials = flags.IntP("trials", "t", 1, "Trials averaged at each step.")
	var seed = flags.Uint64P("seed", "s", 0, "Random seed.  Same seed, same results.")
	var workers = flags.IntP("workers", "w", 0, "Steps run in parallel.  0 for one per CPU.")
	var outputFile = flags.StringP("output-file", "o", "", "Append results to this CSV file.  strftime % sequences are expanded, .gz compresses.")
	var logDir = flags.StringP("log-dir", "l", "", "Directory for daily results files.")
	var mqttBroker = flags.String("mqtt-broker", "", "Also publish results to this MQTT broker, e.g. tcp://localhost:1883.")
	var mqttTopic = flags.String("mqtt-topic", DEFAULT_MQTT_TOPIC, "MQTT topic prefix.")
	var pushgateway = flags.String("pushgateway", "", "Push metrics to this Prometheus Pushgateway URL when done.")
	var debug = flags.BoolP("debug", "d", false, "Log each step.")
	var textColor = flags.IntP("text-color", "T", 1, "Text colors.  0=disabled. 1=default.")
	var version = flags.BoolP("version", "v", false, "Print version and exit.")
	var help = flags.BoolP("help", "h", false, "Display help text.")

	flags.Usage = func() {
		fmt.Fprintf(os.Stderr, "%s - bit error rate simulator for ASK, BPSK and QPSK.\n", args[0])
		fmt.Fprintf(os.Stderr, "\n")
		fmt.Fprintf(os.Stderr, "Usage: %s [options]\n", args[0])
		flags.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\n")
		fmt.Fprintf(os.Stderr, "Example:  %s -m bpsk -m qpsk -t 10 -o bers.csv\n", args[0])
		fmt.Fprintf(os.Stderr, "\n")
		fmt.Fprintf(os.Stderr, "    BPSK and QPSK, 12 steps of 10 trials each, appended to bers.csv.\n")
	}

	if err := flags.Parse(args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", err)
		return 1
	}

	if *help {
		flags.Usage()
		return 1
	}

	if *version {
		printVersion(os.Stdout, *debug)
		return 0
	}

	if flags.NArg() > 0 {
		fmt.Fprintf(os.Stderr, "Unexpected argument %q.\n", flags.Arg(0))
		flags.Usage()

		return 1
	}

	var logger = NewLogger(os.Stderr, *debug, *textColor)

	/*
	 * Start from the file, or an empty one for all the defaults,
	 * then let command line options override it.
	 */

	var sf *SweepFile
	var err error

	if *configFileName != "" {
		sf, err = LoadSweepFile(*configFileName)
	} else {
		sf, err = ParseSweepFile(strings.NewReader(""))
	}

	if err != nil {
		logger.Error("Bad sweep configuration", "err", err)
		return 1
	}

	if len(*schemeNames) > 0 {
		sf.Runs = sf.selectRuns(*schemeNames)
	}

	for i := range sf.Runs {
		if flags.Changed("sampling-frequency") {
			sf.Runs[i].SamplingFrequency = *samplingFrequency
		}

		if flags.Changed("carrier-frequency") {
			sf.Runs[i].CarrierFrequency = *carrierFrequency
		}

		if flags.Changed("bits") {
			sf.Runs[i].BitsNum = *bitsNum
		}
	}

	if flags.Changed("steps") {
		sf.Steps = *steps
	}

	if flags.Changed("trials") {
		sf.Trials = *trials
	}

	if flags.Changed("seed") {
		sf.Seed = *seed
	}

	if flags.Changed("workers") {
		sf.Workers = *workers
	}

	if flags.Changed("output-file") {
		sf.Output = *outputFile
	}

	if flags.Changed("log-dir") {
		sf.LogDir = *logDir
	}

	if flags.Changed("mqtt-broker") {
		sf.MQTT.Broker = *mqttBroker
	}

	if flags.Changed("mqtt-topic") || sf.MQTT.Topic == "" {
		sf.MQTT.Topic = *mqttTopic
	}

	if flags.Changed("pushgateway") {
		sf.Pushgateway = *pushgateway
	}

	// Check again now that the overrides are in.
	if err := sf.applyDefaults(); err != nil {
		logger.Error("Bad sweep configuration", "err", err)
		return 1
	}

	var ctx, stop = signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := runSweepFile(ctx, sf, logger); err != nil {
		logger.Error("Sweep failed", "err", err)
		return 1
	}

	return 0
}

// runSweepFile runs every sweep in the file, then hands results to the sinks and prints the summary.
func runSweepFile(ctx context.Context, sf *SweepFile, logger *log.Logger) error {
	var sink, err = openSinks(sf, logger)
	if err != nil {
		return err
	}
	defer sink.Close()

	var registry = prometheus.NewRegistry()

	var driver = &SweepDriver{
		Steps:   sf.Steps,
		Trials:  sf.Trials,
		Seed:    sf.Seed,
		Workers: sf.Workers,
		Logger:  logger,
		Metrics: NewSweepMetrics(registry),
	}

	var all []SweepRecord

	for _, run := range sf.Runs {
		var scheme, err = SchemeByName(run.Scheme)
		if err != nil {
			return err
		}

		records, err := driver.Run(ctx, scheme, run.SimulationConfig)
		if err != nil {
			return fmt.Errorf("%s sweep: %w", scheme.Name(), err)
		}

		if err := WriteAll(sink, records); err != nil {
			return err
		}

		all = append(all, records...)
	}

	if err := PrintSummary(os.Stdout, all); err != nil {
		return err
	}

	if sf.Pushgateway != "" {
		if err := push.New(sf.Pushgateway, "bersim").Gatherer(registry).Push(); err != nil {
			return fmt.Errorf("pushing metrics to %s: %w", sf.Pushgateway, err)
		}

		logger.Info("Metrics pushed", "pushgateway", sf.Pushgateway)
	}

	return sink.Close()
}

func openSinks(sf *SweepFile, logger *log.Logger) (MultiSink, error) {
	var sinks MultiSink

	switch {
	case sf.Output != "":
		var s, err = NewCSVSink(false, sf.Output, logger)
		if err != nil {
			return nil, err
		}

		sinks = append(sinks, s)
	case sf.LogDir != "":
		var s, err = NewCSVSink(true, sf.LogDir, logger)
		if err != nil {
			return nil, err
		}

		sinks = append(sinks, s)
	}

	if sf.MQTT.Broker != "" {
		var s, err = DialMQTTSink(sf.MQTT.Broker, sf.MQTT.Topic, logger)
		if err != nil {
			sinks.Close() //nolint:errcheck
			return nil, err
		}

		sinks = append(sinks, s)
	}

	return sinks, nil
}
