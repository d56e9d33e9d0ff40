package bersim

import (
	"fmt"
	"io"
	"text/tabwriter"
)

// PrintSummary writes a BER table, one block per scheme, like:
//
//	BPSK  fs=16384 fc=2048 bits=2048
//	  Eb/No(dB)  Noise  BER
//	  0          2.828  0.2393
func PrintSummary(w io.Writer, records []SweepRecord) error {
	var tw = tabwriter.NewWriter(w, 0, 8, 2, ' ', 0)

	var current string
	for _, r := range records {
		var heading = fmt.Sprintf("%s  fs=%d fc=%d bits=%d  (%d trial(s) per step)",
			r.Scheme, r.Config.SamplingFrequency, r.Config.CarrierFrequency, r.Config.BitsNum, r.Trials)

		if heading != current {
			if current != "" {
				fmt.Fprintln(tw)
			}

			fmt.Fprintln(tw, heading)
			fmt.Fprintln(tw, "  Eb/No(dB)\tNoise\tBER\t")
			current = heading
		}

		fmt.Fprintf(tw, "  %g\t%.3f\t%.4f\t\n", r.EbNoDB, r.Config.NoiseStd, r.BER)
	}

	return tw.Flush()
}
