package bersim

import (
	"fmt"
)

func ExampleBitErrorRate() {
	var sent, _ = ParseBits("1011")
	var received, _ = ParseBits("1001")

	var ber, _ = BitErrorRate(sent, received)

	fmt.Println(ber)
	// Output: 0.25
}

func ExampleScheme() {
	var qpsk, _ = SchemeByName("qpsk")
	var cfg, _ = NewSimulationConfig(400, 20, 4, 0)

	var carriers, _ = qpsk.Carriers(cfg)
	var bits, _ = ParseBits("1100")

	var waveform, _ = qpsk.Modulate(bits, carriers)
	var received, _ = qpsk.Demodulate(waveform, carriers)

	fmt.Println(qpsk.Name(), qpsk.BitsPerSymbol(), len(waveform), received)
	// Output: QPSK 2 400 1100
}

func ExampleNoiseStdForEbNo() {
	for _, db := range []float64{0, 3, 10} {
		fmt.Printf("%2.0f dB  %.3f\n", db, NoiseStdForEbNo(EbNoLinear(db)))
	}
	// Output:
	//  0 dB  2.828
	//  3 dB  2.002
	// 10 dB  0.894
}
