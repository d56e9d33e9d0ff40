package main

import (
	"os"

	bersim "github.com/doismellburning/bersim/src"
)

func main() {
	os.Exit(bersim.Main(os.Args))
}
