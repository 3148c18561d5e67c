// Command minipti is the CLI driver for the PTI signal-processing core:
// three subcommands, decimate / phase-scan / invert, each reading the
// same INI config file and honouring the paths/flags therein (§6.5).
package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
)

// sampleCount is S, the per-channel acquisition block length (§6.1: "S is
// a build constant (typical 50 000)").
const sampleCount = 50000

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	logger := log.New(os.Stderr)

	var err error
	switch os.Args[1] {
	case "decimate":
		err = runDecimateCmd(os.Args[2:], logger)
	case "phase-scan":
		err = runPhaseScanCmd(os.Args[2:], logger)
	case "invert":
		err = runInvertCmd(os.Args[2:], logger)
	case "-h", "--help", "help":
		usage()
		return
	default:
		fmt.Fprintf(os.Stderr, "unknown subcommand %q\n", os.Args[1])
		usage()
		os.Exit(1)
	}

	if err != nil {
		logger.Error("fatal", "err", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintf(os.Stderr, "minipti - photothermal interferometry signal-processing core\n\n")
	fmt.Fprintf(os.Stderr, "Usage: minipti <decimate|phase-scan|invert> [options]\n")
	fmt.Fprintf(os.Stderr, "Run 'minipti <subcommand> -h' for subcommand-specific options.\n")
}
