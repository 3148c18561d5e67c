package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/pflag"

	"github.com/bilaljo/MiniPTI/internal/config"
	"github.com/bilaljo/MiniPTI/internal/csvio"
	"github.com/bilaljo/MiniPTI/internal/pti"
)

// runPhaseScanCmd reads a phase-scan sweep CSV, drives both calibration
// stages via pti.PhaseScanTrigger, and persists the resulting Calibration
// back into the config file's calibration sections.
func runPhaseScanCmd(args []string, logger *log.Logger) error {
	flags := pflag.NewFlagSet("phase-scan", pflag.ContinueOnError)
	configPath := flags.StringP("config", "c", "pti.conf", "Path to the INI configuration file.")
	summaryPath := flags.String("summary", "", "Optional path for a human-readable YAML calibration summary.")
	flags.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: minipti phase-scan [options]\n\n")
		flags.PrintDefaults()
	}
	if err := flags.Parse(args); err != nil {
		return err
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}

	opts, err := cfg.PipelineOptions(sampleCount)
	if err != nil {
		return err
	}
	opts.Logger = logger

	sweepPath, err := cfg.String(config.SectionFile, "phase_scan_path")
	if err != nil {
		return err
	}

	sweepFile, err := os.Open(sweepPath)
	if err != nil {
		return fmt.Errorf("opening phase-scan sweep: %w", err)
	}
	defer sweepFile.Close()

	samples, err := csvio.ReadPhaseScanSamples(sweepFile, opts.Delimiter)
	if err != nil {
		return err
	}

	trigger := &pti.PhaseScanTrigger{Samples: samples}
	cal, tallies, err := trigger.Run(opts)
	if err != nil {
		return err
	}
	if !tallies.Empty() {
		fmt.Fprintf(os.Stderr, "phase-scan: %s\n", tallies)
	}

	cfg.SetCalibration(cal)
	if err := cfg.WriteFile(*configPath); err != nil {
		return err
	}

	if *summaryPath != "" {
		if err := config.WriteCalibrationSummary(*summaryPath, cal); err != nil {
			return err
		}
	}

	return nil
}
