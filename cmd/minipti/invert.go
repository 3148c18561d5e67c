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

// runInvertCmd reads the decimation CSV and a previously-written
// calibration, drives pti.RunInversion, and writes the PTI/phase CSV.
func runInvertCmd(args []string, logger *log.Logger) error {
	flags := pflag.NewFlagSet("invert", pflag.ContinueOnError)
	configPath := flags.StringP("config", "c", "pti.conf", "Path to the INI configuration file.")
	flags.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: minipti invert [options]\n\n")
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

	cal, err := cfg.Calibration()
	if err != nil {
		return err
	}

	decimationPath, err := cfg.String(config.SectionFile, config.KeyDecimationPath)
	if err != nil {
		return err
	}
	inversionPath, err := cfg.String(config.SectionFile, config.KeyPTIInversion)
	if err != nil {
		return err
	}

	decFile, err := os.Open(decimationPath)
	if err != nil {
		return fmt.Errorf("opening decimation CSV: %w", err)
	}
	defer decFile.Close()

	rows, err := csvio.ReadDecimatedRows(decFile, opts.Delimiter)
	if err != nil {
		return err
	}

	result, tallies, err := pti.RunInversion(rows, cal, opts)
	if err != nil {
		return err
	}
	if !tallies.Empty() {
		fmt.Fprintf(os.Stderr, "invert: %s\n", tallies)
	}

	outFile, err := os.Create(inversionPath)
	if err != nil {
		return fmt.Errorf("creating inversion output: %w", err)
	}
	defer outFile.Close()

	return csvio.WriteInversionResult(outFile, result, opts.Delimiter, opts.Verbose)
}
