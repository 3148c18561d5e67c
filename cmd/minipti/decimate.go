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

// runDecimateCmd drives RunDecimation against the acquisition file and
// decimation CSV named by the config file's [file] section.
func runDecimateCmd(args []string, logger *log.Logger) error {
	flags := pflag.NewFlagSet("decimate", pflag.ContinueOnError)
	configPath := flags.StringP("config", "c", "pti.conf", "Path to the INI configuration file.")
	rejectNoise := flags.BoolP("reject-common-noise", "r", true, "Run common-noise rejection before the lock-in filter.")
	flags.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: minipti decimate [options]\n\n")
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
	opts.RejectCommonNoise = *rejectNoise
	opts.Logger = logger

	acquisitionPath, err := cfg.String(config.SectionFile, "acquisition_path")
	if err != nil {
		return err
	}
	decimationPath, err := cfg.String(config.SectionFile, config.KeyDecimationPath)
	if err != nil {
		return err
	}

	in, err := os.Open(acquisitionPath)
	if err != nil {
		return fmt.Errorf("opening acquisition file: %w", err)
	}
	defer in.Close()

	resume := false
	if _, statErr := os.Stat(decimationPath); statErr == nil {
		resume = true
	}

	flags2 := os.O_CREATE | os.O_WRONLY
	if resume {
		flags2 |= os.O_APPEND
	} else {
		flags2 |= os.O_TRUNC
	}
	out, err := os.OpenFile(decimationPath, flags2, 0o644)
	if err != nil {
		return fmt.Errorf("opening decimation output: %w", err)
	}
	defer out.Close()

	writer := csvio.NewDecimationWriter(out, opts.Delimiter, resume)

	tallies, err := pti.RunDecimation(in, opts, writer.WriteRow)
	if err != nil {
		return err
	}
	if !tallies.Empty() {
		fmt.Fprintf(os.Stderr, "decimate: %s\n", tallies)
	}
	return nil
}
