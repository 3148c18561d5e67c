package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/bilaljo/MiniPTI/internal/pti"
)

// Sections and keys of §6.3.
const (
	SectionFile           = "file"
	SectionMode           = "mode"
	SectionMinIntensities = "min_intensities"
	SectionMaxIntensities = "max_intensities"
	SectionOutputPhases   = "output_phases"
	SectionSystemPhases   = "system_phases"
	KeyDetector1          = "detector_1"
	KeyDetector2          = "detector_2"
	KeyDetector3          = "detector_3"
	KeyPhasesSwapped      = "phases_swapped"
	KeyOnline             = "online"
	KeyOffline            = "offline"
	KeyVerbose            = "verbose"
	KeyDecimationPath     = "decimation_path"
	KeyPTIInversion       = "pti_inversion"
	KeyDelimiter          = "delimiter"
)

// PipelineOptions builds a pti.PipelineOptions from the [mode] section
// plus a fixed sample count (a build constant per §6.1, not itself a
// config key).
func (c *Config) PipelineOptions(sampleCount int) (pti.PipelineOptions, error) {
	online, err := c.Bool(SectionMode, KeyOnline)
	if err != nil {
		return pti.PipelineOptions{}, err
	}
	offline, err := c.Bool(SectionMode, KeyOffline)
	if err != nil {
		return pti.PipelineOptions{}, err
	}
	verbose, err := c.Bool(SectionMode, KeyVerbose)
	if err != nil {
		return pti.PipelineOptions{}, err
	}

	delimiter := ','
	if ch, err := c.Char(SectionFile, KeyDelimiter); err == nil {
		delimiter = ch
	}

	return pti.PipelineOptions{
		SampleCount: sampleCount,
		Delimiter:   delimiter,
		Online:      online,
		Offline:     offline,
		Verbose:     verbose,
	}, nil
}

// Calibration reads a previously-persisted Calibration record back out of
// the [min_intensities], [max_intensities], [output_phases],
// [system_phases] sections (§6.3, §3).
func (c *Config) Calibration() (pti.Calibration, error) {
	var cal pti.Calibration

	detectors := []string{KeyDetector1, KeyDetector2, KeyDetector3}
	fields := []struct {
		section string
		dst     *[3]float64
	}{
		{SectionMinIntensities, &cal.MinIntensity},
		{SectionMaxIntensities, &cal.MaxIntensity},
		{SectionOutputPhases, &cal.OutputPhase},
		{SectionSystemPhases, &cal.SystemPhase},
	}

	for _, field := range fields {
		for i, key := range detectors {
			v, err := c.Float64(field.section, key)
			if err != nil {
				return pti.Calibration{}, err
			}
			field.dst[i] = v
		}
	}

	swapped, err := c.Bool(SectionMode, KeyPhasesSwapped)
	if err != nil {
		return pti.Calibration{}, err
	}
	cal.Swapped = swapped

	return cal, nil
}

// SetCalibration writes a Calibration record into the four calibration
// sections, ready for Write/WriteFile to persist alongside the rest of
// the configuration (§6.3).
func (c *Config) SetCalibration(cal pti.Calibration) {
	detectors := []string{KeyDetector1, KeyDetector2, KeyDetector3}
	fields := []struct {
		section string
		values  [3]float64
	}{
		{SectionMinIntensities, cal.MinIntensity},
		{SectionMaxIntensities, cal.MaxIntensity},
		{SectionOutputPhases, cal.OutputPhase},
		{SectionSystemPhases, cal.SystemPhase},
	}
	for _, field := range fields {
		for i, key := range detectors {
			c.SetFloat64(field.section, key, field.values[i])
		}
	}
	c.SetString(SectionMode, KeyPhasesSwapped, boolString(cal.Swapped))
}

func boolString(b bool) string {
	if b {
		return "true"
	}
	return "false"
}

// calibrationSummary is the YAML shape written by WriteCalibrationSummary,
// a supplementary, human-readable export of a Calibration record (see
// SPEC_FULL.md, "SUPPLEMENTED FEATURE: calibration summary export"). It is
// never read back by this module - the INI-embedded record above remains
// the sole machine-read calibration channel.
type calibrationSummary struct {
	Swapped   bool                       `yaml:"swapped"`
	Detectors map[string]detectorSummary `yaml:"detectors"`
}

type detectorSummary struct {
	MinIntensity   float64 `yaml:"min_intensity"`
	MaxIntensity   float64 `yaml:"max_intensity"`
	OutputPhaseRad float64 `yaml:"output_phase_rad"`
	SystemPhaseRad float64 `yaml:"system_phase_rad"`
}

// WriteCalibrationSummary writes a YAML mirror of cal to path, for
// operator inspection only.
func WriteCalibrationSummary(path string, cal pti.Calibration) error {
	summary := calibrationSummary{
		Swapped:   cal.Swapped,
		Detectors: make(map[string]detectorSummary, 3),
	}
	for i, name := range []string{"1", "2", "3"} {
		summary.Detectors[name] = detectorSummary{
			MinIntensity:   cal.MinIntensity[i],
			MaxIntensity:   cal.MaxIntensity[i],
			OutputPhaseRad: cal.OutputPhase[i],
			SystemPhaseRad: cal.SystemPhase[i],
		}
	}

	data, err := yaml.Marshal(summary)
	if err != nil {
		return fmt.Errorf("marshaling calibration summary: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing calibration summary %q: %w", path, err)
	}
	return nil
}
