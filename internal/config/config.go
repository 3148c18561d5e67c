// Package config implements the INI-style configuration reader of
// spec.md §6.3: sections, bare key = value pairs, ';' end-of-line
// comments, and a tagged-sum value type over {string, char, float64}.
//
// No example repo in the reference corpus carries a ready-made INI
// parsing library (see DESIGN.md); this is a small hand-rolled scanner
// in the spirit of the original C++ parser::Config
// (original_source/src/parser/config.cpp), translated into idiomatic Go.
package config

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// Value is the tagged sum {string, char, float64} of §9's Design Note
// ("Variant config values"). The zero Value holds an empty string.
type Value struct {
	kind    valueKind
	str     string
	ch      rune
	numeric float64
}

type valueKind int

const (
	kindString valueKind = iota
	kindChar
	kindFloat
)

func stringValue(s string) Value { return Value{kind: kindString, str: s} }
func charValue(c rune) Value     { return Value{kind: kindChar, ch: c} }
func floatValue(f float64) Value { return Value{kind: kindFloat, numeric: f} }

// String returns the value as a string, if it was parsed as one.
func (v Value) String() (string, bool) {
	if v.kind != kindString {
		return "", false
	}
	return v.str, true
}

// Char returns the value as a single rune, if it was parsed as one.
func (v Value) Char() (rune, bool) {
	if v.kind != kindChar {
		return 0, false
	}
	return v.ch, true
}

// Float64 returns the value as a float64, if it was parsed as one.
func (v Value) Float64() (float64, bool) {
	if v.kind != kindFloat {
		return 0, false
	}
	return v.numeric, true
}

// Bool interprets a string value spelled "true"/"false" (§6.3: "booleans
// are spelled true/false").
func (v Value) Bool() (bool, bool) {
	s, ok := v.String()
	if !ok {
		return false, false
	}
	switch s {
	case "true":
		return true, true
	case "false":
		return false, true
	default:
		return false, false
	}
}

// Config is a parsed configuration file: section name -> key -> Value.
type Config struct {
	sections map[string]map[string]Value
}

// Error reports a missing or mistyped section/key. It deliberately does not
// import pti's Kind taxonomy, keeping config free of a dependency on the
// numerical core; callers that need the ConfigMissing label can match on
// this type directly via errors.As.
type Error struct {
	Path    string // "section.key"
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("config: %s: %s", e.Path, e.Message)
}

func missing(section, key, message string) *Error {
	return &Error{Path: section + "." + key, Message: message}
}

// Load reads and parses the INI file at path.
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening config file %q: %w", path, err)
	}
	defer f.Close()
	return Parse(f)
}

// Parse parses an INI-style stream per §6.3.
func Parse(r io.Reader) (*Config, error) {
	cfg := &Config{sections: make(map[string]map[string]Value)}

	scanner := bufio.NewScanner(r)
	section := ""
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, ";") {
			continue
		}

		if strings.HasPrefix(line, "[") {
			line = strings.TrimSpace(stripLineComment(line))
			end := strings.Index(line, "]")
			if end < 0 {
				continue
			}
			section = strings.TrimSpace(line[1:end])
			if _, ok := cfg.sections[section]; !ok {
				cfg.sections[section] = make(map[string]Value)
			}
			continue
		}

		eq := strings.Index(line, "=")
		if eq < 0 {
			continue
		}
		key := strings.TrimSpace(line[:eq])
		raw := strings.TrimSpace(stripValueComment(line[eq+1:]))
		if key == "" {
			continue
		}
		if _, ok := cfg.sections[section]; !ok {
			cfg.sections[section] = make(map[string]Value)
		}
		cfg.sections[section][key] = parseValue(raw)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	return cfg, nil
}

// stripLineComment removes a trailing ';' end-of-line comment from a
// section header, where no value can collide with the comment marker.
func stripLineComment(line string) string {
	if i := strings.IndexByte(line, ';'); i >= 0 {
		return line[:i]
	}
	return line
}

// stripValueComment removes a trailing ';' end-of-line comment from a
// value, unless stripping it would leave nothing: ';' is a documented
// valid single-character value (§6.3's "delimiter" key in particular), so
// a value that is exactly ';' must round-trip rather than be swallowed as
// an empty, fully-commented-out value.
func stripValueComment(raw string) string {
	i := strings.IndexByte(raw, ';')
	if i < 0 {
		return raw
	}
	if strings.TrimSpace(raw[:i]) == "" {
		return raw
	}
	return raw[:i]
}

// parseValue implements the same fallback order as the original parser:
// try a float64 literal first, then a single character, otherwise keep
// the raw string.
func parseValue(raw string) Value {
	if f, err := strconv.ParseFloat(raw, 64); err == nil {
		return floatValue(f)
	}
	runes := []rune(raw)
	if len(runes) == 1 {
		return charValue(runes[0])
	}
	return stringValue(raw)
}

// Float64 looks up section.key and requires it to hold a float64,
// returning a ConfigMissing-shaped *Error otherwise.
func (c *Config) Float64(section, key string) (float64, error) {
	v, err := c.get(section, key)
	if err != nil {
		return 0, err
	}
	f, ok := v.Float64()
	if !ok {
		return 0, missing(section, key, "expected a numeric value")
	}
	return f, nil
}

// String looks up section.key and requires it to hold a string.
func (c *Config) String(section, key string) (string, error) {
	v, err := c.get(section, key)
	if err != nil {
		return "", err
	}
	s, ok := v.String()
	if !ok {
		return "", missing(section, key, "expected a string value")
	}
	return s, nil
}

// Char looks up section.key and requires it to hold a single character.
func (c *Config) Char(section, key string) (rune, error) {
	v, err := c.get(section, key)
	if err != nil {
		return 0, err
	}
	ch, ok := v.Char()
	if !ok {
		return 0, missing(section, key, "expected a single-character value")
	}
	return ch, nil
}

// Bool looks up section.key and requires it to be spelled "true"/"false".
func (c *Config) Bool(section, key string) (bool, error) {
	v, err := c.get(section, key)
	if err != nil {
		return false, err
	}
	b, ok := v.Bool()
	if !ok {
		return false, missing(section, key, `expected "true" or "false"`)
	}
	return b, nil
}

func (c *Config) get(section, key string) (Value, error) {
	keys, ok := c.sections[section]
	if !ok {
		return Value{}, missing(section, key, "section not present")
	}
	v, ok := keys[key]
	if !ok {
		return Value{}, missing(section, key, "key not present")
	}
	return v, nil
}

// Set records an option, for programmatic construction (calibration
// persistence) and for tests. It mirrors the original's addOption.
func (c *Config) Set(section, key string, v Value) {
	if c.sections == nil {
		c.sections = make(map[string]map[string]Value)
	}
	if _, ok := c.sections[section]; !ok {
		c.sections[section] = make(map[string]Value)
	}
	c.sections[section][key] = v
}

// SetFloat64, SetString, SetChar are typed convenience wrappers over Set.
func (c *Config) SetFloat64(section, key string, f float64) { c.Set(section, key, floatValue(f)) }
func (c *Config) SetString(section, key string, s string)   { c.Set(section, key, stringValue(s)) }
func (c *Config) SetChar(section, key string, ch rune)      { c.Set(section, key, charValue(ch)) }

// Write serializes the configuration back to INI form. Every run
// overwrites the file in full (the original's writeConfig does the same).
func (c *Config) Write(w io.Writer) error {
	for section, keys := range c.sections {
		if _, err := fmt.Fprintf(w, "[%s]\n", section); err != nil {
			return err
		}
		for key, v := range keys {
			if _, err := fmt.Fprintf(w, "%s = %s\n", key, formatValue(v)); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintln(w); err != nil {
			return err
		}
	}
	return nil
}

func formatValue(v Value) string {
	switch v.kind {
	case kindFloat:
		return strconv.FormatFloat(v.numeric, 'g', -1, 64)
	case kindChar:
		return string(v.ch)
	default:
		return v.str
	}
}

// WriteFile persists the configuration to path, truncating any prior
// content (§6.3's write mode for the config file itself).
func (c *Config) WriteFile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating config file %q: %w", path, err)
	}
	defer f.Close()
	return c.Write(f)
}
