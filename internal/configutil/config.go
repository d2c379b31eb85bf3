// Package configutil loads and validates configuration from YAML files.
//
// A file may extend another one:
//
//	# mediameta.yaml
//	extends: base.yaml
//
// Only single inheritance is supported, so the files form a chain. They are
// loaded from the root of the chain down, each one overriding the values of
// the previous; maps are merged and lists replaced. Validation runs once on
// the merged result.
package configutil

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/cockroachdb/errors"
	"gopkg.in/validator.v2"
	"gopkg.in/yaml.v2"
)

// ErrCycleRef is returned when configuration files extend each other in a
// cycle.
var ErrCycleRef = errors.New("cyclic reference in configuration extends detected")

// Extends defines the keyword for extending a base configuration file.
type Extends struct {
	Extends string `yaml:"extends"`
}

// ValidationError is returned when a configuration fails to pass
// validation.
type ValidationError struct {
	errorMap validator.ErrorMap
}

// ErrForField returns the validation error for the given field.
func (e ValidationError) ErrForField(name string) error {
	return e.errorMap[name]
}

// Error implements the `error` interface.
func (e ValidationError) Error() string {
	fields := make([]string, 0, len(e.errorMap))
	for f := range e.errorMap {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	var w bytes.Buffer
	fmt.Fprintf(&w, "validation failed")
	for _, f := range fields {
		fmt.Fprintf(&w, "\n   %s: %v", f, e.errorMap[f])
	}
	return w.String()
}

// Load loads configuration based on config file name. It follows extends
// directives and merges the files in order.
func Load(filename string, config interface{}) error {
	filenames, err := resolveExtends(filename, readExtend)
	if err != nil {
		return err
	}
	return LoadFiles(config, filenames...)
}

type getExtend func(filename string) (extends string, err error)

// resolveExtends returns the chain of files filename extends, root first.
func resolveExtends(filename string, extendReader getExtend) ([]string, error) {
	filenames := []string{filename}
	seen := map[string]bool{filepath.Clean(filename): true}
	for {
		extends, err := extendReader(filename)
		if err != nil {
			return nil, err
		} else if extends == "" {
			break
		}

		// Relative paths are relative to the extending file.
		if !filepath.IsAbs(extends) {
			extends = filepath.Join(filepath.Dir(filename), extends)
		}
		extends = filepath.Clean(extends)

		if seen[extends] {
			return nil, errors.Wrapf(ErrCycleRef, "%s extends %s", filename, extends)
		}

		filenames = append([]string{extends}, filenames...)
		seen[extends] = true
		filename = extends
	}
	return filenames, nil
}

func readExtend(configFile string) (string, error) {
	data, err := os.ReadFile(configFile)
	if err != nil {
		return "", err
	}

	var cfg Extends
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return "", errors.Wrapf(err, "unmarshal %s", configFile)
	}
	return cfg.Extends, nil
}

// LoadFiles loads a list of files in order, later files overriding earlier
// ones, and validates the result.
func LoadFiles(config interface{}, fnames ...string) error {
	for _, fname := range fnames {
		data, err := os.ReadFile(fname)
		if err != nil {
			return err
		}

		if err := yaml.Unmarshal(data, config); err != nil {
			return errors.Wrapf(err, "unmarshal %s", fname)
		}
	}

	// Validate on the merged config at the end.
	if err := validator.Validate(config); err != nil {
		var errMap validator.ErrorMap
		if errors.As(err, &errMap) {
			return ValidationError{errorMap: errMap}
		}
		return err
	}
	return nil
}
