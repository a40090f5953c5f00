// Package types provides type definitions for structured data used throughout the parity checker.
//
//nolint:revive // types is a standard Go package name pattern
package types

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

// Default viewport used when a suite does not declare one.
const (
	DefaultViewportWidth  = 1440
	DefaultViewportHeight = 900
)

// Viewport is the emulated browser window size for a capture.
type Viewport struct {
	Width  int `json:"width" yaml:"width" validate:"gte=0"`
	Height int `json:"height" yaml:"height" validate:"gte=0"`
}

// OrDefault returns the viewport with zero dimensions replaced by defaults.
func (v Viewport) OrDefault() Viewport {
	if v.Width == 0 {
		v.Width = DefaultViewportWidth
	}
	if v.Height == 0 {
		v.Height = DefaultViewportHeight
	}
	return v
}

// Target names one element to inspect: a human-readable label, the CSS selector
// used to find it, and the computed-style properties to read from it.
type Target struct {
	Label      string   `json:"label" yaml:"label" validate:"required"`
	Selector   string   `json:"selector" yaml:"selector" validate:"required"`
	Properties []string `json:"properties,omitempty" yaml:"properties,omitempty" validate:"omitempty,dive,required"`
}

// Suite is the configuration object shared by capture, compare and report.
// The order of Targets is the order used in reports.
type Suite struct {
	Name     string   `json:"name,omitempty" yaml:"name,omitempty"`
	Viewport Viewport `json:"viewport,omitempty" yaml:"viewport,omitempty"`
	Targets  []Target `json:"targets" yaml:"targets" validate:"required,min=1,dive"`
}

// Validate validates the Suite using the validator and checks label uniqueness.
func (s *Suite) Validate() error {
	validate := validator.New()
	if err := validate.Struct(s); err != nil {
		return err
	}

	seen := make(map[string]struct{}, len(s.Targets))
	for _, t := range s.Targets {
		if _, ok := seen[t.Label]; ok {
			return fmt.Errorf("duplicate target label %q", t.Label)
		}
		seen[t.Label] = struct{}{}
	}
	return nil
}

// Target returns the target with the given label.
func (s *Suite) Target(label string) (Target, bool) {
	for _, t := range s.Targets {
		if t.Label == label {
			return t, true
		}
	}
	return Target{}, false
}

// Labels returns the target labels in suite order.
func (s *Suite) Labels() []string {
	labels := make([]string, 0, len(s.Targets))
	for _, t := range s.Targets {
		labels = append(labels, t.Label)
	}
	return labels
}
