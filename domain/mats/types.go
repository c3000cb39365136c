// Package mats defines the configuration surface and result bundle of the
// connectivity-matrix pipeline.
package mats

import (
	"connmat/domain/core"
	"connmat/domain/stack"
)

// Modality identifies the imaging measurement behind the connection matrices.
type Modality string

const (
	ModalityDTI  Modality = "dti"
	ModalityFMRI Modality = "fmri"
)

// ParseModality validates a modality string.
func ParseModality(s string) (Modality, error) {
	switch Modality(s) {
	case ModalityDTI, ModalityFMRI:
		return Modality(s), nil
	}
	return "", core.ErrUnknownModality
}

// Divisor selects the normalization applied to raw connection strengths.
// Ignored for the fmri modality.
type Divisor string

const (
	DivisorNone     Divisor = "none"
	DivisorWaytotal Divisor = "waytotal"
	DivisorSize     Divisor = "size"
	DivisorRowSums  Divisor = "rowSums"
)

// ParseDivisor validates a divisor string.
func ParseDivisor(s string) (Divisor, error) {
	switch Divisor(s) {
	case DivisorNone, DivisorWaytotal, DivisorSize, DivisorRowSums:
		return Divisor(s), nil
	}
	return "", core.ErrUnknownDivisor
}

// Strategy selects the thresholding strategy. The four strategies are
// mutually exclusive within one invocation.
type Strategy string

const (
	StrategyConsensus   Strategy = "consensus"
	StrategyDensity     Strategy = "density"
	StrategyMean        Strategy = "mean"
	StrategyConsistency Strategy = "consistency"
)

// ParseStrategy validates a strategy string.
func ParseStrategy(s string) (Strategy, error) {
	switch Strategy(s) {
	case StrategyConsensus, StrategyDensity, StrategyMean, StrategyConsistency:
		return Strategy(s), nil
	}
	return "", core.ErrUnknownStrategy
}

// Algo identifies the tractography algorithm (dti only).
type Algo string

const (
	AlgoProbabilistic Algo = "probabilistic"
	AlgoDeterministic Algo = "deterministic"
)

// ParseAlgo validates an algorithm string.
func ParseAlgo(s string) (Algo, error) {
	switch Algo(s) {
	case AlgoProbabilistic, AlgoDeterministic:
		return Algo(s), nil
	}
	return "", core.ErrUnknownAlgo
}

// Defaults for the optional configuration values.
const (
	DefaultSubThresh = 0.5
	DefaultSamples   = 5000
)

// Options is the full configuration of one pipeline invocation.
type Options struct {
	Modality     Modality
	Divisor      Divisor
	Algo         Algo
	Strategy     Strategy
	Thresholds   []float64
	SubThresh    float64
	Samples      int // P, samples per seed voxel (tractography only)
	SymmetrizeBy stack.SymmetrizeMode
}

// DefaultOptions returns an Options with the documented defaults filled in.
func DefaultOptions() Options {
	return Options{
		Modality:     ModalityDTI,
		Divisor:      DivisorNone,
		Algo:         AlgoProbabilistic,
		Strategy:     StrategyConsensus,
		SubThresh:    DefaultSubThresh,
		Samples:      DefaultSamples,
		SymmetrizeBy: stack.SymmetrizeMax,
	}
}

// Validate checks every recognized option value. All violations are
// configuration errors and abort the pipeline before any work starts.
func (o Options) Validate() error {
	if _, err := ParseModality(string(o.Modality)); err != nil {
		return err
	}
	if _, err := ParseDivisor(string(o.Divisor)); err != nil {
		return err
	}
	if _, err := ParseStrategy(string(o.Strategy)); err != nil {
		return err
	}
	if _, err := ParseAlgo(string(o.Algo)); err != nil {
		return err
	}
	if _, err := stack.ParseSymmetrizeMode(string(o.SymmetrizeBy)); err != nil {
		return err
	}
	if o.SubThresh < 0 || o.SubThresh > 1 {
		return core.ErrSubThreshRange
	}
	if o.Samples <= 0 {
		return core.ErrSampleCountInvalid
	}
	if len(o.Thresholds) == 0 {
		return core.ErrNoThresholds
	}
	// Density and consistency interpret thresholds as fractions; consensus
	// and mean accept arbitrary raw connection-weight cutoffs unchecked.
	if o.Strategy == StrategyDensity || o.Strategy == StrategyConsistency {
		for _, t := range o.Thresholds {
			if t < 0 || t > 1 {
				return core.ErrThresholdRange
			}
		}
	}
	return nil
}

// NormalizationActive reports whether a divisor pass applies: fmri matrices
// are taken as-is regardless of the configured divisor.
func (o Options) NormalizationActive() bool {
	return o.Modality == ModalityDTI && o.Divisor != DivisorNone
}
