// Package risk classifies shell commands against an ordered table of danger
// signatures and builds the guidance text handed to the model alongside the
// findings.
package risk

import (
	"fmt"
	"regexp"
	"strings"
)

// Level grades how dangerous a matched command pattern is.
type Level string

const (
	LevelLow      Level = "low"
	LevelMedium   Level = "medium"
	LevelHigh     Level = "high"
	LevelCritical Level = "critical"
)

// ParseLevel converts a string into a Level.
func ParseLevel(s string) (Level, error) {
	level := Level(strings.ToLower(strings.TrimSpace(s)))
	switch level {
	case LevelLow, LevelMedium, LevelHigh, LevelCritical:
		return level, nil
	}
	return "", fmt.Errorf("unknown risk level: %q", s)
}

// Signature pairs a command pattern with the risk it signals.
type Signature struct {
	Pattern string
	Level   Level
	Reason  string

	re *regexp.Regexp
}

// Finding records one signature matching one command.
type Finding struct {
	Level  Level  `json:"level"`
	Reason string `json:"reason"`
}

// Result is the outcome of classifying a single command.
type Result struct {
	Command   string    `json:"command"`
	Findings  []Finding `json:"findings"`
	HasDanger bool      `json:"has_danger"`
	Guidance  string    `json:"guidance"`
}

// Classifier evaluates commands against an ordered signature table. It holds
// no mutable state after construction and is safe for concurrent use.
type Classifier struct {
	signatures []Signature
}

// New returns a classifier holding only the built-in signature table.
func New() *Classifier {
	return &Classifier{signatures: builtins()}
}

// WithSignatures returns a classifier that checks the built-in table first,
// then the extra signatures in the order given.
func WithSignatures(extra []Signature) (*Classifier, error) {
	sigs := builtins()
	for _, sig := range extra {
		compiled, err := compile(sig)
		if err != nil {
			return nil, err
		}
		sigs = append(sigs, compiled)
	}
	return &Classifier{signatures: sigs}, nil
}

func compile(sig Signature) (Signature, error) {
	if sig.Reason == "" {
		return Signature{}, fmt.Errorf("signature %q has no reason", sig.Pattern)
	}
	if _, err := ParseLevel(string(sig.Level)); err != nil {
		return Signature{}, fmt.Errorf("signature %q: %w", sig.Pattern, err)
	}
	re, err := regexp.Compile(sig.Pattern)
	if err != nil {
		return Signature{}, fmt.Errorf("failed to compile signature %q: %w", sig.Pattern, err)
	}
	sig.re = re
	return sig, nil
}

// Classify checks command against every signature in table order. Every
// signature is tested; overlapping entries each contribute their own finding.
func (c *Classifier) Classify(command string) Result {
	var findings []Finding
	for _, sig := range c.signatures {
		if sig.re.MatchString(command) {
			findings = append(findings, Finding{Level: sig.Level, Reason: sig.Reason})
		}
	}

	result := Result{
		Command:   command,
		Findings:  findings,
		HasDanger: len(findings) > 0,
	}
	if result.HasDanger {
		result.Guidance = dangerGuidance(command, findings)
	} else {
		result.Guidance = safeGuidance(command)
	}
	return result
}
