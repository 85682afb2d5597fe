// Package noise provides the deterministic 2D coherent noise sources the
// heightfield is built from. Every source returns values in [-1, 1].
package noise

import (
	"errors"
	"fmt"
	"strings"
)

// Source is a seeded, deterministic 2D coherent noise function.
type Source interface {
	Noise2D(x, z float64) float64
}

// Kind names a noise implementation.
type Kind string

const (
	KindSimplex Kind = "simplex"
	KindPerlin  Kind = "perlin"
	KindValue   Kind = "value"
)

// ErrUnknownKind is returned by New for an unrecognised kind.
var ErrUnknownKind = errors.New("noise: unknown kind")

// New builds the source named by kind.
func New(kind Kind, seed int64) (Source, error) {
	switch Kind(strings.ToLower(string(kind))) {
	case KindSimplex, "":
		return NewSimplex(seed), nil
	case KindPerlin:
		return NewPerlin(seed), nil
	case KindValue:
		return NewValue(seed), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}
}

func clamp(v float64) float64 {
	if v < -1 {
		return -1
	}
	if v > 1 {
		return 1
	}
	return v
}
