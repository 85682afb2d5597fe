package noise

import (
	opensimplex "github.com/ojrac/opensimplex-go"
)

// Simplex wraps OpenSimplex noise.
type Simplex struct {
	n opensimplex.Noise
}

func NewSimplex(seed int64) *Simplex {
	return &Simplex{n: opensimplex.New(seed)}
}

func (s *Simplex) Noise2D(x, z float64) float64 {
	return clamp(s.n.Eval2(x, z))
}
