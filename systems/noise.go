package systems

import (
	"github.com/ojrac/opensimplex-go"
)

// NoiseField is a seeded 2D coherent noise source used while generating terrain.
type NoiseField struct {
	noise opensimplex.Noise
}

// NewNoiseField creates a noise field. The same seed always yields the same field.
func NewNoiseField(seed int64) *NoiseField {
	return &NoiseField{noise: opensimplex.New(seed)}
}

// Sample returns the noise value at (x, y), roughly in [-1, 1].
func (n *NoiseField) Sample(x, y float64) float64 {
	return n.noise.Eval2(x, y)
}

// Fractal sums octaves of noise with the given lacunarity and gain,
// normalised back to roughly [-1, 1].
func (n *NoiseField) Fractal(x, y float64, octaves int, lacunarity, gain float64) float64 {
	if octaves < 1 {
		octaves = 1
	}
	var sum, norm float64
	amp, freq := 1.0, 1.0
	for i := 0; i < octaves; i++ {
		sum += amp * n.noise.Eval2(x*freq, y*freq)
		norm += amp
		amp *= gain
		freq *= lacunarity
	}
	return sum / norm
}
