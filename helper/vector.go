package helper

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// EuclideanDistance menghitung jarak L2 dua descriptor.
// Dimensi berbeda atau vektor kosong dianggap tak terhingga jauhnya.
func EuclideanDistance(a, b []float64) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return math.Inf(1)
	}
	return floats.Distance(a, b, 2)
}
