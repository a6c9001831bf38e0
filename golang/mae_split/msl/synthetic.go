package msl

import (
	"gonum.org/v1/gonum/mat"
	"math/rand"
)

//ToyColumns draws a feature column and an unrelated target column of small
//integers. All randomness comes from the passed generator.
func ToyColumns(rng *rand.Rand, n int) (feature, target []float64) {
	feature = make([]float64, n)
	target = make([]float64, n)
	for ind := range feature {
		feature[ind] = float64(rng.Intn(100))
		target[ind] = float64(rng.Intn(100))
	}
	return
}

//SyntheticDataset builds a dataset with two informative columns and one
//noise column. The target jumps by 100 once f_0 passes 50 and grows mildly
//with f_1; the noise column never enters the target.
func SyntheticDataset(rng *rand.Rand, n int) *Dataset {
	matrix := mat.NewDense(n, 3, nil)
	target := mat.NewDense(n, 1, nil)

	for p := 0; p < n; p++ {
		f0 := rng.Float64() * 100
		f1 := rng.Float64() * 100
		noise := rng.NormFloat64()

		y := 10 + 0.2*f1 + rng.NormFloat64()
		if f0 > 50 {
			y += 100
		}

		matrix.Set(p, 0, f0)
		matrix.Set(p, 1, f1)
		matrix.Set(p, 2, noise)
		target.Set(p, 0, y)
	}

	ds, err := NewDataset([]string{"f_0", "f_1", "noise"}, matrix, target)
	HandleError(err)
	return ds
}
