package msl

import (
	"fmt"
	"gonum.org/v1/gonum/mat"
	"math/rand"
)

//Dataset unites a feature matrix, an aligned target column and the feature
//names. The target is stored as an h by 1 matrix.
type Dataset struct {
	Names  []string
	Matrix *mat.Dense
	Target *mat.Dense
}

//Height returns the number of rows of a dense matrix.
func Height(m *mat.Dense) int {
	h, _ := m.Dims()
	return h
}

//NewDataset builds a dataset and validates its shape. When names is nil the
//columns are named f_0, f_1 and so on.
func NewDataset(names []string, matrix, target *mat.Dense) (*Dataset, error) {
	ds := &Dataset{Names: names, Matrix: matrix, Target: target}
	if ds.Names == nil && matrix != nil {
		_, w := matrix.Dims()
		ds.Names = make([]string, w)
		for q := range ds.Names {
			ds.Names[q] = fmt.Sprintf("f_%d", q)
		}
	}
	if _, _, err := ds.validatedDimensions(); err != nil {
		return nil, err
	}
	return ds, nil
}

//validatedDimensions checks the consistency of the arrays in the dataset
//and returns the height (the number of rows) and the width (the number of
//feature columns).
func (ds *Dataset) validatedDimensions() (h, w int, err error) {
	if ds.Matrix == nil || ds.Target == nil {
		err = fmt.Errorf("%w: dataset misses a matrix or a target", ErrInvalidInput)
		return
	}
	h, w = ds.Matrix.Dims()
	targetH, targetW := ds.Target.Dims()
	if targetH != h {
		err = fmt.Errorf("%w: the target height %d is not equal to the matrix height %d", ErrLengthMismatch, targetH, h)
		return
	}
	if targetW != 1 {
		err = fmt.Errorf("%w: the width of the target should be 1 not %d", ErrLengthMismatch, targetW)
		return
	}
	if len(ds.Names) != w {
		err = fmt.Errorf("%w: %d names against %d columns", ErrLengthMismatch, len(ds.Names), w)
		return
	}
	return
}

//Column returns a copy of one feature column.
func (ds *Dataset) Column(q int) []float64 {
	return mat.Col(nil, q, ds.Matrix)
}

//TargetColumn returns a copy of the target column.
func (ds *Dataset) TargetColumn() []float64 {
	return mat.Col(nil, 0, ds.Target)
}

//FeatureIndex resolves a feature name to its column index.
func (ds *Dataset) FeatureIndex(name string) (int, error) {
	for q, current := range ds.Names {
		if current == name {
			return q, nil
		}
	}
	return 0, fmt.Errorf("%w: unknown column %q", ErrInvalidInput, name)
}

//Clone copies the dataset deeply.
func (ds *Dataset) Clone() *Dataset {
	names := make([]string, len(ds.Names))
	copy(names, ds.Names)
	return &Dataset{Names: names, Matrix: mat.DenseCopyOf(ds.Matrix), Target: mat.DenseCopyOf(ds.Target)}
}

//DropColumn returns a new dataset without the named feature column. The
//receiver stays untouched.
func (ds *Dataset) DropColumn(name string) (*Dataset, error) {
	h, w, err := ds.validatedDimensions()
	if err != nil {
		return nil, err
	}
	q, err := ds.FeatureIndex(name)
	if err != nil {
		return nil, err
	}
	if w < 2 {
		return nil, fmt.Errorf("%w: cannot drop the only feature column %q", ErrInvalidInput, name)
	}

	kept := mat.NewDense(h, w-1, nil)
	names := make([]string, 0, w-1)
	dst := 0
	for src := 0; src < w; src++ {
		if src == q {
			continue
		}
		for p := 0; p < h; p++ {
			kept.Set(p, dst, ds.Matrix.At(p, src))
		}
		names = append(names, ds.Names[src])
		dst++
	}

	return &Dataset{Names: names, Matrix: kept, Target: mat.DenseCopyOf(ds.Target)}, nil
}

//PermuteColumn shuffles the values of one feature column in place.
func (ds *Dataset) PermuteColumn(q int, rng *rand.Rand) {
	column := mat.Col(nil, q, ds.Matrix)
	rng.Shuffle(len(column), func(i, j int) { column[i], column[j] = column[j], column[i] })
	ds.Matrix.SetCol(q, column)
}

//TakeRows gathers the listed rows into a new dataset, repeated indices are
//allowed. The names are shared with the receiver.
func (ds *Dataset) TakeRows(idx []int) *Dataset {
	_, w := ds.Matrix.Dims()
	matrix := mat.NewDense(len(idx), w, nil)
	target := mat.NewDense(len(idx), 1, nil)

	for p, src := range idx {
		for q := 0; q < w; q++ {
			matrix.Set(p, q, ds.Matrix.At(src, q))
		}
		target.Set(p, 0, ds.Target.At(src, 0))
	}

	return &Dataset{Names: ds.Names, Matrix: matrix, Target: target}
}

//BootstrapIndices samples n row indices with replacement and reports which
//rows made it into the sample.
func BootstrapIndices(rng *rand.Rand, n int) (idx []int, inBag []bool) {
	idx = make([]int, n)
	inBag = make([]bool, n)
	for p := range idx {
		chosen := rng.Intn(n)
		idx[p] = chosen
		inBag[chosen] = true
	}
	return
}
