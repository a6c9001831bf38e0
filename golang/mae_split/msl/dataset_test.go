package msl

import (
	"errors"
	"math"
	"math/rand"
	"path/filepath"
	"sort"
	"testing"

	"gonum.org/v1/gonum/mat"
)

//loadRentDataset loads the bundled rent sample with the feature columns in a
//fixed order: bedrooms, bathrooms, longitude, latitude.
func loadRentDataset(t *testing.T) *Dataset {
	t.Helper()
	fileName := filepath.Join("..", "..", "..", "datasets", "rent", "rent_sample.csv")
	ds, err := ReadCSVDataset(fileName, []string{"bedrooms", "bathrooms", "longitude", "latitude"}, "price")
	if err != nil {
		t.Fatalf("load rent sample: %v", err)
	}
	return ds
}

func TestReadCSVDataset(t *testing.T) {
	ds := loadRentDataset(t)

	h, w := ds.Matrix.Dims()
	if h != 48 || w != 4 {
		t.Fatalf("expected a 48x4 matrix, got %dx%d", h, w)
	}
	if Height(ds.Target) != 48 {
		t.Fatalf("expected 48 target rows, got %d", Height(ds.Target))
	}

	//Column order follows the request, not the file.
	expected := []string{"bedrooms", "bathrooms", "longitude", "latitude"}
	for q, name := range expected {
		if ds.Names[q] != name {
			t.Fatalf("expected column %d to be %s, got %s", q, name, ds.Names[q])
		}
	}

	if ds.Matrix.At(0, 0) != 0 || ds.Matrix.At(0, 1) != 1 {
		t.Fatalf("wrong first row: bedrooms %g, bathrooms %g", ds.Matrix.At(0, 0), ds.Matrix.At(0, 1))
	}
	if math.Abs(ds.Matrix.At(0, 2)+74.02) > 1e-12 || math.Abs(ds.Matrix.At(0, 3)-40.64) > 1e-12 {
		t.Fatalf("wrong first row coordinates: %g, %g", ds.Matrix.At(0, 2), ds.Matrix.At(0, 3))
	}
	if ds.Target.At(0, 0) != 1480 {
		t.Fatalf("expected first price 1480, got %g", ds.Target.At(0, 0))
	}
	if ds.Matrix.At(4, 0) != 4 || ds.Target.At(4, 0) != 5120 {
		t.Fatalf("wrong fifth row: bedrooms %g, price %g", ds.Matrix.At(4, 0), ds.Target.At(4, 0))
	}
	if ds.Matrix.At(7, 1) != 2.5 || ds.Target.At(7, 0) != 4140 {
		t.Fatalf("wrong eighth row: bathrooms %g, price %g", ds.Matrix.At(7, 1), ds.Target.At(7, 0))
	}
}

func TestReadCSVDatasetMissingColumn(t *testing.T) {
	fileName := filepath.Join("..", "..", "..", "datasets", "rent", "rent_sample.csv")
	_, err := ReadCSVDataset(fileName, []string{"bedrooms", "garages"}, "price")
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for a missing column, got %v", err)
	}
}

func TestNewDatasetValidation(t *testing.T) {
	matrix := mat.NewDense(3, 2, nil)

	if _, err := NewDataset(nil, matrix, mat.NewDense(4, 1, nil)); !errors.Is(err, ErrLengthMismatch) {
		t.Fatalf("expected ErrLengthMismatch for a misaligned target, got %v", err)
	}
	if _, err := NewDataset(nil, matrix, mat.NewDense(3, 2, nil)); !errors.Is(err, ErrLengthMismatch) {
		t.Fatalf("expected ErrLengthMismatch for a wide target, got %v", err)
	}
	if _, err := NewDataset([]string{"lonely"}, matrix, mat.NewDense(3, 1, nil)); !errors.Is(err, ErrLengthMismatch) {
		t.Fatalf("expected ErrLengthMismatch for a short name list, got %v", err)
	}
	if _, err := NewDataset(nil, nil, mat.NewDense(3, 1, nil)); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for a nil matrix, got %v", err)
	}

	ds, err := NewDataset(nil, matrix, mat.NewDense(3, 1, nil))
	if err != nil {
		t.Fatalf("new dataset: %v", err)
	}
	if ds.Names[0] != "f_0" || ds.Names[1] != "f_1" {
		t.Fatalf("expected synthesized names, got %v", ds.Names)
	}
}

func TestFeatureIndex(t *testing.T) {
	ds := loadRentDataset(t)

	q, err := ds.FeatureIndex("latitude")
	if err != nil {
		t.Fatalf("feature index: %v", err)
	}
	if q != 3 {
		t.Fatalf("expected latitude at column 3, got %d", q)
	}
	if _, err := ds.FeatureIndex("garages"); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for an unknown name, got %v", err)
	}
}

func TestCloneIsDeep(t *testing.T) {
	ds := loadRentDataset(t)
	clone := ds.Clone()

	clone.Matrix.Set(0, 0, 999)
	clone.Target.Set(0, 0, 999)
	clone.Names[0] = "mutated"

	if ds.Matrix.At(0, 0) == 999 || ds.Target.At(0, 0) == 999 || ds.Names[0] == "mutated" {
		t.Fatalf("mutating the clone leaked into the original")
	}
}

func TestDropColumn(t *testing.T) {
	ds := loadRentDataset(t)

	dropped, err := ds.DropColumn("bathrooms")
	if err != nil {
		t.Fatalf("drop column: %v", err)
	}

	h, w := dropped.Matrix.Dims()
	if h != 48 || w != 3 {
		t.Fatalf("expected a 48x3 matrix after the drop, got %dx%d", h, w)
	}
	expected := []string{"bedrooms", "longitude", "latitude"}
	for q, name := range expected {
		if dropped.Names[q] != name {
			t.Fatalf("expected column %d to be %s, got %s", q, name, dropped.Names[q])
		}
	}
	for p := 0; p < h; p++ {
		if dropped.Matrix.At(p, 0) != ds.Matrix.At(p, 0) {
			t.Fatalf("row %d: the bedrooms column changed", p)
		}
		if dropped.Matrix.At(p, 1) != ds.Matrix.At(p, 2) {
			t.Fatalf("row %d: the longitude column did not shift left", p)
		}
	}

	if _, w := ds.Matrix.Dims(); w != 4 {
		t.Fatalf("the original dataset lost a column")
	}
	if _, err := ds.DropColumn("garages"); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for an unknown name, got %v", err)
	}
}

func TestDropColumnRefusesLastColumn(t *testing.T) {
	ds, err := NewDataset(nil, mat.NewDense(3, 1, []float64{1, 2, 3}), mat.NewDense(3, 1, []float64{1, 2, 3}))
	if err != nil {
		t.Fatalf("new dataset: %v", err)
	}
	if _, err := ds.DropColumn("f_0"); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestPermuteColumnKeepsValues(t *testing.T) {
	ds := loadRentDataset(t)
	before := ds.Column(2)
	untouched := ds.Column(3)

	ds.PermuteColumn(2, rand.New(rand.NewSource(5)))

	after := ds.Column(2)
	sortedBefore := append([]float64{}, before...)
	sortedAfter := append([]float64{}, after...)
	sort.Float64s(sortedBefore)
	sort.Float64s(sortedAfter)
	for p := range sortedBefore {
		if sortedBefore[p] != sortedAfter[p] {
			t.Fatalf("the shuffle changed the multiset of column values")
		}
	}

	for p, v := range ds.Column(3) {
		if v != untouched[p] {
			t.Fatalf("the shuffle leaked into a neighbour column at row %d", p)
		}
	}
}

func TestTakeRows(t *testing.T) {
	ds := loadRentDataset(t)
	sub := ds.TakeRows([]int{2, 2, 0})

	h, w := sub.Matrix.Dims()
	if h != 3 || w != 4 {
		t.Fatalf("expected a 3x4 matrix, got %dx%d", h, w)
	}
	for q := 0; q < w; q++ {
		if sub.Matrix.At(0, q) != ds.Matrix.At(2, q) || sub.Matrix.At(1, q) != ds.Matrix.At(2, q) {
			t.Fatalf("repeated row 2 was not gathered at column %d", q)
		}
		if sub.Matrix.At(2, q) != ds.Matrix.At(0, q) {
			t.Fatalf("row 0 was not gathered at column %d", q)
		}
	}
	if sub.Target.At(0, 0) != ds.Target.At(2, 0) || sub.Target.At(2, 0) != ds.Target.At(0, 0) {
		t.Fatalf("the target rows were not gathered")
	}
}

func TestBootstrapIndices(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	idx, inBag := BootstrapIndices(rng, 20)

	if len(idx) != 20 || len(inBag) != 20 {
		t.Fatalf("expected 20 indices and 20 flags, got %d and %d", len(idx), len(inBag))
	}

	seen := make([]bool, 20)
	for _, p := range idx {
		if p < 0 || p >= 20 {
			t.Fatalf("index %d out of range", p)
		}
		seen[p] = true
	}
	for p := range seen {
		if seen[p] != inBag[p] {
			t.Fatalf("inBag flag of row %d does not match the drawn indices", p)
		}
	}

	replay, _ := BootstrapIndices(rand.New(rand.NewSource(1)), 20)
	for p := range idx {
		if idx[p] != replay[p] {
			t.Fatalf("the same seed should draw the same sample")
		}
	}
}

func TestNpyRoundTrip(t *testing.T) {
	dir := t.TempDir()
	fileNameMatrix := filepath.Join(dir, "matrix.npy")
	fileNameTarget := filepath.Join(dir, "target.npy")

	matrix := mat.NewDense(3, 2, []float64{1, 2, 3, 4, 5, 6})
	target := mat.NewDense(3, 1, []float64{10, 20, 30})
	if err := WriteNpy(fileNameMatrix, matrix); err != nil {
		t.Fatalf("write matrix: %v", err)
	}
	if err := WriteNpy(fileNameTarget, target); err != nil {
		t.Fatalf("write target: %v", err)
	}

	loaded, err := ReadNpyMatrix(fileNameMatrix)
	if err != nil {
		t.Fatalf("read matrix: %v", err)
	}
	if !mat.Equal(matrix, loaded) {
		t.Fatalf("the matrix changed on the round trip")
	}

	ds, err := ReadNpyDataset(fileNameMatrix, fileNameTarget)
	if err != nil {
		t.Fatalf("read dataset: %v", err)
	}
	if ds.Names[0] != "f_0" || ds.Names[1] != "f_1" {
		t.Fatalf("expected synthesized names, got %v", ds.Names)
	}
	if !mat.Equal(target, ds.Target) {
		t.Fatalf("the target changed on the round trip")
	}
}
