package msl

import (
	"errors"
	"fmt"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
	"math"
	"math/rand"
	"path"
	"sort"
)

//BagParams collects arguments required to fit a stump bag. MaxFeatures
//bounds the number of columns each member may split on; zero or a negative
//value means all columns. All randomness of the fit flows from Seed.
type BagParams struct {
	Members     int   `json:"members"`
	MaxFeatures int   `json:"max_features"`
	Seed        int64 `json:"seed"`
}

//StumpBag aggregates bootstrap-fitted stumps and keeps the running
//out-of-bag sums needed to score the ensemble on rows a member never saw.
type StumpBag struct {
	Stumps []*Stump
	Names  []string

	target   []float64
	oobSum   []float64
	oobCount []int
	curve    [][3]float64
}

//FitBag fits the requested number of stumps, each on its own bootstrap
//sample and column subset, sequentially. A sample where no column splits
//contributes a constant stump predicting the sample mean. After every
//member the current out-of-bag scores are appended to the learning curve;
//rows without coverage yet produce NaN entries there.
func FitBag(ds *Dataset, params BagParams) (*StumpBag, error) {
	h, w, err := ds.validatedDimensions()
	if err != nil {
		return nil, err
	}
	if params.Members < 1 {
		return nil, fmt.Errorf("%w: a bag needs at least one member, got %d", ErrInvalidInput, params.Members)
	}

	maxFeatures := params.MaxFeatures
	if maxFeatures <= 0 || maxFeatures > w {
		maxFeatures = w
	}

	rng := rand.New(rand.NewSource(params.Seed))

	bag := &StumpBag{
		Stumps:   make([]*Stump, 0, params.Members),
		Names:    ds.Names,
		target:   ds.TargetColumn(),
		oobSum:   make([]float64, h),
		oobCount: make([]int, h),
		curve:    make([][3]float64, 0, params.Members),
	}

	for member := 0; member < params.Members; member++ {
		idx, inBag := BootstrapIndices(rng, h)
		sample := ds.TakeRows(idx)
		cols := columnSubset(rng, w, maxFeatures)

		stump, err := fitStumpOn(sample, cols)
		if errors.Is(err, ErrNoValidSplit) {
			stump = NewConstantStump(stat.Mean(sample.TargetColumn(), nil), h)
		} else if err != nil {
			return nil, err
		}
		bag.Stumps = append(bag.Stumps, stump)

		for p := 0; p < h; p++ {
			if inBag[p] {
				continue
			}
			bag.oobSum[p] += stump.predictRow(ds.Matrix, p)
			bag.oobCount[p]++
		}

		r2, mae, err := bag.OOBScore()
		if err != nil {
			r2, mae = math.NaN(), math.NaN()
		}
		bag.curve = append(bag.curve, [3]float64{float64(member + 1), r2, mae})
	}

	return bag, nil
}

//columnSubset draws size distinct column indices in ascending order, nil
//stands for all columns.
func columnSubset(rng *rand.Rand, w, size int) []int {
	if size >= w {
		return nil
	}
	cols := rng.Perm(w)[:size]
	sort.Ints(cols)
	return cols
}

//Predict infers the mean prediction of all members for every row.
func (bag *StumpBag) Predict(features *mat.Dense) []float64 {
	h, _ := features.Dims()
	prediction := make([]float64, h)
	for p := 0; p < h; p++ {
		s := 0.0
		for _, currentStump := range bag.Stumps {
			s += currentStump.predictRow(features, p)
		}
		prediction[p] = s / float64(len(bag.Stumps))
	}
	return prediction
}

//OOBPredictions returns the aggregated out-of-bag prediction per training
//row and the coverage mask. Rows every member trained on stay NaN.
func (bag *StumpBag) OOBPredictions() (prediction []float64, covered []bool) {
	prediction = make([]float64, len(bag.target))
	covered = make([]bool, len(bag.target))
	for p, count := range bag.oobCount {
		if count < 1 {
			prediction[p] = math.NaN()
			continue
		}
		prediction[p] = bag.oobSum[p] / float64(count)
		covered[p] = true
	}
	return
}

//OOBScore reports the coefficient of determination and the mean absolute
//error of the aggregated out-of-bag predictions over the covered rows.
func (bag *StumpBag) OOBScore() (r2, mae float64, err error) {
	estimates := make([]float64, 0, len(bag.target))
	values := make([]float64, 0, len(bag.target))
	for p, count := range bag.oobCount {
		if count < 1 {
			continue
		}
		estimates = append(estimates, bag.oobSum[p]/float64(count))
		values = append(values, bag.target[p])
	}
	if len(estimates) == 0 {
		err = fmt.Errorf("%w: every row was in every sample", ErrNoCoverage)
		return
	}

	r2 = stat.RSquaredFrom(estimates, values, nil)
	mae, err = MeanAbsoluteError(estimates, values)
	return
}

//LearningCurve returns one row per fitted member: the member count and the
//out-of-bag scores after that member joined.
func (bag *StumpBag) LearningCurve() [][3]float64 {
	return bag.curve
}

//LearningCurveMatrix lays the learning curve out as a dense matrix for
//dumps.
func (bag *StumpBag) LearningCurveMatrix() *mat.Dense {
	curve := mat.NewDense(len(bag.curve), 3, nil)
	for p, row := range bag.curve {
		for q := 0; q < 3; q++ {
			curve.Set(p, q, row[q])
		}
	}
	return curve
}

//OOBPredictionMatrix lays the out-of-bag predictions out as a column for
//dumps, NaN on rows without coverage.
func (bag *StumpBag) OOBPredictionMatrix() *mat.Dense {
	prediction, _ := bag.OOBPredictions()
	column := mat.NewDense(len(prediction), 1, nil)
	for p, val := range prediction {
		column.Set(p, 0, val)
	}
	return column
}

//RenderStumps draws every member into its own picture file.
func (bag *StumpBag) RenderStumps(dumpPrefix, figureType, picturesDirectory string) error {
	for graphInd, currentStump := range bag.Stumps {
		fileName := fmt.Sprintf("%s_%05d.%s", dumpPrefix, graphInd, figureType)
		if err := currentStump.Render(path.Join(picturesDirectory, fileName), figureType); err != nil {
			return err
		}
	}
	return nil
}
