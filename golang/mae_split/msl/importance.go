package msl

import (
	"fmt"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
	"gorgonia.org/tensor"
	"math/rand"
)

//Regressor is any model that predicts one value per row of a feature
//matrix.
type Regressor interface {
	Predict(features *mat.Dense) []float64
}

//ImportanceParams collects arguments of the permutation run. Repeats is the
//number of independent shuffles per feature.
type ImportanceParams struct {
	Repeats int   `json:"repeats"`
	Seed    int64 `json:"seed"`
}

//PermutationResult keeps the raw score drops of every shuffle in a repeats
//by features by 2 cube, metric 0 is the r2 drop and metric 1 the mae rise,
//together with the per-feature mean and standard deviation of both metrics.
//The deviations need at least two repeats, one repeat leaves them NaN.
type PermutationResult struct {
	Names       []string
	BaselineR2  float64
	BaselineMae float64

	MeanR2Drop  []float64
	StdR2Drop   []float64
	MeanMaeRise []float64
	StdMaeRise  []float64

	Drops *tensor.Dense
}

//PermutationImportance measures how much the model scores degrade when one
//feature column is shuffled while all others stay intact. Every shuffle
//draws from the seeded generator; the dataset is left untouched, the
//shuffles run on a working copy with the column restored after each
//feature.
func PermutationImportance(model Regressor, ds *Dataset, params ImportanceParams) (*PermutationResult, error) {
	h, w, err := ds.validatedDimensions()
	if err != nil {
		return nil, err
	}
	if params.Repeats < 1 {
		return nil, fmt.Errorf("%w: need at least one repeat, got %d", ErrInvalidInput, params.Repeats)
	}

	rng := rand.New(rand.NewSource(params.Seed))
	target := ds.TargetColumn()

	baseline := model.Predict(ds.Matrix)
	baselineR2 := stat.RSquaredFrom(baseline, target, nil)
	baselineMae, err := MeanAbsoluteError(baseline, target)
	if err != nil {
		return nil, err
	}

	work := mat.DenseCopyOf(ds.Matrix)
	drops := tensor.New(tensor.WithShape(params.Repeats, w, 2), tensor.Of(tensor.Float64))

	column := make([]float64, h)
	shuffled := make([]float64, h)

	for q := 0; q < w; q++ {
		mat.Col(column, q, work)
		for repeat := 0; repeat < params.Repeats; repeat++ {
			copy(shuffled, column)
			rng.Shuffle(h, func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] })
			work.SetCol(q, shuffled)

			prediction := model.Predict(work)
			r2 := stat.RSquaredFrom(prediction, target, nil)
			mae, err := MeanAbsoluteError(prediction, target)
			if err != nil {
				return nil, err
			}

			HandleError(drops.SetAt(baselineR2-r2, repeat, q, 0))
			HandleError(drops.SetAt(mae-baselineMae, repeat, q, 1))
		}
		work.SetCol(q, column)
	}

	result := &PermutationResult{
		Names:       ds.Names,
		BaselineR2:  baselineR2,
		BaselineMae: baselineMae,
		MeanR2Drop:  make([]float64, w),
		StdR2Drop:   make([]float64, w),
		MeanMaeRise: make([]float64, w),
		StdMaeRise:  make([]float64, w),
		Drops:       drops,
	}

	scratch := make([]float64, params.Repeats)
	for q := 0; q < w; q++ {
		for metric := 0; metric < 2; metric++ {
			for repeat := range scratch {
				element, err := drops.At(repeat, q, metric)
				HandleError(err)
				scratch[repeat] = element.(float64)
			}
			mean, std := stat.MeanStdDev(scratch, nil)
			if metric == 0 {
				result.MeanR2Drop[q], result.StdR2Drop[q] = mean, std
			} else {
				result.MeanMaeRise[q], result.StdMaeRise[q] = mean, std
			}
		}
	}

	return result, nil
}

//FitScoreFunc fits a model on the dataset and reports one score for it,
//larger meaning better.
type FitScoreFunc func(ds *Dataset) (float64, error)

//DropColumnResult keeps the refit score without each feature and the score
//the full model loses when that feature is gone.
type DropColumnResult struct {
	Names    []string
	Baseline float64
	Scores   []float64
	Drops    []float64
}

//DropColumnImportance refits the model once per feature with that feature
//column removed. The importance of a feature is the score the model loses
//without it; a negative drop means the model scored better once the column
//was gone.
func DropColumnImportance(ds *Dataset, fitScore FitScoreFunc) (*DropColumnResult, error) {
	_, w, err := ds.validatedDimensions()
	if err != nil {
		return nil, err
	}
	if w < 2 {
		return nil, fmt.Errorf("%w: dropping needs at least two feature columns, got %d", ErrInvalidInput, w)
	}

	baseline, err := fitScore(ds)
	if err != nil {
		return nil, err
	}

	result := &DropColumnResult{
		Names:    ds.Names,
		Baseline: baseline,
		Scores:   make([]float64, w),
		Drops:    make([]float64, w),
	}

	for q, name := range ds.Names {
		reduced, err := ds.DropColumn(name)
		if err != nil {
			return nil, err
		}
		score, err := fitScore(reduced)
		if err != nil {
			return nil, err
		}
		result.Scores[q] = score
		result.Drops[q] = baseline - score
	}

	return result, nil
}

//BagFitScore builds a FitScoreFunc that fits a stump bag with the given
//parameters and scores it by its out-of-bag coefficient of determination.
func BagFitScore(params BagParams) FitScoreFunc {
	return func(ds *Dataset) (float64, error) {
		bag, err := FitBag(ds, params)
		if err != nil {
			return 0, err
		}
		r2, _, err := bag.OOBScore()
		return r2, err
	}
}
