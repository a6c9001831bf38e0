package msl

import (
	"fmt"
	"gonum.org/v1/gonum/stat"
	"math"
)

//MeanAbsoluteDeviation computes the mean absolute deviation of values from
//their own mean. An empty input has no mean to deviate from and yields
//positive infinity, the "not comparable" sentinel of the split scorer.
func MeanAbsoluteDeviation(values []float64) float64 {
	if len(values) == 0 {
		return math.Inf(1)
	}
	center := stat.Mean(values, nil)
	total := 0.0
	for _, v := range values {
		total += math.Abs(v - center)
	}
	return total / float64(len(values))
}

//ScoreSplit scores one candidate threshold. oldMae is the mean absolute
//deviation of the whole target; newMae is the sum of both branch deviations
//weighted by branch size over the full target length. Values dropped at the
//threshold keep the weights below one. An empty branch makes the candidate
//incomparable and newMae becomes positive infinity.
func ScoreSplit(target, aboveY, belowY []float64) (oldMae, newMae float64) {
	oldMae = MeanAbsoluteDeviation(target)

	if len(aboveY) == 0 || len(belowY) == 0 {
		newMae = math.Inf(1)
		return
	}

	total := float64(len(target))
	newMae = float64(len(aboveY))/total*MeanAbsoluteDeviation(aboveY) +
		float64(len(belowY))/total*MeanAbsoluteDeviation(belowY)
	return
}

//MeanAbsoluteError computes the mean absolute difference between a
//prediction column and a target column.
func MeanAbsoluteError(prediction, target []float64) (float64, error) {
	if len(prediction) != len(target) {
		return 0, fmt.Errorf("%w: %d predictions against %d targets", ErrLengthMismatch, len(prediction), len(target))
	}
	if len(target) == 0 {
		return 0, fmt.Errorf("%w: empty prediction", ErrInvalidInput)
	}
	total := 0.0
	for ind, p := range prediction {
		total += math.Abs(p - target[ind])
	}
	return total / float64(len(target)), nil
}
