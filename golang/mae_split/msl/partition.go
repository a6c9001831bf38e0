package msl

import "fmt"

//SplitByThreshold routes index-aligned feature and target values into the
//above branch (feature strictly greater than the threshold) and the below
//branch (feature strictly less than the threshold). Both comparisons are
//strict, values exactly equal to the threshold belong to neither branch and
//are dropped.
func SplitByThreshold(feature, target []float64, threshold float64) (aboveX, aboveY, belowX, belowY []float64, err error) {
	if len(feature) != len(target) {
		err = fmt.Errorf("%w: %d feature values against %d target values", ErrLengthMismatch, len(feature), len(target))
		return
	}

	for ind, x := range feature {
		if x > threshold {
			aboveX = append(aboveX, x)
			aboveY = append(aboveY, target[ind])
		} else if x < threshold {
			belowX = append(belowX, x)
			belowY = append(belowY, target[ind])
		}
	}
	return
}
