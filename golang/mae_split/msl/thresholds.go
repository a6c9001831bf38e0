package msl

import (
	"fmt"
	"sort"
)

//CutPoints produces the candidate split thresholds for one feature column:
//the midpoints between each consecutive pair in a sorted copy of the input.
//The input is left untouched. For n values there are n-1 midpoints, in
//ascending order. A pair of equal neighbours degenerates to a midpoint equal
//to that value itself; such zero-width candidates are kept, the partitioner
//routes nothing for exact ties.
func CutPoints(feature []float64) ([]float64, error) {
	if len(feature) < 2 {
		return nil, fmt.Errorf("%w: need at least 2 values to cut, got %d", ErrInvalidInput, len(feature))
	}

	sorted := make([]float64, len(feature))
	copy(sorted, feature)
	sort.Float64s(sorted)

	cuts := make([]float64, len(sorted)-1)
	for ind := 0; ind < len(sorted)-1; ind++ {
		cuts[ind] = (sorted[ind] + sorted[ind+1]) / 2
	}
	return cuts, nil
}
