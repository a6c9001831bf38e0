package msl

import (
	"errors"
	"fmt"
	"gonum.org/v1/gonum/mat"
	"math"
)

//CandidateScore holds the scored pair for one candidate threshold. OldMae
//depends on the target only and repeats across all candidates of a column;
//it is carried per candidate for diagnostic dumps.
type CandidateScore struct {
	Threshold float64
	OldMae    float64
	NewMae    float64
}

//ColumnSplit is the result of scanning one feature column: every candidate
//threshold with its scores, in ascending threshold order, and the index of
//the best candidate. Ascending order is what breaks ties.
type ColumnSplit struct {
	Candidates []CandidateScore
	Best       int
}

//BestCandidate returns the winning candidate of the scan.
func (scan ColumnSplit) BestCandidate() CandidateScore {
	return scan.Candidates[scan.Best]
}

//EvaluateColumn scans one feature column against the target: generates all
//candidate thresholds, partitions and scores each of them, and selects the
//candidate with the minimal newMae. The scan runs in ascending threshold
//order and a tie keeps the earlier candidate. Candidates with an empty
//branch score positive infinity and never win; when no candidate has two
//populated branches the column is degenerate and ErrNoValidSplit is
//returned.
func EvaluateColumn(feature, target []float64) (*ColumnSplit, error) {
	if len(feature) != len(target) {
		return nil, fmt.Errorf("%w: %d feature values against %d target values", ErrLengthMismatch, len(feature), len(target))
	}

	cuts, err := CutPoints(feature)
	if err != nil {
		return nil, err
	}

	scan := &ColumnSplit{Candidates: make([]CandidateScore, 0, len(cuts)), Best: -1}

	bestValue := 0.0
	firstIter := true

	for ind, threshold := range cuts {
		_, aboveY, _, belowY, err := SplitByThreshold(feature, target, threshold)
		if err != nil {
			return nil, err
		}
		oldMae, newMae := ScoreSplit(target, aboveY, belowY)
		scan.Candidates = append(scan.Candidates, CandidateScore{Threshold: threshold, OldMae: oldMae, NewMae: newMae})

		if !math.IsInf(newMae, 1) && (firstIter || bestValue > newMae) {
			firstIter = false
			bestValue = newMae
			scan.Best = ind
		}
	}

	if firstIter {
		return nil, fmt.Errorf("%w: all %d candidates leave an empty branch", ErrNoValidSplit, len(scan.Candidates))
	}
	return scan, nil
}

//FeatureSplit pairs the winning feature column with its full scan.
type FeatureSplit struct {
	FeatureIndex int
	FeatureName  string
	Scan         *ColumnSplit
}

//BestAcrossColumns evaluates every feature column of the dataset
//independently and returns the column whose best candidate has the minimal
//newMae. A tie keeps the column with the lower index. Degenerate columns
//are skipped; when every column is degenerate ErrNoValidSplit is returned.
func BestAcrossColumns(ds *Dataset) (*FeatureSplit, error) {
	return bestAcrossColumns(ds, nil)
}

//bestAcrossColumns scans the listed columns, nil means all of them.
func bestAcrossColumns(ds *Dataset, cols []int) (*FeatureSplit, error) {
	h, w, err := ds.validatedDimensions()
	if err != nil {
		return nil, err
	}
	if cols == nil {
		cols = make([]int, w)
		for q := range cols {
			cols[q] = q
		}
	}

	target := ds.TargetColumn()
	feature := make([]float64, h)

	var best *FeatureSplit
	bestValue := 0.0
	firstIter := true

	for _, q := range cols {
		mat.Col(feature, q, ds.Matrix)
		scan, err := EvaluateColumn(feature, target)
		if errors.Is(err, ErrNoValidSplit) {
			continue
		}
		if err != nil {
			return nil, err
		}
		currentValue := scan.BestCandidate().NewMae
		if firstIter || bestValue > currentValue {
			firstIter = false
			bestValue = currentValue
			best = &FeatureSplit{FeatureIndex: q, FeatureName: ds.Names[q], Scan: scan}
		}
	}

	if firstIter {
		return nil, fmt.Errorf("%w: every feature column is degenerate", ErrNoValidSplit)
	}
	return best, nil
}
