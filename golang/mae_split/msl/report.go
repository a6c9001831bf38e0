package msl

import (
	"encoding/json"
	"fmt"
	"github.com/jedib0t/go-pretty/v6/table"
	"gonum.org/v1/gonum/mat"
	"gorgonia.org/tensor"
	"io"
	"os"
	"sort"
)

//WriteScanTable renders a candidate scan as a table in ascending threshold
//order, the winning candidate carries a star.
func WriteScanTable(out io.Writer, title string, scan *ColumnSplit) {
	t := table.NewWriter()
	t.SetOutputMirror(out)
	t.SetTitle(title)
	t.AppendHeader(table.Row{"#", "threshold", "old mae", "new mae", "best"})
	for ind, candidate := range scan.Candidates {
		marker := ""
		if ind == scan.Best {
			marker = "*"
		}
		t.AppendRow(table.Row{
			ind,
			fmt.Sprintf("%.6g", candidate.Threshold),
			fmt.Sprintf("%.6g", candidate.OldMae),
			fmt.Sprintf("%.6g", candidate.NewMae),
			marker,
		})
	}
	t.Render()
}

//WritePermutationTable renders permutation importances ranked by the mean
//r2 drop, the baseline scores close the table.
func WritePermutationTable(out io.Writer, result *PermutationResult) {
	order := make([]int, len(result.Names))
	for ind := range order {
		order[ind] = ind
	}
	sort.Slice(order, func(i, j int) bool {
		return result.MeanR2Drop[order[i]] > result.MeanR2Drop[order[j]]
	})

	t := table.NewWriter()
	t.SetOutputMirror(out)
	t.SetTitle("PERMUTATION IMPORTANCE")
	t.AppendHeader(table.Row{"rank", "feature", "r2 drop", "r2 drop std", "mae rise", "mae rise std"})
	for rank, q := range order {
		t.AppendRow(table.Row{
			rank + 1,
			result.Names[q],
			fmt.Sprintf("%.6g", result.MeanR2Drop[q]),
			fmt.Sprintf("%.6g", result.StdR2Drop[q]),
			fmt.Sprintf("%.6g", result.MeanMaeRise[q]),
			fmt.Sprintf("%.6g", result.StdMaeRise[q]),
		})
	}
	t.AppendSeparator()
	t.AppendRow(table.Row{"", "baseline", fmt.Sprintf("%.6g", result.BaselineR2), "", fmt.Sprintf("%.6g", result.BaselineMae), ""})
	t.Render()
}

//WriteDropColumnTable renders drop-column importances ranked by the lost
//score.
func WriteDropColumnTable(out io.Writer, result *DropColumnResult) {
	order := make([]int, len(result.Names))
	for ind := range order {
		order[ind] = ind
	}
	sort.Slice(order, func(i, j int) bool {
		return result.Drops[order[i]] > result.Drops[order[j]]
	})

	t := table.NewWriter()
	t.SetOutputMirror(out)
	t.SetTitle("DROP-COLUMN IMPORTANCE")
	t.AppendHeader(table.Row{"rank", "feature", "score without", "drop"})
	for rank, q := range order {
		t.AppendRow(table.Row{
			rank + 1,
			result.Names[q],
			fmt.Sprintf("%.6g", result.Scores[q]),
			fmt.Sprintf("%.6g", result.Drops[q]),
		})
	}
	t.AppendSeparator()
	t.AppendRow(table.Row{"", "baseline", fmt.Sprintf("%.6g", result.Baseline), ""})
	t.Render()
}

//ScanMatrix lays a candidate scan out as threshold, old mae, new mae rows
//for dumps.
func ScanMatrix(scan *ColumnSplit) *mat.Dense {
	curve := mat.NewDense(len(scan.Candidates), 3, nil)
	for ind, candidate := range scan.Candidates {
		curve.Set(ind, 0, candidate.Threshold)
		curve.Set(ind, 1, candidate.OldMae)
		curve.Set(ind, 2, candidate.NewMae)
	}
	return curve
}

//PermutationMatrix lays permutation importances out as one row per feature:
//mean r2 drop, its deviation, mean mae rise, its deviation.
func PermutationMatrix(result *PermutationResult) *mat.Dense {
	out := mat.NewDense(len(result.Names), 4, nil)
	for q := range result.Names {
		out.Set(q, 0, result.MeanR2Drop[q])
		out.Set(q, 1, result.StdR2Drop[q])
		out.Set(q, 2, result.MeanMaeRise[q])
		out.Set(q, 3, result.StdMaeRise[q])
	}
	return out
}

//DropColumnMatrix lays drop-column importances out as one row per feature:
//the refit score without the feature and the drop against the baseline.
func DropColumnMatrix(result *DropColumnResult) *mat.Dense {
	out := mat.NewDense(len(result.Names), 2, nil)
	for q := range result.Names {
		out.Set(q, 0, result.Scores[q])
		out.Set(q, 1, result.Drops[q])
	}
	return out
}

//DumpJSON writes an indented json representation of a value into a file.
func DumpJSON(fileName string, v interface{}) error {
	dst, err := os.Create(fileName)
	if err != nil {
		return err
	}
	defer func() { HandleError(dst.Close()) }()

	bytesResult, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = dst.Write(bytesResult)
	return err
}

//CubeDump is the json layout of a raw drop cube.
type CubeDump struct {
	Shape []int     `json:"shape"`
	Data  []float64 `json:"data"`
}

//DumpCube writes the flat data of a cube together with its shape into a
//json file.
func DumpCube(fileName string, cube *tensor.Dense) error {
	data, ok := cube.Data().([]float64)
	if !ok {
		return fmt.Errorf("%w: cube holds no float64 data", ErrInvalidInput)
	}
	return DumpJSON(fileName, CubeDump{Shape: []int(cube.Shape()), Data: data})
}
