package msl

import (
	"encoding/csv"
	"fmt"
	"github.com/sbinet/npyio"
	"gonum.org/v1/gonum/mat"
	"os"
	"strconv"
)

//ReadCSVDataset loads the requested feature columns and the target column
//from a csv file with a header row. Column order in the dataset follows the
//request, not the file.
func ReadCSVDataset(fileName string, featureColumns []string, targetColumn string) (*Dataset, error) {
	if len(featureColumns) == 0 {
		return nil, fmt.Errorf("%w: no feature columns requested", ErrInvalidInput)
	}

	file, err := os.Open(fileName)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	reader := csv.NewReader(file)
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read csv %q: %w", fileName, err)
	}
	if len(rows) < 2 {
		return nil, fmt.Errorf("%w: csv %q has no data rows", ErrInvalidInput, fileName)
	}

	header := rows[0]
	colIndex := map[string]int{}
	for idx, name := range header {
		colIndex[name] = idx
	}
	for _, name := range append(append([]string{}, featureColumns...), targetColumn) {
		if _, ok := colIndex[name]; !ok {
			return nil, fmt.Errorf("%w: column %q missing in csv %q", ErrInvalidInput, name, fileName)
		}
	}

	n := len(rows) - 1
	matrix := mat.NewDense(n, len(featureColumns), nil)
	target := mat.NewDense(n, 1, nil)

	for p := 0; p < n; p++ {
		row := rows[p+1]
		for q, name := range featureColumns {
			val, err := strconv.ParseFloat(row[colIndex[name]], 64)
			if err != nil {
				return nil, fmt.Errorf("parse %s in row %d: %w", name, p+1, err)
			}
			matrix.Set(p, q, val)
		}
		val, err := strconv.ParseFloat(row[colIndex[targetColumn]], 64)
		if err != nil {
			return nil, fmt.Errorf("parse %s in row %d: %w", targetColumn, p+1, err)
		}
		target.Set(p, 0, val)
	}

	names := make([]string, len(featureColumns))
	copy(names, featureColumns)
	return NewDataset(names, matrix, target)
}

//ReadNpyMatrix reads the content of an npy file into a dense matrix.
func ReadNpyMatrix(fileName string) (*mat.Dense, error) {
	file, err := os.Open(fileName)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	reader, err := npyio.NewReader(file)
	if err != nil {
		return nil, fmt.Errorf("failed to read npy %q: %w", fileName, err)
	}

	denseMat := &mat.Dense{}
	if err := reader.Read(denseMat); err != nil {
		return nil, fmt.Errorf("failed to read npy %q: %w", fileName, err)
	}
	return denseMat, nil
}

//ReadNpyDataset unites a feature matrix file and a target column file into
//one dataset with synthesized column names.
func ReadNpyDataset(fileNameMatrix, fileNameTarget string) (*Dataset, error) {
	matrix, err := ReadNpyMatrix(fileNameMatrix)
	if err != nil {
		return nil, err
	}
	target, err := ReadNpyMatrix(fileNameTarget)
	if err != nil {
		return nil, err
	}
	return NewDataset(nil, matrix, target)
}

//WriteNpy dumps a dense matrix into an npy file.
func WriteNpy(fileName string, m *mat.Dense) error {
	dst, err := os.Create(fileName)
	if err != nil {
		return err
	}
	defer func() { HandleError(dst.Close()) }()

	return npyio.Write(dst, m)
}
