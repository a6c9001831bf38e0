package msl

import (
	"fmt"
	"github.com/goccy/go-graphviz"
	"github.com/goccy/go-graphviz/cgraph"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
	"strings"
)

//Stump is a single-split piecewise-constant regressor. A fitted stump keeps
//the winning feature and threshold together with both leaf predictions and
//the scores of the winning candidate. A NoSplit stump has no decision, it
//predicts one constant; its FeatureIndex is -1.
type Stump struct {
	FeatureIndex    int
	FeatureName     string
	Threshold       float64
	AboveValue      float64
	BelowValue      float64
	AboveCount      int
	BelowCount      int
	NoSplit         bool
	OldMae          float64
	NewMae          float64
	NumberOfObjects int
}

//NewConstantStump creates a stump without a decision that predicts one
//constant value everywhere.
func NewConstantStump(value float64, numberOfObjects int) *Stump {
	return &Stump{
		FeatureIndex:    -1,
		AboveValue:      value,
		BelowValue:      value,
		NoSplit:         true,
		NumberOfObjects: numberOfObjects,
	}
}

//FitStump fits a stump on the dataset: selects the best split across all
//feature columns and sets each leaf to the mean target of its branch. Rows
//exactly on the threshold enter neither leaf mean. A dataset where no
//column splits yields ErrNoValidSplit.
func FitStump(ds *Dataset) (*Stump, error) {
	return fitStumpOn(ds, nil)
}

//fitStumpOn fits a stump restricted to the listed columns, nil means all.
func fitStumpOn(ds *Dataset, cols []int) (*Stump, error) {
	h, _, err := ds.validatedDimensions()
	if err != nil {
		return nil, err
	}

	best, err := bestAcrossColumns(ds, cols)
	if err != nil {
		return nil, err
	}
	winner := best.Scan.BestCandidate()

	_, aboveY, _, belowY, err := SplitByThreshold(ds.Column(best.FeatureIndex), ds.TargetColumn(), winner.Threshold)
	if err != nil {
		return nil, err
	}

	return &Stump{
		FeatureIndex:    best.FeatureIndex,
		FeatureName:     best.FeatureName,
		Threshold:       winner.Threshold,
		AboveValue:      stat.Mean(aboveY, nil),
		BelowValue:      stat.Mean(belowY, nil),
		AboveCount:      len(aboveY),
		BelowCount:      len(belowY),
		OldMae:          winner.OldMae,
		NewMae:          winner.NewMae,
		NumberOfObjects: h,
	}, nil
}

//predictRow routes one row of a feature matrix through the split.
func (stump *Stump) predictRow(features *mat.Dense, p int) float64 {
	if stump.NoSplit {
		return stump.AboveValue
	}
	if features.At(p, stump.FeatureIndex) > stump.Threshold {
		return stump.AboveValue
	}
	return stump.BelowValue
}

//Predict infers a prediction for every row of the feature matrix. Rows
//exactly on the threshold go to the below leaf.
func (stump *Stump) Predict(features *mat.Dense) []float64 {
	h, _ := features.Dims()
	prediction := make([]float64, h)
	for p := 0; p < h; p++ {
		prediction[p] = stump.predictRow(features, p)
	}
	return prediction
}

//GraphDescription returns the description of the decision node for stump
//rendering as a graph.
func (stump Stump) GraphDescription() string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintln("#", stump.NumberOfObjects))
	if stump.NoSplit {
		sb.WriteString("no split\n")
		sb.WriteString(fmt.Sprintf("%6.2f", stump.AboveValue))
		return sb.String()
	}
	sb.WriteString(fmt.Sprintln("old mae: ", stump.OldMae))
	sb.WriteString(fmt.Sprintln("new mae: ", stump.NewMae))
	sb.WriteString(fmt.Sprintf("%s > %6.5f", stump.FeatureName, stump.Threshold))
	return sb.String()
}

//leafDescription returns the description of a leaf for stump rendering.
func leafDescription(side string, value float64, count int) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintln(side))
	sb.WriteString(fmt.Sprintf("%6.2f\n", value))
	sb.WriteString(fmt.Sprint("# ", count))
	return sb.String()
}

//DrawGraph renders the stump into a fresh graphviz graph: the decision as
//the root and both leaves as boxes.
func (stump Stump) DrawGraph() (*graphviz.Graphviz, *cgraph.Graph, error) {
	graphViz := graphviz.New()
	graph, err := graphViz.Graph()
	if err != nil {
		return nil, nil, err
	}

	root, err := graph.CreateNode("root")
	if err != nil {
		return nil, nil, err
	}
	root.Set("label", stump.GraphDescription())

	if stump.NoSplit {
		root.Set("shape", "box")
		return graphViz, graph, nil
	}

	above, err := graph.CreateNode("above")
	if err != nil {
		return nil, nil, err
	}
	above.Set("label", leafDescription("above", stump.AboveValue, stump.AboveCount))
	above.Set("shape", "box")
	graph.CreateEdge("", root, above)

	below, err := graph.CreateNode("below")
	if err != nil {
		return nil, nil, err
	}
	below.Set("label", leafDescription("below", stump.BelowValue, stump.BelowCount))
	below.Set("shape", "box")
	graph.CreateEdge("", root, below)

	return graphViz, graph, nil
}

//Render draws the stump into a picture file of the given figure type.
func (stump Stump) Render(fileName, figureType string) error {
	graphvizType, ok := map[string]graphviz.Format{
		"png": graphviz.PNG,
		"svg": graphviz.SVG,
		"jpg": graphviz.JPG,
	}[figureType]
	if !ok {
		return fmt.Errorf("%w: unknown figure type %q", ErrInvalidInput, figureType)
	}

	graphViz, graph, err := stump.DrawGraph()
	if err != nil {
		return err
	}
	return graphViz.RenderFilename(graph, graphvizType, fileName)
}
