package main

import (
	"encoding/json"
	"flag"
	"github.com/dvoryankin/mae_split_lab/golang/mae_split/msl"
	"gonum.org/v1/gonum/mat"
	"log"
	"math/rand"
	"os"
	"runtime"
	"runtime/pprof"
)

func decodeConfig(srcConfig string, out interface{}) {
	file, err := os.Open(srcConfig)
	msl.HandleError(err)
	defer func() { msl.HandleError(file.Close()) }()

	decoder := json.NewDecoder(file)
	msl.HandleError(decoder.Decode(out))
}

type ToySplitConfig struct {
	Seed       int64  `json:"seed"`
	Samples    int    `json:"samples"`
	FigureFile string `json:"figure_file"`
	FigureType string `json:"figure_type"`
}

//toysplit walks one feature column against one target column. With zero
//samples it replays the canonical walkthrough arrays, otherwise it draws
//seeded toy columns of the requested size.
func toysplit(srcConfig string) {
	var toyConfig ToySplitConfig
	decodeConfig(srcConfig, &toyConfig)

	feature := []float64{7, 30, 27, 80, 43}
	target := []float64{53, 28, 83, 25, 75}
	if toyConfig.Samples > 0 {
		rng := rand.New(rand.NewSource(toyConfig.Seed))
		feature, target = msl.ToyColumns(rng, toyConfig.Samples)
	}

	columnScan, err := msl.EvaluateColumn(feature, target)
	msl.HandleError(err)

	msl.WriteScanTable(os.Stdout, "CANDIDATE THRESHOLDS", columnScan)
	best := columnScan.BestCandidate()
	log.Print("best threshold = ", best.Threshold, ", new mae = ", best.NewMae)

	if toyConfig.FigureFile != "" {
		figureType := toyConfig.FigureType
		if figureType == "" {
			figureType = "svg"
		}
		ds, err := msl.NewDataset([]string{"x"}, mat.NewDense(len(feature), 1, feature), mat.NewDense(len(target), 1, target))
		msl.HandleError(err)
		stump, err := msl.FitStump(ds)
		msl.HandleError(err)
		msl.HandleError(stump.Render(toyConfig.FigureFile, figureType))
	}
}

type ScanConfig struct {
	FileNameCsv   string `json:"filename_csv"`
	FeatureColumn string `json:"feature_column"`
	TargetColumn  string `json:"target_column"`
	FileNameCurve string `json:"filename_curve"`
}

//scan evaluates one csv column against the target column and dumps the
//candidate curve.
func scan(srcConfig string) {
	var scanConfig ScanConfig
	decodeConfig(srcConfig, &scanConfig)

	ds, err := msl.ReadCSVDataset(scanConfig.FileNameCsv, []string{scanConfig.FeatureColumn}, scanConfig.TargetColumn)
	msl.HandleError(err)

	columnScan, err := msl.EvaluateColumn(ds.Column(0), ds.TargetColumn())
	msl.HandleError(err)

	msl.WriteScanTable(os.Stdout, scanConfig.FeatureColumn, columnScan)
	best := columnScan.BestCandidate()
	log.Print("best threshold = ", best.Threshold, ", new mae = ", best.NewMae)

	if scanConfig.FileNameCurve != "" {
		msl.HandleError(msl.WriteNpy(scanConfig.FileNameCurve, msl.ScanMatrix(columnScan)))
	}
}

type TrainConfig struct {
	FileNameCsv           string   `json:"filename_csv"`
	FeatureColumns        []string `json:"feature_columns"`
	TargetColumn          string   `json:"target_column"`
	Members               int      `json:"members"`
	MaxFeatures           int      `json:"max_features"`
	Seed                  int64    `json:"seed"`
	FileNameLearningCurve string   `json:"filename_learning_curve"`
	FileNameOobPrediction string   `json:"filename_oob_prediction"`
}

func train(srcConfig string) {
	var trainConfig TrainConfig
	decodeConfig(srcConfig, &trainConfig)

	ds, err := msl.ReadCSVDataset(trainConfig.FileNameCsv, trainConfig.FeatureColumns, trainConfig.TargetColumn)
	msl.HandleError(err)

	bag, err := msl.FitBag(ds, msl.BagParams{
		Members:     trainConfig.Members,
		MaxFeatures: trainConfig.MaxFeatures,
		Seed:        trainConfig.Seed,
	})
	msl.HandleError(err)

	r2, mae, err := bag.OOBScore()
	msl.HandleError(err)
	log.Printf("out-of-bag r2 = %.6g, mae = %.6g\n", r2, mae)

	if trainConfig.FileNameLearningCurve != "" {
		msl.HandleError(msl.WriteNpy(trainConfig.FileNameLearningCurve, bag.LearningCurveMatrix()))
	}
	if trainConfig.FileNameOobPrediction != "" {
		msl.HandleError(msl.WriteNpy(trainConfig.FileNameOobPrediction, bag.OOBPredictionMatrix()))
	}
}

type ImportanceConfig struct {
	FileNameCsv         string   `json:"filename_csv"`
	FeatureColumns      []string `json:"feature_columns"`
	TargetColumn        string   `json:"target_column"`
	Members             int      `json:"members"`
	MaxFeatures         int      `json:"max_features"`
	Seed                int64    `json:"seed"`
	Repeats             int      `json:"repeats"`
	FileNamePermutation string   `json:"filename_permutation"`
	FileNameDropColumn  string   `json:"filename_drop_column"`
	FileNameCube        string   `json:"filename_cube"`
}

func importance(srcConfig string) {
	var importanceConfig ImportanceConfig
	decodeConfig(srcConfig, &importanceConfig)

	ds, err := msl.ReadCSVDataset(importanceConfig.FileNameCsv, importanceConfig.FeatureColumns, importanceConfig.TargetColumn)
	msl.HandleError(err)

	bagParams := msl.BagParams{
		Members:     importanceConfig.Members,
		MaxFeatures: importanceConfig.MaxFeatures,
		Seed:        importanceConfig.Seed,
	}

	bag, err := msl.FitBag(ds, bagParams)
	msl.HandleError(err)

	permutation, err := msl.PermutationImportance(bag, ds, msl.ImportanceParams{
		Repeats: importanceConfig.Repeats,
		Seed:    importanceConfig.Seed,
	})
	msl.HandleError(err)
	msl.WritePermutationTable(os.Stdout, permutation)

	dropColumn, err := msl.DropColumnImportance(ds, msl.BagFitScore(bagParams))
	msl.HandleError(err)
	msl.WriteDropColumnTable(os.Stdout, dropColumn)

	if importanceConfig.FileNamePermutation != "" {
		msl.HandleError(msl.WriteNpy(importanceConfig.FileNamePermutation, msl.PermutationMatrix(permutation)))
	}
	if importanceConfig.FileNameDropColumn != "" {
		msl.HandleError(msl.WriteNpy(importanceConfig.FileNameDropColumn, msl.DropColumnMatrix(dropColumn)))
	}
	if importanceConfig.FileNameCube != "" {
		msl.HandleError(msl.DumpCube(importanceConfig.FileNameCube, permutation.Drops))
	}
}

type GraphConfig struct {
	FileNameCsv       string   `json:"filename_csv"`
	FeatureColumns    []string `json:"feature_columns"`
	TargetColumn      string   `json:"target_column"`
	Members           int      `json:"members"`
	MaxFeatures       int      `json:"max_features"`
	Seed              int64    `json:"seed"`
	FigureType        string   `json:"figure_type"`
	PicturesDirectory string   `json:"pictures_directory"`
	DumpPrefix        string   `json:"dump_prefix"`
}

func graph(srcConfig string) {
	var graphConfig GraphConfig
	decodeConfig(srcConfig, &graphConfig)

	ds, err := msl.ReadCSVDataset(graphConfig.FileNameCsv, graphConfig.FeatureColumns, graphConfig.TargetColumn)
	msl.HandleError(err)

	bag, err := msl.FitBag(ds, msl.BagParams{
		Members:     graphConfig.Members,
		MaxFeatures: graphConfig.MaxFeatures,
		Seed:        graphConfig.Seed,
	})
	msl.HandleError(err)

	msl.HandleError(bag.RenderStumps(graphConfig.DumpPrefix, graphConfig.FigureType, graphConfig.PicturesDirectory))
}

func main() {
	runMode := flag.String("mode", "toysplit", "you can select either 'toysplit', 'scan', 'train', 'importance' or 'graph' modes")
	config := flag.String("config", "mae_split_config.json", "a config file for the run of the program")
	memprofile := flag.String("memprofile", "", "write memory profile to `file`")

	flag.Parse()

	map[string]func(string){
		"toysplit":   toysplit,
		"scan":       scan,
		"train":      train,
		"importance": importance,
		"graph":      graph,
	}[*runMode](*config)

	if *memprofile != "" {
		f, err := os.Create(*memprofile)
		msl.HandleError(err)
		defer func() { msl.HandleError(f.Close()) }()
		runtime.GC()
		if err := pprof.WriteHeapProfile(f); err != nil {
			log.Fatal("could not write memory profile: ", err)
		}
	}
}
