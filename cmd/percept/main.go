// Package main provides the percept command-line interface.
//
// Subcommands:
//
//	percept train   -config run.yaml -out model.pcpt [-resume model.pcpt]
//	percept eval    -config run.yaml -checkpoint model.pcpt
//	percept inspect -checkpoint model.pcpt
//	percept version
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/percept-ml/percept/internal/nn"
	"github.com/percept-ml/percept/internal/serialization"
	"github.com/percept-ml/percept/internal/train"
)

const version = "v0.1.0"

func main() {
	log.SetFlags(log.LstdFlags)

	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	var err error
	switch os.Args[1] {
	case "train":
		err = runTrain(os.Args[2:])
	case "eval":
		err = runEval(os.Args[2:])
	case "inspect":
		err = runInspect(os.Args[2:])
	case "version":
		fmt.Printf("percept %s\n", version)
	case "help", "-h", "--help":
		usage()
	default:
		fmt.Fprintf(os.Stderr, "percept: unknown command %q\n\n", os.Args[1])
		usage()
		os.Exit(2)
	}
	if err != nil {
		log.Fatalf("percept %s: %v", os.Args[1], err)
	}
}

func usage() {
	fmt.Println("percept - feed-forward image classifier training")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  train     Train a classifier from a YAML run config")
	fmt.Println("  eval      Evaluate a checkpoint on a dataset")
	fmt.Println("  inspect   Print checkpoint metadata")
	fmt.Println("  version   Show version")
}

func runTrain(args []string) error {
	fs := flag.NewFlagSet("train", flag.ExitOnError)
	configPath := fs.String("config", "", "YAML run configuration (required)")
	outPath := fs.String("out", "model.pcpt", "checkpoint output path")
	resumePath := fs.String("resume", "", "checkpoint to resume from")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *configPath == "" {
		return fmt.Errorf("-config is required")
	}

	cfg, err := LoadRunConfig(*configPath)
	if err != nil {
		return err
	}

	var model *nn.Classifier
	var resumed *nn.Checkpoint
	var startEpoch int
	if *resumePath != "" {
		if resumed, err = nn.LoadCheckpoint(*resumePath); err != nil {
			return err
		}
		model = resumed.Model
		startEpoch = resumed.Epoch
		log.Printf("resumed from %s (epoch %d, loss %.4f)", *resumePath, resumed.Epoch, resumed.Loss)
	} else {
		if model, err = nn.NewClassifier(cfg.modelConfig()); err != nil {
			return err
		}
	}

	optimizer, err := cfg.buildOptimizer(model.Parameters())
	if err != nil {
		return err
	}
	if resumed != nil {
		if err := resumed.RestoreOptimizer(optimizer); err != nil {
			return err
		}
	}

	trainSet, testSet, err := cfg.loadData()
	if err != nil {
		return err
	}
	log.Printf("training on %d samples (%d features, %d classes)",
		trainSet.Len(), trainSet.NumFeatures(), cfg.Model.OutputSize)

	trainer, err := train.New(model, optimizer, cfg.trainConfig())
	if err != nil {
		return err
	}
	history, err := trainer.Fit(trainSet, testSet)
	if err != nil {
		return err
	}

	finalLoss := 0.0
	if len(history) > 0 {
		finalLoss = history[len(history)-1].Train.Loss
	}
	checkpoint := &nn.Checkpoint{
		Model:     model,
		Optimizer: optimizer,
		Epoch:     startEpoch + len(history),
		Step:      trainer.Step(),
		Loss:      finalLoss,
		Metadata: map[string]string{
			"run_id": uuid.NewString(),
			"config": *configPath,
		},
		CreatedAt: time.Now().UTC(),
	}
	if err := checkpoint.Save(*outPath); err != nil {
		return err
	}
	log.Printf("saved checkpoint to %s", *outPath)
	return nil
}

func runEval(args []string) error {
	fs := flag.NewFlagSet("eval", flag.ExitOnError)
	configPath := fs.String("config", "", "YAML run configuration (required)")
	checkpointPath := fs.String("checkpoint", "", "checkpoint to evaluate (required)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *configPath == "" || *checkpointPath == "" {
		return fmt.Errorf("-config and -checkpoint are required")
	}

	cfg, err := LoadRunConfig(*configPath)
	if err != nil {
		return err
	}
	checkpoint, err := nn.LoadCheckpoint(*checkpointPath)
	if err != nil {
		return err
	}

	trainSet, testSet, err := cfg.loadData()
	if err != nil {
		return err
	}
	ds := testSet
	if ds == nil {
		ds = trainSet
	}

	batchSize := cfg.Training.BatchSize
	if batchSize == 0 {
		batchSize = 256
	}
	metrics, err := train.Evaluate(checkpoint.Model, ds, batchSize)
	if err != nil {
		return err
	}
	fmt.Printf("samples:  %d\n", ds.Len())
	fmt.Printf("loss:     %.4f\n", metrics.Loss)
	fmt.Printf("accuracy: %.4f\n", metrics.Accuracy)
	return nil
}

func runInspect(args []string) error {
	fs := flag.NewFlagSet("inspect", flag.ExitOnError)
	checkpointPath := fs.String("checkpoint", "", "checkpoint to inspect (required)")
	showTensors := fs.Bool("tensors", false, "list tensors")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *checkpointPath == "" {
		return fmt.Errorf("-checkpoint is required")
	}

	reader, err := serialization.NewReader(*checkpointPath)
	if err != nil {
		return err
	}
	header := reader.Header()

	fmt.Printf("format version:  %d\n", header.FormatVersion)
	fmt.Printf("written by:      percept %s\n", header.PerceptVersion)
	fmt.Printf("model type:      %s\n", header.ModelType)
	fmt.Printf("created at:      %s\n", header.CreatedAt.Format(time.RFC3339))
	if arch := header.Architecture; arch != nil {
		fmt.Printf("architecture:    %d -> %v -> %d (dropout %.2f)\n",
			arch.InputSize, arch.HiddenLayers, arch.OutputSize, arch.Dropout)
	}
	if meta := header.Checkpoint; meta != nil {
		fmt.Printf("epoch:           %d\n", meta.Epoch)
		fmt.Printf("step:            %d\n", meta.Step)
		fmt.Printf("loss:            %.4f\n", meta.Loss)
		if meta.OptimizerType != "" {
			fmt.Printf("optimizer:       %s (lr %g)\n", meta.OptimizerType, meta.LearningRate)
		}
		if len(meta.TrainingMeta) > 0 {
			keys := make([]string, 0, len(meta.TrainingMeta))
			for k := range meta.TrainingMeta {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			for _, k := range keys {
				fmt.Printf("meta %-11s %s\n", k+":", meta.TrainingMeta[k])
			}
		}
	}
	fmt.Printf("tensors:         %d\n", len(header.Tensors))
	if *showTensors {
		for _, t := range header.Tensors {
			fmt.Printf("  %-32s %-8s shape=%v  %d bytes\n", t.Name, t.DType, t.Shape, t.Size)
		}
	}
	return nil
}
