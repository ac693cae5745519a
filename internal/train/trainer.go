package train

import (
	"fmt"
	"log"
	"math/rand"

	"gonum.org/v1/gonum/mat"

	"github.com/percept-ml/percept/internal/dataset"
	"github.com/percept-ml/percept/internal/nn"
	"github.com/percept-ml/percept/internal/optim"
)

// Metrics holds the loss and accuracy over some set of samples.
type Metrics struct {
	Loss     float64
	Accuracy float64
}

// EpochMetrics holds per-epoch training results.
type EpochMetrics struct {
	Epoch int
	Train Metrics
	Val   *Metrics // nil when Fit ran without a validation set
}

// Trainer runs the optimization loop for a classifier.
type Trainer struct {
	model     *nn.Classifier
	optimizer optim.Optimizer
	criterion *nn.NLLLoss
	config    Config
	rng       *rand.Rand
	logger    *log.Logger
	step      int64
}

// New creates a trainer.
//
// The optimizer must already be bound to the model's parameters.
func New(model *nn.Classifier, optimizer optim.Optimizer, config Config) (*Trainer, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	config = config.withDefaults()
	return &Trainer{
		model:     model,
		optimizer: optimizer,
		criterion: nn.NewNLLLoss(),
		config:    config,
		rng:       rand.New(rand.NewSource(config.Seed)),
		logger:    log.Default(),
	}, nil
}

// SetLogger redirects progress output; pass nil to silence it.
func (t *Trainer) SetLogger(logger *log.Logger) {
	t.logger = logger
}

// Step returns the number of optimization steps taken so far.
func (t *Trainer) Step() int64 {
	return t.step
}

// validateBatch checks a batch against the model before any mutation, so a
// bad batch fails cleanly instead of panicking mid-step.
func (t *Trainer) validateBatch(x *mat.Dense, labels []int) error {
	cfg := t.model.Config()
	rows, cols := x.Dims()
	if cols != cfg.InputSize {
		return fmt.Errorf("batch has %d features per sample, model expects %d", cols, cfg.InputSize)
	}
	if rows == 0 {
		return fmt.Errorf("batch is empty")
	}
	if len(labels) != rows {
		return fmt.Errorf("batch has %d samples but %d labels", rows, len(labels))
	}
	for i, label := range labels {
		if label < 0 || label >= cfg.OutputSize {
			return fmt.Errorf("label %d at position %d out of range [0, %d)", label, i, cfg.OutputSize)
		}
	}
	return nil
}

// TrainStep runs one optimization step on a single batch and returns the
// batch loss.
//
// The sequence is fixed: zero gradients, forward with dropout active,
// loss, backward, optimizer update.
func (t *Trainer) TrainStep(x *mat.Dense, labels []int) (float64, error) {
	loss, _, err := t.trainStep(x, labels)
	return loss, err
}

func (t *Trainer) trainStep(x *mat.Dense, labels []int) (float64, *mat.Dense, error) {
	if err := t.validateBatch(x, labels); err != nil {
		return 0, nil, fmt.Errorf("train step: %w", err)
	}

	t.optimizer.ZeroGrad()
	t.model.SetTraining(true)

	logProbs := t.model.Forward(x)
	loss := t.criterion.Forward(logProbs, labels)
	t.model.Backward(t.criterion.Backward())
	t.optimizer.Step()

	t.step++
	return loss, logProbs, nil
}

// TrainEpoch runs one full pass over the training set and returns metrics
// averaged over all samples.
func (t *Trainer) TrainEpoch(ds *dataset.Dataset) (Metrics, error) {
	opts := []dataset.Option{}
	if t.config.Shuffle {
		opts = append(opts, dataset.WithShuffle(t.rng))
	}
	batcher := dataset.NewBatcher(ds, t.config.BatchSize, opts...)

	var totalLoss float64
	var correct float64
	var seen int
	batch := 0
	for {
		x, labels, ok := batcher.Next()
		if !ok {
			break
		}
		loss, logProbs, err := t.trainStep(x, labels)
		if err != nil {
			return Metrics{}, err
		}
		// Training-mode accuracy: noisier under dropout, but free.
		acc := nn.Accuracy(logProbs, labels)

		n := len(labels)
		totalLoss += loss * float64(n)
		correct += acc * float64(n)
		seen += n
		batch++

		if t.logger != nil && t.config.LogEvery > 0 && batch%t.config.LogEvery == 0 {
			t.logger.Printf("step %d: loss=%.4f acc=%.4f", t.step, loss, acc)
		}
	}
	if seen == 0 {
		return Metrics{}, fmt.Errorf("train epoch: dataset is empty")
	}
	return Metrics{Loss: totalLoss / float64(seen), Accuracy: correct / float64(seen)}, nil
}

// Fit trains for the configured number of epochs.
//
// When val is non-nil the model is evaluated on it after every epoch.
// Returns per-epoch metrics in order.
func (t *Trainer) Fit(trainSet, val *dataset.Dataset) ([]EpochMetrics, error) {
	history := make([]EpochMetrics, 0, t.config.Epochs)
	for epoch := 1; epoch <= t.config.Epochs; epoch++ {
		trainMetrics, err := t.TrainEpoch(trainSet)
		if err != nil {
			return history, fmt.Errorf("epoch %d: %w", epoch, err)
		}

		em := EpochMetrics{Epoch: epoch, Train: trainMetrics}
		if val != nil {
			valMetrics, err := Evaluate(t.model, val, t.config.BatchSize)
			if err != nil {
				return history, fmt.Errorf("epoch %d: validation: %w", epoch, err)
			}
			em.Val = &valMetrics
		}
		history = append(history, em)

		if t.logger != nil {
			if em.Val != nil {
				t.logger.Printf("epoch %d/%d: train loss=%.4f acc=%.4f | val loss=%.4f acc=%.4f",
					epoch, t.config.Epochs, em.Train.Loss, em.Train.Accuracy, em.Val.Loss, em.Val.Accuracy)
			} else {
				t.logger.Printf("epoch %d/%d: train loss=%.4f acc=%.4f",
					epoch, t.config.Epochs, em.Train.Loss, em.Train.Accuracy)
			}
		}
	}
	return history, nil
}

// Evaluate measures loss and accuracy over a dataset.
//
// The model is switched to evaluation mode (dropout off) and no gradients
// are recorded; parameters are untouched.
func Evaluate(model *nn.Classifier, ds *dataset.Dataset, batchSize int) (Metrics, error) {
	if ds.Len() == 0 {
		return Metrics{}, fmt.Errorf("evaluate: dataset is empty")
	}
	cfg := model.Config()
	if ds.NumFeatures() != cfg.InputSize {
		return Metrics{}, fmt.Errorf("evaluate: dataset has %d features per sample, model expects %d",
			ds.NumFeatures(), cfg.InputSize)
	}

	model.SetTraining(false)
	criterion := nn.NewNLLLoss()
	batcher := dataset.NewBatcher(ds, batchSize)

	var totalLoss float64
	var correct float64
	var seen int
	for {
		x, labels, ok := batcher.Next()
		if !ok {
			break
		}
		for i, label := range labels {
			if label < 0 || label >= cfg.OutputSize {
				return Metrics{}, fmt.Errorf("evaluate: label %d at position %d out of range [0, %d)",
					label, i, cfg.OutputSize)
			}
		}
		logProbs := model.Forward(x)
		n := len(labels)
		totalLoss += criterion.Forward(logProbs, labels) * float64(n)
		correct += nn.Accuracy(logProbs, labels) * float64(n)
		seen += n
	}
	return Metrics{Loss: totalLoss / float64(seen), Accuracy: correct / float64(seen)}, nil
}
