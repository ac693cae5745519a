package train

import (
	"fmt"
)

// Config configures a training run.
//
// Zero values select the defaults: 10 epochs, batch size 32, no shuffling.
type Config struct {
	Epochs    int   // Number of passes over the training set (default: 10)
	BatchSize int   // Samples per optimization step (default: 32)
	Shuffle   bool  // Reshuffle the training set every epoch
	Seed      int64 // RNG seed for shuffling
	LogEvery  int   // Log every N batches; 0 logs only per-epoch summaries
}

// Validate checks the configuration, after applying defaults.
func (c Config) Validate() error {
	if c.Epochs < 0 {
		return fmt.Errorf("train config: epochs must be non-negative, got %d", c.Epochs)
	}
	if c.BatchSize < 0 {
		return fmt.Errorf("train config: batch size must be non-negative, got %d", c.BatchSize)
	}
	if c.LogEvery < 0 {
		return fmt.Errorf("train config: log interval must be non-negative, got %d", c.LogEvery)
	}
	return nil
}

// withDefaults returns the config with zero values replaced by defaults.
func (c Config) withDefaults() Config {
	if c.Epochs == 0 {
		c.Epochs = 10
	}
	if c.BatchSize == 0 {
		c.BatchSize = 32
	}
	return c
}
