// Package train drives the optimization loop for classifiers.
//
// The Trainer owns the model, optimizer and loss, and exposes three levels
// of control: TrainStep for a single batch, TrainEpoch for one pass over a
// dataset, and Fit for a full run with optional validation after each
// epoch. Evaluate measures loss and accuracy without touching parameters
// or gradients.
//
// The per-step contract is fixed: zero gradients, forward in training mode,
// compute the loss, backpropagate, apply the optimizer update. Gradients
// otherwise accumulate across batches by design, so skipping the zeroing
// silently corrupts training.
package train
