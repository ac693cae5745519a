// Package optim implements gradient-based optimizers.
//
// Optimizers hold a reference to the model's parameters and update them
// in place from the gradients accumulated by the backward pass:
//
//	model, _ := nn.NewClassifier(cfg)
//	optimizer := optim.NewSGD(model.Parameters(), optim.SGDConfig{LR: 0.01})
//
//	optimizer.ZeroGrad()
//	loss := criterion.Forward(model.Forward(x), targets)
//	model.Backward(criterion.Backward())
//	optimizer.Step()
//
// Stateful optimizers (SGD with momentum, Adam) expose their buffers via
// StateDict/LoadStateDict so training can resume exactly from a checkpoint.
package optim
