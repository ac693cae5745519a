// Package dataset provides in-memory datasets for classifier training.
//
// A Dataset pairs a flattened feature matrix with integer class labels.
// Helpers cover the common sources: raw multi-dimensional batches
// (Flatten), the IDX image format used by MNIST-style corpora
// (LoadIDX/LoadIDXPair), and synthetic Gaussian blobs for tests and
// examples (Blobs).
//
// Batching is pull-based:
//
//	batcher := dataset.NewBatcher(ds, 64, dataset.WithShuffle(rng))
//	for {
//	    x, labels, ok := batcher.Next()
//	    if !ok {
//	        break
//	    }
//	    // train on x, labels
//	}
package dataset
