// Package forest implements a bootstrap-aggregated ensemble of CART
// regression trees.
//
// Trees are grown on bootstrap samples of the training rows. Splits minimise
// the summed squared error of the two children, thresholds sit halfway
// between consecutive distinct feature values and leaves hold the mean target
// of their samples. The forest prediction is the mean of the tree predictions.
//
// A fitted Forest is immutable and safe for concurrent use by multiple
// goroutines. It serialises to JSON so it can be stored as a model artifact.
package forest
