// Package prediction turns travel-time requests into model inputs and model
// outputs into rounded duration estimates.
//
// Requests are validated first, then optional fields are filled by a Defaults
// policy, and finally the feature vector is assembled through
// model.NewFeatureVector so that serving uses the exact order the trainer used.
// Validation failures wrap ErrInvalidInput; estimator failures wrap ErrInference.
package prediction
