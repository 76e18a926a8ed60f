package ml

// MLModel is a pre-trained binary classifier over the 30-feature vector.
// Predict returns the class (0 stable, 1 leaving) and the model's confidence
// in that class.
type MLModel interface {
	Predict(features []float64) (int, float64, error)
}
