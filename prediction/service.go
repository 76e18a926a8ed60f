package prediction

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"hrdash/ml"
)

// Sink receives every successful prediction.
type Sink interface {
	Record(ctx context.Context, outcome *Outcome) error
}

// Recorder observes predictions for metrics.
type Recorder interface {
	ObservePrediction(label int, elapsed time.Duration)
	ObserveError(kind string)
}

// Service runs the encode, predict and message pipeline. Encoder and model are
// read-only, so one Service serves all requests concurrently.
type Service struct {
	encoder  *ml.Encoder
	model    ml.MLModel
	sinks    []Sink
	recorder Recorder
	logger   *zap.Logger
	now      func() time.Time
}

type Option func(*Service)

func WithSinks(sinks ...Sink) Option {
	return func(s *Service) { s.sinks = append(s.sinks, sinks...) }
}

func WithRecorder(r Recorder) Option {
	return func(s *Service) { s.recorder = r }
}

func WithLogger(logger *zap.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

// WithClock overrides time.Now for CreatedAt.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func NewService(encoder *ml.Encoder, model ml.MLModel, opts ...Option) *Service {
	s := &Service{
		encoder: encoder,
		model:   model,
		logger:  zap.NewNop(),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Encoder exposes the encoder for form defaults and diagnostics.
func (s *Service) Encoder() *ml.Encoder { return s.encoder }

// Predict encodes raw, runs the model and returns the outcome. Encoding errors
// are returned as *ml.FieldError; model errors wrap ml.ErrModelUnavailable or
// ml.ErrInvalidLabel.
func (s *Service) Predict(ctx context.Context, raw map[string]any) (*Outcome, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	start := s.now()

	if s.model == nil {
		return nil, s.fail(fmt.Errorf("%w: no model loaded", ml.ErrModelUnavailable))
	}
	features, err := s.encoder.Encode(raw)
	if err != nil {
		return nil, s.fail(err)
	}
	label, confidence, err := s.model.Predict(features)
	if err != nil {
		return nil, s.fail(fmt.Errorf("predict: %w", err))
	}
	if label != LabelLeaving && label != LabelStaying {
		return nil, s.fail(fmt.Errorf("%w: %d", ml.ErrInvalidLabel, label))
	}

	outcome := &Outcome{
		ID:         uuid.New(),
		Label:      label,
		Confidence: confidence,
		HighRisk:   label == LabelLeaving,
		Message:    Message(label),
		Input:      featureInput(raw),
		Features:   features,
		CreatedAt:  s.now().UTC(),
	}
	if s.recorder != nil {
		s.recorder.ObservePrediction(label, s.now().Sub(start))
	}

	for _, sink := range s.sinks {
		if err := sink.Record(ctx, outcome); err != nil {
			s.logger.Warn("prediction sink failed",
				zap.String("sink", fmt.Sprintf("%T", sink)),
				zap.String("prediction_id", outcome.ID.String()),
				zap.Error(err))
		}
	}
	return outcome, nil
}

func (s *Service) fail(err error) error {
	if s.recorder != nil {
		s.recorder.ObserveError(ml.ErrorKind(err))
	}
	s.logger.Debug("prediction rejected", zap.Error(err))
	return err
}

// featureInput keeps the feature fields of raw.
func featureInput(raw map[string]any) map[string]any {
	names := ml.FeatureNames()
	input := make(map[string]any, len(names))
	for _, name := range names {
		input[name] = raw[name]
	}
	return input
}
