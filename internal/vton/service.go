package vton

import (
	"context"
	"time"

	"vton-server/internal/infra"
)

// Service runs the whole pipeline for one request: normalize both images,
// optimize them, invoke the hosted model, and map the outcome into the
// uniform envelope. It never returns a bare failure to the transport layer;
// TryOn always produces a populated TryOnResult alongside the classification
// error used for status mapping.
type Service struct {
	normalizer *Normalizer
	optimizer  *Optimizer
	invoker    Invoker
	logger     *infra.Logger
}

// NewService wires the pipeline stages together.
func NewService(normalizer *Normalizer, optimizer *Optimizer, invoker Invoker, logger *infra.Logger) *Service {
	return &Service{
		normalizer: normalizer,
		optimizer:  optimizer,
		invoker:    invoker,
		logger:     logger,
	}
}

// TryOn executes one try-on request end to end. The returned error, when
// non-nil, wraps one of the package error classes and mirrors the envelope's
// Error field; callers use it only to pick a status code.
func (s *Service) TryOn(ctx context.Context, req TryOnRequest) (TryOnResult, error) {
	start := time.Now()

	if err := req.Validate(); err != nil {
		return s.failure(start, err), err
	}

	person, err := s.prepare(ctx, req.Person)
	if err != nil {
		return s.failure(start, err), err
	}
	garment, err := s.prepare(ctx, req.Garment)
	if err != nil {
		return s.failure(start, err), err
	}

	outputURL, err := s.invoker.Run(ctx, InvokeInputs{
		PersonDataURI:      person.DataURI,
		GarmentDataURI:     garment.DataURI,
		GarmentDescription: req.GarmentDescription,
		Category:           req.Category,
		DenoiseSteps:       req.DenoiseSteps,
	})
	if err != nil {
		return s.failure(start, err), err
	}

	elapsed := time.Since(start).Seconds()
	if s.logger != nil {
		s.logger.Info().
			Str("category", string(req.Category)).
			Int("denoise_steps", req.DenoiseSteps).
			Int("person_kb", person.SizeKB).
			Int("garment_kb", garment.SizeKB).
			Float64("elapsed_s", elapsed).
			Msg("try-on completed")
	}
	return TryOnResult{
		Success:     true,
		OutputURL:   &outputURL,
		ElapsedTime: elapsed,
		InputSize:   &InputSize{PersonKB: person.SizeKB, GarmentKB: garment.SizeKB},
	}, nil
}

func (s *Service) prepare(ctx context.Context, src ImageSource) (Payload, error) {
	img, err := s.normalizer.Resolve(ctx, src)
	if err != nil {
		return Payload{}, err
	}
	return s.optimizer.Optimize(img)
}

func (s *Service) failure(start time.Time, err error) TryOnResult {
	if s.logger != nil {
		s.logger.Warn().Err(err).Msg("try-on failed")
	}
	msg := err.Error()
	return TryOnResult{
		Success:     false,
		ElapsedTime: time.Since(start).Seconds(),
		Error:       &msg,
	}
}
