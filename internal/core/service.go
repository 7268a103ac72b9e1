package core

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/IbrahimaBalde09/Prediction-des-ventes/internal/logging"
	"github.com/google/uuid"
)

// ErrFileTooLarge is returned when an upload exceeds the configured size.
var ErrFileTooLarge = errors.New("file too large")

// DefaultRunTimeout bounds a single run when the options leave it unset.
const DefaultRunTimeout = 2 * time.Minute

// ServiceOptions configures a Service.
type ServiceOptions struct {
	Policy        Policy
	MaxFileSize   int64 // zero means unlimited
	MaxConcurrent int
	MaxWait       time.Duration
	Timeout       time.Duration
}

// Service runs the pipeline on uploaded workbooks. It is safe for
// concurrent use; the number of simultaneous runs is bounded by a RunLimiter.
type Service struct {
	policy      Policy
	maxFileSize int64
	timeout     time.Duration
	limiter     *RunLimiter
}

// NewService creates a Service. A zero Policy falls back to DefaultPolicy.
func NewService(opts ServiceOptions) *Service {
	if opts.Policy == (Policy{}) {
		opts.Policy = DefaultPolicy
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultRunTimeout
	}
	return &Service{
		policy:      opts.Policy,
		maxFileSize: opts.MaxFileSize,
		timeout:     opts.Timeout,
		limiter:     NewRunLimiter(opts.MaxConcurrent, opts.MaxWait),
	}
}

// Policy returns the forecasting policy applied by Process.
func (s *Service) Policy() Policy {
	return s.policy
}

// Limiter exposes the run limiter for health reporting and shutdown.
func (s *Service) Limiter() *RunLimiter {
	return s.limiter
}

type runResult struct {
	out *Outcome
	err error
}

// Process loads the workbook read from r and runs the pipeline on it. The
// run keeps the ID already stored in ctx by ContextWithRunID, or gets a new
// one.
//
// Errors are *Error values except for ErrTooManyRuns, ErrFileTooLarge and
// context errors, which describe the run itself rather than the data.
func (s *Service) Process(ctx context.Context, r io.Reader, req Request) (*Outcome, error) {
	runID := RunIDFromContext(ctx)
	if runID == "" {
		runID = uuid.New().String()
		ctx = ContextWithRunID(ctx, runID)
	}
	logger := logging.WithFields(ctx, "run_id", runID, "item", req.Item, "horizon", req.Horizon)

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	data, err := s.read(r)
	if err != nil {
		logger.Warn("upload rejected", "error", err)
		return nil, err
	}

	if err := s.limiter.Acquire(ctx); err != nil {
		logger.Warn("no run slot available", "error", err, "active", s.limiter.ActiveCount())
		return nil, err
	}

	start := time.Now()
	done := make(chan runResult, 1)
	go func() {
		var res runResult
		defer func() { done <- res }()
		defer s.limiter.Release()
		defer func() {
			if rec := recover(); rec != nil {
				logger.Error("panic in forecast run", "panic", rec)
				res = runResult{err: modelFitError(fmt.Errorf("internal error: %v", rec))}
			}
		}()
		res.out, res.err = s.run(data, req)
	}()

	select {
	case <-ctx.Done():
		logger.Warn("forecast run abandoned", "error", ctx.Err(), "duration", time.Since(start))
		return nil, ctx.Err()
	case res := <-done:
		if res.err != nil {
			logger.Info("forecast run failed",
				"kind", KindOf(res.err).String(),
				"error", res.err,
				"duration", time.Since(start),
			)
			return nil, res.err
		}
		res.out.RunID = runID
		logOutcome(logger, res.out, time.Since(start))
		return res.out, nil
	}
}

// ListItems loads the workbook read from r and returns its distinct items.
// It takes a run slot without waiting and fails with ErrTooManyRuns when
// none is free.
func (s *Service) ListItems(ctx context.Context, r io.Reader) ([]string, error) {
	data, err := s.read(r)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !s.limiter.TryAcquire() {
		return nil, ErrTooManyRuns
	}
	defer s.limiter.Release()

	t, err := LoadWorkbook(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	idx, err := ValidateColumns(t)
	if err != nil {
		return nil, err
	}
	return Items(t, idx), nil
}

func (s *Service) run(data []byte, req Request) (*Outcome, error) {
	t, err := LoadWorkbook(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	return s.policy.Run(t, req)
}

// read buffers the upload, enforcing maxFileSize.
func (s *Service) read(r io.Reader) ([]byte, error) {
	if s.maxFileSize <= 0 {
		return io.ReadAll(r)
	}
	data, err := io.ReadAll(io.LimitReader(r, s.maxFileSize+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > s.maxFileSize {
		return nil, fmt.Errorf("%w: limit is %d bytes", ErrFileTooLarge, s.maxFileSize)
	}
	return data, nil
}

func logOutcome(logger *slog.Logger, out *Outcome, elapsed time.Duration) {
	if out.Warning != nil {
		logger.Info("forecast skipped",
			"item", out.Item,
			"observations", out.Series.Len(),
			"reason", out.Warning.Err,
			"duration", elapsed,
		)
		return
	}
	logger.Info("forecast complete",
		"item", out.Item,
		"observations", out.Series.Len(),
		"horizon", out.Horizon,
		"phi", out.Model.Phi,
		"theta", out.Model.Theta,
		"aic", out.Model.AIC,
		"workbook_bytes", len(out.Workbook),
		"duration", elapsed,
	)
}
