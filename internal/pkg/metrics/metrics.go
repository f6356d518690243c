package metrics

import (
	"sync/atomic"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Fields is a flat mapping of per-stage counters and labels.
type Fields map[string]interface{}

// Emitter records one structured event per pipeline stage. Events are
// write-only from the pipeline's point of view.
type Emitter interface {
	Emit(stage string, fields Fields)
}

// ZapEmitter writes stage events through the injected logger, stamping each
// one with the run ID and an event sequence number.
type ZapEmitter struct {
	logger *zap.Logger
	runID  string
	seq    atomic.Int64
}

func NewZapEmitter(logger *zap.Logger) *ZapEmitter {
	return &ZapEmitter{
		logger: logger,
		runID:  uuid.NewString(),
	}
}

// RunID identifies all events emitted by this pipeline run.
func (e *ZapEmitter) RunID() string {
	return e.runID
}

func (e *ZapEmitter) Emit(stage string, fields Fields) {
	zapFields := make([]zap.Field, 0, len(fields)+2)
	zapFields = append(zapFields,
		zap.String("run_id", e.runID),
		zap.Int64("seq", e.seq.Add(1)),
	)
	for k, v := range fields {
		zapFields = append(zapFields, zap.Any(k, v))
	}
	e.logger.Info(stage, zapFields...)
}
