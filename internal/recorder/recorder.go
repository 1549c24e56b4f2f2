package recorder

import (
	"time"

	"github.com/alex30free/swedish-stock-screener/internal/model"
)

// RunSnapshot holds everything worth keeping from one screen run.
type RunSnapshot struct {
	Result   *model.RunResult
	Provider string
	Duration time.Duration
}

// Recorder persists screen runs for later analysis.
type Recorder interface {
	RecordRun(snap *RunSnapshot) error
	Close() error
}
