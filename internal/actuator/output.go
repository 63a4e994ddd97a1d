package actuator

import (
	"log/slog"
	"sync"
)

// Output drives the physical light. Write is called from the engine loop on
// every brightness change and should not block for long.
type Output interface {
	Write(brightness int) error
}

// LogOutput is an Output with no hardware behind it; brightness changes are
// only logged. It is the default driver.
type LogOutput struct {
	logger *slog.Logger
}

// NewLogOutput creates a log-only output.
func NewLogOutput(logger *slog.Logger) *LogOutput {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogOutput{logger: logger}
}

func (o *LogOutput) Write(brightness int) error {
	o.logger.Debug("output: write", "brightness", brightness)
	return nil
}

// RecordingOutput keeps every written level. Useful for simulations and tests.
type RecordingOutput struct {
	mu     sync.Mutex
	levels []int
}

func (o *RecordingOutput) Write(brightness int) error {
	o.mu.Lock()
	o.levels = append(o.levels, brightness)
	o.mu.Unlock()
	return nil
}

// Levels returns a copy of the written levels.
func (o *RecordingOutput) Levels() []int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return append([]int(nil), o.levels...)
}

// Last returns the most recent level, or -1 if nothing was written.
func (o *RecordingOutput) Last() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	if len(o.levels) == 0 {
		return -1
	}
	return o.levels[len(o.levels)-1]
}

// MultiOutput writes to every output in order and returns the first error.
type MultiOutput []Output

func (m MultiOutput) Write(brightness int) error {
	var first error
	for _, o := range m {
		if err := o.Write(brightness); err != nil && first == nil {
			first = err
		}
	}
	return first
}
