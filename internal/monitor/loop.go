package monitor

import (
	"context"
	"fmt"
	"log"
	"time"

	"machmon/internal/models"
	"machmon/internal/services"
)

// Producer supplies one snapshot per call, failing per-category
type Producer interface {
	Produce(include services.Categories) (*models.Snapshot, []services.CategoryError)
}

// Emitter writes output documents. EmitSnapshot writes the single-shot
// success envelope; EmitTrigger writes a trigger event document.
type Emitter interface {
	EmitSnapshot(snap *models.Snapshot) error
	EmitTrigger(event *models.TriggerEvent) error
}

// Notifier forwards trigger reports and lifecycle logs to a local agent.
// All calls are best-effort: failures are logged and never affect the loop.
type Notifier interface {
	ReportTrigger(ctx context.Context, triggerType string, data map[string]interface{}) error
	Log(ctx context.Context, level, message string) error
}

// Publisher receives every snapshot the loop takes, triggered or not.
// The WebSocket stream hub implements it.
type Publisher interface {
	PublishSnapshot(snap *models.Snapshot)
}

// Options configures a Loop. Producer and Emitter are required; Notifier,
// Publisher and Metrics are optional.
type Options struct {
	Interval   time.Duration
	Thresholds Thresholds
	Include    services.Categories
	Producer   Producer
	Emitter    Emitter
	Notifier   Notifier
	Publisher  Publisher
	Metrics    *Metrics
}

// Loop drives timed sampling, threshold evaluation and emission. A single
// goroutine runs one sample/evaluate/emit cycle at a time; the only
// concurrency concern is the interruptible wait between ticks.
type Loop struct {
	opts Options
}

// New creates a monitoring loop from the given options
func New(opts Options) *Loop {
	if opts.Metrics == nil {
		opts.Metrics = NewMetrics(nil)
	}
	return &Loop{opts: opts}
}

// Run executes the loop until ctx is cancelled. A zero interval selects
// single-shot mode: exactly one snapshot, emitted unconditionally.
// Cancellation is not an error; Run returns nil on clean shutdown.
func (l *Loop) Run(ctx context.Context) error {
	if l.opts.Interval <= 0 {
		return l.runOnce()
	}
	return l.runContinuous(ctx)
}

func (l *Loop) runOnce() error {
	snap := l.sample()
	if err := l.opts.Emitter.EmitSnapshot(snap); err != nil {
		return fmt.Errorf("emitting snapshot: %w", err)
	}
	return nil
}

func (l *Loop) runContinuous(ctx context.Context) error {
	log.Printf("[MONITOR] Starting monitoring loop with %s interval (CPU trigger=%d%%, memory trigger=%d%%)",
		l.opts.Interval, l.opts.Thresholds.CPUPercent, l.opts.Thresholds.MemPercent)
	l.notifyLog(ctx, "INFO", fmt.Sprintf("monitoring started with CPU trigger=%d%%, memory trigger=%d%%",
		l.opts.Thresholds.CPUPercent, l.opts.Thresholds.MemPercent))

	cycle := 0
	for {
		// Shutdown is observed here, at the waiting/sampling boundary.
		// An in-flight extraction always completes; an interrupted tick
		// emits nothing.
		select {
		case <-ctx.Done():
			return l.stop(cycle)
		default:
		}

		cycle++
		snap := l.sample()
		l.opts.Metrics.Ticks.Inc()

		if l.opts.Publisher != nil {
			l.opts.Publisher.PublishSnapshot(snap)
		}

		if reason, triggered := Evaluate(snap, l.opts.Thresholds); triggered {
			l.emitTrigger(ctx, reason, snap, cycle)
		}

		timer := time.NewTimer(l.opts.Interval)
		select {
		case <-ctx.Done():
			timer.Stop()
			return l.stop(cycle)
		case <-timer.C:
		}
	}
}

// sample takes one snapshot, downgrading per-category failures to warnings
func (l *Loop) sample() *models.Snapshot {
	snap, failures := l.opts.Producer.Produce(l.opts.Include)
	for _, failure := range failures {
		log.Printf("[MONITOR] Warning: %v", failure)
		l.opts.Metrics.ExtractionFailures.WithLabelValues(failure.Category).Inc()
	}
	return snap
}

func (l *Loop) emitTrigger(ctx context.Context, reason Reason, snap *models.Snapshot, cycle int) {
	usage := triggerUsage(reason, snap)
	log.Printf("[MONITOR] %s trigger activated in cycle #%d: %.1f%%", reason, cycle, usage)

	event := &models.TriggerEvent{
		Data:          snap,
		DateTriggered: time.Now(),
	}
	if err := l.opts.Emitter.EmitTrigger(event); err != nil {
		// Serialization failure costs this tick only; the loop keeps running.
		log.Printf("[MONITOR] Warning: skipping trigger output: %v", err)
		return
	}
	l.opts.Metrics.Triggers.WithLabelValues(string(reason)).Inc()

	if l.opts.Notifier != nil {
		threshold := l.opts.Thresholds.CPUPercent
		if reason == ReasonMemoryHigh {
			threshold = l.opts.Thresholds.MemPercent
		}
		err := l.opts.Notifier.ReportTrigger(ctx, string(reason), map[string]interface{}{
			"usage":     usage,
			"threshold": threshold,
			"timestamp": snap.Timestamp,
		})
		if err != nil {
			log.Printf("[MONITOR] Warning: failed to report trigger to agent: %v", err)
		}
	}
}

func (l *Loop) stop(cycles int) error {
	log.Printf("[MONITOR] Monitoring stopped after %d cycles", cycles)
	// The run context is already cancelled; give the farewell its own deadline.
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	l.notifyLog(ctx, "INFO", fmt.Sprintf("monitoring stopped after %d cycles", cycles))
	return nil
}

func (l *Loop) notifyLog(ctx context.Context, level, message string) {
	if l.opts.Notifier == nil {
		return
	}
	if err := l.opts.Notifier.Log(ctx, level, message); err != nil {
		log.Printf("[MONITOR] Warning: failed to upload log to agent: %v", err)
	}
}

func triggerUsage(reason Reason, snap *models.Snapshot) float64 {
	switch reason {
	case ReasonCPUHigh:
		if snap.CPU != nil {
			return snap.CPU.Percent
		}
	case ReasonMemoryHigh:
		if snap.Memory != nil {
			return snap.Memory.Virtual.Percent
		}
	}
	return 0
}
