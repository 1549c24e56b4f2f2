package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/alex30free/swedish-stock-screener/internal/collector"
	"github.com/alex30free/swedish-stock-screener/internal/output"
	"github.com/alex30free/swedish-stock-screener/internal/recorder"
	"github.com/alex30free/swedish-stock-screener/internal/report"
	"github.com/alex30free/swedish-stock-screener/internal/screener"
)

// Scheduler runs the screen on a cron schedule and on demand.
type Scheduler struct {
	Cron       *cron.Cron
	Collector  *collector.Collector
	Engine     *screener.Engine
	Recorder   recorder.Recorder
	OutputPath string
	Ctx        context.Context

	log *logrus.Entry
}

// NewScheduler creates a Scheduler.
func NewScheduler(ctx context.Context, col *collector.Collector, eng *screener.Engine, rec recorder.Recorder, outputPath string, log *logrus.Entry) *Scheduler {
	return &Scheduler{
		Cron:       cron.New(cron.WithSeconds()),
		Collector:  col,
		Engine:     eng,
		Recorder:   rec,
		OutputPath: outputPath,
		Ctx:        ctx,
		log:        log,
	}
}

// RegisterAll registers the weekly screen task.
func (s *Scheduler) RegisterAll(weeklyCron string) error {
	if _, err := s.Cron.AddFunc(weeklyCron, func() {
		if err := s.RunScreen(); err != nil {
			s.log.WithError(err).Error("weekly screen failed")
		}
	}); err != nil {
		return fmt.Errorf("register weekly screen: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	s.log.Info("scheduler started")
}

// Stop stops the cron scheduler gracefully.
func (s *Scheduler) Stop() {
	s.Cron.Stop()
	s.log.Info("scheduler stopped")
}

// RunScreen executes one full screen: collect the universe, rank it, write
// data.json and record the run. A short universe is published anyway and
// logged as a warning; only collection or persistence failures are errors.
func (s *Scheduler) RunScreen() error {
	started := time.Now()
	s.log.Info("screen run starting")

	histories, fetchFailures, err := s.Collector.Collect(s.Ctx)
	if err != nil {
		return fmt.Errorf("collect universe: %w", err)
	}

	result, err := s.Engine.Screen(histories)
	shortfall := 0
	if err != nil {
		var uerr *screener.UniverseError
		if !errors.As(err, &uerr) {
			return fmt.Errorf("screen: %w", err)
		}
		shortfall = uerr.Requested - uerr.Qualifying
		s.log.WithFields(logrus.Fields{
			"qualifying": uerr.Qualifying,
			"requested":  uerr.Requested,
		}).Warn("universe smaller than requested top-N, publishing short list")
	}

	result.Excluded = append(result.Excluded, fetchFailures...)
	sort.Slice(result.Excluded, func(i, j int) bool {
		return result.Excluded[i].Ticker < result.Excluded[j].Ticker
	})

	for _, line := range strings.Split(report.Format(result, shortfall), "\n") {
		if line != "" {
			s.log.Info(line)
		}
	}

	if err := output.WriteFile(s.OutputPath, result); err != nil {
		return fmt.Errorf("write output: %w", err)
	}

	if err := s.Recorder.RecordRun(&recorder.RunSnapshot{
		Result:   result,
		Provider: s.Collector.Fetcher.Name(),
		Duration: time.Since(started),
	}); err != nil {
		s.log.WithError(err).Error("record run failed")
	}

	s.log.WithFields(logrus.Fields{
		"ranked":   len(result.Entries),
		"excluded": len(result.Excluded),
		"duration": time.Since(started).Round(time.Millisecond).String(),
	}).Info("screen run finished")
	return nil
}
