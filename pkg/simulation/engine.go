// Copyright (c) 2019 Uber Technologies, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//    http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package simulation runs the discrete event simulation of preemptive
// rate monotonic scheduling over a set of partitioned processors.
//
// The engine is exact: simulated time jumps from event to event
// (arrivals and completions), so execution log boundaries are the real
// valued instants at which state changed, not rounded ticks. All
// processors advance in lockstep under a single monotonically
// increasing clock; the cores are logically concurrent but there is
// one execution context and no shared mutable state between them.
package simulation

import (
	"context"
	"math"
	"time"

	"github.com/uber/rmsim/pkg/models"
	"github.com/uber/rmsim/pkg/simtime"

	"github.com/pborman/uuid"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/uber-go/tally"
	"go.uber.org/atomic"
)

// ErrAlreadyRunning is returned when Run is called on an engine that
// has a run in flight.
var ErrAlreadyRunning = errors.New("simulation already running")

// Engine drives a simulation run.
type Engine interface {
	// Run simulates the given processors from time zero up to the
	// horizon and returns the run report. The processors' execution
	// logs are populated as a side effect. Run mutates the processors
	// and must not be called twice with the same ones.
	Run(ctx context.Context, processors []*models.Processor, horizon float64) (*Report, error)
}

// New creates a simulation engine reporting metrics under the given
// parent scope.
func New(parent tally.Scope) Engine {
	return &engine{
		metrics: NewMetrics(parent.SubScope("simulation")),
		running: atomic.NewBool(false),
	}
}

type engine struct {
	metrics *Metrics
	running *atomic.Bool
}

// releaseState is the explicit per (processor, task) release tracking
// for one run: the next arrival instant, the next sequence number, and
// every job released so far. Owning this state per run keeps repeated
// runs independent.
type releaseState struct {
	proc        *models.Processor
	task        *models.Task
	nextArrival float64
	nextSeq     int
	jobs        []*models.Job
}

func (e *engine) Run(
	ctx context.Context,
	processors []*models.Processor,
	horizon float64,
) (*Report, error) {
	if !e.running.CompareAndSwap(false, true) {
		return nil, ErrAlreadyRunning
	}
	defer e.running.Store(false)

	if horizon < 0 {
		return nil, errors.Errorf("horizon %v must not be negative", horizon)
	}

	runID := uuid.New()
	logger := log.WithField("run_id", runID)
	logger.WithFields(log.Fields{
		"processors": len(processors),
		"horizon":    horizon,
	}).Info("Starting simulation run")

	sw := e.metrics.RunDuration.Start()
	start := time.Now()

	var states []*releaseState
	for _, proc := range processors {
		for _, task := range proc.Tasks() {
			states = append(states, &releaseState{
				proc:    proc,
				task:    task,
				nextSeq: 1,
			})
		}
	}

	now := 0.0
	for now < horizon {
		select {
		case <-ctx.Done():
			return nil, errors.Wrap(ctx.Err(), "simulation cancelled")
		default:
		}

		// Next event: earliest pending arrival or active job completion.
		nextArrival := simtime.Never()
		for _, st := range states {
			if st.nextArrival < nextArrival {
				nextArrival = st.nextArrival
			}
		}
		nextCompletion := simtime.Never()
		for _, proc := range processors {
			if j := proc.ActiveJob(); j != nil {
				if c := now + j.Remaining(); c < nextCompletion {
					nextCompletion = c
				}
			}
		}

		eventTime := math.Min(nextArrival, nextCompletion)
		if eventTime > horizon {
			eventTime = horizon
			if simtime.Eq(eventTime, now) {
				// Nothing left before the horizon.
				break
			}
		}

		// Advance time: every active job burns dt and logs the interval.
		if dt := eventTime - now; dt > 0 {
			for _, proc := range processors {
				j := proc.ActiveJob()
				if j == nil {
					continue
				}
				if drift := j.Consume(dt); drift > simtime.Epsilon {
					logger.WithFields(log.Fields{
						"processor": proc.ID(),
						"task":      j.Task().ID(),
						"job":       j.Sequence(),
						"drift":     drift,
					}).Warn("Clamped negative remaining time")
					e.metrics.DriftClamps.Inc(1)
				}
				proc.RecordExecution(now, eventTime)
			}
		}
		now = eventTime

		// Completions.
		for _, proc := range processors {
			j := proc.ActiveJob()
			if j == nil || !simtime.Exhausted(j.Remaining()) {
				continue
			}
			proc.CompleteActive(now)
			e.metrics.JobsCompleted.Inc(1)
			if simtime.After(now, j.Deadline()) {
				e.metrics.DeadlinesMissed.Inc(1)
				logger.WithFields(log.Fields{
					"processor": proc.ID(),
					"task":      j.Task().ID(),
					"job":       j.Sequence(),
					"deadline":  j.Deadline(),
					"finished":  now,
				}).Warn("Job completed after its deadline")
			}
		}

		// Arrivals: admit every release due now before dispatch runs,
		// so simultaneous releases on one processor compete in the
		// same step.
		for _, st := range states {
			if !simtime.Eq(st.nextArrival, now) {
				continue
			}
			j := models.NewJob(st.task, st.nextSeq, now)
			st.nextSeq++
			st.nextArrival += float64(st.task.Period())
			st.jobs = append(st.jobs, j)
			st.proc.Admit(j)
			e.metrics.JobsReleased.Inc(1)
		}

		// Dispatch, per processor independently. A strictly smaller
		// period queued job preempts the incumbent; equal periods do
		// not.
		for _, proc := range processors {
			if proc.ShouldPreempt() {
				proc.Preempt()
				e.metrics.Preemptions.Inc(1)
			}
			proc.Dispatch()
		}
	}

	sw.Stop()
	report := buildReport(runID, processors, states, horizon, time.Since(start))
	logger.WithFields(log.Fields{
		"released":  report.JobsReleased(),
		"completed": report.JobsCompleted(),
		"missed":    report.DeadlinesMissed(),
		"elapsed":   report.Elapsed,
	}).Info("Simulation run finished")
	return report, nil
}
