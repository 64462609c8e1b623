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

package simulation

import (
	"time"

	"github.com/uber/rmsim/pkg/admission"
	"github.com/uber/rmsim/pkg/models"
	"github.com/uber/rmsim/pkg/simtime"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// TaskStats aggregates one task's jobs over a run.
type TaskStats struct {
	TaskID      string  `json:"task_id"`
	Period      int64   `json:"period"`
	Execution   float64 `json:"execution_time"`
	Utilization float64 `json:"utilization"`

	Released  int `json:"released"`
	Completed int `json:"completed"`
	// Missed counts jobs that completed after their deadline plus jobs
	// whose deadline fell within the run but never completed.
	Missed int `json:"missed"`

	BusyTime float64 `json:"busy_time"`
	// MeanResponse and MaxResponse cover completed jobs only; both are
	// zero when no job completed.
	MeanResponse float64 `json:"mean_response"`
	MaxResponse  float64 `json:"max_response"`
}

// ProcessorStats aggregates one processor over a run.
type ProcessorStats struct {
	ProcessorID int     `json:"processor_id"`
	Utilization float64 `json:"utilization"`
	// Feasible is the Liu & Layland verdict for the assigned task set.
	Feasible bool        `json:"feasible"`
	BusyTime float64     `json:"busy_time"`
	Tasks    []TaskStats `json:"tasks"`
}

// Report is the outcome of one simulation run.
type Report struct {
	RunID      string           `json:"run_id"`
	Horizon    float64          `json:"horizon"`
	Elapsed    time.Duration    `json:"elapsed"`
	Processors []ProcessorStats `json:"processors"`
}

// JobsReleased returns the total number of jobs released in the run.
func (r *Report) JobsReleased() int {
	return r.sum(func(t TaskStats) int { return t.Released })
}

// JobsCompleted returns the total number of jobs completed in the run.
func (r *Report) JobsCompleted() int {
	return r.sum(func(t TaskStats) int { return t.Completed })
}

// DeadlinesMissed returns the total number of missed deadlines.
func (r *Report) DeadlinesMissed() int {
	return r.sum(func(t TaskStats) int { return t.Missed })
}

func (r *Report) sum(f func(TaskStats) int) int {
	var n int
	for _, p := range r.Processors {
		for _, t := range p.Tasks {
			n += f(t)
		}
	}
	return n
}

func buildReport(
	runID string,
	processors []*models.Processor,
	states []*releaseState,
	horizon float64,
	elapsed time.Duration,
) *Report {
	byProc := make(map[int][]*releaseState, len(processors))
	for _, st := range states {
		byProc[st.proc.ID()] = append(byProc[st.proc.ID()], st)
	}

	report := &Report{
		RunID:   runID,
		Horizon: horizon,
		Elapsed: elapsed,
	}
	for _, proc := range processors {
		stats := ProcessorStats{
			ProcessorID: proc.ID(),
			Utilization: proc.Utilization(),
			Feasible:    admission.Fits(proc.Utilization(), len(proc.Tasks())),
			BusyTime:    proc.BusyTime(""),
		}
		for _, st := range byProc[proc.ID()] {
			stats.Tasks = append(stats.Tasks, taskStats(st, proc, horizon))
		}
		report.Processors = append(report.Processors, stats)
	}
	return report
}

func taskStats(st *releaseState, proc *models.Processor, horizon float64) TaskStats {
	ts := TaskStats{
		TaskID:      st.task.ID(),
		Period:      st.task.Period(),
		Execution:   st.task.Execution(),
		Utilization: st.task.Utilization(),
		Released:    len(st.jobs),
		BusyTime:    proc.BusyTime(st.task.ID()),
	}

	var responses []float64
	for _, j := range st.jobs {
		switch {
		case j.Completed():
			ts.Completed++
			responses = append(responses, j.CompletedAt()-j.Arrival())
			if simtime.After(j.CompletedAt(), j.Deadline()) {
				ts.Missed++
			}
		case !simtime.After(j.Deadline(), horizon):
			// Deadline fell inside the run and the job never finished.
			ts.Missed++
		}
	}
	if len(responses) > 0 {
		ts.MeanResponse = stat.Mean(responses, nil)
		ts.MaxResponse = floats.Max(responses)
	}
	return ts
}
