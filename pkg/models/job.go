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

package models

// Job is one released instance of a task. A job is owned by exactly one
// processor and lives either in its ready queue or its active slot,
// never both.
type Job struct {
	task        *Task
	sequence    int
	arrival     float64
	deadline    float64
	remaining   float64
	completed   bool
	completedAt float64
}

// NewJob creates the sequence-th job of the given task, released at the
// given arrival time. The absolute deadline is one period after
// arrival.
func NewJob(task *Task, sequence int, arrival float64) *Job {
	return &Job{
		task:      task,
		sequence:  sequence,
		arrival:   arrival,
		deadline:  arrival + float64(task.Period()),
		remaining: task.Execution(),
	}
}

// Task returns the owning task definition.
func (j *Job) Task() *Task {
	return j.task
}

// Sequence returns the per-task release number, starting at 1.
func (j *Job) Sequence() int {
	return j.sequence
}

// Arrival returns the release time.
func (j *Job) Arrival() float64 {
	return j.arrival
}

// Deadline returns the absolute deadline.
func (j *Job) Deadline() float64 {
	return j.deadline
}

// Remaining returns the execution demand not yet consumed.
func (j *Job) Remaining() float64 {
	return j.remaining
}

// Completed returns true once the job has finished.
func (j *Job) Completed() bool {
	return j.completed
}

// CompletedAt returns the completion timestamp. Only meaningful when
// Completed is true.
func (j *Job) CompletedAt() float64 {
	return j.completedAt
}

// Consume burns dt units of execution time. If the remainder would go
// negative it is clamped to zero and the overshoot is returned so the
// caller can decide whether the drift is worth a warning.
func (j *Job) Consume(dt float64) float64 {
	j.remaining -= dt
	if j.remaining < 0 {
		drift := -j.remaining
		j.remaining = 0
		return drift
	}
	return 0
}

func (j *Job) complete(at float64) {
	j.completed = true
	j.completedAt = at
}
