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

import (
	"github.com/pkg/errors"
)

// ErrInvalidTask is the cause of every task validation failure.
var ErrInvalidTask = errors.New("invalid task")

// Task is the static definition of a periodic task. Under rate
// monotonic scheduling the period doubles as the priority key: the
// shorter the period, the higher the priority. Tasks are immutable
// after construction and shared by reference by every job they spawn.
type Task struct {
	id        string
	period    int64
	execution float64
}

// NewTask validates and creates a task definition.
func NewTask(id string, period int64, execution float64) (*Task, error) {
	if id == "" {
		return nil, errors.Wrap(ErrInvalidTask, "task id is empty")
	}
	if period <= 0 {
		return nil, errors.Wrapf(ErrInvalidTask,
			"task %s: period %d must be positive", id, period)
	}
	if execution <= 0 {
		return nil, errors.Wrapf(ErrInvalidTask,
			"task %s: execution time %v must be positive", id, execution)
	}
	if execution > float64(period) {
		return nil, errors.Wrapf(ErrInvalidTask,
			"task %s: execution time %v exceeds period %d", id, execution, period)
	}
	return &Task{
		id:        id,
		period:    period,
		execution: execution,
	}, nil
}

// ID returns the unique task identifier.
func (t *Task) ID() string {
	return t.id
}

// Period returns the task period, which is also its rate monotonic
// priority key.
func (t *Task) Period() int64 {
	return t.period
}

// Execution returns the per-job execution demand.
func (t *Task) Execution() float64 {
	return t.execution
}

// Utilization returns execution demand divided by period.
func (t *Task) Utilization() float64 {
	return t.execution / float64(t.period)
}
