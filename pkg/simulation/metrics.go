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
	"github.com/uber-go/tally"
)

// Metrics is a placeholder for all metrics in simulation
type Metrics struct {
	JobsReleased    tally.Counter
	JobsCompleted   tally.Counter
	DeadlinesMissed tally.Counter
	Preemptions     tally.Counter
	DriftClamps     tally.Counter

	RunDuration tally.Timer
}

// NewMetrics returns a new instance of simulation.Metrics
func NewMetrics(scope tally.Scope) *Metrics {
	return &Metrics{
		JobsReleased:    scope.Counter("num_jobs_released"),
		JobsCompleted:   scope.Counter("num_jobs_completed"),
		DeadlinesMissed: scope.Counter("num_deadlines_missed"),
		Preemptions:     scope.Counter("num_preemptions"),
		DriftClamps:     scope.Counter("num_drift_clamps"),

		RunDuration: scope.Timer("run_duration"),
	}
}
