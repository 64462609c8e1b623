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

package placement

import (
	"github.com/uber-go/tally"
)

// Metrics is a placeholder for all metrics in placement
type Metrics struct {
	TasksPlaced       tally.Counter
	ProcessorsCreated tally.Counter

	ProcessorCount tally.Gauge
}

// NewMetrics returns a new instance of placement.Metrics
func NewMetrics(scope tally.Scope) *Metrics {
	return &Metrics{
		TasksPlaced:       scope.Counter("num_tasks_placed"),
		ProcessorsCreated: scope.Counter("num_processors_created"),

		ProcessorCount: scope.Gauge("processor_count"),
	}
}
