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

// Package placement partitions a task set across processors with the
// first-fit rate monotonic heuristic.
package placement

import (
	"sort"

	"github.com/uber/rmsim/pkg/admission"
	"github.com/uber/rmsim/pkg/models"

	log "github.com/sirupsen/logrus"
	"github.com/uber-go/tally"
)

// Partitioner assigns tasks to processors.
type Partitioner interface {
	// Place partitions the task set: every input task lands on exactly
	// one of the returned processors. An empty input yields zero
	// processors. Place never fails; in the worst case every task gets
	// its own processor.
	Place(tasks []*models.Task) []*models.Processor
}

// NewFirstFit creates a first-fit rate monotonic partitioner.
func NewFirstFit(parent tally.Scope) Partitioner {
	return &firstFit{
		metrics: NewMetrics(parent.SubScope("placement")),
	}
}

type firstFit struct {
	metrics *Metrics
}

// Place sorts tasks by ascending period (stable, so equal periods keep
// input order) and assigns each to the first processor that still
// passes the Liu & Layland test. The test is taken against the
// post-insertion task count, a deliberately conservative variant of
// the classical first-fit feasibility check. No assignment is ever
// backtracked.
func (f *firstFit) Place(tasks []*models.Task) []*models.Processor {
	if len(tasks) == 0 {
		return nil
	}

	sorted := make([]*models.Task, len(tasks))
	copy(sorted, tasks)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Period() < sorted[j].Period()
	})

	processors := []*models.Processor{models.NewProcessor(0)}
	for _, task := range sorted {
		assigned := false
		for _, proc := range processors {
			prospective := len(proc.Tasks()) + 1
			if admission.Fits(proc.Utilization()+task.Utilization(), prospective) {
				proc.AddTask(task)
				assigned = true
				break
			}
		}
		if !assigned {
			proc := models.NewProcessor(len(processors))
			proc.AddTask(task)
			processors = append(processors, proc)
			f.metrics.ProcessorsCreated.Inc(1)
		}
		f.metrics.TasksPlaced.Inc(1)
	}

	f.metrics.ProcessorCount.Update(float64(len(processors)))
	for _, proc := range processors {
		log.WithFields(log.Fields{
			"processor":   proc.ID(),
			"tasks":       taskIDs(proc.Tasks()),
			"utilization": proc.Utilization(),
		}).Info("Assigned tasks to processor")
	}
	return processors
}

func taskIDs(tasks []*models.Task) []string {
	ids := make([]string, 0, len(tasks))
	for _, t := range tasks {
		ids = append(ids, t.ID())
	}
	return ids
}
