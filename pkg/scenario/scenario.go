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

// Package scenario turns a declarative simulation configuration into a
// validated, immutable task set with a resolved horizon and partition
// policy.
package scenario

import (
	"github.com/uber/rmsim/pkg/models"
	"github.com/uber/rmsim/pkg/placement"

	"github.com/pkg/errors"
	"github.com/uber-go/tally"
	"go.uber.org/multierr"
)

// Partition policies.
const (
	// PartitionFirstFit partitions tasks across processors with the
	// first-fit rate monotonic heuristic.
	PartitionFirstFit = "first_fit"
	// PartitionNone places every task on a single processor.
	PartitionNone = "none"
)

// TaskConfig is one task definition in a scenario file.
type TaskConfig struct {
	ID        string  `yaml:"id"`
	Period    int64   `yaml:"period"`
	Execution float64 `yaml:"execution_time"`
}

// Config is the YAML scenario configuration.
type Config struct {
	Name string `yaml:"name"`
	// Partition selects the partition policy, PartitionFirstFit by
	// default.
	Partition string `yaml:"partition"`
	// Horizon is the simulation end time. Zero means one hyperperiod.
	Horizon float64      `yaml:"horizon"`
	Tasks   []TaskConfig `yaml:"tasks" validate:"min=1"`
}

// Scenario is a validated, ready to run simulation input.
type Scenario struct {
	Name      string
	Partition string
	Horizon   float64
	Tasks     []*models.Task
}

// Build validates the configuration and constructs the immutable task
// set. Task validation failures are aggregated so one pass reports
// every bad task. The horizon defaults to the task set's hyperperiod.
func (c *Config) Build() (*Scenario, error) {
	policy := c.Partition
	switch policy {
	case "":
		policy = PartitionFirstFit
	case PartitionFirstFit, PartitionNone:
	default:
		return nil, errors.Errorf("unknown partition policy %q", c.Partition)
	}
	if c.Horizon < 0 {
		return nil, errors.Errorf("horizon %v must not be negative", c.Horizon)
	}

	var buildErr error
	tasks := make([]*models.Task, 0, len(c.Tasks))
	seen := make(map[string]bool, len(c.Tasks))
	for _, tc := range c.Tasks {
		if seen[tc.ID] {
			buildErr = multierr.Append(buildErr,
				errors.Errorf("duplicate task id %q", tc.ID))
			continue
		}
		seen[tc.ID] = true

		task, err := models.NewTask(tc.ID, tc.Period, tc.Execution)
		if err != nil {
			buildErr = multierr.Append(buildErr, err)
			continue
		}
		tasks = append(tasks, task)
	}
	if buildErr != nil {
		return nil, buildErr
	}
	if len(tasks) == 0 {
		return nil, errors.New("scenario has no tasks")
	}

	horizon := c.Horizon
	if horizon == 0 {
		horizon = float64(models.Hyperperiod(tasks))
	}

	return &Scenario{
		Name:      c.Name,
		Partition: policy,
		Horizon:   horizon,
		Tasks:     tasks,
	}, nil
}

// Processors applies the scenario's partition policy and returns the
// processors to simulate.
func (s *Scenario) Processors(parent tally.Scope) []*models.Processor {
	if s.Partition == PartitionNone {
		proc := models.NewProcessor(0)
		for _, t := range s.Tasks {
			proc.AddTask(t)
		}
		return []*models.Processor{proc}
	}
	return placement.NewFirstFit(parent).Place(s.Tasks)
}
