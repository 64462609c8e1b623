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
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTask(t *testing.T) {
	task, err := NewTask("T1", 4, 2)
	require.NoError(t, err)
	assert.Equal(t, "T1", task.ID())
	assert.Equal(t, int64(4), task.Period())
	assert.Equal(t, 2.0, task.Execution())
	assert.Equal(t, 0.5, task.Utilization())
}

func TestNewTaskRejectsInvalidInput(t *testing.T) {
	testCases := []struct {
		name      string
		id        string
		period    int64
		execution float64
	}{
		{"empty id", "", 4, 2},
		{"zero period", "T1", 0, 1},
		{"negative period", "T1", -4, 1},
		{"zero execution", "T1", 4, 0},
		{"negative execution", "T1", 4, -1},
		{"execution exceeds period", "T1", 4, 4.5},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			task, err := NewTask(tc.id, tc.period, tc.execution)
			assert.Nil(t, task)
			require.Error(t, err)
			assert.Equal(t, ErrInvalidTask, errors.Cause(err))
		})
	}
}

func TestTaskExecutionEqualToPeriodIsValid(t *testing.T) {
	task, err := NewTask("T1", 5, 5)
	require.NoError(t, err)
	assert.Equal(t, 1.0, task.Utilization())
}
