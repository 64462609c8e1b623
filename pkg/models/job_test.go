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

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewJob(t *testing.T) {
	task, err := NewTask("T1", 5, 2)
	require.NoError(t, err)

	j := NewJob(task, 3, 10)
	assert.Equal(t, task, j.Task())
	assert.Equal(t, 3, j.Sequence())
	assert.Equal(t, 10.0, j.Arrival())
	assert.Equal(t, 15.0, j.Deadline())
	assert.Equal(t, 2.0, j.Remaining())
	assert.False(t, j.Completed())
}

func TestJobConsume(t *testing.T) {
	task, err := NewTask("T1", 5, 2)
	require.NoError(t, err)

	j := NewJob(task, 1, 0)
	assert.Zero(t, j.Consume(1.5))
	assert.Equal(t, 0.5, j.Remaining())
	assert.Zero(t, j.Consume(0.5))
	assert.Zero(t, j.Remaining())
}

func TestJobConsumeClampsNegativeRemainder(t *testing.T) {
	task, err := NewTask("T1", 5, 2)
	require.NoError(t, err)

	j := NewJob(task, 1, 0)
	drift := j.Consume(2.25)
	assert.InDelta(t, 0.25, drift, 1e-12)
	// The remainder never goes negative.
	assert.Zero(t, j.Remaining())
}
