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

func TestHyperperiod(t *testing.T) {
	testCases := []struct {
		name     string
		periods  []int64
		expected int64
	}{
		{"empty set", nil, 1},
		{"single task", []int64{10}, 10},
		{"coprime periods", []int64{2, 5, 4}, 20},
		{"multiples", []int64{3, 6, 12}, 12},
		{"repeated period", []int64{7, 7}, 7},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			tasks := make([]*Task, 0, len(tc.periods))
			for i, p := range tc.periods {
				task, err := NewTask(string(rune('A'+i)), p, 1)
				require.NoError(t, err)
				tasks = append(tasks, task)
			}
			assert.Equal(t, tc.expected, Hyperperiod(tasks))
		})
	}
}
