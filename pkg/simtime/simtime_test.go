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

package simtime

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEq(t *testing.T) {
	assert.True(t, Eq(1.0, 1.0))
	assert.True(t, Eq(1.0, 1.0+Epsilon/2))
	assert.False(t, Eq(1.0, 1.0+2*Epsilon))
	assert.False(t, Eq(0, 1))
}

func TestExhausted(t *testing.T) {
	assert.True(t, Exhausted(0))
	assert.True(t, Exhausted(Epsilon/2))
	assert.True(t, Exhausted(-1))
	assert.False(t, Exhausted(0.1))
}

func TestAfter(t *testing.T) {
	assert.True(t, After(2, 1))
	assert.False(t, After(1, 2))
	// Within tolerance is not "after".
	assert.False(t, After(1+Epsilon/2, 1))
}

func TestNever(t *testing.T) {
	assert.True(t, math.IsInf(Never(), 1))
	assert.Less(t, 1e18, Never())
}
