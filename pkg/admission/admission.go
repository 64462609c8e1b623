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

// Package admission implements the Liu & Layland utilization-bound
// admission test for rate monotonic scheduling. The bound is a
// sufficient condition: task sets below it always meet deadlines under
// RM, task sets above it may or may not.
package admission

import (
	"math"
)

// Bound returns the Liu & Layland least upper bound n*(2^(1/n)-1) on
// total utilization for n tasks. Zero tasks pass vacuously with 1.0.
// The bound decreases monotonically in n and converges to ln 2.
func Bound(n int) float64 {
	if n == 0 {
		return 1.0
	}
	fn := float64(n)
	return fn * (math.Pow(2, 1/fn) - 1)
}

// Fits reports whether a total utilization of n tasks passes the
// admission test.
func Fits(utilization float64, n int) bool {
	return utilization <= Bound(n)
}
