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

// Package simtime centralizes the floating point tolerance policy for
// simulated time. Every timestamp comparison in the simulator (arrival
// matching, completion detection, log contiguity) goes through this
// package so that all comparisons share one epsilon.
package simtime

import (
	"math"

	"gonum.org/v1/gonum/floats/scalar"
)

// Epsilon is the absolute tolerance used for all simulated time
// comparisons.
const Epsilon = 1e-9

// Never is a timestamp later than any event the simulator can produce.
func Never() float64 {
	return math.Inf(1)
}

// Eq returns true if two timestamps are equal within Epsilon.
func Eq(a, b float64) bool {
	return scalar.EqualWithinAbs(a, b, Epsilon)
}

// Exhausted returns true if a remaining execution budget is used up,
// i.e. zero or negative within Epsilon.
func Exhausted(remaining float64) bool {
	return remaining <= Epsilon
}

// After returns true if a is strictly later than b, beyond Epsilon.
func After(a, b float64) bool {
	return a > b+Epsilon
}
