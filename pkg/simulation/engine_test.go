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
	"context"
	"testing"

	"github.com/uber/rmsim/pkg/models"
	"github.com/uber/rmsim/pkg/simtime"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"github.com/uber-go/tally"
)

type EngineTestSuite struct {
	suite.Suite

	ctx    context.Context
	engine Engine
}

func (suite *EngineTestSuite) SetupTest() {
	suite.ctx = context.Background()
	testScope := tally.NewTestScope("", map[string]string{})
	suite.engine = New(testScope)
}

func TestEngine(t *testing.T) {
	suite.Run(t, &EngineTestSuite{})
}

func (suite *EngineTestSuite) task(id string, period int64, execution float64) *models.Task {
	task, err := models.NewTask(id, period, execution)
	require.NoError(suite.T(), err)
	return task
}

// uniprocessor builds one processor holding the given tasks.
func uniprocessor(tasks ...*models.Task) []*models.Processor {
	proc := models.NewProcessor(0)
	for _, t := range tasks {
		proc.AddTask(t)
	}
	return []*models.Processor{proc}
}

func (suite *EngineTestSuite) findTaskStats(report *Report, taskID string) TaskStats {
	for _, proc := range report.Processors {
		for _, ts := range proc.Tasks {
			if ts.TaskID == taskID {
				return ts
			}
		}
	}
	suite.FailNowf("task stats not found", "task %s", taskID)
	return TaskStats{}
}

func (suite *EngineTestSuite) TestSingleTaskPeriodicSegments() {
	processors := uniprocessor(suite.task("T1", 10, 3))
	report, err := suite.engine.Run(suite.ctx, processors, 30)
	suite.NoError(err)

	suite.Equal([]models.Segment{
		{Start: 0, End: 3, TaskID: "T1"},
		{Start: 10, End: 13, TaskID: "T1"},
		{Start: 20, End: 23, TaskID: "T1"},
	}, processors[0].ExecutionLog())

	ts := suite.findTaskStats(report, "T1")
	suite.Equal(3, ts.Completed)
	suite.Zero(ts.Missed)
	suite.Equal(3.0, ts.MeanResponse)
	suite.Equal(3.0, ts.MaxResponse)
}

// Overloaded uniprocessor: total utilization 1.4. T1 (period 2) always
// wins, T3 (period 4) fills the other half of every slot, and T2
// (period 5, lowest priority) never gets the processor at all.
func (suite *EngineTestSuite) TestOverloadedUniprocessorStarvesLowestPriority() {
	processors := uniprocessor(
		suite.task("T1", 2, 1),
		suite.task("T2", 5, 2),
		suite.task("T3", 4, 2),
	)
	report, err := suite.engine.Run(suite.ctx, processors, 20)
	suite.NoError(err)

	log := processors[0].ExecutionLog()
	suite.Len(log, 20)
	for i, segment := range log {
		suite.Equal(float64(i), segment.Start)
		suite.Equal(float64(i+1), segment.End)
		if i%2 == 0 {
			suite.Equal("T1", segment.TaskID, "slot %d", i)
		} else {
			suite.Equal("T3", segment.TaskID, "slot %d", i)
		}
	}

	t1 := suite.findTaskStats(report, "T1")
	suite.Equal(11, t1.Released) // the release at t=20 is admitted but never runs
	suite.Equal(10, t1.Completed)
	suite.Zero(t1.Missed)
	suite.Equal(10.0, t1.BusyTime)

	t2 := suite.findTaskStats(report, "T2")
	suite.Equal(5, t2.Released)
	suite.Zero(t2.Completed)
	suite.Equal(4, t2.Missed)
	suite.Zero(t2.BusyTime)

	t3 := suite.findTaskStats(report, "T3")
	suite.Equal(5, t3.Completed)
	suite.Zero(t3.Missed)
	suite.Equal(10.0, t3.BusyTime)

	suite.False(report.Processors[0].Feasible)
}

// A schedulable three task set: every deadline is met and the log
// shows preemption resuming the interrupted job without losing work.
func (suite *EngineTestSuite) TestSchedulableTaskSetMeetsAllDeadlines() {
	processors := uniprocessor(
		suite.task("T1", 9, 2),
		suite.task("T2", 5, 2),
		suite.task("T3", 3, 1),
	)
	report, err := suite.engine.Run(suite.ctx, processors, 10)
	suite.NoError(err)

	suite.Equal([]models.Segment{
		{Start: 0, End: 1, TaskID: "T3"},
		{Start: 1, End: 3, TaskID: "T2"},
		{Start: 3, End: 4, TaskID: "T3"},
		{Start: 4, End: 5, TaskID: "T1"},
		{Start: 5, End: 6, TaskID: "T2"},
		{Start: 6, End: 7, TaskID: "T3"},
		{Start: 7, End: 8, TaskID: "T2"},
		{Start: 8, End: 9, TaskID: "T1"},
		{Start: 9, End: 10, TaskID: "T3"},
	}, processors[0].ExecutionLog())

	suite.Zero(report.DeadlinesMissed())
}

// Zero-delay preemption: T1's release at t=2 interrupts T3 at exactly
// t=2, and T3 resumes from where it stopped.
func (suite *EngineTestSuite) TestPreemptionAtExactReleaseInstant() {
	processors := uniprocessor(
		suite.task("T1", 2, 1),
		suite.task("T3", 4, 2),
	)
	report, err := suite.engine.Run(suite.ctx, processors, 4)
	suite.NoError(err)

	suite.Equal([]models.Segment{
		{Start: 0, End: 1, TaskID: "T1"},
		{Start: 1, End: 2, TaskID: "T3"},
		{Start: 2, End: 3, TaskID: "T1"},
		{Start: 3, End: 4, TaskID: "T3"},
	}, processors[0].ExecutionLog())

	suite.Zero(report.DeadlinesMissed())
}

// Over one hyperperiod of a schedulable set, each task's logged busy
// time is exactly execution_time * (hyperperiod / period).
func (suite *EngineTestSuite) TestBusyTimeOverHyperperiod() {
	t1 := suite.task("T1", 4, 1)
	t2 := suite.task("T2", 8, 2)
	processors := uniprocessor(t1, t2)
	hyperperiod := float64(models.Hyperperiod([]*models.Task{t1, t2}))
	suite.Equal(8.0, hyperperiod)

	_, err := suite.engine.Run(suite.ctx, processors, hyperperiod)
	suite.NoError(err)

	suite.InDelta(2.0, processors[0].BusyTime("T1"), simtime.Epsilon)
	suite.InDelta(2.0, processors[0].BusyTime("T2"), simtime.Epsilon)
}

// A job finishing after its deadline counts as a miss, as does a job
// whose deadline falls inside the run without ever completing.
func (suite *EngineTestSuite) TestLateCompletionCountsAsMiss() {
	processors := uniprocessor(
		suite.task("A", 2, 1),
		suite.task("B", 3, 2),
	)
	report, err := suite.engine.Run(suite.ctx, processors, 6)
	suite.NoError(err)

	a := suite.findTaskStats(report, "A")
	suite.Equal(3, a.Completed)
	suite.Zero(a.Missed)

	b := suite.findTaskStats(report, "B")
	suite.Equal(3, b.Released)
	// B1 finishes at t=4, one past its deadline; B2 is still
	// unfinished when its deadline expires at the horizon.
	suite.Equal(1, b.Completed)
	suite.Equal(2, b.Missed)
}

func (suite *EngineTestSuite) TestExecutionLogInvariants() {
	processors := uniprocessor(
		suite.task("T1", 2, 1),
		suite.task("T2", 5, 2),
		suite.task("T3", 4, 2),
	)
	_, err := suite.engine.Run(suite.ctx, processors, 20)
	suite.NoError(err)

	log := processors[0].ExecutionLog()
	for i, segment := range log {
		suite.Less(segment.Start, segment.End)
		if i > 0 {
			// Non-overlapping and sorted; merged segments mean two
			// adjacent entries never share a task id across a
			// contiguous boundary.
			suite.GreaterOrEqual(segment.Start, log[i-1].End)
			if segment.Start == log[i-1].End {
				suite.NotEqual(log[i-1].TaskID, segment.TaskID)
			}
		}
	}
}

func (suite *EngineTestSuite) TestDeterministicReplay() {
	build := func() []*models.Processor {
		return uniprocessor(
			suite.task("T1", 2, 1),
			suite.task("T2", 5, 2),
			suite.task("T3", 4, 2),
		)
	}

	first := build()
	_, err := suite.engine.Run(suite.ctx, first, 20)
	suite.NoError(err)

	second := build()
	_, err = suite.engine.Run(suite.ctx, second, 20)
	suite.NoError(err)

	suite.Equal(first[0].ExecutionLog(), second[0].ExecutionLog())
}

func (suite *EngineTestSuite) TestMultiprocessorLockstep() {
	procA := models.NewProcessor(0)
	procA.AddTask(suite.task("A", 4, 2))
	procB := models.NewProcessor(1)
	procB.AddTask(suite.task("B", 6, 3))
	processors := []*models.Processor{procA, procB}

	report, err := suite.engine.Run(suite.ctx, processors, 12)
	suite.NoError(err)

	suite.Equal([]models.Segment{
		{Start: 0, End: 2, TaskID: "A"},
		{Start: 4, End: 6, TaskID: "A"},
		{Start: 8, End: 10, TaskID: "A"},
	}, procA.ExecutionLog())
	suite.Equal([]models.Segment{
		{Start: 0, End: 3, TaskID: "B"},
		{Start: 6, End: 9, TaskID: "B"},
	}, procB.ExecutionLog())
	suite.Zero(report.DeadlinesMissed())
}

func (suite *EngineTestSuite) TestNoProcessorsIsANoop() {
	report, err := suite.engine.Run(suite.ctx, nil, 100)
	suite.NoError(err)
	suite.Empty(report.Processors)
	suite.Zero(report.JobsReleased())
}

func (suite *EngineTestSuite) TestCancelledContext() {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	processors := uniprocessor(suite.task("T1", 2, 1))
	_, err := suite.engine.Run(ctx, processors, 20)
	suite.Error(err)
	suite.ErrorIs(err, context.Canceled)
}

func (suite *EngineTestSuite) TestNegativeHorizonRejected() {
	_, err := suite.engine.Run(suite.ctx, nil, -1)
	suite.Error(err)
}
