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
	"github.com/uber/rmsim/pkg/simtime"
)

// Segment is one executed interval of the processor timeline. Gaps
// between segments denote idle time.
type Segment struct {
	Start  float64 `json:"start"`
	End    float64 `json:"end"`
	TaskID string  `json:"task_id"`
}

// Processor models one simulated core: the tasks assigned to it at
// partition time, the ready queue and active slot mutated during
// simulation, and the execution log of everything it ran.
//
// Job ownership moves only through Admit, Dispatch, Preempt and
// CompleteActive, so a job is never in the ready queue and the active
// slot at the same time.
type Processor struct {
	id     int
	tasks  []*Task
	queue  *ReadyQueue
	active *Job
	log    []Segment
}

// NewProcessor creates an empty processor.
func NewProcessor(id int) *Processor {
	return &Processor{
		id:    id,
		queue: NewReadyQueue(),
	}
}

// ID returns the processor id.
func (p *Processor) ID() int {
	return p.id
}

// AddTask assigns a task to this processor. Assignment happens at
// partition time only and is fixed for the lifetime of a simulation.
func (p *Processor) AddTask(t *Task) {
	p.tasks = append(p.tasks, t)
}

// Tasks returns the assigned tasks in assignment order.
func (p *Processor) Tasks() []*Task {
	out := make([]*Task, len(p.tasks))
	copy(out, p.tasks)
	return out
}

// Utilization returns the summed utilization of the assigned tasks.
func (p *Processor) Utilization() float64 {
	var u float64
	for _, t := range p.tasks {
		u += t.Utilization()
	}
	return u
}

// Admit places a newly released job on the ready queue.
func (p *Processor) Admit(j *Job) {
	p.queue.Push(j)
}

// ActiveJob returns the running job, or nil when idle.
func (p *Processor) ActiveJob() *Job {
	return p.active
}

// QueueLen returns the number of jobs waiting in the ready queue.
func (p *Processor) QueueLen() int {
	return p.queue.Len()
}

// ShouldPreempt reports whether a queued job has strictly higher rate
// monotonic priority (strictly smaller period) than the active job.
// Equal periods never preempt: ties favor the incumbent.
func (p *Processor) ShouldPreempt() bool {
	if p.active == nil {
		return false
	}
	head := p.queue.Peek()
	if head == nil {
		return false
	}
	return head.Task().Period() < p.active.Task().Period()
}

// Preempt demotes the active job back onto the ready queue and clears
// the active slot. No-op when idle.
func (p *Processor) Preempt() {
	if p.active == nil {
		return
	}
	p.queue.Push(p.active)
	p.active = nil
}

// Dispatch pops the highest priority ready job into the active slot if
// the slot is free. It returns the newly dispatched job, or nil when
// nothing changed.
func (p *Processor) Dispatch() *Job {
	if p.active != nil || p.queue.Len() == 0 {
		return nil
	}
	p.active = p.queue.Pop()
	return p.active
}

// CompleteActive marks the active job completed at the given time and
// frees the slot. It returns the completed job, or nil when idle.
func (p *Processor) CompleteActive(at float64) *Job {
	if p.active == nil {
		return nil
	}
	j := p.active
	j.complete(at)
	p.active = nil
	return j
}

// RecordExecution logs that the active job's task ran over
// [start, end). A segment contiguous with the previous one for the
// same task extends it instead of appending, so the log stays minimal.
func (p *Processor) RecordExecution(start, end float64) {
	if p.active == nil || end <= start {
		return
	}
	id := p.active.Task().ID()
	if n := len(p.log); n > 0 {
		last := &p.log[n-1]
		if last.TaskID == id && simtime.Eq(last.End, start) {
			last.End = end
			return
		}
	}
	p.log = append(p.log, Segment{Start: start, End: end, TaskID: id})
}

// ExecutionLog returns a copy of the execution log: non-overlapping
// segments in non-decreasing start order.
func (p *Processor) ExecutionLog() []Segment {
	out := make([]Segment, len(p.log))
	copy(out, p.log)
	return out
}

// BusyTime returns the total logged execution time of one task, or of
// the whole processor when taskID is empty.
func (p *Processor) BusyTime(taskID string) float64 {
	var sum float64
	for _, s := range p.log {
		if taskID == "" || s.TaskID == taskID {
			sum += s.End - s.Start
		}
	}
	return sum
}
