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
	"container/heap"
)

// ReadyQueue holds the jobs of one processor that are released but not
// running, ordered by rate monotonic priority: ascending task period,
// ties broken by queue insertion order. A job demoted by preemption is
// re-inserted and therefore queues behind already waiting jobs of the
// same period.
type ReadyQueue struct {
	pq      priorityQueue
	nextPos uint64
}

// NewReadyQueue returns an empty ready queue.
func NewReadyQueue() *ReadyQueue {
	q := &ReadyQueue{}
	heap.Init(&q.pq)
	return q
}

// Push inserts a job into the queue.
func (q *ReadyQueue) Push(j *Job) {
	heap.Push(&q.pq, &queueItem{job: j, pos: q.nextPos})
	q.nextPos++
}

// Pop removes and returns the highest priority job, or nil when the
// queue is empty.
func (q *ReadyQueue) Pop() *Job {
	if q.pq.Len() == 0 {
		return nil
	}
	return heap.Pop(&q.pq).(*queueItem).job
}

// Peek returns the highest priority job without removing it, or nil
// when the queue is empty.
func (q *ReadyQueue) Peek() *Job {
	if q.pq.Len() == 0 {
		return nil
	}
	return q.pq[0].job
}

// Len returns the number of queued jobs.
func (q *ReadyQueue) Len() int {
	return q.pq.Len()
}

// queueItem wraps a job with its insertion position so equal-period
// jobs keep FIFO order.
type queueItem struct {
	job *Job
	pos uint64
}

type priorityQueue []*queueItem

func (pq priorityQueue) Len() int {
	return len(pq)
}

func (pq priorityQueue) Less(i, j int) bool {
	pi, pj := pq[i].job.Task().Period(), pq[j].job.Task().Period()
	if pi != pj {
		return pi < pj
	}
	return pq[i].pos < pq[j].pos
}

func (pq priorityQueue) Swap(i, j int) {
	pq[i], pq[j] = pq[j], pq[i]
}

func (pq *priorityQueue) Push(x interface{}) {
	*pq = append(*pq, x.(*queueItem))
}

func (pq *priorityQueue) Pop() interface{} {
	old := *pq
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	*pq = old[:n-1]
	return item
}
