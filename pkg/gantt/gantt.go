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

// Package gantt renders processor execution logs as an ASCII Gantt
// chart, one row per processor and one cell per integer time slot.
// The chart is a read-only consumer of the logs and is necessarily a
// discretized view of the exact real valued segments.
package gantt

import (
	"fmt"
	"hash/fnv"
	"io"
	"strings"

	"github.com/uber/rmsim/pkg/models"

	"github.com/lucasb-eyer/go-colorful"
)

const (
	_cellWidth = 3
	_idle      = "   "
	_ansiReset = "\x1b[0m"
)

// Renderer writes Gantt charts for execution logs.
type Renderer struct {
	colorize bool
}

// NewRenderer creates a renderer. With colorize set, each task id is
// printed in a stable per-task ANSI true color.
func NewRenderer(colorize bool) *Renderer {
	return &Renderer{colorize: colorize}
}

// Render writes one chart row per processor covering slots
// [0, horizon). A slot shows the task whose logged segment covers the
// slot midpoint, or blank when the processor was idle there.
func (r *Renderer) Render(w io.Writer, processors []*models.Processor, horizon int64) error {
	header := "Time: "
	for t := int64(0); t <= horizon; t++ {
		header += fmt.Sprintf("%-5d", t)
	}
	if _, err := fmt.Fprintln(w, header); err != nil {
		return err
	}

	separator := "      " + strings.Repeat("|----", int(horizon)) + "|"
	if _, err := fmt.Fprintln(w, separator); err != nil {
		return err
	}

	for _, proc := range processors {
		row := fmt.Sprintf("CPU %d:", proc.ID())
		log := proc.ExecutionLog()
		for t := int64(0); t < horizon; t++ {
			row += "[" + r.cell(log, float64(t)+0.5) + "]"
		}
		if _, err := fmt.Fprintln(w, row); err != nil {
			return err
		}
	}
	return nil
}

func (r *Renderer) cell(log []models.Segment, midpoint float64) string {
	for _, s := range log {
		if s.Start <= midpoint && midpoint < s.End {
			cell := fmt.Sprintf("%-*s", _cellWidth, s.TaskID)
			if r.colorize {
				cell = taskColor(s.TaskID) + cell + _ansiReset
			}
			return cell
		}
	}
	return _idle
}

// taskColor maps a task id to a stable ANSI true color escape, spread
// over the hue circle by hashing the id.
func taskColor(taskID string) string {
	h := fnv.New32a()
	h.Write([]byte(taskID))
	hue := float64(h.Sum32() % 360)
	cr, cg, cb := colorful.Hsv(hue, 0.6, 0.95).RGB255()
	return fmt.Sprintf("\x1b[38;2;%d;%d;%dm", cr, cg, cb)
}
