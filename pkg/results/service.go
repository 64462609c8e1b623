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

// Package results serves a finished simulation run over read-only
// HTTP JSON endpoints. The service only reads processor state and the
// run report; it never mutates them.
package results

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/uber/rmsim/pkg/models"
	"github.com/uber/rmsim/pkg/simulation"

	"github.com/julienschmidt/httprouter"
	log "github.com/sirupsen/logrus"
)

// Config is the results service configuration.
type Config struct {
	// HTTPPort enables the service when non zero.
	HTTPPort int `yaml:"http_port"`
}

// Service exposes a run report and the per-processor execution logs.
type Service struct {
	report     *simulation.Report
	processors []*models.Processor
}

// NewService creates a results service for a finished run.
func NewService(report *simulation.Report, processors []*models.Processor) *Service {
	return &Service{
		report:     report,
		processors: processors,
	}
}

// Router returns the HTTP routes of the service.
func (s *Service) Router() *httprouter.Router {
	router := httprouter.New()
	router.GET("/health", s.health)
	router.GET("/v1/report", s.getReport)
	router.GET("/v1/processors", s.listProcessors)
	router.GET("/v1/processors/:id/log", s.getProcessorLog)
	return router
}

func (s *Service) health(w http.ResponseWriter, _ *http.Request, _ httprouter.Params) {
	w.WriteHeader(http.StatusOK)
}

func (s *Service) getReport(w http.ResponseWriter, _ *http.Request, _ httprouter.Params) {
	writeJSON(w, s.report)
}

type taskView struct {
	ID          string  `json:"id"`
	Period      int64   `json:"period"`
	Execution   float64 `json:"execution_time"`
	Utilization float64 `json:"utilization"`
}

type processorView struct {
	ID          int        `json:"id"`
	Utilization float64    `json:"utilization"`
	Tasks       []taskView `json:"tasks"`
}

func (s *Service) listProcessors(w http.ResponseWriter, _ *http.Request, _ httprouter.Params) {
	views := make([]processorView, 0, len(s.processors))
	for _, proc := range s.processors {
		view := processorView{
			ID:          proc.ID(),
			Utilization: proc.Utilization(),
		}
		for _, t := range proc.Tasks() {
			view.Tasks = append(view.Tasks, taskView{
				ID:          t.ID(),
				Period:      t.Period(),
				Execution:   t.Execution(),
				Utilization: t.Utilization(),
			})
		}
		views = append(views, view)
	}
	writeJSON(w, views)
}

func (s *Service) getProcessorLog(w http.ResponseWriter, _ *http.Request, ps httprouter.Params) {
	id, err := strconv.Atoi(ps.ByName("id"))
	if err != nil {
		http.Error(w, "invalid processor id", http.StatusBadRequest)
		return
	}
	for _, proc := range s.processors {
		if proc.ID() == id {
			writeJSON(w, proc.ExecutionLog())
			return
		}
	}
	http.Error(w, "processor not found", http.StatusNotFound)
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.WithError(err).Error("Failed to encode results response")
	}
}
