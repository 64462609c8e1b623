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

package main

import (
	"context"
	"fmt"
	"math"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/uber/rmsim/pkg/common"
	common_config "github.com/uber/rmsim/pkg/common/config"
	"github.com/uber/rmsim/pkg/common/logging"
	"github.com/uber/rmsim/pkg/common/metrics"
	"github.com/uber/rmsim/pkg/gantt"
	"github.com/uber/rmsim/pkg/results"
	"github.com/uber/rmsim/pkg/scenario"
	"github.com/uber/rmsim/pkg/simulation"

	log "github.com/sirupsen/logrus"
	_ "go.uber.org/automaxprocs"
	"gopkg.in/alecthomas/kingpin.v2"
)

var (
	version string
	app     = kingpin.New("rmsim", "Rate Monotonic Scheduling Simulator")

	debug = app.Flag(
		"debug", "enable debug mode (print full json responses)").
		Short('d').
		Default("false").
		Envar("ENABLE_DEBUG_LOGGING").
		Bool()

	logJSON = app.Flag(
		"log-json", "emit logs as JSON instead of text").
		Default("false").
		Envar("LOG_JSON").
		Bool()

	cfgFiles = app.Flag(
		"config",
		"YAML config files (can be provided multiple times to merge configs)").
		Short('c').
		Required().
		ExistingFiles()

	horizon = app.Flag(
		"horizon",
		"Simulation horizon (scenario.horizon override, default hyperperiod) "+
			"(set $SIM_HORIZON to override)").
		Envar("SIM_HORIZON").
		Float64()

	uniprocessor = app.Flag(
		"uniprocessor",
		"Skip partitioning and run every task on one processor "+
			"(scenario.partition override)").
		Default("false").
		Bool()

	noColor = app.Flag(
		"no-color", "Disable ANSI colors in the Gantt chart").
		Default("false").
		Bool()

	httpPort = app.Flag(
		"http-port",
		"Results service HTTP port (results.http_port override) "+
			"(set $HTTP_PORT to override)").
		Envar("HTTP_PORT").
		Int()
)

func main() {
	app.Version(version)
	app.HelpFlag.Short('h')
	kingpin.MustParse(app.Parse(os.Args[1:]))

	var formatter log.Formatter = &log.TextFormatter{}
	if *logJSON {
		formatter = &log.JSONFormatter{}
	}
	log.SetFormatter(
		&logging.LogFieldFormatter{
			Formatter: formatter,
			Fields: log.Fields{
				common.AppLogField: app.Name,
			},
		},
	)

	initialLevel := log.InfoLevel
	if *debug {
		initialLevel = log.DebugLevel
	}
	log.SetLevel(initialLevel)

	log.WithField("files", *cfgFiles).
		Info("Loading simulator config")
	var cfg Config
	if err := common_config.Parse(&cfg, *cfgFiles...); err != nil {
		log.WithField("error", err).Fatal("Cannot parse yaml config")
	}

	// now, override any CLI flags in the loaded Config
	if *horizon != 0 {
		cfg.Scenario.Horizon = *horizon
	}

	if *uniprocessor {
		cfg.Scenario.Partition = scenario.PartitionNone
	}

	if *httpPort != 0 {
		cfg.Results.HTTPPort = *httpPort
	}

	scen, err := cfg.Scenario.Build()
	if err != nil {
		log.WithError(err).Fatal("Invalid scenario")
	}

	rootScope, scopeCloser := metrics.InitMetricScope(
		&cfg.Metrics,
		app.Name,
		metrics.TallyFlushInterval,
	)
	defer scopeCloser.Close()

	log.WithFields(log.Fields{
		"scenario":  scen.Name,
		"tasks":     len(scen.Tasks),
		"partition": scen.Partition,
		"horizon":   scen.Horizon,
	}).Info("Scenario loaded")

	processors := scen.Processors(rootScope)

	ctx, stop := signal.NotifyContext(
		context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	engine := simulation.New(rootScope)
	report, err := engine.Run(ctx, processors, scen.Horizon)
	if err != nil {
		log.WithError(err).Fatal("Simulation failed")
	}

	for _, proc := range report.Processors {
		log.WithFields(log.Fields{
			"processor":   proc.ProcessorID,
			"utilization": proc.Utilization,
			"feasible":    proc.Feasible,
			"busy":        proc.BusyTime,
		}).Info("Processor result")
	}
	log.WithFields(log.Fields{
		"run_id":    report.RunID,
		"released":  report.JobsReleased(),
		"completed": report.JobsCompleted(),
		"missed":    report.DeadlinesMissed(),
	}).Info("Run summary")

	renderer := gantt.NewRenderer(!*noColor)
	chartHorizon := int64(math.Ceil(scen.Horizon))
	if err := renderer.Render(os.Stdout, processors, chartHorizon); err != nil {
		log.WithError(err).Fatal("Cannot render Gantt chart")
	}

	if cfg.Results.HTTPPort == 0 {
		return
	}

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Results.HTTPPort),
		Handler: results.NewService(report, processors).Router(),
	}
	go func() {
		<-ctx.Done()
		srv.Close()
	}()
	log.WithField("port", cfg.Results.HTTPPort).
		Info("Serving results")
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.WithError(err).Fatal("Results service failed")
	}
}
