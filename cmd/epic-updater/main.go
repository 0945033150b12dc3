// Copyright (c) 2015-present Mattermost, Inc. All Rights Reserved.
// See License.txt for license information.

package main

import (
	"context"
	"flag"
	"strconv"
	"strings"
	"time"

	"github.com/google/go-github/v39/github"
	"github.com/mattermost/mattermost-epic-updater/metrics"
	"github.com/mattermost/mattermost-epic-updater/model"
	"github.com/mattermost/mattermost-epic-updater/updater"
	"github.com/mattermost/mattermost-epic-updater/version"
	"github.com/mattermost/mattermost-server/v6/shared/mlog"
	"github.com/pkg/errors"
	"github.com/sethvargo/go-githubactions"
)

const (
	outputUpdatedEpics = "updated-epics"
	outputClosedEpics  = "closed-epics"
)

var (
	configFile string
)

func init() {
	flag.StringVar(&configFile, "config", "", "optional JSON config file, action inputs take precedence")
}

func main() {
	flag.Parse()

	action := githubactions.New()
	if err := run(action); err != nil {
		action.Fatalf("%s", err.Error())
	}
}

func run(action *githubactions.Action) error {
	config, err := updater.GetConfig(configFile, action)
	if err != nil {
		return err
	}

	logger, err := updater.SetupLogging(config)
	if err != nil {
		return errors.Wrap(err, "unable to configure logging")
	}
	defer func() {
		if err2 := logger.Shutdown(); err2 != nil {
			action.Warningf("unable to flush logs: %s", err2)
		}
	}()

	mlog.Info("Starting epic updater", mlog.String("version", version.Full().String()))

	metricsProvider := metrics.NewPrometheusProvider()
	if config.MetricsServerPort != "" {
		metricsServer := metrics.NewServer(config.MetricsServerPort, metricsProvider.Handler(), config.MetricsEnablePprof)
		if err = metricsServer.Start(); err != nil {
			return err
		}
		defer metricsServer.Stop()
	}

	trigger, err := triggerFromAction(action)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(config.RequestTimeoutSeconds)*time.Second)
	defer cancel()

	results, err := updater.New(config, metricsProvider).Run(ctx, trigger)
	if err != nil {
		mlog.Error("Unable to update epics", mlog.Err(err))
		return err
	}

	updated, closed := summarize(results)
	action.SetOutput(outputUpdatedEpics, updated)
	action.SetOutput(outputClosedEpics, closed)
	mlog.Info("Epics updated", mlog.String("updated", updated), mlog.String("closed", closed))

	return nil
}

func triggerFromAction(action *githubactions.Action) (*updater.Trigger, error) {
	ghContext, err := action.Context()
	if err != nil {
		return nil, errors.Wrap(err, "unable to read the workflow context")
	}

	return updater.TriggerFromEventFile(ghContext.Repository, ghContext.EventPath)
}

// summarize lists the numbers of all updated epics and of those that
// ended up closed, comma separated.
func summarize(results []*github.Issue) (updated, closed string) {
	var all, done []string
	for _, issue := range results {
		number := strconv.Itoa(issue.GetNumber())
		all = append(all, number)
		if issue.GetState() == model.StateClosed {
			done = append(done, number)
		}
	}

	return strings.Join(all, ","), strings.Join(done, ",")
}
