// Copyright (c) 2015-present Mattermost, Inc. All Rights Reserved.
// See License.txt for license information.

package updater

import (
	"context"
	"time"

	"github.com/google/go-github/v39/github"
	"github.com/mattermost/mattermost-epic-updater/metrics"
	"github.com/mattermost/mattermost-server/v6/shared/mlog"
	"github.com/pkg/errors"
)

// Updater keeps the checklists of epics in sync with the issues they track.
type Updater struct {
	Config       *Config
	GithubClient *GithubClient
	Metrics      metrics.Provider
}

func New(config *Config, metricsProvider metrics.Provider) *Updater {
	return &Updater{
		Config:       config,
		GithubClient: NewGithubClient(config, metricsProvider),
		Metrics:      metricsProvider,
	}
}

// Run finds the epics referencing the triggering issue and updates them.
// It returns the updated epics as reported by GitHub.
func (u *Updater) Run(ctx context.Context, trigger *Trigger) ([]*github.Issue, error) {
	start := time.Now()
	defer func() {
		u.Metrics.ObserveRunDuration(time.Since(start).Seconds())
	}()

	if trigger.Issue == nil {
		return nil, errors.New("github issue is missing from the event payload")
	}

	if u.Config.RemoveDeletedIssue {
		mlog.Warn("remove-deleted-issue is not supported and will be ignored")
	}

	if issueJSON, err := trigger.Issue.ToJSON(); err == nil {
		mlog.Debug("Triggering issue", mlog.String("issue", issueJSON))
	}

	mlog.Info("Looking for epics",
		mlog.String("repo", trigger.RepoOwner+"/"+trigger.RepoName),
		mlog.Int("issue", trigger.Issue.Number),
		mlog.String("label", u.Config.EpicLabelName))

	epics, err := u.FindReferencedEpics(ctx, trigger)
	if err != nil {
		return nil, err
	}
	u.Metrics.IncreaseEpicsFound(len(epics))

	if len(epics) == 0 {
		mlog.Info("No epic references the issue", mlog.Int("issue", trigger.Issue.Number))
		return nil, nil
	}

	return u.UpdateEpics(ctx, epics, trigger.Issue)
}
