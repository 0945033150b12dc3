// Copyright (c) 2017-present Mattermost, Inc. All Rights Reserved.
// See License.txt for license information.

package updater

import (
	"context"

	"github.com/google/go-github/v39/github"
	"github.com/mattermost/mattermost-epic-updater/model"
	"github.com/mattermost/mattermost-server/v6/shared/mlog"
	"github.com/pkg/errors"
)

const (
	crossReferencedEvent = "cross-referenced"
	timelinePageSize     = 100
)

// FindReferencedEpics returns the issues labeled as epic that
// cross-reference the triggering issue. An epic mentioning the issue more
// than once is returned once.
func (u *Updater) FindReferencedEpics(ctx context.Context, trigger *Trigger) ([]*model.Epic, error) {
	events, err := u.getTimeline(ctx, trigger.RepoOwner, trigger.RepoName, trigger.Issue.Number)
	if err != nil {
		return nil, err
	}

	var epics []*model.Epic
	seen := map[string]bool{}
	for _, event := range events {
		if event.GetEvent() != crossReferencedEvent || event.Source == nil || event.Source.Issue == nil {
			continue
		}

		source := model.IssueFromGithub(trigger.RepoOwner, trigger.RepoName, event.Source.Issue)
		if !source.HasLabel(u.Config.EpicLabelName) {
			continue
		}

		epic := model.NewEpic(source)
		if seen[epic.String()] {
			continue
		}
		seen[epic.String()] = true

		mlog.Debug("Found referencing epic", mlog.String("epic", epic.String()), mlog.Int("issue", trigger.Issue.Number))
		epics = append(epics, epic)
	}

	return epics, nil
}

func (u *Updater) getTimeline(ctx context.Context, repoOwner, repoName string, number int) ([]*github.Timeline, error) {
	var all []*github.Timeline
	opts := &github.ListOptions{
		PerPage: timelinePageSize,
	}

	for {
		events, resp, err := u.GithubClient.Issues.ListIssueTimeline(ctx, repoOwner, repoName, number, opts)
		if err != nil {
			return nil, errors.Wrapf(err, "unable to list timeline of issue %d", number)
		}
		all = append(all, events...)
		if resp == nil || resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	return all, nil
}
