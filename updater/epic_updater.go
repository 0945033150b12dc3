// Copyright (c) 2017-present Mattermost, Inc. All Rights Reserved.
// See License.txt for license information.

package updater

import (
	"context"

	"github.com/google/go-github/v39/github"
	"github.com/mattermost/mattermost-epic-updater/model"
	"github.com/mattermost/mattermost-server/v6/shared/mlog"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
)

// UpdateEpics updates all epics concurrently. The first failure cancels
// the others and is returned; results are in the order of epics.
func (u *Updater) UpdateEpics(ctx context.Context, epics []*model.Epic, issue *model.Issue) ([]*github.Issue, error) {
	results := make([]*github.Issue, len(epics))

	g, gctx := errgroup.WithContext(ctx)
	for i, epic := range epics {
		i, epic := i, epic
		g.Go(func() error {
			updated, err := u.UpdateEpic(gctx, epic, issue)
			if err != nil {
				return err
			}
			results[i] = updated
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return results, nil
}

// UpdateEpic toggles the checklist line of issue in the epic body and
// writes the body back. With auto close enabled, an epic whose checklist
// is fully checked is closed; otherwise it is left open. A nil issue
// leaves the body untouched.
func (u *Updater) UpdateEpic(ctx context.Context, epic *model.Epic, issue *model.Issue) (*github.Issue, error) {
	body := epic.Body
	state := model.StateOpen

	if issue == nil {
		mlog.Warn("Issue not found, epic body is left unchanged", mlog.String("epic", epic.String()))
	} else {
		body = UpdateChecklist(body, issue.Number, issue.IsClosed())
		mlog.Info("Issue updated", mlog.String("epic", epic.String()), mlog.Int("issue", issue.Number), mlog.String("state", issue.State))

		if u.Config.ShouldAutoCloseEpic() {
			total, checked := ChecklistStatus(body)
			mlog.Info("Epic checklist status",
				mlog.String("epic", epic.String()),
				mlog.Int("issues", total),
				mlog.Int("closed", checked))
			if total == checked {
				state = model.StateClosed
			}
		}
	}

	if u.Config.DryRun {
		mlog.Info("Dry run, skipping epic update",
			mlog.String("epic", epic.String()),
			mlog.String("state", state),
			mlog.String("diff", bodyDiff(epic.Body, body)))
		return &github.Issue{
			Number: github.Int(epic.Number),
			Body:   github.String(body),
			State:  github.String(state),
		}, nil
	}

	updated, _, err := u.GithubClient.Issues.Edit(ctx, epic.RepoOwner, epic.RepoName, epic.Number, &github.IssueRequest{
		Body:  github.String(body),
		State: github.String(state),
	})
	if err != nil {
		u.Metrics.IncreaseEpicUpdateErrors()
		return nil, errors.Wrapf(err, "unable to update epic %s", epic)
	}
	u.Metrics.IncreaseEpicUpdates(state)

	return updated, nil
}
