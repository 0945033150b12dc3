// Copyright (c) 2017-present Mattermost, Inc. All Rights Reserved.
// See License.txt for license information.

package updater

import (
	"context"
	"errors"
	"net/http"
	"reflect"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/google/go-github/v39/github"
	"github.com/mattermost/mattermost-epic-updater/metrics"
	"github.com/mattermost/mattermost-epic-updater/model"
	"github.com/mattermost/mattermost-epic-updater/updater/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	repoOwner = "mattermost"
	repoName  = "mattermost-server"
)

func newTestUpdater(is IssuesService, config *Config) *Updater {
	if config == nil {
		autoClose := false
		config = &Config{
			EpicLabelName: "epic",
			AutoCloseEpic: &autoClose,
		}
	}
	return &Updater{
		Config:       config,
		GithubClient: &GithubClient{Issues: is},
		Metrics:      metrics.NewPrometheusProvider(),
	}
}

func crossReference(number int, body string, labels ...string) *github.Timeline {
	ghLabels := make([]*github.Label, 0, len(labels))
	for _, label := range labels {
		ghLabels = append(ghLabels, &github.Label{Name: github.String(label)})
	}

	return &github.Timeline{
		Event: github.String("cross-referenced"),
		Source: &github.Source{
			Issue: &github.Issue{
				Number: github.Int(number),
				State:  github.String(model.StateOpen),
				Body:   github.String(body),
				Labels: ghLabels,
			},
		},
	}
}

func TestFindReferencedEpics(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	ctxInterface := reflect.TypeOf((*context.Context)(nil)).Elem()
	is := mocks.NewMockIssuesService(ctrl)
	u := newTestUpdater(is, nil)

	trigger := &Trigger{
		RepoOwner: repoOwner,
		RepoName:  repoName,
		Issue:     &model.Issue{Number: 5, State: model.StateClosed},
	}

	t.Run("Keeps only labeled cross references", func(t *testing.T) {
		is.EXPECT().
			ListIssueTimeline(gomock.AssignableToTypeOf(ctxInterface), repoOwner, repoName, 5, gomock.AssignableToTypeOf(&github.ListOptions{})).
			Return([]*github.Timeline{
				{Event: github.String("labeled")},
				{Event: github.String("cross-referenced")},
				{Event: github.String("cross-referenced"), Source: &github.Source{}},
				crossReference(10, "- [ ] #5", "Epic"),
				crossReference(11, "- [ ] #5", "bug"),
				crossReference(12, "- [ ] #5"),
				{Event: github.String("referenced"), Source: crossReference(13, "", "epic").Source},
				crossReference(14, "- [x] #5", "feature", "EPIC"),
			}, &github.Response{Response: &http.Response{StatusCode: http.StatusOK}}, nil).
			Times(1)

		epics, err := u.FindReferencedEpics(context.Background(), trigger)
		require.NoError(t, err)
		require.Len(t, epics, 2)
		assert.Equal(t, 10, epics[0].Number)
		assert.Equal(t, "- [ ] #5", epics[0].Body)
		assert.Equal(t, repoOwner, epics[0].RepoOwner)
		assert.Equal(t, repoName, epics[0].RepoName)
		assert.Equal(t, 14, epics[1].Number)
	})

	t.Run("No epic", func(t *testing.T) {
		is.EXPECT().
			ListIssueTimeline(gomock.AssignableToTypeOf(ctxInterface), repoOwner, repoName, 5, gomock.Any()).
			Return([]*github.Timeline{crossReference(11, "", "bug")}, &github.Response{}, nil).
			Times(1)

		epics, err := u.FindReferencedEpics(context.Background(), trigger)
		require.NoError(t, err)
		assert.Empty(t, epics)
	})

	t.Run("Follows pages and collapses repeated references", func(t *testing.T) {
		firstCall := is.EXPECT().
			ListIssueTimeline(gomock.AssignableToTypeOf(ctxInterface), repoOwner, repoName, 5, &github.ListOptions{PerPage: timelinePageSize}).
			Return([]*github.Timeline{crossReference(10, "first", "epic")}, &github.Response{NextPage: 2}, nil)
		is.EXPECT().
			ListIssueTimeline(gomock.AssignableToTypeOf(ctxInterface), repoOwner, repoName, 5, &github.ListOptions{PerPage: timelinePageSize, Page: 2}).
			Return([]*github.Timeline{crossReference(10, "second", "epic"), crossReference(20, "", "epic")}, &github.Response{NextPage: 0}, nil).
			After(firstCall)

		epics, err := u.FindReferencedEpics(context.Background(), trigger)
		require.NoError(t, err)
		require.Len(t, epics, 2)
		assert.Equal(t, 10, epics[0].Number)
		assert.Equal(t, "first", epics[0].Body)
		assert.Equal(t, 20, epics[1].Number)
	})

	t.Run("Epic from another repository", func(t *testing.T) {
		ref := crossReference(7, "- [ ] mattermost/mattermost-server#5", "epic")
		ref.Source.Issue.Repository = &github.Repository{
			Name:  github.String("mattermost-webapp"),
			Owner: &github.User{Login: github.String("mattermost")},
		}
		is.EXPECT().
			ListIssueTimeline(gomock.AssignableToTypeOf(ctxInterface), repoOwner, repoName, 5, gomock.Any()).
			Return([]*github.Timeline{ref}, nil, nil).
			Times(1)

		epics, err := u.FindReferencedEpics(context.Background(), trigger)
		require.NoError(t, err)
		require.Len(t, epics, 1)
		assert.Equal(t, "mattermost/mattermost-webapp#7", epics[0].String())
	})

	t.Run("Timeline error", func(t *testing.T) {
		is.EXPECT().
			ListIssueTimeline(gomock.AssignableToTypeOf(ctxInterface), repoOwner, repoName, 5, gomock.Any()).
			Return(nil, nil, errors.New("bad credentials")).
			Times(1)

		_, err := u.FindReferencedEpics(context.Background(), trigger)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "bad credentials")
	})
}
