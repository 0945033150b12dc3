// Copyright (c) 2017-present Mattermost, Inc. All Rights Reserved.
// See License.txt for license information.

package updater

import (
	"encoding/json"
	"io"
	"os"
	"strings"

	"github.com/google/go-github/v39/github"
	"github.com/mattermost/mattermost-epic-updater/model"
	"github.com/pkg/errors"
)

// Trigger is the issue whose state change started the run, together with
// the repository the workflow runs in.
type Trigger struct {
	RepoOwner string
	RepoName  string
	// Issue is nil when the event payload carries no issue.
	Issue *model.Issue
}

// TriggerFromEventFile reads the workflow event payload at eventPath.
// repository is the "owner/name" value of GITHUB_REPOSITORY.
func TriggerFromEventFile(repository, eventPath string) (*Trigger, error) {
	if eventPath == "" {
		return nil, errors.New("event payload path is not set")
	}

	file, err := os.Open(eventPath)
	if err != nil {
		return nil, errors.Wrap(err, "unable to open event payload")
	}
	defer file.Close()

	return TriggerFromEvent(repository, file)
}

func TriggerFromEvent(repository string, data io.Reader) (*Trigger, error) {
	owner, name, err := splitRepository(repository)
	if err != nil {
		return nil, err
	}

	event, err := issuesEventFromJSON(data)
	if err != nil {
		return nil, err
	}

	trigger := &Trigger{
		RepoOwner: owner,
		RepoName:  name,
	}
	if event.Issue != nil {
		trigger.Issue = model.IssueFromGithub(owner, name, event.Issue)
	}

	return trigger, nil
}

func issuesEventFromJSON(data io.Reader) (*github.IssuesEvent, error) {
	var event github.IssuesEvent
	if err := json.NewDecoder(data).Decode(&event); err != nil {
		return nil, errors.Wrap(err, "unable to decode event payload")
	}

	return &event, nil
}

func splitRepository(repository string) (owner, name string, err error) {
	parts := strings.Split(repository, "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", errors.Errorf("invalid repository %q, expected owner/name", repository)
	}

	return parts[0], parts[1], nil
}
