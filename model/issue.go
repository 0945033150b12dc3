// Copyright (c) 2017-present Mattermost, Inc. All Rights Reserved.
// See License.txt for license information.

package model

import (
	"encoding/json"
	"strings"

	"github.com/google/go-github/v39/github"
)

const (
	StateOpen   = "open"
	StateClosed = "closed"
)

// Issue is the part of a GitHub issue the epic updater works with.
type Issue struct {
	RepoOwner string
	RepoName  string
	Number    int
	State     string
	Body      string
	Labels    []string
}

// IssueFromGithub converts a GitHub issue. The repository coordinates of
// the issue win over the given defaults when the payload carries them.
func IssueFromGithub(repoOwner, repoName string, ghIssue *github.Issue) *Issue {
	issue := &Issue{
		RepoOwner: repoOwner,
		RepoName:  repoName,
		Number:    ghIssue.GetNumber(),
		State:     ghIssue.GetState(),
		Body:      ghIssue.GetBody(),
		Labels:    labelsToStringArray(ghIssue.Labels),
	}

	if repo := ghIssue.GetRepository(); repo != nil && repo.GetName() != "" && repo.GetOwner().GetLogin() != "" {
		issue.RepoOwner = repo.GetOwner().GetLogin()
		issue.RepoName = repo.GetName()
	}

	return issue
}

func (o *Issue) IsClosed() bool {
	return o.State == StateClosed
}

// HasLabel reports whether the issue carries the label, ignoring case.
func (o *Issue) HasLabel(name string) bool {
	for _, label := range o.Labels {
		if strings.EqualFold(label, name) {
			return true
		}
	}
	return false
}

// ToJSON renders the issue for structured logs.
func (o *Issue) ToJSON() (string, error) {
	b, err := json.Marshal(o)
	if err != nil {
		return "", err
	}

	return string(b), nil
}

func labelsToStringArray(labels []*github.Label) []string {
	out := make([]string, len(labels))

	for i, label := range labels {
		out[i] = label.GetName()
	}

	return out
}
