// Copyright (c) 2017-present Mattermost, Inc. All Rights Reserved.
// See License.txt for license information.

package model

import "fmt"

// Epic is an issue labeled as epic whose body holds a checklist of sub-issues.
type Epic struct {
	Issue
}

func NewEpic(issue *Issue) *Epic {
	return &Epic{Issue: *issue}
}

func (e *Epic) String() string {
	return fmt.Sprintf("%s/%s#%d", e.RepoOwner, e.RepoName, e.Number)
}
