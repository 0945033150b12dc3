// Copyright (c) 2017-present Mattermost, Inc. All Rights Reserved.
// See License.txt for license information.

package updater

import (
	"fmt"
	"regexp"
)

const (
	checkedMarker   = "[x]"
	uncheckedMarker = "[ ]"
)

// A checklist line is a markdown task item that references an issue:
//
//	- [ ] fix the thing #12
//	  * [x] mattermost/mattermost-server#12
//	> - [ ] quoted #12
const taskPrefix = `(?m)^[ \t]*(?:>[ \t]*)*[-*+] `

var (
	checklistLinePattern = regexp.MustCompile(taskPrefix + `\[[ xX]\] .*#\d+.*$`)
	checkedLinePattern   = regexp.MustCompile(taskPrefix + `\[[xX]\] .*#\d+.*$`)
	markerPattern        = regexp.MustCompile(`\[[ xX]\]`)
)

func issueLinePattern(issueNumber int) *regexp.Regexp {
	// #12 must not be followed by another digit; the match stays on one line.
	return regexp.MustCompile(taskPrefix + fmt.Sprintf(`\[[ xX]\] .*#%d(?:[^0-9\n].*)?$`, issueNumber))
}

// UpdateChecklist sets the marker of every checklist line referencing
// issueNumber to checked when closed is true and unchecked otherwise.
// Nothing else in body changes.
func UpdateChecklist(body string, issueNumber int, closed bool) string {
	marker := uncheckedMarker
	if closed {
		marker = checkedMarker
	}

	return issueLinePattern(issueNumber).ReplaceAllStringFunc(body, func(line string) string {
		loc := markerPattern.FindStringIndex(line)
		return line[:loc[0]] + marker + line[loc[1]:]
	})
}

// ChecklistStatus counts the checklist lines in body and how many of
// them are checked.
func ChecklistStatus(body string) (total, checked int) {
	total = len(checklistLinePattern.FindAllStringIndex(body, -1))
	checked = len(checkedLinePattern.FindAllStringIndex(body, -1))
	return total, checked
}

// IsFullyClosed is true when every checklist line is checked, which
// includes a body without any checklist line.
func IsFullyClosed(body string) bool {
	total, checked := ChecklistStatus(body)
	return total == checked
}
