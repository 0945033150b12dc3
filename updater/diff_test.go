// Copyright (c) 2017-present Mattermost, Inc. All Rights Reserved.
// See License.txt for license information.

package updater

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBodyDiff(t *testing.T) {
	t.Run("Only changed lines are reported", func(t *testing.T) {
		oldBody := "intro\n- [ ] a #1\n- [ ] b #2\n"
		newBody := "intro\n- [ ] a #1\n- [x] b #2\n"

		assert.Equal(t, "-- [ ] b #2\n+- [x] b #2\n", bodyDiff(oldBody, newBody))
	})

	t.Run("Unchanged body gives an empty diff", func(t *testing.T) {
		assert.Empty(t, bodyDiff("a\nb\n", "a\nb\n"))
		assert.Empty(t, bodyDiff("intro\n- [x] a #1", "intro\n- [x] a #1"))
		assert.Empty(t, bodyDiff("", ""))
	})
}
