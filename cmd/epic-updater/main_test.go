// Copyright (c) 2015-present Mattermost, Inc. All Rights Reserved.
// See License.txt for license information.

package main

import (
	"testing"

	"github.com/google/go-github/v39/github"
	"github.com/stretchr/testify/assert"
)

func TestSummarize(t *testing.T) {
	updated, closed := summarize([]*github.Issue{
		{Number: github.Int(10), State: github.String("open")},
		{Number: github.Int(20), State: github.String("closed")},
		{Number: github.Int(30), State: github.String("closed")},
	})
	assert.Equal(t, "10,20,30", updated)
	assert.Equal(t, "20,30", closed)

	updated, closed = summarize(nil)
	assert.Empty(t, updated)
	assert.Empty(t, closed)
}
