// Copyright (c) 2015-present Mattermost, Inc. All Rights Reserved.
// See License.txt for license information.

package updater

import (
	"context"
	"net/http"
	"time"

	"github.com/die-net/lrucache"
	"github.com/google/go-github/v39/github"
	"github.com/m4ns0ur/httpcache"
	"github.com/mattermost/mattermost-epic-updater/metrics"
	"golang.org/x/oauth2"
	"golang.org/x/time/rate"
)

// IssuesService is the part of the GitHub issues API used to find and
// update epics.
type IssuesService interface {
	ListIssueTimeline(ctx context.Context, owner, repo string, number int, opts *github.ListOptions) ([]*github.Timeline, *github.Response, error)
	Edit(ctx context.Context, owner string, repo string, number int, issue *github.IssueRequest) (*github.Issue, *github.Response, error)
}

// GithubClient wraps the github.Client with relevant interfaces.
type GithubClient struct {
	client *github.Client

	Issues IssuesService
}

// NewGithubClient returns an authenticated client. Requests go through
// the metrics transport, an in-memory HTTP cache and the rate limiter,
// in that order.
func NewGithubClient(config *Config, metricsProvider metrics.Provider) *GithubClient {
	cache := lrucache.New(int64(config.GitHubCacheSizeMB)*1024*1024, int64(config.GitHubCacheMaxAgeSeconds))
	cachedTransport := httpcache.NewTransport(cache)
	cachedTransport.Transport = NewRateLimitTransport(
		rate.Limit(config.GitHubRateLimitPerSecond),
		config.GitHubRateLimitBurst,
		http.DefaultTransport,
	)

	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: config.GithubAccessToken})
	tc := &http.Client{
		Transport: &oauth2.Transport{
			Source: ts,
			Base:   metrics.NewTransport(cachedTransport, metricsProvider),
		},
		Timeout: time.Duration(config.RequestTimeoutSeconds) * time.Second,
	}

	return NewGithubClientWithHTTPClient(tc)
}

func NewGithubClientWithHTTPClient(httpClient *http.Client) *GithubClient {
	client := github.NewClient(httpClient)

	return &GithubClient{
		client: client,
		Issues: client.Issues,
	}
}
