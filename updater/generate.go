// Copyright (c) 2017-present Mattermost, Inc. All Rights Reserved.
// See License.txt for license information.

package updater

//go:generate mockgen -destination=mocks/mock_issues_service.go -package mocks github.com/mattermost/mattermost-epic-updater/updater IssuesService
