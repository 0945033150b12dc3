// Copyright (c) 2015-present Mattermost, Inc. All Rights Reserved.
// See License.txt for license information.

package updater

import (
	"encoding/json"
	"strings"

	"github.com/mattermost/mattermost-server/v6/shared/mlog"
	"github.com/pkg/errors"
)

const defaultMaxQueueSize = 1000

// SetupLogging configures the global logger from the log settings. The
// returned logger must be shut down before the process exits so queued
// records are flushed.
func SetupLogging(config *Config) (*mlog.Logger, error) {
	logger, err := mlog.NewLogger()
	if err != nil {
		return nil, errors.Wrap(err, "unable to create logger")
	}

	targets := mlog.LoggerConfiguration{}
	if config.LogSettings.EnableConsole {
		levels, err := levelsFor(config.LogSettings.ConsoleLevel)
		if err != nil {
			return nil, err
		}

		format := "plain"
		if config.LogSettings.ConsoleJSON {
			format = "json"
		}

		targets["console"] = mlog.TargetCfg{
			Type:          "console",
			Format:        format,
			FormatOptions: json.RawMessage(`{"enable_color": false}`),
			Options:       json.RawMessage(`{"out": "stdout"}`),
			Levels:        levels,
			MaxQueueSize:  defaultMaxQueueSize,
		}
	}

	if err = logger.ConfigureTargets(targets, nil); err != nil {
		return nil, errors.Wrap(err, "unable to configure log targets")
	}

	mlog.InitGlobalLogger(logger)
	return logger, nil
}

func levelsFor(name string) ([]mlog.Level, error) {
	levels := []mlog.Level{mlog.LvlPanic, mlog.LvlFatal, mlog.LvlError}

	switch strings.ToLower(strings.TrimSpace(name)) {
	case "error":
	case "warn", "warning":
		levels = append(levels, mlog.LvlWarn)
	case "", "info":
		levels = append(levels, mlog.LvlWarn, mlog.LvlInfo)
	case "debug":
		levels = append(levels, mlog.LvlWarn, mlog.LvlInfo, mlog.LvlDebug)
	default:
		return nil, errors.Errorf("unknown log level %q", name)
	}

	return append(levels, mlog.LvlStdLog), nil
}
