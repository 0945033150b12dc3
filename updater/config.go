// Copyright (c) 2015-present Mattermost, Inc. All Rights Reserved.
// See License.txt for license information.

package updater

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/mattermost/mattermost-server/v6/shared/mlog"
	"github.com/pkg/errors"
)

const (
	InputGithubToken        = "github-token"
	InputEpicLabelName      = "epic-label-name"
	InputAutoCloseEpic      = "auto-close-epic"
	InputCloseEpic          = "close-epic"
	InputRemoveDeletedIssue = "remove-deleted-issue"
	InputDryRun             = "dry-run"
	InputLogLevel           = "log-level"
	InputMetricsPort        = "metrics-port"
	InputMetricsPprof       = "metrics-pprof"

	defaultRequestTimeoutSeconds    = 60
	defaultGitHubRateLimitPerSecond = 10
	defaultGitHubRateLimitBurst     = 10
	defaultGitHubCacheSizeMB        = 16
	defaultGitHubCacheMaxAgeSeconds = 300
)

// InputReader resolves an action input by name. An unset input reads as "".
type InputReader interface {
	GetInput(name string) string
}

type LogSettings struct {
	EnableConsole bool
	ConsoleJSON   bool
	ConsoleLevel  string
}

type Config struct {
	GithubAccessToken string
	EpicLabelName     string

	// AutoCloseEpic is nil until set by the config file or an input.
	AutoCloseEpic *bool
	// RemoveDeletedIssue is accepted for compatibility and has no effect.
	RemoveDeletedIssue bool
	DryRun             bool

	RequestTimeoutSeconds int

	GitHubRateLimitPerSecond int
	GitHubRateLimitBurst     int
	GitHubCacheSizeMB        int
	GitHubCacheMaxAgeSeconds int

	MetricsServerPort  string
	MetricsEnablePprof bool

	LogSettings LogSettings
}

func defaultConfig() *Config {
	return &Config{
		RequestTimeoutSeconds:    defaultRequestTimeoutSeconds,
		GitHubRateLimitPerSecond: defaultGitHubRateLimitPerSecond,
		GitHubRateLimitBurst:     defaultGitHubRateLimitBurst,
		GitHubCacheSizeMB:        defaultGitHubCacheSizeMB,
		GitHubCacheMaxAgeSeconds: defaultGitHubCacheMaxAgeSeconds,
		LogSettings: LogSettings{
			EnableConsole: true,
			ConsoleLevel:  "info",
		},
	}
}

// GetConfig builds the configuration from an optional JSON file, then
// overlays the action inputs. Required values are checked last, so no
// network call happens with an incomplete configuration.
func GetConfig(fileName string, inputs InputReader) (*Config, error) {
	config := defaultConfig()

	if fileName != "" {
		if err := loadConfigFile(FindConfigFile(fileName), config); err != nil {
			return nil, err
		}
	}

	if inputs != nil {
		if err := config.applyInputs(inputs); err != nil {
			return nil, err
		}
	}

	if err := config.IsValid(); err != nil {
		return nil, err
	}

	return config, nil
}

func FindConfigFile(fileName string) string {
	if _, err := os.Stat("./config/" + fileName); err == nil {
		fileName, _ = filepath.Abs("./config/" + fileName)
	} else if _, err := os.Stat("../config/" + fileName); err == nil {
		fileName, _ = filepath.Abs("../config/" + fileName)
	} else if _, err := os.Stat(fileName); err == nil {
		fileName, _ = filepath.Abs(fileName)
	}

	return fileName
}

func loadConfigFile(fileName string, config *Config) error {
	mlog.Debug("Loading config", mlog.String("filename", fileName))

	file, err := os.Open(fileName)
	if err != nil {
		return errors.Wrap(err, "unable to open config file")
	}
	defer file.Close()

	if err = json.NewDecoder(file).Decode(config); err != nil {
		return errors.Wrapf(err, "unable to decode config file %s", fileName)
	}

	return nil
}

func (c *Config) applyInputs(inputs InputReader) error {
	if v := inputs.GetInput(InputGithubToken); v != "" {
		c.GithubAccessToken = v
	}
	if v := inputs.GetInput(InputEpicLabelName); v != "" {
		c.EpicLabelName = v
	}

	for _, name := range []string{InputAutoCloseEpic, InputCloseEpic} {
		b, ok, err := boolInput(inputs, name)
		if err != nil {
			return err
		}
		if ok {
			c.AutoCloseEpic = &b
			break
		}
	}

	if b, ok, err := boolInput(inputs, InputRemoveDeletedIssue); err != nil {
		return err
	} else if ok {
		c.RemoveDeletedIssue = b
	}

	if b, ok, err := boolInput(inputs, InputDryRun); err != nil {
		return err
	} else if ok {
		c.DryRun = b
	}

	if b, ok, err := boolInput(inputs, InputMetricsPprof); err != nil {
		return err
	} else if ok {
		c.MetricsEnablePprof = b
	}

	if v := inputs.GetInput(InputLogLevel); v != "" {
		c.LogSettings.ConsoleLevel = v
	}
	if v := inputs.GetInput(InputMetricsPort); v != "" {
		c.MetricsServerPort = v
	}

	return nil
}

func boolInput(inputs InputReader, name string) (value, ok bool, err error) {
	raw := strings.TrimSpace(inputs.GetInput(name))
	if raw == "" {
		return false, false, nil
	}

	value, err = strconv.ParseBool(raw)
	if err != nil {
		return false, false, errors.Errorf("input %s is not a valid boolean: %q", name, raw)
	}

	return value, true, nil
}

// IsValid reports the first required setting that is missing.
func (c *Config) IsValid() error {
	if c.GithubAccessToken == "" {
		return errors.Errorf("input required and not supplied: %s", InputGithubToken)
	}
	if c.EpicLabelName == "" {
		return errors.Errorf("input required and not supplied: %s", InputEpicLabelName)
	}
	if c.AutoCloseEpic == nil {
		return errors.Errorf("input required and not supplied: %s", InputAutoCloseEpic)
	}
	if c.RequestTimeoutSeconds <= 0 {
		return errors.New("request timeout must be positive")
	}

	return nil
}

func (c *Config) ShouldAutoCloseEpic() bool {
	return c.AutoCloseEpic != nil && *c.AutoCloseEpic
}
