package cmd

import (
	"path/filepath"

	"github.com/sirupsen/logrus"

	"github.com/shotsort/shotsort/pkg/config"
	"github.com/shotsort/shotsort/pkg/logger"
	"github.com/shotsort/shotsort/pkg/runtime"
)

var (
	// Global flags
	FlagLogLevel     = 0
	FlagConfigFile   = "config.yaml"
	FlagConfigFolder = config.GetDefaultConfigDirectory("shotsort", FlagConfigFile)
	FlagLogFile      = "activity.log"
	FlagDryRun       bool

	// Global vars
	log         *logrus.Entry
	initialized bool
)

func initCore(showAppInfo bool) {
	// configure paths
	if FlagConfigFile == "config.yaml" {
		FlagConfigFile = filepath.Join(FlagConfigFolder, FlagConfigFile)
	}

	if FlagLogFile == "activity.log" {
		FlagLogFile = filepath.Join(FlagConfigFolder, FlagLogFile)
	}

	// init logging
	if err := logger.Init(FlagLogLevel, FlagLogFile); err != nil {
		// fall back to stdout only, e.g. when the config folder does not exist
		_ = logger.Init(FlagLogLevel, "")
		logger.GetLogger("app").WithError(err).Warn("Logging to stdout only")
	}

	log = logger.GetLogger("app")

	// show app info
	if showAppInfo {
		log.Infof("Using %s = %s (%s@%s)", "VERSION", runtime.Version, runtime.GitCommit, runtime.Timestamp)
		log.Infof("Using %s = %q", "CONFIG", FlagConfigFile)
		log.Infof("Using %s = %q", "LOG", FlagLogFile)
	}

	// init config
	if err := config.Init(FlagConfigFile); err != nil {
		log.WithError(err).Fatal("Failed to initialize config")
	}
}
