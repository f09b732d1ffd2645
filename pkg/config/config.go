package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/knadh/koanf"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/pkg/errors"
)

const envPrefix = "SHOTSORT_"

// Lookup error policies.
const (
	OnErrorSkip  = "skip"
	OnErrorAbort = "abort"
)

type Configuration struct {
	Scan     ScanConfig     `koanf:"scan"`
	Cache    CacheConfig    `koanf:"cache"`
	Store    StoreConfig    `koanf:"store"`
	Organize OrganizeConfig `koanf:"organize"`
	Lock     bool           `koanf:"lock"`
}

type ScanConfig struct {
	Extension string `koanf:"extension"`
}

type CacheConfig struct {
	File string `koanf:"file"`
}

type StoreConfig struct {
	URLTemplate string        `koanf:"url_template"`
	Timeout     time.Duration `koanf:"timeout"`
	RateLimit   int           `koanf:"rate_limit"`
	Retries     int           `koanf:"retries"`
	OnError     string        `koanf:"on_error"`
}

type OrganizeConfig struct {
	DryRun bool     `koanf:"dry_run"`
	Ignore []string `koanf:"ignore"`
}

// Config is the configuration loaded by Init
var Config *Configuration

func defaults() map[string]interface{} {
	return map[string]interface{}{
		"scan.extension":     ".png",
		"cache.file":         "dumpapptitle.txt",
		"store.url_template": "https://store.steampowered.com/app/%d",
		"store.timeout":      "15s",
		"store.rate_limit":   1,
		"store.retries":      0,
		"store.on_error":     OnErrorSkip,
		"organize.dry_run":   false,
		"organize.ignore":    []string{},
		"lock":               true,
	}
}

/* Public */

// Init loads the configuration into the package globals.
func Init(configFilePath string) error {
	cfg, err := load(koanf.New("."), configFilePath)
	if err != nil {
		return err
	}

	Config = cfg
	return nil
}

// Load reads defaults, the optional yaml file at configFilePath and
// SHOTSORT_ environment overrides, in that order.
func Load(configFilePath string) (*Configuration, error) {
	return load(koanf.New("."), configFilePath)
}

// GetDefaultConfigDirectory returns the working directory when it already
// holds filename, otherwise the per-user config directory for app.
func GetDefaultConfigDirectory(app string, filename string) string {
	if cwd, err := os.Getwd(); err == nil {
		if _, err := os.Stat(filepath.Join(cwd, filename)); err == nil {
			return cwd
		}
	}

	userDir, err := os.UserConfigDir()
	if err != nil {
		return "."
	}

	return filepath.Join(userDir, app)
}

/* Private */

func load(k *koanf.Koanf, configFilePath string) (*Configuration, error) {
	if err := k.Load(confmap.Provider(defaults(), "."), nil); err != nil {
		return nil, errors.Wrap(err, "load defaults")
	}

	if configFilePath != "" {
		if _, err := os.Stat(configFilePath); err == nil {
			if err := k.Load(file.Provider(configFilePath), yaml.Parser()); err != nil {
				return nil, errors.Wrapf(err, "load config file %q", configFilePath)
			}
		} else if !os.IsNotExist(err) {
			return nil, errors.Wrapf(err, "stat config file %q", configFilePath)
		}
	}

	// SHOTSORT_STORE__ON_ERROR -> store.on_error
	err := k.Load(env.Provider(envPrefix, ".", func(s string) string {
		return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, envPrefix)), "__", ".")
	}), nil)
	if err != nil {
		return nil, errors.Wrap(err, "load environment")
	}

	cfg := &Configuration{}
	if err := k.UnmarshalWithConf("", cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, errors.Wrap(err, "unmarshal config")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}
