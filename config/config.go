package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/maplink/map-sync/app"
	"github.com/maplink/map-sync/app/logger"
)

const CName = "layersync.config"

const defaultStatusRefreshSeconds = 300

// Sync holds the engine settings.
type Sync struct {
	// CacheDir is the directory for downloaded version files,
	// keyed {mapId}_{versionId}.
	CacheDir string `yaml:"cacheDir"`
	// StatusRefreshIntervalSec is the period of the background status
	// watcher; 0 selects the default of 5 minutes, a negative value
	// disables the background loop.
	StatusRefreshIntervalSec int `yaml:"statusRefreshIntervalSec"`
	// PushMessage is the version message attached to uploads.
	PushMessage string `yaml:"pushMessage"`
}

type Config struct {
	Logger logger.Config `yaml:"logger"`
	Sync   Sync          `yaml:"sync"`
}

// NewFromFile loads the config from a YAML file.
func NewFromFile(path string) (c *Config, err error) {
	c = &Config{}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if err = yaml.Unmarshal(data, c); err != nil {
		return nil, err
	}
	c.setDefaults()
	return
}

// Default returns a config with defaults suitable for embedding into a
// host application without a config file.
func Default() *Config {
	c := &Config{}
	c.setDefaults()
	return c
}

func (c *Config) setDefaults() {
	if c.Sync.CacheDir == "" {
		if dir, err := os.UserCacheDir(); err == nil {
			c.Sync.CacheDir = filepath.Join(dir, "map-sync")
		} else {
			c.Sync.CacheDir = filepath.Join(os.TempDir(), "map-sync")
		}
	}
	if c.Sync.StatusRefreshIntervalSec == 0 {
		c.Sync.StatusRefreshIntervalSec = defaultStatusRefreshSeconds
	}
	if c.Sync.PushMessage == "" {
		c.Sync.PushMessage = "map-sync push"
	}
}

func (c *Config) Init(a *app.App) (err error) {
	c.Logger.ApplyGlobal()
	logger.NewNamed(CName).Info(fmt.Sprintf("config loaded: %+v", c.Sync))
	return
}

func (c *Config) Name() (name string) {
	return CName
}

func (c *Config) GetSync() Sync {
	return c.Sync
}
