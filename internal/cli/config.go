package cli

import (
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/metaforge/pkg/probe"
)

// duration wraps time.Duration so TOML files can say `timeout = "10s"`.
type duration struct {
	time.Duration
}

func (d *duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = parsed
	return nil
}

// Config is the on-disk configuration, read from
// ~/.config/metaforge/config.toml. Command-line flags override it.
type Config struct {
	Net         bool     `toml:"net"`          // allow network access by default
	Timeout     duration `toml:"timeout"`      // per-probe timeout
	CacheDir    string   `toml:"cache_dir"`    // overrides the XDG cache dir
	CacheTTL    duration `toml:"cache_ttl"`    // cross-run cache TTL
	RedisAddr   string   `toml:"redis_addr"`   // host:port; empty uses the file cache
	GitHubToken string   `toml:"github_token"` // for authenticated verification
	GitLabToken string   `toml:"gitlab_token"`
	Listen      string   `toml:"listen"` // serve command bind address
}

// defaultConfig returns the configuration used when no file exists.
func defaultConfig() Config {
	return Config{
		Timeout:  duration{probe.DefaultTimeout},
		CacheTTL: duration{probe.DefaultCacheTTL},
		Listen:   "localhost:8448",
	}
}

// LoadConfig reads the config file, layering it over the defaults.
// A missing or unreadable file is not an error; tokens fall back to the
// GITHUB_TOKEN and GITLAB_TOKEN environment variables.
func LoadConfig() Config {
	cfg := defaultConfig()
	if path, err := configPath(); err == nil {
		// Decode errors leave the defaults in place for untouched fields.
		_, _ = toml.DecodeFile(path, &cfg)
	}
	if cfg.GitHubToken == "" {
		cfg.GitHubToken = os.Getenv("GITHUB_TOKEN")
	}
	if cfg.GitLabToken == "" {
		cfg.GitLabToken = os.Getenv("GITLAB_TOKEN")
	}
	if cfg.Timeout.Duration <= 0 {
		cfg.Timeout = duration{probe.DefaultTimeout}
	}
	if cfg.CacheTTL.Duration <= 0 {
		cfg.CacheTTL = duration{probe.DefaultCacheTTL}
	}
	return cfg
}

// configPath returns the config file path using XDG standard
// (~/.config/metaforge/config.toml).
func configPath() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, appName, "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName, "config.toml"), nil
}
