// Package repoconfig reads and writes the ini-formatted config file kept
// inside a repository directory.
package repoconfig

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"gopkg.in/ini.v1"
)

var ErrInvalidKey = errors.New("repoconfig: invalid key")

// Config holds the settings the object store and tree builder read.
type Config struct {
	// Compression is the zlib level for new objects (core.compression).
	Compression int
	// Exclude lists entry names skipped when snapshotting (snapshot.exclude).
	Exclude []string
}

// DefaultExclude is written to new repositories.
var DefaultExclude = []string{".git"}

// Default returns the configuration of a freshly initialized repository.
func Default() Config {
	return Config{
		Compression: -1,
		Exclude:     append([]string(nil), DefaultExclude...),
	}
}

// Load reads the config at path. A missing file yields Default.
func Load(path string) (Config, error) {
	cfg := Default()

	f, err := ini.Load(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("load config %s: %w", path, err)
	}

	cfg.Compression = f.Section("core").Key("compression").MustInt(cfg.Compression)
	// An empty value turns the default exclusions off.
	if sec := f.Section("snapshot"); sec.HasKey("exclude") {
		cfg.Exclude = nil
		if v := sec.Key("exclude").String(); v != "" {
			cfg.Exclude = sec.Key("exclude").Strings(",")
		}
	}
	return cfg, nil
}

// Write creates the config file at path with the given settings and the
// standard [core] keys.
func Write(path string, cfg Config) error {
	f := ini.Empty()
	core := f.Section("core")
	core.Key("repositoryformatversion").SetValue("0")
	core.Key("filemode").SetValue("true")
	core.Key("bare").SetValue("false")
	core.Key("compression").SetValue(fmt.Sprint(cfg.Compression))
	f.Section("snapshot").Key("exclude").SetValue(strings.Join(cfg.Exclude, ","))

	if err := f.SaveTo(path); err != nil {
		return fmt.Errorf("write config %s: %w", path, err)
	}
	return nil
}

// Get returns the value of a "section.name" key.
func Get(path, key string) (string, error) {
	section, name, err := splitKey(key)
	if err != nil {
		return "", err
	}
	f, err := ini.Load(path)
	if err != nil {
		return "", fmt.Errorf("load config %s: %w", path, err)
	}
	if !f.Section(section).HasKey(name) {
		return "", fmt.Errorf("config key not found: %s", key)
	}
	return f.Section(section).Key(name).String(), nil
}

// Set updates a "section.name" key, creating the file if needed.
func Set(path, key, value string) error {
	section, name, err := splitKey(key)
	if err != nil {
		return err
	}
	f, err := ini.LooseLoad(path)
	if err != nil {
		return fmt.Errorf("load config %s: %w", path, err)
	}
	f.Section(section).Key(name).SetValue(value)
	if err := f.SaveTo(path); err != nil {
		return fmt.Errorf("write config %s: %w", path, err)
	}
	return nil
}

func splitKey(key string) (section, name string, err error) {
	section, name, ok := strings.Cut(key, ".")
	if !ok || section == "" || name == "" {
		return "", "", fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	return section, name, nil
}

// Exists reports whether a config file is present at path.
func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
