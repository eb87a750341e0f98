// Package config loads InfinityFlow settings from a TOML file.
//
// The file is looked up, in order, at the --config flag, the
// INFINITYFLOW_CONFIG environment variable, and
// $XDG_CONFIG_HOME/infinityflow/config.toml (~/.config/infinityflow).
// Every key is optional; missing keys keep the values of [Default].
//
//	[layout]
//	strategy = "tree"
//	horizontal_gap = 50
//	palette = ["#ef4444", "#f59e0b"]
//
//	[storage]
//	backend = "mongo"
//	mongo_uri = "mongodb://localhost:27017"
//
//	[cache]
//	backend = "redis"
//	redis_addr = "localhost:6379"
//	layout_ttl = "12h"
package config

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/infinityflow/pkg/errors"
	"github.com/matzehuels/infinityflow/pkg/interact"
	"github.com/matzehuels/infinityflow/pkg/layout"
	"github.com/matzehuels/infinityflow/pkg/mindmap"
	"github.com/matzehuels/infinityflow/pkg/render/dot"
	"github.com/matzehuels/infinityflow/pkg/store"
)

const (
	appName = "infinityflow"

	// EnvPath names the environment variable holding a config file path.
	EnvPath = "INFINITYFLOW_CONFIG"
)

// Storage backends.
const (
	StorageMemory = "memory"
	StorageFile   = "file"
	StorageMongo  = "mongo"
)

// Cache backends.
const (
	CacheNone   = "none"
	CacheMemory = "memory"
	CacheFile   = "file"
	CacheRedis  = "redis"
)

// Duration is a time.Duration written as a Go duration string ("1.5s").
type Duration struct{ time.Duration }

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

func (d Duration) MarshalText() ([]byte, error) { return []byte(d.String()), nil }

// Config is the full configuration.
type Config struct {
	LogLevel    string            `toml:"log_level"`
	Layout      LayoutConfig      `toml:"layout"`
	Interaction InteractionConfig `toml:"interaction"`
	Storage     StorageConfig     `toml:"storage"`
	Cache       CacheConfig       `toml:"cache"`
	Server      ServerConfig      `toml:"server"`
}

type LayoutConfig struct {
	Strategy      string   `toml:"strategy"`
	HorizontalGap float64  `toml:"horizontal_gap"`
	VerticalGap   float64  `toml:"vertical_gap"`
	FixedSize     bool     `toml:"fixed_size"`
	Classic       bool     `toml:"classic"`
	Direction     string   `toml:"direction"`
	RingRadius    float64  `toml:"ring_radius"`
	RootColor     string   `toml:"root_color"`
	Palette       []string `toml:"palette"`
}

type InteractionConfig struct {
	HistoryLimit     int      `toml:"history_limit"`
	DropMinGap       float64  `toml:"drop_min_gap"`
	DropMaxGap       float64  `toml:"drop_max_gap"`
	DropTolerance    float64  `toml:"drop_tolerance"`
	AutosaveDebounce Duration `toml:"autosave_debounce"`
}

type StorageConfig struct {
	Backend         string `toml:"backend"`
	Dir             string `toml:"dir"`
	MongoURI        string `toml:"mongo_uri"`
	MongoDatabase   string `toml:"mongo_database"`
	MongoCollection string `toml:"mongo_collection"`
}

type CacheConfig struct {
	Backend       string   `toml:"backend"`
	Dir           string   `toml:"dir"`
	RedisAddr     string   `toml:"redis_addr"`
	RedisPassword string   `toml:"redis_password"`
	RedisDB       int      `toml:"redis_db"`
	LayoutTTL     Duration `toml:"layout_ttl"`
	ArtifactTTL   Duration `toml:"artifact_ttl"`
}

type ServerConfig struct {
	Addr            string   `toml:"addr"`
	ReadTimeout     Duration `toml:"read_timeout"`
	WriteTimeout    Duration `toml:"write_timeout"`
	ShutdownTimeout Duration `toml:"shutdown_timeout"`
	MaxBodyBytes    int64    `toml:"max_body_bytes"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		LogLevel: "info",
		Layout: LayoutConfig{
			Strategy:      layout.DefaultStrategy,
			HorizontalGap: layout.DefaultHorizontalGap,
			VerticalGap:   layout.DefaultVerticalGap,
			Direction:     string(layout.LeftToRight),
			RingRadius:    layout.DefaultRingRadius,
			RootColor:     layout.DefaultRootColor,
			Palette:       layout.DefaultPalette(),
		},
		Interaction: InteractionConfig{
			HistoryLimit:     mindmap.DefaultHistoryLimit,
			DropMinGap:       interact.DefaultDropMinGap,
			DropMaxGap:       interact.DefaultDropMaxGap,
			DropTolerance:    interact.DefaultDropTolerance,
			AutosaveDebounce: Duration{store.DefaultDebounce},
		},
		Storage: StorageConfig{
			Backend:         StorageFile,
			MongoDatabase:   store.DefaultMongoDatabase,
			MongoCollection: store.DefaultMongoCollection,
		},
		Cache: CacheConfig{
			Backend:     CacheFile,
			LayoutTTL:   Duration{24 * time.Hour},
			ArtifactTTL: Duration{7 * 24 * time.Hour},
		},
		Server: ServerConfig{
			Addr:            ":8080",
			ReadTimeout:     Duration{15 * time.Second},
			WriteTimeout:    Duration{30 * time.Second},
			ShutdownTimeout: Duration{10 * time.Second},
			MaxBodyBytes:    4 << 20,
		},
	}
}

// Path resolves the config file location. explicit wins, then EnvPath,
// then the XDG default. The boolean reports whether the path was chosen
// by the user, in which case a missing file is an error.
func Path(explicit string) (string, bool, error) {
	if explicit != "" {
		return explicit, true, nil
	}
	if p := os.Getenv(EnvPath); p != "" {
		return p, true, nil
	}
	dir, err := configDir()
	if err != nil {
		return "", false, err
	}
	return filepath.Join(dir, "config.toml"), false, nil
}

// Load reads the config at the path chosen by Path(explicit) and validates
// it. A missing default file yields Default().
func Load(explicit string) (Config, string, error) {
	path, chosen, err := Path(explicit)
	if err != nil {
		return Default(), "", nil
	}
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) && !chosen {
		return Default(), "", nil
	}
	if err != nil {
		return Config{}, path, errors.Wrap(errors.ErrCodeInvalidInput, err, "read config %s", path)
	}
	cfg, err := Parse(data)
	if err != nil {
		return Config{}, path, errors.Wrap(errors.ErrCodeInvalidInput, err, "config %s", path)
	}
	return cfg, path, nil
}

// Parse decodes TOML on top of Default() and validates the result.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	md, err := toml.Decode(string(data), &cfg)
	if err != nil {
		return Config{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode toml")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return Config{}, errors.New(errors.ErrCodeInvalidInput, "unknown key %q", undecoded[0].String())
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Write encodes cfg as TOML.
func Write(w io.Writer, cfg Config) error {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "encode config")
	}
	_, err := w.Write(buf.Bytes())
	return err
}

// Validate checks value ranges and enumerations.
func (c Config) Validate() error {
	if !slices.Contains([]string{"debug", "info", "warn", "error"}, c.LogLevel) {
		return errors.New(errors.ErrCodeInvalidInput, "log_level %q (want debug, info, warn or error)", c.LogLevel)
	}
	if _, err := dot.Registry().Lookup(c.Layout.Strategy); err != nil {
		return err
	}
	if c.Layout.HorizontalGap < 0 || c.Layout.VerticalGap < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "layout gaps must not be negative")
	}
	if d := layout.Direction(c.Layout.Direction); d != layout.LeftToRight && d != layout.TopToBottom {
		return errors.New(errors.ErrCodeInvalidInput, "layout direction %q (want LR or TB)", c.Layout.Direction)
	}
	for _, col := range append([]string{c.Layout.RootColor}, c.Layout.Palette...) {
		if err := errors.ValidateColor(col); err != nil {
			return err
		}
	}
	if c.Interaction.HistoryLimit < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "history_limit must not be negative")
	}
	if c.Interaction.DropMaxGap < c.Interaction.DropMinGap || c.Interaction.DropTolerance < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "drop band is empty")
	}
	switch c.Storage.Backend {
	case StorageMemory, StorageFile:
	case StorageMongo:
		if c.Storage.MongoURI == "" {
			return errors.New(errors.ErrCodeInvalidInput, "storage backend mongo needs mongo_uri")
		}
	default:
		return errors.New(errors.ErrCodeInvalidInput, "storage backend %q", c.Storage.Backend)
	}
	switch c.Cache.Backend {
	case CacheNone, CacheMemory, CacheFile:
	case CacheRedis:
		if c.Cache.RedisAddr == "" {
			return errors.New(errors.ErrCodeInvalidInput, "cache backend redis needs redis_addr")
		}
	default:
		return errors.New(errors.ErrCodeInvalidInput, "cache backend %q", c.Cache.Backend)
	}
	if c.Server.Addr == "" {
		return errors.New(errors.ErrCodeInvalidInput, "server addr is empty")
	}
	return nil
}

// LayoutOptions converts the layout section.
func (c Config) LayoutOptions() layout.Options {
	opts := []layout.Option{
		layout.WithGaps(c.Layout.HorizontalGap, c.Layout.VerticalGap),
		layout.WithPalette(c.Layout.RootColor, c.Layout.Palette...),
		layout.WithRingRadius(c.Layout.RingRadius),
		layout.WithDirection(layout.Direction(c.Layout.Direction)),
	}
	if c.Layout.FixedSize {
		opts = append(opts, layout.WithFixedSize())
	}
	if c.Layout.Classic {
		opts = append(opts, layout.WithClassic())
	}
	return layout.NewOptions(opts...)
}

// DropPolicy converts the drop band settings.
func (c Config) DropPolicy() interact.DropPolicy {
	return interact.DropPolicy{
		MinGap:    c.Interaction.DropMinGap,
		MaxGap:    c.Interaction.DropMaxGap,
		Tolerance: c.Interaction.DropTolerance,
	}
}

// CacheDir returns the cache directory: the configured one, else
// $XDG_CACHE_HOME/infinityflow, else ~/.cache/infinityflow.
func (c Config) CacheDir() (string, error) {
	if c.Cache.Dir != "" {
		return c.Cache.Dir, nil
	}
	if dir := os.Getenv("XDG_CACHE_HOME"); dir != "" {
		return filepath.Join(dir, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// DataDir returns the file store directory.
func (c Config) DataDir() (string, error) {
	if c.Storage.Dir != "" {
		return c.Storage.Dir, nil
	}
	return store.DefaultDataDir()
}

func configDir() (string, error) {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName), nil
}
