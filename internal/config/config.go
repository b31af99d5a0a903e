// Package config handles configuration loading and validation for imgsorter.
package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
	"github.com/spf13/viper"

	"imgsorter/internal/scanner"
)

// Custom extension categories.
const (
	CategoryImage = "image"
	CategoryVideo = "video"
	CategoryAudio = "audio"
)

// DefaultConfigFile is the configuration file name looked up next to the
// executable and in the working directory.
const DefaultConfigFile = "imgsorter.toml"

// defaultTargetSubdir is appended to the target root when the root itself
// already exists, so sorted output never mixes with existing content.
const defaultTargetSubdir = "imgsorted"

// defaultOverflowDirName collects files isolated from sparse date buckets.
const defaultOverflowDirName = "Miscellaneous"

// ErrNoValidSources is returned when no configured source root resolves to
// an existing directory. Nothing is parsed or written in that case.
var ErrNoValidSources = errors.New("no valid source directories")

// Config holds all settings for one imgsorter run. It is read-only once the
// run begins: workers share the same instance and never mutate it.
type Config struct {
	// SourceGroups lists the source directories to read, one group per
	// configured root. With SourceRecursive each group holds the root and
	// all of its subdirectories; otherwise just the root.
	SourceGroups [][]string

	// TargetRoot is the directory the date/device layout is created under.
	TargetRoot string

	SourceRecursive bool

	// MinFilesPerDir is the minimum number of distinct file names a
	// single-device date bucket needs to keep its own directory; buckets
	// below it are folded into the overflow directory. 0 disables folding.
	MinFilesPerDir int

	// OverflowDirName is the synthetic bucket for folded one-off files.
	OverflowDirName string

	AlwaysCreateDeviceSubdirs bool

	// CompactingThreshold limits consecutive identical status lines in
	// simulation output; 0 disables compacting.
	CompactingThreshold int

	CopyNotMove bool
	DryRun      bool
	Silent      bool
	Verbose     bool
	Debug       bool
	AlignOutput bool

	IncludeDeviceMake bool

	// MaxThreads is the configured worker count for the parse pass;
	// 1 keeps parsing single-threaded.
	MaxThreads int

	// CustomDeviceNames maps lowercased EXIF device names to the name the
	// user wants as the directory, e.g. "sm-a415f" -> "Samsung A41".
	CustomDeviceNames map[string]string

	// CustomExtensions holds extra lowercase extensions per category.
	CustomExtensions map[string][]string

	multipleSources bool
	cliSource       bool
}

// Default returns a Config with the built-in defaults and the working
// directory as both source and target root.
func Default(cwd string) *Config {
	return &Config{
		SourceGroups:        [][]string{{cwd}},
		TargetRoot:          filepath.Join(cwd, defaultTargetSubdir),
		SourceRecursive:     true,
		MinFilesPerDir:      1,
		OverflowDirName:     defaultOverflowDirName,
		CompactingThreshold: 0,
		CopyNotMove:         true,
		DryRun:              true,
		AlignOutput:         true,
		IncludeDeviceMake:   true,
		MaxThreads:          1,
		CustomDeviceNames:   map[string]string{},
		CustomExtensions: map[string][]string{
			CategoryImage: {},
			CategoryVideo: {},
			CategoryAudio: {},
		},
	}
}

// Load reads the TOML configuration at path, falling back to defaults for
// anything missing or unreadable. A missing config file is not an error;
// the original tool is routinely launched without one.
func Load(afs afero.Fs, path string, cwd string) (*Config, error) {
	cfg := Default(cwd)

	v := viper.New()
	v.SetFs(afs)
	v.SetConfigFile(path)
	v.SetConfigType("toml")

	if err := v.ReadInConfig(); err != nil {
		log.Warn().Err(err).Str("path", path).
			Msg("could not read config file, continuing with defaults")
		return cfg, nil
	}

	if v.IsSet("folders.source_dirs") {
		roots := v.GetStringSlice("folders.source_dirs")
		groups := make([][]string, 0, len(roots))
		for _, r := range roots {
			groups = append(groups, []string{r})
		}
		if len(groups) > 0 {
			cfg.SourceGroups = groups
		}
	}
	if target := v.GetString("folders.target_dir"); target != "" {
		cfg.setTargetRoot(afs, target)
	}
	if v.IsSet("folders.min_files_per_dir") {
		if n := v.GetInt("folders.min_files_per_dir"); n >= 0 {
			cfg.MinFilesPerDir = n
		} else {
			log.Warn().Int("value", n).Msg("min_files_per_dir must not be negative, using default")
		}
	}
	if v.IsSet("folders.min_files_before_compacting_output") {
		if n := v.GetInt("folders.min_files_before_compacting_output"); n >= 0 {
			cfg.CompactingThreshold = n
		} else {
			log.Warn().Int("value", n).Msg("compacting threshold must not be negative, using default")
		}
	}
	if name := v.GetString("folders.target_overflow_subdir_name"); name != "" {
		cfg.OverflowDirName = name
	}

	if v.IsSet("options.debug") && v.GetBool("options.debug") {
		cfg.Debug = true
		cfg.Verbose = true
	} else if v.IsSet("options.verbose") {
		cfg.Verbose = v.GetBool("options.verbose")
	}
	for key, dst := range map[string]*bool{
		"options.source_recursive":             &cfg.SourceRecursive,
		"options.dry_run":                      &cfg.DryRun,
		"options.align_file_output":            &cfg.AlignOutput,
		"options.include_device_make":          &cfg.IncludeDeviceMake,
		"options.always_create_device_subdirs": &cfg.AlwaysCreateDeviceSubdirs,
		"options.copy_not_move":                &cfg.CopyNotMove,
		"options.silent":                       &cfg.Silent,
	} {
		if v.IsSet(key) {
			*dst = v.GetBool(key)
		}
	}
	if v.IsSet("options.max_threads") {
		if n := v.GetInt("options.max_threads"); n >= 1 {
			cfg.MaxThreads = n
		} else {
			log.Warn().Int("value", n).Msg("max_threads must be at least 1, using default")
		}
	}

	for name, custom := range v.GetStringMapString("custom.devices") {
		cfg.CustomDeviceNames[strings.ToLower(name)] = custom
	}
	for _, category := range []string{CategoryImage, CategoryVideo, CategoryAudio} {
		key := "custom.extensions." + category
		if v.IsSet(key) {
			cfg.CustomExtensions[category] = lowercaseAll(v.GetStringSlice(key))
		}
	}

	return cfg, nil
}

// ApplyCLISource overrides both source and target roots with a path given
// on the command line, used for "run here" shell invocations.
func (c *Config) ApplyCLISource(afs afero.Fs, path string) error {
	if exists, _ := afero.DirExists(afs, path); !exists {
		return fmt.Errorf("%w: %s", ErrNoValidSources, path)
	}
	c.SourceGroups = [][]string{{path}}
	c.setTargetRoot(afs, path)
	c.cliSource = true
	return nil
}

// setTargetRoot stores the target root, appending the default subdirectory
// when the path already exists so existing content is left alone.
func (c *Config) setTargetRoot(afs afero.Fs, path string) {
	if exists, _ := afero.DirExists(afs, path); exists {
		c.TargetRoot = filepath.Join(path, defaultTargetSubdir)
	} else {
		c.TargetRoot = path
	}
}

// ResolveSources validates the configured roots, expands them recursively
// when enabled, and records whether multiple source directories are in
// play. It returns ErrNoValidSources when not a single root exists.
func (c *Config) ResolveSources(afs afero.Fs) error {
	var validRoots []string
	for _, group := range c.SourceGroups {
		for _, root := range group {
			if exists, _ := afero.DirExists(afs, root); exists {
				validRoots = append(validRoots, root)
			} else {
				log.Warn().Str("path", root).Msg("source directory does not exist, ignoring")
			}
		}
	}
	if len(validRoots) == 0 {
		return ErrNoValidSources
	}

	if c.SourceRecursive {
		c.SourceGroups = scanner.ExpandRecursive(afs, validRoots)
	} else {
		groups := make([][]string, 0, len(validRoots))
		for _, r := range validRoots {
			groups = append(groups, []string{r})
		}
		c.SourceGroups = groups
	}

	total := 0
	for _, g := range c.SourceGroups {
		total += len(g)
	}
	c.multipleSources = total > 1
	return nil
}

// HasMultipleSources reports whether more than one source directory is
// being read, which switches report output from file names to full paths.
func (c *Config) HasMultipleSources() bool {
	return c.multipleSources
}

// SourceFromCLI reports whether the source root came from a command-line
// argument rather than the configuration file.
func (c *Config) SourceFromCLI() bool {
	return c.cliSource
}

// CompactingEnabled reports whether simulation output compacting applies.
func (c *Config) CompactingEnabled() bool {
	return c.CompactingThreshold > 0
}

// RenameDevice looks up a composed device name in the rename table,
// case-insensitively. The second return value reports a hit.
func (c *Config) RenameDevice(name string) (string, bool) {
	custom, ok := c.CustomDeviceNames[strings.ToLower(name)]
	return custom, ok
}

// HasCustomExtension reports whether ext is configured for the category.
func (c *Config) HasCustomExtension(category, ext string) bool {
	for _, e := range c.CustomExtensions[category] {
		if e == ext {
			return true
		}
	}
	return false
}

func lowercaseAll(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		out = append(out, strings.ToLower(s))
	}
	return out
}
