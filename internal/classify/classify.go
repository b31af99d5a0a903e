// Package classify turns raw directory entries into classified media files.
package classify

import (
	"strings"
	"time"

	"imgsorter/internal/config"
	"imgsorter/internal/exifdata"
	"imgsorter/internal/namedate"
	"imgsorter/internal/scanner"
)

// FileType represents the media category of a source file.
type FileType int

const (
	// TypeUnknown marks files whose extension matched no known category.
	TypeUnknown FileType = iota
	// TypeImage marks still images.
	TypeImage
	// TypeVideo marks video files.
	TypeVideo
	// TypeAudio marks audio files.
	TypeAudio
)

func (t FileType) String() string {
	switch t {
	case TypeImage:
		return "image"
	case TypeVideo:
		return "video"
	case TypeAudio:
		return "audio"
	default:
		return "unknown"
	}
}

// NoDateKey is the date bucket used for files with no resolvable date.
const NoDateKey = "no date"

// DateKeyFormat is the layout for date bucket names, e.g. "2016.12.29".
const DateKeyFormat = "2006.01.02"

// UnknownDeviceDirName is the device directory used when a device name
// could not be resolved but device subdirectories are forced on.
const UnknownDeviceDirName = "Unknown"

// DeviceKey identifies the device grouping of a file within a date bucket.
// It is either a named device directory or the Files sentinel, meaning the
// file sits directly in the date directory with no device subdirectory.
// Named directories order before the Files sentinel so that loose files are
// listed after all device subdirectories.
type DeviceKey struct {
	Name  string // device directory name; empty for the Files sentinel
	Files bool   // true when no device subdirectory applies
}

// DeviceDir returns a DeviceKey for a named device directory.
func DeviceDir(name string) DeviceKey {
	return DeviceKey{Name: name}
}

// NoDevice returns the Files sentinel key.
func NoDevice() DeviceKey {
	return DeviceKey{Files: true}
}

// Less orders device keys: named directories first (alphabetically), the
// Files sentinel last.
func (k DeviceKey) Less(other DeviceKey) bool {
	if k.Files != other.Files {
		return !k.Files
	}
	return k.Name < other.Name
}

// String returns the directory name, or the empty string for the Files sentinel.
func (k DeviceKey) String() string {
	if k.Files {
		return ""
	}
	return k.Name
}

// SourceFile is one classified media file, owned by exactly one bucket in
// the target tree once inserted.
type SourceFile struct {
	Name      string // base name
	Path      string // absolute source path
	Type      FileType
	Extension string // lowercase extension without dot, "" if none
	DateKey   string // capture date in DateKeyFormat, or NoDateKey
	Device    DeviceKey
	Size      int64
	ModTime   time.Time
	ReadOnly  bool
}

// DisplaySource returns the string used to identify the source in reports:
// the full path when multiple source directories are in play, otherwise just
// the file name since the path would be identical for every file.
func (f *SourceFile) DisplaySource(multipleSources bool) string {
	if multipleSources {
		return f.Path
	}
	return f.Name
}

// fixed extension tables, lowercase
var (
	imageExtensions = map[string]bool{
		"jpg": true, "jpeg": true, "png": true, "tiff": true,
		"heic": true, "heif": true, "webp": true,
		"crw": true, "nef": true, "nrw": true,
	}
	videoExtensions = map[string]bool{
		"avif": true, "mp4": true, "mov": true, "3gp": true, "avi": true,
	}
	audioExtensions = map[string]bool{
		"amr": true, "ogg": true, "m4a": true,
	}
)

// TypeForExtension resolves a file type from a lowercase extension, checking
// the fixed tables first and the configured custom extension lists second.
func TypeForExtension(ext string, cfg *config.Config) FileType {
	switch {
	case imageExtensions[ext]:
		return TypeImage
	case videoExtensions[ext]:
		return TypeVideo
	case audioExtensions[ext]:
		return TypeAudio
	}

	if cfg != nil {
		switch {
		case cfg.HasCustomExtension(config.CategoryImage, ext):
			return TypeImage
		case cfg.HasCustomExtension(config.CategoryVideo, ext):
			return TypeVideo
		case cfg.HasCustomExtension(config.CategoryAudio, ext):
			return TypeAudio
		}
	}

	return TypeUnknown
}

// Classify builds a SourceFile from one raw entry and its externally
// resolved metadata. The second return value is the composed device name
// when it had no entry in the rename table, so the caller can fold it into
// the run's non-custom device name set; it is empty otherwise.
func Classify(entry scanner.Entry, meta exifdata.DateDevice, cfg *config.Config) (SourceFile, string) {
	ext := strings.ToLower(entry.Extension())
	fileType := TypeForExtension(ext, cfg)

	device, nonCustom := resolveDevice(meta, cfg)

	// date precedence: EXIF, then a date embedded in the file name, then
	// the filesystem modification time
	dateKey := meta.Date
	if dateKey == "" {
		if fromName, ok := namedate.FromFileName(entry.Name); ok {
			dateKey = fromName
		} else if !entry.ModTime.IsZero() {
			dateKey = entry.ModTime.Format(DateKeyFormat)
		} else {
			dateKey = NoDateKey
		}
	}

	return SourceFile{
		Name:      entry.Name,
		Path:      entry.Path,
		Type:      fileType,
		Extension: ext,
		DateKey:   dateKey,
		Device:    device,
		Size:      entry.Size,
		ModTime:   entry.ModTime,
		ReadOnly:  entry.ReadOnly,
	}, nonCustom
}

// resolveDevice composes the device name from EXIF make/model, applies the
// configured rename table, and falls back to the Unknown directory or the
// Files sentinel when no name resolves.
func resolveDevice(meta exifdata.DateDevice, cfg *config.Config) (DeviceKey, string) {
	name := meta.DeviceName(cfg.IncludeDeviceMake)
	if name == "" {
		if cfg.AlwaysCreateDeviceSubdirs {
			return DeviceDir(UnknownDeviceDirName), ""
		}
		return NoDevice(), ""
	}

	if custom, ok := cfg.RenameDevice(name); ok {
		return DeviceDir(custom), ""
	}
	return DeviceDir(name), name
}
