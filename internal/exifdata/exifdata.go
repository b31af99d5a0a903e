// Package exifdata extracts the capture date and device identity from
// image metadata. Failures are swallowed: a file with unreadable or missing
// EXIF simply yields an empty DateDevice.
package exifdata

import (
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/rwcarlsen/goexif/exif"
	"github.com/spf13/afero"
)

// exifTimeLayout is the timestamp format mandated by the EXIF standard.
const exifTimeLayout = "2006:01:02 15:04:05"

// dateKeyLayout matches classify.DateKeyFormat; duplicated here to avoid an
// import cycle with the classifier.
const dateKeyLayout = "2006.01.02"

// DateDevice holds the metadata relevant for sorting: the capture date
// (already formatted as a date bucket key) and the camera make and model.
// Empty fields mean the tag was absent or unreadable.
type DateDevice struct {
	Date  string
	Make  string
	Model string
}

// DeviceName composes the final device name from make and model.
// With includeMake, the result is "MAKE MODEL" unless the model already
// starts with the make (case-insensitive), e.g. "HUAWEI HUAWEI CAN-L11"
// collapses to "HUAWEI CAN-L11". Returns "" when no model was found.
func (d DateDevice) DeviceName(includeMake bool) string {
	if d.Model == "" {
		return ""
	}
	if !includeMake || d.Make == "" {
		return d.Model
	}
	if strings.HasPrefix(strings.ToLower(d.Model), strings.ToLower(d.Make)) {
		return d.Model
	}
	return d.Make + " " + d.Model
}

// Read extracts date and device metadata from the file at path.
// Any error results in an empty DateDevice; the cause is only logged at
// debug level since missing EXIF is the normal case for many files.
func Read(afs afero.Fs, path string) DateDevice {
	f, err := afs.Open(path)
	if err != nil {
		log.Debug().Err(err).Str("file", path).Msg("could not open file for EXIF")
		return DateDevice{}
	}
	defer f.Close()

	x, err := exif.Decode(f)
	if err != nil {
		log.Debug().Err(err).Str("file", path).Msg("could not read EXIF")
		return DateDevice{}
	}

	var dd DateDevice

	if tag, err := x.Get(exif.Make); err == nil {
		if s, err := tag.StringVal(); err == nil {
			dd.Make = cleanDeviceField(s)
		}
	}
	if tag, err := x.Get(exif.Model); err == nil {
		if s, err := tag.StringVal(); err == nil {
			dd.Model = cleanDeviceField(s)
		}
	}

	// DateTimeOriginal is when the shutter was clicked; DateTime is the last
	// metadata modification. Prefer the former.
	dd.Date = dateField(x, exif.DateTimeOriginal)
	if dd.Date == "" {
		dd.Date = dateField(x, exif.DateTime)
	}

	return dd
}

// dateField reads one EXIF date tag and reformats it as a date bucket key.
func dateField(x *exif.Exif, name exif.FieldName) string {
	tag, err := x.Get(name)
	if err != nil {
		return ""
	}
	raw, err := tag.StringVal()
	if err != nil {
		return ""
	}
	return ParseExifDate(raw)
}

// ParseExifDate converts an EXIF timestamp ("YYYY:MM:DD HH:MM:SS") into the
// date bucket key format ("YYYY.MM.DD"). Returns "" for unparseable input.
func ParseExifDate(raw string) string {
	t, err := time.Parse(exifTimeLayout, strings.TrimSpace(raw))
	if err != nil {
		log.Debug().Str("value", raw).Msg("could not parse EXIF date")
		return ""
	}
	return t.Format(dateKeyLayout)
}

// cleanDeviceField strips the noise some devices embed in make/model tags,
// e.g. `"ALLVIEW P5 camera              "` with quotes and trailing spaces.
func cleanDeviceField(s string) string {
	s = strings.ReplaceAll(s, `"`, "")
	s = strings.ReplaceAll(s, ",", "")
	return strings.TrimSpace(s)
}
