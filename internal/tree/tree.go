// Package tree models the target directory layout as a two-level mapping
// of date bucket to device bucket to files:
//
//	[target_dir]
//	 ├─ [date_dir]        // TargetTree key
//	 │   ├─ [device_dir]  // DeviceBucket key
//	 │   │   ├─ file.ext
//	 │   │   └─ file.ext
//	 │   └─ file.ext      // Files sentinel, no device subdirectory
//	 └─ [Miscellaneous]   // overflow bucket after consolidation
//	     └─ single.file
package tree

import (
	"sort"
	"unicode/utf8"

	"imgsorter/internal/classify"
)

// fallbackPathLen is the length of a date directory name ("2016.12.29"),
// used when no bucket qualifies for the aligned-path computation.
const fallbackPathLen = 10

// DeviceBucket holds, for one date, the files grouped per device, plus the
// longest "date/device" path observed so far for output alignment.
type DeviceBucket struct {
	ByDevice      map[classify.DeviceKey][]classify.SourceFile
	MaxDirPathLen int
}

// NewDeviceBucket returns an empty bucket.
func NewDeviceBucket() *DeviceBucket {
	return &DeviceBucket{ByDevice: make(map[classify.DeviceKey][]classify.SourceFile)}
}

// SortedDevices returns the bucket's device keys in display order: named
// directories alphabetically, then the Files sentinel.
func (b *DeviceBucket) SortedDevices() []classify.DeviceKey {
	keys := make([]classify.DeviceKey, 0, len(b.ByDevice))
	for k := range b.ByDevice {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].Less(keys[j]) })
	return keys
}

// FileCount returns the total number of files across all devices.
func (b *DeviceBucket) FileCount() int {
	n := 0
	for _, files := range b.ByDevice {
		n += len(files)
	}
	return n
}

// distinctFileNames counts unique file names across all devices; duplicates
// of the same picture arriving from several sources count once.
func (b *DeviceBucket) distinctFileNames() int {
	names := make(map[string]struct{})
	for _, files := range b.ByDevice {
		for _, f := range files {
			names[f.Name] = struct{}{}
		}
	}
	return len(names)
}

// TargetTree is the complete date/device/file layout to be materialized
// under the target root, plus the set of unknown extensions encountered.
// Date keys use the "YYYY.MM.DD" format, so lexicographic iteration order
// is also chronological.
type TargetTree struct {
	Dates             map[string]*DeviceBucket
	UnknownExtensions map[string]struct{}
}

// New returns an empty TargetTree.
func New() *TargetTree {
	return &TargetTree{
		Dates:             make(map[string]*DeviceBucket),
		UnknownExtensions: make(map[string]struct{}),
	}
}

// SortedDates returns the date keys in lexicographic order.
func (t *TargetTree) SortedDates() []string {
	keys := make([]string, 0, len(t.Dates))
	for k := range t.Dates {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Insert places a classified file into its (date, device) bucket and
// updates the bucket's maximum directory path length.
func (t *TargetTree) Insert(f classify.SourceFile) {
	bucket, ok := t.Dates[f.DateKey]
	if !ok {
		bucket = NewDeviceBucket()
		t.Dates[f.DateKey] = bucket
	}
	bucket.ByDevice[f.Device] = append(bucket.ByDevice[f.Device], f)

	// +1 for the path separator between date and device
	pathLen := utf8.RuneCountInString(f.DateKey) + 1 + utf8.RuneCountInString(f.Device.String())
	if pathLen > bucket.MaxDirPathLen {
		bucket.MaxDirPathLen = pathLen
	}
}

// RecordUnknownExtension remembers a lowercase extension that matched no
// supported category.
func (t *TargetTree) RecordUnknownExtension(ext string) {
	t.UnknownExtensions[ext] = struct{}{}
}

// Merge folds other into t: existing date buckets merge device by device
// (appending file sequences), missing ones are inserted wholesale, and the
// unknown-extension sets are unioned. Final file membership per
// (date, device) pair is independent of merge order; order within a bucket
// is not.
func (t *TargetTree) Merge(other *TargetTree) {
	for date, otherBucket := range other.Dates {
		bucket, ok := t.Dates[date]
		if !ok {
			t.Dates[date] = otherBucket
			continue
		}
		for device, files := range otherBucket.ByDevice {
			bucket.ByDevice[device] = append(bucket.ByDevice[device], files...)
		}
		if otherBucket.MaxDirPathLen > bucket.MaxDirPathLen {
			bucket.MaxDirPathLen = otherBucket.MaxDirPathLen
		}
	}
	for ext := range other.UnknownExtensions {
		t.UnknownExtensions[ext] = struct{}{}
	}
}

// IsolateSparseBuckets moves all files from sparse date buckets into one
// synthetic bucket named overflowDirName, keyed with the Files sentinel.
// A bucket is sparse when it has a single device key and fewer distinct
// file names than minFilesPerDir. A threshold of 0 disables isolation.
// In practice this avoids creating date directories holding a single file.
func (t *TargetTree) IsolateSparseBuckets(minFilesPerDir int, overflowDirName string) {
	if minFilesPerDir <= 0 {
		return
	}

	var overflow []classify.SourceFile
	for date, bucket := range t.Dates {
		if len(bucket.ByDevice) >= 2 {
			continue
		}
		if bucket.distinctFileNames() >= minFilesPerDir {
			continue
		}
		for _, files := range bucket.ByDevice {
			overflow = append(overflow, files...)
		}
		delete(t.Dates, date)
	}

	if len(overflow) > 0 {
		bucket := NewDeviceBucket()
		bucket.ByDevice[classify.NoDevice()] = overflow
		t.Dates[overflowDirName] = bucket
	}
}

// MaxTargetPathLen computes the longest "date/device" path the output will
// contain. Only buckets that will actually produce device subdirectories
// count: those with more than one device key, or all of them when device
// subdirectories are forced. Falls back to the plain date-directory length,
// then accounts for the overflow directory when present. Must be called
// after IsolateSparseBuckets.
func (t *TargetTree) MaxTargetPathLen(alwaysCreateDeviceSubdirs bool, overflowDirName string) int {
	maxLen := 0
	for _, bucket := range t.Dates {
		if !alwaysCreateDeviceSubdirs && len(bucket.ByDevice) <= 1 {
			continue
		}
		if bucket.MaxDirPathLen > maxLen {
			maxLen = bucket.MaxDirPathLen
		}
	}
	if maxLen == 0 {
		maxLen = fallbackPathLen
	}
	if _, ok := t.Dates[overflowDirName]; ok {
		if n := utf8.RuneCountInString(overflowDirName); n > maxLen {
			maxLen = n
		}
	}
	return maxLen
}
