// Package screenshot finds Steam screenshots below a directory and reads the
// application id encoded in their file names.
package screenshot

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/pkg/errors"

	"github.com/shotsort/shotsort/pkg/logger"
	"github.com/shotsort/shotsort/pkg/paths"
)

// DefaultExtension is the extension of uncompressed Steam screenshots.
const DefaultExtension = ".png"

// ErrRootNotFound is returned when the scan root is missing or not a directory.
var ErrRootNotFound = errors.New("root directory not found")

// ImageRecord is a screenshot found during a scan.
type ImageRecord struct {
	AppID    int
	FullPath string
	FileName string
	Size     int64
}

var log = logger.GetLogger("scan")

// ParseAppID returns the application id of a "<digits>_<rest>" file name.
func ParseAppID(fileName string) (int, bool) {
	prefix, _, found := strings.Cut(fileName, "_")
	if !found || prefix == "" {
		return 0, false
	}

	for _, r := range prefix {
		if r < '0' || r > '9' {
			return 0, false
		}
	}

	id, err := strconv.Atoi(prefix)
	if err != nil {
		// out of range
		return 0, false
	}

	return id, true
}

// CheckRoot returns the absolute form of root, or an error wrapping
// ErrRootNotFound when it is not an existing directory.
func CheckRoot(root string) (string, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return "", errors.Wrapf(err, "resolve %q", root)
	}

	fi, err := os.Stat(absRoot)
	if err != nil || !fi.IsDir() {
		return "", errors.Wrapf(ErrRootNotFound, "%s", absRoot)
	}

	return absRoot, nil
}

// Scan walks root recursively and returns a record for every file with the
// given extension whose name carries an application id. The extension must
// match exactly, so "shot.PNG" is not picked up for ".png". The order of the
// result is unspecified.
func Scan(root string, ext string) ([]ImageRecord, error) {
	if ext == "" {
		ext = DefaultExtension
	}

	absRoot, err := CheckRoot(root)
	if err != nil {
		return nil, err
	}

	found, size, err := paths.InFolder(absRoot, func(path string) *string {
		if filepath.Ext(path) != ext {
			return nil
		}
		return &path
	})
	if err != nil {
		return nil, err
	}

	records := make([]ImageRecord, 0, len(found))
	for _, p := range found {
		id, ok := ParseAppID(p.FileName)
		if !ok {
			log.Tracef("Skipping file without app id: %s", p.RealPath)
			continue
		}

		records = append(records, ImageRecord{
			AppID:    id,
			FullPath: p.RealPath,
			FileName: p.FileName,
			Size:     p.Size,
		})
	}

	log.Debugf("Found %d screenshots in %s (%d %s files, %s)", len(records), absRoot, len(found), ext,
		humanize.IBytes(size))
	return records, nil
}
