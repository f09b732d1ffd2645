// Package organizer moves screenshots into one folder per application title.
package organizer

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/pkg/errors"

	"github.com/shotsort/shotsort/pkg/expression"
	"github.com/shotsort/shotsort/pkg/logger"
	"github.com/shotsort/shotsort/pkg/screenshot"
	"github.com/shotsort/shotsort/pkg/titlecache"
)

type Options struct {
	DryRun bool
	// Ignore leaves records matching any expression where they are.
	Ignore []expression.CompiledExpression
}

type Result struct {
	Moved      int
	MovedBytes uint64
	InPlace    int
	Unresolved int
	Ignored    int
	Failed     int
}

var log = logger.GetLogger("organize")

// TargetPath returns the absolute destination of fileName for title.
func TargetPath(root string, title string, fileName string) (string, error) {
	target, err := filepath.Abs(filepath.Join(root, title, fileName))
	if err != nil {
		return "", errors.Wrapf(err, "resolve target for %s", fileName)
	}
	return target, nil
}

// Organize moves every record whose application id has a cached title to
// <root>/<title>/<fileName>. Records without a title stay in place and are
// counted as unresolved. Failures are logged and counted; they never stop the
// pass. Existing files at the destination are handled by the filesystem.
func Organize(root string, records []screenshot.ImageRecord, cache titlecache.Cache, opts Options) Result {
	var res Result

	for _, rec := range records {
		title, ok := cache.Title(rec.AppID)

		if len(opts.Ignore) > 0 {
			ignored, reason, err := expression.CheckSingleMatchWithReason(expression.Env{
				AppID:    rec.AppID,
				FileName: rec.FileName,
				Path:     rec.FullPath,
				Title:    title,
				Resolved: ok,
			}, opts.Ignore)
			if err != nil {
				log.WithError(err).Errorf("Failed checking ignore expressions: %s", rec.FullPath)
				res.Failed++
				continue
			}
			if ignored {
				log.Debugf("Ignoring %s (matched %q)", rec.FullPath, reason)
				res.Ignored++
				continue
			}
		}

		if !ok {
			log.Warnf("[Unknown AppId %d] Failed to process: %s", rec.AppID, rec.FullPath)
			res.Unresolved++
			continue
		}

		target, err := TargetPath(root, title, rec.FileName)
		if err != nil {
			log.WithError(err).Errorf("Failed to process: %s", rec.FullPath)
			res.Failed++
			continue
		}

		if strings.EqualFold(rec.FullPath, target) {
			log.Tracef("Already in place: %s", rec.FullPath)
			res.InPlace++
			continue
		}

		if opts.DryRun {
			log.Infof("Dry-run enabled, skipping move: %s -> %s", rec.FullPath, target)
			res.Moved++
			res.MovedBytes += uint64(rec.Size)
			continue
		}

		if err := move(rec.FullPath, target); err != nil {
			log.WithError(err).Errorf("Failed moving %s", rec.FullPath)
			res.Failed++
			continue
		}

		log.Infof("%s -> %s", rec.FullPath, target)
		res.Moved++
		res.MovedBytes += uint64(rec.Size)
	}

	log.Infof("Moved %d files (%s), %d already in place, %d unresolved, %d ignored, %d failed",
		res.Moved, humanize.IBytes(res.MovedBytes), res.InPlace, res.Unresolved, res.Ignored, res.Failed)

	return res
}

func move(source string, target string) error {
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return errors.Wrap(err, "create target directory")
	}

	if err := os.Rename(source, target); err != nil {
		return errors.Wrap(err, "rename")
	}

	return nil
}
