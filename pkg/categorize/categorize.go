// Package categorize runs the whole screenshot sorting pass: scan, resolve
// titles through the cache or the store, persist the cache and move files.
package categorize

import (
	"context"
	"path/filepath"

	"github.com/gofrs/flock"
	"github.com/pkg/errors"
	"github.com/scylladb/go-set/iset"
	"github.com/sirupsen/logrus"

	"github.com/shotsort/shotsort/pkg/config"
	"github.com/shotsort/shotsort/pkg/expression"
	"github.com/shotsort/shotsort/pkg/logger"
	"github.com/shotsort/shotsort/pkg/organizer"
	"github.com/shotsort/shotsort/pkg/screenshot"
	"github.com/shotsort/shotsort/pkg/titlecache"
)

// LockFileName is the advisory lock file kept in the root.
const LockFileName = ".shotsort.lock"

// ErrLocked is returned when another run holds the root.
var ErrLocked = errors.New("another run is already organizing this directory")

// TitleResolver looks up the title of an application id. found is false for
// ids without a title; err is reserved for failed lookups.
type TitleResolver interface {
	Resolve(ctx context.Context, appID int) (title string, found bool, err error)
}

type Options struct {
	Extension string
	CacheFile string
	// OnError is config.OnErrorSkip or config.OnErrorAbort.
	OnError string
	DryRun  bool
	Ignore  []string
	Lock    bool
}

type Summary struct {
	Root         string
	Scanned      int
	CachedTitles int
	Lookups      int
	Resolved     int
	Moved        int
	MovedBytes   uint64
	InPlace      int
	Unresolved   int
	Ignored      int
	Failed       int
}

type Runner struct {
	resolver TitleResolver
	opts     Options
	log      *logrus.Entry
}

func New(resolver TitleResolver, opts Options) *Runner {
	if opts.Extension == "" {
		opts.Extension = screenshot.DefaultExtension
	}
	if opts.CacheFile == "" {
		opts.CacheFile = titlecache.DefaultFileName
	}
	if opts.OnError == "" {
		opts.OnError = config.OnErrorSkip
	}

	return &Runner{
		resolver: resolver,
		opts:     opts,
		log:      logger.GetLogger("categorize"),
	}
}

// Run organizes the screenshots below rootDir. A missing root fails before
// anything is touched. Once scanning succeeded the title cache is written
// back, even when resolving stops early, unless an existing dump could not be
// read.
func (r *Runner) Run(ctx context.Context, rootDir string) (*Summary, error) {
	root, err := screenshot.CheckRoot(rootDir)
	if err != nil {
		return nil, err
	}

	ignore, err := expression.Compile(r.opts.Ignore)
	if err != nil {
		return nil, errors.Wrap(err, "ignore expressions")
	}

	if r.opts.Lock {
		unlock, err := lockRoot(root)
		if err != nil {
			return nil, err
		}
		defer unlock()
	}

	summary := &Summary{Root: root}

	r.log.Infof("Collecting screenshots in %s", root)
	records, err := screenshot.Scan(root, r.opts.Extension)
	if err != nil {
		return nil, err
	}
	summary.Scanned = len(records)
	r.log.Infof("%d %s files are found", len(records), r.opts.Extension)

	r.log.Infof("Reading app title dump: %s", titlecache.Path(root, r.opts.CacheFile))
	cache, err := titlecache.Load(root, r.opts.CacheFile)
	persist := true
	switch {
	case errors.Is(err, titlecache.ErrNoCache):
		r.log.Info("No title cache found, starting with an empty one")
	case err != nil:
		persist = false
		r.log.WithError(err).Warn("Title cache could not be read, leaving the existing dump untouched")
	}
	summary.CachedTitles = len(cache)
	r.log.Infof("%d titles were already cached", len(cache))

	r.log.Info("Retrieving unknown app titles...")
	searched := iset.New()
	resolved, resolveErr := r.resolveTitles(ctx, records, cache, searched)
	summary.Lookups = searched.Size()
	summary.Resolved = resolved

	if persist {
		r.log.Infof("Dumping app titles: %s", titlecache.Path(root, r.opts.CacheFile))
		if err := titlecache.Save(root, r.opts.CacheFile, cache); err != nil {
			r.log.WithError(err).Error("Failed writing the title cache")
		} else {
			r.log.Infof("%d titles are cached", len(cache))
		}
	}

	if resolveErr != nil {
		return summary, resolveErr
	}

	r.log.Info("Categorizing...")
	res := organizer.Organize(root, records, cache, organizer.Options{
		DryRun: r.opts.DryRun,
		Ignore: ignore,
	})

	summary.Moved = res.Moved
	summary.MovedBytes = res.MovedBytes
	summary.InPlace = res.InPlace
	summary.Unresolved = res.Unresolved
	summary.Ignored = res.Ignored
	summary.Failed = res.Failed

	return summary, nil
}

// resolveTitles looks up every application id that is neither cached nor
// already searched this run, one request at a time. It returns how many new
// titles were added to cache.
func (r *Runner) resolveTitles(ctx context.Context, records []screenshot.ImageRecord, cache titlecache.Cache,
	searched *iset.Set) (int, error) {

	resolved := 0
	for _, rec := range records {
		if _, ok := cache[rec.AppID]; ok || searched.Has(rec.AppID) {
			continue
		}

		if err := ctx.Err(); err != nil {
			return resolved, errors.Wrap(err, "resolving titles")
		}

		searched.Add(rec.AppID)

		title, found, err := r.resolver.Resolve(ctx, rec.AppID)
		switch {
		case err != nil && (r.opts.OnError == config.OnErrorAbort || ctx.Err() != nil):
			return resolved, errors.Wrapf(err, "resolving title for app %d", rec.AppID)
		case err != nil:
			r.log.WithError(err).Errorf("Lookup failed, leaving app %d unresolved", rec.AppID)
		case !found:
			r.log.Warnf("Can't find the title for %d", rec.AppID)
		default:
			cache[rec.AppID] = title
			resolved++
			r.log.Infof("%d : %s", rec.AppID, title)
		}
	}

	return resolved, nil
}

func lockRoot(root string) (func(), error) {
	path := filepath.Join(root, LockFileName)
	lock := flock.New(path)

	ok, err := lock.TryLock()
	if err != nil {
		return nil, errors.Wrapf(err, "acquire lock %s", path)
	}
	if !ok {
		return nil, errors.Wrapf(ErrLocked, "%s", path)
	}

	// The lock file stays behind; removing it would let a waiting run lock
	// an unlinked inode while a third run creates a fresh file.
	return func() {
		_ = lock.Unlock()
	}, nil
}
