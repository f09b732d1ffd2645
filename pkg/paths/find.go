package paths

import (
	"io/fs"
	"sync"

	"github.com/charlievieth/fastwalk"
	"github.com/pkg/errors"

	"github.com/shotsort/shotsort/pkg/logger"
)

/* Structs */

type Path struct {
	Path     string
	RealPath string
	FileName string
	Size     int64
}

/* Types */

// callbackAllowed returns the path to record, or nil to reject it.
type callbackAllowed func(string) *string

/* Vars */

var (
	log = logger.GetLogger("paths")
)

/* Public */

// InFolder walks folder recursively and returns every accepted regular file
// below it together with their total size. Entries that cannot be read are
// logged and skipped. Result order is not stable since the walk runs in
// parallel.
func InFolder(folder string, acceptFn callbackAllowed) ([]Path, uint64, error) {
	var (
		paths []Path
		size  uint64
		mutex sync.Mutex
	)

	conf := fastwalk.Config{
		Follow: false,
	}

	err := fastwalk.Walk(&conf, folder, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == folder {
				return err
			}

			log.WithError(err).Warnf("Skipping unreadable path: %s", path)
			return nil
		}

		if path == folder || d.IsDir() {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			log.WithError(err).Warnf("Failed to get file info for %s", path)
			return nil
		}

		if !info.Mode().IsRegular() {
			log.Tracef("Skipping irregular file: %s", path)
			return nil
		}

		processEntry(path, info, acceptFn, &paths, &size, &mutex)
		return nil
	})
	if err != nil {
		return nil, 0, errors.Wrapf(err, "walk %s", folder)
	}

	return paths, size, nil
}

/* Private */

// processEntry handles a single file entry
func processEntry(path string, info fs.FileInfo, acceptFn callbackAllowed, paths *[]Path, size *uint64,
	mutex *sync.Mutex) bool {

	realPath := path
	finalPath := path
	if acceptFn != nil {
		acceptedPath := acceptFn(path)
		if acceptedPath == nil {
			log.Tracef("Skipping rejected path: %s", path)
			return false
		}
		finalPath = *acceptedPath
	}

	foundPath := Path{
		Path:     finalPath,
		RealPath: realPath,
		FileName: info.Name(),
		Size:     info.Size(),
	}

	mutex.Lock()
	*paths = append(*paths, foundPath)
	*size += uint64(info.Size())
	mutex.Unlock()

	return true
}
