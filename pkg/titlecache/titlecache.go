// Package titlecache persists the application id to title mapping in a
// plain "<appId>,<title>" dump file at the scan root.
package titlecache

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/shotsort/shotsort/pkg/logger"
)

// DefaultFileName is the dump file name used by earlier releases.
const DefaultFileName = "dumpapptitle.txt"

// maxLineLength bounds a single dump line; longer lines are malformed.
const maxLineLength = 64 * 1024

var (
	// ErrNoCache is returned by Load when there is no dump file yet.
	ErrNoCache = errors.New("no title cache found")
	// ErrUnreadable is returned by Load when the dump file exists but could
	// not be read completely.
	ErrUnreadable = errors.New("title cache is unreadable")
)

// Cache maps application ids to titles.
type Cache map[int]string

var log = logger.GetLogger("cache")

// Path returns the location of the dump file inside root.
func Path(root string, fileName string) string {
	if fileName == "" {
		fileName = DefaultFileName
	}
	return filepath.Join(root, fileName)
}

// Load reads the dump file inside root. A missing file yields an empty cache
// and an error wrapping ErrNoCache and os.ErrNotExist. A file that exists but
// cannot be read yields whatever was parsed before the failure and an error
// wrapping ErrUnreadable; callers must not overwrite it. Malformed lines are
// skipped with a warning; every well-formed line is kept.
func Load(root string, fileName string) (Cache, error) {
	path := Path(root, fileName)
	cache := make(Cache)

	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return cache, fmt.Errorf("%w: %w", ErrNoCache, err)
	} else if err != nil {
		return cache, fmt.Errorf("%w: %w", ErrUnreadable, err)
	}
	defer f.Close()

	r := bufio.NewReader(f)

	lineNo := 0
	for {
		line, readErr := r.ReadString('\n')
		if readErr != nil && !errors.Is(readErr, io.EOF) {
			return cache, fmt.Errorf("%w: read %s: %w", ErrUnreadable, path, readErr)
		}

		if line != "" {
			lineNo++
			parseInto(cache, line, lineNo, path)
		}

		if readErr != nil {
			break
		}
	}

	return cache, nil
}

func parseInto(cache Cache, line string, lineNo int, path string) {
	line = strings.TrimSuffix(strings.TrimSuffix(line, "\n"), "\r")
	if strings.TrimSpace(line) == "" {
		return
	}

	if len(line) > maxLineLength {
		log.Warnf("Skipping malformed line %d in %s: line longer than %d bytes", lineNo, path, maxLineLength)
		return
	}

	id, title, err := parseLine(line)
	if err != nil {
		log.WithError(err).Warnf("Skipping malformed line %d in %s", lineNo, path)
		return
	}

	cache[id] = title
}

// Save overwrites the dump file inside root with one line per entry, ordered
// by application id.
func Save(root string, fileName string, cache Cache) error {
	path := Path(root, fileName)

	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "create %s", path)
	}

	w := bufio.NewWriter(f)
	for _, id := range cache.IDs() {
		if _, err := fmt.Fprintf(w, "%d,%s\n", id, cache[id]); err != nil {
			_ = f.Close()
			return errors.Wrapf(err, "write %s", path)
		}
	}

	if err := w.Flush(); err != nil {
		_ = f.Close()
		return errors.Wrapf(err, "flush %s", path)
	}

	return errors.Wrapf(f.Close(), "close %s", path)
}

// IDs returns the cached application ids in ascending order.
func (c Cache) IDs() []int {
	ids := make([]int, 0, len(c))
	for id := range c {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

// Title returns the title cached for id.
func (c Cache) Title(id int) (string, bool) {
	title, ok := c[id]
	return title, ok
}

func parseLine(line string) (int, string, error) {
	idText, title, found := strings.Cut(line, ",")
	if !found {
		return 0, "", errors.New("missing comma")
	}

	if strings.TrimSpace(title) == "" {
		return 0, "", errors.New("empty title")
	}

	id, err := strconv.Atoi(idText)
	if err != nil {
		return 0, "", errors.Wrapf(err, "parse app id %q", idText)
	}
	if id < 0 {
		return 0, "", errors.Errorf("negative app id %d", id)
	}

	return id, title, nil
}
