package organizer

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shotsort/shotsort/pkg/expression"
	"github.com/shotsort/shotsort/pkg/screenshot"
	"github.com/shotsort/shotsort/pkg/titlecache"
)

func newShot(t *testing.T, root string, rel string, appID int) screenshot.ImageRecord {
	t.Helper()

	path := filepath.Join(root, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("png!"), 0o644))

	return screenshot.ImageRecord{
		AppID:    appID,
		FullPath: path,
		FileName: filepath.Base(path),
		Size:     4,
	}
}

func absTempDir(t *testing.T) string {
	t.Helper()
	root, err := filepath.Abs(t.TempDir())
	require.NoError(t, err)
	return root
}

func TestOrganize_MovesIntoTitleFolder(t *testing.T) {
	root := absTempDir(t)
	rec := newShot(t, root, "123_shot1.png", 123)

	res := Organize(root, []screenshot.ImageRecord{rec}, titlecache.Cache{123: "My Game"}, Options{})

	assert.Equal(t, Result{Moved: 1, MovedBytes: 4}, res)
	assert.NoFileExists(t, rec.FullPath)
	assert.FileExists(t, filepath.Join(root, "My Game", "123_shot1.png"))
}

func TestOrganize_Idempotent(t *testing.T) {
	root := absTempDir(t)
	newShot(t, root, "123_shot1.png", 123)
	cache := titlecache.Cache{123: "My Game"}

	records, err := screenshot.Scan(root, ".png")
	require.NoError(t, err)
	res := Organize(root, records, cache, Options{})
	assert.Equal(t, 1, res.Moved)

	records, err = screenshot.Scan(root, ".png")
	require.NoError(t, err)
	res = Organize(root, records, cache, Options{})
	assert.Equal(t, Result{InPlace: 1}, res)
	assert.FileExists(t, filepath.Join(root, "My Game", "123_shot1.png"))
}

func TestOrganize_CaseInsensitiveInPlace(t *testing.T) {
	root := absTempDir(t)
	rec := newShot(t, root, filepath.Join("my game", "123_shot1.png"), 123)

	res := Organize(root, []screenshot.ImageRecord{rec}, titlecache.Cache{123: "My Game"}, Options{})

	assert.Equal(t, Result{InPlace: 1}, res)
	assert.FileExists(t, rec.FullPath)
}

func TestOrganize_MovesOutOfWrongFolder(t *testing.T) {
	root := absTempDir(t)
	rec := newShot(t, root, filepath.Join("Old Name", "123_shot1.png"), 123)

	res := Organize(root, []screenshot.ImageRecord{rec}, titlecache.Cache{123: "New Name"}, Options{})

	assert.Equal(t, 1, res.Moved)
	assert.FileExists(t, filepath.Join(root, "New Name", "123_shot1.png"))
}

func TestOrganize_Unresolved(t *testing.T) {
	root := absTempDir(t)
	known := newShot(t, root, "1_a.png", 1)
	unknown := newShot(t, root, "2_b.png", 2)

	res := Organize(root, []screenshot.ImageRecord{known, unknown}, titlecache.Cache{1: "Known"}, Options{})

	assert.Equal(t, 1, res.Moved)
	assert.Equal(t, 1, res.Unresolved)
	assert.FileExists(t, unknown.FullPath)
}

func TestOrganize_DryRun(t *testing.T) {
	root := absTempDir(t)
	rec := newShot(t, root, "1_a.png", 1)

	res := Organize(root, []screenshot.ImageRecord{rec}, titlecache.Cache{1: "Known"}, Options{DryRun: true})

	assert.Equal(t, 1, res.Moved)
	assert.FileExists(t, rec.FullPath)
	assert.NoDirExists(t, filepath.Join(root, "Known"))
}

func TestOrganize_Ignore(t *testing.T) {
	root := absTempDir(t)
	ignored := newShot(t, root, "760_a.png", 760)
	unresolvedIgnored := newShot(t, root, "9_c.png", 9)
	moved := newShot(t, root, "1_b.png", 1)

	ignore, err := expression.Compile([]string{`AppID == 760`, `!Resolved`})
	require.NoError(t, err)

	res := Organize(root, []screenshot.ImageRecord{ignored, unresolvedIgnored, moved},
		titlecache.Cache{760: "Screenshot Manager", 1: "Known"}, Options{Ignore: ignore})

	assert.Equal(t, Result{Moved: 1, MovedBytes: 4, Ignored: 2}, res)
	assert.FileExists(t, ignored.FullPath)
	assert.FileExists(t, unresolvedIgnored.FullPath)
}

func TestOrganize_MoveFailureContinues(t *testing.T) {
	root := absTempDir(t)
	vanished := screenshot.ImageRecord{AppID: 1, FullPath: filepath.Join(root, "1_gone.png"), FileName: "1_gone.png"}
	present := newShot(t, root, "1_here.png", 1)

	res := Organize(root, []screenshot.ImageRecord{vanished, present}, titlecache.Cache{1: "Known"}, Options{})

	assert.Equal(t, 1, res.Failed)
	assert.Equal(t, 1, res.Moved)
	assert.FileExists(t, filepath.Join(root, "Known", "1_here.png"))
}

func TestTargetPath(t *testing.T) {
	root := absTempDir(t)

	target, err := TargetPath(root, "My Game", "123_shot1.png")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "My Game", "123_shot1.png"), target)

	rel, err := TargetPath(".", "My Game", "1.png")
	require.NoError(t, err)
	assert.True(t, filepath.IsAbs(rel))
}
