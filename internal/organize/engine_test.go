package organize_test

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"dirsort/internal/errors"
	"dirsort/internal/organize"
	"dirsort/pkg/testutils"
	"dirsort/pkg/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func kinds(outcomes []types.Outcome) map[string]types.OutcomeKind {
	out := make(map[string]types.OutcomeKind, len(outcomes))
	for _, o := range outcomes {
		out[o.Entry] = o.Kind
	}
	return out
}

func TestOrganizeScenario(t *testing.T) {
	tmpDir := t.TempDir()
	testutils.CreateFiles(t, tmpDir, map[string]string{
		"a.png":        "png content",
		"b.mp4":        "mp4 content",
		"c.unknownext": "mystery",
	})
	require.NoError(t, os.Mkdir(filepath.Join(tmpDir, "sub"), 0755))

	result, err := organize.New().Organize(tmpDir)
	require.NoError(t, err)
	assert.True(t, result.OK)
	assert.NotEmpty(t, result.RunID)
	assert.Equal(t, tmpDir, result.Target)

	require.Len(t, result.Outcomes, 4)
	assert.Equal(t, []string{"a.png", "b.mp4", "c.unknownext", "sub"}, []string{
		result.Outcomes[0].Entry, result.Outcomes[1].Entry, result.Outcomes[2].Entry, result.Outcomes[3].Entry,
	})
	assert.Equal(t, map[string]types.OutcomeKind{
		"a.png":        types.Moved,
		"b.mp4":        types.Moved,
		"c.unknownext": types.Moved,
		"sub":          types.SkippedDirectory,
	}, kinds(result.Outcomes))

	assert.FileExists(t, filepath.Join(tmpDir, "Images", "a.png"))
	assert.FileExists(t, filepath.Join(tmpDir, "Videos", "b.mp4"))
	assert.FileExists(t, filepath.Join(tmpDir, "Others", "c.unknownext"))
	assert.DirExists(t, filepath.Join(tmpDir, "sub"))
	assert.NoFileExists(t, filepath.Join(tmpDir, "a.png"))

	moved := result.Outcomes[0]
	assert.Equal(t, "Images", moved.Category)
	assert.Equal(t, filepath.Join(tmpDir, "Images", "a.png"), moved.DestinationPath)
	assert.Equal(t, int64(len("png content")), moved.Size)
	assert.True(t, moved.CreatedFolder)

	counts := result.Counts()
	assert.Equal(t, 3, counts.Moved)
	assert.Equal(t, 1, counts.SkippedDirectory)
	assert.Equal(t, 0, counts.Failed)
	assert.Equal(t, "Organized 4 entries: 3 moved, 1 skipped, 0 errors", result.Message)
}

func TestOrganizeIsIdempotent(t *testing.T) {
	tmpDir := t.TempDir()
	testutils.CreateFiles(t, tmpDir, map[string]string{
		"a.png":  "png",
		"b.pdf":  "pdf",
		"c.zip":  "zip",
		"d.flac": "flac",
		"e.bin":  "bin",
	})

	engine := organize.New()
	first, err := engine.Organize(tmpDir)
	require.NoError(t, err)
	assert.Equal(t, 5, first.Counts().Moved)

	second, err := engine.Organize(tmpDir)
	require.NoError(t, err)
	assert.Equal(t, 0, second.Counts().Moved)
	assert.Equal(t, 5, second.Counts().SkippedDirectory)
	assert.NotEqual(t, first.RunID, second.RunID)

	// Category folders are never classified into themselves
	for _, cat := range []string{"Images", "Documents", "Archives", "Music", "Others"} {
		entries, err := os.ReadDir(filepath.Join(tmpDir, cat))
		require.NoError(t, err)
		for _, e := range entries {
			assert.False(t, e.IsDir(), "unexpected nested folder %s/%s", cat, e.Name())
		}
	}
}

func TestOrganizeCaseInsensitive(t *testing.T) {
	tmpDir := t.TempDir()
	testutils.CreateFiles(t, tmpDir, map[string]string{
		"PHOTO.JPG":   "upper",
		"holiday.Png": "mixed",
	})

	result, err := organize.New().Organize(tmpDir)
	require.NoError(t, err)
	for _, o := range result.Outcomes {
		assert.Equal(t, "Images", o.Category)
		assert.Equal(t, types.Moved, o.Kind)
	}
	assert.FileExists(t, filepath.Join(tmpDir, "Images", "PHOTO.JPG"))
	assert.FileExists(t, filepath.Join(tmpDir, "Images", "holiday.Png"))
}

func TestOrganizeSkipsCollisions(t *testing.T) {
	tmpDir := t.TempDir()
	testutils.CreateFiles(t, tmpDir, map[string]string{
		"Images/photo.jpg": "old",
		"photo.jpg":        "new",
	})

	result, err := organize.New().Organize(tmpDir)
	require.NoError(t, err)
	assert.True(t, result.OK)

	got := kinds(result.Outcomes)
	assert.Equal(t, types.SkippedExists, got["photo.jpg"])
	assert.Equal(t, types.SkippedDirectory, got["Images"])

	root, err := os.ReadFile(filepath.Join(tmpDir, "photo.jpg"))
	require.NoError(t, err)
	assert.Equal(t, "new", string(root), "source must be left untouched")

	dest, err := os.ReadFile(filepath.Join(tmpDir, "Images", "photo.jpg"))
	require.NoError(t, err)
	assert.Equal(t, "old", string(dest), "destination must not be overwritten")

	assert.Equal(t, "File already exists in Images/: photo.jpg", result.Outcomes[1].Line())
}

func TestOrganizeEmptyDirectory(t *testing.T) {
	tmpDir := t.TempDir()

	result, err := organize.New().Organize(tmpDir)
	require.Error(t, err)
	assert.True(t, errors.IsEmptyInput(err))
	assert.False(t, result.OK)
	assert.Equal(t, err.Error(), result.Message)
	assert.Empty(t, result.Outcomes)

	entries, err := os.ReadDir(tmpDir)
	require.NoError(t, err)
	assert.Empty(t, entries, "no category folder may be created")
}

func TestOrganizeMissingDirectory(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "does-not-exist")

	result, err := organize.New().Organize(missing)
	require.Error(t, err)
	assert.True(t, errors.IsNotFound(err))
	assert.True(t, errors.Is(err, os.ErrNotExist))
	assert.False(t, result.OK)
	assert.Contains(t, result.Message, "does not exist")
	assert.NoDirExists(t, missing)
}

func TestOrganizeTargetIsFile(t *testing.T) {
	tmpDir := t.TempDir()
	file := filepath.Join(tmpDir, "plain.txt")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0644))

	_, err := organize.New().Organize(file)
	require.Error(t, err)
	assert.True(t, errors.IsNotFound(err))
	assert.Contains(t, err.Error(), "not a directory")
}

func TestOrganizeIsolatesEntryErrors(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("symlinks need privileges on windows")
	}
	tmpDir := t.TempDir()
	testutils.CreateFiles(t, tmpDir, map[string]string{
		"a.png": "png",
		"b.mp4": "mp4",
	})
	// A dangling link cannot be stat-ed and also blocks creation of Videos/
	require.NoError(t, os.Symlink(filepath.Join(tmpDir, "nowhere"), filepath.Join(tmpDir, "Videos")))

	result, err := organize.New().Organize(tmpDir)
	require.NoError(t, err)
	assert.True(t, result.OK)
	require.Len(t, result.Outcomes, 3)

	got := kinds(result.Outcomes)
	assert.Equal(t, types.Failed, got["Videos"])
	assert.Equal(t, types.Moved, got["a.png"])
	assert.Equal(t, types.Failed, got["b.mp4"])

	for _, o := range result.Outcomes {
		if o.Kind == types.Failed {
			assert.True(t, errors.IsEntryIO(o.Err))
			assert.NotEmpty(t, o.Detail)
		}
	}
	assert.True(t, result.HasErrors())
	assert.FileExists(t, filepath.Join(tmpDir, "Images", "a.png"))
	assert.FileExists(t, filepath.Join(tmpDir, "b.mp4"), "failed entry stays in place")
}

func TestOrganizeSymlinkToDirectoryIsSkipped(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("symlinks need privileges on windows")
	}
	tmpDir := t.TempDir()
	outside := t.TempDir()
	require.NoError(t, os.Symlink(outside, filepath.Join(tmpDir, "linked.zip")))

	result, err := organize.New().Organize(tmpDir)
	require.NoError(t, err)
	require.Len(t, result.Outcomes, 1)
	assert.Equal(t, types.SkippedDirectory, result.Outcomes[0].Kind)
	assert.NoDirExists(t, filepath.Join(tmpDir, "Archives"))
}

func TestOrganizeCategoryPathIsFile(t *testing.T) {
	tmpDir := t.TempDir()
	testutils.CreateFiles(t, tmpDir, map[string]string{
		"Others": "a file where the fallback folder should be",
		"a.mp3":  "mp3",
		"b.bin":  "bin",
	})

	result, err := organize.New().Organize(tmpDir)
	require.NoError(t, err)
	assert.True(t, result.OK)

	got := kinds(result.Outcomes)
	assert.Equal(t, types.Failed, got["Others"])
	assert.Equal(t, types.Moved, got["a.mp3"])
	assert.Equal(t, types.Failed, got["b.bin"])
	assert.Contains(t, result.Outcomes[2].Detail, "not a directory")

	assert.FileExists(t, filepath.Join(tmpDir, "Others"))
	assert.FileExists(t, filepath.Join(tmpDir, "b.bin"))
	assert.FileExists(t, filepath.Join(tmpDir, "Music", "a.mp3"))
}

func TestOrganizeDryRun(t *testing.T) {
	tmpDir := t.TempDir()
	testutils.CreateFiles(t, tmpDir, map[string]string{
		"a.png": "a",
		"b.png": "b",
		"c.txt": "c",
	})

	engine := organize.New(organize.WithDryRun(true))
	assert.True(t, engine.IsDryRun())

	result, err := engine.Organize(tmpDir)
	require.NoError(t, err)
	assert.True(t, result.DryRun)

	created := 0
	for _, o := range result.Outcomes {
		assert.Equal(t, types.Planned, o.Kind)
		if o.CreatedFolder {
			created++
		}
	}
	assert.Equal(t, 2, created, "each missing category folder is announced once")
	assert.Equal(t, 3, result.Counts().Planned)
	assert.Contains(t, result.Message, "3 would move")

	entries, err := os.ReadDir(tmpDir)
	require.NoError(t, err)
	assert.Len(t, entries, 3, "dry run must not touch the filesystem")
	assert.NoDirExists(t, filepath.Join(tmpDir, "Images"))

	engine.SetDryRun(false)
	assert.False(t, engine.IsDryRun())
}

func TestOrganizeObserverSeesOutcomesInOrder(t *testing.T) {
	tmpDir := t.TempDir()
	testutils.CreateFiles(t, tmpDir, map[string]string{
		"b.txt": "b",
		"a.gif": "a",
	})
	require.NoError(t, os.Mkdir(filepath.Join(tmpDir, "c"), 0755))

	var seen []string
	engine := organize.New(organize.WithObserver(func(o types.Outcome) {
		seen = append(seen, o.Line())
	}))

	_, err := engine.Organize(tmpDir)
	require.NoError(t, err)
	assert.Equal(t, []string{
		"Moved a.gif → Images/",
		"Moved b.txt → Documents/",
		"Skipping directory: c",
	}, seen)
}

func TestOrganizerFactory(t *testing.T) {
	defer organize.ResetOrganizerFactory()

	var calls int
	organize.SetOrganizerFactory(func(opts ...organize.Option) organize.Organizer {
		calls++
		return organize.New(opts...)
	})

	o := organize.CurrentOrganizerFactory(organize.WithDryRun(true))
	assert.Equal(t, 1, calls)
	assert.True(t, o.IsDryRun())

	organize.ResetOrganizerFactory()
	_, ok := organize.CurrentOrganizerFactory().(*organize.Engine)
	assert.True(t, ok)
}
