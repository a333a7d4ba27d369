package storage

import (
	"bytes"
	"math"
	"os"
	"path/filepath"
	"testing"

	"cashback/internal/config"
	"cashback/internal/domain/models"
	"cashback/internal/repository"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"
)

func sampleDocument() *models.Document {
	doc := models.NewDocument()
	doc.Put("BankA", models.Entry{Name: "Groceries", Percent: 5})
	doc.Put("BankA", models.Entry{Name: "Travel", Percent: 2.5})
	doc.Put("BankB", models.Entry{Name: "Online", Percent: 10})
	return doc
}

func newFileStorage(t *testing.T, c *config.Config) *StorageFile {
	t.Helper()
	return NewStorageFile(c, zaptest.NewLogger(t).Sugar())
}

func TestNewStorageFile(t *testing.T) {
	c := config.NewConfig()
	c.DataFile = filepath.Join(t.TempDir(), "visa")
	c.StrictLoad = true

	s := newFileStorage(t, c)
	require.NotNil(t, s)
	require.Equal(t, c.DataFile+".json", s.Path())
	require.True(t, s.policy.FailOnLoad)
	require.False(t, s.policy.Lenient)
	require.Equal(t, "my_cashbacks.json", s.policy.Fallback)
}

func TestStorageFile_LoadMissing(t *testing.T) {
	s := newFileStorage(t, &config.Config{DataFile: filepath.Join(t.TempDir(), "absent.json"), StrictLoad: true})

	doc, err := s.Load()
	require.NoError(t, err)
	require.True(t, doc.IsEmpty())
}

func TestStorageFile_LoadBlank(t *testing.T) {
	path := filepath.Join(t.TempDir(), "blank.json")
	require.NoError(t, os.WriteFile(path, []byte(" \n"), 0o600))
	s := newFileStorage(t, &config.Config{DataFile: path, StrictLoad: true})

	doc, err := s.Load()
	require.NoError(t, err)
	require.True(t, doc.IsEmpty())
}

func TestStorageFile_SaveLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cashbacks.json")
	s := newFileStorage(t, &config.Config{DataFile: path})

	doc := sampleDocument()
	require.NoError(t, s.Save(doc))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, `{
    "BankA": {
        "Groceries": 5,
        "Travel": 2.5
    },
    "BankB": {
        "Online": 10
    }
}
`, string(data))

	loaded, err := s.Load()
	require.NoError(t, err)
	require.Equal(t, doc.Groups(), loaded.Groups())

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1, "Expected no temporary files left behind")
}

func TestStorageFile_SaveOverwrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cashbacks.json")
	s := newFileStorage(t, &config.Config{DataFile: path})

	require.NoError(t, s.Save(sampleDocument()))

	doc := models.NewDocument()
	doc.Put("Visa", models.Entry{Name: "Fuel", Percent: 3})
	require.NoError(t, s.Save(doc))

	loaded, err := s.Load()
	require.NoError(t, err)
	require.Equal(t, map[string]map[string]float64{"Visa": {"Fuel": 3}}, loaded.Map())
}

func TestStorageFile_LoadMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"Visa": [1, 2]}`), 0o600))

	t.Run("Strict", func(t *testing.T) {
		s := newFileStorage(t, &config.Config{DataFile: path, StrictLoad: true})
		doc, err := s.Load()
		require.ErrorIs(t, err, repository.ErrMalformedResource)
		require.Nil(t, doc)
	})

	t.Run("Lenient", func(t *testing.T) {
		core, logs := observer.New(zapcore.WarnLevel)
		s := NewStorageFile(&config.Config{DataFile: path}, zap.New(core).Sugar())
		doc, err := s.Load()
		require.NoError(t, err)
		require.True(t, doc.IsEmpty())
		require.Equal(t, 1, logs.FilterMessage("starting with an empty document").Len())
	})
}

func TestStorageFile_LoadUnreadable(t *testing.T) {
	// a directory cannot be read as a file, even by root
	dirPath := filepath.Join(t.TempDir(), "dir.json")
	require.NoError(t, os.Mkdir(dirPath, 0o755))

	s := newFileStorage(t, &config.Config{DataFile: dirPath, StrictLoad: true})
	doc, err := s.Load()
	require.ErrorIs(t, err, repository.ErrStorage)
	require.Nil(t, doc)

	s = newFileStorage(t, &config.Config{DataFile: dirPath})
	doc, err = s.Load()
	require.NoError(t, err)
	require.True(t, doc.IsEmpty())
}

func TestStorageFile_SaveFailure(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "missing", "cashbacks.json")

	t.Run("Strict", func(t *testing.T) {
		s := newFileStorage(t, &config.Config{DataFile: path})
		err := s.Save(sampleDocument())
		require.ErrorIs(t, err, repository.ErrStorage)

		var se *repository.StorageError
		require.ErrorAs(t, err, &se)
		require.Equal(t, "save", se.Op)
		require.Equal(t, path, se.Path)
	})

	t.Run("Lenient switches to fallback", func(t *testing.T) {
		fallback := filepath.Join(dir, "my_cashbacks.json")
		core, logs := observer.New(zapcore.WarnLevel)
		s := NewStorageFile(&config.Config{DataFile: path, Lenient: true, FallbackFile: fallback}, zap.New(core).Sugar())

		require.NoError(t, s.Save(sampleDocument()))
		require.Equal(t, fallback, s.Path())
		require.Equal(t, 1, logs.FilterMessage("data file changed to fallback").Len())

		loaded, err := s.Load()
		require.NoError(t, err)
		require.Equal(t, sampleDocument().Map(), loaded.Map())
	})

	t.Run("Lenient without fallback", func(t *testing.T) {
		core, logs := observer.New(zapcore.WarnLevel)
		s := NewStorageFile(&config.Config{DataFile: path, Lenient: true}, zap.New(core).Sugar())

		require.NoError(t, s.Save(sampleDocument()))
		require.Equal(t, path, s.Path())
		require.Equal(t, 1, logs.FilterMessage("saving cashbacks failed").Len())
	})
}

func TestStorageFile_Delete(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cashbacks.json")
	s := newFileStorage(t, &config.Config{DataFile: path})

	require.NoError(t, s.Delete(), "Expected deleting a missing file to succeed")

	require.NoError(t, s.Save(sampleDocument()))
	require.FileExists(t, path)

	require.NoError(t, s.Delete())
	require.NoFileExists(t, path)
}

func TestStorageFile_DeleteFailure(t *testing.T) {
	// a non-empty directory cannot be removed with os.Remove
	path := filepath.Join(t.TempDir(), "busy.json")
	require.NoError(t, os.Mkdir(path, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(path, "keep"), nil, 0o600))

	s := newFileStorage(t, &config.Config{DataFile: path})
	require.ErrorIs(t, s.Delete(), repository.ErrStorage)

	s = newFileStorage(t, &config.Config{DataFile: path, Lenient: true})
	require.NoError(t, s.Delete())
}

func TestNewStorageMemory(t *testing.T) {
	storageMemory := NewStorageMemory()
	require.NotNil(t, storageMemory, "Expected non-nil StorageMemory")
	require.False(t, storageMemory.Exists())
	require.Empty(t, storageMemory.Path())
}

func TestStorageMemory_SaveLoadDelete(t *testing.T) {
	s := NewStorageMemory()

	doc, err := s.Load()
	require.NoError(t, err)
	require.True(t, doc.IsEmpty())

	require.NoError(t, s.Save(sampleDocument()))
	require.True(t, s.Exists())

	loaded, err := s.Load()
	require.NoError(t, err)
	require.Equal(t, sampleDocument().Groups(), loaded.Groups())

	loaded.Put("BankC", models.Entry{Name: "Cafe", Percent: 1})
	again, err := s.Load()
	require.NoError(t, err)
	require.Equal(t, 2, again.Len(), "Expected loaded documents to be independent copies")

	require.NoError(t, s.Delete())
	require.False(t, s.Exists())
}

func TestStorageFile_SaveKeepsMode(t *testing.T) {
	dir := t.TempDir()

	private := filepath.Join(dir, "private.json")
	require.NoError(t, os.WriteFile(private, []byte("{}\n"), 0o600))
	require.NoError(t, newFileStorage(t, &config.Config{DataFile: private}).Save(sampleDocument()))
	info, err := os.Stat(private)
	require.NoError(t, err)
	require.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	fresh := filepath.Join(dir, "fresh.json")
	require.NoError(t, newFileStorage(t, &config.Config{DataFile: fresh}).Save(sampleDocument()))
	info, err = os.Stat(fresh)
	require.NoError(t, err)
	require.Equal(t, os.FileMode(filePerm), info.Mode().Perm())
}

func TestStorageFile_SaveThroughSymlink(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "real.json")
	link := filepath.Join(dir, "cashbacks.json")
	require.NoError(t, os.WriteFile(target, []byte("{}\n"), 0o600))
	require.NoError(t, os.Symlink(target, link))

	s := newFileStorage(t, &config.Config{DataFile: link})
	require.NoError(t, s.Save(sampleDocument()))

	info, err := os.Lstat(link)
	require.NoError(t, err)
	require.NotZero(t, info.Mode()&os.ModeSymlink, "Expected the data file to stay a symlink")

	var want bytes.Buffer
	require.NoError(t, sampleDocument().Encode(&want))
	got, err := os.ReadFile(target)
	require.NoError(t, err)
	require.Equal(t, want.String(), string(got))

	info, err = os.Stat(target)
	require.NoError(t, err)
	require.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	tmps, err := filepath.Glob(filepath.Join(dir, "*.tmp"))
	require.NoError(t, err)
	require.Empty(t, tmps)

	loaded, err := s.Load()
	require.NoError(t, err)
	require.Equal(t, sampleDocument().Groups(), loaded.Groups())
}

func TestStorageMemory_Errors(t *testing.T) {
	s := NewStorageMemory()

	bad := models.NewDocument()
	bad.Put("BankA", models.Entry{Name: "Broken", Percent: math.NaN()})
	err := s.Save(bad)
	require.ErrorIs(t, err, repository.ErrStorage)
	require.False(t, s.Exists())

	s.data = []byte("[1, 2]")
	_, err = s.Load()
	require.ErrorIs(t, err, repository.ErrMalformedResource)
}
