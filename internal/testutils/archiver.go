package testutils

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"testing"

	"github.com/alecthomas/assert/v2"
	"github.com/cespare/xxhash/v2"
	"github.com/klauspost/compress/zip"
)

// Tree maps slash-separated paths to file contents.
type Tree map[string]string

// CreateTree writes tree beneath root, creating intermediate directories.
func CreateTree(t testing.TB, root string, tree Tree) {
	t.Helper()

	for name, content := range tree {
		path := filepath.Join(root, filepath.FromSlash(name))
		err := os.MkdirAll(filepath.Dir(path), 0755)
		assert.NoError(t, err, fmt.Sprintf("could not create parent directories of %s", path))

		err = os.WriteFile(path, []byte(content), 0644)
		assert.NoError(t, err, fmt.Sprintf("could not write %s", path))
	}
}

func CreateTempArchive(t testing.TB, name string) (*os.File, func()) {
	t.Helper()

	archive, err := os.Create(name)
	assert.NoError(t, err, fmt.Sprintf("could not create archive %s: %v", name, err))

	cleanup := func() {
		archive.Close()
		os.RemoveAll(archive.Name())
	}

	return archive, cleanup
}

func GetFileInfo(t testing.TB, name string) os.FileInfo {
	t.Helper()

	info, err := os.Stat(name)
	assert.NoError(t, err, fmt.Sprintf("could not get file info for %s", name))

	return info
}

func GetArchiveReader(t testing.TB, name string) *zip.ReadCloser {
	t.Helper()

	reader, err := zip.OpenReader(name)
	assert.NoError(t, err)

	return reader
}

// EntryNames returns the sorted member names of the archive at name.
func EntryNames(t testing.TB, name string) []string {
	t.Helper()

	reader := GetArchiveReader(t, name)
	defer reader.Close()

	names := []string{}
	for _, f := range reader.File {
		names = append(names, f.Name)
	}
	sort.Strings(names)

	return names
}

// EntryContents decompresses every member of the archive at name.
func EntryContents(t testing.TB, name string) Tree {
	t.Helper()

	reader := GetArchiveReader(t, name)
	defer reader.Close()

	contents := Tree{}
	for _, f := range reader.File {
		rc, err := f.Open()
		assert.NoError(t, err, fmt.Sprintf("could not open entry %s", f.Name))

		b, err := io.ReadAll(rc)
		rc.Close()
		assert.NoError(t, err, fmt.Sprintf("could not read entry %s", f.Name))

		contents[f.Name] = string(b)
	}

	return contents
}

// EntryDigests fingerprints the decompressed content of every member of the archive at name.
func EntryDigests(t testing.TB, name string) map[string]uint64 {
	t.Helper()

	digests := map[string]uint64{}
	for entry, content := range EntryContents(t, name) {
		digests[entry] = xxhash.Sum64String(content)
	}

	return digests
}

// GetAllFiles returns the sorted, slash-separated paths of all regular files beneath root.
func GetAllFiles(t testing.TB, root string) []string {
	t.Helper()

	files := []string{}
	err := filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.Mode().IsRegular() {
			rel, err := filepath.Rel(root, path)
			if err != nil {
				return err
			}
			files = append(files, filepath.ToSlash(rel))
		}
		return nil
	})
	assert.NoError(t, err, fmt.Sprintf("could not walk %s", root))
	sort.Strings(files)

	return files
}

func Find[T any](elements []T, cb func(element T) bool) (T, bool) {
	for _, e := range elements {
		if cb(e) {
			return e, true
		}
	}

	return *new(T), false
}

// GetOutput returns the combined stdout and stderr of cmd, ignoring its exit status.
func GetOutput(t testing.TB, cmd *exec.Cmd) string {
	t.Helper()

	out, _ := cmd.CombinedOutput()
	return string(out)
}
