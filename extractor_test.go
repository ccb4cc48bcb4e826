package swingzip

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alecthomas/assert/v2"
	"github.com/klauspost/compress/zip"
	"github.com/ybirader/swingzip/internal/testutils"
)

func writeRawArchive(t testing.TB, archivePath string, names ...string) {
	t.Helper()

	archive, err := os.Create(archivePath)
	assert.NoError(t, err)
	defer archive.Close()

	w := zip.NewWriter(archive)
	for _, name := range names {
		fw, err := w.Create(name)
		assert.NoError(t, err)
		if strings.HasSuffix(name, "/") {
			continue
		}
		_, err = fw.Write([]byte(name))
		assert.NoError(t, err)
	}
	assert.NoError(t, w.Close())
}

func TestExtract(t *testing.T) {
	t.Run("writes archived files to the output directory", func(t *testing.T) {
		_, archivePath := archiveTree(t, testutils.Tree{
			"a.txt":                   "a",
			"dist/assets/hero-img.js": "hero",
		})
		outputDir := t.TempDir()

		extractor, err := NewExtractor(outputDir)
		assert.NoError(t, err)
		err = extractor.Extract(archivePath)
		assert.NoError(t, err)

		assert.Equal(t, []string{"a.txt", "dist/assets/hero-img.js"}, testutils.GetAllFiles(t, outputDir))
	})

	t.Run("restores file modes", func(t *testing.T) {
		root, archivePath := archiveTree(t, testutils.Tree{"run.sh": "#!/bin/sh"})
		assert.NoError(t, os.Chmod(filepath.Join(root, "run.sh"), 0755))
		archiveDir(t, root, archivePath)
		outputDir := t.TempDir()

		extractor, err := NewExtractor(outputDir)
		assert.NoError(t, err)
		assert.NoError(t, extractor.Extract(archivePath))

		info := testutils.GetFileInfo(t, filepath.Join(outputDir, "run.sh"))
		assert.Equal(t, os.FileMode(0755), info.Mode().Perm()&0755)
	})

	t.Run("creates directory entries", func(t *testing.T) {
		archivePath := filepath.Join(t.TempDir(), "archive.zip")
		writeRawArchive(t, archivePath, "hello/", "hello/nested/hello.md")
		outputDir := t.TempDir()

		extractor, err := NewExtractor(outputDir)
		assert.NoError(t, err)
		assert.NoError(t, extractor.Extract(archivePath))

		info := testutils.GetFileInfo(t, filepath.Join(outputDir, "hello"))
		assert.True(t, info.IsDir())
		assert.Equal(t, []string{"hello/nested/hello.md"}, testutils.GetAllFiles(t, outputDir))
	})

	t.Run("rejects entries escaping the output directory", func(t *testing.T) {
		dir := t.TempDir()
		archivePath := filepath.Join(dir, "archive.zip")
		writeRawArchive(t, archivePath, "../evil.txt")
		outputDir := filepath.Join(dir, "out")

		extractor, err := NewExtractor(outputDir)
		assert.NoError(t, err)
		err = extractor.Extract(archivePath)

		assert.Error(t, err)
		_, err = os.Stat(filepath.Join(dir, "evil.txt"))
		assert.True(t, os.IsNotExist(err))
	})

	t.Run("resolves entry names beneath the output directory", func(t *testing.T) {
		outputDir := t.TempDir()
		extractor, err := NewExtractor(outputDir)
		assert.NoError(t, err)

		path, err := extractor.outputPath("src/modules/audio/VoiceRecorder.tsx")
		assert.NoError(t, err)
		assert.Equal(t, filepath.Join(outputDir, "src", "modules", "audio", "VoiceRecorder.tsx"), path)

		for _, name := range []string{"../evil.txt", "a/../../evil.txt", "/etc/passwd"} {
			_, err = extractor.outputPath(name)
			assert.True(t, errors.Is(err, ErrUnsafePath), "expected %s to be rejected", name)
		}
	})

	t.Run("returns an error for a missing archive", func(t *testing.T) {
		extractor, err := NewExtractor(t.TempDir())
		assert.NoError(t, err)

		err = extractor.Extract(filepath.Join(t.TempDir(), "missing.zip"))
		assert.Error(t, err)
	})
}
