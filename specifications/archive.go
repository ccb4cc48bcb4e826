package specifications

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"testing"

	"github.com/alecthomas/assert/v2"
	"github.com/google/go-cmp/cmp"
	"github.com/ybirader/swingzip/internal/testutils"
)

type Archiver interface {
	SourceDir() string
	ArchivePath() string
	Archive() (string, error)
}

// sourceTree mixes every exclusion case with files that must survive.
var sourceTree = testutils.Tree{
	"a.txt":                          "a",
	"b.MP4":                          "video",
	"node_modules/c.txt":             "dependency",
	"sub/d.mp4":                      "video",
	"sub/e.txt":                      "e",
	"sub/node_modules/inner/f.txt":   "nested dependency",
	"video.mp4.txt":                  "notes",
	"clip.Mp4":                       "mixed case",
	"src/modules/audio/Recorder.tsx": "export {}",
}

var wantEntries = []string{
	"a.txt",
	"clip.Mp4",
	"src/modules/audio/Recorder.tsx",
	"sub/e.txt",
	"video.mp4.txt",
}

// ArchiveDir populates the driver's source directory, archives it and checks that the
// archive holds exactly the non-excluded files, extractable by a standard unzip.
func ArchiveDir(t *testing.T, driver Archiver) {
	testutils.CreateTree(t, driver.SourceDir(), sourceTree)

	out, err := driver.Archive()
	assert.NoError(t, err)
	defer os.RemoveAll(driver.ArchivePath())

	assert.Contains(t, out, "Zipped")

	got := testutils.EntryNames(t, driver.ArchivePath())
	if diff := cmp.Diff(wantEntries, got); diff != "" {
		t.Errorf("archive entries mismatch (-want +got):\n%s", diff)
	}

	assertValidArchive(t, driver.ArchivePath())
}

func assertValidArchive(t testing.TB, archivePath string) {
	if _, err := exec.LookPath("unzip"); err != nil {
		t.Log("unzip not available, skipping extraction check")
		return
	}

	tmpDirPath := t.TempDir()

	unzip := exec.Command("unzip", archivePath, "-d", tmpDirPath)
	unzipOutput, err := unzip.CombinedOutput()
	if err != nil {
		t.Fatalf("ERROR: could not unzip archive %s: %s: %v", archivePath, unzipOutput, err)
	}

	got := testutils.GetAllFiles(t, tmpDirPath)
	want := append([]string(nil), wantEntries...)
	sort.Strings(want)
	assert.Equal(t, want, got)

	for _, name := range want {
		b, err := os.ReadFile(filepath.Join(tmpDirPath, filepath.FromSlash(name)))
		assert.NoError(t, err)
		assert.Equal(t, sourceTree[name], string(b), fmt.Sprintf("unexpected content for %s", name))
	}
}
