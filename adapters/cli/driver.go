package cli

import (
	"os/exec"
	"path/filepath"

	"github.com/pkg/errors"
)

// Driver runs the swingzip binary inside workDir, where it expects to find
// sourceName and writes archiveName.
type Driver struct {
	binPath     string
	workDir     string
	sourceName  string
	archiveName string
}

func NewDriver(binPath, workDir, sourceName, archiveName string) *Driver {
	return &Driver{binPath, workDir, sourceName, archiveName}
}

func (d *Driver) SourceDir() string {
	return filepath.Join(d.workDir, d.sourceName)
}

func (d *Driver) ArchivePath() string {
	return filepath.Join(d.workDir, d.archiveName)
}

// Archive runs the binary and returns its combined output.
func (d *Driver) Archive() (string, error) {
	swingzip := exec.Command(d.binPath)
	swingzip.Dir = d.workDir

	out, err := swingzip.CombinedOutput()
	if err != nil {
		return string(out), errors.Wrapf(err, "ERROR: could not run swingzip binary: %s", out)
	}

	return string(out), nil
}
