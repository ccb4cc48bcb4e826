package cli

import (
	"os/exec"
	"path/filepath"
	"runtime"

	"github.com/pkg/errors"
)

const binName = "swingzip"

// BuildBinary compiles the main package at pkg into outDir and returns the path of the
// binary. The caller owns outDir.
func BuildBinary(pkg, outDir string) (string, error) {
	name := binName
	if runtime.GOOS == "windows" {
		name += ".exe"
	}

	binPath, err := filepath.Abs(filepath.Join(outDir, name))
	if err != nil {
		return "", errors.Wrapf(err, "ERROR: could not resolve binary path in %s", outDir)
	}

	build := exec.Command("go", "build", "-o", binPath, pkg)
	if out, err := build.CombinedOutput(); err != nil {
		return "", errors.Wrapf(err, "ERROR: could not build %s: %s", pkg, out)
	}

	return binPath, nil
}
