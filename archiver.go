package swingzip

import (
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"syscall"

	"github.com/klauspost/compress/flate"
	"github.com/klauspost/compress/zip"
	"github.com/pkg/errors"
)

const defaultCompression = flate.DefaultCompression

type Archiver struct {
	w      *zip.Writer
	chroot string
}

// NewArchiver returns an archiver writing a zip archive to dest. Every entry is deflated.
// Close() must be called once archiving is done to write the central directory; it does
// not close dest.
func NewArchiver(dest io.Writer) *Archiver {
	w := zip.NewWriter(dest)
	w.RegisterCompressor(zip.Deflate, func(out io.Writer) (io.WriteCloser, error) {
		return flate.NewWriter(out, defaultCompression)
	})

	return &Archiver{w: w}
}

// ArchiveDir adds every file beneath root to the archive, named relative to root.
// node_modules directories and .mp4/.MP4 files are left out. The first error
// encountered stops the walk and is returned.
func (a *Archiver) ArchiveDir(root string) error {
	err := a.changeRoot(root)
	if err != nil {
		return errors.Wrapf(err, "ERROR: could not set chroot of archive to %s", root)
	}

	err = a.walkDir()
	if err != nil {
		return errors.Wrapf(err, "ERROR: could not walk directory %s", root)
	}

	return nil
}

func (a *Archiver) Close() error {
	err := a.w.Close()
	if err != nil {
		return errors.Wrap(err, "ERROR: could not close archiver")
	}

	return nil
}

func (a *Archiver) changeRoot(root string) error {
	if err := checkRoot(root); err != nil {
		return err
	}

	absRoot, err := filepath.Abs(root)
	if err != nil {
		return errors.Wrapf(err, "ERROR: could not determine absolute path of %s", root)
	}

	// the walk does not descend into a symlinked root
	resolved, err := filepath.EvalSymlinks(absRoot)
	if err != nil {
		return errors.Wrapf(err, "ERROR: could not resolve %s", absRoot)
	}

	a.chroot = resolved
	return nil
}

// checkRoot returns a *fs.PathError when root is missing or is not a directory.
func checkRoot(root string) error {
	info, err := os.Stat(root)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return &fs.PathError{Op: "stat", Path: root, Err: syscall.ENOTDIR}
	}

	return nil
}

func (a *Archiver) walkDir() error {
	return filepath.WalkDir(a.chroot, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if excluded(d, path == a.chroot) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		if d.IsDir() {
			return nil
		}

		info, ok, err := contentInfo(path, d)
		if err != nil {
			return errors.Wrap(err, "ERROR: could not stat file")
		}
		if !ok {
			return nil
		}

		err = a.archiveFile(path, info)
		if err != nil {
			return errors.Wrap(err, "ERROR: could not archive file")
		}

		return nil
	})
}

// contentInfo returns the info of the file whose content is stored for path.
// Symlinks are resolved; ok is false for directory links and non-regular files.
func contentInfo(path string, d fs.DirEntry) (info fs.FileInfo, ok bool, err error) {
	if d.Type()&fs.ModeSymlink != 0 {
		info, err = os.Stat(path)
	} else {
		info, err = d.Info()
	}
	if err != nil {
		return nil, false, err
	}

	return info, info.Mode().IsRegular(), nil
}

func (a *Archiver) archiveFile(path string, info fs.FileInfo) error {
	name, err := a.entryName(path)
	if err != nil {
		return err
	}

	header, err := zip.FileInfoHeader(info)
	if err != nil {
		return errors.Wrapf(err, "ERROR: could not get file info header for %s", path)
	}
	header.Name = name
	header.Method = zip.Deflate

	w, err := a.w.CreateHeader(header)
	if err != nil {
		return errors.Wrapf(err, "ERROR: could not write header for %s", name)
	}

	return a.copy(w, path)
}

func (a *Archiver) copy(w io.Writer, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return errors.Wrap(err, "ERROR: could not open file")
	}
	defer f.Close()

	_, err = io.Copy(w, f)
	if err != nil {
		return errors.Wrapf(err, "ERROR: could not read file %s", path)
	}

	return nil
}

// entryName is the slash-separated path of path relative to the archive root.
func (a *Archiver) entryName(path string) (string, error) {
	rel, err := filepath.Rel(a.chroot, path)
	if err != nil {
		return "", errors.Wrapf(err, "ERROR: could not find relative path of %s to root %s", path, a.chroot)
	}

	return filepath.ToSlash(rel), nil
}
