package swingzip

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/zip"
	derrors "github.com/pkg/errors"
)

// ErrUnsafePath is returned when an archive member would be written outside the output directory.
var ErrUnsafePath = errors.New("ERROR: archive entry escapes output directory")

type Extractor struct {
	outputDir string
}

// NewExtractor returns an extractor writing into outputDir. It returns an error if the
// absolute path of outputDir can't be determined.
func NewExtractor(outputDir string) (*Extractor, error) {
	absOutputDir, err := filepath.Abs(outputDir)
	if err != nil {
		return nil, derrors.Wrapf(err, "ERROR: could not get absolute path of output directory %s", outputDir)
	}

	return &Extractor{outputDir: absOutputDir}, nil
}

// Extract writes every entry of the archive at archivePath beneath the output directory,
// one entry at a time. The first error stops extraction and is returned.
func (e *Extractor) Extract(archivePath string) (err error) {
	archiveReader, err := zip.OpenReader(archivePath)
	if err != nil {
		return derrors.Wrapf(err, "ERROR: could not read archive at %s", archivePath)
	}
	defer func() {
		err = errors.Join(err, archiveReader.Close())
	}()

	for _, file := range archiveReader.File {
		if err = e.extractFile(file); err != nil {
			return derrors.Wrapf(err, "ERROR: could not extract file %s", file.Name)
		}
	}

	return nil
}

func (e *Extractor) extractFile(file *zip.File) error {
	outputPath, err := e.outputPath(file.Name)
	if err != nil {
		return err
	}

	if err = os.MkdirAll(filepath.Dir(outputPath), 0755); err != nil {
		return derrors.Wrapf(err, "ERROR: could not create directories for %s", outputPath)
	}

	if e.isDir(file.Name) {
		return e.writeDir(outputPath, file)
	}

	return e.writeFile(outputPath, file)
}

// writeDir keeps the owner bits set so that nested entries can still be written.
func (e *Extractor) writeDir(outputPath string, file *zip.File) error {
	perm := file.Mode().Perm() | 0700
	err := os.Mkdir(outputPath, perm)
	if os.IsExist(err) {
		err = os.Chmod(outputPath, perm)
	}
	if err != nil {
		return derrors.Wrapf(err, "ERROR: could not create directory %s", file.Name)
	}

	return nil
}

func (e *Extractor) writeFile(outputPath string, file *zip.File) (err error) {
	outputFile, err := os.OpenFile(outputPath, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, file.Mode().Perm())
	if err != nil {
		return derrors.Wrapf(err, "ERROR: could not create file %s", outputPath)
	}
	defer func() {
		err = errors.Join(err, outputFile.Close())
	}()

	srcFile, err := file.Open()
	if err != nil {
		return derrors.Wrapf(err, "ERROR: could not open file %s", file.Name)
	}
	defer func() {
		err = errors.Join(err, srcFile.Close())
	}()

	_, err = io.Copy(outputFile, srcFile)
	if err != nil {
		return derrors.Wrapf(err, "ERROR: could not decompress file %s", file.Name)
	}

	return nil
}

func (e *Extractor) isDir(name string) bool {
	return strings.HasSuffix(name, "/")
}

func (e *Extractor) outputPath(name string) (string, error) {
	if filepath.IsAbs(name) || strings.HasPrefix(name, "/") {
		return "", derrors.Wrap(ErrUnsafePath, name)
	}

	outputPath := filepath.Join(e.outputDir, filepath.FromSlash(name))
	rel, err := filepath.Rel(e.outputDir, outputPath)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", derrors.Wrap(ErrUnsafePath, name)
	}

	return outputPath, nil
}
