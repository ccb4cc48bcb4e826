package swingzip

import (
	"errors"
	"io"
	"os"

	"github.com/fatih/color"
	derrors "github.com/pkg/errors"
)

// CLI archives Source into a fresh archive at ArchivePath and reports completion on Stdout.
type CLI struct {
	Source      string
	ArchivePath string
	Stdout      io.Writer
}

// Archive runs a single archiving pass. The source root is checked before the archive
// is created, so a missing root leaves nothing behind. A partially written archive is
// removed when archiving fails.
func (c *CLI) Archive() error {
	if err := checkRoot(c.Source); err != nil {
		return derrors.Wrapf(err, "ERROR: could not archive %s", c.Source)
	}

	if err := c.writeArchive(); err != nil {
		return err
	}

	return c.report()
}

func (c *CLI) writeArchive() (err error) {
	archive, err := os.Create(c.ArchivePath)
	if err != nil {
		return derrors.Wrapf(err, "ERROR: could not create archive at %s", c.ArchivePath)
	}
	defer func() {
		err = errors.Join(err, archive.Close())
		if err != nil {
			os.Remove(c.ArchivePath)
		}
	}()

	archiver := NewArchiver(archive)
	defer func() {
		err = errors.Join(err, archiver.Close())
	}()

	if err = archiver.ArchiveDir(c.Source); err != nil {
		return derrors.Wrap(err, "ERROR: could not archive files")
	}

	return nil
}

func (c *CLI) report() error {
	out := c.Stdout
	if out == nil {
		out = os.Stdout
	}

	_, err := color.New(color.FgGreen).Fprintln(out, "Zipped", c.Source, "to", c.ArchivePath)
	return err
}
