package swingzip

import (
	"io/fs"
	"strings"
)

const dependencyDir = "node_modules"

// videoSuffixes are matched case-sensitively, so clip.Mp4 is still archived.
var videoSuffixes = []string{".mp4", ".MP4"}

// skipDir reports whether the directory called name is pruned from the walk,
// together with everything beneath it.
func skipDir(name string) bool {
	return name == dependencyDir
}

// skipFile reports whether the file called name is left out of the archive.
func skipFile(name string) bool {
	for _, suffix := range videoSuffixes {
		if strings.HasSuffix(name, suffix) {
			return true
		}
	}

	return false
}

// excluded applies the exclusion rules to a walked entry. The root is never excluded.
func excluded(d fs.DirEntry, isRoot bool) bool {
	if isRoot {
		return false
	}
	if d.IsDir() {
		return skipDir(d.Name())
	}

	return skipFile(d.Name())
}
