package harmonize

import (
	"os/user"
	"path/filepath"
	"strings"

	log "github.com/sirupsen/logrus"
)

// ExpandHome expands ~ to its proper path, where appropriate.
func ExpandHome(path string) string {
	if strings.HasPrefix(path, "~/") {
		usr, err := user.Current()
		if err != nil {
			log.Warnln("Could not expand home directory for", path, err)
			return path
		}
		path = filepath.Join(usr.HomeDir, path[2:])
	}

	return path
}

// ResolvePath expands ~ and anchors relative paths at baseDir. Source
// descriptions list their files relative to the description itself.
func ResolvePath(baseDir, path string) string {
	path = ExpandHome(path)
	if filepath.IsAbs(path) || baseDir == "" {
		return path
	}
	return filepath.Join(baseDir, path)
}
