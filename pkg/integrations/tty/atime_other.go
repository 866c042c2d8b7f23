//go:build !darwin && !linux

package tty

import (
	"os"
	"time"
)

// accessTime falls back to mtime where atime is not exposed.
func accessTime(info os.FileInfo) time.Time {
	return info.ModTime()
}
