//go:build darwin

package tty

import (
	"os"
	"syscall"
	"time"
)

// accessTime extracts the atime from a stat result.
func accessTime(info os.FileInfo) time.Time {
	stat, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return info.ModTime()
	}
	return time.Unix(stat.Atimespec.Sec, stat.Atimespec.Nsec)
}
