//go:build !(linux || darwin || freebsd)

package index

import (
	"io/fs"
	"os"
)

// StatPath captures what the platform exposes through os.Stat. Change
// time, device, inode and ownership stay zero.
func StatPath(path string) (Stat, error) {
	info, err := os.Stat(path)
	if err != nil {
		return Stat{}, err
	}
	mtime := info.ModTime()
	return Stat{
		MTime: Timestamp{Sec: mtime.Unix(), Nsec: int64(mtime.Nanosecond())},
		Mode:  unixMode(info.Mode()),
		Size:  uint64(info.Size()),
	}, nil
}

func unixMode(m fs.FileMode) uint32 {
	mode := uint32(m.Perm())
	switch {
	case m.IsDir():
		mode |= 0o040000
	case m&fs.ModeSymlink != 0:
		mode |= 0o120000
	default:
		mode |= 0o100000
	}
	return mode
}
