//go:build linux || darwin || freebsd

package index

import (
	"os"

	"golang.org/x/sys/unix"
)

// StatPath captures the tracked metadata of the file at path, following
// symlinks.
func StatPath(path string) (Stat, error) {
	var st unix.Stat_t
	if err := unix.Stat(path, &st); err != nil {
		return Stat{}, &os.PathError{Op: "stat", Path: path, Err: err}
	}
	return Stat{
		CTime: Timestamp{Sec: int64(st.Ctim.Sec), Nsec: int64(st.Ctim.Nsec)},
		MTime: Timestamp{Sec: int64(st.Mtim.Sec), Nsec: int64(st.Mtim.Nsec)},
		Dev:   uint64(st.Dev),
		Ino:   uint64(st.Ino),
		Mode:  uint32(st.Mode),
		UID:   st.Uid,
		GID:   st.Gid,
		Size:  uint64(st.Size),
	}, nil
}
