package index

import (
	"strings"
)

// Timestamp is a filesystem time split into seconds and nanoseconds.
type Timestamp struct {
	Sec  int64 `cbor:"sec"`
	Nsec int64 `cbor:"nsec"`
}

// Stat is the subset of file metadata tracked per index entry.
type Stat struct {
	CTime Timestamp `cbor:"ctime"`
	MTime Timestamp `cbor:"mtime"`
	Dev   uint64    `cbor:"dev"`
	Ino   uint64    `cbor:"ino"`
	Mode  uint32    `cbor:"mode"`
	UID   uint32    `cbor:"uid"`
	GID   uint32    `cbor:"gid"`
	Size  uint64    `cbor:"size"`
}

// ChangeMask has one bit set per tracked stat dimension that differs from
// the snapshot. Zero means the file looks unchanged.
type ChangeMask uint32

const (
	MTimeChanged ChangeMask = 1 << iota
	CTimeChanged
	OwnerChanged
	ModeChanged
	InodeChanged
	DataChanged
)

var changeNames = []struct {
	bit  ChangeMask
	name string
}{
	{MTimeChanged, "mtime"},
	{CTimeChanged, "ctime"},
	{OwnerChanged, "owner"},
	{ModeChanged, "mode"},
	{InodeChanged, "inode"},
	{DataChanged, "size"},
}

// Has reports whether any bit of flag is set in m.
func (m ChangeMask) Has(flag ChangeMask) bool {
	return m&flag != 0
}

func (m ChangeMask) String() string {
	if m == 0 {
		return "unchanged"
	}
	var parts []string
	for _, c := range changeNames {
		if m.Has(c.bit) {
			parts = append(parts, c.name)
		}
	}
	return strings.Join(parts, "|")
}

// DiffMask compares a snapshot against a freshly observed stat. Each of the
// six dimensions (mtime, ctime, uid/gid, mode, dev/ino, size) sets its own
// bit. No file content is read.
func DiffMask(snap Stat, cur Stat) ChangeMask {
	var m ChangeMask
	if snap.MTime != cur.MTime {
		m |= MTimeChanged
	}
	if snap.CTime != cur.CTime {
		m |= CTimeChanged
	}
	if snap.UID != cur.UID || snap.GID != cur.GID {
		m |= OwnerChanged
	}
	if snap.Mode != cur.Mode {
		m |= ModeChanged
	}
	if snap.Dev != cur.Dev || snap.Ino != cur.Ino {
		m |= InodeChanged
	}
	if snap.Size != cur.Size {
		m |= DataChanged
	}
	return m
}
