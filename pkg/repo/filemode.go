package repo

// File type bits of a stat mode.
const (
	modeTypeMask = 0o170000
	modeRegular  = 0o100000
)

func isRegular(mode uint32) bool {
	return mode&modeTypeMask == modeRegular
}
