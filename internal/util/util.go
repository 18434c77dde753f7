package util

import "errors"

type ignorable interface {
	Ignorable() bool
}

type exitStatuser interface {
	ExitStatus() int
}

// IsIgnorableError reports whether err, or an error it wraps, asks to
// be ignored. The command line uses this for --help and --version.
func IsIgnorableError(err error) bool {
	var v ignorable
	if errors.As(err, &v) {
		return v.Ignorable()
	}
	return false
}

// GetExitStatus returns the exit status carried by err, or 1 and false
// if there is none.
func GetExitStatus(err error) (int, bool) {
	var v exitStatuser
	if errors.As(err, &v) {
		return v.ExitStatus(), true
	}
	return 1, false
}
