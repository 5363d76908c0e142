// Package util holds the program version.
package util

type VersionType struct {
	Major    uint
	Minor    uint
	Revision uint
}

var Version = VersionType{
	Major:    1,
	Minor:    2,
	Revision: 0,
}
