package msg

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// LangVersion is a major.minor version of the analyzed language runtime.
// The zero value means "unbounded" when used as a window edge.
type LangVersion struct {
	Major int
	Minor int
}

// IsZero reports whether the version is unset.
func (v LangVersion) IsZero() bool {
	return v.Major == 0 && v.Minor == 0
}

func (v LangVersion) String() string {
	return fmt.Sprintf("%d.%d", v.Major, v.Minor)
}

// Less reports whether v precedes other.
func (v LangVersion) Less(other LangVersion) bool {
	if v.Major != other.Major {
		return v.Major < other.Major
	}
	return v.Minor < other.Minor
}

// ErrBadVersion indicates a malformed version string.
var ErrBadVersion = errors.New("malformed version")

// ParseLangVersion parses "3.10"-style version strings.
func ParseLangVersion(s string) (LangVersion, error) {
	major, minor, found := strings.Cut(strings.TrimSpace(s), ".")
	if !found {
		return LangVersion{}, fmt.Errorf("%w: %q", ErrBadVersion, s)
	}
	maj, err := strconv.Atoi(major)
	if err != nil {
		return LangVersion{}, fmt.Errorf("%w: %q", ErrBadVersion, s)
	}
	min, err := strconv.Atoi(minor)
	if err != nil {
		return LangVersion{}, fmt.Errorf("%w: %q", ErrBadVersion, s)
	}
	if maj < 0 || min < 0 {
		return LangVersion{}, fmt.Errorf("%w: %q", ErrBadVersion, s)
	}
	return LangVersion{Major: maj, Minor: min}, nil
}
