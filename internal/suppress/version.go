package suppress

import (
	"fmt"
	"strconv"
	"strings"
)

// Version is a dotted language version, e.g. "3.4.1". Missing components
// are zero.
type Version struct {
	Major, Minor, Patch int
}

// ParseVersion parses "major[.minor[.patch]]".
func ParseVersion(s string) (Version, error) {
	parts := strings.SplitN(s, ".", 4)
	if len(parts) > 3 {
		return Version{}, fmt.Errorf("suppress: version %q has too many components", s)
	}
	var v Version
	dst := []*int{&v.Major, &v.Minor, &v.Patch}
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil || n < 0 {
			return Version{}, fmt.Errorf("suppress: bad version %q", s)
		}
		*dst[i] = n
	}
	return v, nil
}

// MustVersion is ParseVersion for static version literals.
func MustVersion(s string) Version {
	v, err := ParseVersion(s)
	if err != nil {
		panic(err)
	}
	return v
}

// Compare returns -1, 0 or 1 ordering v against o.
func (v Version) Compare(o Version) int {
	pairs := [][2]int{{v.Major, o.Major}, {v.Minor, o.Minor}, {v.Patch, o.Patch}}
	for _, p := range pairs {
		if p[0] < p[1] {
			return -1
		}
		if p[0] > p[1] {
			return 1
		}
	}
	return 0
}

func (v Version) String() string {
	return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
}

// Env describes the running language environment the version-conditioned
// rules are evaluated against.
type Env struct {
	Engine  string
	Version Version
}
