/*
package version tracks the semantic version of the formation source and
checks config files against it.
*/
package version

import (
	"fmt"
	"strconv"
	"strings"
)

// SourceVersion is the semantic version of the source code.
const SourceVersion = "0.2.0"

// Version is a parsed semantic version number.
type Version struct {
	Major, Minor, Patch int
}

func (v Version) String() string {
	return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
}

// Parse parses a semantic version number string and returns an error if
// the string is not three period-separated non-negative integers.
func Parse(s string) (Version, error) {
	toks := strings.Split(strings.TrimSpace(s), ".")
	if len(toks) != 3 {
		return Version{}, fmt.Errorf("The version string '%s' does not "+
			"take the form of three period-separated numbers.", s)
	}

	var parts [3]int
	for i, tok := range toks {
		n, err := strconv.Atoi(tok)
		if err != nil || n < 0 {
			return Version{}, fmt.Errorf("Element %d of the version string "+
				"'%s' is not a non-negative integer.", i, s)
		}
		parts[i] = n
	}

	return Version{parts[0], parts[1], parts[2]}, nil
}

// Compatible returns true if a config written for version v can be read by
// source version u. Patch releases never change the config format.
func (v Version) Compatible(u Version) bool {
	return v.Major == u.Major && v.Minor == u.Minor
}

// CheckSource returns an error if a config file targeting the version s
// cannot be read by this source.
func CheckSource(s string) error {
	v, err := Parse(s)
	if err != nil {
		return err
	}
	src, _ := Parse(SourceVersion)
	if !v.Compatible(src) {
		return fmt.Errorf("The config targets version %s, but the source "+
			"is version %s.", v, src)
	}
	return nil
}
