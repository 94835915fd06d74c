package domain

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// TagPrefix is prepended to a version to form its tag name.
const TagPrefix = "v"

// Version wraps semver.Version for additional methods.
type Version struct {
	*semver.Version
}

// NewVersion parses a semantic version. Surrounding whitespace and a single
// leading "=" or "v" are tolerated; anything else must be strict MAJOR.MINOR.PATCH
// with optional prerelease and build metadata.
func NewVersion(s string) (*Version, error) {
	trimmed := strings.TrimSpace(s)
	trimmed = strings.TrimPrefix(strings.TrimPrefix(trimmed, "="), TagPrefix)
	v, err := semver.StrictNewVersion(trimmed)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %w", ErrInvalidVersion, s, err)
	}
	return &Version{v}, nil
}

// Compare compares two versions.
func (v *Version) Compare(other *Version) int {
	return v.Version.Compare(other.Version)
}

// GreaterThan reports whether v sorts strictly after other.
func (v *Version) GreaterThan(other *Version) bool {
	return v.Compare(other) > 0
}

// String returns the normalized version without the tag prefix.
func (v *Version) String() string {
	return v.Version.String()
}

// TagName returns the tag under which the version is recorded.
func (v *Version) TagName() string {
	return TagPrefix + v.String()
}

// Increment returns the version following v for the given keyword. preid is
// only consulted by the pre* keywords.
func (v *Version) Increment(keyword BumpKeyword, preid string) (*Version, error) {
	major, minor, patch := v.Major(), v.Minor(), v.Patch()
	pre := splitPrerelease(v.Prerelease())
	switch keyword {
	case BumpMajor:
		// 1.0.0-rc.1 graduates to 1.0.0 rather than 2.0.0
		if minor != 0 || patch != 0 || len(pre) == 0 {
			major++
		}
		minor, patch, pre = 0, 0, nil
	case BumpMinor:
		if patch != 0 || len(pre) == 0 {
			minor++
		}
		patch, pre = 0, nil
	case BumpPatch:
		if len(pre) == 0 {
			patch++
		}
		pre = nil
	case BumpPremajor:
		major, minor, patch = major+1, 0, 0
		pre = bumpPrerelease(nil, preid)
	case BumpPreminor:
		minor, patch = minor+1, 0
		pre = bumpPrerelease(nil, preid)
	case BumpPrepatch:
		patch++
		pre = bumpPrerelease(nil, preid)
	case BumpPrerelease:
		if len(pre) == 0 {
			patch++
		}
		pre = bumpPrerelease(pre, preid)
	default:
		return nil, fmt.Errorf("%w: unknown release type %q", ErrInvalidRequest, keyword)
	}
	raw := fmt.Sprintf("%d.%d.%d", major, minor, patch)
	if len(pre) > 0 {
		raw += "-" + strings.Join(pre, ".")
	}
	return NewVersion(raw)
}

func splitPrerelease(pre string) []string {
	if pre == "" {
		return nil
	}
	return strings.Split(pre, ".")
}

func isNumericIdentifier(s string) bool {
	_, err := strconv.ParseUint(s, 10, 64)
	return err == nil
}

// bumpPrerelease increments the right-most numeric identifier, appending a
// zero counter when there is none. A preid that differs from the current
// leading identifier restarts the series at <preid>.0.
func bumpPrerelease(current []string, preid string) []string {
	pre := append([]string(nil), current...)
	if len(pre) == 0 {
		pre = []string{"0"}
	} else {
		bumped := false
		for i := len(pre) - 1; i >= 0; i-- {
			if n, err := strconv.ParseUint(pre[i], 10, 64); err == nil {
				pre[i] = strconv.FormatUint(n+1, 10)
				bumped = true
				break
			}
		}
		if !bumped {
			pre = append(pre, "0")
		}
	}
	if preid == "" {
		return pre
	}
	if pre[0] != preid || len(pre) < 2 || !isNumericIdentifier(pre[1]) {
		return []string{preid, "0"}
	}
	return pre
}
