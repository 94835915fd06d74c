package domain

import (
	"fmt"
	"regexp"
	"slices"
	"strings"
)

// BumpKeyword names the component of a version to increment.
type BumpKeyword string

const (
	BumpMajor      BumpKeyword = "major"
	BumpMinor      BumpKeyword = "minor"
	BumpPatch      BumpKeyword = "patch"
	BumpPremajor   BumpKeyword = "premajor"
	BumpPreminor   BumpKeyword = "preminor"
	BumpPrepatch   BumpKeyword = "prepatch"
	BumpPrerelease BumpKeyword = "prerelease"
)

// BumpKeywords lists every recognized keyword.
var BumpKeywords = []BumpKeyword{
	BumpMajor, BumpMinor, BumpPatch, BumpPremajor, BumpPreminor, BumpPrepatch, BumpPrerelease,
}

// versionLike matches input that was meant as a version number rather than a keyword.
var versionLike = regexp.MustCompile(`^v?\d`)

// ParseBumpKeyword reports whether s is a recognized keyword.
func ParseBumpKeyword(s string) (BumpKeyword, bool) {
	kw := BumpKeyword(s)
	return kw, slices.Contains(BumpKeywords, kw)
}

// BumpRequest is either an explicit version or a keyword. Preid only applies to
// the keyword form.
type BumpRequest struct {
	Explicit *Version
	Keyword  BumpKeyword
	Preid    string
}

// ExplicitRequest builds a request for a fixed version.
func ExplicitRequest(v *Version) BumpRequest {
	return BumpRequest{Explicit: v}
}

// KeywordRequest builds a request for an increment.
func KeywordRequest(kw BumpKeyword, preid string) BumpRequest {
	return BumpRequest{Keyword: kw, Preid: preid}
}

// IsExplicit reports whether the request carries a version.
func (r BumpRequest) IsExplicit() bool {
	return r.Explicit != nil
}

// String returns the request as given on the command line.
func (r BumpRequest) String() string {
	if r.Explicit != nil {
		return r.Explicit.String()
	}
	return string(r.Keyword)
}

// ParseBumpRequest classifies raw as an explicit version or a keyword.
func ParseBumpRequest(raw, preid string) (BumpRequest, error) {
	trimmed := strings.TrimSpace(raw)
	if v, err := NewVersion(trimmed); err == nil {
		return ExplicitRequest(v), nil
	}
	if kw, ok := ParseBumpKeyword(trimmed); ok {
		return KeywordRequest(kw, preid), nil
	}
	if versionLike.MatchString(trimmed) {
		return BumpRequest{}, fmt.Errorf("%w: %q", ErrInvalidVersion, raw)
	}
	return BumpRequest{}, fmt.Errorf("%w: %q is neither a version nor one of %v", ErrInvalidRequest, raw, BumpKeywords)
}
