package domain

import "strings"

const (
	DefaultBase    = "0.0.0"
	DefaultMessage = "%s"
	DefaultDir     = "."
	DefaultRemote  = "origin"
)

// Repository backends.
const (
	BackendGoGit = "go-git"
	BackendCLI   = "git"
)

// ReleaseOptions holds everything that steers a single resolve/publish run.
type ReleaseOptions struct {
	// Base is the version bumped from when no tag exists yet.
	Base string `mapstructure:"base"`
	// Filter is a semver constraint restricting which tags count as current.
	Filter string `mapstructure:"filter"`
	// Tag requests an annotated tag for the resolved version.
	Tag bool `mapstructure:"tag"`
	// Publish pushes tags after creating one. Implies Tag.
	Publish bool `mapstructure:"publish"`
	// Branch overrides the branch used for the sync check.
	Branch string `mapstructure:"branch"`
	// Message is the tag message; every %s is replaced by the version.
	Message string `mapstructure:"message"`
	Preid   string `mapstructure:"preid"`
	Dir     string `mapstructure:"dir"`
	Remote  string `mapstructure:"remote"`
}

// DefaultReleaseOptions returns the options used when the caller sets nothing.
func DefaultReleaseOptions() ReleaseOptions {
	return ReleaseOptions{
		Base:    DefaultBase,
		Message: DefaultMessage,
		Dir:     DefaultDir,
		Remote:  DefaultRemote,
	}
}

// Merge overlays every field set in override onto o.
func (o ReleaseOptions) Merge(override ReleaseOptions) ReleaseOptions {
	merged := o
	if override.Base != "" {
		merged.Base = override.Base
	}
	if override.Filter != "" {
		merged.Filter = override.Filter
	}
	if override.Branch != "" {
		merged.Branch = override.Branch
	}
	if override.Message != "" {
		merged.Message = override.Message
	}
	if override.Preid != "" {
		merged.Preid = override.Preid
	}
	if override.Dir != "" {
		merged.Dir = override.Dir
	}
	if override.Remote != "" {
		merged.Remote = override.Remote
	}
	merged.Tag = o.Tag || override.Tag
	merged.Publish = o.Publish || override.Publish
	return merged.Normalize()
}

// Normalize applies the implications between fields.
func (o ReleaseOptions) Normalize() ReleaseOptions {
	o.Tag = o.Tag || o.Publish
	return o
}

// FormatMessage substitutes version into the message template.
func (o ReleaseOptions) FormatMessage(version string) string {
	if msg := strings.ReplaceAll(o.Message, "%s", version); msg != "" {
		return msg
	}
	return version
}
