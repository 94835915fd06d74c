package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/compozy/semtag/internal/domain"
	"github.com/go-git/go-git/v5"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	configName = ".semtag"
	envPrefix  = "SEMTAG"
)

var (
	classicPAT     = regexp.MustCompile(`^[a-fA-F0-9]{40}$`)
	fineGrainedPAT = regexp.MustCompile(`^github_pat_[a-zA-Z0-9_]{22,}$`)
	// ghp_ personal, gho_ oauth, ghu_ user-to-server, ghs_ server-to-server, ghr_ refresh
	prefixedToken = regexp.MustCompile(`^gh[pousr]_[a-zA-Z0-9]{36,}$`)
	validName     = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9\-_.]*[a-zA-Z0-9]$|^[a-zA-Z0-9]$`)
	// branchNameRegex matches valid git branch names
	branchNameRegex = regexp.MustCompile(`^[a-zA-Z0-9._/-]+$`)
)

// Config is the merged result of defaults, .semtag.yaml, SEMTAG_* variables and flags.
type Config struct {
	domain.ReleaseOptions `mapstructure:",squash"`

	Backend     string `mapstructure:"backend"`
	Journal     bool   `mapstructure:"journal"`
	Debug       bool   `mapstructure:"debug"`
	GithubToken string `mapstructure:"github_token"`
	GithubOwner string `mapstructure:"github_owner"`
	GithubRepo  string `mapstructure:"github_repo"`
}

// DefaultConfig returns a Config with default values
func DefaultConfig() *Config {
	return &Config{
		ReleaseOptions: domain.DefaultReleaseOptions(),
		Backend:        domain.BackendGoGit,
		Journal:        true,
	}
}

// Options returns the release options with field implications applied.
func (c *Config) Options() domain.ReleaseOptions {
	return c.ReleaseOptions.Normalize()
}

// HasGitHub reports whether GitHub API access is configured with a usable token.
func (c *Config) HasGitHub() bool {
	return c.GithubToken != "" && c.GithubOwner != "" && c.GithubRepo != "" &&
		ValidateGitHubToken(c.GithubToken) == nil
}

// TokenProblem explains why a configured token will not be used. The token
// only enables the remote tag registry, so a bad one never fails loading.
func (c *Config) TokenProblem() error {
	if c.GithubToken == "" {
		return nil
	}
	return ValidateGitHubToken(c.GithubToken)
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Filter != "" {
		if _, err := semver.NewConstraint(c.Filter); err != nil {
			return fmt.Errorf("invalid filter %q: %w", c.Filter, err)
		}
	}
	if c.Branch != "" {
		if err := ValidateBranchName(c.Branch); err != nil {
			return fmt.Errorf("invalid branch: %w", err)
		}
	}
	if c.Remote == "" {
		return fmt.Errorf("remote cannot be empty")
	}
	if c.Backend != domain.BackendGoGit && c.Backend != domain.BackendCLI {
		return fmt.Errorf("invalid backend %q: expected %s or %s", c.Backend, domain.BackendGoGit, domain.BackendCLI)
	}
	if c.GithubOwner != "" && c.GithubRepo != "" {
		if err := ValidateGitHubOwnerRepo(c.GithubOwner, c.GithubRepo); err != nil {
			return fmt.Errorf("invalid github configuration: %w", err)
		}
	}
	return nil
}

// ValidateGitHubToken validates GitHub token format (exported for reuse)
func ValidateGitHubToken(token string) error {
	token = strings.TrimSpace(token)
	if len(token) < 40 {
		return fmt.Errorf("token too short: expected at least 40 characters")
	}
	if !classicPAT.MatchString(token) &&
		!fineGrainedPAT.MatchString(token) &&
		!prefixedToken.MatchString(token) {
		return fmt.Errorf("invalid token format")
	}
	return nil
}

// ValidateGitHubOwnerRepo validates GitHub owner and repository names (exported for reuse)
func ValidateGitHubOwnerRepo(owner, repo string) error {
	if owner == "" {
		return fmt.Errorf("owner cannot be empty")
	}
	if repo == "" {
		return fmt.Errorf("repository cannot be empty")
	}
	if !validName.MatchString(owner) {
		return fmt.Errorf("invalid owner format: %s", owner)
	}
	if len(owner) > 39 {
		return fmt.Errorf("owner too long: maximum 39 characters")
	}
	if !validName.MatchString(repo) {
		return fmt.Errorf("invalid repository format: %s", repo)
	}
	if len(repo) > 100 {
		return fmt.Errorf("repository too long: maximum 100 characters")
	}
	return nil
}

// ValidateBranchName validates a git branch name.
func ValidateBranchName(branch string) error {
	if branch == "" {
		return fmt.Errorf("branch name cannot be empty")
	}
	if len(branch) > 255 {
		return fmt.Errorf("branch name too long: %d characters (max: 255)", len(branch))
	}
	if strings.HasPrefix(branch, "/") || strings.HasSuffix(branch, "/") {
		return fmt.Errorf("branch name cannot start or end with slash: %s", branch)
	}
	if strings.Contains(branch, "..") {
		return fmt.Errorf("branch name cannot contain consecutive dots: %s", branch)
	}
	if strings.HasSuffix(branch, ".lock") {
		return fmt.Errorf("branch name cannot end with .lock: %s", branch)
	}
	if !branchNameRegex.MatchString(branch) {
		return fmt.Errorf("invalid branch name format: %s", branch)
	}
	return nil
}

// LoadConfig builds a Config from defaults, the config file in the target
// directory, SEMTAG_* environment variables and, when given, command flags.
// Each call uses its own viper instance.
func LoadConfig(flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	v.SetConfigName(configName)
	v.SetConfigType("yaml")
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	// BindEnv allows multiple env vars - it will check them in order
	if err := v.BindEnv("github_token", "SEMTAG_GITHUB_TOKEN", "GITHUB_TOKEN"); err != nil {
		return nil, fmt.Errorf("failed to bind github_token env: %w", err)
	}
	if err := v.BindEnv("github_owner", "SEMTAG_GITHUB_OWNER", "GITHUB_REPOSITORY_OWNER"); err != nil {
		return nil, fmt.Errorf("failed to bind github_owner env: %w", err)
	}
	if err := v.BindEnv("github_repo", "SEMTAG_GITHUB_REPO", "GITHUB_REPOSITORY_NAME"); err != nil {
		return nil, fmt.Errorf("failed to bind github_repo env: %w", err)
	}
	setDefaults(v, DefaultConfig())
	if flags != nil {
		if err := v.BindPFlags(flags); err != nil {
			return nil, fmt.Errorf("failed to bind flags: %w", err)
		}
	}
	v.AddConfigPath(v.GetString("dir"))
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	populateRepositoryDefaults(&cfg)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return &cfg, nil
}

// setDefaults registers every key so environment variables are picked up by Unmarshal.
func setDefaults(v *viper.Viper, d *Config) {
	v.SetDefault("base", d.Base)
	v.SetDefault("filter", d.Filter)
	v.SetDefault("tag", d.Tag)
	v.SetDefault("publish", d.Publish)
	v.SetDefault("branch", d.Branch)
	v.SetDefault("message", d.Message)
	v.SetDefault("preid", d.Preid)
	v.SetDefault("dir", d.Dir)
	v.SetDefault("remote", d.Remote)
	v.SetDefault("backend", d.Backend)
	v.SetDefault("journal", d.Journal)
	v.SetDefault("debug", d.Debug)
	v.SetDefault("github_owner", "")
	v.SetDefault("github_repo", "")
}

// populateRepositoryDefaults fills owner/repo from GITHUB_REPOSITORY or the remote URL.
func populateRepositoryDefaults(cfg *Config) {
	if cfg.GithubOwner != "" && cfg.GithubRepo != "" {
		return
	}
	if slug := os.Getenv("GITHUB_REPOSITORY"); slug != "" {
		if owner, repo, ok := strings.Cut(slug, "/"); ok && owner != "" && repo != "" {
			setOwnerRepo(cfg, owner, repo)
			return
		}
	}
	repo, err := git.PlainOpenWithOptions(cfg.Dir, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return
	}
	remoteName := cfg.Remote
	if remoteName == "" {
		remoteName = domain.DefaultRemote
	}
	remote, err := repo.Remote(remoteName)
	if err != nil || len(remote.Config().URLs) == 0 {
		return
	}
	host, owner, name, err := parseGitRemoteURL(remote.Config().URLs[0])
	if err != nil || !isGitHubHost(host) {
		return
	}
	setOwnerRepo(cfg, owner, name)
}

func setOwnerRepo(cfg *Config, owner, repo string) {
	if cfg.GithubOwner == "" {
		cfg.GithubOwner = owner
	}
	if cfg.GithubRepo == "" {
		cfg.GithubRepo = repo
	}
}

// isGitHubHost reports whether a remote host serves github.com repositories.
func isGitHubHost(host string) bool {
	switch strings.ToLower(host) {
	case "github.com", "www.github.com", "ssh.github.com":
		return true
	}
	return false
}

// parseGitRemoteURL extracts host, owner and repository from https, ssh,
// scp-like or path remotes. Path remotes have an empty host.
func parseGitRemoteURL(raw string) (host, owner, repo string, err error) {
	p := strings.TrimSuffix(strings.TrimSpace(raw), ".git")
	if _, rest, ok := strings.Cut(p, "://"); ok {
		host, p, _ = strings.Cut(rest, "/")
		if at := strings.LastIndex(host, "@"); at >= 0 {
			host = host[at+1:]
		}
		if colon := strings.LastIndex(host, ":"); colon >= 0 {
			host = host[:colon]
		}
	} else if colon := strings.Index(p, ":"); colon > 0 && !strings.Contains(p[:colon], "/") {
		// scp-like user@host:owner/repo
		host, p = p[:colon], p[colon+1:]
		if at := strings.LastIndex(host, "@"); at >= 0 {
			host = host[at+1:]
		}
	}
	var parts []string
	for _, seg := range strings.Split(filepath.ToSlash(p), "/") {
		if seg != "" {
			parts = append(parts, seg)
		}
	}
	if len(parts) < 2 {
		return "", "", "", fmt.Errorf("cannot derive owner/repo from remote %q", raw)
	}
	return host, parts[len(parts)-2], parts[len(parts)-1], nil
}
