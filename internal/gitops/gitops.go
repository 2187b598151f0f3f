// Package gitops versions a workspace's configuration and reviewer
// decisions with the git command line.
package gitops

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// ErrNoGit is returned when no git binary is on PATH.
var ErrNoGit = errors.New("git not found on PATH")

// Author identifies who a commit is recorded for. It is passed through the
// environment so commits work without a global git identity.
type Author struct {
	Name  string
	Email string
}

// DefaultAuthor is used for commits made by ghostledger itself.
var DefaultAuthor = Author{Name: "ghostledger", Email: "ghostledger@localhost"}

// Available reports whether git can be run.
func Available() bool {
	_, err := exec.LookPath("git")
	return err == nil
}

// Init initializes a new git repository at dir.
func Init(dir string) error {
	if !Available() {
		return ErrNoGit
	}
	if _, err := git(dir, nil, "init", "--quiet"); err != nil {
		return err
	}
	return nil
}

// IsRepo reports whether dir is the root of a git repository.
func IsRepo(dir string) bool {
	_, err := os.Stat(filepath.Join(dir, ".git"))
	return err == nil
}

// Commit stages paths (relative to dir, or everything when empty) and
// records a commit. It returns the short hash, or "" when nothing changed.
func Commit(dir, message string, author Author, paths ...string) (string, error) {
	add := []string{"add", "-A"}
	if len(paths) > 0 {
		add = append(add, "--")
		add = append(add, paths...)
	}
	if _, err := git(dir, nil, add...); err != nil {
		return "", err
	}

	// diff --cached --quiet exits 0 when the index matches HEAD.
	if _, err := git(dir, nil, "diff", "--cached", "--quiet"); err == nil {
		return "", nil
	}

	env := []string{
		"GIT_AUTHOR_NAME=" + author.Name,
		"GIT_AUTHOR_EMAIL=" + author.Email,
		"GIT_COMMITTER_NAME=" + author.Name,
		"GIT_COMMITTER_EMAIL=" + author.Email,
	}
	if _, err := git(dir, env, "commit", "--quiet", "-m", message); err != nil {
		return "", err
	}

	out, err := git(dir, nil, "rev-parse", "--short", "HEAD")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}

func git(dir string, env []string, args ...string) (string, error) {
	cmd := exec.Command("git", args...)
	cmd.Dir = dir
	cmd.Env = append(os.Environ(), env...)
	out, err := cmd.CombinedOutput()
	if err != nil {
		return "", fmt.Errorf("git %s: %s: %w", args[0], strings.TrimSpace(string(out)), err)
	}
	return string(out), nil
}
