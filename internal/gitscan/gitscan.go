// Package gitscan enumerates today's commits across the local branches of
// a set of git repositories, via the git subprocess.
package gitscan

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"sort"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/stevendejongnl/harv/internal/model"
)

// ErrNoRepository signals that no repositories are configured and the
// current directory is not one. The CLI answers it with usage help.
var ErrNoRepository = errors.New("current directory is not a git repository")

// field and record separators for git log output parsing
const (
	fieldSep  = "\x1f"
	recordSep = "\x1e"
)

func git(dir string, args ...string) (string, error) {
	cmd := exec.Command("git", args...)
	cmd.Dir = dir
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return "", fmt.Errorf("git %s: %s", args[0], msg)
		}
		return "", fmt.Errorf("git %s: %w", args[0], err)
	}
	return stdout.String(), nil
}

// IsRepository reports whether path is inside a git repository.
func IsRepository(path string) bool {
	_, err := git(path, "rev-parse", "--git-dir")
	return err == nil
}

// DiscoverRepositories resolves the repository list to scan. With no
// configured paths it falls back to the current working directory and
// returns ErrNoRepository when that is not a repository. Configured paths
// that do not open as repositories are skipped with a warning; an error is
// returned only when none remain.
func DiscoverRepositories(configured []string, log *zap.Logger) ([]string, error) {
	if len(configured) == 0 {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("determining working directory: %w", err)
		}
		if !IsRepository(cwd) {
			return nil, ErrNoRepository
		}
		return []string{cwd}, nil
	}

	var valid []string
	for _, path := range configured {
		if IsRepository(path) {
			valid = append(valid, path)
		} else {
			log.Warn("Configured path is not a valid git repository", zap.String("path", path))
		}
	}
	if len(valid) == 0 {
		return nil, fmt.Errorf("no valid git repositories found in configuration")
	}
	return valid, nil
}

// TodaysCommits returns the commits whose committer time falls between the
// local midnight and now, across every local branch of the repository,
// deduplicated by commit hash and sorted by timestamp descending.
func TodaysCommits(repoPath string) ([]model.Commit, error) {
	now := time.Now()
	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	return commitsInWindow(repoPath, startOfDay, now)
}

func commitsInWindow(repoPath string, from, to time.Time) ([]model.Commit, error) {
	out, err := git(repoPath, "for-each-ref", "--format=%(refname:short)", "refs/heads/")
	if err != nil {
		return nil, fmt.Errorf("listing branches in %s: %w", repoPath, err)
	}

	var commits []model.Commit
	seen := make(map[string]struct{})

	for _, branch := range strings.Fields(out) {
		// --since prunes the walk at the first commit older than the
		// window; the explicit timestamp check below enforces the exact
		// bounds on committer time.
		logOut, err := git(repoPath, "log", branch,
			"--since="+from.Format(time.RFC3339),
			"--format=%H"+fieldSep+"%ct"+fieldSep+"%an"+fieldSep+"%B"+recordSep)
		if err != nil {
			return nil, fmt.Errorf("walking branch %s in %s: %w", branch, repoPath, err)
		}

		for _, record := range strings.Split(logOut, recordSep) {
			record = strings.TrimLeft(record, "\n")
			if record == "" {
				continue
			}
			fields := strings.SplitN(record, fieldSep, 4)
			if len(fields) != 4 {
				continue
			}
			hash := fields[0]
			if _, ok := seen[hash]; ok {
				continue
			}
			ts, err := strconv.ParseInt(fields[1], 10, 64)
			if err != nil {
				continue
			}
			if ts < from.Unix() || ts > to.Unix() {
				continue
			}
			seen[hash] = struct{}{}
			commits = append(commits, model.Commit{
				Message:   strings.TrimRight(fields[3], "\n"),
				Author:    fields[2],
				Timestamp: ts,
			})
		}
	}

	sort.Slice(commits, func(i, j int) bool {
		return commits[i].Timestamp > commits[j].Timestamp
	})
	return commits, nil
}

// CommitsFromRepositories scans every repository and merges the results,
// sorted by timestamp descending. A failing repository is skipped with a
// warning when several are scanned; with a single repository the failure
// is returned.
func CommitsFromRepositories(repoPaths []string, log *zap.Logger) ([]model.Commit, error) {
	var all []model.Commit
	for _, path := range repoPaths {
		commits, err := TodaysCommits(path)
		if err != nil {
			if len(repoPaths) == 1 {
				return nil, err
			}
			log.Warn("Failed to scan repository", zap.String("path", path), zap.Error(err))
			continue
		}
		all = append(all, commits...)
	}

	sort.Slice(all, func(i, j int) bool {
		return all[i].Timestamp > all[j].Timestamp
	})
	return all, nil
}
