package gitops

import (
	"bytes"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"github.com/google/uuid"
)

// TagPrefix namespaces every tag created by Snapshot.
const TagPrefix = "seedrun/"

const commitMessage = "automatically generated by seedrun"

func git(dir string, args ...string) ([]byte, error) {
	cmd := exec.Command("git", args...)
	cmd.Dir = dir
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	out, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("git %s: %s: %w", args[0], strings.TrimSpace(stderr.String()), err)
	}
	return out, nil
}

// ValidateTagName rejects names git would misread as options or refuse as
// ref names.
func ValidateTagName(name string) error {
	if name == "" || strings.TrimSpace(name) != name || strings.ContainsAny(name, " \t~^:?*[\\") ||
		strings.HasPrefix(name, "-") || strings.Contains(name, "..") || strings.HasSuffix(name, ".lock") {
		return fmt.Errorf("invalid tag name %q", name)
	}
	return nil
}

// RandomTagName returns an 8 character name for untagged snapshots.
func RandomTagName() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
}

// Snapshot records the working tree of repoDir, untracked files included,
// under an annotated tag seedrun/<name> without moving the current branch.
// Pending changes are committed temporarily and the commit is undone with a
// mixed reset once the tag exists. It returns the full tag name.
func Snapshot(repoDir, name string) (string, error) {
	if name == "" {
		name = RandomTagName()
	}
	if err := ValidateTagName(name); err != nil {
		return "", err
	}
	tag := TagPrefix + name

	if _, err := git(repoDir, "rev-parse", "--verify", "--quiet", "HEAD"); err != nil {
		return "", fmt.Errorf("repository has no commits yet: %w", err)
	}
	if _, err := git(repoDir, "add", "--all"); err != nil {
		return "", err
	}
	staged, err := git(repoDir, "diff", "--cached", "--name-only")
	if err != nil {
		return "", err
	}
	committed := len(bytes.TrimSpace(staged)) > 0
	if committed {
		if _, err := git(repoDir, "commit", "-m", commitMessage); err != nil {
			// unstage what add --all picked up
			if _, resetErr := git(repoDir, "reset", "--mixed"); resetErr != nil {
				return "", errors.Join(err, resetErr)
			}
			return "", err
		}
	}

	_, tagErr := git(repoDir, "tag", "-a", tag, "-m", commitMessage)
	if committed {
		if _, err := git(repoDir, "reset", "--mixed", "HEAD^"); err != nil {
			return "", err
		}
	}
	if tagErr != nil {
		return "", tagErr
	}
	return tag, nil
}

// PruneTags deletes every seedrun/* tag and returns the deleted names.
func PruneTags(repoDir string) ([]string, error) {
	out, err := git(repoDir, "tag", "--list", TagPrefix+"*")
	if err != nil {
		return nil, err
	}
	var deleted []string
	for _, tag := range strings.Fields(string(out)) {
		if _, err := git(repoDir, "tag", "-d", tag); err != nil {
			return deleted, err
		}
		deleted = append(deleted, tag)
	}
	return deleted, nil
}
