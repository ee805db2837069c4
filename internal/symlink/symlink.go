// Package symlink maintains the readable projection: symbolic links from
// human-navigable directories to content-addressed artifacts.
//
// Projection is strictly best-effort. A cache must stay correct on
// filesystems without symlink support and in directories another process
// already populated, so every failure here is swallowed; only
// discoverability degrades.
package symlink

import (
	"os"
	"path/filepath"

	"go.uber.org/zap"
)

const dirPerm = 0o700

// Project ensures dir exists and creates a symbolic link named name inside
// it pointing at target. The link target is stored relative to dir so the
// cache tree stays portable when moved.
//
// If anything already exists at the link path it is left untouched: first
// writer wins for a given readable path, even when a later call resolves to
// a different artifact. Failures are logged at debug level and never
// returned.
func Project(log *zap.Logger, dir, name, target string) {
	if log == nil {
		log = zap.NewNop()
	}
	if err := os.MkdirAll(dir, dirPerm); err != nil {
		log.Debug("readable dir creation failed", zap.String("dir", dir), zap.Error(err))
		return
	}

	linkPath := filepath.Join(dir, name)
	if _, err := os.Lstat(linkPath); err == nil {
		// First writer wins. The existing entry is not verified against
		// the new target.
		return
	}

	rel, err := filepath.Rel(dir, target)
	if err != nil {
		log.Debug("relative link target failed",
			zap.String("dir", dir), zap.String("target", target), zap.Error(err))
		return
	}
	if err := os.Symlink(rel, linkPath); err != nil {
		log.Debug("symlink creation failed",
			zap.String("link", linkPath), zap.String("target", rel), zap.Error(err))
	}
}
