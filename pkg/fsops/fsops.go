// Package fsops implements the File Manager (spec §4.9): transactional
// create/remove/copy/rename primitives with an inverse-action rollback
// stack, plus the collision-resolution and backup policies the Match
// Engine layers on top of them (spec §4.7.2/§4.7.3). The teacher's
// upload/uploader.go was left as an unimplemented stub for exactly this
// kind of transactional file mutation component, so this package fills
// that gap rather than adapting any working teacher code.
package fsops

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"

	coreerrors "github.com/subx-cli/subx/pkg/core/errors"
	"github.com/subx-cli/subx/pkg/matchplan"
)

// maxAutoRenameAttempts bounds AutoRename collision resolution (spec
// §4.7.2: "bounded by 10,000 attempts before failing").
const maxAutoRenameAttempts = 10000

type action struct {
	description string
	inverse     func() error
}

// Manager executes filesystem mutations and tracks their inverses so a
// failed transaction can be unwound (spec §4.9).
type Manager struct {
	mu     sync.Mutex
	stack  []action
	logger *logrus.Logger
}

// NewManager builds a Manager. If logger is nil, the package-default
// logrus logger is used.
func NewManager(logger *logrus.Logger) *Manager {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Manager{logger: logger}
}

// Create writes data to path and pushes its inverse (remove) onto the
// rollback stack.
func (m *Manager) Create(path string, data []byte) error {
	if err := os.WriteFile(path, data, 0644); err != nil {
		return &coreerrors.FileOperationError{Op: "create", Path: path, Cause: err, RolledBack: true}
	}
	m.push(fmt.Sprintf("create %s", path), func() error { return os.Remove(path) })
	return nil
}

// Remove deletes path. If backupPath is non-empty, the caller has already
// copied path there, so rollback restores from it; otherwise rollback of
// this step is impossible and a warning is logged (spec §4.9).
func (m *Manager) Remove(path, backupPath string) error {
	if err := os.Remove(path); err != nil {
		return &coreerrors.FileOperationError{Op: "remove", Path: path, Cause: err, RolledBack: true}
	}
	if backupPath != "" {
		m.push(fmt.Sprintf("remove %s", path), func() error { return os.Rename(backupPath, path) })
	} else {
		m.logger.Warnf("fsops: remove of %s has no backup, rollback will not be able to restore it", path)
		m.push(fmt.Sprintf("remove %s (unrecoverable)", path), func() error {
			return fmt.Errorf("no backup available to restore %s", path)
		})
	}
	return nil
}

// Copy copies src to dst and pushes its inverse (remove the copy).
func (m *Manager) Copy(src, dst string) error {
	if err := copyFile(src, dst); err != nil {
		return &coreerrors.FileOperationError{Op: "copy", Path: dst, Cause: err, RolledBack: true}
	}
	m.push(fmt.Sprintf("copy %s -> %s", src, dst), func() error { return os.Remove(dst) })
	return nil
}

// Rename moves src to dst (same filesystem) and pushes its inverse
// (rename back).
func (m *Manager) Rename(src, dst string) error {
	if err := os.Rename(src, dst); err != nil {
		return &coreerrors.FileOperationError{Op: "rename", Path: dst, Cause: err, RolledBack: true}
	}
	m.push(fmt.Sprintf("rename %s -> %s", src, dst), func() error { return os.Rename(dst, src) })
	return nil
}

// MoveCrossFilesystem performs rename, falling back to copy+delete when the
// source and destination are on different filesystems (spec §4.7.1).
func (m *Manager) MoveCrossFilesystem(src, dst string) error {
	if err := os.Rename(src, dst); err == nil {
		m.push(fmt.Sprintf("move %s -> %s", src, dst), func() error { return os.Rename(dst, src) })
		return nil
	}
	if err := copyFile(src, dst); err != nil {
		return &coreerrors.FileOperationError{Op: "move", Path: dst, Cause: err, RolledBack: true}
	}
	if err := os.Remove(src); err != nil {
		_ = os.Remove(dst)
		return &coreerrors.FileOperationError{Op: "move", Path: dst, Cause: err, RolledBack: true}
	}
	m.push(fmt.Sprintf("move(copy+delete) %s -> %s", src, dst), func() error {
		if err := copyFile(dst, src); err != nil {
			return err
		}
		return os.Remove(dst)
	})
	return nil
}

func (m *Manager) push(description string, inverse func() error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stack = append(m.stack, action{description: description, inverse: inverse})
}

// Rollback unwinds every action pushed since the last Commit/Rollback, in
// reverse order, best-effort. It reports whether every inverse succeeded.
func (m *Manager) Rollback() (complete bool) {
	m.mu.Lock()
	stack := m.stack
	m.stack = nil
	m.mu.Unlock()

	complete = true
	for i := len(stack) - 1; i >= 0; i-- {
		if err := stack[i].inverse(); err != nil {
			complete = false
			m.logger.Warnf("fsops: rollback step %q failed: %v", stack[i].description, err)
		}
	}
	return complete
}

// Commit discards the rollback stack: the transaction succeeded and its
// mutations are kept.
func (m *Manager) Commit() {
	m.mu.Lock()
	m.stack = nil
	m.mu.Unlock()
}

// ResolveCollision applies a ConflictResolution policy to a desired target
// path that may already exist (spec §4.7.2). Prompt is treated as
// AutoRename when no interactive callback is wired in, which this package
// never has.
func ResolveCollision(target string, policy matchplan.ConflictResolution) (resolved string, skip bool, err error) {
	if _, statErr := os.Stat(target); os.IsNotExist(statErr) {
		return target, false, nil
	}

	switch policy {
	case matchplan.ConflictSkip:
		return target, true, nil
	case matchplan.ConflictAutoRename, matchplan.ConflictPrompt, "":
		ext := filepath.Ext(target)
		stem := strings.TrimSuffix(target, ext)
		for i := 1; i <= maxAutoRenameAttempts; i++ {
			candidate := stem + "_" + strconv.Itoa(i) + ext
			if _, statErr := os.Stat(candidate); os.IsNotExist(statErr) {
				return candidate, false, nil
			}
		}
		return "", false, fmt.Errorf("fsops: exceeded %d AutoRename attempts for %s", maxAutoRenameAttempts, target)
	default:
		return "", false, fmt.Errorf("fsops: unknown conflict resolution policy %q", policy)
	}
}

// Backup copies an existing destination path to a sibling
// "<name>.<ext>.backup" before a destructive step overwrites it (spec
// §4.7.3). Collisions on the backup name follow the same AutoRename rule.
// If path does not exist, Backup is a no-op and returns "".
func Backup(path string) (backupPath string, err error) {
	if _, statErr := os.Stat(path); os.IsNotExist(statErr) {
		return "", nil
	}

	target := path + ".backup"
	resolved, skip, err := ResolveCollision(target, matchplan.ConflictAutoRename)
	if err != nil {
		return "", err
	}
	if skip {
		return "", fmt.Errorf("fsops: could not resolve backup path for %s", path)
	}
	if err := copyFile(path, resolved); err != nil {
		return "", fmt.Errorf("fsops: backing up %s: %w", path, err)
	}
	return resolved, nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return err
	}
	return out.Close()
}
