package match

import (
	"path/filepath"

	"github.com/subx-cli/subx/pkg/fsops"
	"github.com/subx-cli/subx/pkg/matchplan"
)

// execute runs every operation in list order through the File Manager,
// following the copy/move mode matrix (spec §4.7.1) and the collision and
// backup policies (§4.7.2/§4.7.3). A failure in one operation does not
// abort the rest: every operation gets a result, and the cache is written
// regardless (spec §4.7 step 8).
func (e *Engine) execute(operations []matchplan.MatchOperation, conflictPolicy matchplan.ConflictResolution) []matchplan.OperationResult {
	results := make([]matchplan.OperationResult, 0, len(operations))
	for _, op := range operations {
		results = append(results, e.executeOne(op, conflictPolicy))
	}
	return results
}

func (e *Engine) executeOne(op matchplan.MatchOperation, conflictPolicy matchplan.ConflictResolution) matchplan.OperationResult {
	manager := fsops.NewManager(e.logger)

	dest := op.RelocationTargetPath
	if dest == "" {
		dest = filepath.Join(op.Subtitle.ParentDir(), op.NewSubtitleName)
	}

	resolvedDest, skip, err := fsops.ResolveCollision(dest, conflictPolicy)
	if err != nil {
		return matchplan.OperationResult{Operation: op, Status: matchplan.StatusFailed, Reason: err.Error()}
	}
	if skip {
		return matchplan.OperationResult{Operation: op, Status: matchplan.StatusSkipped}
	}

	if op.BackupEnabled {
		if _, err := fsops.Backup(resolvedDest); err != nil {
			e.logger.Warnf("match: backup before mutating %s failed: %v", resolvedDest, err)
		}
	}

	switch {
	case op.RelocationMode == matchplan.RelocationCopy && op.RequiresRelocation:
		if err := manager.Copy(op.Subtitle.AbsolutePath, resolvedDest); err != nil {
			manager.Rollback()
			return matchplan.OperationResult{Operation: op, Status: matchplan.StatusFailed, Reason: err.Error()}
		}
		manager.Commit()
		return matchplan.OperationResult{Operation: op, Status: matchplan.StatusCopied}

	case op.RelocationMode == matchplan.RelocationMove && op.RequiresRelocation:
		renamedInPlace := filepath.Join(op.Subtitle.ParentDir(), op.NewSubtitleName)
		if renamedInPlace != op.Subtitle.AbsolutePath {
			if err := manager.Rename(op.Subtitle.AbsolutePath, renamedInPlace); err != nil {
				manager.Rollback()
				return matchplan.OperationResult{Operation: op, Status: matchplan.StatusFailed, Reason: err.Error()}
			}
		}
		if err := manager.MoveCrossFilesystem(renamedInPlace, resolvedDest); err != nil {
			manager.Rollback()
			return matchplan.OperationResult{Operation: op, Status: matchplan.StatusFailed, Reason: err.Error()}
		}
		manager.Commit()
		return matchplan.OperationResult{Operation: op, Status: matchplan.StatusMoved}

	default:
		// relocation_mode None, or Copy/Move without requires_relocation:
		// rename in place (spec §4.7.1).
		if resolvedDest == op.Subtitle.AbsolutePath {
			manager.Commit()
			return matchplan.OperationResult{Operation: op, Status: matchplan.StatusRenamed}
		}
		if err := manager.Rename(op.Subtitle.AbsolutePath, resolvedDest); err != nil {
			manager.Rollback()
			return matchplan.OperationResult{Operation: op, Status: matchplan.StatusFailed, Reason: err.Error()}
		}
		manager.Commit()
		return matchplan.OperationResult{Operation: op, Status: matchplan.StatusRenamed}
	}
}
