package refactor

import (
	"context"
	"fmt"
	"os"
	"path"
	"strings"

	"github.com/sevigo/evo-warden/internal/core"
)

// fileBackup holds the pre-change content of every touched file, keyed by
// path. Missing files (e.g. targets of a create) are recorded as absent so a
// restore can delete them again.
type fileBackup struct {
	contents map[string]string
	absent   map[string]struct{}
}

// backupFiles copies every touched file's pre-change content into the backup
// path namespaced by execution id and timestamp, and keeps an in-memory copy
// for the restore path.
func (e *Executor) backupFiles(ctx context.Context, exec *core.RefactorExecution) (*fileBackup, error) {
	backup := &fileBackup{
		contents: map[string]string{},
		absent:   map[string]struct{}{},
	}
	exec.BackupPath = path.Join(e.backupRoot, fmt.Sprintf("%s-%d", exec.ID, exec.StartedAt.Unix()))

	for _, p := range touchedPaths(exec.Changes) {
		content, err := e.files.Read(ctx, p)
		if err != nil {
			// A create target legitimately does not exist yet.
			backup.absent[p] = struct{}{}
			continue
		}
		backup.contents[p] = content
		if err := e.files.Write(ctx, path.Join(exec.BackupPath, sanitizeBackupName(p)), content); err != nil {
			return nil, fmt.Errorf("failed to write backup for %s: %w", p, err)
		}
	}
	return backup, nil
}

// applyChanges performs the suggestion's mutations in list order.
func (e *Executor) applyChanges(ctx context.Context, changes []core.FileChange) error {
	for i, c := range changes {
		var err error
		switch c.Operation {
		case core.OpCreate, core.OpUpdate:
			err = e.files.Write(ctx, c.File, c.NewContent)
		case core.OpDelete:
			err = e.files.Delete(ctx, c.File)
		case core.OpRename:
			err = e.files.Rename(ctx, c.OldPath, c.NewPath)
		default:
			err = fmt.Errorf("unknown operation %q", c.Operation)
		}
		if err != nil {
			return fmt.Errorf("change %d (%s %s): %w", i, c.Operation, c.File, err)
		}
	}
	return nil
}

// restore puts every touched file back to its pre-execution content. Restores
// are best-effort per file; individual failures are logged and the remaining
// files are still restored.
func (e *Executor) restore(ctx context.Context, exec *core.RefactorExecution, backup *fileBackup) {
	// Undo renames first so content restores target the original paths.
	for i := len(exec.Changes) - 1; i >= 0; i-- {
		c := exec.Changes[i]
		if c.Operation == core.OpRename {
			if err := e.files.Rename(ctx, c.NewPath, c.OldPath); err != nil {
				e.logger.Error("failed to undo rename", "from", c.NewPath, "to", c.OldPath, "error", err)
			}
		}
	}
	for p, content := range backup.contents {
		if err := e.files.Write(ctx, p, content); err != nil {
			e.logger.Error("failed to restore file from backup", "file", p, "error", err)
		}
	}
	for p := range backup.absent {
		if err := e.files.Delete(ctx, p); err != nil && !os.IsNotExist(err) {
			e.logger.Error("failed to remove created file during restore", "file", p, "error", err)
		}
	}
}

// touchedPaths lists every path a change set reads or writes, for locking and
// backups.
func touchedPaths(changes []core.FileChange) []string {
	var paths []string
	for _, c := range changes {
		switch c.Operation {
		case core.OpRename:
			paths = append(paths, c.OldPath, c.NewPath)
		default:
			paths = append(paths, c.File)
		}
	}
	return paths
}

func sanitizeBackupName(p string) string {
	return strings.ReplaceAll(strings.ReplaceAll(p, "/", "__"), "\\", "__")
}
