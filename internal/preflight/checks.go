package preflight

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/sys/unix"

	"ineta/internal/config"
	"ineta/internal/library"
	"ineta/internal/peaks"
)

// CheckDirectoryAccess verifies that the directory exists and is readable/writable.
// A missing directory passes when its nearest existing parent is writable,
// since the run creates it.
func CheckDirectoryAccess(name, path string) Result {
	if path == "" {
		return Result{Name: name, Detail: "not configured"}
	}
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return checkCreatable(name, path)
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := unix.Access(path, unix.R_OK|unix.W_OK|unix.X_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (read/write ok)", path)}
}

func checkCreatable(name, path string) Result {
	parent := filepath.Dir(path)
	for {
		info, err := os.Stat(parent)
		if err == nil {
			if !info.IsDir() {
				return Result{Name: name, Detail: fmt.Sprintf("%s (error: %s is not a directory)", path, parent)}
			}
			if err := unix.Access(parent, unix.W_OK|unix.X_OK); err != nil {
				return Result{Name: name, Detail: fmt.Sprintf("%s (error: cannot create under %s: %v)", path, parent, err)}
			}
			return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (will be created)", path)}
		}
		next := filepath.Dir(parent)
		if next == parent {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: no existing parent)", path)}
		}
		parent = next
	}
}

// CheckReadableFile verifies that path names a readable regular file.
func CheckReadableFile(name, path string) Result {
	if path == "" {
		return Result{Name: name, Detail: "not configured"}
	}
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is a directory)", path)}
	}
	if err := unix.Access(path, unix.R_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: not readable: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: path}
}

// CheckPeaks verifies that the peak list parses and has at least one level.
func CheckPeaks(path string) Result {
	const name = "Peak list"

	if access := CheckReadableFile(name, path); !access.Passed {
		return access
	}
	levels, err := peaks.Load(path)
	if err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: %v)", path, err)}
	}
	for _, idx := range levels.Indices() {
		if len(levels[idx]) == 0 {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: level %d is empty)", path, idx)}
		}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (%d levels, %d peaks)", path, len(levels), levels.Total())}
}

// CheckLibrary verifies that the reference library parses and that the
// metabolite filter keeps at least one entry.
func CheckLibrary(path string, metabolites []string) Result {
	const name = "Reference library"

	if access := CheckReadableFile(name, path); !access.Passed {
		return access
	}
	lib, err := library.Load(path)
	if err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: %v)", path, err)}
	}
	if lib.Len() == 0 {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: no usable entries, %d skipped)", path, len(lib.Skipped))}
	}
	selected := lib.Filter(metabolites)
	if selected.Len() == 0 {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: no entries match matching.metabolites)", path)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (%d entries, %d skipped)", path, selected.Len(), len(lib.Skipped))}
}

// CheckConfig reports configuration validation errors.
func CheckConfig(cfg *config.Config) Result {
	const name = "Configuration"

	if err := cfg.Validate(); err != nil {
		return Result{Name: name, Detail: err.Error()}
	}
	return Result{Name: name, Passed: true, Detail: "valid"}
}
