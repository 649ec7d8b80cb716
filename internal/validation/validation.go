// Package validation checks command line paths before any report is read.
package validation

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

// ValidateInputFile checks that path is a readable regular file with one of the
// given extensions. Extensions are compared case-insensitively.
func ValidateInputFile(path string, extensions ...string) error {
	if strings.TrimSpace(path) == "" {
		return fmt.Errorf("input file must be specified")
	}
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return fmt.Errorf("input file does not exist: %s", path)
	}
	if err != nil {
		return fmt.Errorf("error checking input file %s: %w", path, err)
	}
	if !info.Mode().IsRegular() {
		return fmt.Errorf("input path %s is not a regular file", path)
	}

	if len(extensions) > 0 {
		ext := strings.ToLower(filepath.Ext(path))
		if !slices.ContainsFunc(extensions, func(e string) bool { return strings.EqualFold(e, ext) }) {
			return fmt.Errorf("unsupported input file type %q: supported types are %s", ext, strings.Join(extensions, ", "))
		}
	}
	return nil
}

// ValidateInputDirectory checks that dir exists and is a directory.
func ValidateInputDirectory(dir string) error {
	if strings.TrimSpace(dir) == "" {
		return fmt.Errorf("input directory must be specified")
	}
	info, err := os.Stat(dir)
	if os.IsNotExist(err) {
		return fmt.Errorf("input directory does not exist: %s", dir)
	}
	if err != nil {
		return fmt.Errorf("error checking input directory %s: %w", dir, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("input path %s is not a directory", dir)
	}
	return nil
}

// ValidateOutputDirectory checks that dir is either missing, so it can be
// created, or an existing directory.
func ValidateOutputDirectory(dir string) error {
	if strings.TrimSpace(dir) == "" {
		return fmt.Errorf("output directory must be specified")
	}
	info, err := os.Stat(dir)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("error checking output directory %s: %w", dir, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("output path %s exists and is not a directory", dir)
	}
	return nil
}

// IsValidFilePermissions checks that a file mode grants nothing to others.
func IsValidFilePermissions(mode os.FileMode) error {
	if mode&0007 != 0 {
		return fmt.Errorf("file permissions are too permissive: %s. Recommended 0600 or 0640", mode.String())
	}
	return nil
}
