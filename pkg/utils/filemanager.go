// =============================================================================
// Workshop Receipts - File Manager Utility
// =============================================================================
//
// This module provides the folder capability the session works against:
//   - Opening the operator's work folder
//   - Get-or-create of child folders (Recibos/<year>/<Month>/<workshop>)
//   - Reading and writing the bookkeeping files
//   - Downloading files to a local directory when no folder is usable
//
// WRITE STRATEGY:
//   - Folder files are written to a temporary sibling and renamed into place,
//     so an interrupted save never leaves a truncated workbook behind
//   - Downloads never overwrite: "recibo.pdf" becomes "recibo (1).pdf"
//
// =============================================================================

package utils

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ErrNoSelection is returned when no folder was chosen.
var ErrNoSelection = errors.New("no folder selected")

// =============================================================================
// FOLDER CAPABILITY
// =============================================================================

// Folder is a directory the application may read and write.
//
// ReadFile returns an error wrapping fs.ErrNotExist when the file is missing.
type Folder interface {
	// Name is the display name of the folder.
	Name() string

	// Folder returns the named child folder, creating it if needed.
	Folder(name string) (Folder, error)

	// ReadFile returns the contents of a file in this folder.
	ReadFile(name string) ([]byte, error)

	// WriteFile creates or replaces a file in this folder.
	WriteFile(name string, data []byte) error
}

// LocalFolder is a Folder on the local filesystem.
type LocalFolder struct {
	path string
}

// OpenFolder opens a work folder, creating it if it does not exist.
//
// PARAMETERS:
//   - path: The folder path. An empty path means nothing was selected.
//
// RETURNS:
//   - The folder.
//   - ErrNoSelection for an empty path, or an error if the path is not a
//     usable directory.
func OpenFolder(path string) (*LocalFolder, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, ErrNoSelection
	}

	if err := os.MkdirAll(path, 0755); err != nil {
		return nil, fmt.Errorf("failed to open folder %s: %w", path, err)
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open folder %s: %w", path, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s is not a directory", path)
	}

	return &LocalFolder{path: path}, nil
}

// Path returns the filesystem path of the folder.
func (f *LocalFolder) Path() string {
	return f.path
}

// Name implements Folder.
func (f *LocalFolder) Name() string {
	return filepath.Base(f.path)
}

// Folder implements Folder.
func (f *LocalFolder) Folder(name string) (Folder, error) {
	if err := checkName(name); err != nil {
		return nil, err
	}

	child := filepath.Join(f.path, name)
	if err := os.MkdirAll(child, 0755); err != nil {
		return nil, fmt.Errorf("failed to create folder %s: %w", name, err)
	}

	return &LocalFolder{path: child}, nil
}

// ReadFile implements Folder.
func (f *LocalFolder) ReadFile(name string) ([]byte, error) {
	if err := checkName(name); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(filepath.Join(f.path, name))
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", name, err)
	}

	return data, nil
}

// WriteFile implements Folder.
func (f *LocalFolder) WriteFile(name string, data []byte) error {
	if err := checkName(name); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(f.path, "."+name+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to write %s: %w", name, err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write %s: %w", name, err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to write %s: %w", name, err)
	}

	if err := os.Rename(tmpName, filepath.Join(f.path, name)); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to write %s: %w", name, err)
	}

	return nil
}

// checkName rejects names that would escape the folder.
func checkName(name string) error {
	if name == "" || name == "." || name == ".." || strings.ContainsAny(name, `/\`) {
		return fmt.Errorf("invalid file name %q", name)
	}
	return nil
}

// SaveInFolder writes a file below root, creating the intermediate folders.
//
// PARAMETERS:
//   - root: The work folder.
//   - segments: Child folder names, outermost first. Empty names are
//     skipped.
//   - name: The file name.
//   - data: The file contents.
//
// RETURNS:
//   - The display path, e.g. "Talleres/Recibos/2024/Marzo/Pintura/x.pdf".
//   - An error if any folder or the file cannot be written.
func SaveInFolder(root Folder, segments []string, name string, data []byte) (string, error) {
	dir := root
	parts := []string{root.Name()}

	for _, seg := range segments {
		if seg == "" {
			continue
		}
		child, err := dir.Folder(seg)
		if err != nil {
			return "", err
		}
		dir = child
		parts = append(parts, seg)
	}

	if err := dir.WriteFile(name, data); err != nil {
		return "", err
	}

	return strings.Join(append(parts, name), "/"), nil
}

// =============================================================================
// DOWNLOADS
// =============================================================================

// Downloader hands a file to the operator outside the work folder.
type Downloader interface {
	// Download stores data under a name derived from name and returns the
	// path it was written to.
	Download(name string, data []byte) (string, error)
}

// DownloadDir is a Downloader writing into a local directory.
type DownloadDir struct {
	// Dir is the target directory. It is created on first use.
	Dir string
}

// NewDownloadDir returns a Downloader writing into dir.
func NewDownloadDir(dir string) *DownloadDir {
	return &DownloadDir{Dir: dir}
}

// maxDownloadSuffix bounds the " (n)" search.
const maxDownloadSuffix = 10000

// writeDownload writes the contents of a new download.
var writeDownload = (*os.File).Write

// Download implements Downloader. An existing file is never replaced; the
// name gets a " (n)" suffix before the extension instead.
func (d *DownloadDir) Download(name string, data []byte) (string, error) {
	if err := checkName(name); err != nil {
		return "", err
	}
	if err := os.MkdirAll(d.Dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create downloads directory: %w", err)
	}

	ext := filepath.Ext(name)
	base := strings.TrimSuffix(name, ext)

	for n := 0; n < maxDownloadSuffix; n++ {
		candidate := name
		if n > 0 {
			candidate = fmt.Sprintf("%s (%d)%s", base, n, ext)
		}
		path := filepath.Join(d.Dir, candidate)

		file, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
		if errors.Is(err, os.ErrExist) {
			continue
		}
		if err != nil {
			return "", fmt.Errorf("failed to download %s: %w", name, err)
		}

		if _, err := writeDownload(file, data); err != nil {
			file.Close()
			os.Remove(path)
			return "", fmt.Errorf("failed to download %s: %w", name, err)
		}
		if err := file.Close(); err != nil {
			return "", fmt.Errorf("failed to download %s: %w", name, err)
		}
		return path, nil
	}

	return "", fmt.Errorf("failed to download %s: too many copies", name)
}

// =============================================================================
// UTILITY FUNCTIONS
// =============================================================================

// FileExists checks if a file exists.
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return !os.IsNotExist(err)
}
