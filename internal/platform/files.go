package platform

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// File permissions
const (
	DefaultDirPermissions = 0755
)

// Suffix of the stable partial-artifact file produced on a preserve-cancel
const partialSuffix = "_partial.mp4"

// Extensions of in-progress bookkeeping files that are never the artifact
var skippedExtensions = []string{".part", ".ytdl", ".temp"}

// CreateDirectoryIfNotExists creates directory if it doesn't exist
func CreateDirectoryIfNotExists(dirPath string) error {
	if _, err := os.Stat(dirPath); os.IsNotExist(err) {
		return os.MkdirAll(dirPath, DefaultDirPermissions)
	}
	return nil
}

// PartialPath returns the stable path a preserve-cancel salvages into
func PartialPath(outputDir, jobID string) string {
	return filepath.Join(outputDir, jobID+partialSuffix)
}

// FindJobArtifact locates the primary output file of a job by its id prefix.
// In-progress files and the partial artifact are skipped.
func FindJobArtifact(outputDir, jobID string) (string, error) {
	entries, err := os.ReadDir(outputDir)
	if err != nil {
		return "", fmt.Errorf("read output directory: %w", err)
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if !strings.HasPrefix(name, jobID) || strings.HasSuffix(name, partialSuffix) {
			continue
		}
		if isInProgressFile(name) {
			continue
		}
		return filepath.Join(outputDir, name), nil
	}
	return "", fmt.Errorf("no artifact found for job %s", jobID)
}

// PreservePartial copies whatever the fetcher has written so far to the
// stable partial path, before the fetcher's own cleanup removes its
// temporary file. The on-disk file may still carry an in-progress suffix.
func PreservePartial(currentFile, outputDir, jobID string) error {
	if currentFile == "" {
		return fmt.Errorf("no file reported for job %s", jobID)
	}
	if _, err := os.Stat(currentFile); err != nil {
		if _, partErr := os.Stat(currentFile + ".part"); partErr != nil {
			return fmt.Errorf("find file to preserve: %w", err)
		}
		currentFile = currentFile + ".part"
	}
	return copyFile(currentFile, PartialPath(outputDir, jobID))
}

// RemoveJobFiles deletes every file namespaced by the job id, partial
// artifact included. Individual removal failures are ignored; the next file
// is still attempted.
func RemoveJobFiles(outputDir, jobID string) {
	entries, err := os.ReadDir(outputDir)
	if err != nil {
		return
	}
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasPrefix(entry.Name(), jobID) {
			continue
		}
		_ = os.Remove(filepath.Join(outputDir, entry.Name()))
	}
}

func isInProgressFile(name string) bool {
	for _, ext := range skippedExtensions {
		if strings.HasSuffix(name, ext) {
			return true
		}
	}
	return false
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("open source: %w", err)
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("create destination: %w", err)
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		os.Remove(dst)
		return fmt.Errorf("copy: %w", err)
	}
	return out.Close()
}
