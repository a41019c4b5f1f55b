// Package filex contains local-file helpers used when preparing document
// uploads.
package filex

import (
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"strings"
)

// Office extensions are not guaranteed to be in the system mime table.
var wellKnownTypes = map[string]string{
	".pdf":  "application/pdf",
	".doc":  "application/msword",
	".docx": "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
}

// Info describes a local file candidate for upload.
type Info struct {
	Name      string
	SizeBytes int64
	MimeType  string
}

// Describe stats the file at path and resolves its MIME type from the
// extension. The content itself is not read here.
func Describe(path string) (*Info, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}
	if fi.IsDir() {
		return nil, fmt.Errorf("%s is a directory", path)
	}

	ext := strings.ToLower(filepath.Ext(path))
	mt, ok := wellKnownTypes[ext]
	if !ok {
		mt = mime.TypeByExtension(ext)
	}
	if mt == "" {
		mt = "application/octet-stream"
	}
	// mime.TypeByExtension may append a charset parameter
	if i := strings.IndexByte(mt, ';'); i >= 0 {
		mt = strings.TrimSpace(mt[:i])
	}

	return &Info{Name: filepath.Base(path), SizeBytes: fi.Size(), MimeType: mt}, nil
}

// ExtensionFor returns the file extension for a MIME type, preferring the
// well-known office types over the system table. Empty when the type is
// unknown.
func ExtensionFor(mimeType string) string {
	if i := strings.IndexByte(mimeType, ';'); i >= 0 {
		mimeType = strings.TrimSpace(mimeType[:i])
	}
	for ext, mt := range wellKnownTypes {
		if mt == mimeType {
			return ext
		}
	}
	exts, err := mime.ExtensionsByType(mimeType)
	if err != nil || len(exts) == 0 {
		return ""
	}
	return exts[0]
}

// EnsureSubDir creates (if needed) and returns a subdirectory of the current
// working directory, used for downloaded documents.
func EnsureSubDir(dirName string) (string, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("getwd: %w", err)
	}

	dir := filepath.Join(cwd, dirName)

	if err := os.MkdirAll(dir, 0o770); err != nil {
		return "", fmt.Errorf("mkdir %s: %w", dir, err)
	}

	return dir, nil
}
