package upload

import (
	"errors"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

var ErrEmptyUpload = errors.New("no file was uploaded")
var ErrFileNotFound = errors.New("file not found")
var ErrTooLarge = errors.New("file is too large")
var ErrBadExtension = errors.New("file type is not allowed")

// one Folder for one kind of upload, like "downloads" or "picts"
type Folder interface {
	Delete(filename string) error
	Name() string
	Files() ([]os.FileInfo, error)
	HasFile(filename string) (bool, error)
	Upload(filename string, src io.Reader) (string, error) // returns the stored filename
	ServeAttachment(w http.ResponseWriter, req *http.Request, filename string) error
}

var unsafeChars = regexp.MustCompile(`[^A-Za-z0-9._-]`)

// CleanFilename sanitizes an uploaded filename. It strips any path,
// replaces whitespace with underscores and drops unsafe characters.
func CleanFilename(filename string) (string, error) {
	filename = filepath.Base(filename)
	filename = strings.TrimSpace(filename)
	filename = strings.Join(strings.Fields(filename), "_")
	filename = unsafeChars.ReplaceAllString(filename, "")
	filename = strings.Trim(filename, "._")
	if filename == "" {
		return "", errors.New("filename is empty")
	}
	return filename, nil
}
