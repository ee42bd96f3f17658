package filestore

import (
	"io"
	"io/ioutil"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"clubsite/upload"
)

// implements upload.Folder
type Folder struct {
	store *Store
	name  string
}

func (f Folder) fs() string {
	return filepath.Join(f.store.UploadDir, f.name)
}

func (f Folder) Name() string {
	return f.name
}

func (f Folder) Delete(filename string) error {
	filename, err := upload.CleanFilename(filename)
	if err != nil {
		return err
	}
	return os.Remove(filepath.Join(f.fs(), filename))
}

func (f Folder) Files() ([]os.FileInfo, error) {
	files, err := ioutil.ReadDir(f.fs())
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil // nothing has been uploaded yet
		} else {
			return nil, err
		}
	}
	sort.Slice(files, func(i, j int) bool { return files[i].Name() < files[j].Name() })
	return files, nil
}

func (f Folder) HasFile(filename string) (bool, error) {
	filename, err := upload.CleanFilename(filename)
	if err != nil {
		return false, err
	}
	if _, err := os.Stat(filepath.Join(f.fs(), filename)); err == nil {
		return true, nil
	} else if os.IsNotExist(err) {
		return false, nil
	} else {
		return false, err
	}
}

// Upload sanitizes the filename, checks it against the folder's extension
// allow-list and writes the blob. An existing file with the same name is
// overwritten, last write wins. The returned name is the stored filename.
func (f Folder) Upload(filename string, src io.Reader) (string, error) {

	filename, err := upload.CleanFilename(filename)
	if err != nil {
		return "", err
	}

	if exts := f.store.Accept[f.name]; exts != nil {
		var ok bool
		for _, ext := range exts {
			if strings.EqualFold(filepath.Ext(filename), ext) {
				ok = true
				break
			}
		}
		if !ok {
			return "", upload.ErrBadExtension
		}
	}

	err = os.MkdirAll(f.fs(), 0755) // 755 is required if the webserver runs as a different user
	if err != nil {
		return "", err
	}

	var fsPath = filepath.Join(f.fs(), filename)

	dst, err := os.Create(fsPath) // creates or truncates the named file, umask 0666
	if err != nil {
		return "", err
	}
	defer dst.Close()

	if max := f.store.MaxUploadSize; max > 0 {
		written, err := io.Copy(dst, io.LimitReader(src, max+1))
		if err == nil && written > max {
			err = upload.ErrTooLarge
		}
		if err != nil {
			os.Remove(fsPath)
			return "", err
		}
		return filename, nil
	}

	if _, err := io.Copy(dst, src); err != nil {
		os.Remove(fsPath)
		return "", err
	}
	return filename, nil
}

// ServeAttachment serves a stored file with a Content-Disposition header.
// It returns upload.ErrFileNotFound if the backing file is missing,
// so a row referencing a vanished file yields a 404, not a server error.
func (f Folder) ServeAttachment(w http.ResponseWriter, req *http.Request, filename string) error {

	filename, err := upload.CleanFilename(filename)
	if err != nil {
		return err
	}

	var fsPath = filepath.Join(f.fs(), filename)
	if _, err := os.Stat(fsPath); err != nil {
		if os.IsNotExist(err) {
			return upload.ErrFileNotFound
		}
		return err
	}

	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	http.ServeFile(w, req, fsPath)
	return nil
}

// implements upload.Store
type Store struct {
	UploadDir     string              // contains one subfolder per folder name
	MaxUploadSize int64               // bytes, zero means unlimited
	Accept        map[string][]string // folder name => allowed filename extensions, nil means any
}

func (s *Store) Folder(name string) upload.Folder {
	return &Folder{
		store: s,
		name:  name,
	}
}

// ServeHTTP serves stored files as static content, like "/picts/foo.jpg".
// Only folders listed in Accept exist.
func (s *Store) ServeHTTP(writer http.ResponseWriter, req *http.Request) {

	folderName, filename := upload.ParseUrl(req.URL)

	if _, ok := s.Accept[folderName]; !ok {
		http.NotFound(writer, req)
		return
	}

	filename, err := upload.CleanFilename(filename)
	if err != nil {
		http.NotFound(writer, req)
		return
	}

	http.ServeFile(writer, req, filepath.Join(s.UploadDir, folderName, filename))
}
