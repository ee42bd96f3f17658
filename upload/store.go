package upload

import (
	"net/http"
	"net/url"
	"path"
	"strings"
)

type Store interface {
	Folder(name string) Folder
	ServeHTTP(writer http.ResponseWriter, req *http.Request) // serves stored files as static content
}

// ParseUrl parses an url like "/picts/foo.jpg" into a folder name and a filename.
func ParseUrl(u *url.URL) (folder string, filename string) {
	folder, filename = path.Split(u.Path)
	folder = strings.Trim(folder, "/")
	filename = strings.TrimSpace(filename)
	return
}
