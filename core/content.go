package core

import (
	"errors"
)

// ErrNotFound is returned by the stores when a row does not exist.
var ErrNotFound = errors.New("not found")

// A Download is a downloadable file with some metadata.
// Many projects may reference the same download.
type Download struct {
	ID          int
	Title       string
	Description string
	Filename    string // stored filename in the downloads folder
}

type Project struct {
	ID          int
	Title       string
	Description string
	Link        string // external project link, may be empty
	Created     int64  // unix timestamp
	AuthorID    int    // zero if created anonymously
	DownloadID  int    // zero if the project has no download
}

type News struct {
	ID          int
	Title       string
	ImageFile   string // stored filename in the picts folder
	Description string
	Created     int64 // unix timestamp
	AuthorID    int
}

type DownloadDB interface {
	GetDownload(id int) (Download, error)
	GetAllDownloads() ([]Download, error)
	InsertDownload(title, description, filename string) (Download, error)
}

type ProjectDB interface {
	GetProject(id int) (Project, error)
	GetAllProjects() ([]Project, error)
	InsertProject(p Project) (Project, error)
	// InsertProjectWithDownload inserts the download row and the project
	// referencing it in a single transaction.
	InsertProjectWithDownload(p Project, d Download) (Project, Download, error)
	UpdateProject(p Project) error
	// UpdateProjectWithDownload inserts the download row and updates the
	// project referencing it in a single transaction.
	UpdateProjectWithDownload(p Project, d Download) (Download, error)
}

type NewsDB interface {
	GetNews(id int) (News, error)
	GetAllNews() ([]News, error) // newest first
	InsertNews(n News) (News, error)
	UpdateNews(n News) error
}
