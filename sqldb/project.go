package sqldb

import (
	"database/sql"
	"time"

	"clubsite/core"
)

type ProjectDB struct {
	*sql.DB
	downloads *DownloadDB // for the transactional create-then-link sequence
	get       *sql.Stmt
	getAll    *sql.Stmt
	insert    *sql.Stmt
	update    *sql.Stmt
}

func NewProjectDB(db *sql.DB, downloads *DownloadDB) *ProjectDB {

	db.Exec(
		`CREATE TABLE IF NOT EXISTS project (
			id INTEGER PRIMARY KEY,
			title varchar(100) NOT NULL,
			description varchar(500) NOT NULL,
			project_link varchar(200),
			created_at INTEGER NOT NULL,
			author_id int(11),
			download_id int(11)
		);`)

	var projectDB = &ProjectDB{}
	projectDB.DB = db
	projectDB.downloads = downloads
	projectDB.get = mustPrepare(db, "SELECT title, description, project_link, created_at, author_id, download_id FROM project WHERE id = ? LIMIT 1")
	projectDB.getAll = mustPrepare(db, "SELECT id, title, description, project_link, created_at, author_id, download_id FROM project")
	projectDB.insert = mustPrepare(db, "INSERT INTO project (title, description, project_link, created_at, author_id, download_id) VALUES (?, ?, ?, ?, ?, ?)")
	projectDB.update = mustPrepare(db, "UPDATE project SET title = ?, description = ?, project_link = ?, download_id = ? WHERE id = ?")
	return projectDB
}

func (db *ProjectDB) GetProject(id int) (core.Project, error) {

	var p = core.Project{
		ID: id,
	}
	var link sql.NullString
	var authorID, downloadID sql.NullInt64

	err := db.get.QueryRow(id).Scan(&p.Title, &p.Description, &link, &p.Created, &authorID, &downloadID)
	if err == sql.ErrNoRows {
		return core.Project{}, core.ErrNotFound
	}
	if err != nil {
		return core.Project{}, err
	}

	p.Link = link.String
	p.AuthorID = int(authorID.Int64)
	p.DownloadID = int(downloadID.Int64)
	return p, nil
}

func (db *ProjectDB) GetAllProjects() ([]core.Project, error) {

	rows, err := db.getAll.Query()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var all = []core.Project{}
	for rows.Next() {
		var p core.Project
		var link sql.NullString
		var authorID, downloadID sql.NullInt64
		if err = rows.Scan(&p.ID, &p.Title, &p.Description, &link, &p.Created, &authorID, &downloadID); err != nil {
			return nil, err
		}
		p.Link = link.String
		p.AuthorID = int(authorID.Int64)
		p.DownloadID = int(downloadID.Int64)
		all = append(all, p)
	}
	return all, nil
}

func (db *ProjectDB) InsertProject(p core.Project) (core.Project, error) {

	if p.Created == 0 {
		p.Created = time.Now().Unix()
	}

	res, err := db.insert.Exec(p.Title, p.Description, nullString(p.Link), p.Created, nullInt(p.AuthorID), nullInt(p.DownloadID))
	if err != nil {
		return core.Project{}, err
	}

	id, err := res.LastInsertId()
	if err != nil {
		return core.Project{}, err
	}
	p.ID = int(id)

	return p, nil
}

// InsertProjectWithDownload creates the download row and the project
// referencing it in one transaction, so a crash can not leave an orphaned
// download row behind.
func (db *ProjectDB) InsertProjectWithDownload(p core.Project, d core.Download) (core.Project, core.Download, error) {

	if p.Created == 0 {
		p.Created = time.Now().Unix()
	}

	tx, err := db.Begin()
	if err != nil {
		return core.Project{}, core.Download{}, err
	}

	res, err := tx.Stmt(db.downloads.insert).Exec(d.Title, d.Description, d.Filename)
	if err != nil {
		tx.Rollback()
		return core.Project{}, core.Download{}, err
	}
	downloadID, err := res.LastInsertId()
	if err != nil {
		tx.Rollback()
		return core.Project{}, core.Download{}, err
	}
	d.ID = int(downloadID)
	p.DownloadID = d.ID

	res, err = tx.Stmt(db.insert).Exec(p.Title, p.Description, nullString(p.Link), p.Created, nullInt(p.AuthorID), p.DownloadID)
	if err != nil {
		tx.Rollback()
		return core.Project{}, core.Download{}, err
	}
	projectID, err := res.LastInsertId()
	if err != nil {
		tx.Rollback()
		return core.Project{}, core.Download{}, err
	}
	p.ID = int(projectID)

	return p, d, tx.Commit()
}

func (db *ProjectDB) UpdateProject(p core.Project) error {
	_, err := db.update.Exec(p.Title, p.Description, nullString(p.Link), nullInt(p.DownloadID), p.ID)
	return err
}

// UpdateProjectWithDownload creates the download row and re-links the
// project to it in one transaction.
func (db *ProjectDB) UpdateProjectWithDownload(p core.Project, d core.Download) (core.Download, error) {

	tx, err := db.Begin()
	if err != nil {
		return core.Download{}, err
	}

	res, err := tx.Stmt(db.downloads.insert).Exec(d.Title, d.Description, d.Filename)
	if err != nil {
		tx.Rollback()
		return core.Download{}, err
	}
	downloadID, err := res.LastInsertId()
	if err != nil {
		tx.Rollback()
		return core.Download{}, err
	}
	d.ID = int(downloadID)
	p.DownloadID = d.ID

	if _, err := tx.Stmt(db.update).Exec(p.Title, p.Description, nullString(p.Link), p.DownloadID, p.ID); err != nil {
		tx.Rollback()
		return core.Download{}, err
	}

	return d, tx.Commit()
}
