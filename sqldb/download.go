package sqldb

import (
	"database/sql"

	"clubsite/core"
)

type DownloadDB struct {
	*sql.DB
	get    *sql.Stmt
	getAll *sql.Stmt
	insert *sql.Stmt
}

func NewDownloadDB(db *sql.DB) *DownloadDB {

	db.Exec(
		`CREATE TABLE IF NOT EXISTS download (
			id INTEGER PRIMARY KEY,
			title varchar(50) NOT NULL,
			description varchar(100) NOT NULL,
			file varchar(100) NOT NULL
		);`)

	var downloadDB = &DownloadDB{}
	downloadDB.DB = db
	downloadDB.get = mustPrepare(db, "SELECT title, description, file FROM download WHERE id = ? LIMIT 1")
	downloadDB.getAll = mustPrepare(db, "SELECT id, title, description, file FROM download")
	downloadDB.insert = mustPrepare(db, "INSERT INTO download (title, description, file) VALUES (?, ?, ?)")
	return downloadDB
}

func (db *DownloadDB) GetDownload(id int) (core.Download, error) {
	var d = core.Download{
		ID: id,
	}
	err := db.get.QueryRow(id).Scan(&d.Title, &d.Description, &d.Filename)
	if err == sql.ErrNoRows {
		return core.Download{}, core.ErrNotFound
	}
	return d, err
}

func (db *DownloadDB) GetAllDownloads() ([]core.Download, error) {

	rows, err := db.getAll.Query()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var all = []core.Download{}
	for rows.Next() {
		var d core.Download
		if err = rows.Scan(&d.ID, &d.Title, &d.Description, &d.Filename); err != nil {
			return nil, err
		}
		all = append(all, d)
	}
	return all, nil
}

func (db *DownloadDB) InsertDownload(title, description, filename string) (core.Download, error) {

	res, err := db.insert.Exec(title, description, filename)
	if err != nil {
		return core.Download{}, err
	}

	id, err := res.LastInsertId()
	if err != nil {
		return core.Download{}, err
	}

	return core.Download{
		ID:          int(id),
		Title:       title,
		Description: description,
		Filename:    filename,
	}, nil
}
