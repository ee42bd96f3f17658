package sqldb

import (
	"database/sql"
	"time"

	"clubsite/core"
)

type NewsDB struct {
	*sql.DB
	get    *sql.Stmt
	getAll *sql.Stmt
	insert *sql.Stmt
	update *sql.Stmt
}

func NewNewsDB(db *sql.DB) *NewsDB {

	db.Exec(
		`CREATE TABLE IF NOT EXISTS news (
			id INTEGER PRIMARY KEY,
			title varchar(100) NOT NULL,
			image_path varchar(100) NOT NULL,
			description varchar(500) NOT NULL,
			created_at INTEGER NOT NULL,
			author_id int(11) NOT NULL
		);`)

	var newsDB = &NewsDB{}
	newsDB.DB = db
	newsDB.get = mustPrepare(db, "SELECT title, image_path, description, created_at, author_id FROM news WHERE id = ? LIMIT 1")
	newsDB.getAll = mustPrepare(db, "SELECT id, title, image_path, description, created_at, author_id FROM news ORDER BY created_at DESC, id DESC")
	newsDB.insert = mustPrepare(db, "INSERT INTO news (title, image_path, description, created_at, author_id) VALUES (?, ?, ?, ?, ?)")
	newsDB.update = mustPrepare(db, "UPDATE news SET title = ?, image_path = ?, description = ? WHERE id = ?")
	return newsDB
}

func (db *NewsDB) GetNews(id int) (core.News, error) {
	var n = core.News{
		ID: id,
	}
	err := db.get.QueryRow(id).Scan(&n.Title, &n.ImageFile, &n.Description, &n.Created, &n.AuthorID)
	if err == sql.ErrNoRows {
		return core.News{}, core.ErrNotFound
	}
	return n, err
}

// GetAllNews returns all news items, newest first.
func (db *NewsDB) GetAllNews() ([]core.News, error) {

	rows, err := db.getAll.Query()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var all = []core.News{}
	for rows.Next() {
		var n core.News
		if err = rows.Scan(&n.ID, &n.Title, &n.ImageFile, &n.Description, &n.Created, &n.AuthorID); err != nil {
			return nil, err
		}
		all = append(all, n)
	}
	return all, nil
}

func (db *NewsDB) InsertNews(n core.News) (core.News, error) {

	if n.Created == 0 {
		n.Created = time.Now().Unix()
	}

	res, err := db.insert.Exec(n.Title, n.ImageFile, n.Description, n.Created, n.AuthorID)
	if err != nil {
		return core.News{}, err
	}

	id, err := res.LastInsertId()
	if err != nil {
		return core.News{}, err
	}
	n.ID = int(id)

	return n, nil
}

func (db *NewsDB) UpdateNews(n core.News) error {
	_, err := db.update.Exec(n.Title, n.ImageFile, n.Description, n.ID)
	return err
}
