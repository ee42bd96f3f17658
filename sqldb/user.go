package sqldb

import (
	"database/sql"
	"strings"

	"clubsite/auth"
	"clubsite/core"
	"golang.org/x/crypto/bcrypt"
)

func clean(name string) string {
	name = strings.TrimSpace(name)
	name = strings.ToLower(name)
	return name
}

type user struct {
	id     int
	name   string
	pass   string // bcrypt hash
	leader bool
	author bool
}

func (u *user) ID() int {
	return u.id
}

func (u *user) Name() string {
	return u.name
}

func (u *user) Has(perm auth.Permission) bool {
	switch perm {
	case auth.Leader:
		return u.leader
	case auth.Author:
		return u.author
	}
	return false
}

type UserDB struct {
	*sql.DB
	count          *sql.Stmt
	get            *sql.Stmt
	getAll         *sql.Stmt
	getByName      *sql.Stmt
	insert         *sql.Stmt
	setPassword    *sql.Stmt
	setPermissions *sql.Stmt
}

func NewUserDB(db *sql.DB) *UserDB {

	db.Exec(
		`CREATE TABLE IF NOT EXISTS usr (
			id INTEGER PRIMARY KEY,
			username varchar(50) NOT NULL,
			password varchar(100) NOT NULL,
			leader boolean NOT NULL DEFAULT 0,
			author boolean NOT NULL DEFAULT 0
		);`)

	var userDB = &UserDB{}
	userDB.DB = db
	userDB.count = mustPrepare(db, "SELECT COUNT(1) FROM usr")
	userDB.get = mustPrepare(db, "SELECT username, password, leader, author FROM usr WHERE id = ? LIMIT 1")
	userDB.getAll = mustPrepare(db, "SELECT id, username, leader, author FROM usr ORDER BY username LIMIT ? OFFSET ?")
	userDB.getByName = mustPrepare(db, "SELECT id, password, leader, author FROM usr WHERE username = ? LIMIT 1")
	userDB.insert = mustPrepare(db, "INSERT INTO usr (username, password, leader, author) VALUES (?, ?, ?, ?)")
	userDB.setPassword = mustPrepare(db, "UPDATE usr SET password = ? WHERE id = ?")
	userDB.setPermissions = mustPrepare(db, "UPDATE usr SET leader = ?, author = ? WHERE id = ?")
	return userDB
}

func (db *UserDB) CountUsers() (int, error) {
	var n int
	err := db.count.QueryRow().Scan(&n)
	return n, err
}

func (db *UserDB) GetUser(id int) (auth.DBUser, error) {
	var u = &user{
		id: id,
	}
	err := db.get.QueryRow(id).Scan(&u.name, &u.pass, &u.leader, &u.author)
	if err == sql.ErrNoRows {
		return nil, core.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return u, nil
}

func (db *UserDB) GetUserByName(name string) (auth.DBUser, error) {
	name = clean(name)
	var u = &user{
		name: name,
	}
	err := db.getByName.QueryRow(name).Scan(&u.id, &u.pass, &u.leader, &u.author)
	if err == sql.ErrNoRows {
		return nil, core.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return u, nil
}

func (db *UserDB) GetAllUsers(limit, offset int) ([]auth.DBUser, error) {

	var all = []auth.DBUser{}

	rows, err := db.getAll.Query(limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var u = &user{}
		err = rows.Scan(&u.id, &u.name, &u.leader, &u.author)
		if err != nil {
			return nil, err
		}
		all = append(all, u)
	}

	return all, nil
}

// InsertUser hashes the password and creates a user.
// The duplicate check is best-effort only, the table has no unique
// constraint and a concurrent registration can still slip through.
func (db *UserDB) InsertUser(name, password string, perms ...auth.Permission) (auth.DBUser, error) {

	name = clean(name)

	if password == "" {
		return nil, auth.ErrEmptyPassword
	}

	if _, err := db.GetUserByName(name); err == nil {
		return nil, auth.ErrUsernameTaken
	} else if err != core.ErrNotFound {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	var u = &user{
		name: name,
		pass: string(hash),
	}
	for _, perm := range perms {
		switch perm {
		case auth.Leader:
			u.leader = true
		case auth.Author:
			u.author = true
		}
	}

	res, err := db.insert.Exec(u.name, u.pass, u.leader, u.author)
	if err != nil {
		return nil, err
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	u.id = int(id)

	return u, nil
}

// LoginUser compares the entered password against the stored bcrypt hash.
func (db *UserDB) LoginUser(name, password string) (auth.DBUser, error) {

	u, err := db.GetUserByName(name)
	if err == core.ErrNotFound {
		return nil, auth.ErrAuth // user not found
	}
	if err != nil {
		return nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(u.(*user).pass), []byte(password)) != nil {
		return nil, auth.ErrAuth // wrong password
	}

	return u, nil
}

func (db *UserDB) SetPassword(u auth.DBUser, password string) error {

	if password == "" {
		return auth.ErrEmptyPassword
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	if _, err := db.setPassword.Exec(string(hash), u.ID()); err != nil {
		return err
	}

	u.(*user).pass = string(hash)
	return nil
}

func (db *UserDB) SetPermissions(u auth.DBUser, leader, author bool) error {
	if _, err := db.setPermissions.Exec(leader, author, u.ID()); err != nil {
		return err
	}
	u.(*user).leader = leader
	u.(*user).author = author
	return nil
}
