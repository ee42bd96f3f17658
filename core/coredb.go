package core

import (
	"database/sql"
	"log"
	"net/http"
	"time"

	"clubsite/auth"
	"clubsite/upload"
	"github.com/alexedwards/scs/v2"
)

// Upload folder names. Downloadable files and news images are kept apart.
const (
	DownloadsFolder = "downloads"
	PictsFolder     = "picts"
)

// DefaultAdminPassword is the password of the bootstrapped admin account.
// Rotating it is a required operational step before any public deployment.
const DefaultAdminPassword = "password"

type CoreDB struct {
	DownloadDB
	NewsDB
	ProjectDB
	UserDB         auth.UserDB
	SessionManager *scs.SessionManager
	Uploads        upload.Store

	SqlDB *sql.DB
}

func (c *CoreDB) Init(sessionStore scs.Store, cookiePath string) error {

	c.SessionManager = scs.New()
	c.SessionManager.Store = sessionStore
	c.SessionManager.Cookie.Path = cookiePath + "/"         // 'The default value is "/". Passing the empty string "" will result in it being set to the path that the cookie was issued from.'
	c.SessionManager.Cookie.Persist = false                 // Don't store cookie across browser sessions. Required for GDPR cookie consent exemption criterion B.
	c.SessionManager.Cookie.SameSite = http.SameSiteLaxMode // good CSRF protection if HTTP GET doesn't modify anything
	c.SessionManager.Cookie.Secure = false                  // else running on localhost or behind a http proxy fails
	c.SessionManager.IdleTimeout = 12 * time.Hour
	c.SessionManager.Lifetime = 720 * time.Hour

	return nil
}

// Bootstrap inserts the default admin user if the user table is empty,
// so a fresh database is usable right away.
func (c *CoreDB) Bootstrap() error {

	n, err := c.UserDB.CountUsers()
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}

	if _, err := c.UserDB.InsertUser("admin", DefaultAdminPassword, auth.Leader, auth.Author); err != nil {
		return err
	}

	log.Printf(`created default user "admin" with a well-known password, change it before going public`)
	return nil
}
