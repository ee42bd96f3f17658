package web

import (
	"bytes"
	"database/sql"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strconv"
	"testing"

	"clubsite/auth"
	"clubsite/core"
	"clubsite/filestore"
	"clubsite/sqldb"
	"clubsite/sqldb/sqlite3"
	"clubsite/util"
	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/require"
)

func newTestDB(t *testing.T) *core.CoreDB {
	t.Helper()

	dir := t.TempDir()

	sqlDB, err := sql.Open("sqlite3", filepath.Join(dir, "test.sqlite3"))
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	db := &core.CoreDB{}
	require.NoError(t, db.Init(sqlite3.NewSessionStore(sqlDB), ""))

	downloads := sqldb.NewDownloadDB(sqlDB)
	db.DownloadDB = downloads
	db.NewsDB = sqldb.NewNewsDB(sqlDB)
	db.ProjectDB = sqldb.NewProjectDB(sqlDB, downloads)
	db.UserDB = sqldb.NewUserDB(sqlDB)

	db.Uploads = &filestore.Store{
		UploadDir:     filepath.Join(dir, "uploads"),
		MaxUploadSize: 1 << 20,
		Accept: map[string][]string{
			core.DownloadsFolder: nil,
			core.PictsFolder:     {".jpg", ".png"},
		},
	}

	db.SqlDB = sqlDB

	require.NoError(t, db.Bootstrap()) // creates the admin user

	return db
}

// newTestServer mounts the router and the upload store like main does.
func newTestServer(t *testing.T, db *core.CoreDB) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	util.HandlePrefix(mux, "/static", db.Uploads)
	util.HandlePrefix(mux, "", NewRouter(db, ""))

	srv := httptest.NewServer(db.SessionManager.LoadAndSave(mux))
	t.Cleanup(srv.Close)
	return srv
}

func newClient(t *testing.T) *http.Client {
	t.Helper()
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &http.Client{Jar: jar}
}

func loginAs(t *testing.T, client *http.Client, srv *httptest.Server, username, password string) {
	t.Helper()
	resp, err := client.PostForm(srv.URL+"/login", url.Values{
		"username": {username},
		"password": {password},
	})
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, "/", resp.Request.URL.Path) // redirected home
}

func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(body)
}

func multipartBody(t *testing.T, fields map[string]string, fileField, filename, content string) (io.Reader, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for key, val := range fields {
		require.NoError(t, w.WriteField(key, val))
	}
	if fileField != "" {
		fw, err := w.CreateFormFile(fileField, filename)
		require.NoError(t, err)
		_, err = fw.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return &buf, w.FormDataContentType()
}

func TestGuardRedirectsToLogin(t *testing.T) {

	srv := newTestServer(t, newTestDB(t))
	client := newClient(t)

	for _, path := range []string{"/add_download", "/members", "/news/add", "/project/edit/1"} {
		resp, err := client.Get(srv.URL + path)
		require.NoError(t, err)
		readBody(t, resp)
		require.Equal(t, "/login", resp.Request.URL.Path, path)
	}
}

func TestRegisterAndLogin(t *testing.T) {

	db := newTestDB(t)
	srv := newTestServer(t, db)
	client := newClient(t)

	resp, err := client.PostForm(srv.URL+"/register", url.Values{
		"username": {"Alice"},
		"password": {"secret"},
	})
	require.NoError(t, err)
	readBody(t, resp)
	require.Equal(t, "/login", resp.Request.URL.Path)

	loginAs(t, client, srv, "alice", "secret")

	resp, err = client.Get(srv.URL + "/")
	require.NoError(t, err)
	require.Contains(t, readBody(t, resp), "alice") // navbar shows the username

	// a fresh account holds no permissions
	resp, err = client.Get(srv.URL + "/add_download")
	require.NoError(t, err)
	readBody(t, resp)
	require.Equal(t, "/login", resp.Request.URL.Path)
}

func TestRegisterDuplicate(t *testing.T) {

	db := newTestDB(t)
	srv := newTestServer(t, db)
	client := newClient(t)

	for _, name := range []string{"alice", "Alice "} {
		resp, err := client.PostForm(srv.URL+"/register", url.Values{
			"username": {name},
			"password": {"secret"},
		})
		require.NoError(t, err)
		readBody(t, resp)
	}

	// the second registration was rejected
	n, err := db.UserDB.CountUsers()
	require.NoError(t, err)
	require.Equal(t, 2, n) // admin and alice
}

func TestAddDownloadAndServe(t *testing.T) {

	db := newTestDB(t)
	srv := newTestServer(t, db)
	client := newClient(t)
	loginAs(t, client, srv, "admin", core.DefaultAdminPassword)

	body, contentType := multipartBody(t,
		map[string]string{"title": "Handbook", "description": "The club handbook."},
		"file", "handbook.pdf", "pdf bytes")
	resp, err := client.Post(srv.URL+"/add_download", contentType, body)
	require.NoError(t, err)
	require.Contains(t, readBody(t, resp), "has been added")
	require.Equal(t, "/", resp.Request.URL.Path)

	all, err := db.GetAllDownloads()
	require.NoError(t, err)
	require.Len(t, all, 1)
	require.Equal(t, "handbook.pdf", all[0].Filename)

	resp, err = client.Get(srv.URL + "/download/" + strconv.Itoa(all[0].ID))
	require.NoError(t, err)
	require.Contains(t, resp.Header.Get("Content-Disposition"), "attachment")
	require.Equal(t, "pdf bytes", readBody(t, resp))

	resp, err = client.Get(srv.URL + "/download/999")
	require.NoError(t, err)
	readBody(t, resp)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, err = client.Get(srv.URL + "/download/nonsense")
	require.NoError(t, err)
	readBody(t, resp)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)

	// the row remains but the backing file vanished
	require.NoError(t, db.Uploads.Folder(core.DownloadsFolder).Delete("handbook.pdf"))
	resp, err = client.Get(srv.URL + "/download/" + strconv.Itoa(all[0].ID))
	require.NoError(t, err)
	readBody(t, resp)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestAddDownloadMissingFile(t *testing.T) {

	db := newTestDB(t)
	srv := newTestServer(t, db)
	client := newClient(t)
	loginAs(t, client, srv, "admin", core.DefaultAdminPassword)

	body, contentType := multipartBody(t,
		map[string]string{"title": "Handbook", "description": "The club handbook."},
		"", "", "")
	resp, err := client.Post(srv.URL+"/add_download", contentType, body)
	require.NoError(t, err)
	require.Contains(t, readBody(t, resp), "no file was uploaded")

	all, err := db.GetAllDownloads()
	require.NoError(t, err)
	require.Empty(t, all)
}

func TestAddProjectAnonymous(t *testing.T) {

	db := newTestDB(t)
	srv := newTestServer(t, db)
	client := newClient(t)

	// adding a project requires no login
	resp, err := client.PostForm(srv.URL+"/project/add", url.Values{
		"title":           {"Rocketry"},
		"description":     {"We build rockets."},
		"download_option": {"none"},
	})
	require.NoError(t, err)
	readBody(t, resp)
	require.Equal(t, "/projects", resp.Request.URL.Path)

	all, err := db.GetAllProjects()
	require.NoError(t, err)
	require.Len(t, all, 1)
	require.Zero(t, all[0].AuthorID)
}

func TestAddProjectWithNewDownload(t *testing.T) {

	db := newTestDB(t)
	srv := newTestServer(t, db)
	client := newClient(t)
	loginAs(t, client, srv, "admin", core.DefaultAdminPassword)

	body, contentType := multipartBody(t,
		map[string]string{
			"title":           "Rocketry",
			"description":     "We build rockets.",
			"download_option": "new",
		},
		"file", "blueprint.pdf", "pdf bytes")
	resp, err := client.Post(srv.URL+"/project/add", contentType, body)
	require.NoError(t, err)
	readBody(t, resp)
	require.Equal(t, "/projects", resp.Request.URL.Path)

	downloads, err := db.GetAllDownloads()
	require.NoError(t, err)
	require.Len(t, downloads, 1)

	projects, err := db.GetAllProjects()
	require.NoError(t, err)
	require.Len(t, projects, 1)
	require.Equal(t, downloads[0].ID, projects[0].DownloadID)
}

func TestAddProjectWithExistingDownload(t *testing.T) {

	db := newTestDB(t)
	srv := newTestServer(t, db)
	client := newClient(t)

	// the submitted download id is stored without verification
	resp, err := client.PostForm(srv.URL+"/project/add", url.Values{
		"title":           {"Rocketry"},
		"description":     {"We build rockets."},
		"download_option": {"existing"},
		"download_id":     {"57"},
	})
	require.NoError(t, err)
	readBody(t, resp)

	all, err := db.GetAllProjects()
	require.NoError(t, err)
	require.Len(t, all, 1)
	require.Equal(t, 57, all[0].DownloadID)

	// the project page still renders, the stale link is simply hidden
	resp, err = client.Get(srv.URL + "/project/" + strconv.Itoa(all[0].ID))
	require.NoError(t, err)
	readBody(t, resp)
	require.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestNewsFlow(t *testing.T) {

	db := newTestDB(t)
	srv := newTestServer(t, db)
	client := newClient(t)
	loginAs(t, client, srv, "admin", core.DefaultAdminPassword)

	body, contentType := multipartBody(t,
		map[string]string{"title": "Summer party", "description": "Save the date!"},
		"image", "party.jpg", "jpeg data")
	resp, err := client.Post(srv.URL+"/news/add", contentType, body)
	require.NoError(t, err)
	readBody(t, resp)
	require.Equal(t, "/news", resp.Request.URL.Path)

	all, err := db.GetAllNews()
	require.NoError(t, err)
	require.Len(t, all, 1)
	require.Equal(t, "party.jpg", all[0].ImageFile)
	require.NotZero(t, all[0].AuthorID)

	// the image is served as static content
	resp, err = client.Get(srv.URL + "/static/picts/party.jpg")
	require.NoError(t, err)
	require.Equal(t, "jpeg data", readBody(t, resp))

	resp, err = client.Get(srv.URL + "/news/" + strconv.Itoa(all[0].ID))
	require.NoError(t, err)
	require.Contains(t, readBody(t, resp), "Summer party")
}

func TestNewsRejectsBadImage(t *testing.T) {

	db := newTestDB(t)
	srv := newTestServer(t, db)
	client := newClient(t)
	loginAs(t, client, srv, "admin", core.DefaultAdminPassword)

	body, contentType := multipartBody(t,
		map[string]string{"title": "Summer party", "description": "Save the date!"},
		"image", "party.exe", "mz")
	resp, err := client.Post(srv.URL+"/news/add", contentType, body)
	require.NoError(t, err)
	require.Contains(t, readBody(t, resp), "not allowed")

	all, err := db.GetAllNews()
	require.NoError(t, err)
	require.Empty(t, all)
}

func TestMembers(t *testing.T) {

	db := newTestDB(t)
	srv := newTestServer(t, db)

	alice, err := db.UserDB.InsertUser("alice", "secret")
	require.NoError(t, err)

	client := newClient(t)
	loginAs(t, client, srv, "admin", core.DefaultAdminPassword)

	resp, err := client.Get(srv.URL + "/members")
	require.NoError(t, err)
	require.Contains(t, readBody(t, resp), "alice")

	resp, err = client.PostForm(srv.URL+"/members", url.Values{
		"user_id": {strconv.Itoa(alice.ID())},
		"author":  {"on"},
	})
	require.NoError(t, err)
	readBody(t, resp)
	require.Equal(t, "/members", resp.Request.URL.Path)

	alice, err = db.UserDB.GetUser(alice.ID())
	require.NoError(t, err)
	require.True(t, alice.Has(auth.Author))
	require.False(t, alice.Has(auth.Leader))
}
