package main

import (
	"bytes"
	"database/sql"
	"flag"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	"clubsite/auth"
	"clubsite/core"
	"clubsite/filestore"
	"clubsite/sqldb"
	"clubsite/sqldb/mysql"
	"clubsite/sqldb/sqlite3"
	"clubsite/util"
	"clubsite/web"
	"github.com/alexedwards/scs/v2"
	_ "github.com/go-sql-driver/mysql"
	_ "github.com/mattn/go-sqlite3"
	"github.com/xo/dburl"
	"golang.org/x/crypto/ssh/terminal"
)

const defaultDB = "sqlite3:clubsite.sqlite3?_busy_timeout=10000&_journal=WAL&_sync=NORMAL&cache=shared"

func init() {
	log.SetFlags(0) // no log prefixes, on most systems systemd-journald adds them
}

func main() {

	// optional config file, flags override it

	config, err := util.Ini("clubsite.ini")
	if err != nil {
		log.Printf("could not read config: %v", err)
		return
	}
	var configured = func(key, fallback string) string {
		if val, ok := config[key]; ok {
			return val
		}
		return fallback
	}

	var dbArg string // is in both FlagSets

	// default FlagSet

	// Your reverse proxy must not strip the prefix. So if you're using nginx, the "proxy_pass" value should not end with a slash.
	var base = flag.String("base", configured("base", ""), "strip off this `prefix` from every HTTP request and prepend it to every link")
	flag.StringVar(&dbArg, "db", configured("db", defaultDB), "sql database url, see github.com/xo/dburl")
	var listenAddr = flag.String("listen", configured("listen", "127.0.0.1:8080"), "serve HTTP content at this `ip:port`")
	var maxUpload = flag.Int64("maxupload", 10, "limit uploaded files to this size in `megabytes`, zero means unlimited")
	var uploadDir = flag.String("uploads", configured("uploads", "uploads"), "store uploaded files in this `directory`")

	// init FlagSet

	var initFlags = flag.NewFlagSet("init", flag.ExitOnError)

	initFlags.StringVar(&dbArg, "db", configured("db", defaultDB), "sql database url, see github.com/xo/dburl") // copied from above
	var initAuthor = initFlags.Bool("author", false, "gives the author permission to the created user")
	var initLeader = initFlags.Bool("leader", false, "gives the leader permission to the created user")
	var username = initFlags.String("user", "", "creates a user with this `name`")

	if len(os.Args) > 1 && os.Args[1] == "init" {
		initFlags.Parse(os.Args[2:])
	} else {
		flag.Parse()
	}

	// database

	dbURL, err := dburl.Parse(dbArg)
	if err != nil {
		log.Printf("could not parse database url: %v", err)
		return
	}

	sqlDB, err := sql.Open(dbURL.Driver, dbURL.DSN)
	if err != nil {
		log.Printf("could not open sql database: %v", err)
		return
	}

	if err = sqlDB.Ping(); err != nil {
		log.Printf("could not ping sql database: %v", err)
		return
	}

	log.Printf("using database %s", dbURL.String())

	// base

	*base = strings.Trim(*base, "/")
	if *base != "" {
		*base = "/" + *base
	}

	// assemble stuff

	var sessionStore scs.Store
	switch dbURL.Driver {
	case "mysql":
		sessionStore = mysql.NewSessionStore(sqlDB)
	case "sqlite3":
		sessionStore = sqlite3.NewSessionStore(sqlDB)
	default:
		log.Printf("unknown database backend: %s", dbURL.Driver)
		return
	}

	db := &core.CoreDB{}
	if err := db.Init(sessionStore, *base); err != nil {
		log.Println(err) // log.Fatalln would not run deferred functions
		return
	}

	var downloads = sqldb.NewDownloadDB(sqlDB)
	db.DownloadDB = downloads
	db.NewsDB = sqldb.NewNewsDB(sqlDB)
	db.ProjectDB = sqldb.NewProjectDB(sqlDB, downloads)
	db.UserDB = sqldb.NewUserDB(sqlDB)

	db.Uploads = &filestore.Store{
		UploadDir:     *uploadDir,
		MaxUploadSize: *maxUpload << 20,
		Accept: map[string][]string{
			core.DownloadsFolder: nil, // any extension
			core.PictsFolder:     {".gif", ".jpeg", ".jpg", ".png", ".svg", ".webp"},
		},
	}

	db.SqlDB = sqlDB

	defer func() {
		log.Println("closing database")
		sqlDB.Close()
	}()

	// init

	if initFlags.Parsed() {
		if *username != "" {
			var perms []auth.Permission
			if *initLeader {
				perms = append(perms, auth.Leader)
			}
			if *initAuthor {
				perms = append(perms, auth.Author)
			}
			insertUser(db, *username, perms...)
		}
		return
	}

	if err := db.Bootstrap(); err != nil {
		log.Printf("could not bootstrap database: %v", err)
		return
	}

	listen(db, *listenAddr, *base)
}

func insertUser(db *core.CoreDB, name string, perms ...auth.Permission) {

	fmt.Printf("password for user %s: ", name)
	pass1, err := terminal.ReadPassword(0)
	fmt.Println()
	if err != nil {
		log.Printf("error reading password: %v", err)
		return
	}

	fmt.Printf("repeat password: ")
	pass2, err := terminal.ReadPassword(0)
	fmt.Println()
	if err != nil {
		log.Printf("error reading password: %v", err)
		return
	}

	if !bytes.Equal(pass1, pass2) {
		log.Printf("passwords don't match")
		return
	}

	if _, err := db.UserDB.InsertUser(name, string(pass1), perms...); err != nil {
		log.Printf("error creating user %s: %v", name, err)
		return
	}
}

func listen(db *core.CoreDB, addr string, base string) {

	// golang mux recovers from panics, so the program won't crash

	var mux = http.NewServeMux()

	util.HandlePrefix(mux, base+"/assets", http.FileServer(http.Dir("assets")))
	util.HandlePrefix(mux, base+"/static", db.Uploads)
	util.HandlePrefix(mux, base, web.NewRouter(db, base))

	var waitingRequests sync.WaitGroup

	sigintChannel := make(chan os.Signal, 1)

	listener, err := net.Listen("tcp", addr)
	if err != nil {
		log.Println(err)
		return
	}

	log.Printf("listening to %s", addr)

	httpSrv := &http.Server{
		Handler: db.SessionManager.LoadAndSave(http.HandlerFunc(
			func(w http.ResponseWriter, req *http.Request) {
				waitingRequests.Add(1)
				defer waitingRequests.Done()
				mux.ServeHTTP(w, req)
			},
		)),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	go func() {
		if err := httpSrv.Serve(listener); err != nil {

			// don't panic, we want a graceful shutdown
			if err != http.ErrServerClosed {
				log.Printf("error listening: %v", err)
			}

			// ensure graceful shutdown
			sigintChannel <- os.Interrupt
		}
	}()

	// graceful shutdown

	signal.Notify(sigintChannel, os.Interrupt, syscall.SIGTERM) // SIGINT (Interrupt) or SIGTERM
	<-sigintChannel

	log.Println("shutting down")
	httpSrv.Close()

	waitingRequests.Wait()
}
