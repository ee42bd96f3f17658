package web

import (
	"errors"
	"html/template"
	"net/http"

	"clubsite/auth"
	"clubsite/core"
	"github.com/julienschmidt/httprouter"
)

const AppName = "ClubSite"

var ErrAuth = errors.New("unauthorized")
var ErrMissingFields = errors.New("please fill in all required fields")

// we need the CoreDB in the handlers
type Route struct {
	*core.Request
	Prefix string // with trailing slash
	db     *core.CoreDB
}

func (r *Route) AppName() string {
	return AppName
}

// IsAuthor and IsLeader exist because templates can't pass auth.Permission values.

func (r *Route) IsAuthor() bool {
	return r.Has(auth.Author)
}

func (r *Route) IsLeader() bool {
	return r.Has(auth.Leader)
}

type handleFunc func(http.ResponseWriter, *http.Request, *Route, httprouter.Params) error

func middleware(db *core.CoreDB, prefix string, f handleFunc) httprouter.Handle {
	return func(w http.ResponseWriter, req *http.Request, params httprouter.Params) {

		var r = &Route{
			Prefix:  prefix + "/",
			Request: db.NewRequest(w, req),
			db:      db,
		}
		defer r.Cleanup()

		if err := f(w, req, r, params); err != nil {
			if errors.Is(err, core.ErrNotFound) {
				r.NotFound("not found")
				return
			}
			// probably no template has been executed, so execute error template
			errorTmpl.Execute(w, struct {
				*Route
				Err error
			}{
				Route: r,
				Err:   err,
			})
		}
	}
}

// requirePermission guards a handler. Users without the permission are
// redirected to the login page and the handler never runs.
func requirePermission(perm auth.Permission, f handleFunc) handleFunc {
	return func(w http.ResponseWriter, req *http.Request, r *Route, params httprouter.Params) error {
		if !r.Has(perm) {
			r.SeeOther("/login")
			return nil
		}
		return f(w, req, r, params)
	}
}

func NewRouter(db *core.CoreDB, prefix string) http.Handler {

	var router = httprouter.New()

	var GETAndPOST = func(path string, handle httprouter.Handle) {
		router.GET(path, handle)
		router.POST(path, handle)
	}

	router.GET("/", middleware(db, prefix, home))

	GETAndPOST("/login", middleware(db, prefix, login))
	GETAndPOST("/register", middleware(db, prefix, register))
	router.GET("/logout", middleware(db, prefix, logout))

	GETAndPOST("/add_download", middleware(db, prefix, requirePermission(auth.Author, addDownload)))
	router.GET("/download/:id", middleware(db, prefix, download))

	// httprouter can't mix static and wildcard children ("/project/add" vs
	// "/project/:id"), so these are dispatched on the first path segment.
	router.GET("/projects", middleware(db, prefix, projects))
	GETAndPOST("/project/:id", middleware(db, prefix, project))
	GETAndPOST("/project/:id/:arg", middleware(db, prefix, project))

	router.GET("/news", middleware(db, prefix, newsList))
	GETAndPOST("/news/:id", middleware(db, prefix, news))
	GETAndPOST("/news/:id/:arg", middleware(db, prefix, news))

	GETAndPOST("/members", middleware(db, prefix, requirePermission(auth.Leader, members)))

	return router
}

func tmpl(text string) *template.Template {
	t := template.Must(baseTmpl.Clone())
	t = template.Must(t.Parse(`{{ define "content" }}` + text + `{{ end }}`))
	return t
}

var errorTmpl = tmpl(`
	<div class="alert alert-danger" role="alert">
		{{ .Err }}
	</div>`)

var baseTmpl = template.Must(template.New("base").Parse(`
<!DOCTYPE html>
<html>
	<head>
		<base href="{{ .Prefix }}">
		<link rel="stylesheet" type="text/css" href="/assets/bootstrap-4.4.1.min.css">
		<meta charset="utf-8">
		<meta name="viewport" content="width=device-width, initial-scale=1, shrink-to-fit=no">
		<title>{{ .AppName }}</title>
	</head>
	<body>

		<nav class="navbar navbar-expand-md bg-light">
			<a class="navbar-brand" href="/">{{ .AppName }}</a>
			<ul class="navbar-nav">
				<li class="nav-item">
					<a class="nav-link" href="/projects">Projects</a>
				</li>
				<li class="nav-item">
					<a class="nav-link" href="/news">News</a>
				</li>

				{{ if .IsAuthor }}
					<li class="nav-item">
						<a class="nav-link" href="/add_download">Add download</a>
					</li>
				{{ end }}

				{{ if .IsLeader }}
					<li class="nav-item">
						<a class="nav-link" href="/members">Members</a>
					</li>
				{{ end }}

				{{ if .LoggedIn }}
					<li class="nav-item">
						<span class="navbar-text">{{ .User.Name }}</span>
					</li>
					<li class="nav-item">
						<a class="nav-link" href="/logout">Logout</a>
					</li>
				{{ else }}
					<li class="nav-item">
						<a class="nav-link" href="/login">Login</a>
					</li>
					<li class="nav-item">
						<a class="nav-link" href="/register">Register</a>
					</li>
				{{ end }}
			</ul>
		</nav>

		<div class="container pt-3">
			{{ .RenderNotifications }}
			{{ template "content" . }}
		</div>
	</body>
</html>`)).Funcs(
	template.FuncMap{
		"Markdown": RenderMarkdown,
		"Teaser":   Teaser,
	},
)
