package web

import (
	"net/http"
	"strconv"
	"strings"

	"clubsite/auth"
	"clubsite/core"
	"clubsite/upload"
	"github.com/julienschmidt/httprouter"
)

var newsListTmpl = tmpl(`<h1>News</h1>

	{{ if .IsAuthor }}
		<p><a class="btn btn-sm btn-primary" href="/news/add">Add news</a></p>
	{{ end }}

	{{ range .News }}
		<div class="card mb-3">
			{{ with .ImageFile }}
				<img class="card-img-top" src="/static/picts/{{ . }}" alt="">
			{{ end }}
			<div class="card-body">
				<h5 class="card-title"><a href="/news/{{ .ID }}">{{ .Title }}</a></h5>
				<p class="card-text">{{ Teaser .Description 200 }}</p>
				<small class="text-muted">{{ $.FormatDateTime .Created }}</small>
				{{ if $.IsAuthor }}
					<a class="btn btn-sm btn-secondary float-right" href="/news/edit/{{ .ID }}">Edit</a>
				{{ end }}
			</div>
		</div>
	{{ else }}
		<p>No news yet.</p>
	{{ end }}`)

type newsListData struct {
	*Route
	News []core.News
}

func newsList(w http.ResponseWriter, req *http.Request, r *Route, params httprouter.Params) error {

	all, err := r.db.GetAllNews()
	if err != nil {
		return err
	}

	return newsListTmpl.Execute(w, &newsListData{
		Route: r,
		News:  all,
	})
}

// news dispatches /news/add, /news/edit/:id and /news/:id, which
// httprouter can not keep apart on its own.
func news(w http.ResponseWriter, req *http.Request, r *Route, params httprouter.Params) error {
	switch params.ByName("id") {
	case "add":
		return requirePermission(auth.Author, addNews)(w, req, r, params)
	case "edit":
		return requirePermission(auth.Author, editNews)(w, req, r, params)
	default:
		if params.ByName("arg") != "" {
			r.NotFound("not found")
			return nil
		}
		return showNews(w, req, r, params)
	}
}

var newsTmpl = tmpl(`<h1>{{ .News.Title }}</h1>

	{{ with .Author }}
		<p class="text-muted">by {{ . }}, {{ $.FormatDateTime $.News.Created }}</p>
	{{ else }}
		<p class="text-muted">{{ $.FormatDateTime $.News.Created }}</p>
	{{ end }}

	{{ with .News.ImageFile }}
		<p><img class="img-fluid" src="/static/picts/{{ . }}" alt=""></p>
	{{ end }}

	{{ Markdown .News.Description }}

	{{ if .IsAuthor }}
		<p><a class="btn btn-sm btn-secondary" href="/news/edit/{{ .News.ID }}">Edit</a></p>
	{{ end }}`)

type newsData struct {
	*Route
	News core.News
}

func (data *newsData) Author() (string, error) {
	if data.News.AuthorID == 0 {
		return "", nil
	}
	u, err := data.db.UserDB.GetUser(data.News.AuthorID)
	if err == core.ErrNotFound {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return u.Name(), nil
}

func showNews(w http.ResponseWriter, req *http.Request, r *Route, params httprouter.Params) error {

	id, err := strconv.Atoi(params.ByName("id"))
	if err != nil {
		r.NotFound("News not found")
		return nil
	}

	n, err := r.db.GetNews(id)
	if err == core.ErrNotFound {
		r.NotFound("News not found")
		return nil
	}
	if err != nil {
		return err
	}

	return newsTmpl.Execute(w, &newsData{
		Route: r,
		News:  n,
	})
}

var newsFormTmpl = tmpl(`<h1>{{ if .News.ID }}Edit news{{ else }}Add news{{ end }}</h1>

	<form method="post" enctype="multipart/form-data">
		<div class="form-group">
			<label>Title</label>
			<input type="text" class="form-control" name="title" value="{{ .News.Title }}" required autofocus>
		</div>
		<div class="form-group">
			<label>Text</label>
			<textarea class="form-control" name="description" rows="6" required>{{ .News.Description }}</textarea>
		</div>
		<div class="form-group">
			<label>Image{{ if .News.ImageFile }} (leave empty to keep {{ .News.ImageFile }}){{ end }}</label>
			<input type="file" class="form-control-file" name="image" {{ if not .News.ID }}required{{ end }}>
		</div>
		<button type="submit" class="btn btn-primary">Save</button>
	</form>`)

type newsFormData struct {
	*Route
	News core.News
}

func addNews(w http.ResponseWriter, req *http.Request, r *Route, params httprouter.Params) error {

	var n = core.News{
		AuthorID: r.UserID(),
	}

	if req.Method == http.MethodPost {

		n.Title = strings.TrimSpace(req.PostFormValue("title"))
		n.Description = strings.TrimSpace(req.PostFormValue("description"))
		image, header, err := req.FormFile("image")

		switch {
		case err == http.ErrMissingFile || err == http.ErrNotMultipart:
			r.Danger(upload.ErrEmptyUpload)
		case err != nil:
			return err
		case n.Title == "" || n.Description == "":
			image.Close()
			r.Danger(ErrMissingFields)
		default:
			defer image.Close()
			filename, err := r.db.Uploads.Folder(core.PictsFolder).Upload(header.Filename, image)
			if err != nil {
				r.Danger(err)
				break
			}
			n.ImageFile = filename
			if _, err := r.db.InsertNews(n); err != nil {
				return err
			}
			r.Success("news %s has been added", n.Title)
			r.SeeOther("/news")
			return nil
		}
	}

	return newsFormTmpl.Execute(w, &newsFormData{
		Route: r,
		News:  n,
	})
}

func editNews(w http.ResponseWriter, req *http.Request, r *Route, params httprouter.Params) error {

	id, err := strconv.Atoi(params.ByName("arg"))
	if err != nil {
		r.NotFound("News not found")
		return nil
	}

	n, err := r.db.GetNews(id)
	if err != nil {
		return err // aborts the request, including not found
	}

	if req.Method == http.MethodPost {

		n.Title = strings.TrimSpace(req.PostFormValue("title"))
		n.Description = strings.TrimSpace(req.PostFormValue("description"))

		if n.Title == "" || n.Description == "" {
			r.Danger(ErrMissingFields)
		} else {

			// a new image replaces the old one, no image keeps it
			if image, header, err := req.FormFile("image"); err == nil {
				defer image.Close()
				filename, err := r.db.Uploads.Folder(core.PictsFolder).Upload(header.Filename, image)
				if err != nil {
					r.Danger(err)
					return newsFormTmpl.Execute(w, &newsFormData{Route: r, News: n})
				}
				n.ImageFile = filename
			}

			if err := r.db.UpdateNews(n); err != nil {
				return err
			}
			r.SeeOther("/news/%d", n.ID)
			return nil
		}
	}

	return newsFormTmpl.Execute(w, &newsFormData{
		Route: r,
		News:  n,
	})
}
