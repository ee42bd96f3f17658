package web

import (
	"net/http"
	"strconv"
	"strings"

	"clubsite/auth"
	"clubsite/core"
	"github.com/julienschmidt/httprouter"
)

var projectsTmpl = tmpl(`<h1>Projects</h1>

	{{ if .IsAuthor }}
		<p><a class="btn btn-sm btn-primary" href="/project/add">Add project</a></p>
	{{ end }}

	{{ range .Projects }}
		<div class="card mb-3">
			<div class="card-body">
				<h5 class="card-title"><a href="/project/{{ .ID }}">{{ .Title }}</a></h5>
				<p class="card-text">{{ Teaser .Description 200 }}</p>
				{{ if $.IsAuthor }}
					<a class="btn btn-sm btn-secondary" href="/project/edit/{{ .ID }}">Edit</a>
				{{ end }}
			</div>
		</div>
	{{ else }}
		<p>No projects yet.</p>
	{{ end }}`)

type projectsData struct {
	*Route
	Projects []core.Project
}

func projects(w http.ResponseWriter, req *http.Request, r *Route, params httprouter.Params) error {

	all, err := r.db.GetAllProjects()
	if err != nil {
		return err
	}

	return projectsTmpl.Execute(w, &projectsData{
		Route:    r,
		Projects: all,
	})
}

// project dispatches /project/add, /project/edit/:id and /project/:id,
// which httprouter can not keep apart on its own.
func project(w http.ResponseWriter, req *http.Request, r *Route, params httprouter.Params) error {
	switch params.ByName("id") {
	case "add":
		return addProject(w, req, r, params)
	case "edit":
		return requirePermission(auth.Author, editProject)(w, req, r, params)
	default:
		if params.ByName("arg") != "" {
			r.NotFound("not found")
			return nil
		}
		return showProject(w, req, r, params)
	}
}

var projectTmpl = tmpl(`<h1>{{ .Project.Title }}</h1>

	{{ with .Author }}
		<p class="text-muted">by {{ . }}, {{ $.FormatDateTime $.Project.Created }}</p>
	{{ else }}
		<p class="text-muted">{{ $.FormatDateTime $.Project.Created }}</p>
	{{ end }}

	{{ Markdown .Project.Description }}

	{{ with .Project.Link }}
		<p><a href="{{ . }}">Project website</a></p>
	{{ end }}

	{{ with .Download }}
		<p><a class="btn btn-sm btn-secondary" href="/download/{{ .ID }}">Download: {{ .Title }}</a></p>
	{{ end }}

	{{ if .IsAuthor }}
		<p><a class="btn btn-sm btn-secondary" href="/project/edit/{{ .Project.ID }}">Edit</a></p>
	{{ end }}`)

type projectData struct {
	*Route
	Project core.Project
}

// Download returns the linked download, or nil. A stale download_id is
// treated like no download, the reference is not validated on write.
func (data *projectData) Download() (*core.Download, error) {
	if data.Project.DownloadID == 0 {
		return nil, nil
	}
	d, err := data.db.GetDownload(data.Project.DownloadID)
	if err == core.ErrNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (data *projectData) Author() (string, error) {
	if data.Project.AuthorID == 0 {
		return "", nil
	}
	u, err := data.db.UserDB.GetUser(data.Project.AuthorID)
	if err == core.ErrNotFound {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return u.Name(), nil
}

func showProject(w http.ResponseWriter, req *http.Request, r *Route, params httprouter.Params) error {

	id, err := strconv.Atoi(params.ByName("id"))
	if err != nil {
		r.NotFound("Project not found")
		return nil
	}

	p, err := r.db.GetProject(id)
	if err == core.ErrNotFound {
		r.NotFound("Project not found")
		return nil
	}
	if err != nil {
		return err
	}

	return projectTmpl.Execute(w, &projectData{
		Route:   r,
		Project: p,
	})
}

var projectFormTmpl = tmpl(`<h1>{{ if .Project.ID }}Edit project{{ else }}Add project{{ end }}</h1>

	<form method="post" enctype="multipart/form-data">
		<div class="form-group">
			<label>Title</label>
			<input type="text" class="form-control" name="title" value="{{ .Project.Title }}" required autofocus>
		</div>
		<div class="form-group">
			<label>Description</label>
			<textarea class="form-control" name="description" rows="6" required>{{ .Project.Description }}</textarea>
		</div>
		<div class="form-group">
			<label>Project link (optional)</label>
			<input type="text" class="form-control" name="project_link" value="{{ .Project.Link }}">
		</div>

		<div class="form-group">
			<label>Download</label>
			<div class="form-check">
				<input class="form-check-input" type="radio" name="download_option" value="keep" checked>
				<label class="form-check-label">{{ if .Project.DownloadID }}Keep current download{{ else }}No download{{ end }}</label>
			</div>
			<div class="form-check">
				<input class="form-check-input" type="radio" name="download_option" value="existing">
				<label class="form-check-label">Link an existing download</label>
				<select class="form-control" name="download_id">
					{{ range .Downloads }}
						<option {{ if eq .ID $.Project.DownloadID -}} selected {{- end }} value="{{ .ID }}">{{ .Title }}</option>
					{{ end }}
				</select>
			</div>
			<div class="form-check">
				<input class="form-check-input" type="radio" name="download_option" value="new">
				<label class="form-check-label">Upload a new file</label>
				<input type="file" class="form-control-file" name="file">
			</div>
		</div>

		<button type="submit" class="btn btn-primary">Save</button>
	</form>`)

type projectFormData struct {
	*Route
	Project core.Project
}

func (data *projectFormData) Downloads() ([]core.Download, error) {
	return data.db.GetAllDownloads()
}

// addProject is deliberately not gated, matching the original site. The
// author is recorded only when someone is logged in.
func addProject(w http.ResponseWriter, req *http.Request, r *Route, params httprouter.Params) error {

	var p = core.Project{
		AuthorID: r.UserID(),
	}

	if req.Method == http.MethodPost {

		p.Title = strings.TrimSpace(req.PostFormValue("title"))
		p.Description = strings.TrimSpace(req.PostFormValue("description"))
		p.Link = strings.TrimSpace(req.PostFormValue("project_link"))

		if p.Title == "" || p.Description == "" {
			r.Danger(ErrMissingFields)
		} else {

			switch req.PostFormValue("download_option") {

			case "existing":
				// the submitted id is trusted and stored without verifying the row
				p.DownloadID, _ = strconv.Atoi(req.PostFormValue("download_id"))

			case "new":
				if file, header, err := req.FormFile("file"); err == nil {
					defer file.Close()
					filename, err := r.db.Uploads.Folder(core.DownloadsFolder).Upload(header.Filename, file)
					if err != nil {
						r.Danger(err)
						return projectFormTmpl.Execute(w, &projectFormData{Route: r, Project: p})
					}
					// download row and project are created in one transaction
					if _, _, err := r.db.InsertProjectWithDownload(p, core.Download{
						Title:       p.Title,
						Description: p.Description,
						Filename:    filename,
					}); err != nil {
						return err
					}
					r.SeeOther("/projects")
					return nil
				}
				// no file attached, create the project without a download
			}

			if _, err := r.db.InsertProject(p); err != nil {
				return err
			}
			r.SeeOther("/projects")
			return nil
		}
	}

	return projectFormTmpl.Execute(w, &projectFormData{
		Route:   r,
		Project: p,
	})
}

func editProject(w http.ResponseWriter, req *http.Request, r *Route, params httprouter.Params) error {

	id, err := strconv.Atoi(params.ByName("arg"))
	if err != nil {
		r.NotFound("Project not found")
		return nil
	}

	p, err := r.db.GetProject(id)
	if err != nil {
		return err // aborts the request, including not found
	}

	if req.Method == http.MethodPost {

		p.Title = strings.TrimSpace(req.PostFormValue("title"))
		p.Description = strings.TrimSpace(req.PostFormValue("description"))
		p.Link = strings.TrimSpace(req.PostFormValue("project_link"))

		if p.Title == "" || p.Description == "" {
			r.Danger(ErrMissingFields)
		} else {

			switch req.PostFormValue("download_option") {

			case "existing":
				// the submitted id is trusted and stored without verifying the row
				p.DownloadID, _ = strconv.Atoi(req.PostFormValue("download_id"))

			case "new":
				if file, header, err := req.FormFile("file"); err == nil {
					defer file.Close()
					filename, err := r.db.Uploads.Folder(core.DownloadsFolder).Upload(header.Filename, file)
					if err != nil {
						r.Danger(err)
						return projectFormTmpl.Execute(w, &projectFormData{Route: r, Project: p})
					}
					// download row and project update in one transaction
					if _, err := r.db.UpdateProjectWithDownload(p, core.Download{
						Title:       p.Title,
						Description: p.Description,
						Filename:    filename,
					}); err != nil {
						return err
					}
					r.SeeOther("/projects")
					return nil
				}
				// no file attached, keep the current download
			}

			if err := r.db.UpdateProject(p); err != nil {
				return err
			}
			r.SeeOther("/projects")
			return nil
		}
	}

	return projectFormTmpl.Execute(w, &projectFormData{
		Route:   r,
		Project: p,
	})
}
