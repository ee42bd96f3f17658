package web

import (
	"net/http"
	"strconv"
	"strings"

	"clubsite/core"
	"clubsite/upload"
	"github.com/julienschmidt/httprouter"
)

var addDownloadTmpl = tmpl(`<h1>Add download</h1>
	<form method="post" enctype="multipart/form-data">
		<div class="form-group">
			<label>Title</label>
			<input type="text" class="form-control" name="title" value="{{ .Title }}" required autofocus>
		</div>
		<div class="form-group">
			<label>Description</label>
			<textarea class="form-control" name="description" rows="3" required>{{ .Description }}</textarea>
		</div>
		<div class="form-group">
			<label>File</label>
			<input type="file" class="form-control-file" name="file" required>
		</div>
		<button type="submit" class="btn btn-primary">Add download</button>
	</form>`)

type addDownloadData struct {
	*Route
	Title       string
	Description string
}

func addDownload(w http.ResponseWriter, req *http.Request, r *Route, params httprouter.Params) error {

	var title, description string

	if req.Method == http.MethodPost {

		title = strings.TrimSpace(req.PostFormValue("title"))
		description = strings.TrimSpace(req.PostFormValue("description"))
		file, header, err := req.FormFile("file")

		switch {
		case err == http.ErrMissingFile || err == http.ErrNotMultipart:
			r.Danger(upload.ErrEmptyUpload)
		case err != nil:
			return err
		case title == "" || description == "":
			file.Close()
			r.Danger(ErrMissingFields)
		default:
			defer file.Close()
			filename, err := r.db.Uploads.Folder(core.DownloadsFolder).Upload(header.Filename, file)
			if err != nil {
				r.Danger(err)
				break
			}
			if _, err := r.db.InsertDownload(title, description, filename); err != nil {
				return err
			}
			r.Success("download %s has been added", title)
			r.SeeOther("/")
			return nil
		}
	}

	return addDownloadTmpl.Execute(w, &addDownloadData{
		Route:       r,
		Title:       title,
		Description: description,
	})
}

// download streams the stored file as an attachment. A missing row and a
// missing backing file both yield a 404, not a server error.
func download(w http.ResponseWriter, req *http.Request, r *Route, params httprouter.Params) error {

	id, err := strconv.Atoi(params.ByName("id"))
	if err != nil {
		r.NotFound("Download not found")
		return nil
	}

	d, err := r.db.GetDownload(id)
	if err == core.ErrNotFound {
		r.NotFound("Download not found")
		return nil
	}
	if err != nil {
		return err
	}

	err = r.db.Uploads.Folder(core.DownloadsFolder).ServeAttachment(w, req, d.Filename)
	if err == upload.ErrFileNotFound {
		r.NotFound("File not found")
		return nil
	}
	return err
}
