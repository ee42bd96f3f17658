package web

import (
	"net/http"
	"strings"

	"clubsite/auth"
	"github.com/julienschmidt/httprouter"
)

var registerTmpl = tmpl(`<h1>Register</h1>
	<form method="post" style="max-width: 20rem; margin: auto;">
		<div class="form-group">
			<label>Username</label>
			<input type="text" class="form-control" name="username" value="{{ .Username }}" required autofocus>
		</div>
		<div class="form-group">
			<label>Password</label>
			<input type="password" class="form-control" name="password" required>
		</div>
		<div class="form-group">
			<button type="submit" class="btn btn-primary" name="register">Register</button>
		</div>
	</form>`)

type registerData struct {
	*Route
	Username string
}

// register creates an account without any role flags.
func register(w http.ResponseWriter, req *http.Request, r *Route, params httprouter.Params) error {

	var username string

	if req.Method == http.MethodPost {

		username = strings.TrimSpace(req.PostFormValue("username"))
		password := req.PostFormValue("password")

		if username == "" || password == "" {
			r.Danger(ErrMissingFields)
		} else {
			_, err := r.db.UserDB.InsertUser(username, password)
			switch err {
			case nil:
				r.Success("your account has been created, you can log in now")
				r.SeeOther("/login")
				return nil
			case auth.ErrUsernameTaken:
				r.Danger(err)
				// keep POST data for the username field
			default:
				return err
			}
		}
	}

	return registerTmpl.Execute(w, &registerData{
		Route:    r,
		Username: username,
	})
}
