package web

import (
	"errors"
	"net/http"

	"github.com/julienschmidt/httprouter"
)

var ErrLogin = errors.New("wrong username or password")

var loginTmpl = tmpl(`<h1>Login</h1>
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
			<button type="submit" class="btn btn-primary" name="login">Login</button>
		</div>
	</form>`)

type loginData struct {
	*Route
	Username string
}

func login(w http.ResponseWriter, req *http.Request, r *Route, params httprouter.Params) error {

	if r.LoggedIn() {
		r.SeeOther("/")
		return nil
	}

	var username string

	if req.Method == http.MethodPost {

		username = req.PostFormValue("username")
		password := req.PostFormValue("password")

		err := r.Login(username, password)
		if err == nil {
			r.SeeOther("/")
			return nil
		} else {
			r.Danger(ErrLogin)
			// keep POST data for the username field
		}
	}

	return loginTmpl.Execute(w, &loginData{
		Route:    r,
		Username: username,
	})
}
