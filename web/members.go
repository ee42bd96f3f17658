package web

import (
	"net/http"
	"strconv"

	"clubsite/auth"
	"clubsite/core"
	"github.com/julienschmidt/httprouter"
)

var membersTmpl = tmpl(`<h1>Members</h1>

	<table class="table">
		<thead>
			<tr>
				<th>Name</th>
				<th>Leader</th>
				<th>Author</th>
				<th></th>
			</tr>
		</thead>
		<tbody>
			{{ range .Members }}
				<tr>
					<form method="post">
						<input type="hidden" name="user_id" value="{{ .ID }}">
						<td>{{ .Name }}</td>
						<td><input type="checkbox" name="leader" {{ if .IsLeader }}checked{{ end }}></td>
						<td><input type="checkbox" name="author" {{ if .IsAuthor }}checked{{ end }}></td>
						<td><button type="submit" class="btn btn-sm btn-secondary">Save</button></td>
					</form>
				</tr>
			{{ end }}
		</tbody>
	</table>`)

// memberView exists because templates can't pass auth.Permission values.
type memberView struct {
	auth.User
}

func (m memberView) IsLeader() bool {
	return m.Has(auth.Leader)
}

func (m memberView) IsAuthor() bool {
	return m.Has(auth.Author)
}

type membersData struct {
	*Route
	Members []memberView
}

// members lets leaders grant and revoke the leader and author flags.
func members(w http.ResponseWriter, req *http.Request, r *Route, params httprouter.Params) error {

	if req.Method == http.MethodPost {

		id, err := strconv.Atoi(req.PostFormValue("user_id"))
		if err != nil {
			r.NotFound("User not found")
			return nil
		}

		u, err := r.db.UserDB.GetUser(id)
		if err == core.ErrNotFound {
			r.NotFound("User not found")
			return nil
		}
		if err != nil {
			return err
		}

		// an unchecked checkbox is simply absent from the form
		var leader = req.PostFormValue("leader") != ""
		var author = req.PostFormValue("author") != ""

		if err := r.db.UserDB.SetPermissions(u, leader, author); err != nil {
			return err
		}

		r.Success("permissions of %s have been updated", u.Name())
		r.SeeOther("/members")
		return nil
	}

	users, err := r.db.UserDB.GetAllUsers(100, 0)
	if err != nil {
		return err
	}

	var views = make([]memberView, len(users))
	for i, u := range users {
		views[i] = memberView{u}
	}

	return membersTmpl.Execute(w, &membersData{
		Route:   r,
		Members: views,
	})
}
