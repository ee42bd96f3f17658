package web

import (
	"net/http"

	"clubsite/core"
	"github.com/julienschmidt/httprouter"
)

var homeTmpl = tmpl(`<h1>Welcome to {{ .AppName }}</h1>

	<p>Have a look at our <a href="/projects">projects</a> or read the <a href="/news">latest news</a>.</p>

	{{ range .LatestNews }}
		<div class="card mb-3">
			<div class="card-body">
				<h5 class="card-title"><a href="/news/{{ .ID }}">{{ .Title }}</a></h5>
				<p class="card-text">{{ Teaser .Description 200 }}</p>
				<small class="text-muted">{{ $.FormatDateTime .Created }}</small>
			</div>
		</div>
	{{ end }}`)

type homeData struct {
	*Route
}

// LatestNews returns the three most recent news items.
func (data *homeData) LatestNews() ([]core.News, error) {
	all, err := data.db.GetAllNews()
	if err != nil {
		return nil, err
	}
	if len(all) > 3 {
		all = all[:3]
	}
	return all, nil
}

func home(w http.ResponseWriter, req *http.Request, r *Route, params httprouter.Params) error {
	return homeTmpl.Execute(w, &homeData{
		Route: r,
	})
}
