package web

import (
	"html/template"
	"net/url"
	"strings"
)

var pageFuncs = template.FuncMap{
	"join":  strings.Join,
	"media": func(id string) string { return "/media/" + url.PathEscape(id) },
}

const pageTpl = `<!doctype html>
<html lang="en">
<meta charset="utf-8" />
<meta name="viewport" content="width=device-width, initial-scale=1" />
<title>Outputs preview</title>
<style>
body{font-family:system-ui,-apple-system,Segoe UI,Roboto;margin:0;display:grid;grid-template-columns:280px 1fr;min-height:100vh}
aside{background:#f6f6f8;border-right:1px solid #ddd;padding:1rem}
main{padding:1rem 2rem;max-width:960px}
select{width:100%;margin-bottom:1rem}
button{width:100%;padding:.5rem}
.banner{border-radius:6px;padding:.75rem;margin:.75rem 0}
.info{background:#eef5ff}
.error{background:#fdecea;color:#8a1c14}
.warning{background:#fff6e0;color:#7a5200}
video{width:100%;max-height:480px;background:#000;border-radius:6px}
.clip{margin-bottom:1.5rem}
.muted{color:#666}
</style>
<aside>
  <h2>Filters</h2>
  <form method="get" action="/">
    <input type="hidden" name="search" value="1" />
    <label for="category">Choose categories</label>
    <select id="category" name="category" multiple size="10">
    {{range .Categories}}<option value="{{.Name}}"{{if .Selected}} selected{{end}}>{{.Name}}</option>
    {{end}}</select>
    <label for="model">Choose model(s)</label>
    <select id="model" name="model" multiple size="5">
    {{range .Models}}<option value="{{.Name}}"{{if .Selected}} selected{{end}}>{{.Name}}</option>
    {{end}}</select>
    <button type="submit">Search</button>
  </form>
  {{if .Info}}<div class="banner info">{{.Info}}</div>{{end}}
  {{if .Error}}<div class="banner error" role="alert">{{.Error}}</div>{{end}}
</aside>
<main>
{{with .Result}}
  <p><strong>Showing:</strong> Categories = {{join .Selection.Categories ", "}} • Models = {{join .Selection.Models ", "}}</p>
  {{range .Sections}}
  <section id="prompt-{{.FolderNumber}}">
    <h3>Prompt {{.FolderNumber}}</h3>
    {{$prompt := .Prompt}}
    {{range .Videos}}
    <div class="clip">
      <p><strong>{{.Model}}</strong> — <code>{{.Title}}</code></p>
      <video controls preload="metadata" src="{{media .FileID}}"></video>
      {{if $prompt}}<p>Prompt : {{$prompt}}</p>{{end}}
    </div>
    {{end}}
  </section>
  {{end}}
{{end}}
{{if .Warning}}<div class="banner warning">{{.Warning}}</div>{{end}}
{{if not .Result}}{{if not .Error}}<p class="muted">No search yet.</p>{{end}}{{end}}
</main>
</html>
`
