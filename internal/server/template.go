package server

import (
	"encoding/base64"
	"html/template"

	"github.com/KaramelBytes/cafeteria-insights/internal/dashboard"
)

const appTitle = "Campus Cafeteria Satisfaction Analysis"

type pageView struct {
	Title   string
	Entries []dashboard.Entry
	Active  string
	Heading string
	Blocks  []dashboard.Block
	Error   string
}

var templateFuncs = template.FuncMap{
	"pngURI": func(b []byte) template.URL {
		return template.URL("data:image/png;base64," + base64.StdEncoding.EncodeToString(b))
	},
}

const pageTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Heading}} · {{.Title}}</title>
<style>
body{margin:0;font-family:sans-serif;display:flex;color:#262730}
nav{width:220px;min-height:100vh;background:#f0f2f6;padding:1rem}
nav a{display:block;padding:.4rem .6rem;color:#262730;text-decoration:none;border-radius:4px}
nav a.active{background:#ff4b4b;color:#fff}
main{flex:1;padding:1.5rem 2rem;overflow-x:auto}
table{border-collapse:collapse;font-size:.85rem;margin:.5rem 0}
th,td{border:1px solid #ddd;padding:.25rem .5rem;text-align:right}
th{background:#fafafa}
.success{background:#dff0d8;padding:.6rem;border-radius:4px}
.info{background:#e7f0fa;padding:.6rem;border-radius:4px}
.error{background:#fbe4e4;padding:.6rem;border-radius:4px}
img{max-width:100%}
</style>
</head>
<body>
<nav>
<h3>Navigation</h3>
<p>Go to:</p>
{{range .Entries}}<a href="/sections/{{.Slug}}"{{if eq .Slug $.Active}} class="active"{{end}}>{{.Label}}</a>
{{end}}
</nav>
<main>
<h1>🍽 {{.Title}}</h1>
<p>Insight-driven Data Mining using EDA, Preprocessing, and Visualizations</p>
<h2>{{.Heading}}</h2>
{{if .Error}}<div class="error">{{.Error}}</div>{{end}}
{{range .Blocks}}
{{if eq .Kind "heading"}}<h3>{{.Text}}</h3>
{{else if eq .Kind "text"}}<p>{{.Text}}</p>
{{else if eq .Kind "list"}}<ul>{{range .Items}}<li>{{.}}</li>{{end}}</ul>
{{else if eq .Kind "success"}}<div class="success">{{.Text}}</div>
{{else if eq .Kind "info"}}<div class="info">{{.Text}}</div>
{{else if eq .Kind "error"}}<div class="error">{{.Text}}</div>
{{else if eq .Kind "table"}}<table><thead><tr>{{range .Table.Columns}}<th>{{.}}</th>{{end}}</tr></thead>
<tbody>{{range .Table.Rows}}<tr>{{range .}}<td>{{.}}</td>{{end}}</tr>{{end}}</tbody></table>
{{else if eq .Kind "choice"}}<form method="get"><label>{{.Text}}
<select name="feature" onchange="this.form.submit()">{{$sel := .Selected}}{{range .Options}}<option value="{{.}}"{{if eq . $sel}} selected{{end}}>{{.}}</option>{{end}}</select></label>
<noscript><button type="submit">Show</button></noscript></form>
{{else if eq .Kind "chart"}}<img alt="{{.Chart}}" src="{{pngURI .Image}}">
{{end}}
{{end}}
</main>
</body>
</html>
`
