package web

import (
	"html/template"
	"strconv"

	"housemap/internal/core"
)

// indexData feeds the index template.
type indexData struct {
	Page    core.ListingPage
	Filters core.FilterState
	States  []string
}

var indexFuncs = template.FuncMap{
	"inc": func(i int) int { return i + 1 },
	"dec": func(i int) int { return i - 1 },
	// bound renders a numeric filter bound, blank when unset.
	"bound": func(f float64) string {
		if f == 0 {
			return ""
		}
		return strconv.FormatFloat(f, 'f', -1, 64)
	},
}

var indexTemplate = template.Must(template.New("index").Funcs(indexFuncs).Parse(indexHTML))

const indexHTML = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>Listings Browser</title>
<style>
body { font-family: system-ui, sans-serif; margin: 1.5rem; color: #222; }
form.filters { display: grid; grid-template-columns: repeat(4, minmax(10rem, 1fr)); gap: .5rem 1rem; max-width: 64rem; margin-bottom: 1rem; }
form.filters label { display: flex; flex-direction: column; font-size: .8rem; }
table { border-collapse: collapse; font-size: .85rem; }
th, td { border: 1px solid #ccc; padding: .25rem .5rem; text-align: left; }
th a { text-decoration: none; color: inherit; }
.meta { margin: .75rem 0; }
.meta a { margin-right: 1rem; }
</style>
</head>
<body>
<h1>Listings</h1>

<div class="meta">
<a href="/map">Map of current results</a>
<a href="/api/export">Download CSV</a>
<a href="/?reset=1">Reset filters</a>
</div>

<form class="filters" method="get" action="/">
<input type="hidden" name="apply" value="1">
<label>Min price <input type="number" name="min_price" value="{{bound .Filters.Price.Min}}"></label>
<label>Max price <input type="number" name="max_price" value="{{bound .Filters.Price.Max}}"></label>
<label>Min living space <input type="number" name="min_space" value="{{bound .Filters.Space.Min}}"></label>
<label>Max living space <input type="number" name="max_space" value="{{bound .Filters.Space.Max}}"></label>
<label>Min beds <input type="number" name="min_beds" value="{{bound .Filters.Beds.Min}}"></label>
<label>Max beds <input type="number" name="max_beds" value="{{bound .Filters.Beds.Max}}"></label>
<label>Min income <input type="number" name="min_income" value="{{bound .Filters.Income.Min}}"></label>
<label>Max income <input type="number" name="max_income" value="{{bound .Filters.Income.Max}}"></label>
<label>City contains <input type="text" name="city" value="{{.Filters.City}}"></label>
<label>State
<select name="state">
<option value="">Any</option>
{{range .States}}<option value="{{.}}"{{if eq . $.Filters.State}} selected{{end}}>{{.}}</option>{{end}}
</select>
</label>
<label>Address contains <input type="text" name="address" value="{{.Filters.Address}}"></label>
<label><span>&nbsp;</span><button type="submit">Apply</button></label>
</form>

<p class="meta">{{.Page.Visible}} of {{.Page.Total}} listings visible, page {{.Page.Page}} of {{.Page.TotalPages}}.
{{if gt .Page.Page 1}}<a href="?page={{dec .Page.Page}}">&laquo; prev</a>{{end}}
{{if lt .Page.Page .Page.TotalPages}}<a href="?page={{inc .Page.Page}}">next &raquo;</a>{{end}}
</p>

<table>
<thead><tr>
{{range .Page.Columns}}<th><a href="?sort={{.}}&amp;dir={{if and (eq $.Page.Sort.Column .) (eq $.Page.Sort.Dir "asc")}}desc{{else}}asc{{end}}">{{.}}{{if eq $.Page.Sort.Column .}}{{if eq $.Page.Sort.Dir "desc"}} &darr;{{else}} &uarr;{{end}}{{end}}</a></th>{{end}}
</tr></thead>
<tbody>
{{range .Page.Rows}}<tr>{{range .}}<td>{{.}}</td>{{end}}</tr>
{{end}}
</tbody>
</table>

</body>
</html>
`
