package sink

import (
	"bytes"
	"html/template"
	"strings"

	"github.com/matzehuels/barchart/pkg/dom"
	"github.com/matzehuels/barchart/pkg/errors"
)

// Entry is one chart on an HTML page. ID is written as data-id and is used
// by the click wiring; it may be empty.
type Entry struct {
	ID     string
	Source Source
}

// HTMLOption configures HTML export.
type HTMLOption func(*htmlRenderer)

type htmlRenderer struct {
	title    string
	clickURL string
	svgOpts  []SVGOption
}

// WithPageTitle sets the document title.
func WithPageTitle(title string) HTMLOption {
	return func(r *htmlRenderer) { r.title = title }
}

// WithClickURL wires mousedown on every chart with an ID to a POST of
// {"ctrl":bool,"alt":bool} to url, where "{id}" is replaced by the chart ID.
// The response body replaces the chart's svg.
func WithClickURL(url string) HTMLOption {
	return func(r *htmlRenderer) { r.clickURL = url }
}

// WithHTMLSVGOptions passes options to the SVG renderer for each chart.
func WithHTMLSVGOptions(opts ...SVGOption) HTMLOption {
	return func(r *htmlRenderer) { r.svgOpts = opts }
}

var pageTemplate = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
  body { margin: 0; padding: 24px; font-family: sans-serif; }
  .chart_holder { display: inline-block; margin: 12px; vertical-align: top; }
  .chart_holder[data-id] { cursor: pointer; }
</style>
</head>
<body>
{{range .Charts}}<div class="chart_holder" data-title="{{.Title}}"{{if .ID}} data-id="{{.ID}}"{{end}} style="{{.Style}}">
{{.SVG}}</div>
{{end}}{{if .ClickURL}}<script>
  const clickURL = {{.ClickURL}};
  document.querySelectorAll('.chart_holder[data-id]').forEach(function(holder) {
    holder.addEventListener('mousedown', function(e) {
      const url = clickURL.replace('{id}', encodeURIComponent(holder.dataset.id));
      fetch(url, {
        method: 'POST',
        headers: {'Content-Type': 'application/json'},
        body: JSON.stringify({ctrl: e.ctrlKey, alt: e.altKey})
      }).then(function(res) {
        if (!res.ok) throw new Error(res.statusText);
        holder.dataset.title = res.headers.get('X-Chart-Title') || holder.dataset.title;
        return res.text();
      }).then(function(svg) {
        holder.innerHTML = svg;
        const el = holder.querySelector('svg');
        if (el) {
          holder.style.width = el.getAttribute('width') + 'px';
          holder.style.height = el.getAttribute('height') + 'px';
        }
      }).catch(function(err) { console.error(err); });
    });
  });
</script>
{{end}}</body>
</html>
`))

type pageChart struct {
	ID    string
	Title string
	Style template.CSS
	SVG   template.HTML
}

// RenderHTML renders a page holding every entry's chart container.
func RenderHTML(entries []Entry, opts ...HTMLOption) ([]byte, error) {
	r := htmlRenderer{title: "Bar charts"}
	for _, opt := range opts {
		opt(&r)
	}

	page := struct {
		Title    string
		ClickURL string
		Charts   []pageChart
	}{Title: r.title, ClickURL: r.clickURL}

	for _, e := range entries {
		svg, err := RenderSVG(e.Source, r.svgOpts...)
		if err != nil {
			return nil, err
		}
		page.Charts = append(page.Charts, pageChart{
			ID:    e.ID,
			Title: e.Source.Title(),
			Style: containerStyle(e.Source.Node()),
			SVG:   template.HTML(svg),
		})
	}

	var buf bytes.Buffer
	if err := pageTemplate.Execute(&buf, page); err != nil {
		return nil, errors.Wrap(errors.ErrCodeExport, err, "render html")
	}
	return buf.Bytes(), nil
}

func containerStyle(n *dom.Node) template.CSS {
	if n == nil {
		return ""
	}
	parts := make([]string, 0, 2)
	for _, s := range n.Styles() {
		parts = append(parts, s.Name+": "+s.Value)
	}
	return template.CSS(strings.Join(parts, "; "))
}
