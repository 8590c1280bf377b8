package render

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"html/template"
	"time"

	"github.com/yuin/goldmark"

	"custodia/internal/models"
	"custodia/internal/qr"
)

// ChecklistInput is the composite fetched by the service layer.
type ChecklistInput struct {
	Booking      *models.Booking
	Organization *models.Organization
	Assets       []*models.Asset
	QRCodes      map[string]qr.Code
	GeneratedAt  time.Time
}

const checklistTemplate = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8" />
<style>
  body { font-family: Inter, sans-serif; font-size: 12px; color: #1f2937; }
  h1 { font-size: 18px; margin-bottom: 2px; }
  .meta { color: #6b7280; margin-bottom: 16px; }
  table { width: 100%; border-collapse: collapse; }
  th, td { border: 1px solid #e5e7eb; padding: 6px 8px; text-align: left; vertical-align: top; }
  th { background: #f9fafb; }
  .qr img { width: 64px; height: 64px; }
  .conflict { color: #b91c1c; }
  .notes p { margin: 2px 0; }
</style>
</head>
<body>
  <h1>{{.Booking.Name}}</h1>
  <div class="meta">
    {{.Organization.Name}} &middot; {{.Booking.Status}}
    {{- if .Period}} &middot; {{.Period}}{{end}}
    {{- if .Booking.CustodianName}} &middot; custodian: {{.Booking.CustodianName}}{{end}}
  </div>
  <table>
    <thead>
      <tr><th></th><th>Asset</th><th>Category</th><th>Location</th><th>In custody of</th><th>Conflicts</th><th>QR</th></tr>
    </thead>
    <tbody>
    {{range $i, $row := .Rows}}
      <tr>
        <td>{{inc $i}}</td>
        <td>
          {{$row.Asset.Title}}
          {{- if $row.Notes}}<div class="notes">{{$row.Notes}}</div>{{end}}
        </td>
        <td>{{with $row.Asset.Category}}{{.Name}}{{end}}</td>
        <td>{{with $row.Asset.Location}}{{.Name}}{{end}}</td>
        <td>{{with $row.Asset.Custody}}{{.CustodianName}}{{end}}</td>
        <td>{{if $row.Conflicts}}<span class="conflict">{{range $j, $name := $row.Conflicts}}{{if $j}}, {{end}}{{$name}}{{end}}</span>{{end}}</td>
        <td class="qr">{{if $row.QRSrc}}<img src="{{$row.QRSrc}}" />{{end}}</td>
      </tr>
    {{end}}
    </tbody>
  </table>
</body>
</html>`

var checklistTmpl = template.Must(template.New("checklist").Funcs(template.FuncMap{
	"inc": func(i int) int { return i + 1 },
}).Parse(checklistTemplate))

type checklistRow struct {
	Asset     *models.Asset
	Notes     template.HTML
	Conflicts []string
	QRSrc     template.URL
}

type checklistData struct {
	Booking      *models.Booking
	Organization *models.Organization
	Period       string
	Rows         []checklistRow
}

// BuildChecklist renders the full HTML checklist document.
func BuildChecklist(input ChecklistInput) (string, error) {
	data := checklistData{
		Booking:      input.Booking,
		Organization: input.Organization,
		Period:       formatPeriod(input.Booking.Window()),
	}

	for _, asset := range input.Assets {
		row := checklistRow{Asset: asset}

		if asset.Description != "" {
			notes, err := markdownHTML(asset.Description)
			if err != nil {
				return "", fmt.Errorf("failed to render notes for asset %s: %w", asset.ID, err)
			}
			row.Notes = notes
		}

		for _, other := range asset.Bookings {
			if other.ID == input.Booking.ID {
				continue
			}
			row.Conflicts = append(row.Conflicts, other.Name)
		}

		if code, ok := input.QRCodes[asset.ID]; ok {
			row.QRSrc = template.URL("data:image/png;base64," + base64.StdEncoding.EncodeToString(code.PNG))
		}

		data.Rows = append(data.Rows, row)
	}

	var buf bytes.Buffer
	if err := checklistTmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to build checklist template: %w", err)
	}
	return buf.String(), nil
}

func formatPeriod(w models.Window) string {
	if !w.Bounded() {
		return ""
	}
	const layout = "02 Jan 2006 15:04"
	return w.From.Format(layout) + " - " + w.To.Format(layout)
}

// markdownHTML converts asset notes written in Markdown. Notes are
// entered by the organization's own staff, so they are trusted here.
func markdownHTML(src string) (template.HTML, error) {
	var buf bytes.Buffer
	if err := goldmark.Convert([]byte(src), &buf); err != nil {
		return "", err
	}
	return template.HTML(buf.String()), nil
}
