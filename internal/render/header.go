// Package render builds the HTML views fed to the PDF renderer: the
// repeating page header fragment and the checklist body document. All
// builders are pure; the browser is someone else's problem.
package render

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"html/template"

	"custodia/internal/models"
)

// headerTemplate is an HTML fragment, not a full document. The date,
// pageNumber and totalPages spans are resolved by Chrome's own print
// template engine, not by this code.
const headerTemplate = `<div style="font-size: 10px; font-family: Inter, sans-serif; width: 100%; padding: 0 20px; display: flex; align-items: center; justify-content: space-between;">
  <img src="{{.LogoSrc}}" style="height: 32px;" />
  <span style="font-weight: 600;">{{.BookingName}}</span>
  <span><span class="date"></span> &mdash; page <span class="pageNumber"></span>/<span class="totalPages"></span></span>
</div>`

var headerTmpl = template.Must(template.New("header").Parse(headerTemplate))

type headerData struct {
	LogoSrc     template.URL
	BookingName string
}

// BuildHeader produces the page header fragment for a booking checklist.
// The organization logo is inlined as a base64 data URI; without a logo
// the image source stays empty.
func BuildHeader(org *models.Organization, booking *models.Booking) (string, error) {
	data := headerData{
		LogoSrc:     template.URL(logoDataURI(org)),
		BookingName: booking.Name,
	}

	var buf bytes.Buffer
	if err := headerTmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to build header template: %w", err)
	}
	return buf.String(), nil
}

func logoDataURI(org *models.Organization) string {
	if org == nil || org.Image == nil || len(org.Image.Blob) == 0 {
		return ""
	}
	contentType := org.Image.ContentType
	if contentType == "" {
		contentType = "image/png"
	}
	return fmt.Sprintf("data:%s;base64,%s", contentType, base64.StdEncoding.EncodeToString(org.Image.Blob))
}
