package mail

import (
	"embed"
	"fmt"
	"html/template"
	"strings"
	texttemplate "text/template"

	"uvalert/internal/domain/entity"
	"uvalert/internal/domain/service"

	"github.com/pkg/errors"
)

//go:embed templates/alert.html templates/confirmation.txt
var templateFS embed.FS

type renderer struct {
	alert        *template.Template
	confirmation *texttemplate.Template
}

// NewRenderer parses the embedded mail templates. Parse problems fail
// construction so a broken template never reaches the dispatch cycle.
func NewRenderer() (service.MailRenderer, error) {
	alert, err := template.ParseFS(templateFS, "templates/alert.html")
	if err != nil {
		return nil, errors.Wrap(err, "parse alert template")
	}

	confirmation, err := texttemplate.ParseFS(templateFS, "templates/confirmation.txt")
	if err != nil {
		return nil, errors.Wrap(err, "parse confirmation template")
	}

	return &renderer{alert: alert, confirmation: confirmation}, nil
}

type alertBindings struct {
	Region          string
	DailyMax        string
	Current         string
	Advisory        template.HTML
	UnsubscribeLink string
}

func (r *renderer) RenderAlert(data service.AlertMailData) (string, error) {
	var sb strings.Builder

	err := r.alert.Execute(&sb, alertBindings{
		Region:          data.Region.Display,
		DailyMax:        formatReading(data.DailyMax),
		Current:         formatReading(data.Current),
		Advisory:        advisoryHTML(data.Advisory.Text),
		UnsubscribeLink: data.UnsubscribeLink,
	})
	if err != nil {
		return "", errors.Wrap(err, "render alert mail")
	}

	return sb.String(), nil
}

type confirmationBindings struct {
	Region          string
	Latitude        float64
	Longitude       float64
	UnsubscribeLink string
}

func (r *renderer) RenderConfirmation(data service.ConfirmationMailData) (string, error) {
	var sb strings.Builder

	err := r.confirmation.Execute(&sb, confirmationBindings{
		Region:          data.Region.Display,
		Latitude:        data.Latitude,
		Longitude:       data.Longitude,
		UnsubscribeLink: data.UnsubscribeLink,
	})
	if err != nil {
		return "", errors.Wrap(err, "render confirmation mail")
	}

	return sb.String(), nil
}

func formatReading(r entity.UVReading) string {
	if !r.HasValue() {
		return "indisponível"
	}

	return fmt.Sprintf("%.1f", *r.Value)
}

// advisoryHTML escapes the advisory copy and turns its line breaks into
// <br> so the tiered text keeps its layout inside the HTML body.
func advisoryHTML(text string) template.HTML {
	escaped := template.HTMLEscapeString(text)

	//nolint:gosec // escaped above; only <br> markup is injected
	return template.HTML(strings.ReplaceAll(escaped, "\n", "<br>"))
}
