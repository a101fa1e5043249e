package mailer

import (
	"fmt"
	"html/template"
	"strings"
	"time"
)

var alertTemplate = template.Must(template.New("resale-alert").Parse(`<!DOCTYPE html>
<html>
<head>
  <meta charset="utf-8">
  <meta name="viewport" content="width=device-width, initial-scale=1.0">
</head>
<body style="font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif; background-color: #f4f4f5; color: #18181b; padding: 40px 20px; margin: 0;">
  <div style="max-width: 500px; margin: 0 auto; background-color: #ffffff; border-radius: 16px; padding: 32px;">
    <div style="text-align: center; margin-bottom: 24px;">
      <div style="font-size: 48px; margin-bottom: 12px;">🎫</div>
      <h1 style="font-size: 24px; font-weight: bold; margin: 0; color: #18181b;">Billetter tilgjengelige!</h1>
    </div>
    <div style="background-color: #f4f4f5; border-radius: 12px; padding: 20px; margin-bottom: 24px;">
      <h2 style="font-size: 18px; font-weight: bold; margin: 0 0 12px 0; color: #18181b;">{{.EventName}}</h2>
      <div style="color: #52525b; font-size: 14px; margin-bottom: 6px;">📅 {{.Date}}</div>
      <div style="color: #52525b; font-size: 14px;">📍 {{.Venue}}</div>
    </div>
    <a href="{{.TicketURL}}" style="display: block; background-color: #2563eb; color: #ffffff; text-decoration: none; padding: 16px 32px; border-radius: 12px; font-weight: 600; text-align: center; font-size: 16px;">Se billetter på Ticketmaster →</a>
    <div style="text-align: center; margin-top: 24px; color: #71717a; font-size: 12px; border-top: 1px solid #e4e4e7; padding-top: 24px;">
      <p style="margin: 0 0 8px 0;">Du mottar denne e-posten fordi du sporet dette arrangementet på TicketAlert Norge.</p>
      <p style="margin: 0; color: #a1a1aa;">© {{.Year}} TicketAlert Norge</p>
    </div>
  </div>
</body>
</html>
`))

type alertTemplateData struct {
	EventName string
	Date      string
	Venue     string
	TicketURL string
	Year      int
}

func renderAlert(alert Alert) (string, error) {
	var b strings.Builder
	err := alertTemplate.Execute(&b, alertTemplateData{
		EventName: alert.EventName,
		Date:      formatDateNorwegian(alert.EventDate),
		Venue:     alert.Venue,
		TicketURL: alert.TicketURL,
		Year:      time.Now().Year(),
	})
	if err != nil {
		return "", fmt.Errorf("render alert template: %w", err)
	}
	return b.String(), nil
}

var (
	norwegianWeekdays = [...]string{
		"søndag", "mandag", "tirsdag", "onsdag", "torsdag", "fredag", "lørdag",
	}
	norwegianMonths = [...]string{
		"januar", "februar", "mars", "april", "mai", "juni",
		"juli", "august", "september", "oktober", "november", "desember",
	}
)

// formatDateNorwegian renders a calendar date the way the email shows it,
// e.g. "mandag 14. september 2026". Unparseable input is passed through.
func formatDateNorwegian(date string) string {
	parsed, err := time.Parse("2006-01-02", date)
	if err != nil {
		return date
	}
	return fmt.Sprintf("%s %d. %s %d",
		norwegianWeekdays[parsed.Weekday()],
		parsed.Day(),
		norwegianMonths[parsed.Month()-1],
		parsed.Year(),
	)
}
