package reporter

import (
	"github.com/fatih/color"

	"github.com/harrison/globreader/pkg/message"
)

// palette holds per-report colors. Each color is forced on or off so the
// Color option wins over fatih/color's global detection.
type palette struct {
	enabled bool
	fatal   *color.Color
	warn    *color.Color
	ok      *color.Color
}

func newPalette(enabled bool) palette {
	p := palette{
		enabled: enabled,
		fatal:   color.New(color.FgRed),
		warn:    color.New(color.FgYellow),
		ok:      color.New(color.FgGreen),
	}
	for _, c := range []*color.Color{p.fatal, p.warn, p.ok} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

func (p palette) label(sev message.Severity, text string) string {
	switch sev {
	case message.SeverityError:
		return p.fatal.Sprint(text)
	case message.SeverityWarning:
		return p.warn.Sprint(text)
	default:
		return text
	}
}

func (p palette) underline(c *color.Color, text string) string {
	if !p.enabled {
		return text
	}
	u := color.New(color.Underline)
	u.EnableColor()
	return u.Sprint(c.Sprint(text))
}
