package ui

import (
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// NewTable returns a rounded table writing to w.
func NewTable(w io.Writer, headers ...string) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleRounded)
	if len(headers) > 0 {
		row := make(table.Row, len(headers))
		for i, h := range headers {
			row[i] = text.FgHiCyan.Sprint(h)
		}
		t.AppendHeader(row)
	}
	return t
}

// StatusText colors a health status word.
func StatusText(status string) string {
	switch status {
	case "healthy", "ok", "detected", "valid":
		return text.FgGreen.Sprint(status)
	case "degraded", "forced":
		return text.FgYellow.Sprint(status)
	case "skipped", "-":
		return text.FgHiBlack.Sprint(status)
	default:
		return text.FgRed.Sprint(status)
	}
}

// ModeText colors a deployment mode.
func ModeText(mode string) string {
	if mode == "existing" {
		return text.FgHiBlue.Sprint(mode)
	}
	return text.FgHiWhite.Sprint(mode)
}
