package ui

import (
	"fmt"
	"sort"
	"strings"
)

// RenderSuccessBox renders a success result box
func RenderSuccessBox(title string, details map[string]string, width int) string {
	lines := []string{SuccessTitleStyle.Render(fmt.Sprintf("%s  %s", SuccessMarker, title))}
	lines = append(lines, detailLines(details)...)
	return boxStyle(SuccessColor, width).Render(strings.Join(lines, "\n"))
}

// RenderErrorBox renders an error result box with an optional troubleshooting hint
func RenderErrorBox(title string, err error, hint string, width int) string {
	lines := []string{ErrorTitleStyle.Render(fmt.Sprintf("%s  %s", FailureMarker, title))}
	if err != nil {
		lines = append(lines, "", ErrorMessageStyle.Render("Error: "+err.Error()))
	}
	if hint != "" {
		lines = append(lines, "", TroubleshootingItemStyle.Render(hint))
	}
	return boxStyle(ErrorColor, width).Render(strings.Join(lines, "\n"))
}

// RenderWarningBox renders a warning result box
func RenderWarningBox(title string, details map[string]string, width int) string {
	lines := []string{WarningTitleStyle.Render(fmt.Sprintf("%s  %s", WarningMarker, title))}
	lines = append(lines, detailLines(details)...)
	return boxStyle(WarningColor, width).Render(strings.Join(lines, "\n"))
}

// detailLines renders key/value pairs sorted by key
func detailLines(details map[string]string) []string {
	if len(details) == 0 {
		return nil
	}
	keys := make([]string, 0, len(details))
	for k := range details {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	lines := []string{""}
	for _, k := range keys {
		lines = append(lines, KeyStyle.Render(k+":")+" "+ValueStyle.Render(details[k]))
	}
	return lines
}
