package tabs

import (
	"strings"
	"unicode/utf8"
)

// maxTitleLen bounds stored titles, in bytes.
const maxTitleLen = 255

// Client is one embedded window.
type Client struct {
	Window Window
	// Title is the client's window name, truncated to maxTitleLen bytes.
	Title string
	// DisplayName is what the tab shows; the basename of Title when
	// basename titles are enabled.
	DisplayName    string
	Urgent         bool
	CloseRequested bool
	// TabX is the right edge of the client's tab in the last rendered
	// frame. Only meaningful for visible tabs.
	TabX int
}

func (c *Client) setTitle(title string, basename bool) {
	c.Title = truncateTitle(title)
	c.DisplayName = c.Title
	if basename {
		c.DisplayName = Basename(c.Title)
	}
}

func truncateTitle(s string) string {
	if len(s) <= maxTitleLen {
		return s
	}
	s = s[:maxTitleLen]
	for len(s) > 0 && !utf8.ValidString(s) {
		s = s[:len(s)-1]
	}
	return s
}

// Basename returns the part of title after the last slash.
func Basename(title string) string {
	if i := strings.LastIndexByte(title, '/'); i >= 0 {
		return title[i+1:]
	}
	return title
}
