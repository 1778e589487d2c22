package notion

import (
	"fmt"
	"strconv"
	"strings"
)

// Properties maps property names to values, as sent to and returned by the
// pages and database query endpoints.
type Properties map[string]Property

// Property is a page property value. Only the member matching Type is set
// on values read from the API; constructors leave Type empty.
type Property struct {
	ID          string         `json:"id,omitempty"`
	Type        string         `json:"type,omitempty"`
	Title       []RichText     `json:"title,omitempty"`
	RichText    []RichText     `json:"rich_text,omitempty"`
	Files       []File         `json:"files,omitempty"`
	Date        *Date          `json:"date,omitempty"`
	Number      *float64       `json:"number,omitempty"`
	Select      *SelectOption  `json:"select,omitempty"`
	MultiSelect []SelectOption `json:"multi_select,omitempty"`
	URL         string         `json:"url,omitempty"`
}

type RichText struct {
	Type      string `json:"type,omitempty"`
	Text      *Text  `json:"text,omitempty"`
	PlainText string `json:"plain_text,omitempty"`
}

type Text struct {
	Content string `json:"content"`
}

type File struct {
	Name     string        `json:"name"`
	Type     string        `json:"type,omitempty"`
	External *ExternalFile `json:"external,omitempty"`
	File     *HostedFile   `json:"file,omitempty"`
}

type ExternalFile struct {
	URL string `json:"url"`
}

// HostedFile is a file uploaded to Notion itself. It is only read, never sent.
type HostedFile struct {
	URL string `json:"url"`
}

type Date struct {
	Start string `json:"start"`
}

// SelectOption is a select or multi-select value.
type SelectOption struct {
	Name string `json:"name"`
}

// Page is a database row.
type Page struct {
	ID         string     `json:"id"`
	URL        string     `json:"url,omitempty"`
	Properties Properties `json:"properties"`
}

// QueryResult is one page of a database query.
type QueryResult struct {
	Results    []Page `json:"results"`
	HasMore    bool   `json:"has_more"`
	NextCursor string `json:"next_cursor"`
}

// APIError is the error object Notion returns for rejected requests.
type APIError struct {
	StatusCode int    `json:"status"`
	Code       string `json:"code"`
	Message    string `json:"message"`
}

func (e *APIError) Error() string {
	if e.Code == "" {
		return fmt.Sprintf("notion: %s (status %d)", e.Message, e.StatusCode)
	}
	return fmt.Sprintf("notion: %s (status %d, %s)", e.Message, e.StatusCode, e.Code)
}

func richText(content string) []RichText {
	return []RichText{{Text: &Text{Content: content}}}
}

// TitleProperty returns a title property holding content.
func TitleProperty(content string) Property {
	return Property{Title: richText(content)}
}

// RichTextProperty returns a rich text property holding content.
func RichTextProperty(content string) Property {
	return Property{RichText: richText(content)}
}

// ExternalFileProperty returns a files property with a single external file.
func ExternalFileProperty(name, url string) Property {
	return Property{Files: []File{{Name: name, External: &ExternalFile{URL: url}}}}
}

// DateProperty returns a date property starting at start (ISO-8601).
func DateProperty(start string) Property {
	return Property{Date: &Date{Start: start}}
}

// PlainText renders the property value as text. Types without a textual form
// render as "".
func (p Property) PlainText() string {
	switch {
	case len(p.Title) > 0:
		return joinRichText(p.Title)
	case len(p.RichText) > 0:
		return joinRichText(p.RichText)
	case len(p.Files) > 0:
		var names []string
		for _, f := range p.Files {
			names = append(names, f.Name)
		}
		return strings.Join(names, ", ")
	case p.Date != nil:
		return p.Date.Start
	case p.Number != nil:
		return strconv.FormatFloat(*p.Number, 'f', -1, 64)
	case p.Select != nil:
		return p.Select.Name
	case len(p.MultiSelect) > 0:
		var names []string
		for _, o := range p.MultiSelect {
			names = append(names, o.Name)
		}
		return strings.Join(names, ", ")
	}
	return p.URL
}

func joinRichText(parts []RichText) string {
	var b strings.Builder
	for _, rt := range parts {
		if rt.PlainText != "" {
			b.WriteString(rt.PlainText)
		} else if rt.Text != nil {
			b.WriteString(rt.Text.Content)
		}
	}
	return b.String()
}
