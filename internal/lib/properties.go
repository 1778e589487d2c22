package lib

import (
	"sort"
	"strings"

	"github.com/ccfrost/camnotion/internal/config"
	"github.com/ccfrost/camnotion/internal/exifmeta"
	"github.com/ccfrost/camnotion/internal/notion"
)

// PageProperties builds the database row for one photo. Fields without a
// value, and fields whose property name is empty, are left out.
func PageProperties(meta exifmeta.PhotoMetadata, imageURL string, names config.PropertyNames) notion.Properties {
	title := meta.Filename
	if title == "" {
		title = "Untitled"
	}
	props := notion.Properties{
		names.Title: notion.TitleProperty(title),
	}

	if imageURL != "" && names.Image != "" {
		props[names.Image] = notion.ExternalFileProperty(title, imageURL)
	}
	// The camera is only worth recording when the model is known; the maker
	// alone says little.
	if meta.CameraModel != "" {
		addText(props, names.Camera, strings.TrimSpace(meta.CameraMaker+" "+meta.CameraModel))
	}
	addText(props, names.Lens, meta.LensModel)
	addText(props, names.Aperture, meta.Aperture)
	addText(props, names.ShutterSpeed, meta.ShutterSpeed)
	addText(props, names.ISO, meta.ISO)
	addText(props, names.FocalLength, meta.FocalLength)
	addText(props, names.Dimensions, meta.Dimensions)
	if names.DateTaken != "" && meta.DateTaken != "" {
		props[names.DateTaken] = notion.DateProperty(meta.DateTaken)
	}
	return props
}

func addText(props notion.Properties, name, value string) {
	if name == "" || value == "" {
		return
	}
	props[name] = notion.RichTextProperty(value)
}

// propertySummary lists "name (type)" for each property, sorted by name.
func propertySummary(props notion.Properties) []string {
	names := sortedNames(props)
	out := make([]string, 0, len(names))
	for _, name := range names {
		out = append(out, name+" ("+props[name].Type+")")
	}
	return out
}

func sortedNames(props notion.Properties) []string {
	names := make([]string, 0, len(props))
	for name := range props {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
