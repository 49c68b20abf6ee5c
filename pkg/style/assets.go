package style

import (
	"regexp"
	"strings"

	"github.com/gnana997/fibersnap/pkg/dom"
)

// AssetKind names where an asset URL was found.
type AssetKind string

const (
	AssetBackground AssetKind = "background-image"
	AssetImage      AssetKind = "img"
	AssetSource     AssetKind = "source"
)

// Asset is an external resource referenced by an element.
type Asset struct {
	Kind AssetKind `json:"kind"`
	URL  string    `json:"url"`
	Tag  string    `json:"tag,omitempty"`
}

// Assets is the resource inventory of a subtree.
type Assets struct {
	Images []Asset  `json:"images,omitempty"`
	Fonts  []string `json:"fonts,omitempty"`
}

var urlToken = regexp.MustCompile(`url\(\s*(?:"([^"]*)"|'([^']*)'|([^)'"]*?))\s*\)`)

// ParseBackgroundURLs returns every url(...) token in a background value in
// order of appearance. data: URIs are included.
func ParseBackgroundURLs(value string) []string {
	var out []string
	for _, m := range urlToken.FindAllStringSubmatch(value, -1) {
		u := m[1] + m[2] + m[3]
		if u = strings.TrimSpace(u); u != "" {
			out = append(out, u)
		}
	}
	return out
}

// ParseFontFamily splits a font-family list and strips quotes.
func ParseFontFamily(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		name := strings.TrimSpace(part)
		name = strings.Trim(name, `"'`)
		name = strings.TrimSpace(name)
		if name != "" {
			out = append(out, name)
		}
	}
	return out
}

// ParseSrcset returns the URLs of a srcset attribute, dropping descriptors.
func ParseSrcset(value string) []string {
	var out []string
	for _, candidate := range strings.Split(value, ",") {
		fields := strings.Fields(candidate)
		if len(fields) > 0 {
			out = append(out, fields[0])
		}
	}
	return out
}

// ElementURLs harvests image URLs from a single element: src and srcset of
// img and source tags plus background-image urls in inline or computed
// style.
func ElementURLs(el dom.Element) []Asset {
	if el == nil {
		return nil
	}
	var out []Asset
	tag := strings.ToLower(el.TagName())

	switch tag {
	case "img", "source":
		kind := AssetImage
		if tag == "source" {
			kind = AssetSource
		}
		if src, ok := el.Attribute("src"); ok && src != "" {
			out = append(out, Asset{Kind: kind, URL: src, Tag: tag})
		}
		if set, ok := el.Attribute("srcset"); ok {
			for _, u := range ParseSrcset(set) {
				out = append(out, Asset{Kind: kind, URL: u, Tag: tag})
			}
		}
	}

	bg := ""
	for _, d := range el.InlineStyle() {
		if d.Property == "background-image" || d.Property == "background" {
			bg = d.Value
		}
	}
	if bg == "" {
		bg, _ = el.ComputedStyle("background-image")
	}
	for _, u := range ParseBackgroundURLs(bg) {
		out = append(out, Asset{Kind: AssetBackground, URL: u, Tag: tag})
	}
	return out
}

// CollectAssets walks el's subtree up to maxDepth and returns deduplicated
// image URLs and font families in discovery order.
func CollectAssets(el dom.Element, maxDepth int) Assets {
	var out Assets
	seenURL := make(map[string]bool)
	seenFont := make(map[string]bool)

	dom.Walk(el, maxDepth, func(e dom.Element) {
		for _, a := range ElementURLs(e) {
			if seenURL[a.URL] {
				continue
			}
			seenURL[a.URL] = true
			out.Images = append(out.Images, a)
		}
		if ff, ok := e.ComputedStyle("font-family"); ok {
			for _, f := range ParseFontFamily(ff) {
				if !seenFont[f] {
					seenFont[f] = true
					out.Fonts = append(out.Fonts, f)
				}
			}
		}
	})
	return out
}
