package hast

import (
	"strings"

	"golang.org/x/net/html/atom"
)

// Attribute names whose HAST property name is not the camel-cased attribute.
var attrToProp = map[string]string{
	"class":           "className",
	"for":             "htmlFor",
	"http-equiv":      "httpEquiv",
	"accept-charset":  "acceptCharset",
	"accesskey":       "accessKey",
	"autocomplete":    "autoComplete",
	"autofocus":       "autoFocus",
	"colspan":         "colSpan",
	"contenteditable": "contentEditable",
	"crossorigin":     "crossOrigin",
	"datetime":        "dateTime",
	"enctype":         "encType",
	"hreflang":        "hrefLang",
	"maxlength":       "maxLength",
	"minlength":       "minLength",
	"novalidate":      "noValidate",
	"readonly":        "readOnly",
	"referrerpolicy":  "referrerPolicy",
	"rowspan":         "rowSpan",
	"spellcheck":      "spellCheck",
	"srcset":          "srcSet",
	"tabindex":        "tabIndex",
}

var propToAttr = func() map[string]string {
	m := make(map[string]string, len(attrToProp))
	for a, p := range attrToProp {
		m[p] = a
	}
	return m
}()

// Properties whose value is a list of space-separated tokens.
var spaceSeparated = map[string]bool{
	"className": true,
	"rel":       true,
	"accessKey": true,
	"headers":   true,
	"sandbox":   true,
}

// Attributes that are true when present, whatever their value.
var booleanAttrs = map[string]bool{
	"allowfullscreen": true,
	"async":           true,
	"autofocus":       true,
	"autoplay":        true,
	"checked":         true,
	"controls":        true,
	"default":         true,
	"defer":           true,
	"disabled":        true,
	"hidden":          true,
	"loop":            true,
	"multiple":        true,
	"muted":           true,
	"novalidate":      true,
	"open":            true,
	"readonly":        true,
	"required":        true,
	"reversed":        true,
	"selected":        true,
}

// PropertyName returns the HAST property name for an HTML attribute name.
// data-* and aria-* attributes become dataFoo / ariaFoo.
func PropertyName(attr string) string {
	attr = strings.ToLower(attr)
	if p, ok := attrToProp[attr]; ok {
		return p
	}
	if strings.HasPrefix(attr, "data-") || strings.HasPrefix(attr, "aria-") {
		return camel(attr)
	}
	return attr
}

// AttributeName returns the HTML attribute name for a HAST property name.
func AttributeName(prop string) string {
	if a, ok := propToAttr[prop]; ok {
		return a
	}
	if (strings.HasPrefix(prop, "data") || strings.HasPrefix(prop, "aria")) && len(prop) > 4 {
		if r := prop[4]; r >= 'A' && r <= 'Z' {
			return prop[:4] + kebab(prop[4:])
		}
	}
	return strings.ToLower(prop)
}

// PropertyValue converts an attribute value to its property form.
func PropertyValue(prop, attr, value string) any {
	switch {
	case booleanAttrs[attr]:
		return true
	case spaceSeparated[prop]:
		return strings.Fields(value)
	}
	return value
}

var knownTags = func() map[atom.Atom]bool {
	m := make(map[atom.Atom]bool)
	for _, a := range []atom.Atom{
		atom.A, atom.Abbr, atom.Address, atom.Area, atom.Article, atom.Aside,
		atom.Audio, atom.B, atom.Bdi, atom.Bdo, atom.Blockquote, atom.Body,
		atom.Br, atom.Button, atom.Canvas, atom.Caption, atom.Cite, atom.Code,
		atom.Col, atom.Colgroup, atom.Data, atom.Datalist, atom.Dd, atom.Del,
		atom.Details, atom.Dfn, atom.Dialog, atom.Div, atom.Dl, atom.Dt,
		atom.Em, atom.Embed, atom.Fieldset, atom.Figcaption, atom.Figure,
		atom.Footer, atom.Form, atom.H1, atom.H2, atom.H3, atom.H4, atom.H5,
		atom.H6, atom.Head, atom.Header, atom.Hgroup, atom.Hr, atom.Html,
		atom.I, atom.Iframe, atom.Img, atom.Input, atom.Ins, atom.Kbd,
		atom.Label, atom.Legend, atom.Li, atom.Link, atom.Main, atom.Map,
		atom.Mark, atom.Math, atom.Menu, atom.Meta, atom.Meter, atom.Nav,
		atom.Noscript, atom.Object, atom.Ol, atom.Optgroup, atom.Option,
		atom.Output, atom.P, atom.Param, atom.Picture, atom.Pre, atom.Progress,
		atom.Q, atom.Rp, atom.Rt, atom.Ruby, atom.S, atom.Samp, atom.Script,
		atom.Section, atom.Select, atom.Small, atom.Source, atom.Span,
		atom.Strong, atom.Style, atom.Sub, atom.Summary, atom.Sup, atom.Svg,
		atom.Table, atom.Tbody, atom.Td, atom.Template, atom.Textarea,
		atom.Tfoot, atom.Th, atom.Thead, atom.Time, atom.Title, atom.Tr,
		atom.Track, atom.U, atom.Ul, atom.Var, atom.Video, atom.Wbr,
	} {
		m[a] = true
	}
	return m
}()

// IsBooleanAttribute reports whether attr is an HTML boolean attribute.
func IsBooleanAttribute(attr string) bool {
	return booleanAttrs[attr]
}

// IsKnownTag reports whether tag is a standard HTML element name.
func IsKnownTag(tag string) bool {
	return knownTags[atom.Lookup([]byte(tag))]
}

func camel(s string) string {
	parts := strings.Split(s, "-")
	var b strings.Builder
	b.WriteString(parts[0])
	for _, p := range parts[1:] {
		if p == "" {
			continue
		}
		b.WriteString(strings.ToUpper(p[:1]))
		b.WriteString(p[1:])
	}
	return b.String()
}

func kebab(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= 'A' && r <= 'Z' {
			b.WriteByte('-')
			r += 'a' - 'A'
		}
		b.WriteRune(r)
	}
	return b.String()
}

// stringList converts a list-valued property to []string.
func stringList(v any) []string {
	switch tv := v.(type) {
	case nil:
		return nil
	case string:
		return strings.Fields(tv)
	case []string:
		return tv
	case []any:
		out := make([]string, 0, len(tv))
		for _, e := range tv {
			if s, ok := e.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}

// StringList returns a list-valued property of n as []string.
func (n *Node) StringList(prop string) []string {
	if n == nil {
		return nil
	}
	return stringList(n.Properties[prop])
}
