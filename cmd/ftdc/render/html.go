package render

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// HTMLNode converts d into an html node. Null nodes yield nil.
func (d *DNode) HTMLNode() (*html.Node, error) {
	if d.Null || d.Tag == "" {
		return nil, nil
	}
	n := &html.Node{
		Type:     html.ElementNode,
		Data:     d.Tag,
		DataAtom: atom.Lookup([]byte(d.Tag)),
	}

	keys := make([]string, 0, len(d.Attrs))
	for k := range d.Attrs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		n.Attr = append(n.Attr, html.Attribute{Key: k, Val: d.Attrs[k]})
	}
	if len(d.Classes) > 0 {
		n.Attr = append(n.Attr, html.Attribute{Key: "class", Val: strings.Join(d.Classes, " ")})
	}
	if s := d.styleAttr(); s != "" {
		n.Attr = append(n.Attr, html.Attribute{Key: "style", Val: s})
	}
	if len(d.Events) > 0 {
		b, err := json.Marshal(d.Events)
		if err != nil {
			return nil, fmt.Errorf("encode events of %s: %w", d.Attrs["data-id"], err)
		}
		n.Attr = append(n.Attr, html.Attribute{Key: "data-events", Val: string(b)})
	}

	if d.Text != nil {
		n.AppendChild(&html.Node{Type: html.TextNode, Data: *d.Text})
	}
	for _, c := range d.Children {
		cn, err := c.HTMLNode()
		if err != nil {
			return nil, err
		}
		if cn != nil {
			n.AppendChild(cn)
		}
	}
	return n, nil
}

func (d *DNode) styleAttr() string {
	style := make(map[string]string, len(d.Style)+1)
	for k, v := range d.Style {
		style[k] = v
	}
	if !d.Visible {
		style["display"] = "none"
	}
	keys := make([]string, 0, len(style))
	for k := range style {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	var b strings.Builder
	for _, k := range keys {
		b.WriteString(k)
		b.WriteByte(':')
		b.WriteString(style[k])
		b.WriteByte(';')
	}
	return b.String()
}

// HTML renders d as markup.
func (d *DNode) HTML() (string, error) {
	n, err := d.HTMLNode()
	if err != nil || n == nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := html.Render(&buf, n); err != nil {
		return "", fmt.Errorf("render html: %w", err)
	}
	return buf.String(), nil
}
