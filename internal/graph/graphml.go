package graph

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/antchfx/xmlquery"
)

// graphmlKey is a <key> declaration: an attribute name, type and default for one domain.
type graphmlKey struct {
	name       string
	attrType   string
	domain     string // "node", "edge", "graph" or "all"
	def        any
	hasDefault bool
}

// DecodeGraphML reads the first <graph> element of a GraphML document.
// Typed <key> declarations (boolean, int, long, float, double, string) are
// honored, and key defaults apply to elements that omit the data value.
func DecodeGraphML(r io.Reader) (*Graph, error) {
	doc, err := xmlquery.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parsing XML: %w", err)
	}

	keys, err := graphmlKeys(doc)
	if err != nil {
		return nil, err
	}

	graphEl, err := xmlquery.Query(doc, "//*[local-name()='graph']")
	if err != nil {
		return nil, err
	}
	if graphEl == nil {
		return nil, fmt.Errorf("no <graph> element")
	}

	g := New(graphEl.SelectAttr("edgedefault") != "undirected")
	if g.Attrs, err = graphmlData(graphEl, keys, "graph"); err != nil {
		return nil, err
	}

	nodes, err := xmlquery.QueryAll(graphEl, "*[local-name()='node']")
	if err != nil {
		return nil, err
	}
	for _, n := range nodes {
		attrs, err := graphmlData(n, keys, "node")
		if err != nil {
			return nil, err
		}
		g.AddNode(n.SelectAttr("id"), attrs)
	}

	edges, err := xmlquery.QueryAll(graphEl, "*[local-name()='edge']")
	if err != nil {
		return nil, err
	}
	for _, e := range edges {
		attrs, err := graphmlData(e, keys, "edge")
		if err != nil {
			return nil, err
		}
		g.AddEdge(e.SelectAttr("source"), e.SelectAttr("target"), attrs)
	}
	return g, nil
}

func graphmlKeys(doc *xmlquery.Node) (map[string]*graphmlKey, error) {
	nodes, err := xmlquery.QueryAll(doc, "//*[local-name()='key']")
	if err != nil {
		return nil, err
	}

	keys := make(map[string]*graphmlKey, len(nodes))
	for _, n := range nodes {
		id := n.SelectAttr("id")
		if id == "" {
			return nil, fmt.Errorf("<key> without id")
		}
		k := &graphmlKey{
			name:     n.SelectAttr("attr.name"),
			attrType: n.SelectAttr("attr.type"),
			domain:   n.SelectAttr("for"),
		}
		if k.name == "" {
			k.name = id
		}
		if k.domain == "" {
			k.domain = "all"
		}
		if def := childElement(n, "default"); def != nil {
			v, err := parseGraphMLValue(strings.TrimSpace(def.InnerText()), k.attrType)
			if err != nil {
				return nil, fmt.Errorf("key %q default: %w", id, err)
			}
			k.def = v
			k.hasDefault = true
		}
		keys[id] = k
	}
	return keys, nil
}

// graphmlData collects the <data> children of el, then fills in key defaults for the domain.
func graphmlData(el *xmlquery.Node, keys map[string]*graphmlKey, domain string) (map[string]any, error) {
	var attrs map[string]any
	set := func(name string, v any) {
		if attrs == nil {
			attrs = make(map[string]any)
		}
		attrs[name] = v
	}

	for c := el.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != xmlquery.ElementNode || c.Data != "data" {
			continue
		}
		keyID := c.SelectAttr("key")
		k, ok := keys[keyID]
		if !ok {
			return nil, fmt.Errorf("<data> references undeclared key %q", keyID)
		}
		v, err := parseGraphMLValue(strings.TrimSpace(c.InnerText()), k.attrType)
		if err != nil {
			return nil, fmt.Errorf("key %q: %w", keyID, err)
		}
		set(k.name, v)
	}

	for _, k := range keys {
		if !k.hasDefault || (k.domain != domain && k.domain != "all") {
			continue
		}
		if _, ok := attrs[k.name]; !ok {
			set(k.name, k.def)
		}
	}
	return attrs, nil
}

func parseGraphMLValue(text, attrType string) (any, error) {
	switch attrType {
	case "boolean":
		return strconv.ParseBool(text)
	case "int", "long":
		return strconv.ParseInt(text, 10, 64)
	case "float", "double":
		return strconv.ParseFloat(text, 64)
	default:
		return text, nil
	}
}

func childElement(n *xmlquery.Node, name string) *xmlquery.Node {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == xmlquery.ElementNode && c.Data == name {
			return c
		}
	}
	return nil
}
