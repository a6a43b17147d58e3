package match

import (
	"encoding/json"
	"encoding/xml"
	"fmt"
	"io"
)

// Render walks m and writes either XML or JSON to w, following §4.6:
//
//   - Word emits the literal text (m.ProducerName, by convention the literal).
//   - Token emits group 0 (the whole match) as its value and carries all
//     groups alongside.
//   - Group/Rule emit a node whose content is the rendering of their
//     children.
//   - A Reference with exactly one element match collapses to that match's
//     rendering; with zero or several it renders as a list.
//   - Procedure/Condition are omitted entirely.
//
// Render does not reconstruct cardinality from the tree (that information
// lives on the Reference that produced a child): a MANY reference that
// matched once renders the same as a ONE reference.
func Render(w io.Writer, root *Match, asJSON bool) error {
	cache := NewRenderCache()
	node := cache.ToNodeCached(root)
	if node == nil {
		if asJSON {
			_, err := w.Write([]byte("null"))
			return err
		}
		return nil
	}
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(node)
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := enc.Encode(node); err != nil {
		return err
	}
	return nil
}

// Node is an intermediate tree shape used for both XML and JSON rendering,
// since encoding/xml and encoding/json disagree on how to best represent a
// polymorphic tree.
type Node struct {
	XMLName  xml.Name `json:"-"`
	Kind     string   `xml:"kind,attr" json:"kind"`
	Name     string   `xml:"name,attr,omitempty" json:"name,omitempty"`
	Value    string   `xml:",chardata" json:"value,omitempty"`
	Groups   []string `xml:"group,omitempty" json:"groups,omitempty"`
	List     bool     `xml:"-" json:"list,omitempty"`
	Children []*Node  `xml:",any" json:"children,omitempty"`
}

// ToNode converts a match chain into a renderable Node tree, or nil when
// there is nothing to render (a failure, or an all-omitted Procedure chain).
//
// ToNode does not deduplicate DAG-shared subtrees; callers walking a whole
// tree (Render does) go through a RenderCache instead so a match reached
// twice via distinct References is converted once.
func ToNode(m *Match) *Node {
	return toNode(m, nil)
}

// childNode converts a child match, routing through cache when one is
// given so repeated visits to the same DAG node (by Fingerprint) return a
// shared Node instead of walking it again.
func childNode(m *Match, cache *RenderCache) *Node {
	if cache != nil {
		return cache.ToNodeCached(m)
	}
	return toNode(m, nil)
}

func toNode(m *Match, cache *RenderCache) *Node {
	if m.IsFailure() {
		return nil
	}
	switch m.ProducerKind {
	case ProcedureKind, ConditionKind:
		return nil
	case WordKind:
		return &Node{XMLName: xml.Name{Local: "word"}, Kind: "Word", Name: m.ProducerName, Value: m.ProducerName}
	case TokenKind:
		n := &Node{XMLName: xml.Name{Local: "token"}, Kind: "Token", Name: m.ProducerName}
		if td, ok := m.Data.(*TokenData); ok && td != nil {
			n.Groups = td.Groups
			if len(td.Groups) > 0 {
				n.Value = td.Groups[0]
			}
		}
		return n
	case GroupKind:
		n := &Node{XMLName: xml.Name{Local: "group"}, Kind: "Group", Name: m.ProducerName}
		if c := childNode(m.Children, cache); c != nil {
			n.Children = []*Node{c}
		}
		return n
	case RuleKind:
		n := &Node{XMLName: xml.Name{Local: "rule"}, Kind: "Rule", Name: m.ProducerName}
		for c := m.Children; c != nil; c = c.Next {
			if cn := childNode(c, cache); cn != nil {
				n.Children = append(n.Children, cn)
			}
		}
		return n
	case ReferenceKind:
		kids := elementMatches(m.Children)
		if len(kids) == 1 {
			return childNode(kids[0], cache)
		}
		n := &Node{XMLName: xml.Name{Local: "ref"}, Kind: "Reference", Name: m.ProducerName, List: true}
		for _, k := range kids {
			if cn := childNode(k, cache); cn != nil {
				n.Children = append(n.Children, cn)
			}
		}
		return n
	default:
		return &Node{XMLName: xml.Name{Local: "match"}, Kind: m.ProducerKind.String(), Name: m.ProducerName}
	}
}

// elementMatches returns the individual element-level matches hanging off a
// Reference-level match's Children chain (see §4.4's two-level shape).
func elementMatches(m *Match) []*Match {
	var out []*Match
	for ; m != nil; m = m.Next {
		out = append(out, m)
	}
	return out
}

func (n *Node) String() string {
	return fmt.Sprintf("<%s name=%q>", n.Kind, n.Name)
}
