package match

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func TestToNodeOmitsProcedureAndCondition(t *testing.T) {
	if ToNode(New(ProcedureKind, 1, "p", 0, 0, 1)) != nil {
		t.Errorf("a Procedure match must render to nil")
	}
	if ToNode(New(ConditionKind, 2, "c", 0, 0, 1)) != nil {
		t.Errorf("a Condition match must render to nil")
	}
	if ToNode(FAILURE) != nil {
		t.Errorf("FAILURE must render to nil")
	}
}

func TestToNodeWord(t *testing.T) {
	n := ToNode(New(WordKind, 1, "foo", 0, 3, 1))
	if n == nil || n.Kind != "Word" || n.Value != "foo" {
		t.Fatalf("expected a Word node with value %q, got %+v", "foo", n)
	}
}

func TestToNodeTokenCarriesGroups(t *testing.T) {
	m := New(TokenKind, 1, "NUMBER", 0, 3, 1)
	m.Data = &TokenData{Groups: []string{"123"}}
	n := ToNode(m)
	if n == nil || n.Value != "123" {
		t.Fatalf("expected the token's first group as Value, got %+v", n)
	}
}

func TestToNodeRuleNestsChildren(t *testing.T) {
	a := New(WordKind, 1, "a", 0, 1, 1)
	b := New(WordKind, 2, "b", 1, 1, 1)
	a.Next = b
	rule := New(RuleKind, 3, "r", 0, 2, 1)
	rule.Children = a
	n := ToNode(rule)
	if n == nil || len(n.Children) != 2 {
		t.Fatalf("expected a Rule node with 2 children, got %+v", n)
	}
}

// A Reference match wrapping a single element collapses to that element's
// own rendering (§4.6): a ONE/OPTIONAL reference is never visible as its
// own wrapper node.
func TestToNodeReferenceCollapsesSingleChild(t *testing.T) {
	word := New(WordKind, 1, "x", 0, 1, 1)
	ref := New(ReferenceKind, 9, "ref", 0, 1, 1)
	ref.Children = word
	n := ToNode(ref)
	if n == nil || n.Kind != "Word" {
		t.Fatalf("expected the collapsed node to report Kind=Word, got %+v", n)
	}
}

// A Reference match wrapping multiple elements (MANY/MANY_OPTIONAL) renders
// as an explicit list node.
func TestToNodeReferenceListForMultipleChildren(t *testing.T) {
	a := New(WordKind, 1, "a", 0, 1, 1)
	b := New(WordKind, 1, "a", 1, 1, 1)
	a.Next = b
	ref := New(ReferenceKind, 9, "ref", 0, 2, 1)
	ref.Children = a
	n := ToNode(ref)
	if n == nil || !n.List || len(n.Children) != 2 {
		t.Fatalf("expected a list node with 2 children, got %+v", n)
	}
}

func TestRenderJSONAndXML(t *testing.T) {
	m := New(WordKind, 1, "foo", 0, 3, 1)
	var jsonBuf bytes.Buffer
	if err := Render(&jsonBuf, m, true); err != nil {
		t.Fatalf("Render(json): %v", err)
	}
	var decoded map[string]interface{}
	if err := json.Unmarshal(jsonBuf.Bytes(), &decoded); err != nil {
		t.Fatalf("expected valid JSON output, got error %v on %q", err, jsonBuf.String())
	}

	var xmlBuf bytes.Buffer
	if err := Render(&xmlBuf, m, false); err != nil {
		t.Fatalf("Render(xml): %v", err)
	}
	if !strings.Contains(xmlBuf.String(), "foo") {
		t.Errorf("expected the XML rendering to contain the matched literal, got %q", xmlBuf.String())
	}
}

func TestRenderNilOnFailure(t *testing.T) {
	var buf bytes.Buffer
	if err := Render(&buf, FAILURE, true); err != nil {
		t.Fatalf("Render: %v", err)
	}
	if buf.String() != "null" {
		t.Errorf("expected the JSON literal \"null\" for a failed match, got %q", buf.String())
	}
}
