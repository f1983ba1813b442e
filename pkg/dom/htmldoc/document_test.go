package htmldoc

import (
	"strings"
	"testing"

	"github.com/recera/vstyle/pkg/dom"
)

func TestNew_HasHeadAndBody(t *testing.T) {
	doc := New()

	if doc.Head() == nil || doc.Head().TagName() != "head" {
		t.Fatal("expected a head element")
	}
	if doc.Body() == nil || doc.Body().TagName() != "body" {
		t.Fatal("expected a body element")
	}
	if doc.Head() != doc.Head() {
		t.Error("expected Head() to return a stable wrapper")
	}
}

func TestElement_Attributes(t *testing.T) {
	doc := New()
	el := doc.CreateElement("STYLE")

	if el.TagName() != "style" {
		t.Errorf("TagName() = %q, want style", el.TagName())
	}

	el.SetAttribute("media", "print")
	el.SetAttribute("media", "screen")
	if v, ok := el.GetAttribute("media"); !ok || v != "screen" {
		t.Errorf("GetAttribute() = %q, %v", v, ok)
	}

	el.RemoveAttribute("media")
	if _, ok := el.GetAttribute("media"); ok {
		t.Error("attribute still present after RemoveAttribute")
	}
}

func TestElement_TreeAndRender(t *testing.T) {
	doc := New()
	el := doc.CreateElement("style")
	el.SetAttribute("class", "a")
	el.SetTextContent(".x{color : red;}")

	if el.Parent() != nil {
		t.Error("expected a detached element")
	}

	doc.Head().AppendChild(el)
	if el.Parent() != doc.Head() {
		t.Error("expected head as parent")
	}

	out := doc.String()
	if !strings.Contains(out, `<head><style class="a">.x{color : red;}</style></head>`) {
		t.Errorf("unexpected render: %s", out)
	}

	el.SetTextContent(".x{color : blue;}")
	if el.TextContent() != ".x{color : blue;}" {
		t.Errorf("TextContent() = %q", el.TextContent())
	}

	el.Remove()
	if el.Parent() != nil {
		t.Error("expected element to be detached")
	}
	if strings.Contains(doc.String(), "<style") {
		t.Error("style still rendered after Remove")
	}

	// Removing twice is harmless.
	el.Remove()
}

func TestAppendChild_MovesNode(t *testing.T) {
	doc := New()
	el := doc.CreateElement("div")
	doc.Head().AppendChild(el)
	doc.Body().AppendChild(el)

	if el.Parent() != doc.Body() {
		t.Error("expected node to move to body")
	}
	nodes, err := doc.QuerySelectorAll("div")
	if err != nil {
		t.Fatalf("QuerySelectorAll() error = %v", err)
	}
	if len(nodes) != 1 {
		t.Errorf("found %d divs, want 1", len(nodes))
	}
}

func TestAppendChild_ForeignDocumentPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected a panic")
		}
	}()
	New().Head().AppendChild(New().CreateElement("style"))
}

func TestQuerySelectorAll(t *testing.T) {
	doc, err := Parse(strings.NewReader(`<html><head>
		<style data-k="1"></style><style></style>
	</head><body><p class="x">a</p></body></html>`))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	nodes, err := doc.QuerySelectorAll("style[data-k]")
	if err != nil {
		t.Fatalf("QuerySelectorAll() error = %v", err)
	}
	if len(nodes) != 1 {
		t.Errorf("found %d, want 1", len(nodes))
	}

	if _, err := doc.QuerySelectorAll("p["); err == nil {
		t.Error("expected an error for an invalid selector")
	}
}

func TestDispatchEvent_Bubbling(t *testing.T) {
	doc := New()
	parent := doc.CreateElement("div")
	child := doc.CreateElement("span")
	doc.Body().AppendChild(parent)
	parent.AppendChild(child)

	var calls []string
	parent.AddEventListener("ping", func(ev *dom.Event) {
		calls = append(calls, "parent")
		if ev.Target != child || ev.CurrentTarget != parent {
			t.Error("unexpected targets during bubbling")
		}
	})
	child.AddEventListener("ping", func(ev *dom.Event) {
		calls = append(calls, "child")
	})

	child.DispatchEvent(dom.NewEvent("ping", nil, false))
	child.DispatchEvent(dom.NewEvent("ping", nil, true))

	want := []string{"child", "child", "parent"}
	if strings.Join(calls, ",") != strings.Join(want, ",") {
		t.Errorf("calls = %v, want %v", calls, want)
	}
}

func TestDispatchEvent_StopPropagation(t *testing.T) {
	doc := New()
	parent := doc.CreateElement("div")
	child := doc.CreateElement("span")
	doc.Body().AppendChild(parent)
	parent.AppendChild(child)

	parentCalled := false
	secondCalled := false
	parent.AddEventListener("ping", func(*dom.Event) { parentCalled = true })
	child.AddEventListener("ping", func(ev *dom.Event) { ev.StopPropagation() })
	child.AddEventListener("ping", func(*dom.Event) { secondCalled = true })

	child.DispatchEvent(dom.NewEvent("ping", nil, true))

	if parentCalled {
		t.Error("event reached parent after StopPropagation")
	}
	if !secondCalled {
		t.Error("remaining listeners on the current target should still run")
	}
}

func TestListenerBookkeeping(t *testing.T) {
	doc := New()
	el := doc.CreateElement("div")

	a := el.AddEventListener("b-event", func(*dom.Event) {})
	b := el.AddEventListener("b-event", func(*dom.Event) {})
	el.AddEventListener("a-event", func(*dom.Event) {})

	if a == b {
		t.Error("expected distinct listener IDs")
	}
	if got := el.EventTypes(); strings.Join(got, ",") != "a-event,b-event" {
		t.Errorf("EventTypes() = %v", got)
	}
	if ids := el.ListenerIDs("b-event"); len(ids) != 2 || ids[0] != a || ids[1] != b {
		t.Errorf("ListenerIDs() = %v", ids)
	}

	if !el.RemoveEventListener("b-event", a) {
		t.Error("RemoveEventListener() = false")
	}
	if el.RemoveEventListener("b-event", a) {
		t.Error("second RemoveEventListener() = true")
	}
	el.RemoveEventListener("b-event", b)
	if got := el.EventTypes(); len(got) != 1 {
		t.Errorf("EventTypes() = %v, want only a-event", got)
	}
}

func TestListenerRemovedDuringDispatch(t *testing.T) {
	doc := New()
	el := doc.CreateElement("div")

	count := 0
	var id dom.ListenerID
	id = el.AddEventListener("ping", func(*dom.Event) {
		count++
		el.RemoveEventListener("ping", id)
	})

	el.DispatchEvent(dom.NewEvent("ping", nil, false))
	el.DispatchEvent(dom.NewEvent("ping", nil, false))

	if count != 1 {
		t.Errorf("listener ran %d times, want 1", count)
	}
}

func TestRemove_EvictsDetachedWrappers(t *testing.T) {
	doc := New()
	head := doc.Head()

	for i := 0; i < 1000; i++ {
		el := doc.CreateElement("style")
		el.AppendChild(doc.CreateElement("span"))
		head.AppendChild(el)
		el.Remove()
	}
	if got := len(doc.elements); got != 1 {
		t.Fatalf("len(elements) = %d after 1000 cycles, want 1", got)
	}

	// a wrapper with listeners survives until they are gone
	el := doc.CreateElement("div")
	id := el.AddEventListener("ping", func(*dom.Event) {})
	head.AppendChild(el)
	el.Remove()
	if _, ok := doc.elements[el.(*Element).node]; !ok {
		t.Fatal("listening wrapper was evicted")
	}
	el.RemoveEventListener("ping", id)
	if _, ok := doc.elements[el.(*Element).node]; ok {
		t.Error("detached wrapper kept after its last listener went away")
	}

	// re-attaching brings back the same wrapper
	head.AppendChild(el)
	got, err := doc.QuerySelectorAll("div")
	if err != nil || len(got) != 1 {
		t.Fatalf("QuerySelectorAll() = %v, %v", got, err)
	}
	if got[0] != el {
		t.Error("re-attached element lost its identity")
	}
}
