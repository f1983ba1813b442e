//go:build js && wasm
// +build js,wasm

// Command vstyle-wasm runs the style registry in the browser. It adopts the
// rules the server rendered, exposes window.vstyle to page scripts and, when
// the page carries <meta name="vstyle-live" content="/vstyle/live">, follows
// a hub.
package main

import (
	"log/slog"
	"syscall/js"

	"github.com/recera/vstyle/pkg/debug"
	"github.com/recera/vstyle/pkg/dom/jsdoc"
	"github.com/recera/vstyle/pkg/live"
	"github.com/recera/vstyle/pkg/styling"
)

var (
	document js.Value
	window   js.Value
)

func main() {
	document = js.Global().Get("document")
	window = js.Global().Get("window")

	logger := debug.NewLogger(slog.LevelInfo)
	slog.SetDefault(logger)

	if document.Get("readyState").String() != "loading" {
		start(logger)
	} else {
		var ready js.Func
		ready = js.FuncOf(func(this js.Value, args []js.Value) any {
			start(logger)
			ready.Release()
			return nil
		})
		document.Call("addEventListener", "DOMContentLoaded", ready)
	}

	select {}
}

func start(logger *slog.Logger) {
	doc, err := jsdoc.Open()
	if err != nil {
		logger.Error("no document", "error", err)
		return
	}

	reg := styling.New(doc, styling.WithLogger(logger))
	n, err := reg.Hydrate()
	if err != nil {
		logger.Warn("some server-rendered rules were skipped", "error", err)
	}
	logger.Info("vstyle ready", "adopted", n)

	window.Set("vstyle", exports(reg))

	meta := document.Call("querySelector", `meta[name="vstyle-live"]`)
	if meta.IsNull() {
		return
	}
	client := live.NewClient(liveURL(meta.Call("getAttribute", "content").String()), reg, logger)
	client.OnReady(func(id string) {
		logger.Info("following hub", "client", id)
	})
	client.Connect()
}

// exports builds the window.vstyle object:
//
//	vstyle.insert(selector, {name: value}, media?)
//	vstyle.remove(selector, "all" | media | [names], media?) -> bool
//	vstyle.css() -> string
func exports(reg *styling.StyleRegistry) js.Value {
	api := js.Global().Get("Object").New()

	api.Set("insert", js.FuncOf(func(this js.Value, args []js.Value) any {
		if len(args) < 1 {
			return nil
		}
		reg.Insert(args[0].String(), toProperties(arg(args, 1)), stringArg(args, 2))
		return nil
	}))

	api.Set("remove", js.FuncOf(func(this js.Value, args []js.Value) any {
		if len(args) < 1 {
			return false
		}
		req := styling.ParseRemoveRequest(toGo(arg(args, 1)), stringArg(args, 2))
		return reg.Remove(args[0].String(), req)
	}))

	api.Set("css", js.FuncOf(func(this js.Value, args []js.Value) any {
		return reg.CSS()
	}))

	return api
}

func arg(args []js.Value, i int) js.Value {
	if i < len(args) {
		return args[i]
	}
	return js.Undefined()
}

func stringArg(args []js.Value, i int) string {
	v := arg(args, i)
	if v.Type() != js.TypeString {
		return ""
	}
	return v.String()
}

// toProperties reads a plain object in key order
func toProperties(v js.Value) styling.Properties {
	if v.Type() != js.TypeObject {
		return nil
	}
	keys := js.Global().Get("Object").Call("keys", v)
	props := make(styling.Properties, 0, keys.Length())
	for i := 0; i < keys.Length(); i++ {
		name := keys.Index(i).String()
		props = append(props, styling.Property{Name: name, Value: jsString(v.Get(name))})
	}
	return props
}

// toGo converts the loosely typed remove argument
func toGo(v js.Value) any {
	switch {
	case v.Type() == js.TypeString:
		return v.String()
	case js.Global().Get("Array").Call("isArray", v).Bool():
		items := make([]any, v.Length())
		for i := range items {
			items[i] = jsString(v.Index(i))
		}
		return items
	case v.Type() == js.TypeBoolean:
		return v.Bool()
	default:
		return nil
	}
}

// jsString converts like String(v) does, so numbers come out as "12"
func jsString(v js.Value) string {
	return js.Global().Get("String").Invoke(v).String()
}

func liveURL(path string) string {
	loc := window.Get("location")
	proto := "ws://"
	if loc.Get("protocol").String() == "https:" {
		proto = "wss://"
	}
	return proto + loc.Get("host").String() + path
}
