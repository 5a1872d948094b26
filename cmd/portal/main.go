//go:build js && wasm

// Command portal is the student records browser app, built to WebAssembly
// and loaded by web/index.html.
package main

import (
	"context"
	"strings"
	"syscall/js"
	"time"

	"github.com/rs/zerolog"
	"github.com/stemsi/student-portal/internal/apiclient"
	"github.com/stemsi/student-portal/internal/logger"
	"github.com/stemsi/student-portal/internal/portal"
)

// apiURL is the records API base, set with -ldflags "-X main.apiURL=...".
var apiURL = "http://localhost:5000"

// consoleWriter sends log lines to the browser console.
type consoleWriter struct{}

func (consoleWriter) Write(p []byte) (int, error) {
	js.Global().Get("console").Call("log", strings.TrimRight(string(p), "\n"))
	return len(p), nil
}

type driver struct {
	app  *portal.App
	doc  js.Value
	root js.Value
	log  zerolog.Logger
	// funcs are kept alive for the lifetime of the page.
	funcs []js.Func
}

func main() {
	zerolog.TimeFieldFormat = time.RFC3339
	log := logger.New(consoleWriter{}, "json")

	doc := js.Global().Get("document")
	root := doc.Call("getElementById", "app")
	if root.IsNull() {
		log.Error().Msg("missing #app element")
		return
	}

	confirm := portal.ConfirmFunc(func(prompt string) bool {
		return js.Global().Call("confirm", prompt).Bool()
	})
	d := &driver{
		app:  portal.New(apiclient.New(apiURL, nil), confirm, log),
		doc:  doc,
		root: root,
		log:  log,
	}

	d.renderPage()
	d.app.OnChange(func(c portal.Change) {
		switch c {
		case portal.ChangeList:
			d.renderRows()
		case portal.ChangeSurface:
			d.renderModal()
		}
	})
	d.bind()

	log.Info().Str("api", apiURL).Msg("portal started")
	go d.app.Refresh(context.Background())

	select {}
}

func (d *driver) bind() {
	d.on("click", d.onClick)
	d.on("submit", d.onSubmit)
	d.on("input", d.onInput)
	d.on("keydown", d.onKeydown)
}

func (d *driver) on(event string, fn func(ev js.Value)) {
	f := js.FuncOf(func(this js.Value, args []js.Value) any {
		if len(args) > 0 {
			fn(args[0])
		}
		return nil
	})
	d.funcs = append(d.funcs, f)
	d.root.Call("addEventListener", event, f)
}

func (d *driver) onClick(ev js.Value) {
	el := ev.Get("target").Call("closest", "[data-action]")
	if el.IsNull() {
		return
	}
	dataset := el.Get("dataset")
	action := dataset.Get("action").String()

	switch action {
	case portal.ActionSearch:
		d.search()
	case portal.ActionAdd:
		d.app.OpenCreate()
	case portal.ActionEdit:
		d.app.OpenEditByID(dataset.Get("id").String())
	case portal.ActionDelete:
		id := dataset.Get("id").String()
		go d.app.Delete(context.Background(), id)
	case portal.ActionCancel:
		d.app.Cancel()
	case portal.ActionOverlay:
		d.app.Dismiss(portal.TargetOverlay)
	case portal.ActionForm:
		d.app.Dismiss(portal.TargetForm)
	}
}

func (d *driver) onSubmit(ev js.Value) {
	ev.Call("preventDefault")
	go d.app.Save(context.Background())
}

func (d *driver) onInput(ev js.Value) {
	target := ev.Get("target")
	if target.Get("id").String() == portal.SearchBoxID {
		d.app.SetQuery(target.Get("value").String())
		return
	}
	name := target.Get("name")
	if name.Type() != js.TypeString || name.String() == "" {
		return
	}
	d.app.SetField(name.String(), target.Get("value").String())
}

func (d *driver) onKeydown(ev js.Value) {
	if ev.Get("key").String() != "Enter" {
		return
	}
	if ev.Get("target").Get("id").String() == portal.SearchBoxID {
		ev.Call("preventDefault")
		d.search()
	}
}

func (d *driver) search() {
	box := d.doc.Call("getElementById", portal.SearchBoxID)
	if !box.IsNull() {
		d.app.SetQuery(box.Get("value").String())
	}
	go d.app.Search(context.Background())
}

func (d *driver) renderPage() {
	var b strings.Builder
	if err := portal.RenderPage(&b, d.app); err != nil {
		d.log.Error().Err(err).Msg("failed to render page")
		return
	}
	d.root.Set("innerHTML", b.String())
}

func (d *driver) renderRows() {
	html, err := portal.Rows(d.app.Students())
	if err != nil {
		d.log.Error().Err(err).Msg("failed to render table")
		return
	}
	d.setHTML(portal.TableBodyID, html)
}

func (d *driver) renderModal() {
	html, err := portal.Modal(d.app.Surface())
	if err != nil {
		d.log.Error().Err(err).Msg("failed to render form")
		return
	}
	d.setHTML(portal.ModalRootID, html)
}

func (d *driver) setHTML(id, html string) {
	el := d.doc.Call("getElementById", id)
	if el.IsNull() {
		return
	}
	el.Set("innerHTML", html)
}
