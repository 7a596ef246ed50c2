package web

import (
	"context"
	"io"
	"net/url"
	"strconv"

	"github.com/a-h/templ"

	"github.com/dmitrymomot/localedit/pkg/locale"
)

const htmxScript = "https://unpkg.com/htmx.org@2.0.4"

// localeSummary is one row of the index page and of GET /api/locales.
type localeSummary struct {
	Locale     string   `json:"locale"`
	Namespaces []string `json:"namespaces"`
	Entries    int      `json:"entries"`
}

// html accumulates the first write error so views can be written as a
// flat sequence of calls.
type html struct {
	w   io.Writer
	err error
}

func (h *html) raw(s string) {
	if h.err == nil {
		_, h.err = io.WriteString(h.w, s)
	}
}

func (h *html) text(s string) {
	h.raw(templ.EscapeString(s))
}

func (h *html) render(ctx context.Context, c templ.Component) {
	if h.err == nil {
		h.err = c.Render(ctx, h.w)
	}
}

func localeURL(loc string) string {
	return "/locales/" + url.PathEscape(loc)
}

func entriesURL(loc string) string {
	return localeURL(loc) + "/entries"
}

func entryURL(loc string, e locale.Entry) string {
	return entriesURL(loc) + "/" + url.PathEscape(e.Namespace) + "/" + url.PathEscape(e.Field)
}

func layout(title string, body templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &html{w: w}
		h.raw(`<!DOCTYPE html><html lang="en"><head><meta charset="utf-8"><title>`)
		h.text(title)
		h.raw(`</title><script src="` + htmxScript + `"></script></head><body><main>`)
		h.raw(`<div id="flash" role="alert"></div>`)
		h.render(ctx, body)
		h.raw(`</main></body></html>`)
		return h.err
	})
}

func indexPage(locales []localeSummary) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		h := &html{w: w}
		h.raw(`<h1>Locales</h1>`)
		if len(locales) == 0 {
			h.raw(`<p>No locale files found.</p>`)
			return h.err
		}
		h.raw(`<ul>`)
		for _, l := range locales {
			h.raw(`<li><a href="`)
			h.text(localeURL(l.Locale))
			h.raw(`">`)
			h.text(l.Locale)
			h.raw(`</a> `)
			h.text(strconv.Itoa(len(l.Namespaces)) + " namespaces, " + strconv.Itoa(l.Entries) + " entries")
			h.raw(`</li>`)
		}
		h.raw(`</ul>`)
		return h.err
	})
}

func localePage(loc string, namespaces []string, entries []locale.Entry, term string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &html{w: w}
		h.raw(`<h1>`)
		h.text(loc)
		h.raw(`</h1><p><a href="/">All locales</a></p>`)

		h.raw(`<input type="search" name="q" placeholder="Search keys and values" value="`)
		h.text(term)
		h.raw(`" hx-get="`)
		h.text(entriesURL(loc))
		h.raw(`" hx-trigger="input changed delay:200ms, search" hx-target="#entries">`)

		h.raw(`<form method="post" action="`)
		h.text(entriesURL(loc))
		h.raw(`" hx-post="`)
		h.text(entriesURL(loc))
		h.raw(`" hx-target="#entries" hx-on::after-request="if(event.detail.successful) this.reset()">`)
		h.raw(`<select name="namespace" required>`)
		for _, ns := range namespaces {
			h.raw(`<option value="`)
			h.text(ns)
			h.raw(`">`)
			h.text(ns)
			h.raw(`</option>`)
		}
		h.raw(`</select><input name="key" placeholder="key" required><input name="value" placeholder="value">`)
		h.raw(`<button type="submit">Add</button></form>`)

		h.raw(`<table><thead><tr><th>Key</th><th>Value</th><th></th></tr></thead><tbody id="entries">`)
		h.render(ctx, entryRows(loc, entries))
		h.raw(`</tbody></table>`)
		return h.err
	})
}

func entryRows(loc string, entries []locale.Entry) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		h := &html{w: w}
		for _, e := range entries {
			h.raw(`<tr><td>`)
			h.text(e.Key)
			h.raw(`</td><td>`)
			h.text(e.Text)
			h.raw(`</td><td><button hx-delete="`)
			h.text(entryURL(loc, e))
			h.raw(`" hx-target="closest tr" hx-swap="outerHTML" hx-confirm="Delete `)
			h.text(e.Key)
			h.raw(`?">Delete</button></td></tr>`)
		}
		return h.err
	})
}

func errorMessage(msg string) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		h := &html{w: w}
		h.raw(`<p class="error">`)
		h.text(msg)
		h.raw(`</p>`)
		return h.err
	})
}
