package handlers

import (
	"context"
	"net/http"

	"github.com/a-h/templ"
	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"supplierforms/config"
	"supplierforms/services"
	"supplierforms/templates"
)

type contextKey string

const HeaderDataKey contextKey = "headerData"

// GetHeaderData extracts the pre-built HeaderData from the request context.
func GetHeaderData(r *http.Request) templates.HeaderData {
	if val, ok := r.Context().Value(HeaderDataKey).(templates.HeaderData); ok {
		return val
	}
	return templates.HeaderData{}
}

// HeaderMiddleware builds the navigation and document header data once per
// request and stores it in the request context.
func HeaderMiddleware(app *pocketbase.PocketBase, settings *config.Settings) func(e *core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		header := BuildHeaderData(app, *settings, e.Request.URL.Path)
		ctx := context.WithValue(e.Request.Context(), HeaderDataKey, header)
		e.Request = e.Request.WithContext(ctx)
		return e.Next()
	}
}

// documentHeader converts the request's header data into the block printed on exports.
func documentHeader(r *http.Request) services.DocumentHeader {
	h := GetHeaderData(r)
	return services.DocumentHeader{
		CompanyName:  h.CompanyName,
		FormatNo:     h.FormatNo,
		SupersedesNo: h.SupersedesNo,
	}
}

func isHTMX(r *http.Request) bool {
	return r.Header.Get("HX-Request") == "true"
}

// render writes fragment for htmx requests and page otherwise.
func render(e *core.RequestEvent, fragment, page templ.Component) error {
	if isHTMX(e.Request) {
		return fragment.Render(e.Request.Context(), e.Response)
	}
	return page.Render(e.Request.Context(), e.Response)
}

// redirect sends an HX-Redirect to htmx callers and a 302 to everyone else.
func redirect(e *core.RequestEvent, url string) error {
	if isHTMX(e.Request) {
		e.Response.Header().Set("HX-Redirect", url)
		return e.String(http.StatusOK, "")
	}
	return e.Redirect(http.StatusFound, url)
}
