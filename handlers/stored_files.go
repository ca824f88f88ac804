package handlers

import (
	"fmt"
	"io"
	"log"
	"net/http"
	"path/filepath"
	"slices"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
	"github.com/pocketbase/pocketbase/tools/filesystem"
)

// storedFileURL is the app route that serves a file saved on a record.
func storedFileURL(rec *core.Record, filename string) string {
	return fmt.Sprintf("/%s/%s/files/%s", routePrefix(rec.Collection().Name), rec.Id, filename)
}

func routePrefix(collection string) string {
	switch collection {
	case "supplier_evaluations":
		return "evaluations"
	default:
		return collection
	}
}

// readRecordFile loads one stored file of rec from the app filesystem.
func readRecordFile(app *pocketbase.PocketBase, rec *core.Record, filename string) ([]byte, error) {
	fsys, err := app.NewFilesystem()
	if err != nil {
		return nil, fmt.Errorf("open filesystem: %w", err)
	}
	defer fsys.Close()

	r, err := fsys.GetReader(rec.BaseFilesPath() + "/" + filename)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", filename, err)
	}
	defer r.Close()

	return io.ReadAll(r)
}

// inlineTypes are the uploaded content types a browser may render in place.
// Anything else is downloaded.
var inlineTypes = map[string]bool{
	"application/pdf": true,
	"image/png":       true,
	"image/jpeg":      true,
	"image/gif":       true,
	"text/plain":      true,
}

// writeUploadedFile answers with a user-supplied file. Types outside
// inlineTypes go out as an octet-stream attachment, and the response is
// sandboxed so uploaded markup never runs on the app origin.
func writeUploadedFile(e *core.RequestEvent, name, contentType string, content []byte) error {
	baseType, _, _ := strings.Cut(contentType, ";")
	baseType = strings.ToLower(strings.TrimSpace(baseType))

	disposition := "inline"
	if !inlineTypes[baseType] {
		contentType = "application/octet-stream"
		disposition = "attachment"
	}

	h := e.Response.Header()
	h.Set("Content-Type", contentType)
	h.Set("Content-Disposition", fmt.Sprintf(`%s; filename="%s"`, disposition, sanitizeFilename(name)))
	h.Set("X-Content-Type-Options", "nosniff")
	h.Set("Content-Security-Policy", "sandbox")
	e.Response.WriteHeader(http.StatusOK)
	_, err := e.Response.Write(content)
	return err
}

// HandleStoredFile serves a file attached to a record of collection. Only
// names held by one of fields are served.
func HandleStoredFile(app *pocketbase.PocketBase, collection string, fields ...string) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		id := e.Request.PathValue("id")
		filename := e.Request.PathValue("filename")

		rec, err := app.FindRecordById(collection, id)
		if err != nil {
			return e.String(http.StatusNotFound, "File not found")
		}

		var owned bool
		for _, f := range fields {
			if slices.Contains(rec.GetStringSlice(f), filename) {
				owned = true
				break
			}
		}
		if !owned {
			return e.String(http.StatusNotFound, "File not found")
		}

		content, err := readRecordFile(app, rec, filename)
		if err != nil {
			log.Printf("stored_file: could not read %s/%s/%s: %v", collection, id, filename, err)
			return e.String(http.StatusNotFound, "File not found")
		}
		return writeUploadedFile(e, originalName(filename), mimetype.Detect(content).String(), content)
	}
}

// originalName strips the random suffix PocketBase appends to stored names.
func originalName(stored string) string {
	ext := filepath.Ext(stored)
	base := strings.TrimSuffix(stored, ext)
	i := strings.LastIndex(base, "_")
	if i < 0 || len(base)-i-1 != 10 {
		return stored
	}
	return base[:i] + ext
}

// newFile wraps bytes for saving on a record.
func newFile(content []byte, name string) (*filesystem.File, error) {
	return filesystem.NewFileFromBytes(content, name)
}
