package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/apis"
	"github.com/pocketbase/pocketbase/core"

	"supplierforms/collections"
	"supplierforms/config"
	"supplierforms/handlers"
	"supplierforms/services"
)

func main() {
	app := pocketbase.New()
	settings := config.Register(app.RootCmd.PersistentFlags())

	// Create collections and seed data on startup
	app.OnServe().BindFunc(func(se *core.ServeEvent) error {
		if err := settings.Validate(); err != nil {
			return err
		}
		collections.Setup(app)
		if err := collections.Seed(app); err != nil {
			log.Printf("Warning: seed data failed: %v", err)
		}
		return se.Next()
	})

	app.OnServe().BindFunc(func(se *core.ServeEvent) error {
		store := newDraftStore(app, *settings)

		se.Router.GET("/static/{path...}", apis.Static(os.DirFS("./static"), false))

		se.Router.BindFunc(handlers.HeaderMiddleware(app, settings))

		// ── Supplier evaluations ─────────────────────────────────
		se.Router.GET("/evaluations", handlers.HandleEvaluationList(app))
		se.Router.GET("/evaluations/new", handlers.HandleEvaluationNew(app))
		se.Router.POST("/evaluations/summary", handlers.HandleEvaluationSummary(app))
		se.Router.POST("/evaluations", handlers.HandleEvaluationSave(app))
		se.Router.GET("/evaluations/{id}/export/pdf", handlers.HandleEvaluationExportPDF(app))
		se.Router.GET("/evaluations/{id}/export/excel", handlers.HandleEvaluationExportExcel(app))
		se.Router.GET("/evaluations/{id}/files/{filename}",
			handlers.HandleStoredFile(app, "supplier_evaluations", "prepared_signature", "approved_signature"))
		se.Router.GET("/evaluations/{id}", handlers.HandleEvaluationView(app))
		se.Router.DELETE("/evaluations/{id}", handlers.HandleEvaluationDelete(app))

		// ── RFQs ─────────────────────────────────────────────────
		se.Router.GET("/rfqs", handlers.HandleRFQList(app))
		se.Router.GET("/rfqs/import", handlers.HandleRFQImportPage(app))
		se.Router.GET("/rfqs/import/template", handlers.HandleRFQTemplateDownload(app))
		se.Router.POST("/rfqs/import", handlers.HandleRFQImport(app))
		se.Router.POST("/rfqs/import/errors", handlers.HandleRFQImportErrorReport(app))
		se.Router.GET("/rfqs/{id}/quote", handlers.HandleRFQQuote(app, store))
		se.Router.GET("/rfqs/{id}/export/pdf", handlers.HandleRFQExportPDF(app))
		se.Router.GET("/rfqs/{id}/export/excel", handlers.HandleRFQExportExcel(app))
		se.Router.GET("/rfqs/{id}/files/{filename}", handlers.HandleStoredFile(app, "rfqs", "attachment"))
		se.Router.GET("/rfqs/{id}", handlers.HandleRFQView(app))
		se.Router.GET("/quotations/{id}/files/{filename}", handlers.HandleStoredFile(app, "quotations", "attachments"))

		// ── Quotation drafts ─────────────────────────────────────
		se.Router.POST("/drafts/{draftId}/vendors", handlers.HandleDraftAddVendor(store))
		se.Router.DELETE("/drafts/{draftId}/vendors/{index}", handlers.HandleDraftRemoveVendor(store))
		se.Router.POST("/drafts/{draftId}/files", handlers.HandleDraftAddFile(store, settings.MaxUploadBytes()))
		se.Router.GET("/drafts/{draftId}/files/{index}", handlers.HandleDraftViewFile(store))
		se.Router.DELETE("/drafts/{draftId}/files/{index}", handlers.HandleDraftRemoveFile(store))
		se.Router.POST("/drafts/{draftId}/warnings/{which}", handlers.HandleDraftClearWarning(store))
		se.Router.POST("/drafts/{draftId}/submit", handlers.HandleDraftSubmit(app, store))
		se.Router.POST("/drafts/{draftId}/discard", handlers.HandleDraftDiscard(store))

		se.Router.GET("/", func(e *core.RequestEvent) error {
			return e.Redirect(http.StatusFound, "/evaluations/new")
		})

		return se.Next()
	})

	if err := app.Start(); err != nil {
		log.Fatal(err)
	}
}

// newDraftStore picks Redis when an address is configured and reachable,
// falling back to the in-process store.
func newDraftStore(app *pocketbase.PocketBase, settings config.Settings) services.DraftStore {
	if settings.RedisAddr == "" {
		return services.NewMemoryDraftStore(settings.DraftTTL)
	}

	rs := services.NewRedisDraftStore(settings.RedisAddr, settings.DraftTTL)
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := rs.Ping(ctx); err != nil {
		log.Printf("Warning: redis at %s unreachable, keeping drafts in memory: %v", settings.RedisAddr, err)
		_ = rs.Close()
		return services.NewMemoryDraftStore(settings.DraftTTL)
	}

	app.OnTerminate().BindFunc(func(te *core.TerminateEvent) error {
		if err := rs.Close(); err != nil {
			log.Printf("Warning: closing redis: %v", err)
		}
		return te.Next()
	})
	log.Printf("Quotation drafts stored in redis at %s", settings.RedisAddr)
	return rs
}
