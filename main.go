package main

import (
	"log"
	"net/http"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/apis"
	"github.com/pocketbase/pocketbase/core"

	"invoicedesk/collections"
	"invoicedesk/commands"
	"invoicedesk/config"
	"invoicedesk/handlers"
	"invoicedesk/services"
)

func main() {
	cfg := config.Load()
	app := pocketbase.New()

	exporter := services.NewPDFExporter(&services.ChromeLauncher{ExecPath: cfg.ChromePath})
	exporter.LaunchAttempts = cfg.LaunchAttempts
	exporter.LaunchBackoff = cfg.LaunchBackoff
	exporter.RenderTimeout = cfg.RenderTimeout
	docs := services.NewDocumentService(services.NewRenderer(cfg.LogoPath, cfg.Stylesheet), exporter)

	app.RootCmd.AddCommand(commands.NewRenderCommand(docs))

	// Create collections, normalize legacy records and seed data on startup
	app.OnServe().BindFunc(func(se *core.ServeEvent) error {
		collections.Setup(app)
		if err := collections.MigrateInvoiceNumbers(app); err != nil {
			log.Printf("Warning: invoice number migration failed: %v", err)
		}
		if err := collections.Seed(app, cfg.AdminEmail, cfg.AdminPassword); err != nil {
			log.Printf("Warning: seed data failed: %v", err)
		}
		return se.Next()
	})

	app.OnServe().BindFunc(func(se *core.ServeEvent) error {
		// Any signed-in user may ask who they are.
		se.Router.GET("/api/invoicing/me", handlers.HandleMe(app)).
			Bind(apis.RequireAuth("users", core.CollectionNameSuperusers))

		api := se.Router.Group("/api/invoicing")
		api.Bind(apis.RequireAuth("users", core.CollectionNameSuperusers))
		api.BindFunc(handlers.RequireAdmin(app))

		// ── Stateless document generation ────────────────────────
		api.POST("/generate", handlers.HandleGenerate(app, docs))
		api.POST("/preview", handlers.HandlePreview(app, docs))
		api.POST("/calculate", handlers.HandleCalculate(app))

		// ── Invoices ─────────────────────────────────────────────
		api.GET("/invoices", handlers.HandleInvoiceList(app))
		api.POST("/invoices", handlers.HandleInvoiceCreate(app))
		api.GET("/invoices/next-number", handlers.HandleNextInvoiceNumber(app))
		api.GET("/invoices/export/pdf", handlers.HandleInvoiceExportPDF(app, docs))
		api.GET("/invoices/export/xlsx", handlers.HandleInvoiceExportExcel(app))
		api.GET("/invoices/{id}", handlers.HandleInvoiceGet(app))
		api.PUT("/invoices/{id}", handlers.HandleInvoiceUpdate(app))
		api.DELETE("/invoices/{id}", handlers.HandleInvoiceDelete(app))
		api.GET("/invoices/{id}/pdf", handlers.HandleInvoicePDF(app, docs))

		// ── Customers ────────────────────────────────────────────
		api.GET("/customers", handlers.HandleCustomerList(app))
		api.POST("/customers", handlers.HandleCustomerCreate(app))
		api.GET("/customers/template", handlers.HandleCustomerTemplate(app))
		api.POST("/customers/import", handlers.HandleCustomerImport(app))
		api.POST("/customers/import/errors", handlers.HandleCustomerErrorReport(app))
		api.GET("/customers/{id}", handlers.HandleCustomerGet(app))
		api.PUT("/customers/{id}", handlers.HandleCustomerUpdate(app))
		api.DELETE("/customers/{id}", handlers.HandleCustomerDelete(app))
		api.GET("/customers/{id}/statement", handlers.HandleCustomerStatement(app, cfg.CompanyName))

		se.Router.GET("/", func(e *core.RequestEvent) error {
			return e.Redirect(http.StatusFound, "/_/")
		})

		return se.Next()
	})

	if err := app.Start(); err != nil {
		log.Fatal(err)
	}
}
