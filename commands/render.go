// Package commands holds the extra CLI commands mounted on the pocketbase
// root command.
package commands

import (
	"fmt"
	"io"
	"log"
	"os"

	"github.com/spf13/cobra"

	"invoicedesk/services"
)

// NewRenderCommand renders an invoice JSON payload file to PDF (or HTML
// with --html) without starting the server.
func NewRenderCommand(docs *services.DocumentService) *cobra.Command {
	var (
		inPath   string
		outPath  string
		htmlOnly bool
	)

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render an invoice JSON payload to PDF or HTML",
		Long: "Reads a {sender, receiver, details} payload from --in (\"-\" for stdin), " +
			"validates it and writes the PDF, or the HTML with --html, to --out (\"-\" for stdout).",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			body, err := readInput(cmd.InOrStdin(), inPath)
			if err != nil {
				return err
			}

			v, err := services.ParseInvoiceRequest(body)
			if err != nil {
				return fmt.Errorf("invalid invoice: %w", err)
			}

			var out []byte
			if htmlOnly {
				html, err := docs.InvoiceHTML(cmd.Context(), v.Document, v.Amounts)
				if err != nil {
					return err
				}
				out = []byte(html)
			} else {
				out, err = docs.InvoicePDF(cmd.Context(), v.Document, v.Amounts)
				if err != nil {
					return err
				}
			}

			if outPath == "" {
				outPath = services.InvoiceFilename(v.Document.Details.InvoiceNumber)
				if htmlOnly {
					outPath = outPath[:len(outPath)-len(".pdf")] + ".html"
				}
			}
			if outPath == "-" {
				_, err = cmd.OutOrStdout().Write(out)
				return err
			}
			if err := os.WriteFile(outPath, out, 0o644); err != nil {
				return fmt.Errorf("write %s: %w", outPath, err)
			}
			log.Printf("render: wrote %s (%d bytes)", outPath, len(out))
			return nil
		},
	}

	cmd.Flags().StringVarP(&inPath, "in", "i", "", `invoice JSON file, "-" for stdin`)
	cmd.Flags().StringVarP(&outPath, "out", "o", "", `output file, "-" for stdout (default invoice_<number>.pdf)`)
	cmd.Flags().BoolVar(&htmlOnly, "html", false, "write the rendered HTML instead of a PDF")
	_ = cmd.MarkFlagRequired("in")

	return cmd
}

func readInput(stdin io.Reader, path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(stdin)
	}
	body, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return body, nil
}
