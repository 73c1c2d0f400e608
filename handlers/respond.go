package handlers

import (
	"errors"
	"io"
	"log"
	"net/http"
	"regexp"
	"strings"

	"github.com/pocketbase/pocketbase/core"

	"invoicedesk/services"
)

// maxBodyBytes caps JSON request bodies.
const maxBodyBytes = 5 << 20

// ErrorJSON writes {"error": message} with the given status.
func ErrorJSON(e *core.RequestEvent, statusCode int, message string) error {
	return e.JSON(statusCode, map[string]string{"error": message})
}

// RespondError maps a service error to a status code and a client-safe
// message. area prefixes the log line.
func RespondError(e *core.RequestEvent, area string, err error) error {
	var ve *services.ValidationError
	switch {
	case errors.As(err, &ve):
		return ErrorJSON(e, http.StatusBadRequest, ve.Error())
	case errors.Is(err, services.ErrNotFound):
		return ErrorJSON(e, http.StatusNotFound, "Not found")
	case errors.Is(err, services.ErrBrowserLaunch):
		log.Printf("%s: %v", area, err)
		return ErrorJSON(e, http.StatusInternalServerError, services.ErrBrowserLaunch.Error())
	case errors.Is(err, services.ErrPDFGeneration), errors.Is(err, services.ErrEmptyPDF):
		log.Printf("%s: %v", area, err)
		return ErrorJSON(e, http.StatusInternalServerError, "Failed to generate PDF")
	default:
		log.Printf("%s: %v", area, err)
		return ErrorJSON(e, http.StatusInternalServerError, "Internal server error")
	}
}

// readBody reads at most maxBodyBytes of the request body.
func readBody(e *core.RequestEvent) ([]byte, error) {
	body, err := io.ReadAll(io.LimitReader(e.Request.Body, maxBodyBytes+1))
	if err != nil {
		return nil, &services.ValidationError{Message: "could not read request body"}
	}
	if len(body) > maxBodyBytes {
		return nil, &services.ValidationError{Message: "request body too large"}
	}
	return body, nil
}

// sendAttachment writes data as a download named filename.
func sendAttachment(e *core.RequestEvent, contentType, filename string, data []byte) error {
	e.Response.Header().Set("Content-Type", contentType)
	e.Response.Header().Set("Content-Disposition", "attachment; filename="+filename)
	e.Response.WriteHeader(http.StatusOK)
	_, err := e.Response.Write(data)
	return err
}

const (
	contentTypePDF  = "application/pdf"
	contentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

var unsafeFilenameChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// sanitizeFilename makes s safe for an unquoted Content-Disposition value.
func sanitizeFilename(s string) string {
	s = strings.Trim(unsafeFilenameChars.ReplaceAllString(strings.TrimSpace(s), "-"), "-")
	if s == "" {
		return "download"
	}
	return s
}
