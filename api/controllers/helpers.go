package controllers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	pkgerrors "github.com/urbandrive/storefront/pkg/errors"
)

// routeID parses the named chi URL parameter as an int64.
func routeID(r *http.Request, name string) (int64, error) {
	raw := chi.URLParam(r, name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "invalid identifier in url")
	}
	return id, nil
}

// safeReturnURL keeps redirects on-site: only rooted paths pass through.
func safeReturnURL(raw, fallback string) string {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "/") && !strings.HasPrefix(raw, "//") {
		return raw
	}
	return fallback
}

// problemList extracts the []string details of a validation error, if any.
func problemList(err error) []string {
	typed := pkgerrors.As(err)
	if typed == nil {
		return nil
	}
	if problems, ok := typed.Details().([]string); ok {
		return problems
	}
	return nil
}
