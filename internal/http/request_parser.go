package http

import (
	"net/http"
	"net/url"
	"strings"

	"budgettracker/internal/app"
	"budgettracker/internal/core"
)

// InputFromForm copies the named fields out of a form, sanitized.
func InputFromForm(form url.Values, fields []string) app.Input {
	in := make(app.Input, len(fields))
	for _, f := range fields {
		in[f] = sanitizeInput(form.Get(f))
	}
	return in
}

// ParseListParams reads the sort key and category filter of the expense
// list. Unknown sort keys fall back to newest first; a missing category
// means all.
func ParseListParams(query url.Values) (core.SortKey, string) {
	category := strings.TrimSpace(query.Get("category"))
	if category == "" {
		category = core.AllCategories
	}
	return core.ParseSortKey(query.Get("sort")), category
}

// RequireMethod checks if the request method matches the expected method(s).
// Returns an error response builder if the method doesn't match.
func RequireMethod(r *http.Request, methods ...string) *HTMXResponseBuilder {
	for _, m := range methods {
		if r.Method == m {
			return nil
		}
	}
	return MethodNotAllowedError(strings.Join(methods, ", "))
}

// RequirePOST is a convenience function for POST-only handlers.
func RequirePOST(r *http.Request) *HTMXResponseBuilder {
	return RequireMethod(r, http.MethodPost)
}

// ParseFormOrFail parses the request form and returns an error response on failure.
// Returns nil on success.
func ParseFormOrFail(r *http.Request) *HTMXResponseBuilder {
	if err := r.ParseForm(); err != nil {
		return BadRequestError("Malformed request")
	}
	return nil
}
