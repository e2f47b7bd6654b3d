package http

import "net/http"

// NotFoundHandler answers every unmatched route with a JSON 404 naming the
// request line, so clients can tell a bad path from a missing record.
func NotFoundHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, codeNotFound, "no route for "+r.Method+" "+r.URL.Path)
	})
}
