package handler

import (
	"net/http"
)

// Index serves the dashboard document behind the access gate. Every request routed
// here is answered as a request for "/", so no path spelling reaches the page
// without passing the gate. The query is kept for the cookie gate's password form.
func Index(w http.ResponseWriter, r *http.Request) {
	r.URL.Path = "/"
	r.URL.RawPath = ""
	r.RequestURI = r.URL.RequestURI()
	shared().ServeHTTP(w, r)
}
