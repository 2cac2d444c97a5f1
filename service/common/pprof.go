package common

import (
	"net/http"
	_ "net/http/pprof"

	"github.com/gorilla/mux"
)

// AddPprofHandlers hands every /debug/ request to the default servemux,
// where net/http/pprof registers itself.
// Ref: https://pkg.go.dev/net/http/pprof
func AddPprofHandlers(router *mux.Router) {
	router.PathPrefix("/debug/").Handler(http.DefaultServeMux)
}
