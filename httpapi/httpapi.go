// Package httpapi exposes a *ptp.Session as a JSON HTTP façade: one route
// per session-level operation, bound to a chi.Router. It is grounded on the
// teacher's generichttp package (RouteTable2/MethodPath/HumanPayload
// pattern) but rebuilt on chi instead of goji, the router the teacher's
// newer binaries (andorhttp2, andorhttp3, dacsrv) standardize on.
package httpapi

import (
	"encoding/json"
	"net/http"
	"sort"

	"github.com/go-chi/chi"

	"github.com/usbptp/goptp/util"
)

// MethodPath is an HTTP method and path pair, used as a RouteTable2 key so
// the same path can be bound under different methods (GET vs POST on
// /properties/{code}, for instance).
type MethodPath struct {
	Method, Path string
}

// RouteTable2 maps a (method, path) pair to its handler, independent of any
// particular router backend.
type RouteTable2 map[MethodPath]http.HandlerFunc

// Endpoints returns "METHOD path" for every bound route, sorted and
// deduplicated.
func (rt RouteTable2) Endpoints() []string {
	routes := make([]string, 0, len(rt))
	for mp := range rt {
		routes = append(routes, mp.Method+" "+mp.Path)
	}
	routes = util.UniqueString(routes)
	sort.Strings(routes)
	return routes
}

func (rt RouteTable2) endpointsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, rt.Endpoints())
	}
}

// Bind registers every route in rt on router, plus a GET /endpoints route
// listing them (unless the table already defines one).
func (rt RouteTable2) Bind(router chi.Router) {
	for mp, fn := range rt {
		router.Method(mp.Method, mp.Path, fn)
	}
	if _, exists := rt[MethodPath{Method: http.MethodGet, Path: "/endpoints"}]; !exists {
		router.Get("/endpoints", rt.endpointsHandler())
	}
}

// writeJSON encodes v as the response body with status and a JSON content
// type, matching the teacher's EncodeAndRespond error-handling shape.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// readJSON decodes the request body into v, closing the body afterward.
func readJSON(r *http.Request, v interface{}) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(v)
}
