package server

import (
	"net/http"
	"strings"
)

// actorHeader carries the caller identity on mutating requests. Identity
// is supplied by the execution environment in front of this service;
// the registry treats it as an opaque principal.
const actorHeader = "X-Actor"

// callerIdentity extracts the caller principal from the request. Empty
// when the header is missing, which the registry rejects on mutations.
func callerIdentity(r *http.Request) string {
	return strings.TrimSpace(r.Header.Get(actorHeader))
}
