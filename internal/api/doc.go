// Package api is the JSON bridge through which page collaborators drive the
// flash manager and the quiz engine. Handlers translate HTTP requests into
// core operations and answer with the resulting page state; routes are
// registered by cmd/server.
package api
