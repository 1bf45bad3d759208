// Package server exposes script generation over HTTP.
//
// POST /api/generate-script takes {"location": "..."} and answers with
// {"script": [six sentences]} or {"error": "..."}. GET /healthz reports the
// configured provider and whether an API key is present. Generated scripts are
// cached per normalized location when a cache is supplied.
package server
