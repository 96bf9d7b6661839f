// Package httpapi serves locale data as JSON.
//
// Every data endpoint resolves one data key for a locale taken from the
// locale query parameter or, failing that, negotiated from Accept-Language.
// Responses are wrapped in an Envelope naming the requested locale, the
// locale that actually supplied the data, its version and whether the payload
// was borrowed from a table or owned.
//
//	GET /v1/greeting?locale=en-GB
//	{"data":"Hello","requested":"en-GB","locale":"en","version":"2025.1","ownership":"borrowed"}
//
// A missing payload renders 404 and an unparsable locale 400. Handlers return
// errors; the server maps them to an HTTPError body with the request id.
package httpapi
