// Package requestid tags outgoing API calls with a correlation id.
//
// The id travels in the context so that the API client can send it in the
// X-Request-ID header and the logger can attach it to every record of the
// same operation. Ensure reuses an id already present in the context, so a
// shell command that makes several calls keeps a single id across them.
package requestid
