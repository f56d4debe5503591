// Package google resolves service-account credentials and binds them to
// Google API service clients.
//
// Credentials are resolved from an explicit override path, a configured
// file or the GOOGLE_DOCUMENT_SERVICE_JSON environment variable, in that
// order. The Locator turns a resolved credential into a Drive or Sheets
// service and never caches what it builds; callers keep the services they
// want to reuse.
package google
