package instrumentation

import "strings"

// Google services.
const (
	ServiceDrive  = "drive"
	ServiceSheets = "sheets"
)

// Operation names for Google API metrics and spans. They follow the remote
// method names so dashboards can be read next to the API reference.
const (
	OperationGet         = "get"
	OperationList        = "list"
	OperationCopy        = "copy"
	OperationDelete      = "delete"
	OperationUpdate      = "update"
	OperationExport      = "export"
	OperationCreate      = "create"
	OperationBatchUpdate = "batch_update"
	OperationValuesGet   = "values_get"
	OperationValuesPut   = "values_update"
	OperationValuesClear = "values_clear"
	OperationBatchGet    = "values_batch_get"
	OperationBatchPut    = "values_batch_update"
	OperationBatchClear  = "values_batch_clear"
)

// Outcome label values.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Sheet cache lookup results.
const (
	CacheHit  = "hit"
	CacheMiss = "miss"
)

// statusOf maps an error to its status label.
func statusOf(failed bool) string {
	if failed {
		return StatusError
	}
	return StatusSuccess
}

// exportFamilies are the mime type prefixes kept verbatim as label values.
var exportFamilies = []string{
	"text/",
	"application/vnd.openxmlformats-officedocument.",
	"application/vnd.oasis.opendocument.",
	"application/vnd.google-apps.",
}

// exportTypes are single mime types kept verbatim as label values.
var exportTypes = map[string]bool{
	"application/pdf":      true,
	"application/rtf":      true,
	"application/zip":      true,
	"application/epub+zip": true,
}

// NormalizeMimeType reduces a mime type to a bounded label value.
// Parameters are dropped and types Drive cannot export documents to
// collapse to "other":
//
//	NormalizeMimeType("text/csv; charset=utf-8")  // "text/csv"
//	NormalizeMimeType("video/mp4")                // "other"
func NormalizeMimeType(mime string) string {
	mime, _, _ = strings.Cut(mime, ";")
	mime = strings.ToLower(strings.TrimSpace(mime))
	if mime == "" {
		return "unknown"
	}
	if exportTypes[mime] {
		return mime
	}
	for _, prefix := range exportFamilies {
		if strings.HasPrefix(mime, prefix) {
			return mime
		}
	}
	return "other"
}
