// Package batch runs one tool operation over several Drive ids.
//
// Tools such as drive_delete_file and docs_export accept either a single id
// or a list. ProcessBatch fans the work out with a bounded number of
// concurrent remote calls and reports per-id success or failure, so one bad
// id does not fail the whole call.
package batch
