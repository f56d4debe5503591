// Package logging builds the slog loggers gdocs writes to and the
// attributes its records share.
//
//	logger := logging.New(os.Stderr, debug)
//	logger.Debug("google api call",
//	    logging.Service("drive"),
//	    logging.FileID(id),
//	    logging.Outcome(err),
//	    logging.Err(err))
//
// Credential paths go through SanitizePath before they are logged.
package logging
