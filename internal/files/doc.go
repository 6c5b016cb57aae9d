// Package files stores uploaded and exported files below a single directory.
//
// Files are named after an opaque identifier plus their extension, so a
// Manager can find them again from the identifier alone:
//
//	uploads := files.NewManager(cfg.Paths.UploadDir, logger)
//	info, err := uploads.Save(id, ".xlsx", r)
//	path, err := uploads.Find(id, ".xlsx", ".xls")
//
// PurgeOlderThan removes files whose modification time is past a retention
// window.
package files
