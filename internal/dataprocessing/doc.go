// Package dataprocessing turns uploaded spreadsheets into domain tables.
//
// A FileParser reads one file format. ParserRegistry picks the first parser
// whose CanHandle accepts the path, so new formats are added by registering
// another parser:
//
//	registry := dataprocessing.NewParserRegistry(dataprocessing.NewContraidosExcelParser(logger))
//	parser, err := registry.ParserFor(path)
//	if err != nil {
//		return err // wraps ErrNoParser
//	}
//	result, err := parser.Parse(ctx, path)
//
// ContraidosExcelParser reads the first worksheet of a workbook. Headers are
// trimmed, blank rows skipped, integer cells decoded as int64 and date serials
// in the Fecha column rendered as "2006-01-02 15:04:05". Tables missing a
// required column, without rows or with a non-numeric Importe column are
// rejected with a *StructuralError listing every problem.
package dataprocessing
