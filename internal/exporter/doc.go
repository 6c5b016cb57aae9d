// Package exporter writes analysis results to disk.
//
// JSON exports are indented UTF-8 without HTML escaping. Excel exports come
// in two layouts: the API workbook (Resumen, Cálculos, Problemas,
// Advertencias and optionally Datos Originales) and the command line
// workbook (Datos_Originales, Resumen, Por_Contraido, Problemas). CSV exports
// list one row per contraído and start with a UTF-8 BOM so spreadsheet
// applications detect the encoding.
package exporter
