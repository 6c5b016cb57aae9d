// Package contraidos implements the classification and aggregation engine for
// contraídos ledgers.
//
// A contraídos ledger is a flat table of accounting operations. Each operation
// belongs to a phase: AINP (arqueo, a receipt that adds to the balance) or M;P
// (cargo, a charge that subtracts from it). A cargo only counts when its
// status is 4; any other status marks it as incomplete or cancelled.
//
// # Pipeline
//
// Analyzer.Analyze runs every stage in order and assembles one result:
//
//  1. Classify: raw rows become domain.Operation values
//  2. Aggregate: by-phase buckets and by-contraído groups with net balances
//  3. Validate: invalid cargos become issues, unbalanced groups become warnings
//  4. Totals: dataset-wide amounts and the invalid percentage
//  5. Charts: the aggregates reshaped for the dashboard
//
// Every stage is a pure function of its inputs. Failures at any stage, panics
// included, are returned as a result with Success set to false.
//
// # Files
//
//   - classifier.go: row to operation coercion
//   - aggregator.go: by-phase and by-contraído grouping
//   - validator.go: business rules
//   - totals.go: dataset totals
//   - charts.go: chart series
//   - summary.go: counts and date range
//   - analyzer.go: orchestration and registration
//   - report.go: plain-text report
package contraidos
