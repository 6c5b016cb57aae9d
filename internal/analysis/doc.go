// Package analysis defines the analyzer contract and the registry that maps an
// analysis type to the factory building it.
//
// New analysis types plug in by registering a Factory and a Detector:
//
//	registry := analysis.NewRegistry()
//	err := registry.Register(analysis.Definition{
//		Type:    domain.AnalysisTypeContraidos,
//		Factory: contraidos.Factory(logger),
//		Detect:  contraidos.CanAnalyze,
//	})
//
// Detect is consulted in registration order when no type is requested.
package analysis
