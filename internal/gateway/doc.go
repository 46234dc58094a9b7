// Package gateway implements the automated data gateway: it scans a
// directory of loosely-structured spot and futures price tables, classifies
// each file by heuristic signal detection, normalizes the series onto a
// canonical schema, aligns the spot series to the futures trading calendar,
// and assembles the unified wide panel consumed by the analysis layer.
//
// The pipeline is a synchronous batch: files are processed one at a time in
// discovery order, per-file failures are recorded and skipped, and all
// working state lives in a single State value owned by the caller. Nothing
// in this package is safe for concurrent use.
package gateway
