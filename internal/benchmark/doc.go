// SPDX-License-Identifier: MPL-2.0

// Package benchmark holds benchmarks for the module compiler's hot paths:
//   - content decoding and schema validation
//   - record emission into the client document
//   - whole-module compilation at several worker counts
//   - archive packaging
//
// They double as the workload for PGO profiles:
//
//	go test -run=^$ -bench=. -cpuprofile=default.pgo ./internal/benchmark
package benchmark
