// Package domain holds the core types and pure logic of the risk fusion
// service: coordinates, raw signal bundles, the feature vector schema,
// source scores, the weight policy, and the final fusion result. It has
// no dependencies on adapters or transport.
package domain
