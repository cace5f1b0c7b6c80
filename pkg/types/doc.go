// Package types defines the container store contract, persistence records,
// backend configuration, and standard errors for the Stratum data container.
//
// The in-memory entity model lives in pkg/workspace; this package holds only
// what the model and the store backends must agree on.
package types
