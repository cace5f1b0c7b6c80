// Package stratum carries project-wide metadata.
package stratum

// Version is the project version reported by the CLI.
const Version = "0.1.0"
