// ABOUTME: Build-time identity constants
// ABOUTME: Reported in logs and diagnostics, not derived from anything else in the repo
package version

const (
	Version      = "0.1.0"
	Product      = "jtcore-endpoint"
	Manufacturer = "gojacktrip"
)
