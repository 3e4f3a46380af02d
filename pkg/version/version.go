package version

var version = "v0.1.0"

// Current returns the current vrfctl version
func Current() string { return version }
