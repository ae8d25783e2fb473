package config

// Version is the current astcore version.
// Set at build time via -ldflags or by writing to this file.
var Version = "0.1.0"

const SourceFileExt = ".lang"

// SourceFileExtensions are all recognized source file extensions.
var SourceFileExtensions = []string{".lang", ".ast"}

// TrimSourceExt removes any recognized source extension from a filename.
// Returns the original string if no extension matches.
func TrimSourceExt(name string) string {
	for _, ext := range SourceFileExtensions {
		if len(name) >= len(ext) && name[len(name)-len(ext):] == ext {
			return name[:len(name)-len(ext)]
		}
	}
	return name
}

// HasSourceExt returns true if the path ends with any recognized source extension.
func HasSourceExt(path string) bool {
	for _, ext := range SourceFileExtensions {
		if len(path) >= len(ext) && path[len(path)-len(ext):] == ext {
			return true
		}
	}
	return false
}

// IsTestMode indicates if the program is running under `go test`.
// Normalizes generated identifiers (e.g. monomorphization ids) for
// deterministic golden output.
var IsTestMode = false

// Default profile gate name, consulted by the parser when no gate is
// pushed explicitly.
const DefaultProfile = "sovereign"
