package errors

import (
	"regexp"
	"strings"
	"unicode"
)

// ValidateCoordinatePart validates a groupId or artifactId segment.
// It rejects names that could be used for path traversal when the coordinate
// is turned into a repository path.
//
// The validation rules are intentionally conservative:
//   - No empty names
//   - No control characters or whitespace
//   - No path traversal sequences (.., /, \)
//   - Maximum length of 256 characters
func ValidateCoordinatePart(kind, name string) error {
	if name == "" {
		return New(ErrCodeInvalidCoordinate, "%s cannot be empty", kind)
	}

	if len(name) > 256 {
		return New(ErrCodeInvalidCoordinate, "%s too long (max 256 characters)", kind)
	}

	for _, r := range name {
		if unicode.IsControl(r) || unicode.IsSpace(r) {
			return New(ErrCodeInvalidCoordinate, "%s %q contains whitespace or control characters", kind, name)
		}
	}

	dangerousPatterns := []string{
		"..", // Parent directory
		"/",  // Path separator
		"\\", // Backslash (Windows path)
	}

	for _, pattern := range dangerousPatterns {
		if strings.Contains(name, pattern) {
			return New(ErrCodeInvalidCoordinate, "%s %q contains invalid characters: %q", kind, name, pattern)
		}
	}

	return nil
}

// ValidateKeyFilename validates the name of the tracked-artifact key file.
// It must be a simple basename; the directory is configured separately.
func ValidateKeyFilename(filename string) error {
	if filename == "" {
		return New(ErrCodeInvalidInput, "key file name cannot be empty")
	}

	if strings.ContainsAny(filename, "/\\") {
		return New(ErrCodeInvalidInput, "key file name cannot contain path separators: %q", filename)
	}

	return nil
}

// ValidateURL validates a repository URL string for safety.
// It ensures the URL has a safe scheme (http or https).
func ValidateURL(rawURL string) error {
	if rawURL == "" {
		return New(ErrCodeInvalidInput, "URL cannot be empty")
	}

	if !strings.HasPrefix(rawURL, "http://") && !strings.HasPrefix(rawURL, "https://") {
		return New(ErrCodeInvalidInput, "URL must use http or https scheme: %q", rawURL)
	}

	return nil
}

// mavenIDRegex matches groupIds and artifactIds as accepted by Maven's model validator.
var mavenIDRegex = regexp.MustCompile(`^[A-Za-z0-9_\-.]+$`)

// ValidateMavenID validates a groupId or artifactId against Maven's id pattern.
func ValidateMavenID(kind, id string) error {
	if err := ValidateCoordinatePart(kind, id); err != nil {
		return err
	}

	if !mavenIDRegex.MatchString(id) {
		return New(ErrCodeInvalidCoordinate, "invalid Maven %s: %q", kind, id)
	}

	return nil
}
