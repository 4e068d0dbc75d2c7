package model

// Centralized icons for the UI components
// Using simple single-width characters for consistent terminal rendering
const (
	IconDuplicate = "≈" // Almost equal (duplicate entry)
	IconMissing   = "✗" // Thin X (directory does not exist)
	IconDep       = "→" // Right arrow (via transitive dependency)
	IconFallback  = "¶" // Fixed trailing fallback entry
	IconOK        = " " // Space (OK - no icon to reduce noise)
)
