// internal/app/system/csvutil/limits.go
package csvutil

// Upload size and row limits for roster imports.
const (
	MaxUploadSize = 1 << 20 // 1 MB
	MaxRows       = 500
)
