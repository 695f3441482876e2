package services

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
)

// ValidationResult contains the results of file validation
type ValidationResult struct {
	Valid        bool
	Extension    string
	DetectedType string // "TEXT", "PARQUET", "ZIP", "OLE2"
	Size         int64
	Errors       []string
	Warnings     []string
}

// FileValidator validates uploaded files before they reach the parser
type FileValidator struct {
	maxSizeBytes int64
	magicBytes   map[string][]byte
}

// File magic bytes signatures
var fileMagicBytes = map[string][]byte{
	"PARQUET": []byte("PAR1"),
	"ZIP":     {0x50, 0x4B, 0x03, 0x04},                         // xlsx is a zip container
	"OLE2":    {0xD0, 0xCF, 0x11, 0xE0, 0xA1, 0xB1, 0x1A, 0xE1}, // legacy xls compound document
}

// Expected content family per allowed extension
var expectedTypes = map[string]string{
	".csv":     "TEXT",
	".txt":     "TEXT",
	".parquet": "PARQUET",
	".xlsx":    "ZIP",
	".xls":     "OLE2",
}

// NewFileValidator creates a new file validator with the specified maximum file size
func NewFileValidator(maxSizeBytes int64) *FileValidator {
	return &FileValidator{
		maxSizeBytes: maxSizeBytes,
		magicBytes:   fileMagicBytes,
	}
}

// ValidateFile checks the filename and size and sniffs the content type.
// A content/suffix mismatch is only a warning: the parser reports the real failure.
func (v *FileValidator) ValidateFile(reader io.Reader, filename string) (*ValidationResult, []byte, error) {
	result := &ValidationResult{
		Valid:     true,
		Extension: strings.ToLower(filepath.Ext(filename)),
		Errors:    []string{},
		Warnings:  []string{},
	}

	if err := v.ValidateFilename(filename); err != nil {
		result.Valid = false
		result.Errors = append(result.Errors, err.Error())
		if errors.Is(err, ErrUnsupportedFormat) {
			return result, nil, err
		}
	}

	// Read one byte past the limit so oversized uploads are detected without buffering them whole
	data, err := io.ReadAll(io.LimitReader(reader, v.maxSizeBytes+1))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read file: %w", err)
	}

	result.Size = int64(len(data))
	if err := v.ValidateFileSize(result.Size); err != nil {
		result.Valid = false
		result.Errors = append(result.Errors, err.Error())
	}

	if result.Size > 0 {
		result.DetectedType = v.DetectContentType(data)
		if want, ok := expectedTypes[result.Extension]; ok && want != result.DetectedType {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("content looks like %s but extension is %s", result.DetectedType, result.Extension))
		}
	}

	if !result.Valid {
		return result, nil, errors.New(strings.Join(result.Errors, "; "))
	}
	return result, data, nil
}

// ValidateFilename validates the filename for security issues and a supported extension
func (v *FileValidator) ValidateFilename(filename string) error {
	// Check for empty filename
	if filename == "" {
		return errors.New("filename cannot be empty")
	}

	// Check for path traversal attempts
	if strings.Contains(filename, "..") {
		return errors.New("filename contains path traversal")
	}

	// Check for null bytes
	if strings.Contains(filename, "\x00") {
		return errors.New("filename contains null bytes")
	}

	// Check for absolute paths
	if strings.HasPrefix(filename, "/") || strings.HasPrefix(filename, "\\") {
		return errors.New("filename cannot be absolute path")
	}

	ext := strings.ToLower(filepath.Ext(filename))
	if _, ok := expectedTypes[ext]; !ok {
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}

	return nil
}

// ValidateFileSize validates the file size is within limits
func (v *FileValidator) ValidateFileSize(size int64) error {
	if size < 0 {
		return errors.New("invalid file size")
	}

	if size > v.maxSizeBytes {
		return fmt.Errorf("file size exceeds maximum allowed size (%d bytes)", v.maxSizeBytes)
	}

	return nil
}

// DetectContentType sniffs the content family from magic bytes
func (v *FileValidator) DetectContentType(data []byte) string {
	for _, kind := range []string{"PARQUET", "ZIP", "OLE2"} {
		if bytes.HasPrefix(data, v.magicBytes[kind]) {
			return kind
		}
	}
	if v.isTextContent(data) {
		return "TEXT"
	}
	return "BINARY"
}

// isTextContent checks if the data appears to be text
func (v *FileValidator) isTextContent(data []byte) bool {
	// Check first 512 bytes (or less if file is smaller)
	checkLen := len(data)
	if checkLen > 512 {
		checkLen = 512
	}
	if checkLen == 0 {
		return false
	}

	sample := data[:checkLen]

	// Text files shouldn't have null bytes
	if bytes.Contains(sample, []byte{0x00}) {
		return false
	}

	// Count printable characters; bytes >= 0x80 count as UTF-8 text
	printable := 0
	for _, b := range sample {
		if (b >= 0x20 && b <= 0x7E) || b >= 0x80 || b == 0x09 || b == 0x0A || b == 0x0D {
			printable++
		}
	}

	return float64(printable)/float64(len(sample)) > 0.95
}
