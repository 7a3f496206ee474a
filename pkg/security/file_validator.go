package security

import (
	"bytes"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// FileKind selects which whitelist an upload is checked against
type FileKind string

const (
	FileKindResume FileKind = "resume"
	FileKindImage  FileKind = "image"
)

// FileValidationResult contains the result of file validation
type FileValidationResult struct {
	Valid        bool
	Extension    string
	DetectedMIME string
	Error        string
}

// Magic byte signatures per lowercase extension
var magicBytes = map[string][][]byte{
	".jpg":  {{0xFF, 0xD8, 0xFF}},
	".jpeg": {{0xFF, 0xD8, 0xFF}},
	".png":  {{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A}},
	".gif":  {{0x47, 0x49, 0x46, 0x38, 0x37, 0x61}, {0x47, 0x49, 0x46, 0x38, 0x39, 0x61}},
	".webp": {{0x52, 0x49, 0x46, 0x46}},
	".pdf":  {{0x25, 0x50, 0x44, 0x46}},
	".doc":  {{0xD0, 0xCF, 0x11, 0xE0, 0xA1, 0xB1, 0x1A, 0xE1}},
	".docx": {{0x50, 0x4B, 0x03, 0x04}},
}

var allowedByKind = map[FileKind]map[string][]string{
	FileKindResume: {
		".pdf":  {"application/pdf"},
		".doc":  {"application/msword", "application/x-ole-storage"},
		".docx": {"application/vnd.openxmlformats-officedocument.wordprocessingml.document", "application/zip"},
	},
	FileKindImage: {
		".jpg":  {"image/jpeg"},
		".jpeg": {"image/jpeg"},
		".png":  {"image/png"},
		".gif":  {"image/gif"},
		".webp": {"image/webp"},
	},
}

// ValidateFile checks an upload in three layers: extension whitelist for
// the kind, magic bytes matching the extension, and the sniffed MIME type.
func ValidateFile(kind FileKind, filename string, data []byte) FileValidationResult {
	detected := mimetype.Detect(data)
	result := FileValidationResult{DetectedMIME: detected.String()}

	ext := strings.ToLower(filepath.Ext(filename))
	if ext == "" {
		result.Error = "file has no extension"
		return result
	}
	result.Extension = ext

	allowed, ok := allowedByKind[kind][ext]
	if !ok {
		result.Error = "file extension not allowed: " + ext
		return result
	}

	if !validateMagicBytes(ext, data) {
		result.Error = "file content does not match extension"
		return result
	}

	mimeOK := false
	for _, m := range allowed {
		if detected.Is(m) {
			mimeOK = true
			break
		}
	}
	if !mimeOK {
		result.Error = "MIME type not allowed: " + detected.String()
		return result
	}

	result.Valid = true
	return result
}

func validateMagicBytes(ext string, data []byte) bool {
	if len(data) < 4 {
		return false
	}
	for _, sig := range magicBytes[ext] {
		if bytes.HasPrefix(data, sig) {
			return true
		}
	}
	return false
}

// AllowedExtensions lists the extensions accepted for kind.
func AllowedExtensions(kind FileKind) []string {
	exts := make([]string, 0, len(allowedByKind[kind]))
	for ext := range allowedByKind[kind] {
		exts = append(exts, ext)
	}
	return exts
}
