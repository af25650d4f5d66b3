package domain

import "strings"

// FileType is a supported ingestion file extension, including the dot.
type FileType string

// Supported file types.
const (
	FileTypePDF  FileType = ".pdf"
	FileTypeDOCX FileType = ".docx"
	FileTypeMD   FileType = ".md"
	FileTypePPTX FileType = ".pptx"
	FileTypeXLSX FileType = ".xlsx"
	FileTypeCSV  FileType = ".csv"
)

// SupportedFileTypes returns the file types in ingestion pass order.
func SupportedFileTypes() []FileType {
	return []FileType{
		FileTypePDF,
		FileTypeDOCX,
		FileTypeMD,
		FileTypePPTX,
		FileTypeXLSX,
		FileTypeCSV,
	}
}

// ParseFileType normalises an extension (".PDF", "pdf") to a FileType.
// Returns false for unsupported extensions.
func ParseFileType(ext string) (FileType, bool) {
	ext = strings.ToLower(ext)
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	for _, ft := range SupportedFileTypes() {
		if FileType(ext) == ft {
			return ft, true
		}
	}
	return "", false
}

// String returns the extension.
func (f FileType) String() string {
	return string(f)
}
