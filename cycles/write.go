package cycles

import (
	"fmt"
	"os"
	"strings"
)

// Extension is the file extension of exported documents.
const Extension = ".xml"

// Append ext to path unless path already ends with it (case insensitive).
func EnsureExt(path, ext string) string {
	if strings.HasSuffix(strings.ToLower(path), strings.ToLower(ext)) {
		return path
	}
	return path + ext
}

// WriteFile renders the document in memory and then writes it to path,
// creating or truncating the file. The path always receives an .xml
// extension. The final path is returned.
func WriteFile(doc *Document, path string) (string, error) {
	path = EnsureExt(path, Extension)

	data, err := doc.Render()
	if err != nil {
		return path, err
	}

	if err = os.WriteFile(path, data, 0644); err != nil {
		return path, fmt.Errorf("cycles: could not write %q: %w", path, err)
	}

	return path, nil
}
