package exporter

import (
	"fmt"

	"github.com/achilleasa/cycles-xml/cycles"
	"github.com/achilleasa/cycles-xml/scene"
)

// Export serializes sc and writes the rendered document to path. The ".xml"
// extension is appended to path when missing. The target file is only
// touched once the whole document has been built and rendered.
//
// Export returns the final output path and the serialization report.
func Export(s *Serializer, sc *scene.Scene, path string) (string, *Report, error) {
	doc, report, err := s.Serialize(sc)
	if err != nil {
		return "", nil, err
	}

	outPath, err := cycles.WriteFile(doc, path)
	if err != nil {
		return "", report, fmt.Errorf("exporter: %w", err)
	}

	s.logger.Noticef("wrote %s", outPath)
	return outPath, report, nil
}
