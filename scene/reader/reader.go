package reader

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/achilleasa/cycles-xml/asset"
	"github.com/achilleasa/cycles-xml/scene"
)

// The Reader interface is implemented by all scene readers.
type Reader interface {
	// Read scene definition from a resource.
	Read(*asset.Resource) (*scene.Scene, error)
}

// Select a reader based on the file extension.
func readerFor(filename string) (Reader, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".yaml", ".yml":
		return newDescriptionReader(formatYAML), nil
	case ".toml":
		return newDescriptionReader(formatTOML), nil
	case ".obj":
		return newWavefrontReader(), nil
	}
	return nil, fmt.Errorf("readScene: unsupported file format")
}

// Read scene from a local file or http(s) URL.
func ReadScene(filename string) (*scene.Scene, error) {
	reader, err := readerFor(filename)
	if err != nil {
		return nil, err
	}

	res, err := asset.NewResource(filename, nil)
	if err != nil {
		return nil, err
	}
	defer res.Close()

	return reader.Read(res)
}
