package cmd

import (
	"errors"
	"path/filepath"
	"strings"

	"github.com/achilleasa/cycles-xml/exporter"
	"github.com/achilleasa/cycles-xml/scene"
	"github.com/achilleasa/cycles-xml/scene/reader"
	"github.com/urfave/cli"
)

type exportOptions struct {
	out             string
	includeHidden   bool
	sequentialNames bool
}

// Export a scene to a cycles xml file.
func ExportScene(ctx *cli.Context) error {
	if err := setupLogging(ctx); err != nil {
		return err
	}

	if ctx.NArg() != 1 {
		return errors.New("missing scene file argument")
	}

	opts := exportOptions{
		out:             ctx.String("out"),
		includeHidden:   ctx.Bool("include-hidden"),
		sequentialNames: ctx.Bool("sequential-names"),
	}

	_, report, err := exportScene(ctx.Args().First(), opts)
	if err != nil {
		return err
	}

	if ctx.Bool("report") {
		logger.Noticef("export report\n%s", reportTable(report))
		return nil
	}

	for _, d := range report.Diagnostics {
		if d.Status != exporter.StatusExported {
			logger.Warning(d.String())
		}
	}

	return nil
}

func exportScene(sceneFile string, opts exportOptions) (string, *exporter.Report, error) {
	sc, err := reader.ReadScene(sceneFile)
	if err != nil {
		return "", nil, err
	}

	serializerOpts := exporter.Options{}
	if opts.sequentialNames {
		serializerOpts.Names = &exporter.SequentialNames{}
	}
	if opts.includeHidden {
		serializerOpts.Visible = func(scene.Object) bool { return true }
	}

	out := opts.out
	if out == "" {
		out = defaultOutputPath(sceneFile)
	}

	return exporter.Export(exporter.New(serializerOpts), sc, out)
}

// Derive the output path by replacing the scene file extension. Remote
// scenes are written to the working directory.
func defaultOutputPath(sceneFile string) string {
	if strings.HasPrefix(sceneFile, "http://") || strings.HasPrefix(sceneFile, "https://") {
		sceneFile = filepath.Base(sceneFile)
	}
	return strings.TrimSuffix(sceneFile, filepath.Ext(sceneFile))
}
