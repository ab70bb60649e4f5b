package main

import (
	"fmt"
	"os"

	"github.com/achilleasa/cycles-xml/cmd"
	"github.com/urfave/cli"
)

func main() {
	cli.VersionFlag = cli.BoolFlag{
		Name:  "version",
		Usage: "print only the version",
	}

	app := cli.NewApp()
	app.Name = "cycles-xml"
	app.Usage = "export scenes to the cycles xml test format"
	app.Version = "0.0.1"
	app.Flags = []cli.Flag{
		cli.BoolFlag{
			Name:  "v",
			Usage: "enable verbose logging",
		},
		cli.BoolFlag{
			Name:  "vv",
			Usage: "enable even more verbose logging",
		},
		cli.StringFlag{
			Name:  "log-level",
			Usage: "set log level (debug, info, notice, warning, error)",
		},
	}
	app.Commands = []cli.Command{
		{
			Name:  "export",
			Usage: "export a scene to a cycles xml file",
			Description: `
Read a scene from a yaml/toml description or a wavefront obj file and export
its camera, background, materials, lights and meshes as a cycles xml file.

The output file always receives a .xml extension. If no output is specified,
the scene file name is used with its extension replaced.`,
			ArgsUsage: "scene_file",
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:  "out, o",
					Usage: "output filename",
				},
				cli.BoolFlag{
					Name:  "include-hidden",
					Usage: "export objects that are flagged as hidden",
				},
				cli.BoolFlag{
					Name:  "sequential-names",
					Usage: "use reproducible sequential names (diffuse_1, diffuse_2, ...) for generated shader nodes; names restart with every export and are not unique across exports",
				},
				cli.BoolFlag{
					Name:  "report",
					Usage: "display a per-entity export report",
				},
			},
			Action: cmd.ExportScene,
		},
		{
			Name:      "info",
			Usage:     "display scene information",
			ArgsUsage: "scene_file",
			Action:    cmd.ShowSceneInfo,
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %s\n", err.Error())
		os.Exit(1)
	}
}
