package cmd

import (
	"bytes"
	"fmt"

	"github.com/achilleasa/cycles-xml/exporter"
	"github.com/achilleasa/cycles-xml/scene"
	"github.com/olekukonko/tablewriter"
)

// Build a tabular representation of an export report.
func reportTable(report *exporter.Report) string {
	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetHeader([]string{"Kind", "Name", "Status", "Reason"})
	for _, d := range report.Diagnostics {
		table.Append([]string{string(d.Kind), d.Name, string(d.Status), d.Reason})
	}

	counts := report.Counts()
	table.SetFooter([]string{
		"Total",
		fmt.Sprintf("%d", len(report.Diagnostics)),
		fmt.Sprintf("%d exported", counts.Exported),
		fmt.Sprintf("%d skipped, %d degraded", counts.Skipped, counts.Degraded),
	})

	table.Render()
	return buf.String()
}

// Build a tabular representation of scene statistics.
func sceneTable(sc *scene.Scene) string {
	stats := sc.Stats()

	camera := "none"
	if sc.Camera != nil {
		camera = sc.Camera.Name
	}

	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetAutoFormatHeaders(false)
	table.SetHeader([]string{"Property", "Value"})
	table.Append([]string{"Name", sc.Name})
	table.Append([]string{"Resolution", fmt.Sprintf("%dx%d", sc.Render.Width(), sc.Render.Height())})
	table.Append([]string{"Camera", camera})
	table.Append([]string{"Materials", fmt.Sprintf("%d", stats.Materials)})
	table.Append([]string{"Node graphs", fmt.Sprintf("%d", stats.NodeMaterials)})
	table.Append([]string{"Lights", fmt.Sprintf("%d", stats.Lights)})
	table.Append([]string{"Meshes", fmt.Sprintf("%d", stats.Meshes)})
	table.Append([]string{"Hidden objects", fmt.Sprintf("%d", stats.HiddenObjects)})
	table.Append([]string{"Vertices", fmt.Sprintf("%d", stats.StaticVertices)})
	table.Append([]string{"Faces", fmt.Sprintf("%d", stats.StaticFaces)})

	table.Render()
	return buf.String()
}
