package controller

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/olekukonko/tablewriter"
	"github.com/pmezard/go-difflib/difflib"

	m "jsdelta.dev/pkg/jsdelta/internal/model"
)

// Results smaller than this are printed in full.
const maxShownContent = 2000

func renderReport(report m.Report) string {
	var b strings.Builder

	b.WriteString(renderSummaryTable(report))

	if report.Mode != m.ModeSingleFile || report.Final == nil {
		return b.String()
	}

	if len(report.Final) < maxShownContent {
		fmt.Fprintf(&b, "\nFinal version:\n%s", report.Final)

		if !bytes.HasSuffix(report.Final, []byte("\n")) {
			b.WriteString("\n")
		}
	}

	if diff := renderDiff(report); diff != "" {
		fmt.Fprintf(&b, "\n%s", diff)
	}

	return b.String()
}

func renderSummaryTable(report m.Report) string {
	var tableBuffer bytes.Buffer

	table := tablewriter.NewWriter(&tableBuffer)
	table.SetHeader([]string{"Property", "Value"})
	table.SetBorder(false)
	table.SetCenterSeparator("")
	table.SetAutoWrapText(false)
	table.SetColumnAlignment([]int{tablewriter.ALIGN_LEFT, tablewriter.ALIGN_LEFT})

	table.Append([]string{"Mode", string(report.Mode)})
	table.Append([]string{"Input", string(report.Input)})
	table.Append([]string{"Output", string(report.Output)})
	table.Append([]string{"Original size", humanize.Bytes(uint64(max(report.OriginalSize, 0)))})
	table.Append([]string{"Final size", humanize.Bytes(uint64(max(report.FinalSize, 0)))})
	table.Append([]string{"Iterations", strconv.Itoa(report.Stats.Iterations)})
	table.Append([]string{"Candidates", strconv.Itoa(report.Stats.Rounds)})
	table.Append([]string{"Accepted", strconv.Itoa(report.Stats.Successes)})

	if report.Stats.Transformed > 0 {
		table.Append([]string{"Transformations", strconv.Itoa(report.Stats.Transformed)})
	}

	if report.Mode == m.ModeMultiFile {
		table.Append([]string{"Deleted", strconv.Itoa(report.Stats.Deleted)})
	}

	table.SetFooter([]string{"Reduced", reduction(report)})

	table.Render()

	return tableBuffer.String()
}

func reduction(report m.Report) string {
	if report.OriginalSize <= 0 || !report.Reduced() {
		return "no"
	}

	saved := float64(report.OriginalSize-report.FinalSize) / float64(report.OriginalSize)

	return fmt.Sprintf("%.1f%%", saved*100)
}

func renderDiff(report m.Report) string {
	if report.Original == nil || bytes.Equal(report.Original, report.Final) {
		return ""
	}

	diff, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(string(report.Original)),
		B:        difflib.SplitLines(string(report.Final)),
		FromFile: string(report.Input),
		ToFile:   string(report.Output),
		Context:  3,
	})
	if err != nil {
		return ""
	}

	return diff
}
