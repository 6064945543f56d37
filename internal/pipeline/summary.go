package pipeline

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"

	"pegascrape/internal/i18n"
)

// printSummary renders the end-of-run counters as a table in the configured
// interface language.
func (p *Pipeline) printSummary(textPath string) {
	lang := p.cfg.InterfaceLanguage
	stats := p.Stats()

	t := table.NewWriter()
	t.SetOutputMirror(p.out)
	t.SetTitle(i18n.T(lang, "operation_summary"))
	t.AppendRows([]table.Row{
		{i18n.T(lang, "total_files_processed"), stats.TotalProcessed},
		{i18n.T(lang, "movies_found"), stats.Found},
		{i18n.T(lang, "movies_not_found"), stats.NotFound},
	})
	t.AppendSeparator()
	t.AppendRows([]table.Row{
		{i18n.T(lang, "posters"), stats.Images.BoxFront},
		{i18n.T(lang, "screenshots"), stats.Images.Screenshot},
		{i18n.T(lang, "logos"), stats.Images.Wheel},
		{i18n.T(lang, "trailers"), stats.Trailers},
	})
	t.Render()

	fmt.Fprintf(p.out, "%s %s\n", i18n.T(lang, "file_generated"), textPath)
}
