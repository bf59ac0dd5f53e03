// Package report renders one evaluation as terminal tables.
package report

import (
	"fmt"
	"io"

	"codeberg.org/mutker/overtake/internal/monitor"
	"codeberg.org/mutker/overtake/internal/telemetry"
	"codeberg.org/mutker/overtake/internal/timing"
	"github.com/jedib0t/go-pretty/v6/table"
)

const carMarker = "▶"

// Write prints the tyre, prediction, leaderboard and sector tables
func Write(w io.Writer, st monitor.State, session timing.Session) {
	for _, t := range []table.Writer{
		tyres(st),
		predictions(st),
		leaderboard(st, session),
		sectors(session),
	} {
		t.SetOutputMirror(w)
		t.SetStyle(table.StyleRounded)
		t.Render()
	}
}

func newTable(title string, header table.Row) table.Writer {
	t := table.NewWriter()
	t.SetTitle(title)
	t.AppendHeader(header)
	return t
}

func tyres(st monitor.State) table.Writer {
	t := newTable("Tyres", table.Row{"Wheel", "Temp °C", "Pressure psi", "Healthy"})
	for _, w := range telemetry.Wheels {
		t.AppendRow(table.Row{
			w.String(),
			fmt.Sprintf("%.1f", st.Snapshot.TireTemperatures[w]),
			fmt.Sprintf("%.2f", st.Snapshot.TirePressures[w]),
			yesNo(st.Metrics.TireHealth[w]),
		})
	}
	t.AppendFooter(table.Row{
		"Avg",
		fmt.Sprintf("%.1f", st.Metrics.AverageTireTemperature),
		fmt.Sprintf("%.2f", st.Metrics.AverageTirePressure),
		"",
	})
	return t
}

func predictions(st monitor.State) table.Writer {
	m := st.Metrics
	t := newTable("Predictions", table.Row{"Metric", "Value"})
	t.AppendRows([]table.Row{
		{"Pass", m.Pass.Text},
		{"Pit", m.Pit.Text},
		{"Position", fmt.Sprintf("%d → %d", m.CurrentPosition, m.PredictedPlacement)},
		{"Recommendation", m.Recommendation},
	})
	return t
}

func leaderboard(st monitor.State, session timing.Session) table.Writer {
	pos := st.Snapshot.CurrentPosition
	t := newTable("Leaderboard", table.Row{"", "Pos", "Driver", "Gap"})
	for _, e := range timing.Window(session.Leaderboard, pos) {
		marker := ""
		if e.Position == pos {
			marker = carMarker
		}
		t.AppendRow(table.Row{marker, e.Position, e.Driver, e.Gap})
	}
	return t
}

func sectors(session timing.Session) table.Writer {
	t := newTable("Sectors", table.Row{"Lap", "S1", "S2", "S3"})
	for i, classes := range session.LapClasses() {
		lap := session.Laps[i]
		row := table.Row{lap.Number}
		for s, c := range classes {
			row = append(row, fmt.Sprintf("%.3f %s", lap.Sectors[s], c))
		}
		t.AppendRow(row)
	}
	return t
}

func yesNo(ok bool) string {
	if ok {
		return "yes"
	}
	return "no"
}
