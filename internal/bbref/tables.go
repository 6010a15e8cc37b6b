package bbref

import (
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/rotisserie/eris"

	"github.com/courtsource/hooprank/internal/model"
)

// ParseStatsTable extracts per-player rows from the first stats table in a
// season page. Cells are keyed by their data-stat attribute; the player,
// position, and team columns are lifted onto the row itself. Repeated
// mid-table header rows (class "thead", or a literal "Player" cell) are
// dropped here and again defensively in the dataset builder.
func ParseStatsTable(r io.Reader) ([]model.RawRow, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, eris.Wrap(err, "parse html")
	}

	table := doc.Find("table").First()
	if table.Length() == 0 {
		return nil, eris.New("no table in document")
	}

	var rows []model.RawRow
	table.Find("tbody tr").Each(func(_ int, tr *goquery.Selection) {
		if tr.HasClass("thead") {
			return
		}
		row := model.RawRow{Cells: make(map[string]string)}
		tr.Find("th, td").Each(func(_ int, cell *goquery.Selection) {
			stat, ok := cell.Attr("data-stat")
			if !ok {
				return
			}
			text := strings.TrimSpace(cell.Text())
			switch stat {
			// The player column's data-stat changed across site
			// revisions.
			case "player", "name_display":
				row.Name = text
			case "pos":
				row.Position = model.Position(text)
			case "team_id", "team_name_abbr":
				row.Team = text
			case "ranker":
				// row number, not a statistic
			default:
				row.Cells[stat] = text
			}
		})
		if row.Name == "" || row.Name == "Player" {
			return
		}
		rows = append(rows, row)
	})

	if len(rows) == 0 {
		return nil, eris.New("table has no player rows")
	}
	return rows, nil
}
