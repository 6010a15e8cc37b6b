package server

import (
	"html/template"
	"net/http"

	"go.uber.org/zap"

	"github.com/courtsource/hooprank/internal/model"
)

var indexTmpl = template.Must(template.New("index").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>hooprank</title>
<style>
body { font-family: system-ui, sans-serif; max-width: 52rem; margin: 2rem auto; padding: 0 1rem; color: #1a1a1a; }
form { display: grid; grid-template-columns: 1fr 1fr; gap: 1rem; margin-bottom: 2rem; }
fieldset { border: 1px solid #ccc; border-radius: 6px; padding: 1rem; }
label { display: block; margin-bottom: .5rem; font-size: .9rem; }
input, select { width: 100%; padding: .4rem; box-sizing: border-box; }
button { grid-column: 1 / -1; padding: .6rem; font-size: 1rem; cursor: pointer; }
table { border-collapse: collapse; width: 100%; }
th, td { text-align: left; padding: .4rem .8rem; border-bottom: 1px solid #eee; }
.winner { font-weight: 700; }
.error { color: #b00020; }
</style>
</head>
<body>
<h1>hooprank</h1>
<p>Season-adjusted ratings for any two NBA player seasons.</p>
<form method="get" action="/">
  <fieldset>
    <legend>Player A</legend>
    <label>Name <input name="player_a" value="{{.PlayerA}}" placeholder="Nikola Jokic"></label>
    <label>Season <input name="season_a" value="{{.SeasonA}}" placeholder="2024"></label>
  </fieldset>
  <fieldset>
    <legend>Player B</legend>
    <label>Name <input name="player_b" value="{{.PlayerB}}" placeholder="Shaquille O'Neal"></label>
    <label>Season <input name="season_b" value="{{.SeasonB}}" placeholder="2000"></label>
  </fieldset>
  <label style="grid-column: 1 / -1">Profile
    <select name="profile">
      {{range .Profiles}}<option value="{{.}}" {{if eq . $.Profile}}selected{{end}}>{{.}}</option>{{end}}
    </select>
  </label>
  <button type="submit">Compare</button>
</form>
{{if .FormError}}<p class="error">{{.FormError}}</p>{{end}}
{{if .Comparison}}
{{with .Comparison}}
<table>
  <tr><th></th><th>{{.A.Player}} ({{.A.Season}})</th><th>{{.B.Player}} ({{.B.Season}})</th></tr>
  {{if .A.Err}}<tr><td colspan="3" class="error">A: {{.A.Err}}</td></tr>{{end}}
  {{if .B.Err}}<tr><td colspan="3" class="error">B: {{.B.Err}}</td></tr>{{end}}
  {{if and .A.Result .B.Result}}
  <tr><td>Position</td><td>{{.A.Result.Position}}</td><td>{{.B.Result.Position}}</td></tr>
  <tr><td>Minutes</td><td>{{.A.Result.MinutesPlayed}}</td><td>{{.B.Result.MinutesPlayed}}</td></tr>
  <tr><td>Offense</td><td>{{.A.Result.Offensive}}</td><td>{{.B.Result.Offensive}}</td></tr>
  <tr><td>Defense</td><td>{{.A.Result.Defensive}}</td><td>{{.B.Result.Defensive}}</td></tr>
  <tr><td>Rating</td>
    <td {{if eq .Winner "a"}}class="winner"{{end}}>{{.A.Result.Composite}}</td>
    <td {{if eq .Winner "b"}}class="winner"{{end}}>{{.B.Result.Composite}}</td>
  </tr>
  {{end}}
</table>
{{if eq .Winner "tie"}}<p>Dead even.</p>{{end}}
{{end}}
{{end}}
</body>
</html>`))

type indexData struct {
	PlayerA, PlayerB string
	SeasonA, SeasonB string
	Profile          string
	Profiles         []string
	FormError        string
	Comparison       *model.Comparison
}

// handleIndex renders the comparison form, running the comparison
// server-side when both players are filled in.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	data := indexData{
		PlayerA:  q.Get("player_a"),
		PlayerB:  q.Get("player_b"),
		SeasonA:  q.Get("season_a"),
		SeasonB:  q.Get("season_b"),
		Profile:  q.Get("profile"),
		Profiles: s.ratings.Registry().Names(),
	}

	if data.PlayerA != "" && data.PlayerB != "" {
		seasonA, errA := s.parseSeason(data.SeasonA)
		seasonB, errB := s.parseSeason(data.SeasonB)
		switch {
		case errA != nil:
			data.FormError = errA.Error()
		case errB != nil:
			data.FormError = errB.Error()
		default:
			cmp, err := s.ratings.Compare(r.Context(), data.PlayerA, seasonA, data.PlayerB, seasonB, data.Profile)
			if err != nil {
				data.FormError = err.Error()
			} else {
				data.Comparison = roundComparison(cmp)
			}
		}
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := indexTmpl.Execute(w, data); err != nil {
		zap.L().Error("render index", zap.Error(err))
	}
}
