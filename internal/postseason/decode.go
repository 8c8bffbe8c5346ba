package postseason

import (
	"nba-season-engine/internal/domain"
	"nba-season-engine/internal/league"
)

// decodeState turns the authority's postseason snapshot into the explicit
// tagged union. Presence decides the stage: a champion wins over an active
// playoff bracket, which wins over a play-in field. Decoding happens once
// per refresh; everything downstream works off the typed state.
func decodeState(doc league.PostseasonDoc) domain.PostseasonState {
	state := domain.PostseasonState{
		Stage:    domain.StageNone,
		MyTeamID: doc.MyTeamID,
	}

	switch {
	case doc.Champion != nil && doc.Champion.TeamID != "":
		state.Stage = domain.StageChampion
		state.Champion = doc.Champion.TeamID
	case doc.Playoffs != nil:
		state.Stage = domain.StagePlayoffs
		playoffs := decodePlayoffs(*doc.Playoffs)
		state.Playoffs = &playoffs
	case doc.PlayIn != nil:
		state.Stage = domain.StagePlayIn
		state.PlayIn = &domain.PlayInState{
			East: decodePlayInConference(doc.PlayIn.East),
			West: decodePlayInConference(doc.PlayIn.West),
		}
	}
	return state
}

func decodePlayInConference(doc league.PlayInConferenceDoc) domain.PlayInConference {
	conf := domain.PlayInConference{Matchups: make(map[domain.PlayInSlot]domain.PlayInMatchup, len(doc.Matchups))}
	for slot, m := range doc.Matchups {
		matchup := domain.PlayInMatchup{
			Home: m.Home.TeamID,
			Away: m.Away.TeamID,
		}
		if m.Result != nil {
			matchup.Winner = m.Result.Winner.TeamID
		}
		conf.Matchups[domain.PlayInSlot(slot)] = matchup
	}
	return conf
}

func decodePlayoffs(doc league.PlayoffsDoc) domain.PlayoffsState {
	return domain.PlayoffsState{
		CurrentRound: doc.CurrentRound,
		Bracket: domain.Bracket{
			East:   decodeConferenceBracket(doc.Bracket.East),
			West:   decodeConferenceBracket(doc.Bracket.West),
			Finals: decodeSeriesPtr(doc.Bracket.Finals),
		},
	}
}

func decodeConferenceBracket(doc league.ConferenceBracketDoc) domain.ConferenceBracket {
	return domain.ConferenceBracket{
		Quarterfinals: decodeSeriesList(doc.Quarterfinals),
		Semifinals:    decodeSeriesList(doc.Semifinals),
		Finals:        decodeSeriesPtr(doc.Finals),
	}
}

func decodeSeriesList(docs []league.SeriesDoc) []domain.Series {
	if len(docs) == 0 {
		return nil
	}
	out := make([]domain.Series, len(docs))
	for i, d := range docs {
		out[i] = decodeSeries(d)
	}
	return out
}

func decodeSeriesPtr(doc *league.SeriesDoc) *domain.Series {
	if doc == nil {
		return nil
	}
	s := decodeSeries(*doc)
	return &s
}

func decodeSeries(doc league.SeriesDoc) domain.Series {
	s := domain.Series{
		Round:     doc.Round,
		Matchup:   doc.Matchup,
		HomeCourt: doc.HomeCourt.TeamID,
		Road:      doc.Road.TeamID,
		BestOf:    doc.BestOf,
		Wins:      make(map[string]int, len(doc.Wins)),
	}
	for team, wins := range doc.Wins {
		s.Wins[team] = wins
	}
	if doc.Winner != nil {
		s.Winner = doc.Winner.TeamID
	}
	return s
}
