package service

import (
	"github.com/okian/swc/internal/domain/model"
	"github.com/okian/swc/pkg/schemas"
)

func mapSlice[T, U any](in []T, fn func(T) U) []U {
	out := make([]U, 0, len(in))
	for _, v := range in {
		out = append(out, fn(v))
	}
	return out
}

func toPerformanceBase(p model.Performance) schemas.PerformanceBase {
	return schemas.PerformanceBase{
		PerformanceID:   p.PerformanceID,
		WeekNumber:      p.WeekNumber,
		FantasyPoints:   p.FantasyPoints,
		LastChangedDate: schemas.NewDate(p.LastChangedDate),
	}
}

func toPerformance(p model.Performance) schemas.Performance {
	return schemas.Performance{PerformanceBase: toPerformanceBase(p), PlayerID: p.PlayerID}
}

func toPlayerBase(p model.Player) schemas.PlayerBase {
	return schemas.PlayerBase{
		PlayerID:        p.PlayerID,
		GsisID:          p.GsisID,
		FirstName:       p.FirstName,
		LastName:        p.LastName,
		Position:        p.Position,
		LastChangedDate: schemas.NewDate(p.LastChangedDate),
	}
}

func toPlayer(p model.Player) schemas.Player {
	return schemas.Player{
		PlayerBase:   toPlayerBase(p),
		Performances: mapSlice(p.Performances, toPerformanceBase),
	}
}

func toTeamBase(t model.Team) schemas.TeamBase {
	return schemas.TeamBase{
		LeagueID:        t.LeagueID,
		TeamID:          t.TeamID,
		TeamName:        t.TeamName,
		LastChangedDate: schemas.NewDate(t.LastChangedDate),
	}
}

func toTeam(t model.Team) schemas.Team {
	return schemas.Team{
		TeamBase: toTeamBase(t),
		Players:  mapSlice(t.Players, toPlayerBase),
	}
}

func toLeagueBase(l model.League) schemas.LeagueBase {
	return schemas.LeagueBase{
		LeagueID:        l.LeagueID,
		LeagueName:      l.LeagueName,
		ScoringType:     l.ScoringType,
		LastChangedDate: schemas.NewDate(l.LastChangedDate),
	}
}

func toLeague(l model.League) schemas.League {
	return schemas.League{
		LeagueBase: toLeagueBase(l),
		Teams:      mapSlice(l.Teams, toTeamBase),
	}
}
