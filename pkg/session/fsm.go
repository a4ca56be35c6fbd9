package session

import (
	"fmt"
	"strconv"
)

// apply advances the dialogue by one event. Invalid input never aborts the
// session: the user is re-prompted and the state stays put.
func (s *Session) apply(c *Coordinator, ev Event) {
	switch s.state {
	case AwaitingPlayerSelection:
		s.applyPlayerSelection(c, ev)
	case AwaitingFieldSelection:
		s.applyFieldSelection(c, ev)
	case AwaitingNewValue:
		s.applyNewValue(c, ev)
	case ReviewApplied:
		s.applyReview(c, ev)
	}
}

func (s *Session) applyPlayerSelection(c *Coordinator, ev Event) {
	switch ev.Kind {
	case Finish:
		s.finish(c)
	case PickPlayer:
		if _, ok := s.team1[ev.Value]; ok {
			s.board = s.team1
		} else if _, ok := s.team2[ev.Value]; ok {
			s.board = s.team2
		} else {
			c.send(s.UserID, fmt.Sprintf("No player named %q on either team.", ev.Value))
			return
		}
		s.player = ev.Value
		s.state = AwaitingFieldSelection
		c.send(s.UserID, fmt.Sprintf("Correcting %s. Pick a field: Name, Kills, Deaths or Assists.", s.player))
	default:
		c.send(s.UserID, "Pick a player first.")
	}
}

func (s *Session) applyFieldSelection(c *Coordinator, ev Event) {
	if ev.Kind != PickField {
		c.send(s.UserID, "Pick a field: Name, Kills, Deaths or Assists.")
		return
	}
	field, ok := ParseField(ev.Value)
	if !ok {
		c.send(s.UserID, fmt.Sprintf("%q is not a correctable field.", ev.Value))
		return
	}
	s.field = field
	s.state = AwaitingNewValue
	c.send(s.UserID, fmt.Sprintf("Enter the new %s for %s.", field, s.player))
}

func (s *Session) applyNewValue(c *Coordinator, ev Event) {
	if ev.Kind != SubmitValue {
		c.send(s.UserID, fmt.Sprintf("Enter the new %s for %s.", s.field, s.player))
		return
	}
	if s.field == FieldName {
		s.board.Rename(s.player, ev.Value)
		s.player = ev.Value
	} else {
		n, err := strconv.Atoi(ev.Value)
		if err != nil || n < 0 {
			c.send(s.UserID, fmt.Sprintf("%q is not a valid %s value, enter a non-negative number.", ev.Value, s.field))
			return
		}
		line := s.board[s.player]
		switch s.field {
		case FieldKills:
			line.Kills = n
		case FieldDeaths:
			line.Deaths = n
		case FieldAssists:
			line.Assists = n
		}
		s.board[s.player] = line
	}
	s.state = ReviewApplied
	c.send(s.UserID, "Updated stats.\nTeam 1:\n"+s.team1.Format()+"Team 2:\n"+s.team2.Format()+
		"Anything else to correct? Pick another player, or finish.")
}

func (s *Session) applyReview(c *Coordinator, ev Event) {
	switch ev.Kind {
	case Continue:
		s.state = AwaitingPlayerSelection
		c.send(s.UserID, "Pick a player to correct.")
	case PickPlayer:
		// allow skipping the explicit continue step
		s.state = AwaitingPlayerSelection
		s.applyPlayerSelection(c, ev)
	case Finish:
		s.finish(c)
	default:
		c.send(s.UserID, "Pick another player, continue, or finish.")
	}
}

func (s *Session) finish(c *Coordinator) {
	s.state = Done
	c.send(s.UserID, "Corrections are complete. Thank you!")
}
