// Package session drives the human-in-the-loop correction dialogue that runs
// between stat extraction and the database commit. Each pipeline run opens
// one session with the submitting user; the pipeline suspends until the user
// signals completion or the inactivity deadline passes.
package session

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"pckstats/pkg/roster"
	"pckstats/pkg/scoreboard"
)

// DefaultTimeout is the inactivity window before a session aborts its run.
const DefaultTimeout = 5 * time.Minute

var (
	// ErrTimeout reports that the user never finished the dialogue. The run
	// is aborted and nothing is committed.
	ErrTimeout = errors.New("correction session timed out")
	// ErrUnknownSession reports an event for a session that is not open.
	ErrUnknownSession = errors.New("unknown session")
)

// Messenger delivers prompts to the submitting user over the private channel
// of whatever front-end is attached.
type Messenger interface {
	Send(userID, text string) error
}

// LogMessenger is the fallback Messenger when no front-end is wired up.
type LogMessenger struct{}

func (LogMessenger) Send(userID, text string) error {
	log.Printf("[dm -> %s] %s", userID, text)
	return nil
}

// State is the dialogue position within one session.
type State int

const (
	AwaitingPlayerSelection State = iota
	AwaitingFieldSelection
	AwaitingNewValue
	ReviewApplied
	Done
)

func (s State) String() string {
	switch s {
	case AwaitingPlayerSelection:
		return "awaiting-player-selection"
	case AwaitingFieldSelection:
		return "awaiting-field-selection"
	case AwaitingNewValue:
		return "awaiting-new-value"
	case ReviewApplied:
		return "review-applied"
	case Done:
		return "done"
	}
	return "unknown"
}

// Field names the correctable attributes of a stat row.
type Field string

const (
	FieldName    Field = "Name"
	FieldKills   Field = "Kills"
	FieldDeaths  Field = "Deaths"
	FieldAssists Field = "Assists"
)

// ParseField maps user input to a Field, case-insensitively.
func ParseField(s string) (Field, bool) {
	for _, f := range []Field{FieldName, FieldKills, FieldDeaths, FieldAssists} {
		if strings.EqualFold(string(f), s) {
			return f, true
		}
	}
	return "", false
}

// EventKind discriminates the typed inputs a session accepts.
type EventKind int

const (
	PickPlayer EventKind = iota
	PickField
	SubmitValue
	Continue
	Finish
)

// Event is one typed user input routed into a session.
type Event struct {
	Kind  EventKind
	Value string
}

// ParseEventKind maps the wire name of an event kind, as sent by the bot
// front-end, to its EventKind.
func ParseEventKind(s string) (EventKind, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "pick_player":
		return PickPlayer, true
	case "pick_field":
		return PickField, true
	case "submit_value":
		return SubmitValue, true
	case "continue":
		return Continue, true
	case "finish":
		return Finish, true
	}
	return 0, false
}

// Session is one correction dialogue. All mutation happens on the goroutine
// running Wait; Submit only enqueues.
type Session struct {
	ID     string
	UserID string

	team1, team2 scoreboard.Board
	state        State
	player       string
	board        scoreboard.Board // board holding the selected player
	field        Field

	events chan Event
}

// Coordinator tracks open sessions. Sessions are keyed by id so concurrent
// pipeline runs cannot interfere with each other's completion.
type Coordinator struct {
	Messenger Messenger
	Timeout   time.Duration

	mu       sync.Mutex
	sessions map[string]*Session
}

func NewCoordinator(m Messenger) *Coordinator {
	return &Coordinator{
		Messenger: m,
		Timeout:   DefaultTimeout,
		sessions:  make(map[string]*Session),
	}
}

// Open registers a session for the submitting user and sends the opening
// review prompt, including any name ambiguities the resolver escalated.
func (c *Coordinator) Open(userID string, team1, team2 scoreboard.Board, ambiguities []roster.Ambiguity) *Session {
	s := &Session{
		ID:     newSessionID(),
		UserID: userID,
		team1:  team1,
		team2:  team2,
		state:  AwaitingPlayerSelection,
		events: make(chan Event, 16),
	}
	c.mu.Lock()
	c.sessions[s.ID] = s
	c.mu.Unlock()

	// the id leads the prompt so the front-end knows where to send replies
	intro := fmt.Sprintf("Correction session %s opened. Please review the stats and make corrections as needed.\n", s.ID) +
		"Team 1:\n" + team1.Format() + "Team 2:\n" + team2.Format()
	c.send(userID, intro)
	for _, amb := range ambiguities {
		c.send(userID, fmt.Sprintf("Extracted name %q is close to %q (score %d). Pick the player and correct the Name field if needed.",
			amb.Extracted, amb.Candidate, amb.Score))
	}
	c.send(userID, "Pick a player to correct, or finish to accept the stats as shown.")
	return s
}

// Submit routes a user input event into an open session. It never blocks the
// front-end: a full inbox is reported as an error instead.
func (c *Coordinator) Submit(sessionID string, ev Event) error {
	c.mu.Lock()
	s, ok := c.sessions[sessionID]
	c.mu.Unlock()
	if !ok {
		return ErrUnknownSession
	}
	select {
	case s.events <- ev:
		return nil
	default:
		return fmt.Errorf("session %s: input queue full", sessionID)
	}
}

// Wait blocks until the session finishes, the inactivity deadline passes, or
// ctx is cancelled. On success it returns the finalized boards; on timeout or
// cancellation the boards are discarded and must not be committed.
func (c *Coordinator) Wait(ctx context.Context, s *Session) (scoreboard.Board, scoreboard.Board, error) {
	defer c.close(s.ID)

	timer := time.NewTimer(c.Timeout)
	defer timer.Stop()
	for {
		select {
		case ev := <-s.events:
			s.apply(c, ev)
			if s.state == Done {
				return s.team1, s.team2, nil
			}
			if !timer.Stop() {
				<-timer.C
			}
			timer.Reset(c.Timeout)
		case <-timer.C:
			c.send(s.UserID, "No response in time; this submission was discarded. Request a new access code to try again.")
			return nil, nil, ErrTimeout
		case <-ctx.Done():
			return nil, nil, ctx.Err()
		}
	}
}

func (c *Coordinator) close(id string) {
	c.mu.Lock()
	delete(c.sessions, id)
	c.mu.Unlock()
}

func (c *Coordinator) send(userID, text string) {
	if err := c.Messenger.Send(userID, text); err != nil {
		log.Printf("session message to %s failed: %v", userID, err)
	}
}

func newSessionID() string {
	b := make([]byte, 8)
	if _, err := rand.Read(b); err != nil {
		return fmt.Sprintf("s%d", time.Now().UnixNano())
	}
	return hex.EncodeToString(b)
}
