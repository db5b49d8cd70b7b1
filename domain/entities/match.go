package entities

import (
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// MatchStatus is the external match catalog's view of a fixture. Betting is
// open only while the status is upcoming.
type MatchStatus string

const (
	MatchStatusUpcoming  MatchStatus = "upcoming"
	MatchStatusLive      MatchStatus = "live"
	MatchStatusCompleted MatchStatus = "completed"
	MatchStatusCancelled MatchStatus = "cancelled"
)

// MatchInfo is the contract the engine needs from the match catalog.
type MatchInfo struct {
	ID        uuid.UUID
	HomeTeam  string
	AwayTeam  string
	KickoffAt time.Time
	Status    MatchStatus
}

// IsOpenForBetting reports whether new legs may reference the match.
func (m *MatchInfo) IsOpenForBetting() bool {
	return m.Status == MatchStatusUpcoming
}

// MatchOutcome is the final result used to grade legs. A cancelled match
// voids every leg referencing it regardless of selection.
type MatchOutcome struct {
	MatchID      uuid.UUID
	HomeGoals    int
	AwayGoals    int
	HalfTimeHome int
	HalfTimeAway int
	FirstScorer  string
	Cancelled    bool
}

// TotalGoals returns the full-time goal total.
func (o *MatchOutcome) TotalGoals() int {
	return o.HomeGoals + o.AwayGoals
}

// ResultToken returns the 1X2 token for the full-time result.
func (o *MatchOutcome) ResultToken() string {
	return resultToken(o.HomeGoals, o.AwayGoals)
}

// HalfTimeToken returns the 1X2 token for the half-time result.
func (o *MatchOutcome) HalfTimeToken() string {
	return resultToken(o.HalfTimeHome, o.HalfTimeAway)
}

// ScoreToken returns the final score in "home:away" form.
func (o *MatchOutcome) ScoreToken() string {
	return strconv.Itoa(o.HomeGoals) + ":" + strconv.Itoa(o.AwayGoals)
}

// BothTeamsScored reports whether both sides found the net.
func (o *MatchOutcome) BothTeamsScored() bool {
	return o.HomeGoals > 0 && o.AwayGoals > 0
}

// HandicapToken returns the 1X2 token after applying a goal handicap to the
// home side. A draw after the handicap grades neither side as a winner.
func (o *MatchOutcome) HandicapToken(line float64) string {
	adjusted := float64(o.HomeGoals) + line - float64(o.AwayGoals)
	switch {
	case adjusted > 0:
		return SelectionHome
	case adjusted < 0:
		return SelectionAway
	default:
		return SelectionDraw
	}
}

// NormalizeScoreToken canonicalizes user-entered correct-score selections
// ("2-1", "2:1", " 2 : 1 ") to "2:1".
func NormalizeScoreToken(s string) string {
	s = strings.ReplaceAll(strings.TrimSpace(s), "-", ":")
	parts := strings.SplitN(s, ":", 2)
	if len(parts) != 2 {
		return s
	}
	return strings.TrimSpace(parts[0]) + ":" + strings.TrimSpace(parts[1])
}

func resultToken(home, away int) string {
	switch {
	case home > away:
		return SelectionHome
	case home < away:
		return SelectionAway
	default:
		return SelectionDraw
	}
}
