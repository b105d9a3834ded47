package domain

// MaxSessionTurns is the number of turns a session keeps.
const MaxSessionTurns = 10

// Role identifies who authored a turn.
type Role string

// Conversation roles.
const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// IsValid returns true if the role is recognised.
func (r Role) IsValid() bool {
	return r == RoleUser || r == RoleAssistant
}

// Turn is one message in a session, ordered by insertion.
type Turn struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// TrimTurns enforces the session cap on turns.
// Once the history exceeds MaxSessionTurns the two oldest turns are
// dropped together so user/assistant pairs stay aligned.
func TrimTurns(turns []Turn) []Turn {
	for len(turns) > MaxSessionTurns {
		turns = turns[2:]
	}
	return turns
}
