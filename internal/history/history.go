package history

import "strings"

// Turn is one exchange: what the user said and what the assistant answered.
type Turn struct {
	User string `json:"user"`
	Bot  string `json:"bot"`
}

// Log is the ordered transcript for one user. A Log value is never mutated in
// place by this package; every operation returns a fresh slice.
type Log []Turn

// Append returns a copy of l with t added at the end.
func (l Log) Append(t Turn) Log {
	out := make(Log, len(l), len(l)+1)
	copy(out, l)
	return append(out, t)
}

// Begin starts a turn whose reply is not known yet.
func (l Log) Begin(userText string) PendingTurn {
	return PendingTurn{base: l, user: userText}
}

// Transcript renders l as alternating "User:" / "Bot:" lines. Turns without a
// reply render as a user line only.
func (l Log) Transcript() string {
	lines := make([]string, 0, len(l))
	for _, t := range l {
		if t.User != "" && t.Bot != "" {
			lines = append(lines, "User: "+t.User+"\nBot: "+t.Bot)
			continue
		}
		lines = append(lines, "User: "+t.User)
	}
	return strings.Join(lines, "\n")
}

// PendingTurn is a user message waiting for the assistant's reply. It carries
// the log it was started from, so completing it never depends on whatever is
// stored at that moment.
type PendingTurn struct {
	base Log
	user string
}

// User returns the pending user text.
func (p PendingTurn) User() string { return p.user }

// Transcript renders the base log followed by the pending user line.
func (p PendingTurn) Transcript() string {
	return p.base.Append(Turn{User: p.user}).Transcript()
}

// Complete returns the base log with the finished turn appended.
func (p PendingTurn) Complete(reply string) Log {
	return p.base.Append(Turn{User: p.user, Bot: reply})
}
