package db

import "strings"

// LikeEscape is the escape character paired with ContainsPattern. '!' avoids
// backslash, which MySQL string literals treat specially.
const LikeEscape = "!"

var likeEscaper = strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")

// ContainsPattern turns free text into a LIKE pattern matching it anywhere.
// Wildcards in term match literally; use it with "LIKE ? ESCAPE '!'".
func ContainsPattern(term string) string {
	return "%" + likeEscaper.Replace(term) + "%"
}
