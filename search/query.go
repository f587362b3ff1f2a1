// Package search provides a local, advisory full-text index over loaded
// messages. It is never consulted for conversation state; the backend stays
// authoritative.
package search

import (
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// Query holds the structured parameters of a /find command. It decouples the
// raw shell input from the index engine.
type Query struct {
	RawInput       string
	Terms          string
	ConversationID uuid.UUID // uuid.Nil searches across all conversations
	Limit          int
}

// ParseQuery extracts flag-style arguments from a raw input line.
// Example: /find project deadline --conv 4f1f... --limit 5
func ParseQuery(input string) Query {
	query := Query{RawInput: input, Limit: 10}

	parts := strings.Fields(input)
	var terms []string

	for i := 0; i < len(parts); i++ {
		part := parts[i]

		if strings.HasPrefix(part, "--") && i+1 < len(parts) {
			value := parts[i+1]
			switch strings.TrimPrefix(part, "--") {
			case "conv":
				if id, err := uuid.Parse(value); err == nil {
					query.ConversationID = id
				}
			case "limit":
				if n, err := strconv.Atoi(value); err == nil && n > 0 {
					query.Limit = n
				}
			}
			i++
			continue
		}

		if !strings.HasPrefix(part, "/") {
			terms = append(terms, part)
		}
	}

	query.Terms = strings.Join(terms, " ")
	return query
}
