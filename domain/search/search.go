package search

import (
	"strconv"
	"strings"
)

const DefaultLimit = 20

// Query is a parsed channel search.
type Query struct {
	Terms    string // free text matched against message content
	SenderID string // optional author filter
	Limit    int
}

// Parse reads command line style arguments out of the raw input.
// Example: release notes --from U1 --limit 5
// Flags without a value are kept as plain terms.
func Parse(input string) Query {
	query := Query{Limit: DefaultLimit}

	parts := strings.Fields(input)
	var terms []string
	for i := 0; i < len(parts); i++ {
		part := parts[i]
		if strings.HasPrefix(part, "--") && i+1 < len(parts) {
			value := parts[i+1]
			switch strings.TrimPrefix(part, "--") {
			case "from":
				query.SenderID = value
				i++
				continue
			case "limit":
				if n, err := strconv.Atoi(value); err == nil && n > 0 {
					query.Limit = n
					i++
					continue
				}
			}
		}
		terms = append(terms, part)
	}

	query.Terms = strings.Join(terms, " ")
	return query
}

// Empty reports whether the query has nothing to match.
func (q Query) Empty() bool {
	return q.Terms == "" && q.SenderID == ""
}
