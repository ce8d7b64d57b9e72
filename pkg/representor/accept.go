package representor

import (
	"mime"
	"strconv"
	"strings"

	"github.com/goliatone/go-hypermedia/pkg/collection"
)

// HTMLMediaType is the media type the HTML branch renders under.
const HTMLMediaType = "text/html"

// ParseAccept picks the representation media type for an Accept header. It
// returns HTMLMediaType only when text/html outscores both application/json
// and the hypermedia media type; ties, wildcards and an absent header all
// resolve to collection.MediaType so API clients get the canonical document.
func ParseAccept(header string) string {
	clauses := parseAcceptClauses(header)
	if len(clauses) == 0 {
		return collection.MediaType
	}

	htmlQ := acceptScore(clauses, HTMLMediaType)
	jsonQ := acceptScore(clauses, "application/json")
	hypermediaQ := acceptScore(clauses, collection.MediaType)

	if htmlQ > jsonQ && htmlQ > hypermediaQ {
		return HTMLMediaType
	}
	return collection.MediaType
}

type acceptClause struct {
	mediaType string
	quality   float64
}

func parseAcceptClauses(header string) []acceptClause {
	header = strings.TrimSpace(header)
	if header == "" {
		return nil
	}

	parts := strings.Split(header, ",")
	clauses := make([]acceptClause, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		mediaType, params, err := mime.ParseMediaType(part)
		if err != nil {
			continue
		}
		quality := 1.0
		if raw, ok := params["q"]; ok {
			if parsed, err := strconv.ParseFloat(raw, 64); err == nil && parsed >= 0 && parsed <= 1 {
				quality = parsed
			}
		}
		clauses = append(clauses, acceptClause{mediaType: mediaType, quality: quality})
	}
	return clauses
}

// acceptScore returns the quality of the most specific clause matching
// target: exact type/subtype beats type/* beats */*. Unmatched targets score
// zero, as do q=0 clauses.
func acceptScore(clauses []acceptClause, target string) float64 {
	targetType, targetSub, ok := strings.Cut(target, "/")
	if !ok {
		return 0
	}

	bestSpecificity := -1
	best := 0.0
	for _, clause := range clauses {
		clauseType, clauseSub, ok := strings.Cut(clause.mediaType, "/")
		if !ok {
			continue
		}

		specificity := -1
		switch {
		case clauseType == targetType && clauseSub == targetSub:
			specificity = 2
		case clauseType == targetType && clauseSub == "*":
			specificity = 1
		case clauseType == "*" && clauseSub == "*":
			specificity = 0
		}
		if specificity < 0 {
			continue
		}

		if specificity > bestSpecificity || (specificity == bestSpecificity && clause.quality > best) {
			bestSpecificity = specificity
			best = clause.quality
		}
	}
	return best
}
