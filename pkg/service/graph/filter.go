package graph

import (
	"net/url"
	"strings"

	"github.com/secmon-lab/panoptes/pkg/domain/model"
)

// MaxFilterIDs is the maximum number of ids Graph accepts in a single
// presence subscription filter expression. A directory larger than this is
// truncated to the first MaxFilterIDs ids in enumeration order; the
// truncation is reported to the operator, not silently swallowed.
const MaxFilterIDs = 650

// TruncateIDs returns at most limit ids, preserving order. A non-positive
// limit means no bound.
func TruncateIDs(ids []model.UserID, limit int) []model.UserID {
	if limit <= 0 || len(ids) <= limit {
		return ids
	}
	return ids[:limit]
}

// BuildPresenceResource builds the subscription resource filter scoped to
// ids. Each id is percent-encoded for safe embedding in the expression.
func BuildPresenceResource(ids []model.UserID) string {
	quoted := make([]string, len(ids))
	for i, id := range ids {
		quoted[i] = "'" + url.QueryEscape(id.String()) + "'"
	}
	return model.PresenceResourcePrefix + "id in (" + strings.Join(quoted, ",") + ")"
}
