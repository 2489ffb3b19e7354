package graph_test

import (
	"fmt"
	"strings"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/panoptes/pkg/domain/model"
	"github.com/secmon-lab/panoptes/pkg/service/graph"
)

func TestBuildPresenceResource(t *testing.T) {
	t.Run("quotes and joins ids", func(t *testing.T) {
		resource := graph.BuildPresenceResource([]model.UserID{"id-1", "id-2"})
		gt.Value(t, resource).Equal("/communications/presences?$filter=id in ('id-1','id-2')")
	})

	t.Run("percent-encodes unsafe characters", func(t *testing.T) {
		resource := graph.BuildPresenceResource([]model.UserID{"id with space&more"})
		gt.Bool(t, strings.Contains(resource, " with")).False()
		gt.Bool(t, strings.Contains(resource, "&")).False()
	})

	t.Run("carries the removal-policy prefix", func(t *testing.T) {
		resource := graph.BuildPresenceResource(nil)
		gt.Bool(t, strings.HasPrefix(resource, model.PresenceResourcePrefix)).True()
	})
}

func TestTruncateIDs(t *testing.T) {
	ids := make([]model.UserID, graph.MaxFilterIDs+50)
	for i := range ids {
		ids[i] = model.UserID(fmt.Sprintf("id-%d", i))
	}

	t.Run("never exceeds the bound", func(t *testing.T) {
		truncated := graph.TruncateIDs(ids, graph.MaxFilterIDs)
		gt.Array(t, truncated).Length(graph.MaxFilterIDs)
		gt.Value(t, truncated[0]).Equal(ids[0])
		gt.Value(t, truncated[len(truncated)-1]).Equal(ids[graph.MaxFilterIDs-1])
	})

	t.Run("short input passes through", func(t *testing.T) {
		small := []model.UserID{"a", "b"}
		gt.Array(t, graph.TruncateIDs(small, graph.MaxFilterIDs)).Length(2)
	})

	t.Run("non-positive limit means no bound", func(t *testing.T) {
		gt.Array(t, graph.TruncateIDs(ids, 0)).Length(len(ids))
	})
}
