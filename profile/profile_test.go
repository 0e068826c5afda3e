package profile_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vespabridge/searchkit/profile"
)

func hybrid() profile.HybridParams {
	return profile.HybridParams{
		QueryRef:     "query",
		EmbeddingRef: "e",
		VectorField:  "chunk_embeddings",
		TargetHits:   100,
	}
}

func TestDefaultHybridWithoutTimeRange(t *testing.T) {
	expr, err := profile.DefaultHybrid(hybrid(), nil)
	require.NoError(t, err)
	rendered := expr.Render()
	assert.Contains(t, rendered, "userInput(@query)")
	assert.Contains(t, rendered, "nearestNeighbor(chunk_embeddings, e)")
	assert.NotContains(t, rendered, "updatedAt")
}

func TestDefaultHybridUnionsAllTimeFields(t *testing.T) {
	from := int64(100)
	expr, err := profile.DefaultHybrid(hybrid(), &profile.TimeRange{From: &from})
	require.NoError(t, err)
	rendered := expr.Render()
	for _, field := range profile.DefaultTimeFields {
		assert.Contains(t, rendered, field+" >= 100")
	}
}

func TestGmailExcludedLabels(t *testing.T) {
	expr, err := profile.Gmail(hybrid(), nil, []string{"SPAM", "TRASH"}, nil)
	require.NoError(t, err)
	assert.Contains(t, expr.Render(), "!(labels contains 'SPAM' or labels contains 'TRASH')")
}

func TestGmailNameOnlyIntentIsNoOp(t *testing.T) {
	intent := profile.Intent{From: []string{"alice"}}
	expr, err := profile.BuildIntentFilter(intent)
	require.NoError(t, err)
	assert.Nil(t, expr)

	full, err := profile.Gmail(hybrid(), nil, nil, &intent)
	require.NoError(t, err)
	assert.NotContains(t, full.Render(), "from contains")
}

func TestIntentFilterWithEmailSignal(t *testing.T) {
	intent := profile.Intent{To: []string{"a@example.com", "b@example.com"}}
	expr, err := profile.BuildIntentFilter(intent)
	require.NoError(t, err)
	require.NotNil(t, expr)
	assert.Equal(t, "(to contains 'a@example.com' or to contains 'b@example.com')", expr.Render())
}

func TestDrivePermissionBypassOnDocIDs(t *testing.T) {
	expr, err := profile.Drive(hybrid(), nil, []string{"f1", "f2"})
	require.NoError(t, err)
	rendered := expr.Render()
	assert.Contains(t, rendered, "docId contains 'f1' or docId contains 'f2'")
	assert.NotContains(t, rendered, "permissions contains")
}

func TestCalendarUsesStartTime(t *testing.T) {
	from := int64(5)
	expr, err := profile.Calendar(hybrid(), &profile.TimeRange{From: &from})
	require.NoError(t, err)
	assert.Contains(t, expr.Render(), "startTime >= 5")
}

func TestSlackChannelScoped(t *testing.T) {
	expr, err := profile.Slack(hybrid(), nil, []string{"C1"})
	require.NoError(t, err)
	assert.Contains(t, expr.Render(), "channelId contains 'C1'")
}

func TestKnowledgeBaseCombinesIDSets(t *testing.T) {
	expr, err := profile.KnowledgeBase(hybrid(), []string{"col1"}, nil, []string{"doc1"})
	require.NoError(t, err)
	rendered := expr.Render()
	assert.Contains(t, rendered, "clId contains 'col1'")
	assert.Contains(t, rendered, "docId contains 'doc1'")
	assert.NotContains(t, rendered, "permissions contains")
}

func TestDataSourceScoping(t *testing.T) {
	expr, err := profile.DataSource(hybrid(), []string{"ds1"})
	require.NoError(t, err)
	assert.Contains(t, expr.Render(), "dataSourceId contains 'ds1'")
}

func TestWorkspaceDefaultsToGoogleWorkspaceApp(t *testing.T) {
	expr, err := profile.Workspace("u@x.com", hybrid(), nil, nil, nil)
	require.NoError(t, err)
	rendered := expr.Render()
	assert.Contains(t, rendered, "app contains 'GoogleWorkspace'")
	assert.Contains(t, rendered, "permissions contains 'u@x.com'")
	assert.Contains(t, rendered, "owner contains 'u@x.com'")
}

func TestWorkspaceExplicitAppSkipsDefaultAppFilter(t *testing.T) {
	expr, err := profile.Workspace("u@x.com", hybrid(), nil, []string{"Slack"}, nil)
	require.NoError(t, err)
	rendered := expr.Render()
	assert.Contains(t, rendered, "app contains 'Slack'")
	assert.NotContains(t, rendered, "GoogleWorkspace")
}
