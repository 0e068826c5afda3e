package query_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vespabridge/searchkit/condition"
	"github.com/vespabridge/searchkit/query"
)

func TestDegenerateForm(t *testing.T) {
	yql, err := query.New("u@x.com").Build()
	require.NoError(t, err)
	assert.Equal(t, "select * from sources * where true", yql)
}

func TestBasicSelectPrefix(t *testing.T) {
	yql, err := query.New("u@x.com").From("file", "user", "mail").Build()
	require.NoError(t, err)
	assert.True(t, len(yql) > 0)
	assert.Contains(t, yql, "select * from sources file, user, mail where true")
}

func TestExclusionAppendedAtOuterWhere(t *testing.T) {
	f, err := condition.NewField("title", condition.OpContains, "alpha")
	require.NoError(t, err)

	yql, err := query.New("u@x.com").
		From("file").
		Where(f).
		ExcludeDocIds("id1", "id2").
		Build()
	require.NoError(t, err)

	assert.Contains(t, yql, "and !(docId contains 'id1' or docId contains 'id2')")
}

func TestGroupSearchShape(t *testing.T) {
	yql, err := query.New("u@x.com").
		From(query.AllSources).
		Limit(0).
		GroupBy("all(group(app) each(group(entity) each(output(count()))))").
		Build()
	require.NoError(t, err)

	assert.Contains(t, yql, "limit 0")
	assert.Contains(t, yql, "| all(group(app) each(group(entity) each(output(count()))))")
}

func TestBuildProfile(t *testing.T) {
	profile, err := query.New("u@x.com").From("file").Limit(10).BuildProfile("nativeRank")
	require.NoError(t, err)
	assert.Equal(t, "nativeRank", profile.RankingProfile)
	assert.Contains(t, profile.YQL, "limit 10")
}

func TestWhereOrIgnoresEmptyChildren(t *testing.T) {
	empty, err := condition.NewInclusion("app", []string{""})
	require.NoError(t, err)
	f, err := condition.NewField("title", condition.OpContains, "alpha")
	require.NoError(t, err)

	yql, err := query.New("u@x.com").From("file").WhereOr(empty, f).Build()
	require.NoError(t, err)
	assert.Contains(t, yql, "where title contains 'alpha'")
}
