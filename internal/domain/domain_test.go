package domain_test

import (
	"encoding/json"
	"testing"

	"gerrit-reviewstats/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVotes_Add(t *testing.T) {
	var v domain.Votes

	for _, score := range []int{-2, -1, -1, 1, 2, 2, 2} {
		assert.True(t, v.Add(score))
	}
	assert.False(t, v.Add(0))
	assert.False(t, v.Add(3))

	assert.Equal(t, domain.Votes{MinusTwo: 1, MinusOne: 2, PlusOne: 1, PlusTwo: 3}, v)
	assert.Equal(t, 4, v.Plus())
	assert.Equal(t, 3, v.Minus())
}

func TestReviewerStats_Merge(t *testing.T) {
	stats := domain.ReviewerStats{
		"alice": {Total: 5, Votes: domain.Votes{PlusOne: 5}, Disagreements: 1},
	}
	other := domain.ReviewerStats{
		"alice": {Total: 7, Votes: domain.Votes{PlusTwo: 3, MinusOne: 4}, Disagreements: 2},
		"bob":   {Total: 1, Votes: domain.Votes{MinusTwo: 1}},
	}

	stats.Merge(other)

	assert.Equal(t, &domain.ReviewerStat{
		Total:         12,
		Votes:         domain.Votes{PlusOne: 5, PlusTwo: 3, MinusOne: 4},
		Disagreements: 3,
	}, stats["alice"])
	assert.Equal(t, 1, stats["bob"].Total)

	// Merge не должен разделять записи с other
	stats["bob"].Total++
	assert.Equal(t, 1, other["bob"].Total)
}

func TestReviewerStats_Reviewer(t *testing.T) {
	stats := make(domain.ReviewerStats)

	first := stats.Reviewer("alice")
	first.Total++

	assert.Same(t, first, stats.Reviewer("alice"))
	assert.Equal(t, 1, stats["alice"].Total)
}

func TestProject_UnmarshalJSON(t *testing.T) {
	data := `{
		"name": "nova",
		"subprojects": ["openstack/nova", "openstack/python-novaclient"],
		"core-team": ["russellb", "vishy", "russellb"],
		"unofficial": true
	}`

	var p domain.Project
	require.NoError(t, json.Unmarshal([]byte(data), &p))

	assert.Equal(t, "nova", p.Name)
	assert.Equal(t, []string{"openstack/nova", "openstack/python-novaclient"}, p.Subprojects)
	assert.True(t, p.IsCoreMember("vishy"))
	assert.False(t, p.IsCoreMember("alice"))
	assert.Equal(t, []string{"russellb", "vishy"}, p.CoreTeam.Values())
	assert.True(t, p.Unofficial)

	out, err := json.Marshal(p.CoreTeam)
	require.NoError(t, err)
	assert.JSONEq(t, `["russellb","vishy"]`, string(out))
}

func TestSet_UnmarshalJSON_RejectsNonArray(t *testing.T) {
	var p domain.Project
	err := json.Unmarshal([]byte(`{"name": "nova", "core-team": "vishy"}`), &p)
	assert.Error(t, err)
}

func TestApproval_Reviewer(t *testing.T) {
	testCases := []struct {
		name     string
		by       *domain.Account
		expected string
	}{
		{"No account", nil, domain.UnknownReviewer},
		{"Empty username", &domain.Account{Name: "Jenkins"}, domain.UnknownReviewer},
		{"Username", &domain.Account{Username: "alice"}, "alice"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			a := domain.Approval{By: tc.by}
			assert.Equal(t, tc.expected, a.Reviewer())
		})
	}
}

func TestApproval_UnmarshalGerritRow(t *testing.T) {
	data := `{"type":"CRVW","description":"Code Review","value":"-2","grantedOn":1380000000,
		"by":{"name":"Alice","email":"alice@example.com","username":"alice"}}`

	var a domain.Approval
	require.NoError(t, json.Unmarshal([]byte(data), &a))

	score, err := a.Score()
	require.NoError(t, err)
	assert.Equal(t, -2, score)
	assert.True(t, a.IsCodeReview())
	assert.Equal(t, int64(1380000000), a.GrantedOn)
	assert.Equal(t, "alice", a.Reviewer())
}

func TestFetchOptions_FullHistory(t *testing.T) {
	assert.True(t, domain.FetchOptions{}.FullHistory())
	assert.False(t, domain.FetchOptions{OnlyOpen: true}.FullHistory())
	assert.False(t, domain.FetchOptions{Stable: "havana"}.FullHistory())
}

func TestToHTTPError(t *testing.T) {
	httpErr, ok := domain.ToHTTPError(domain.ErrNoProjects)
	assert.True(t, ok)
	assert.Equal(t, "NOT_FOUND", httpErr.Code)

	_, ok = domain.ToHTTPError(assert.AnError)
	assert.False(t, ok)
}
