package api_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"gerrit-reviewstats/api"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingServer struct {
	params *api.GetStatsReviewersParams
}

func (s *recordingServer) GetHealth(c echo.Context) error {
	return c.NoContent(http.StatusNoContent)
}

func (s *recordingServer) GetStatsReviewers(c echo.Context, params api.GetStatsReviewersParams) error {
	s.params = &params
	return c.NoContent(http.StatusOK)
}

func serve(t *testing.T, target string) (*httptest.ResponseRecorder, *recordingServer) {
	t.Helper()
	e := echo.New()
	srv := &recordingServer{}
	api.RegisterHandlers(e, srv)

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec, srv
}

func TestGetStatsReviewers_Binding(t *testing.T) {
	rec, srv := serve(t, "/stats/reviewers?project=nova&all=false&days=30&only_open=true&stable=havana&format=text")

	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, srv.params)
	assert.Equal(t, "nova", *srv.params.Project)
	assert.False(t, *srv.params.All)
	assert.Equal(t, 30, *srv.params.Days)
	assert.True(t, *srv.params.OnlyOpen)
	assert.Equal(t, "havana", *srv.params.Stable)
	assert.Equal(t, api.FormatText, *srv.params.Format)
}

func TestGetStatsReviewers_OptionalParams(t *testing.T) {
	rec, srv := serve(t, "/stats/reviewers")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Nil(t, srv.params.Project)
	assert.Nil(t, srv.params.Days)
	assert.Nil(t, srv.params.Format)
}

func TestGetStatsReviewers_InvalidParams(t *testing.T) {
	for _, query := range []string{"days=soon", "all=maybe", "only_open=2x"} {
		rec, srv := serve(t, "/stats/reviewers?"+query)

		assert.Equal(t, http.StatusBadRequest, rec.Code, query)
		assert.Nil(t, srv.params, query)
	}
}

func TestGetHealth(t *testing.T) {
	rec, _ := serve(t, "/health")
	assert.Equal(t, http.StatusNoContent, rec.Code)
}
