package server

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mealpulse/internal/database"
	"mealpulse/internal/nutrition"
	"mealpulse/internal/sources"
)

type stubDB struct{}

func (stubDB) Health() map[string]string { return map[string]string{"status": "up"} }
func (stubDB) Close()                    {}
func (stubDB) Queries() *database.Queries {
	return nil
}

func TestSystemHealthHandler(t *testing.T) {
	srv := &Server{db: stubDB{}}

	c, rec := newTestContext(t, http.MethodGet, "/debug/system", "", "10.0.1.1")
	require.NoError(t, srv.SystemHealthHandler(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Contains(t, resp, "status")
	assert.Contains(t, resp, "runtime")
	assert.Contains(t, resp, "database")
}

func TestSourceDebugHandlerRequiresQuery(t *testing.T) {
	srv := &Server{aggregator: &stubSearcher{}}

	c, rec := newTestContext(t, http.MethodGet, "/debug/sources", "", "10.0.1.2")
	require.NoError(t, srv.SourceDebugHandler(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSourceDebugHandlerReportsAdapters(t *testing.T) {
	srv := &Server{aggregator: &stubSearcher{
		records: []nutrition.FoodRecord{{Name: "カレー", Calories: 700}},
		reports: []sources.AdapterReport{{Adapter: "カロリーSlism", OK: true, Count: 1}},
	}}

	c, rec := newTestContext(t, http.MethodGet, "/debug/sources?q=カレー", "", "10.0.1.3")
	require.NoError(t, srv.SourceDebugHandler(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Records  []nutrition.FoodRecord  `json:"records"`
		Adapters []sources.AdapterReport `json:"adapters"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Records, 1)
	require.Len(t, resp.Adapters, 1)
	assert.True(t, resp.Adapters[0].OK)
}
