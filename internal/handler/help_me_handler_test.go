package handler

import (
	"context"
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"super-heroes-api/internal/model"
)

type fakeNearbyFinder struct {
	heroes []model.SuperHero

	lat, lng, radius float64
	limit            int
}

func (f *fakeNearbyFinder) FindNearby(_ context.Context, latitude float64, longitude float64, radiusMeters float64, limit int) ([]model.SuperHero, error) {
	f.lat, f.lng, f.radius, f.limit = latitude, longitude, radiusMeters, limit
	return f.heroes, nil
}

func helpMeRouter(finder *fakeNearbyFinder) http.Handler {
	r := chi.NewRouter()
	r.Get("/help-me", NewHelpMeHandler(finder).HelpMe)
	return r
}

func TestHelpMeQueriesFixedWindow(t *testing.T) {
	finder := &fakeNearbyFinder{heroes: []model.SuperHero{}}
	r := helpMeRouter(finder)

	rec := doRequest(t, r, "GET", "/help-me?latitude=12.34&longitude=-56.78", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())

	assert.Equal(t, 12.34, finder.lat)
	assert.Equal(t, -56.78, finder.lng)
	assert.Equal(t, float64(10000), finder.radius)
	assert.Equal(t, 8, finder.limit)
}

func TestHelpMeMissingCoordinates(t *testing.T) {
	r := helpMeRouter(&fakeNearbyFinder{})

	rec := doRequest(t, r, "GET", "/help-me", "")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"errors":[
		{"param":"latitude","msg":"Latitude is required"},
		{"param":"longitude","msg":"Longitude is required"}
	]}`, rec.Body.String())
}

func TestHelpMeNonNumericCoordinate(t *testing.T) {
	r := helpMeRouter(&fakeNearbyFinder{})

	rec := doRequest(t, r, "GET", "/help-me?latitude=north&longitude=1.5", "")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"errors":[
		{"param":"latitude","msg":"Latitude must be a Float value"}
	]}`, rec.Body.String())
}

func TestHelpMeReturnsHeroes(t *testing.T) {
	area := &model.ProtectionArea{ID: missingID, Name: "Gotham", Latitude: 12.343, Longitude: 35.978, Radius: 5}
	finder := &fakeNearbyFinder{heroes: []model.SuperHero{
		{ID: powerID, Name: "Batman", Alias: "Bruce", ProtectionArea: area, SuperPowerIDs: []string{}},
	}}
	r := helpMeRouter(finder)

	rec := doRequest(t, r, "GET", "/help-me?latitude=12.34&longitude=35.97", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"name":"Batman"`)
	assert.Contains(t, rec.Body.String(), `"protectionArea"`)
}
