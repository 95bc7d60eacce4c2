package handler

import (
	"context"
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"super-heroes-api/internal/model"
	"super-heroes-api/internal/repository"
)

const (
	heroID = "1a2b3c4d-5e6f-4071-8293-a4b5c6d7e8f9"
	areaID = "f0e1d2c3-b4a5-4968-8776-655443322110"
)

type fakeSuperHeroStore struct {
	heroes    map[string]model.SuperHero
	createErr error
	updateErr error

	lastParams repository.SuperHeroParams
}

func newFakeSuperHeroStore(heroes ...model.SuperHero) *fakeSuperHeroStore {
	s := &fakeSuperHeroStore{heroes: map[string]model.SuperHero{}}
	for _, h := range heroes {
		s.heroes[h.ID] = h
	}
	return s
}

func (s *fakeSuperHeroStore) List(context.Context, int, int) ([]model.SuperHero, error) {
	out := make([]model.SuperHero, 0, len(s.heroes))
	for _, h := range s.heroes {
		out = append(out, h)
	}
	return out, nil
}

func (s *fakeSuperHeroStore) FindByID(_ context.Context, id string) (model.SuperHero, error) {
	h, ok := s.heroes[id]
	if !ok {
		return model.SuperHero{}, repository.ErrNotFound
	}
	return h, nil
}

func (s *fakeSuperHeroStore) Create(_ context.Context, p repository.SuperHeroParams) error {
	s.lastParams = p
	if s.createErr != nil {
		return s.createErr
	}
	s.heroes[p.ID] = model.SuperHero{
		ID:             p.ID,
		Name:           p.Name,
		Alias:          p.Alias,
		ProtectionArea: &model.ProtectionArea{ID: p.ProtectionAreaID},
		SuperPowerIDs:  p.SuperPowerIDs,
	}
	return nil
}

func (s *fakeSuperHeroStore) Update(_ context.Context, p repository.SuperHeroParams) error {
	s.lastParams = p
	return s.updateErr
}

func (s *fakeSuperHeroStore) Delete(_ context.Context, id string) error {
	if _, ok := s.heroes[id]; !ok {
		return repository.ErrNotFound
	}
	delete(s.heroes, id)
	return nil
}

func superHeroRouter(store *fakeSuperHeroStore, audit *fakeAudit) http.Handler {
	h := NewSuperHeroHandler(store, audit, "http://127.0.0.1:3000")
	r := chi.NewRouter()
	r.Get("/super-heroes", h.List)
	r.Get("/super-heroes/{id}", h.FindOne)
	r.Post("/super-heroes", h.Create)
	r.Put("/super-heroes/{id}", h.Update)
	r.Delete("/super-heroes/{id}", h.Delete)
	return r
}

func TestSuperHeroCreate(t *testing.T) {
	store := newFakeSuperHeroStore()
	audit := &fakeAudit{}
	r := superHeroRouter(store, audit)

	body := `{"name":"Batman","alias":"Bruce","protectionArea":"` + areaID + `","superPowers":["` + powerID + `"]}`
	rec := doRequest(t, r, "POST", "/super-heroes", body)

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Header().Get("Location"), "/super-heroes/")

	assert.Equal(t, "Batman", store.lastParams.Name)
	assert.Equal(t, areaID, store.lastParams.ProtectionAreaID)
	assert.Equal(t, []string{powerID}, store.lastParams.SuperPowerIDs)

	require.Len(t, audit.calls, 1)
	assert.Equal(t, model.EntitySuperHero, audit.calls[0].Entity)
	assert.Equal(t, model.ActionCreate, audit.calls[0].Action)
}

func TestSuperHeroCreateFieldMessages(t *testing.T) {
	r := superHeroRouter(newFakeSuperHeroStore(), &fakeAudit{})

	cases := []struct {
		body    string
		message string
	}{
		{`{"alias":"Bruce","protectionArea":"` + areaID + `"}`, "Name is required"},
		{`{"name":"Batman","protectionArea":"` + areaID + `"}`, "Alias is required"},
		{`{"name":"Batman","alias":"Bruce"}`, "Protection area is required"},
	}
	for _, tc := range cases {
		rec := doRequest(t, r, "POST", "/super-heroes", tc.body)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.JSONEq(t, `{"error":"`+tc.message+`"}`, rec.Body.String())
	}
}

func TestSuperHeroCreateMalformedReferences(t *testing.T) {
	r := superHeroRouter(newFakeSuperHeroStore(), &fakeAudit{})

	rec := doRequest(t, r, "POST", "/super-heroes",
		`{"name":"Batman","alias":"Bruce","protectionArea":"gotham"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error":"Invalid protection area id"}`, rec.Body.String())

	rec = doRequest(t, r, "POST", "/super-heroes",
		`{"name":"Batman","alias":"Bruce","protectionArea":"`+areaID+`","superPowers":["flight"]}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error":"Invalid super power id"}`, rec.Body.String())
}

func TestSuperHeroCreateUnknownReferences(t *testing.T) {
	store := newFakeSuperHeroStore()
	r := superHeroRouter(store, &fakeAudit{})
	body := `{"name":"Batman","alias":"Bruce","protectionArea":"` + areaID + `"}`

	store.createErr = repository.ErrUnknownProtectionArea
	rec := doRequest(t, r, "POST", "/super-heroes", body)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error":"Protection area does not exist"}`, rec.Body.String())

	store.createErr = repository.ErrUnknownSuperPower
	rec = doRequest(t, r, "POST", "/super-heroes", body)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error":"Super power does not exist"}`, rec.Body.String())

	store.createErr = repository.ErrDuplicateKey
	rec = doRequest(t, r, "POST", "/super-heroes", body)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.JSONEq(t, `{"error":"Duplicated super hero"}`, rec.Body.String())
}

func TestSuperHeroUpdateMergesIntoExisting(t *testing.T) {
	existing := model.SuperHero{
		ID:             heroID,
		Name:           "Batman",
		Alias:          "Bruce",
		ProtectionArea: &model.ProtectionArea{ID: areaID},
		SuperPowerIDs:  []string{powerID},
	}
	store := newFakeSuperHeroStore(existing)
	audit := &fakeAudit{}
	r := superHeroRouter(store, audit)

	rec := doRequest(t, r, "PUT", "/super-heroes/"+heroID, `{"alias":"Wayne"}`)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "Batman", store.lastParams.Name)
	assert.Equal(t, "Wayne", store.lastParams.Alias)
	assert.Equal(t, areaID, store.lastParams.ProtectionAreaID)
	assert.Equal(t, []string{powerID}, store.lastParams.SuperPowerIDs)

	require.Len(t, audit.calls, 1)
	assert.Equal(t, model.ActionUpdate, audit.calls[0].Action)
}

func TestSuperHeroUpdateNotFound(t *testing.T) {
	r := superHeroRouter(newFakeSuperHeroStore(), &fakeAudit{})

	rec := doRequest(t, r, "PUT", "/super-heroes/"+heroID, `{"alias":"Wayne"}`)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"error":"Super hero not found"}`, rec.Body.String())
}

func TestSuperHeroDelete(t *testing.T) {
	existing := model.SuperHero{ID: heroID, Name: "Batman", ProtectionArea: &model.ProtectionArea{ID: areaID}}
	store := newFakeSuperHeroStore(existing)
	audit := &fakeAudit{}
	r := superHeroRouter(store, audit)

	rec := doRequest(t, r, "DELETE", "/super-heroes/"+heroID, "")

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, store.heroes)
	require.Len(t, audit.calls, 1)
	assert.Equal(t, model.ActionDelete, audit.calls[0].Action)
}
