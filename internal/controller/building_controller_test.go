package controller

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"facade_backend/internal/model"
)

func TestCreateBuilding_AllocatesSlug(t *testing.T) {
	env := newTestEnv(t)

	first := env.createBuilding(t, map[string]interface{}{"name": "Melia Miami"})
	second := env.createBuilding(t, map[string]interface{}{"name": "Melia Miami"})
	third := env.createBuilding(t, map[string]interface{}{"name": "  MELIA -- miami!  "})

	assert.Equal(t, "melia-miami", first.Slug)
	assert.Equal(t, "melia-miami-1", second.Slug)
	assert.Equal(t, "melia-miami-2", third.Slug)
	assert.NotEqual(t, first.ID, second.ID)
	assert.Empty(t, first.FacadePoints)
	assert.Empty(t, first.Amenities)
}

func TestCreateBuilding_SymbolOnlyName(t *testing.T) {
	env := newTestEnv(t)

	b := env.createBuilding(t, map[string]interface{}{"name": "!!!"})
	assert.Equal(t, "building", b.Slug)
	assert.Equal(t, "!!!", b.Name)
}

func TestCreateBuilding_KeepsMedia(t *testing.T) {
	env := newTestEnv(t)

	b := env.createBuilding(t, map[string]interface{}{
		"name":      "Melia Miami",
		"mainImage": "https://cdn/main.jpg",
		"logo":      "https://cdn/logo.png",
	})
	require.NotNil(t, b.MainImage)
	assert.Equal(t, "https://cdn/main.jpg", *b.MainImage)
	assert.Equal(t, "https://cdn/logo.png", *b.Logo)
	assert.Nil(t, b.FacadeImage)
}

func TestCreateBuilding_NameRequired(t *testing.T) {
	env := newTestEnv(t)

	for _, body := range []interface{}{
		map[string]interface{}{},
		map[string]interface{}{"name": "   "},
		map[string]interface{}{"logo": "https://cdn/logo.png"},
	} {
		status, data := env.request(t, http.MethodPost, "/api/buildings", body, true)
		assert.Equal(t, http.StatusBadRequest, status)
		assert.Equal(t, "Name is required", decodeMap(t, data)["error"])
	}

	status, _ := env.request(t, http.MethodPost, "/api/buildings", "{not json", true)
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestMutationsRequireSession(t *testing.T) {
	env := newTestEnv(t)
	b := env.createBuilding(t, map[string]interface{}{"name": "Melia Miami"})

	cases := []struct {
		method string
		path   string
	}{
		{http.MethodPost, "/api/buildings"},
		{http.MethodPatch, "/api/buildings/" + b.ID},
		{http.MethodDelete, "/api/buildings/" + b.ID},
		{http.MethodPost, "/api/buildings/" + b.ID + "/facade-points"},
		{http.MethodPatch, "/api/buildings/" + b.ID + "/facade-points/p"},
		{http.MethodDelete, "/api/buildings/" + b.ID + "/facade-points/p"},
		{http.MethodPost, "/api/buildings/" + b.ID + "/amenities"},
		{http.MethodDelete, "/api/buildings/" + b.ID + "/amenities/a"},
		{http.MethodPost, "/api/media/sign"},
	}
	for _, tc := range cases {
		status, data := env.request(t, tc.method, tc.path, map[string]interface{}{"name": "x"}, false)
		assert.Equal(t, http.StatusUnauthorized, status, tc.method+" "+tc.path)
		assert.Equal(t, "Unauthorized", decodeMap(t, data)["error"])
	}

	status, _ := env.request(t, http.MethodGet, "/api/buildings", nil, false)
	assert.Equal(t, http.StatusOK, status)
	status, _ = env.request(t, http.MethodGet, "/api/buildings/"+b.ID, nil, false)
	assert.Equal(t, http.StatusOK, status)
}

func TestListBuildings_SummaryNewestFirst(t *testing.T) {
	env := newTestEnv(t)
	first := env.createBuilding(t, map[string]interface{}{"name": "First", "logo": "https://cdn/1.png"})
	second := env.createBuilding(t, map[string]interface{}{"name": "Second"})

	status, data := env.request(t, http.MethodGet, "/api/buildings", nil, false)
	require.Equal(t, http.StatusOK, status)

	var list []map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &list))
	require.Len(t, list, 2)
	assert.Equal(t, second.ID, list[0]["id"])
	assert.Equal(t, first.ID, list[1]["id"])
	assert.Equal(t, "https://cdn/1.png", list[1]["logo"])

	for _, item := range list {
		assert.ElementsMatch(t, []string{"id", "name", "slug", "mainImage", "logo", "createdAt"}, keys(item))
	}
}

func TestListBuildings_Empty(t *testing.T) {
	env := newTestEnv(t)

	status, data := env.request(t, http.MethodGet, "/api/buildings", nil, false)
	require.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, "[]", string(data))
}

func TestGetBuildingBySlug_NotFound(t *testing.T) {
	env := newTestEnv(t)
	env.createBuilding(t, map[string]interface{}{"name": "Melia Miami"})

	status, data := env.request(t, http.MethodGet, "/api/buildings?slug=unknown", nil, false)
	assert.Equal(t, http.StatusNotFound, status)

	body := decodeMap(t, data)
	assert.Equal(t, "Building not found", body["error"])
	assert.NotContains(t, body, "id")
	assert.NotContains(t, body, "facadePoints")
}

func TestGetBuildingByID(t *testing.T) {
	env := newTestEnv(t)
	b := env.createBuilding(t, map[string]interface{}{"name": "Melia Miami"})

	status, data := env.request(t, http.MethodGet, "/api/buildings/"+b.ID, nil, false)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "melia-miami", decodeMap(t, data)["slug"])

	status, _ = env.request(t, http.MethodGet, "/api/buildings/does-not-exist", nil, false)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestPatchBuilding_OnlyGivenFields(t *testing.T) {
	env := newTestEnv(t)
	b := env.createBuilding(t, map[string]interface{}{
		"name":      "Melia Miami",
		"mainImage": "https://cdn/main.jpg",
		"logo":      "https://cdn/logo.png",
	})

	status, data := env.request(t, http.MethodPatch, "/api/buildings/"+b.ID, map[string]interface{}{
		"phone":    "+1 305 555 0100",
		"latitude": 25.7617,
	}, true)
	require.Equal(t, http.StatusOK, status, string(data))

	status, data = env.request(t, http.MethodPatch, "/api/buildings/"+b.ID, map[string]interface{}{
		"address": "123 Main St",
	}, true)
	require.Equal(t, http.StatusOK, status, string(data))

	got := env.fetchBySlug(t, "melia-miami")
	require.NotNil(t, got.Address)
	assert.Equal(t, "123 Main St", *got.Address)
	assert.Equal(t, "Melia Miami", got.Name)
	assert.Equal(t, "https://cdn/main.jpg", *got.MainImage)
	assert.Equal(t, "https://cdn/logo.png", *got.Logo)
	assert.Equal(t, "+1 305 555 0100", *got.Phone)
	assert.Equal(t, 25.7617, *got.Latitude)
	assert.Nil(t, got.Longitude)
	assert.Nil(t, got.Website)
}

func TestPatchBuilding_WholeRecordEcho(t *testing.T) {
	env := newTestEnv(t)
	b := env.createBuilding(t, map[string]interface{}{"name": "Melia Miami", "logo": "https://cdn/logo.png"})

	echo := map[string]interface{}{
		"id":           "something-else",
		"name":         "Melia Miami Beach",
		"createdAt":    "2001-01-01T00:00:00Z",
		"facadePoints": []interface{}{map[string]interface{}{"name": "ignored"}},
		"amenities":    []interface{}{},
		"logo":         nil,
		"website":      "melia.example",
	}
	status, data := env.request(t, http.MethodPatch, "/api/buildings/"+b.ID, echo, true)
	require.Equal(t, http.StatusOK, status, string(data))

	var updated model.Building
	require.NoError(t, json.Unmarshal(data, &updated))
	assert.Equal(t, b.ID, updated.ID)
	assert.Equal(t, "Melia Miami Beach", updated.Name)
	assert.Equal(t, "melia-miami", updated.Slug)
	assert.Nil(t, updated.Logo)
	assert.Equal(t, "melia.example", *updated.Website)
	assert.Empty(t, updated.FacadePoints)
	assert.Equal(t, b.CreatedAt.Unix(), updated.CreatedAt.Unix())
}

func TestPatchBuilding_Errors(t *testing.T) {
	env := newTestEnv(t)
	b := env.createBuilding(t, map[string]interface{}{"name": "Melia Miami"})

	status, _ := env.request(t, http.MethodPatch, "/api/buildings/"+b.ID, map[string]interface{}{"latitude": "north"}, true)
	assert.Equal(t, http.StatusBadRequest, status)

	status, _ = env.request(t, http.MethodPatch, "/api/buildings/"+b.ID, map[string]interface{}{"phone": 12345}, true)
	assert.Equal(t, http.StatusBadRequest, status)

	status, _ = env.request(t, http.MethodPatch, "/api/buildings/"+b.ID, map[string]interface{}{"name": nil}, true)
	assert.Equal(t, http.StatusBadRequest, status)

	status, _ = env.request(t, http.MethodPatch, "/api/buildings/"+b.ID, map[string]interface{}{"slug": nil}, true)
	assert.Equal(t, http.StatusBadRequest, status)

	status, _ = env.request(t, http.MethodPatch, "/api/buildings/"+b.ID, map[string]interface{}{"latitude": "25.7"}, true)
	assert.Equal(t, http.StatusBadRequest, status)

	status, _ = env.request(t, http.MethodPatch, "/api/buildings/"+b.ID, "[1,2]", true)
	assert.Equal(t, http.StatusBadRequest, status)

	status, data := env.request(t, http.MethodPatch, "/api/buildings/missing", map[string]interface{}{"address": "x"}, true)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "Building not found", decodeMap(t, data)["error"])
}

func TestPatchBuilding_StoresStringsAsSent(t *testing.T) {
	env := newTestEnv(t)
	b := env.createBuilding(t, map[string]interface{}{"name": "Melia Miami"})

	status, data := env.request(t, http.MethodPatch, "/api/buildings/"+b.ID, map[string]interface{}{
		"name":    "",
		"address": "  1000 Brickell Ave  ",
	}, true)
	require.Equal(t, http.StatusOK, status, string(data))

	var updated model.Building
	require.NoError(t, json.Unmarshal(data, &updated))
	assert.Equal(t, "", updated.Name)
	assert.Equal(t, "melia-miami", updated.Slug)
	assert.Equal(t, "  1000 Brickell Ave  ", *updated.Address)
}

func TestPatchBuilding_RenameSlugInvalidatesBoth(t *testing.T) {
	env := newTestEnv(t)
	b := env.createBuilding(t, map[string]interface{}{"name": "Melia Miami"})

	env.fetchBySlug(t, "melia-miami")
	assert.Equal(t, 1, env.cache.Len())

	status, _ := env.request(t, http.MethodPatch, "/api/buildings/"+b.ID, map[string]interface{}{"slug": "melia"}, true)
	require.Equal(t, http.StatusOK, status)
	assert.Zero(t, env.cache.Len())

	status, _ = env.request(t, http.MethodGet, "/api/buildings?slug=melia-miami", nil, false)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, b.ID, env.fetchBySlug(t, "melia").ID)
}

func TestDeleteBuilding_Cascades(t *testing.T) {
	env := newTestEnv(t)
	b := env.createBuilding(t, map[string]interface{}{"name": "Melia Miami"})

	status, _ := env.request(t, http.MethodPost, "/api/buildings/"+b.ID+"/facade-points",
		map[string]interface{}{"name": "PH A", "x": 10, "y": 20}, true)
	require.Equal(t, http.StatusCreated, status)
	status, _ = env.request(t, http.MethodPost, "/api/buildings/"+b.ID+"/amenities",
		map[string]interface{}{"name": "Pool"}, true)
	require.Equal(t, http.StatusCreated, status)

	env.fetchBySlug(t, "melia-miami")

	status, data := env.request(t, http.MethodDelete, "/api/buildings/"+b.ID, nil, true)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, true, decodeMap(t, data)["success"])

	var points, amenities int64
	env.db.Model(&model.FacadePoint{}).Where("building_id = ?", b.ID).Count(&points)
	env.db.Model(&model.Amenity{}).Where("building_id = ?", b.ID).Count(&amenities)
	assert.Zero(t, points)
	assert.Zero(t, amenities)

	status, _ = env.request(t, http.MethodGet, "/api/buildings?slug=melia-miami", nil, false)
	assert.Equal(t, http.StatusNotFound, status)

	status, _ = env.request(t, http.MethodDelete, "/api/buildings/"+b.ID, nil, true)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestUnknownRoute(t *testing.T) {
	env := newTestEnv(t)

	status, data := env.request(t, http.MethodGet, "/api/nope", nil, false)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Contains(t, decodeMap(t, data), "error")

	status, _ = env.request(t, http.MethodGet, "/api/health", nil, false)
	assert.Equal(t, http.StatusOK, status)
}

func keys(m map[string]interface{}) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}
