package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"minute-empire-backend/internal/apierrors"
	"minute-empire-backend/internal/domain"
	"minute-empire-backend/internal/model"
	"minute-empire-backend/internal/orchestrator"
	"minute-empire-backend/internal/repository"
	"minute-empire-backend/internal/scheduler"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestHandlerDeps(t *testing.T) (repository.VillageRepository, *orchestrator.Orchestrator) {
	t.Helper()
	villages := repository.NewVillageRepository(nil)
	troops := repository.NewTroopRepository(nil)
	actions := repository.NewTroopActionRepository()
	users := repository.NewUserRepository()
	sched := scheduler.New()
	bounds := domain.NewBounds(15)
	orch := orchestrator.New(villages, troops, actions, users, sched, nil, bounds)

	require.NoError(t, villages.Add(context.Background(), model.Village{
		ID: "v1", OwnerID: "u1", Resources: model.Resources{Wood: 500, Stone: 500, Iron: 500, Food: 500},
		City: model.City{Constructions: []model.Construction{{Type: model.CityCenter, Level: 1, Slot: 1}}},
	}))
	return villages, orch
}

func TestVillageHandler_GetVillage_NotFound(t *testing.T) {
	villages, orch := newTestHandlerDeps(t)
	h := NewVillageHandler(villages, orch.Accrual, orch)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/api/v1/villages/missing", nil)
	c.Params = gin.Params{{Key: "id", Value: "missing"}}

	h.GetVillage(c)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestVillageHandler_GetVillage_Found(t *testing.T) {
	villages, orch := newTestHandlerDeps(t)
	h := NewVillageHandler(villages, orch.Accrual, orch)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/api/v1/villages/v1", nil)
	c.Params = gin.Params{{Key: "id", Value: "v1"}}

	h.GetVillage(c)
	assert.Equal(t, http.StatusOK, w.Code)

	var got model.Village
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, "v1", got.ID)
}

func TestVillageHandler_ListVillages_RequiresUserHeader(t *testing.T) {
	villages, orch := newTestHandlerDeps(t)
	h := NewVillageHandler(villages, orch.Accrual, orch)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/api/v1/villages", nil)

	h.ListVillages(c)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestVillageHandler_ListVillages_ReturnsOwnedOnly(t *testing.T) {
	villages, orch := newTestHandlerDeps(t)
	require.NoError(t, villages.Add(context.Background(), model.Village{ID: "v2", OwnerID: "someone-else"}))
	h := NewVillageHandler(villages, orch.Accrual, orch)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/api/v1/villages", nil)
	c.Request.Header.Set("X-User-ID", "u1")

	h.ListVillages(c)
	assert.Equal(t, http.StatusOK, w.Code)

	var got []model.Village
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	require.Len(t, got, 1)
	assert.Equal(t, "v1", got[0].ID)
}

func TestVillageHandler_SubmitCommand_MalformedBodyIsBadRequest(t *testing.T) {
	villages, orch := newTestHandlerDeps(t)
	h := NewVillageHandler(villages, orch.Accrual, orch)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/api/v1/villages/v1/commands", bytes.NewBufferString("not json"))
	c.Request.Header.Set("X-User-ID", "u1")
	c.Request.Header.Set("Content-Type", "application/json")
	c.Params = gin.Params{{Key: "id", Value: "v1"}}

	h.SubmitCommand(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestVillageHandler_SubmitCommand_ValidCommandReturns200WithResult(t *testing.T) {
	villages, orch := newTestHandlerDeps(t)
	h := NewVillageHandler(villages, orch.Accrual, orch)

	body, err := json.Marshal(CommandRequest{Command: "create wood field in 0"})
	require.NoError(t, err)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/api/v1/villages/v1/commands", bytes.NewReader(body))
	c.Request.Header.Set("X-User-ID", "u1")
	c.Request.Header.Set("Content-Type", "application/json")
	c.Params = gin.Params{{Key: "id", Value: "v1"}}

	h.SubmitCommand(c)
	assert.Equal(t, http.StatusOK, w.Code)

	var result apierrors.Result
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.True(t, result.Success, result.Message)
}
