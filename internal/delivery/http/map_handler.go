package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"minute-empire-backend/internal/domain"
	"minute-empire-backend/internal/model"
	"minute-empire-backend/internal/repository"
)

// MapSnapshot is the read-only world view a client renders: every village
// and every troop in the world, so the client can draw both static holdings
// and in-flight movement.
type MapSnapshot struct {
	Quadrant int             `json:"quadrant"`
	Villages []model.Village `json:"villages"`
	Troops   []model.Troop   `json:"troops"`
}

// MapHandler serves the world map snapshot spec.md §6 names but leaves
// unspecified, grounded on the teacher's ListCards aggregation style.
type MapHandler struct {
	villages repository.VillageRepository
	troops   repository.TroopRepository
	bounds   domain.Bounds
}

// NewMapHandler builds a MapHandler.
func NewMapHandler(villages repository.VillageRepository, troops repository.TroopRepository, bounds domain.Bounds) *MapHandler {
	return &MapHandler{villages: villages, troops: troops, bounds: bounds}
}

// GetMap handles GET /api/v1/map.
func (h *MapHandler) GetMap(c *gin.Context) {
	villages, err := h.villages.ListAll(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "failed to list villages"})
		return
	}
	troops, err := h.troops.ListAll(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "failed to list troops"})
		return
	}

	c.JSON(http.StatusOK, MapSnapshot{
		Quadrant: h.bounds.Quadrant,
		Villages: villages,
		Troops:   troops,
	})
}
