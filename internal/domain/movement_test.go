package domain

import (
	"testing"

	"minute-empire-backend/internal/model"

	"github.com/stretchr/testify/assert"
)

func TestMovementTimeMinutes_ManhattanDistance(t *testing.T) {
	cases := []struct {
		from, to model.Location
		want     int
	}{
		{model.Location{X: 0, Y: 0}, model.Location{X: 3, Y: 4}, 7},
		{model.Location{X: -2, Y: 5}, model.Location{X: 2, Y: -5}, 14},
		{model.Location{X: 0, Y: 0}, model.Location{X: 0, Y: 0}, 1},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, MovementTimeMinutes(c.from, c.to))
	}
}

func TestMovementTimeMinutes_FloorsAtOneMinute(t *testing.T) {
	assert.Equal(t, 1, MovementTimeMinutes(model.Location{X: 1, Y: 1}, model.Location{X: 1, Y: 1}))
}
