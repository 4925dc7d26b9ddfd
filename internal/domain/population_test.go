package domain

import (
	"testing"

	"minute-empire-backend/internal/model"

	"github.com/stretchr/testify/assert"
)

func TestTotalPopulation_SumsBuildingsFieldsAndPendingUpgrades(t *testing.T) {
	v := &model.Village{
		City: model.City{
			Wall:          model.Construction{Level: 2},
			Constructions: []model.Construction{{Level: 3}, {Level: 1}},
		},
		ResourceFields: []model.ResourceField{{Level: 4}},
		ConstructionTasks: []model.ConstructionTask{
			{TaskType: model.UpgradeField, Level: 5},
			// excluded: destroy never adds
			{TaskType: model.DestroyBuilding, Level: 9},
			// excluded: already applied
			{TaskType: model.UpgradeField, Level: 8, Processed: true},
		},
	}

	assert.Equal(t, 2+3+1+4+5, TotalPopulation(v))
}

func TestSparePopulation_SubtractsWorkingFromTotal(t *testing.T) {
	v := &model.Village{
		City: model.City{Constructions: []model.Construction{{Level: 10}}},
		ConstructionTasks: []model.ConstructionTask{
			{TaskType: model.CreateField, Level: 1},
		},
		TroopTrainingTasks: []model.TroopTrainingTask{
			{Quantity: 3},
		},
	}

	assert.Equal(t, 10, TotalPopulation(v))
	assert.Equal(t, 1+3, WorkingPopulation(v))
	assert.Equal(t, 10-4, SparePopulation(v))
}

func TestRequiredPopulation_ByKind(t *testing.T) {
	assert.Equal(t, 1, RequiredPopulation("create", 0, 0))
	assert.Equal(t, 9, RequiredPopulation("upgrade", 3, 0))
	assert.Equal(t, 5, RequiredPopulation("train", 0, 5))
	assert.Equal(t, 0, RequiredPopulation("unknown", 3, 5))
}
