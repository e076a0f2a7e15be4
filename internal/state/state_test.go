package state_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/edgard/nutriplan/internal/state"
)

func TestProfile_SettersAndGetters(t *testing.T) {
	t.Parallel()
	p := state.New()

	p.SetID(7)
	p.SetName("João Silva")
	p.SetAge("30")
	p.SetHeight("175")
	p.SetWeight("70")
	p.SetGender("Masculino")
	p.SetActivityLevel("Alto")
	p.SetBodyFat("15")
	p.SetCalories("2500")
	p.SetMedicalHistory("Diabetes tipo 2")
	p.SetIntolerances("Lactose, Glúten")
	p.SetExcludedFoods("Amendoim, Frutos do mar")

	assert.Equal(t, int64(7), p.ID())
	assert.Equal(t, "João Silva", p.Name())
	assert.Equal(t, "30", p.Age())
	assert.Equal(t, "175", p.Height())
	assert.Equal(t, "70", p.Weight())
	assert.Equal(t, "Masculino", p.Gender())
	assert.Equal(t, "Alto", p.ActivityLevel())
	assert.Equal(t, "15", p.BodyFat())
	assert.Equal(t, "2500", p.Calories())
	assert.Equal(t, "Diabetes tipo 2", p.MedicalHistory())
	assert.Equal(t, "Lactose, Glúten", p.Intolerances())
	assert.Equal(t, "Amendoim, Frutos do mar", p.ExcludedFoods())
}

func TestProfile_SnapshotIsACopy(t *testing.T) {
	t.Parallel()
	p := state.New()
	p.SetName("Ana")

	snap := p.Snapshot()
	snap.Name = "changed"

	assert.Equal(t, "Ana", p.Name())
}

func TestProfile_ReplaceOverwritesEverything(t *testing.T) {
	t.Parallel()
	p := state.New()
	p.SetName("Ana")
	p.SetIntolerances("Lactose")

	p.Replace(state.Fields{ID: 2, Name: "Bia"})

	assert.Equal(t, state.Fields{ID: 2, Name: "Bia"}, p.Snapshot())
}

func TestProfile_ConcurrentAccess(t *testing.T) {
	t.Parallel()
	p := state.New()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			p.Replace(state.Fields{Name: "x", Age: "1"})
		}()
		go func() {
			defer wg.Done()
			_ = p.Snapshot()
			_ = p.Name()
		}()
	}
	wg.Wait()

	assert.Equal(t, "x", p.Name())
}
