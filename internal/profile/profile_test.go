package profile_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edgard/nutriplan/internal/fields"
	"github.com/edgard/nutriplan/internal/profile"
	"github.com/edgard/nutriplan/internal/state"
)

type recordingSaver struct {
	calls int
	seen  []state.Fields
	st    *state.Profile
}

func (s *recordingSaver) Upsert(_ context.Context) {
	s.calls++
	s.seen = append(s.seen, s.st.Snapshot())
}

func newBuilder(t *testing.T) (*profile.Builder, *state.Profile, *recordingSaver) {
	t.Helper()
	st := state.New()
	saver := &recordingSaver{st: st}
	return profile.NewBuilder(st, saver), st, saver
}

func validBuilder(t *testing.T) (*profile.Builder, *state.Profile, *recordingSaver) {
	t.Helper()
	b, st, saver := newBuilder(t)
	b.WithName("João").WithAge("30").WithHeight("175").WithWeight("70").WithGender("Masculino")
	return b, st, saver
}

func TestBuilder_ValidScenario(t *testing.T) {
	t.Parallel()
	b, _, _ := validBuilder(t)

	res := b.Validate()

	assert.True(t, res.IsValid)
	assert.Empty(t, res.Errors)
}

func TestBuilder_ValidateEmpty(t *testing.T) {
	t.Parallel()
	b, _, _ := newBuilder(t)

	res := b.Validate()

	assert.False(t, res.IsValid)
	assert.Equal(t, []string{
		profile.MsgNameRequired,
		profile.MsgAgeInvalid,
		profile.MsgHeightInvalid,
		profile.MsgWeightInvalid,
		profile.MsgGenderRequired,
	}, res.Errors)
}

func TestBuilder_ValidateWhitespaceName(t *testing.T) {
	t.Parallel()
	b, _, _ := validBuilder(t)
	b.WithName("   ")

	res := b.Validate()

	assert.Equal(t, []string{profile.MsgNameRequired}, res.Errors)
}

func TestBuilder_ValidateZeroAge(t *testing.T) {
	t.Parallel()
	b, _, _ := validBuilder(t)
	b.WithAge(0)

	assert.Equal(t, "0", b.GetData().Age)
	assert.Equal(t, []string{profile.MsgAgeInvalid}, b.Validate().Errors)
}

func TestBuilder_Setters(t *testing.T) {
	t.Parallel()

	t.Run("out of range age is dropped", func(t *testing.T) {
		t.Parallel()
		b, _, _ := newBuilder(t)
		assert.Equal(t, "", b.WithAge("200").GetData().Age)
	})

	t.Run("numeric age is coerced", func(t *testing.T) {
		t.Parallel()
		b, _, _ := newBuilder(t)
		assert.Equal(t, "25", b.WithAge(25).GetData().Age)
	})

	t.Run("height and weight bounds", func(t *testing.T) {
		t.Parallel()
		b, _, _ := newBuilder(t)
		d := b.WithHeight(30).WithWeight(600).GetData()
		assert.Empty(t, d.Height)
		assert.Empty(t, d.Weight)

		d = b.WithHeight(172.5).WithWeight("68.2").GetData()
		assert.Equal(t, "172.5", d.Height)
		assert.Equal(t, "68.2", d.Weight)
	})

	t.Run("unknown gender is dropped", func(t *testing.T) {
		t.Parallel()
		b, _, _ := newBuilder(t)
		assert.Empty(t, b.WithGender("Outro").GetData().Gender)
		assert.Equal(t, "Feminino", b.WithGender("Feminino").GetData().Gender)
	})

	t.Run("free numeric fields", func(t *testing.T) {
		t.Parallel()
		b, _, _ := newBuilder(t)
		d := b.WithBodyFat(15).WithCalories("2500").GetData()
		assert.Equal(t, "15", d.BodyFat)
		assert.Equal(t, "2500", d.Calories)

		d = b.WithBodyFat(0).WithCalories(nil).GetData()
		assert.Empty(t, d.BodyFat)
		assert.Empty(t, d.Calories)
	})

	t.Run("free text fields", func(t *testing.T) {
		t.Parallel()
		b, _, _ := newBuilder(t)
		d := b.WithActivityLevel("Alto").
			WithMedicalHistory("Nenhum").
			WithIntolerances("Lactose").
			WithExcludedFoods("Amendoim").
			GetData()
		assert.Equal(t, "Alto", d.ActivityLevel)
		assert.Equal(t, "Nenhum", d.MedicalHistory)
		assert.Equal(t, "Lactose", d.Intolerances)
		assert.Equal(t, "Amendoim", d.ExcludedFoods)
	})
}

func TestBuilder_CompositeSetters(t *testing.T) {
	t.Parallel()
	b, _, _ := newBuilder(t)

	b.WithBasicInfo(profile.BasicInfo{Name: "Maria", Age: 28, Height: "160", Weight: 55, Gender: "Feminino"}).
		WithPhysicalInfo(profile.PhysicalInfo{BodyFat: "22", Calories: 1800, ActivityLevel: "Moderado"}).
		WithMedicalInfo(profile.MedicalInfo{MedicalHistory: "Hipertensão", Intolerances: "Glúten", ExcludedFoods: "Carne"})

	assert.Equal(t, profile.Record{
		Name:           "Maria",
		Age:            "28",
		Height:         "160",
		Weight:         "55",
		Gender:         "Feminino",
		ActivityLevel:  "Moderado",
		BodyFat:        "22",
		Calories:       "1800",
		MedicalHistory: "Hipertensão",
		Intolerances:   "Glúten",
		ExcludedFoods:  "Carne",
	}, b.GetData())
}

func TestBuilder_CompositeSetterResetsOmittedFields(t *testing.T) {
	t.Parallel()
	b, _, _ := validBuilder(t)

	d := b.WithBasicInfo(profile.BasicInfo{Name: "Pedro"}).GetData()

	assert.Equal(t, "Pedro", d.Name)
	assert.Empty(t, d.Age)
	assert.Empty(t, d.Height)
	assert.Empty(t, d.Weight)
	assert.Empty(t, d.Gender)
}

func TestBuilder_GetDataReturnsCopy(t *testing.T) {
	t.Parallel()
	b, _, _ := validBuilder(t)

	d := b.GetData()
	d.Name = "mutated"

	assert.Equal(t, "João", b.GetData().Name)
}

func TestBuilder_Apply(t *testing.T) {
	t.Parallel()
	b, st, saver := newBuilder(t)
	st.SetID(9)

	b.WithName("Ana").WithIntolerances("Lactose").Apply()

	snap := st.Snapshot()
	assert.Equal(t, int64(9), snap.ID)
	assert.Equal(t, "Ana", snap.Name)
	assert.Equal(t, "Lactose", snap.Intolerances)
	assert.Empty(t, snap.Age)
	assert.Zero(t, saver.calls)
}

func TestBuilder_SaveInvalid(t *testing.T) {
	t.Parallel()
	b, st, saver := newBuilder(t)
	st.SetName("previous")

	_, err := b.WithAge("40").Save(context.Background())

	require.Error(t, err)
	assert.ErrorIs(t, err, profile.ErrInvalidProfile)
	assert.Equal(t, "Dados inválidos: Nome é obrigatório, Altura deve ser um número válido, "+
		"Peso deve ser um número válido, Gênero é obrigatório", err.Error())

	var verr *profile.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Len(t, verr.Errors, 4)

	assert.Zero(t, saver.calls)
	assert.Equal(t, "previous", st.Name())
}

func TestBuilder_SaveValid(t *testing.T) {
	t.Parallel()
	b, st, saver := validBuilder(t)

	got, err := b.Save(context.Background())

	require.NoError(t, err)
	assert.Same(t, b, got)
	assert.Equal(t, 1, saver.calls)
	assert.Equal(t, "João", saver.seen[0].Name, "state is applied before persisting")
	assert.Equal(t, "Masculino", st.Gender())
}

func TestBuilder_BuildIsSave(t *testing.T) {
	t.Parallel()
	b, _, saver := validBuilder(t)

	_, err := b.Build(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, saver.calls)

	_, err = b.Clear().Build(context.Background())
	assert.ErrorIs(t, err, profile.ErrInvalidProfile)
	assert.Equal(t, 1, saver.calls)
}

func TestBuilder_Clear(t *testing.T) {
	t.Parallel()
	b, _, _ := validBuilder(t)
	b.WithIntolerances("Lactose")

	assert.Equal(t, profile.Record{}, b.Clear().GetData())
}

func TestBuilder_FieldsAlwaysInDomain(t *testing.T) {
	t.Parallel()
	b, _, _ := newBuilder(t)

	inRange := func(v string, lo, hi float64) bool {
		f, ok := fields.LeadingFloat(v)
		return ok && f >= lo && f <= hi
	}

	inputs := []any{"-5", "0", "49", "50", "151", "200", "300", "abc", 75.5, 500, 501, nil, ""}
	for _, in := range inputs {
		d := b.WithAge(in).WithHeight(in).WithWeight(in).GetData()
		if d.Age != "" {
			assert.True(t, inRange(d.Age, 0, 150), "age from %v", in)
		}
		if d.Height != "" {
			assert.True(t, inRange(d.Height, 50, 300), "height from %v", in)
		}
		if d.Weight != "" {
			assert.True(t, inRange(d.Weight, 20, 500), "weight from %v", in)
		}
	}
}
