// Package profile implements the fluent builder that collects, validates and
// commits the user's nutrition profile.
package profile

import (
	"context"
	"errors"
	"strings"

	"github.com/edgard/nutriplan/internal/fields"
	"github.com/edgard/nutriplan/internal/state"
)

// Validation messages, in the order Validate reports them.
const (
	MsgNameRequired   = "Nome é obrigatório"
	MsgAgeInvalid     = "Idade deve ser um número válido"
	MsgHeightInvalid  = "Altura deve ser um número válido"
	MsgWeightInvalid  = "Peso deve ser um número válido"
	MsgGenderRequired = "Gênero é obrigatório"
)

// ErrInvalidProfile is matched by every ValidationError.
var ErrInvalidProfile = errors.New("invalid profile")

// ValidationError reports the required-field rules a profile violates.
type ValidationError struct {
	Errors []string
}

func (e *ValidationError) Error() string {
	return "Dados inválidos: " + strings.Join(e.Errors, ", ")
}

// Is makes errors.Is(err, ErrInvalidProfile) hold.
func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidProfile
}

// Record is the accumulated profile. Numeric and enum fields hold either a
// value inside their domain or "".
type Record struct {
	Name           string `json:"nome"`
	Age            string `json:"idade"`
	Height         string `json:"altura"`
	Weight         string `json:"peso"`
	Gender         string `json:"genero"`
	ActivityLevel  string `json:"nivelDeAtividade"`
	BodyFat        string `json:"gordura"`
	Calories       string `json:"calorias"`
	MedicalHistory string `json:"historicoMedico"`
	Intolerances   string `json:"intolerancias"`
	ExcludedFoods  string `json:"excluirAlimentos"`
}

// BasicInfo groups the fields of the general form. Zero values reset the
// corresponding field.
type BasicInfo struct {
	Name   string
	Age    any
	Height any
	Weight any
	Gender string
}

// PhysicalInfo groups the fields of the physical form.
type PhysicalInfo struct {
	BodyFat       any
	Calories      any
	ActivityLevel string
}

// MedicalInfo groups the fields of the medical history forms.
type MedicalInfo struct {
	MedicalHistory string
	Intolerances   string
	ExcludedFoods  string
}

// ValidationResult is the outcome of Validate.
type ValidationResult struct {
	IsValid bool
	Errors  []string
}

// Saver persists the shared profile state. Implementations report their own
// failures; Upsert has nothing to return.
type Saver interface {
	Upsert(ctx context.Context)
}

// Builder accumulates a Record through chained setters.
type Builder struct {
	data  Record
	state *state.Profile
	saver Saver
}

// NewBuilder returns an empty builder bound to the shared state and the
// persistence layer used by Save.
func NewBuilder(st *state.Profile, saver Saver) *Builder {
	return &Builder{state: st, saver: saver}
}

func (b *Builder) WithName(name string) *Builder {
	b.data.Name = name
	return b
}

// WithAge keeps age when its integer value is within [0, 150].
func (b *Builder) WithAge(age any) *Builder {
	b.data.Age = fields.ValidateAge(age)
	return b
}

// WithHeight keeps height (cm) when it is within [50, 300].
func (b *Builder) WithHeight(height any) *Builder {
	b.data.Height = fields.ValidateHeight(height)
	return b
}

// WithWeight keeps weight (kg) when it is within [20, 500].
func (b *Builder) WithWeight(weight any) *Builder {
	b.data.Weight = fields.ValidateWeight(weight)
	return b
}

func (b *Builder) WithGender(gender string) *Builder {
	b.data.Gender = fields.ValidateGender(gender)
	return b
}

func (b *Builder) WithActivityLevel(level string) *Builder {
	b.data.ActivityLevel = level
	return b
}

func (b *Builder) WithBodyFat(percent any) *Builder {
	b.data.BodyFat = fields.TextOrEmpty(percent)
	return b
}

func (b *Builder) WithCalories(calories any) *Builder {
	b.data.Calories = fields.TextOrEmpty(calories)
	return b
}

func (b *Builder) WithMedicalHistory(history string) *Builder {
	b.data.MedicalHistory = history
	return b
}

func (b *Builder) WithIntolerances(intolerances string) *Builder {
	b.data.Intolerances = intolerances
	return b
}

func (b *Builder) WithExcludedFoods(foods string) *Builder {
	b.data.ExcludedFoods = foods
	return b
}

// WithBasicInfo sets name, age, height, weight and gender together.
func (b *Builder) WithBasicInfo(info BasicInfo) *Builder {
	return b.
		WithName(info.Name).
		WithAge(info.Age).
		WithHeight(info.Height).
		WithWeight(info.Weight).
		WithGender(info.Gender)
}

// WithPhysicalInfo sets body fat, calories and activity level together.
func (b *Builder) WithPhysicalInfo(info PhysicalInfo) *Builder {
	return b.
		WithBodyFat(info.BodyFat).
		WithCalories(info.Calories).
		WithActivityLevel(info.ActivityLevel)
}

// WithMedicalInfo sets medical history, intolerances and excluded foods together.
func (b *Builder) WithMedicalInfo(info MedicalInfo) *Builder {
	return b.
		WithMedicalHistory(info.MedicalHistory).
		WithIntolerances(info.Intolerances).
		WithExcludedFoods(info.ExcludedFoods)
}

// GetData returns a copy of the accumulated record.
func (b *Builder) GetData() Record {
	return b.data
}

// Validate checks the required fields. Messages follow the order name, age,
// height, weight, gender.
func (b *Builder) Validate() ValidationResult {
	errs := make([]string, 0, 5)

	if strings.TrimSpace(b.data.Name) == "" {
		errs = append(errs, MsgNameRequired)
	}
	if n, ok := fields.LeadingInt(b.data.Age); !ok || n <= 0 {
		errs = append(errs, MsgAgeInvalid)
	}
	if f, ok := fields.LeadingFloat(b.data.Height); !ok || f <= 0 {
		errs = append(errs, MsgHeightInvalid)
	}
	if f, ok := fields.LeadingFloat(b.data.Weight); !ok || f <= 0 {
		errs = append(errs, MsgWeightInvalid)
	}
	if b.data.Gender == "" {
		errs = append(errs, MsgGenderRequired)
	}

	return ValidationResult{IsValid: len(errs) == 0, Errors: errs}
}

// Apply copies the record into the shared state without validating it.
func (b *Builder) Apply() *Builder {
	d := b.data
	b.state.Update(func(f *state.Fields) {
		f.Name = d.Name
		f.Age = d.Age
		f.Height = d.Height
		f.Weight = d.Weight
		f.Gender = d.Gender
		f.ActivityLevel = d.ActivityLevel
		f.BodyFat = d.BodyFat
		f.Calories = d.Calories
		f.MedicalHistory = d.MedicalHistory
		f.Intolerances = d.Intolerances
		f.ExcludedFoods = d.ExcludedFoods
	})
	return b
}

// Save validates, applies and persists the record. An invalid record yields a
// *ValidationError and leaves both the shared state and the store untouched.
// Persistence failures are handled by the Saver and never returned here.
func (b *Builder) Save(ctx context.Context) (*Builder, error) {
	if res := b.Validate(); !res.IsValid {
		return b, &ValidationError{Errors: res.Errors}
	}

	b.Apply()
	if b.saver != nil {
		b.saver.Upsert(ctx)
	}
	return b, nil
}

// Build is Save under another name.
func (b *Builder) Build(ctx context.Context) (*Builder, error) {
	return b.Save(ctx)
}

// Clear resets every field to "".
func (b *Builder) Clear() *Builder {
	b.data = Record{}
	return b
}
