package main

import (
	"flag"

	"github.com/edgard/nutriplan/internal/profile"
	"github.com/edgard/nutriplan/internal/state"
)

// profileFlags binds one command-line flag to each profile field.
type profileFlags struct {
	fs     *flag.FlagSet
	values map[string]*string
}

var profileFlagUsage = []struct{ name, usage string }{
	{"name", "Profile name"},
	{"age", "Age in years (0-150)"},
	{"height", "Height in cm (50-300)"},
	{"weight", "Weight in kg (20-500)"},
	{"gender", "Gender (Masculino or Feminino)"},
	{"activity", "Activity level"},
	{"bodyfat", "Body fat percentage"},
	{"calories", "Daily calorie target"},
	{"medical", "Medical history"},
	{"intolerances", "Food intolerances"},
	{"exclude", "Foods to exclude from the plan"},
}

func registerProfileFlags(fs *flag.FlagSet) *profileFlags {
	p := &profileFlags{fs: fs, values: make(map[string]*string, len(profileFlagUsage))}
	for _, f := range profileFlagUsage {
		p.values[f.name] = fs.String(f.name, "", f.usage)
	}
	return p
}

// setFlags returns the profile flags given on the command line. It must be
// called after the flag set is parsed.
func (p *profileFlags) setFlags() map[string]string {
	set := make(map[string]string)
	p.fs.Visit(func(f *flag.Flag) {
		if v, ok := p.values[f.Name]; ok {
			set[f.Name] = *v
		}
	})
	return set
}

// builder returns a builder seeded with current and overridden by the given
// flags.
func (p *profileFlags) builder(current state.Fields, st *state.Profile, saver profile.Saver) *profile.Builder {
	b := profile.NewBuilder(st, saver).
		WithName(current.Name).
		WithAge(current.Age).
		WithHeight(current.Height).
		WithWeight(current.Weight).
		WithGender(current.Gender).
		WithActivityLevel(current.ActivityLevel).
		WithBodyFat(current.BodyFat).
		WithCalories(current.Calories).
		WithMedicalHistory(current.MedicalHistory).
		WithIntolerances(current.Intolerances).
		WithExcludedFoods(current.ExcludedFoods)

	for name, v := range p.setFlags() {
		switch name {
		case "name":
			b.WithName(v)
		case "age":
			b.WithAge(v)
		case "height":
			b.WithHeight(v)
		case "weight":
			b.WithWeight(v)
		case "gender":
			b.WithGender(v)
		case "activity":
			b.WithActivityLevel(v)
		case "bodyfat":
			b.WithBodyFat(v)
		case "calories":
			b.WithCalories(v)
		case "medical":
			b.WithMedicalHistory(v)
		case "intolerances":
			b.WithIntolerances(v)
		case "exclude":
			b.WithExcludedFoods(v)
		}
	}
	return b
}
