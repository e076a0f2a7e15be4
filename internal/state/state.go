// Package state holds the process-wide profile of the current user. It is
// created once at startup and handed to whoever needs to read or write it;
// the profile builder writes it on Apply and the persistence gateway writes
// it on Load.
package state

import "sync"

// Fields is a plain copy of every value held by Profile.
type Fields struct {
	ID             int64
	Name           string
	Age            string
	Height         string
	Weight         string
	Gender         string
	ActivityLevel  string
	BodyFat        string
	Calories       string
	MedicalHistory string
	Intolerances   string
	ExcludedFoods  string
}

// Profile is the shared, mutex guarded profile store.
type Profile struct {
	mu sync.RWMutex
	f  Fields
}

// New returns an empty profile.
func New() *Profile {
	return &Profile{}
}

// Snapshot returns a copy of all fields.
func (p *Profile) Snapshot() Fields {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.f
}

// Replace overwrites every field at once.
func (p *Profile) Replace(f Fields) {
	p.mu.Lock()
	p.f = f
	p.mu.Unlock()
}

func (p *Profile) get(fn func(*Fields) string) string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return fn(&p.f)
}

func (p *Profile) set(fn func(*Fields)) {
	p.mu.Lock()
	fn(&p.f)
	p.mu.Unlock()
}

func (p *Profile) ID() int64 {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.f.ID
}

func (p *Profile) SetID(id int64) { p.set(func(f *Fields) { f.ID = id }) }

func (p *Profile) Name() string     { return p.get(func(f *Fields) string { return f.Name }) }
func (p *Profile) SetName(v string) { p.set(func(f *Fields) { f.Name = v }) }

func (p *Profile) Age() string     { return p.get(func(f *Fields) string { return f.Age }) }
func (p *Profile) SetAge(v string) { p.set(func(f *Fields) { f.Age = v }) }

func (p *Profile) Height() string     { return p.get(func(f *Fields) string { return f.Height }) }
func (p *Profile) SetHeight(v string) { p.set(func(f *Fields) { f.Height = v }) }

func (p *Profile) Weight() string     { return p.get(func(f *Fields) string { return f.Weight }) }
func (p *Profile) SetWeight(v string) { p.set(func(f *Fields) { f.Weight = v }) }

func (p *Profile) Gender() string     { return p.get(func(f *Fields) string { return f.Gender }) }
func (p *Profile) SetGender(v string) { p.set(func(f *Fields) { f.Gender = v }) }

func (p *Profile) ActivityLevel() string { return p.get(func(f *Fields) string { return f.ActivityLevel }) }
func (p *Profile) SetActivityLevel(v string) {
	p.set(func(f *Fields) { f.ActivityLevel = v })
}

func (p *Profile) BodyFat() string     { return p.get(func(f *Fields) string { return f.BodyFat }) }
func (p *Profile) SetBodyFat(v string) { p.set(func(f *Fields) { f.BodyFat = v }) }

func (p *Profile) Calories() string     { return p.get(func(f *Fields) string { return f.Calories }) }
func (p *Profile) SetCalories(v string) { p.set(func(f *Fields) { f.Calories = v }) }

func (p *Profile) MedicalHistory() string { return p.get(func(f *Fields) string { return f.MedicalHistory }) }
func (p *Profile) SetMedicalHistory(v string) {
	p.set(func(f *Fields) { f.MedicalHistory = v })
}

func (p *Profile) Intolerances() string     { return p.get(func(f *Fields) string { return f.Intolerances }) }
func (p *Profile) SetIntolerances(v string) { p.set(func(f *Fields) { f.Intolerances = v }) }

func (p *Profile) ExcludedFoods() string     { return p.get(func(f *Fields) string { return f.ExcludedFoods }) }
func (p *Profile) SetExcludedFoods(v string) { p.set(func(f *Fields) { f.ExcludedFoods = v }) }

// Update runs fn with the lock held so several fields change in one step.
func (p *Profile) Update(fn func(f *Fields)) {
	p.set(fn)
}
