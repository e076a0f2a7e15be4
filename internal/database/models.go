package database

// User is the single profile row of the usuario table. Column names keep
// the on-disk schema of the mobile app the data originates from.
type User struct {
	ID             int64  `db:"ID"`
	Name           string `db:"Nome"`
	Age            string `db:"Idade"`
	Height         string `db:"Altura"`
	Weight         string `db:"Peso"`
	Gender         string `db:"Genero"`
	ActivityLevel  string `db:"NivelDeAtividade"`
	BodyFat        string `db:"Gordura"`
	Calories       string `db:"Calorias"`
	MedicalHistory string `db:"HistoricoMedico"`
	Intolerances   string `db:"Intolerancias"`
	ExcludedFoods  string `db:"ExcluirAlimentos"`
}

// Meal is one generated daily meal plan.
type Meal struct {
	ID     int64  `db:"ID"`
	UserID int64  `db:"usuario_id"`
	Text   string `db:"json_texto"`
}

// ShoppingList is the grocery list derived from the stored meals.
type ShoppingList struct {
	ID          int64  `db:"ID"`
	UserID      int64  `db:"usuario_id"`
	Ingredients string `db:"json_ingredientes"`
}

// Operation tells which branch an upsert took.
type Operation string

const (
	OpInserted Operation = "inserted"
	OpUpdated  Operation = "updated"
)
