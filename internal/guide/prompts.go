package guide

import (
	"fmt"
	"strings"

	"github.com/edgard/nutriplan/internal/state"
)

// mealPlanPrompt asks for one day of meals. The format string expects, in
// order: gender, age, height, weight, activity level, body fat, calories,
// medical history, intolerances and excluded foods.
const mealPlanPrompt = `Gere um plano alimentar para 1 dia de pratos bem diversificados e fora do comum, para um(a) %s com %s anos, %s cm, %s kg, que tem um nível de atividade %s, %s%% de gorduras totais e deve consumir %s cal por dia. Histórico medico: %s. Intolerâncias: %s. Excluir do plano alimentar: %s. Em forma de lista seguindo a exata formatação sem nada a mais.
  "Café da manhã:
    -quantidade de cada item e exemplo de refeição "2 ovos mexidos, 100 gramas de tilapia"

  Almoço:
    -quantidade de cada item e exemplo de refeição

  Lanche da tarde:
    -quantidade de cada item e exemplo de refeição

  Jantar:
    -quantidade de cada item e exemplo de refeição
`

// shoppingListPrompt expects the week's meals joined into a single string.
const shoppingListPrompt = `segue minhas refeições da semana, voce pode gerar apenas uma lista de compras pra mim agrupando itens iguais e colocando a quantidade tambem "%s"`

// MealPlanPrompt renders the daily meal-plan request for a profile.
func MealPlanPrompt(f state.Fields) string {
	return fmt.Sprintf(mealPlanPrompt,
		f.Gender, f.Age, f.Height, f.Weight, f.ActivityLevel, f.BodyFat, f.Calories,
		f.MedicalHistory, f.Intolerances, f.ExcludedFoods)
}

// ShoppingListPrompt renders the shopping-list request for a set of meals.
func ShoppingListPrompt(meals []string) string {
	return fmt.Sprintf(shoppingListPrompt, strings.Join(meals, ","))
}
