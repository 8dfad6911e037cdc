package formatting

import "fmt"

// Pluralize выбирает форму слова для португальского: 1 aula, 2 aulas
func Pluralize(count int, one, many string) string {
	if count == 1 {
		return one
	}
	return many
}

// Days "1 dia", "5 dias"
func Days(count int) string {
	return fmt.Sprintf("%d %s", count, Pluralize(count, "dia", "dias"))
}

// Lessons "1 aula", "3 aulas"
func Lessons(count int) string {
	return fmt.Sprintf("%d %s", count, Pluralize(count, "aula", "aulas"))
}

// Minutes "1 minuto", "10 minutos"
func Minutes(count int) string {
	return fmt.Sprintf("%d %s", count, Pluralize(count, "minuto", "minutos"))
}
