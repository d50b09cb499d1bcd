package utils

import "time"

// GetLisbonLocation retorna a localização de Lisboa (WET/WEST)
// Deve ser usada em todo o projeto para datas de relatórios e filtros de período.
func GetLisbonLocation() *time.Location {
	lisbon, err := time.LoadLocation("Europe/Lisbon")
	if err != nil {
		// Fallback para UTC se a base de fusos não estiver disponível
		lisbon = time.UTC
	}
	return lisbon
}

// StartOfDay retorna 00:00:00 do dia de t na localização de t
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// EndOfDay retorna o último instante do dia de t
func EndOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, 999999999, t.Location())
}

// GenerateDateRange gera as datas no formato "YYYY-MM-DD" de from até to (inclusive)
func GenerateDateRange(from, to time.Time) []string {
	if from.IsZero() || to.IsZero() || from.After(to) {
		return []string{}
	}

	from = StartOfDay(from)
	to = StartOfDay(to)

	var result []string
	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		result = append(result, d.Format("2006-01-02"))
	}
	return result
}
