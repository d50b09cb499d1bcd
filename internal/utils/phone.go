package utils

import (
	"strings"

	"github.com/nyaruka/phonenumbers"
)

// NormalizePhone formata o telefone em E.164 quando ele é válido para a região
// padrão informada. Caso contrário devolve o valor original sem espaços nas
// pontas e ok=false.
func NormalizePhone(raw, defaultRegion string) (string, bool) {
	clean := strings.TrimSpace(raw)
	if clean == "" {
		return "", false
	}

	num, err := phonenumbers.Parse(clean, strings.ToUpper(defaultRegion))
	if err != nil {
		return clean, false
	}
	if !phonenumbers.IsValidNumber(num) {
		return clean, false
	}
	return phonenumbers.Format(num, phonenumbers.E164), true
}
