// Package ptdate форматирует даты по-португальски.
package ptdate

import (
	"fmt"
	"time"
)

var months = [...]string{
	"janeiro", "fevereiro", "março", "abril", "maio", "junho",
	"julho", "agosto", "setembro", "outubro", "novembro", "dezembro",
}

// Long возвращает дату в длинной форме: "17 de outubro de 2026".
func Long(t time.Time) string {
	return fmt.Sprintf("%d de %s de %d", t.Day(), months[t.Month()-1], t.Year())
}

// Short возвращает дату в форме DD/MM/YYYY.
func Short(t time.Time) string {
	return t.Format("02/01/2006")
}
