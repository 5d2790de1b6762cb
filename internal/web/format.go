package web

import (
	"math"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.English)

// FormatVND formatea un precio de venta en dongs sin decimales: ₫1,250,000
func FormatVND(v float64) string {
	return "₫" + printer.Sprintf("%d", int64(math.Round(v)))
}

// FormatJPY formatea un precio original en yenes; nil devuelve ""
func FormatJPY(v *float64) string {
	if v == nil {
		return ""
	}
	return "¥" + printer.Sprintf("%d", int64(math.Round(*v)))
}
