// Package export renders the book in the tab-separated layout of the
// original tracking spreadsheet, Spanish headers and decimal commas
// included, so a paste back into that sheet lands cell for cell.
package export

import (
	"encoding/csv"
	"io"
	"strconv"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"tradebook/internal/errors"
	"tradebook/internal/models"
)

// Headers is the fixed 12-column spreadsheet layout. Order matters: the
// sheet's formulas reference columns by position.
var Headers = []string{
	"Nº", "Fecha", "Par", "Dirección", "Apalancamiento", "Entrada",
	"Salida", "Stop Loss", "Take Profit", "Tamaño",
	"Justificación técnica", "Notas adicionales",
}

// Write renders trades as tab-separated rows after the fixed header.
func Write(w io.Writer, trades []models.Trade) error {
	cw := csv.NewWriter(w)
	cw.Comma = '\t'

	if err := cw.Write(Headers); err != nil {
		return errors.Wrap(err, "failed to write header")
	}

	p := message.NewPrinter(language.Spanish)
	for _, t := range trades {
		row := []string{
			strconv.Itoa(t.ID),
			t.Date.Format("02/01/2006"),
			t.Asset,
			DirectionLabel(t.Direction),
			t.Leverage,
			Numeral(p, t.EntryPrice),
			Numeral(p, t.ExitPrice),
			Numeral(p, t.StopLoss),
			Numeral(p, t.TakeProfit),
			Numeral(p, t.Size),
			t.Journal,
			t.Analysis,
		}
		if err := cw.Write(row); err != nil {
			return errors.Wrap(err, "failed to write row")
		}
	}

	cw.Flush()
	return errors.Wrap(cw.Error(), "failed to flush export")
}

// DirectionLabel renders the side the way the sheet expects.
func DirectionLabel(d models.Direction) string {
	if d == models.DirectionShort {
		return "venta"
	}
	return "compra"
}

// Numeral renders a price with Spanish separators ("62.500,5"). Prices are
// strictly positive, so zero means "not set" and renders blank.
func Numeral(p *message.Printer, v float64) string {
	if v == 0 {
		return ""
	}
	return p.Sprintf("%v", number.Decimal(v,
		number.MinFractionDigits(0), number.MaxFractionDigits(8)))
}
