package parse

import (
	"bytes"
	"encoding/csv"
	"io"
	"strconv"
	"strings"

	"tradebook/internal/errors"
	"tradebook/internal/models"
)

// Field identifies one mappable trade attribute in an imported file.
type Field string

const (
	FieldDate       Field = "date"
	FieldAsset      Field = "asset"
	FieldDirection  Field = "direction"
	FieldEntryPrice Field = "entryPrice"
	FieldExitPrice  Field = "exitPrice"
	FieldSize       Field = "size"
	FieldLeverage   Field = "leverage"
	FieldStopLoss   Field = "stopLoss"
	FieldTakeProfit Field = "takeProfit"
	FieldJournal    Field = "journal"
)

// mappingOrder is the order in which fields claim header columns during
// auto-mapping. Required fields claim first so a generic header cannot be
// stolen by an optional one.
var mappingOrder = []Field{
	FieldDate, FieldAsset, FieldDirection, FieldEntryPrice, FieldExitPrice,
	FieldSize, FieldLeverage, FieldStopLoss, FieldTakeProfit, FieldJournal,
}

// RequiredFields are the mappings an import cannot start without. A row may
// still leave the exit value blank; only the column has to exist.
var RequiredFields = []Field{
	FieldDate, FieldAsset, FieldDirection, FieldEntryPrice, FieldExitPrice, FieldSize,
}

// fieldKeywords drives auto-mapping: a header column is claimed by the first
// field whose keyword list matches inside the lowercased header text.
// Spanish spreadsheet headers are first-class citizens here.
var fieldKeywords = map[Field][]string{
	FieldDate:       {"fecha", "date", "día", "dia", "day"},
	FieldAsset:      {"par", "activo", "asset", "symbol", "pair", "ticker", "instrument"},
	FieldDirection:  {"direc", "side", "lado"},
	FieldEntryPrice: {"entrada", "entry", "apertura", "open"},
	FieldExitPrice:  {"salida", "exit", "cierre", "close"},
	FieldSize:       {"tamaño", "tamano", "size", "cantidad", "qty", "quantity", "amount"},
	FieldLeverage:   {"apalanc", "lever"},
	FieldStopLoss:   {"stop", "sl"},
	FieldTakeProfit: {"profit", "take", "tp", "objetivo", "target"},
	FieldJournal:    {"justificación", "justificacion", "journal", "nota", "note", "coment", "razón", "razon"},
}

// Mapping assigns trade fields to zero-based column indexes.
type Mapping map[Field]int

// Overrides maps fields to user-supplied column references, either a header
// name or a 1-based column number. They win over auto-mapping.
type Overrides map[Field]string

// ParseField validates a user-supplied field name.
func ParseField(s string) (Field, bool) {
	f := Field(strings.TrimSpace(s))
	for _, known := range mappingOrder {
		if f == known {
			return f, true
		}
	}
	return "", false
}

// AutoMap proposes a mapping from a header row. Each field takes the first
// not-yet-claimed header that contains one of its keywords; headers that
// match nothing stay unmapped.
func AutoMap(headers []string) Mapping {
	m := make(Mapping, len(mappingOrder))
	claimed := make(map[int]bool, len(headers))
	for _, f := range mappingOrder {
		for i, h := range headers {
			if claimed[i] {
				continue
			}
			if headerMatches(h, fieldKeywords[f]) {
				m[f] = i
				claimed[i] = true
				break
			}
		}
	}
	return m
}

func headerMatches(header string, keywords []string) bool {
	h := strings.ToLower(strings.TrimSpace(header))
	if h == "" {
		return false
	}
	for _, k := range keywords {
		if strings.Contains(h, k) {
			return true
		}
	}
	return false
}

// Validate reports the required fields the mapping leaves unbound.
func (m Mapping) Validate() error {
	var missing []string
	for _, f := range RequiredFields {
		if _, ok := m[f]; !ok {
			missing = append(missing, string(f))
		}
	}
	if len(missing) > 0 {
		return errors.Wrap(errors.ErrMissingColumn, strings.Join(missing, ", "))
	}
	return nil
}

// FromRow builds one trade from a record using the mapping. row is the
// 1-based line number for diagnostics. Required values that are missing or
// unparseable fail the row; optional prices quietly fall back to "not set",
// and an exit value of zero or worse leaves the trade open.
func (m Mapping) FromRow(row int, record []string) (models.Trade, error) {
	cell := func(f Field) string {
		i, ok := m[f]
		if !ok || i < 0 || i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}

	var t models.Trade
	var err error
	if t.Date, err = ParseDate(cell(FieldDate)); err != nil {
		return models.Trade{}, errors.NewRowError(row, string(FieldDate), err)
	}
	if t.Asset = cell(FieldAsset); t.Asset == "" {
		return models.Trade{}, errors.NewRowError(row, string(FieldAsset), errors.ErrMissingField)
	}
	if t.Direction, err = ParseDirection(cell(FieldDirection)); err != nil {
		return models.Trade{}, errors.NewRowError(row, string(FieldDirection), err)
	}
	if t.EntryPrice, err = requiredPrice(string(FieldEntryPrice), cell(FieldEntryPrice)); err != nil {
		return models.Trade{}, errors.NewRowError(row, string(FieldEntryPrice), err)
	}
	if t.Size, err = requiredPrice(string(FieldSize), cell(FieldSize)); err != nil {
		return models.Trade{}, errors.NewRowError(row, string(FieldSize), err)
	}
	t.ExitPrice = optionalPrice(cell(FieldExitPrice))
	t.StopLoss = optionalPrice(cell(FieldStopLoss))
	t.TakeProfit = optionalPrice(cell(FieldTakeProfit))
	t.Leverage = cell(FieldLeverage)
	t.Journal = cell(FieldJournal)

	t.Recalculate()
	return t, nil
}

// Result summarizes one import: the trades that parsed plus a row-scoped
// error for every record that was skipped.
type Result struct {
	Trades  []models.Trade
	Skipped []error
}

// DetectSeparator guesses the delimiter from the header line: tab for
// spreadsheet pastes and our own export, semicolon for Spanish-locale CSV
// exports, comma otherwise.
func DetectSeparator(header string) rune {
	switch {
	case strings.ContainsRune(header, '\t'):
		return '\t'
	case strings.ContainsRune(header, ';') && !strings.ContainsRune(header, ','):
		return ';'
	default:
		return ','
	}
}

// Import parses a whole delimited file: a header row followed by one trade
// per record, quoted fields and embedded delimiters included. sep 0 means
// auto-detect. A row that fails required-field parsing is skipped and
// reported in the result; only an unusable mapping aborts the import.
// The resolved mapping is returned so callers can show it.
func Import(data []byte, sep rune, overrides Overrides) (*Result, Mapping, error) {
	headerLine := string(data)
	if i := bytes.IndexByte(data, '\n'); i >= 0 {
		headerLine = string(data[:i])
	}
	if sep == 0 {
		sep = DetectSeparator(headerLine)
	}

	r := csv.NewReader(bytes.NewReader(data))
	r.Comma = sep
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true

	headers, err := r.Read()
	if err != nil {
		return nil, nil, errors.Wrap(err, "failed to read header row")
	}
	mapping := AutoMap(headers)
	for f, ref := range overrides {
		i, err := columnIndex(headers, ref)
		if err != nil {
			return nil, mapping, errors.Wrapf(err, "mapping for %s", f)
		}
		mapping[f] = i
	}
	if err := mapping.Validate(); err != nil {
		return nil, mapping, err
	}

	res := &Result{}
	for row := 2; ; row++ {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			res.Skipped = append(res.Skipped, errors.NewRowError(row, "", err))
			continue
		}
		if blankRecord(record) {
			continue
		}
		t, err := mapping.FromRow(row, record)
		if err != nil {
			res.Skipped = append(res.Skipped, err)
			continue
		}
		res.Trades = append(res.Trades, t)
	}
	return res, mapping, nil
}

func blankRecord(record []string) bool {
	for _, c := range record {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

// columnIndex resolves a header name or 1-based column number to an index.
// Name matching is case-insensitive, exact first, then substring.
func columnIndex(headers []string, ref string) (int, error) {
	ref = strings.TrimSpace(ref)
	if n, err := strconv.Atoi(ref); err == nil {
		if n < 1 || n > len(headers) {
			return 0, errors.Wrapf(errors.ErrMissingColumn, "column %d out of range", n)
		}
		return n - 1, nil
	}
	for i, h := range headers {
		if strings.EqualFold(strings.TrimSpace(h), ref) {
			return i, nil
		}
	}
	for i, h := range headers {
		if strings.Contains(strings.ToLower(h), strings.ToLower(ref)) {
			return i, nil
		}
	}
	return 0, errors.Wrapf(errors.ErrMissingColumn, "no header matches %q", ref)
}
