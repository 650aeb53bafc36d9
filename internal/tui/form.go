package tui

import (
	"errors"
	"regexp"
	"slices"
	"strings"
	"time"

	"github.com/jask/moneydash/internal/database/repository"
	"github.com/jask/moneydash/internal/money"
	"github.com/jask/moneydash/internal/service"
)

// Field is one input of a transaction or search form.
type Field int

const (
	FieldDate Field = iota
	FieldDetails
	FieldMethod
	FieldToMethod
	FieldAmount
	FieldType
	FieldTags
)

const (
	typeIncome   = "Income"
	typeExpense  = "Expense"
	typeTransfer = "Transfer"
)

var txTypes = map[string]repository.TxType{
	typeIncome:   repository.TxIncome,
	typeExpense:  repository.TxExpense,
	typeTransfer: repository.TxTransfer,
}

var (
	dateLayouts = []string{"2006-01-02", "2006-1-2", "2006/01/02", "2006/1/2"}
	yearOnly    = regexp.MustCompile(`^\d{4}$`)
	yearMonth   = regexp.MustCompile(`^\d{4}[-/]\d{1,2}$`)
)

// Form holds the text of each field. Values are normalized as they are
// committed so a saved form never needs reparsing.
type Form struct {
	kind       PageKind
	Fields     []Field
	Cursor     int
	Editing    bool
	Suggestion string
	Status     string
	values     map[Field]*textField
}

func newForm(kind PageKind, today time.Time) *Form {
	f := &Form{kind: kind}
	switch kind {
	case PageTransfer:
		f.Fields = []Field{FieldDate, FieldDetails, FieldMethod, FieldToMethod, FieldAmount, FieldTags}
	case PageSearch:
		f.Fields = []Field{FieldDate, FieldDetails, FieldMethod, FieldAmount, FieldType, FieldTags}
	default:
		f.Fields = []Field{FieldDate, FieldDetails, FieldMethod, FieldAmount, FieldType, FieldTags}
	}
	f.reset(today)
	return f
}

// reset clears every field and restores defaults.
func (f *Form) reset(today time.Time) {
	f.values = make(map[Field]*textField, len(f.Fields))
	for _, field := range f.Fields {
		f.values[field] = &textField{}
	}
	f.Cursor, f.Editing, f.Suggestion, f.Status = 0, false, "", ""
	if f.kind != PageSearch {
		f.Set(FieldDate, today.Format(repository.DateLayout))
	}
	if f.kind == PageAddTx {
		f.Set(FieldType, typeExpense)
	}
}

func (f *Form) Current() Field {
	return f.Fields[f.Cursor]
}

func (f *Form) Value(field Field) string {
	if v, ok := f.values[field]; ok {
		return v.Value
	}
	return ""
}

func (f *Form) Set(field Field, value string) {
	if v, ok := f.values[field]; ok {
		v.set(value)
	}
}

func (f *Form) input(field Field) *textField {
	return f.values[field]
}

func (f *Form) clone() *Form {
	c := *f
	c.Fields = slices.Clone(f.Fields)
	c.values = make(map[Field]*textField, len(f.values))
	for k, v := range f.values {
		tf := *v
		c.values[k] = &tf
	}
	return &c
}

// Label names a field as the form shows it.
func (f *Form) Label(field Field) string {
	switch field {
	case FieldDate:
		return "Date"
	case FieldDetails:
		return "Details"
	case FieldMethod:
		if f.kind == PageTransfer {
			return "From"
		}
		return "Method"
	case FieldToMethod:
		return "To"
	case FieldAmount:
		return "Amount"
	case FieldType:
		return "Type"
	case FieldTags:
		return "Tags"
	}
	return ""
}

func (f *Form) moveCursor(delta int) {
	f.Cursor = clamp(f.Cursor+delta, 0, len(f.Fields)-1)
}

func (f *Form) focus(field Field) {
	if i := slices.Index(f.Fields, field); i >= 0 {
		f.Cursor = i
	}
}

// commit validates and normalizes one field. Empty values are accepted
// here; required fields are checked when the whole form is used.
func (f *Form) commit(field Field, methods []string) error {
	raw := strings.TrimSpace(f.Value(field))
	if raw == "" {
		f.Set(field, "")
		return nil
	}
	var out string
	switch field {
	case FieldDate:
		d, err := f.parseDate(raw)
		if err != nil {
			return err
		}
		out = d
	case FieldDetails:
		out = strings.Join(strings.Fields(raw), " ")
	case FieldMethod, FieldToMethod:
		i := slices.IndexFunc(methods, func(m string) bool { return strings.EqualFold(m, raw) })
		if i < 0 {
			return invalid("No transaction method named %q", raw)
		}
		out = methods[i]
	case FieldAmount:
		d, err := money.Eval(raw)
		switch {
		case errors.Is(err, money.ErrDivideByZero):
			return invalid("Amount divides by zero")
		case errors.Is(err, money.ErrTooLarge):
			return invalid("Amount %q is too large", raw)
		case err != nil:
			return invalid("Amount %q is not a number", raw)
		case !d.IsPositive():
			return invalid("Amount must be greater than zero")
		}
		out = d.StringFixed(2)
	case FieldType:
		t, ok := f.parseType(raw)
		if !ok {
			return invalid("Type must be Income or Expense")
		}
		out = t
	case FieldTags:
		out = strings.Join(service.NormalizeTags(raw), ", ")
	}
	f.Set(field, out)
	return nil
}

func (f *Form) parseDate(raw string) (string, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.Format(repository.DateLayout), nil
		}
	}
	if f.kind == PageSearch {
		switch {
		case yearOnly.MatchString(raw):
			return raw, nil
		case yearMonth.MatchString(raw):
			if t, err := time.Parse("2006-1", strings.ReplaceAll(raw, "/", "-")); err == nil {
				return t.Format("2006-01"), nil
			}
		}
		return "", invalid("Date %q should look like 2024, 2024-05 or 2024-05-17", raw)
	}
	return "", invalid("Date %q should look like 2024-05-17", raw)
}

func (f *Form) parseType(raw string) (string, bool) {
	options := []string{typeIncome, typeExpense}
	if f.kind == PageSearch {
		options = append(options, typeTransfer)
	}
	for _, o := range options {
		if strings.HasPrefix(strings.ToLower(o), strings.ToLower(raw)) {
			return o, true
		}
	}
	return "", false
}

// step nudges the current field. Positive delta moves dates and amounts up
// and lists toward their first option.
func (f *Form) step(delta int, methods []string, today time.Time) {
	field := f.Current()
	raw := strings.TrimSpace(f.Value(field))
	switch field {
	case FieldDate:
		d := today
		for _, layout := range dateLayouts {
			if t, err := time.Parse(layout, raw); err == nil {
				d = t
				break
			}
		}
		if raw == "" {
			delta = 0
		}
		f.Set(field, d.AddDate(0, 0, delta).Format(repository.DateLayout))
	case FieldAmount:
		cents, err := money.ParseCents(raw)
		if err != nil {
			cents = 0
		}
		next := cents + int64(delta)*100
		if delta > 0 && next < cents {
			next = cents
		}
		f.Set(field, money.FromCents(max(next, 0)).StringFixed(2))
	case FieldType:
		options := []string{typeIncome, typeExpense}
		if f.kind == PageSearch {
			options = []string{"", typeIncome, typeExpense, typeTransfer}
		}
		f.Set(field, options[stepIndex(options, raw, -delta)])
	case FieldMethod, FieldToMethod:
		if len(methods) > 0 {
			f.Set(field, methods[stepIndex(methods, raw, -delta)])
		}
	}
}

// stepIndex moves from the option matching current by delta, clamped. An
// unknown current value lands on the first option.
func stepIndex(options []string, current string, delta int) int {
	i := slices.IndexFunc(options, func(o string) bool { return strings.EqualFold(o, current) })
	if i < 0 {
		return 0
	}
	return clamp(i+delta, 0, len(options)-1)
}

// commitAll commits every field, focusing the first that fails.
func (f *Form) commitAll(methods []string) error {
	for i, field := range f.Fields {
		if err := f.commit(field, methods); err != nil {
			f.Cursor = i
			return err
		}
	}
	return nil
}

func (f *Form) require(fields ...Field) error {
	for _, field := range fields {
		if f.Value(field) == "" {
			f.focus(field)
			return invalid("%s is required", f.Label(field))
		}
	}
	return nil
}

// txInput validates the form as a new or edited transaction.
func (f *Form) txInput(methods []string) (service.TxInput, error) {
	if err := f.commitAll(methods); err != nil {
		return service.TxInput{}, err
	}
	required := []Field{FieldDate, FieldMethod, FieldAmount, FieldType}
	if f.kind == PageTransfer {
		required = []Field{FieldDate, FieldMethod, FieldToMethod, FieldAmount}
	}
	if err := f.require(required...); err != nil {
		return service.TxInput{}, err
	}
	in := service.TxInput{
		Details: f.Value(FieldDetails),
		Method:  f.Value(FieldMethod),
		Type:    txTypes[f.Value(FieldType)],
		Tags:    splitTagList(f.Value(FieldTags)),
	}
	in.Date, _ = time.Parse(repository.DateLayout, f.Value(FieldDate))
	in.AmountCents, _ = money.ParseCents(f.Value(FieldAmount))
	if f.kind == PageTransfer {
		in.Type = repository.TxTransfer
		in.ToMethod = f.Value(FieldToMethod)
		if strings.EqualFold(in.Method, in.ToMethod) {
			f.focus(FieldToMethod)
			return service.TxInput{}, invalid("From and To must be different methods")
		}
	}
	return in, nil
}

// searchFilter validates the form as search criteria. Every field is optional.
func (f *Form) searchFilter(methods []string) (service.SearchFilter, error) {
	if err := f.commitAll(methods); err != nil {
		return service.SearchFilter{}, err
	}
	filter := service.SearchFilter{
		DatePrefix: f.Value(FieldDate),
		Details:    f.Value(FieldDetails),
		Method:     f.Value(FieldMethod),
		Type:       txTypes[f.Value(FieldType)],
		Tags:       splitTagList(f.Value(FieldTags)),
	}
	if a := f.Value(FieldAmount); a != "" {
		filter.AmountCents, _ = money.ParseCents(a)
	}
	return filter, nil
}

// load fills the form from a stored transaction.
func (f *Form) load(tx repository.Transaction, methodName func(id string) string) {
	f.Set(FieldDate, tx.Date.Format(repository.DateLayout))
	f.Set(FieldDetails, tx.Details)
	f.Set(FieldMethod, methodName(tx.MethodID))
	if tx.ToMethodID != nil {
		f.Set(FieldToMethod, methodName(*tx.ToMethodID))
	}
	f.Set(FieldAmount, money.FromCents(tx.AmountCents).StringFixed(2))
	for label, t := range txTypes {
		if t == tx.Type {
			f.Set(FieldType, label)
		}
	}
	f.Set(FieldTags, strings.Join(tx.Tags, ", "))
}

func splitTagList(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, ", ")
}
