package vault

import (
	"fmt"
)

// Insert result codes
const (
	CodeOK     = 0
	CodeFailed = -1
)

// Field keys recognized by Fields
const (
	FieldName     = "name"
	FieldLogin    = "login"
	FieldPassword = "password"
	FieldNote     = "note"
)

// RecordFields is the fixed field order of a Record. Values and the JSON
// encoding follow this order.
var RecordFields = [...]string{"id", "name", "login", "password", "note"}

// Record is one stored credential row
type Record struct {
	ID       int64   `db:"account_id" json:"id"`
	Name     string  `db:"name"       json:"name"`
	Login    string  `db:"login"      json:"login"`
	Password string  `db:"password"   json:"password"`
	Note     *string `db:"note"       json:"note"` // nil when the stored note is NULL
}

// Values returns the record's values in RecordFields order. A NULL note is nil.
func (r Record) Values() []any {
	var note any
	if r.Note != nil {
		note = *r.Note
	}
	return []any{r.ID, r.Name, r.Login, r.Password, note}
}

// Entry is the typed insert configuration. Name, Login and Password are
// always present and stored as given, including "". A nil Note is stored as
// NULL, an empty one as "".
type Entry struct {
	Name     string
	Login    string
	Password string
	Note     *string
}

// Fields is the map form of the insert configuration. Keys other than
// name, login, password and note are ignored.
type Fields map[string]string

// Entry converts f to an Entry. A missing required key yields ErrMissingField;
// a key holding "" is present.
func (f Fields) Entry() (Entry, error) {
	var e Entry
	for _, key := range []string{FieldName, FieldLogin, FieldPassword} {
		if _, ok := f[key]; !ok {
			return Entry{}, fmt.Errorf("%w: %s", ErrMissingField, key)
		}
	}
	e.Name = f[FieldName]
	e.Login = f[FieldLogin]
	e.Password = f[FieldPassword]
	if note, ok := f[FieldNote]; ok {
		e.Note = &note
	}
	return e, nil
}

// Result is the outcome of an insert. Code is CodeOK or CodeFailed; ID is the
// assigned account_id on success.
type Result struct {
	Code int
	ID   int64
}

// OK reports whether the insert succeeded
func (r Result) OK() bool {
	return r.Code == CodeOK
}

var failed = Result{Code: CodeFailed}

// StringPtr returns a pointer to s, for building an Entry with a note
func StringPtr(s string) *string {
	return &s
}
