package vault

const (
	selectByNameSQL = `SELECT account_id, name, login, password, note FROM vault
		WHERE name = ? ORDER BY account_id ASC`
	selectByLoginSQL = `SELECT account_id, name, login, password, note FROM vault
		WHERE login = ? ORDER BY account_id ASC`
)

// SelectByName returns every record whose name equals name exactly, in id order.
// No match yields an empty, non-nil slice and an audit warning.
func (s *Store) SelectByName(name string) ([]Record, error) {
	return s.selectBy("select_by_name", FieldName, selectByNameSQL, name)
}

// SelectByLogin returns every record whose login equals login exactly, in id order.
// No match yields an empty, non-nil slice and an audit warning.
func (s *Store) SelectByLogin(login string) ([]Record, error) {
	return s.selectBy("select_by_login", FieldLogin, selectByLoginSQL, login)
}

func (s *Store) selectBy(op, field, query, value string) ([]Record, error) {
	db, err := s.connect(false)
	if err != nil {
		return nil, backingErr(op, s.path, err)
	}
	defer db.Close()

	records := []Record{}
	if err := db.Select(&records, query, value); err != nil {
		return nil, backingErr(op, s.path, err)
	}

	if len(records) == 0 {
		s.audit.Warnf("Row with %s '%s' doesn't exist in table", field, value)
	}
	return records, nil
}
