package vault

const (
	insertSQL         = `INSERT INTO vault (name, login, password) VALUES (?, ?, ?)`
	insertWithNoteSQL = `INSERT INTO vault (name, login, password, note) VALUES (?, ?, ?, ?)`
)

// InsertFields inserts a record described by the map form of the configuration.
// A missing required key performs no write and returns a CodeFailed result
// with a nil error.
func (s *Store) InsertFields(f Fields) (Result, error) {
	e, err := f.Entry()
	if err != nil {
		s.audit.Errorf("No arguments were passed")
		s.diag.Debug().Err(err).Str("store", s.path).Msg("insert rejected")
		return failed, nil
	}
	return s.Insert(e)
}

// Insert appends a record and commits it before returning. Values are bound as
// parameters and stored verbatim. Faults in the backing store return a
// CodeFailed result and a *BackingError.
func (s *Store) Insert(e Entry) (Result, error) {
	size := len(e.Name) + len(e.Login) + len(e.Password)
	query, args := insertSQL, []any{e.Name, e.Login, e.Password}
	if e.Note != nil {
		size += len(*e.Note)
		query, args = insertWithNoteSQL, append(args, *e.Note)
	}

	if err := s.checkDiskSpaceForWrite(size); err != nil {
		return s.insertFailed(err)
	}

	db, err := s.connect(true)
	if err != nil {
		return s.insertFailed(err)
	}
	defer db.Close()

	tx, err := db.Beginx()
	if err != nil {
		return s.insertFailed(err)
	}
	defer tx.Rollback()

	res, err := tx.Exec(query, args...)
	if err != nil {
		return s.insertFailed(err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return s.insertFailed(err)
	}

	if err := tx.Commit(); err != nil {
		return s.insertFailed(err)
	}

	s.diag.Debug().Str("store", s.path).Int64("id", id).Msg("record inserted")
	return Result{Code: CodeOK, ID: id}, nil
}

func (s *Store) insertFailed(err error) (Result, error) {
	s.audit.Errorf("Insert into table '%s' failed: %v", TableName, err)
	return failed, backingErr("insert", s.path, err)
}
