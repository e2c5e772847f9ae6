package store

// Store binds the record operations to one file path.
type Store struct {
	path string
}

// New returns a Store for the file at path.
func New(path string) *Store {
	return &Store{path: path}
}

// Exists reports whether the backing file exists.
func (s *Store) Exists() bool { return Exists(s.path) }

// Create makes the backing file if it is absent.
func (s *Store) Create() error { return Create(s.path) }

// Load reads the record from the backing file.
func (s *Store) Load() (Record, error) { return Load(s.path) }

// Save overwrites the backing file with rec.
func (s *Store) Save(rec Record) error { return Save(s.path, rec) }
