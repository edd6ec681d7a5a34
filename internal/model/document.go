package model

// SchemaVersion is the snapshot document version. Stores use it to
// migrate older documents on load.
const SchemaVersion = 1

// Document is the whole persisted snapshot: every todo and person,
// written and read as one atomic unit.
type Document struct {
	SchemaVersion int                `json:"schema_version"`
	Todos         map[string]*Todo   `json:"todos"`
	Persons       map[string]*Person `json:"persons"`
}

// NewDocument returns an empty document at the current schema version.
func NewDocument() *Document {
	return &Document{
		SchemaVersion: SchemaVersion,
		Todos:         make(map[string]*Todo),
		Persons:       make(map[string]*Person),
	}
}
