package constant

const (
	// collaborator access types; READ_ONLY grants see the note but may not
	// change it
	AccessReadWrite = "READ_WRITE"
	AccessReadOnly  = "READ_ONLY"

	// lifecycle views for note listing
	NoteViewActive   = "active"
	NoteViewArchived = "archived"
	NoteViewTrashed  = "trashed"
)
