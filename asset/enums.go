package asset

// Kind of stored asset. File kinds carry a locator, content kinds carry HTML.
// ENUM(image, audio, video, page, table)
type Kind string

// IsFile reports whether assets of this kind are backed by an external file.
func (k Kind) IsFile() bool {
	return k == KindImage || k == KindAudio || k == KindVideo
}

// IsContent reports whether assets of this kind host HTML inline.
func (k Kind) IsContent() bool {
	return k == KindPage || k == KindTable
}
