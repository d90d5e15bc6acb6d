package models

// Document is one uploaded resume held in memory for the length of a batch.
type Document struct {
	Filename string `json:"filename"`
	Content  []byte `json:"-"`
}
