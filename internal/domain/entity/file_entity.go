package entity

import (
	"encoding/json"
	"time"
)

type FileKind string

const (
	KindFolder FileKind = "folder"
	KindFile   FileKind = "file"
	KindImage  FileKind = "image"
)

// Valid reports whether k is one of the accepted kinds.
func (k FileKind) Valid() bool {
	switch k {
	case KindFolder, KindFile, KindImage:
		return true
	}
	return false
}

// HasContent is false only for folders.
func (k FileKind) HasContent() bool {
	return k == KindFile || k == KindImage
}

// RootParent is the parent sentinel for top-level records.
const RootParent ParentRef = "0"

// ParentRef is either RootParent or the id of a folder.
// It encodes as the number 0 for root and as the id string otherwise.
type ParentRef string

func (p ParentRef) IsRoot() bool {
	return p == "" || p == RootParent
}

func (p ParentRef) MarshalJSON() ([]byte, error) {
	if p.IsRoot() {
		return []byte("0"), nil
	}
	return json.Marshal(string(p))
}

func (p *ParentRef) UnmarshalJSON(b []byte) error {
	var raw any
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	switch v := raw.(type) {
	case nil:
		*p = RootParent
	case float64:
		if v == 0 {
			*p = RootParent
		} else {
			*p = ParentRef(string(b))
		}
	case string:
		if v == "" {
			*p = RootParent
		} else {
			*p = ParentRef(v)
		}
	default:
		*p = ParentRef(string(b))
	}
	return nil
}

// File is a metadata record. LocalPath is empty for folders and is never
// part of the public projection.
type File struct {
	ID        string
	UserID    string
	Name      string
	Kind      FileKind
	ParentID  ParentRef
	IsPublic  bool
	LocalPath string
	CreatedAt time.Time
}

// FileView is the public projection of a File.
type FileView struct {
	ID       string    `json:"id"`
	UserID   string    `json:"userId"`
	Name     string    `json:"name"`
	Kind     FileKind  `json:"type"`
	IsPublic bool      `json:"isPublic"`
	ParentID ParentRef `json:"parentId"`
}

func (f *File) View() FileView {
	parent := f.ParentID
	if parent.IsRoot() {
		parent = RootParent
	}
	return FileView{
		ID:       f.ID,
		UserID:   f.UserID,
		Name:     f.Name,
		Kind:     f.Kind,
		IsPublic: f.IsPublic,
		ParentID: parent,
	}
}

// ThumbnailPath is where the derivative of the given width is stored.
func (f *File) ThumbnailPath(width int) string {
	return ThumbnailPath(f.LocalPath, width)
}
