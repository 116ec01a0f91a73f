package session

import (
	"encoding/json"
	"os"
	"path/filepath"
)

// State is what the tracker remembers between runs.
type State struct {
	SelectedID   string `json:"selected_id"`
	ShowComments bool   `json:"show_comments"`
}

// File is the session state stored as JSON next to the config.
type File struct {
	State State  `json:"state"`
	Path  string `json:"-"`
	dirty bool
}

// Open reads the session file at path. A missing file yields empty state.
func Open(path string) (*File, error) {
	f := &File{Path: path}

	if _, err := os.Stat(path); err == nil {
		if err := f.Load(); err != nil {
			return nil, err
		}
	}
	return f, nil
}

func (f *File) Load() error {
	r, err := os.Open(f.Path)
	if err != nil {
		return err
	}
	defer r.Close()
	return json.NewDecoder(r).Decode(&f.State)
}

// Save writes the state if it changed since the last load or save.
func (f *File) Save() error {
	if !f.dirty {
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(f.Path), 0700); err != nil {
		return err
	}
	w, err := os.Create(f.Path)
	if err != nil {
		return err
	}
	defer w.Close()

	if err := json.NewEncoder(w).Encode(f.State); err != nil {
		return err
	}
	f.dirty = false
	return nil
}

// Update replaces the state, marking the file dirty only on change.
func (f *File) Update(s State) {
	if f.State != s {
		f.State = s
		f.dirty = true
	}
}
