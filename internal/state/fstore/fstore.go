package fstore

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/huddle-io/huddle/internal/state"
	"github.com/huddle-io/huddle/internal/util"
	"github.com/natefinch/atomic"
)

type store struct {
	File        string
	credentials state.Credentials
	mu          sync.RWMutex
}

var _ state.CredentialStore = &store{}

// New returns a credential store backed by a JSON file.
func New(file string) state.CredentialStore {
	return &store{
		File: file,
	}
}

func (fs *store) String() string {
	return fmt.Sprintf("file '%s'", fs.File)
}

func (fs *store) Credentials() state.Credentials {
	fs.mu.RLock()
	defer fs.mu.RUnlock()
	return fs.credentials
}

func (fs *store) SetCredentials(c state.Credentials) {
	fs.mu.Lock()
	fs.credentials = c
	fs.mu.Unlock()
}

// Load will read the credentials from the file, a missing file yields empty credentials.
func (fs *store) Load() error {
	credentials := state.Credentials{}
	if _, err := os.Stat(fs.File); err != nil {
		fs.SetCredentials(credentials)
		return nil
	}
	f, err := os.Open(fs.File)
	if err != nil {
		return err
	}
	defer util.IgnoreError(f.Close)
	err = json.NewDecoder(f).Decode(&credentials)
	if err != nil {
		return err
	}

	fs.SetCredentials(credentials)
	return nil
}

// Store saves the credentials to the file
func (fs *store) Store() error {
	// Create the path to the file if it doesn't exist.
	dir := filepath.Dir(fs.File)
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		if err := os.MkdirAll(dir, 0700); err != nil {
			return err
		}
	}

	buf := bytes.NewBuffer(nil)
	enc := json.NewEncoder(buf)
	enc.SetIndent("", "  ")

	fs.mu.RLock()
	defer fs.mu.RUnlock()

	err := enc.Encode(fs.credentials)
	if err != nil {
		return err
	}
	return atomic.WriteFile(fs.File, buf)
}
