package state

import (
	"fmt"
)

// Credentials are kept by huddlectl between runs.
type Credentials struct {
	APIURL string `json:"api-url"`
	Token  string `json:"token,omitempty"`
}

type CredentialStore interface {
	fmt.Stringer
	Load() error
	Store() error
	Credentials() Credentials
	SetCredentials(c Credentials)
}
