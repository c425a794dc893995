package token

import (
	"encoding/json"
	"errors"

	"github.com/zalando/go-keyring"

	"github.com/torii-cli/torii/constant"
)

// ErrNotFound is returned when no record or credential has been stored yet.
var ErrNotFound = errors.New("token: not found")

// Store persists credentials and token material for one integration.
//
// Save overwrites the prior record in a single keyring write, so a reader
// never observes partial token state. Clear is idempotent. Storage-layer
// failures are unexpected and surface as plain errors.
type Store interface {
	Load() (Record, error)
	Save(Record) error
	Clear() error

	LoadCredential() (Credential, error)
	SaveCredential(Credential) error
	ClearCredential() error
}

// keyringStore keeps JSON blobs in the system keyring, one entry per
// integration for the record and one for the credential.
type keyringStore struct {
	recordKey     string
	credentialKey string
}

// Keyring returns a Store scoped to the named integration ("anilist", "mangadex").
func Keyring(integration string) Store {
	return &keyringStore{
		recordKey:     integration + "-token",
		credentialKey: integration + "-credential",
	}
}

func (s *keyringStore) Load() (Record, error) {
	var record Record
	err := s.load(s.recordKey, &record)
	return record, err
}

func (s *keyringStore) Save(record Record) error {
	return s.save(s.recordKey, record)
}

func (s *keyringStore) Clear() error {
	return s.clear(s.recordKey)
}

func (s *keyringStore) LoadCredential() (Credential, error) {
	var credential Credential
	err := s.load(s.credentialKey, &credential)
	return credential, err
}

func (s *keyringStore) SaveCredential(credential Credential) error {
	return s.save(s.credentialKey, credential)
}

func (s *keyringStore) ClearCredential() error {
	return s.clear(s.credentialKey)
}

func (s *keyringStore) load(key string, target any) error {
	blob, err := keyring.Get(constant.Torii, key)
	if errors.Is(err, keyring.ErrNotFound) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}
	return json.Unmarshal([]byte(blob), target)
}

func (s *keyringStore) save(key string, value any) error {
	blob, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return keyring.Set(constant.Torii, key, string(blob))
}

func (s *keyringStore) clear(key string) error {
	err := keyring.Delete(constant.Torii, key)
	if errors.Is(err, keyring.ErrNotFound) {
		return nil
	}
	return err
}
