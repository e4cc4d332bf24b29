/*
Copyright © 2025 Rebake Contributors
SPDX-License-Identifier: BSD-3-Clause
*/
package credential

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/chainguard-dev/clog"
	"github.com/zalando/go-keyring"
	"gopkg.in/yaml.v3"
)

// KeyringService is the OS keyring service secret keys are stored under
const KeyringService = "rebake"

// Account is the non-secret part of an account as it appears in the accounts file
type Account struct {
	AccessKeyID string `yaml:"access_key_id,omitempty"`
	Region      string `yaml:"region"`
	Profile     string `yaml:"profile,omitempty"`
}

// Entry is a listed account
type Entry struct {
	ID string
	Account
}

type accountsFile struct {
	Accounts map[string]*Account `yaml:"accounts"`
}

// Store keeps account metadata in a YAML file and secret keys in the OS keyring
type Store struct {
	path string
	mu   sync.Mutex
}

var _ Resolver = (*Store)(nil)

// NewStore creates a store backed by the accounts file at path
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Path returns the accounts file location
func (s *Store) Path() string {
	return s.path
}

// Resolve returns the credential for accountID, or an error wrapping ErrNotFound
func (s *Store) Resolve(ctx context.Context, accountID string) (*Credential, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	accounts, err := s.load()
	if err != nil {
		return nil, err
	}

	account, ok := accounts.Accounts[accountID]
	if !ok || account == nil {
		return nil, fmt.Errorf("%w for account %s", ErrNotFound, accountID)
	}

	cred := &Credential{
		AccountID: accountID,
		Region:    account.Region,
	}

	if account.Profile != "" {
		cred.Profile = account.Profile
		return cred, nil
	}

	secret, err := keyring.Get(KeyringService, accountID)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return nil, fmt.Errorf("%w for account %s: no secret key in keyring", ErrNotFound, accountID)
		}
		return nil, fmt.Errorf("failed to read secret key for account %s: %w", accountID, err)
	}

	cred.AccessKeyID = account.AccessKeyID
	cred.SecretAccessKey = secret

	clog.FromContext(ctx).Debug("resolved credential", "account", accountID, "region", cred.Region)
	return cred, nil
}

// Add stores an account, replacing any existing one with the same id.
// The secret is written to the keyring unless the account uses a profile.
func (s *Store) Add(ctx context.Context, accountID string, account Account, secret string) error {
	if err := validateAccount(accountID, account, secret); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	accounts, err := s.loadOrEmpty()
	if err != nil {
		return err
	}

	if account.Profile == "" {
		if err := keyring.Set(KeyringService, accountID, secret); err != nil {
			return fmt.Errorf("failed to store secret key for account %s: %w", accountID, err)
		}
	} else {
		// A stale secret from a previous key-based entry is no longer needed
		_ = deleteSecret(accountID)
	}

	stored := account
	accounts.Accounts[accountID] = &stored

	if err := s.save(accounts); err != nil {
		return err
	}

	clog.FromContext(ctx).Info("account stored", "account", accountID, "file", s.path)
	return nil
}

// Remove deletes an account and its secret key
func (s *Store) Remove(ctx context.Context, accountID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	accounts, err := s.load()
	if err != nil {
		return err
	}

	if _, ok := accounts.Accounts[accountID]; !ok {
		return fmt.Errorf("%w for account %s", ErrNotFound, accountID)
	}
	delete(accounts.Accounts, accountID)

	if err := deleteSecret(accountID); err != nil {
		return fmt.Errorf("failed to remove secret key for account %s: %w", accountID, err)
	}

	if err := s.save(accounts); err != nil {
		return err
	}

	clog.FromContext(ctx).Info("account removed", "account", accountID)
	return nil
}

// List returns every stored account ordered by id
func (s *Store) List(ctx context.Context) ([]Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	accounts, err := s.loadOrEmpty()
	if err != nil {
		return nil, err
	}

	entries := make([]Entry, 0, len(accounts.Accounts))
	for id, account := range accounts.Accounts {
		if account == nil {
			continue
		}
		entries = append(entries, Entry{ID: id, Account: *account})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].ID < entries[j].ID })

	return entries, nil
}

// load reads the accounts file; a missing file means no account is known
func (s *Store) load() (*accountsFile, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: accounts file %s does not exist", ErrNotFound, s.path)
		}
		return nil, fmt.Errorf("failed to read accounts file '%s': %w", s.path, err)
	}

	var accounts accountsFile
	if err := yaml.Unmarshal(data, &accounts); err != nil {
		return nil, fmt.Errorf("failed to parse accounts file '%s': %w", s.path, err)
	}
	if accounts.Accounts == nil {
		accounts.Accounts = make(map[string]*Account)
	}

	return &accounts, nil
}

func (s *Store) loadOrEmpty() (*accountsFile, error) {
	accounts, err := s.load()
	if errors.Is(err, ErrNotFound) {
		return &accountsFile{Accounts: make(map[string]*Account)}, nil
	}
	return accounts, err
}

func (s *Store) save(accounts *accountsFile) error {
	data, err := yaml.Marshal(accounts)
	if err != nil {
		return fmt.Errorf("failed to encode accounts: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("failed to create directory for '%s': %w", s.path, err)
	}

	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write accounts file '%s': %w", s.path, err)
	}

	return nil
}

func deleteSecret(accountID string) error {
	err := keyring.Delete(KeyringService, accountID)
	if errors.Is(err, keyring.ErrNotFound) {
		return nil
	}
	return err
}

func validateAccount(accountID string, account Account, secret string) error {
	if accountID == "" {
		return fmt.Errorf("account id cannot be empty")
	}
	if account.Region == "" {
		return fmt.Errorf("account %s: region is required", accountID)
	}
	if account.Profile != "" {
		if account.AccessKeyID != "" {
			return fmt.Errorf("account %s: profile and access key id are mutually exclusive", accountID)
		}
		return nil
	}
	if account.AccessKeyID == "" || secret == "" {
		return fmt.Errorf("account %s: access key id and secret access key are required without a profile", accountID)
	}
	return nil
}
