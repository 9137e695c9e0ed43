// Package auth provides the flat-file credential store and the cookie
// session layer used to gate the dashboard.
package auth

import (
	"encoding/json"
	"fmt"
	"os"

	"golang.org/x/crypto/bcrypt"
)

// Roles a credential record may carry. Any other value supplied at
// registration time is coerced to RoleCustomerAdmin.
const (
	RoleAdmin         = "admin"
	RoleCustomerAdmin = "customer_admin"
)

// Record is a stored credential. Two on-disk formats exist: the current
// object format {"password": <bcrypt hash>, "role": <role>} and a legacy
// bare-hash string left behind by early deployments. Legacy records are
// rewritten to the current format (with role=admin) on the first successful
// password check.
type Record struct {
	Hash   string
	Role   string
	Legacy bool
}

// UnmarshalJSON accepts both the current object format and the legacy
// bare-hash string format.
func (r *Record) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		r.Hash = s
		r.Role = ""
		r.Legacy = true
		return nil
	}

	var cur struct {
		Password string `json:"password"`
		Role     string `json:"role"`
	}
	if err := json.Unmarshal(data, &cur); err != nil {
		return fmt.Errorf("auth: malformed credential record: %w", err)
	}
	r.Hash = cur.Password
	r.Role = cur.Role
	r.Legacy = false
	return nil
}

// MarshalJSON always writes the current object format; persisting a store
// is what migrates legacy records for good.
func (r Record) MarshalJSON() ([]byte, error) {
	role := r.Role
	if role == "" {
		role = RoleCustomerAdmin
	}
	return json.Marshal(struct {
		Password string `json:"password"`
		Role     string `json:"role"`
	}{Password: r.Hash, Role: role})
}

// UserStore persists username → credential records in a single JSON file.
//
// Persistence is a whole-file overwrite with no file locking: two concurrent
// writers can clobber each other's changes. Expected write concurrency
// (registration, one-time legacy migration) is near zero, so this is a
// documented limitation rather than a bug to engineer around.
type UserStore struct {
	path string
}

// NewUserStore returns a store backed by the JSON file at path. The file is
// created empty on first access.
func NewUserStore(path string) *UserStore {
	return &UserStore{path: path}
}

// Load returns the full username → record mapping, creating an empty store
// file if none exists yet.
func (s *UserStore) Load() (map[string]Record, error) {
	if _, err := os.Stat(s.path); os.IsNotExist(err) {
		if err := s.save(map[string]Record{}); err != nil {
			return nil, err
		}
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("auth: failed to read user store: %w", err)
	}

	users := make(map[string]Record)
	if err := json.Unmarshal(data, &users); err != nil {
		return nil, fmt.Errorf("auth: failed to parse user store: %w", err)
	}
	return users, nil
}

// Has reports whether a username exists in the store.
func (s *UserStore) Has(username string) (bool, error) {
	users, err := s.Load()
	if err != nil {
		return false, err
	}
	_, ok := users[username]
	return ok, nil
}

// Add registers a new user. It returns false (and no error) when the
// username is already taken. Roles outside {admin, customer_admin} are
// stored as customer_admin.
func (s *UserStore) Add(username, password, role string) (bool, error) {
	users, err := s.Load()
	if err != nil {
		return false, err
	}
	if _, exists := users[username]; exists {
		return false, nil
	}

	if role != RoleAdmin && role != RoleCustomerAdmin {
		role = RoleCustomerAdmin
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return false, fmt.Errorf("auth: failed to hash password: %w", err)
	}

	users[username] = Record{Hash: string(hash), Role: role}
	if err := s.save(users); err != nil {
		return false, err
	}
	return true, nil
}

// Check verifies a username/password pair and returns the user's role on
// success. A legacy bare-hash record that verifies is rewritten in place to
// the current format with role=admin before returning.
func (s *UserStore) Check(username, password string) (bool, string, error) {
	users, err := s.Load()
	if err != nil {
		return false, "", err
	}

	rec, ok := users[username]
	if !ok {
		return false, "", nil
	}

	if bcrypt.CompareHashAndPassword([]byte(rec.Hash), []byte(password)) != nil {
		return false, "", nil
	}

	if rec.Legacy {
		users[username] = Record{Hash: rec.Hash, Role: RoleAdmin}
		if err := s.save(users); err != nil {
			return false, "", err
		}
		return true, RoleAdmin, nil
	}

	role := rec.Role
	if role == "" {
		role = RoleCustomerAdmin
	}
	return true, role, nil
}

// save overwrites the whole store file.
func (s *UserStore) save(users map[string]Record) error {
	data, err := json.MarshalIndent(users, "", "    ")
	if err != nil {
		return fmt.Errorf("auth: failed to encode user store: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		return fmt.Errorf("auth: failed to write user store: %w", err)
	}
	return nil
}
