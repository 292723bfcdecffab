// Package auth verifies users against a flat credential file and
// issues cookie sessions. Credentials are re-read per verification so
// no mutable user map is shared across requests.
package auth

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/spf13/afero"
	"golang.org/x/crypto/bcrypt"
)

// Credential file format: one "username:bcrypt-hash" per line, blank
// lines and '#' comments ignored.

var usernameRe = regexp.MustCompile(`^[A-Za-z0-9_-]{3,64}$`)

var (
	ErrUserExists   = errors.New("username already exists")
	ErrBadUsername  = errors.New("username must be 3-64 characters of letters, digits, hyphen or underscore")
	ErrWeakPassword = errors.New("password must be at least 6 characters")
)

// Store reads and appends the credential file.
type Store struct {
	fs   afero.Fs
	path string
}

func NewStore(fs afero.Fs, path string) *Store {
	return &Store{fs: fs, path: path}
}

// Verify checks a username/password pair. Unknown users and wrong
// passwords are indistinguishable to the caller.
func (s *Store) Verify(username, password string) bool {
	creds, err := s.load()
	if err != nil {
		return false
	}
	hash, ok := creds[username]
	if !ok {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// Register validates and appends a new user. Duplicate usernames are
// refused; the file is created on first use.
func (s *Store) Register(username, password string) error {
	if !usernameRe.MatchString(username) {
		return ErrBadUsername
	}
	if len(password) < 6 {
		return ErrWeakPassword
	}

	creds, err := s.load()
	if err != nil {
		return err
	}
	if _, exists := creds[username]; exists {
		return ErrUserExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	f, err := s.fs.OpenFile(s.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o600)
	if err != nil {
		return err
	}
	defer f.Close()

	_, err = fmt.Fprintf(f, "%s:%s\n", username, hash)
	return err
}

// Usernames lists registered users in file order.
func (s *Store) Usernames() ([]string, error) {
	f, err := s.fs.Open(s.path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var names []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		if name, _, ok := parseLine(scanner.Text()); ok {
			names = append(names, name)
		}
	}
	return names, scanner.Err()
}

func (s *Store) load() (map[string]string, error) {
	f, err := s.fs.Open(s.path)
	if os.IsNotExist(err) {
		return map[string]string{}, nil
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()

	creds := make(map[string]string)
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		if name, hash, ok := parseLine(scanner.Text()); ok {
			creds[name] = hash
		}
	}
	return creds, scanner.Err()
}

func parseLine(line string) (username, hash string, ok bool) {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, "#") {
		return "", "", false
	}
	parts := strings.SplitN(line, ":", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", false
	}
	return parts[0], parts[1], true
}
