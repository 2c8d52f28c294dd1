package security

import (
	"encoding/base64"
	"io/ioutil"
	"strings"

	"github.com/go-home-io/garage/plugins/common"
	"github.com/go-home-io/garage/providers"
	"golang.org/x/crypto/bcrypt"
)

// Implements basic auth user storage.
type basicAuthProvider struct {
	logger          common.ILoggerProvider
	presetPasswords map[string]string
}

// Creates a new basic auth storage.
// Users from config are merged with htpasswd file, generated with -B option.
func newBasicAuthProvider(logger common.ILoggerProvider, users []*providers.SecUser, file string) *basicAuthProvider {
	b := &basicAuthProvider{
		logger:          logger,
		presetPasswords: make(map[string]string),
	}

	if "" != file && !b.readFile(file) {
		b.logger.Debug("Users file is not found", common.LogFileToken, file)
	}

	for _, v := range users {
		b.presetPasswords[v.Name] = v.Password
	}

	return b
}

// Returns number of known users.
func (b *basicAuthProvider) count() int {
	return len(b.presetPasswords)
}

// Returns user and password from basic auth header.
func (b *basicAuthProvider) credentials(headers map[string][]string) (string, string, error) {
	var auth []string

	for k, v := range headers {
		if k != "Authorization" {
			continue
		}

		if 1 != len(v) {
			continue
		}

		auth = strings.SplitN(v[0], " ", 2)
		break
	}

	if 2 != len(auth) || "Basic" != auth[0] {
		return "", "", &ErrNoHeader{}
	}

	payload, err := base64.StdEncoding.DecodeString(auth[1])
	if err != nil {
		return "", "", &ErrIncorrectHeader{}
	}

	pair := strings.SplitN(string(payload), ":", 2)
	if 2 != len(pair) {
		return "", "", &ErrCorruptedHeader{}
	}

	return pair[0], pair[1], nil
}

// Authorize validates basic auth header against known users.
func (b *basicAuthProvider) Authorize(headers map[string][]string) (string, error) {
	usr, pwd, err := b.credentials(headers)
	if err != nil {
		b.logger.Warn("Failed to read basic auth header", common.LogErrorToken, err.Error())
		return "", err
	}

	hash, ok := b.presetPasswords[usr]
	if ok && bcrypt.CompareHashAndPassword([]byte(hash), []byte(pwd)) == nil {
		return usr, nil
	}

	b.logger.Warn("User is unauthorized", common.LogUserNameToken, usr)
	return "", &ErrUserNotFound{User: usr}
}

// Reads htpasswd file.
func (b *basicAuthProvider) readFile(name string) bool {
	bytes, err := ioutil.ReadFile(name)
	if err != nil {
		return false
	}

	lines := strings.Split(string(bytes), "\n")
	for _, v := range lines {
		v = strings.Trim(v, " \r")
		if 0 == len(v) {
			continue
		}

		parts := strings.Split(v, ":")
		if 2 != len(parts) {
			continue
		}

		b.presetPasswords[parts[0]] = parts[1]
	}

	return true
}
