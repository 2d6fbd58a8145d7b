package termengine

import (
	"encoding/base64"
	"strings"
)

// User variables are the OSC 1337 SetUserVar store: hosts publish
// key/value state (current command, git branch, ...) that an embedding
// application reads back out of band.

// SetUserVar stores a user variable, passing through the middleware hook.
func (t *Terminal) SetUserVar(name, value string) {
	if t.middleware != nil && t.middleware.SetUserVar != nil {
		t.middleware.SetUserVar(name, value, t.setUserVarInternal)
		return
	}
	t.setUserVarInternal(name, value)
}

func (t *Terminal) setUserVarInternal(name, value string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.userVars == nil {
		t.userVars = make(map[string]string)
	}
	t.userVars[name] = value
}

// GetUserVar returns the value of a user variable, or "" when unset.
func (t *Terminal) GetUserVar(name string) string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.userVars[name]
}

// GetUserVars returns a copy of all user variables.
func (t *Terminal) GetUserVars() map[string]string {
	t.mu.RLock()
	defer t.mu.RUnlock()

	vars := make(map[string]string, len(t.userVars))
	for k, v := range t.userVars {
		vars[k] = v
	}
	return vars
}

// ClearUserVars removes all user variables.
func (t *Terminal) ClearUserVars() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.userVars = nil
}

// handleSetUserVar parses the OSC 1337 SetUserVar argument
// ("NAME=BASE64_VALUE"); malformed base64 leaves the store untouched.
func (t *Terminal) handleSetUserVar(arg string) {
	eq := strings.IndexByte(arg, '=')
	if eq <= 0 {
		return
	}
	name, encoded := arg[:eq], arg[eq+1:]

	value, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return
	}
	t.SetUserVar(name, string(value))
}
