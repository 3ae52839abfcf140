package auth

import "crypto/subtle"

// Credentials are the single administrator account configured for the
// deployment. PasswordHash, when set, takes precedence over Password.
type Credentials struct {
	Username     string
	Password     string
	PasswordHash string
}

type Verifier struct {
	creds Credentials
}

func NewVerifier(c Credentials) *Verifier {
	return &Verifier{creds: c}
}

// Verify reports whether username and password match the configured
// administrator. An unconfigured verifier rejects everything.
func (v *Verifier) Verify(username, password string) bool {
	if v.creds.Username == "" || (v.creds.Password == "" && v.creds.PasswordHash == "") {
		return false
	}
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(v.creds.Username)) == 1
	var passOK bool
	if v.creds.PasswordHash != "" {
		passOK = CheckPassword(v.creds.PasswordHash, password) == nil
	} else {
		passOK = subtle.ConstantTimeCompare([]byte(password), []byte(v.creds.Password)) == 1
	}
	return userOK && passOK
}
