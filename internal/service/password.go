package service

import (
	"bufio"
	_ "embed"
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/crypto/bcrypt"
)

const (
	minPasswordLength = 8
	maxSimilarity     = 0.7

	msgPasswordTooCommon  = "This password is too common."
	msgPasswordNumeric    = "This password is entirely numeric."
	msgPasswordsDontMatch = "Passwords don't match."
)

//go:embed common_passwords.txt
var commonPasswordsRaw string

var (
	commonPasswords = loadCommonPasswords(commonPasswordsRaw)
	nonWord         = regexp.MustCompile(`\W+`)
)

func loadCommonPasswords(raw string) map[string]struct{} {
	set := make(map[string]struct{})
	sc := bufio.NewScanner(strings.NewReader(raw))
	for sc.Scan() {
		if p := strings.TrimSpace(sc.Text()); p != "" {
			set[strings.ToLower(p)] = struct{}{}
		}
	}
	return set
}

// userAttribute is a piece of account data a password must not resemble.
type userAttribute struct {
	name  string
	value string
}

// passwordProblems returns every strength rule the password breaks.
// Similarity is only checked against the given attributes.
func passwordProblems(password string, attrs []userAttribute) []string {
	var problems []string

	if n := len([]rune(password)); n < minPasswordLength {
		problems = append(problems, fmt.Sprintf(
			"This password is too short. It must contain at least %d characters.", minPasswordLength))
	}
	if attr, ok := similarAttribute(password, attrs); ok {
		problems = append(problems, fmt.Sprintf("The password is too similar to the %s.", attr))
	}
	if _, ok := commonPasswords[strings.ToLower(strings.TrimSpace(password))]; ok {
		problems = append(problems, msgPasswordTooCommon)
	}
	if isNumeric(password) {
		problems = append(problems, msgPasswordNumeric)
	}

	return problems
}

func similarAttribute(password string, attrs []userAttribute) (string, bool) {
	pwd := strings.ToLower(password)
	for _, attr := range attrs {
		if attr.value == "" {
			continue
		}
		value := strings.ToLower(attr.value)
		parts := append(nonWord.Split(value, -1), value)
		for _, part := range parts {
			if part == "" || exceedsLengthRatio(pwd, part) {
				continue
			}
			if quickRatio(pwd, part) >= maxSimilarity {
				return attr.name, true
			}
		}
	}
	return "", false
}

// exceedsLengthRatio reports whether the password is long enough that it
// cannot be similar to value.
func exceedsLengthRatio(password, value string) bool {
	pwdLen, valueLen := len([]rune(password)), len([]rune(value))
	lengthBound := maxSimilarity / 2 * float64(pwdLen)
	return pwdLen >= 10*valueLen && float64(valueLen) < lengthBound
}

// quickRatio is an upper bound on the similarity of a and b: twice the
// number of shared characters divided by the total length.
func quickRatio(a, b string) float64 {
	ra, rb := []rune(a), []rune(b)
	total := len(ra) + len(rb)
	if total == 0 {
		return 1
	}

	avail := make(map[rune]int, len(rb))
	for _, r := range rb {
		avail[r]++
	}
	matches := 0
	for _, r := range ra {
		if avail[r] > 0 {
			avail[r]--
			matches++
		}
	}
	return 2 * float64(matches) / float64(total)
}

func isNumeric(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

func hashPassword(password string, cost int) ([]byte, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}
	return hash, nil
}

func checkPassword(hash []byte, password string) bool {
	return bcrypt.CompareHashAndPassword(hash, []byte(password)) == nil
}
