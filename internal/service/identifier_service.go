package service

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"

	appErrors "github.com/noah-isme/sma-admin-console/pkg/errors"
)

const (
	upperLetters = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	mixedLetters = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"
	digits       = "0123456789"

	defaultMaxAttempts = 1000
)

type randomSource interface {
	Intn(n int) (int, error)
}

type cryptoSource struct{}

func (cryptoSource) Intn(n int) (int, error) {
	v, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		return 0, err
	}
	return int(v.Int64()), nil
}

// IdentifierGenerator issues student IDs ([A-Z] + 7 digits), teacher IDs
// ("T" + 6 digits) and credential passwords (2 letters + 6 digits).
type IdentifierGenerator struct {
	rnd         randomSource
	maxAttempts int
}

// NewIdentifierGenerator builds a generator backed by crypto/rand. maxAttempts
// bounds the retry loop used to dodge existing identifiers.
func NewIdentifierGenerator(maxAttempts int) *IdentifierGenerator {
	return newIdentifierGenerator(cryptoSource{}, maxAttempts)
}

func newIdentifierGenerator(rnd randomSource, maxAttempts int) *IdentifierGenerator {
	if maxAttempts <= 0 {
		maxAttempts = defaultMaxAttempts
	}
	return &IdentifierGenerator{rnd: rnd, maxAttempts: maxAttempts}
}

// StudentID returns an identifier absent from existing.
func (g *IdentifierGenerator) StudentID(existing map[string]struct{}) (string, error) {
	return g.unique(existing, func() (string, error) {
		letter, err := g.pick(upperLetters, 1)
		if err != nil {
			return "", err
		}
		num, err := g.pick(digits, 7)
		if err != nil {
			return "", err
		}
		return letter + num, nil
	})
}

// TeacherID returns an identifier absent from existing. A nil set skips the
// uniqueness check and returns the first sample.
func (g *IdentifierGenerator) TeacherID(existing map[string]struct{}) (string, error) {
	return g.unique(existing, func() (string, error) {
		num, err := g.pick(digits, 6)
		if err != nil {
			return "", err
		}
		return "T" + num, nil
	})
}

// Password returns two mixed-case letters followed by six digits.
func (g *IdentifierGenerator) Password() (string, error) {
	letters, err := g.pick(mixedLetters, 2)
	if err != nil {
		return "", err
	}
	num, err := g.pick(digits, 6)
	if err != nil {
		return "", err
	}
	return letters + num, nil
}

func (g *IdentifierGenerator) unique(existing map[string]struct{}, sample func() (string, error)) (string, error) {
	for attempt := 0; attempt < g.maxAttempts; attempt++ {
		candidate, err := sample()
		if err != nil {
			return "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to draw identifier")
		}
		if existing == nil {
			return candidate, nil
		}
		if _, taken := existing[candidate]; !taken {
			return candidate, nil
		}
	}
	return "", appErrors.Clone(appErrors.ErrIDSpaceExhausted,
		fmt.Sprintf("no free identifier after %d attempts", g.maxAttempts))
}

func (g *IdentifierGenerator) pick(alphabet string, n int) (string, error) {
	var b strings.Builder
	b.Grow(n)
	for i := 0; i < n; i++ {
		idx, err := g.rnd.Intn(len(alphabet))
		if err != nil {
			return "", err
		}
		b.WriteByte(alphabet[idx])
	}
	return b.String(), nil
}
