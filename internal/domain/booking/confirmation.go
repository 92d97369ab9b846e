package booking

import (
	"crypto/rand"
	"errors"
	"io"
	"regexp"
	"time"
)

// 0/O and 1/I are left out so codes survive being read over the phone.
const codeAlphabet = "23456789ABCDEFGHJKLMNPQRSTUVWXYZ"

const codeSuffixLen = 6

var (
	ErrInvalidConfirmationCode = errors.New("invalid confirmation code")
	codePattern                = regexp.MustCompile(`^VR\d{6}-[2-9A-HJ-NP-Z]{6}$`)
)

type ConfirmationCode string

func (c ConfirmationCode) String() string { return string(c) }

func ParseConfirmationCode(s string) (ConfirmationCode, error) {
	if !codePattern.MatchString(s) {
		return "", ErrInvalidConfirmationCode
	}
	return ConfirmationCode(s), nil
}

type CodeGenerator interface {
	Generate(now time.Time) (ConfirmationCode, error)
}

// RandomCodeGenerator produces VRyymmdd-XXXXXX codes. Uniqueness is not guaranteed here;
// the store rejects duplicates and the caller regenerates.
type RandomCodeGenerator struct {
	src io.Reader
}

func NewRandomCodeGenerator() *RandomCodeGenerator {
	return &RandomCodeGenerator{src: rand.Reader}
}

func NewCodeGeneratorFrom(src io.Reader) *RandomCodeGenerator {
	return &RandomCodeGenerator{src: src}
}

func (g *RandomCodeGenerator) Generate(now time.Time) (ConfirmationCode, error) {
	buf := make([]byte, codeSuffixLen)
	if _, err := io.ReadFull(g.src, buf); err != nil {
		return "", err
	}
	suffix := make([]byte, codeSuffixLen)
	for i, b := range buf {
		suffix[i] = codeAlphabet[int(b)%len(codeAlphabet)]
	}
	return ConfirmationCode("VR" + now.UTC().Format("060102") + "-" + string(suffix)), nil
}
