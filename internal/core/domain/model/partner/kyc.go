package partner

import (
	"strings"
	"time"
)

// KYCMethod names how a partner's identity was verified.
type KYCMethod string

const (
	KYCDigiLocker     KYCMethod = "digilocker"
	KYCManual         KYCMethod = "manual"
	KYCDigiLockerDemo KYCMethod = "digilocker_demo"
)

// KYCDocument is metadata about one submitted identity document.
type KYCDocument struct {
	Type   string
	Status string
	ID     string
	URL    string
}

// KYC is the verification record attached to a partner profile. It is maintained by the
// verification back office and read-only for this service.
type KYC struct {
	Verified     bool
	VerifiedAt   *time.Time
	Method       KYCMethod
	AadharNumber string
	Documents    []KYCDocument
}

// MaskAadhar keeps only the last four digits of an identity number.
func MaskAadhar(number string) string {
	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, number)
	if len(digits) <= 4 {
		return digits
	}
	return strings.Repeat("X", len(digits)-4) + digits[len(digits)-4:]
}

// Masked returns a copy safe to hand to clients.
func (k KYC) Masked() KYC {
	masked := k
	masked.AadharNumber = MaskAadhar(k.AadharNumber)
	masked.Documents = append([]KYCDocument(nil), k.Documents...)
	return masked
}
