package editor

import (
	"math"
	"strings"
)

// CompletionPercentage scores the edit state out of eight checks: four
// required scalar fields and the first row of each collection.
func (e *Editor) CompletionPercentage() int {
	bad := make(map[string]bool)
	for _, v := range e.Violations() {
		bad[v.Field] = true
	}
	rowOK := func(c CollectionID, sparse bool) bool {
		if sparse {
			return false
		}
		prefix := RowField(c, 0, "")
		for f := range bad {
			if strings.HasPrefix(f, prefix) {
				return false
			}
		}
		return true
	}

	firstAddress, _ := e.addresses.At(0)
	firstBank, _ := e.bankAccounts.At(0)
	firstAttribute, _ := e.attributes.At(0)
	firstCertificate, _ := e.certificates.At(0)

	checks := []bool{
		!bad[FieldCode],
		!bad[FieldFirstName],
		!bad[FieldLastName],
		!bad[FieldJoinedOn],
		rowOK(Addresses, firstAddress.IsSparse()),
		rowOK(BankAccounts, firstBank.IsSparse()),
		rowOK(Attributes, firstAttribute.IsSparse()),
		rowOK(Certificates, firstCertificate.IsSparse()),
	}

	passed := 0
	for _, ok := range checks {
		if ok {
			passed++
		}
	}
	return int(math.Round(float64(passed) * 100 / float64(len(checks))))
}
