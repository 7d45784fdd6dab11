package editor

import (
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/krktechnologyandservices/GBV/internal/client/models"
)

// Rule is the kind of constraint a field violated.
type Rule string

const (
	RuleRequired  Rule = "required"
	RuleFormat    Rule = "format"
	RuleMaxLength Rule = "max-length"
	RuleRange     Rule = "range"
)

// Scalar field names.
const (
	FieldCode       = "code"
	FieldFirstName  = "firstName"
	FieldMiddleName = "middleName"
	FieldLastName   = "lastName"
	FieldJoinedOn   = "joinedOn"
	FieldNationalID = "nationalId"
	FieldEmail      = "email"
	FieldActive     = "active"
)

// ScalarFields lists the scalar fields in form order.
var ScalarFields = []string{
	FieldCode, FieldFirstName, FieldMiddleName, FieldLastName,
	FieldJoinedOn, FieldNationalID, FieldEmail, FieldActive,
}

// Sub-record field names, per collection.
var rowFields = map[CollectionID][]string{
	Addresses:    {"line1", "line2", "line3", "city", "pincode", "mobile"},
	BankAccounts: {"bankName", "branchName", "accountNo", "routingCode"},
	Attributes:   {"attributeId", "value"},
	Certificates: {"name", "issuer", "issueDate", "verified", "file"},
}

var (
	nationalIDPattern  = regexp.MustCompile(`^[0-9]{12}$`)
	pincodePattern     = regexp.MustCompile(`^[0-9]{6}$`)
	mobilePattern      = regexp.MustCompile(`^[0-9]{10}$`)
	accountNoPattern   = regexp.MustCompile(`^[0-9]{9,18}$`)
	routingCodePattern = regexp.MustCompile(`^[A-Z]{4}0[A-Z0-9]{6}$`)
	emailPattern       = regexp.MustCompile(`^[a-zA-Z0-9.!#$%&'*+/=?^_` + "`" + `{|}~-]+@[a-zA-Z0-9](?:[a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?(?:\.[a-zA-Z0-9](?:[a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?)*$`)
)

// Violation is one failed constraint. Limit is set for max-length.
type Violation struct {
	Field string
	Rule  Rule
	Limit int
}

// Message is the user-facing text for the violation.
func (v Violation) Message() string {
	switch v.Rule {
	case RuleRequired:
		return "This field is required"
	case RuleMaxLength:
		return fmt.Sprintf("Maximum %d characters allowed", v.Limit)
	case RuleRange:
		return "Value is not one of the allowed values"
	case RuleFormat:
		if v.Field == FieldEmail {
			return "Please enter a valid email address"
		}
		return "Invalid format"
	default:
		return "Invalid value"
	}
}

// ValidationError lists every violation found on submit.
type ValidationError struct {
	Violations []Violation
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Violations))
	for _, v := range e.Violations {
		parts = append(parts, fmt.Sprintf("%s (%s)", v.Field, v.Rule))
	}
	return "validation failed: " + strings.Join(parts, ", ")
}

// Has reports whether field violated rule.
func (e *ValidationError) Has(field string, rule Rule) bool {
	for _, v := range e.Violations {
		if v.Field == field && v.Rule == rule {
			return true
		}
	}
	return false
}

// Fields returns the offending field names, without duplicates.
func (e *ValidationError) Fields() []string {
	seen := make(map[string]struct{}, len(e.Violations))
	out := make([]string, 0, len(e.Violations))
	for _, v := range e.Violations {
		if _, ok := seen[v.Field]; ok {
			continue
		}
		seen[v.Field] = struct{}{}
		out = append(out, v.Field)
	}
	return out
}

// RowField builds the path of a sub-record field, e.g. "addresses[0].pincode".
func RowField(c CollectionID, index int, field string) string {
	return fmt.Sprintf("%s[%d].%s", c, index, field)
}

type checker struct {
	out []Violation
}

func (c *checker) required(field, value string) bool {
	if strings.TrimSpace(value) == "" {
		c.out = append(c.out, Violation{Field: field, Rule: RuleRequired})
		return false
	}
	return true
}

func (c *checker) maxLen(field, value string, limit int) {
	if utf8.RuneCountInString(value) > limit {
		c.out = append(c.out, Violation{Field: field, Rule: RuleMaxLength, Limit: limit})
	}
}

// pattern only checks non-empty values.
func (c *checker) pattern(field, value string, re *regexp.Regexp) {
	if value != "" && !re.MatchString(value) {
		c.out = append(c.out, Violation{Field: field, Rule: RuleFormat})
	}
}

func (c *checker) date(field, value string) {
	if value == "" {
		return
	}
	if _, err := time.Parse(models.DateLayout, value); err != nil {
		c.out = append(c.out, Violation{Field: field, Rule: RuleFormat})
	}
}

// Validate checks rec against the field format contracts. Attribute values
// are checked against their catalog type.
func Validate(rec *models.Record, catalog *Catalog) []Violation {
	var c checker

	if c.required(FieldCode, rec.Code) {
		c.maxLen(FieldCode, rec.Code, 20)
	}
	if c.required(FieldFirstName, rec.FirstName) {
		c.maxLen(FieldFirstName, rec.FirstName, 50)
	}
	c.maxLen(FieldMiddleName, rec.MiddleName, 50)
	if c.required(FieldLastName, rec.LastName) {
		c.maxLen(FieldLastName, rec.LastName, 50)
	}
	if c.required(FieldJoinedOn, rec.JoinedOn) {
		c.date(FieldJoinedOn, rec.JoinedOn)
	}
	c.pattern(FieldNationalID, rec.NationalID, nationalIDPattern)
	c.pattern(FieldEmail, rec.Email, emailPattern)
	c.maxLen(FieldEmail, rec.Email, 100)

	for i, a := range rec.Addresses {
		c.pattern(RowField(Addresses, i, "pincode"), a.Pincode, pincodePattern)
		c.pattern(RowField(Addresses, i, "mobile"), a.Mobile, mobilePattern)
	}

	for i, b := range rec.BankAccounts {
		c.pattern(RowField(BankAccounts, i, "accountNo"), b.AccountNo, accountNoPattern)
		c.pattern(RowField(BankAccounts, i, "routingCode"), b.RoutingCode, routingCodePattern)
	}

	for i, a := range rec.Attributes {
		checkAttributeValue(&c, i, a, catalog)
	}

	for i, cert := range rec.Certificates {
		c.date(RowField(Certificates, i, "issueDate"), cert.IssueDate)
	}

	return c.out
}

func checkAttributeValue(c *checker, index int, a models.AttributeAssignment, catalog *Catalog) {
	if a.Value == "" {
		return
	}
	var allowed []string
	if catalog != nil {
		allowed = catalog.Resolve(a.AttributeID).AllowedValues
	}
	if a.ValueType.CheckValue(a.Value, allowed) {
		return
	}

	rule := RuleFormat
	if a.ValueType == models.ValueChoice {
		rule = RuleRange
	}
	c.out = append(c.out, Violation{Field: RowField(Attributes, index, "value"), Rule: rule})
}

// FilterSparse returns a copy of rec without the sub-records that carry too
// little to be worth sending. Applying it twice gives the same result.
func FilterSparse(rec models.Record) models.Record {
	rec.Addresses = keep(rec.Addresses, models.Address.IsSparse)
	rec.BankAccounts = keep(rec.BankAccounts, models.BankAccount.IsSparse)
	rec.Attributes = keep(rec.Attributes, models.AttributeAssignment.IsSparse)
	rec.Certificates = keep(rec.Certificates, models.Certificate.IsSparse)
	return rec
}

func keep[T any](items []T, sparse func(T) bool) []T {
	out := make([]T, 0, len(items))
	for _, it := range items {
		if !sparse(it) {
			out = append(out, it)
		}
	}
	return out
}
