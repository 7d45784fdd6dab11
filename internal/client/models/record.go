// Package models defines the record being edited, its sub-records and the
// lightweight projections used for listing and caching.
package models

import "strings"

// Record is the composite entity edited by the wizard. ID is zero for a
// record that has not been created remotely yet.
type Record struct {
	ID         int64  `json:"employeeId,omitempty"`
	Code       string `json:"employeeCode"`
	FirstName  string `json:"firstName"`
	MiddleName string `json:"middleName"`
	LastName   string `json:"lastName"`
	JoinedOn   string `json:"dateOfJoining"`
	NationalID string `json:"aadharNo"`
	Email      string `json:"emailId"`
	Active     bool   `json:"activeStatus"`

	Addresses    []Address             `json:"addresses"`
	BankAccounts []BankAccount         `json:"banks"`
	Attributes   []AttributeAssignment `json:"attributes"`
	Certificates []Certificate         `json:"certificates"`
}

func (r *Record) IsNew() bool {
	return r.ID == 0
}

func (r *Record) FullName() string {
	return r.FirstName + " " + r.LastName
}

// ToListingEntry projects the record down to the fields used for browsing.
func (r *Record) ToListingEntry() ListingEntry {
	return ListingEntry{
		ID:        r.ID,
		Code:      r.Code,
		FirstName: r.FirstName,
		LastName:  r.LastName,
		Email:     r.Email,
		Active:    r.Active,
	}
}

type Address struct {
	Line1   string `json:"addressLine1"`
	Line2   string `json:"addressLine2"`
	Line3   string `json:"addressLine3"`
	City    string `json:"city"`
	Pincode string `json:"pincode"`
	Mobile  string `json:"mobile"`
}

// IsSparse reports whether the address carries none of the fields that make
// it worth sending.
func (a Address) IsSparse() bool {
	return blank(a.Line1) && blank(a.City) && blank(a.Pincode) && blank(a.Mobile)
}

type BankAccount struct {
	BankName    string `json:"bankName"`
	BranchName  string `json:"branchName"`
	AccountNo   string `json:"accountNo"`
	RoutingCode string `json:"ifscCode"`
}

func (b BankAccount) IsSparse() bool {
	return blank(b.BankName) || blank(b.AccountNo) || blank(b.RoutingCode)
}

// AttributeAssignment binds one catalog attribute to a value on the record.
type AttributeAssignment struct {
	AttributeID int64     `json:"attributeId"`
	Name        string    `json:"attributeName"`
	Value       string    `json:"value"`
	ValueType   ValueType `json:"dataType"`
}

func (a AttributeAssignment) IsSparse() bool {
	return blank(a.Name) || blank(a.Value)
}

// Certificate may carry a pending File until the submission pipeline uploads
// it and records FilePath. File never leaves the process.
type Certificate struct {
	Name      string      `json:"certificateName"`
	Issuer    string      `json:"issuer"`
	IssueDate string      `json:"issueDate"`
	Verified  bool        `json:"verifiedStatus"`
	FilePath  string      `json:"filePath,omitempty"`
	File      *Attachment `json:"-"`
}

func (c Certificate) IsSparse() bool {
	return blank(c.Name) || blank(c.Issuer)
}

// Attachment is a binary artifact waiting to be uploaded.
type Attachment struct {
	Name        string
	ContentType string
	Data        []byte
}

func (a *Attachment) Size() int {
	if a == nil {
		return 0
	}
	return len(a.Data)
}

func blank(s string) bool {
	return strings.TrimSpace(s) == ""
}
