package domain

import "time"

type DocumentType string

const (
	DocumentTypeIDCard              DocumentType = "id_card"
	DocumentTypeProofOfAddress      DocumentType = "proof_of_address"
	DocumentTypeBirthCertificate    DocumentType = "birth_certificate"
	DocumentTypeMarriageCertificate DocumentType = "marriage_certificate"
	DocumentTypeDeathCertificate    DocumentType = "death_certificate"
	DocumentTypeOther               DocumentType = "other"
)

func (t DocumentType) Valid() bool {
	switch t {
	case DocumentTypeIDCard, DocumentTypeProofOfAddress, DocumentTypeBirthCertificate,
		DocumentTypeMarriageCertificate, DocumentTypeDeathCertificate, DocumentTypeOther:
		return true
	}
	return false
}

type Document struct {
	ID           int32        `json:"id"`
	UserID       int32        `json:"user_id"`
	DocumentType DocumentType `json:"document_type"`
	Title        string       `json:"title"`
	File         string       `json:"file"`
	Status       ReviewStatus `json:"status"`
	Review
	CreatedOn time.Time `json:"created_on"`
	UpdatedOn time.Time `json:"updated_on"`
}

func (d *Document) EntityID() int32       { return d.ID }
func (d *Document) OwnerID() int32        { return d.UserID }
func (d *Document) CurrentStatus() string { return string(d.Status) }
