package models

import (
	"path/filepath"
	"strings"
)

type DocumentType string

const (
	DocIDCopy              DocumentType = "id_copy"
	DocProofOfResidence    DocumentType = "proof_of_residence"
	DocProofOfOwnership    DocumentType = "proof_of_ownership"
	DocSitePlan            DocumentType = "site_plan"
	DocEnvironmentalImpact DocumentType = "environmental_impact"
	DocBoreholeCertificate DocumentType = "borehole_certificate"
	DocCapacityTest        DocumentType = "capacity_test"
	DocWaterQualityTest    DocumentType = "water_quality_test"
	DocOther               DocumentType = "other"
)

var documentTypeHumanName = map[DocumentType]string{
	DocIDCopy:              "ID Copy",
	DocProofOfResidence:    "Proof of Residence",
	DocProofOfOwnership:    "Proof of Ownership",
	DocSitePlan:            "Site Plan",
	DocEnvironmentalImpact: "Environmental Impact Assessment",
	DocBoreholeCertificate: "Borehole Certificate",
	DocCapacityTest:        "Capacity Test",
	DocWaterQualityTest:    "Water Quality Test",
	DocOther:               "Other",
}

func (d DocumentType) ToHuman() string {
	if human, exist := documentTypeHumanName[d]; exist {
		return human
	}
	return string(d)
}

func (d DocumentType) IsValid() bool {
	_, ok := documentTypeHumanName[d]
	return ok
}

// RequiredDocuments must all be attached before an application can be submitted.
var RequiredDocuments = []DocumentType{DocIDCopy, DocProofOfResidence, DocProofOfOwnership}

// extension -> mime type
var allowedFileTypes = map[string]string{
	"pdf":  "application/pdf",
	"jpg":  "image/jpeg",
	"jpeg": "image/jpeg",
	"png":  "image/png",
	"doc":  "application/msword",
	"docx": "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
}

// FileContentType returns the mime type for an allowed file name.
func FileContentType(fileName string) (contentType string, ok bool) {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(fileName)), ".")
	if ext == "" {
		return "", false
	}
	contentType, ok = allowedFileTypes[ext]
	return contentType, ok
}
