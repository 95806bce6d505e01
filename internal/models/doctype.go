package models

import (
	"fmt"
	"strings"
)

// DocType selects one of the two identity-document slots on a user.
type DocType string

const (
	DocTypeSelfie   DocType = "selfie"
	DocTypeDocument DocType = "document"
)

var validDocTypes = map[DocType]struct{}{
	DocTypeSelfie:   {},
	DocTypeDocument: {},
}

// DocTypes lists the accepted slot names in a stable order.
func DocTypes() []DocType {
	return []DocType{DocTypeSelfie, DocTypeDocument}
}

func ParseDocType(raw string) (DocType, error) {
	value := DocType(strings.ToLower(strings.TrimSpace(raw)))
	if value == "" {
		return "", fmt.Errorf("doctype is required")
	}
	if _, ok := validDocTypes[value]; !ok {
		return "", fmt.Errorf("invalid doctype: %s (valid types are %q and %q)", value, DocTypeSelfie, DocTypeDocument)
	}
	return value, nil
}
