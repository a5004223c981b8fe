package charityapi

import "charity-web/internal/types"

// CharityRecord is one entry of the charities endpoint
type CharityRecord struct {
	ID          types.CharityID `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Img         string          `json:"img"`
	Methods     []string        `json:"methods"`
}

// ListAPIResponse is the envelope form of the charities endpoint. Some
// deployments return a bare array instead, which decodes into Charities too.
type ListAPIResponse struct {
	Charities []CharityRecord `json:"charities"`
	Error     string          `json:"error"`
}
