package charity

import (
	"context"
	"errors"

	"charity-web/internal/providers/charityapi"
	"charity-web/internal/types"
)

// Lister is the charities API client surface used by APISource
type Lister interface {
	List(ctx context.Context) (*charityapi.ListAPIResponse, error)
}

// APISource adapts the charities API client to Source
type APISource struct {
	client Lister
}

func NewAPISource(client Lister) *APISource {
	return &APISource{client: client}
}

func (s *APISource) ListCharities(ctx context.Context) ([]types.Charity, error) {
	resp, err := s.client.List(ctx)
	if err != nil {
		var apiErr *charityapi.APIError
		if errors.As(err, &apiErr) && apiErr.StatusCode < 500 && apiErr.Message != "" {
			return nil, types.NewLookupError(apiErr.Message, err)
		}
		return nil, err
	}
	if resp.Error != "" {
		return nil, types.NewLookupError(resp.Error, errors.New("charities API reported an error"))
	}

	charities := make([]types.Charity, 0, len(resp.Charities))
	for _, r := range resp.Charities {
		charities = append(charities, types.Charity{
			ID:          r.ID,
			Name:        r.Name,
			Description: r.Description,
			Image:       r.Img,
			Methods:     r.Methods,
		})
	}
	return charities, nil
}
