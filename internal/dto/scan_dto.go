package dto

import "github.com/google/uuid"

// ReplaceSeedsRequest swaps the whole active shelf for a new scan result.
type ReplaceSeedsRequest struct {
	Books []BookPayload `json:"books" validate:"required,min=1,dive"`
}

type ReplaceSeedsResponse struct {
	SeedIds           []uuid.UUID `json:"seed_ids"`
	Count             int         `json:"count"`
	PendingEmbeddings int         `json:"pending_embeddings"`
}

type ListSeedsResponse struct {
	Seeds []BookResponse `json:"seeds"`
	Count int            `json:"count"`
}
